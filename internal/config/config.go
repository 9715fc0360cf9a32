// Package config implements C11's configuration half: a Viper-backed
// Config loaded from $HOME/.swfx.yaml, SWFX_-prefixed environment
// variables, and flags, in that precedence order (SPEC_FULL.md §4.6).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/turnforge/swfx/internal/errmask"
)

// Config holds every knob the CLI and library entry points read at
// startup.
type Config struct {
	ErrorMask       errmask.Mask
	UseFileBounds   bool
	MemoryBudgetPct float64
	SubpixelStroke  bool
	OutputDir       string
	S3Bucket        string
	S3Endpoint      string
	S3AccessKeyID   string
	S3SecretKey     string
	WatchMemory     bool
}

// Defaults returns the Config used when no file, environment variable, or
// flag overrides a field.
func Defaults() Config {
	return Config{
		ErrorMask:       0,
		UseFileBounds:   true,
		MemoryBudgetPct: 0.75,
		SubpixelStroke:  false,
		OutputDir:       ".",
	}
}

// BindFlags registers this package's flags on fs and binds them into v,
// mirroring the teacher's cobra.OnInitialize + viper.BindPFlag wiring in
// cmd/cli/cmd/root.go.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) {
	d := Defaults()
	fs.Bool("use-file-bounds", d.UseFileBounds, "rewrite frame bounds to the file's declared display bounds")
	fs.Float64("memory-budget-pct", d.MemoryBudgetPct, "fraction of system memory that triggers a cache release")
	fs.Bool("subpixel-stroke", d.SubpixelStroke, "stored in the config only; the render and timeline commands always clamp strokes under 1px")
	fs.String("out", d.OutputDir, "output directory for rendered SVG files")
	fs.String("s3-bucket", "", "archive rendered frames to this S3 bucket instead of the local filesystem")
	fs.String("s3-endpoint", "", "custom S3-compatible endpoint (e.g. an R2 account endpoint), instead of AWS")
	fs.String("s3-access-key-id", "", "static access key id for --s3-endpoint; empty uses the default AWS credential chain")
	fs.String("s3-secret-key", "", "static secret key for --s3-endpoint")
	fs.Bool("ignore-invalid-tag", false, "downgrade malformed tags to a skip instead of erroring")
	fs.Bool("extra-data", false, "tolerate trailing/unexpected data after a record")
	fs.Bool("unprocessable-data", false, "raise on structural timeline violations instead of recovering locally")
	fs.Bool("circular-reference", false, "raise on a self-referential sprite instead of returning an empty timeline")
	fs.Bool("watch-memory", false, "run a background governor that releases dictionary caches under memory pressure")

	_ = v.BindPFlag("use_file_bounds", fs.Lookup("use-file-bounds"))
	_ = v.BindPFlag("memory_budget_pct", fs.Lookup("memory-budget-pct"))
	_ = v.BindPFlag("subpixel_stroke", fs.Lookup("subpixel-stroke"))
	_ = v.BindPFlag("output_dir", fs.Lookup("out"))
	_ = v.BindPFlag("s3_bucket", fs.Lookup("s3-bucket"))
	_ = v.BindPFlag("s3_endpoint", fs.Lookup("s3-endpoint"))
	_ = v.BindPFlag("s3_access_key_id", fs.Lookup("s3-access-key-id"))
	_ = v.BindPFlag("s3_secret_key", fs.Lookup("s3-secret-key"))
	_ = v.BindPFlag("ignore_invalid_tag", fs.Lookup("ignore-invalid-tag"))
	_ = v.BindPFlag("extra_data", fs.Lookup("extra-data"))
	_ = v.BindPFlag("unprocessable_data", fs.Lookup("unprocessable-data"))
	_ = v.BindPFlag("circular_reference", fs.Lookup("circular-reference"))
	_ = v.BindPFlag("watch_memory", fs.Lookup("watch-memory"))
}

// Load reads $HOME/.swfx.yaml (if present), SWFX_-prefixed environment
// variables, and whatever flags BindFlags registered, in ascending
// precedence, and returns the resolved Config.
func Load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("SWFX")
	v.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".swfx")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return Config{}, fmt.Errorf("swfx: reading %s: %w", filepath.Join(home, ".swfx.yaml"), err)
			}
		}
	}

	cfg := Defaults()
	cfg.UseFileBounds = v.GetBool("use_file_bounds")
	cfg.MemoryBudgetPct = v.GetFloat64("memory_budget_pct")
	cfg.SubpixelStroke = v.GetBool("subpixel_stroke")
	if out := v.GetString("output_dir"); out != "" {
		cfg.OutputDir = out
	}
	cfg.S3Bucket = v.GetString("s3_bucket")
	cfg.S3Endpoint = v.GetString("s3_endpoint")
	cfg.S3AccessKeyID = v.GetString("s3_access_key_id")
	cfg.S3SecretKey = v.GetString("s3_secret_key")
	cfg.WatchMemory = v.GetBool("watch_memory")

	var mask errmask.Mask
	if v.GetBool("ignore_invalid_tag") {
		mask |= errmask.IgnoreInvalidTag
	}
	if v.GetBool("extra_data") {
		mask |= errmask.ExtraData
	}
	if v.GetBool("unprocessable_data") {
		mask |= errmask.UnprocessableData
	}
	if v.GetBool("circular_reference") {
		mask |= errmask.CircularReference
	}
	cfg.ErrorMask = mask

	return cfg, nil
}
