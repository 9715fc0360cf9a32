package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/turnforge/swfx/internal/errmask"
)

func TestLoadAppliesDefaultsWithNoOverrides(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, v)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("fs.Parse() error = %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UseFileBounds {
		t.Error("UseFileBounds should default to true")
	}
	if cfg.MemoryBudgetPct != 0.75 {
		t.Errorf("MemoryBudgetPct = %v, want 0.75", cfg.MemoryBudgetPct)
	}
	if cfg.ErrorMask != 0 {
		t.Errorf("ErrorMask = %v, want 0 with no flags set", cfg.ErrorMask)
	}
}

func TestLoadTranslatesErrorMaskFlags(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, v)
	if err := fs.Parse([]string{"--circular-reference", "--unprocessable-data"}); err != nil {
		t.Fatalf("fs.Parse() error = %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.ErrorMask.Has(errmask.CircularReference) {
		t.Error("expected CircularReference bit set")
	}
	if !cfg.ErrorMask.Has(errmask.UnprocessableData) {
		t.Error("expected UnprocessableData bit set")
	}
	if cfg.ErrorMask.Has(errmask.IgnoreInvalidTag) {
		t.Error("IgnoreInvalidTag should not be set")
	}
}

func TestLoadTranslatesWatchMemoryFlag(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, v)
	if err := fs.Parse([]string{"--watch-memory"}); err != nil {
		t.Fatalf("fs.Parse() error = %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.WatchMemory {
		t.Error("WatchMemory should be true when --watch-memory is passed")
	}
}
