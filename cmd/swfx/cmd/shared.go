package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/turnforge/swfx/internal/budget"
	"github.com/turnforge/swfx/internal/config"
	"github.com/turnforge/swfx/internal/extractor"
	"github.com/turnforge/swfx/internal/fixture"
	"github.com/turnforge/swfx/internal/obs"
	"github.com/turnforge/swfx/internal/store"
)

// openExtractor loads the JSON tag bundle at path and wraps it in an
// Extractor configured per cfg's error mask.
func openExtractor(path string, cfg config.Config) (*extractor.Extractor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("swfx: reading %s: %w", path, err)
	}
	bundle, err := fixture.Load(data)
	if err != nil {
		return nil, err
	}
	ex := extractor.New(bundle.Tags, bundle.DisplayBounds, cfg.ErrorMask)
	ex.Logger = obs.Logger()
	return ex, nil
}

// writeSVG persists one rendered SVG document under key, to cfg.S3Bucket
// when configured, otherwise to a file under cfg.OutputDir (SPEC_FULL.md
// §4.10).
func writeSVG(cfg config.Config, key, svg string) error {
	ctx := context.Background()
	if cfg.S3Bucket != "" {
		sink, err := store.NewS3(ctx, cfg.S3Bucket, cfg.S3Endpoint, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			return err
		}
		return sink.Put(ctx, key, []byte(svg))
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("swfx: creating %s: %w", cfg.OutputDir, err)
	}
	path := filepath.Join(cfg.OutputDir, key)
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("swfx: writing %s: %w", path, err)
	}
	return nil
}

// startMemoryWatch starts a background budget.Governor ticking every second
// against ex, with cfg.MemoryBudgetPct as its budget, when cfg.WatchMemory is
// set (SPEC_FULL.md §5), so a long-running
// render or timeline command can release dictionary caches under memory
// pressure without waiting for the command to finish. The returned stop func
// must be deferred by the caller; it is a no-op when watching was disabled.
func startMemoryWatch(cfg config.Config, ex *extractor.Extractor) (stop func()) {
	if !cfg.WatchMemory {
		return func() {}
	}
	done := make(chan struct{})
	gov := budget.NewGovernor(ex)
	gov.BudgetPct = cfg.MemoryBudgetPct
	gov.Logger = ex.Logger
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = gov.Check(nil)
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
