// Package budget implements C13: the memory budget governor mirroring
// spec.md §5's release_if_over_budget — comparing process RSS against a
// configured ceiling and releasing a Releaser's caches when crossed.
package budget

import (
	"context"
	"log/slog"
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/turnforge/swfx/internal/obs"
)

// Releaser is satisfied by extractor.Extractor: anything whose caches can
// be dropped to relieve memory pressure.
type Releaser interface {
	Release()
}

// MemStats reports current process RSS and the system memory ceiling
// budget percentages are measured against. Swapped out in tests so
// pressure can be simulated without reading real process memory (SPEC_FULL
// §4.9).
type MemStats func() (rss, total uint64, err error)

// GopsutilMemStats is the default MemStats reading the current process's
// RSS via gopsutil/v3/process and total system memory via gopsutil/v3/mem.
func GopsutilMemStats() (rss, total uint64, err error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, 0, err
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, err
	}
	return info.RSS, vm.Total, nil
}

// Governor periodically (or on-demand, via Check) compares process memory
// usage against a configured fraction of total system memory and releases
// target's caches when it's exceeded.
type Governor struct {
	Target          Releaser
	BudgetPct       float64 // default 0.75, spec.md §5
	Stats           MemStats
	Logger          *slog.Logger
}

// NewGovernor constructs a Governor with the default 75% budget and the
// real gopsutil-backed MemStats.
func NewGovernor(target Releaser) *Governor {
	return &Governor{Target: target, BudgetPct: 0.75, Stats: GopsutilMemStats}
}

// Check reads current memory stats and releases Target's caches if RSS
// exceeds BudgetPct of total system memory, or exceeds limit itself when
// limit is non-nil (spec.md §5's "limit (or 75% of the configured max)").
func (g *Governor) Check(limit *uint64) error {
	_, span := obs.StartSpan(context.Background(), "budget.Check")
	defer span.End()

	stats := g.Stats
	if stats == nil {
		stats = GopsutilMemStats
	}
	rss, total, err := stats()
	if err != nil {
		return err
	}
	ceiling := uint64(float64(total) * g.BudgetPct)
	if limit != nil {
		ceiling = *limit
	}
	if rss > ceiling {
		obs.Or(g.Logger).Warn("memory budget exceeded, releasing caches", "rss", rss, "ceiling", ceiling)
		g.Target.Release()
	}
	return nil
}
