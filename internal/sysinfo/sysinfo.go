// Package sysinfo samples local CPU, memory and disk usage with gopsutil.
package sysinfo

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/rileyhilliard/ktop/internal/snapshot"
)

// Collector gathers resource figures for the local host.
// The probe functions are fields so tests can substitute them.
type Collector struct {
	cpuPercent    func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	partitions    func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage         func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewCollector returns a collector backed by gopsutil.
func NewCollector() *Collector {
	return &Collector{
		cpuPercent:    cpu.PercentWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
		partitions:    disk.PartitionsWithContext,
		usage:         disk.UsageWithContext,
	}
}

// Sample returns per-core CPU utilization since the previous call, physical
// memory totals, and disk space summed over mounted physical volumes.
func (c *Collector) Sample(ctx context.Context) (snapshot.Resources, error) {
	var r snapshot.Resources

	// Interval 0 compares against the previous call instead of sleeping.
	percents, err := c.cpuPercent(ctx, 0, true)
	if err != nil {
		return r, fmt.Errorf("cpu usage: %w", err)
	}
	r.CPU = percents

	vm, err := c.virtualMemory(ctx)
	if err != nil {
		return r, fmt.Errorf("memory usage: %w", err)
	}
	r.MemTotal = vm.Total
	r.MemUsed = vm.Used

	r.DiskTotal, r.DiskUsed, err = c.diskTotals(ctx)
	if err != nil {
		return r, err
	}
	return r, nil
}

// diskTotals sums every mounted volume once. A device mounted at several
// points counts once; a volume that can't be statted is skipped.
func (c *Collector) diskTotals(ctx context.Context) (total, used uint64, err error) {
	parts, err := c.partitions(ctx, false)
	if err != nil {
		return 0, 0, fmt.Errorf("disk partitions: %w", err)
	}

	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		key := p.Device
		if key == "" {
			key = p.Mountpoint
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		u, err := c.usage(ctx, p.Mountpoint)
		if err != nil || u == nil {
			continue
		}
		total += u.Total
		// Space unavailable to the user counts as used, so used+free == total.
		if u.Total > u.Free {
			used += u.Total - u.Free
		}
	}
	return total, used, nil
}
