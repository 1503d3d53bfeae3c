package sysinfo

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubCollector() *Collector {
	return &Collector{
		cpuPercent: func(context.Context, time.Duration, bool) ([]float64, error) {
			return []float64{10, 30}, nil
		},
		virtualMemory: func(context.Context) (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Total: 16 << 30, Used: 4 << 30}, nil
		},
		partitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
			return []disk.PartitionStat{
				{Device: "/dev/sda1", Mountpoint: "/"},
				{Device: "/dev/sda1", Mountpoint: "/var/lib/docker"},
				{Device: "/dev/sdb1", Mountpoint: "/data"},
				{Device: "/dev/sdc1", Mountpoint: "/broken"},
			}, nil
		},
		usage: func(_ context.Context, path string) (*disk.UsageStat, error) {
			switch path {
			case "/":
				return &disk.UsageStat{Total: 100, Free: 40}, nil
			case "/data":
				return &disk.UsageStat{Total: 50, Free: 50}, nil
			case "/var/lib/docker":
				return &disk.UsageStat{Total: 100, Free: 40}, nil
			}
			return nil, errors.New("permission denied")
		},
	}
}

func TestSample_Aggregates(t *testing.T) {
	r, err := stubCollector().Sample(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 30}, r.CPU)
	assert.Equal(t, uint64(16<<30), r.MemTotal)
	assert.Equal(t, uint64(4<<30), r.MemUsed)
	assert.Equal(t, uint64(150), r.DiskTotal, "a device mounted twice counts once")
	assert.Equal(t, uint64(60), r.DiskUsed)
}

func TestSample_CPUFailure(t *testing.T) {
	c := stubCollector()
	c.cpuPercent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return nil, errors.New("no stat file")
	}

	_, err := c.Sample(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cpu usage")
}

func TestSample_MemoryFailure(t *testing.T) {
	c := stubCollector()
	c.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("no meminfo")
	}

	_, err := c.Sample(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory usage")
}

func TestSample_PartitionFailure(t *testing.T) {
	c := stubCollector()
	c.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return nil, errors.New("no mounts")
	}

	_, err := c.Sample(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk partitions")
}

func TestSample_FreeAboveTotalIsNotNegative(t *testing.T) {
	c := stubCollector()
	c.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{{Device: "x", Mountpoint: "/x"}}, nil
	}
	c.usage = func(context.Context, string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Total: 10, Free: 20}, nil
	}

	r, err := c.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), r.DiskUsed)
}

func TestSample_Live(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("live sampling only checked on linux and darwin")
	}
	r, err := NewCollector().Sample(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, r.CPU)
	for _, p := range r.CPU {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0+1e-6)
	}
	assert.Greater(t, r.MemTotal, uint64(0))
	assert.LessOrEqual(t, r.MemUsed, r.MemTotal)
}
