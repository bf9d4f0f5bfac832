package probe

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// Usage is the managed view of a filesystem: byte totals as an application
// storage API reports them.
type Usage struct {
	// Total is the size of the filesystem in bytes.
	Total uint64
	// Free counts every unused byte, including blocks reserved for root.
	Free uint64
	// Available counts bytes usable by an unprivileged caller.
	Available uint64
}

// DiskUsager returns filesystem usage for a path.
type DiskUsager interface {
	Usage(ctx context.Context, path string) (Usage, error)
}

// GopsutilDisk is the default DiskUsager backed by gopsutil.
type GopsutilDisk struct{}

// Usage implements DiskUsager.
func (GopsutilDisk) Usage(ctx context.Context, path string) (Usage, error) {
	stat, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return Usage{}, fmt.Errorf("disk usage %s: %w", path, err)
	}
	// gopsutil's Free is the unprivileged figure; everything not used is free.
	return Usage{
		Total:     stat.Total,
		Free:      stat.Total - stat.Used,
		Available: stat.Free,
	}, nil
}
