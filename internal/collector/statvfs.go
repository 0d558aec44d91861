// Statvfs collector: reads capacity counters for one configured path.
// Uses statfs(2) through the Provider and gopsutil for mount lookup.

package collector

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/Guliveer/dup/internal/models"
)

// StatvfsCollector collects filesystem statistics for the filesystem holding path.
type StatvfsCollector struct {
	path     string
	provider Provider
	logger   *zap.Logger
}

// NewStatvfsCollector creates a collector for path. A nil provider selects
// the operating system implementation.
func NewStatvfsCollector(path string, provider Provider, logger *zap.Logger) *StatvfsCollector {
	if provider == nil {
		provider = NewOSProvider()
	}
	return &StatvfsCollector{
		path:     path,
		provider: provider,
		logger:   logger,
	}
}

// Name returns the collector identifier.
func (c *StatvfsCollector) Name() string { return "statvfs" }

// Path returns the inspected path.
func (c *StatvfsCollector) Path() string { return c.path }

// Collect queries the provider once and maps the result.
func (c *StatvfsCollector) Collect(ctx context.Context) (models.Statvfs, error) {
	if err := ctx.Err(); err != nil {
		return models.Statvfs{}, err
	}
	raw, err := c.provider.Statvfs(c.path)
	if err != nil {
		return models.Statvfs{}, err
	}
	stats := FromRaw(raw)
	c.logger.Debug("Collected filesystem statistics",
		zap.String("path", c.path),
		zap.Uint64("blocks", stats.Blocks),
		zap.Uint64("bfree", stats.Bfree))
	return stats, nil
}

// IsAvailable reports whether the OS provider works on this platform.
// Collectors built with an injected provider are always available.
func (c *StatvfsCollector) IsAvailable() bool {
	if _, ok := c.provider.(osProvider); ok {
		return osSupported()
	}
	return true
}

// FromRaw maps raw counters field-for-field and derives the usage percentages.
// There is no guard for zero blocks: the percentages become NaN.
func FromRaw(raw Raw) models.Statvfs {
	free := float64(raw.Bfree) / float64(raw.Blocks)
	return models.Statvfs{
		Bsize:    raw.Bsize,
		Frsize:   raw.Frsize,
		Blocks:   raw.Blocks,
		Bfree:    raw.Bfree,
		Bavail:   raw.Bavail,
		Files:    raw.Files,
		Ffree:    raw.Ffree,
		Favail:   raw.Favail,
		Fsid:     raw.Fsid,
		Flagstr:  FormatMountFlags(raw.Flags),
		Namemax:  raw.Namemax,
		UsedPerc: models.Percent((1 - free) * 100),
		FreePerc: models.Percent(free * 100),
	}
}

// ResolveMount returns the mounted partition that contains path.
func ResolveMount(ctx context.Context, path string) (disk.PartitionStat, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return disk.PartitionStat{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	partitions, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		return disk.PartitionStat{}, fmt.Errorf("listing partitions: %w", err)
	}

	p, ok := longestMount(partitions, abs)
	if !ok {
		return disk.PartitionStat{}, fmt.Errorf("no mount point contains %s", abs)
	}
	return p, nil
}

// longestMount picks the partition whose mount point is the longest prefix of path.
// Later entries win ties so that stacked mounts resolve to the topmost one.
func longestMount(partitions []disk.PartitionStat, path string) (disk.PartitionStat, bool) {
	var (
		best  disk.PartitionStat
		found bool
	)
	for _, p := range partitions {
		if !containsPath(p.Mountpoint, path) {
			continue
		}
		if !found || len(p.Mountpoint) >= len(best.Mountpoint) {
			best = p
			found = true
		}
	}
	return best, found
}

func containsPath(mount, path string) bool {
	if mount == "/" || mount == path {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(mount, "/")+"/")
}
