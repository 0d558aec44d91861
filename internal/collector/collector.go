// Package collector reads filesystem statistics for a single path and maps
// them into the record forwarded to the collector.
package collector

import (
	"context"

	"github.com/Guliveer/dup/internal/models"
)

// Collector is the interface implemented by filesystem statistics sources.
type Collector interface {
	// Name returns the unique identifier for this collector.
	Name() string

	// Collect performs one measurement.
	// The context allows for cancellation and timeout control.
	Collect(ctx context.Context) (models.Statvfs, error)

	// IsAvailable checks if this collector can run on the current platform.
	IsAvailable() bool
}
