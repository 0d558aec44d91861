package collector

import "errors"

// ErrUnsupportedPlatform is returned by the default provider on systems
// without a statfs implementation.
var ErrUnsupportedPlatform = errors.New("statvfs is not supported on this platform")

// Raw mirrors the counters of a statvfs(3) result.
type Raw struct {
	Bsize   uint64
	Frsize  uint64
	Blocks  uint64
	Bfree   uint64
	Bavail  uint64
	Files   uint64
	Ffree   uint64
	Favail  uint64
	Fsid    uint64
	Flags   uint64
	Namemax uint64
}

// Provider queries the operating system for filesystem statistics.
type Provider interface {
	Statvfs(path string) (Raw, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(path string) (Raw, error)

// Statvfs calls f(path).
func (f ProviderFunc) Statvfs(path string) (Raw, error) {
	return f(path)
}
