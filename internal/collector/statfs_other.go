//go:build !linux

// Stub Provider for non-Linux builds.
// Every query fails with ErrUnsupportedPlatform.

package collector

// osProvider is a no-op Provider for platforms without statfs support.
type osProvider struct{}

// NewOSProvider returns the stub Provider.
func NewOSProvider() Provider {
	return osProvider{}
}

// Statvfs always fails on this platform.
func (osProvider) Statvfs(path string) (Raw, error) {
	return Raw{}, ErrUnsupportedPlatform
}

func osSupported() bool { return false }
