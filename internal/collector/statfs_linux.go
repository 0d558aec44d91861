//go:build linux

package collector

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// osProvider reads statistics with statfs(2).
type osProvider struct{}

// NewOSProvider returns the Provider backed by the running kernel.
func NewOSProvider() Provider {
	return osProvider{}
}

// Statvfs queries the filesystem containing path.
// Linux has no separate favail counter; it mirrors ffree as glibc does.
func (osProvider) Statvfs(path string) (Raw, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Raw{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	return Raw{
		Bsize:   uint64(st.Bsize),
		Frsize:  uint64(st.Frsize),
		Blocks:  st.Blocks,
		Bfree:   st.Bfree,
		Bavail:  st.Bavail,
		Files:   st.Files,
		Ffree:   st.Ffree,
		Favail:  st.Ffree,
		Fsid:    uint64(uint32(st.Fsid.Val[0])) | uint64(uint32(st.Fsid.Val[1]))<<32,
		Flags:   uint64(st.Flags),
		Namemax: uint64(st.Namelen),
	}, nil
}

func osSupported() bool { return true }
