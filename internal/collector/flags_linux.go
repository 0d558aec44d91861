//go:build linux

package collector

import "golang.org/x/sys/unix"

// Mount flag bits as reported in statfs(2) f_flags.
const (
	FlagReadOnly    uint64 = unix.ST_RDONLY
	FlagNoSUID      uint64 = unix.ST_NOSUID
	FlagNoDev       uint64 = unix.ST_NODEV
	FlagNoExec      uint64 = unix.ST_NOEXEC
	FlagSynchronous uint64 = unix.ST_SYNCHRONOUS
	FlagMandLock    uint64 = unix.ST_MANDLOCK
	FlagNoAtime     uint64 = unix.ST_NOATIME
	FlagNoDirAtime  uint64 = unix.ST_NODIRATIME
	FlagRelAtime    uint64 = unix.ST_RELATIME
)
