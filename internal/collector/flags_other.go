//go:build !linux

package collector

// Mount flag bits with their Linux statvfs(3) values.
const (
	FlagReadOnly    uint64 = 1 << 0
	FlagNoSUID      uint64 = 1 << 1
	FlagNoDev       uint64 = 1 << 2
	FlagNoExec      uint64 = 1 << 3
	FlagSynchronous uint64 = 1 << 4
	FlagMandLock    uint64 = 1 << 6
	FlagNoAtime     uint64 = 1 << 10
	FlagNoDirAtime  uint64 = 1 << 11
	FlagRelAtime    uint64 = 1 << 12
)
