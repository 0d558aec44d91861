package collector

import "strings"

// Bits with no x/sys constant; their values match statvfs(3) on Linux.
const (
	FlagWrite     uint64 = 1 << 7
	FlagAppend    uint64 = 1 << 8
	FlagImmutable uint64 = 1 << 9
)

// mountFlagNames lists the recognized bits in ascending order.
// ST_VALID (1 << 5) and any other kernel-internal bits are intentionally absent.
var mountFlagNames = []struct {
	bit  uint64
	name string
}{
	{FlagReadOnly, "ST_RDONLY"},
	{FlagNoSUID, "ST_NOSUID"},
	{FlagNoDev, "ST_NODEV"},
	{FlagNoExec, "ST_NOEXEC"},
	{FlagSynchronous, "ST_SYNCHRONOUS"},
	{FlagMandLock, "ST_MANDLOCK"},
	{FlagWrite, "ST_WRITE"},
	{FlagAppend, "ST_APPEND"},
	{FlagImmutable, "ST_IMMUTABLE"},
	{FlagNoAtime, "ST_NOATIME"},
	{FlagNoDirAtime, "ST_NODIRATIME"},
	{FlagRelAtime, "ST_RELATIME"},
}

// FormatMountFlags renders the recognized bits of flags as "ST_A | ST_B".
// Unrecognized bits are dropped; a value with no recognized bits renders as "(empty)".
func FormatMountFlags(flags uint64) string {
	var names []string
	for _, f := range mountFlagNames {
		if flags&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "(empty)"
	}
	return strings.Join(names, " | ")
}
