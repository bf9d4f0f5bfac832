//go:build linux

package probe

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Statfs queries filesystem statistics for path with statfs(2).
func Statfs(path string) (StatfsInfo, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return StatfsInfo{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	return StatfsInfo{
		Type:        int64(st.Type),  //nolint:unconvert // int32 on some architectures
		BlockSize:   int64(st.Bsize), //nolint:unconvert // int32 on some architectures
		Blocks:      st.Blocks,
		FreeBlocks:  st.Bfree,
		AvailBlocks: st.Bavail,
		Files:       st.Files,
		FreeFiles:   st.Ffree,
		FSID:        [2]int32{st.Fsid.Val[0], st.Fsid.Val[1]},
		NameLen:     int64(st.Namelen), //nolint:unconvert // int32 on some architectures
	}, nil
}

// Uname returns the kernel identification from uname(2).
func Uname() (UnameInfo, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return UnameInfo{}, fmt.Errorf("uname: %w", err)
	}
	return UnameInfo{
		Sysname:    unix.ByteSliceToString(u.Sysname[:]),
		Nodename:   unix.ByteSliceToString(u.Nodename[:]),
		Release:    unix.ByteSliceToString(u.Release[:]),
		Version:    unix.ByteSliceToString(u.Version[:]),
		Machine:    unix.ByteSliceToString(u.Machine[:]),
		Domainname: unix.ByteSliceToString(u.Domainname[:]),
	}, nil
}
