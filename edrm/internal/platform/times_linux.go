//go:build linux

package platform

import (
	"io/fs"
	"syscall"
	"time"
)

// AccessTime extracts the last access time from file info.
func AccessTime(info fs.FileInfo) (time.Time, bool) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Atim.Sec, st.Atim.Nsec), true
	}
	return time.Time{}, false
}

// ChangeTime extracts the inode change time from file info.
func ChangeTime(info fs.FileInfo) (time.Time, bool) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec), true
	}
	return time.Time{}, false
}

// BirthTime is not recorded by Linux file systems through stat.
func BirthTime(info fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
