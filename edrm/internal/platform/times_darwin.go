//go:build darwin

package platform

import (
	"io/fs"
	"syscall"
	"time"
)

// AccessTime extracts the last access time from file info.
func AccessTime(info fs.FileInfo) (time.Time, bool) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec), true
	}
	return time.Time{}, false
}

// ChangeTime extracts the inode change time from file info.
func ChangeTime(info fs.FileInfo) (time.Time, bool) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctimespec.Sec, st.Ctimespec.Nsec), true
	}
	return time.Time{}, false
}

// BirthTime extracts the creation time from file info.
func BirthTime(info fs.FileInfo) (time.Time, bool) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec), true
	}
	return time.Time{}, false
}
