//go:build !linux && !darwin

package platform

import (
	"io/fs"
	"time"
)

// AccessTime is unavailable on this platform.
func AccessTime(info fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}

// ChangeTime is unavailable on this platform.
func ChangeTime(info fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}

// BirthTime is unavailable on this platform.
func BirthTime(info fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
