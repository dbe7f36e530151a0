//go:build unix

package platform

import (
	"io/fs"
	"os/user"
	"strconv"
	"syscall"
)

// Owner resolves the owning user name from file info.
func Owner(info fs.FileInfo) (string, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", false
	}
	u, err := user.LookupId(strconv.FormatUint(uint64(st.Uid), 10))
	if err != nil {
		return "", false
	}
	return u.Username, true
}
