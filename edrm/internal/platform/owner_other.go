//go:build !unix

package platform

import "io/fs"

// Owner is unavailable on this platform.
func Owner(info fs.FileInfo) (string, bool) {
	return "", false
}
