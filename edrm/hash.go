package edrm

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// hashBufferSize bounds memory use when digesting large natives.
const hashBufferSize = 64 * 1024

// HashFile digests the contents of the file at path and returns the
// hex-encoded sum.
func HashFile(path string, h hash.Hash) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, hashBufferSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashData digests the string form of v and returns the hex-encoded sum.
func HashData(v any, h hash.Hash) string {
	fmt.Fprint(h, v)
	return hex.EncodeToString(h.Sum(nil))
}

// HashDirectory digests a directory's contents: the name and bytes of every
// regular file, walked recursively in lexical order.
func HashDirectory(dir string, h hash.Hash) (string, error) {
	buf := make([]byte, hashBufferSize)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fmt.Fprint(h, d.Name())
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.CopyBuffer(h, f, buf)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("hash directory %s: %w", dir, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
