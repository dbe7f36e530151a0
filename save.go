package nli

import (
	"crypto/sha1"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"github.com/opencontainers/go-digest"

	"github.com/caseforge/nli/edrm"
)

// Container layout: the load file and its companions live under a metadata
// directory at the archive root; everything else mirrors the entry hierarchy.
const (
	metadataDir      = "._metadata"
	manifestName     = "image_contents.xml"
	manifestHashName = "image_contents.sha1_hash"
	metadataName     = "image_metadata.xml"
)

// Save builds the load file, stages every native under a temporary directory,
// and packages the result into a zip container at dest.
//
// The archive is written to a temporary file in dest's directory and renamed
// into place, so a failed save never leaves a partial container at dest.
// Tree invariant violations surface as their own errors (ErrDanglingParent,
// ErrCyclicParent); read and write failures surface as ErrPackaging.
func (g *Generator) Save(dest string) error {
	g.log().Info("building container", "entries", len(g.builder.EntryIDs()), "dest", dest)

	tmp, err := os.MkdirTemp("", "nli-*")
	if err != nil {
		return packagingErr("create staging directory", err)
	}
	defer os.RemoveAll(tmp)

	stage := filepath.Join(tmp, "stage")
	metaPath := filepath.Join(stage, metadataDir)
	if err := os.MkdirAll(metaPath, 0o750); err != nil {
		return packagingErr("create metadata directory", err)
	}

	// The load file itself. Build failures carry their own error identity
	// and are not wrapped as packaging errors.
	doc, err := g.builder.Build()
	if err != nil {
		return err
	}
	manifestPath := filepath.Join(metaPath, manifestName)
	if err := doc.WriteToFile(manifestPath); err != nil {
		return packagingErr("write load file", err)
	}

	if err := g.stageNatives(stage); err != nil {
		return err
	}

	if err := g.writeMetadataFile(filepath.Join(metaPath, metadataName)); err != nil {
		return packagingErr("write container properties", err)
	}
	if err := writeManifestHash(manifestPath, filepath.Join(metaPath, manifestHashName)); err != nil {
		return packagingErr("write load file digest", err)
	}

	dgst, err := writeArchive(stage, dest)
	if err != nil {
		return err
	}
	g.digest = dgst
	g.log().Info("container written", "dest", dest, "digest", dgst.String())
	return nil
}

// stageNatives lays out every entry's payload under the staging root:
// directories for folder entries, copied bytes for file-backed entries, and
// generated text artifacts for mapping-derived entries.
func (g *Generator) stageNatives(stage string) error {
	for _, id := range g.builder.EntryIDs() {
		entry, _ := g.builder.Entry(id)

		switch native := entry.(type) {
		case *edrm.DirectoryEntry:
			rel, err := g.builder.RelativePath(id)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Join(stage, filepath.FromSlash(rel)), 0o750); err != nil {
				return packagingErr("stage directory "+rel, err)
			}

		case edrm.NativeProvider:
			rel, err := g.builder.RelativePath(id)
			if err != nil {
				return err
			}
			dst := filepath.Join(stage, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
				return packagingErr("stage parent for "+rel, err)
			}
			g.log().Debug("staging native", "id", id, "path", rel)
			if err := copyFile(native.NativePath(), dst); err != nil {
				return packagingErr("stage native "+rel, err)
			}

		default:
			text, err := entry.Text()
			if err != nil {
				return fmt.Errorf("text for entry %s: %w", id, err)
			}
			if text == "" {
				continue
			}
			dst := filepath.Join(stage, edrm.GeneratedNativeDir, id)
			if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
				return packagingErr("stage generated natives directory", err)
			}
			g.log().Debug("staging generated native", "id", id)
			if err := os.WriteFile(dst, []byte(text), 0o640); err != nil {
				return packagingErr("stage generated native "+id, err)
			}
		}
	}
	return nil
}

// writeManifestHash writes the raw SHA-1 of the load file as a sidecar,
// letting consumers verify the manifest before ingesting.
func writeManifestHash(manifestPath, hashPath string) error {
	f, err := os.Open(manifestPath)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	return os.WriteFile(hashPath, h.Sum(nil), 0o640)
}

// writeArchive zips the staged tree into a temporary file next to dest and
// renames it into place, returning the archive's SHA-256.
func writeArchive(stage, dest string) (digest.Digest, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return "", packagingErr("create destination directory", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".nli-*")
	if err != nil {
		return "", packagingErr("create archive file", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	digester := digest.Canonical.Digester()
	zw := zip.NewWriter(io.MultiWriter(tmp, digester.Hash()))
	if err := addTreeToZip(zw, stage); err != nil {
		cleanup()
		return "", packagingErr("write archive", err)
	}
	if err := zw.Close(); err != nil {
		cleanup()
		return "", packagingErr("finalize archive", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", packagingErr("close archive", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", packagingErr("publish archive", err)
	}
	return digester.Digest(), nil
}

// addTreeToZip writes the staged tree into the archive, preserving relative
// paths and modification times.
func addTreeToZip(zw *zip.Writer, stage string) error {
	return filepath.WalkDir(stage, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(stage, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = rel
		if d.IsDir() {
			header.Name += "/"
			_, err := zw.CreateHeader(header)
			return err
		}

		header.Method = zip.Deflate
		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func packagingErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPackaging, op, err)
}
