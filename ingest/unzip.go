package ingest

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsafeEntry is returned for archive entries that would land outside the target directory
var ErrUnsafeEntry = errors.New("zip entry escapes target directory")

// Unzip extracts a zip archive into dest, replacing anything already there
func Unzip(zipPath, dest string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return errors.Wrapf(err, "open %s", zipPath)
	}
	defer r.Close()

	if err := os.RemoveAll(dest); err != nil {
		return errors.Wrapf(err, "clear %s", dest)
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dest)
	}

	clean := filepath.Clean(dest)
	root := clean + string(os.PathSeparator)
	for _, f := range r.File {
		target := filepath.Join(dest, f.Name)
		if target != clean && !strings.HasPrefix(target, root) {
			return errors.Wrap(ErrUnsafeEntry, f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, "create %s", target)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(target))
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "open %s", f.Name)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "create %s", target)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errors.Wrapf(err, "extract %s", f.Name)
	}
	return errors.Wrapf(out.Close(), "close %s", target)
}
