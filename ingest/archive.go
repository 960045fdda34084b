package ingest

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/venicegeo/bf-acquisition-ingest/formats"
)

// Archiver keeps a copy of every processed package
type Archiver interface {
	// Archive stores zipPath under name and returns where it was stored
	Archive(zipPath, name string) (string, error)
}

// ArchiveName is the name a package is archived under. An explicit format
// is folded into the name so that a later batch run can detect it:
// "<callId>_<format><rest>", rest being the name after its call id.
func ArchiveName(zipPath string, detection formats.Detection) string {
	base := filepath.Base(zipPath)
	if !detection.Hinted {
		return base
	}
	rest := base[len(formats.PackageTokens(base)[0]):]
	if filepath.Ext(rest) == "" {
		rest += ".zip"
	}
	return detection.CallID + "_" + string(detection.Format) + rest
}

// DirArchiver copies packages into a directory
type DirArchiver struct {
	Dir string
}

// Archive implements Archiver. A package that already is the archive copy is left alone.
func (a DirArchiver) Archive(zipPath, name string) (string, error) {
	dst := filepath.Join(a.Dir, name)
	same, err := samePath(zipPath, dst)
	if err != nil {
		return "", err
	}
	if same {
		return dst, nil
	}

	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", errors.Wrapf(err, "create %s", a.Dir)
	}
	if err := copyFile(zipPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, errors.WithStack(err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return absA == absB, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open %s", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "copy %s to %s", src, dst)
	}
	return errors.Wrapf(out.Close(), "close %s", dst)
}
