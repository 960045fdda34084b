// Package formats parses the metadata conventions of each supported agency
// into normalized acquisition records.
package formats

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/venicegeo/bf-acquisition-ingest/model"
)

// Reader parses the metadata of one extracted package directory.
// Read returns a record whose MetadataPath is relative to dir, or an error of
// kind model.ErrEmptyPackage or model.ErrMalformedMetadata.
type Reader interface {
	Format() model.Format
	Read(dir string) (*model.Acquisition, error)
}

// parseFunc turns the content of a metadata file into a record.
// name is the metadata file base name.
type parseFunc func(name string, content []byte) (*model.Acquisition, error)

// fileReader locates the metadata file by extension and hands its content to a parseFunc
type fileReader struct {
	format     model.Format
	extensions []string
	// preferred names win over the alphabetical first match
	preferred []string
	// descend looks in the first subdirectory when the root has no metadata file
	descend bool
	parse   parseFunc
}

func (r fileReader) Format() model.Format {
	return r.format
}

func (r fileReader) Read(dir string) (*model.Acquisition, error) {
	relative, err := locateMetadata(dir, r.extensions, r.preferred, r.descend)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(dir, relative))
	if err != nil {
		return nil, model.NewKindError(model.ErrEmptyPackage, err, "read %s", relative)
	}

	record, err := r.parse(filepath.Base(relative), content)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s %s", r.format, relative)
	}
	record.MetadataPath = model.StringPtr(filepath.ToSlash(relative))
	return record, nil
}

// locateMetadata returns the path, relative to dir, of the metadata file:
// a preferred name if present, else the first file with one of the extensions
func locateMetadata(dir string, extensions, preferred []string, descend bool) (string, error) {
	files, err := ListFiles(dir, extensions...)
	if err != nil {
		return "", model.NewKindError(model.ErrEmptyPackage, err, "list %s", dir)
	}
	for _, want := range preferred {
		for _, name := range files {
			if strings.EqualFold(name, want) {
				return name, nil
			}
		}
	}
	if len(files) > 0 {
		return files[0], nil
	}

	if descend {
		subdirs, err := listDirectories(dir)
		if err != nil {
			return "", model.NewKindError(model.ErrEmptyPackage, err, "list %s", dir)
		}
		if len(subdirs) > 0 {
			files, err = ListFiles(filepath.Join(dir, subdirs[0]), extensions...)
			if err == nil && len(files) > 0 {
				return filepath.Join(subdirs[0], files[0]), nil
			}
		}
	}
	return "", model.NewKindError(model.ErrEmptyPackage, nil, "no %s file in %s", strings.Join(extensions, "/"), dir)
}

// ListFiles returns the sorted names of regular files in dir whose extension
// matches one of extensions, case-insensitively. No extensions matches every file.
func ListFiles(dir string, extensions ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if len(extensions) == 0 || hasExtension(entry.Name(), extensions) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, candidate := range extensions {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}

func listDirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// fileStem strips the extension from a file name
func fileStem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func parseFloat(field, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, model.NewKindError(model.ErrMalformedMetadata, err, "field %s", field)
	}
	return value, nil
}

func malformed(format string, args ...interface{}) error {
	return model.NewKindError(model.ErrMalformedMetadata, nil, format, args...)
}

// footprintError classifies geometry failures as malformed metadata
func footprintError(err error) error {
	return model.NewKindError(model.ErrMalformedMetadata, err, "footprint")
}

// optionalDate normalizes a date that may be absent
func optionalDate(raw *string) *string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	return model.StringPtr(model.NormalizeDate(*raw))
}
