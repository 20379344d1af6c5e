package fsutil

import (
	"os"

	"github.com/pkg/errors"
)

// IsDirectory reports whether path is an existing directory. A missing path
// is not an error.
func IsDirectory(path string) (bool, error) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "could not stat %s", path)
	}
	return info.IsDir(), nil
}

// CreateDirectory creates path and any missing parents.
func CreateDirectory(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrapf(err, "could not create directory %s", path)
	}
	return nil
}

// EnsureDirectory creates path unless it is already a directory.
func EnsureDirectory(path string) error {
	ok, err := IsDirectory(path)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return CreateDirectory(path)
}

// WriteFile writes data to path, replacing any existing file.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "could not write %s", path)
	}
	return nil
}
