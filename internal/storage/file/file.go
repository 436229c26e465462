// Package file implements the storage interfaces on plain files in the working
// directory: JSON for the metadata cache and holder snapshot, CSV for minters.
package file

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Default output file names.
const (
	DefaultHoldersPath  = "gib-holders.json"
	DefaultMetadataPath = "gib-meta.json"
	DefaultMintersPath  = "minters_information.csv"
	DefaultHashlistPath = "hashlist.json"
)

// writeFileAtomic writes data to a temp file next to path and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "rename to %s", path)
	}
	return nil
}
