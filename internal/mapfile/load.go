package mapfile

import (
	"github.com/pkg/errors"

	"github.com/woozymasta/fleet-scenario-tool/internal/gamefiles"
)

// Load reads and decodes a map file from disk.
func Load(path string, opts Options) (*File, error) {
	data, err := gamefiles.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read map %s", path)
	}

	f, err := Decode(data, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "load map %s", path)
	}

	return f, nil
}

// Save encodes a map file and writes it to path.
func (f *File) Save(path string) error {
	data, err := f.Encode()
	if err != nil {
		return errors.Wrapf(err, "encode map %s", path)
	}

	return errors.Wrapf(gamefiles.WriteFile(path, data), "write map %s", path)
}
