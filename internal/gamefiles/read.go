package gamefiles

import (
	"io"
	"os"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
)

// ReadFile reads a whole file. The close error is returned when reading succeeded.
func ReadFile(path string) (data []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	return io.ReadAll(f)
}

// WriteFile writes data with the permissions used for all generated files.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o600)
}

// BlockSize is the scenario record size used by Sniff.
const BlockSize = 5883

// Sniff reads the leading count word and reports the kind the file size agrees with.
// It returns Unknown when the size fits neither container.
func Sniff(path string) (kind Kind, count int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	var hdr [2]byte
	if _, err = io.ReadFull(f, hdr[:]); err != nil {
		return Unknown, 0, err
	}

	st, err := f.Stat()
	if err != nil {
		return Unknown, 0, err
	}

	count = int(bin.ReadU16(hdr[:]))
	size := st.Size()

	switch {
	case count > 0 && size >= int64(2+count*BlockSize) && size < int64(2+(count+1)*BlockSize):
		return Scenario, count, nil
	case size >= int64(2+count*65+64):
		return Map, count, nil
	default:
		return Unknown, count, nil
	}
}
