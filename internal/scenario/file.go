package scenario

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
	"github.com/woozymasta/fleet-scenario-tool/internal/gamefiles"
)

// File is a decoded scenario container.
type File struct {
	Records []*Record
	Extra   []byte // bytes after the last block
}

// DecodeFile decodes a u16 count followed by count fixed-size blocks.
func DecodeFile(data []byte) (*File, error) {
	c := bin.NewCursor(data)
	count, err := c.U16()
	if err != nil {
		return nil, err
	}

	f := &File{Records: make([]*Record, 0, count)}
	for i := 0; i < int(count); i++ {
		base := c.Pos()
		b, err := c.Bytes(BlockSize, fmt.Sprintf("scenario %d", i))
		if err != nil {
			return nil, err
		}

		r, err := DecodeBlockAt(b, i, base)
		if err != nil {
			return nil, err
		}
		f.Records = append(f.Records, r)
	}

	if c.Remaining() > 0 {
		f.Extra = append([]byte(nil), data[c.Pos():]...)
	}

	return f, nil
}

// Encode writes the container. Every record must fit its block.
func (f *File) Encode() ([]byte, error) {
	out := make([]byte, 2, 2+len(f.Records)*BlockSize+len(f.Extra))
	if err := bin.WriteU16FromInt(out, len(f.Records)); err != nil {
		return nil, fmt.Errorf("scenario count %d: %w", len(f.Records), err)
	}

	for _, r := range f.Records {
		b, err := r.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}

	return append(out, f.Extra...), nil
}

// Record returns the record at index i.
func (f *File) Record(i int) (*Record, error) {
	if i < 0 || i >= len(f.Records) {
		return nil, fmt.Errorf("scenario index %d out of range [0,%d)", i, len(f.Records))
	}

	return f.Records[i], nil
}

// Add appends a blank record and returns it.
func (f *File) Add() *Record {
	r := NewBlank(len(f.Records))
	f.Records = append(f.Records, r)
	return r
}

// Duplicate appends a copy of record i, edits included.
func (f *File) Duplicate(i int) (*Record, error) {
	src, err := f.Record(i)
	if err != nil {
		return nil, err
	}

	b, err := src.Encode()
	if err != nil {
		return nil, err
	}

	r, err := DecodeBlock(b, len(f.Records))
	if err != nil {
		return nil, err
	}

	f.Records = append(f.Records, r)
	return r, nil
}

// Delete removes record i and renumbers the following records.
func (f *File) Delete(i int) error {
	if _, err := f.Record(i); err != nil {
		return err
	}

	f.Records = append(f.Records[:i], f.Records[i+1:]...)
	for j := i; j < len(f.Records); j++ {
		f.Records[j].Index = j
	}

	return nil
}

// Load reads and decodes a scenario file.
func Load(path string) (*File, error) {
	data, err := gamefiles.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenarios %s", path)
	}

	f, err := DecodeFile(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load scenarios %s", path)
	}

	return f, nil
}

// Save encodes the container and writes it to path.
func (f *File) Save(path string) error {
	data, err := f.Encode()
	if err != nil {
		return errors.Wrapf(err, "encode scenarios %s", path)
	}

	return errors.Wrapf(gamefiles.WriteFile(path, data), "write scenarios %s", path)
}
