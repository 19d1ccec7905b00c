// Package bin provides the little-endian primitives, text codec and error
// types shared by the scenario and map file codecs.
package bin

import "errors"

// ReadU16 reads a little-endian 16-bit integer from a byte slice.
func ReadU16(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}

	return uint16(b[0]) | uint16(b[1])<<8
}

// U16At reads a little-endian 16-bit integer at offset, bounds-checked.
func U16At(data []byte, offset int, what string) (uint16, error) {
	if offset < 0 || offset+2 > len(data) {
		return 0, &OutOfRangeError{What: what, Offset: offset, Length: 2, Limit: len(data)}
	}

	return ReadU16(data[offset:]), nil
}

// WriteU16 writes a little-endian 16-bit integer into a byte slice.
func WriteU16(b []byte, v uint16) {
	if len(b) < 2 {
		return
	}

	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// WriteU16FromInt writes a 16-bit integer, rejecting values outside uint16.
func WriteU16FromInt(b []byte, v int) error {
	if v < 0 || v > 0xFFFF {
		return errors.New("value out of uint16 range")
	}
	if len(b) < 2 {
		return errors.New("buffer too small for uint16")
	}

	b[0] = byte(v)
	b[1] = byte(v >> 8)

	return nil
}

// Words decodes a byte slice into little-endian words. A trailing odd byte is ignored.
func Words(b []byte) []uint16 {
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = ReadU16(b[i*2:])
	}

	return out
}

// PutWords encodes words as little-endian bytes.
func PutWords(words []uint16) []byte {
	out := make([]byte, len(words)*2)
	for i, w := range words {
		WriteU16(out[i*2:], w)
	}

	return out
}
