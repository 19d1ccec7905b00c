package bin

import "fmt"

// MalformedRecordError reports a fixed-size record that cannot be parsed.
type MalformedRecordError struct {
	Record string // record kind, e.g. "region 3"
	Expect string // structural expectation that was violated
	Got    string // optional description of what was found
	Offset int    // absolute byte offset of the violation
}

func (e *MalformedRecordError) Error() string {
	if e.Got != "" {
		return fmt.Sprintf("%s: malformed at offset %d: expected %s, got %s", e.Record, e.Offset, e.Expect, e.Got)
	}

	return fmt.Sprintf("%s: malformed at offset %d: expected %s", e.Record, e.Offset, e.Expect)
}

// OutOfRangeError reports an offset/size that points outside of a buffer.
type OutOfRangeError struct {
	What   string // what was being read
	Offset int    // start offset of the access
	Length int    // requested length
	Limit  int    // buffer length
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: range [%d,%d) exceeds buffer length %d", e.What, e.Offset, e.Offset+e.Length, e.Limit)
}

// FieldTooLargeError reports an edited field that no longer fits its fixed container.
type FieldTooLargeError struct {
	Field string
	Size  int
	Limit int
}

func (e *FieldTooLargeError) Error() string {
	return fmt.Sprintf("%s: encoded size %d exceeds available space %d", e.Field, e.Size, e.Limit)
}
