package bin

// Cursor is a bounds-checked forward reader over an in-memory buffer.
// Offsets reported in errors are absolute: Base + position.
type Cursor struct {
	data []byte
	pos  int
	Base int // absolute offset of data[0] inside the owning file
}

// NewCursor creates a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current position relative to the cursor data.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the total length of the cursor data.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Seek moves the cursor to an absolute position within its data.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.data) {
		return &OutOfRangeError{What: "seek", Offset: c.Base + pos, Limit: c.Base + len(c.data)}
	}

	c.pos = pos
	return nil
}

// U8 reads one byte.
func (c *Cursor) U8() (byte, error) {
	if c.pos+1 > len(c.data) {
		return 0, c.short("u8", 1)
	}

	v := c.data[c.pos]
	c.pos++
	return v, nil
}

// U16 reads a little-endian 16-bit integer.
func (c *Cursor) U16() (uint16, error) {
	if c.pos+2 > len(c.data) {
		return 0, c.short("u16", 2)
	}

	v := ReadU16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

// Bytes reads n bytes. The returned slice aliases the cursor data.
func (c *Cursor) Bytes(n int, what string) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, c.short(what, n)
	}

	v := c.data[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

// CString reads bytes up to the next NUL. The NUL is consumed but not returned.
// terminated is false when the data ended before a NUL was found.
func (c *Cursor) CString() (raw []byte, terminated bool) {
	start := c.pos
	for c.pos < len(c.data) {
		if c.data[c.pos] == 0 {
			raw = c.data[start:c.pos]
			c.pos++
			return raw, true
		}
		c.pos++
	}

	return c.data[start:], false
}

// Peek returns the byte at the current position without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.pos >= len(c.data) {
		return 0, false
	}

	return c.data[c.pos], true
}

func (c *Cursor) short(what string, n int) error {
	return &OutOfRangeError{What: what, Offset: c.Base + c.pos, Length: n, Limit: c.Base + len(c.data)}
}
