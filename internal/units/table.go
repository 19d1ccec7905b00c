package units

import (
	"errors"
	"fmt"
)

// Options tune unit table decoding.
type Options struct {
	Policy SidePolicy
}

// Table is a decoded unit section. Its byte length never changes.
type Table struct {
	Category Category `json:"category"`
	Records  []Record `json:"records"`
	Partial  []byte   `json:"partial,omitempty"` // trailing bytes shorter than one frame

	policy SidePolicy
}

// Decode splits a section into 32-byte frames. Empty frames are kept as
// slots so the table re-encodes at its original length.
func Decode(section []byte, category Category, opts Options) (*Table, error) {
	if category == "" {
		return nil, errors.New("unit category is required")
	}

	policy := opts.Policy
	if policy == nil {
		policy = DefaultPolicy
	}

	t := &Table{Category: category, policy: policy}
	n := len(section) / FrameSize
	t.Records = make([]Record, 0, n)
	for slot := 0; slot < n; slot++ {
		t.Records = append(t.Records, decodeRecord(section[slot*FrameSize:(slot+1)*FrameSize], slot, policy))
	}

	if rest := section[n*FrameSize:]; len(rest) > 0 {
		t.Partial = append([]byte(nil), rest...)
	}

	return t, nil
}

// Encode writes every slot back followed by the partial remainder.
func (t *Table) Encode() []byte {
	out := make([]byte, 0, t.Size())
	for i := range t.Records {
		out = append(out, t.Records[i].frame()...)
	}

	return append(out, t.Partial...)
}

// WriteDirty copies the frames of edited records into section at their
// slot offsets and leaves every other byte alone. It returns the number of
// frames written.
func (t *Table) WriteDirty(section []byte) (int, error) {
	if len(section) != t.Size() {
		return 0, fmt.Errorf("%s unit table size changed: %d -> %d", t.Category, len(section), t.Size())
	}

	n := 0
	for i := range t.Records {
		r := &t.Records[i]
		if !r.dirty {
			continue
		}
		copy(section[i*FrameSize:], r.frame())
		n++
	}

	return n, nil
}

// Size returns the encoded byte length.
func (t *Table) Size() int {
	return len(t.Records)*FrameSize + len(t.Partial)
}

// Units returns the non-empty records.
func (t *Table) Units() []*Record {
	var out []*Record
	for i := range t.Records {
		if !t.Records[i].Empty {
			out = append(out, &t.Records[i])
		}
	}

	return out
}

// Slot returns the record stored at slot.
func (t *Table) Slot(slot int) (*Record, error) {
	if slot < 0 || slot >= len(t.Records) {
		return nil, fmt.Errorf("%s unit slot %d out of range [0,%d)", t.Category, slot, len(t.Records))
	}

	return &t.Records[slot], nil
}

// Add places a unit into the first empty slot and returns it.
func (t *Table) Add(templateID uint8, side Side, regionIndex, tileX, tileY uint16) (*Record, error) {
	for i := range t.Records {
		r := &t.Records[i]
		if !r.Empty {
			continue
		}

		r.Words = [FrameWords]uint16{}
		r.OwnerRaw = 0
		r.SetTemplateID(templateID)
		r.SetSide(side)
		r.SetRegionIndex(regionIndex)
		r.SetTile(tileX, tileY)

		return r, nil
	}

	return nil, fmt.Errorf("no free slots available in %s unit table", t.Category)
}

// Remove clears a slot to zeros.
func (t *Table) Remove(slot int) error {
	r, err := t.Slot(slot)
	if err != nil {
		return err
	}

	*r = Record{Slot: slot, policy: t.policy, Empty: true, dirty: true}
	r.derive()

	return nil
}
