// Package units decodes the fixed-stride deployment tables stored in map
// pointer sections.
package units

import (
	"fmt"
	"strings"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
)

const (
	// FrameSize is the byte stride of one unit frame.
	FrameSize = 32
	// FrameWords is the number of 16-bit words in one frame.
	FrameWords = FrameSize / 2
)

// Category identifies a unit table.
type Category string

const (
	Air     Category = "air"
	Surface Category = "surface"
	Sub     Category = "sub"
)

// Categories lists unit categories in pointer order.
var Categories = []Category{Air, Surface, Sub}

// PointerSections maps unit table pointer indices to categories.
var PointerSections = map[int]Category{
	5:  Air,
	8:  Surface,
	11: Sub,
}

// SectionOf returns the pointer index holding a category table.
func SectionOf(c Category) (int, bool) {
	for idx, cat := range PointerSections {
		if cat == c {
			return idx, true
		}
	}

	return 0, false
}

// ParseCategory parses a category name.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case Air:
		return Air, nil
	case Surface, "srf":
		return Surface, nil
	case Sub, "submarine":
		return Sub, nil
	default:
		return "", fmt.Errorf("unknown unit category %q", s)
	}
}

// Side is the derived owning player.
type Side uint8

// SidePolicy derives the owning side from the raw owner byte and writes a side back.
type SidePolicy interface {
	Side(ownerRaw uint8) Side
	WithSide(ownerRaw uint8, side Side) uint8
}

// LowBits takes the side from the masked low bits of the owner byte.
type LowBits struct {
	Mask uint8
}

// Side implements SidePolicy.
func (p LowBits) Side(ownerRaw uint8) Side {
	return Side(ownerRaw & p.mask())
}

// WithSide implements SidePolicy.
func (p LowBits) WithSide(ownerRaw uint8, side Side) uint8 {
	m := p.mask()
	return ownerRaw&^m | uint8(side)&m
}

func (p LowBits) mask() uint8 {
	if p.Mask == 0 {
		return 0x03
	}

	return p.Mask
}

// SecondBit treats bit 1 as the two-player owner and leaves bit 0 alone.
type SecondBit struct{}

// Side implements SidePolicy.
func (SecondBit) Side(ownerRaw uint8) Side {
	return Side(ownerRaw >> 1 & 1)
}

// WithSide implements SidePolicy.
func (SecondBit) WithSide(ownerRaw uint8, side Side) uint8 {
	return ownerRaw&^0x02 | uint8(side&1)<<1
}

// DefaultPolicy is used when Options leaves the policy unset.
var DefaultPolicy SidePolicy = LowBits{Mask: 0x03}

// PolicyByName returns a side policy by its config name.
func PolicyByName(name string) (SidePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "low-bits", "lowbits":
		return DefaultPolicy, nil
	case "second-bit", "secondbit":
		return SecondBit{}, nil
	default:
		return nil, fmt.Errorf("unknown side policy %q", name)
	}
}

// Record is one 32-byte deployment frame.
type Record struct {
	Slot        int                `json:"slot"`
	TemplateID  uint8              `json:"template_id"`
	OwnerRaw    uint8              `json:"owner_raw"`
	Side        Side               `json:"side"`
	OwnerBit0   bool               `json:"owner_bit0"`
	OwnerBit1   bool               `json:"owner_bit1"`
	RegionIndex uint16             `json:"region_index"`
	TileX       uint16             `json:"tile_x"`
	TileY       uint16             `json:"tile_y"`
	Empty       bool               `json:"empty,omitempty"`
	Words       [FrameWords]uint16 `json:"-"`

	policy SidePolicy
	dirty  bool
}

// InRegion reports whether RegionIndex names a real region.
func (r *Record) InRegion(regionCount int) bool {
	return int(r.RegionIndex) < regionCount
}

// Dirty reports whether a setter touched the record.
func (r *Record) Dirty() bool {
	return r.dirty
}

// SetTemplateID changes the template id.
func (r *Record) SetTemplateID(id uint8) {
	r.TemplateID = id
	r.touch()
}

// SetSide rewrites the owner bits selected by the table's side policy.
func (r *Record) SetSide(side Side) {
	r.setOwner(r.policyOrDefault().WithSide(r.OwnerRaw, side))
}

// SetOwnerRaw replaces the whole owner byte.
func (r *Record) SetOwnerRaw(owner uint8) {
	r.setOwner(owner)
}

// SetRegionIndex changes the region index word.
func (r *Record) SetRegionIndex(idx uint16) {
	r.RegionIndex = idx
	r.touch()
}

// SetTile changes the tile coordinates.
func (r *Record) SetTile(x, y uint16) {
	r.TileX = x
	r.TileY = y
	r.touch()
}

func (r *Record) setOwner(owner uint8) {
	r.OwnerRaw = owner
	r.derive()
	r.touch()
}

func (r *Record) touch() {
	r.dirty = true
	r.Empty = false
}

func (r *Record) derive() {
	r.Side = r.policyOrDefault().Side(r.OwnerRaw)
	r.OwnerBit0 = r.OwnerRaw&0x01 != 0
	r.OwnerBit1 = r.OwnerRaw&0x02 != 0
}

func (r *Record) policyOrDefault() SidePolicy {
	if r.policy == nil {
		return DefaultPolicy
	}

	return r.policy
}

// frame returns the encoded 32 bytes. Untouched records return their words verbatim.
func (r *Record) frame() []byte {
	words := r.Words
	if r.dirty {
		words[0] = uint16(r.OwnerRaw)<<8 | uint16(r.TemplateID)
		words[1] = r.RegionIndex
		words[2] = r.TileX
		words[3] = r.TileY
	}

	return bin.PutWords(words[:])
}

func decodeRecord(frame []byte, slot int, policy SidePolicy) Record {
	r := Record{Slot: slot, policy: policy, Empty: true}
	for i := range r.Words {
		r.Words[i] = bin.ReadU16(frame[i*2:])
		if r.Words[i] != 0 {
			r.Empty = false
		}
	}

	r.TemplateID = uint8(r.Words[0])
	r.OwnerRaw = uint8(r.Words[0] >> 8)
	r.RegionIndex = r.Words[1]
	r.TileX = r.Words[2]
	r.TileY = r.Words[3]
	r.derive()

	return r
}
