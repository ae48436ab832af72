package bits

import (
	"fmt"
	"strings"
)

// MaxRegisterNames is the widest channel set a Register can hold.
const MaxRegisterNames = 32

// Register packs up to 32 named flags into a uint32.
type Register struct {
	names *Names
	bits  uint32
}

// NewRegister returns an empty register over names.
func NewRegister(names *Names) Register {
	if names.Len() > MaxRegisterNames {
		panic(fmt.Sprintf("bits: %d names do not fit a register", names.Len()))
	}
	return Register{names: names}
}

// RegisterOf returns a register with the raw bits already set.
func RegisterOf(names *Names, raw uint32) Register {
	r := NewRegister(names)
	r.bits = raw
	return r
}

// Names returns the shared name table.
func (r Register) Names() *Names { return r.names }

// Bits returns the raw packed value.
func (r Register) Bits() uint32 { return r.bits }

// Mask returns the precomputed mask for name.
func (r Register) Mask(name string) uint32 { return 1 << uint(r.names.Index(name)) }

func (r *Register) Enable(name string)  { r.bits |= r.Mask(name) }
func (r *Register) Disable(name string) { r.bits &^= r.Mask(name) }
func (r *Register) Flip(name string)    { r.bits ^= r.Mask(name) }
func (r Register) Has(name string) bool { return r.bits&r.Mask(name) != 0 }

// HasFast tests a mask from Mask without a name lookup.
func (r Register) HasFast(mask uint32) bool { return r.bits&mask != 0 }

func (r *Register) EnableFast(mask uint32)  { r.bits |= mask }
func (r *Register) DisableFast(mask uint32) { r.bits &^= mask }

// SetFast enables or disables mask according to on.
func (r *Register) SetFast(mask uint32, on bool) {
	if on {
		r.bits |= mask
		return
	}
	r.bits &^= mask
}

// Equal reports whether both registers hold the same bits.
func (r Register) Equal(o Register) bool { return r.bits == o.bits }

// String lists the enabled names joined by '|'.
func (r Register) String() string {
	if r.names == nil {
		return fmt.Sprintf("%#x", r.bits)
	}
	var parts []string
	for i := 0; i < r.names.Len(); i++ {
		if r.bits&(1<<uint(i)) != 0 {
			parts = append(parts, r.names.Name(i))
		}
	}
	return strings.Join(parts, "|")
}
