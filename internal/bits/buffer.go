package bits

import "strings"

// BufMask addresses one bit of a Buffer without a name lookup.
type BufMask struct {
	Byte int
	Bit  uint8
}

// Buffer packs an arbitrary number of named flags into a byte slice.
type Buffer struct {
	names *Names
	data  []byte
}

// NewBuffer returns a zeroed buffer sized for names.
func NewBuffer(names *Names) Buffer {
	return Buffer{names: names, data: make([]byte, names.Bytes())}
}

// BufferOf wraps a copy of raw. raw must match the width of names.
func BufferOf(names *Names, raw []byte) Buffer {
	b := NewBuffer(names)
	copy(b.data, raw)
	return b
}

// Names returns the shared name table.
func (b Buffer) Names() *Names { return b.names }

// Mask returns the byte/bit address of name.
func (b Buffer) Mask(name string) BufMask { return MaskOf(b.names, name) }

// MaskOf builds a BufMask for name from the table directly.
func MaskOf(names *Names, name string) BufMask {
	i := names.Index(name)
	return BufMask{Byte: i >> 3, Bit: 1 << uint(i&7)}
}

func (b *Buffer) Enable(name string)  { b.EnableFast(b.Mask(name)) }
func (b *Buffer) Disable(name string) { b.DisableFast(b.Mask(name)) }

func (b *Buffer) Flip(name string) {
	m := b.Mask(name)
	b.data[m.Byte] ^= m.Bit
}

func (b Buffer) Has(name string) bool { return b.HasFast(b.Mask(name)) }

func (b Buffer) HasFast(m BufMask) bool { return b.data[m.Byte]&m.Bit != 0 }
func (b *Buffer) EnableFast(m BufMask)  { b.data[m.Byte] |= m.Bit }
func (b *Buffer) DisableFast(m BufMask) { b.data[m.Byte] &^= m.Bit }
func (b Buffer) HasIndex(i int) bool    { return b.data[i>>3]&(1<<uint(i&7)) != 0 }
func (b *Buffer) EnableIndex(i int)     { b.data[i>>3] |= 1 << uint(i&7) }

// Bytes exposes the backing slice.
func (b Buffer) Bytes() []byte { return b.data }

// Key returns the byte content as a comparable map key.
func (b Buffer) Key() string { return string(b.data) }

// Clone returns an independent copy sharing the name table.
func (b Buffer) Clone() Buffer {
	return Buffer{names: b.names, data: append([]byte(nil), b.data...)}
}

// Empty reports whether no bit is set.
func (b Buffer) Empty() bool {
	for _, v := range b.data {
		if v != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of set bits.
func (b Buffer) Count() int {
	n := 0
	for i := 0; i < b.names.Len(); i++ {
		if b.HasIndex(i) {
			n++
		}
	}
	return n
}

// String lists the enabled names joined by '|'.
func (b Buffer) String() string {
	var parts []string
	for i := 0; i < b.names.Len(); i++ {
		if b.HasIndex(i) {
			parts = append(parts, b.names.Name(i))
		}
	}
	return strings.Join(parts, "|")
}
