// Package bits provides named boolean channel sets packed into integers or
// byte buffers. A Names table is built once per channel set and shared by
// every Register or Buffer that uses it.
package bits

import "fmt"

// Names is a frozen, ordered list of channel names. The bit position of a name
// is its index in the list.
type Names struct {
	list  []string
	index map[string]int
}

// NewNames builds a name table. Duplicate names panic.
func NewNames(names ...string) *Names {
	n := &Names{
		list:  append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, name := range n.list {
		if _, dup := n.index[name]; dup {
			panic(fmt.Sprintf("bits: duplicate name %q", name))
		}
		n.index[name] = i
	}
	return n
}

// Len reports the number of names.
func (n *Names) Len() int { return len(n.list) }

// Name returns the name at index i.
func (n *Names) Name(i int) string { return n.list[i] }

// Index returns the bit position of name. Unknown names panic.
func (n *Names) Index(name string) int {
	i, ok := n.index[name]
	if !ok {
		panic(fmt.Sprintf("bits: unknown name %q", name))
	}
	return i
}

// Lookup is the non-panicking form of Index.
func (n *Names) Lookup(name string) (int, bool) {
	i, ok := n.index[name]
	return i, ok
}

// Bytes reports the buffer width needed to hold every name.
func (n *Names) Bytes() int { return (len(n.list) + 7) / 8 }

// RegisterMask returns the uint32 mask of name for use with Register.HasFast.
func (n *Names) RegisterMask(name string) uint32 { return 1 << uint(n.Index(name)) }
