// Package store keeps author-edited cell meta as a flat key/value numeric
// cache and persists it in a small binary format.
package store

import (
	"bufio"
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"cellatlas/internal/bits"
	"cellatlas/internal/core"
	"cellatlas/internal/terrain"
)

// Version is the current file format version.
const Version = 1

var magic = [4]byte{'C', 'A', 'M', 'S'}

// maxPrealloc caps the map size hint taken from a file header.
const maxPrealloc = 1 << 16

var (
	// ErrFormat reports a stream that is not a meta store.
	ErrFormat = errors.New("store: not a meta store")
	// ErrVersion reports a stream written by an unknown format version.
	ErrVersion = errors.New("store: unsupported version")
)

type header struct {
	Magic   [4]byte
	Version uint16
	_       uint16
	Count   uint32
}

type record struct {
	X, Y int32
	Meta uint32
}

// Store maps cell coordinates to packed meta bits.
type Store struct {
	values map[core.Key]uint32
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[core.Key]uint32)}
}

// Put records meta for (x, y).
func (s *Store) Put(x, y int, meta uint32) { s.values[core.MakeKey(x, y)] = meta }

// Get returns the meta recorded for (x, y).
func (s *Store) Get(x, y int) (uint32, bool) {
	v, ok := s.values[core.MakeKey(x, y)]
	return v, ok
}

// Delete forgets (x, y).
func (s *Store) Delete(x, y int) { delete(s.values, core.MakeKey(x, y)) }

// Len reports the number of recorded cells.
func (s *Store) Len() int { return len(s.values) }

// Each visits every entry in row-major order.
func (s *Store) Each(fn func(x, y int, meta uint32)) {
	for _, k := range s.keys() {
		x, y := k.XY()
		fn(x, y, s.values[k])
	}
}

func (s *Store) keys() []core.Key {
	keys := make([]core.Key, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b core.Key) int {
		ax, ay := a.XY()
		bx, by := b.XY()
		if c := cmp.Compare(ay, by); c != 0 {
			return c
		}
		return cmp.Compare(ax, bx)
	})
	return keys
}

// Save writes every entry to w in little-endian order.
func (s *Store) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	h := header{Magic: magic, Version: Version, Count: uint32(len(s.values))}
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("store: write header: %w", err)
	}
	for _, k := range s.keys() {
		x, y := k.XY()
		rec := record{X: int32(x), Y: int32(y), Meta: s.values[k]}
		if err := binary.Write(bw, binary.LittleEndian, rec); err != nil {
			return fmt.Errorf("store: write record (%d,%d): %w", x, y, err)
		}
	}
	return bw.Flush()
}

// Load replaces the contents of s with the entries read from r. On error s
// is left unchanged.
func (s *Store) Load(r io.Reader) error {
	br := bufio.NewReader(r)
	var h header
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("store: read header: %w", err)
	}
	if h.Magic != magic {
		return ErrFormat
	}
	if h.Version != Version {
		return fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	// the header count is untrusted; records are read one by one anyway
	values := make(map[core.Key]uint32, min(h.Count, maxPrealloc))
	for i := uint32(0); i < h.Count; i++ {
		var rec record
		if err := binary.Read(br, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("store: read record %d of %d: %w", i, h.Count, err)
		}
		values[core.MakeKey(int(rec.X), int(rec.Y))] = rec.Meta
	}
	s.values = values
	return nil
}

// SaveFile writes the store to path, replacing any previous file.
func (s *Store) SaveFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := s.Save(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// LoadFile reads the store from path. A missing file surfaces as an error
// matching fs.ErrNotExist.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer f.Close()
	return s.Load(f)
}

// Attach keeps s in sync with the author overrides of t. Cells whose override
// is cleared are forgotten.
func (s *Store) Attach(t *terrain.Sampler) {
	t.OnDirtyMetaProcessed(func(ev terrain.MetaEvent) {
		if !ev.Edited {
			if _, ok := s.Get(ev.X, ev.Y); ok {
				s.Delete(ev.X, ev.Y)
			}
			return
		}
		if w, ok := t.Written(ev.X, ev.Y); ok {
			s.Put(ev.X, ev.Y, w.Bits())
		}
	})
}

// Replay writes every stored entry back into t as an author override and
// returns the number of cells written. Bits outside the meta table are
// dropped.
func (s *Store) Replay(t *terrain.Sampler) int {
	valid := uint32(1)<<uint(terrain.MetaNames.Len()) - 1
	n := 0
	s.Each(func(x, y int, meta uint32) {
		t.WriteMeta(x, y, bits.RegisterOf(terrain.MetaNames, meta&valid))
		n++
	})
	return n
}
