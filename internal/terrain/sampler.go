// Package terrain classifies an unbounded grid of map cells into resolved meta
// channels and neighbor-aware visual descriptors, and feeds the descriptors
// through an atlas registry into GPU-facing point buffers.
package terrain

import (
	"cmp"
	"slices"

	"cellatlas/internal/atlas"
	"cellatlas/internal/bits"
	"cellatlas/internal/core"
	"cellatlas/internal/noise"
)

// Source produces raw meta for a world coordinate. *noise.Pipeline satisfies
// it; tests inject fixed grids.
type Source interface {
	Sample(x, y float64) bits.Register
}

// MetaEvent reports that the resolved meta of a cell was (re)computed. Edited
// is set when the cell carries an author override from WriteMeta.
type MetaEvent struct {
	X, Y   int
	Meta   bits.Register
	Edited bool
}

// MetaListener receives MetaEvents synchronously.
type MetaListener func(MetaEvent)

type visKey struct {
	key core.Key
	t   int
}

func visKeyOf(x, y, t int) visKey { return visKey{key: core.MakeKey(x, y), t: t} }

// Sampler owns every cache between raw noise and atlas ids. It is not safe for
// concurrent use; the host pumps it from a single loop.
type Sampler struct {
	cfg Config
	reg *atlas.Registry
	src Source
	win core.Window

	offX, offY     int
	shownX, shownY int
	shown          bool
	time           int

	raw     map[core.Key]bits.Register
	meta    map[core.Key]bits.Register
	written map[core.Key]bits.Register
	vis     map[visKey]bits.Buffer
	ids     map[visKey][2]int

	dirtyMeta    []core.Key
	dirtyMetaSet map[core.Key]struct{}
	dirtyVis     map[core.Key]struct{}
	animated     map[core.Key]struct{}
	pending      map[core.Key]struct{}

	listeners []MetaListener
}

var _ core.Sampler = (*Sampler)(nil)

// New builds a sampler over the noise pipeline for cfg.Seed. A nil reg is
// replaced by one sized from cfg.
func New(cfg Config, reg *atlas.Registry) *Sampler {
	return NewWithSource(cfg, reg, noise.NewPipeline(MetaNames, Channels(cfg.Seed, cfg.Scale)...))
}

// NewWithSource builds a sampler over an arbitrary raw meta source. The
// registry must be built over VisNames.
func NewWithSource(cfg Config, reg *atlas.Registry, src Source) *Sampler {
	if reg == nil {
		reg = cfg.Registry(nil)
	}
	if reg.Names() != VisNames {
		panic("terrain: registry is not built over VisNames")
	}
	s := &Sampler{
		cfg: cfg,
		reg: reg,
		src: src,
		win: core.NewWindow(cfg.ViewW, cfg.ViewH),
	}
	s.resetCaches()
	return s
}

func (s *Sampler) resetCaches() {
	s.raw = make(map[core.Key]bits.Register)
	s.meta = make(map[core.Key]bits.Register)
	s.written = make(map[core.Key]bits.Register)
	s.vis = make(map[visKey]bits.Buffer)
	s.ids = make(map[visKey][2]int)
	s.dirtyMeta = nil
	s.dirtyMetaSet = make(map[core.Key]struct{})
	s.dirtyVis = make(map[core.Key]struct{})
	s.animated = make(map[core.Key]struct{})
	s.pending = make(map[core.Key]struct{})
	s.shown = false
}

// Name identifies the sampler in logs and the HUD.
func (s *Sampler) Name() string { return "terrain" }

// Config returns the construction config.
func (s *Sampler) Config() Config { return s.cfg }

// Registry returns the atlas registry fed by SampleVisIDs.
func (s *Sampler) Registry() *atlas.Registry { return s.reg }

// Window returns the visible window size.
func (s *Sampler) Window() core.Window { return s.win }

// Reset drops every cache, dirty set and author override. Listeners stay
// registered and the registry keeps its ids.
func (s *Sampler) Reset() {
	s.resetCaches()
	s.time = 0
}

// OnDirtyMetaProcessed registers fn to be called whenever a cell's resolved
// meta is computed.
func (s *Sampler) OnDirtyMetaProcessed(fn MetaListener) {
	s.listeners = append(s.listeners, fn)
}

// SampleMetaRaw returns the unvalidated noise classification of (x, y).
func (s *Sampler) SampleMetaRaw(x, y int) bits.Register {
	k := core.MakeKey(x, y)
	if r, ok := s.raw[k]; ok {
		return r
	}
	r := s.src.Sample(float64(x), float64(y))
	s.raw[k] = r
	return r
}

// input is the meta fed to validation: the author override if any, else raw.
func (s *Sampler) input(x, y int) (bits.Register, bool) {
	if w, ok := s.written[core.MakeKey(x, y)]; ok {
		return w, true
	}
	return s.SampleMetaRaw(x, y), false
}

// SampleMeta returns the resolved meta of (x, y), validating and caching it on
// first use.
func (s *Sampler) SampleMeta(x, y int) bits.Register {
	k := core.MakeKey(x, y)
	if m, ok := s.meta[k]; ok {
		return m
	}
	in, edited := s.input(x, y)
	m := s.ValidateMeta(in, x, y)
	s.meta[k] = m
	ev := MetaEvent{X: x, Y: y, Meta: m, Edited: edited}
	for _, fn := range s.listeners {
		fn(ev)
	}
	return m
}

// WriteMeta overrides the meta of (x, y). The change is applied by the next
// UpdateMeta.
func (s *Sampler) WriteMeta(x, y int, m bits.Register) {
	if m.Names() != MetaNames {
		panic("terrain: meta register is not built over MetaNames")
	}
	prev, _ := s.input(x, y)
	s.written[core.MakeKey(x, y)] = m
	s.touch(x, y, prev, m)
}

// ClearMeta drops the override of (x, y) so it falls back to noise.
func (s *Sampler) ClearMeta(x, y int) {
	k := core.MakeKey(x, y)
	prev, ok := s.written[k]
	if !ok {
		return
	}
	delete(s.written, k)
	s.touch(x, y, prev, s.SampleMetaRaw(x, y))
}

// Written reports the override of (x, y), if any.
func (s *Sampler) Written(x, y int) (bits.Register, bool) {
	m, ok := s.written[core.MakeKey(x, y)]
	return m, ok
}

func (s *Sampler) touch(x, y int, prev, next bits.Register) {
	s.markMeta(core.MakeKey(x, y))
	if prev.HasFast(mWater) == next.HasFast(mWater) {
		return
	}
	// neighbors decide their own water enclosure from this cell's input
	for d := DirN; d <= DirNW; d++ {
		dx, dy := d.Offset()
		s.markMeta(core.MakeKey(x+dx, y+dy))
	}
}

func (s *Sampler) markMeta(k core.Key) {
	if _, ok := s.dirtyMetaSet[k]; ok {
		return
	}
	s.dirtyMetaSet[k] = struct{}{}
	s.dirtyMeta = append(s.dirtyMeta, k)
}

// PendingMeta reports how many cells wait for UpdateMeta.
func (s *Sampler) PendingMeta() int { return len(s.dirtyMeta) }

// UpdateMeta re-resolves every dirty cell in write order and invalidates the
// visuals that depend on it. It reports whether any cell was processed.
func (s *Sampler) UpdateMeta() bool {
	if len(s.dirtyMeta) == 0 {
		return false
	}
	queue := s.dirtyMeta
	s.dirtyMeta = nil
	clear(s.dirtyMetaSet)
	for _, k := range queue {
		x, y := k.XY()
		old, had := s.meta[k]
		delete(s.meta, k)
		m := s.SampleMeta(x, y)
		s.invalidateVis(x-1, y-1, x+2, y+1)
		if had && old.HasFast(mWater) != m.HasFast(mWater) {
			// shoreline bands read resolved water along rays
			s.invalidateVis(x-MaxLandDist, y-MaxLandDist, x+MaxLandDist, y+MaxLandDist)
		}
	}
	return true
}

func (s *Sampler) invalidateVis(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			k := core.MakeKey(x, y)
			for t := 0; t < TimeSlots; t++ {
				vk := visKey{key: k, t: t}
				delete(s.vis, vk)
				delete(s.ids, vk)
			}
			s.dirtyVis[k] = struct{}{}
		}
	}
}

// VisDirty reports whether (x, y) is queued for the next UpdateVis.
func (s *Sampler) VisDirty(x, y int) bool {
	_, ok := s.dirtyVis[core.MakeKey(x, y)]
	return ok
}

// SampleVisIDs returns the atlas ids of the bottom and top descriptors of
// (x, y) at slot t. A blank cell maps to the blank id on both layers.
func (s *Sampler) SampleVisIDs(x, y, t int) [2]int {
	t = wrapTime(t)
	k := visKeyOf(x, y, t)
	if ids, ok := s.ids[k]; ok {
		return ids
	}
	v := s.visProps(x, y, t)
	var ids [2]int
	if !v.Empty() {
		ids[0] = s.reg.GetID(v)
		top := v.Clone()
		top.EnableFast(vTop)
		ids[1] = s.reg.GetID(top)
	}
	s.ids[k] = ids
	return ids
}

// SetOffset scrolls the visible window to start at (x, y).
func (s *Sampler) SetOffset(x, y int) { s.offX, s.offY = x, y }

// Offset returns the window origin.
func (s *Sampler) Offset() (int, int) { return s.offX, s.offY }

// SetTime selects the water animation slot, wrapped into [0, TimeSlots).
func (s *Sampler) SetTime(t int) { s.time = wrapTime(t) }

// Time returns the water animation slot.
func (s *Sampler) Time() int { return s.time }

func (s *Sampler) visible(x, y int) bool {
	return s.win.Contains(s.offX, s.offY, x, y)
}

// UpdateVis writes positions and atlas ids of every dirty visible cell into the
// bottom and top buffers, one point per window slot. Ids that the registry has
// not rendered yet are written as the blank id and retried on later calls.
func (s *Sampler) UpdateVis(bottom, top *core.PointBuffer) bool {
	n := s.win.Size()
	for _, b := range []*core.PointBuffer{bottom, top} {
		b.Grow(n)
		b.Count = n
	}

	if !s.shown || s.offX != s.shownX || s.offY != s.shownY {
		for y := s.offY; y < s.offY+s.win.H; y++ {
			for x := s.offX; x < s.offX+s.win.W; x++ {
				if !s.shown || !s.win.Contains(s.shownX, s.shownY, x, y) {
					s.dirtyVis[core.MakeKey(x, y)] = struct{}{}
				}
			}
		}
		s.shown, s.shownX, s.shownY = true, s.offX, s.offY
	}
	for _, set := range []map[core.Key]struct{}{s.animated, s.pending} {
		for k := range set {
			if x, y := k.XY(); s.visible(x, y) {
				s.dirtyVis[k] = struct{}{}
			} else {
				delete(set, k)
			}
		}
	}

	keys := make([]core.Key, 0, len(s.dirtyVis))
	for k := range s.dirtyVis {
		if x, y := k.XY(); s.visible(x, y) {
			keys = append(keys, k)
		}
	}
	clear(s.dirtyVis)
	if len(keys) == 0 {
		return false
	}
	// row-major order keeps id assignment reproducible
	slices.SortFunc(keys, func(a, b core.Key) int {
		ax, ay := a.XY()
		bx, by := b.XY()
		if c := cmp.Compare(ay, by); c != 0 {
			return c
		}
		return cmp.Compare(ax, bx)
	})

	for _, k := range keys {
		x, y := k.XY()
		ids := s.SampleVisIDs(x, y, s.time)
		if HasWater(s.vis[visKey{key: k, t: s.time}]) {
			s.animated[k] = struct{}{}
		} else {
			delete(s.animated, k)
		}
		ready := true
		for i := range ids {
			if !s.reg.Made(ids[i]) {
				ids[i] = 0
				ready = false
			}
		}
		if ready {
			delete(s.pending, k)
		} else {
			s.pending[k] = struct{}{}
		}
		slot := s.win.Slot(x, y)
		bottom.Set(slot, ids[0], float32(x), float32(y))
		top.Set(slot, ids[1], float32(x), float32(y))
	}
	return true
}

// Stats counts cached entries for diagnostics.
type Stats struct {
	Raw, Meta, Written, Vis, IDs int
	Animated, Pending         int
}

// Stats returns the current cache sizes.
func (s *Sampler) Stats() Stats {
	return Stats{
		Raw:      len(s.raw),
		Meta:     len(s.meta),
		Written:  len(s.written),
		Vis:      len(s.vis),
		IDs:      len(s.ids),
		Animated: len(s.animated),
		Pending:  len(s.pending),
	}
}
