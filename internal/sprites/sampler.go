// Package sprites classifies author-set sprite flags into visual descriptors
// and resolves them, together with a facing angle, to atlas ids.
package sprites

import (
	"log"
	"strconv"

	"cellatlas/internal/atlas"
	"cellatlas/internal/bits"
	"cellatlas/internal/core"
)

// DefaultAngleSteps is the number of facing sectors rendered per descriptor.
const DefaultAngleSteps = 16

// Config controls the sprite sampler and its angled registry.
type Config struct {
	AngleSteps   int
	TilesPerEdge int
	Passes       []string
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		AngleSteps:   DefaultAngleSteps,
		TilesPerEdge: atlas.DefaultTilesPerEdge,
		Passes:       []string{"color"},
	}
}

// Registry builds the angled atlas registry for cfg.
func (c Config) Registry(logger *log.Logger) *atlas.Registry {
	steps := c.AngleSteps
	if steps <= 0 {
		steps = DefaultAngleSteps
	}
	return atlas.NewAngled(VisNames, atlas.Config{
		TilesPerEdge: c.TilesPerEdge,
		Passes:       c.Passes,
		Logger:       logger,
	}, steps)
}

// Instance is one live sprite. Z is elevation above the ground plane.
type Instance struct {
	Meta    bits.Register
	X, Y, Z float64
	Angle   float64
}

// Handle identifies an instance for the lifetime of the sampler.
type Handle int

type entry struct {
	Instance
	dirty bool
	ids   [2]int
	idsOK bool
}

// Sampler owns the live sprite set.
type Sampler struct {
	cfg   Config
	reg   *atlas.Registry
	items map[Handle]*entry
	order []Handle
	next  Handle
	dirty []Handle
}

var _ core.Sampler = (*Sampler)(nil)

// New builds a sprite sampler. A nil reg is replaced by one built from cfg.
func New(cfg Config, reg *atlas.Registry) *Sampler {
	if reg == nil {
		reg = cfg.Registry(nil)
	}
	if reg.Names() != VisNames {
		panic("sprites: registry is not built over VisNames")
	}
	return &Sampler{cfg: cfg, reg: reg, items: make(map[Handle]*entry), next: 1}
}

// Name identifies the sampler in logs and the HUD.
func (s *Sampler) Name() string { return "sprites" }

// Registry returns the angled registry.
func (s *Sampler) Registry() *atlas.Registry { return s.reg }

// ValidateMeta enforces the sprite flag rules. The result is a fixed point.
func ValidateMeta(m bits.Register) bits.Register {
	if m.HasFast(mBody) {
		m.DisableFast(mBody2)
	}
	if m.HasFast(mSheep) {
		m.DisableFast(mSkeleton)
	}
	if m.HasFast(mSheep | mSkeleton) {
		m.DisableFast(mBody | mBody2)
		m.EnableFast(mRun)
	}
	return m
}

// Add registers a sprite and returns its handle. A zero Meta is treated as
// no flags.
func (s *Sampler) Add(in Instance) Handle {
	if in.Meta.Names() == nil {
		in.Meta = bits.NewRegister(MetaNames)
	}
	checkNames(in.Meta)
	in.Meta = ValidateMeta(in.Meta)
	h := s.next
	s.next++
	s.items[h] = &entry{Instance: in}
	s.order = append(s.order, h)
	return h
}

// Remove drops a sprite. Unknown handles are ignored.
func (s *Sampler) Remove(h Handle) {
	if _, ok := s.items[h]; !ok {
		return
	}
	delete(s.items, h)
	for i, o := range s.order {
		if o == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of live sprites.
func (s *Sampler) Len() int { return len(s.order) }

// Get returns a copy of the sprite. Meta is resolved as of the last
// UpdateMeta.
func (s *Sampler) Get(h Handle) (Instance, bool) {
	e, ok := s.items[h]
	if !ok {
		return Instance{}, false
	}
	return e.Instance, true
}

// SetMeta replaces the flags of h. They are validated by the next UpdateMeta.
func (s *Sampler) SetMeta(h Handle, m bits.Register) {
	e, ok := s.items[h]
	if !ok {
		return
	}
	checkNames(m)
	e.Meta = m
	s.markDirty(h, e)
}

// SetFrame sets the animation counter of h.
func (s *Sampler) SetFrame(h Handle, frame int) {
	e, ok := s.items[h]
	if !ok {
		return
	}
	e.Meta = WithFrame(e.Meta, frame)
	s.markDirty(h, e)
}

// SetPosition moves h.
func (s *Sampler) SetPosition(h Handle, x, y, z float64) {
	if e, ok := s.items[h]; ok {
		e.X, e.Y, e.Z = x, y, z
	}
}

// SetAngle turns h to face radians.
func (s *Sampler) SetAngle(h Handle, radians float64) {
	if e, ok := s.items[h]; ok {
		e.Angle = radians
		e.idsOK = false
	}
}

func (s *Sampler) markDirty(h Handle, e *entry) {
	e.idsOK = false
	if !e.dirty {
		e.dirty = true
		s.dirty = append(s.dirty, h)
	}
}

func checkNames(m bits.Register) {
	if m.Names() != MetaNames {
		panic("sprites: meta register is not built over MetaNames")
	}
}

// UpdateMeta revalidates every sprite edited since the last call.
func (s *Sampler) UpdateMeta() bool {
	if len(s.dirty) == 0 {
		return false
	}
	for _, h := range s.dirty {
		if e, ok := s.items[h]; ok {
			e.Meta = ValidateMeta(e.Meta)
			e.dirty = false
		}
	}
	s.dirty = s.dirty[:0]
	return true
}

// SampleVisProps maps resolved sprite flags to a visual descriptor. Creatures
// draw a single run frame; everything else draws its equipment pieces.
func SampleVisProps(m bits.Register) bits.Buffer {
	v := bits.NewBuffer(VisNames)
	switch {
	case m.HasFast(mSheep):
		v.EnableFast(vSheep[FrameOf(m)])
	case m.HasFast(mSkeleton):
		v.EnableFast(vSkeleton[FrameOf(m)])
	default:
		for _, eq := range vEquip {
			if m.HasFast(eq.meta) {
				v.EnableFast(eq.vis)
			}
		}
	}
	return v
}

// SampleVisIDs returns the bottom and top atlas ids of h at its current
// facing. Unknown handles and empty sprites map to the blank id.
func (s *Sampler) SampleVisIDs(h Handle) [2]int {
	e, ok := s.items[h]
	if !ok {
		return [2]int{}
	}
	if e.idsOK {
		return e.ids
	}
	meta := e.Meta
	if e.dirty {
		meta = ValidateMeta(meta)
	}
	v := SampleVisProps(meta)
	var ids [2]int
	if !v.Empty() {
		ids[0] = s.reg.GetIDAtAngle(v, e.Angle)
		top := v.Clone()
		top.EnableFast(vTop)
		ids[1] = s.reg.GetIDAtAngle(top, e.Angle)
	}
	e.ids, e.idsOK = ids, true
	return ids
}

// UpdateVis writes xyz and atlas ids of every live sprite, in insertion order.
// Ids not rendered yet are written as the blank id.
func (s *Sampler) UpdateVis(bottom, top *core.PointBuffer) bool {
	n := len(s.order)
	for _, b := range []*core.PointBuffer{bottom, top} {
		b.Grow(n)
		b.Count = n
	}
	for i, h := range s.order {
		e := s.items[h]
		ids := s.SampleVisIDs(h)
		for j := range ids {
			if !s.reg.Made(ids[j]) {
				ids[j] = 0
			}
		}
		x, y, z := float32(e.X), float32(e.Y), float32(e.Z)
		bottom.Set(i, ids[0], x, y, z)
		top.Set(i, ids[1], x, y, z)
	}
	return n > 0
}

// Reset removes every sprite. Handles are not reused.
func (s *Sampler) Reset() {
	s.items = make(map[Handle]*entry)
	s.order = nil
	s.dirty = nil
}

// Parameters describes the sprite set for the HUD.
func (s *Sampler) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Sprites",
		Params: []core.Parameter{
			{Key: "sprites", Label: "Live sprites", Type: core.ParamTypeInt, Value: strconv.Itoa(len(s.order))},
			{Key: "sprite_ids", Label: "Assigned ids", Type: core.ParamTypeInt, Value: strconv.Itoa(s.reg.Len())},
			{Key: "sprite_overflow", Label: "Overflow", Type: core.ParamTypeInt, Value: strconv.Itoa(s.reg.Overflow())},
		},
	}}}
}
