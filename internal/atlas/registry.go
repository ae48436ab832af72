// Package atlas assigns stable slot ids to visual descriptors and flushes newly
// seen descriptors to a rendering backend exactly once.
package atlas

import (
	"errors"
	"fmt"
	"log"
	"math"

	"cellatlas/internal/bits"
)

// ErrCapacity is reported when a registry assigns an id beyond its atlas page.
var ErrCapacity = errors.New("atlas: capacity exceeded")

// DefaultTilesPerEdge gives 1024 slots per page.
const DefaultTilesPerEdge = 32

// Slot describes one render-to-atlas request.
type Slot struct {
	Pass      string
	PassIndex int
	ID        int
	Col, Row  int
	Angle     float64
}

// Backend renders composed pieces into atlas slots. The registry toggles the
// visibility of every piece before each RenderSlot call so that exactly the
// bits of the slot's descriptor are visible.
type Backend interface {
	SetVisible(bit int, visible bool)
	RenderSlot(s Slot) error
}

// Config is frozen into the registry at construction.
type Config struct {
	TilesPerEdge int
	Passes       []string
	Logger       *log.Logger
}

// Registry deduplicates descriptors by value. Id 0 is always the blank
// descriptor so a renderer can use it as a placeholder.
type Registry struct {
	names        *bits.Names
	tilesPerEdge int
	passes       []string
	logger       *log.Logger
	angleSteps   int

	ids    map[string]int
	descs  []bits.Buffer
	angles []float64
	made   []bool
	queue  []int

	overflow int
}

// New builds a registry for static tiles.
func New(names *bits.Names, cfg Config) *Registry {
	return newRegistry(names, cfg, 0)
}

// NewAngled builds a registry whose ids also depend on a facing angle
// quantised into steps sectors. steps must be in [1, 256].
func NewAngled(names *bits.Names, cfg Config, steps int) *Registry {
	if steps < 1 || steps > 256 {
		panic(fmt.Sprintf("atlas: angle steps %d out of range", steps))
	}
	return newRegistry(names, cfg, steps)
}

func newRegistry(names *bits.Names, cfg Config, steps int) *Registry {
	if cfg.TilesPerEdge <= 0 {
		cfg.TilesPerEdge = DefaultTilesPerEdge
	}
	if len(cfg.Passes) == 0 {
		cfg.Passes = []string{"color"}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	r := &Registry{
		names:        names,
		tilesPerEdge: cfg.TilesPerEdge,
		passes:       append([]string(nil), cfg.Passes...),
		logger:       cfg.Logger,
		angleSteps:   steps,
		ids:          make(map[string]int),
	}
	r.GetID(bits.NewBuffer(names))
	return r
}

// GetID returns the id of d, assigning the next dense id and queueing it for
// rendering on first sight. Angled registries treat this as angle zero.
func (r *Registry) GetID(d bits.Buffer) int {
	return r.GetIDAtAngle(d, 0)
}

// GetIDAtAngle returns the id of d seen at radians. Static registries ignore
// the angle.
func (r *Registry) GetIDAtAngle(d bits.Buffer, radians float64) int {
	if d.Names() != r.names {
		panic("atlas: descriptor built over a different name table")
	}
	key := d.Key()
	angle := 0.0
	if r.angleSteps > 0 {
		sector := r.Sector(radians)
		key += string([]byte{byte(sector)})
		angle = float64(sector) * 2 * math.Pi / float64(r.angleSteps)
	}
	if id, ok := r.ids[key]; ok {
		return id
	}

	id := len(r.descs)
	r.ids[key] = id
	r.descs = append(r.descs, d.Clone())
	r.angles = append(r.angles, angle)
	r.made = append(r.made, false)
	if id >= r.Capacity() {
		r.overflow++
		r.logger.Printf("%v: id %d does not fit %dx%d page (%s)", ErrCapacity, id, r.tilesPerEdge, r.tilesPerEdge, d.String())
		return id
	}
	r.queue = append(r.queue, id)
	return id
}

// Sector quantises radians into one of the registry's angle steps.
func (r *Registry) Sector(radians float64) int {
	if r.angleSteps <= 1 {
		return 0
	}
	turn := math.Mod(radians, 2*math.Pi)
	if turn < 0 {
		turn += 2 * math.Pi
	}
	width := 2 * math.Pi / float64(r.angleSteps)
	return int(math.Floor(turn/width+0.5)) % r.angleSteps
}

// Slot returns the atlas cell of id.
func (r *Registry) Slot(id int) (col, row int) {
	return id % r.tilesPerEdge, id / r.tilesPerEdge
}

// Made reports whether id has been rendered into the atlas.
func (r *Registry) Made(id int) bool {
	return id >= 0 && id < len(r.made) && r.made[id]
}

// Len reports the number of assigned ids, the blank included.
func (r *Registry) Len() int { return len(r.descs) }

// Capacity is the number of slots on the atlas page.
func (r *Registry) Capacity() int { return r.tilesPerEdge * r.tilesPerEdge }

// TilesPerEdge reports the page width in slots.
func (r *Registry) TilesPerEdge() int { return r.tilesPerEdge }

// Overflow counts ids that were assigned beyond capacity.
func (r *Registry) Overflow() int { return r.overflow }

// Names returns the descriptor name table.
func (r *Registry) Names() *bits.Names { return r.names }

// Passes returns a copy of the pass list.
func (r *Registry) Passes() []string { return append([]string(nil), r.passes...) }

// Pending returns a copy of the ids awaiting render.
func (r *Registry) Pending() []int { return append([]int(nil), r.queue...) }

// Descriptor returns a copy of the descriptor assigned to id.
func (r *Registry) Descriptor(id int) bits.Buffer { return r.descs[id].Clone() }

// Render flushes every queued id through b, once per pass. On a backend error
// the queue is kept so the flush can be retried next frame.
func (r *Registry) Render(b Backend) (int, error) {
	if len(r.queue) == 0 {
		return 0, nil
	}
	width := r.names.Len()
	for pi, pass := range r.passes {
		for _, id := range r.queue {
			d := r.descs[id]
			for bit := 0; bit < width; bit++ {
				b.SetVisible(bit, d.HasIndex(bit))
			}
			col, row := r.Slot(id)
			s := Slot{Pass: pass, PassIndex: pi, ID: id, Col: col, Row: row, Angle: r.angles[id]}
			if err := b.RenderSlot(s); err != nil {
				return 0, fmt.Errorf("atlas: render pass %q id %d: %w", pass, id, err)
			}
		}
	}
	n := len(r.queue)
	for _, id := range r.queue {
		r.made[id] = true
	}
	r.queue = r.queue[:0]
	return n, nil
}
