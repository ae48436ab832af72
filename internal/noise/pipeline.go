package noise

import (
	"fmt"

	"cellatlas/internal/bits"
)

// Channel binds a named meta bit to the field that decides it.
type Channel struct {
	Name   string
	Field  Field
	Cutoff float64
}

// Pipeline evaluates every channel at a coordinate and packs the results.
type Pipeline struct {
	names    *bits.Names
	channels []Channel
	masks    []uint32
}

// NewPipeline checks that every channel names a bit in names. Unknown names
// panic; a pipeline is built once at sampler construction.
func NewPipeline(names *bits.Names, channels ...Channel) *Pipeline {
	p := &Pipeline{names: names, channels: append([]Channel(nil), channels...)}
	p.masks = make([]uint32, len(p.channels))
	for i, ch := range p.channels {
		if ch.Field == nil {
			panic(fmt.Sprintf("noise: channel %q has no field", ch.Name))
		}
		p.masks[i] = names.RegisterMask(ch.Name)
	}
	return p
}

// Sample sets bit j when channel j evaluates at or above its cutoff.
func (p *Pipeline) Sample(x, y float64) bits.Register {
	r := bits.NewRegister(p.names)
	for i, ch := range p.channels {
		if ch.Field.Value(x, y) >= ch.Cutoff {
			r.EnableFast(p.masks[i])
		}
	}
	return r
}

// Len reports the channel count.
func (p *Pipeline) Len() int { return len(p.channels) }

// Channel returns channel i.
func (p *Pipeline) Channel(i int) Channel { return p.channels[i] }
