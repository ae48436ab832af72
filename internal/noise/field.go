// Package noise provides composable deterministic 2D scalar fields used to
// classify world cells. Every field is a pure function of (x, y) and the seed
// it was built with.
package noise

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Field is a deterministic 2D scalar field.
type Field interface {
	Value(x, y float64) float64
}

// FieldFunc adapts a plain function to Field.
type FieldFunc func(x, y float64) float64

// Value calls f(x, y).
func (f FieldFunc) Value(x, y float64) float64 { return f(x, y) }

// Params controls how a coherent source maps world coordinates to output.
type Params struct {
	Frequency float64
	OffsetX   float64
	OffsetY   float64
	Amplitude float64
	Bias      float64
}

func (p Params) apply(raw func(x, y float64) float64, x, y float64) float64 {
	freq := p.Frequency
	if freq == 0 {
		freq = 1
	}
	return raw((x+p.OffsetX)*freq, (y+p.OffsetY)*freq)*p.Amplitude + p.Bias
}

// Simplex is coherent OpenSimplex noise in roughly [-1, 1] before scaling.
type Simplex struct {
	Params
	noise opensimplex.Noise
}

// NewSimplex builds a simplex source for seed.
func NewSimplex(seed int64, p Params) *Simplex {
	return &Simplex{Params: p, noise: opensimplex.New(seed)}
}

// Value samples the source at (x, y).
func (s *Simplex) Value(x, y float64) float64 {
	return s.apply(s.noise.Eval2, x, y)
}

// Perlin is octave Perlin noise, an alternative coherent source with a
// rougher character than Simplex.
type Perlin struct {
	Params
	gen *perlin.Perlin
}

// NewPerlin builds a Perlin source with the given octave count.
func NewPerlin(seed int64, octaves int32, p Params) *Perlin {
	if octaves <= 0 {
		octaves = 3
	}
	return &Perlin{Params: p, gen: perlin.NewPerlin(2, 2, octaves, seed)}
}

// Value samples the source at (x, y).
func (s *Perlin) Value(x, y float64) float64 {
	return s.apply(s.gen.Noise2D, x, y)
}

// Const is a flat field.
type Const float64

// Value returns the constant.
func (c Const) Value(float64, float64) float64 { return float64(c) }

// Sum adds its children.
type Sum []Field

// Value returns the sum of every child at (x, y).
func (s Sum) Value(x, y float64) float64 {
	total := 0.0
	for _, f := range s {
		total += f.Value(x, y)
	}
	return total
}

// Blur averages a (2*Radius+1)^2 box of Src samples spaced Spacing apart.
// Box filtering before thresholding turns speckle into coherent regions.
type Blur struct {
	Src     Field
	Radius  int
	Spacing float64
}

// Value returns the box average at (x, y).
func (b Blur) Value(x, y float64) float64 {
	r := b.Radius
	if r <= 0 {
		return b.Src.Value(x, y)
	}
	step := b.Spacing
	if step == 0 {
		step = 1
	}
	total := 0.0
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			total += b.Src.Value(x+float64(dx)*step, y+float64(dy)*step)
		}
	}
	side := float64(2*r + 1)
	return total / (side * side)
}

// Step maps Src to 1 at or above Cutoff and 0 below.
type Step struct {
	Src    Field
	Cutoff float64
}

// Value returns 0 or 1.
func (s Step) Value(x, y float64) float64 {
	if s.Src.Value(x, y) >= s.Cutoff {
		return 1
	}
	return 0
}

// Clamp bounds Src to [Min, Max].
type Clamp struct {
	Src      Field
	Min, Max float64
}

// Value returns the clamped sample.
func (c Clamp) Value(x, y float64) float64 {
	return math.Max(c.Min, math.Min(c.Max, c.Src.Value(x, y)))
}

// Invert negates Src.
type Invert struct{ Src Field }

// Value returns -Src(x, y).
func (i Invert) Value(x, y float64) float64 { return -i.Src.Value(x, y) }

// Scale multiplies Src by Factor.
type Scale struct {
	Src    Field
	Factor float64
}

// Value returns Src(x, y) * Factor.
func (s Scale) Value(x, y float64) float64 { return s.Src.Value(x, y) * s.Factor }
