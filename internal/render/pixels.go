package render

import (
	"image"
	"image/color"
	"math"

	"cellatlas/internal/terrain"
	pkgcore "cellatlas/pkg/core"
)

// mask is a size*size coverage grid painted by piece builders.
type mask struct {
	size  int
	cells []uint8
}

func newMask(size int) *mask {
	return &mask{size: size, cells: make([]uint8, size*size)}
}

// rect sets cells in [x0,x1)x[y0,y1), clipped to the mask.
func (m *mask) rect(x0, y0, x1, y1 int) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, m.size), min(y1, m.size)
	for y := y0; y < y1; y++ {
		row := m.cells[y*m.size : (y+1)*m.size]
		for x := x0; x < x1; x++ {
			row[x] = 1
		}
	}
}

func (m *mask) disc(cx, cy, r float64) {
	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				m.cells[y*m.size+x] = 1
			}
		}
	}
}

// triangle fills an upward triangle with its apex at (cx, top).
func (m *mask) triangle(cx float64, top, bottom int) {
	for y := max(top, 0); y < min(bottom, m.size); y++ {
		half := (float64(y-top) + 0.5) / 2
		m.rect(int(math.Round(cx-half)), y, int(math.Round(cx+half)), y+1)
	}
}

// speckle sets a deterministic scatter of cells. density is out of 256.
func (m *mask) speckle(seed uint32, density uint32) {
	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			if pkgcore.Hash2(seed, int32(x), int32(y))&0xff < density {
				m.cells[y*m.size+x] = 1
			}
		}
	}
}

// and clears every cell not set in o.
func (m *mask) and(o *mask) {
	for i, c := range o.cells {
		if c == 0 {
			m.cells[i] = 0
		}
	}
}

// band returns the [lo, hi) span of one of three bands across size: a quarter,
// a half and a quarter.
func band(size, step int) (int, int) {
	q := size / 4
	switch step {
	case -1:
		return 0, q
	case 1:
		return size - q, size
	}
	return q, size - q
}

// dirCell fills the band cell that direction d points into.
func (m *mask) dirCell(d terrain.Dir) {
	dx, dy := d.Offset()
	x0, x1 := band(m.size, dx)
	y0, y1 := band(m.size, dy)
	m.rect(x0, y0, x1, y1)
}

// stroke paints col into buf wherever cells is set and leaves other pixels
// untouched.
func stroke(buf []byte, cells []uint8, col color.RGBA) {
	for i, c := range cells {
		if c == 0 {
			continue
		}
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// ClassPalette colors each terrain.Class in minimaps.
var ClassPalette = []color.RGBA{
	terrain.ClassNone:       {A: 0},
	terrain.ClassWater:      {R: 40, G: 96, B: 200, A: 255},
	terrain.ClassSand:       {R: 222, G: 200, B: 130, A: 255},
	terrain.ClassDirt:       {R: 120, G: 88, B: 56, A: 255},
	terrain.ClassGrass:      {R: 84, G: 160, B: 64, A: 255},
	terrain.ClassBush:       {R: 52, G: 120, B: 44, A: 255},
	terrain.ClassFloor:      {R: 170, G: 150, B: 120, A: 255},
	terrain.ClassWall:       {R: 96, G: 64, B: 40, A: 255},
	terrain.ClassRock:       {R: 128, G: 128, B: 132, A: 255},
	terrain.ClassOre:        {R: 212, G: 170, B: 40, A: 255},
	terrain.ClassTree:       {R: 24, G: 90, B: 36, A: 255},
	terrain.ClassStump:      {R: 110, G: 70, B: 40, A: 255},
	terrain.ClassDecoration: {R: 200, G: 60, B: 200, A: 255},
}

// Minimap renders one pixel per cell of the w*h window at (x0, y0), colored by
// the resolved class of each cell.
func Minimap(s *terrain.Sampler, x0, y0, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cells := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cells[y*w+x] = uint8(terrain.Classify(s.SampleMeta(x0+x, y0+y)))
		}
	}
	fillPaletteRGBA(img.Pix, cells, ClassPalette)
	return img
}
