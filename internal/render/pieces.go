// Package render turns atlas render requests into pixels: piece builders for
// every visual bit, a headless image backend and, with the ebiten tag, a GPU
// backend.
package render

import (
	"fmt"
	"image"
	"image/color"
)

// Piece is the pre-built raster of one visual bit. Top pieces draw only into
// top-layer descriptors; the rest draw only into bottom-layer descriptors.
type Piece struct {
	Img *image.RGBA
	Top bool
}

// stroke layer of a piece under construction.
type layer struct {
	mask *mask
	col  color.RGBA
}

// build composes layers in order into a Piece.
func build(size int, top bool, layers ...layer) Piece {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for _, l := range layers {
		stroke(img.Pix, l.mask.cells, l.col)
	}
	return Piece{Img: img, Top: top}
}

// Builder makes the piece for visual bit.
type Builder func(bit, size int) Piece

// PieceSet builds each piece once and caches it by bit index.
type PieceSet struct {
	size  int
	width int
	layer int
	build Builder
	cache map[int]Piece
}

// NewPieceSet wraps b for a descriptor table of width bits. layerBit is the
// bit that marks top-layer descriptors, or -1.
func NewPieceSet(size, width, layerBit int, b Builder) *PieceSet {
	if size < 4 {
		size = 4
	}
	return &PieceSet{size: size, width: width, layer: layerBit, build: b, cache: make(map[int]Piece)}
}

// Piece returns the cached piece for bit, building it on first use.
func (ps *PieceSet) Piece(bit int) Piece {
	if bit < 0 || bit >= ps.width {
		panic(fmt.Sprintf("render: piece bit %d out of range", bit))
	}
	if p, ok := ps.cache[bit]; ok {
		return p
	}
	p := ps.build(bit, ps.size)
	ps.cache[bit] = p
	return p
}

// Size is the tile edge in pixels.
func (ps *PieceSet) Size() int { return ps.size }

// Width is the descriptor width in bits.
func (ps *PieceSet) Width() int { return ps.width }

// LayerBit returns the top-layer bit, or -1.
func (ps *PieceSet) LayerBit() int { return ps.layer }

// Built reports how many pieces have been built so far.
func (ps *PieceSet) Built() int { return len(ps.cache) }
