package render

import (
	"image/color"
	"strings"

	"cellatlas/internal/sprites"
)

var spriteColors = map[string]color.RGBA{
	"body":   {R: 60, G: 90, B: 200, A: 255},
	"body2":  {R: 190, G: 60, B: 60, A: 255},
	"hat":    {R: 220, G: 200, B: 60, A: 255},
	"weapon": {R: 200, G: 200, B: 210, A: 255},
	"shield": {R: 120, G: 80, B: 40, A: 255},
	"carry":  {R: 160, G: 120, B: 80, A: 255},
}

// SpritePieces returns the piece set for sprites.VisNames. Sprites face +x
// before rotation.
func SpritePieces(size int) *PieceSet {
	names := sprites.VisNames
	return NewPieceSet(size, names.Len(), names.Index("top"), func(bit, size int) Piece {
		name := names.Name(bit)
		s := float64(size)
		m := newMask(size)
		switch {
		case name == "top":
			return Piece{}
		case name == "body" || name == "body2":
			m.disc(s/2, s/2, s/4)
		case name == "hat":
			m.disc(s/2, s/2, s/7)
			return build(size, true, layer{m, spriteColors[name]})
		case name == "weapon":
			m.rect(size/2, size/2-1, size-size/8, size/2+1)
		case name == "shield":
			m.rect(size/2+size/8, size/4, size/2+size/4, size-size/4)
		case name == "carry":
			m.disc(s/2, s/4, s/8)
		case strings.HasPrefix(name, "sheepRun"):
			return runner(size, frameOf(name), color.RGBA{R: 240, G: 240, B: 235, A: 255}, s/3)
		case strings.HasPrefix(name, "skeletonRun"):
			return runner(size, frameOf(name), color.RGBA{R: 220, G: 220, B: 200, A: 255}, s/5)
		}
		return build(size, false, layer{m, spriteColors[name]})
	})
}

func frameOf(name string) int {
	return int(name[len(name)-1] - '0')
}

// runner draws a creature body with two legs swinging by frame.
func runner(size, frame int, col color.RGBA, radius float64) Piece {
	s := float64(size)
	body, legs := newMask(size), newMask(size)
	body.disc(s/2, s/2, radius)
	swing := []int{0, 1, 2, 1, 0, -1, -2, -1}[frame%sprites.Frames] * size / 16
	legs.rect(size/2+swing, size/2, size/2+swing+2, size-size/8)
	legs.rect(size/2-swing-2, size/2, size/2-swing, size-size/8)
	return build(size, false, layer{legs, crumbColor}, layer{body, col})
}
