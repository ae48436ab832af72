package ui

import (
	"cellatlas/internal/terrain"

	"github.com/gdamore/tcell/v2"
)

type glyph struct {
	r  rune
	fg tcell.Color
}

var glyphs = [terrain.Classes]glyph{
	terrain.ClassNone:       {' ', tcell.ColorDefault},
	terrain.ClassWater:      {'~', tcell.NewRGBColor(40, 96, 200)},
	terrain.ClassSand:       {'.', tcell.NewRGBColor(222, 200, 130)},
	terrain.ClassDirt:       {',', tcell.NewRGBColor(150, 110, 70)},
	terrain.ClassGrass:      {'"', tcell.NewRGBColor(84, 160, 64)},
	terrain.ClassBush:       {'*', tcell.NewRGBColor(52, 140, 44)},
	terrain.ClassFloor:      {'_', tcell.NewRGBColor(170, 150, 120)},
	terrain.ClassWall:       {'#', tcell.NewRGBColor(150, 100, 60)},
	terrain.ClassRock:       {'o', tcell.NewRGBColor(150, 150, 156)},
	terrain.ClassOre:        {'$', tcell.NewRGBColor(230, 190, 40)},
	terrain.ClassTree:       {'T', tcell.NewRGBColor(40, 140, 56)},
	terrain.ClassStump:      {'t', tcell.NewRGBColor(110, 70, 40)},
	terrain.ClassDecoration: {'&', tcell.NewRGBColor(200, 60, 200)},
}

// shoreline bands, indexed by land distance; index 0 is unused.
var bandRunes = [terrain.MaxLandDist + 1]rune{' ', '░', '░', '▒', '▒', '▓', '▓', '~'}

// Glyph returns the terminal cell used for class c.
func Glyph(c terrain.Class) (rune, tcell.Style) {
	if int(c) >= len(glyphs) {
		return '?', tcell.StyleDefault
	}
	g := glyphs[c]
	return g.r, tcell.StyleDefault.Foreground(g.fg)
}

// WaterGlyph returns the cell for water at land distance dist, darkening
// with depth.
func WaterGlyph(dist int) (rune, tcell.Style) {
	if dist < 1 {
		dist = 1
	}
	if dist > terrain.MaxLandDist {
		dist = terrain.MaxLandDist
	}
	shade := int32(200 - dist*18)
	return bandRunes[dist], tcell.StyleDefault.Foreground(tcell.NewRGBColor(40, 96, shade))
}

// CellGlyph picks the glyph for the resolved cell at (x, y), using shoreline
// bands for water.
func CellGlyph(s *terrain.Sampler, x, y int) (rune, tcell.Style) {
	c := terrain.Classify(s.SampleMeta(x, y))
	if c == terrain.ClassWater {
		return WaterGlyph(s.LandDist(x, y))
	}
	return Glyph(c)
}
