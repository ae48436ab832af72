package render

import (
	"image/color"

	"cellatlas/internal/terrain"
)

type terrainPainter func(p terrain.Piece, size int) Piece

var (
	dirtColor   = color.RGBA{R: 120, G: 88, B: 56, A: 255}
	sandColor   = color.RGBA{R: 222, G: 200, B: 130, A: 255}
	foamColor   = color.RGBA{R: 230, G: 240, B: 250, A: 255}
	grassColor  = color.RGBA{R: 84, G: 160, B: 64, A: 255}
	bushColor   = color.RGBA{R: 40, G: 110, B: 40, A: 255}
	beamColor   = color.RGBA{R: 150, G: 110, B: 70, A: 255}
	logColor    = color.RGBA{R: 96, G: 64, B: 40, A: 255}
	doorColor   = color.RGBA{R: 60, G: 36, B: 20, A: 255}
	windowColor = color.RGBA{R: 170, G: 210, B: 240, A: 255}
	brickColor  = color.RGBA{R: 170, G: 70, B: 50, A: 255}
	rockColor   = color.RGBA{R: 128, G: 128, B: 132, A: 255}
	crumbColor  = color.RGBA{R: 100, G: 100, B: 104, A: 255}
	stumpColor  = color.RGBA{R: 110, G: 70, B: 40, A: 255}

	oreColors = [...]color.RGBA{
		terrain.OreGold:   {R: 240, G: 200, B: 40, A: 255},
		terrain.OreSilver: {R: 210, G: 214, B: 224, A: 255},
		terrain.OreIron:   {R: 150, G: 90, B: 70, A: 255},
		terrain.OreCopper: {R: 200, G: 120, B: 60, A: 255},
	}
	treeColors = [2][2]color.RGBA{
		terrain.Pine:  {{R: 30, G: 100, B: 50, A: 255}, {R: 20, G: 80, B: 40, A: 255}},
		terrain.Maple: {{R: 150, G: 130, B: 40, A: 255}, {R: 190, G: 90, B: 30, A: 255}},
	}
)

// terrainPainters is the factory table keyed by piece kind.
var terrainPainters = map[terrain.Kind]terrainPainter{
	terrain.KindLayer: func(terrain.Piece, int) Piece { return Piece{} },
	terrain.KindDirt:  groundPainter(dirtColor),
	terrain.KindSand:  groundPainter(sandColor),
	terrain.KindWater: paintWater,
	terrain.KindGrass: func(p terrain.Piece, size int) Piece {
		m := newMask(size)
		m.dirCell(p.Dir)
		return build(size, false, layer{m, grassColor})
	},
	terrain.KindBush: func(p terrain.Piece, size int) Piece {
		m := newMask(size)
		m.dirCell(p.Dir)
		m.and(speckled(size, uint32(p.Dir)+11, 150))
		return build(size, false, layer{m, bushColor})
	},
	terrain.KindBeam:    wallPainter(beamColor),
	terrain.KindLogWall: wallPainter(logColor),
	terrain.KindBricks:  paintBricks,
	terrain.KindGoldPile: func(_ terrain.Piece, size int) Piece {
		m := newMask(size)
		s := float64(size)
		m.disc(s/2, s*0.6, s/5)
		return build(size, false, layer{m, oreColors[terrain.OreGold]})
	},
	terrain.KindLampPost: func(_ terrain.Piece, size int) Piece {
		pole, lamp := newMask(size), newMask(size)
		pole.rect(size/2-1, size/4, size/2+1, size)
		lamp.disc(float64(size)/2, float64(size)/4, float64(size)/8)
		return build(size, true, layer{pole, logColor}, layer{lamp, color.RGBA{R: 255, G: 230, B: 140, A: 255}})
	},
	terrain.KindTestObject: func(_ terrain.Piece, size int) Piece {
		m := newMask(size)
		m.rect(size/3, size/3, size-size/3, size-size/3)
		return build(size, true, layer{m, color.RGBA{R: 255, G: 0, B: 255, A: 255}})
	},
	terrain.KindPyramid: func(_ terrain.Piece, size int) Piece {
		m := newMask(size)
		m.triangle(float64(size)/2, size/8, size-size/8)
		return build(size, true, layer{m, sandColor})
	},
	terrain.KindRockyGround: func(_ terrain.Piece, size int) Piece {
		return build(size, false, layer{speckled(size, 7, 40), crumbColor})
	},
	terrain.KindRockBig: func(_ terrain.Piece, size int) Piece {
		m := newMask(size)
		s := float64(size)
		m.disc(s/2, s/2, s*0.48)
		return build(size, true, layer{m, rockColor})
	},
	terrain.KindOreBig: func(p terrain.Piece, size int) Piece {
		m := newMask(size)
		s := float64(size)
		m.disc(s/2, s/2, s*0.4)
		m.and(speckled(size, uint32(p.Param)+101, 48))
		return build(size, true, layer{m, oreColors[p.Param]})
	},
	terrain.KindRock: func(p terrain.Piece, size int) Piece {
		m := newMask(size)
		m.dirCell(p.Dir)
		return build(size, true, layer{m, rockColor})
	},
	terrain.KindRockCrumbs: func(p terrain.Piece, size int) Piece {
		m := newMask(size)
		m.dirCell(p.Dir)
		m.and(speckled(size, uint32(p.Dir)+31, 60))
		return build(size, false, layer{m, crumbColor})
	},
	terrain.KindOre: func(p terrain.Piece, size int) Piece {
		m := newMask(size)
		m.dirCell(terrain.DirC)
		m.and(speckled(size, uint32(p.Param)+51, 70))
		return build(size, true, layer{m, oreColors[p.Param]})
	},
	terrain.KindTree: func(p terrain.Piece, size int) Piece {
		m := newMask(size)
		m.dirCell(p.Dir)
		if p.Mature {
			dx, dy := p.Dir.Offset()
			s := float64(size)
			m.disc(s/2+float64(dx)*s/3, s/2+float64(dy)*s/3, s/5)
		}
		mature := 0
		if p.Mature {
			mature = 1
		}
		return build(size, true, layer{m, treeColors[p.Param][mature]})
	},
	terrain.KindStump: func(_ terrain.Piece, size int) Piece {
		m := newMask(size)
		s := float64(size)
		m.disc(s/2, s/2, s/7)
		return build(size, false, layer{m, stumpColor})
	},
}

// TerrainPieces returns the piece set for terrain.VisNames.
func TerrainPieces(size int) *PieceSet {
	return NewPieceSet(size, terrain.VisNames.Len(), terrain.VisNames.Index("top"), func(bit, size int) Piece {
		p := terrain.Pieces[bit]
		paint, ok := terrainPainters[p.Kind]
		if !ok {
			return Piece{}
		}
		return paint(p, size)
	})
}

func speckled(size int, seed, density uint32) *mask {
	m := newMask(size)
	m.speckle(seed, density)
	return m
}

// groundPainter fills the corner cells named by a marching-squares code
// inside one quadrant. Param is quadrant*16+code; code bits are 8 top-left,
// 4 top-right, 2 bottom-left, 1 bottom-right.
func groundPainter(col color.RGBA) terrainPainter {
	return func(p terrain.Piece, size int) Piece {
		m := newMask(size)
		q, code := p.Param/16, p.Param%16
		half, cell := size/2, size/4
		qx, qy := (q%2)*half, (q/2)*half
		for i := 0; i < 4; i++ {
			if code&(8>>uint(i)) == 0 {
				continue
			}
			x, y := qx+(i%2)*cell, qy+(i/2)*cell
			m.rect(x, y, x+cell, y+cell)
		}
		return build(size, false, layer{m, col})
	}
}

// paintWater darkens with distance to land and draws moving foam near shore.
func paintWater(p terrain.Piece, size int) Piece {
	t, d := p.Param/(terrain.MaxLandDist+1), p.Param%(terrain.MaxLandDist+1)
	body := newMask(size)
	body.rect(0, 0, size, size)
	deep := uint8(d * 18)
	layers := []layer{{body, color.RGBA{R: 60 - deep/3, G: 130 - deep, B: 220 - deep, A: 255}}}
	if d <= 1 {
		foam := newMask(size)
		period := max(size/4, 2)
		shift := t * period / terrain.TimeSlots
		for y := 0; y < size; y++ {
			if (y+shift)%period == 0 {
				foam.rect(0, y, size, y+1)
			}
		}
		layers = append(layers, layer{foam, foamColor})
	}
	return build(size, false, layers...)
}

func wallPainter(col color.RGBA) terrainPainter {
	return func(p terrain.Piece, size int) Piece {
		wall, opening := newMask(size), newMask(size)
		lo, hi := size/2-size/8, size/2+size/8
		switch p.Param {
		case terrain.WallEW, terrain.WallEWDoor, terrain.WallEWWindow:
			wall.rect(0, lo, size, hi)
			opening.rect(size/3, lo, size-size/3, hi)
		case terrain.WallNS, terrain.WallNSDoor, terrain.WallNSWindow:
			wall.rect(lo, 0, hi, size)
			opening.rect(lo, size/3, hi, size-size/3)
		case terrain.WallC:
			wall.rect(lo, lo, hi, hi)
		case terrain.WallN:
			wall.rect(lo, 0, hi, size/2)
		case terrain.WallE:
			wall.rect(size/2, lo, size, hi)
		case terrain.WallS:
			wall.rect(lo, size/2, hi, size)
		case terrain.WallW:
			wall.rect(0, lo, size/2, hi)
		}
		layers := []layer{{wall, col}}
		switch p.Param {
		case terrain.WallEWDoor, terrain.WallNSDoor:
			layers = append(layers, layer{opening, doorColor})
		case terrain.WallEWWindow, terrain.WallNSWindow:
			layers = append(layers, layer{opening, windowColor})
		}
		return build(size, true, layers...)
	}
}

// paintBricks draws a course along one side; end caps stop short of the
// corner.
func paintBricks(p terrain.Piece, size int) Piece {
	m := newMask(size)
	depth := max(size/6, 1)
	from, to := 0, size
	if p.Param == 1 {
		from, to = size/4, size-size/4
	}
	switch p.Dir {
	case terrain.DirN:
		m.rect(from, 0, to, depth)
	case terrain.DirS:
		m.rect(from, size-depth, to, size)
	case terrain.DirE:
		m.rect(size-depth, from, size, to)
	case terrain.DirW:
		m.rect(0, from, depth, to)
	}
	return build(size, true, layer{m, brickColor})
}
