package terrain

import "cellatlas/internal/bits"

// neighborhood holds resolved meta for a cell and its 8 neighbors, indexed by
// Dir.
type neighborhood [9]bits.Register

func (nb *neighborhood) has(d Dir, mask uint32) bool { return nb[d].HasFast(mask) }

// quads lists the four corner cells of each quadrant as TL, TR, BL, BR.
// Quadrant ids are NW=0, NE=1, SW=2, SE=3.
var quads = [4][4]Dir{
	{DirNW, DirN, DirW, DirC},
	{DirN, DirNE, DirC, DirE},
	{DirW, DirC, DirSW, DirS},
	{DirC, DirE, DirS, DirSE},
}

// SampleVisProps returns the visual descriptor of (x, y) at animation slot t.
// The returned buffer is a copy and may be modified by the caller.
func (s *Sampler) SampleVisProps(x, y, t int) bits.Buffer {
	return s.visProps(x, y, t).Clone()
}

func (s *Sampler) visProps(x, y, t int) bits.Buffer {
	t = wrapTime(t)
	k := visKeyOf(x, y, t)
	if v, ok := s.vis[k]; ok {
		return v
	}

	var nb neighborhood
	for d := DirC; d <= DirNW; d++ {
		dx, dy := d.Offset()
		nb[d] = s.SampleMeta(x+dx, y+dy)
	}

	v := bits.NewBuffer(VisNames)
	groundVis(&v, &nb, mDirt, &vGround[0])
	groundVis(&v, &nb, mSand, &vGround[1])
	s.waterVis(&v, &nb, x, y, t)
	clusterVis(&v, &nb, mGrass, &vGrass)
	clusterVis(&v, &nb, mBush, &vBush)
	wallVis(&v, &nb, mBeam, &vBeam)
	wallVis(&v, &nb, mLogWall, &vLogWall)
	bricksVis(&v, &nb)
	for _, p := range vPoints {
		if nb.has(DirC, p.meta) {
			v.EnableFast(p.vis)
		}
	}
	rocksVis(&v, &nb)
	treesVis(&v, &nb)

	s.vis[k] = v
	return v
}

// groundVis selects marching-squares quadrant tiles for one ground type.
func groundVis(v *bits.Buffer, nb *neighborhood, mask uint32, out *[64]bits.BufMask) {
	var adj [9]bool
	if nb.has(DirC, mask) {
		for d := range adj {
			adj[d] = true
		}
		for _, c := range corners {
			if !nb.has(c.a, mask) && !nb.has(c.b, mask) {
				adj[c.d] = false
			}
		}
	} else {
		for _, d := range cardinals {
			adj[d] = nb.has(d, mask)
		}
		// a diagonal only counts when an edge neighbor confirms it
		for _, c := range corners {
			adj[c.d] = nb.has(c.d, mask) && (nb.has(c.a, mask) || nb.has(c.b, mask))
		}
	}

	for q, cs := range quads {
		code := 0
		for i, d := range cs {
			if adj[d] {
				code |= 8 >> uint(i)
			}
		}
		if code != 0 {
			v.EnableFast(out[q*16+code])
		}
	}
}

func (s *Sampler) waterVis(v *bits.Buffer, nb *neighborhood, x, y, t int) {
	wet := false
	for d := DirC; d <= DirNW; d++ {
		if nb.has(d, mWater) {
			wet = true
			break
		}
	}
	if !wet {
		return
	}
	v.EnableFast(vWater[t][s.LandDist(x, y)])
}

// LandDist returns the smallest ring radius in [0, MaxLandDist] at which one of
// the 8 rays from (x, y) reaches a cell without resolved water. Radius 0 is the
// cell itself. Cells with no land in range report MaxLandDist.
func (s *Sampler) LandDist(x, y int) int {
	if !s.SampleMeta(x, y).HasFast(mWater) {
		return 0
	}
	for r := 1; r < MaxLandDist; r++ {
		for d := DirN; d <= DirNW; d++ {
			dx, dy := d.Offset()
			if !s.SampleMeta(x+dx*r, y+dy*r).HasFast(mWater) {
				return r
			}
		}
	}
	return MaxLandDist
}

// clusterVis emits edge and corner variants for clustered vegetation.
func clusterVis(v *bits.Buffer, nb *neighborhood, mask uint32, out *[9]bits.BufMask) {
	if !nb.has(DirC, mask) {
		return
	}
	v.EnableFast(out[DirC])
	for _, d := range cardinals {
		if nb.has(d, mask) {
			v.EnableFast(out[d])
		}
	}
	for _, c := range corners {
		if nb.has(c.d, mask) && nb.has(c.a, mask) && nb.has(c.b, mask) {
			v.EnableFast(out[c.d])
		}
	}
}

// wallVis classifies a wall cell as a straight run when it connects on
// opposite sides only, or as a center post with stubs otherwise.
func wallVis(v *bits.Buffer, nb *neighborhood, mask uint32, out *[wallShapes]bits.BufMask) {
	if !nb.has(DirC, mask) {
		return
	}
	n, e, s, w := nb.has(DirN, mask), nb.has(DirE, mask), nb.has(DirS, mask), nb.has(DirW, mask)
	door, window := nb.has(DirC, mDoor), nb.has(DirC, mWindow)
	switch {
	case e && w && !n && !s:
		v.EnableFast(out[pickShape(door, window, WallEW, WallEWDoor, WallEWWindow)])
	case n && s && !e && !w:
		v.EnableFast(out[pickShape(door, window, WallNS, WallNSDoor, WallNSWindow)])
	default:
		v.EnableFast(out[WallC])
		for i, on := range [4]bool{n, e, s, w} {
			if on {
				v.EnableFast(out[WallN+i])
			}
		}
	}
}

func pickShape(door, window bool, plain, withDoor, withWindow int) int {
	switch {
	case door:
		return withDoor
	case window:
		return withWindow
	}
	return plain
}

// brickSources maps each bricks side (N, E, S, W) to the neighbor that decides
// it. N and S read the opposite neighbor; tile art is authored for that.
var brickSources = [4]Dir{DirS, DirE, DirN, DirW}

func bricksVis(v *bits.Buffer, nb *neighborhood) {
	if !nb.has(DirC, mBricks) {
		return
	}
	for i, from := range brickSources {
		switch {
		case nb.has(from, mBricks):
			v.EnableFast(vBricks[i][0])
		case !nb.has(from, mBeam):
			v.EnableFast(vBricks[i][1])
		}
	}
}

func rocksVis(v *bits.Buffer, nb *neighborhood) {
	c := nb[DirC]
	if !c.HasFast(mRocks) {
		return
	}
	ore := OreOf(c)

	big := true
	for _, d := range [5]Dir{DirC, DirN, DirE, DirS, DirW} {
		if !nb.has(d, mRocks) || nb.has(d, mHarvested) {
			big = false
			break
		}
	}
	if big {
		v.EnableFast(vRocksBig)
		if ore != OreNone {
			v.EnableFast(vOreBig[ore])
		}
		return
	}

	harvested := c.HasFast(mHarvested)
	fam := &vRock
	if harvested {
		fam = &vCrumbs
	}
	v.EnableFast(fam[DirC])
	for _, d := range cardinals {
		if nb.has(d, mRocks) {
			v.EnableFast(fam[d])
		}
	}
	for _, cr := range corners {
		if nb.has(cr.d, mRocks) && nb.has(cr.a, mRocks) && nb.has(cr.b, mRocks) {
			v.EnableFast(fam[cr.d])
		}
	}
	if ore != OreNone && !harvested {
		v.EnableFast(vOre[ore])
	}
}

var speciesMasks = [species]uint32{mTreePine, mTreeMaple}

func treesVis(v *bits.Buffer, nb *neighborhood) {
	for sp, mask := range speciesMasks {
		if nb.has(DirC, mask) && nb.has(DirC, mHarvested) {
			v.EnableFast(vStump[sp])
			continue
		}
		for d := DirC; d <= DirNW; d++ {
			if !nb.has(d, mask) || nb.has(d, mHarvested) {
				continue
			}
			m := 0
			if nb.has(d, mMature) {
				m = 1
			}
			v.EnableFast(vTree[sp][m][d])
		}
	}
}

// HasWater reports whether v carries any water band bit.
func HasWater(v bits.Buffer) bool {
	for t := range vWater {
		for _, m := range vWater[t] {
			if v.HasFast(m) {
				return true
			}
		}
	}
	return false
}

func wrapTime(t int) int {
	return (t%TimeSlots + TimeSlots) % TimeSlots
}
