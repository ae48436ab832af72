package terrain

import (
	"fmt"

	"cellatlas/internal/bits"
)

// Meta channel names. Bit position is the index in this list.
var metaList = []string{
	"water", "beach", "sand", "dirt", "grass", "bush",
	"floor", "beam", "logWall", "bricks", "door", "window",
	"goldPile", "lampPost", "testObject", "pyramid", "rockyGround",
	"rocks", "harvested", "goldOre", "silverOre", "ironOre", "copperOre",
	"treePine", "treeMaple", "mature",
}

// MetaNames is the shared table for every meta Register.
var MetaNames = bits.NewNames(metaList...)

var (
	mWater       = MetaNames.RegisterMask("water")
	mBeach       = MetaNames.RegisterMask("beach")
	mSand        = MetaNames.RegisterMask("sand")
	mDirt        = MetaNames.RegisterMask("dirt")
	mGrass       = MetaNames.RegisterMask("grass")
	mBush        = MetaNames.RegisterMask("bush")
	mFloor       = MetaNames.RegisterMask("floor")
	mBeam        = MetaNames.RegisterMask("beam")
	mLogWall     = MetaNames.RegisterMask("logWall")
	mBricks      = MetaNames.RegisterMask("bricks")
	mDoor        = MetaNames.RegisterMask("door")
	mWindow      = MetaNames.RegisterMask("window")
	mGoldPile    = MetaNames.RegisterMask("goldPile")
	mLampPost    = MetaNames.RegisterMask("lampPost")
	mTestObject  = MetaNames.RegisterMask("testObject")
	mPyramid     = MetaNames.RegisterMask("pyramid")
	mRockyGround = MetaNames.RegisterMask("rockyGround")
	mRocks       = MetaNames.RegisterMask("rocks")
	mHarvested   = MetaNames.RegisterMask("harvested")
	mGoldOre     = MetaNames.RegisterMask("goldOre")
	mSilverOre   = MetaNames.RegisterMask("silverOre")
	mIronOre     = MetaNames.RegisterMask("ironOre")
	mCopperOre   = MetaNames.RegisterMask("copperOre")
	mTreePine    = MetaNames.RegisterMask("treePine")
	mTreeMaple   = MetaNames.RegisterMask("treeMaple")
	mMature      = MetaNames.RegisterMask("mature")
)

// NewMeta returns a meta register with the named channels enabled.
func NewMeta(names ...string) bits.Register {
	r := bits.NewRegister(MetaNames)
	for _, n := range names {
		r.Enable(n)
	}
	return r
}

// Dir is one of the nine cells of a 3x3 neighborhood. N is y-1, E is x+1.
type Dir uint8

const (
	DirC Dir = iota
	DirN
	DirNE
	DirE
	DirSE
	DirS
	DirSW
	DirW
	DirNW
)

var dirNames = [9]string{"C", "N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// String returns the compass suffix used in visual names.
func (d Dir) String() string { return dirNames[d] }

var (
	dirDX = [9]int{0, 0, 1, 1, 1, 0, -1, -1, -1}
	dirDY = [9]int{0, -1, -1, 0, 1, 1, 1, 0, -1}
)

// Offset returns the coordinate delta of d.
func (d Dir) Offset() (int, int) { return dirDX[d], dirDY[d] }

var cardinals = [4]Dir{DirN, DirE, DirS, DirW}

// corners pairs each diagonal with its two flanking cardinals.
var corners = [4]struct{ d, a, b Dir }{
	{DirNE, DirN, DirE},
	{DirSE, DirS, DirE},
	{DirSW, DirS, DirW},
	{DirNW, DirN, DirW},
}

// Kind identifies the family of decorative piece a visual bit stands for.
type Kind uint8

const (
	KindLayer Kind = iota
	KindDirt
	KindSand
	KindWater
	KindGrass
	KindBush
	KindBeam
	KindLogWall
	KindBricks
	KindGoldPile
	KindLampPost
	KindTestObject
	KindPyramid
	KindRockyGround
	KindRockBig
	KindOreBig
	KindRock
	KindRockCrumbs
	KindOre
	KindTree
	KindStump
)

// Wall shapes for beam and logWall pieces.
const (
	WallEW = iota
	WallNS
	WallC
	WallN
	WallE
	WallS
	WallW
	WallEWDoor
	WallNSDoor
	WallEWWindow
	WallNSWindow
	wallShapes
)

var wallShapeNames = [wallShapes]string{"EW", "NS", "C", "N", "E", "S", "W", "EWDoor", "NSDoor", "EWWindow", "NSWindow"}

// Ore kinds; OreNone means no ore.
const (
	OreNone = iota
	OreGold
	OreSilver
	OreIron
	OreCopper
	oreKinds
)

var oreNames = [oreKinds]string{"", "gold", "silver", "iron", "copper"}

// Tree species.
const (
	Pine = iota
	Maple
	species
)

var speciesNames = [species]string{"pine", "maple"}

// TimeSlots is the number of water animation frames.
const TimeSlots = 4

// MaxLandDist caps the shoreline ray search.
const MaxLandDist = 7

// Piece describes the decorative piece behind one visual bit.
type Piece struct {
	Name   string
	Kind   Kind
	Dir    Dir
	Param  int
	Mature bool
}

// Pieces lists every visual bit in order; Pieces[i] is bit i of VisNames.
var Pieces = buildPieces()

// VisNames is the shared table for every visual descriptor Buffer.
var VisNames = visNamesOf(Pieces)

func buildPieces() []Piece {
	ps := []Piece{{Name: "top", Kind: KindLayer}}
	for code := 0; code < 64; code++ {
		ps = append(ps, Piece{Name: fmt.Sprintf("dirt%d", code), Kind: KindDirt, Param: code})
	}
	for code := 0; code < 64; code++ {
		ps = append(ps, Piece{Name: fmt.Sprintf("sand%d", code), Kind: KindSand, Param: code})
	}
	for t := 0; t < TimeSlots; t++ {
		for d := 0; d <= MaxLandDist; d++ {
			ps = append(ps, Piece{Name: fmt.Sprintf("water%d%d", t, d), Kind: KindWater, Param: t*(MaxLandDist+1) + d})
		}
	}
	for _, fam := range []struct {
		name string
		kind Kind
	}{{"grass", KindGrass}, {"bush", KindBush}} {
		for d := DirC; d <= DirNW; d++ {
			ps = append(ps, Piece{Name: fam.name + d.String(), Kind: fam.kind, Dir: d})
		}
	}
	for _, fam := range []struct {
		name string
		kind Kind
	}{{"beam", KindBeam}, {"logWall", KindLogWall}} {
		for shape := 0; shape < wallShapes; shape++ {
			ps = append(ps, Piece{Name: fam.name + wallShapeNames[shape], Kind: fam.kind, Param: shape})
		}
	}
	for _, d := range cardinals {
		ps = append(ps, Piece{Name: "bricks" + d.String(), Kind: KindBricks, Dir: d})
		ps = append(ps, Piece{Name: "bricks" + d.String() + "End", Kind: KindBricks, Dir: d, Param: 1})
	}
	ps = append(ps,
		Piece{Name: "goldPile", Kind: KindGoldPile},
		Piece{Name: "lampPost", Kind: KindLampPost},
		Piece{Name: "testObject", Kind: KindTestObject},
		Piece{Name: "pyramid", Kind: KindPyramid},
		Piece{Name: "rockyGround", Kind: KindRockyGround},
		Piece{Name: "rocksBig", Kind: KindRockBig},
	)
	for ore := OreGold; ore < oreKinds; ore++ {
		ps = append(ps, Piece{Name: oreNames[ore] + "OreBig", Kind: KindOreBig, Param: ore})
	}
	for d := DirC; d <= DirNW; d++ {
		ps = append(ps, Piece{Name: "rocks" + d.String(), Kind: KindRock, Dir: d})
	}
	for d := DirC; d <= DirNW; d++ {
		ps = append(ps, Piece{Name: "rockCrumbs" + d.String(), Kind: KindRockCrumbs, Dir: d})
	}
	for ore := OreGold; ore < oreKinds; ore++ {
		ps = append(ps, Piece{Name: oreNames[ore] + "OreForRocks", Kind: KindOre, Param: ore})
	}
	for sp := 0; sp < species; sp++ {
		for _, mature := range []bool{false, true} {
			for d := DirC; d <= DirNW; d++ {
				ps = append(ps, Piece{Name: treeName(sp, mature, d), Kind: KindTree, Dir: d, Param: sp, Mature: mature})
			}
		}
		ps = append(ps, Piece{Name: speciesNames[sp] + "Stump", Kind: KindStump, Param: sp})
	}
	return ps
}

func treeName(sp int, mature bool, d Dir) string {
	m := ""
	if mature {
		m = "Mature"
	}
	return speciesNames[sp] + m + d.String()
}

func visNamesOf(ps []Piece) *bits.Names {
	list := make([]string, len(ps))
	for i, p := range ps {
		list[i] = p.Name
	}
	return bits.NewNames(list...)
}

// Precomputed visual masks used by the adjacency pass.
var (
	vTop      = bits.MaskOf(VisNames, "top")
	vGround   = [2][64]bits.BufMask{maskSeq("dirt%d", 64), maskSeq("sand%d", 64)}
	vWater    = waterMasks()
	vGrass    = dirMasks("grass%s")
	vBush     = dirMasks("bush%s")
	vBeam     = wallMasks("beam")
	vLogWall  = wallMasks("logWall")
	vBricks   = bricksMasks()
	vRocksBig = bits.MaskOf(VisNames, "rocksBig")
	vOreBig   = oreMasks("%sOreBig")
	vRock     = dirMasks("rocks%s")
	vCrumbs   = dirMasks("rockCrumbs%s")
	vOre      = oreMasks("%sOreForRocks")
	vTree     = treeMasks()
	vStump    = [species]bits.BufMask{bits.MaskOf(VisNames, "pineStump"), bits.MaskOf(VisNames, "mapleStump")}

	vPoints = []struct {
		meta uint32
		vis  bits.BufMask
	}{
		{mGoldPile, bits.MaskOf(VisNames, "goldPile")},
		{mLampPost, bits.MaskOf(VisNames, "lampPost")},
		{mTestObject, bits.MaskOf(VisNames, "testObject")},
		{mPyramid, bits.MaskOf(VisNames, "pyramid")},
		{mRockyGround, bits.MaskOf(VisNames, "rockyGround")},
	}
)

func maskSeq(format string, n int) [64]bits.BufMask {
	var out [64]bits.BufMask
	for i := 0; i < n; i++ {
		out[i] = bits.MaskOf(VisNames, fmt.Sprintf(format, i))
	}
	return out
}

func waterMasks() (out [TimeSlots][MaxLandDist + 1]bits.BufMask) {
	for t := range out {
		for d := range out[t] {
			out[t][d] = bits.MaskOf(VisNames, fmt.Sprintf("water%d%d", t, d))
		}
	}
	return out
}

func dirMasks(format string) (out [9]bits.BufMask) {
	for d := DirC; d <= DirNW; d++ {
		out[d] = bits.MaskOf(VisNames, fmt.Sprintf(format, d))
	}
	return out
}

func wallMasks(prefix string) (out [wallShapes]bits.BufMask) {
	for shape := range out {
		out[shape] = bits.MaskOf(VisNames, prefix+wallShapeNames[shape])
	}
	return out
}

// bricksMasks is indexed by cardinal position (N, E, S, W) then normal/end.
func bricksMasks() (out [4][2]bits.BufMask) {
	for i, d := range cardinals {
		out[i][0] = bits.MaskOf(VisNames, "bricks"+d.String())
		out[i][1] = bits.MaskOf(VisNames, "bricks"+d.String()+"End")
	}
	return out
}

func oreMasks(format string) (out [oreKinds]bits.BufMask) {
	for ore := OreGold; ore < oreKinds; ore++ {
		out[ore] = bits.MaskOf(VisNames, fmt.Sprintf(format, oreNames[ore]))
	}
	return out
}

func treeMasks() (out [species][2][9]bits.BufMask) {
	for sp := 0; sp < species; sp++ {
		for m, mature := range []bool{false, true} {
			for d := DirC; d <= DirNW; d++ {
				out[sp][m][d] = bits.MaskOf(VisNames, treeName(sp, mature, d))
			}
		}
	}
	return out
}
