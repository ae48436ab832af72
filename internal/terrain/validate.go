package terrain

import "cellatlas/internal/bits"

// maxRulePasses bounds the fixed-point loop over the ordered rules. The rule
// set settles in two passes; the bound only guards against future edits.
const maxRulePasses = 4

// ValidateMeta resolves contradictory channel combinations in in. Rules run in
// a fixed order and later rules see earlier rewrites. Water stays water only
// when all 8 neighbors carry water before validation. The result is a fixed
// point: validating it again returns it unchanged.
func (s *Sampler) ValidateMeta(in bits.Register, x, y int) bits.Register {
	m := in
	if m.HasFast(mWater) {
		interior := true
		for d := DirN; d <= DirNW; d++ {
			dx, dy := d.Offset()
			if nb, _ := s.input(x+dx, y+dy); !nb.HasFast(mWater) {
				interior = false
				break
			}
		}
		m = bits.RegisterOf(MetaNames, m.Bits()&mRocks)
		switch {
		case interior:
			m.EnableFast(mWater)
		case in.HasFast(mSand), in.HasFast(mBeach):
			m.EnableFast(mSand)
		default:
			m.EnableFast(mDirt)
		}
	}

	for i := 0; i < maxRulePasses; i++ {
		before := m.Bits()
		applyRules(&m, in)
		if m.Bits() == before {
			break
		}
	}
	return m
}

func applyRules(m *bits.Register, in bits.Register) {
	has := func(mask uint32) bool { return m.HasFast(mask) }

	if has(mSand) {
		m.DisableFast(mDirt | mGrass)
	}
	if has(mWater) {
		m.DisableFast(mFloor | mLogWall | mBeam | mBricks)
	}
	if has(mFloor) {
		m.DisableFast(mGrass | mSand)
		m.EnableFast(mDirt)
	}

	// structures
	if has(mBeam) && !has(mFloor) {
		m.DisableFast(mBeam)
	}
	if has(mLogWall) && !has(mFloor) {
		m.DisableFast(mLogWall)
	}
	if has(mBeam) && has(mLogWall) {
		m.DisableFast(mLogWall)
	}
	if has(mBeam) {
		m.DisableFast(mGrass)
	}
	if has(mBricks) && !has(mBeam) {
		m.DisableFast(mBricks)
	}
	if has(mFloor) {
		m.DisableFast(mBush)
	}

	// decorations
	if has(mBush) && !has(mGrass) {
		m.DisableFast(mBush)
	}
	if has(mTestObject) {
		m.DisableFast(mBush | mPyramid)
	}
	if has(mLampPost) {
		m.DisableFast(mBeam | mLogWall | mBush | mBricks | mGoldPile | mTestObject)
	}
	if has(mPyramid) && !has(mFloor) {
		m.DisableFast(mPyramid)
	}
	if has(mPyramid) {
		m.DisableFast(mBush | mBeam | mLogWall | mLampPost | mGrass | mGoldPile)
	}
	if has(mRockyGround) {
		m.DisableFast(mBeam | mLogWall | mBush | mFloor | mGrass | mBricks | mGoldPile | mTestObject)
	}
	if has(mGoldPile) {
		m.DisableFast(mBush | mBeam | mLogWall | mTreePine | mTreeMaple | mLampPost)
	}

	if has(mRocks) {
		harvested := has(mHarvested)
		ore := oreMask(*m)
		ground := mDirt
		if in.HasFast(mSand) {
			ground = mSand
		}
		*m = bits.RegisterOf(MetaNames, ground|mRocks|ore)
		if harvested {
			m.EnableFast(mHarvested)
		}
	} else {
		m.DisableFast(mGoldOre | mSilverOre | mIronOre | mCopperOre)
	}

	if has(mTreePine) || has(mTreeMaple) {
		m.DisableFast(mBush | mGoldPile | mTestObject)
		if !has(mGrass) || has(mLampPost) {
			m.DisableFast(mTreePine | mTreeMaple)
		}
		if has(mTreePine) && has(mTreeMaple) {
			m.DisableFast(mTreeMaple)
		}
	}

	// only rocks and trees can be harvested
	if !has(mRocks | mTreePine | mTreeMaple) {
		m.DisableFast(mHarvested)
	}
}

// oreMask keeps at most one ore: gold, then silver when neither iron nor
// copper is present, then iron, then copper.
func oreMask(m bits.Register) uint32 {
	switch {
	case m.HasFast(mGoldOre):
		return mGoldOre
	case m.HasFast(mSilverOre) && !m.HasFast(mIronOre) && !m.HasFast(mCopperOre):
		return mSilverOre
	case m.HasFast(mIronOre):
		return mIronOre
	case m.HasFast(mCopperOre):
		return mCopperOre
	}
	return 0
}

// OreOf returns the ore kind of a resolved meta register.
func OreOf(m bits.Register) int {
	switch oreMask(m) {
	case mGoldOre:
		return OreGold
	case mSilverOre:
		return OreSilver
	case mIronOre:
		return OreIron
	case mCopperOre:
		return OreCopper
	}
	return OreNone
}
