package terrain

import "cellatlas/internal/bits"

// Class is the dominant feature of a resolved cell, used by previews that
// show one symbol or color per cell.
type Class uint8

const (
	ClassNone Class = iota
	ClassWater
	ClassSand
	ClassDirt
	ClassGrass
	ClassBush
	ClassFloor
	ClassWall
	ClassRock
	ClassOre
	ClassTree
	ClassStump
	ClassDecoration
	classCount
)

// Classes is the number of Class values.
const Classes = int(classCount)

var classNames = [classCount]string{
	"none", "water", "sand", "dirt", "grass", "bush", "floor",
	"wall", "rock", "ore", "tree", "stump", "decoration",
}

func (c Class) String() string {
	if c >= classCount {
		return "unknown"
	}
	return classNames[c]
}

// Classify picks the feature a viewer should show for resolved meta m.
// Taller features win over the ground they stand on.
func Classify(m bits.Register) Class {
	switch {
	case m.HasFast(mWater):
		return ClassWater
	case m.HasFast(mRocks):
		if OreOf(m) != OreNone && !m.HasFast(mHarvested) {
			return ClassOre
		}
		return ClassRock
	case m.HasFast(mTreePine | mTreeMaple):
		if m.HasFast(mHarvested) {
			return ClassStump
		}
		return ClassTree
	case m.HasFast(mBeam | mLogWall | mBricks):
		return ClassWall
	case m.HasFast(mGoldPile | mLampPost | mTestObject | mPyramid | mRockyGround):
		return ClassDecoration
	case m.HasFast(mFloor):
		return ClassFloor
	case m.HasFast(mBush):
		return ClassBush
	case m.HasFast(mGrass):
		return ClassGrass
	case m.HasFast(mSand):
		return ClassSand
	case m.HasFast(mDirt):
		return ClassDirt
	}
	return ClassNone
}
