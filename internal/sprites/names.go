package sprites

import (
	"fmt"

	"cellatlas/internal/bits"
)

// MetaNames is the shared table for every sprite meta Register. frame0..2 hold
// a 3-bit animation counter, frame0 being the low bit.
var MetaNames = bits.NewNames(
	"body", "body2", "hat", "weapon", "shield", "carry",
	"sheep", "skeleton", "run",
	"frame0", "frame1", "frame2",
)

var (
	mBody     = MetaNames.RegisterMask("body")
	mBody2    = MetaNames.RegisterMask("body2")
	mSheep    = MetaNames.RegisterMask("sheep")
	mSkeleton = MetaNames.RegisterMask("skeleton")
	mRun      = MetaNames.RegisterMask("run")
	mFrame    = [3]uint32{
		MetaNames.RegisterMask("frame0"),
		MetaNames.RegisterMask("frame1"),
		MetaNames.RegisterMask("frame2"),
	}
)

// Frames is the length of a run cycle.
const Frames = 8

// equipment lists the pieces drawn for non-creature sprites, in meta order.
var equipment = []string{"body", "body2", "hat", "weapon", "shield", "carry"}

// VisNames is the shared table for sprite visual descriptors.
var VisNames = bits.NewNames(visList()...)

func visList() []string {
	list := append([]string{"top"}, equipment...)
	for _, creature := range []string{"sheep", "skeleton"} {
		for f := 0; f < Frames; f++ {
			list = append(list, fmt.Sprintf("%sRun%d", creature, f))
		}
	}
	return list
}

var (
	vTop      = bits.MaskOf(VisNames, "top")
	vEquip    = equipMasks()
	vSheep    = runMasks("sheep")
	vSkeleton = runMasks("skeleton")
)

func equipMasks() []struct {
	meta uint32
	vis  bits.BufMask
} {
	out := make([]struct {
		meta uint32
		vis  bits.BufMask
	}, len(equipment))
	for i, name := range equipment {
		out[i].meta = MetaNames.RegisterMask(name)
		out[i].vis = bits.MaskOf(VisNames, name)
	}
	return out
}

func runMasks(creature string) (out [Frames]bits.BufMask) {
	for f := range out {
		out[f] = bits.MaskOf(VisNames, fmt.Sprintf("%sRun%d", creature, f))
	}
	return out
}

// NewMeta returns a sprite meta register with the named flags enabled.
func NewMeta(names ...string) bits.Register {
	r := bits.NewRegister(MetaNames)
	for _, n := range names {
		r.Enable(n)
	}
	return r
}

// FrameOf decodes the animation counter.
func FrameOf(m bits.Register) int {
	f := 0
	for i, mask := range mFrame {
		if m.HasFast(mask) {
			f |= 1 << uint(i)
		}
	}
	return f
}

// WithFrame returns m with the animation counter set to f mod Frames.
func WithFrame(m bits.Register, f int) bits.Register {
	f = (f%Frames + Frames) % Frames
	for i, mask := range mFrame {
		m.SetFast(mask, f&(1<<uint(i)) != 0)
	}
	return m
}
