package sprites

import (
	"io"
	"log"
	"math"
	"slices"
	"testing"

	"cellatlas/internal/atlas"
	"cellatlas/internal/core"
)

type nopBackend struct{}

func (nopBackend) SetVisible(int, bool)        {}
func (nopBackend) RenderSlot(atlas.Slot) error { return nil }

func newTestSampler() *Sampler {
	return New(DefaultConfig(), DefaultConfig().Registry(log.New(io.Discard, "", 0)))
}

func TestValidateMetaRules(t *testing.T) {
	cases := []struct {
		in, want []string
	}{
		{[]string{"body", "body2", "hat"}, []string{"body", "hat"}},
		{[]string{"body2", "weapon"}, []string{"body2", "weapon"}},
		{[]string{"sheep", "body", "hat"}, []string{"hat", "sheep", "run"}},
		{[]string{"sheep", "skeleton"}, []string{"sheep", "run"}},
		{[]string{"skeleton", "body2", "frame1"}, []string{"skeleton", "run", "frame1"}},
	}
	for _, tc := range cases {
		got := ValidateMeta(NewMeta(tc.in...))
		if !got.Equal(NewMeta(tc.want...)) {
			t.Fatalf("%v -> %v, want %v", tc.in, got, tc.want)
		}
		if again := ValidateMeta(got); !again.Equal(got) {
			t.Fatalf("%v is not a fixed point", got)
		}
	}
}

func TestFrameCounter(t *testing.T) {
	m := NewMeta("sheep")
	for f := 0; f < Frames; f++ {
		if got := FrameOf(WithFrame(m, f)); got != f {
			t.Fatalf("frame %d decoded as %d", f, got)
		}
	}
	if got := FrameOf(WithFrame(m, 13)); got != 5 {
		t.Fatalf("frame 13 wraps to %d", got)
	}
	if got := FrameOf(WithFrame(m, -1)); got != 7 {
		t.Fatalf("frame -1 wraps to %d", got)
	}
}

func TestSampleVisProps(t *testing.T) {
	v := SampleVisProps(ValidateMeta(WithFrame(NewMeta("skeleton", "hat"), 3)))
	if !v.Has("skeletonRun3") || v.Has("hat") || v.Count() != 1 {
		t.Fatalf("creature visuals %v", v)
	}
	v = SampleVisProps(NewMeta("body", "weapon", "shield"))
	if !v.Has("body") || !v.Has("weapon") || !v.Has("shield") || v.Has("top") {
		t.Fatalf("equipment visuals %v", v)
	}
}

func TestSameFlagsSameAngleShareIDs(t *testing.T) {
	s := newTestSampler()
	meta := NewMeta("body", "hat", "carry")
	a := s.Add(Instance{Meta: meta, Angle: 0.3})
	b := s.Add(Instance{Meta: meta, X: 4, Y: 2, Angle: 0.3})

	ia, ib := s.SampleVisIDs(a), s.SampleVisIDs(b)
	if ia != ib {
		t.Fatalf("identical sprites got %v and %v", ia, ib)
	}
	if ia[0] == ia[1] || ia[0] == 0 {
		t.Fatalf("ids %v", ia)
	}

	s.SetAngle(b, math.Pi)
	if turned := s.SampleVisIDs(b); turned == ia {
		t.Fatal("opposite facing must resolve to a different id")
	}
}

func TestRunFrameChangesID(t *testing.T) {
	s := newTestSampler()
	h := s.Add(Instance{Meta: NewMeta("sheep")})
	before := s.SampleVisIDs(h)

	s.SetFrame(h, 5)
	after := s.SampleVisIDs(h)
	if after == before {
		t.Fatal("frame 5 must select a different run sprite")
	}
	if !s.UpdateMeta() {
		t.Fatal("frame change should be revalidated")
	}
	got, _ := s.Get(h)
	if FrameOf(got.Meta) != 5 || !got.Meta.Has("run") {
		t.Fatalf("meta %v", got.Meta)
	}

	plain := s.Add(Instance{Meta: NewMeta("body")})
	still := s.SampleVisIDs(plain)
	s.SetFrame(plain, 5)
	if s.SampleVisIDs(plain) != still {
		t.Fatal("frame has no visual effect without a creature")
	}
}

func TestSetMetaValidatedOnUpdate(t *testing.T) {
	s := newTestSampler()
	h := s.Add(Instance{})
	if s.UpdateMeta() {
		t.Fatal("nothing to revalidate")
	}
	s.SetMeta(h, NewMeta("body", "body2", "skeleton"))
	s.UpdateMeta()
	got, ok := s.Get(h)
	if !ok || !got.Meta.Equal(NewMeta("skeleton", "run")) {
		t.Fatalf("meta %v", got.Meta)
	}
}

func TestUpdateVisWritesEveryInstance(t *testing.T) {
	s := newTestSampler()
	a := s.Add(Instance{Meta: NewMeta("body"), X: 1, Y: 2, Z: 3})
	s.Add(Instance{Meta: NewMeta("sheep"), X: 5, Y: 6, Z: 0.5})
	bottom := core.NewPointBuffer(0, 3)
	top := core.NewPointBuffer(0, 3)

	if !s.UpdateVis(bottom, top) {
		t.Fatal("UpdateVis with live sprites reports work")
	}
	if bottom.Count != 2 || bottom.ID(0) != 0 {
		t.Fatalf("count %d, first id %d", bottom.Count, bottom.ID(0))
	}
	if !slices.Equal(bottom.Position(1), []float32{5, 6, 0.5}) {
		t.Fatalf("position %v", bottom.Position(1))
	}

	if _, err := s.Registry().Render(nopBackend{}); err != nil {
		t.Fatal(err)
	}
	s.SetPosition(a, 9, 9, 9)
	s.UpdateVis(bottom, top)
	if want := s.SampleVisIDs(a); bottom.ID(0) != want[0] || top.ID(0) != want[1] {
		t.Fatalf("ids %d/%d, want %v", bottom.ID(0), top.ID(0), want)
	}
	if !slices.Equal(top.Position(0), []float32{9, 9, 9}) {
		t.Fatalf("moved position %v", top.Position(0))
	}

	s.Remove(a)
	if s.Len() != 1 {
		t.Fatalf("len %d", s.Len())
	}
	s.UpdateVis(bottom, top)
	if bottom.Count != 1 || !slices.Equal(bottom.Position(0), []float32{5, 6, 0.5}) {
		t.Fatal("remaining sprite must move to slot 0")
	}

	s.Reset()
	if s.Len() != 0 || s.UpdateVis(bottom, top) {
		t.Fatal("reset must drop every sprite")
	}
	if _, ok := s.Get(a); ok {
		t.Fatal("removed handle still resolves")
	}
}
