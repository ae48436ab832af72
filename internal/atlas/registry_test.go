package atlas

import (
	"bytes"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"cellatlas/internal/bits"
)

var testNames = bits.NewNames("top", "grass", "rock", "tree")

type recordingBackend struct {
	visible map[int]bool
	slots   []Slot
	seen    [][]int
	failOn  int
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{visible: map[int]bool{}, failOn: -1}
}

func (b *recordingBackend) SetVisible(bit int, on bool) { b.visible[bit] = on }

func (b *recordingBackend) RenderSlot(s Slot) error {
	if s.ID == b.failOn {
		return errors.New("boom")
	}
	var on []int
	for bit := 0; bit < testNames.Len(); bit++ {
		if b.visible[bit] {
			on = append(on, bit)
		}
	}
	b.slots = append(b.slots, s)
	b.seen = append(b.seen, on)
	return nil
}

func desc(names ...string) bits.Buffer {
	d := bits.NewBuffer(testNames)
	for _, n := range names {
		d.Enable(n)
	}
	return d
}

func quietConfig() Config {
	return Config{TilesPerEdge: 4, Logger: log.New(&bytes.Buffer{}, "", 0)}
}

func TestGetIDDedupesByValue(t *testing.T) {
	r := New(testNames, quietConfig())
	a := r.GetID(desc("grass"))
	b := r.GetID(desc("grass"))
	c := r.GetID(desc("grass", "rock"))
	if a != b {
		t.Fatalf("identical descriptors got ids %d and %d", a, b)
	}
	if a == c {
		t.Fatal("distinct descriptors must get distinct ids")
	}
}

func TestIDsAreDenseFromBlank(t *testing.T) {
	r := New(testNames, quietConfig())
	if id := r.GetID(bits.NewBuffer(testNames)); id != 0 {
		t.Fatalf("blank descriptor should be id 0, got %d", id)
	}
	for want, d := range []bits.Buffer{desc("grass"), desc("rock"), desc("tree"), desc("top", "tree")} {
		if got := r.GetID(d); got != want+1 {
			t.Fatalf("expected dense id %d, got %d", want+1, got)
		}
	}
	if r.Len() != 5 {
		t.Fatalf("expected 5 ids, got %d", r.Len())
	}
}

func TestRenderShowsOnlyDescriptorBits(t *testing.T) {
	cfg := quietConfig()
	cfg.Passes = []string{"color", "shadow"}
	r := New(testNames, cfg)
	id := r.GetID(desc("grass", "tree"))

	b := newRecordingBackend()
	n, err := r.Render(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected blank and one tile rendered, got %d", n)
	}
	if len(b.slots) != 4 {
		t.Fatalf("expected 2 ids x 2 passes, got %d slots", len(b.slots))
	}
	last := b.slots[3]
	if last.ID != id || last.Pass != "shadow" || last.PassIndex != 1 {
		t.Fatalf("unexpected final slot %+v", last)
	}
	if col, row := r.Slot(id); last.Col != col || last.Row != row {
		t.Fatalf("slot position mismatch %+v", last)
	}
	if got := b.seen[3]; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("expected bits [1 3] visible, got %v", got)
	}
	if len(b.seen[0]) != 0 {
		t.Fatalf("blank slot should render nothing, got %v", b.seen[0])
	}
	if !r.Made(id) || len(r.Pending()) != 0 {
		t.Fatal("render should mark ids made and clear the queue")
	}
	if n, _ := r.Render(b); n != 0 {
		t.Fatal("second flush should be a no-op")
	}
}

func TestRenderErrorKeepsQueue(t *testing.T) {
	r := New(testNames, quietConfig())
	id := r.GetID(desc("rock"))
	b := newRecordingBackend()
	b.failOn = id
	if _, err := r.Render(b); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if r.Made(id) || len(r.Pending()) != 2 {
		t.Fatal("failed flush must keep the queue")
	}
	b.failOn = -1
	if _, err := r.Render(b); err != nil {
		t.Fatal(err)
	}
	if !r.Made(id) {
		t.Fatal("retry should mark id made")
	}
}

func TestCapacityOverflowIsReported(t *testing.T) {
	var logs bytes.Buffer
	r := New(testNames, Config{TilesPerEdge: 2, Logger: log.New(&logs, "", 0)})
	var last int
	combos := [][]string{{"grass"}, {"rock"}, {"tree"}, {"grass", "rock"}, {"grass", "tree"}}
	for _, c := range combos {
		last = r.GetID(desc(c...))
	}
	if last != 5 {
		t.Fatalf("overflowing id should still be returned, got %d", last)
	}
	if r.Overflow() != 2 {
		t.Fatalf("expected 2 overflowing ids, got %d", r.Overflow())
	}
	if !strings.Contains(logs.String(), ErrCapacity.Error()) {
		t.Fatalf("expected capacity report in log, got %q", logs.String())
	}
	b := newRecordingBackend()
	if n, err := r.Render(b); err != nil || n != 4 {
		t.Fatalf("only in-capacity ids render, got n=%d err=%v", n, err)
	}
	if r.Made(5) {
		t.Fatal("overflowing id must never be marked made")
	}
}

func TestAngledRegistrySectors(t *testing.T) {
	r := NewAngled(testNames, quietConfig(), 8)
	d := desc("tree")
	a := r.GetIDAtAngle(d, 0.1)
	b := r.GetIDAtAngle(d, -0.1)
	c := r.GetIDAtAngle(d, math.Pi/2)
	if a != b {
		t.Fatal("angles in the same sector should share an id")
	}
	if a == c {
		t.Fatal("different sectors should get different ids")
	}
	if r.Sector(2*math.Pi-0.05) != 0 {
		t.Fatal("angles near a full turn wrap to sector 0")
	}
	if r.GetIDAtAngle(d, 2*math.Pi) != a {
		t.Fatal("a full turn is the same facing")
	}
}

func TestNewAngledRejectsBadSteps(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewAngled(testNames, quietConfig(), 0)
}
