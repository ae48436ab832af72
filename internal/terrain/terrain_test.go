package terrain

import (
	"io"
	"log"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"cellatlas/internal/atlas"
	"cellatlas/internal/bits"
	"cellatlas/internal/core"
)

// gridSource is a hand-built raw meta fixture. Cells not set read as fill.
type gridSource struct {
	cells map[core.Key]bits.Register
	fill  bits.Register
}

func newGrid(fill ...string) *gridSource {
	return &gridSource{cells: map[core.Key]bits.Register{}, fill: NewMeta(fill...)}
}

func (g *gridSource) set(x, y int, names ...string) {
	g.cells[core.MakeKey(x, y)] = NewMeta(names...)
}

func (g *gridSource) rect(x0, y0, x1, y1 int, names ...string) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.set(x, y, names...)
		}
	}
}

func (g *gridSource) Sample(x, y float64) bits.Register {
	if r, ok := g.cells[core.MakeKey(int(x), int(y))]; ok {
		return r
	}
	return g.fill
}

type nopBackend struct{}

func (nopBackend) SetVisible(int, bool)        {}
func (nopBackend) RenderSlot(atlas.Slot) error { return nil }

func quietRegistry() *atlas.Registry {
	return atlas.New(VisNames, atlas.Config{Logger: log.New(io.Discard, "", 0)})
}

func newTestSampler(src Source) *Sampler {
	cfg := DefaultConfig()
	cfg.ViewW = 4
	cfg.ViewH = 3
	return NewWithSource(cfg, quietRegistry(), src)
}

func onBits(v bits.Buffer) []string {
	var out []string
	for i := 0; i < v.Names().Len(); i++ {
		if v.HasIndex(i) {
			out = append(out, v.Names().Name(i))
		}
	}
	return out
}

func TestVisNamesLayout(t *testing.T) {
	if VisNames.Index("top") != 0 {
		t.Fatal("top must be bit 0")
	}
	if len(Pieces) != VisNames.Len() {
		t.Fatalf("pieces %d != names %d", len(Pieces), VisNames.Len())
	}
	for _, name := range []string{"dirt63", "sand0", "water37", "grassNW", "logWallNSWindow", "bricksWEnd", "copperOreBig", "rockCrumbsSE", "ironOreForRocks", "mapleMatureNW", "pineStump"} {
		if _, ok := VisNames.Lookup(name); !ok {
			t.Fatalf("missing visual name %q", name)
		}
	}
	if MetaNames.Len() > bits.MaxRegisterNames {
		t.Fatalf("meta names do not fit a register: %d", MetaNames.Len())
	}
}

func TestSamplingDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 4242
	a := New(cfg, quietRegistry())
	b := New(cfg, quietRegistry())
	for y := -10; y < 10; y++ {
		for x := -10; x < 10; x++ {
			if !a.SampleMetaRaw(x, y).Equal(b.SampleMetaRaw(x, y)) {
				t.Fatalf("raw meta differs at (%d,%d)", x, y)
			}
			va := a.SampleVisProps(x, y, 1)
			if va.Key() != b.SampleVisProps(x, y, 1).Key() {
				t.Fatalf("visual descriptor differs at (%d,%d)", x, y)
			}
			if va.Key() != a.SampleVisProps(x, y, 1).Key() {
				t.Fatalf("repeated sample differs at (%d,%d)", x, y)
			}
		}
	}
}

func TestValidateIsFixedPoint(t *testing.T) {
	s := New(DefaultConfig(), quietRegistry())
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			m := s.SampleMeta(x, y)
			if again := s.ValidateMeta(m, x, y); !again.Equal(m) {
				t.Fatalf("(%d,%d): %v revalidated to %v", x, y, m, again)
			}
		}
	}

	grid := newGrid("dirt")
	grid.rect(-1, -1, 1, 1, "water")
	rs := newTestSampler(grid)
	rng := rand.New(rand.NewPCG(1, 2))
	all := uint32(1)<<uint(MetaNames.Len()) - 1
	for i := 0; i < 5000; i++ {
		in := bits.RegisterOf(MetaNames, rng.Uint32()&all)
		for _, at := range [][2]int{{0, 0}, {5, 5}} {
			once := rs.ValidateMeta(in, at[0], at[1])
			if twice := rs.ValidateMeta(once, at[0], at[1]); !twice.Equal(once) {
				t.Fatalf("%v -> %v -> %v", in, once, twice)
			}
			checkExclusions(t, once)
		}
	}
}

func checkExclusions(t *testing.T, m bits.Register) {
	t.Helper()
	both := func(a, b uint32) bool { return m.HasFast(a) && m.HasFast(b) }
	switch {
	case both(mWater, mFloor):
		t.Fatalf("water with floor: %v", m)
	case both(mSand, mDirt):
		t.Fatalf("sand with dirt: %v", m)
	case both(mTreePine, mTreeMaple):
		t.Fatalf("pine with maple: %v", m)
	case both(mRocks, mBush):
		t.Fatalf("rocks with bush: %v", m)
	case both(mBeam, mLogWall):
		t.Fatalf("beam with logWall: %v", m)
	case m.HasFast(mBeam) && !m.HasFast(mFloor):
		t.Fatalf("beam without floor: %v", m)
	case m.HasFast(mBricks) && !m.HasFast(mBeam):
		t.Fatalf("bricks without beam: %v", m)
	case m.HasFast(mBush) && !m.HasFast(mGrass):
		t.Fatalf("bush without grass: %v", m)
	case m.HasFast(mPyramid) && !m.HasFast(mFloor):
		t.Fatalf("pyramid without floor: %v", m)
	case m.HasFast(mTreePine|mTreeMaple) && (!m.HasFast(mGrass) || m.HasFast(mLampPost)):
		t.Fatalf("tree without grass or with lamp post: %v", m)
	}
	ores := 0
	for _, o := range []uint32{mGoldOre, mSilverOre, mIronOre, mCopperOre} {
		if m.HasFast(o) {
			ores++
		}
	}
	if ores > 1 {
		t.Fatalf("more than one ore: %v", m)
	}
}

func TestOrePriority(t *testing.T) {
	s := newTestSampler(newGrid("dirt"))
	cases := []struct {
		in   []string
		want int
	}{
		{[]string{"rocks", "goldOre", "silverOre", "ironOre"}, OreGold},
		{[]string{"rocks", "silverOre"}, OreSilver},
		{[]string{"rocks", "silverOre", "copperOre"}, OreCopper},
		{[]string{"rocks", "ironOre", "copperOre"}, OreIron},
		{[]string{"rocks"}, OreNone},
	}
	for _, tc := range cases {
		m := s.ValidateMeta(NewMeta(tc.in...), 0, 0)
		if got := OreOf(m); got != tc.want {
			t.Fatalf("%v: ore %d, want %d", tc.in, got, tc.want)
		}
	}

	kept := s.ValidateMeta(NewMeta("rocks", "harvested", "bush", "grass", "sand"), 0, 0)
	if !kept.Equal(NewMeta("sand", "rocks", "harvested")) {
		t.Fatalf("rocks rewrite: %v", kept)
	}
}

func TestOreAndHarvestNeedHost(t *testing.T) {
	s := newTestSampler(newGrid("dirt"))
	cases := []struct {
		in, want []string
	}{
		{[]string{"dirt", "silverOre", "ironOre", "copperOre"}, []string{"dirt"}},
		{[]string{"dirt", "harvested", "goldOre"}, []string{"dirt"}},
		{[]string{"dirt", "grass", "treeMaple", "harvested"}, []string{"dirt", "grass", "treeMaple", "harvested"}},
		{[]string{"dirt", "treePine", "harvested"}, []string{"dirt"}},
		{[]string{"rocks", "harvested", "ironOre"}, []string{"dirt", "rocks", "harvested", "ironOre"}},
	}
	for _, tc := range cases {
		got := s.ValidateMeta(NewMeta(tc.in...), 0, 0)
		if !got.Equal(NewMeta(tc.want...)) {
			t.Fatalf("%v resolved to %v, want %v", tc.in, got, NewMeta(tc.want...))
		}
	}
}

func TestNoiseCoversEveryChannel(t *testing.T) {
	s := New(DefaultConfig(), quietRegistry())
	counts := make([]int, MetaNames.Len())
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			m := s.SampleMetaRaw(x, y)
			for i := range counts {
				if m.HasFast(1 << uint(i)) {
					counts[i]++
				}
			}
		}
	}
	for i, n := range counts {
		if n == 0 {
			t.Errorf("channel %s never generated", MetaNames.Name(i))
		}
	}
}

func TestWaterShoreline5x5(t *testing.T) {
	grid := newGrid("dirt")
	grid.rect(1, 1, 3, 3, "water")
	grid.set(1, 2, "water", "beach")
	s := newTestSampler(grid)

	for y := 0; y <= 4; y++ {
		for x := 0; x <= 4; x++ {
			m := s.SampleMeta(x, y)
			if x == 2 && y == 2 {
				if !m.Equal(NewMeta("water")) {
					t.Fatalf("center resolved to %v", m)
				}
				continue
			}
			if m.HasFast(mWater) {
				t.Fatalf("(%d,%d) should not stay water", x, y)
			}
			if !m.HasFast(mDirt | mSand) {
				t.Fatalf("(%d,%d) has no ground: %v", x, y, m)
			}
		}
	}
	if m := s.SampleMeta(1, 2); !m.Equal(NewMeta("sand")) {
		t.Fatalf("beach shore resolved to %v", m)
	}

	if d := s.LandDist(2, 2); d != 1 {
		t.Fatalf("center land distance %d, want 1", d)
	}
	v := s.SampleVisProps(2, 2, 3)
	if !v.Has("water31") || v.Has("water30") {
		t.Fatalf("center visuals %v", onBits(v))
	}
	if ring := s.SampleVisProps(1, 1, 0); !ring.Has("water00") {
		t.Fatalf("shore cell next to water lacks foam band: %v", onBits(ring))
	}
	if far := s.SampleVisProps(-3, -3, 0); HasWater(far) {
		t.Fatalf("dry cell has water: %v", onBits(far))
	}
}

func TestWaterLandDistanceBands(t *testing.T) {
	grid := newGrid("dirt")
	grid.rect(0, 0, 8, 8, "water")
	s := newTestSampler(grid)

	cases := []struct{ x, y, want int }{
		{4, 4, 4},
		{2, 4, 2},
		{1, 1, 1},
		{3, 5, 3},
		{0, 4, 0},
	}
	for _, tc := range cases {
		if got := s.LandDist(tc.x, tc.y); got != tc.want {
			t.Fatalf("LandDist(%d,%d) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
	}

	v := s.SampleVisProps(4, 4, 2)
	var bands []string
	for _, name := range onBits(v) {
		if strings.HasPrefix(name, "water") {
			bands = append(bands, name)
		}
	}
	if !slices.Equal(bands, []string{"water24"}) {
		t.Fatalf("bands %v", bands)
	}

	open := newGrid("water")
	if d := newTestSampler(open).LandDist(0, 0); d != MaxLandDist {
		t.Fatalf("open water distance %d, want cap %d", d, MaxLandDist)
	}
}

func TestBigRockMerge(t *testing.T) {
	grid := newGrid("dirt")
	grid.set(0, 0, "rocks", "goldOre")
	for _, d := range cardinals {
		dx, dy := d.Offset()
		grid.set(dx, dy, "rocks")
	}
	s := newTestSampler(grid)

	v := s.SampleVisProps(0, 0, 0)
	if !v.Has("rocksBig") || !v.Has("goldOreBig") {
		t.Fatalf("big rock missing: %v", onBits(v))
	}
	if v.Has("rocksC") || v.Has("goldOreForRocks") {
		t.Fatalf("per-cell rock bits leaked: %v", onBits(v))
	}

	grid.set(1, 0, "rocks", "harvested")
	s = newTestSampler(grid)
	v = s.SampleVisProps(0, 0, 0)
	if v.Has("rocksBig") {
		t.Fatal("harvested neighbor must break the big rock")
	}
	for _, want := range []string{"rocksC", "rocksN", "rocksE", "rocksS", "rocksW", "goldOreForRocks"} {
		if !v.Has(want) {
			t.Fatalf("missing %s: %v", want, onBits(v))
		}
	}
	if v.Has("rocksNE") {
		t.Fatal("diagonal needs the diagonal cell to be rock too")
	}

	crumbs := newTestSampler(grid).SampleVisProps(1, 0, 0)
	if !crumbs.Has("rockCrumbsC") || crumbs.Has("rocksC") || crumbs.Has("goldOreForRocks") {
		t.Fatalf("harvested rock visuals %v", onBits(crumbs))
	}
}

func TestGroundMarchingSquares(t *testing.T) {
	grid := newGrid("dirt")
	grid.rect(-1, -1, 1, 1, "sand")
	v := newTestSampler(grid).SampleVisProps(0, 0, 0)
	if got := onBits(v); !slices.Equal(got, []string{"sand15", "sand31", "sand47", "sand63"}) {
		t.Fatalf("enclosed sand: %v", got)
	}

	grid = newGrid("dirt")
	grid.set(0, -1, "sand")
	v = newTestSampler(grid).SampleVisProps(0, 0, 0)
	for _, want := range []string{"sand4", "sand24", "dirt15", "dirt31", "dirt47", "dirt63"} {
		if !v.Has(want) {
			t.Fatalf("missing %s: %v", want, onBits(v))
		}
	}
	for i := 32; i < 64; i++ {
		if v.HasIndex(VisNames.Index("sand0") + i) {
			t.Fatalf("southern sand quadrant set: %v", onBits(v))
		}
	}

	// A diagonal alone does not leak into a cell without the type.
	grid = newGrid("dirt")
	grid.set(1, 1, "sand")
	v = newTestSampler(grid).SampleVisProps(0, 0, 0)
	for _, name := range onBits(v) {
		if strings.HasPrefix(name, "sand") {
			t.Fatalf("diagonal-only sand leaked: %v", onBits(v))
		}
	}
}

func TestVegetationClusters(t *testing.T) {
	grid := newGrid("dirt")
	grid.rect(0, 0, 1, 1, "dirt", "grass")
	v := newTestSampler(grid).SampleVisProps(0, 0, 0)
	for _, want := range []string{"grassC", "grassE", "grassS", "grassSE"} {
		if !v.Has(want) {
			t.Fatalf("missing %s: %v", want, onBits(v))
		}
	}
	if v.Has("grassN") || v.Has("grassW") || v.Has("grassNE") {
		t.Fatalf("unexpected grass edges: %v", onBits(v))
	}

	lone := newTestSampler(grid).SampleVisProps(-1, 0, 0)
	if lone.Has("grassC") || lone.Has("grassE") {
		t.Fatalf("grass emitted for a cell without grass: %v", onBits(lone))
	}
}

func TestTreesAndStumps(t *testing.T) {
	grid := newGrid("dirt", "grass")
	grid.set(0, 0, "dirt", "grass", "treePine")
	grid.set(1, 0, "dirt", "grass", "treeMaple", "mature")
	grid.set(0, 1, "dirt", "grass", "treePine", "harvested")
	s := newTestSampler(grid)

	v := s.SampleVisProps(0, 0, 0)
	if !v.Has("pineC") || !v.Has("mapleMatureE") {
		t.Fatalf("standing trees: %v", onBits(v))
	}
	if v.Has("pineStump") {
		t.Fatalf("stump on a standing tree: %v", onBits(v))
	}
	if v.Has("pineS") {
		t.Fatal("harvested neighbor must not draw a tree")
	}

	stump := s.SampleVisProps(0, 1, 0)
	if !stump.Has("pineStump") || stump.Has("pineC") || stump.Has("pineN") {
		t.Fatalf("stump visuals %v", onBits(stump))
	}
}

func TestWallsAndBricks(t *testing.T) {
	grid := newGrid("dirt")
	grid.set(0, 0, "floor", "beam", "bricks")
	grid.set(0, -1, "floor", "beam", "bricks")
	grid.set(0, 1, "floor", "beam")
	s := newTestSampler(grid)

	v := s.SampleVisProps(0, 0, 0)
	want := map[string]bool{
		"beamNS":     true,
		"bricksS":    true,
		"bricksEEnd": true,
		"bricksWEnd": true,
		"bricksN":    false,
		"bricksNEnd": false,
		"bricksSEnd": false,
		"beamC":      false,
	}
	for name, on := range want {
		if v.Has(name) != on {
			t.Fatalf("%s = %v, want %v: %v", name, v.Has(name), on, onBits(v))
		}
	}

	grid = newGrid("dirt", "floor")
	grid.rect(-1, 0, 1, 0, "floor", "logWall")
	grid.set(0, 0, "floor", "logWall", "door")
	v = newTestSampler(grid).SampleVisProps(0, 0, 0)
	if !v.Has("logWallEWDoor") || v.Has("logWallEW") {
		t.Fatalf("door wall: %v", onBits(v))
	}

	grid.set(0, 1, "floor", "logWall")
	v = newTestSampler(grid).SampleVisProps(0, 0, 0)
	for _, name := range []string{"logWallC", "logWallE", "logWallS", "logWallW"} {
		if !v.Has(name) {
			t.Fatalf("junction missing %s: %v", name, onBits(v))
		}
	}
}

func TestVisIDsPairShareAllButTop(t *testing.T) {
	grid := newGrid("dirt")
	s := newTestSampler(grid)
	ids := s.SampleVisIDs(0, 0, 0)
	if ids[0] == ids[1] || ids[0] == 0 {
		t.Fatalf("ids %v", ids)
	}
	bottom := s.Registry().Descriptor(ids[0])
	top := s.Registry().Descriptor(ids[1])
	if bottom.Has("top") || !top.Has("top") {
		t.Fatal("layer bit misplaced")
	}
	top.Disable("top")
	if top.Key() != bottom.Key() {
		t.Fatal("layers differ beyond the top bit")
	}
	if again := s.SampleVisIDs(5, 5, 4); again != ids {
		t.Fatalf("identical cells got %v and %v", ids, again)
	}

	blank := newTestSampler(newGrid())
	if got := blank.SampleVisIDs(0, 0, 0); got != [2]int{} {
		t.Fatalf("blank cell ids %v", got)
	}
}

func TestWriteMetaInvalidatesWindow(t *testing.T) {
	s := newTestSampler(newGrid("dirt"))
	for y := 7; y <= 13; y++ {
		for x := 7; x <= 13; x++ {
			s.SampleVisIDs(x, y, 0)
		}
	}
	before := s.SampleVisProps(10, 10, 0)
	if before.Has("grassC") {
		t.Fatal("fixture already has grass")
	}

	var events []MetaEvent
	s.OnDirtyMetaProcessed(func(ev MetaEvent) { events = append(events, ev) })

	s.WriteMeta(10, 10, NewMeta("dirt", "grass"))
	if s.PendingMeta() != 1 {
		t.Fatalf("pending meta %d", s.PendingMeta())
	}
	if !s.UpdateMeta() {
		t.Fatal("UpdateMeta reported no work")
	}
	if s.UpdateMeta() {
		t.Fatal("second UpdateMeta should be idle")
	}

	dirty := 0
	for y := 7; y <= 13; y++ {
		for x := 7; x <= 13; x++ {
			inWindow := x >= 9 && x <= 12 && y >= 9 && y <= 11
			if s.VisDirty(x, y) != inWindow {
				t.Fatalf("(%d,%d) dirty=%v, want %v", x, y, s.VisDirty(x, y), inWindow)
			}
			if inWindow {
				dirty++
			}
		}
	}
	if dirty != 12 {
		t.Fatalf("dirty window has %d cells", dirty)
	}

	if after := s.SampleVisProps(10, 10, 0); !after.Has("grassC") {
		t.Fatalf("stale descriptor after write: %v", onBits(after))
	}
	if len(events) == 0 {
		t.Fatal("listener not notified")
	}
	ev := events[0]
	if ev.X != 10 || ev.Y != 10 || !ev.Edited || !ev.Meta.Has("grass") {
		t.Fatalf("event %+v", ev)
	}
	if m, ok := s.Written(10, 10); !ok || !m.Has("grass") {
		t.Fatal("override not recorded")
	}

	s.ClearMeta(10, 10)
	s.UpdateMeta()
	if s.SampleMeta(10, 10).Has("grass") {
		t.Fatal("ClearMeta should fall back to raw meta")
	}
}

func TestWriteWaterRevalidatesNeighbors(t *testing.T) {
	grid := newGrid("dirt")
	grid.rect(-1, -1, 1, 1, "water")
	grid.set(1, 1, "dirt")
	s := newTestSampler(grid)
	if s.SampleMeta(0, 0).HasFast(mWater) {
		t.Fatal("center is not enclosed yet")
	}
	s.WriteMeta(1, 1, NewMeta("water"))
	s.UpdateMeta()
	if !s.SampleMeta(0, 0).HasFast(mWater) {
		t.Fatal("writing the missing water cell should enclose the center")
	}
}

func TestUpdateVisPlaceholdersAndScroll(t *testing.T) {
	s := newTestSampler(newGrid("dirt", "grass"))
	bottom := core.NewPointBuffer(0, 2)
	top := core.NewPointBuffer(0, 2)

	if !s.UpdateVis(bottom, top) {
		t.Fatal("first UpdateVis must fill the window")
	}
	if bottom.Len() != 12 || bottom.Count != 12 {
		t.Fatalf("buffer sized %d/%d", bottom.Len(), bottom.Count)
	}
	for i := 0; i < bottom.Len(); i++ {
		if bottom.ID(i) != 0 || top.ID(i) != 0 {
			t.Fatal("unrendered ids must be written as blank")
		}
	}

	if _, err := s.Registry().Render(nopBackend{}); err != nil {
		t.Fatal(err)
	}
	if !s.UpdateVis(bottom, top) {
		t.Fatal("pending cells must be rewritten after render")
	}
	ids := s.SampleVisIDs(1, 1, 0)
	slot := s.Window().Slot(1, 1)
	if bottom.ID(slot) != ids[0] || top.ID(slot) != ids[1] {
		t.Fatalf("slot ids %d/%d, want %v", bottom.ID(slot), top.ID(slot), ids)
	}
	if !slices.Equal(bottom.Position(slot), []float32{1, 1}) {
		t.Fatalf("position %v", bottom.Position(slot))
	}
	if s.UpdateVis(bottom, top) {
		t.Fatal("settled window should be idle")
	}

	s.SetOffset(1, 0)
	if !s.UpdateVis(bottom, top) {
		t.Fatal("scroll must mark the new column")
	}
	slot = s.Window().Slot(4, 2)
	if !slices.Equal(bottom.Position(slot), []float32{4, 2}) {
		t.Fatalf("scrolled position %v", bottom.Position(slot))
	}
}

func TestUpdateVisAnimatesWater(t *testing.T) {
	grid := newGrid("dirt")
	grid.rect(-2, -2, 4, 4, "water")
	s := newTestSampler(grid)
	bottom := core.NewPointBuffer(12, 2)
	top := core.NewPointBuffer(12, 2)

	s.UpdateVis(bottom, top)
	s.Registry().Render(nopBackend{})
	s.UpdateVis(bottom, top)
	if !s.UpdateVis(bottom, top) {
		t.Fatal("visible water must be re-pushed every call")
	}
	if s.Stats().Animated == 0 {
		t.Fatal("no animated cells tracked")
	}

	s.SetTime(5)
	if s.Time() != 1 {
		t.Fatalf("time %d, want 1", s.Time())
	}
	s.UpdateVis(bottom, top)
	s.Registry().Render(nopBackend{})
	s.UpdateVis(bottom, top)
	slot := s.Window().Slot(1, 1)
	if want := s.SampleVisIDs(1, 1, 1); bottom.ID(slot) != want[0] {
		t.Fatalf("slot id %d, want frame-1 id %d", bottom.ID(slot), want[0])
	}
}

func TestReset(t *testing.T) {
	s := newTestSampler(newGrid("dirt"))
	calls := 0
	s.OnDirtyMetaProcessed(func(MetaEvent) { calls++ })
	s.WriteMeta(0, 0, NewMeta("sand"))
	s.UpdateMeta()
	s.SampleVisIDs(0, 0, 0)
	s.SetTime(2)

	s.Reset()
	if st := s.Stats(); st != (Stats{}) {
		t.Fatalf("stats after reset %+v", st)
	}
	if _, ok := s.Written(0, 0); ok {
		t.Fatal("override survived reset")
	}
	if s.Time() != 0 {
		t.Fatal("time survived reset")
	}
	before := calls
	if !s.SampleMeta(0, 0).Has("dirt") {
		t.Fatal("reset cell should resolve from raw meta")
	}
	if calls != before+1 {
		t.Fatal("listener dropped by reset")
	}
}

func TestConfigFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"seed":   "7",
		"view_w": "10",
		"view_h": "-3",
		"scale":  "2.5",
		"tiles":  "16",
		"passes": "color, depth",
	})
	if cfg.Seed != 7 || cfg.ViewW != 10 || cfg.ViewH != DefaultConfig().ViewH || cfg.Scale != 2.5 || cfg.TilesPerEdge != 16 {
		t.Fatalf("config %+v", cfg)
	}
	if !slices.Equal(cfg.Passes, []string{"color", "depth"}) {
		t.Fatalf("passes %v", cfg.Passes)
	}
	if got := cfg.Registry(nil).Capacity(); got != 256 {
		t.Fatalf("capacity %d", got)
	}
}

func TestParametersSnapshot(t *testing.T) {
	s := newTestSampler(newGrid("dirt"))
	snap := s.Parameters()
	if len(snap.Groups) != 3 {
		t.Fatalf("groups %d", len(snap.Groups))
	}
	if snap.Groups[0].Params[0].Key != "seed" {
		t.Fatalf("first param %+v", snap.Groups[0].Params[0])
	}
}

func TestRegistryMustMatchNames(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a foreign registry")
		}
	}()
	NewWithSource(DefaultConfig(), atlas.New(MetaNames, atlas.Config{}), newGrid())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		meta []string
		want Class
	}{
		{nil, ClassNone},
		{[]string{"water"}, ClassWater},
		{[]string{"dirt", "rocks", "ironOre"}, ClassOre},
		{[]string{"dirt", "rocks", "ironOre", "harvested"}, ClassRock},
		{[]string{"dirt", "grass", "treeMaple"}, ClassTree},
		{[]string{"dirt", "grass", "treePine", "harvested"}, ClassStump},
		{[]string{"dirt", "floor", "beam"}, ClassWall},
		{[]string{"dirt", "floor"}, ClassFloor},
		{[]string{"dirt", "grass", "bush"}, ClassBush},
		{[]string{"sand"}, ClassSand},
	}
	for _, tc := range cases {
		if got := Classify(NewMeta(tc.meta...)); got != tc.want {
			t.Fatalf("%v classified as %v, want %v", tc.meta, got, tc.want)
		}
	}
}
