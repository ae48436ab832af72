package core

// Key packs an integer cell coordinate into a comparable map key.
type Key uint64

// MakeKey packs (x, y). Coordinates are truncated to int32.
func MakeKey(x, y int) Key {
	return Key(uint64(uint32(int32(x)))<<32 | uint64(uint32(int32(y))))
}

// XY unpacks the coordinate.
func (k Key) XY() (int, int) {
	return int(int32(uint32(k >> 32))), int(int32(uint32(k)))
}

// Window is the visible viewport of W*H cells. World coordinates map onto
// window slots by toroidal wrapping, so scrolling never moves slots.
type Window struct {
	W, H int
}

// NewWindow clamps the dimensions to at least one cell.
func NewWindow(w, h int) Window {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return Window{W: w, H: h}
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (win Window) Wrap(x, y int) (int, int) {
	x = (x%win.W + win.W) % win.W
	y = (y%win.H + win.H) % win.H
	return x, y
}

// Slot returns the linear slot index for world coordinates (x, y).
func (win Window) Slot(x, y int) int {
	wx, wy := win.Wrap(x, y)
	return wy*win.W + wx
}

// Size returns the slot count.
func (win Window) Size() int { return win.W * win.H }

// Contains reports whether (x, y) is visible when the window starts at (ox, oy).
func (win Window) Contains(ox, oy, x, y int) bool {
	return x >= ox && x < ox+win.W && y >= oy && y < oy+win.H
}

// PointBuffer is a GPU-facing point list: a position attribute of Dim floats
// per point plus one atlas id per point. Owners upload it when Dirty is set.
type PointBuffer struct {
	Dim       int
	Positions []float32
	IDs       []float32
	Count     int
	Dirty     bool
}

// NewPointBuffer allocates room for n points with dim components each.
func NewPointBuffer(n, dim int) *PointBuffer {
	if dim < 2 {
		dim = 2
	}
	return &PointBuffer{
		Dim:       dim,
		Positions: make([]float32, n*dim),
		IDs:       make([]float32, n),
		Count:     n,
	}
}

// Len reports the allocated point capacity.
func (b *PointBuffer) Len() int { return len(b.IDs) }

// Set writes one point. Missing position components are left at zero.
func (b *PointBuffer) Set(slot, id int, pos ...float32) {
	base := slot * b.Dim
	for i := 0; i < b.Dim; i++ {
		v := float32(0)
		if i < len(pos) {
			v = pos[i]
		}
		b.Positions[base+i] = v
	}
	b.IDs[slot] = float32(id)
	b.Dirty = true
}

// Grow reallocates to at least n points, keeping existing data.
func (b *PointBuffer) Grow(n int) {
	if n <= len(b.IDs) {
		return
	}
	pos := make([]float32, n*b.Dim)
	copy(pos, b.Positions)
	ids := make([]float32, n)
	copy(ids, b.IDs)
	b.Positions, b.IDs = pos, ids
}

// ID returns the atlas id stored at slot.
func (b *PointBuffer) ID(slot int) int { return int(b.IDs[slot]) }

// Position returns the position components stored at slot.
func (b *PointBuffer) Position(slot int) []float32 {
	base := slot * b.Dim
	return b.Positions[base : base+b.Dim]
}
