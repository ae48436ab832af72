//go:build ebiten

package render

import (
	"fmt"
	"image"

	"cellatlas/internal/atlas"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenBackend renders atlas slots into GPU pages, one page per pass.
type EbitenBackend struct {
	pieces       *PieceSet
	tilesPerEdge int
	pages        map[string]*ebiten.Image
	uploaded     map[int]*ebiten.Image
	visible      []bool
}

var _ atlas.Backend = (*EbitenBackend)(nil)

// NewEbitenBackend prepares pages of tilesPerEdge*tilesPerEdge tiles.
func NewEbitenBackend(pieces *PieceSet, tilesPerEdge int) *EbitenBackend {
	if tilesPerEdge <= 0 {
		tilesPerEdge = atlas.DefaultTilesPerEdge
	}
	return &EbitenBackend{
		pieces:       pieces,
		tilesPerEdge: tilesPerEdge,
		pages:        make(map[string]*ebiten.Image),
		uploaded:     make(map[int]*ebiten.Image),
		visible:      make([]bool, pieces.Width()),
	}
}

// SetVisible toggles the piece for bit.
func (b *EbitenBackend) SetVisible(bit int, visible bool) {
	if bit >= 0 && bit < len(b.visible) {
		b.visible[bit] = visible
	}
}

func (b *EbitenBackend) piece(bit int) (*ebiten.Image, bool) {
	if img, ok := b.uploaded[bit]; ok {
		return img, img != nil
	}
	p := b.pieces.Piece(bit)
	var img *ebiten.Image
	if p.Img != nil {
		img = ebiten.NewImageFromImage(p.Img)
	}
	b.uploaded[bit] = img
	return img, img != nil
}

// RenderSlot draws the visible pieces of the current layer into the slot,
// rotated about the tile center by the slot angle.
func (b *EbitenBackend) RenderSlot(s atlas.Slot) error {
	if s.Col < 0 || s.Row < 0 || s.Col >= b.tilesPerEdge || s.Row >= b.tilesPerEdge {
		return fmt.Errorf("render: id %d at (%d,%d) outside %dx%d page: %w",
			s.ID, s.Col, s.Row, b.tilesPerEdge, b.tilesPerEdge, atlas.ErrCapacity)
	}
	size := b.pieces.Size()
	page := b.Page(s.Pass)
	r := image.Rect(s.Col*size, s.Row*size, (s.Col+1)*size, (s.Row+1)*size)
	dst := page.SubImage(r).(*ebiten.Image)
	dst.Clear()

	layerBit := b.pieces.LayerBit()
	top := layerBit >= 0 && b.visible[layerBit]
	half := float64(size) / 2
	for bit, on := range b.visible {
		if !on || bit == layerBit || b.pieces.Piece(bit).Top != top {
			continue
		}
		img, ok := b.piece(bit)
		if !ok {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-half, -half)
		op.GeoM.Rotate(s.Angle)
		op.GeoM.Translate(float64(r.Min.X)+half, float64(r.Min.Y)+half)
		if s.PassIndex > 0 {
			op.ColorM.Scale(0, 0, 0, 1)
			op.ColorM.Translate(1, 1, 1, 0)
		}
		dst.DrawImage(img, op)
	}
	return nil
}

// Page returns the page for pass, allocating it on first use.
func (b *EbitenBackend) Page(pass string) *ebiten.Image {
	if p, ok := b.pages[pass]; ok {
		return p
	}
	edge := b.tilesPerEdge * b.pieces.Size()
	p := ebiten.NewImage(edge, edge)
	b.pages[pass] = p
	return p
}

// Tile returns the region of id on the page for pass.
func (b *EbitenBackend) Tile(pass string, id int) *ebiten.Image {
	size := b.pieces.Size()
	col, row := id%b.tilesPerEdge, id/b.tilesPerEdge
	return b.Page(pass).SubImage(image.Rect(col*size, row*size, (col+1)*size, (row+1)*size)).(*ebiten.Image)
}
