package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"slices"

	"cellatlas/internal/atlas"
	"cellatlas/internal/core"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ImageBackend renders atlas slots into in-memory pages, one page per pass.
// The first pass is drawn in color; later passes draw opaque white
// silhouettes usable as masks.
type ImageBackend struct {
	pieces       *PieceSet
	tilesPerEdge int
	pages        map[string]*image.RGBA
	visible      []bool
	rendered     int
}

var _ atlas.Backend = (*ImageBackend)(nil)

// NewImageBackend prepares pages of tilesPerEdge*tilesPerEdge tiles.
func NewImageBackend(pieces *PieceSet, tilesPerEdge int) *ImageBackend {
	if tilesPerEdge <= 0 {
		tilesPerEdge = atlas.DefaultTilesPerEdge
	}
	return &ImageBackend{
		pieces:       pieces,
		tilesPerEdge: tilesPerEdge,
		pages:        make(map[string]*image.RGBA),
		visible:      make([]bool, pieces.Width()),
	}
}

// SetVisible toggles the piece for bit.
func (b *ImageBackend) SetVisible(bit int, visible bool) {
	if bit >= 0 && bit < len(b.visible) {
		b.visible[bit] = visible
	}
}

// RenderSlot composes the visible pieces into the slot's tile.
func (b *ImageBackend) RenderSlot(s atlas.Slot) error {
	if s.Col < 0 || s.Row < 0 || s.Col >= b.tilesPerEdge || s.Row >= b.tilesPerEdge {
		return fmt.Errorf("render: id %d at (%d,%d) outside %dx%d page: %w",
			s.ID, s.Col, s.Row, b.tilesPerEdge, b.tilesPerEdge, atlas.ErrCapacity)
	}
	size := b.pieces.Size()
	tile := b.compose()
	if s.PassIndex > 0 {
		silhouette(tile)
	}

	page := b.Page(s.Pass)
	r := image.Rect(s.Col*size, s.Row*size, (s.Col+1)*size, (s.Row+1)*size)
	dst := page.SubImage(r).(*image.RGBA)
	draw.Draw(dst, r, image.Transparent, image.Point{}, draw.Src)
	if s.Angle == 0 {
		draw.Draw(dst, r, tile, image.Point{}, draw.Over)
	} else {
		c := float64(size) / 2
		sin, cos := math.Sincos(s.Angle)
		tx, ty := float64(r.Min.X)+c, float64(r.Min.Y)+c
		rot := f64.Aff3{
			cos, -sin, tx - cos*c + sin*c,
			sin, cos, ty - sin*c - cos*c,
		}
		draw.NearestNeighbor.Transform(dst, rot, tile, tile.Bounds(), draw.Over, nil)
	}
	b.rendered++
	return nil
}

// compose layers every visible piece of the current layer onto a fresh tile.
func (b *ImageBackend) compose() *image.RGBA {
	size := b.pieces.Size()
	tile := image.NewRGBA(image.Rect(0, 0, size, size))
	layerBit := b.pieces.LayerBit()
	top := layerBit >= 0 && b.visible[layerBit]
	for bit, on := range b.visible {
		if !on || bit == layerBit {
			continue
		}
		p := b.pieces.Piece(bit)
		if p.Img == nil || p.Top != top {
			continue
		}
		draw.Draw(tile, tile.Bounds(), p.Img, image.Point{}, draw.Over)
	}
	return tile
}

func silhouette(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 0 {
			continue
		}
		img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 255, 255, 255, 255
	}
}

// Page returns the page for pass, allocating it on first use.
func (b *ImageBackend) Page(pass string) *image.RGBA {
	if p, ok := b.pages[pass]; ok {
		return p
	}
	edge := b.tilesPerEdge * b.pieces.Size()
	p := image.NewRGBA(image.Rect(0, 0, edge, edge))
	b.pages[pass] = p
	return p
}

// Passes lists the pages allocated so far, sorted.
func (b *ImageBackend) Passes() []string {
	out := make([]string, 0, len(b.pages))
	for name := range b.pages {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Tile returns the region of id on the page for pass.
func (b *ImageBackend) Tile(pass string, id int) image.Image {
	size := b.pieces.Size()
	col, row := id%b.tilesPerEdge, id/b.tilesPerEdge
	return b.Page(pass).SubImage(image.Rect(col*size, row*size, (col+1)*size, (row+1)*size))
}

// Rendered counts RenderSlot calls that produced a tile.
func (b *ImageBackend) Rendered() int { return b.rendered }

// WritePNG encodes the page for pass.
func (b *ImageBackend) WritePNG(w io.Writer, pass string) error {
	if err := png.Encode(w, b.Page(pass)); err != nil {
		return fmt.Errorf("render: encode %s page: %w", pass, err)
	}
	return nil
}

// DrawPoints blits every point of buf from the atlas page onto dst, the
// software twin of the point-sprite draw. Positions are world cells; the cell
// at (ox, oy) lands on dst's origin. Blank ids are skipped.
func DrawPoints(dst draw.Image, page image.Image, size, tilesPerEdge int, buf *core.PointBuffer, ox, oy int) {
	for i := 0; i < buf.Count && i < buf.Len(); i++ {
		id := buf.ID(i)
		if id == 0 {
			continue
		}
		pos := buf.Position(i)
		x := (int(pos[0]) - ox) * size
		y := (int(pos[1]) - oy) * size
		col, row := id%tilesPerEdge, id/tilesPerEdge
		r := image.Rect(x, y, x+size, y+size)
		draw.Draw(dst, r, page, page.Bounds().Min.Add(image.Pt(col*size, row*size)), draw.Over)
	}
}
