//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"cellatlas/internal/render"
	"cellatlas/internal/terrain"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional debugging visuals on top of the map view.
type Overlay struct {
	terrain     *terrain.Sampler
	scale       int
	showDepth   bool
	showClasses bool
	showGrid    bool
	showAtlas   bool
	atlas       *ebiten.Image

	maskImg *ebiten.Image
	maskBuf []byte
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for a view of scale pixels per cell.
func NewOverlay(t *terrain.Sampler, scale int) *Overlay {
	o := &Overlay{terrain: t, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// SetAtlas sets the page shown by the atlas preview toggle.
func (o *Overlay) SetAtlas(page *ebiten.Image) { o.atlas = page }

// Update polls the toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showDepth = !o.showDepth
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showClasses = !o.showClasses
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showGrid = !o.showGrid
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit4) {
		o.showAtlas = !o.showAtlas
	}
}

// Draw renders the enabled layers and the cursor highlight.
func (o *Overlay) Draw(screen *ebiten.Image) {
	win := o.terrain.Window()
	total := win.Size()
	if total == 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != win.W || o.maskImg.Bounds().Dy() != win.H {
		o.maskImg = ebiten.NewImage(win.W, win.H)
		o.maskBuf = make([]byte, 4*total)
	}
	ox, oy := o.terrain.Offset()

	if o.showDepth {
		depth := make([]float32, total)
		for y := 0; y < win.H; y++ {
			for x := 0; x < win.W; x++ {
				if d := o.terrain.LandDist(ox+x, oy+y); d > 0 {
					depth[y*win.W+x] = float32(d) / terrain.MaxLandDist
				}
			}
		}
		o.drawMask(screen, depth, color.RGBA{R: 64, G: 164, B: 223, A: 0})
	}
	if o.showClasses {
		o.drawClasses(screen, ox, oy)
	}
	if o.showGrid {
		w, h := float64(win.W*scale), float64(win.H*scale)
		col := color.RGBA{R: 0, G: 0, B: 0, A: 70}
		for x := 0; x <= win.W; x++ {
			fx := float64(x * scale)
			o.drawLine(screen, fx, 0, fx, h, 1, col)
		}
		for y := 0; y <= win.H; y++ {
			fy := float64(y * scale)
			o.drawLine(screen, 0, fy, w, fy, 1, col)
		}
	}
	if o.showAtlas && o.atlas != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(scale), float64(scale))
		op.ColorM.Scale(1, 1, 1, 0.9)
		screen.DrawImage(o.atlas, op)
	}

	if cx, cy, ok := o.Cursor(); ok {
		x0, y0 := float64((cx-ox)*scale), float64((cy-oy)*scale)
		s := float64(scale)
		col := color.RGBA{R: 255, G: 240, B: 120, A: 200}
		o.drawLine(screen, x0, y0, x0+s, y0, 1, col)
		o.drawLine(screen, x0, y0+s, x0+s, y0+s, 1, col)
		o.drawLine(screen, x0, y0, x0, y0+s, 1, col)
		o.drawLine(screen, x0+s, y0, x0+s, y0+s, 1, col)
		o.drawPoint(screen, x0+s/2, y0+s/2, 2, col)
	}
}

// Cursor returns the world cell under the mouse, if it lies in the view.
func (o *Overlay) Cursor() (int, int, bool) {
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	mx, my := ebiten.CursorPosition()
	win := o.terrain.Window()
	if mx < 0 || my < 0 || mx >= win.W*scale || my >= win.H*scale {
		return 0, 0, false
	}
	ox, oy := o.terrain.Offset()
	return ox + mx/scale, oy + my/scale, true
}

func (o *Overlay) drawClasses(screen *ebiten.Image, ox, oy int) {
	win := o.terrain.Window()
	for y := 0; y < win.H; y++ {
		for x := 0; x < win.W; x++ {
			base := (y*win.W + x) * 4
			col := render.ClassPalette[terrain.Classify(o.terrain.SampleMeta(ox+x, oy+y))]
			a := scaleColorComponent(col.A, 0.45)
			o.maskBuf[base+0] = scaleColorComponent(col.R, 0.45)
			o.maskBuf[base+1] = scaleColorComponent(col.G, 0.45)
			o.maskBuf[base+2] = scaleColorComponent(col.B, 0.45)
			o.maskBuf[base+3] = a
		}
	}
	o.blitMask(screen)
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, tint color.RGBA) {
	if len(mask)*4 != len(o.maskBuf) {
		return
	}
	const (
		maxAlpha      = 140.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.75
	)

	for i, v := range mask {
		base := i * 4
		intensity := clamp01(float64(v))
		if intensity == 0 {
			o.maskBuf[base+0] = 0
			o.maskBuf[base+1] = 0
			o.maskBuf[base+2] = 0
			o.maskBuf[base+3] = 0
			continue
		}

		alpha := uint8(math.Round(maxAlpha * math.Pow(intensity, intensityBias)))
		glow := glowBase + glowRange*math.Sqrt(intensity)

		o.maskBuf[base+0] = scaleColorComponent(tint.R, glow)
		o.maskBuf[base+1] = scaleColorComponent(tint.G, glow)
		o.maskBuf[base+2] = scaleColorComponent(tint.B, glow)
		o.maskBuf[base+3] = alpha
	}
	o.blitMask(screen)
}

func (o *Overlay) blitMask(screen *ebiten.Image) {
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
