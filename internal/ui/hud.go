//go:build ebiten

package ui

import (
	"image/color"
	"strings"

	"cellatlas/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the parameter panel to the right of the map view.
type HUD struct {
	providers  []core.ParameterProvider
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshots  []core.ParameterSnapshot
	title      string
	status     string
}

// NewHUD constructs a HUD listing the parameters of every provider.
func NewHUD(title string, width int, providers ...core.ParameterProvider) *HUD {
	if width < 0 {
		width = 0
	}
	if title == "" {
		title = "Parameters"
	}
	return &HUD{providers: providers, width: width, title: title}
}

// SetStatus replaces the one-line status shown under the title.
func (h *HUD) SetStatus(status string) {
	if h != nil {
		h.status = status
	}
}

// Update refreshes the cached parameter snapshots.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	h.snapshots = h.snapshots[:0]
	for _, p := range h.providers {
		h.snapshots = append(h.snapshots, p.Parameters())
	}
}

// Draw paints the HUD panel at offsetX, height pixels tall.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawParams(height)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawParams(height int) {
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	if h.status != "" {
		y += lineHeight
		text.Draw(h.panel, h.status, face, panelPadding, y, color.RGBA{R: 160, G: 160, B: 170, A: 255})
	}
	for _, snap := range h.snapshots {
		for _, group := range snap.Groups {
			y += groupGap
			if y > height-panelPadding {
				return
			}
			text.Draw(h.panel, strings.ToUpper(group.Name), face, panelPadding, y, color.RGBA{R: 140, G: 170, B: 220, A: 255})
			for _, p := range group.Params {
				y += lineHeight
				if y > height-panelPadding {
					return
				}
				text.Draw(h.panel, p.Label, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
				bounds := text.BoundString(face, p.Value)
				text.Draw(h.panel, p.Value, face, h.width-panelPadding-bounds.Dx(), y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
			}
		}
	}
}

const (
	panelPadding   = 12
	lineHeight     = 16
	groupGap       = 24
	headerBaseline = 18
)
