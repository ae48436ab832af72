//go:build !ebiten

package ui

import "cellatlas/internal/terrain"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(*terrain.Sampler, int) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}

// Cursor never reports a cell in headless builds.
func (o *Overlay) Cursor() (int, int, bool) { return 0, 0, false }
