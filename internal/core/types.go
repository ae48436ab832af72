package core

// Sampler is the per-frame pump contract shared by the map and sprite
// classifiers. The host calls UpdateMeta, then UpdateVis, then flushes the
// atlas registries, once per frame. Both methods report whether any work was
// done.
type Sampler interface {
	Name() string
	UpdateMeta() bool
	UpdateVis(bottom, top *PointBuffer) bool
	Reset()
}
