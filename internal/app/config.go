package app

import (
	"flag"

	"cellatlas/internal/atlas"
	"cellatlas/internal/sprites"
	"cellatlas/internal/terrain"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Seed  int64
	ViewW int
	ViewH int
	Tile  int
	TPS   int
	// AnimTPS paces water animation frames, independent of TPS.
	AnimTPS int
	Tiles   int
	Herd    int
	Save    string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	t := terrain.DefaultConfig()
	return &Config{
		Seed:    t.Seed,
		ViewW:   t.ViewW,
		ViewH:   t.ViewH,
		Tile:    16,
		TPS:     60,
		AnimTPS: 6,
		Tiles:   atlas.DefaultTilesPerEdge,
		Herd:    6,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.Int64Var(&c.Seed, "seed", c.Seed, "world seed")
	fs.IntVar(&c.ViewW, "w", c.ViewW, "view width in cells")
	fs.IntVar(&c.ViewH, "h", c.ViewH, "view height in cells")
	fs.IntVar(&c.Tile, "tile", c.Tile, "tile size in pixels")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.AnimTPS, "anim", c.AnimTPS, "water animation frames per second")
	fs.IntVar(&c.Tiles, "tiles", c.Tiles, "atlas tiles per page edge")
	fs.IntVar(&c.Herd, "herd", c.Herd, "number of wandering sprites")
	fs.StringVar(&c.Save, "save", c.Save, "edit file loaded at start and written on exit")
}

// Terrain returns the map sampler configuration.
func (c *Config) Terrain() terrain.Config {
	t := terrain.DefaultConfig()
	t.Seed = c.Seed
	if c.ViewW > 0 {
		t.ViewW = c.ViewW
	}
	if c.ViewH > 0 {
		t.ViewH = c.ViewH
	}
	if c.Tiles > 0 {
		t.TilesPerEdge = c.Tiles
	}
	t.Passes = []string{"color", "mask"}
	return t
}

// Sprites returns the sprite sampler configuration.
func (c *Config) Sprites() sprites.Config {
	s := sprites.DefaultConfig()
	if c.Tiles > 0 {
		s.TilesPerEdge = c.Tiles
	}
	return s
}
