package terrain

import (
	"log"
	"strconv"
	"strings"

	"cellatlas/internal/atlas"
	"cellatlas/internal/noise"
	"cellatlas/pkg/core"
)

// Config controls the map sampler.
type Config struct {
	Seed int64

	// ViewW and ViewH size the visible window in cells.
	ViewW int
	ViewH int

	// Scale stretches every noise channel; larger values give smaller blobs.
	Scale float64

	TilesPerEdge int
	Passes       []string
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed:         1337,
		ViewW:        48,
		ViewH:        32,
		Scale:        1,
		TilesPerEdge: atlas.DefaultTilesPerEdge,
		Passes:       []string{"color"},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["view_w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ViewW = parsed
		}
	}
	if v, ok := cfg["view_h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ViewH = parsed
		}
	}
	if v, ok := cfg["scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Scale = parsed
		}
	}
	if v, ok := cfg["tiles"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TilesPerEdge = parsed
		}
	}
	if v, ok := cfg["passes"]; ok {
		var passes []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				passes = append(passes, p)
			}
		}
		if len(passes) > 0 {
			c.Passes = passes
		}
	}
	return c
}

// Registry builds an atlas registry sized by the config.
func (c Config) Registry(logger *log.Logger) *atlas.Registry {
	return atlas.New(VisNames, atlas.Config{
		TilesPerEdge: c.TilesPerEdge,
		Passes:       c.Passes,
		Logger:       logger,
	})
}

// Channel salts keep every field decorrelated from the others.
const (
	saltWater = iota + 1
	saltWaterDetail
	saltSand
	saltGrass
	saltBush
	saltRocks
	saltRockyGround
	saltGold
	saltSilver
	saltIron
	saltCopper
	saltPine
	saltMaple
	saltMature
	saltSettlement
	saltBeam
	saltBricks
	saltDoor
	saltWindow
	saltGoldPile
	saltLampPost
	saltTestObject
	saltPyramid
	saltHarvested
)

// Channels returns the noise pipeline for a seed, one channel per meta name.
func Channels(seed int64, scale float64) []noise.Channel {
	if scale <= 0 {
		scale = 1
	}
	simplex := func(salt int, freq float64) noise.Field {
		return noise.NewSimplex(core.Mix64(seed, salt), noise.Params{Frequency: freq * scale, Amplitude: 1})
	}
	perlin := func(salt int, freq float64) noise.Field {
		return noise.NewPerlin(core.Mix64(seed, salt), 3, noise.Params{Frequency: freq * scale, Amplitude: 2})
	}
	blob := func(src noise.Field) noise.Field {
		return noise.Blur{Src: noise.Clamp{Src: src, Min: -1, Max: 1}, Radius: 1, Spacing: 1}
	}

	// Lakes, their beaches and the grass around them share one base so that
	// they nest instead of overlapping at random.
	waterBase := blob(noise.Sum{
		simplex(saltWater, 0.035),
		noise.Scale{Src: simplex(saltWaterDetail, 0.11), Factor: 0.35},
	})
	sandBase := blob(simplex(saltSand, 0.06))

	// Settlements: floor covers the core of each blob and walls trace its rim,
	// where the base falls back toward the floor cutoff.
	settlement := blob(simplex(saltSettlement, 0.04))
	rim := noise.Invert{Src: settlement}
	// Point decorations are sparse peaks of fine-grained fields.
	speck := func(salt int) noise.Field { return simplex(salt, 0.45) }

	return []noise.Channel{
		{Name: "water", Field: waterBase, Cutoff: 0.35},
		{Name: "beach", Field: waterBase, Cutoff: 0.22},
		{Name: "sand", Field: sandBase, Cutoff: 0.45},
		{Name: "dirt", Field: noise.Const(1), Cutoff: 0},
		{Name: "grass", Field: noise.Invert{Src: waterBase}, Cutoff: -0.05},
		{Name: "bush", Field: blob(simplex(saltBush, 0.2)), Cutoff: 0.3},
		{Name: "floor", Field: settlement, Cutoff: 0.4},
		{Name: "beam", Field: noise.Sum{rim, noise.Scale{Src: simplex(saltBeam, 0.1), Factor: 0.15}}, Cutoff: -0.46},
		{Name: "logWall", Field: rim, Cutoff: -0.5},
		{Name: "bricks", Field: simplex(saltBricks, 0.05), Cutoff: 0.1},
		{Name: "door", Field: speck(saltDoor), Cutoff: 0.55},
		{Name: "window", Field: speck(saltWindow), Cutoff: 0.5},
		{Name: "goldPile", Field: speck(saltGoldPile), Cutoff: 0.65},
		{Name: "lampPost", Field: speck(saltLampPost), Cutoff: 0.65},
		{Name: "testObject", Field: speck(saltTestObject), Cutoff: 0.7},
		{Name: "pyramid", Field: speck(saltPyramid), Cutoff: 0.6},
		{Name: "rocks", Field: perlin(saltRocks, 0.08), Cutoff: 0.3},
		{Name: "harvested", Field: simplex(saltHarvested, 0.15), Cutoff: 0.35},
		{Name: "rockyGround", Field: perlin(saltRockyGround, 0.05), Cutoff: 0.45},
		{Name: "goldOre", Field: perlin(saltGold, 0.15), Cutoff: 0.5},
		{Name: "silverOre", Field: perlin(saltSilver, 0.15), Cutoff: 0.4},
		{Name: "ironOre", Field: perlin(saltIron, 0.12), Cutoff: 0.3},
		{Name: "copperOre", Field: perlin(saltCopper, 0.12), Cutoff: 0.3},
		{Name: "treePine", Field: blob(simplex(saltPine, 0.09)), Cutoff: 0.35},
		{Name: "treeMaple", Field: blob(simplex(saltMaple, 0.09)), Cutoff: 0.35},
		{Name: "mature", Field: simplex(saltMature, 0.3), Cutoff: 0},
	}
}
