package app

import (
	"flag"
	"slices"
	"testing"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-seed", "7", "-w", "20", "-tiles", "32", "-save", "edits.bin"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 7 || cfg.ViewW != 20 || cfg.Save != "edits.bin" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	tc := cfg.Terrain()
	if tc.Seed != 7 || tc.ViewW != 20 || tc.ViewH != cfg.ViewH || tc.TilesPerEdge != 32 {
		t.Fatalf("terrain config %+v", tc)
	}
	if !slices.Equal(tc.Passes, []string{"color", "mask"}) {
		t.Fatalf("passes %v", tc.Passes)
	}
	if sc := cfg.Sprites(); sc.TilesPerEdge != 32 {
		t.Fatalf("sprite tiles %d", sc.TilesPerEdge)
	}
}

func TestConfigTerrainKeepsDefaultsForZero(t *testing.T) {
	cfg := &Config{Seed: 3}
	tc := cfg.Terrain()
	if tc.ViewW <= 0 || tc.ViewH <= 0 || tc.TilesPerEdge <= 0 {
		t.Fatalf("zero config not defaulted: %+v", tc)
	}
}
