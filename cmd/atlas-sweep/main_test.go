package main

import "testing"

func TestCheckFlags(t *testing.T) {
	cases := []struct {
		workers, seeds, w, h int
		ok                   bool
	}{
		{4, 32, 128, 128, true},
		{1, 1, 1, 1, true},
		{0, 32, 128, 128, false},
		{-2, 32, 128, 128, false},
		{4, 0, 128, 128, false},
		{4, 32, 0, 128, false},
	}
	for _, tc := range cases {
		err := checkFlags(tc.workers, tc.seeds, tc.w, tc.h)
		if (err == nil) != tc.ok {
			t.Fatalf("checkFlags(%d, %d, %d, %d) = %v", tc.workers, tc.seeds, tc.w, tc.h, err)
		}
	}
}

func TestConfigForOverridesSeed(t *testing.T) {
	base := map[string]string{"seed": "1", "view_w": "10", "view_h": "5"}
	cfg := configFor(base, 99)
	if cfg.Seed != 99 || cfg.ViewW != 10 || cfg.ViewH != 5 {
		t.Fatalf("config %+v", cfg)
	}
	if base["seed"] != "1" {
		t.Fatal("configFor must not mutate the base map")
	}
}
