package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"cellatlas/internal/core"
	"cellatlas/internal/render"
	"cellatlas/internal/terrain"

	"golang.org/x/image/draw"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type seedResult struct {
	seed     int64
	ids      int
	capacity int
	overflow int
	pending  int
	classes  [terrain.Classes]int
	elapsed  time.Duration
}

func (r seedResult) fill() float64 {
	if r.capacity == 0 {
		return 0
	}
	return float64(r.ids) / float64(r.capacity)
}

func main() {
	seeds := flag.Int("seeds", 32, "number of consecutive seeds to sample")
	first := flag.Int64("first", 1, "first seed")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	width := flag.Int("width", 128, "sampled area width in cells")
	height := flag.Int("height", 128, "sampled area height in cells")
	tile := flag.Int("tile", 16, "tile size for -png output")
	out := flag.String("png", "", "directory for atlas, view and minimap PNGs of the fullest seed")
	var overrides kvList
	flag.Var(&overrides, "set", "terrain config override in key=value form (repeatable)")
	flag.Parse()

	if err := checkFlags(*workers, *seeds, *width, *height); err != nil {
		log.Fatal(err)
	}

	base := map[string]string{}
	for _, kv := range overrides {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		base[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	base["view_w"] = strconv.Itoa(*width)
	base["view_h"] = strconv.Itoa(*height)

	fmt.Printf("Sampling %d seeds over %dx%d cells (%d workers)\n", *seeds, *width, *height, *workers)

	jobs := make(chan int64)
	results := make(chan seedResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				results <- runSeed(configFor(base, seed))
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for i := 0; i < *seeds; i++ {
			jobs <- *first + int64(i)
		}
		close(jobs)
	}()

	start := time.Now()
	var all []seedResult
	for res := range results {
		all = append(all, res)
		if res.overflow > 0 {
			fmt.Printf("Seed %d overflowed the atlas: %d ids, %d dropped\n", res.seed, res.ids, res.overflow)
		}
	}
	if len(all) == 0 {
		return
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ids > all[j].ids })
	elapsed := time.Since(start)

	fmt.Printf("\nFullest seeds (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < 5; i++ {
		res := all[i]
		fmt.Printf("%2d) seed=%d ids=%d/%d (%.1f%%) overflow=%d pending=%d took=%s classes=%s\n",
			i+1, res.seed, res.ids, res.capacity, 100*res.fill(), res.overflow, res.pending, res.elapsed.Round(time.Millisecond), histogram(res.classes))
	}

	total := 0
	for _, res := range all {
		total += res.ids
	}
	fmt.Printf("\nMean ids per seed: %.1f\n", float64(total)/float64(len(all)))

	if *out != "" {
		if err := writePNGs(*out, configFor(base, all[0].seed), *tile); err != nil {
			log.Fatal(err)
		}
	}
}

// checkFlags rejects sweeps that would start no workers or sample nothing.
func checkFlags(workers, seeds, width, height int) error {
	if workers < 1 {
		return fmt.Errorf("invalid -workers %d: need at least one worker", workers)
	}
	if seeds < 1 || width < 1 || height < 1 {
		return fmt.Errorf("invalid sweep size: %d seeds over %dx%d cells", seeds, width, height)
	}
	return nil
}

func configFor(base map[string]string, seed int64) terrain.Config {
	m := make(map[string]string, len(base)+1)
	for k, v := range base {
		m[k] = v
	}
	m["seed"] = strconv.FormatInt(seed, 10)
	return terrain.FromMap(m)
}

// sample pumps one full view through every animation slot.
func sample(cfg terrain.Config, logger *log.Logger) (*terrain.Sampler, *core.PointBuffer, *core.PointBuffer) {
	s := terrain.New(cfg, cfg.Registry(logger))
	bottom := core.NewPointBuffer(0, 2)
	top := core.NewPointBuffer(0, 2)
	s.UpdateMeta()
	for t := 0; t < terrain.TimeSlots; t++ {
		s.SetTime(t)
		s.UpdateVis(bottom, top)
	}
	s.SetTime(0)
	return s, bottom, top
}

func runSeed(cfg terrain.Config) seedResult {
	start := time.Now()
	s, _, _ := sample(cfg, log.New(io.Discard, "", 0))
	reg := s.Registry()
	res := seedResult{
		seed:     cfg.Seed,
		ids:      reg.Len(),
		capacity: reg.Capacity(),
		overflow: reg.Overflow(),
		pending:  len(reg.Pending()),
	}
	for y := 0; y < cfg.ViewH; y++ {
		for x := 0; x < cfg.ViewW; x++ {
			res.classes[terrain.Classify(s.SampleMeta(x, y))]++
		}
	}
	res.elapsed = time.Since(start)
	return res
}

func histogram(classes [terrain.Classes]int) string {
	var parts []string
	for c, n := range classes {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", terrain.Class(c), n))
		}
	}
	return strings.Join(parts, " ")
}

func writePNGs(dir string, cfg terrain.Config, tile int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	logger := log.New(os.Stderr, "atlas-sweep: ", 0)
	s, bottom, top := sample(cfg, logger)
	reg := s.Registry()
	backend := render.NewImageBackend(render.TerrainPieces(tile), reg.TilesPerEdge())
	if _, err := reg.Render(backend); err != nil {
		return err
	}
	s.UpdateVis(bottom, top)

	prefix := filepath.Join(dir, fmt.Sprintf("seed%d", cfg.Seed))
	for _, pass := range backend.Passes() {
		if err := writeFile(prefix+"-atlas-"+pass+".png", func(w io.Writer) error { return backend.WritePNG(w, pass) }); err != nil {
			return err
		}
	}

	view := image.NewRGBA(image.Rect(0, 0, cfg.ViewW*tile, cfg.ViewH*tile))
	page := backend.Page("color")
	render.DrawPoints(view, page, tile, reg.TilesPerEdge(), bottom, 0, 0)
	render.DrawPoints(view, page, tile, reg.TilesPerEdge(), top, 0, 0)
	if err := writeFile(prefix+"-view.png", func(w io.Writer) error { return png.Encode(w, view) }); err != nil {
		return err
	}

	mini := render.Minimap(s, 0, 0, cfg.ViewW, cfg.ViewH)
	framed := image.NewRGBA(mini.Bounds().Inset(-1))
	draw.Draw(framed, framed.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(framed, mini.Bounds(), mini, mini.Bounds().Min, draw.Over)
	if err := writeFile(prefix+"-minimap.png", func(w io.Writer) error { return png.Encode(w, framed) }); err != nil {
		return err
	}
	fmt.Printf("Wrote %s-*.png (%d tiles rendered)\n", prefix, backend.Rendered())
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
