//go:build ebiten

package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"

	"cellatlas/internal/core"
	"cellatlas/internal/render"
	"cellatlas/internal/sprites"
	"cellatlas/internal/store"
	"cellatlas/internal/terrain"
	"cellatlas/internal/ui"
	pcore "cellatlas/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 220

// brush is one paintable author override.
type brush struct {
	name  string
	names []string
}

var brushes = []brush{
	{"water", []string{"water"}},
	{"floor", []string{"floor"}},
	{"log wall", []string{"floor", "logWall"}},
	{"bricks", []string{"floor", "bricks"}},
	{"door", []string{"floor", "logWall", "door"}},
	{"gold rocks", []string{"dirt", "rocks", "goldOre"}},
	{"pine", []string{"grass", "treePine", "mature"}},
	{"lamp", []string{"dirt", "lampPost"}},
	{"sand", []string{"sand"}},
}

type walker struct {
	h        sprites.Handle
	vx, vy   float64
	frame    int
	creature bool
}

// Game adapts the map and sprite samplers to the ebiten.Game interface.
type Game struct {
	cfg    *Config
	logger *log.Logger

	terrain *terrain.Sampler
	sprites *sprites.Sampler
	tiles   *render.EbitenBackend
	bodies  *render.EbitenBackend

	ground, cover *core.PointBuffer
	below, above  *core.PointBuffer

	overlay *ui.Overlay
	hud     *ui.HUD
	anim    *core.FixedStep
	rng     *pcore.RNG
	store   *store.Store
	walkers []walker

	brush  int
	paused bool
}

// New constructs a Game from cfg. Edits from cfg.Save are replayed when the
// file exists.
func New(cfg *Config, logger *log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "cellatlas: ", log.LstdFlags)
	}
	tc := cfg.Terrain()
	treg := tc.Registry(logger)
	sc := cfg.Sprites()
	sreg := sc.Registry(logger)

	g := &Game{
		cfg:     cfg,
		logger:  logger,
		terrain: terrain.New(tc, treg),
		sprites: sprites.New(sc, sreg),
		tiles:   render.NewEbitenBackend(render.TerrainPieces(cfg.Tile), treg.TilesPerEdge()),
		bodies:  render.NewEbitenBackend(render.SpritePieces(cfg.Tile), sreg.TilesPerEdge()),
		ground:  core.NewPointBuffer(0, 2),
		cover:   core.NewPointBuffer(0, 2),
		below:   core.NewPointBuffer(0, 3),
		above:   core.NewPointBuffer(0, 3),
		anim:    core.NewFixedStep(cfg.AnimTPS, terrain.TimeSlots),
		rng:     pcore.NewRNG(cfg.Seed),
		store:   store.New(),
	}
	g.overlay = ui.NewOverlay(g.terrain, cfg.Tile)
	g.hud = ui.NewHUD("cellatlas", hudWidth, g.terrain, g.sprites)

	if cfg.Save != "" {
		err := g.store.LoadFile(cfg.Save)
		switch {
		case err == nil:
			logger.Printf("replayed %d edits from %s", g.store.Replay(g.terrain), cfg.Save)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("app: %w", err)
		}
	}
	g.store.Attach(g.terrain)
	g.spawn()
	return g, nil
}

func (g *Game) spawn() {
	win := g.terrain.Window()
	kinds := [][]string{{"sheep", "run"}, {"skeleton", "run"}, {"body", "hat", "weapon"}, {"body2", "shield", "carry"}}
	for i := 0; i < g.cfg.Herd; i++ {
		names := kinds[i%len(kinds)]
		angle := g.rng.Float64() * 2 * math.Pi
		h := g.sprites.Add(sprites.Instance{
			Meta:  sprites.NewMeta(names...),
			X:     g.rng.Float64() * float64(win.W),
			Y:     g.rng.Float64() * float64(win.H),
			Angle: angle,
		})
		g.walkers = append(g.walkers, walker{
			h:        h,
			vx:       math.Cos(angle) * 0.05,
			vy:       math.Sin(angle) * 0.05,
			creature: names[1] == "run",
		})
	}
}

// Reset drops every edit and sprite and rebuilds the view.
func (g *Game) Reset() {
	g.terrain.Reset()
	g.sprites.Reset()
	g.walkers = g.walkers[:0]
	g.spawn()
}

// Close writes the edit store when a save path is configured.
func (g *Game) Close() error {
	if g.cfg.Save == "" {
		return nil
	}
	if err := g.store.SaveFile(g.cfg.Save); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	g.logger.Printf("saved %d edits to %s", g.store.Len(), g.cfg.Save)
	return nil
}

// Update handles input, advances animation and pumps both samplers.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.brush = (g.brush + 1) % len(brushes)
	}
	g.scroll()
	g.paint()
	g.overlay.Update()

	if g.paused {
		g.anim.Hold()
	} else if n := g.anim.Advance(); n > 0 {
		g.terrain.SetTime(g.anim.Frame())
		for range n {
			g.walk()
		}
	}

	for _, s := range []core.Sampler{g.terrain, g.sprites} {
		s.UpdateMeta()
	}
	g.terrain.UpdateVis(g.ground, g.cover)
	g.sprites.UpdateVis(g.below, g.above)
	if _, err := g.terrain.Registry().Render(g.tiles); err != nil {
		g.logger.Printf("terrain atlas: %v", err)
	}
	if _, err := g.sprites.Registry().Render(g.bodies); err != nil {
		g.logger.Printf("sprite atlas: %v", err)
	}
	g.overlay.SetAtlas(g.tiles.Page("color"))

	g.hud.SetStatus("brush: " + brushes[g.brush].name)
	g.hud.Update()
	return nil
}

func (g *Game) scroll() {
	x, y := g.terrain.Offset()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		x--
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		x++
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		y--
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		y++
	default:
		return
	}
	g.terrain.SetOffset(x, y)
}

func (g *Game) paint() {
	x, y, ok := g.overlay.Cursor()
	if !ok {
		return
	}
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		m := terrain.NewMeta(brushes[g.brush].names...)
		if w, ok := g.terrain.Written(x, y); ok && w.Bits() == m.Bits() {
			return
		}
		g.terrain.WriteMeta(x, y, m)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		if _, ok := g.terrain.Written(x, y); ok {
			g.terrain.ClearMeta(x, y)
		}
	}
}

func (g *Game) walk() {
	win := g.terrain.Window()
	ox, oy := g.terrain.Offset()
	for i := range g.walkers {
		w := &g.walkers[i]
		in, ok := g.sprites.Get(w.h)
		if !ok {
			continue
		}
		x, y := in.X+w.vx, in.Y+w.vy
		if x < float64(ox) || x > float64(ox+win.W-1) {
			w.vx = -w.vx
		}
		if y < float64(oy) || y > float64(oy+win.H-1) {
			w.vy = -w.vy
		}
		g.sprites.SetPosition(w.h, x, y, 0)
		g.sprites.SetAngle(w.h, math.Atan2(w.vy, w.vx))
		if w.creature {
			w.frame++
			g.sprites.SetFrame(w.h, w.frame)
		}
	}
}

// Draw renders the map, the sprites, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	ox, oy := g.terrain.Offset()
	g.drawPoints(screen, g.tiles, g.ground, ox, oy)
	g.drawPoints(screen, g.bodies, g.below, ox, oy)
	g.drawPoints(screen, g.tiles, g.cover, ox, oy)
	g.drawPoints(screen, g.bodies, g.above, ox, oy)
	g.overlay.Draw(screen)
	win := g.terrain.Window()
	g.hud.Draw(screen, win.W*g.cfg.Tile, win.H*g.cfg.Tile)
}

// drawPoints blits each point's tile, centered on its position for 3D
// points and cell-aligned for 2D ones.
func (g *Game) drawPoints(screen *ebiten.Image, b *render.EbitenBackend, buf *core.PointBuffer, ox, oy int) {
	size := float64(g.cfg.Tile)
	for i := 0; i < buf.Count && i < buf.Len(); i++ {
		id := buf.ID(i)
		if id == 0 {
			continue
		}
		pos := buf.Position(i)
		x := (float64(pos[0]) - float64(ox)) * size
		y := (float64(pos[1]) - float64(oy)) * size
		if buf.Dim > 2 {
			x -= size / 2
			y -= size/2 + float64(pos[2])*size
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(math.Round(x), math.Round(y))
		screen.DrawImage(b.Tile("color", id), op)
	}
	buf.Dirty = false
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	win := g.terrain.Window()
	return win.W*g.cfg.Tile + hudWidth, win.H * g.cfg.Tile
}

// Title describes the running view for the window title.
func (g *Game) Title() string {
	return fmt.Sprintf("cellatlas seed %d", g.cfg.Seed)
}
