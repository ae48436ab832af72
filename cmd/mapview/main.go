package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"cellatlas/internal/store"
	"cellatlas/internal/terrain"
	"cellatlas/internal/ui"

	"github.com/gdamore/tcell/v2"
)

type viewer struct {
	screen  tcell.Screen
	terrain *terrain.Sampler
	edits   *store.Store
	status  tcell.Style
}

func main() {
	seed := flag.Int64("seed", terrain.DefaultConfig().Seed, "world seed")
	scale := flag.Float64("scale", 1, "noise scale")
	edits := flag.String("edits", "", "edit file to overlay")
	flag.Parse()

	cfg := terrain.FromMap(map[string]string{
		"seed":  fmt.Sprint(*seed),
		"scale": fmt.Sprint(*scale),
	})
	logger := log.New(io.Discard, "", 0)
	v := &viewer{edits: store.New(), status: tcell.StyleDefault.Reverse(true)}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	v.screen = screen

	w, h := screen.Size()
	cfg.ViewW, cfg.ViewH = max(w, 1), max(h-1, 1)
	v.terrain = terrain.New(cfg, cfg.Registry(logger))
	if *edits != "" {
		if err := v.edits.LoadFile(*edits); err != nil {
			screen.Fini()
			log.Fatal(err)
		}
		v.edits.Replay(v.terrain)
	}

	err = v.run()
	screen.Fini()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (v *viewer) run() error {
	for {
		v.draw()
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			x, y := v.terrain.Offset()
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return nil
			case tcell.KeyLeft:
				x--
			case tcell.KeyRight:
				x++
			case tcell.KeyUp:
				y--
			case tcell.KeyDown:
				y++
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q':
					return nil
				case 'H':
					x -= 10
				case 'L':
					x += 10
				case 'K':
					y -= 10
				case 'J':
					y += 10
				}
			}
			v.terrain.SetOffset(x, y)
		case nil:
			return nil
		}
	}
}

func (v *viewer) draw() {
	v.terrain.UpdateMeta()
	win := v.terrain.Window()
	ox, oy := v.terrain.Offset()
	for y := 0; y < win.H; y++ {
		for x := 0; x < win.W; x++ {
			r, style := ui.CellGlyph(v.terrain, ox+x, oy+y)
			v.screen.SetContent(x, y, r, nil, style)
		}
	}
	line := fmt.Sprintf(" (%d,%d) seed %d  edits %d  arrows/HJKL scroll  q quit ", ox, oy, v.terrain.Config().Seed, v.edits.Len())
	for i, r := range line {
		if i >= win.W {
			break
		}
		v.screen.SetContent(i, win.H, r, nil, v.status)
	}
	for i := len(line); i < win.W; i++ {
		v.screen.SetContent(i, win.H, ' ', nil, v.status)
	}
	v.screen.Show()
}
