//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"cellatlas/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.New(os.Stderr, "cellatlas: ", log.LstdFlags)
	game, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle(game.Title())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		logger.Print(err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		logger.Fatal(runErr)
	}
}
