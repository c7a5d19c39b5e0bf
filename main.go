package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"tokenvitals/pkg/engine/frametime"
	"tokenvitals/pkg/engine/gamelog"
	"tokenvitals/pkg/engine/sched"
	gamerenderer "tokenvitals/pkg/game/renderer/ebiten"
	"tokenvitals/pkg/game/state"
	"tokenvitals/pkg/game/vitals"
)

func main() {
	tokens := flag.Int("tokens", 120, "number of tokens on the board")
	seed := flag.Int64("seed", 0, "board seed (0 = time-based)")
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	paused := flag.Bool("paused", false, "start with token drift paused")
	verbose := flag.Bool("verbose", false, "log debug output")
	flag.Parse()

	gamelog.InitColors()
	if !*verbose {
		gamelog.SetMinLevel(gamelog.LevelInfo)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	board := state.NewBoard(float64(*width), float64(*height), *tokens, *seed)
	board.Paused = *paused
	board.AddMessage(fmt.Sprintf("%d tokens, seed %d", *tokens, *seed))

	pump := frametime.NewPump()
	scheduler := sched.New(pump)
	geom := vitals.NewGeometryCache()
	unc := vitals.NewUncertaintyCache(nil)

	r := gamerenderer.New(board, pump, scheduler, geom, unc)

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Token Vitals")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(r); err != nil {
		gamelog.Log(gamelog.LevelError, "game loop exited", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
