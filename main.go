package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	p1 := flag.String("p1", "ember", "character for the keyboard player")
	p2 := flag.String("p2", "frost", "character for the scripted opponent")
	bot := flag.String("bot", "bot.tengo", "input script for the opponent")
	seed := flag.Uint64("seed", 1, "random seed")
	watch := flag.Bool("watch", true, "hot reload prefabs and scripts from disk")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("danmaku")

	game, err := NewGame(Options{
		P1:    *p1,
		P2:    *p2,
		Bot:   *bot,
		Seed:  *seed,
		Debug: *debug,
		Watch: *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
