package main

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/system"
	"github.com/milk9111/danmaku/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	hitFlashFrames = 8
)

type Options struct {
	P1, P2 string
	Bot    string
	Seed   uint64
	Debug  bool
	Watch  bool
}

type Game struct {
	frames int
	debug  bool

	world *ecs.World
	bot   *system.ScriptInput

	paused  bool
	slowMo  bool
	quit    bool
	pauseUI *ebitenui.UI

	flash   [2]int
	grazes  [2]int
	lastMsg string

	reloads chan prefabs.Reload
	watcher *prefabs.Watcher
	cancel  context.CancelFunc
}

func NewGame(opts Options) (*Game, error) {
	lib, err := prefabs.LoadLibrary()
	if err != nil {
		return nil, err
	}
	p1, ok := lib.Character(opts.P1)
	if !ok {
		return nil, fmt.Errorf("unknown character %q (have %v)", opts.P1, lib.CharacterNames())
	}
	p2, ok := lib.Character(opts.P2)
	if !ok {
		return nil, fmt.Errorf("unknown character %q (have %v)", opts.P2, lib.CharacterNames())
	}

	bot, err := system.NewScriptInput(opts.Bot)
	if err != nil {
		return nil, err
	}
	bot.Debug = opts.Debug

	w := ecs.NewWorld(lib, opts.Seed)
	w.AddCombatant(p1, common.TeamP1)
	w.AddCombatant(p2, common.TeamP2)

	input := system.NewInputSystem()
	input.Bind(common.TeamP1, KeyboardInput{})
	input.Bind(common.TeamP2, bot)
	system.Install(w, input)

	g := &Game{
		debug: opts.Debug,
		world: w,
		bot:   bot,
	}
	g.pauseUI = NewPauseUI(g)

	if opts.Watch {
		g.startWatch()
	}
	return g, nil
}

func (g *Game) startWatch() {
	watcher, err := prefabs.NewWatcher(prefabs.Dir)
	if err != nil {
		log.Printf("hot reload disabled: %v", err)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	g.watcher = watcher
	g.cancel = cancel
	g.reloads = make(chan prefabs.Reload, 4)
	go func() {
		_ = prefabs.WatchLibrary(ctx, watcher, g.reloads)
	}()
}

func (g *Game) Close() {
	if g.cancel != nil {
		g.cancel()
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.frames++
	g.applyReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.slowMo = !g.slowMo
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.world.ResetRound()
	}

	switch {
	case g.paused:
		g.world.TimeScale = 0
		g.pauseUI.Update()
	case g.slowMo:
		g.world.TimeScale = 0.5
	default:
		g.world.TimeScale = 1
	}

	dt := common.FramesToSeconds(1)
	if !g.paused {
		g.movePlayer(dt * g.world.TimeScale)
	}
	g.world.Step(dt)
	g.handleEvents()

	for i := range g.flash {
		if g.flash[i] > 0 {
			g.flash[i]--
		}
	}
	for _, c := range g.world.Combatants {
		if c.Health <= 0 {
			g.lastMsg = fmt.Sprintf("%s down", c.Spec.Name)
			g.world.ResetRound()
			break
		}
	}
	return nil
}

func (g *Game) movePlayer(dt float64) {
	c := g.world.Combatant(common.TeamP1)
	if c == nil {
		return
	}
	dir, slow := Movement()
	if dir == (common.Vec2{}) {
		return
	}
	b := g.world.Arena().Bounds
	p := c.Position.Add(dir.Scale(c.MoveSpeed(slow) * dt))
	p.X = min(max(p.X, b.MinX), b.MaxX)
	p.Y = min(max(p.Y, b.MinY), b.MaxY)
	c.Position = p
	if dir.X != 0 {
		c.Facing = math.Copysign(1, dir.X)
	}
}

func (g *Game) handleEvents() {
	for _, evt := range g.world.Events().Drain() {
		switch evt.Kind {
		case ecs.EventCombatantHit:
			g.flash[evt.Team.Index()] = hitFlashFrames
		case ecs.EventGraze:
			g.grazes[evt.Team.Index()]++
		case ecs.EventRoundReset:
			g.grazes = [2]int{}
		}
	}
}

func (g *Game) applyReloads() {
	if g.reloads == nil {
		return
	}
	for {
		select {
		case r := <-g.reloads:
			if r.Library != nil {
				g.world.SetLibrary(r.Library)
				g.lastMsg = "prefabs reloaded"
			}
			if r.Script != "" && r.Script == g.bot.Path {
				if err := g.bot.Reload(); err != nil {
					g.lastMsg = "script error: " + err.Error()
				} else {
					g.lastMsg = "script reloaded"
				}
			}
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	v := newView(g.world.Arena().Bounds)
	v.drawArena(screen, g.world.Arena())
	for _, c := range g.world.Constructs {
		v.drawConstruct(screen, c)
	}
	for _, a := range g.world.Assaults {
		v.drawAssault(screen, a)
	}
	v.drawProjectiles(screen, g.world)
	for _, c := range g.world.Combatants {
		v.drawCombatant(screen, c, g.flash[c.Team.Index()] > 0)
	}
	drawHUD(screen, g)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
