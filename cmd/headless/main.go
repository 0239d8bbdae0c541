package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/system"
	"github.com/milk9111/danmaku/prefabs"
	"golang.org/x/sync/errgroup"
)

func main() {
	ticks := flag.Int("ticks", 3600, "ticks to simulate")
	seed := flag.Uint64("seed", 1, "random seed")
	p1 := flag.String("p1", "ember", "player one character")
	p2 := flag.String("p2", "frost", "player two character")
	bot1 := flag.String("bot1", "bot.tengo", "input script for player one")
	bot2 := flag.String("bot2", "bot.tengo", "input script for player two")
	watch := flag.Bool("watch", false, "run in real time and hot reload prefabs")
	debug := flag.Bool("debug", false, "let scripts print debug lines")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, options{
		ticks: *ticks,
		seed:  *seed,
		chars: [2]string{*p1, *p2},
		bots:  [2]string{*bot1, *bot2},
		watch: *watch,
		debug: *debug,
	}); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	ticks int
	seed  uint64
	chars [2]string
	bots  [2]string
	watch bool
	debug bool
}

type match struct {
	world   *ecs.World
	scripts []*system.ScriptInput
	counts  map[ecs.EventKind]int
	kos     [2]int
}

func newMatch(opts options) (*match, error) {
	lib, err := prefabs.LoadLibrary()
	if err != nil {
		return nil, err
	}

	w := ecs.NewWorld(lib, opts.seed)
	input := system.NewInputSystem()
	m := &match{world: w, counts: map[ecs.EventKind]int{}}
	for i, team := range []common.Team{common.TeamP1, common.TeamP2} {
		spec, ok := lib.Character(opts.chars[i])
		if !ok {
			return nil, errors.New("unknown character " + opts.chars[i])
		}
		w.AddCombatant(spec, team)

		si, err := system.NewScriptInput(opts.bots[i])
		if err != nil {
			return nil, err
		}
		si.Debug = opts.debug
		input.Bind(team, si)
		m.scripts = append(m.scripts, si)
	}
	system.Install(w, input)
	return m, nil
}

func (m *match) step() {
	m.world.Step(common.FramesToSeconds(1))
	for _, evt := range m.world.Events().Drain() {
		m.counts[evt.Kind]++
	}

	for _, c := range m.world.Combatants {
		if c.Health > 0 {
			continue
		}
		if opp := m.world.Opponent(c); opp != nil {
			m.kos[opp.Team.Index()]++
		}
		log.Printf("round %s: %s down at tick %d", m.world.Round, c.Spec.Name, m.world.Tick)
		m.world.ResetRound()
		return
	}
}

func (m *match) apply(r prefabs.Reload) {
	if r.Library != nil {
		m.world.SetLibrary(r.Library)
		log.Printf("reloaded prefabs at tick %d", m.world.Tick)
	}
	if r.Script == "" {
		return
	}
	for _, si := range m.scripts {
		if si.Path != r.Script {
			continue
		}
		if err := si.Reload(); err != nil {
			log.Printf("reload %s: %v", r.Script, err)
			continue
		}
		log.Printf("reloaded %s", r.Script)
	}
}

func (m *match) report() {
	kinds := make([]string, 0, len(m.counts))
	for kind := range m.counts {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	log.Printf("ticks=%d active=%d pool=%d/%d ko=%d-%d",
		m.world.Tick, m.world.Pool.ActiveCount(), m.world.Pool.Cap(), m.world.Pool.MaxSize(), m.kos[0], m.kos[1])
	for _, kind := range kinds {
		log.Printf("  %-24s %d", kind, m.counts[ecs.EventKind(kind)])
	}
}

func run(ctx context.Context, opts options) error {
	m, err := newMatch(opts)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	reloads := make(chan prefabs.Reload, 4)

	if opts.watch {
		watcher, err := prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			return err
		}
		defer watcher.Close()
		g.Go(func() error {
			return prefabs.WatchLibrary(ctx, watcher, reloads)
		})
	}

	g.Go(func() error {
		defer cancel()

		var frame <-chan time.Time
		if opts.watch {
			ticker := time.NewTicker(time.Second / common.TicksPerSecond)
			defer ticker.Stop()
			frame = ticker.C
		}

		for i := 0; opts.ticks <= 0 || i < opts.ticks; i++ {
			if frame != nil {
				select {
				case <-ctx.Done():
					return nil
				case <-frame:
				}
			} else if ctx.Err() != nil {
				return nil
			}

			select {
			case r := <-reloads:
				m.apply(r)
			default:
			}
			m.step()
		}
		return nil
	})

	err = g.Wait()
	m.report()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
