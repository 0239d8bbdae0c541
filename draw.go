package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/prefabs"
	"golang.org/x/image/font/basicfont"
)

var (
	hudFace = ebtext.NewGoXFace(basicfont.Face7x13)

	arenaColor = color.NRGBA{R: 0x20, G: 0x22, B: 0x2a, A: 0xff}
	floorColor = color.NRGBA{R: 0x55, G: 0x55, B: 0x66, A: 0xff}
	hitColor   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	grazeColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x30}
	teamColors = [2]color.NRGBA{{R: 0xff, G: 0x70, B: 0x50, A: 0xff}, {R: 0x60, G: 0xb0, B: 0xff, A: 0xff}}
	readyColor = color.NRGBA{R: 0x80, G: 0xff, B: 0x80, A: 0xff}
)

// view maps world units onto the fixed layout, Y up.
type view struct {
	scale  float64
	origin common.Vec2
}

func newView(b common.Rect) view {
	w, h := b.MaxX-b.MinX, b.MaxY-b.MinY
	scale := 0.92 * min(baseWidth/w, (baseHeight-60)/h)
	return view{
		scale: scale,
		origin: common.Vec2{
			X: baseWidth/2 - (b.MinX+w/2)*scale,
			Y: 60 + (baseHeight-60)/2 + (b.MinY+h/2)*scale,
		},
	}
}

func (v view) point(p common.Vec2) (float32, float32) {
	return float32(v.origin.X + p.X*v.scale), float32(v.origin.Y - p.Y*v.scale)
}

func (v view) length(l float64) float32 {
	return float32(l * v.scale)
}

func (v view) drawArena(screen *ebiten.Image, arena *prefabs.ArenaSpec) {
	b := arena.Bounds
	x0, y0 := v.point(common.Vec2{X: b.MinX, Y: b.MaxY})
	x1, y1 := v.point(common.Vec2{X: b.MaxX, Y: b.MinY})
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, arenaColor, false)

	_, fy := v.point(common.Vec2{Y: arena.FloorY})
	vector.StrokeLine(screen, x0, fy, x1, fy, 1, floorColor, false)
}

func (v view) drawCombatant(screen *ebiten.Image, c *component.Combatant, flashing bool) {
	x, y := v.point(c.Position)
	clr := color.Color(teamColors[c.Team.Index()])
	if c.Spec.Color != nil && c.Spec.Color.Color != nil {
		clr = c.Spec.Color.Color
	}
	if flashing {
		clr = hitColor
	}
	vector.StrokeCircle(screen, x, y, v.length(c.Spec.GrazeRadius), 1, grazeColor, true)
	vector.FillCircle(screen, x, y, max(v.length(c.Spec.HitRadius), 2), clr, true)
	if c.IsInvulnerable() {
		vector.StrokeCircle(screen, x, y, max(v.length(c.Spec.HitRadius), 2)+4, 1, hitColor, true)
	}
}

func (v view) drawProjectiles(screen *ebiten.Image, w *ecs.World) {
	w.Pool.Each(func(_ ecs.Entity, p *component.Projectile) {
		clr := teamColors[p.Team.Index()]
		r := p.ColliderRadius
		if p.Spec.Startup.Enabled() && p.Spec.Startup.Type == prefabs.StartupScale {
			r *= p.Effect
		}
		if p.Phase != component.PhaseActive {
			clr.A = 0x80
		}
		x, y := v.point(p.Position)
		vector.FillCircle(screen, x, y, max(v.length(r), 1.5), clr, true)
		if v.length(r) >= 4 {
			// sprite top is at Rotation+90
			tip := p.Position.Add(common.FromAngle(p.Rotation + 90).Scale(r))
			tx, ty := v.point(tip)
			vector.StrokeLine(screen, x, y, tx, ty, 1, arenaColor, true)
		}
	})
}

func (v view) drawConstruct(screen *ebiten.Image, c *component.Construct) {
	clr := teamColors[c.Team.Index()]
	clr.A = 0xb0
	x, y := v.point(c.Position)
	r := v.length(c.Radius)
	vector.StrokeCircle(screen, x, y, r, 2, clr, true)
	if c.Clearing {
		vector.StrokeCircle(screen, x, y, r*0.8, 1, clr, true)
	}
	for _, deg := range []float64{0, 120, 240} {
		d := common.FromAngle(c.Rotation + deg)
		ex, ey := v.point(c.Position.Add(d.Scale(c.Radius)))
		vector.StrokeLine(screen, x, y, ex, ey, 1, clr, true)
	}
}

func (v view) drawAssault(screen *ebiten.Image, a *component.Assault) {
	clr := teamColors[a.Team.Index()]
	x, y := v.point(a.Position)
	r := v.length(a.Radius)
	vector.StrokeRect(screen, x-r, y-r, 2*r, 2*r, 2, clr, true)
}

func drawHUD(screen *ebiten.Image, g *Game) {
	for _, c := range g.world.Combatants {
		idx := c.Team.Index()
		x := 10.0
		if idx == 1 {
			x = baseWidth / 2
		}
		drawText(screen, fmt.Sprintf("%s  HP %.0f/%.0f  gauge %.0f/%.0f  graze %d",
			c.Spec.Name, c.Health, c.Spec.MaxHealth, c.Gauge, c.GaugeMax, g.grazes[idx]), x, 8, teamColors[idx])
		drawText(screen, slotLine(c), x, 26, readyColor)
	}

	if g.lastMsg != "" {
		drawText(screen, g.lastMsg, 10, baseHeight-20, hitColor)
	}
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("tick %d  FPS %.1f  projectiles %d/%d  constructs %d  pending %d",
			g.world.Tick, ebiten.ActualFPS(), g.world.Pool.ActiveCount(), g.world.Pool.Cap(),
			len(g.world.Constructs), len(g.world.Pending)), 10, 44)
	}
}

var slotNames = [component.SlotCount]string{"Z", "X", "C", "V", "B"}

func slotLine(c *component.Combatant) string {
	var sb strings.Builder
	for i := range c.Slots {
		s := &c.Slots[i]
		if !s.Enabled() {
			continue
		}
		switch {
		case s.Charging():
			fmt.Fprintf(&sb, "%s:charge  ", slotNames[i])
		case s.Bursting():
			fmt.Fprintf(&sb, "%s:fire  ", slotNames[i])
		case s.Ready():
			fmt.Fprintf(&sb, "%s:ok  ", slotNames[i])
		default:
			fmt.Fprintf(&sb, "%s:%.1f  ", slotNames[i], math.Ceil(s.RemainingRecast()*10)/10)
		}
	}
	return sb.String()
}

func drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	ebtext.Draw(screen, s, hudFace, op)
}
