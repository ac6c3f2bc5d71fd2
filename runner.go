package aspen

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window and game loop created by [Run].
type RunConfig struct {
	// Title is the window title.
	Title string
	// Width, Height is the logical screen size in pixels.
	Width, Height int
	// Draw, when non-nil, renders the frame after the world has stepped.
	// The core performs no rendering itself.
	Draw func(screen *ebiten.Image)
}

// Game adapts a World to [ebiten.Game], translating real frame ticks into
// World.Step calls with measured wall-clock deltas. Use it directly when you
// need more control than [Run] offers.
type Game struct {
	world  *World
	cfg    RunConfig
	last   time.Time
	bgFill bool
}

// NewGame wraps world for the ebiten game loop.
func NewGame(world *World, cfg RunConfig) *Game {
	return &Game{world: world, cfg: cfg, bgFill: true}
}

// World returns the wrapped world.
func (g *Game) World() *World {
	return g.world
}

// Update implements ebiten.Game. It measures the elapsed wall time since the
// previous tick and steps the world; the Clock clamps stalls.
func (g *Game) Update() error {
	now := time.Now()
	raw := 1.0 / float64(ebiten.TPS())
	if !g.last.IsZero() {
		raw = now.Sub(g.last).Seconds()
	}
	g.last = now
	g.world.Step(raw)
	return nil
}

// Draw implements ebiten.Game. It clears the screen to the world's
// background color and delegates to the configured Draw callback.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.bgFill {
		screen.Fill(g.world.Settings.BackgroundColor.toRGBA())
	}
	if g.cfg.Draw != nil {
		g.cfg.Draw(screen)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and drives the world until the window closes. It is the
// batteries-included entry point; implement [ebiten.Game] yourself for full
// control.
func Run(world *World, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(NewGame(world, cfg))
}
