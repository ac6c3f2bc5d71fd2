// Package aspen is the runtime core of a retained-mode 2D game toolkit.
//
// Aspen provides the entity/component/behavior model, the hierarchical
// transform, the per-frame lifecycle scheduler, and a cooperative coroutine
// scheduler that every other subsystem (rendering, physics, audio, UI) builds
// on. It performs no rendering and no physics itself; those are external
// collaborators reached through narrow interfaces. The bundled frame driver
// runs on [Ebitengine].
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	world := aspen.NewWorld("main")
//	// ... add entities ...
//	aspen.Run(world, aspen.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself and call [World.Step]
// once per tick with the raw frame delta:
//
//	type Game struct{ world *aspen.World }
//
//	func (g *Game) Update() error              { g.world.Step(1.0 / float64(ebiten.TPS())); return nil }
//	func (g *Game) Draw(s *ebiten.Image)       { /* render from the entity tree */ }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Entities
//
// Every object in a world is an [Entity]: a node in the scene tree owning one
// [Transform], any number of [Component] values (structural capabilities
// consumed by external services), any number of [Behavior] values
// (user-authored logic), and child entities.
//
//	player := aspen.NewEntity("player")
//	player.Transform.X, player.Transform.Y = 100, 50
//	player.AddBehavior(&PlayerController{})
//	world.Add(player)
//
// Components and behaviors share the five-phase lifecycle: Awake, Start,
// Update, FixedUpdate, LateUpdate, plus OnDestroy. Embed [ComponentBase] or
// [BehaviorBase] and override only the hooks you need.
//
// # Frame order
//
// [World.Step] runs a fixed sequence per tick: deferred adds, zero or more
// fixed-step passes, one update pass, one late-update pass, the world
// coroutine scheduler, then deferred destruction. Behaviors may rely on this
// order: fixed-step results are visible in Update, and destruction never
// happens while a pass is still iterating the tree.
//
// # Coroutines
//
// Behaviors can suspend logic across frames without blocking the loop:
//
//	func (b *Fader) Start() {
//		b.StartCoroutine(func(yield func(aspen.WaitCondition) bool) {
//			if !yield(aspen.WaitSeconds(0.5)) {
//				return
//			}
//			b.Entity().Transform.X = 10
//		})
//	}
//
// See [Routine], [WaitFrames], [WaitSeconds], [WaitUntil], and [WaitFor].
//
// # Scene files
//
// Worlds load from and save to a JSON scene document via [LoadScene] and
// [SaveScene], with component and behavior construction delegated to a
// [Registry] of string-keyed factories.
//
// [Ebitengine]: https://ebitengine.org
package aspen
