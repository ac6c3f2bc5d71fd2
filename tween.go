package aspen

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Transform simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenRotation) and advance it with Update(dt) each frame, or hand it to
// [BehaviorBase.RunTween] to drive it from a coroutine. If the owning entity
// is destroyed, the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Transform
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target's entity has been destroyed, Done is set to true and
// no writes occur.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.entity != nil && g.target.entity.destroyed {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenPosition creates a TweenGroup that animates t.X and t.Y to the given
// local coordinates over duration seconds using the easing function.
func TweenPosition(t *Transform, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: t}
	g.tweens[0] = gween.New(float32(t.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(t.Y), float32(toY), duration, fn)
	g.fields[0] = &t.X
	g.fields[1] = &t.Y
	return g
}

// TweenScale creates a TweenGroup that animates t.ScaleX and t.ScaleY.
func TweenScale(t *Transform, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: t}
	g.tweens[0] = gween.New(float32(t.ScaleX), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(t.ScaleY), float32(toY), duration, fn)
	g.fields[0] = &t.ScaleX
	g.fields[1] = &t.ScaleY
	return g
}

// TweenRotation creates a TweenGroup that animates t.Rotation (degrees).
func TweenRotation(t *Transform, toDeg float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: t}
	g.tweens[0] = gween.New(float32(t.Rotation), float32(toDeg), duration, fn)
	g.fields[0] = &t.Rotation
	return g
}

// RunTween starts a coroutine that advances g by the world's scaled delta
// each frame until the group finishes or the coroutine is cancelled.
func (b *BehaviorBase) RunTween(g *TweenGroup) *Coroutine {
	return b.StartCoroutine(func(yield func(WaitCondition) bool) {
		for !g.Done {
			if !yield(WaitFrames(1)) {
				return
			}
			e := b.Entity()
			if e == nil || e.World() == nil {
				return
			}
			g.Update(e.World().Clock.Delta)
		}
	})
}

// MoveTo is a behavior that tweens its entity's local position to a target
// and then disables itself. Attach a fresh MoveTo per move.
type MoveTo struct {
	BehaviorBase

	// ToX, ToY is the target local position.
	ToX, ToY float64
	// Duration is the tween length in seconds.
	Duration float32
	// Ease is the easing function; nil means linear.
	Ease ease.TweenFunc
	// OnComplete, when non-nil, fires once when the target is reached.
	OnComplete func()

	group *TweenGroup
}

// Start begins the tween from the entity's current position.
func (m *MoveTo) Start() {
	fn := m.Ease
	if fn == nil {
		fn = ease.Linear
	}
	m.group = TweenPosition(m.Entity().Transform, m.ToX, m.ToY, m.Duration, fn)
}

// Update advances the tween by the scaled frame delta.
func (m *MoveTo) Update(dt float64) {
	if m.group == nil || m.group.Done {
		return
	}
	m.group.Update(dt)
	if m.group.Done {
		m.SetEnabled(false)
		if m.OnComplete != nil {
			m.OnComplete()
		}
	}
}
