package aspen

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

// Tween values pass through float32, so comparisons use a wider tolerance
// than the transform tests.
const tweenEpsilon = 1e-4

func assertTweenNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > tweenEpsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestTweenPositionLinear(t *testing.T) {
	e := NewEntity("e")
	g := TweenPosition(e.Transform, 10, 20, 1, ease.Linear)

	g.Update(0.5)
	assertTweenNear(t, "X at half", e.Transform.X, 5)
	assertTweenNear(t, "Y at half", e.Transform.Y, 10)
	if g.Done {
		t.Fatal("group done at half duration")
	}

	g.Update(0.5)
	assertTweenNear(t, "X at end", e.Transform.X, 10)
	assertTweenNear(t, "Y at end", e.Transform.Y, 20)
	if !g.Done {
		t.Fatal("group not done after full duration")
	}
}

func TestTweenOvershootClampsToTarget(t *testing.T) {
	e := NewEntity("e")
	g := TweenRotation(e.Transform, 90, 1, ease.Linear)
	g.Update(5)
	assertTweenNear(t, "rotation", e.Transform.Rotation, 90)
	if !g.Done {
		t.Fatal("group not done after overshoot")
	}
}

func TestTweenScale(t *testing.T) {
	e := NewEntity("e")
	g := TweenScale(e.Transform, 2, 4, 2, ease.Linear)
	g.Update(1)
	assertTweenNear(t, "ScaleX at half", e.Transform.ScaleX, 1.5)
	assertTweenNear(t, "ScaleY at half", e.Transform.ScaleY, 2.5)
}

func TestTweenStopsWhenEntityDestroyed(t *testing.T) {
	e := NewEntity("e")
	g := TweenPosition(e.Transform, 100, 0, 1, ease.Linear)
	g.Update(0.25)
	before := e.Transform.X

	e.Destroy()
	g.Update(0.25)

	if !g.Done {
		t.Fatal("group must stop when its entity is destroyed")
	}
	if e.Transform.X != before {
		t.Errorf("X = %v, want unchanged %v after destruction", e.Transform.X, before)
	}
}

func TestMoveToBehavior(t *testing.T) {
	completed := 0
	w := NewWorld("test")
	e := NewEntity("e")
	m := &MoveTo{ToX: 10, ToY: -10, Duration: 1, OnComplete: func() { completed++ }}
	e.AddBehavior(m)
	w.Add(e)

	w.Step(0.25)
	assertTweenNear(t, "X after 1 step", e.Transform.X, 2.5)

	for i := 0; i < 3; i++ {
		w.Step(0.25)
	}
	assertTweenNear(t, "X at end", e.Transform.X, 10)
	assertTweenNear(t, "Y at end", e.Transform.Y, -10)
	if completed != 1 {
		t.Errorf("OnComplete fired %d times, want 1", completed)
	}
	if m.Enabled() {
		t.Error("MoveTo must disable itself on completion")
	}

	// Further steps leave the position alone.
	w.Step(0.25)
	assertTweenNear(t, "X after completion", e.Transform.X, 10)
	if completed != 1 {
		t.Errorf("OnComplete fired %d times after extra step, want 1", completed)
	}
}

// tweenRunner drives a TweenGroup from a coroutine instead of Update.
type tweenRunner struct {
	BehaviorBase
	group *TweenGroup
}

func (r *tweenRunner) Start() {
	r.group = TweenRotation(r.Entity().Transform, 180, 1, ease.Linear)
	r.RunTween(r.group)
}

func TestRunTweenAdvancesByFrameDelta(t *testing.T) {
	w := NewWorld("test")
	e := NewEntity("e")
	r := &tweenRunner{}
	e.AddBehavior(r)
	w.Add(e)

	w.Step(0.25)
	w.Step(0.25)
	assertTweenNear(t, "rotation at half", e.Transform.Rotation, 90)

	w.Step(0.25)
	w.Step(0.25)
	assertTweenNear(t, "rotation at end", e.Transform.Rotation, 180)
	if !r.group.Done {
		t.Fatal("group not done")
	}
}
