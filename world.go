package aspen

import (
	"github.com/kamstrup/intmap"
)

// defaultIndexCap sizes the by-id index for a typical scene.
const defaultIndexCap = 256

// Settings holds scene-level configuration persisted with the world.
type Settings struct {
	// Gravity is the world gravity vector, consumed by physics components.
	// Y grows downward, matching screen coordinates.
	Gravity Vec2
	// BackgroundColor is the clear color used by the frame driver.
	BackgroundColor Color
	// PixelsPerUnit converts world units to pixels for render components.
	PixelsPerUnit float64
	// FixedTimestep is the simulation timestep consumed by each fixed pass.
	FixedTimestep float64
}

// World owns the root entities of a scene and drives the per-frame lifecycle:
// deferred adds, fixed-step passes, the update pass, the late-update pass,
// the world coroutine scheduler, then deferred destruction.
//
// Every entity reachable from a root is registered in a by-id index; the
// index and the tree never diverge. All mutation happens on the single
// logical thread driving Step — there is no locking.
type World struct {
	// Name identifies the scene.
	Name string
	// Settings is the scene-level configuration.
	Settings Settings
	// Clock is the world's frame clock. Tests may replace or pre-configure
	// it before the first Step.
	Clock *Clock
	// Events is the world-global event channel. The core emits
	// EventWarning here for non-fatal problems.
	Events *EventChannel

	roots          []*Entity
	rootBuf        []*Entity
	index          *intmap.Map[uint64, *Entity]
	pendingAdd     []*Entity
	pendingDestroy []*Entity
	routines       *CoroutineScheduler

	started     bool
	stepping    bool
	accumulator float64
	debug       bool
}

// NewWorld creates an empty world with default settings: gravity (0, 9.8),
// black background, 100 pixels per unit, 50 Hz fixed timestep.
func NewWorld(name string) *World {
	w := &World{
		Name: name,
		Settings: Settings{
			Gravity:         Vec2{0, 9.8},
			BackgroundColor: ColorBlack,
			PixelsPerUnit:   100,
			FixedTimestep:   defaultFixedDelta,
		},
		Clock:    NewClock(),
		Events:   NewEventChannel(),
		index:    intmap.New[uint64, *Entity](defaultIndexCap),
		routines: NewCoroutineScheduler(),
	}
	w.routines.Warnf = w.warnf
	return w
}

// SetDebugMode enables or disables debug mode. When enabled, operations on
// destroyed entities panic and tree depth / child count warnings are printed.
func (w *World) SetDebugMode(enabled bool) {
	w.debug = enabled
	globalDebug = enabled
}

// Started reports whether the world has run its first Step.
func (w *World) Started() bool {
	return w.started
}

// Roots returns the root entity list. MUST NOT be mutated by the caller.
func (w *World) Roots() []*Entity {
	return w.roots
}

// Len returns the number of live entities registered in the world.
func (w *World) Len() int {
	return w.index.Len()
}

// --- Membership ---

// Add registers e as a root entity together with all of its descendants.
// If the world has already started, awake and start run immediately on the
// new subtree. An Add issued while a frame is in flight is deferred to the
// start of the next frame. Panics if e is not a detached root.
func (w *World) Add(e *Entity) {
	if e == nil {
		panic("aspen: cannot add nil entity")
	}
	if e.parent != nil {
		panic("aspen: entity has a parent; only detached roots can be added")
	}
	if e.destroyed {
		panic("aspen: cannot add destroyed entity")
	}
	if e.world == w {
		return
	}
	if w.stepping {
		w.pendingAdd = append(w.pendingAdd, e)
		return
	}
	w.attachRoot(e)
}

// Remove deregisters e and its descendants from the world without destroying
// any state: components keep their values, nothing is disposed, and the
// subtree can be added to a world again later.
func (w *World) Remove(e *Entity) {
	if e == nil || e.world != w {
		return
	}
	w.deindexTree(e)
	if e.parent != nil {
		e.parent.removeChild(e)
		e.parent = nil
		e.Transform.setParent(nil)
	} else {
		w.removeRoot(e)
	}
	clearWorldTree(e)
}

// Destroy enqueues e for end-of-frame destruction. Re-marking an already
// pending entity is a no-op. Actual detachment and disposal happen in
// processPendingDestroy so iteration over the live tree never observes a
// half-destroyed node.
func (w *World) Destroy(e *Entity) {
	if e == nil || e.destroyed || e.pendingDestroy {
		return
	}
	if e.world != w {
		if e.world == nil {
			e.dispose()
		} else {
			e.world.Destroy(e)
		}
		return
	}
	e.pendingDestroy = true
	w.pendingDestroy = append(w.pendingDestroy, e)
}

// attachRoot registers a root subtree and runs lifecycle entry when the
// world has already started.
func (w *World) attachRoot(e *Entity) {
	w.roots = append(w.roots, e)
	w.adopt(e)
}

// adopt indexes a subtree and, on a started world, runs awake then start.
// Called for added roots and for subtrees reparented in from outside.
func (w *World) adopt(e *Entity) {
	w.indexTree(e)
	if w.started {
		e.awake()
		e.start()
	}
}

func (w *World) indexTree(e *Entity) {
	e.world = w
	w.index.Put(e.id, e)
	for _, child := range e.children {
		w.indexTree(child)
	}
}

func (w *World) deindexTree(e *Entity) {
	w.index.Del(e.id)
	for _, child := range e.children {
		w.deindexTree(child)
	}
}

func (w *World) addRoot(e *Entity) {
	w.roots = append(w.roots, e)
}

func (w *World) removeRoot(e *Entity) {
	for i, r := range w.roots {
		if r == e {
			copy(w.roots[i:], w.roots[i+1:])
			w.roots[len(w.roots)-1] = nil
			w.roots = w.roots[:len(w.roots)-1]
			return
		}
	}
}

// --- Lookup ---

// Get returns the live entity with the given id.
func (w *World) Get(id uint64) (*Entity, bool) {
	return w.index.Get(id)
}

// FindByName returns the first entity with the given name in depth-first
// order over the live tree, or nil.
func (w *World) FindByName(name string) *Entity {
	for _, root := range w.roots {
		if e := findByName(root, name); e != nil {
			return e
		}
	}
	return nil
}

func findByName(e *Entity, name string) *Entity {
	if e.Name == name {
		return e
	}
	for _, child := range e.children {
		if found := findByName(child, name); found != nil {
			return found
		}
	}
	return nil
}

// FindByTag returns every entity with the given tag, in depth-first order
// over the live tree.
func (w *World) FindByTag(tag string) []*Entity {
	var out []*Entity
	for _, root := range w.roots {
		out = collectByTag(root, tag, out)
	}
	return out
}

func collectByTag(e *Entity, tag string, out []*Entity) []*Entity {
	if e.Tag == tag {
		out = append(out, e)
	}
	for _, child := range e.children {
		out = collectByTag(child, tag, out)
	}
	return out
}

// --- Coroutines ---

// StartRoutine starts a world-level coroutine, advanced once per frame after
// the late-update pass. Behaviors normally use their own StartCoroutine;
// world routines suit scene-scope logic with no owning entity.
func (w *World) StartRoutine(r Routine) *Coroutine {
	return w.routines.Start(r)
}

// Routines returns the world-level coroutine scheduler.
func (w *World) Routines() *CoroutineScheduler {
	return w.routines
}

// --- Frame driver ---

// Step advances the world by one frame. rawDelta is the wall-clock time in
// seconds since the previous tick. The pass order is fixed: deferred adds,
// zero or more fixed-step passes, the update pass, the late-update pass, the
// world coroutine scheduler, then deferred destruction.
func (w *World) Step(rawDelta float64) {
	w.Clock.FixedDelta = w.Settings.FixedTimestep
	w.Clock.Tick(rawDelta)

	w.flushPendingAdds()

	if !w.started {
		w.started = true
		w.rootBuf = append(w.rootBuf[:0], w.roots...)
		for _, e := range w.rootBuf {
			e.awake()
		}
		for _, e := range w.rootBuf {
			e.start()
		}
	}

	w.stepping = true
	dt := w.Clock.Delta

	if ft := w.Settings.FixedTimestep; ft > 0 {
		w.accumulator += dt
		for w.accumulator >= ft {
			w.rootBuf = append(w.rootBuf[:0], w.roots...)
			for _, e := range w.rootBuf {
				e.fixedUpdate(ft)
			}
			w.accumulator -= ft
		}
	}

	w.rootBuf = append(w.rootBuf[:0], w.roots...)
	for _, e := range w.rootBuf {
		e.update(dt)
	}

	w.rootBuf = append(w.rootBuf[:0], w.roots...)
	for _, e := range w.rootBuf {
		e.lateUpdate(dt)
	}

	w.routines.Update(dt)

	w.stepping = false
	w.processPendingDestroy()
}

func (w *World) flushPendingAdds() {
	if len(w.pendingAdd) == 0 {
		return
	}
	adds := w.pendingAdd
	w.pendingAdd = nil
	for _, e := range adds {
		// An entity can be enqueued more than once within a frame; only
		// the first flush attaches it.
		if e.destroyed || e.world == w {
			continue
		}
		w.attachRoot(e)
	}
}

// processPendingDestroy detaches and disposes every enqueued entity. Destroy
// requests issued from OnDestroy hooks are appended and processed in the same
// pass.
func (w *World) processPendingDestroy() {
	for i := 0; i < len(w.pendingDestroy); i++ {
		e := w.pendingDestroy[i]
		if e.destroyed {
			continue
		}
		w.deindexTree(e)
		e.dispose()
	}
	w.pendingDestroy = w.pendingDestroy[:0]
}

// warnf reports a non-fatal problem on stderr and the world event channel.
func (w *World) warnf(format string, args ...any) {
	warnf(format, args...)
	w.Events.Emit(EventWarning, sprintf(format, args...))
}
