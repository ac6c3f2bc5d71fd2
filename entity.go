package aspen

// entityIDCounter is a plain counter (no atomic — aspen is single-threaded).
var entityIDCounter uint64

func nextEntityID() uint64 {
	entityIDCounter++
	return entityIDCounter
}

// Entity is a node in the scene tree. It owns exactly one [Transform], any
// number of components and behaviors, and child entities, and it propagates
// the lifecycle passes to all of them.
//
// An entity is created detached and becomes live when added to a [World],
// directly or as a descendant of an added entity. The id is assigned at
// construction and never changes.
type Entity struct {
	id uint64

	// Name is the display name used by World.FindByName.
	Name string
	// Tag is an optional grouping label used by World.FindByTag.
	Tag string
	// Enabled gates the update passes. When false, neither this entity nor
	// any descendant receives Update, FixedUpdate, or LateUpdate.
	Enabled bool

	// Transform is the entity's spatial node. Never nil.
	Transform *Transform
	// Events is the entity's local event channel, cleared on destroy.
	Events *EventChannel

	parent     *Entity
	children   []*Entity
	components []Component
	behaviors  []Behavior
	world      *World

	// One-shot latches making lifecycle entry idempotent.
	awoken  bool
	started bool

	destroyed      bool
	pendingDestroy bool
}

// NewEntity creates a detached, enabled entity with a fresh id.
func NewEntity(name string) *Entity {
	e := &Entity{
		id:      nextEntityID(),
		Name:    name,
		Enabled: true,
		Events:  NewEventChannel(),
	}
	e.Transform = newTransform(e)
	return e
}

// newEntityWithID is used by the scene loader to restore persisted ids.
// The global counter is bumped past id so fresh entities stay unique.
func newEntityWithID(id uint64, name string) *Entity {
	e := NewEntity(name)
	e.id = id
	if id > entityIDCounter {
		entityIDCounter = id
	}
	return e
}

// ID returns the entity's stable unique id.
func (e *Entity) ID() uint64 {
	return e.id
}

// World returns the owning world, or nil while detached.
func (e *Entity) World() *World {
	return e.world
}

// Parent returns the parent entity, or nil at a root.
func (e *Entity) Parent() *Entity {
	return e.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller; use SetParent or AddChild.
func (e *Entity) Children() []*Entity {
	return e.children
}

// IsDestroyed reports whether the entity has been disposed.
func (e *Entity) IsDestroyed() bool {
	return e.destroyed
}

// --- Members ---

// AddComponent appends c to the entity. If the entity has already awoken or
// started, the corresponding hooks run immediately on c only — existing
// members are never re-run. Panics if c is nil or already attached.
func (e *Entity) AddComponent(c Component) {
	if c == nil {
		panic("aspen: cannot add nil component")
	}
	if c.Entity() != nil {
		panic("aspen: component is already attached to an entity")
	}
	if globalDebug {
		debugCheckDestroyed(e, "AddComponent")
	}
	c.setEntity(e)
	e.components = append(e.components, c)
	if e.awoken {
		c.Awake()
	}
	if e.started {
		c.Start()
	}
}

// AddBehavior appends b to the entity with the same late-attach semantics as
// AddComponent.
func (e *Entity) AddBehavior(b Behavior) {
	if b == nil {
		panic("aspen: cannot add nil behavior")
	}
	if b.Entity() != nil {
		panic("aspen: behavior is already attached to an entity")
	}
	if globalDebug {
		debugCheckDestroyed(e, "AddBehavior")
	}
	b.setEntity(e)
	e.behaviors = append(e.behaviors, b)
	if e.awoken {
		b.Awake()
	}
	if e.started {
		b.Start()
	}
}

// Components returns the component list. MUST NOT be mutated by the caller.
func (e *Entity) Components() []Component {
	return e.components
}

// Behaviors returns the behavior list. MUST NOT be mutated by the caller.
func (e *Entity) Behaviors() []Behavior {
	return e.behaviors
}

// --- Hierarchy ---

// AddChild makes child a child of e. Shorthand for child.SetParent(e).
func (e *Entity) AddChild(child *Entity) {
	if child == nil {
		panic("aspen: cannot add nil child")
	}
	child.SetParent(e)
}

// SetParent reparents the entity. The entity is atomically removed from its
// old parent (entity list and transform in lockstep) before attaching to the
// new one; assigning the current parent is a no-op. Passing nil detaches the
// entity; if it was live it becomes a root of its world.
//
// Reparenting onto an entity in a different (or first) world registers the
// whole subtree there, running awake/start when that world has started.
// Panics if the assignment would create a cycle.
func (e *Entity) SetParent(p *Entity) {
	if e.parent == p {
		return
	}
	if globalDebug {
		debugCheckDestroyed(e, "SetParent (child)")
		if p != nil {
			debugCheckDestroyed(p, "SetParent (parent)")
		}
	}
	if p != nil && isAncestor(e, p) {
		panic("aspen: reparenting would create a cycle")
	}

	oldWorld := e.world
	// Detach from the old parent or root list.
	if e.parent != nil {
		e.parent.removeChild(e)
		e.parent = nil
	} else if e.world != nil {
		e.world.removeRoot(e)
	}
	e.Transform.setParent(nil)

	if p == nil {
		if oldWorld != nil {
			oldWorld.addRoot(e)
		}
		return
	}

	e.parent = p
	p.children = append(p.children, e)
	e.Transform.setParent(p.Transform)

	if p.world != oldWorld {
		if oldWorld != nil {
			oldWorld.deindexTree(e)
		}
		if p.world != nil {
			p.world.adopt(e)
		} else {
			clearWorldTree(e)
		}
	}
	if globalDebug {
		debugCheckTreeDepth(e)
		debugCheckChildCount(p)
	}
}

// isAncestor reports whether candidate is node or one of node's ancestors.
func isAncestor(candidate, node *Entity) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChild removes child from e.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (e *Entity) removeChild(child *Entity) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}

// clearWorldTree nils the world reference across a detached subtree.
func clearWorldTree(e *Entity) {
	e.world = nil
	for _, child := range e.children {
		clearWorldTree(child)
	}
}

// --- Lifecycle ---

// awake runs the one-shot awake pass: components, then behaviors, then
// children, fully depth-first per node. Guarded by the awoken latch.
func (e *Entity) awake() {
	if e.awoken || e.destroyed {
		return
	}
	e.awoken = true
	for _, c := range e.components {
		c.Awake()
	}
	for _, b := range e.behaviors {
		b.Awake()
	}
	for _, child := range e.children {
		child.awake()
	}
}

// start runs the one-shot start pass in the same order as awake. By the time
// any behavior's Start runs, every component on the same entity has awoken,
// so sibling capabilities can be looked up safely.
func (e *Entity) start() {
	if e.started || e.destroyed {
		return
	}
	e.started = true
	for _, c := range e.components {
		c.Start()
	}
	for _, b := range e.behaviors {
		b.Start()
	}
	for _, child := range e.children {
		child.start()
	}
}

// update runs the variable-step pass: enabled components, then enabled
// behaviors (advancing each behavior's coroutine scheduler immediately before
// its Update), then children. Disabled entities skip the pass entirely,
// descendants included.
func (e *Entity) update(dt float64) {
	if !e.Enabled || e.destroyed {
		return
	}
	for _, c := range e.components {
		if c.Enabled() {
			c.Update(dt)
		}
	}
	for _, b := range e.behaviors {
		if b.Enabled() {
			b.Coroutines().Update(dt)
			b.Update(dt)
		}
	}
	for _, child := range e.children {
		child.update(dt)
	}
}

// fixedUpdate runs one fixed-step pass with the fixed timestep.
func (e *Entity) fixedUpdate(dt float64) {
	if !e.Enabled || e.destroyed {
		return
	}
	for _, c := range e.components {
		if c.Enabled() {
			c.FixedUpdate(dt)
		}
	}
	for _, b := range e.behaviors {
		if b.Enabled() {
			b.FixedUpdate(dt)
		}
	}
	for _, child := range e.children {
		child.fixedUpdate(dt)
	}
}

// lateUpdate runs the late pass after all Update passes have finished.
func (e *Entity) lateUpdate(dt float64) {
	if !e.Enabled || e.destroyed {
		return
	}
	for _, c := range e.components {
		if c.Enabled() {
			c.LateUpdate(dt)
		}
	}
	for _, b := range e.behaviors {
		if b.Enabled() {
			b.LateUpdate(dt)
		}
	}
	for _, child := range e.children {
		child.lateUpdate(dt)
	}
}

// --- Destruction ---

// Destroy requests destruction. A live entity is enqueued with its world and
// disposed at end of frame, so in-flight passes never observe a
// half-destroyed node; a detached entity is disposed immediately.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	if e.world != nil {
		e.world.Destroy(e)
		return
	}
	e.dispose()
}

// dispose tears the entity down: children first (depth-first, leaves before
// ancestors), then behaviors (coroutines cancelled, event subscriptions
// dropped), then components, then detachment from the parent, then the
// internal lists. Behaviors may still reach sibling components during their
// OnDestroy.
func (e *Entity) dispose() {
	if e.destroyed {
		return
	}
	e.destroyed = true

	for len(e.children) > 0 {
		e.children[len(e.children)-1].dispose()
	}
	for _, b := range e.behaviors {
		b.OnDestroy()
		b.dispose()
	}
	for _, c := range e.components {
		c.OnDestroy()
	}

	// Detach from the tree.
	if e.parent != nil {
		e.parent.removeChild(e)
		e.parent = nil
	} else if e.world != nil {
		e.world.removeRoot(e)
	}
	e.Transform.setParent(nil)

	e.Events.Clear()
	for _, c := range e.components {
		c.setEntity(nil)
	}
	for _, b := range e.behaviors {
		b.setEntity(nil)
	}
	e.components = nil
	e.behaviors = nil
	e.world = nil
}
