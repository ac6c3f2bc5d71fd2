package aspen

// Component is a structural capability attached to an Entity: a sprite, a
// physics body, an audio source. Components expose the shared five-phase
// lifecycle and are typically consumed by external services (renderer,
// physics backend) rather than containing game logic themselves; for
// user-authored logic use a [Behavior].
//
// Implementations embed [ComponentBase] and override only the hooks they
// need. The embedded base wires the entity back-reference and the enabled
// flag.
type Component interface {
	// Awake runs once, before any Start, when the owning entity enters a
	// started world or first starts.
	Awake()
	// Start runs once, after every component on the entity has awoken.
	Start()
	// Update runs once per frame with the scaled delta in seconds.
	Update(dt float64)
	// FixedUpdate runs zero or more times per frame, once per consumed
	// fixed timestep.
	FixedUpdate(dt float64)
	// LateUpdate runs once per frame after every Update pass.
	LateUpdate(dt float64)
	// OnDestroy runs when the owning entity is disposed.
	OnDestroy()

	// Enabled reports whether the component receives update passes.
	Enabled() bool
	// SetEnabled toggles update delivery. Awake/Start are not affected.
	SetEnabled(enabled bool)

	// Entity returns the owning entity, or nil while detached.
	Entity() *Entity

	setEntity(e *Entity)
}

// ComponentBase is the embeddable no-op implementation of [Component].
// The zero value is enabled and detached.
type ComponentBase struct {
	entity   *Entity
	disabled bool
}

// Awake implements [Component]. No-op.
func (b *ComponentBase) Awake() {}

// Start implements [Component]. No-op.
func (b *ComponentBase) Start() {}

// Update implements [Component]. No-op.
func (b *ComponentBase) Update(dt float64) {}

// FixedUpdate implements [Component]. No-op.
func (b *ComponentBase) FixedUpdate(dt float64) {}

// LateUpdate implements [Component]. No-op.
func (b *ComponentBase) LateUpdate(dt float64) {}

// OnDestroy implements [Component]. No-op.
func (b *ComponentBase) OnDestroy() {}

// Enabled reports whether the component receives update passes.
func (b *ComponentBase) Enabled() bool {
	return !b.disabled
}

// SetEnabled toggles update delivery.
func (b *ComponentBase) SetEnabled(enabled bool) {
	b.disabled = !enabled
}

// Entity returns the owning entity, or nil while detached.
func (b *ComponentBase) Entity() *Entity {
	return b.entity
}

func (b *ComponentBase) setEntity(e *Entity) {
	b.entity = e
}

// GetComponent returns the first component on e whose dynamic type is T, or
// ok=false if none matches. Lookup is by runtime type, not by name.
func GetComponent[T Component](e *Entity) (T, bool) {
	for _, c := range e.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// GetBehavior returns the first behavior on e whose dynamic type is T, or
// ok=false if none matches.
func GetBehavior[T Behavior](e *Entity) (T, bool) {
	for _, b := range e.behaviors {
		if t, ok := b.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
