package aspen

// External collaborator contracts. The core never calls these itself;
// components hold a service reference and invoke it from their lifecycle
// hooks (a physics body component steps its service from FixedUpdate, a
// sprite component submits to the render service from LateUpdate). The
// interfaces live here so component packages and service backends agree on
// the boundary without depending on each other.

// PhysicsService is the narrow contract a physics backend exposes to
// components: advance the simulation and report contact changes.
type PhysicsService interface {
	// Step advances the simulation by the fixed timestep.
	Step(dt float64)
	// OnCollisionStart registers a callback fired when two entities begin
	// contact.
	OnCollisionStart(fn func(a, b *Entity))
	// OnCollisionEnd registers a callback fired when two entities separate.
	OnCollisionEnd(fn func(a, b *Entity))
}

// RenderService is the narrow contract a render backend exposes to
// components: sprite and camera primitives addressed by entity.
type RenderService interface {
	// Submit queues a sprite for the entity this frame, using its
	// transform's world values.
	Submit(e *Entity, sprite string)
	// SetCamera positions the view at a world-space center with a zoom
	// factor.
	SetCamera(center Vec2, zoom float64)
}
