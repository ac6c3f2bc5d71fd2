package aspen

// Behavior is a user-authored logic unit attached to an Entity. Behaviors
// share the [Component] lifecycle and additionally own a private coroutine
// scheduler, advanced immediately before the behavior's Update each frame.
//
// Implementations embed [BehaviorBase]:
//
//	type Spinner struct {
//		aspen.BehaviorBase
//		Speed float64
//	}
//
//	func (s *Spinner) Update(dt float64) {
//		s.Entity().Transform.Rotate(s.Speed * dt)
//	}
type Behavior interface {
	Component

	// Coroutines returns the behavior's private coroutine scheduler.
	Coroutines() *CoroutineScheduler

	dispose()
}

// channelSub pairs a subscription with the channel it lives on so behaviors
// can drop their listeners on destroy.
type channelSub struct {
	ch  *EventChannel
	sub *Subscription
}

// BehaviorBase is the embeddable no-op implementation of [Behavior]. It
// carries the coroutine scheduler and tracks event subscriptions made through
// Listen so both are released when the owning entity is destroyed.
type BehaviorBase struct {
	ComponentBase
	routines *CoroutineScheduler
	subs     []channelSub
}

// Coroutines returns the behavior's private scheduler, creating it on first
// use.
func (b *BehaviorBase) Coroutines() *CoroutineScheduler {
	if b.routines == nil {
		b.routines = NewCoroutineScheduler()
	}
	return b.routines
}

// StartCoroutine starts r on the behavior's scheduler. Code before the first
// suspension point runs synchronously; the rest is advanced once per frame,
// just before this behavior's Update.
func (b *BehaviorBase) StartCoroutine(r Routine) *Coroutine {
	return b.Coroutines().Start(r)
}

// StopCoroutine cancels a coroutine started by this behavior. Nil is a no-op.
func (b *BehaviorBase) StopCoroutine(co *Coroutine) {
	if b.routines == nil {
		return
	}
	b.routines.Stop(co)
}

// StopAllCoroutines cancels every coroutine on the behavior's scheduler.
// Invoked automatically when the owning entity is destroyed.
func (b *BehaviorBase) StopAllCoroutines() {
	if b.routines == nil {
		return
	}
	b.routines.StopAll()
}

// Listen subscribes to ch and tracks the subscription for automatic removal
// when the owning entity is destroyed.
func (b *BehaviorBase) Listen(ch *EventChannel, event string, handler EventHandler) *Subscription {
	sub := ch.On(event, handler)
	b.subs = append(b.subs, channelSub{ch: ch, sub: sub})
	return sub
}

// DestroyAfter starts a coroutine that waits the given scaled seconds and
// then requests destruction of target through the owning world. A nil target
// destroys the behavior's own entity.
func (b *BehaviorBase) DestroyAfter(seconds float64, target *Entity) *Coroutine {
	return b.StartCoroutine(func(yield func(WaitCondition) bool) {
		if !yield(WaitSeconds(seconds)) {
			return
		}
		e := target
		if e == nil {
			e = b.entity
		}
		if e == nil {
			return
		}
		if e.world != nil {
			e.world.Destroy(e)
		} else {
			e.dispose()
		}
	})
}

// dispose cancels coroutines and removes tracked event subscriptions. Called
// by Entity disposal after OnDestroy.
func (b *BehaviorBase) dispose() {
	b.StopAllCoroutines()
	for _, cs := range b.subs {
		cs.ch.Off(cs.sub)
	}
	b.subs = nil
}
