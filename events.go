package aspen

// EventWarning is emitted on a World's event channel when the core logs a
// non-fatal problem (unknown scene type, failed lookup, coroutine fault).
// The payload is the warning message string.
const EventWarning = "warning"

// EventHandler receives the payload passed to Emit.
type EventHandler func(payload any)

// Subscription identifies one registered handler so it can be removed.
// Returned by On and Once; pass it to Off.
type Subscription struct {
	event   string
	handler EventHandler
	once    bool
	removed bool
}

// EventChannel is a minimal string-keyed publish/subscribe primitive. One
// channel hangs off every World (global events) and every Entity (per-entity
// events).
//
// Handlers run synchronously, in subscribe order, on the emitting goroutine.
// Subscribing or unsubscribing from inside a handler is safe; a handler
// removed during an emit is not called for that emit.
type EventChannel struct {
	subs map[string][]*Subscription
}

// NewEventChannel returns an empty channel.
func NewEventChannel() *EventChannel {
	return &EventChannel{}
}

// On registers handler for the named event and returns its subscription.
func (ch *EventChannel) On(event string, handler EventHandler) *Subscription {
	sub := &Subscription{event: event, handler: handler}
	if ch.subs == nil {
		ch.subs = make(map[string][]*Subscription)
	}
	ch.subs[event] = append(ch.subs[event], sub)
	return sub
}

// Once registers handler for a single delivery. The subscription is removed
// automatically after the first matching Emit.
func (ch *EventChannel) Once(event string, handler EventHandler) *Subscription {
	sub := ch.On(event, handler)
	sub.once = true
	return sub
}

// Off removes a subscription. Removing an already-removed or nil subscription
// is a no-op.
func (ch *EventChannel) Off(sub *Subscription) {
	if sub == nil || sub.removed {
		return
	}
	sub.removed = true
	list := ch.subs[sub.event]
	for i, s := range list {
		if s == sub {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			ch.subs[sub.event] = list[:len(list)-1]
			return
		}
	}
}

// Emit calls every handler registered for event, in subscribe order, with
// payload. Handlers registered during the emit do not receive this emit.
func (ch *EventChannel) Emit(event string, payload any) {
	list := ch.subs[event]
	if len(list) == 0 {
		return
	}
	// Snapshot so handlers can subscribe/unsubscribe without corrupting
	// the iteration.
	snapshot := make([]*Subscription, len(list))
	copy(snapshot, list)
	for _, sub := range snapshot {
		if sub.removed {
			continue
		}
		if sub.once {
			ch.Off(sub)
		}
		sub.handler(payload)
	}
}

// Clear removes every subscription on the channel.
func (ch *EventChannel) Clear() {
	for _, list := range ch.subs {
		for _, sub := range list {
			sub.removed = true
		}
	}
	ch.subs = nil
}

// Len returns the number of live subscriptions for event.
func (ch *EventChannel) Len(event string) int {
	return len(ch.subs[event])
}
