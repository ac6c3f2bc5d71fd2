package aspen

import (
	"fmt"
	"iter"
	"os"
)

// Routine is the body of a coroutine: a resumable computation that suspends
// by yielding a WaitCondition. Code before the first yield runs synchronously
// when the coroutine is started; each subsequent segment runs when the
// scheduler resumes the coroutine.
//
// yield returns false when the coroutine has been cancelled; the body should
// return promptly and run only cleanup:
//
//	func(yield func(aspen.WaitCondition) bool) {
//		if !yield(aspen.WaitSeconds(1)) {
//			return
//		}
//		// one second of scaled time has passed
//	}
type Routine = iter.Seq[WaitCondition]

// WaitCondition is a suspension condition yielded by a Routine: one of
// [WaitFrames], [WaitSeconds], [WaitUntil], or [WaitFor].
type WaitCondition interface {
	isWaitCondition()
}

type waitFrames struct{ remaining int }

type waitSeconds struct{ remaining float64 }

type waitUntil struct{ pred func() bool }

type waitRoutine struct {
	routine Routine
	child   *Coroutine // registered by the scheduler on yield
}

func (*waitFrames) isWaitCondition()  {}
func (*waitSeconds) isWaitCondition() {}
func (*waitUntil) isWaitCondition()   {}
func (*waitRoutine) isWaitCondition() {}

// WaitFrames suspends the coroutine for n scheduler ticks. WaitFrames(1)
// resumes on the next tick.
func WaitFrames(n int) WaitCondition {
	return &waitFrames{remaining: n}
}

// WaitSeconds suspends the coroutine until the given amount of scaled time
// has elapsed. The wait consumes the scheduler's scaled delta each tick and
// resumes only once the remainder has been fully consumed.
func WaitSeconds(s float64) WaitCondition {
	return &waitSeconds{remaining: s}
}

// WaitUntil suspends the coroutine until pred returns true. The predicate is
// polled once per tick.
func WaitUntil(pred func() bool) WaitCondition {
	return &waitUntil{pred: pred}
}

// WaitFor suspends the coroutine on a nested sub-coroutine. The child is
// registered with the same scheduler and advanced once immediately; the
// parent resumes once the child completes or is cancelled.
func WaitFor(sub Routine) WaitCondition {
	return &waitRoutine{routine: sub}
}

// Coroutine is a handle to a running coroutine. Handles are returned by
// [CoroutineScheduler.Start] and [BehaviorBase.StartCoroutine].
type Coroutine struct {
	id        uint64
	next      func() (WaitCondition, bool)
	stop      func()
	wait      WaitCondition
	cancelled bool
	done      bool
	faulted   bool
	released  bool
}

// ID returns the coroutine's scheduler-unique id. Ids increase monotonically
// in start order.
func (co *Coroutine) ID() uint64 {
	return co.id
}

// Running reports whether the coroutine has neither completed, faulted, nor
// been cancelled.
func (co *Coroutine) Running() bool {
	return !co.done && !co.cancelled
}

// Cancel flags the coroutine as cancelled. The scheduler guarantees it is
// never advanced again and drops it from the active set on the next update
// pass; the body is not unwound synchronously.
func (co *Coroutine) Cancel() {
	if co.done {
		return
	}
	co.cancelled = true
}

// release terminates the underlying iterator. After a fault the iterator is
// already dead and must not be touched again.
func (co *Coroutine) release() {
	if co.released {
		return
	}
	co.released = true
	co.done = true
	if !co.faulted {
		co.stop()
	}
}

// CoroutineScheduler drives a set of coroutines, advancing each at most once
// per Update call. Every Behavior owns a private scheduler advanced just
// before its Update hook; the World owns one more for world-level routines,
// advanced after the late-update pass.
//
// Coroutines are cooperative, not concurrent: between suspension points a
// body runs to completion atomically with respect to all other coroutines
// and lifecycle hooks.
type CoroutineScheduler struct {
	active []*Coroutine
	nextID uint64

	// Warnf receives coroutine fault reports. Defaults to stderr.
	Warnf func(format string, args ...any)
}

// NewCoroutineScheduler returns an empty scheduler.
func NewCoroutineScheduler() *CoroutineScheduler {
	return &CoroutineScheduler{}
}

// Start registers a coroutine and advances it once synchronously, so code
// before the first suspension point runs in the same tick. The coroutine is
// then advanced at most once per Update, in start order, beginning with the
// next tick.
func (s *CoroutineScheduler) Start(r Routine) *Coroutine {
	s.nextID++
	co := &Coroutine{id: s.nextID}
	co.next, co.stop = iter.Pull(r)
	s.active = append(s.active, co)
	s.advance(co)
	if co.done {
		// Completed (or faulted) during the synchronous first advance;
		// it must not linger in the active set until the next Update.
		s.remove(co)
	}
	return co
}

// remove drops co from the active set with the copy+nil idiom.
func (s *CoroutineScheduler) remove(co *Coroutine) {
	for i, c := range s.active {
		if c == co {
			copy(s.active[i:], s.active[i+1:])
			s.active[len(s.active)-1] = nil
			s.active = s.active[:len(s.active)-1]
			return
		}
	}
}

// Stop cancels a coroutine. Equivalent to co.Cancel(); nil is a no-op.
func (s *CoroutineScheduler) Stop(co *Coroutine) {
	if co == nil {
		return
	}
	co.Cancel()
}

// StopAll cancels every active coroutine and drops them immediately.
func (s *CoroutineScheduler) StopAll() {
	for _, co := range s.active {
		co.Cancel()
		co.release()
	}
	s.active = s.active[:0]
}

// Len returns the number of coroutines in the active set.
func (s *CoroutineScheduler) Len() int {
	return len(s.active)
}

// Update advances the scheduler by one tick. dt is scaled delta time in
// seconds. Coroutines are processed in start order; a coroutine started
// during this call receives its synchronous first advance from Start but no
// second advance until the next tick.
func (s *CoroutineScheduler) Update(dt float64) {
	snapshot := s.active
	n := len(snapshot)
	for i := 0; i < n; i++ {
		co := snapshot[i]
		if co.done {
			continue
		}
		if co.cancelled {
			co.release()
			continue
		}
		switch w := co.wait.(type) {
		case *waitFrames:
			w.remaining--
			if w.remaining > 0 {
				continue
			}
		case *waitSeconds:
			w.remaining -= dt
			if w.remaining > 0 {
				continue
			}
		case *waitUntil:
			if !w.pred() {
				continue
			}
		case *waitRoutine:
			if w.child != nil && w.child.Running() {
				continue
			}
		}
		co.wait = nil
		s.advance(co)
	}

	// Compact the active set, dropping completed, faulted, and cancelled
	// coroutines.
	kept := s.active[:0]
	for _, co := range s.active {
		if co.cancelled && !co.done {
			co.release()
		}
		if co.done {
			continue
		}
		kept = append(kept, co)
	}
	for i := len(kept); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = kept
}

// advance resumes a coroutine's body until it yields a new condition,
// finishes, or faults. Faults are contained here: the offending coroutine is
// dropped and reported, siblings and the frame continue.
func (s *CoroutineScheduler) advance(co *Coroutine) {
	cond, ok, err := stepCoroutine(co)
	if err != nil {
		co.faulted = true
		co.release()
		s.warnf("coroutine %d fault: %v", co.id, err)
		return
	}
	if !ok {
		co.release()
		return
	}
	if wr, nested := cond.(*waitRoutine); nested {
		wr.child = s.Start(wr.routine)
	}
	co.wait = cond
}

// stepCoroutine performs one resume with panic containment.
func stepCoroutine(co *Coroutine) (cond WaitCondition, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	cond, ok = co.next()
	return
}

func (s *CoroutineScheduler) warnf(format string, args ...any) {
	if s.Warnf != nil {
		s.Warnf(format, args...)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[aspen] "+format+"\n", args...)
}
