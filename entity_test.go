package aspen

import "testing"

// hookRecorder counts lifecycle hook invocations and appends labeled entries
// to a shared log, letting tests assert both counts and global ordering.
type hookRecorder struct {
	ComponentBase
	label string
	log   *[]string

	awakes, starts, updates, fixed, lates, destroys int
}

func (r *hookRecorder) record(hook string) {
	if r.log != nil {
		*r.log = append(*r.log, r.label+":"+hook)
	}
}

func (r *hookRecorder) Awake()                { r.awakes++; r.record("awake") }
func (r *hookRecorder) Start()                { r.starts++; r.record("start") }
func (r *hookRecorder) Update(dt float64)     { r.updates++; r.record("update") }
func (r *hookRecorder) FixedUpdate(dt float64) { r.fixed++; r.record("fixed") }
func (r *hookRecorder) LateUpdate(dt float64) { r.lates++; r.record("late") }
func (r *hookRecorder) OnDestroy()            { r.destroys++; r.record("destroy") }

// behaviorRecorder is the Behavior flavor of hookRecorder.
type behaviorRecorder struct {
	BehaviorBase
	label string
	log   *[]string

	awakes, starts, updates, destroys int
}

func (r *behaviorRecorder) record(hook string) {
	if r.log != nil {
		*r.log = append(*r.log, r.label+":"+hook)
	}
}

func (r *behaviorRecorder) Awake()            { r.awakes++; r.record("awake") }
func (r *behaviorRecorder) Start()            { r.starts++; r.record("start") }
func (r *behaviorRecorder) Update(dt float64) { r.updates++; r.record("update") }
func (r *behaviorRecorder) OnDestroy()        { r.destroys++; r.record("destroy") }

func TestEntityIDsAreUnique(t *testing.T) {
	a := NewEntity("a")
	b := NewEntity("b")
	if a.ID() == b.ID() {
		t.Fatalf("ids collide: %d", a.ID())
	}
	if a.ID() == 0 {
		t.Fatal("id must be nonzero")
	}
}

func TestAwakeIdempotent(t *testing.T) {
	parent := NewEntity("parent")
	child := NewEntity("child")
	child.SetParent(parent)

	pc := &hookRecorder{}
	cc := &hookRecorder{}
	parent.AddComponent(pc)
	child.AddComponent(cc)

	parent.awake()
	parent.awake()

	if pc.awakes != 1 {
		t.Errorf("parent component awakes = %d, want 1", pc.awakes)
	}
	if cc.awakes != 1 {
		t.Errorf("child component awakes = %d, want 1", cc.awakes)
	}
}

func TestAwakeOrderComponentsBehaviorsChildren(t *testing.T) {
	var log []string
	parent := NewEntity("parent")
	child := NewEntity("child")
	child.SetParent(parent)

	parent.AddComponent(&hookRecorder{label: "pc", log: &log})
	parent.AddBehavior(&behaviorRecorder{label: "pb", log: &log})
	child.AddComponent(&hookRecorder{label: "cc", log: &log})

	parent.awake()

	want := []string{"pc:awake", "pb:awake", "cc:awake"}
	assertLog(t, log, want)
}

// assertLog compares a recorded hook sequence to the expected one.
func assertLog(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("log = %v, want %v", got, want)
		}
	}
}

func TestAwakeIsDepthFirstPerNode(t *testing.T) {
	// Sibling roots under one parent: the first child's entire subtree
	// awakes before the second child's components.
	var log []string
	parent := NewEntity("parent")
	a := NewEntity("a")
	aKid := NewEntity("aKid")
	b := NewEntity("b")
	a.SetParent(parent)
	aKid.SetParent(a)
	b.SetParent(parent)

	a.AddComponent(&hookRecorder{label: "a", log: &log})
	aKid.AddComponent(&hookRecorder{label: "aKid", log: &log})
	b.AddComponent(&hookRecorder{label: "b", log: &log})

	parent.awake()

	assertLog(t, log, []string{"a:awake", "aKid:awake", "b:awake"})
}

func TestAddComponentAfterStartRunsHooksImmediately(t *testing.T) {
	e := NewEntity("e")
	early := &hookRecorder{}
	e.AddComponent(early)
	e.awake()
	e.start()

	late := &hookRecorder{}
	e.AddComponent(late)

	if late.awakes != 1 || late.starts != 1 {
		t.Errorf("late member hooks = awake %d / start %d, want 1/1", late.awakes, late.starts)
	}
	if early.awakes != 1 || early.starts != 1 {
		t.Errorf("existing member re-ran: awake %d / start %d, want 1/1", early.awakes, early.starts)
	}
}

func TestAddComponentBeforeAwakeDefersHooks(t *testing.T) {
	e := NewEntity("e")
	c := &hookRecorder{}
	e.AddComponent(c)
	if c.awakes != 0 || c.starts != 0 {
		t.Fatal("hooks must not run before the entity awakes")
	}
}

type speedComponent struct {
	ComponentBase
	speed float64
}

type jumpBehavior struct {
	BehaviorBase
	height float64
}

func TestGetComponentByType(t *testing.T) {
	e := NewEntity("e")
	e.AddComponent(&hookRecorder{})
	want := &speedComponent{speed: 7}
	e.AddComponent(want)

	got, ok := GetComponent[*speedComponent](e)
	if !ok {
		t.Fatal("component not found")
	}
	if got != want {
		t.Fatal("wrong component returned")
	}

	if _, ok := GetComponent[*jumpComponentMissing](e); ok {
		t.Fatal("found a component that was never added")
	}
}

type jumpComponentMissing struct{ ComponentBase }

func TestGetBehaviorByType(t *testing.T) {
	e := NewEntity("e")
	want := &jumpBehavior{height: 2}
	e.AddBehavior(want)

	got, ok := GetBehavior[*jumpBehavior](e)
	if !ok || got != want {
		t.Fatal("behavior lookup failed")
	}
}

func TestGetComponentReturnsFirstMatch(t *testing.T) {
	e := NewEntity("e")
	first := &speedComponent{speed: 1}
	second := &speedComponent{speed: 2}
	e.AddComponent(first)
	e.AddComponent(second)

	got, _ := GetComponent[*speedComponent](e)
	if got != first {
		t.Fatal("lookup must return the first matching member")
	}
}

func TestDisabledEntitySkipsSubtree(t *testing.T) {
	parent := NewEntity("parent")
	child := NewEntity("child")
	child.SetParent(parent)

	pc := &hookRecorder{}
	cc := &hookRecorder{}
	parent.AddComponent(pc)
	child.AddComponent(cc)

	parent.Enabled = false
	parent.update(0.016)
	parent.fixedUpdate(0.02)
	parent.lateUpdate(0.016)

	if pc.updates+pc.fixed+pc.lates != 0 {
		t.Error("disabled entity's components received update passes")
	}
	if cc.updates+cc.fixed+cc.lates != 0 {
		t.Error("descendant of disabled entity received update passes")
	}
}

func TestDisabledComponentSkipped(t *testing.T) {
	e := NewEntity("e")
	c := &hookRecorder{}
	e.AddComponent(c)
	c.SetEnabled(false)
	e.update(0.016)
	if c.updates != 0 {
		t.Error("disabled component received Update")
	}
	c.SetEnabled(true)
	e.update(0.016)
	if c.updates != 1 {
		t.Error("re-enabled component did not receive Update")
	}
}

func TestUpdateOrderAndCoroutineAdvance(t *testing.T) {
	var log []string
	e := NewEntity("e")
	e.AddComponent(&hookRecorder{label: "c", log: &log})

	b := &behaviorRecorder{label: "b", log: &log}
	e.AddBehavior(b)
	b.StartCoroutine(func(yield func(WaitCondition) bool) {
		if !yield(WaitFrames(1)) {
			return
		}
		log = append(log, "b:coroutine")
	})

	e.update(0.016)

	// Component first, then the behavior's coroutine advance, then its
	// Update hook.
	assertLog(t, log, []string{"c:update", "b:coroutine", "b:update"})
}

func TestSetParentSameParentNoOp(t *testing.T) {
	parent := NewEntity("parent")
	child := NewEntity("child")
	child.SetParent(parent)
	child.SetParent(parent)
	if len(parent.Children()) != 1 {
		t.Fatalf("children = %d, want 1", len(parent.Children()))
	}
}

func TestSetParentCyclePanics(t *testing.T) {
	parent := NewEntity("parent")
	child := NewEntity("child")
	child.SetParent(parent)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on cycle")
		}
	}()
	parent.SetParent(child)
}

func TestReparentPreservesLocalPosition(t *testing.T) {
	a := NewEntity("a")
	b := NewEntity("b")
	c := NewEntity("c")
	a.Transform.X = 100
	b.Transform.X = 0
	c.Transform.X = 5

	c.SetParent(a)
	pos := c.Transform.WorldPosition()
	assertNear(t, "world X under a", pos.X, 105)

	c.SetParent(b)
	pos = c.Transform.WorldPosition()
	assertNear(t, "world X under b", pos.X, 5)
	assertNear(t, "local X unchanged", c.Transform.X, 5)
}

func TestDestroyDetachedOrderLeavesFirst(t *testing.T) {
	var log []string
	root := NewEntity("root")
	mid := NewEntity("mid")
	leaf := NewEntity("leaf")
	mid.SetParent(root)
	leaf.SetParent(mid)

	root.AddComponent(&hookRecorder{label: "root", log: &log})
	mid.AddComponent(&hookRecorder{label: "mid", log: &log})
	leaf.AddComponent(&hookRecorder{label: "leaf", log: &log})

	root.Destroy()

	assertLog(t, log, []string{"leaf:destroy", "mid:destroy", "root:destroy"})
	if !root.IsDestroyed() || !mid.IsDestroyed() || !leaf.IsDestroyed() {
		t.Fatal("all three entities must be destroyed")
	}
}

func TestDestroyDisposesBehaviorsBeforeComponents(t *testing.T) {
	var log []string
	e := NewEntity("e")
	e.AddComponent(&hookRecorder{label: "c", log: &log})
	e.AddBehavior(&behaviorRecorder{label: "b", log: &log})

	e.Destroy()

	assertLog(t, log, []string{"b:destroy", "c:destroy"})
}

func TestDestroyCancelsCoroutinesAndSubscriptions(t *testing.T) {
	e := NewEntity("e")
	b := &behaviorRecorder{}
	e.AddBehavior(b)

	resumed := false
	b.StartCoroutine(func(yield func(WaitCondition) bool) {
		if !yield(WaitFrames(1)) {
			return
		}
		resumed = true
	})
	fired := 0
	b.Listen(e.Events, "hit", func(any) { fired++ })

	e.Destroy()

	b.Coroutines().Update(0.016)
	if resumed {
		t.Error("coroutine survived entity destruction")
	}
	e.Events.Emit("hit", nil)
	if fired != 0 {
		t.Error("event subscription survived entity destruction")
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	e := NewEntity("e")
	c := &hookRecorder{}
	e.AddComponent(c)
	e.Destroy()
	e.Destroy()
	if c.destroys != 1 {
		t.Errorf("destroys = %d, want 1", c.destroys)
	}
}

func TestAddNilComponentPanics(t *testing.T) {
	e := NewEntity("e")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil component")
		}
	}()
	e.AddComponent(nil)
}

func TestAddComponentTwicePanics(t *testing.T) {
	a := NewEntity("a")
	b := NewEntity("b")
	c := &hookRecorder{}
	a.AddComponent(c)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on re-attachment")
		}
	}()
	b.AddComponent(c)
}
