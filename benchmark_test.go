package aspen

import "testing"

// buildBenchTree creates a world with roots entities, each carrying children
// leaf entities one level down, every node holding one component and one
// behavior.
func buildBenchTree(roots, children int) *World {
	w := NewWorld("bench")
	for i := 0; i < roots; i++ {
		root := NewEntity("root")
		root.Transform.X = float64(i)
		root.AddComponent(&hookRecorder{})
		root.AddBehavior(&behaviorRecorder{})
		for j := 0; j < children; j++ {
			child := NewEntity("child")
			child.Transform.X = float64(j)
			child.AddComponent(&hookRecorder{})
			child.AddBehavior(&behaviorRecorder{})
			child.SetParent(root)
		}
		w.Add(root)
	}
	return w
}

func BenchmarkWorldStep_1000(b *testing.B) {
	w := buildBenchTree(100, 9)
	// Warmup runs awake/start so the loop measures the steady state.
	for i := 0; i < 10; i++ {
		w.Step(1.0 / 60.0)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		w.Step(1.0 / 60.0)
	}
}

func BenchmarkWorldStep_10000(b *testing.B) {
	w := buildBenchTree(100, 99)
	for i := 0; i < 10; i++ {
		w.Step(1.0 / 60.0)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		w.Step(1.0 / 60.0)
	}
}

func BenchmarkWorldPositionDepth8(b *testing.B) {
	e := NewEntity("root")
	e.Transform.Rotation = 15
	leaf := e
	for i := 0; i < 7; i++ {
		child := NewEntity("child")
		child.Transform.X = 10
		child.Transform.Rotation = 5
		child.SetParent(leaf)
		leaf = child
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		leaf.Transform.WorldPosition()
	}
}

func BenchmarkCoroutineUpdate_1000(b *testing.B) {
	s := NewCoroutineScheduler()
	for i := 0; i < 1000; i++ {
		s.Start(func(yield func(WaitCondition) bool) {
			for yield(WaitFrames(1)) {
			}
		})
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		s.Update(1.0 / 60.0)
	}
}

func BenchmarkEventEmit(b *testing.B) {
	ch := NewEventChannel()
	for i := 0; i < 16; i++ {
		ch.On("tick", func(any) {})
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		ch.Emit("tick", nil)
	}
}

func BenchmarkFindByTag_1000(b *testing.B) {
	w := buildBenchTree(100, 9)
	for _, root := range w.Roots() {
		root.Children()[0].Tag = "enemy"
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		w.FindByTag("enemy")
	}
}
