// Command aspen-stress drives a synthetic scene through the frame lifecycle
// as fast as possible and reports per-frame timing.
//
// Profiling:
//
//	aspen-stress -entities 50000 -profile cpu
//	go tool pprof -http=":8000" cpu.pprof
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/phanxgames/aspen"
	"github.com/pkg/profile"
)

// spinner rotates its entity at a fixed angular speed.
type spinner struct {
	aspen.BehaviorBase
	speed float64
}

func (s *spinner) Update(dt float64) {
	s.Entity().Transform.Rotate(s.speed * dt)
}

// wanderer retargets a random point every second and tweens toward it.
type wanderer struct {
	aspen.BehaviorBase
	rng *rand.Rand
}

func (w *wanderer) Start() {
	w.StartCoroutine(func(yield func(aspen.WaitCondition) bool) {
		for yield(aspen.WaitSeconds(1)) {
			tf := w.Entity().Transform
			tf.X = w.rng.Float64() * 1000
			tf.Y = w.rng.Float64() * 1000
		}
	})
}

// gravityBody integrates the world gravity vector in the fixed pass.
type gravityBody struct {
	aspen.ComponentBase
	vy float64
}

func (g *gravityBody) FixedUpdate(dt float64) {
	w := g.Entity().World()
	g.vy += w.Settings.Gravity.Y * dt
	g.Entity().Transform.Y += g.vy * dt
}

func main() {
	entityCount := flag.Int("entities", 10000, "number of entities to create")
	depth := flag.Int("depth", 3, "hierarchy depth of the synthetic scene")
	frames := flag.Int("frames", 0, "number of frames to run (0 means use -duration)")
	duration := flag.Duration("duration", 10*time.Second, "how long to run when -frames is 0")
	profMode := flag.String("profile", "", "write a profile: cpu, mem or trace")
	flag.Parse()

	switch *profMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(".")).Stop()
	case "trace":
		defer profile.Start(profile.TraceProfile, profile.ProfilePath(".")).Stop()
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *profMode)
		os.Exit(2)
	}

	log.Printf("building scene: %d entities, depth %d", *entityCount, *depth)
	w := buildScene(*entityCount, *depth)

	var memStart runtime.MemStats
	runtime.ReadMemStats(&memStart)

	samples := make([]time.Duration, 0, 4096)
	start := time.Now()
	deadline := start.Add(*duration)
	frame := 0
	for {
		if *frames > 0 {
			if frame >= *frames {
				break
			}
		} else if time.Now().After(deadline) {
			break
		}
		t0 := time.Now()
		w.Step(1.0 / 60.0)
		samples = append(samples, time.Since(t0))
		frame++
	}
	elapsed := time.Since(start)

	var memEnd runtime.MemStats
	runtime.ReadMemStats(&memEnd)

	report(os.Stdout, w, frame, elapsed, samples, &memStart, &memEnd)
}

// buildScene creates count entities in chains of the given depth, root
// entities carrying the heavier members.
func buildScene(count, depth int) *aspen.World {
	rng := rand.New(rand.NewSource(1))
	w := aspen.NewWorld("stress")

	made := 0
	for made < count {
		root := aspen.NewEntity("root")
		root.Transform.X = rng.Float64() * 1000
		root.Transform.Y = rng.Float64() * 1000
		root.AddBehavior(&spinner{speed: 45 + rng.Float64()*90})
		if made%10 == 0 {
			root.AddBehavior(&wanderer{rng: rng})
		}
		root.AddComponent(&gravityBody{})
		made++

		parent := root
		for d := 1; d < depth && made < count; d++ {
			child := aspen.NewEntity("child")
			child.Transform.X = rng.Float64()*20 - 10
			child.Transform.Y = rng.Float64()*20 - 10
			child.AddBehavior(&spinner{speed: 90})
			child.SetParent(parent)
			parent = child
			made++
		}
		w.Add(root)
	}
	return w
}

func report(out *os.File, w *aspen.World, frames int, elapsed time.Duration, samples []time.Duration, memStart, memEnd *runtime.MemStats) {
	fmt.Fprintf(out, "\nentities:      %d\n", w.Len())
	fmt.Fprintf(out, "frames:        %d\n", frames)
	fmt.Fprintf(out, "total time:    %s\n", elapsed.Round(time.Millisecond))
	if frames > 0 {
		fmt.Fprintf(out, "avg frame:     %s\n", (elapsed / time.Duration(frames)).Round(time.Microsecond))
		fmt.Fprintf(out, "fps:           %.1f\n", float64(frames)/elapsed.Seconds())
	}
	if len(samples) > 0 {
		sorted := make([]time.Duration, len(samples))
		copy(sorted, samples)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		fmt.Fprintf(out, "frame p50:     %s\n", sorted[len(sorted)/2].Round(time.Microsecond))
		fmt.Fprintf(out, "frame p99:     %s\n", sorted[len(sorted)*99/100].Round(time.Microsecond))
		fmt.Fprintf(out, "frame max:     %s\n", sorted[len(sorted)-1].Round(time.Microsecond))
	}
	fmt.Fprintf(out, "heap delta:    %.1f MiB\n", (float64(memEnd.HeapAlloc)-float64(memStart.HeapAlloc))/(1<<20))
	fmt.Fprintf(out, "gc cycles:     %d\n", memEnd.NumGC-memStart.NumGC)
}
