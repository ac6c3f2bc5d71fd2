package aspen

const (
	// defaultFixedDelta is the fixed simulation timestep (50 Hz).
	defaultFixedDelta = 1.0 / 50.0

	// defaultMaxDelta caps the raw frame delta so a stall (debugger pause,
	// window drag, suspend) does not trigger runaway fixed-step catch-up.
	defaultMaxDelta = 0.25

	// fpsSmoothing is the exponential moving average factor for the fps
	// estimate. Smaller values smooth more.
	fpsSmoothing = 0.1
)

// Clock tracks frame timing for one World: wall time, scaled time, the fixed
// simulation timestep, the frame counter, and a smoothed frames-per-second
// estimate.
//
// Each World owns its own Clock; there is no global clock, so tests can run
// isolated worlds with fully controlled time.
type Clock struct {
	// Delta is the scaled delta time of the current frame in seconds.
	Delta float64
	// UnscaledDelta is the clamped raw delta of the current frame.
	UnscaledDelta float64
	// Time is the cumulative scaled time since the clock was created.
	Time float64
	// UnscaledTime is the cumulative clamped raw time.
	UnscaledTime float64
	// FixedDelta is the fixed-step timestep consumed by each fixed pass.
	FixedDelta float64
	// TimeScale multiplies raw delta into Delta. 1 is real time, 0 pauses
	// scaled time, 0.5 is half speed.
	TimeScale float64
	// MaxDelta is the clamp applied to the raw delta each tick.
	MaxDelta float64
	// FrameCount is the number of ticks processed so far.
	FrameCount uint64

	fps float64
}

// NewClock returns a clock with a 50 Hz fixed timestep, a 0.25 s delta clamp,
// and TimeScale 1.
func NewClock() *Clock {
	return &Clock{
		FixedDelta: defaultFixedDelta,
		TimeScale:  1,
		MaxDelta:   defaultMaxDelta,
	}
}

// Tick advances the clock by one frame. rawDelta is the wall-clock time in
// seconds since the previous tick; it is clamped to [0, MaxDelta] before
// scaling.
func (c *Clock) Tick(rawDelta float64) {
	if rawDelta < 0 {
		rawDelta = 0
	}
	if rawDelta > c.MaxDelta {
		rawDelta = c.MaxDelta
	}
	c.UnscaledDelta = rawDelta
	c.Delta = rawDelta * c.TimeScale
	c.UnscaledTime += c.UnscaledDelta
	c.Time += c.Delta
	c.FrameCount++

	if rawDelta > 0 {
		instant := 1 / rawDelta
		if c.fps == 0 {
			c.fps = instant
		} else {
			c.fps += (instant - c.fps) * fpsSmoothing
		}
	}
}

// FPS returns the exponentially smoothed frames-per-second estimate.
// Returns 0 before the first nonzero tick.
func (c *Clock) FPS() float64 {
	return c.fps
}
