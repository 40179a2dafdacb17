package sim

import (
	"errors"
	"testing"

	"github.com/dacebt/gh-brickbreak/internal/config"
)

// stubPolicy adapts a closure into a Policy for driver tests.
type stubPolicy struct {
	next func(s *State) (float64, bool)
}

func (p *stubPolicy) Next(s *State) (float64, bool) {
	return p.next(s)
}

// donePolicy yields nothing.
func donePolicy() *stubPolicy {
	return &stubPolicy{next: func(*State) (float64, bool) { return 0, false }}
}

// targetsPolicy yields a fixed list of targets, then ends.
func targetsPolicy(targets ...float64) *stubPolicy {
	i := 0
	return &stubPolicy{next: func(*State) (float64, bool) {
		if i >= len(targets) {
			return 0, false
		}
		t := targets[i]
		i++
		return t, true
	}}
}

func drain(t *testing.T, d *Driver) []Frame {
	t.Helper()
	var frames []Frame
	if err := d.Run(func(f Frame) error {
		frames = append(frames, f)
		return nil
	}); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	return frames
}

func TestDriverInitialFrame(t *testing.T) {
	s := mustState(t, emptyCells(5, 3), 1)
	d := NewDriver(s, donePolicy())

	frame, ok := d.Advance()
	if !ok {
		t.Fatal("Advance() ended before the initial frame")
	}
	if frame.Snapshot.Frame != 0 {
		t.Errorf("initial snapshot frame = %d, expected 0", frame.Snapshot.Frame)
	}
	if frame.Events != (Events{}) {
		t.Errorf("initial frame events = %+v, expected none", frame.Events)
	}
	if s.FrameCount() != 0 {
		t.Errorf("FrameCount() = %d after the initial frame, expected 0", s.FrameCount())
	}
}

func TestDriverEmptyGrid(t *testing.T) {
	// An instantly-complete board still emits the initial frame plus the
	// full end pause.
	cfg := config.Default()
	s, err := New(mustGrid(t, emptyCells(5, 3)), cfg, 1)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	frames := drain(t, NewDriver(s, donePolicy()))

	want := 1 + cfg.Animation.EndPauseFrames
	if len(frames) != want {
		t.Fatalf("got %d frames for an empty grid, expected %d", len(frames), want)
	}
	for i, f := range frames {
		if f.Events != (Events{}) {
			t.Errorf("frame %d has events %+v, expected none without any step", i, f.Events)
		}
		if !f.Snapshot.Complete {
			t.Errorf("frame %d not complete on an empty grid", i)
		}
	}
	if s.FrameCount() != 0 {
		t.Errorf("FrameCount() = %d, expected 0: pause frames must not step", s.FrameCount())
	}
}

func TestDriverForceCountdown(t *testing.T) {
	// Policy exhausted with a live brick: the driver free-runs for the
	// force countdown, then pauses and stops with the board incomplete.
	cfg := config.Default()
	cfg.Watchdogs.ForceFrames = 7
	cfg.Animation.EndPauseFrames = 2

	s, err := New(mustGrid(t, [][]Cell{{{Level: 4, Count: 40}}}), cfg, 1)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	frames := drain(t, NewDriver(s, donePolicy()))

	if want := 1 + 7 + 2; len(frames) != want {
		t.Fatalf("got %d frames, expected %d", len(frames), want)
	}
	if s.FrameCount() != 7 {
		t.Errorf("FrameCount() = %d, expected 7 forced steps", s.FrameCount())
	}
	last := frames[len(frames)-1].Snapshot
	if last.Complete {
		t.Error("board reported complete, expected the force countdown to give up")
	}
	if last.DestroyedBricks != 0 || last.TotalBricks != 1 {
		t.Errorf("final tally %d/%d, expected 0/1", last.DestroyedBricks, last.TotalBricks)
	}
}

func TestDriverStuckWatchdog(t *testing.T) {
	// A target the paddle cannot reach in time is abandoned after the
	// stuck limit, not waited on forever.
	cfg := config.Default()
	cfg.Watchdogs.StuckFrames = 10
	cfg.Watchdogs.ForceFrames = 0
	cfg.Animation.EndPauseFrames = 0

	s, err := New(mustGrid(t, emptyCells(5, 3)), cfg, 1)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	start := s.Paddle().X
	frames := drain(t, NewDriver(s, targetsPolicy(start+1000)))

	if want := 1 + 10; len(frames) != want {
		t.Fatalf("got %d frames, expected %d", len(frames), want)
	}
	// 10 steps at paddle speed 5 before abandonment.
	if got, want := s.Paddle().X, start+50; got != want {
		t.Errorf("paddle at %g after abandonment, expected %g", got, want)
	}
}

func TestDriverMaxFrames(t *testing.T) {
	// The global ceiling is enforced at pull boundaries: no new target
	// starts once the frame count reaches it.
	cfg := config.Default()
	cfg.Watchdogs.MaxFrames = 5
	cfg.Watchdogs.ForceFrames = 0
	cfg.Animation.EndPauseFrames = 0

	s, err := New(mustGrid(t, emptyCells(5, 3)), cfg, 1)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	// Each target sits exactly one paddle step away, so every pull
	// consumes exactly one frame.
	p := &stubPolicy{next: func(s *State) (float64, bool) {
		return s.Paddle().X + 5, true
	}}
	frames := drain(t, NewDriver(s, p))

	if want := 1 + 5; len(frames) != want {
		t.Fatalf("got %d frames, expected %d", len(frames), want)
	}
	if s.FrameCount() != 5 {
		t.Errorf("FrameCount() = %d, expected the ceiling of 5", s.FrameCount())
	}
}

func TestDriverStepsOncePerSettledTarget(t *testing.T) {
	// A target the paddle is already sitting on must still cost a frame,
	// otherwise an unbounded policy could starve the global watchdog.
	cfg := config.Default()
	cfg.Watchdogs.ForceFrames = 0
	cfg.Animation.EndPauseFrames = 0

	s, err := New(mustGrid(t, emptyCells(5, 3)), cfg, 1)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	x := s.Paddle().X
	frames := drain(t, NewDriver(s, targetsPolicy(x, x, x)))

	if want := 1 + 3; len(frames) != want {
		t.Fatalf("got %d frames for 3 settled targets, expected %d", len(frames), want)
	}
	if s.FrameCount() != 3 {
		t.Errorf("FrameCount() = %d, expected 3", s.FrameCount())
	}
}

func TestDriverFollowScenario(t *testing.T) {
	// A ball-tracking policy on a single weak brick clears the board well
	// inside the watchdog limits.
	cfg := config.Default()
	s, err := New(mustGrid(t, [][]Cell{{{Level: 1, Count: 1}}}), cfg, 1)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	p := &stubPolicy{next: func(s *State) (float64, bool) {
		if s.IsComplete() {
			return 0, false
		}
		return s.Ball().X, true
	}}
	frames := drain(t, NewDriver(s, p))

	if !s.IsComplete() {
		t.Fatalf("board incomplete after %d frames", len(frames))
	}
	if s.DestroyedCount() != 1 {
		t.Errorf("DestroyedCount() = %d, expected 1", s.DestroyedCount())
	}
	// Destruction plus the end pause, with generous slack, still far
	// below the watchdog ceiling.
	if len(frames) < 1+cfg.Animation.EndPauseFrames || len(frames) > 500 {
		t.Errorf("got %d frames, expected a short complete run", len(frames))
	}
	last := frames[len(frames)-1].Snapshot
	if !last.Complete {
		t.Error("final frame not marked complete")
	}
	if len(last.Bricks) != 0 {
		t.Errorf("final frame still shows %d bricks", len(last.Bricks))
	}
}

func TestDriverRunStopsOnError(t *testing.T) {
	s := mustState(t, emptyCells(5, 3), 1)
	d := NewDriver(s, donePolicy())

	sentinel := errors.New("sink full")
	calls := 0
	err := d.Run(func(Frame) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("Run() error = %v, expected the sink error", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times after an error, expected 1", calls)
	}
}
