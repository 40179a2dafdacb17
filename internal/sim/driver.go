package sim

// Frame is one emitted animation frame: the render snapshot plus the
// events of the step that produced it. The initial and end-pause frames
// carry zero events because no step ran.
type Frame struct {
	Snapshot Snapshot
	Events   Events
}

// Driver phases, in the order they run.
const (
	phaseInitial = iota // Emit the pre-step frame
	phaseDrive          // Pull targets and step until each is consumed
	phaseForce          // Policy done, bricks remain: bounded free running
	phasePause          // Trailing still frames
	phaseDone
)

// Driver couples a control policy to the simulation and produces the
// frame sequence one call at a time. The loop is two-phase with no hidden
// suspended execution: pull the next target, then drive the simulation
// until the paddle settles on it. Watchdogs bound every open end: a
// per-target stuck counter abandons targets the paddle never settles on,
// a global frame ceiling is enforced at pull boundaries, and a force
// countdown limits free running after the policy is exhausted. None of
// those conditions is an error; an incomplete board is a valid outcome.
//
// Advance is resumable, so the GIF pipeline and the live terminal player
// consume the same driver.
type Driver struct {
	state  *State
	policy Policy

	phase     int
	hasTarget bool
	stuck     int // Frames spent on the current target
	force     int // Remaining force-completion frames
	pause     int // Remaining end-pause frames
}

// NewDriver creates a driver over the given simulation and policy.
// Watchdog limits and the end-pause length come from the simulation's
// configuration.
func NewDriver(s *State, p Policy) *Driver {
	return &Driver{
		state:  s,
		policy: p,
		force:  s.cfg.Watchdogs.ForceFrames,
		pause:  s.cfg.Animation.EndPauseFrames,
	}
}

// Advance produces the next frame, or ok=false when the sequence has
// ended. Even an instantly-complete empty grid emits the initial frame
// plus the configured end pause, so output is always well-formed.
func (d *Driver) Advance() (Frame, bool) {
	for {
		switch d.phase {
		case phaseInitial:
			d.phase = phaseDrive
			return Frame{Snapshot: d.state.Snapshot()}, true

		case phaseDrive:
			if !d.hasTarget {
				if d.state.FrameCount() >= d.state.cfg.Watchdogs.MaxFrames {
					d.phase = phaseForce
					continue
				}
				target, ok := d.policy.Next(d.state)
				if !ok {
					d.phase = phaseForce
					continue
				}
				d.state.SetPaddleTarget(target)
				d.hasTarget = true
				d.stuck = 0
			}

			// Step at least once per pulled target: a target that leaves
			// the paddle already settled must still consume a frame or
			// the global watchdog could never fire.
			ev := d.state.Step()
			d.stuck++
			if d.state.PaddleReady() || d.stuck >= d.state.cfg.Watchdogs.StuckFrames {
				d.hasTarget = false
			}
			return Frame{Snapshot: d.state.Snapshot(), Events: ev}, true

		case phaseForce:
			if d.force <= 0 || d.state.IsComplete() {
				d.phase = phasePause
				continue
			}
			d.force--
			ev := d.state.Step()
			return Frame{Snapshot: d.state.Snapshot(), Events: ev}, true

		case phasePause:
			if d.pause <= 0 {
				d.phase = phaseDone
				continue
			}
			d.pause--
			return Frame{Snapshot: d.state.Snapshot()}, true

		default:
			return Frame{}, false
		}
	}
}

// Run drains the driver, invoking fn for every frame. It stops early and
// returns fn's error if one occurs.
func (d *Driver) Run(fn func(Frame) error) error {
	for {
		frame, ok := d.Advance()
		if !ok {
			return nil
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
}

// State returns the driven simulation, for status displays.
func (d *Driver) State() *State {
	return d.state
}
