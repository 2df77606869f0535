// Package animation plays the chart forward through time. A Stepper is a pure
// frame-index state machine; a Player drives it from a ticker and stops on
// context cancellation.
package animation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Ross-123/US-Economic-Dashboard/internal/chart"
	"github.com/Ross-123/US-Economic-Dashboard/internal/metrics"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
	"github.com/Ross-123/US-Economic-Dashboard/pkg/utils"
)

// Speed bounds and defaults.
const (
	MinSpeed              = 1
	MaxSpeed              = 10
	DefaultSpeed          = 5
	DefaultFramesPerSpeed = 50
	DefaultBaseDelay      = 500 * time.Millisecond
)

// CompletedMessage is shown once the final frame has been delivered.
const CompletedMessage = "Animation complete!"

// ErrInvalidSpeed is returned for a speed outside [MinSpeed, MaxSpeed].
var ErrInvalidSpeed = errors.New("animation speed must be between 1 and 10")

// State is the lifecycle state of an animation.
type State int

const (
	Idle State = iota
	Running
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for st := Idle; st <= Cancelled; st++ {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown animation state %q", b)
}

// Frame is one step of the animation.
type Frame struct {
	Index    int              `json:"index"`
	Date     string           `json:"date,omitempty"` // cutoff; empty on the final frame
	Progress int              `json:"progress"`
	Final    bool             `json:"final"`
	Chart    *chart.Spec      `json:"chart"`
	Metrics  metrics.Snapshot `json:"metrics"`
}

// ValidateSpeed checks that speed lies in [MinSpeed, MaxSpeed].
func ValidateSpeed(speed int) error {
	if speed < MinSpeed || speed > MaxSpeed {
		return fmt.Errorf("%w: got %d", ErrInvalidSpeed, speed)
	}
	return nil
}

// Frames returns the quarter-start dates from the first to the last
// observation date inclusive.
func Frames(tbl *timeseries.Table) []time.Time {
	first, ok := tbl.FirstDate()
	if !ok {
		return nil
	}
	last, _ := tbl.LastDate()
	return utils.QuarterStarts(first, last)
}

// Stride returns how many frame dates to advance per step so that a run shows
// at most about perSpeed*speed frames. It is never below 1.
func Stride(frames, speed, perSpeed int) int {
	if speed < 1 {
		speed = 1
	}
	if perSpeed < 1 {
		perSpeed = DefaultFramesPerSpeed
	}
	return max(1, frames/(perSpeed*speed))
}

// Delay returns the pause between frames at the given speed.
func Delay(base time.Duration, speed int) time.Duration {
	if speed < 1 {
		speed = 1
	}
	return base / time.Duration(speed)
}

// InitialCutoff is the cutoff of the chart shown before playback starts:
// five years of 365 days after the first observation.
func InitialCutoff(tbl *timeseries.Table) (time.Time, bool) {
	first, ok := tbl.FirstDate()
	if !ok {
		return time.Time{}, false
	}
	return first.AddDate(0, 0, 5*365), true
}

// Stepper yields animation frames one at a time. It holds no timers.
// A Stepper is not safe for concurrent use.
type Stepper struct {
	tbl    *timeseries.Table
	frames []time.Time
	stride int

	state State
	pos   int // index into frames of the next cutoff
	step  int // frames emitted so far
	last  int // progress of the most recent frame
}

// NewStepper prepares an animation over tbl at the given speed. perSpeed is
// the stride divisor (DefaultFramesPerSpeed when zero).
func NewStepper(tbl *timeseries.Table, speed, perSpeed int) (*Stepper, error) {
	if err := ValidateSpeed(speed); err != nil {
		return nil, err
	}
	frames := Frames(tbl)
	return &Stepper{
		tbl:    tbl,
		frames: frames,
		stride: Stride(len(frames), speed, perSpeed),
	}, nil
}

// State returns the current lifecycle state.
func (s *Stepper) State() State { return s.state }

// Progress returns the progress percentage of the most recent frame.
func (s *Stepper) Progress() int { return s.last }

// Stride returns the frame-date stride in use.
func (s *Stepper) Stride() int { return s.stride }

// Len returns the total number of frames, including the final one.
func (s *Stepper) Len() int {
	return (len(s.frames)+s.stride-1)/s.stride + 1
}

// Next returns the next frame. ok is false once the animation has completed
// or was cancelled. The first call moves Idle to Running; the final,
// untruncated frame moves Running to Completed.
func (s *Stepper) Next() (frame Frame, ok bool) {
	switch s.state {
	case Completed, Cancelled:
		return Frame{}, false
	case Idle:
		s.state = Running
	}

	if s.pos < len(s.frames) {
		date := s.frames[s.pos]
		frame = Frame{
			Index:    s.step,
			Date:     utils.FormatDate(date),
			Progress: s.progressAt(s.pos),
			Chart:    chart.Render(s.tbl, &date),
			Metrics:  metrics.AsOf(s.tbl, date),
		}
		s.pos += s.stride
	} else {
		frame = Frame{
			Index:    s.step,
			Progress: 100,
			Final:    true,
			Chart:    chart.Render(s.tbl, nil),
			Metrics:  metrics.Latest(s.tbl),
		}
		s.state = Completed
	}

	s.step++
	s.last = frame.Progress
	return frame, true
}

// Cancel stops the animation. It has no effect once completed.
func (s *Stepper) Cancel() {
	if s.state != Completed {
		s.state = Cancelled
	}
}

// progressAt is min(100, trunc(pos/n*100)) where pos = i*stride.
func (s *Stepper) progressAt(pos int) int {
	n := len(s.frames)
	if n == 0 {
		return 0
	}
	p := int(math.Floor(float64(pos) / float64(n) * 100))
	return min(100, p)
}
