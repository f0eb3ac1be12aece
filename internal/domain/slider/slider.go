// Package slider models the pointer-driven assessment slider: a bounded
// integer control whose value snaps to the rungs of a self-assessment
// scale. The change callback is debounced by gesture, firing once on
// release rather than on every drag sample.
package slider

import "math"

type State int

const (
	StateIdle State = iota
	StateActive
	StateSliding
)

// SnapRung maps a normalized pointer offset onto the nearest rung index:
// clamp to [0,1], scale by rungs-1, round.
func SnapRung(p float64, rungs int) int {
	if rungs <= 1 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return int(math.Round(p * float64(rungs-1)))
}

// Slider runs the idle -> active -> sliding -> idle gesture cycle.
type Slider struct {
	state      State
	rungs      int
	value      int
	startValue int
	onChange   func(prev, next int)
}

func New(rungs, initial int, onChange func(prev, next int)) *Slider {
	if rungs < 1 {
		rungs = 1
	}
	if initial < 0 {
		initial = 0
	}
	if initial > rungs-1 {
		initial = rungs - 1
	}
	return &Slider{state: StateIdle, rungs: rungs, value: initial, onChange: onChange}
}

func (s *Slider) State() State { return s.state }
func (s *Slider) Value() int   { return s.value }

// Press starts a gesture at normalized offset p, capturing the pre-gesture
// value the release comparison runs against. Ignored unless idle.
func (s *Slider) Press(p float64) {
	if s.state != StateIdle {
		return
	}
	s.startValue = s.value
	s.value = SnapRung(p, s.rungs)
	s.state = StateActive
}

// Drag updates the value continuously from the pointer position. No change
// event fires here.
func (s *Slider) Drag(p float64) {
	if s.state != StateActive && s.state != StateSliding {
		return
	}
	s.state = StateSliding
	s.value = SnapRung(p, s.rungs)
}

// Release ends the gesture and fires the change callback once, only when
// the value moved from the press-time capture.
func (s *Slider) Release() {
	if s.state == StateIdle {
		return
	}
	s.state = StateIdle
	if s.value != s.startValue && s.onChange != nil {
		s.onChange(s.startValue, s.value)
	}
}
