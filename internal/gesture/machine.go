// Package gesture implements the drag-to-reveal interaction used by
// selectable, deletable list rows. The machine is a pure transition
// function over pointer events so it can be driven and tested without any
// rendering.
package gesture

// Geometry of the reveal interaction, in display units.
const (
	RevealWidth     = 80.0
	CommitThreshold = RevealWidth / 2
	JitterThreshold = 5.0
)

// Phase is the visible state of a row.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseOpen
)

func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseOpen:
		return "open"
	}
	return "idle"
}

// State carries the row's phase plus the in-flight pointer tracking data.
// The zero value is a closed, idle row.
type State struct {
	Phase  Phase
	Offset float64 // always within [-RevealWidth, 0]

	tracking    bool
	dragging    bool // displacement exceeded the jitter threshold
	startX      float64
	startOffset float64
}

// Event is a pointer or control input delivered to the machine.
type Event interface{ isEvent() }

type (
	// PointerDown begins tracking at horizontal position X.
	PointerDown struct{ X float64 }
	// PointerMove reports the pointer at horizontal position X.
	PointerMove struct{ X float64 }
	// PointerUp ends tracking and either snaps or taps.
	PointerUp struct{}
	// DeletePressed activates the revealed delete control.
	DeletePressed struct{}
)

func (PointerDown) isEvent()   {}
func (PointerMove) isEvent()   {}
func (PointerUp) isEvent()     {}
func (DeletePressed) isEvent() {}

// Effect is a terminal action requested by a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectSelect
	EffectDelete
)

// Transition applies one event to the machine. It never mutates its input.
func Transition(s State, e Event) (State, Effect) {
	switch ev := e.(type) {
	case PointerDown:
		s.tracking = true
		s.dragging = false
		s.startX = ev.X
		s.startOffset = s.Offset
		return s, EffectNone

	case PointerMove:
		if !s.tracking {
			return s, EffectNone
		}
		dx := ev.X - s.startX
		if !s.dragging && abs(dx) > JitterThreshold {
			s.dragging = true
		}
		if s.dragging {
			s.Offset = clamp(s.startOffset+dx, -RevealWidth, 0)
			s.Phase = PhaseDragging
		}
		return s, EffectNone

	case PointerUp:
		if !s.tracking {
			return s, EffectNone
		}
		s.tracking = false
		if s.dragging {
			s.dragging = false
			// Snap: past the commit threshold the row stays open,
			// otherwise it springs back shut.
			if s.Offset < -CommitThreshold {
				s.Phase = PhaseOpen
				s.Offset = -RevealWidth
			} else {
				s.Phase = PhaseIdle
				s.Offset = 0
			}
			return s, EffectNone
		}
		// A tap. Open rows close silently; idle rows select.
		if s.Phase == PhaseOpen {
			s.Phase = PhaseIdle
			s.Offset = 0
			return s, EffectNone
		}
		return s, EffectSelect

	case DeletePressed:
		// The delete control is hit-testable whenever any of it is
		// revealed, regardless of phase.
		if s.Offset < 0 {
			return s, EffectDelete
		}
		return s, EffectNone
	}
	return s, EffectNone
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
