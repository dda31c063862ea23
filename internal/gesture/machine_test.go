package gesture

import "testing"

// drive runs a sequence of events through Transition, returning the final
// state and the last non-none effect.
func drive(s State, events ...Event) (State, Effect) {
	last := EffectNone
	for _, e := range events {
		var eff Effect
		s, eff = Transition(s, e)
		if eff != EffectNone {
			last = eff
		}
	}
	return s, last
}

func TestDragPastThresholdOpens(t *testing.T) {
	s, eff := drive(State{}, PointerDown{X: 100}, PointerMove{X: 50}, PointerUp{})
	if eff != EffectNone {
		t.Fatalf("drag must not fire effects, got %v", eff)
	}
	if s.Phase != PhaseOpen || s.Offset != -RevealWidth {
		t.Fatalf("drag of -50 must snap open at -%v, got phase=%v offset=%v", RevealWidth, s.Phase, s.Offset)
	}
}

func TestShortDragSpringsBack(t *testing.T) {
	s, _ := drive(State{}, PointerDown{X: 100}, PointerMove{X: 70}, PointerUp{})
	if s.Phase != PhaseIdle || s.Offset != 0 {
		t.Fatalf("drag of -30 must spring back to idle, got phase=%v offset=%v", s.Phase, s.Offset)
	}
}

func TestOffsetClampedToRevealWidth(t *testing.T) {
	s, _ := drive(State{}, PointerDown{X: 300}, PointerMove{X: 0})
	if s.Offset != -RevealWidth {
		t.Fatalf("offset must clamp at -%v, got %v", RevealWidth, s.Offset)
	}
	s, _ = drive(State{}, PointerDown{X: 0}, PointerMove{X: 300})
	if s.Offset != 0 {
		t.Fatalf("offset must clamp at 0, got %v", s.Offset)
	}
}

func TestJitterDoesNotClassifyDrag(t *testing.T) {
	// 4 units of travel is within the jitter threshold: still a tap.
	s, eff := drive(State{}, PointerDown{X: 100}, PointerMove{X: 96}, PointerUp{})
	if eff != EffectSelect {
		t.Fatalf("jittery tap must still select, got %v", eff)
	}
	if s.Phase != PhaseIdle || s.Offset != 0 {
		t.Fatalf("jittery tap must leave the row idle, got phase=%v offset=%v", s.Phase, s.Offset)
	}
}

func TestTapWhileIdleSelects(t *testing.T) {
	s, eff := drive(State{}, PointerDown{X: 10}, PointerUp{})
	if eff != EffectSelect {
		t.Fatalf("tap in idle must select, got %v", eff)
	}
	if s.Phase != PhaseIdle {
		t.Fatalf("tap must remain idle, got %v", s.Phase)
	}
}

func TestTapWhileOpenClosesSilently(t *testing.T) {
	open, _ := drive(State{}, PointerDown{X: 100}, PointerMove{X: 20}, PointerUp{})
	if open.Phase != PhaseOpen {
		t.Fatalf("setup: expected open row, got %v", open.Phase)
	}

	s, eff := drive(open, PointerDown{X: 10}, PointerUp{})
	if eff != EffectNone {
		t.Fatalf("tap on open row must not select, got %v", eff)
	}
	if s.Phase != PhaseIdle || s.Offset != 0 {
		t.Fatalf("tap on open row must close it, got phase=%v offset=%v", s.Phase, s.Offset)
	}
}

func TestDeleteOnlyReachableWhenRevealed(t *testing.T) {
	if _, eff := Transition(State{}, DeletePressed{}); eff != EffectNone {
		t.Fatalf("delete with closed row must be a no-op, got %v", eff)
	}

	// Mid-drag, any negative offset exposes the control.
	mid, _ := drive(State{}, PointerDown{X: 100}, PointerMove{X: 80})
	if mid.Offset >= 0 {
		t.Fatalf("setup: expected revealed offset, got %v", mid.Offset)
	}
	if _, eff := Transition(mid, DeletePressed{}); eff != EffectDelete {
		t.Fatalf("delete with revealed row must fire, got %v", eff)
	}
}

func TestRowDispatchesCallbacks(t *testing.T) {
	var selected, deleted []string
	row := NewRow("Shell", func(id string) { selected = append(selected, id) },
		func(id string) { deleted = append(deleted, id) })

	row.Handle(PointerDown{X: 10})
	row.Handle(PointerUp{})
	if len(selected) != 1 || selected[0] != "Shell" {
		t.Fatalf("expected select callback for Shell, got %v", selected)
	}

	row.Handle(PointerDown{X: 100})
	row.Handle(PointerMove{X: 20})
	row.Handle(DeletePressed{})
	if len(deleted) != 1 || deleted[0] != "Shell" {
		t.Fatalf("expected delete callback for Shell, got %v", deleted)
	}
}

func TestRebindResetsMachine(t *testing.T) {
	row := NewRow("Shell", nil, nil)
	row.Handle(PointerDown{X: 100})
	row.Handle(PointerMove{X: 20})
	row.Handle(PointerUp{})
	if row.State().Phase != PhaseOpen {
		t.Fatalf("setup: expected open row, got %v", row.State().Phase)
	}

	row.Rebind("Esso")
	if row.ID() != "Esso" || row.State().Phase != PhaseIdle || row.Offset() != 0 {
		t.Fatalf("rebind must reset to idle, got id=%q state=%+v", row.ID(), row.State())
	}
}
