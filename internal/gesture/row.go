package gesture

// Row binds a machine instance to a list row's identity and dispatches the
// terminal select/delete effects to callbacks. One Row lives per visible
// list entry for the entry's lifetime.
type Row struct {
	id       string
	state    State
	onSelect func(id string)
	onDelete func(id string)
}

func NewRow(id string, onSelect, onDelete func(string)) *Row {
	return &Row{id: id, onSelect: onSelect, onDelete: onDelete}
}

// ID returns the bound row identity.
func (r *Row) ID() string { return r.id }

// State returns the current machine state.
func (r *Row) State() State { return r.state }

// Offset returns the current visual offset for rendering.
func (r *Row) Offset() float64 { return r.state.Offset }

// Handle feeds one event through the machine and fires any resulting
// effect.
func (r *Row) Handle(e Event) Effect {
	next, effect := Transition(r.state, e)
	r.state = next

	switch effect {
	case EffectSelect:
		if r.onSelect != nil {
			r.onSelect(r.id)
		}
	case EffectDelete:
		if r.onDelete != nil {
			r.onDelete(r.id)
		}
	}
	return effect
}

// Rebind resets the machine for a new identity, e.g. after the list was
// re-filtered and this slot now shows a different entry.
func (r *Row) Rebind(id string) {
	r.id = id
	r.state = State{}
}
