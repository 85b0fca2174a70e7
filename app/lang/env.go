package lang

import "sort"

// Slot identifies one of the document-wide values the engine injects.
// Slots live beside user variables, so no variable name can shadow them.
type Slot int

const (
	SlotSum Slot = iota
	SlotAvg
	SlotPrev
	SlotSubtotal
	numSlots
)

func (s Slot) String() string {
	switch s {
	case SlotSum:
		return "=sum"
	case SlotAvg:
		return "=avg"
	case SlotPrev:
		return "=prev"
	case SlotSubtotal:
		return "=subtotal"
	}
	return "=?"
}

// Env is the variable environment for one document evaluation.
type Env struct {
	vars  map[string]Value
	slots [numSlots]*Value
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]Value)}
}

// Get looks up a user variable. Names are case-sensitive and keep their spaces.
func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set assigns a user variable.
func (e *Env) Set(name string, v Value) {
	e.vars[name] = v
}

// Aggregate returns the value stored in a slot.
func (e *Env) Aggregate(s Slot) (Value, bool) {
	if v := e.slots[s]; v != nil {
		return *v, true
	}
	return Value{}, false
}

// SetAggregate stores a value in a slot.
func (e *Env) SetAggregate(s Slot, v Value) {
	e.slots[s] = &v
}

// ClearAggregate empties a slot so reads report it as undefined.
func (e *Env) ClearAggregate(s Slot) {
	e.slots[s] = nil
}

// Clear removes every variable and slot.
func (e *Env) Clear() {
	clear(e.vars)
	e.slots = [numSlots]*Value{}
}

// Names returns the user variable names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Vars returns a copy of the user variables.
func (e *Env) Vars() map[string]Value {
	out := make(map[string]Value, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}
