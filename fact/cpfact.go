// Package fact implements the keyed fact maps the solver and its client
// analyses pass between CFG nodes: CPFact for constant propagation and the
// generic SetFact for set lattices such as live-variables and points-to
// sets.
package fact

import (
	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/value"
)

// CPFact maps a variable to its constant-propagation value. A missing key
// denotes UNDEF, per §3.
type CPFact struct {
	m map[ir.Var]value.Value
}

// NewCPFact returns an empty fact (all variables UNDEF).
func NewCPFact() *CPFact {
	return &CPFact{m: make(map[ir.Var]value.Value)}
}

// Get returns the value bound to v, or UNDEF if unbound.
func (f *CPFact) Get(v ir.Var) value.Value {
	if val, ok := f.m[v]; ok {
		return val
	}
	return value.Undef()
}

// Update binds v to val, returning whether the binding changed. A binding
// to UNDEF is equivalent to removing the key.
func (f *CPFact) Update(v ir.Var, val value.Value) (changed bool) {
	old, ok := f.m[v]
	if val.IsUndef() {
		if !ok {
			return false
		}
		delete(f.m, v)
		return true
	}
	if ok && old.Equal(val) {
		return false
	}
	f.m[v] = val
	return true
}

// ForEach calls fn for every variable with a non-UNDEF value.
func (f *CPFact) ForEach(fn func(ir.Var, value.Value)) {
	for v, val := range f.m {
		fn(v, val)
	}
}

// Copy returns an independent copy of f.
func (f *CPFact) Copy() *CPFact {
	out := NewCPFact()
	for k, v := range f.m {
		out.m[k] = v
	}
	return out
}

// CopyFrom overwrites f's bindings with src's, returning whether anything
// changed.
func (f *CPFact) CopyFrom(src *CPFact) (changed bool) {
	if len(f.m) != len(src.m) {
		changed = true
	} else {
		for k, v := range src.m {
			if old, ok := f.m[k]; !ok || !old.Equal(v) {
				changed = true
				break
			}
		}
	}
	if changed {
		f.m = make(map[ir.Var]value.Value, len(src.m))
		for k, v := range src.m {
			f.m[k] = v
		}
	}
	return changed
}

// Equal reports whether f and o bind the same variables to equal values.
func (f *CPFact) Equal(o *CPFact) bool {
	if len(f.m) != len(o.m) {
		return false
	}
	for k, v := range f.m {
		if ov, ok := o.m[k]; !ok || !ov.Equal(v) {
			return false
		}
	}
	return true
}

// MeetInto merges src into f pointwise using the lattice meet, per §4.1's
// "in(N) = join over predecessors of out(P)". Returns whether f changed.
func (f *CPFact) MeetInto(src *CPFact) (changed bool) {
	for k, v := range src.m {
		merged := value.Meet(f.Get(k), v)
		if f.Update(k, merged) {
			changed = true
		}
	}
	return changed
}
