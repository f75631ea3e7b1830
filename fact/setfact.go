package fact

// SetFact is a finite set lattice (join = union, bottom = ∅) generic over
// any comparable element type. It backs live-variable analysis (T =
// ir.Var) and, with a different instantiation, pointer-analysis points-to
// sets.
type SetFact[T comparable] struct {
	m map[T]struct{}
}

// NewSetFact returns the empty set.
func NewSetFact[T comparable]() *SetFact[T] {
	return &SetFact[T]{m: make(map[T]struct{})}
}

func (s *SetFact[T]) Len() int { return len(s.m) }

func (s *SetFact[T]) Contains(v T) bool {
	_, ok := s.m[v]
	return ok
}

// Add inserts v, returning whether it was new.
func (s *SetFact[T]) Add(v T) bool {
	if _, ok := s.m[v]; ok {
		return false
	}
	s.m[v] = struct{}{}
	return true
}

// Remove deletes v, returning whether it was present.
func (s *SetFact[T]) Remove(v T) bool {
	if _, ok := s.m[v]; !ok {
		return false
	}
	delete(s.m, v)
	return true
}

// MeetInto merges src into s via union — the join operation of the set
// lattice (§3 "SetFact<T>") — satisfying solver.Fact's generic contract.
func (s *SetFact[T]) MeetInto(src *SetFact[T]) bool { return s.Union(src) }

// Union adds every element of o into s, returning whether s changed.
func (s *SetFact[T]) Union(o *SetFact[T]) (changed bool) {
	for v := range o.m {
		if s.Add(v) {
			changed = true
		}
	}
	return changed
}

// Difference removes every element of o from s, returning whether s
// changed.
func (s *SetFact[T]) Difference(o *SetFact[T]) (changed bool) {
	for v := range o.m {
		if s.Remove(v) {
			changed = true
		}
	}
	return changed
}

// Copy returns an independent copy of s.
func (s *SetFact[T]) Copy() *SetFact[T] {
	out := NewSetFact[T]()
	for v := range s.m {
		out.m[v] = struct{}{}
	}
	return out
}

// CopyFrom overwrites s with o's elements, returning whether s changed.
func (s *SetFact[T]) CopyFrom(o *SetFact[T]) (changed bool) {
	if len(s.m) != len(o.m) {
		changed = true
	} else {
		for v := range o.m {
			if _, ok := s.m[v]; !ok {
				changed = true
				break
			}
		}
	}
	if changed {
		s.m = make(map[T]struct{}, len(o.m))
		for v := range o.m {
			s.m[v] = struct{}{}
		}
	}
	return changed
}

// ForEach calls fn for every element of s.
func (s *SetFact[T]) ForEach(fn func(T)) {
	for v := range s.m {
		fn(v)
	}
}

// Elements returns the set's elements in unspecified order.
func (s *SetFact[T]) Elements() []T {
	out := make([]T, 0, len(s.m))
	for v := range s.m {
		out = append(out, v)
	}
	return out
}
