package fact

import "testing"

func TestSetFactAddContains(t *testing.T) {
	s := NewSetFact[int]()
	if s.Contains(1) {
		t.Error("empty set should not contain 1")
	}
	if !s.Add(1) {
		t.Error("adding a new element should report true")
	}
	if s.Add(1) {
		t.Error("adding an existing element should report false")
	}
	if !s.Contains(1) {
		t.Error("set should contain 1 after Add(1)")
	}
}

func TestSetFactUnionIsJoin(t *testing.T) {
	a := NewSetFact[int]()
	a.Add(1)
	b := NewSetFact[int]()
	b.Add(2)

	if changed := a.Union(b); !changed {
		t.Error("union with new elements should report changed")
	}
	if !a.Contains(1) || !a.Contains(2) {
		t.Error("union should contain both sets' elements")
	}
	if changed := a.Union(b); changed {
		t.Error("union with an already-subsumed set should report unchanged")
	}
}

func TestSetFactUnionConfluent(t *testing.T) {
	// join must be order-independent: a∪b == b∪a.
	a := NewSetFact[int]()
	a.Add(1)
	a.Add(2)
	b := NewSetFact[int]()
	b.Add(2)
	b.Add(3)

	ab := a.Copy()
	ab.Union(b)
	ba := b.Copy()
	ba.Union(a)

	if ab.Len() != ba.Len() {
		t.Fatalf("a∪b has %d elements, b∪a has %d", ab.Len(), ba.Len())
	}
	for _, v := range ab.Elements() {
		if !ba.Contains(v) {
			t.Errorf("a∪b contains %d but b∪a does not", v)
		}
	}
}

func TestSetFactDifference(t *testing.T) {
	a := NewSetFact[int]()
	a.Add(1)
	a.Add(2)
	b := NewSetFact[int]()
	b.Add(2)

	if changed := a.Difference(b); !changed {
		t.Error("difference removing a present element should report changed")
	}
	if a.Contains(2) {
		t.Error("2 should have been removed")
	}
	if !a.Contains(1) {
		t.Error("1 should remain")
	}
}

func TestSetFactCopyIsIndependent(t *testing.T) {
	a := NewSetFact[int]()
	a.Add(1)
	cp := a.Copy()
	cp.Add(2)
	if a.Contains(2) {
		t.Error("mutating the copy should not affect the original")
	}
}

func TestSetFactCopyFrom(t *testing.T) {
	a := NewSetFact[int]()
	a.Add(1)
	b := NewSetFact[int]()
	b.Add(2)
	b.Add(3)

	if changed := a.CopyFrom(b); !changed {
		t.Error("CopyFrom a differently-sized set should report changed")
	}
	if a.Len() != 2 || !a.Contains(2) || !a.Contains(3) {
		t.Error("a should now equal b's contents")
	}
}

func TestSetFactMeetIntoIsUnion(t *testing.T) {
	a := NewSetFact[int]()
	a.Add(1)
	b := NewSetFact[int]()
	b.Add(2)

	a.MeetInto(b)
	if !a.Contains(1) || !a.Contains(2) {
		t.Error("MeetInto should behave as union for a set lattice")
	}
}
