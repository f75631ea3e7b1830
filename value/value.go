// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value implements the three-point constant-propagation lattice
// UNDEF ⊑ CONST(c) ⊑ NAC and the arithmetic used to fold IR expressions
// over it.
package value

import "fmt"

// Kind distinguishes the three lattice elements.
type Kind uint8

const (
	UndefKind Kind = iota
	Const
	NAC
)

// Value is an element of the constant-propagation lattice. Constants carry
// a 32-bit signed integer, per spec: only narrow-integer-typed program
// variables ever hold a Const.
type Value struct {
	kind Kind
	c    int32
}

// Undef is the bottom element.
func Undef() Value { return Value{kind: UndefKind} }

// NotAConst returns the top element NAC ("not a constant").
func NotAConst() Value { return Value{kind: NAC} }

// ConstOf returns the constant c.
func ConstOf(c int32) Value { return Value{kind: Const, c: c} }

func (v Value) IsUndef() bool { return v.kind == UndefKind }
func (v Value) IsConst() bool { return v.kind == Const }
func (v Value) IsNAC() bool   { return v.kind == NAC }

// Int returns the constant payload. Only meaningful when IsConst().
func (v Value) Int() int32 { return v.c }

func (v Value) String() string {
	switch v.kind {
	case UndefKind:
		return "UNDEF"
	case NAC:
		return "NAC"
	default:
		return fmt.Sprintf("%d", v.c)
	}
}

// Equal reports whether two values denote the same lattice element.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	return v.kind != Const || v.c == o.c
}

// Meet computes the least upper bound (join) of v and o in the lattice
// order UNDEF ⊑ CONST ⊑ NAC; UNDEF is its identity and NAC absorbs:
//
//	meet(v, UNDEF) = v
//	meet(v, NAC)   = NAC
//	meet(CONST(c), CONST(c)) = CONST(c)
//	meet(CONST(a), CONST(b)) = NAC   (a != b)
func Meet(v, o Value) Value {
	if v.kind == UndefKind {
		return o
	}
	if o.kind == UndefKind {
		return v
	}
	if v.kind == NAC || o.kind == NAC {
		return NotAConst()
	}
	// both Const
	if v.c == o.c {
		return v
	}
	return NotAConst()
}
