// Package context implements the context/heap-context abstraction of
// §4.7: a short, comparable tuple usable directly as a map key by the
// CS-manager's canonicalization tables, plus the two concrete selectors
// spec.md names (2-call-site, 2-object) and the always-empty selector
// that makes the context-insensitive variant (§4.6) just the
// context-sensitive solver run with every context Empty.
package context

import (
	"fmt"

	"github.com/taie-go/taie/ir"
)

// Context is a finite ordered abstraction of calling or allocating
// history, bounded to length 2 (the longest selector spec.md specifies).
// Elements are opaque (*ir.Invoke call sites, or the receiver's
// allocation identity, pta.Obj.Identity, for object sensitivity); context
// never inspects them, only appends and truncates.
type Context struct {
	len    int
	c0, c1 any
}

// Empty is the zero-length context.
var Empty = Context{}

func (c Context) Len() int { return c.len }

func (c Context) String() string {
	switch c.len {
	case 0:
		return "[]"
	case 1:
		return fmt.Sprintf("[%v]", c.c0)
	default:
		return fmt.Sprintf("[%v,%v]", c.c0, c.c1)
	}
}

// Last returns the most recently appended element, or nil if c is empty.
func (c Context) Last() any {
	switch c.len {
	case 0:
		return nil
	case 1:
		return c.c0
	default:
		return c.c1
	}
}

// Append returns the context formed by adding e to c, truncated to the
// rightmost k elements (k is 1 or 2 for the selectors spec.md specifies).
func (c Context) Append(e any, k int) Context {
	switch {
	case k <= 0:
		return Empty
	case k == 1:
		return Context{len: 1, c0: e}
	default:
		if c.len == 0 {
			return Context{len: 1, c0: e}
		}
		return Context{len: 2, c0: c.Last(), c1: e}
	}
}

// CSObjLike is the subset of pta.CSObj that ObjectSelector needs: the
// receiver's allocation identity and the context it was allocated under.
// Spelled as an interface here (rather than importing pta.CSObj directly)
// so context has no dependency on pta, avoiding an import cycle — pta
// depends on context, not the reverse.
type CSObjLike interface {
	Alloc() any
	HeapCtx() Context
}

// Selector is the extension point §4.7 calls "selectContext" /
// "selectHeapContext".
type Selector interface {
	// SelectContext computes the callee context for a call from callSite
	// (in a method running under callerCtx) to callee. recv is the
	// CSObjLike receiver object for instance dispatches, or nil for
	// static calls.
	SelectContext(callerCtx Context, callSite *ir.Invoke, recv CSObjLike, callee *ir.Method) Context
	// SelectHeapContext computes the heap context for an allocation made
	// by a method running under allocCtx.
	SelectHeapContext(allocCtx Context) Context
}

// Insensitive is the selector §4.6 implicitly uses: every context is
// Empty, so CSObj/CSMethod canonicalization degenerates to plain
// Obj/Method identity.
type Insensitive struct{}

func (Insensitive) SelectContext(Context, *ir.Invoke, CSObjLike, *ir.Method) Context { return Empty }
func (Insensitive) SelectHeapContext(Context) Context                              { return Empty }

// CallSiteSelector is k-call-site sensitivity: callee context = caller
// context with callSite appended, truncated to K. Heap contexts are
// always empty (§4.7 "2-call-site").
type CallSiteSelector struct{ K int }

func (s CallSiteSelector) SelectContext(callerCtx Context, callSite *ir.Invoke, _ CSObjLike, _ *ir.Method) Context {
	return callerCtx.Append(callSite, s.K)
}

func (CallSiteSelector) SelectHeapContext(Context) Context { return Empty }

// ObjectSelector is k-object sensitivity: callee context = receiver's
// allocation context with the receiver object appended, truncated to K.
// Static calls (recv == nil) have no receiver to key off of, so the
// caller's context passes through unchanged — an Open Question §4.7 left
// unspecified, resolved this way here (see DESIGN.md).
type ObjectSelector struct{ K int }

func (s ObjectSelector) SelectContext(callerCtx Context, _ *ir.Invoke, recv CSObjLike, _ *ir.Method) Context {
	if recv == nil {
		return callerCtx
	}
	return recv.HeapCtx().Append(recv.Alloc(), s.K)
}

// SelectHeapContext is "last element of the allocating method's context,
// or empty when unavailable" (§4.7 "2-object").
func (ObjectSelector) SelectHeapContext(allocCtx Context) Context {
	if allocCtx.Len() == 0 {
		return Empty
	}
	return Context{len: 1, c0: allocCtx.Last()}
}
