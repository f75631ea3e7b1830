package pta

import "github.com/taie-go/taie/ir"

// IsOpaque reports whether m has no modeled body: an external/native
// method or an abstract method with no concrete override resolved to it.
// §4's opaque-method policy (the Non-goals' "reflection, dynamic class
// loading, native calls beyond an opaque-method policy" carve-out) treats
// such a method as contributing nothing: its points-to sets stay whatever
// they already are, grounded on pointer/gen.go's `fn.Blocks == nil` /
// "External function with no intrinsic treatment" handling. addReachable
// already realizes this for free — an opaque method has no statements to
// visit, so none of its pointers ever grow. analysis/interconstprop uses
// IsOpaque to give the result of a call to such a method NAC.
func IsOpaque(m *ir.Method) bool {
	return m == nil || m.Abstract || len(m.Stmts) == 0
}
