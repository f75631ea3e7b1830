package ir

// VarDef is the identity of a method-local variable. Var is a pointer to
// VarDef so that two references to "the same" variable compare equal, the
// way the teacher's ssa.Value identities work (§3 "Pointer nodes": "method
// local Var").
type VarDef struct {
	Name   string
	Type   Type
	Method *Method
	Index  int // position among the method's variables, for stable ordering
}

// Var is the identity used throughout the IR, CFG, solver and PTA.
type Var = *VarDef

func (v *VarDef) String() string { return v.Name }

// IntLike reports whether v's declared type participates in constant
// propagation (§3).
func (v *VarDef) IntLike() bool { return v.Type != nil && v.Type.IntLike() }
