package ir

import "github.com/taie-go/taie/value"

// Exp is the closed set of expression forms that can appear as the
// right-hand side of an AssignExp statement or an If's condition (a
// Switch tests a plain Var). Like Stmt, it is visited exhaustively — no
// open hierarchy (§9).
type Exp interface {
	isExp()
}

// IntLit is an integer literal operand.
type IntLit struct{ Value int32 }

func (IntLit) isExp() {}

// VarRef is a variable-read operand.
type VarRef struct{ V Var }

func (VarRef) isExp() {}

// BinExp is a binary arithmetic, bitwise, shift or comparison expression
// (§4.3's "evaluate"). X and Y are always IntLit or VarRef: the IR is
// three-address, so nested expressions don't occur.
type BinExp struct {
	Op   value.BinOp
	X, Y Exp
}

func (BinExp) isExp() {}
