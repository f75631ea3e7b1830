package ir

// Stmt is the closed set of IR statement kinds from §6. Each concrete type
// below corresponds to one of the subtypes the specification names:
// New, Copy, LoadField, StoreField, LoadArray, StoreArray, Invoke, If,
// Switch, plus AssignExp (arithmetic/comparison assignment — Tai-e calls
// this general family "AssignStmt") and Cast, Return, Goto, Nop which round
// out a runnable three-address IR.
//
// The IR is flat: one CFG node per statement (not per basic block), so
// every Stmt carries its own Index, its position in Method.Stmts.
type Stmt interface {
	isStmt()
	Index() int
	setIndex(int)
}

// base is embedded by every concrete statement to supply Index/setIndex.
type base struct{ index int }

func (b *base) Index() int      { return b.index }
func (b *base) setIndex(i int)  { b.index = i }

// DefinitionStmt is implemented by every statement that defines a
// variable (possibly none, e.g. a void Invoke). LHS returns nil when the
// statement has no result.
type DefinitionStmt interface {
	Stmt
	LHS() Var
}

// AssignStmt is the family of DefinitionStmt naming the "general
// assignment" subtypes §6 lists (New, Copy, LoadField, LoadArray, Invoke
// with a result, AssignExp, Cast): anything that assigns a value computed
// from a right-hand side into a variable.
type AssignStmt interface {
	DefinitionStmt
	isAssignStmt()
}

// New is `lhs := new T @ site`. The statement's own identity is the
// allocation site (§3 "Obj... identity = the New statement it
// originates from").
type New struct {
	base
	Lhs  Var
	Type Type
}

func (*New) isStmt()       {}
func (*New) isAssignStmt() {}
func (s *New) LHS() Var    { return s.Lhs }

// Copy is `lhs := rhs`.
type Copy struct {
	base
	Lhs, Rhs Var
}

func (*Copy) isStmt()       {}
func (*Copy) isAssignStmt() {}
func (s *Copy) LHS() Var    { return s.Lhs }

// LoadField is `lhs := base.f` (instance, Static == false) or
// `lhs := C.f` (static, Static == true, Base == nil).
type LoadField struct {
	base
	Lhs    Var
	Base   Var // nil when Static
	Field  *FieldRef
	Static bool
}

func (*LoadField) isStmt()       {}
func (*LoadField) isAssignStmt() {}
func (s *LoadField) LHS() Var    { return s.Lhs }

// StoreField is `base.f := rhs` or `C.f := rhs` (Static, Base == nil).
type StoreField struct {
	base
	Base   Var
	Field  *FieldRef
	Rhs    Var
	Static bool
}

func (*StoreField) isStmt()    {}
func (s *StoreField) LHS() Var { return nil }

// LoadArray is `lhs := base[index]`.
type LoadArray struct {
	base
	Lhs, Base, Index Var
}

func (*LoadArray) isStmt()       {}
func (*LoadArray) isAssignStmt() {}
func (s *LoadArray) LHS() Var    { return s.Lhs }

// StoreArray is `base[index] := rhs`.
type StoreArray struct {
	base
	Base, Index, Rhs Var
}

func (*StoreArray) isStmt()    {}
func (s *StoreArray) LHS() Var { return nil }

// InvokeExp carries the shared parts of any invocation: the callee
// reference, actual arguments and call kind. The receiver of a non-static
// call is held by the enclosing Invoke's Base, not here.
type InvokeExp struct {
	Method *MethodRef
	Args   []Var
	Kind   CallKind
}

func (e *InvokeExp) GetArgs() []Var { return e.Args }

// Invoke is a call statement; Lhs is nil for a void/discarded result.
// Base is nil for StaticCall.
type Invoke struct {
	base
	Lhs    Var
	Base   Var
	Exp    *InvokeExp
	Static bool
}

func (*Invoke) isStmt()          {}
func (*Invoke) isAssignStmt()    {}
func (s *Invoke) LHS() Var       { return s.Lhs }
func (s *Invoke) GetInvokeExp() *InvokeExp { return s.Exp }

// Cast is `lhs := (T) rhs`.
type Cast struct {
	base
	Lhs, Rhs Var
	Type     Type
}

func (*Cast) isStmt()       {}
func (*Cast) isAssignStmt() {}
func (s *Cast) LHS() Var    { return s.Lhs }

// AssignExp is `lhs := <binary/literal/copy expression>`, the arithmetic
// and comparison assignments §4.3's evaluate() folds.
type AssignExp struct {
	base
	Lhs Var
	Rhs Exp
}

func (*AssignExp) isStmt()       {}
func (*AssignExp) isAssignStmt() {}
func (s *AssignExp) LHS() Var    { return s.Lhs }

// If branches to Target on a true condition and falls through otherwise;
// the CFG builder also needs the false successor, which for a flat
// statement list is simply the next statement — see cfg.Build.
type If struct {
	base
	Cond   Exp
	Target int // statement index taken when Cond folds/holds true
}

func (*If) isStmt() {}

// Switch dispatches on Var's value to one of Targets (parallel to Cases)
// or to Default when no Cases entry matches.
type Switch struct {
	base
	Var     Var
	Cases   []int32
	Targets []int
	Default int
}

func (*Switch) isStmt() {}

// Goto is an unconditional jump, needed for loops in a flat three-address
// statement list.
type Goto struct {
	base
	Target int
}

func (*Goto) isStmt() {}

// Return returns zero or more values; for methods with a single return
// variable Vars has length 1.
type Return struct {
	base
	Vars []Var
}

func (*Return) isStmt() {}

// Nop is a statement with no effect. The CFG's entry and exit are
// synthetic nodes (cfg.Entry, CFG.Exit), not Nop statements.
type Nop struct{ base }

func (*Nop) isStmt() {}
