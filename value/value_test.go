package value

import "testing"

func TestMeetLattice(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{"undef meet undef", Undef(), Undef(), Undef()},
		{"undef meet const", Undef(), ConstOf(3), ConstOf(3)},
		{"const meet undef", ConstOf(3), Undef(), ConstOf(3)},
		{"equal consts", ConstOf(3), ConstOf(3), ConstOf(3)},
		{"unequal consts", ConstOf(3), ConstOf(4), NotAConst()},
		{"nac meet anything", NotAConst(), ConstOf(3), NotAConst()},
		{"anything meet nac", ConstOf(3), NotAConst(), NotAConst()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Meet(tc.a, tc.b); !got.Equal(tc.want) {
				t.Errorf("Meet(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestMeetCommutative(t *testing.T) {
	vals := []Value{Undef(), ConstOf(1), ConstOf(2), NotAConst()}
	for _, a := range vals {
		for _, b := range vals {
			if ab, ba := Meet(a, b), Meet(b, a); !ab.Equal(ba) {
				t.Errorf("Meet(%v, %v) = %v, but Meet(%v, %v) = %v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestMeetNeverBelowUndef(t *testing.T) {
	// UNDEF is bottom: meeting anything with UNDEF always reaches the
	// other operand exactly, never something below it.
	vals := []Value{Undef(), ConstOf(1), ConstOf(2), NotAConst()}
	for _, v := range vals {
		if m := Meet(v, Undef()); !m.Equal(v) {
			t.Errorf("Meet(%v, UNDEF) = %v, want %v", v, m, v)
		}
	}
}

func TestFoldConstants(t *testing.T) {
	tests := []struct {
		op   BinOp
		x, y int32
		want int32
	}{
		{ADD, 2, 3, 5},
		{SUB, 5, 3, 2},
		{MUL, 4, 3, 12},
		{DIV, 7, 2, 3},
		{REM, 7, 2, 1},
		{AND, 0b110, 0b011, 0b010},
		{OR, 0b110, 0b011, 0b111},
		{XOR, 0b110, 0b011, 0b101},
		{SHL, 1, 3, 8},
		{SHR, -8, 1, -4},
		{USHR, -8, 1, 2147483644},
	}
	for _, tc := range tests {
		got := Fold(tc.op, ConstOf(tc.x), ConstOf(tc.y))
		if !got.IsConst() || got.Int() != tc.want {
			t.Errorf("Fold(%v, %d, %d) = %v, want CONST(%d)", tc.op, tc.x, tc.y, got, tc.want)
		}
	}
}

func TestFoldComparisons(t *testing.T) {
	tests := []struct {
		op   BinOp
		x, y int32
		want int32
	}{
		{EQ, 3, 3, 1},
		{EQ, 3, 4, 0},
		{NE, 3, 4, 1},
		{LT, 3, 4, 1},
		{LE, 4, 4, 1},
		{GT, 5, 4, 1},
		{GE, 4, 4, 1},
	}
	for _, tc := range tests {
		got := Fold(tc.op, ConstOf(tc.x), ConstOf(tc.y))
		if !got.IsConst() || got.Int() != tc.want {
			t.Errorf("Fold(%v, %d, %d) = %v, want CONST(%d)", tc.op, tc.x, tc.y, got, tc.want)
		}
	}
}

func TestFoldDivByConstZeroIsUndef(t *testing.T) {
	if got := Fold(DIV, ConstOf(5), ConstOf(0)); !got.IsUndef() {
		t.Errorf("Fold(DIV, 5, 0) = %v, want UNDEF", got)
	}
	if got := Fold(REM, ConstOf(5), ConstOf(0)); !got.IsUndef() {
		t.Errorf("Fold(REM, 5, 0) = %v, want UNDEF", got)
	}
}

func TestFoldNACPropagates(t *testing.T) {
	if got := Fold(ADD, NotAConst(), ConstOf(1)); !got.IsNAC() {
		t.Errorf("Fold(ADD, NAC, 1) = %v, want NAC", got)
	}
	if got := Fold(ADD, ConstOf(1), NotAConst()); !got.IsNAC() {
		t.Errorf("Fold(ADD, 1, NAC) = %v, want NAC", got)
	}
}

func TestFoldUndefWithoutNACIsUndef(t *testing.T) {
	if got := Fold(ADD, Undef(), ConstOf(1)); !got.IsUndef() {
		t.Errorf("Fold(ADD, UNDEF, 1) = %v, want UNDEF", got)
	}
}
