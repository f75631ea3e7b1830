package classes_test

import (
	"testing"

	"github.com/taie-go/taie/classes"
	"github.com/taie-go/taie/ir"
)

func buildDiamond() *classes.Hierarchy {
	shapeArea := ir.NewBuilder("Shape", "area()", ir.TInt, false).Finish()
	shapeArea.Abstract = true
	circleArea := ir.NewBuilder("Circle", "area()", ir.TInt, false).Finish()

	return classes.NewHierarchy([]*classes.Class{
		{Name: "Shape", IsInterface: true, Methods: map[string]*ir.Method{"area()": shapeArea}},
		{Name: "Circle", Interfaces: []string{"Shape"}, Methods: map[string]*ir.Method{"area()": circleArea}},
		{Name: "Ellipse", Super: "Circle"}, // inherits area() without overriding
	})
}

func TestResolveFindsDeclaredMethod(t *testing.T) {
	h := buildDiamond()
	m := h.Resolve("Circle", "area()")
	if m == nil || m.Class != "Circle" {
		t.Errorf("Resolve(Circle, area()) = %v, want Circle's own area()", m)
	}
}

func TestResolveAscendsToSuperclass(t *testing.T) {
	h := buildDiamond()
	m := h.Resolve("Ellipse", "area()")
	if m == nil || m.Class != "Circle" {
		t.Errorf("Resolve(Ellipse, area()) = %v, want Circle's inherited area()", m)
	}
}

func TestResolveSkipsAbstractMethods(t *testing.T) {
	h := buildDiamond()
	if m := h.Resolve("Shape", "area()"); m != nil {
		t.Errorf("Resolve(Shape, area()) = %v, want nil (Shape only declares an abstract method)", m)
	}
}

func TestResolveUnknownClassIsNil(t *testing.T) {
	h := buildDiamond()
	if m := h.Resolve("Nonexistent", "area()"); m != nil {
		t.Error("Resolve on an unknown class should return nil")
	}
}

func TestSubclassClosureIncludesImplementorsAndSubclasses(t *testing.T) {
	h := buildDiamond()
	closure := h.SubclassClosure("Shape")

	names := make(map[string]bool)
	for _, c := range closure {
		names[c.Name] = true
	}
	for _, want := range []string{"Shape", "Circle", "Ellipse"} {
		if !names[want] {
			t.Errorf("SubclassClosure(Shape) missing %s; got %v", want, names)
		}
	}
}

func TestDeclaredMethodDoesNotInherit(t *testing.T) {
	h := buildDiamond()
	if m := h.DeclaredMethod("Ellipse", "area()"); m != nil {
		t.Error("DeclaredMethod should not walk the superclass chain, only Resolve should")
	}
}

func TestSuperClass(t *testing.T) {
	h := buildDiamond()
	super := h.SuperClass("Ellipse")
	if super == nil || super.Name != "Circle" {
		t.Errorf("SuperClass(Ellipse) = %v, want Circle", super)
	}
	if h.SuperClass("Shape") != nil {
		t.Error("an interface with no super should report nil")
	}
}
