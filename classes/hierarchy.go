// Package classes implements the class-hierarchy oracle contract from §6:
// directSubclassesOf, directSubinterfacesOf, directImplementorsOf,
// declaredMethod, superClass, plus method attributes. It is an explicit
// collaborator built once from a flat class list and injected into CHA and
// the pointer analysis, rather than reached as a global (§9 "Global
// state").
package classes

import "github.com/taie-go/taie/ir"

// Class is one class or interface declaration.
type Class struct {
	Name         string
	Super        string   // "" for java.lang.Object / an interface with no super
	Interfaces   []string // directly implemented/extended interfaces
	IsInterface  bool
	IsAbstract   bool
	Methods      map[string]*ir.Method // keyed by subsignature
}

// Hierarchy answers the class-hierarchy queries CHA and PTA dispatch need.
// Built once via NewHierarchy and treated as immutable thereafter.
type Hierarchy struct {
	classes map[string]*Class

	// reverse indices, computed once at construction time
	directSubclasses   map[string][]*Class
	directSubinterfaces map[string][]*Class
	directImplementors map[string][]*Class
}

// NewHierarchy builds the reverse-edge indices over the given classes.
func NewHierarchy(all []*Class) *Hierarchy {
	h := &Hierarchy{
		classes:             make(map[string]*Class, len(all)),
		directSubclasses:    make(map[string][]*Class),
		directSubinterfaces: make(map[string][]*Class),
		directImplementors:  make(map[string][]*Class),
	}
	for _, c := range all {
		h.classes[c.Name] = c
	}
	for _, c := range all {
		if c.IsInterface {
			for _, super := range c.Interfaces {
				h.directSubinterfaces[super] = append(h.directSubinterfaces[super], c)
			}
			continue
		}
		if c.Super != "" {
			h.directSubclasses[c.Super] = append(h.directSubclasses[c.Super], c)
		}
		for _, iface := range c.Interfaces {
			h.directImplementors[iface] = append(h.directImplementors[iface], c)
		}
	}
	return h
}

func (h *Hierarchy) ClassByName(name string) *Class { return h.classes[name] }

func (h *Hierarchy) DirectSubclassesOf(name string) []*Class { return h.directSubclasses[name] }

func (h *Hierarchy) DirectSubinterfacesOf(name string) []*Class { return h.directSubinterfaces[name] }

func (h *Hierarchy) DirectImplementorsOf(name string) []*Class { return h.directImplementors[name] }

func (h *Hierarchy) SuperClass(name string) *Class {
	c := h.classes[name]
	if c == nil || c.Super == "" {
		return nil
	}
	return h.classes[c.Super]
}

// DeclaredMethod returns the method subsig declared directly on class
// (not inherited), or nil.
func (h *Hierarchy) DeclaredMethod(class, subsig string) *ir.Method {
	c := h.classes[class]
	if c == nil {
		return nil
	}
	return c.Methods[subsig]
}

func (h *Hierarchy) IsAbstract(class, subsig string) bool {
	m := h.DeclaredMethod(class, subsig)
	return m != nil && m.Abstract
}

// Resolve implements the single-target dispatch of §4.6 "Dispatch":
// starting at class, look up subsig; if declared and not abstract, return
// it; else ascend the superclass chain. Returns nil when no concrete
// override exists (§7 "Unresolvable dispatch").
func (h *Hierarchy) Resolve(class, subsig string) *ir.Method {
	for name := class; name != ""; {
		c := h.classes[name]
		if c == nil {
			return nil
		}
		if m := c.Methods[subsig]; m != nil && !m.Abstract {
			return m
		}
		name = c.Super
	}
	return nil
}

// SubclassClosure returns class and every class reachable through the
// subclass/subinterface/implementor relations — the dispatch closure
// §4.6/§4.8 use for virtual and interface calls.
func (h *Hierarchy) SubclassClosure(class string) []*Class {
	seen := make(map[string]bool)
	var out []*Class
	var walk func(name string)
	walk = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		c := h.classes[name]
		if c == nil {
			return
		}
		out = append(out, c)
		for _, sub := range h.directSubclasses[name] {
			walk(sub.Name)
		}
		for _, sub := range h.directSubinterfaces[name] {
			walk(sub.Name)
		}
		for _, impl := range h.directImplementors[name] {
			walk(impl.Name)
		}
	}
	walk(class)
	return out
}
