// Package heap implements the pluggable heap abstraction §3 specifies
// ("heap model (allocation-site)"): a Model maps an allocation-site
// statement to the abstract object(s) it may produce. AllocationSite is
// the one concrete model spec.md details in full; Model is an interface
// so an alternate abstraction (e.g. merging by allocated type) could be
// added without touching the solver.
package heap

import "github.com/taie-go/taie/ir"

// Model abstracts "what object does allocation site `new T @ site`
// denote". AllocationSite identity is the New statement itself, per §3
// ("Obj... identity = the New statement it originates from").
type Model interface {
	// Abstract returns the identity Model uses for an object allocated at
	// site. Two sites with the same Abstract() result are the same
	// abstract object.
	Abstract(site *ir.New) any
}

// AllocationSite is the one heap model spec.md specifies in detail: each
// New statement denotes its own distinct abstract object.
type AllocationSite struct{}

func (AllocationSite) Abstract(site *ir.New) any { return site }
