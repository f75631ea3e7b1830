// Package diag implements §7's accumulate-and-continue diagnostic policy:
// IR inconsistencies and unresolvable dispatch are warnings that skip the
// offending construct and keep the analysis running, while the first one
// encountered is still remembered as the run's overall error, mirroring
// go/types/check.go's checker.firsterr / check.errorf split between
// "keep going" and "the run ultimately failed".
package diag

import "fmt"

// Diagnostic is one recorded warning: a position label (e.g. a method and
// statement index) plus a message.
type Diagnostic struct {
	At      string
	Message string
}

func (d Diagnostic) String() string { return fmt.Sprintf("%s: %s", d.At, d.Message) }

// Log accumulates diagnostics raised during an analysis run without
// aborting it (§7 "flagged with a warning; the offending call/statement
// is skipped"). The zero Log is ready to use.
type Log struct {
	diags    []Diagnostic
	firsterr error
}

// Warnf records a diagnostic at at, formatted like fmt.Sprintf.
func (l *Log) Warnf(at, format string, args ...any) {
	d := Diagnostic{At: at, Message: fmt.Sprintf(format, args...)}
	l.diags = append(l.diags, d)
	if l.firsterr == nil {
		l.firsterr = fmt.Errorf("%s", d.String())
	}
}

// Diagnostics returns every warning recorded so far, in recording order.
func (l *Log) Diagnostics() []Diagnostic { return l.diags }

// Err returns the first diagnostic recorded, as an error, or nil if none
// were. Callers that want "warn and continue" ignore this; callers that
// want "the first problem is fatal to this run" (§7's configuration-error
// case is handled separately via plain returned errors) can check it once
// the run completes.
func (l *Log) Err() error { return l.firsterr }

// Empty reports whether no diagnostics were recorded.
func (l *Log) Empty() bool { return len(l.diags) == 0 }
