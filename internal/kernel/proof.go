// Package kernel is the trusted certificate layer. A Proof can only be
// minted here: by a successful decision-procedure call (Prove), by the
// sound structural combinators (Herb, Einstan, Instantiate, Specialize,
// Forget, Modus, Defn, Induction), or by the explicitly tainting Admit.
// The tactic machinery orchestrates calls into this package but can never
// fabricate a certificate itself.
package kernel

import (
	"strings"
	"time"

	"github.com/tactic-labs/tactic/internal/term"
)

// Proof is an unforgeable certificate that its theorem holds. The zero
// value is invalid; proofs are only created inside this package.
type Proof struct {
	thm      term.Expr
	admitted bool
}

// Thm returns the certified theorem.
func (p *Proof) Thm() term.Expr {
	return p.thm
}

// IsAdmitted reports whether the certificate, or any certificate it was
// combined from, was admitted without verification.
func (p *Proof) IsAdmitted() bool {
	return p.admitted
}

func (p *Proof) String() string {
	if p.admitted {
		return "|- " + p.thm.String() + " [admitted]"
	}
	return "|- " + p.thm.String()
}

func anyAdmitted(by []*Proof) bool {
	for _, p := range by {
		if p.IsAdmitted() {
			return true
		}
	}
	return false
}

// Verdict is a decision procedure's answer.
type Verdict int

const (
	// VerdictProved means the implication from the support to the target
	// is valid.
	VerdictProved Verdict = iota
	// VerdictDisproved means a countermodel was found.
	VerdictDisproved
	// VerdictTimeout means the budget was exhausted before an answer.
	VerdictTimeout
	// VerdictUnknown means the procedure could not decide within its
	// fragment.
	VerdictUnknown
)

func (v Verdict) String() string {
	switch v {
	case VerdictProved:
		return "proved"
	case VerdictDisproved:
		return "disproved"
	case VerdictTimeout:
		return "timeout"
	case VerdictUnknown:
		return "unknown"
	default:
		return "?"
	}
}

// AtomValue assigns a truth value to one atomic formula of a countermodel.
type AtomValue struct {
	Atom  term.Expr
	Value bool
}

// Countermodel is a falsifying assignment to the atoms of a target.
type Countermodel struct {
	Atoms []AtomValue
}

func (c *Countermodel) String() string {
	if c == nil || len(c.Atoms) == 0 {
		return "(no model)"
	}
	parts := make([]string, len(c.Atoms))
	for i, a := range c.Atoms {
		if a.Value {
			parts[i] = a.Atom.String()
		} else {
			parts[i] = "!" + a.Atom.String()
		}
	}
	return strings.Join(parts, ", ")
}

// Decision is the full answer of a decision-procedure call.
type Decision struct {
	Verdict      Verdict
	Countermodel *Countermodel
	Detail       string
}

// Solver is the decision procedure contract. Decide reports whether the
// conjunction of support implies target. The call blocks for at most
// timeout, measured against a monotonic clock from call start.
type Solver interface {
	Decide(target term.Expr, support []term.Expr, timeout time.Duration) Decision
}
