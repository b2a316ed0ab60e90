// Package solver is the decision-procedure backend bundled with the
// module. It implements kernel.Solver with a bounded, best-effort validity
// check: the goal is simplified, its boolean skeleton is abstracted to
// atoms, and all atom assignments are enumerated; falsifying assignments
// are discarded when ground evaluation, congruence closure over
// equalities, order-chain reasoning or datatype variant semantics show
// them infeasible. Universally quantified goals are additionally retried
// with the quantifier opened.
//
// The backend is deliberately pluggable: anything implementing
// kernel.Solver can replace it.
package solver

import (
	"time"

	"github.com/tactic-labs/tactic/internal/kernel"
	"github.com/tactic-labs/tactic/internal/term"
)

const defaultMaxAtoms = 16

// Options bound the search.
type Options struct {
	// MaxAtoms caps the number of distinct atoms enumerated; goals beyond
	// the cap are reported undecided.
	MaxAtoms int
}

// Solver is the bundled decision procedure.
type Solver struct {
	opts Options
}

// New returns a solver with default options.
func New() *Solver {
	return NewWithOptions(Options{})
}

// NewWithOptions returns a solver with the given options.
func NewWithOptions(opts Options) *Solver {
	if opts.MaxAtoms <= 0 {
		opts.MaxAtoms = defaultMaxAtoms
	}
	return &Solver{opts: opts}
}

// Decide reports whether the conjunction of support implies target.
func (s *Solver) Decide(target term.Expr, support []term.Expr, timeout time.Duration) kernel.Decision {
	deadline := time.Now().Add(timeout)
	d := s.decideOnce(target, support, deadline)
	if d.Verdict == kernel.VerdictProved || d.Verdict == kernel.VerdictTimeout {
		return d
	}
	// Quantified goals often need the binder opened: retry with the
	// target's leading universals replaced by fresh constants, and any
	// support universal whose binders line up instantiated to match.
	t2, supp2, opened := openUniversals(target, support)
	if !opened {
		return d
	}
	return s.decideOnce(t2, supp2, deadline)
}

func (s *Solver) decideOnce(target term.Expr, support []term.Expr, deadline time.Time) kernel.Decision {
	goal := target
	if len(support) > 0 {
		goal = term.Implies(term.And(support...), target)
	}
	g := term.Simplify(goal)
	if b, ok := g.(term.BoolVal); ok {
		if b.Val {
			return kernel.Decision{Verdict: kernel.VerdictProved}
		}
		return kernel.Decision{Verdict: kernel.VerdictDisproved, Detail: "goal simplifies to false"}
	}

	atoms := collectAtoms(g)
	if len(atoms) > s.opts.MaxAtoms {
		return kernel.Decision{
			Verdict: kernel.VerdictUnknown,
			Detail:  "too many atoms to enumerate",
		}
	}

	feas := newFeasibility(atoms)
	n := len(atoms)
	for mask := 0; mask < 1<<uint(n); mask++ {
		if time.Now().After(deadline) {
			return kernel.Decision{Verdict: kernel.VerdictTimeout, Detail: "assignment enumeration exceeded budget"}
		}
		asn := make([]bool, n)
		for i := 0; i < n; i++ {
			asn[i] = mask&(1<<uint(i)) != 0
		}
		if evalSkeleton(g, atoms, asn) {
			continue
		}
		if !feas.feasible(asn) {
			continue
		}
		cm := &kernel.Countermodel{Atoms: make([]kernel.AtomValue, n)}
		for i, a := range atoms {
			cm.Atoms[i] = kernel.AtomValue{Atom: a, Value: asn[i]}
		}
		return kernel.Decision{Verdict: kernel.VerdictDisproved, Countermodel: cm}
	}
	return kernel.Decision{Verdict: kernel.VerdictProved}
}

// isConnective reports whether the node belongs to the boolean skeleton
// rather than being an atom. Equality between boolean-sorted operands is a
// bi-implication and counts as skeleton.
func isConnective(e term.Expr) bool {
	switch x := e.(type) {
	case term.NotExpr, term.AndExpr, term.OrExpr, term.ImpliesExpr:
		return true
	case term.EqExpr:
		return term.SortEqual(x.L.Sort(), term.BoolSort{})
	default:
		return false
	}
}

func collectAtoms(e term.Expr) []term.Expr {
	var atoms []term.Expr
	var walk func(term.Expr)
	walk = func(e term.Expr) {
		if !isConnective(e) {
			if _, ok := e.(term.BoolVal); ok {
				return
			}
			for _, a := range atoms {
				if term.Equal(a, e) {
					return
				}
			}
			atoms = append(atoms, e)
			return
		}
		switch x := e.(type) {
		case term.NotExpr:
			walk(x.X)
		case term.AndExpr:
			for _, a := range x.Args {
				walk(a)
			}
		case term.OrExpr:
			for _, a := range x.Args {
				walk(a)
			}
		case term.ImpliesExpr:
			walk(x.Hyp)
			walk(x.Concl)
		case term.EqExpr:
			walk(x.L)
			walk(x.R)
		}
	}
	walk(e)
	return atoms
}

func evalSkeleton(e term.Expr, atoms []term.Expr, asn []bool) bool {
	if b, ok := e.(term.BoolVal); ok {
		return b.Val
	}
	if !isConnective(e) {
		for i, a := range atoms {
			if term.Equal(a, e) {
				return asn[i]
			}
		}
		return false
	}
	switch x := e.(type) {
	case term.NotExpr:
		return !evalSkeleton(x.X, atoms, asn)
	case term.AndExpr:
		for _, a := range x.Args {
			if !evalSkeleton(a, atoms, asn) {
				return false
			}
		}
		return true
	case term.OrExpr:
		for _, a := range x.Args {
			if evalSkeleton(a, atoms, asn) {
				return true
			}
		}
		return false
	case term.ImpliesExpr:
		return !evalSkeleton(x.Hyp, atoms, asn) || evalSkeleton(x.Concl, atoms, asn)
	case term.EqExpr:
		return evalSkeleton(x.L, atoms, asn) == evalSkeleton(x.R, atoms, asn)
	default:
		return false
	}
}

// openUniversals prepares the quantifier-opened retry: the target's
// leading universal binders are replaced by fresh constants, and every
// support whose outermost universal binders match the target's by name and
// sort is instantiated at the same constants.
func openUniversals(target term.Expr, support []term.Expr) (term.Expr, []term.Expr, bool) {
	type key struct {
		name string
		sort term.Sort
	}
	repl := map[key]term.Expr{}
	opened := false
	for {
		q, ok := target.(term.QuantExpr)
		if !ok || !q.Universal {
			break
		}
		orig := q.Vars
		fresh, body := term.Open(q, true)
		for i, v := range orig {
			repl[key{name: v.Name, sort: v.Sort()}] = fresh[i]
		}
		target = body
		opened = true
	}
	if !opened {
		return target, support, false
	}

	out := make([]term.Expr, len(support))
	for i, s := range support {
		out[i] = s
		for {
			q, ok := out[i].(term.QuantExpr)
			if !ok || !q.Universal {
				break
			}
			pairs := make([]term.Pair, 0, len(q.Vars))
			complete := true
			for _, v := range q.Vars {
				t, ok := repl[key{name: v.Name, sort: v.Sort()}]
				if !ok {
					complete = false
					break
				}
				pairs = append(pairs, term.Pair{Old: v, New: t})
			}
			if !complete {
				break
			}
			out[i] = term.Substitute(q.Body, pairs...)
		}
	}
	return target, out, true
}
