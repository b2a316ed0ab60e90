// Package rewrite implements the pattern matching used by goal-directed
// rewriting and backward rule application. Matching is one-sided syntactic
// unification: pattern variables bind to subterms of the target, bindings
// must be consistent, and no binding may capture a placeholder bound by a
// quantifier inside the target. The search order is deterministic:
// left-to-right, outermost-first, first match wins.
package rewrite

import (
	"fmt"

	"github.com/tactic-labs/tactic/internal/term"
)

// Subst maps pattern variables to the subterms they matched.
type Subst map[term.Const]term.Expr

// Rule is an oriented equality: LHS rewrites to RHS under a binding of
// Vars.
type Rule struct {
	Vars []term.Const
	LHS  term.Expr
	RHS  term.Expr
}

// ImpRule is an implication read backward: matching Concl against a goal
// leaves Hyp to prove. A non-implication theorem has Hyp true.
type ImpRule struct {
	Vars  []term.Const
	Hyp   term.Expr
	Concl term.Expr
}

// NoMatchError reports that a pattern has no occurrence in a target.
type NoMatchError struct {
	Pattern term.Expr
	Target  term.Expr
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no occurrence of pattern %s in %s", e.Pattern, e.Target)
}

// OfEquality derives a rewrite rule from an equality theorem, optionally
// universally quantified. With rev set the orientation is flipped.
func OfEquality(thm term.Expr, rev bool) (Rule, error) {
	vars, body := stripForAll(thm)
	eq, ok := body.(term.EqExpr)
	if !ok {
		return Rule{}, fmt.Errorf("not an equality: %s", thm)
	}
	lhs, rhs := eq.L, eq.R
	if rev {
		lhs, rhs = rhs, lhs
	}
	return Rule{Vars: vars, LHS: lhs, RHS: rhs}, nil
}

// OfImplication derives a backward rule from a theorem, optionally
// universally quantified. Theorems that are not implications become rules
// with a trivial hypothesis.
func OfImplication(thm term.Expr) ImpRule {
	vars, body := stripForAll(thm)
	if imp, ok := body.(term.ImpliesExpr); ok {
		return ImpRule{Vars: vars, Hyp: imp.Hyp, Concl: imp.Concl}
	}
	return ImpRule{Vars: vars, Hyp: term.True(), Concl: body}
}

func stripForAll(e term.Expr) ([]term.Const, term.Expr) {
	var vars []term.Const
	for {
		q, ok := e.(term.QuantExpr)
		if !ok || !q.Universal {
			return vars, e
		}
		opened, body := term.Open(q, true)
		vars = append(vars, opened...)
		e = body
	}
}

// Match attempts to match pattern against the whole target. Pattern
// variables from vars bind to target subterms; all other structure must
// agree up to alpha equivalence.
func Match(vars []term.Const, pattern, target term.Expr) (Subst, bool) {
	m := &matcher{vars: varSet(vars), subst: Subst{}}
	if !m.match(pattern, target, nil) {
		return nil, false
	}
	return m.subst, true
}

// SearchFirst finds the first subterm of target matched by pattern, in
// left-to-right outermost-first order. The returned occurrence is the
// matched subterm; bindings never contain placeholders bound by a
// quantifier enclosing the occurrence.
func SearchFirst(vars []term.Const, pattern, target term.Expr) (term.Expr, Subst, bool) {
	return searchFirst(varSet(vars), pattern, target, nil)
}

// Backward matches a rule's conclusion against the entire goal and, on
// success, returns the binding and the instantiated hypothesis left to
// prove.
func Backward(r ImpRule, goal term.Expr) (Subst, term.Expr, bool) {
	s, ok := Match(r.Vars, r.Concl, goal)
	if !ok {
		return nil, nil, false
	}
	return s, Apply(s, r.Hyp), true
}

// Apply substitutes a binding into an expression.
func Apply(s Subst, e term.Expr) term.Expr {
	pairs := make([]term.Pair, 0, len(s))
	for v, t := range s {
		pairs = append(pairs, term.Pair{Old: v, New: t})
	}
	return term.Substitute(e, pairs...)
}

// Bindings returns the bound terms for vars in order. It fails if any
// variable is unbound, which happens when a rule variable occurs only on
// the replacement side.
func (s Subst) Bindings(vars []term.Const) ([]term.Expr, bool) {
	out := make([]term.Expr, len(vars))
	for i, v := range vars {
		t, ok := s[v]
		if !ok {
			return nil, false
		}
		out[i] = t
	}
	return out, true
}

func varSet(vars []term.Const) map[term.Const]bool {
	set := make(map[term.Const]bool, len(vars))
	for _, v := range vars {
		set[v] = true
	}
	return set
}

func searchFirst(vars map[term.Const]bool, pattern, target term.Expr, scope []term.Const) (term.Expr, Subst, bool) {
	m := &matcher{vars: vars, subst: Subst{}, scope: scope}
	if m.match(pattern, target, nil) {
		return target, m.subst, true
	}
	for _, child := range children(target) {
		inner := scope
		if q, ok := target.(term.QuantExpr); ok {
			inner = append(append([]term.Const(nil), scope...), q.Vars...)
		}
		if occ, s, ok := searchFirst(vars, pattern, child, inner); ok {
			return occ, s, ok
		}
	}
	return nil, nil, false
}

func children(e term.Expr) []term.Expr {
	switch x := e.(type) {
	case term.NotExpr:
		return []term.Expr{x.X}
	case term.AndExpr:
		return x.Args
	case term.OrExpr:
		return x.Args
	case term.ImpliesExpr:
		return []term.Expr{x.Hyp, x.Concl}
	case term.EqExpr:
		return []term.Expr{x.L, x.R}
	case term.DistinctExpr:
		return x.Args
	case term.BinaryExpr:
		return []term.Expr{x.L, x.R}
	case term.QuantExpr:
		return []term.Expr{x.Body}
	case term.ApplyExpr:
		return x.Args
	case term.SelectExpr:
		return []term.Expr{x.Arr, x.Idx}
	default:
		return nil
	}
}

type matcher struct {
	vars  map[term.Const]bool
	subst Subst
	// scope holds target-side quantifier placeholders enclosing the
	// current occurrence; bindings containing them would capture.
	scope []term.Const
}

// binderPair aligns one pattern-side binder with one target-side binder.
type binderPair struct {
	p term.Const
	t term.Const
}

func (m *matcher) match(pattern, target term.Expr, binders []binderPair) bool {
	if c, ok := pattern.(term.Const); ok && m.vars[c] {
		// Pattern variable: bind, or agree with the previous binding.
		if m.capturesBound(target, binders) {
			return false
		}
		if prev, ok := m.subst[c]; ok {
			return term.Equal(prev, target)
		}
		m.subst[c] = target
		return true
	}

	switch p := pattern.(type) {
	case term.BoolVal, term.IntVal:
		return term.Equal(pattern, target)

	case term.Const:
		t, ok := target.(term.Const)
		if !ok {
			return false
		}
		for _, bp := range binders {
			if bp.p == p || bp.t == t {
				return bp.p == p && bp.t == t
			}
		}
		return p == t

	case term.NotExpr:
		t, ok := target.(term.NotExpr)
		return ok && m.match(p.X, t.X, binders)

	case term.AndExpr:
		t, ok := target.(term.AndExpr)
		return ok && m.matchArgs(p.Args, t.Args, binders)

	case term.OrExpr:
		t, ok := target.(term.OrExpr)
		return ok && m.matchArgs(p.Args, t.Args, binders)

	case term.ImpliesExpr:
		t, ok := target.(term.ImpliesExpr)
		return ok && m.match(p.Hyp, t.Hyp, binders) && m.match(p.Concl, t.Concl, binders)

	case term.EqExpr:
		t, ok := target.(term.EqExpr)
		return ok && m.match(p.L, t.L, binders) && m.match(p.R, t.R, binders)

	case term.DistinctExpr:
		t, ok := target.(term.DistinctExpr)
		return ok && m.matchArgs(p.Args, t.Args, binders)

	case term.BinaryExpr:
		t, ok := target.(term.BinaryExpr)
		return ok && p.Op == t.Op && m.match(p.L, t.L, binders) && m.match(p.R, t.R, binders)

	case term.QuantExpr:
		t, ok := target.(term.QuantExpr)
		if !ok || p.Universal != t.Universal || len(p.Vars) != len(t.Vars) {
			return false
		}
		inner := append([]binderPair(nil), binders...)
		for i := range p.Vars {
			if !term.SortEqual(p.Vars[i].Sort(), t.Vars[i].Sort()) {
				return false
			}
			inner = append(inner, binderPair{p: p.Vars[i], t: t.Vars[i]})
		}
		return m.match(p.Body, t.Body, inner)

	case term.ApplyExpr:
		t, ok := target.(term.ApplyExpr)
		return ok && p.Fn == t.Fn && m.matchArgs(p.Args, t.Args, binders)

	case term.SelectExpr:
		t, ok := target.(term.SelectExpr)
		return ok && m.match(p.Arr, t.Arr, binders) && m.match(p.Idx, t.Idx, binders)

	default:
		return false
	}
}

func (m *matcher) matchArgs(ps, ts []term.Expr, binders []binderPair) bool {
	if len(ps) != len(ts) {
		return false
	}
	for i := range ps {
		if !m.match(ps[i], ts[i], binders) {
			return false
		}
	}
	return true
}

// capturesBound reports whether t contains a placeholder that is bound in
// the target, either by an enclosing quantifier of the occurrence or by a
// quantifier inside the occurrence itself.
func (m *matcher) capturesBound(t term.Expr, binders []binderPair) bool {
	for _, c := range m.scope {
		if term.ContainsConst(t, c) {
			return true
		}
	}
	for _, bp := range binders {
		if term.ContainsConst(t, bp.t) {
			return true
		}
	}
	return false
}
