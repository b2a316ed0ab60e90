package solver

import "github.com/tactic-labs/tactic/internal/term"

// congruence is a small union-find over the subterms mentioned by the
// atoms, with congruence propagation: applications of the same symbol to
// pairwise congruent arguments are merged. Terms are keyed by their
// canonical string rendering.
type congruence struct {
	parent map[string]string
	terms  map[string]term.Expr
}

func newCongruence(atoms []term.Expr) *congruence {
	cc := &congruence{parent: map[string]string{}, terms: map[string]term.Expr{}}
	for _, a := range atoms {
		switch x := a.(type) {
		case term.EqExpr:
			cc.add(x.L)
			cc.add(x.R)
		case term.BinaryExpr:
			if x.Op.IsOrder() {
				cc.add(x.L)
				cc.add(x.R)
			}
		case term.DistinctExpr:
			for _, arg := range x.Args {
				cc.add(arg)
			}
		case term.ApplyExpr:
			for _, arg := range x.Args {
				cc.add(arg)
			}
		}
	}
	return cc
}

func (cc *congruence) add(e term.Expr) {
	k := e.String()
	if _, ok := cc.terms[k]; ok {
		return
	}
	cc.terms[k] = e
	cc.parent[k] = k
	switch x := e.(type) {
	case term.ApplyExpr:
		for _, a := range x.Args {
			cc.add(a)
		}
	case term.BinaryExpr:
		cc.add(x.L)
		cc.add(x.R)
	case term.SelectExpr:
		cc.add(x.Arr)
		cc.add(x.Idx)
	}
}

func (cc *congruence) findKey(k string) string {
	if _, ok := cc.parent[k]; !ok {
		cc.parent[k] = k
	}
	for cc.parent[k] != k {
		cc.parent[k] = cc.parent[cc.parent[k]]
		k = cc.parent[k]
	}
	return k
}

func (cc *congruence) find(e term.Expr) string {
	cc.add(e)
	return cc.findKey(e.String())
}

func (cc *congruence) union(a, b term.Expr) {
	ra, rb := cc.find(a), cc.find(b)
	if ra != rb {
		cc.parent[ra] = rb
	}
}

func (cc *congruence) congruent(a, b term.Expr) bool {
	return cc.find(a) == cc.find(b)
}

// close propagates congruence to a fixpoint.
func (cc *congruence) close() {
	for {
		changed := false
		keys := make([]string, 0, len(cc.terms))
		for k := range cc.terms {
			keys = append(keys, k)
		}
		for i := 0; i < len(keys); i++ {
			for j := 0; j < i; j++ {
				a, b := cc.terms[keys[i]], cc.terms[keys[j]]
				if cc.findKey(keys[i]) == cc.findKey(keys[j]) {
					continue
				}
				if cc.sameShape(a, b) {
					cc.parent[cc.findKey(keys[i])] = cc.findKey(keys[j])
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

// sameShape reports whether two terms have the same head symbol and
// pairwise congruent children.
func (cc *congruence) sameShape(a, b term.Expr) bool {
	switch x := a.(type) {
	case term.ApplyExpr:
		y, ok := b.(term.ApplyExpr)
		if !ok || x.Fn != y.Fn || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !cc.congruent(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case term.BinaryExpr:
		y, ok := b.(term.BinaryExpr)
		return ok && x.Op == y.Op && !x.Op.IsOrder() &&
			cc.congruent(x.L, y.L) && cc.congruent(x.R, y.R)
	case term.SelectExpr:
		y, ok := b.(term.SelectExpr)
		return ok && cc.congruent(x.Arr, y.Arr) && cc.congruent(x.Idx, y.Idx)
	default:
		return false
	}
}
