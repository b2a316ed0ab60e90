package tactic

import (
	"fmt"

	"github.com/tactic-labs/tactic/internal/kernel"
	"github.com/tactic-labs/tactic/internal/term"
)

// ForallIntro proves a universal statement by opening it at fresh
// constants and handing the opened body to cb. The callback must return
// a certificate of exactly that body; the certificate is then closed
// back over the quantifier.
func ForallIntro(q term.Expr, cb func(body term.Expr, vs []term.Const) (*kernel.Proof, error)) (*kernel.Proof, error) {
	vs, ab, err := kernel.Herb(q)
	if err != nil {
		return nil, err
	}
	opened := ab.Thm().(term.ImpliesExpr).Hyp
	a, err := cb(opened, vs)
	if err != nil {
		return nil, err
	}
	return kernel.Modus(ab, a)
}

// SubstProof reindexes a proven universal into a new binder context:
// given |- forall xs, body and one replacement term per xs, each built
// over the constants vs, it returns |- forall vs, body[replacements].
// With no vs the result is the plain instantiated body.
func SubstProof(pf *kernel.Proof, vs []term.Const, replacements []term.Expr) (*kernel.Proof, error) {
	quant, ok := pf.Thm().(term.QuantExpr)
	if !ok || !quant.Universal {
		return nil, fmt.Errorf("subst: not a universal theorem: %s", pf.Thm())
	}
	if len(replacements) != len(quant.Vars) {
		return nil, fmt.Errorf("subst: %d terms for %d bound variables", len(replacements), len(quant.Vars))
	}
	if len(vs) == 0 {
		return kernel.Instantiate(replacements, pf)
	}
	pairs := make([]term.Pair, len(replacements))
	for i, v := range quant.Vars {
		pairs[i] = term.Pair{Old: v, New: replacements[i]}
	}
	reindexed := term.ForAll(vs, term.Substitute(quant.Body, pairs...))
	fresh, ab, err := kernel.Herb(reindexed)
	if err != nil {
		return nil, err
	}
	renames := make([]term.Pair, len(vs))
	for i, v := range vs {
		renames[i] = term.Pair{Old: v, New: fresh[i]}
	}
	at := make([]term.Expr, len(replacements))
	for i, t := range replacements {
		at[i] = term.Substitute(t, renames...)
	}
	a, err := kernel.Instantiate(at, pf)
	if err != nil {
		return nil, err
	}
	return kernel.Modus(ab, a)
}

// SimpProof proves that an expression equals its locally simplified
// form.
func (s *Session) SimpProof(e term.Expr) (*kernel.Proof, error) {
	return kernel.Prove(s.solver, term.Eq(e, term.Simplify(e)), nil, s.timeout)
}
