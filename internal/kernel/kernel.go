package kernel

import (
	"fmt"
	"time"

	"github.com/tactic-labs/tactic/internal/term"
)

// Prove certifies target using the supporting certificates, delegating
// validity checking to the solver. The resulting proof is tainted if any
// supporting proof was admitted.
func Prove(s Solver, target term.Expr, by []*Proof, timeout time.Duration) (*Proof, error) {
	support := make([]term.Expr, len(by))
	for i, p := range by {
		support[i] = p.Thm()
	}
	d := s.Decide(target, support, timeout)
	switch d.Verdict {
	case VerdictProved:
		return &Proof{thm: target, admitted: anyAdmitted(by)}, nil
	case VerdictTimeout:
		return nil, &DecisionError{Kind: KindTimeout, Target: target, Detail: d.Detail}
	default:
		return nil, &DecisionError{
			Kind:         KindDisproved,
			Target:       target,
			Countermodel: d.Countermodel,
			Detail:       d.Detail,
		}
	}
}

// Admit certifies target without verification. The proof is permanently
// marked admitted and taints everything derived from it.
func Admit(target term.Expr) *Proof {
	return &Proof{thm: target, admitted: true}
}

// Herb opens a universal quantifier with fresh placeholders (Herbrand
// opening). It returns the placeholders and a certificate of
// body[fresh] -> forall vars, body: proving the opened body at arbitrary
// fresh constants proves the quantified form.
func Herb(q term.Expr) ([]term.Const, *Proof, error) {
	quant, ok := q.(term.QuantExpr)
	if !ok || !quant.Universal {
		return nil, nil, fmt.Errorf("herb: not a universal quantifier: %s", q)
	}
	vs, body := term.Open(quant, true)
	return vs, &Proof{thm: term.Implies(body, q)}, nil
}

// Einstan eliminates an existential with fresh placeholders. It returns
// the placeholders and a certificate of exists vars, body -> body[fresh],
// valid because the fresh constants name the witnesses.
func Einstan(q term.Expr) ([]term.Const, *Proof, error) {
	quant, ok := q.(term.QuantExpr)
	if !ok || quant.Universal {
		return nil, nil, fmt.Errorf("einstan: not an existential quantifier: %s", q)
	}
	vs, body := term.Open(quant, true)
	return vs, &Proof{thm: term.Implies(q, body)}, nil
}

// Instantiate specializes a proven universal at the given terms, yielding
// a certificate of the instantiated body.
func Instantiate(ts []term.Expr, pf *Proof) (*Proof, error) {
	body, err := instantiateBody(ts, pf.Thm())
	if err != nil {
		return nil, err
	}
	return &Proof{thm: body, admitted: pf.IsAdmitted()}, nil
}

// Specialize builds a certificate of q -> body[ts] for a universally
// quantified q, which need not itself be proven.
func Specialize(ts []term.Expr, q term.Expr) (*Proof, error) {
	body, err := instantiateBody(ts, q)
	if err != nil {
		return nil, err
	}
	return &Proof{thm: term.Implies(q, body)}, nil
}

func instantiateBody(ts []term.Expr, q term.Expr) (term.Expr, error) {
	quant, ok := q.(term.QuantExpr)
	if !ok || !quant.Universal {
		return nil, fmt.Errorf("instantiate: not a universal quantifier: %s", q)
	}
	if len(ts) != len(quant.Vars) {
		return nil, fmt.Errorf("instantiate: %d terms for %d bound variables", len(ts), len(quant.Vars))
	}
	pairs := make([]term.Pair, len(ts))
	for i, v := range quant.Vars {
		if !term.SortEqual(v.Sort(), ts[i].Sort()) {
			return nil, fmt.Errorf("instantiate: sort mismatch at %s: %s vs %s", v, v.Sort(), ts[i].Sort())
		}
		pairs[i] = term.Pair{Old: v, New: ts[i]}
	}
	return term.Substitute(quant.Body, pairs...), nil
}

// Forget builds a certificate of body[ts] -> exists vars, body: exhibiting
// witnesses proves the existential.
func Forget(ts []term.Expr, q term.Expr) (*Proof, error) {
	quant, ok := q.(term.QuantExpr)
	if !ok || quant.Universal {
		return nil, fmt.Errorf("forget: not an existential quantifier: %s", q)
	}
	universal := term.QuantExpr{Universal: true, Vars: quant.Vars, Body: quant.Body}
	body, err := instantiateBody(ts, universal)
	if err != nil {
		return nil, err
	}
	return &Proof{thm: term.Implies(body, q)}, nil
}

// Modus combines an implication certificate with a certificate of its
// hypothesis into a certificate of its conclusion.
func Modus(ab, a *Proof) (*Proof, error) {
	imp, ok := ab.Thm().(term.ImpliesExpr)
	if !ok {
		return nil, fmt.Errorf("modus: not an implication: %s", ab.Thm())
	}
	if !term.Equal(imp.Hyp, a.Thm()) {
		return nil, fmt.Errorf("modus: hypothesis %s does not match %s", imp.Hyp, a.Thm())
	}
	return &Proof{thm: imp.Concl, admitted: ab.IsAdmitted() || a.IsAdmitted()}, nil
}

// Defn returns the definitional axiom forall vars, d(vars) == body for a
// declaration created with term.Define.
func Defn(d *term.FuncDecl) (*Proof, error) {
	vars, body, ok := d.Definition()
	if !ok {
		return nil, fmt.Errorf("defn: %s has no definition", d.Name)
	}
	args := make([]term.Expr, len(vars))
	for i, v := range vars {
		args[i] = v
	}
	return &Proof{thm: term.ForAll(vars, term.Eq(d.Apply(args...), body))}, nil
}

// Extensionality returns the array extensionality axiom for l and r, which
// must share an array sort: if the two agree at every index they are equal.
// The returned index constant is fresh, so callers can open the premise with
// Herb without a clash.
func Extensionality(l, r term.Expr) (term.Const, *Proof, error) {
	asort, ok := l.Sort().(term.ArraySort)
	if !ok {
		return term.Const{}, nil, fmt.Errorf("extensionality: %s is not array-sorted", l)
	}
	if !term.SortEqual(l.Sort(), r.Sort()) {
		return term.Const{}, nil, fmt.Errorf("extensionality: sort mismatch: %s vs %s", l.Sort(), r.Sort())
	}
	i := term.FreshConst("i", asort.Dom)
	premise := term.ForAll([]term.Const{i}, term.Eq(term.Select(l, i), term.Select(r, i)))
	return i, &Proof{thm: term.Implies(premise, term.Eq(l, r))}, nil
}

// Induction returns the structural induction axiom for x's datatype sort,
// instantiated at the motive: the conjunction of the per-variant
// obligations implies motive(x). A variant's obligation universally
// quantifies its fields and assumes the motive for each recursive field.
func Induction(x term.Expr, motive func(term.Expr) term.Expr) (*Proof, error) {
	dsort, ok := x.Sort().(*term.DatatypeSort)
	if !ok {
		return nil, fmt.Errorf("induction: %s is not datatype-sorted", x)
	}
	obligations := make([]term.Expr, dsort.NumVariants())
	for i := 0; i < dsort.NumVariants(); i++ {
		v := dsort.Variant(i)
		fields := make([]term.Const, v.NumFields())
		args := make([]term.Expr, v.NumFields())
		var hyps []term.Expr
		for j := 0; j < v.NumFields(); j++ {
			acc := v.Accessor(j)
			fields[j] = term.FreshConst(acc.Name, acc.Ret)
			args[j] = fields[j]
			if term.SortEqual(acc.Ret, dsort) {
				hyps = append(hyps, motive(fields[j]))
			}
		}
		concl := motive(v.Constructor().Apply(args...))
		if len(hyps) > 0 {
			concl = term.Implies(term.And(hyps...), concl)
		}
		obligations[i] = term.ForAll(fields, concl)
	}
	return &Proof{thm: term.Implies(term.And(obligations...), motive(x))}, nil
}
