package tactic

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tactic-labs/tactic/internal/kernel"
	"github.com/tactic-labs/tactic/internal/rewrite"
	"github.com/tactic-labs/tactic/internal/term"
)

// Lemma is an interactive proof in progress: a stack of open goals (the last
// element is the current goal) plus the certificates accumulated by the
// tactics run so far. Tactics mutate the stack; Qed assembles the final
// proof from the certificates. Tactics are untrusted: a buggy tactic can at
// worst make Qed fail, never certify a falsehood.
type Lemma struct {
	session *Session
	target  term.Expr
	goals   []Goal
	lemmas  []*kernel.Proof
	pushed  *snapshot
}

// snapshot is one Push frame. Frames are immutable once created, so Copy
// can share the chain.
type snapshot struct {
	goals  []Goal
	lemmas []*kernel.Proof
	next   *snapshot
}

// Target returns the statement being proved.
func (l *Lemma) Target() term.Expr {
	return l.target
}

// Goals returns the open goal stack, bottom first.
func (l *Lemma) Goals() []Goal {
	return append([]Goal(nil), l.goals...)
}

// TopGoal returns the current goal. Trivially discharged goals on top of
// the stack are dropped first.
func (l *Lemma) TopGoal() (Goal, error) {
	for len(l.goals) > 0 && l.goals[len(l.goals)-1].IsEmpty() {
		l.goals = l.goals[:len(l.goals)-1]
	}
	if len(l.goals) == 0 {
		return Goal{}, &TacticError{Tactic: "top", Reason: "no open goals"}
	}
	return l.goals[len(l.goals)-1], nil
}

func (l *Lemma) String() string {
	g, err := l.TopGoal()
	if err != nil {
		return "all goals closed; call Qed()"
	}
	if len(l.goals) > 1 {
		return fmt.Sprintf("%s (+%d more)", g, len(l.goals)-1)
	}
	return g.String()
}

// replaceTop swaps the current goal for the given subgoals; gs[0] becomes
// the new current goal.
func (l *Lemma) replaceTop(gs ...Goal) {
	l.goals = l.goals[:len(l.goals)-1]
	for i := len(gs) - 1; i >= 0; i-- {
		l.goals = append(l.goals, gs[i])
	}
}

func (l *Lemma) record(pfs ...*kernel.Proof) {
	l.lemmas = append(l.lemmas, pfs...)
}

// Copy returns an independent lemma sharing no mutable state, for exploring
// alternative proofs of the same statement.
func (l *Lemma) Copy() *Lemma {
	return &Lemma{
		session: l.session,
		target:  l.target,
		goals:   append([]Goal(nil), l.goals...),
		lemmas:  append([]*kernel.Proof(nil), l.lemmas...),
		pushed:  l.pushed,
	}
}

// Push saves the proof state. Pop restores the most recent save. Saves
// nest.
func (l *Lemma) Push() {
	l.pushed = &snapshot{
		goals:  append([]Goal(nil), l.goals...),
		lemmas: append([]*kernel.Proof(nil), l.lemmas...),
		next:   l.pushed,
	}
}

// Pop restores the state saved by the matching Push.
func (l *Lemma) Pop() error {
	if l.pushed == nil {
		return &TacticError{Tactic: "pop", Reason: "nothing pushed"}
	}
	l.goals = append([]Goal(nil), l.pushed.goals...)
	l.lemmas = append([]*kernel.Proof(nil), l.pushed.lemmas...)
	l.pushed = l.pushed.next
	return nil
}

// Fixes opens a universally quantified goal, replacing the bound
// placeholders with fresh constants added to the goal signature. It returns
// the fresh constants.
func (l *Lemma) Fixes() ([]term.Const, error) {
	g, err := l.TopGoal()
	if err != nil {
		return nil, err
	}
	vs, cert, err := kernel.Herb(g.Target)
	if err != nil {
		return nil, tacticErr("fixes", g, "target is not a universal quantifier")
	}
	body := cert.Thm().(term.ImpliesExpr).Hyp
	l.record(cert)
	l.replaceTop(g.withSig(vs).withTarget(body))
	return vs, nil
}

// Fix is Fixes for a single bound variable.
func (l *Lemma) Fix() (term.Const, error) {
	g, err := l.TopGoal()
	if err != nil {
		return term.Const{}, err
	}
	q, ok := g.Target.(term.QuantExpr)
	if !ok || !q.Universal {
		return term.Const{}, tacticErr("fix", g, "target is not a universal quantifier")
	}
	if len(q.Vars) != 1 {
		return term.Const{}, tacticErr("fix", g, "quantifier binds %d variables; use Fixes", len(q.Vars))
	}
	vs, err := l.Fixes()
	if err != nil {
		return term.Const{}, err
	}
	return vs[0], nil
}

// Intros performs one introduction step on the goal target: universals are
// opened like Fixes, an implication moves its hypothesis into the context,
// a negation moves its operand into the context leaving false to prove, and
// a disjunction whose first disjunct is negated is read as the classical
// implication it encodes.
func (l *Lemma) Intros() error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	switch t := g.Target.(type) {
	case term.QuantExpr:
		if !t.Universal {
			return tacticErr("intros", g, "target is existential; use Exists")
		}
		_, err := l.Fixes()
		return err
	case term.ImpliesExpr:
		l.replaceTop(g.withHypTarget(t.Hyp, t.Concl))
		return nil
	case term.NotExpr:
		l.replaceTop(g.withHypTarget(t.X, term.False()))
		return nil
	case term.OrExpr:
		neg, ok := t.Args[0].(term.NotExpr)
		if !ok {
			return tacticErr("intros", g, "first disjunct is not negated")
		}
		l.replaceTop(g.withHypTarget(neg.X, term.Or(t.Args[1:]...)))
		return nil
	default:
		return tacticErr("intros", g, "nothing to introduce")
	}
}

// Cases splits on x. A boolean x yields two goals, the true branch current;
// a datatype-sorted x yields one goal per variant, in declaration order,
// each assuming the variant's recognizer.
func (l *Lemma) Cases(x term.Expr) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	switch s := x.Sort().(type) {
	case term.BoolSort:
		l.replaceTop(
			g.withHyp(term.Eq(x, term.True())),
			g.withHyp(term.Eq(x, term.False())),
		)
		return nil
	case *term.DatatypeSort:
		gs := make([]Goal, s.NumVariants())
		for i := range gs {
			rec := s.Variant(i).Recognizer()
			gs[i] = g.withHyp(term.Eq(rec.Apply(x), term.True()))
		}
		l.replaceTop(gs...)
		return nil
	default:
		return tacticErr("cases", g, "cannot split on sort %s", s)
	}
}

// Split decomposes the goal target: a conjunction becomes one goal per
// conjunct (first conjunct current), a boolean equality becomes both
// implications (reverse direction current), and a distinctness claim
// becomes one refutation goal per pair, with the collision as hypothesis
// and a false target.
func (l *Lemma) Split() error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	switch t := g.Target.(type) {
	case term.AndExpr:
		gs := make([]Goal, len(t.Args))
		for i, a := range t.Args {
			gs[i] = g.withTarget(a)
		}
		l.replaceTop(gs...)
		return nil
	case term.EqExpr:
		if _, ok := t.L.Sort().(term.BoolSort); !ok {
			return tacticErr("split", g, "equality is not boolean")
		}
		l.replaceTop(
			g.withTarget(term.Implies(t.R, t.L)),
			g.withTarget(term.Implies(t.L, t.R)),
		)
		return nil
	case term.DistinctExpr:
		var gs []Goal
		for i := len(t.Args) - 1; i >= 1; i-- {
			for j := i - 1; j >= 0; j-- {
				gs = append(gs, g.withHypTarget(term.Eq(t.Args[j], t.Args[i]), term.False()))
			}
		}
		if len(gs) == 0 {
			gs = []Goal{EmptyGoal()}
		}
		l.replaceTop(gs...)
		return nil
	default:
		return tacticErr("split", g, "target %s does not split", t)
	}
}

// SplitAt decomposes hypothesis n: a conjunction is replaced by its
// conjuncts, a disjunction case-splits into one goal per disjunct, and a
// boolean equality is replaced by both implications.
func (l *Lemma) SplitAt(n int) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	h, err := l.hyp(g, n, "split")
	if err != nil {
		return err
	}
	switch x := h.(type) {
	case term.AndExpr:
		l.replaceTop(g.withCtx(replaceHyp(g.Ctx, n, x.Args...)))
		return nil
	case term.OrExpr:
		gs := make([]Goal, len(x.Args))
		for i, a := range x.Args {
			gs[i] = g.withCtx(replaceHyp(g.Ctx, n, a))
		}
		l.replaceTop(gs...)
		return nil
	case term.EqExpr:
		if _, ok := x.L.Sort().(term.BoolSort); !ok {
			return tacticErr("split", g, "hypothesis equality is not boolean")
		}
		l.replaceTop(g.withCtx(replaceHyp(g.Ctx, n,
			term.Implies(x.L, x.R), term.Implies(x.R, x.L))))
		return nil
	default:
		return tacticErr("split", g, "hypothesis %s does not split", h)
	}
}

// Left commits a disjunctive goal to its first disjunct.
func (l *Lemma) Left() error {
	return l.choose("left", 0)
}

// Right commits a disjunctive goal to its last disjunct.
func (l *Lemma) Right() error {
	return l.choose("right", -1)
}

// Choose commits a disjunctive goal to its n-th disjunct.
func (l *Lemma) Choose(n int) error {
	return l.choose("choose", n)
}

func (l *Lemma) choose(tac string, n int) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	or, ok := g.Target.(term.OrExpr)
	if !ok {
		return tacticErr(tac, g, "target is not a disjunction")
	}
	if n < 0 {
		n = len(or.Args) - 1
	}
	if n >= len(or.Args) {
		return tacticErr(tac, g, "disjunct %d of %d", n, len(or.Args))
	}
	l.replaceTop(g.withTarget(or.Args[n]))
	return nil
}

// Exists commits an existential goal to the given witnesses.
func (l *Lemma) Exists(ts ...term.Expr) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	cert, err := kernel.Forget(ts, g.Target)
	if err != nil {
		return tacticErr("exists", g, "%v", err)
	}
	l.record(cert)
	l.replaceTop(g.withTarget(cert.Thm().(term.ImpliesExpr).Hyp))
	return nil
}

// Einstan eliminates an existential hypothesis, naming its witnesses with
// fresh constants added to the signature. It returns the fresh constants.
func (l *Lemma) Einstan(n int) ([]term.Const, error) {
	g, err := l.TopGoal()
	if err != nil {
		return nil, err
	}
	h, err := l.hyp(g, n, "einstan")
	if err != nil {
		return nil, err
	}
	vs, cert, err := kernel.Einstan(h)
	if err != nil {
		return nil, tacticErr("einstan", g, "%v", err)
	}
	body := cert.Thm().(term.ImpliesExpr).Concl
	l.record(cert)
	l.replaceTop(g.withSig(vs).withCtx(replaceHyp(g.Ctx, n, body)))
	return vs, nil
}

// Instan instantiates a universally quantified hypothesis at the given
// terms, adding the instance to the context.
func (l *Lemma) Instan(n int, ts ...term.Expr) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	h, err := l.hyp(g, n, "instan")
	if err != nil {
		return err
	}
	cert, err := kernel.Specialize(ts, h)
	if err != nil {
		return tacticErr("instan", g, "%v", err)
	}
	l.record(cert)
	l.replaceTop(g.withHyp(cert.Thm().(term.ImpliesExpr).Concl))
	return nil
}

// RewriteOption adjusts where and how Rewrite applies.
type RewriteOption func(*rewriteConfig)

type rewriteConfig struct {
	at    int
	hasAt bool
	rev   bool
}

// RewriteAt rewrites in hypothesis n instead of the goal target.
func RewriteAt(n int) RewriteOption {
	return func(c *rewriteConfig) { c.at, c.hasAt = n, true }
}

// RewriteRev flips the orientation of the equality rule.
func RewriteRev() RewriteOption {
	return func(c *rewriteConfig) { c.rev = true }
}

// Rewrite rewrites with an equality rule: a proved (possibly quantified)
// equality given as a *kernel.Proof, or the index of an equality hypothesis.
// The first occurrence of the left side, in left-to-right outermost-first
// order, fixes the binding; every occurrence of that subterm is then
// replaced. Rewriting never touches a subterm under a binder that captures
// the binding.
func (l *Lemma) Rewrite(rule any, opts ...RewriteOption) error {
	var cfg rewriteConfig
	for _, o := range opts {
		o(&cfg)
	}
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	stmt, pf, err := l.resolveRule(g, rule, "rewrite")
	if err != nil {
		return err
	}
	r, err := rewrite.OfEquality(stmt, cfg.rev)
	if err != nil {
		return tacticErr("rewrite", g, "%v", err)
	}
	subject := g.Target
	if cfg.hasAt {
		subject, err = l.hyp(g, cfg.at, "rewrite")
		if err != nil {
			return err
		}
	}
	occ, s, ok := rewrite.SearchFirst(r.Vars, r.LHS, subject)
	if !ok {
		return tacticErr("rewrite", g, "%v", &rewrite.NoMatchError{Pattern: r.LHS, Target: subject})
	}
	replacement := rewrite.Apply(s, r.RHS)
	rewritten := term.Substitute(subject, term.Pair{Old: occ, New: replacement})
	if err := l.recordInstances(stmt, pf, s, r.Vars); err != nil {
		return tacticErr("rewrite", g, "%v", err)
	}
	if cfg.hasAt {
		l.replaceTop(g.withCtx(replaceHyp(g.Ctx, cfg.at, rewritten)))
	} else {
		l.replaceTop(g.withTarget(rewritten))
	}
	return nil
}

// Rw is shorthand for Rewrite.
func (l *Lemma) Rw(rule any, opts ...RewriteOption) error {
	return l.Rewrite(rule, opts...)
}

// Apply applies a (possibly quantified) implication backward: the
// conclusion must match the entire goal target, which is then replaced by
// the instantiated hypothesis. The rule is a proved *kernel.Proof or a
// context index. A rule that is not an implication closes the goal
// outright when it matches.
func (l *Lemma) Apply(rule any) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	stmt, pf, err := l.resolveRule(g, rule, "apply")
	if err != nil {
		return err
	}
	ir := rewrite.OfImplication(stmt)
	s, hyp, ok := rewrite.Backward(ir, g.Target)
	if !ok {
		return tacticErr("apply", g, "%v", &rewrite.NoMatchError{Pattern: ir.Concl, Target: g.Target})
	}
	if err := l.recordInstances(stmt, pf, s, ir.Vars); err != nil {
		return tacticErr("apply", g, "%v", err)
	}
	if bv, ok := hyp.(term.BoolVal); ok && bv.Val {
		l.replaceTop(EmptyGoal())
		return nil
	}
	l.replaceTop(g.withTarget(hyp))
	return nil
}

// InductionScheme builds an induction certificate for a term and a
// motive. The default scheme is structural induction over the term's
// datatype variants.
type InductionScheme func(x term.Expr, motive func(term.Expr) term.Expr) (*kernel.Proof, error)

// Induct starts induction on x, which must occur in the goal target.
// With no scheme given, structural induction over x's datatype is used:
// one goal per variant is opened, in declaration order, with induction
// hypotheses for recursive fields.
func (l *Lemma) Induct(x term.Expr, using ...InductionScheme) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	if !occursIn(g.Target, x) {
		return tacticErr("induct", g, "%s does not occur in the target", x)
	}
	motive := func(e term.Expr) term.Expr {
		return term.Substitute(g.Target, term.Pair{Old: x, New: e})
	}
	scheme := InductionScheme(kernel.Induction)
	if len(using) > 0 {
		scheme = using[len(using)-1]
	}
	pf, err := scheme(x, motive)
	if err != nil {
		return tacticErr("induct", g, "%v", err)
	}
	imp, ok := pf.Thm().(term.ImpliesExpr)
	if !ok {
		return tacticErr("induct", g, "scheme produced a non-implication: %s", pf.Thm())
	}
	l.record(pf)
	premise := imp.Hyp
	var gs []Goal
	switch p := premise.(type) {
	case term.AndExpr:
		gs = make([]Goal, len(p.Args))
		for i, ob := range p.Args {
			gs[i] = g.withTarget(ob)
		}
	default:
		gs = []Goal{g.withTarget(premise)}
	}
	l.replaceTop(gs...)
	return nil
}

// Ext reduces an array equality goal to pointwise equality at a fresh
// index, which it opens and returns.
func (l *Lemma) Ext() (term.Const, error) {
	g, err := l.TopGoal()
	if err != nil {
		return term.Const{}, err
	}
	eq, ok := g.Target.(term.EqExpr)
	if !ok {
		return term.Const{}, tacticErr("ext", g, "target is not an equality")
	}
	_, pf, err := kernel.Extensionality(eq.L, eq.R)
	if err != nil {
		return term.Const{}, tacticErr("ext", g, "%v", err)
	}
	l.record(pf)
	l.replaceTop(g.withTarget(pf.Thm().(term.ImpliesExpr).Hyp))
	return l.Fix()
}

// Symm flips an equality goal.
func (l *Lemma) Symm() error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	eq, ok := g.Target.(term.EqExpr)
	if !ok {
		return tacticErr("symm", g, "target is not an equality")
	}
	l.replaceTop(g.withTarget(term.Eq(eq.R, eq.L)))
	return nil
}

// Eq replaces the right side of an equality goal l == r with rhs, after
// proving r == rhs from the context, the optional supporting proofs, and
// the certificates accumulated so far.
func (l *Lemma) Eq(rhs term.Expr, by ...*kernel.Proof) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	eq, ok := g.Target.(term.EqExpr)
	if !ok {
		return tacticErr("eq", g, "target is not an equality")
	}
	step := term.Implies(term.And(g.Ctx...), term.Eq(eq.R, rhs))
	pf, err := kernel.Prove(l.session.solver, step, append(append([]*kernel.Proof(nil), l.lemmas...), by...), l.session.timeout)
	if err != nil {
		return tacticErr("eq", g, "step not provable: %v", err)
	}
	l.record(pf)
	l.replaceTop(g.withTarget(term.Eq(eq.L, rhs)))
	return nil
}

// Generalize wraps the goal target in a universal quantifier over the given
// signature constants, strengthening the goal.
func (l *Lemma) Generalize(vs ...term.Const) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	quantified := term.ForAll(vs, g.Target)
	ts := make([]term.Expr, len(vs))
	for i, v := range vs {
		ts[i] = v
	}
	cert, err := kernel.Specialize(ts, quantified)
	if err != nil {
		return tacticErr("generalize", g, "%v", err)
	}
	l.record(cert)
	sig := make([]term.Const, 0, len(g.Sig))
	for _, c := range g.Sig {
		keep := true
		for _, v := range vs {
			if c == v {
				keep = false
				break
			}
		}
		if keep {
			sig = append(sig, c)
		}
	}
	l.replaceTop(Goal{Sig: sig, Ctx: g.Ctx, Target: quantified})
	return nil
}

// Unfold replaces applications of the given defined functions in the goal
// target by their definitions, repeatedly until none remain.
func (l *Lemma) Unfold(ds ...*term.FuncDecl) error {
	return l.unfold(-1, ds)
}

// UnfoldAt is Unfold on hypothesis n.
func (l *Lemma) UnfoldAt(n int, ds ...*term.FuncDecl) error {
	return l.unfold(n, ds)
}

func (l *Lemma) unfold(at int, ds []*term.FuncDecl) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	if len(ds) == 0 {
		return tacticErr("unfold", g, "no definitions given")
	}
	subject := g.Target
	if at >= 0 {
		subject, err = l.hyp(g, at, "unfold")
		if err != nil {
			return err
		}
	}
	changed := false
	for _, d := range ds {
		ax, err := kernel.Defn(d)
		if err != nil {
			return tacticErr("unfold", g, "%v", err)
		}
		r, err := rewrite.OfEquality(ax.Thm(), false)
		if err != nil {
			return tacticErr("unfold", g, "%v", err)
		}
		for {
			occ, s, ok := rewrite.SearchFirst(r.Vars, r.LHS, subject)
			if !ok {
				break
			}
			if err := l.recordInstances(ax.Thm(), ax, s, r.Vars); err != nil {
				return tacticErr("unfold", g, "%v", err)
			}
			subject = term.Substitute(subject, term.Pair{Old: occ, New: rewrite.Apply(s, r.RHS)})
			changed = true
		}
	}
	if !changed {
		return tacticErr("unfold", g, "no application of the given definitions")
	}
	if at >= 0 {
		l.replaceTop(g.withCtx(replaceHyp(g.Ctx, at, subject)))
	} else {
		l.replaceTop(g.withTarget(subject))
	}
	return nil
}

// Have proves h from the context and the optional supporting proofs, then
// adds it as a hypothesis.
func (l *Lemma) Have(h term.Expr, by ...*kernel.Proof) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	stmt := term.Implies(term.And(g.Ctx...), h)
	pf, err := kernel.Prove(l.session.solver, stmt, by, l.session.timeout)
	if err != nil {
		return tacticErr("have", g, "not provable: %v", err)
	}
	l.record(pf)
	l.replaceTop(g.withHyp(h))
	return nil
}

// NewGoal replaces the target with t after checking that t suffices: the
// entailment ctx, t |- target is discharged immediately and its
// certificate recorded.
func (l *Lemma) NewGoal(t term.Expr, by ...*kernel.Proof) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	step := term.Implies(term.And(appendCopy(g.Ctx, t)...), g.Target)
	pf, err := kernel.Prove(l.session.solver, step, by, l.session.timeout)
	if err != nil {
		return tacticErr("newgoal", g, "%s does not entail the target: %v", t, err)
	}
	l.record(pf)
	l.replaceTop(g.withTarget(t))
	return nil
}

// Show asserts what the current goal target is, up to alpha equivalence,
// and restates it in the given form.
func (l *Lemma) Show(t term.Expr) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	if !term.Equal(g.Target, t) {
		return tacticErr("show", g, "target is not %s", t)
	}
	l.replaceTop(g.withTarget(t))
	return nil
}

// Assumption closes the goal when its target is a hypothesis.
func (l *Lemma) Assumption() error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	for _, h := range g.Ctx {
		if term.Equal(h, g.Target) {
			l.replaceTop()
			return nil
		}
	}
	return tacticErr("assumption", g, "target is not among the hypotheses")
}

// Clear removes hypothesis n.
func (l *Lemma) Clear(n int) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	if _, err := l.hyp(g, n, "clear"); err != nil {
		return err
	}
	l.replaceTop(g.withCtx(replaceHyp(g.Ctx, n)))
	return nil
}

// Admit closes the goal without proof. The final theorem is permanently
// marked admitted.
func (l *Lemma) Admit() error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	l.session.logger.Warn("goal admitted", zap.Stringer("target", g.Target))
	l.record(kernel.Admit(g.Target))
	l.replaceTop()
	return nil
}

// Auto discharges the goal with the decision backend, using the optional
// supporting proofs and the certificates accumulated so far.
func (l *Lemma) Auto(by ...*kernel.Proof) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	stmt := term.Implies(term.And(g.Ctx...), g.Target)
	support := append(append([]*kernel.Proof(nil), l.lemmas...), by...)
	pf, err := kernel.Prove(l.session.solver, stmt, support, l.session.timeout)
	if err != nil {
		return tacticErr("auto", g, "%v", err)
	}
	l.record(pf)
	l.replaceTop()
	return nil
}

// Simp simplifies the goal target. It never fails; an already-simple target
// is left alone.
func (l *Lemma) Simp() error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	l.replaceTop(g.withTarget(term.Simplify(g.Target)))
	return nil
}

// SimpAt simplifies hypothesis n, failing if nothing changes.
func (l *Lemma) SimpAt(n int) error {
	g, err := l.TopGoal()
	if err != nil {
		return err
	}
	h, err := l.hyp(g, n, "simp")
	if err != nil {
		return err
	}
	simplified := term.Simplify(h)
	if term.Equal(simplified, h) {
		return tacticErr("simp", g, "hypothesis %s is already simplified", h)
	}
	l.replaceTop(g.withCtx(replaceHyp(g.Ctx, n, simplified)))
	return nil
}

// Search returns registered theorems matching the query; see
// Registry.Search.
func (l *Lemma) Search(query string) []string {
	return l.session.registry.Search(query)
}

// Qed assembles the final proof. All goals must be closed; the statement is
// then certified from the accumulated certificates in a single decision
// call.
func (l *Lemma) Qed() (*kernel.Proof, error) {
	for len(l.goals) > 0 && l.goals[len(l.goals)-1].IsEmpty() {
		l.goals = l.goals[:len(l.goals)-1]
	}
	if len(l.goals) > 0 {
		g := l.goals[len(l.goals)-1]
		return nil, tacticErr("qed", g, "%d open goal(s) remain", len(l.goals))
	}
	pf, err := kernel.Prove(l.session.solver, l.target, l.lemmas, l.session.timeout)
	if err != nil {
		return nil, err
	}
	l.session.logger.Debug("lemma closed",
		zap.Stringer("target", l.target),
		zap.Int("certificates", len(l.lemmas)),
		zap.Bool("admitted", pf.IsAdmitted()))
	return pf, nil
}

func (l *Lemma) hyp(g Goal, n int, tac string) (term.Expr, error) {
	if n < 0 || n >= len(g.Ctx) {
		return nil, tacticErr(tac, g, "no hypothesis %d", n)
	}
	return g.Ctx[n], nil
}

/// resolveRule turns a rule argument into a statement: a *kernel.Proof uses
// its theorem, an int indexes the current goal's hypotheses.
func (l *Lemma) resolveRule(g Goal, rule any, tac string) (term.Expr, *kernel.Proof, error) {
	switch r := rule.(type) {
	case *kernel.Proof:
		return r.Thm(), r, nil
	case int:
		h, err := l.hyp(g, r, tac)
		if err != nil {
			return nil, nil, err
		}
		return h, nil, nil
	default:
		return nil, nil, tacticErr(tac, g, "rule must be a *kernel.Proof or a hypothesis index, got %T", rule)
	}
}

// recordInstances records the certificates tying a quantified rule to the
// instance the match selected. A proved rule yields the instantiated
// theorem itself; a hypothesis rule yields specialization implications the
// final decision call can chain from the hypothesis.
func (l *Lemma) recordInstances(stmt term.Expr, pf *kernel.Proof, s rewrite.Subst, vars []term.Const) error {
	if len(vars) == 0 {
		return nil
	}
	bindings, ok := s.Bindings(vars)
	if !ok {
		return fmt.Errorf("match leaves a rule variable unbound")
	}
	if pf != nil {
		inst, err := instantiateFully(pf, bindings)
		if err != nil {
			return err
		}
		l.record(inst)
		return nil
	}
	cur := stmt
	i := 0
	for {
		q, ok := cur.(term.QuantExpr)
		if !ok || !q.Universal {
			break
		}
		cert, err := kernel.Specialize(bindings[i:i+len(q.Vars)], cur)
		if err != nil {
			return err
		}
		l.record(cert)
		cur = cert.Thm().(term.ImpliesExpr).Concl
		i += len(q.Vars)
	}
	return nil
}

// instantiateFully drives a proved universal through Instantiate until no
// leading universal remains, consuming bindings positionally.
func instantiateFully(pf *kernel.Proof, bindings []term.Expr) (*kernel.Proof, error) {
	cur := pf
	i := 0
	for {
		q, ok := cur.Thm().(term.QuantExpr)
		if !ok || !q.Universal {
			return cur, nil
		}
		next, err := kernel.Instantiate(bindings[i:i+len(q.Vars)], cur)
		if err != nil {
			return nil, err
		}
		cur = next
		i += len(q.Vars)
	}
}

func occursIn(e, sub term.Expr) bool {
	if term.Equal(e, sub) {
		return true
	}
	switch x := e.(type) {
	case term.NotExpr:
		return occursIn(x.X, sub)
	case term.AndExpr:
		return anyOccurs(x.Args, sub)
	case term.OrExpr:
		return anyOccurs(x.Args, sub)
	case term.ImpliesExpr:
		return occursIn(x.Hyp, sub) || occursIn(x.Concl, sub)
	case term.EqExpr:
		return occursIn(x.L, sub) || occursIn(x.R, sub)
	case term.DistinctExpr:
		return anyOccurs(x.Args, sub)
	case term.BinaryExpr:
		return occursIn(x.L, sub) || occursIn(x.R, sub)
	case term.QuantExpr:
		return occursIn(x.Body, sub)
	case term.ApplyExpr:
		return anyOccurs(x.Args, sub)
	case term.SelectExpr:
		return occursIn(x.Arr, sub) || occursIn(x.Idx, sub)
	default:
		return false
	}
}

func anyOccurs(args []term.Expr, sub term.Expr) bool {
	for _, a := range args {
		if occursIn(a, sub) {
			return true
		}
	}
	return false
}
