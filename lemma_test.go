package tactic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactic-labs/tactic"
	"github.com/tactic-labs/tactic/internal/kernel"
	"github.com/tactic-labs/tactic/internal/term"
)

var (
	intS  = term.IntSort{}
	boolS = term.BoolSort{}
)

func TestEmptyGoalSentinel(t *testing.T) {
	e := tactic.EmptyGoal()
	assert.True(t, e.IsEmpty())

	// A user-built disjunction over an ordinary constant is not the
	// sentinel.
	marker := term.NewConst("TACTIC_EMPTYGOAL", boolS)
	g := tactic.Goal{Target: term.Or(term.True(), marker)}
	assert.False(t, g.IsEmpty())
}

func TestLemmaIdentityEndToEnd(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)

	l := s.NewLemma(term.ForAll([]term.Const{p}, term.Implies(p, p)))
	vs, err := l.Fixes()
	require.NoError(t, err)
	require.Len(t, vs, 1)
	require.NoError(t, l.Intros())
	require.NoError(t, l.Assumption())

	pf, err := l.Qed()
	require.NoError(t, err)
	assert.False(t, pf.IsAdmitted())
	assert.True(t, term.Equal(pf.Thm(), term.ForAll([]term.Const{p}, term.Implies(p, p))))
}

func TestQedRejectsOpenGoals(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)

	l := s.NewLemma(p)
	_, err := l.Qed()
	require.Error(t, err)
	var terr *tactic.TacticError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "qed", terr.Tactic)
}

func TestIntrosForms(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)

	// Negated target: operand becomes a hypothesis, false remains.
	l := s.NewLemma(term.Not(p))
	require.NoError(t, l.Intros())
	g, err := l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Target, term.False()))
	require.Len(t, g.Ctx, 1)
	assert.True(t, term.Equal(g.Ctx[0], p))

	// Classical disjunction: !p || q introduces p.
	l = s.NewLemma(term.Or(term.Not(p), q))
	require.NoError(t, l.Intros())
	g, err = l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Target, q))
	require.Len(t, g.Ctx, 1)
	assert.True(t, term.Equal(g.Ctx[0], p))

	// A plain disjunction does not introduce.
	l = s.NewLemma(term.Or(p, q))
	assert.Error(t, l.Intros())
}

func TestPushPopRoundtrip(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)

	l := s.NewLemma(term.Implies(p, term.Implies(q, p)))
	require.NoError(t, l.Intros())

	l.Push()
	require.NoError(t, l.Intros())
	g, err := l.TopGoal()
	require.NoError(t, err)
	require.Len(t, g.Ctx, 2)

	require.NoError(t, l.Pop())
	g, err = l.TopGoal()
	require.NoError(t, err)
	require.Len(t, g.Ctx, 1)
	assert.True(t, term.Equal(g.Target, term.Implies(q, p)))

	assert.Error(t, l.Pop())
}

func TestCopyIsIndependent(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)

	l := s.NewLemma(term.Implies(p, p))
	fork := l.Copy()
	require.NoError(t, l.Intros())

	g, err := fork.TopGoal()
	require.NoError(t, err)
	assert.Empty(t, g.Ctx, "tactics on the original must not touch the copy")
}

func TestSplitOrder(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)

	l := s.NewLemma(term.And(p, q))
	require.NoError(t, l.Split())
	goals := l.Goals()
	require.Len(t, goals, 2)
	// First conjunct is the current goal.
	assert.True(t, term.Equal(goals[1].Target, p))
	assert.True(t, term.Equal(goals[0].Target, q))
}

func TestSplitBooleanEquality(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)

	l := s.NewLemma(term.Eq(p, q))
	require.NoError(t, l.Split())
	goals := l.Goals()
	require.Len(t, goals, 2)
	// Reverse direction is the current goal.
	assert.True(t, term.Equal(goals[1].Target, term.Implies(q, p)))
	assert.True(t, term.Equal(goals[0].Target, term.Implies(p, q)))
}

func TestSplitDistinct(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)
	y := term.NewConst("y", intS)

	l := s.NewLemma(term.Distinct(x, y))
	require.NoError(t, l.Split())

	g, err := l.TopGoal()
	require.NoError(t, err)
	require.Len(t, g.Ctx, 1)
	assert.True(t, term.Equal(g.Ctx[0], term.Eq(x, y)))
	assert.True(t, term.Equal(g.Target, term.False()))
}

func TestCasesBool(t *testing.T) {
	s := tactic.NewSession()
	b := term.NewConst("b", boolS)

	l := s.NewLemma(term.Or(b, term.Not(b)))
	require.NoError(t, l.Cases(b))
	goals := l.Goals()
	require.Len(t, goals, 2)
	// True branch on top.
	assert.True(t, term.Equal(goals[1].Ctx[0], term.Eq(b, term.True())))
	assert.True(t, term.Equal(goals[0].Ctx[0], term.Eq(b, term.False())))

	require.NoError(t, l.Auto())
	require.NoError(t, l.Auto())
	pf, err := l.Qed()
	require.NoError(t, err)
	assert.False(t, pf.IsAdmitted())
}

func TestCasesDatatype(t *testing.T) {
	s := tactic.NewSession()
	nat := term.NewDatatypeSort("Nat")
	nat.AddVariant("zero")
	nat.AddVariant("succ", term.Field{Name: "pred", Sort: nat})
	n := term.NewConst("n", nat)
	isZero := nat.Variant(0).Recognizer()
	isSucc := nat.Variant(1).Recognizer()

	l := s.NewLemma(term.Or(isZero.Apply(n), isSucc.Apply(n)))
	require.NoError(t, l.Cases(n))
	goals := l.Goals()
	require.Len(t, goals, 2)
	// Variants in declaration order, first one current.
	assert.True(t, term.Equal(goals[1].Ctx[0], term.Eq(isZero.Apply(n), term.True())))

	require.NoError(t, l.Auto())
	require.NoError(t, l.Auto())
	_, err := l.Qed()
	require.NoError(t, err)
}

func TestRewriteWithProvedRule(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)
	a := term.NewConst("a", intS)
	f := term.NewFuncDecl("f", []term.Sort{intS}, intS)

	rule, err := s.Prove(term.ForAll([]term.Const{x}, term.Eq(term.Add(x, term.IntLit(0)), x)))
	require.NoError(t, err)

	l := s.NewLemma(term.Eq(f.Apply(term.Add(a, term.IntLit(0))), f.Apply(a)))
	require.NoError(t, l.Rewrite(rule))
	g, err := l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Target, term.Eq(f.Apply(a), f.Apply(a))))

	require.NoError(t, l.Auto())
	pf, err := l.Qed()
	require.NoError(t, err)
	assert.False(t, pf.IsAdmitted())
}

func TestRewriteReportsNoMatch(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)
	p := term.NewConst("p", boolS)

	rule, err := s.Prove(term.ForAll([]term.Const{x}, term.Eq(term.Add(x, term.IntLit(0)), x)))
	require.NoError(t, err)

	l := s.NewLemma(p)
	err = l.Rewrite(rule)
	require.Error(t, err)
	var terr *tactic.TacticError
	assert.ErrorAs(t, err, &terr)
}

func TestRewriteWithHypothesis(t *testing.T) {
	s := tactic.NewSession()
	a := term.NewConst("a", intS)
	b := term.NewConst("b", intS)
	f := term.NewFuncDecl("f", []term.Sort{intS}, intS)

	l := s.NewLemma(term.Implies(term.Eq(a, b), term.Eq(f.Apply(a), f.Apply(b))))
	require.NoError(t, l.Intros())
	require.NoError(t, l.Rewrite(0))
	g, err := l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Target, term.Eq(f.Apply(b), f.Apply(b))))

	require.NoError(t, l.Auto())
	_, err = l.Qed()
	require.NoError(t, err)
}

func TestApplyBackward(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)
	n := term.NewConst("n", intS)

	// forall x, x < x+1 -> x <= x+1
	step, err := s.Prove(term.ForAll([]term.Const{x},
		term.Implies(term.Lt(x, term.Add(x, term.IntLit(1))), term.Le(x, term.Add(x, term.IntLit(1))))))
	require.NoError(t, err)

	l := s.NewLemma(term.Le(n, term.Add(n, term.IntLit(1))))
	require.NoError(t, l.Apply(step))
	g, err := l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Target, term.Lt(n, term.Add(n, term.IntLit(1)))))

	require.NoError(t, l.Auto())
	_, err = l.Qed()
	require.NoError(t, err)
}

func TestApplyHypothesisIndex(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)
	a := term.NewConst("a", intS)
	p := term.NewFuncDecl("p", []term.Sort{intS}, boolS)
	q := term.NewFuncDecl("q", []term.Sort{intS}, boolS)

	rule := term.ForAll([]term.Const{x}, term.Implies(p.Apply(x), q.Apply(x)))
	l := s.NewLemma(term.Implies(term.And(rule, p.Apply(a)), q.Apply(a)))
	require.NoError(t, l.Intros())
	require.NoError(t, l.SplitAt(0))

	// Backward through the quantified hypothesis, instantiated at a.
	require.NoError(t, l.Apply(0))
	g, err := l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Target, p.Apply(a)))

	require.NoError(t, l.Assumption())
	_, err = l.Qed()
	require.NoError(t, err)
}

func TestApplyRejectsBadRule(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)

	l := s.NewLemma(p)
	assert.Error(t, l.Apply(3))
	assert.Error(t, l.Apply("rule"))
}

func TestExistsAndEinstan(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)
	y := term.NewConst("y", intS)
	p := term.NewFuncDecl("p", []term.Sort{intS}, boolS)

	target := term.Implies(
		term.Exists([]term.Const{x}, p.Apply(x)),
		term.Exists([]term.Const{y}, p.Apply(y)))
	l := s.NewLemma(target)
	require.NoError(t, l.Intros())

	vs, err := l.Einstan(0)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	g, err := l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Ctx[0], p.Apply(vs[0])))

	require.NoError(t, l.Exists(vs[0]))
	require.NoError(t, l.Assumption())
	_, err = l.Qed()
	require.NoError(t, err)
}

func TestInstan(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)
	p := term.NewFuncDecl("p", []term.Sort{intS}, boolS)

	target := term.Implies(term.ForAll([]term.Const{x}, p.Apply(x)), p.Apply(term.IntLit(3)))
	l := s.NewLemma(target)
	require.NoError(t, l.Intros())
	require.NoError(t, l.Instan(0, term.IntLit(3)))
	require.NoError(t, l.Assumption())
	_, err := l.Qed()
	require.NoError(t, err)
}

func TestInductOverNat(t *testing.T) {
	s := tactic.NewSession()
	nat := term.NewDatatypeSort("Nat")
	nat.AddVariant("zero")
	nat.AddVariant("succ", term.Field{Name: "pred", Sort: nat})
	n := term.NewConst("n", nat)
	isZero := nat.Variant(0).Recognizer()
	isSucc := nat.Variant(1).Recognizer()

	// Every Nat is built by one of its constructors.
	l := s.NewLemma(term.Or(isZero.Apply(n), isSucc.Apply(n)))
	require.NoError(t, l.Induct(n))
	goals := l.Goals()
	require.Len(t, goals, 2)

	require.NoError(t, l.Auto()) // zero case
	require.NoError(t, l.Auto()) // succ case
	pf, err := l.Qed()
	require.NoError(t, err)
	assert.False(t, pf.IsAdmitted())
}

func TestInductWithSuppliedScheme(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)

	// An axiomatized scheme taints everything built on it.
	axiomatized := func(e term.Expr, motive func(term.Expr) term.Expr) (*kernel.Proof, error) {
		return kernel.Admit(term.Implies(term.True(), motive(e))), nil
	}

	l := s.NewLemma(term.Le(x, x))
	require.NoError(t, l.Induct(x, axiomatized))
	require.NoError(t, l.Auto())
	pf, err := l.Qed()
	require.NoError(t, err)
	assert.True(t, pf.IsAdmitted())
}

func TestUnfoldDefinition(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)
	double, ax, err := s.Define("double", []term.Const{x}, term.Add(x, x))
	require.NoError(t, err)
	require.NotNil(t, ax)

	l := s.NewLemma(term.Eq(double.Apply(term.IntLit(2)), term.IntLit(4)))
	require.NoError(t, l.Unfold(double))
	g, err := l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Target,
		term.Eq(term.Add(term.IntLit(2), term.IntLit(2)), term.IntLit(4))))

	require.NoError(t, l.Auto())
	_, err = l.Qed()
	require.NoError(t, err)

	// A second unfold has nothing left to expand.
	assert.Error(t, l.Unfold(double))
}

func TestHaveAddsAHypothesis(t *testing.T) {
	s := tactic.NewSession()
	a := term.NewConst("a", intS)

	l := s.NewLemma(term.Le(a, term.Add(a, term.IntLit(2))))
	require.NoError(t, l.Have(term.Lt(a, term.Add(a, term.IntLit(1)))))
	g, err := l.TopGoal()
	require.NoError(t, err)
	require.Len(t, g.Ctx, 1)

	require.NoError(t, l.Auto())
	_, err = l.Qed()
	require.NoError(t, err)
}

func TestNewGoalReplacesTarget(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)

	l := s.NewLemma(p)
	require.NoError(t, l.NewGoal(term.And(p, p)))

	// The sufficiency check leaves exactly one goal.
	goals := l.Goals()
	require.Len(t, goals, 1)
	assert.True(t, term.Equal(goals[0].Target, term.And(p, p)))
}

func TestNewGoalRejectsInsufficientFormula(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)

	l := s.NewLemma(p)
	assert.Error(t, l.NewGoal(q))
}

func TestEqReplacesRightSide(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)
	y := term.NewConst("y", intS)

	l := s.NewLemma(term.Eq(x, y))
	// The step y == y is trivial; the goal itself must not be required.
	require.NoError(t, l.Eq(y))
	g, err := l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Target, term.Eq(x, y)))
}

func TestEqChainsToQed(t *testing.T) {
	s := tactic.NewSession()

	l := s.NewLemma(term.Eq(term.Add(term.IntLit(1), term.IntLit(2)), term.Sub(term.IntLit(4), term.IntLit(1))))
	require.NoError(t, l.Eq(term.IntLit(3)))
	g, err := l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Target,
		term.Eq(term.Add(term.IntLit(1), term.IntLit(2)), term.IntLit(3))))

	require.NoError(t, l.Auto())
	_, err = l.Qed()
	require.NoError(t, err)
}

func TestAdmitTaintsQed(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)

	l := s.NewLemma(p)
	require.NoError(t, l.Admit())
	pf, err := l.Qed()
	require.NoError(t, err)
	assert.True(t, pf.IsAdmitted(), "a proof through Admit must be marked unverified")
}

func TestSimpBehavior(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)

	l := s.NewLemma(term.Implies(term.And(p, term.True()), p))
	require.NoError(t, l.Intros())

	// Goal-side Simp succeeds even when nothing changes.
	require.NoError(t, l.Simp())
	require.NoError(t, l.Simp())

	// Hypothesis-side Simp requires progress.
	require.NoError(t, l.SimpAt(0))
	g, err := l.TopGoal()
	require.NoError(t, err)
	assert.True(t, term.Equal(g.Ctx[0], p))
	assert.Error(t, l.SimpAt(0))
}

func TestShowAndClear(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)

	l := s.NewLemma(term.Implies(p, term.Implies(q, q)))
	require.NoError(t, l.Intros())
	require.NoError(t, l.Intros())

	assert.Error(t, l.Show(p))
	require.NoError(t, l.Show(q))

	require.NoError(t, l.Clear(0))
	g, err := l.TopGoal()
	require.NoError(t, err)
	require.Len(t, g.Ctx, 1)
	assert.True(t, term.Equal(g.Ctx[0], q))
}

func TestLeftRight(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)

	l := s.NewLemma(term.Implies(p, term.Or(p, q)))
	require.NoError(t, l.Intros())
	require.NoError(t, l.Left())
	require.NoError(t, l.Assumption())
	_, err := l.Qed()
	require.NoError(t, err)

	l = s.NewLemma(term.Implies(q, term.Or(p, q)))
	require.NoError(t, l.Intros())
	require.NoError(t, l.Right())
	require.NoError(t, l.Assumption())
	_, err = l.Qed()
	require.NoError(t, err)
}

func TestChoose(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)
	r := term.NewConst("r", boolS)

	l := s.NewLemma(term.Implies(q, term.Or(p, q, r)))
	require.NoError(t, l.Intros())
	require.NoError(t, l.Choose(1))
	require.NoError(t, l.Assumption())
	_, err := l.Qed()
	require.NoError(t, err)

	l = s.NewLemma(term.Or(p, q, r))
	assert.Error(t, l.Choose(5))
}

func TestSymm(t *testing.T) {
	s := tactic.NewSession()
	a := term.NewConst("a", intS)
	b := term.NewConst("b", intS)

	l := s.NewLemma(term.Implies(term.Eq(a, b), term.Eq(b, a)))
	require.NoError(t, l.Intros())
	require.NoError(t, l.Symm())
	require.NoError(t, l.Assumption())
	_, err := l.Qed()
	require.NoError(t, err)
}

func TestGeneralizeStrengthens(t *testing.T) {
	s := tactic.NewSession()
	p := term.NewFuncDecl("p", []term.Sort{intS}, boolS)

	l := s.NewLemma(term.ForAll([]term.Const{term.NewConst("x", intS)},
		term.Implies(p.Apply(term.NewConst("x", intS)), p.Apply(term.NewConst("x", intS)))))
	vs, err := l.Fixes()
	require.NoError(t, err)
	require.NoError(t, l.Generalize(vs...))
	g, err := l.TopGoal()
	require.NoError(t, err)
	q, ok := g.Target.(term.QuantExpr)
	require.True(t, ok)
	assert.True(t, q.Universal)
	assert.Empty(t, g.Sig)
}

func TestSearchFindsRegisteredTheorems(t *testing.T) {
	s := tactic.NewSession()
	x := term.NewConst("x", intS)

	pf, err := s.Prove(term.ForAll([]term.Const{x}, term.Le(x, x)))
	require.NoError(t, err)
	s.Registry().Register("le-refl", pf)

	l := s.NewLemma(term.True())
	assert.Contains(t, l.Search("refl"), "le-refl")
	assert.Empty(t, l.Search("no-such-thing"))
}
