package solver

import (
	"testing"
	"time"

	"github.com/tactic-labs/tactic/internal/kernel"
	"github.com/tactic-labs/tactic/internal/term"
)

var (
	intS  = term.IntSort{}
	boolS = term.BoolSort{}
)

func decide(t *testing.T, target term.Expr, support ...term.Expr) kernel.Decision {
	t.Helper()
	return New().Decide(target, support, 5*time.Second)
}

func wantVerdict(t *testing.T, d kernel.Decision, want kernel.Verdict) {
	t.Helper()
	if d.Verdict != want {
		t.Fatalf("verdict = %s, want %s (detail: %s, model: %s)", d.Verdict, want, d.Detail, d.Countermodel)
	}
}

func TestPropositionalTautologies(t *testing.T) {
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)

	wantVerdict(t, decide(t, term.Implies(p, p)), kernel.VerdictProved)
	wantVerdict(t, decide(t, term.Or(p, term.Not(p))), kernel.VerdictProved)
	wantVerdict(t, decide(t, term.Implies(term.And(p, q), p)), kernel.VerdictProved)
	wantVerdict(t, decide(t, term.Eq(term.Not(term.Not(p)), p)), kernel.VerdictProved)
}

func TestRefutationCarriesCountermodel(t *testing.T) {
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)

	d := decide(t, term.Implies(p, q))
	wantVerdict(t, d, kernel.VerdictDisproved)
	if d.Countermodel == nil || len(d.Countermodel.Atoms) == 0 {
		t.Fatalf("refutation must carry a countermodel")
	}
	// The falsifying assignment sets p and clears q.
	for _, av := range d.Countermodel.Atoms {
		switch {
		case term.Equal(av.Atom, p) && !av.Value:
			t.Errorf("countermodel should set p")
		case term.Equal(av.Atom, q) && av.Value:
			t.Errorf("countermodel should clear q")
		}
	}
}

func TestSupportIsAssumed(t *testing.T) {
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)

	wantVerdict(t, decide(t, q, term.Implies(p, q), p), kernel.VerdictProved)
	wantVerdict(t, decide(t, q, term.Implies(p, q)), kernel.VerdictDisproved)
}

func TestGroundArithmetic(t *testing.T) {
	wantVerdict(t, decide(t, term.Lt(term.IntLit(1), term.IntLit(2))), kernel.VerdictProved)
	wantVerdict(t, decide(t, term.Eq(term.Add(term.IntLit(2), term.IntLit(2)), term.IntLit(4))), kernel.VerdictProved)
	wantVerdict(t, decide(t, term.Gt(term.IntLit(1), term.IntLit(2))), kernel.VerdictDisproved)
}

func TestLinearForcing(t *testing.T) {
	x := term.NewConst("x", intS)
	wantVerdict(t, decide(t, term.Lt(x, term.Add(x, term.IntLit(1)))), kernel.VerdictProved)
	wantVerdict(t, decide(t, term.Le(term.Add(x, term.IntLit(2)), x)), kernel.VerdictDisproved)
	wantVerdict(t, decide(t, term.Ne(x, term.Add(x, term.IntLit(1)))), kernel.VerdictProved)
}

func TestCongruenceClosure(t *testing.T) {
	a := term.NewConst("a", intS)
	b := term.NewConst("b", intS)
	c := term.NewConst("c", intS)
	f := term.NewFuncDecl("f", []term.Sort{intS}, intS)

	// Transitivity and congruence under f.
	wantVerdict(t, decide(t, term.Eq(a, c), term.Eq(a, b), term.Eq(b, c)), kernel.VerdictProved)
	wantVerdict(t, decide(t, term.Eq(f.Apply(a), f.Apply(b)), term.Eq(a, b)), kernel.VerdictProved)
	// Symmetry.
	wantVerdict(t, decide(t, term.Eq(b, a), term.Eq(a, b)), kernel.VerdictProved)
	// No unwarranted equation.
	wantVerdict(t, decide(t, term.Eq(a, b), term.Eq(a, c)), kernel.VerdictDisproved)
}

func TestOrderChaining(t *testing.T) {
	a := term.NewConst("a", intS)
	b := term.NewConst("b", intS)
	c := term.NewConst("c", intS)

	wantVerdict(t, decide(t, term.Lt(a, c), term.Lt(a, b), term.Lt(b, c)), kernel.VerdictProved)
	wantVerdict(t, decide(t, term.Lt(a, c), term.Lt(a, b), term.Le(b, c)), kernel.VerdictProved)
	wantVerdict(t, decide(t, term.Le(a, c), term.Le(a, b), term.Le(b, c)), kernel.VerdictProved)
	// A strict cycle is impossible, so the antisymmetry consequence holds.
	wantVerdict(t, decide(t, term.Not(term.Lt(b, a)), term.Lt(a, b)), kernel.VerdictProved)
	// But nothing orders unrelated terms.
	wantVerdict(t, decide(t, term.Lt(a, c), term.Lt(a, b)), kernel.VerdictDisproved)
}

func TestRecognizerSemantics(t *testing.T) {
	nat := term.NewDatatypeSort("Nat")
	nat.AddVariant("zero")
	nat.AddVariant("succ", term.Field{Name: "pred", Sort: nat})

	n := term.NewConst("n", nat)
	isZero := nat.Variant(0).Recognizer()
	isSucc := nat.Variant(1).Recognizer()

	// Exhaustiveness: some recognizer holds.
	wantVerdict(t, decide(t, term.Or(isZero.Apply(n), isSucc.Apply(n))), kernel.VerdictProved)
	// Exclusivity: not both.
	wantVerdict(t, decide(t, term.Not(term.And(isZero.Apply(n), isSucc.Apply(n)))), kernel.VerdictProved)
	// A single recognizer is not forced.
	wantVerdict(t, decide(t, isZero.Apply(n)), kernel.VerdictDisproved)
	// Recognizer on a constructor application is ground.
	zero := nat.Variant(0).Constructor().Apply()
	wantVerdict(t, decide(t, isZero.Apply(zero)), kernel.VerdictProved)
	wantVerdict(t, decide(t, isSucc.Apply(zero)), kernel.VerdictDisproved)
}

func TestConstructorDisequality(t *testing.T) {
	nat := term.NewDatatypeSort("Nat")
	nat.AddVariant("zero")
	succ := nat.AddVariant("succ", term.Field{Name: "pred", Sort: nat})

	zero := nat.Variant(0).Constructor().Apply()
	one := succ.Constructor().Apply(zero)
	wantVerdict(t, decide(t, term.Ne(zero, one)), kernel.VerdictProved)
}

func TestQuantifiedTargetOpensWithSupports(t *testing.T) {
	x := term.NewConst("x", intS)
	p := term.NewFuncDecl("p", []term.Sort{intS}, boolS)
	q := term.NewFuncDecl("q", []term.Sort{intS}, boolS)

	target := term.ForAll([]term.Const{x}, q.Apply(x))
	supportImp := term.ForAll([]term.Const{x}, term.Implies(p.Apply(x), q.Apply(x)))
	supportHyp := term.ForAll([]term.Const{x}, p.Apply(x))

	wantVerdict(t, decide(t, target, supportImp, supportHyp), kernel.VerdictProved)
	wantVerdict(t, decide(t, target, supportImp), kernel.VerdictDisproved)
}

func TestAtomCapReportsUnknown(t *testing.T) {
	s := NewWithOptions(Options{MaxAtoms: 2})
	p := term.NewConst("p", boolS)
	q := term.NewConst("q", boolS)
	r := term.NewConst("r", boolS)
	d := s.Decide(term.Or(p, q, r), nil, time.Second)
	wantVerdict(t, d, kernel.VerdictUnknown)
}

func TestDeadlineYieldsTimeout(t *testing.T) {
	consts := make([]term.Expr, 14)
	for i := range consts {
		consts[i] = term.NewConst(string(rune('a'+i)), boolS)
	}
	d := New().Decide(term.And(consts...), nil, -time.Second)
	wantVerdict(t, d, kernel.VerdictTimeout)
}
