package tactic

import (
	"go.uber.org/zap"

	"github.com/tactic-labs/tactic/internal/kernel"
	"github.com/tactic-labs/tactic/internal/term"
)

// Mode is the relation a calculation chain has established so far.
type Mode int

const (
	ModeEq Mode = iota
	ModeLe
	ModeLt
	ModeGe
	ModeGt
)

func (m Mode) String() string {
	switch m {
	case ModeEq:
		return "=="
	case ModeLe:
		return "<="
	case ModeLt:
		return "<"
	case ModeGe:
		return ">="
	case ModeGt:
		return ">"
	default:
		return "?"
	}
}

func (m Mode) relation(l, r term.Expr) term.Expr {
	switch m {
	case ModeLe:
		return term.Le(l, r)
	case ModeLt:
		return term.Lt(l, r)
	case ModeGe:
		return term.Ge(l, r)
	case ModeGt:
		return term.Gt(l, r)
	default:
		return term.Eq(l, r)
	}
}

// compose returns the relation of a chain in mode m extended by a step in
// mode step. An equality chain takes any step; a non-strict chain absorbs
// its strict counterpart; anything else is an illegal transition.
func (m Mode) compose(step Mode) (Mode, error) {
	switch {
	case m == step:
		return m, nil
	case m == ModeEq:
		return step, nil
	case m == ModeLe && step == ModeLt:
		return ModeLt, nil
	case m == ModeGe && step == ModeGt:
		return ModeGt, nil
	default:
		return 0, &ModeError{From: m, To: step}
	}
}

// Calc builds a transitive chain lhs R t1 R t2 ... R rhs, proving each step
// as it is added and maintaining a certificate of the composed relation.
// Steps may universally quantify over variables and carry shared
// assumptions; both are fixed at construction.
type Calc struct {
	session *Session
	vars    []term.Const
	assume  []term.Expr
	first   term.Expr
	last    term.Expr
	mode    Mode
	proof   *kernel.Proof
}

// CalcOption configures NewCalc.
type CalcOption func(*Calc)

// CalcVars universally quantifies every step and the final theorem over vs.
func CalcVars(vs ...term.Const) CalcOption {
	return func(c *Calc) { c.vars = vs }
}

// CalcAssume guards every step and the final theorem with the given
// hypotheses.
func CalcAssume(hs ...term.Expr) CalcOption {
	return func(c *Calc) { c.assume = hs }
}

// NewCalc starts a calculation chain at lhs. The chain begins in equality
// mode with the reflexivity certificate lhs == lhs.
func (s *Session) NewCalc(lhs term.Expr, opts ...CalcOption) (*Calc, error) {
	c := &Calc{session: s, first: lhs, last: lhs, mode: ModeEq}
	for _, o := range opts {
		o(c)
	}
	refl, err := kernel.Prove(s.solver, c.wrap(term.Eq(lhs, lhs)), nil, s.timeout)
	if err != nil {
		return nil, err
	}
	c.proof = refl
	return c, nil
}

// wrap guards a relation with the assumptions and quantifies it over the
// chain variables.
func (c *Calc) wrap(rel term.Expr) term.Expr {
	if len(c.assume) > 0 {
		rel = term.Implies(term.And(c.assume...), rel)
	}
	return term.ForAll(c.vars, rel)
}

func (c *Calc) step(stepMode Mode, rhs term.Expr, by []*kernel.Proof) error {
	next, err := c.mode.compose(stepMode)
	if err != nil {
		return err
	}
	stepPf, err := kernel.Prove(c.session.solver, c.wrap(stepMode.relation(c.last, rhs)), by, c.session.timeout)
	if err != nil {
		return err
	}
	chained, err := kernel.Prove(c.session.solver, c.wrap(next.relation(c.first, rhs)),
		[]*kernel.Proof{c.proof, stepPf}, c.session.timeout)
	if err != nil {
		return err
	}
	c.session.logger.Debug("calc step",
		zap.Stringer("relation", stepMode),
		zap.Stringer("rhs", rhs))
	c.mode = next
	c.last = rhs
	c.proof = chained
	return nil
}

// Eq extends the chain with last == rhs.
func (c *Calc) Eq(rhs term.Expr, by ...*kernel.Proof) error {
	return c.step(ModeEq, rhs, by)
}

// Le extends the chain with last <= rhs.
func (c *Calc) Le(rhs term.Expr, by ...*kernel.Proof) error {
	return c.step(ModeLe, rhs, by)
}

// Lt extends the chain with last < rhs.
func (c *Calc) Lt(rhs term.Expr, by ...*kernel.Proof) error {
	return c.step(ModeLt, rhs, by)
}

// Ge extends the chain with last >= rhs.
func (c *Calc) Ge(rhs term.Expr, by ...*kernel.Proof) error {
	return c.step(ModeGe, rhs, by)
}

// Gt extends the chain with last > rhs.
func (c *Calc) Gt(rhs term.Expr, by ...*kernel.Proof) error {
	return c.step(ModeGt, rhs, by)
}

// Mode returns the relation the chain has established so far.
func (c *Calc) Mode() Mode {
	return c.mode
}

// Qed returns the certificate of the composed chain relation.
func (c *Calc) Qed() *kernel.Proof {
	return c.proof
}
