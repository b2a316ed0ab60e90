package tactic

import (
	"strings"

	"github.com/tactic-labs/tactic/internal/term"
)

// emptyGoalMarker tags the sentinel target. The fresh constant keeps goals
// built from user formulas from colliding with it.
var emptyGoalMarker = term.FreshConst("TACTIC_EMPTYGOAL", term.BoolSort{})

// Goal is one unit of proof state: assuming Ctx, with the Sig placeholders
// arbitrary, prove Target. Goals are treated as immutable; tactics build
// replacements with the with* helpers instead of editing fields, which is
// what makes Push/Pop snapshots safe to share.
type Goal struct {
	Sig    []term.Const
	Ctx    []term.Expr
	Target term.Expr
}

// EmptyGoal returns the sentinel denoting "nothing left to do".
func EmptyGoal() Goal {
	return Goal{Target: term.Or(term.True(), emptyGoalMarker)}
}

// IsEmpty reports whether the goal is the sentinel. It never holds for a
// goal built from a user formula.
func (g Goal) IsEmpty() bool {
	e := EmptyGoal()
	return len(g.Sig) == 0 && len(g.Ctx) == 0 && term.Equal(g.Target, e.Target)
}

func (g Goal) String() string {
	if g.IsEmpty() {
		return "nothing to do"
	}
	hyps := make([]string, len(g.Ctx))
	for i, h := range g.Ctx {
		hyps[i] = h.String()
	}
	body := "[" + strings.Join(hyps, ", ") + "] ?|- " + g.Target.String()
	if len(g.Sig) == 0 {
		return body
	}
	names := make([]string, len(g.Sig))
	for i, v := range g.Sig {
		names[i] = v.Name
	}
	return "[" + strings.Join(names, ", ") + "] ; " + body
}

func (g Goal) withTarget(t term.Expr) Goal {
	return Goal{Sig: g.Sig, Ctx: g.Ctx, Target: t}
}

func (g Goal) withHyp(h term.Expr) Goal {
	return Goal{Sig: g.Sig, Ctx: appendCopy(g.Ctx, h), Target: g.Target}
}

func (g Goal) withHypTarget(h, t term.Expr) Goal {
	return Goal{Sig: g.Sig, Ctx: appendCopy(g.Ctx, h), Target: t}
}

func (g Goal) withCtx(ctx []term.Expr) Goal {
	return Goal{Sig: g.Sig, Ctx: ctx, Target: g.Target}
}

func (g Goal) withSig(vs []term.Const) Goal {
	sig := make([]term.Const, 0, len(g.Sig)+len(vs))
	sig = append(sig, g.Sig...)
	sig = append(sig, vs...)
	return Goal{Sig: sig, Ctx: g.Ctx, Target: g.Target}
}

// replaceHyp returns the context with entry i replaced by hs (splice).
func replaceHyp(ctx []term.Expr, i int, hs ...term.Expr) []term.Expr {
	out := make([]term.Expr, 0, len(ctx)-1+len(hs))
	out = append(out, ctx[:i]...)
	out = append(out, hs...)
	out = append(out, ctx[i+1:]...)
	return out
}

func appendCopy(ctx []term.Expr, hs ...term.Expr) []term.Expr {
	out := make([]term.Expr, 0, len(ctx)+len(hs))
	out = append(out, ctx...)
	out = append(out, hs...)
	return out
}
