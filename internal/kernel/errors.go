package kernel

import "github.com/tactic-labs/tactic/internal/term"

// DecisionKind distinguishes the two ways a decision call fails.
type DecisionKind int

const (
	// KindDisproved means the procedure found a countermodel (or could not
	// establish validity within its fragment).
	KindDisproved DecisionKind = iota
	// KindTimeout means the budget was exhausted.
	KindTimeout
)

// DecisionError is returned when the decision procedure does not certify a
// target.
type DecisionError struct {
	Kind         DecisionKind
	Target       term.Expr
	Countermodel *Countermodel
	Detail       string
}

func (e *DecisionError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "decision procedure timed out on " + e.Target.String() +
			"; maybe too many or not enough supporting lemmas"
	default:
		msg := "countermodel exists for " + e.Target.String()
		if e.Countermodel != nil {
			msg += ": " + e.Countermodel.String()
		}
		if e.Detail != "" {
			msg += " (" + e.Detail + ")"
		}
		return msg
	}
}
