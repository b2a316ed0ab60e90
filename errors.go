package tactic

import "fmt"

// TacticError reports a tactic that could not make progress on its goal.
// The goal is carried as a rendered string so the error stays meaningful
// after the proof state moves on.
type TacticError struct {
	Tactic string
	Goal   string
	Reason string
}

func (e *TacticError) Error() string {
	if e.Goal == "" {
		return fmt.Sprintf("%s: %s", e.Tactic, e.Reason)
	}
	return fmt.Sprintf("%s: %s (goal: %s)", e.Tactic, e.Reason, e.Goal)
}

func tacticErr(tac string, g Goal, format string, args ...any) *TacticError {
	return &TacticError{Tactic: tac, Goal: g.String(), Reason: fmt.Sprintf(format, args...)}
}

// ModeError reports an illegal relation transition in a calculation chain,
// e.g. following a <= step with a >= step.
type ModeError struct {
	From Mode
	To   Mode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("calc: cannot chain %s step after %s chain", e.To, e.From)
}
