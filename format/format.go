// Package format renders proof state for terminal display.
package format

import (
	"strings"

	"github.com/fatih/color"

	"github.com/tactic-labs/tactic"
	"github.com/tactic-labs/tactic/internal/kernel"
)

var (
	hypStyle      = color.New(color.FgCyan)
	targetStyle   = color.New(color.FgWhite, color.Bold)
	sigStyle      = color.New(color.FgHiBlue)
	provedStyle   = color.New(color.FgGreen, color.Bold)
	admittedStyle = color.New(color.FgHiYellow, color.Bold)
	failStyle     = color.New(color.FgRed, color.Bold)
	countStyle    = color.New(color.FgYellow)
)

// Goal renders one goal with numbered hypotheses above the turnstile.
func Goal(g tactic.Goal) string {
	if g.IsEmpty() {
		return provedStyle.Sprint("nothing to do")
	}
	var b strings.Builder
	if len(g.Sig) > 0 {
		names := make([]string, len(g.Sig))
		for i, v := range g.Sig {
			names[i] = v.Name + " : " + v.Sort().String()
		}
		b.WriteString(sigStyle.Sprint(strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	for i, h := range g.Ctx {
		b.WriteString(hypStyle.Sprintf("  [%d] %s", i, h))
		b.WriteString("\n")
	}
	b.WriteString("  ?|- ")
	b.WriteString(targetStyle.Sprint(g.Target.String()))
	return b.String()
}

// Lemma renders the goal stack of a proof in progress, current goal first.
func Lemma(l *tactic.Lemma) string {
	goals := l.Goals()
	if len(goals) == 0 {
		return provedStyle.Sprint("all goals closed; call Qed()")
	}
	var b strings.Builder
	b.WriteString(countStyle.Sprintf("%d open goal(s)\n", len(goals)))
	for i := len(goals) - 1; i >= 0; i-- {
		b.WriteString(Goal(goals[i]))
		if i > 0 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// Proof renders a certificate, marking admitted ones.
func Proof(pf *kernel.Proof) string {
	if pf.IsAdmitted() {
		return admittedStyle.Sprint("|- ") + pf.Thm().String() + admittedStyle.Sprint(" [admitted]")
	}
	return provedStyle.Sprint("|- ") + pf.Thm().String()
}

// Decision renders a failed decision, including the countermodel for a
// refutation.
func Decision(err *kernel.DecisionError) string {
	var b strings.Builder
	switch err.Kind {
	case kernel.KindTimeout:
		b.WriteString(failStyle.Sprint("timeout: "))
		b.WriteString(err.Target.String())
	default:
		b.WriteString(failStyle.Sprint("disproved: "))
		b.WriteString(err.Target.String())
		if err.Countermodel != nil {
			b.WriteString("\n  countermodel: ")
			b.WriteString(countStyle.Sprint(err.Countermodel.String()))
		}
	}
	if err.Detail != "" {
		b.WriteString("\n  ")
		b.WriteString(err.Detail)
	}
	return b.String()
}
