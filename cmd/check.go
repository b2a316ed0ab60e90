package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tactic-labs/tactic"
	"github.com/tactic-labs/tactic/format"
	"github.com/tactic-labs/tactic/internal/kernel"
	"github.com/tactic-labs/tactic/internal/term"
)

// checkCmd: tactic check. Runs the built-in proof suite, a smoke test of
// the whole pipeline from tactics down to the decision backend.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Prove the built-in suite of example theorems",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := tactic.LoadConfig(cfgFile)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		opts := append(cfg.Options(), tactic.WithLogger(logger))
		session := tactic.NewSession(opts...)

		failed := 0
		for _, c := range suite {
			pf, err := c.prove(session)
			if err != nil {
				failed++
				var derr *kernel.DecisionError
				if errors.As(err, &derr) {
					fmt.Printf("FAIL %s\n%s\n", c.name, format.Decision(derr))
				} else {
					fmt.Printf("FAIL %s: %v\n", c.name, err)
				}
				continue
			}
			fmt.Printf("ok   %s  %s\n", c.name, format.Proof(pf))
		}
		if failed > 0 {
			fmt.Printf("%d of %d checks failed\n", failed, len(suite))
			os.Exit(1)
		}
		fmt.Printf("all %d checks passed\n", len(suite))
	},
}

type check struct {
	name  string
	prove func(*tactic.Session) (*kernel.Proof, error)
}

var suite = []check{
	{name: "identity", prove: proveIdentity},
	{name: "conjunction", prove: proveConjunction},
	{name: "excluded-middle-cases", prove: proveCases},
	{name: "calc-chain", prove: proveCalcChain},
	{name: "unfold-definition", prove: proveUnfold},
}

// forall p, p -> p, proved by fixes, intros and assumption.
func proveIdentity(s *tactic.Session) (*kernel.Proof, error) {
	p := term.NewConst("p", term.BoolSort{})
	l := s.NewLemma(term.ForAll([]term.Const{p}, term.Implies(p, p)))
	if _, err := l.Fixes(); err != nil {
		return nil, err
	}
	if err := l.Intros(); err != nil {
		return nil, err
	}
	if err := l.Assumption(); err != nil {
		return nil, err
	}
	return l.Qed()
}

// p -> q -> p && q, split into one goal per conjunct.
func proveConjunction(s *tactic.Session) (*kernel.Proof, error) {
	p := term.NewConst("p", term.BoolSort{})
	q := term.NewConst("q", term.BoolSort{})
	l := s.NewLemma(term.Implies(p, term.Implies(q, term.And(p, q))))
	for i := 0; i < 2; i++ {
		if err := l.Intros(); err != nil {
			return nil, err
		}
	}
	if err := l.Split(); err != nil {
		return nil, err
	}
	if err := l.Assumption(); err != nil {
		return nil, err
	}
	if err := l.Assumption(); err != nil {
		return nil, err
	}
	return l.Qed()
}

// b || !b, by case analysis on the boolean.
func proveCases(s *tactic.Session) (*kernel.Proof, error) {
	b := term.NewConst("b", term.BoolSort{})
	l := s.NewLemma(term.Or(b, term.Not(b)))
	if err := l.Cases(b); err != nil {
		return nil, err
	}
	if err := l.Auto(); err != nil {
		return nil, err
	}
	if err := l.Auto(); err != nil {
		return nil, err
	}
	return l.Qed()
}

// x < x+1 <= x+2 composes to x < x+2.
func proveCalcChain(s *tactic.Session) (*kernel.Proof, error) {
	x := term.NewConst("x", term.IntSort{})
	c, err := s.NewCalc(x, tactic.CalcVars(x))
	if err != nil {
		return nil, err
	}
	if err := c.Lt(term.Add(x, term.IntLit(1))); err != nil {
		return nil, err
	}
	if err := c.Le(term.Add(x, term.IntLit(2))); err != nil {
		return nil, err
	}
	return c.Qed(), nil
}

// double(x) == x+x by unfolding the definition.
func proveUnfold(s *tactic.Session) (*kernel.Proof, error) {
	x := term.NewConst("x", term.IntSort{})
	double, _, err := s.Define("double", []term.Const{x}, term.Add(x, x))
	if err != nil {
		return nil, err
	}
	l := s.NewLemma(term.Eq(double.Apply(term.IntLit(3)), term.IntLit(6)))
	if err := l.Unfold(double); err != nil {
		return nil, err
	}
	if err := l.Auto(); err != nil {
		return nil, err
	}
	return l.Qed()
}
