package tactic

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tactic-labs/tactic/internal/kernel"
	"github.com/tactic-labs/tactic/internal/rewrite"
	"github.com/tactic-labs/tactic/internal/term"
)

// ProveOption adjusts a single Prove call.
type ProveOption func(*proveConfig)

type proveConfig struct {
	timeout time.Duration
	unfold  int
	by      []*kernel.Proof
}

// ProveTimeout overrides the session timeout for this call.
func ProveTimeout(d time.Duration) ProveOption {
	return func(c *proveConfig) { c.timeout = d }
}

// ProveUnfold expands applications of registered definitions in the target
// before deciding, up to the given number of rounds. A round expands every
// application present at its start, so recursive definitions unroll once
// per round.
func ProveUnfold(rounds int) ProveOption {
	return func(c *proveConfig) { c.unfold = rounds }
}

// ProveBy supplies supporting theorems.
func ProveBy(pfs ...*kernel.Proof) ProveOption {
	return func(c *proveConfig) { c.by = append(c.by, pfs...) }
}

// Prove decides target in one shot, without opening an interactive lemma.
// On failure the error distinguishes a refutation, which carries a
// countermodel, from a timeout.
func (s *Session) Prove(target term.Expr, opts ...ProveOption) (*kernel.Proof, error) {
	cfg := proveConfig{timeout: s.timeout}
	for _, o := range opts {
		o(&cfg)
	}
	support := append([]*kernel.Proof(nil), cfg.by...)

	goal := target
	for round := 0; round < cfg.unfold; round++ {
		expanded, certs, err := s.unfoldOnce(goal)
		if err != nil {
			return nil, err
		}
		if len(certs) == 0 {
			break
		}
		support = append(support, certs...)
		goal = expanded
	}

	start := time.Now()
	pf, err := kernel.Prove(s.solver, target, support, cfg.timeout)
	s.logger.Debug("prove",
		zap.Stringer("target", target),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil))
	if err == nil {
		return pf, nil
	}

	var derr *kernel.DecisionError
	if errors.As(err, &derr) && derr.Kind == kernel.KindDisproved {
		if cm := s.diagnose(target, cfg.timeout); cm != nil && derr.Countermodel == nil {
			derr.Countermodel = cm
		}
	}
	return nil, err
}

// unfoldOnce expands every application of a registered definition present
// in e, returning the expanded expression and the instantiated definitional
// axioms that justify each expansion.
func (s *Session) unfoldOnce(e term.Expr) (term.Expr, []*kernel.Proof, error) {
	var certs []*kernel.Proof
	for _, d := range s.registry.Defns() {
		ax, err := kernel.Defn(d)
		if err != nil {
			return nil, nil, err
		}
		r, err := rewrite.OfEquality(ax.Thm(), false)
		if err != nil {
			return nil, nil, err
		}
		for {
			occ, sub, ok := rewrite.SearchFirst(r.Vars, r.LHS, e)
			if !ok {
				break
			}
			if len(r.Vars) > 0 {
				bindings, ok := sub.Bindings(r.Vars)
				if !ok {
					break
				}
				inst, err := instantiateFully(ax, bindings)
				if err != nil {
					return nil, nil, err
				}
				certs = append(certs, inst)
			} else {
				certs = append(certs, ax)
			}
			e = term.Substitute(e, term.Pair{Old: occ, New: rewrite.Apply(sub, r.RHS)})
		}
	}
	return e, certs, nil
}

// diagnose finds a countermodel for the quantifier-free core of a refuted
// universal target, to attach to the failure when the original decision
// produced none. The verdict itself is never changed.
func (s *Session) diagnose(target term.Expr, timeout time.Duration) *kernel.Countermodel {
	q, ok := target.(term.QuantExpr)
	if !ok || !q.Universal {
		return nil
	}
	core := target
	for {
		inner, ok := core.(term.QuantExpr)
		if !ok || !inner.Universal {
			break
		}
		_, core = term.Open(inner, false)
	}
	d := s.solver.Decide(core, nil, timeout)
	if d.Verdict != kernel.VerdictDisproved || d.Countermodel == nil {
		return nil
	}
	s.logger.Debug("countermodel for quantifier-free core",
		zap.Stringer("core", core),
		zap.Stringer("model", d.Countermodel))
	return d.Countermodel
}
