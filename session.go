package tactic

import (
	"time"

	"go.uber.org/zap"

	"github.com/tactic-labs/tactic/internal/kernel"
	"github.com/tactic-labs/tactic/internal/solver"
	"github.com/tactic-labs/tactic/internal/term"
)

const defaultTimeout = 2 * time.Second

// Session carries the shared machinery of an interactive proving session:
// the decision backend, the default timeout, the theorem registry, and a
// logger. A zero-config session is obtained with NewSession().
type Session struct {
	solver   kernel.Solver
	timeout  time.Duration
	logger   *zap.Logger
	registry *Registry
}

// Option configures a Session.
type Option func(*Session)

// WithSolver replaces the bundled decision backend.
func WithSolver(s kernel.Solver) Option {
	return func(sess *Session) { sess.solver = s }
}

// WithTimeout sets the default per-decision timeout.
func WithTimeout(d time.Duration) Option {
	return func(sess *Session) { sess.timeout = d }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(sess *Session) { sess.logger = l }
}

// WithRegistry shares a registry between sessions.
func WithRegistry(r *Registry) Option {
	return func(sess *Session) { sess.registry = r }
}

// NewSession creates a session with the bundled solver, a 2s timeout, a
// nop logger and a fresh registry, then applies the options.
func NewSession(opts ...Option) *Session {
	s := &Session{
		solver:   solver.New(),
		timeout:  defaultTimeout,
		logger:   zap.NewNop(),
		registry: NewRegistry(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Registry returns the session's theorem registry.
func (s *Session) Registry() *Registry {
	return s.registry
}

// NewLemma starts an interactive proof of target.
func (s *Session) NewLemma(target term.Expr) *Lemma {
	l := &Lemma{
		session: s,
		target:  target,
		goals:   []Goal{{Target: target}},
	}
	s.logger.Debug("lemma opened", zap.Stringer("target", target))
	return l
}

// Define declares a function with a definitional body, registers it, and
// returns the declaration together with its definitional axiom
// forall vars, f(vars) == body. Unfold consults the registry for these.
func (s *Session) Define(name string, vars []term.Const, body term.Expr) (*term.FuncDecl, *kernel.Proof, error) {
	d := term.Define(name, vars, body)
	ax, err := kernel.Defn(d)
	if err != nil {
		return nil, nil, err
	}
	s.registry.registerDefn(d)
	s.registry.Register(name, ax)
	return d, ax, nil
}
