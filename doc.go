// Package tactic is an interactive, tactic-based proof-state manager. A
// caller states a goal formula, wraps it in a Lemma, and applies tactics
// that break the goal into simpler subgoals until each can be discharged
// by the decision procedure; Qed then assembles the recorded certificates
// into one certificate for the original statement. Calc builds a single
// certificate for a chain of transitive steps.
//
// The tactic layer is untrusted: it only orchestrates calls into the
// kernel package, which is the sole issuer of certificates. A bug here can
// make a proof attempt fail, never make a false statement certified.
package tactic
