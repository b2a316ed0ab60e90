// Package term implements the symbolic term algebra the tactic machinery
// works over: a closed sum type of expression nodes (literals, constants,
// boolean combinators, relations, quantifiers, applications), a sort system
// with tagged-variant datatypes, alpha-aware structural equality,
// substitution, fresh constant generation and a best-effort local
// simplifier.
//
// Expressions are immutable. Every operation that "changes" an expression
// builds a new one; callers may freely share subterms.
package term
