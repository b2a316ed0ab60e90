package term

// Simplify applies best-effort local simplifications: constant folding,
// neutral element elimination, double negation, reflexive equalities.
// It is deterministic and idempotent; on expressions it cannot improve it
// returns the input unchanged.
func Simplify(e Expr) Expr {
	// Local rules can cascade (for example folding an argument exposes a
	// neutral element), so run to a fixpoint with a small bound.
	for i := 0; i < 8; i++ {
		e2 := simplify(e)
		if Equal(e2, e) {
			return e
		}
		e = e2
	}
	return e
}

func simplify(e Expr) Expr {
	switch x := e.(type) {
	case NotExpr:
		inner := simplify(x.X)
		switch y := inner.(type) {
		case BoolVal:
			return BoolVal{Val: !y.Val}
		case NotExpr:
			return y.X
		}
		return NotExpr{X: inner}

	case AndExpr:
		args := make([]Expr, 0, len(x.Args))
		for _, a := range x.Args {
			sa := simplify(a)
			if b, ok := sa.(BoolVal); ok {
				if !b.Val {
					return False()
				}
				continue
			}
			args = append(args, sa)
		}
		return And(args...)

	case OrExpr:
		args := make([]Expr, 0, len(x.Args))
		for _, a := range x.Args {
			sa := simplify(a)
			if b, ok := sa.(BoolVal); ok {
				if b.Val {
					return True()
				}
				continue
			}
			args = append(args, sa)
		}
		return Or(args...)

	case ImpliesExpr:
		hyp := simplify(x.Hyp)
		concl := simplify(x.Concl)
		if b, ok := hyp.(BoolVal); ok {
			if b.Val {
				return concl
			}
			return True()
		}
		if b, ok := concl.(BoolVal); ok && b.Val {
			return True()
		}
		return ImpliesExpr{Hyp: hyp, Concl: concl}

	case EqExpr:
		l := simplify(x.L)
		r := simplify(x.R)
		if Equal(l, r) {
			return True()
		}
		if lb, ok := l.(BoolVal); ok {
			if lb.Val {
				return r
			}
			return simplify(NotExpr{X: r})
		}
		if rb, ok := r.(BoolVal); ok {
			if rb.Val {
				return l
			}
			return simplify(NotExpr{X: l})
		}
		li, lok := l.(IntVal)
		ri, rok := r.(IntVal)
		if lok && rok && li.Val != ri.Val {
			return False()
		}
		return EqExpr{L: l, R: r}

	case DistinctExpr:
		return DistinctExpr{Args: simplifyArgs(x.Args)}

	case BinaryExpr:
		l := simplify(x.L)
		r := simplify(x.R)
		li, lok := l.(IntVal)
		ri, rok := r.(IntVal)
		if lok && rok {
			if v, ok := foldInts(x.Op, li.Val, ri.Val); ok {
				return v
			}
		}
		switch x.Op {
		case OpAdd:
			if lok && li.Val == 0 {
				return r
			}
			if rok && ri.Val == 0 {
				return l
			}
		case OpSub:
			if rok && ri.Val == 0 {
				return l
			}
			if Equal(l, r) {
				return IntVal{Val: 0}
			}
		case OpMul:
			if lok && li.Val == 1 {
				return r
			}
			if rok && ri.Val == 1 {
				return l
			}
			if (lok && li.Val == 0) || (rok && ri.Val == 0) {
				return IntVal{Val: 0}
			}
		case OpLe, OpGe:
			if Equal(l, r) {
				return True()
			}
		case OpLt, OpGt:
			if Equal(l, r) {
				return False()
			}
		}
		return BinaryExpr{Op: x.Op, L: l, R: r}

	case QuantExpr:
		body := simplify(x.Body)
		if b, ok := body.(BoolVal); ok {
			return b
		}
		return QuantExpr{Universal: x.Universal, Vars: x.Vars, Body: body}

	case ApplyExpr:
		return ApplyExpr{Fn: x.Fn, Args: simplifyArgs(x.Args)}

	case SelectExpr:
		return SelectExpr{Arr: simplify(x.Arr), Idx: simplify(x.Idx)}

	default:
		return e
	}
}

func simplifyArgs(args []Expr) []Expr {
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = simplify(a)
	}
	return out
}

func foldInts(op BinaryOp, l, r int64) (Expr, bool) {
	switch op {
	case OpAdd:
		return IntVal{Val: l + r}, true
	case OpSub:
		return IntVal{Val: l - r}, true
	case OpMul:
		return IntVal{Val: l * r}, true
	case OpDiv:
		if r == 0 {
			return nil, false
		}
		return IntVal{Val: l / r}, true
	case OpMod:
		if r == 0 {
			return nil, false
		}
		return IntVal{Val: l % r}, true
	case OpLt:
		return BoolVal{Val: l < r}, true
	case OpLe:
		return BoolVal{Val: l <= r}, true
	case OpGt:
		return BoolVal{Val: l > r}, true
	case OpGe:
		return BoolVal{Val: l >= r}, true
	default:
		return nil, false
	}
}
