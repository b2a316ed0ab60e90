package term

// Equal reports structural equality up to renaming of quantifier-bound
// placeholders (alpha equivalence). Free constants compare by name and
// sort.
func Equal(a, b Expr) bool {
	return alphaEqual(a, b, nil, nil, 0)
}

func alphaEqual(a, b Expr, ba, bb map[Const]int, depth int) bool {
	switch x := a.(type) {
	case BoolVal:
		y, ok := b.(BoolVal)
		return ok && x.Val == y.Val

	case IntVal:
		y, ok := b.(IntVal)
		return ok && x.Val == y.Val

	case Const:
		y, ok := b.(Const)
		if !ok {
			return false
		}
		ia, boundA := ba[x]
		ib, boundB := bb[y]
		if boundA || boundB {
			return boundA && boundB && ia == ib
		}
		return x == y

	case NotExpr:
		y, ok := b.(NotExpr)
		return ok && alphaEqual(x.X, y.X, ba, bb, depth)

	case AndExpr:
		y, ok := b.(AndExpr)
		return ok && argsEqual(x.Args, y.Args, ba, bb, depth)

	case OrExpr:
		y, ok := b.(OrExpr)
		return ok && argsEqual(x.Args, y.Args, ba, bb, depth)

	case ImpliesExpr:
		y, ok := b.(ImpliesExpr)
		return ok && alphaEqual(x.Hyp, y.Hyp, ba, bb, depth) &&
			alphaEqual(x.Concl, y.Concl, ba, bb, depth)

	case EqExpr:
		y, ok := b.(EqExpr)
		return ok && alphaEqual(x.L, y.L, ba, bb, depth) &&
			alphaEqual(x.R, y.R, ba, bb, depth)

	case DistinctExpr:
		y, ok := b.(DistinctExpr)
		return ok && argsEqual(x.Args, y.Args, ba, bb, depth)

	case BinaryExpr:
		y, ok := b.(BinaryExpr)
		return ok && x.Op == y.Op && alphaEqual(x.L, y.L, ba, bb, depth) &&
			alphaEqual(x.R, y.R, ba, bb, depth)

	case QuantExpr:
		y, ok := b.(QuantExpr)
		if !ok || x.Universal != y.Universal || len(x.Vars) != len(y.Vars) {
			return false
		}
		ba2 := copyBindings(ba)
		bb2 := copyBindings(bb)
		for i := range x.Vars {
			if !SortEqual(x.Vars[i].Sort(), y.Vars[i].Sort()) {
				return false
			}
			ba2[x.Vars[i]] = depth + i
			bb2[y.Vars[i]] = depth + i
		}
		return alphaEqual(x.Body, y.Body, ba2, bb2, depth+len(x.Vars))

	case ApplyExpr:
		y, ok := b.(ApplyExpr)
		return ok && x.Fn == y.Fn && argsEqual(x.Args, y.Args, ba, bb, depth)

	case SelectExpr:
		y, ok := b.(SelectExpr)
		return ok && alphaEqual(x.Arr, y.Arr, ba, bb, depth) &&
			alphaEqual(x.Idx, y.Idx, ba, bb, depth)

	default:
		return false
	}
}

func argsEqual(a, b []Expr, ba, bb map[Const]int, depth int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !alphaEqual(a[i], b[i], ba, bb, depth) {
			return false
		}
	}
	return true
}

func copyBindings(m map[Const]int) map[Const]int {
	out := make(map[Const]int, len(m)+2)
	for k, v := range m {
		out[k] = v
	}
	return out
}
