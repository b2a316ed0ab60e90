package term

// Pair is a replacement directive for Substitute.
type Pair struct {
	Old Expr
	New Expr
}

// Substitute replaces every occurrence of each pair's Old expression with
// its New expression, first match wins at each node. Replacement terms are
// expected to be closed with respect to any binder they are substituted
// under; the tactic layer guarantees this by only substituting fresh
// constants and closed terms.
func Substitute(e Expr, pairs ...Pair) Expr {
	if len(pairs) == 0 {
		return e
	}
	return substitute(e, pairs)
}

func substitute(e Expr, pairs []Pair) Expr {
	for _, p := range pairs {
		if Equal(e, p.Old) {
			return p.New
		}
	}
	switch x := e.(type) {
	case BoolVal, IntVal, Const:
		return e

	case NotExpr:
		return NotExpr{X: substitute(x.X, pairs)}

	case AndExpr:
		return AndExpr{Args: substituteArgs(x.Args, pairs)}

	case OrExpr:
		return OrExpr{Args: substituteArgs(x.Args, pairs)}

	case ImpliesExpr:
		return ImpliesExpr{Hyp: substitute(x.Hyp, pairs), Concl: substitute(x.Concl, pairs)}

	case EqExpr:
		return EqExpr{L: substitute(x.L, pairs), R: substitute(x.R, pairs)}

	case DistinctExpr:
		return DistinctExpr{Args: substituteArgs(x.Args, pairs)}

	case BinaryExpr:
		return BinaryExpr{Op: x.Op, L: substitute(x.L, pairs), R: substitute(x.R, pairs)}

	case QuantExpr:
		// Shadowing: directives whose Old is one of the bound placeholders
		// do not apply inside the body.
		inner := pairs[:0:0]
		for _, p := range pairs {
			if c, ok := p.Old.(Const); ok && containsConst(x.Vars, c) {
				continue
			}
			inner = append(inner, p)
		}
		if len(inner) == 0 {
			return x
		}
		return QuantExpr{Universal: x.Universal, Vars: x.Vars, Body: substitute(x.Body, inner)}

	case ApplyExpr:
		return ApplyExpr{Fn: x.Fn, Args: substituteArgs(x.Args, pairs)}

	case SelectExpr:
		return SelectExpr{Arr: substitute(x.Arr, pairs), Idx: substitute(x.Idx, pairs)}

	default:
		return e
	}
}

func substituteArgs(args []Expr, pairs []Pair) []Expr {
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = substitute(a, pairs)
	}
	return out
}

func containsConst(vars []Const, c Const) bool {
	for _, v := range vars {
		if v == c {
			return true
		}
	}
	return false
}

// Consts returns the free constants of e in order of first occurrence.
// Quantifier-bound placeholders are excluded.
func Consts(e Expr) []Const {
	var out []Const
	seen := map[Const]bool{}
	collectConsts(e, map[Const]bool{}, seen, &out)
	return out
}

func collectConsts(e Expr, bound map[Const]bool, seen map[Const]bool, out *[]Const) {
	switch x := e.(type) {
	case Const:
		if !bound[x] && !seen[x] {
			seen[x] = true
			*out = append(*out, x)
		}
	case NotExpr:
		collectConsts(x.X, bound, seen, out)
	case AndExpr:
		for _, a := range x.Args {
			collectConsts(a, bound, seen, out)
		}
	case OrExpr:
		for _, a := range x.Args {
			collectConsts(a, bound, seen, out)
		}
	case ImpliesExpr:
		collectConsts(x.Hyp, bound, seen, out)
		collectConsts(x.Concl, bound, seen, out)
	case EqExpr:
		collectConsts(x.L, bound, seen, out)
		collectConsts(x.R, bound, seen, out)
	case DistinctExpr:
		for _, a := range x.Args {
			collectConsts(a, bound, seen, out)
		}
	case BinaryExpr:
		collectConsts(x.L, bound, seen, out)
		collectConsts(x.R, bound, seen, out)
	case QuantExpr:
		inner := map[Const]bool{}
		for k := range bound {
			inner[k] = true
		}
		for _, v := range x.Vars {
			inner[v] = true
		}
		collectConsts(x.Body, inner, seen, out)
	case ApplyExpr:
		for _, a := range x.Args {
			collectConsts(a, bound, seen, out)
		}
	case SelectExpr:
		collectConsts(x.Arr, bound, seen, out)
		collectConsts(x.Idx, bound, seen, out)
	}
}

// ContainsConst reports whether c occurs free in e.
func ContainsConst(e Expr, c Const) bool {
	for _, fc := range Consts(e) {
		if fc == c {
			return true
		}
	}
	return false
}

// Open opens a quantifier. With fresh set, the bound placeholders are
// replaced by fresh constants derived from their names; otherwise the body
// is returned with the original placeholders standing free (unhygienic
// opening, used only for diagnostics).
func Open(q QuantExpr, fresh bool) ([]Const, Expr) {
	if !fresh {
		return append([]Const(nil), q.Vars...), q.Body
	}
	vs := make([]Const, len(q.Vars))
	pairs := make([]Pair, len(q.Vars))
	for i, v := range q.Vars {
		vs[i] = FreshConst(v.Name, v.Sort())
		pairs[i] = Pair{Old: v, New: vs[i]}
	}
	return vs, Substitute(q.Body, pairs...)
}
