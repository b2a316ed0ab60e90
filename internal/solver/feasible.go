package solver

import (
	"github.com/tactic-labs/tactic/internal/term"
)

// feasibility prunes atom assignments that no model can realize, so that
// only genuinely falsifiable assignments are reported as countermodels.
// Four sources of infeasibility are checked: ground/linear evaluation of
// individual atoms, congruence closure over the equalities assigned true,
// chains of order atoms, and datatype variant semantics (recognizers are
// mutually exclusive and jointly exhaustive).
type feasibility struct {
	atoms  []term.Expr
	forced []int8 // 1 forced true, 0 forced false, -1 free
}

func newFeasibility(atoms []term.Expr) *feasibility {
	f := &feasibility{atoms: atoms, forced: make([]int8, len(atoms))}
	for i, a := range atoms {
		f.forced[i] = forcedValue(a)
	}
	return f
}

func (f *feasibility) feasible(asn []bool) bool {
	for i := range f.atoms {
		if f.forced[i] == 1 && !asn[i] {
			return false
		}
		if f.forced[i] == 0 && asn[i] {
			return false
		}
	}

	cc := newCongruence(f.atoms)
	for i, a := range f.atoms {
		if !asn[i] {
			continue
		}
		if eq, ok := a.(term.EqExpr); ok {
			cc.union(eq.L, eq.R)
		}
	}
	cc.close()

	for i, a := range f.atoms {
		switch x := a.(type) {
		case term.EqExpr:
			if !asn[i] && cc.congruent(x.L, x.R) {
				return false
			}
		case term.BinaryExpr:
			switch x.Op {
			case term.OpLt, term.OpGt:
				if asn[i] && cc.congruent(x.L, x.R) {
					return false
				}
			case term.OpLe, term.OpGe:
				if !asn[i] && cc.congruent(x.L, x.R) {
					return false
				}
			}
		case term.DistinctExpr:
			if asn[i] {
				for j := 0; j < len(x.Args); j++ {
					for k := 0; k < j; k++ {
						if cc.congruent(x.Args[j], x.Args[k]) {
							return false
						}
					}
				}
			}
		}
	}

	if !f.ordersConsistent(asn, cc) {
		return false
	}
	return f.recognizersConsistent(asn, cc)
}

// ordersConsistent builds a reachability relation over congruence classes
// from the order atoms and rejects assignments that close a cycle through
// a strict edge.
func (f *feasibility) ordersConsistent(asn []bool, cc *congruence) bool {
	type edge struct {
		from, to string
		strict   bool
	}
	var edges []edge
	add := func(l, r term.Expr, strict bool) {
		edges = append(edges, edge{from: cc.find(l), to: cc.find(r), strict: strict})
	}
	for i, a := range f.atoms {
		b, ok := a.(term.BinaryExpr)
		if !ok || !b.Op.IsOrder() {
			continue
		}
		switch b.Op {
		case term.OpLt:
			if asn[i] {
				add(b.L, b.R, true)
			} else {
				add(b.R, b.L, false)
			}
		case term.OpLe:
			if asn[i] {
				add(b.L, b.R, false)
			} else {
				add(b.R, b.L, true)
			}
		case term.OpGt:
			if asn[i] {
				add(b.R, b.L, true)
			} else {
				add(b.L, b.R, false)
			}
		case term.OpGe:
			if asn[i] {
				add(b.R, b.L, false)
			} else {
				add(b.L, b.R, true)
			}
		}
	}
	if len(edges) == 0 {
		return true
	}

	nodes := map[string]int{}
	for _, e := range edges {
		if _, ok := nodes[e.from]; !ok {
			nodes[e.from] = len(nodes)
		}
		if _, ok := nodes[e.to]; !ok {
			nodes[e.to] = len(nodes)
		}
	}
	n := len(nodes)
	// reach[i][j]: 0 unreachable, 1 non-strict path, 2 path with a strict
	// edge.
	reach := make([][]int8, n)
	for i := range reach {
		reach[i] = make([]int8, n)
	}
	for _, e := range edges {
		i, j := nodes[e.from], nodes[e.to]
		w := int8(1)
		if e.strict {
			w = 2
		}
		if w > reach[i][j] {
			reach[i][j] = w
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if reach[i][k] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				if reach[k][j] == 0 {
					continue
				}
				w := reach[i][k]
				if reach[k][j] > w {
					w = reach[k][j]
				}
				if w > reach[i][j] {
					reach[i][j] = w
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		if reach[i][i] == 2 {
			return false
		}
	}
	return true
}

// recognizersConsistent enforces that for any term, at most one variant
// recognizer holds, and when the assignment mentions every variant of the
// sort, at least one holds.
func (f *feasibility) recognizersConsistent(asn []bool, cc *congruence) bool {
	type group struct {
		sort     *term.DatatypeSort
		variants map[string]bool // variant name -> assigned value
	}
	groups := map[string]*group{}
	for i, a := range f.atoms {
		app, ok := a.(term.ApplyExpr)
		if !ok || len(app.Args) != 1 {
			continue
		}
		v, ok := app.Fn.RecognizerOf()
		if !ok {
			continue
		}
		dsort, ok := app.Args[0].Sort().(*term.DatatypeSort)
		if !ok {
			continue
		}
		k := dsort.Name + "\x00" + cc.find(app.Args[0])
		g := groups[k]
		if g == nil {
			g = &group{sort: dsort, variants: map[string]bool{}}
			groups[k] = g
		}
		if prev, seen := g.variants[v.Name]; seen && prev != asn[i] {
			// Same recognizer on congruent terms with conflicting values.
			return false
		}
		g.variants[v.Name] = asn[i]
	}
	for _, g := range groups {
		trues := 0
		for _, val := range g.variants {
			if val {
				trues++
			}
		}
		if trues > 1 {
			return false
		}
		if trues == 0 && len(g.variants) == g.sort.NumVariants() {
			return false
		}
	}
	return true
}

// forcedValue decides atoms whose truth is independent of any model:
// linear integer facts and ground datatype facts.
func forcedValue(a term.Expr) int8 {
	switch x := a.(type) {
	case term.EqExpr:
		if term.SortEqual(x.L.Sort(), term.IntSort{}) {
			if c, ok := linearConstDiff(x.L, x.R); ok {
				return boolToForced(c == 0)
			}
		}
		lc, lok := constructorHead(x.L)
		rc, rok := constructorHead(x.R)
		if lok && rok && lc != rc {
			return 0
		}
	case term.BinaryExpr:
		if x.Op.IsOrder() {
			if c, ok := linearConstDiff(x.L, x.R); ok {
				switch x.Op {
				case term.OpLt:
					return boolToForced(c < 0)
				case term.OpLe:
					return boolToForced(c <= 0)
				case term.OpGt:
					return boolToForced(c > 0)
				case term.OpGe:
					return boolToForced(c >= 0)
				}
			}
		}
	case term.ApplyExpr:
		if v, ok := x.Fn.RecognizerOf(); ok && len(x.Args) == 1 {
			if ctor, ok := constructorHead(x.Args[0]); ok {
				return boolToForced(ctor == v.Constructor())
			}
		}
	}
	return -1
}

func boolToForced(b bool) int8 {
	if b {
		return 1
	}
	return 0
}

func constructorHead(e term.Expr) (*term.FuncDecl, bool) {
	app, ok := e.(term.ApplyExpr)
	if !ok {
		return nil, false
	}
	if _, isCtor := app.Fn.ConstructorOf(); !isCtor {
		return nil, false
	}
	return app.Fn, true
}

// linearConstDiff computes L-R as a linear combination over opaque
// monomials and reports the constant when every monomial cancels.
func linearConstDiff(l, r term.Expr) (int64, bool) {
	acc := map[string]int64{}
	if !linearAcc(l, 1, acc) || !linearAcc(r, -1, acc) {
		return 0, false
	}
	for k, v := range acc {
		if k != "" && v != 0 {
			return 0, false
		}
	}
	return acc[""], true
}

func linearAcc(e term.Expr, sign int64, acc map[string]int64) bool {
	switch x := e.(type) {
	case term.IntVal:
		acc[""] += sign * x.Val
		return true
	case term.BinaryExpr:
		switch x.Op {
		case term.OpAdd:
			return linearAcc(x.L, sign, acc) && linearAcc(x.R, sign, acc)
		case term.OpSub:
			return linearAcc(x.L, sign, acc) && linearAcc(x.R, -sign, acc)
		case term.OpMul:
			if c, ok := x.L.(term.IntVal); ok {
				return linearAcc(x.R, sign*c.Val, acc)
			}
			if c, ok := x.R.(term.IntVal); ok {
				return linearAcc(x.L, sign*c.Val, acc)
			}
		}
	}
	if !term.SortEqual(e.Sort(), term.IntSort{}) {
		return false
	}
	acc[e.String()] += sign
	return true
}
