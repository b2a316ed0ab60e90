package term

import (
	"fmt"
	"strings"
)

// Expr represents an expression node. The set of implementations is closed;
// consumers dispatch with exhaustive type switches.
type Expr interface {
	isExpr()
	Sort() Sort
	String() string
}

// BoolVal is a boolean literal.
type BoolVal struct {
	Val bool
}

func (BoolVal) isExpr() {}
func (BoolVal) Sort() Sort {
	return BoolSort{}
}
func (e BoolVal) String() string {
	return fmt.Sprintf("%t", e.Val)
}

// IntVal is an integer literal.
type IntVal struct {
	Val int64
}

func (IntVal) isExpr() {}
func (IntVal) Sort() Sort {
	return IntSort{}
}
func (e IntVal) String() string {
	return fmt.Sprintf("%d", e.Val)
}

// Const is a free constant (or a quantifier-bound placeholder inside a
// quantifier body). Consts are comparable and usable as map keys.
type Const struct {
	Name string
	sort Sort
}

func (Const) isExpr() {}
func (c Const) Sort() Sort {
	return c.sort
}
func (c Const) String() string {
	return c.Name
}

// NewConst creates a constant of the given sort.
func NewConst(name string, s Sort) Const {
	return Const{Name: name, sort: s}
}

// NotExpr is boolean negation.
type NotExpr struct {
	X Expr
}

func (NotExpr) isExpr() {}
func (NotExpr) Sort() Sort {
	return BoolSort{}
}
func (e NotExpr) String() string {
	return "!" + e.X.String()
}

// AndExpr is an n-ary conjunction (n >= 2).
type AndExpr struct {
	Args []Expr
}

func (AndExpr) isExpr() {}
func (AndExpr) Sort() Sort {
	return BoolSort{}
}
func (e AndExpr) String() string {
	return joinArgs(e.Args, " && ")
}

// OrExpr is an n-ary disjunction (n >= 2).
type OrExpr struct {
	Args []Expr
}

func (OrExpr) isExpr() {}
func (OrExpr) Sort() Sort {
	return BoolSort{}
}
func (e OrExpr) String() string {
	return joinArgs(e.Args, " || ")
}

// ImpliesExpr is implication.
type ImpliesExpr struct {
	Hyp   Expr
	Concl Expr
}

func (ImpliesExpr) isExpr() {}
func (ImpliesExpr) Sort() Sort {
	return BoolSort{}
}
func (e ImpliesExpr) String() string {
	return "(" + e.Hyp.String() + " -> " + e.Concl.String() + ")"
}

// EqExpr is equality at any sort. At BoolSort it doubles as bi-implication.
type EqExpr struct {
	L Expr
	R Expr
}

func (EqExpr) isExpr() {}
func (EqExpr) Sort() Sort {
	return BoolSort{}
}
func (e EqExpr) String() string {
	return "(" + e.L.String() + " == " + e.R.String() + ")"
}

// DistinctExpr asserts its arguments are pairwise distinct.
type DistinctExpr struct {
	Args []Expr
}

func (DistinctExpr) isExpr() {}
func (DistinctExpr) Sort() Sort {
	return BoolSort{}
}
func (e DistinctExpr) String() string {
	return "distinct(" + joinArgs(e.Args, ", ") + ")"
}

// BinaryOp enumerates arithmetic and order operators.
type BinaryOp int

const (
	_ BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// IsOrder reports whether the operator is a comparison.
func (op BinaryOp) IsOrder() bool {
	switch op {
	case OpLt, OpLe, OpGt, OpGe:
		return true
	default:
		return false
	}
}

// BinaryExpr is an arithmetic or order expression over integers.
type BinaryExpr struct {
	Op BinaryOp
	L  Expr
	R  Expr
}

func (BinaryExpr) isExpr() {}
func (e BinaryExpr) Sort() Sort {
	if e.Op.IsOrder() {
		return BoolSort{}
	}
	return IntSort{}
}
func (e BinaryExpr) String() string {
	return "(" + e.L.String() + " " + e.Op.String() + " " + e.R.String() + ")"
}

// QuantExpr is a universal or existential quantifier binding Vars in Body.
// Bound occurrences in Body are the Const values in Vars themselves.
type QuantExpr struct {
	Universal bool
	Vars      []Const
	Body      Expr
}

func (QuantExpr) isExpr() {}
func (QuantExpr) Sort() Sort {
	return BoolSort{}
}
func (e QuantExpr) String() string {
	kw := "forall"
	if !e.Universal {
		kw = "exists"
	}
	names := make([]string, len(e.Vars))
	for i, v := range e.Vars {
		names[i] = v.Name
	}
	return "(" + kw + " " + strings.Join(names, " ") + ". " + e.Body.String() + ")"
}

// ApplyExpr applies a function declaration to arguments.
type ApplyExpr struct {
	Fn   *FuncDecl
	Args []Expr
}

func (ApplyExpr) isExpr() {}
func (e ApplyExpr) Sort() Sort {
	return e.Fn.Ret
}
func (e ApplyExpr) String() string {
	if len(e.Args) == 0 {
		return e.Fn.Name
	}
	return e.Fn.Name + "(" + joinArgs(e.Args, ", ") + ")"
}

// SelectExpr reads an array-sorted expression at an index.
type SelectExpr struct {
	Arr Expr
	Idx Expr
}

func (SelectExpr) isExpr() {}
func (e SelectExpr) Sort() Sort {
	if as, ok := e.Arr.Sort().(ArraySort); ok {
		return as.Rng
	}
	return nil
}
func (e SelectExpr) String() string {
	return e.Arr.String() + "[" + e.Idx.String() + "]"
}

func joinArgs(args []Expr, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// Constructor helpers.

// True returns the boolean literal true.
func True() Expr {
	return BoolVal{Val: true}
}

// False returns the boolean literal false.
func False() Expr {
	return BoolVal{Val: false}
}

// BoolLit returns a boolean literal.
func BoolLit(v bool) Expr {
	return BoolVal{Val: v}
}

// IntLit returns an integer literal.
func IntLit(v int64) Expr {
	return IntVal{Val: v}
}

// Not returns the negation of x.
func Not(x Expr) Expr {
	return NotExpr{X: x}
}

// And returns the conjunction of args. Zero args is true, one arg is the
// arg itself.
func And(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return True()
	case 1:
		return args[0]
	default:
		return AndExpr{Args: args}
	}
}

// Or returns the disjunction of args. Zero args is false, one arg is the
// arg itself.
func Or(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return False()
	case 1:
		return args[0]
	default:
		return OrExpr{Args: args}
	}
}

// Implies returns hyp -> concl.
func Implies(hyp, concl Expr) Expr {
	return ImpliesExpr{Hyp: hyp, Concl: concl}
}

// Eq returns l == r.
func Eq(l, r Expr) Expr {
	return EqExpr{L: l, R: r}
}

// Ne returns l != r.
func Ne(l, r Expr) Expr {
	return Not(Eq(l, r))
}

// Distinct asserts pairwise distinctness of args.
func Distinct(args ...Expr) Expr {
	return DistinctExpr{Args: args}
}

// Add returns l + r.
func Add(l, r Expr) Expr {
	return BinaryExpr{Op: OpAdd, L: l, R: r}
}

// Sub returns l - r.
func Sub(l, r Expr) Expr {
	return BinaryExpr{Op: OpSub, L: l, R: r}
}

// Mul returns l * r.
func Mul(l, r Expr) Expr {
	return BinaryExpr{Op: OpMul, L: l, R: r}
}

// Div returns l / r.
func Div(l, r Expr) Expr {
	return BinaryExpr{Op: OpDiv, L: l, R: r}
}

// Mod returns l % r.
func Mod(l, r Expr) Expr {
	return BinaryExpr{Op: OpMod, L: l, R: r}
}

// Lt returns l < r.
func Lt(l, r Expr) Expr {
	return BinaryExpr{Op: OpLt, L: l, R: r}
}

// Le returns l <= r.
func Le(l, r Expr) Expr {
	return BinaryExpr{Op: OpLe, L: l, R: r}
}

// Gt returns l > r.
func Gt(l, r Expr) Expr {
	return BinaryExpr{Op: OpGt, L: l, R: r}
}

// Ge returns l >= r.
func Ge(l, r Expr) Expr {
	return BinaryExpr{Op: OpGe, L: l, R: r}
}

// ForAll universally quantifies body over vars. With no vars it returns
// body unchanged.
func ForAll(vars []Const, body Expr) Expr {
	if len(vars) == 0 {
		return body
	}
	return QuantExpr{Universal: true, Vars: vars, Body: body}
}

// Exists existentially quantifies body over vars. With no vars it returns
// body unchanged.
func Exists(vars []Const, body Expr) Expr {
	if len(vars) == 0 {
		return body
	}
	return QuantExpr{Universal: false, Vars: vars, Body: body}
}

// Select reads arr at idx.
func Select(arr, idx Expr) Expr {
	return SelectExpr{Arr: arr, Idx: idx}
}
