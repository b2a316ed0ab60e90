package term

// FuncDecl declares a function symbol. A declaration created with Define
// additionally carries a definitional body; Definition exposes it for
// unfolding. Declarations compare by identity.
type FuncDecl struct {
	Name   string
	Params []Sort
	Ret    Sort

	defVars []Const
	defBody Expr

	ctorOf  *DatatypeSort
	recogOf *Variant
}

// NewFuncDecl declares an uninterpreted function symbol.
func NewFuncDecl(name string, params []Sort, ret Sort) *FuncDecl {
	return &FuncDecl{Name: name, Params: params, Ret: ret}
}

// Define declares a function symbol with a definition: applied to vars, it
// equals body. The parameter sorts are taken from vars and the return sort
// from body.
func Define(name string, vars []Const, body Expr) *FuncDecl {
	params := make([]Sort, len(vars))
	for i, v := range vars {
		params[i] = v.Sort()
	}
	return &FuncDecl{
		Name:    name,
		Params:  params,
		Ret:     body.Sort(),
		defVars: append([]Const(nil), vars...),
		defBody: body,
	}
}

// Apply builds an application of the declaration to args.
func (d *FuncDecl) Apply(args ...Expr) Expr {
	return ApplyExpr{Fn: d, Args: args}
}

// Definition returns the defining variables and body, if the declaration
// was created with Define.
func (d *FuncDecl) Definition() ([]Const, Expr, bool) {
	if d.defBody == nil {
		return nil, nil, false
	}
	return d.defVars, d.defBody, true
}

// ConstructorOf returns the datatype sort this declaration constructs, if
// it is a variant constructor.
func (d *FuncDecl) ConstructorOf() (*DatatypeSort, bool) {
	return d.ctorOf, d.ctorOf != nil
}

// RecognizerOf returns the variant this declaration recognizes, if it is a
// variant recognizer.
func (d *FuncDecl) RecognizerOf() (*Variant, bool) {
	return d.recogOf, d.recogOf != nil
}
