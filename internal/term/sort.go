package term

// Sort describes the type of an expression.
type Sort interface {
	isSort()
	String() string
}

// BoolSort is the sort of boolean expressions.
type BoolSort struct{}

func (BoolSort) isSort() {}
func (BoolSort) String() string {
	return "Bool"
}

// IntSort is the sort of integer expressions.
type IntSort struct{}

func (IntSort) isSort() {}
func (IntSort) String() string {
	return "Int"
}

// UninterpSort is an uninterpreted sort, identified by name.
type UninterpSort struct {
	Name string
}

func (UninterpSort) isSort() {}
func (s UninterpSort) String() string {
	return s.Name
}

// ArraySort is the sort of total maps from Dom to Rng.
type ArraySort struct {
	Dom Sort
	Rng Sort
}

func (ArraySort) isSort() {}
func (s ArraySort) String() string {
	return "[" + s.Dom.String() + "]" + s.Rng.String()
}

// DatatypeSort is a tagged-variant (sum) sort. Variants are added with
// AddVariant; fields may reference the sort itself, which is how recursive
// datatypes are built.
type DatatypeSort struct {
	Name     string
	variants []*Variant
}

func (*DatatypeSort) isSort() {}
func (d *DatatypeSort) String() string {
	return d.Name
}

// NewDatatypeSort creates a datatype sort with no variants.
func NewDatatypeSort(name string) *DatatypeSort {
	return &DatatypeSort{Name: name}
}

// Field is a named, sorted constructor argument.
type Field struct {
	Name string
	Sort Sort
}

// Variant is one constructor of a datatype sort, together with its
// recognizer and field accessors.
type Variant struct {
	Name      string
	ctor      *FuncDecl
	recog     *FuncDecl
	accessors []*FuncDecl
}

// AddVariant appends a variant and returns it. The variant's constructor
// takes the field sorts and returns the datatype; its recognizer takes the
// datatype and returns Bool.
func (d *DatatypeSort) AddVariant(name string, fields ...Field) *Variant {
	params := make([]Sort, len(fields))
	accessors := make([]*FuncDecl, len(fields))
	for i, f := range fields {
		params[i] = f.Sort
		accessors[i] = NewFuncDecl(f.Name, []Sort{d}, f.Sort)
	}
	v := &Variant{
		Name:      name,
		ctor:      NewFuncDecl(name, params, d),
		recog:     NewFuncDecl("is-"+name, []Sort{d}, BoolSort{}),
		accessors: accessors,
	}
	v.ctor.ctorOf = d
	v.recog.recogOf = v
	d.variants = append(d.variants, v)
	return v
}

// NumVariants reports how many variants the sort has.
func (d *DatatypeSort) NumVariants() int {
	return len(d.variants)
}

// Variant returns the i-th variant in declaration order.
func (d *DatatypeSort) Variant(i int) *Variant {
	return d.variants[i]
}

// Constructor returns the variant's constructor declaration.
func (v *Variant) Constructor() *FuncDecl {
	return v.ctor
}

// Recognizer returns the variant's recognizer declaration.
func (v *Variant) Recognizer() *FuncDecl {
	return v.recog
}

// NumFields reports how many fields the variant carries.
func (v *Variant) NumFields() int {
	return len(v.accessors)
}

// Accessor returns the i-th field accessor declaration.
func (v *Variant) Accessor(i int) *FuncDecl {
	return v.accessors[i]
}

// SortEqual reports whether two sorts are the same. Datatype sorts compare
// by identity; all other sorts compare structurally.
func SortEqual(a, b Sort) bool {
	if a == nil || b == nil {
		return a == b
	}
	if ar, ok := a.(ArraySort); ok {
		br, ok := b.(ArraySort)
		return ok && SortEqual(ar.Dom, br.Dom) && SortEqual(ar.Rng, br.Rng)
	}
	return a == b
}
