package tree

import (
	"github.com/robot-dreams/riff"
)

// Bind resolves every leaf's column name to its ordinal in td, producing a
// new tree.  Binding an already-bound tree yields an equal tree.  Fails
// with UnknownColumn for a name absent from td and TypeMismatch when a
// literal's type does not match the column's type (or when an ordering
// comparison targets a non-orderable column).
func Bind(t Tree, td *riff.TypeDescription) (Tree, error) {
	b := &binder{td: td}
	bound := t.Transform(b.rule)
	if b.err != nil {
		return nil, b.err
	}
	return bound, nil
}

type binder struct {
	td  *riff.TypeDescription
	err error
}

func (b *binder) rule(t Tree) Tree {
	if b.err != nil {
		return t
	}
	switch n := t.(type) {
	case *Eq:
		r, err := b.bindRef(n.ref, n.Expr, false)
		if err != nil {
			b.err = err
			return t
		}
		return &Eq{r, n.Expr}
	case *Gt:
		r, err := b.bindRef(n.ref, n.Expr, true)
		if err != nil {
			b.err = err
			return t
		}
		return &Gt{r, n.Expr}
	case *Lt:
		r, err := b.bindRef(n.ref, n.Expr, true)
		if err != nil {
			b.err = err
			return t
		}
		return &Lt{r, n.Expr}
	case *Ge:
		r, err := b.bindRef(n.ref, n.Expr, true)
		if err != nil {
			b.err = err
			return t
		}
		return &Ge{r, n.Expr}
	case *Le:
		r, err := b.bindRef(n.ref, n.Expr, true)
		if err != nil {
			b.err = err
			return t
		}
		return &Le{r, n.Expr}
	case *In:
		var r ref
		for i, expr := range n.Exprs {
			bound, err := b.bindRef(n.ref, expr, false)
			if err != nil {
				b.err = err
				return t
			}
			if i == 0 {
				r = bound
			}
		}
		if len(n.Exprs) == 0 {
			// An empty set matches nothing.
			return &False{}
		}
		return &In{r, n.Exprs}
	case *IsNull:
		ordinal, err := b.td.Position(n.Name)
		if err != nil {
			b.err = err
			return t
		}
		return &IsNull{ref{n.Name, ordinal}}
	default:
		return t
	}
}

func (b *binder) bindRef(r ref, expr *TypedExpression, ordering bool) (ref, error) {
	ordinal, err := b.td.Position(r.Name)
	if err != nil {
		return r, err
	}
	spec := b.td.At(ordinal)
	if spec.DataType != expr.DataType() {
		return r, riff.NewTypeMismatchf(
			"Literal %v of type %v does not match column %q of type %v",
			expr, expr.DataType(), spec.Name, spec.DataType)
	}
	if ordering && !spec.DataType.Orderable() {
		return r, riff.NewTypeMismatchf(
			"Column %q of type %v does not support ordering comparisons",
			spec.Name, spec.DataType)
	}
	return ref{r.Name, ordinal}, nil
}

// Simplify folds trivial boolean structure: conjunctions and disjunctions
// with True/False children, double negation, and complementary pairs.
// The result is equal to the input for every row.
func Simplify(t Tree) Tree {
	return t.Transform(simplifyRule)
}

func simplifyRule(t Tree) Tree {
	switch n := t.(type) {
	case *And:
		if isFalse(n.Left) || isFalse(n.Right) {
			return &False{}
		}
		if isTrue(n.Left) {
			return n.Right
		}
		if isTrue(n.Right) {
			return n.Left
		}
		if complementary(n.Left, n.Right) {
			return &False{}
		}
		return n
	case *Or:
		if isTrue(n.Left) || isTrue(n.Right) {
			return &True{}
		}
		if isFalse(n.Left) {
			return n.Right
		}
		if isFalse(n.Right) {
			return n.Left
		}
		if complementary(n.Left, n.Right) {
			return &True{}
		}
		return n
	case *Not:
		if isTrue(n.Child) {
			return &False{}
		}
		if isFalse(n.Child) {
			return &True{}
		}
		if child, ok := n.Child.(*Not); ok {
			return child.Child
		}
		return n
	default:
		return t
	}
}

func isTrue(t Tree) bool {
	_, ok := t.(*True)
	return ok
}

func isFalse(t Tree) bool {
	_, ok := t.(*False)
	return ok
}

// complementary reports whether one side is the negation of the other.
func complementary(left, right Tree) bool {
	if n, ok := left.(*Not); ok && n.Child.Equals(right) {
		return true
	}
	if n, ok := right.(*Not); ok && n.Child.Equals(left) {
		return true
	}
	return false
}
