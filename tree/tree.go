package tree

import (
	"fmt"
	"strings"

	"github.com/dropbox/godropbox/errors"
	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/column_filter"
	"github.com/robot-dreams/riff/stats"
)

// Tree is a boolean predicate over column values.  Leaves reference a
// column by name until a Binder rule resolves the ordinal; row evaluation
// requires a bound tree.  Trees are immutable: Transform produces a new
// tree and never modifies the receiver.
type Tree interface {
	// EvaluateRow decides the predicate for a single record.
	EvaluateRow(row riff.Row) bool
	// EvaluateStats decides whether a stripe with the given per-ordinal
	// statistics might contain a matching record.  False is a proof of
	// absence; true is not a proof of presence.
	EvaluateStats(stripeStats []*stats.Statistics) bool
	// EvaluateFilters is the same test against per-ordinal column filters.
	EvaluateFilters(filters []column_filter.Filter) bool
	// Transform rebuilds the tree bottom-up, passing every node through
	// rule and using its result in place of the node.
	Transform(rule Rule) Tree
	// Bound reports whether every leaf carries a resolved ordinal.
	Bound() bool
	// Equals is structural equality.
	Equals(other Tree) bool
	Copy() Tree
	String() string
}

// Rule substitutes tree nodes during Transform.  A rule must be pure: it
// returns the node unchanged or a replacement, and never mutates.
type Rule func(Tree) Tree

const unboundOrdinal = -1

// ref is the column reference carried by every leaf.
type ref struct {
	Name    string
	Ordinal int
}

func unbound(name string) ref {
	return ref{Name: name, Ordinal: unboundOrdinal}
}

func (r ref) Bound() bool {
	return r.Ordinal != unboundOrdinal
}

func (r ref) String() string {
	if r.Bound() {
		return fmt.Sprintf("%s[%d]", r.Name, r.Ordinal)
	}
	return r.Name
}

func (r ref) mustOrdinal() int {
	if !r.Bound() {
		panic(errors.Newf("Leaf for column %q has not been bound", r.Name))
	}
	return r.Ordinal
}

// statsAt returns the statistics for a bound leaf, or nil when the stripe
// carries none for that ordinal (non-indexed column or absent array).
func statsAt(stripeStats []*stats.Statistics, ordinal int) *stats.Statistics {
	if ordinal < 0 || ordinal >= len(stripeStats) {
		return nil
	}
	return stripeStats[ordinal]
}

func filterAt(filters []column_filter.Filter, ordinal int) column_filter.Filter {
	if ordinal < 0 || ordinal >= len(filters) {
		return nil
	}
	return filters[ordinal]
}

// Eq matches records whose column value is non-null and equal to the
// literal.
type Eq struct {
	ref
	Expr *TypedExpression
}

var _ Tree = (*Eq)(nil)

func NewEq(name string, expr *TypedExpression) *Eq {
	return &Eq{unbound(name), expr}
}

func (n *Eq) EvaluateRow(row riff.Row) bool {
	ordinal := n.mustOrdinal()
	return !row.IsNullAt(ordinal) && n.Expr.EqExpr(row, ordinal)
}

func (n *Eq) EvaluateStats(stripeStats []*stats.Statistics) bool {
	s := statsAt(stripeStats, n.mustOrdinal())
	if s == nil {
		return true
	}
	// min <= literal <= max
	return !s.IsNullAt(stats.OrdMin) &&
		n.Expr.LeExpr(s, stats.OrdMin) && n.Expr.GeExpr(s, stats.OrdMax)
}

func (n *Eq) EvaluateFilters(filters []column_filter.Filter) bool {
	f := filterAt(filters, n.mustOrdinal())
	if f == nil {
		return true
	}
	return f.MayContain(n.Expr.Value())
}

func (n *Eq) Transform(rule Rule) Tree {
	return rule(n)
}

func (n *Eq) Equals(other Tree) bool {
	o, ok := other.(*Eq)
	return ok && n.ref == o.ref && n.Expr.Equals(o.Expr)
}

func (n *Eq) Copy() Tree {
	return &Eq{n.ref, n.Expr}
}

func (n *Eq) String() string {
	return fmt.Sprintf("%v = %v", n.ref, n.Expr)
}

// Gt matches records whose column value is non-null and greater than the
// literal.
type Gt struct {
	ref
	Expr *TypedExpression
}

var _ Tree = (*Gt)(nil)

func NewGt(name string, expr *TypedExpression) *Gt {
	return &Gt{unbound(name), expr}
}

func (n *Gt) EvaluateRow(row riff.Row) bool {
	ordinal := n.mustOrdinal()
	return !row.IsNullAt(ordinal) && n.Expr.GtExpr(row, ordinal)
}

func (n *Gt) EvaluateStats(stripeStats []*stats.Statistics) bool {
	s := statsAt(stripeStats, n.mustOrdinal())
	if s == nil {
		return true
	}
	// max > literal
	return !s.IsNullAt(stats.OrdMax) && n.Expr.GtExpr(s, stats.OrdMax)
}

func (n *Gt) EvaluateFilters(filters []column_filter.Filter) bool {
	// Column filters carry no range information.
	return true
}

func (n *Gt) Transform(rule Rule) Tree {
	return rule(n)
}

func (n *Gt) Equals(other Tree) bool {
	o, ok := other.(*Gt)
	return ok && n.ref == o.ref && n.Expr.Equals(o.Expr)
}

func (n *Gt) Copy() Tree {
	return &Gt{n.ref, n.Expr}
}

func (n *Gt) String() string {
	return fmt.Sprintf("%v > %v", n.ref, n.Expr)
}

// Lt matches records whose column value is non-null and less than the
// literal.
type Lt struct {
	ref
	Expr *TypedExpression
}

var _ Tree = (*Lt)(nil)

func NewLt(name string, expr *TypedExpression) *Lt {
	return &Lt{unbound(name), expr}
}

func (n *Lt) EvaluateRow(row riff.Row) bool {
	ordinal := n.mustOrdinal()
	return !row.IsNullAt(ordinal) && n.Expr.LtExpr(row, ordinal)
}

func (n *Lt) EvaluateStats(stripeStats []*stats.Statistics) bool {
	s := statsAt(stripeStats, n.mustOrdinal())
	if s == nil {
		return true
	}
	// min < literal
	return !s.IsNullAt(stats.OrdMin) && n.Expr.LtExpr(s, stats.OrdMin)
}

func (n *Lt) EvaluateFilters(filters []column_filter.Filter) bool {
	return true
}

func (n *Lt) Transform(rule Rule) Tree {
	return rule(n)
}

func (n *Lt) Equals(other Tree) bool {
	o, ok := other.(*Lt)
	return ok && n.ref == o.ref && n.Expr.Equals(o.Expr)
}

func (n *Lt) Copy() Tree {
	return &Lt{n.ref, n.Expr}
}

func (n *Lt) String() string {
	return fmt.Sprintf("%v < %v", n.ref, n.Expr)
}

// Ge matches records whose column value is non-null and greater than or
// equal to the literal.
type Ge struct {
	ref
	Expr *TypedExpression
}

var _ Tree = (*Ge)(nil)

func NewGe(name string, expr *TypedExpression) *Ge {
	return &Ge{unbound(name), expr}
}

func (n *Ge) EvaluateRow(row riff.Row) bool {
	ordinal := n.mustOrdinal()
	return !row.IsNullAt(ordinal) && n.Expr.GeExpr(row, ordinal)
}

func (n *Ge) EvaluateStats(stripeStats []*stats.Statistics) bool {
	s := statsAt(stripeStats, n.mustOrdinal())
	if s == nil {
		return true
	}
	// max >= literal
	return !s.IsNullAt(stats.OrdMax) && n.Expr.GeExpr(s, stats.OrdMax)
}

func (n *Ge) EvaluateFilters(filters []column_filter.Filter) bool {
	return true
}

func (n *Ge) Transform(rule Rule) Tree {
	return rule(n)
}

func (n *Ge) Equals(other Tree) bool {
	o, ok := other.(*Ge)
	return ok && n.ref == o.ref && n.Expr.Equals(o.Expr)
}

func (n *Ge) Copy() Tree {
	return &Ge{n.ref, n.Expr}
}

func (n *Ge) String() string {
	return fmt.Sprintf("%v >= %v", n.ref, n.Expr)
}

// Le matches records whose column value is non-null and less than or equal
// to the literal.
type Le struct {
	ref
	Expr *TypedExpression
}

var _ Tree = (*Le)(nil)

func NewLe(name string, expr *TypedExpression) *Le {
	return &Le{unbound(name), expr}
}

func (n *Le) EvaluateRow(row riff.Row) bool {
	ordinal := n.mustOrdinal()
	return !row.IsNullAt(ordinal) && n.Expr.LeExpr(row, ordinal)
}

func (n *Le) EvaluateStats(stripeStats []*stats.Statistics) bool {
	s := statsAt(stripeStats, n.mustOrdinal())
	if s == nil {
		return true
	}
	// min <= literal
	return !s.IsNullAt(stats.OrdMin) && n.Expr.LeExpr(s, stats.OrdMin)
}

func (n *Le) EvaluateFilters(filters []column_filter.Filter) bool {
	return true
}

func (n *Le) Transform(rule Rule) Tree {
	return rule(n)
}

func (n *Le) Equals(other Tree) bool {
	o, ok := other.(*Le)
	return ok && n.ref == o.ref && n.Expr.Equals(o.Expr)
}

func (n *Le) Copy() Tree {
	return &Le{n.ref, n.Expr}
}

func (n *Le) String() string {
	return fmt.Sprintf("%v <= %v", n.ref, n.Expr)
}

// In matches records whose column value is non-null and equal to any of the
// literals.
type In struct {
	ref
	Exprs []*TypedExpression
}

var _ Tree = (*In)(nil)

func NewIn(name string, exprs ...*TypedExpression) *In {
	return &In{unbound(name), exprs}
}

func (n *In) EvaluateRow(row riff.Row) bool {
	ordinal := n.mustOrdinal()
	if row.IsNullAt(ordinal) {
		return false
	}
	for _, expr := range n.Exprs {
		if expr.EqExpr(row, ordinal) {
			return true
		}
	}
	return false
}

func (n *In) EvaluateStats(stripeStats []*stats.Statistics) bool {
	s := statsAt(stripeStats, n.mustOrdinal())
	if s == nil {
		return true
	}
	if s.IsNullAt(stats.OrdMin) {
		return false
	}
	for _, expr := range n.Exprs {
		if expr.LeExpr(s, stats.OrdMin) && expr.GeExpr(s, stats.OrdMax) {
			return true
		}
	}
	return false
}

func (n *In) EvaluateFilters(filters []column_filter.Filter) bool {
	f := filterAt(filters, n.mustOrdinal())
	if f == nil {
		return true
	}
	for _, expr := range n.Exprs {
		if f.MayContain(expr.Value()) {
			return true
		}
	}
	return false
}

func (n *In) Transform(rule Rule) Tree {
	return rule(n)
}

func (n *In) Equals(other Tree) bool {
	o, ok := other.(*In)
	if !ok || n.ref != o.ref || len(n.Exprs) != len(o.Exprs) {
		return false
	}
	// Literal sets compare set-wise.
	for _, expr := range n.Exprs {
		found := false
		for _, otherExpr := range o.Exprs {
			if expr.Equals(otherExpr) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (n *In) Copy() Tree {
	exprs := make([]*TypedExpression, len(n.Exprs))
	copy(exprs, n.Exprs)
	return &In{n.ref, exprs}
}

func (n *In) String() string {
	parts := make([]string, len(n.Exprs))
	for i, expr := range n.Exprs {
		parts[i] = expr.String()
	}
	return fmt.Sprintf("%v in (%s)", n.ref, strings.Join(parts, ", "))
}

// IsNull matches records whose column value is null.
type IsNull struct {
	ref
}

var _ Tree = (*IsNull)(nil)

func NewIsNull(name string) *IsNull {
	return &IsNull{unbound(name)}
}

func (n *IsNull) EvaluateRow(row riff.Row) bool {
	return row.IsNullAt(n.mustOrdinal())
}

func (n *IsNull) EvaluateStats(stripeStats []*stats.Statistics) bool {
	s := statsAt(stripeStats, n.mustOrdinal())
	if s == nil {
		return true
	}
	return s.HasNulls()
}

func (n *IsNull) EvaluateFilters(filters []column_filter.Filter) bool {
	// Filters only summarize non-null values.
	return true
}

func (n *IsNull) Transform(rule Rule) Tree {
	return rule(n)
}

func (n *IsNull) Equals(other Tree) bool {
	o, ok := other.(*IsNull)
	return ok && n.ref == o.ref
}

func (n *IsNull) Copy() Tree {
	return &IsNull{n.ref}
}

func (n *IsNull) String() string {
	return fmt.Sprintf("%v is null", n.ref)
}

// And is logical conjunction.
type And struct {
	Left  Tree
	Right Tree
}

var _ Tree = (*And)(nil)

func NewAnd(left, right Tree) *And {
	return &And{left, right}
}

func (n *And) EvaluateRow(row riff.Row) bool {
	return n.Left.EvaluateRow(row) && n.Right.EvaluateRow(row)
}

func (n *And) EvaluateStats(stripeStats []*stats.Statistics) bool {
	return n.Left.EvaluateStats(stripeStats) && n.Right.EvaluateStats(stripeStats)
}

func (n *And) EvaluateFilters(filters []column_filter.Filter) bool {
	return n.Left.EvaluateFilters(filters) && n.Right.EvaluateFilters(filters)
}

func (n *And) Transform(rule Rule) Tree {
	return rule(&And{n.Left.Transform(rule), n.Right.Transform(rule)})
}

func (n *And) Bound() bool {
	return n.Left.Bound() && n.Right.Bound()
}

// And is commutative for equality without being canonicalized.
func (n *And) Equals(other Tree) bool {
	o, ok := other.(*And)
	if !ok {
		return false
	}
	return (n.Left.Equals(o.Left) && n.Right.Equals(o.Right)) ||
		(n.Left.Equals(o.Right) && n.Right.Equals(o.Left))
}

func (n *And) Copy() Tree {
	return &And{n.Left.Copy(), n.Right.Copy()}
}

func (n *And) String() string {
	return fmt.Sprintf("(%v) and (%v)", n.Left, n.Right)
}

// Or is logical disjunction.
type Or struct {
	Left  Tree
	Right Tree
}

var _ Tree = (*Or)(nil)

func NewOr(left, right Tree) *Or {
	return &Or{left, right}
}

func (n *Or) EvaluateRow(row riff.Row) bool {
	return n.Left.EvaluateRow(row) || n.Right.EvaluateRow(row)
}

func (n *Or) EvaluateStats(stripeStats []*stats.Statistics) bool {
	return n.Left.EvaluateStats(stripeStats) || n.Right.EvaluateStats(stripeStats)
}

func (n *Or) EvaluateFilters(filters []column_filter.Filter) bool {
	return n.Left.EvaluateFilters(filters) || n.Right.EvaluateFilters(filters)
}

func (n *Or) Transform(rule Rule) Tree {
	return rule(&Or{n.Left.Transform(rule), n.Right.Transform(rule)})
}

func (n *Or) Bound() bool {
	return n.Left.Bound() && n.Right.Bound()
}

// Or is commutative for equality without being canonicalized.
func (n *Or) Equals(other Tree) bool {
	o, ok := other.(*Or)
	if !ok {
		return false
	}
	return (n.Left.Equals(o.Left) && n.Right.Equals(o.Right)) ||
		(n.Left.Equals(o.Right) && n.Right.Equals(o.Left))
}

func (n *Or) Copy() Tree {
	return &Or{n.Left.Copy(), n.Right.Copy()}
}

func (n *Or) String() string {
	return fmt.Sprintf("(%v) or (%v)", n.Left, n.Right)
}

// Not is logical negation.
type Not struct {
	Child Tree
}

var _ Tree = (*Not)(nil)

func NewNot(child Tree) *Not {
	return &Not{child}
}

func (n *Not) EvaluateRow(row riff.Row) bool {
	return !n.Child.EvaluateRow(row)
}

func (n *Not) EvaluateStats(stripeStats []*stats.Statistics) bool {
	// Statistics tests prove may-match, not must-match, so the negation of
	// a child result proves nothing about the stripe.
	return true
}

func (n *Not) EvaluateFilters(filters []column_filter.Filter) bool {
	return true
}

func (n *Not) Transform(rule Rule) Tree {
	return rule(&Not{n.Child.Transform(rule)})
}

func (n *Not) Bound() bool {
	return n.Child.Bound()
}

func (n *Not) Equals(other Tree) bool {
	o, ok := other.(*Not)
	return ok && n.Child.Equals(o.Child)
}

func (n *Not) Copy() Tree {
	return &Not{n.Child.Copy()}
}

func (n *Not) String() string {
	return fmt.Sprintf("not (%v)", n.Child)
}

// True matches every record.
type True struct{}

var _ Tree = (*True)(nil)

func NewTrue() *True {
	return &True{}
}

func (n *True) EvaluateRow(row riff.Row) bool {
	return true
}

func (n *True) EvaluateStats(stripeStats []*stats.Statistics) bool {
	return true
}

func (n *True) EvaluateFilters(filters []column_filter.Filter) bool {
	return true
}

func (n *True) Transform(rule Rule) Tree {
	return rule(n)
}

func (n *True) Bound() bool {
	return true
}

func (n *True) Equals(other Tree) bool {
	_, ok := other.(*True)
	return ok
}

func (n *True) Copy() Tree {
	return &True{}
}

func (n *True) String() string {
	return "true"
}

// False matches no record.
type False struct{}

var _ Tree = (*False)(nil)

func NewFalse() *False {
	return &False{}
}

func (n *False) EvaluateRow(row riff.Row) bool {
	return false
}

func (n *False) EvaluateStats(stripeStats []*stats.Statistics) bool {
	return false
}

func (n *False) EvaluateFilters(filters []column_filter.Filter) bool {
	return false
}

func (n *False) Transform(rule Rule) Tree {
	return rule(n)
}

func (n *False) Bound() bool {
	return true
}

func (n *False) Equals(other Tree) bool {
	_, ok := other.(*False)
	return ok
}

func (n *False) Copy() Tree {
	return &False{}
}

func (n *False) String() string {
	return "false"
}
