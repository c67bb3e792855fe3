package tree

import (
	check "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
	"github.com/robot-dreams/riff"
)

type TreeSuite struct{}

var _ = check.Suite(&TreeSuite{})

func (s *TreeSuite) TestLeafRowEvaluation(c *check.C) {
	td := testTypeDescription(c)
	row := riff.Record{"abc", int32(5), int64(100)}
	nullRow := riff.Record{nil, nil, nil}

	cases := []struct {
		tree     Tree
		match    bool
		nullCase bool
	}{
		{NewEq("col1", expr(c, int32(5))), true, false},
		{NewEq("col1", expr(c, int32(6))), false, false},
		{NewGt("col1", expr(c, int32(4))), true, false},
		{NewGt("col1", expr(c, int32(5))), false, false},
		{NewLt("col1", expr(c, int32(6))), true, false},
		{NewLt("col1", expr(c, int32(5))), false, false},
		{NewGe("col1", expr(c, int32(5))), true, false},
		{NewGe("col1", expr(c, int32(6))), false, false},
		{NewLe("col1", expr(c, int32(5))), true, false},
		{NewLe("col1", expr(c, int32(4))), false, false},
		{NewIn("col1", expr(c, int32(1)), expr(c, int32(5))), true, false},
		{NewIn("col1", expr(c, int32(1)), expr(c, int32(2))), false, false},
		{NewEq("col0", expr(c, "abc")), true, false},
		{NewGt("col0", expr(c, "abb")), true, false},
		{NewIsNull("col2"), false, true},
	}
	for _, tc := range cases {
		bound := mustBind(c, tc.tree, td)
		c.Assert(bound.EvaluateRow(row), check.Equals, tc.match,
			check.Commentf("tree: %v", tc.tree))
		// Comparison leaves never match a null value; IsNull does.
		c.Assert(bound.EvaluateRow(nullRow), check.Equals, tc.nullCase,
			check.Commentf("tree: %v", tc.tree))
	}
}

func (s *TreeSuite) TestLogicalRowEvaluation(c *check.C) {
	td := testTypeDescription(c)
	row := riff.Record{"abc", int32(5), int64(100)}

	eq := NewEq("col1", expr(c, int32(5)))
	gt := NewGt("col2", expr(c, int64(1000)))

	c.Assert(mustBind(c, NewAnd(eq, gt), td).EvaluateRow(row), IsFalse)
	c.Assert(mustBind(c, NewOr(eq, gt), td).EvaluateRow(row), IsTrue)
	c.Assert(mustBind(c, NewNot(gt), td).EvaluateRow(row), IsTrue)
	c.Assert(mustBind(c, NewTrue(), td).EvaluateRow(row), IsTrue)
	c.Assert(mustBind(c, NewFalse(), td).EvaluateRow(row), IsFalse)
}

func (s *TreeSuite) TestStructuralEquality(c *check.C) {
	e1 := NewEq("col1", expr(c, int32(5)))
	e2 := NewEq("col1", expr(c, int32(5)))
	e3 := NewEq("col1", expr(c, int32(6)))
	e4 := NewEq("col2", expr(c, int32(5)))
	c.Assert(e1.Equals(e2), IsTrue)
	c.Assert(e1.Equals(e3), IsFalse)
	c.Assert(e1.Equals(e4), IsFalse)
	c.Assert(e1.Equals(NewGe("col1", expr(c, int32(5)))), IsFalse)

	// In literal sets compare set-wise.
	in1 := NewIn("col1", expr(c, int32(1)), expr(c, int32(2)))
	in2 := NewIn("col1", expr(c, int32(2)), expr(c, int32(1)))
	in3 := NewIn("col1", expr(c, int32(1)))
	c.Assert(in1.Equals(in2), IsTrue)
	c.Assert(in1.Equals(in3), IsFalse)

	and1 := NewAnd(e1, e3)
	and2 := NewAnd(e1, e3)
	// And compares commutatively without canonicalization.
	and3 := NewAnd(e3, e1)
	c.Assert(and1.Equals(and2), IsTrue)
	c.Assert(and1.Equals(and3), IsTrue)
	c.Assert(and1.Equals(NewAnd(e3, e4)), IsFalse)
	c.Assert(NewOr(e1, e3).Equals(NewOr(e3, e1)), IsTrue)

	c.Assert(NewNot(e1).Equals(NewNot(e1)), IsTrue)
	c.Assert(NewTrue().Equals(NewTrue()), IsTrue)
	c.Assert(NewFalse().Equals(NewTrue()), IsFalse)
	c.Assert(NewIsNull("col1").Equals(NewIsNull("col1")), IsTrue)
	c.Assert(NewIsNull("col1").Equals(NewIsNull("col2")), IsFalse)
}

func (s *TreeSuite) TestBoundEquality(c *check.C) {
	td := testTypeDescription(c)
	unbound := NewEq("col1", expr(c, int32(5)))
	bound := mustBind(c, unbound, td)
	// Binding is part of structural identity.
	c.Assert(bound.Equals(unbound), IsFalse)
	c.Assert(bound.Equals(mustBind(c, unbound, td)), IsTrue)
	c.Assert(unbound.Bound(), IsFalse)
	c.Assert(bound.Bound(), IsTrue)
}

func (s *TreeSuite) TestCopy(c *check.C) {
	td := testTypeDescription(c)
	original := NewAnd(
		NewOr(
			NewEq("col1", expr(c, int32(5))),
			NewIn("col0", expr(c, "a"), expr(c, "b"))),
		NewNot(NewIsNull("col2")))
	clone := original.Copy()
	c.Assert(clone.Equals(original), IsTrue)

	// Transforming the clone must not affect the original.
	bound := mustBind(c, clone, td)
	c.Assert(bound.Bound(), IsTrue)
	c.Assert(original.Bound(), IsFalse)
}

func (s *TreeSuite) TestTypedExpression(c *check.C) {
	e, err := NewTypedExpression(int32(5))
	c.Assert(err, check.IsNil)
	c.Assert(e.DataType(), check.Equals, riff.Int)
	c.Assert(e.Value(), check.Equals, int32(5))

	_, err = NewTypedExpression(3.14)
	c.Assert(err, check.NotNil)

	c.Assert(NewDateExpression(17532).DataType(), check.Equals, riff.Date)
	c.Assert(NewTimestampExpression(1).DataType(), check.Equals, riff.Timestamp)

	row := riff.Record{int32(7)}
	c.Assert(e.GtExpr(row, 0), IsTrue)
	c.Assert(e.LtExpr(row, 0), IsFalse)
	c.Assert(e.GeExpr(row, 0), IsTrue)
	c.Assert(e.LeExpr(row, 0), IsFalse)
	c.Assert(e.EqExpr(row, 0), IsFalse)
	c.Assert(e.EqExpr(riff.Record{int32(5)}, 0), IsTrue)
}
