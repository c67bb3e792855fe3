package tree

import (
	"fmt"

	"github.com/dropbox/godropbox/errors"
	"github.com/robot-dreams/riff"
)

// TypedExpression wraps one literal value tied to one scalar type.  All
// comparison methods read as {value at ordinal <op> this expression}.
type TypedExpression struct {
	dataType riff.Type
	value    interface{}
}

// NewTypedExpression infers the scalar type from the Go representation of
// the literal.  Date and Timestamp literals share a representation with Int
// and Long; use NewDateExpression and NewTimestampExpression for those.
func NewTypedExpression(value interface{}) (*TypedExpression, error) {
	switch value.(type) {
	case bool:
		return &TypedExpression{riff.Boolean, value}, nil
	case int8:
		return &TypedExpression{riff.Byte, value}, nil
	case int16:
		return &TypedExpression{riff.Short, value}, nil
	case int32:
		return &TypedExpression{riff.Int, value}, nil
	case int64:
		return &TypedExpression{riff.Long, value}, nil
	case string:
		return &TypedExpression{riff.String, value}, nil
	default:
		return nil, errors.Newf("Unsupported literal %v (%T)", value, value)
	}
}

func NewDateExpression(days int32) *TypedExpression {
	return &TypedExpression{riff.Date, days}
}

func NewTimestampExpression(micros int64) *TypedExpression {
	return &TypedExpression{riff.Timestamp, micros}
}

func (e *TypedExpression) DataType() riff.Type {
	return e.dataType
}

func (e *TypedExpression) Value() interface{} {
	return e.value
}

// EqExpr reports whether the value at ordinal equals this expression.  The
// row must not be null at ordinal.
func (e *TypedExpression) EqExpr(row riff.Row, ordinal int) bool {
	if !e.dataType.Orderable() {
		return riff.ValueAt(row, ordinal, e.dataType) == e.value
	}
	return e.compare(row, ordinal) == 0
}

// GtExpr reports whether the value at ordinal is greater than this
// expression.
func (e *TypedExpression) GtExpr(row riff.Row, ordinal int) bool {
	return e.compare(row, ordinal) > 0
}

// LtExpr reports whether the value at ordinal is less than this expression.
func (e *TypedExpression) LtExpr(row riff.Row, ordinal int) bool {
	return e.compare(row, ordinal) < 0
}

// GeExpr reports whether the value at ordinal is greater than or equal to
// this expression.
func (e *TypedExpression) GeExpr(row riff.Row, ordinal int) bool {
	return e.compare(row, ordinal) >= 0
}

// LeExpr reports whether the value at ordinal is less than or equal to this
// expression.
func (e *TypedExpression) LeExpr(row riff.Row, ordinal int) bool {
	return e.compare(row, ordinal) <= 0
}

func (e *TypedExpression) compare(row riff.Row, ordinal int) int {
	return riff.Compare(e.dataType, riff.ValueAt(row, ordinal, e.dataType), e.value)
}

func (e *TypedExpression) Equals(other *TypedExpression) bool {
	if other == nil {
		return false
	}
	return e.dataType == other.dataType && e.value == other.value
}

func (e *TypedExpression) String() string {
	if e.dataType == riff.String {
		return fmt.Sprintf("'%v'", e.value)
	}
	return fmt.Sprintf("%v", e.value)
}
