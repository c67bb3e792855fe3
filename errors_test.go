package riff

import (
	"io"

	. "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
)

type ErrorsSuite struct{}

var _ = Suite(&ErrorsSuite{})

func (s *ErrorsSuite) TestClassification(c *C) {
	c.Assert(IsCorruptHeader(NewCorruptHeaderf("bad magic")), IsTrue)
	c.Assert(IsSchemaError(NewSchemaErrorf("dup")), IsTrue)
	c.Assert(IsUnknownColumn(NewUnknownColumnf("ghost")), IsTrue)
	c.Assert(IsTypeMismatch(NewTypeMismatchf("int vs string")), IsTrue)
	c.Assert(IsStateViolation(NewStateViolationf("closed")), IsTrue)
	c.Assert(IsIOError(WrapIOError(io.ErrUnexpectedEOF, "read")), IsTrue)
	c.Assert(IsCorruptHeader(NewSchemaErrorf("dup")), IsFalse)
	c.Assert(KindOf(io.EOF), Equals, KindUnknown)
}

func (s *ErrorsSuite) TestMessage(c *C) {
	err := NewCorruptHeaderf("Wrong magic: %d != %d", 1, 2)
	c.Assert(err.Error(), Equals, "CorruptHeader: Wrong magic: 1 != 2")
}
