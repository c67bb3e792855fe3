package stats

import (
	"bytes"

	. "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
	"github.com/robot-dreams/riff"
)

type StatsSuite struct{}

var _ = Suite(&StatsSuite{})

func (s *StatsSuite) TestNonOrderableType(c *C) {
	_, err := New(riff.Boolean)
	c.Assert(err, NotNil)
	_, err = New(riff.Null)
	c.Assert(err, NotNil)
}

func (s *StatsSuite) TestUpdate(c *C) {
	st, err := New(riff.Int)
	c.Assert(err, IsNil)
	c.Assert(st.Empty(), IsTrue)
	c.Assert(st.HasNulls(), IsFalse)

	st.Update(riff.Record{int32(5)}, 0)
	c.Assert(st.Empty(), IsFalse)
	c.Assert(st.Min(), Equals, int32(5))
	c.Assert(st.Max(), Equals, int32(5))

	st.Update(riff.Record{int32(2)}, 0)
	st.Update(riff.Record{int32(9)}, 0)
	c.Assert(st.Min(), Equals, int32(2))
	c.Assert(st.Max(), Equals, int32(9))
	c.Assert(st.HasNulls(), IsFalse)

	st.Update(riff.Record{nil}, 0)
	c.Assert(st.HasNulls(), IsTrue)
	c.Assert(st.Min(), Equals, int32(2))
	c.Assert(st.Max(), Equals, int32(9))
}

func (s *StatsSuite) TestOnlyNulls(c *C) {
	st, err := New(riff.String)
	c.Assert(err, IsNil)
	st.Update(riff.Record{nil}, 0)
	c.Assert(st.Empty(), IsTrue)
	c.Assert(st.HasNulls(), IsTrue)
	// The pseudo-row view reads as null at both ordinals.
	c.Assert(st.IsNullAt(OrdMin), IsTrue)
	c.Assert(st.IsNullAt(OrdMax), IsTrue)
}

func (s *StatsSuite) TestRowView(c *C) {
	st, err := New(riff.Long)
	c.Assert(err, IsNil)
	st.Update(riff.Record{int64(10)}, 0)
	st.Update(riff.Record{int64(20)}, 0)
	c.Assert(st.IsNullAt(OrdMin), IsFalse)
	c.Assert(st.GetLong(OrdMin), Equals, int64(10))
	c.Assert(st.GetLong(OrdMax), Equals, int64(20))
}

func (s *StatsSuite) TestMerge(c *C) {
	st1, err := New(riff.Int)
	c.Assert(err, IsNil)
	st1.Update(riff.Record{int32(1)}, 0)
	st1.Update(riff.Record{int32(3)}, 0)

	st2, err := New(riff.Int)
	c.Assert(err, IsNil)
	st2.Update(riff.Record{int32(4)}, 0)
	st2.Update(riff.Record{nil}, 0)

	err = st1.Merge(st2)
	c.Assert(err, IsNil)
	c.Assert(st1.Min(), Equals, int32(1))
	c.Assert(st1.Max(), Equals, int32(4))
	c.Assert(st1.HasNulls(), IsTrue)

	empty, err := New(riff.Int)
	c.Assert(err, IsNil)
	err = st1.Merge(empty)
	c.Assert(err, IsNil)
	c.Assert(st1.Min(), Equals, int32(1))

	other, err := New(riff.Long)
	c.Assert(err, IsNil)
	err = st1.Merge(other)
	c.Assert(err, NotNil)
}

func (s *StatsSuite) TestSerdeRoundTrip(c *C) {
	st, err := New(riff.String)
	c.Assert(err, IsNil)
	st.Update(riff.Record{"abc"}, 0)
	st.Update(riff.Record{"xyz"}, 0)
	st.Update(riff.Record{nil}, 0)

	var buf bytes.Buffer
	err = st.WriteTo(&buf)
	c.Assert(err, IsNil)
	read, err := ReadFrom(&buf)
	c.Assert(err, IsNil)
	c.Assert(read.Equals(st), IsTrue)
}

func (s *StatsSuite) TestSerdeEmpty(c *C) {
	st, err := New(riff.Timestamp)
	c.Assert(err, IsNil)
	var buf bytes.Buffer
	err = st.WriteTo(&buf)
	c.Assert(err, IsNil)
	read, err := ReadFrom(&buf)
	c.Assert(err, IsNil)
	c.Assert(read.Empty(), IsTrue)
	c.Assert(read.HasNulls(), IsFalse)
	c.Assert(read.Equals(st), IsTrue)
}
