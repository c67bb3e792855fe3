package column_filter

import (
	"bytes"

	. "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
	"github.com/robot-dreams/riff"
)

type ColumnFilterSuite struct{}

var _ = Suite(&ColumnFilterSuite{})

func (s *ColumnFilterSuite) TestNoFalseNegatives(c *C) {
	f := NewBloomFilter(riff.Int, 1000)
	for x := int32(0); x < 100; x++ {
		f.Add(x)
	}
	for x := int32(0); x < 100; x++ {
		c.Assert(f.MayContain(x), IsTrue)
	}
}

func (s *ColumnFilterSuite) TestDefinitelyAbsent(c *C) {
	f := NewBloomFilter(riff.String, 1000)
	f.Add("alpha")
	f.Add("beta")
	f.Add("gamma")
	c.Assert(f.MayContain("alpha"), IsTrue)
	// Sized for 1000 values at 1% false positives, a filter holding three
	// values rejects an unrelated probe.
	c.Assert(f.MayContain("does not exist"), IsFalse)
}

func (s *ColumnFilterSuite) TestSerdeRoundTrip(c *C) {
	f := NewBloomFilter(riff.Long, 1000)
	f.Add(int64(17))
	f.Add(int64(42))

	var buf bytes.Buffer
	err := f.WriteTo(&buf)
	c.Assert(err, IsNil)
	read, err := ReadFrom(&buf)
	c.Assert(err, IsNil)
	c.Assert(read.MayContain(int64(17)), IsTrue)
	c.Assert(read.MayContain(int64(42)), IsTrue)
	c.Assert(read.MayContain(int64(1000000)), IsFalse)
}

func (s *ColumnFilterSuite) TestSerdeInvalidTag(c *C) {
	_, err := ReadFrom(bytes.NewReader([]byte{200, 0, 0}))
	c.Assert(err, NotNil)
}
