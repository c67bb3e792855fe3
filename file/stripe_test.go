package file

import (
	"bytes"

	. "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/column_filter"
	"github.com/robot-dreams/riff/encoding"
	"github.com/robot-dreams/riff/stats"
	"github.com/robot-dreams/riff/tree"
)

type StripeSuite struct{}

var _ = Suite(&StripeSuite{})

// Three indexed columns; read layout (col0 string, col1 int, col2 long).
func threeIndexedTD(c *C) *riff.TypeDescription {
	td, err := riff.NewTypeDescription(
		[]*riff.Field{
			{"col0", riff.String, true},
			{"col1", riff.Int, true},
			{"col2", riff.Long, true},
		},
		[]string{"col0", "col1", "col2"})
	if err != nil {
		c.Fatal(err)
	}
	return td
}

func statsOf(c *C, type_ riff.Type, values ...interface{}) *stats.Statistics {
	st, err := stats.New(type_)
	c.Assert(err, IsNil)
	for _, value := range values {
		st.Update(riff.Record{value}, 0)
	}
	return st
}

func intRangeStripe(c *C, id uint8, offset int64, min, max int32) *StripeInformation {
	return &StripeInformation{
		ID:     id,
		Offset: offset,
		Length: 100,
		Stats: []*stats.Statistics{
			statsOf(c, riff.String, "a", "z"),
			statsOf(c, riff.Int, min, max),
			statsOf(c, riff.Long, int64(0), int64(1000)),
		},
	}
}

func offsets(stripes []*StripeInformation) []int64 {
	result := make([]int64, len(stripes))
	for i, si := range stripes {
		result[i] = si.Offset
	}
	return result
}

func (s *StripeSuite) TestEvaluateStripesNilState(c *C) {
	stripes := []*StripeInformation{
		{ID: 0, Offset: 202, Length: 10},
		{ID: 1, Offset: 101, Length: 10},
		{ID: 2, Offset: 0, Length: 10},
	}
	result := EvaluateStripes(stripes, nil)
	c.Assert(offsets(result), DeepEquals, []int64{0, 101, 202})
}

func (s *StripeSuite) TestEvaluateStripesNoStatistics(c *C) {
	// Stripes without statistics cannot be proven empty and all survive,
	// sorted by offset.
	td := threeIndexedTD(c)
	stripes := []*StripeInformation{
		{ID: 0, Offset: 202, Length: 10},
		{ID: 1, Offset: 101, Length: 10},
		{ID: 2, Offset: 0, Length: 10},
	}
	state, err := tree.NewState(tree.NewIsNull("col1"), td)
	c.Assert(err, IsNil)
	result := EvaluateStripes(stripes, state)
	c.Assert(offsets(result), DeepEquals, []int64{0, 101, 202})
}

func (s *StripeSuite) TestEvaluateStripesByRange(c *C) {
	td := threeIndexedTD(c)
	stripes := []*StripeInformation{
		intRangeStripe(c, 0, 0, 1, 3),
		intRangeStripe(c, 1, 100, 4, 5),
		intRangeStripe(c, 2, 200, 1, 3),
	}
	e, err := tree.NewTypedExpression(int32(5))
	c.Assert(err, IsNil)
	state, err := tree.NewState(tree.NewEq("col1", e), td)
	c.Assert(err, IsNil)
	result := EvaluateStripes(stripes, state)
	c.Assert(len(result), Equals, 1)
	c.Assert(result[0].ID, Equals, uint8(1))
}

func (s *StripeSuite) TestEvaluateStripesOrderPreserved(c *C) {
	td := threeIndexedTD(c)
	stripes := []*StripeInformation{
		intRangeStripe(c, 0, 300, 1, 10),
		intRangeStripe(c, 1, 0, 20, 30),
		intRangeStripe(c, 2, 200, 1, 10),
		intRangeStripe(c, 3, 100, 40, 50),
	}
	e, err := tree.NewTypedExpression(int32(5))
	c.Assert(err, IsNil)
	state, err := tree.NewState(tree.NewEq("col1", e), td)
	c.Assert(err, IsNil)
	result := EvaluateStripes(stripes, state)
	// Survivors keep strictly ascending offsets, a subsequence of the
	// sorted input.
	c.Assert(offsets(result), DeepEquals, []int64{200, 300})
	// Input slice order is untouched.
	c.Assert(stripes[0].Offset, Equals, int64(300))
}

func (s *StripeSuite) TestEvaluateStripesByFilter(c *C) {
	td := threeIndexedTD(c)
	withFilters := func(id uint8, offset int64, values ...int32) *StripeInformation {
		strFilter := column_filter.NewBloomFilter(riff.String, 1000)
		strFilter.Add("x")
		intFilter := column_filter.NewBloomFilter(riff.Int, 1000)
		for _, v := range values {
			intFilter.Add(v)
		}
		longFilter := column_filter.NewBloomFilter(riff.Long, 1000)
		longFilter.Add(int64(1))
		return &StripeInformation{
			ID:     id,
			Offset: offset,
			Length: 10,
			Filters: []column_filter.Filter{
				strFilter, intFilter, longFilter,
			},
		}
	}
	stripes := []*StripeInformation{
		withFilters(0, 0, 1, 2, 3),
		withFilters(1, 100, 4, 5),
	}
	e, err := tree.NewTypedExpression(int32(5))
	c.Assert(err, IsNil)
	state, err := tree.NewState(tree.NewEq("col1", e), td)
	c.Assert(err, IsNil)
	result := EvaluateStripes(stripes, state)
	c.Assert(len(result), Equals, 1)
	c.Assert(result[0].ID, Equals, uint8(1))
}

func (s *StripeSuite) TestStripeIndexRoundTrip(c *C) {
	td := threeIndexedTD(c)
	intFilter := column_filter.NewBloomFilter(riff.Int, 100)
	intFilter.Add(int32(5))
	strFilter := column_filter.NewBloomFilter(riff.String, 100)
	strFilter.Add("m")
	longFilter := column_filter.NewBloomFilter(riff.Long, 100)
	longFilter.Add(int64(9))
	stripes := []*StripeInformation{
		{
			ID:     0,
			Offset: 0,
			Length: 128,
			Stats: []*stats.Statistics{
				statsOf(c, riff.String, "a", "k", nil),
				statsOf(c, riff.Int, int32(1), int32(3)),
				statsOf(c, riff.Long, int64(-5), int64(5)),
			},
			Filters: []column_filter.Filter{strFilter, intFilter, longFilter},
		},
		{ID: 1, Offset: 128, Length: 256},
	}
	buf := encoding.NewOutputBuffer()
	err := writeStripeIndex(buf, stripes)
	c.Assert(err, IsNil)
	read, err := readStripeIndex(bytes.NewReader(buf.Bytes()), td.NumIndexed())
	c.Assert(err, IsNil)
	c.Assert(len(read), Equals, 2)
	c.Assert(read[0].ID, Equals, uint8(0))
	c.Assert(read[0].Offset, Equals, int64(0))
	c.Assert(read[0].Length, Equals, int32(128))
	c.Assert(len(read[0].Stats), Equals, 3)
	for i := range stripes[0].Stats {
		c.Assert(read[0].Stats[i].Equals(stripes[0].Stats[i]), IsTrue)
	}
	c.Assert(len(read[0].Filters), Equals, 3)
	c.Assert(read[0].Filters[1].MayContain(int32(5)), IsTrue)
	c.Assert(read[0].Filters[1].MayContain(int32(77)), IsFalse)
	c.Assert(read[1].Stats, IsNil)
	c.Assert(read[1].Filters, IsNil)
}

func (s *StripeSuite) TestFooterRoundTrip(c *C) {
	footer := &Footer{
		NumRecords: 12345,
		Stats: []*stats.Statistics{
			statsOf(c, riff.String, "a", "z"),
			statsOf(c, riff.Int, int32(0), int32(100), nil),
			statsOf(c, riff.Long, int64(1)),
		},
	}
	buf := encoding.NewOutputBuffer()
	err := footer.writeTo(buf)
	c.Assert(err, IsNil)
	read, err := readFooter(bytes.NewReader(buf.Bytes()), 3)
	c.Assert(err, IsNil)
	c.Assert(read.NumRecords, Equals, int64(12345))
	for i := range footer.Stats {
		c.Assert(read.Stats[i].Equals(footer.Stats[i]), IsTrue)
	}
}

func (s *StripeSuite) TestCorruptStripeIndex(c *C) {
	buf := encoding.NewOutputBuffer()
	err := buf.WriteInt32(5)
	c.Assert(err, IsNil)
	// Five stripes declared, none present.
	_, err = readStripeIndex(bytes.NewReader(buf.Bytes()), 1)
	c.Assert(riff.IsCorruptHeader(err), IsTrue)
}
