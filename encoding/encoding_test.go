package encoding

import (
	"bytes"

	. "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
	"github.com/robot-dreams/riff"
)

type EncodingSuite struct{}

var _ = Suite(&EncodingSuite{})

func (s *EncodingSuite) TestValueRoundTrip(c *C) {
	cases := []struct {
		type_ riff.Type
		value interface{}
	}{
		{riff.Boolean, true},
		{riff.Boolean, false},
		{riff.Byte, int8(-5)},
		{riff.Short, int16(1024)},
		{riff.Int, int32(-123456)},
		{riff.Long, int64(1) << 40},
		{riff.String, "hello"},
		{riff.String, ""},
		{riff.String, "with\x00null byte"},
		{riff.Date, int32(17532)},
		{riff.Timestamp, int64(1500000000000000)},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		err := WriteValue(&buf, tc.type_, tc.value)
		c.Assert(err, IsNil)
		value, err := ReadValue(&buf, tc.type_)
		c.Assert(err, IsNil)
		c.Assert(value, Equals, tc.value)
	}
}

func (s *EncodingSuite) TestIntegersAreBigEndian(c *C) {
	var buf bytes.Buffer
	err := WriteValue(&buf, riff.Int, int32(1))
	c.Assert(err, IsNil)
	c.Assert(buf.Bytes(), DeepEquals, []byte{0, 0, 0, 1})
}

func (s *EncodingSuite) TestRecordRoundTrip(c *C) {
	td, err := riff.NewTypeDescription(
		[]*riff.Field{
			{"id", riff.Int, false},
			{"name", riff.String, true},
			{"score", riff.Long, true},
		},
		[]string{"id"})
	c.Assert(err, IsNil)
	records := []riff.Record{
		{int32(1), "Susan Calvin", int64(100)},
		{int32(2), nil, int64(-7)},
		{int32(3), "Daneel Olivaw", nil},
	}
	var buf bytes.Buffer
	for _, record := range records {
		err = WriteRecord(&buf, td, record)
		c.Assert(err, IsNil)
	}
	for _, expected := range records {
		record, err := ReadRecord(&buf, td)
		c.Assert(err, IsNil)
		c.Assert(record.Equals(expected), IsTrue)
	}
}

func (s *EncodingSuite) TestOutputBufferAlign(c *C) {
	buf := NewOutputBuffer()
	err := buf.WriteInt32(7)
	c.Assert(err, IsNil)
	err = buf.WriteByte(1)
	c.Assert(err, IsNil)
	c.Assert(buf.BytesWritten(), Equals, 5)
	buf.Align()
	c.Assert(buf.BytesWritten(), Equals, 8)
	buf.Align()
	c.Assert(buf.BytesWritten(), Equals, 8)
}

func (s *EncodingSuite) TestReadFully(c *C) {
	b := make([]byte, 4)
	err := ReadFully(bytes.NewReader([]byte{1, 2, 3, 4}), b)
	c.Assert(err, IsNil)
	c.Assert(b, DeepEquals, []byte{1, 2, 3, 4})
	err = ReadFully(bytes.NewReader([]byte{1, 2}), b)
	c.Assert(err, NotNil)
}

func (s *EncodingSuite) TestReadSection(c *C) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	r := bytes.NewReader(data)
	b, err := ReadSection(r, 2, 3)
	c.Assert(err, IsNil)
	c.Assert(b, DeepEquals, []byte{2, 3, 4})
	_, err = ReadSection(r, -1, 3)
	c.Assert(err, NotNil)
	_, err = ReadSection(r, 2, -3)
	c.Assert(err, NotNil)
	_, err = ReadSection(r, 6, 4)
	c.Assert(err, NotNil)
}

func (s *EncodingSuite) TestCodecRoundTrip(c *C) {
	raw := bytes.Repeat([]byte("riff stripe payload "), 100)
	for _, name := range []string{"none", "deflate", "gzip"} {
		codec, err := NewCodec(name)
		c.Assert(err, IsNil)
		compressed, err := codec.Compress(raw)
		c.Assert(err, IsNil)
		decompressed, err := codec.Decompress(compressed)
		c.Assert(err, IsNil)
		c.Assert(decompressed, DeepEquals, raw)

		roundTrip, err := CodecForTag(codec.Tag())
		c.Assert(err, IsNil)
		c.Assert(roundTrip.Tag(), Equals, codec.Tag())
	}
}

func (s *EncodingSuite) TestUnknownCodec(c *C) {
	_, err := NewCodec("lzma")
	c.Assert(err, NotNil)
	_, err = CodecForTag(200)
	c.Assert(err, NotNil)
}

func (s *EncodingSuite) TestReadStripe(c *C) {
	codec, err := NewCodec("deflate")
	c.Assert(err, IsNil)
	raw := []byte("some stripe bytes")
	compressed, err := codec.Compress(raw)
	c.Assert(err, IsNil)
	// Surround the stripe with garbage to check offset handling.
	file := append([]byte{9, 9, 9}, compressed...)
	file = append(file, 8, 8)
	r, err := ReadStripe(bytes.NewReader(file), 3, int32(len(compressed)), codec)
	c.Assert(err, IsNil)
	decompressed := make([]byte, len(raw))
	err = ReadFully(r, decompressed)
	c.Assert(err, IsNil)
	c.Assert(decompressed, DeepEquals, raw)
}
