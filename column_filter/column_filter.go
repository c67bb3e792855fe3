package column_filter

import (
	"bytes"
	"io"

	"github.com/dropbox/godropbox/errors"
	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/encoding"
	"github.com/willf/bloom"
)

// False positive rate for per-stripe bloom filters.
const DefaultFP = 0.01

// Filter is an approximate membership oracle over the non-null values of
// one indexed column within one stripe.  MayContain returning false means
// the value is definitely absent; true carries no information.
type Filter interface {
	MayContain(value interface{}) bool
	WriteTo(w io.Writer) error
}

type BloomFilter struct {
	dataType riff.Type
	filter   *bloom.BloomFilter
}

var _ Filter = (*BloomFilter)(nil)

// NewBloomFilter sizes a filter for the expected number of values in one
// stripe.
func NewBloomFilter(dataType riff.Type, expectedValues uint) *BloomFilter {
	return &BloomFilter{
		dataType: dataType,
		filter:   bloom.NewWithEstimates(expectedValues, DefaultFP),
	}
}

// Add records a non-null value.
func (f *BloomFilter) Add(value interface{}) {
	f.filter.Add(serializeValue(f.dataType, value))
}

func (f *BloomFilter) MayContain(value interface{}) bool {
	return f.filter.Test(serializeValue(f.dataType, value))
}

func (f *BloomFilter) WriteTo(w io.Writer) error {
	err := encoding.WriteUint8(w, uint8(f.dataType))
	if err != nil {
		return err
	}
	_, err = f.filter.WriteTo(w)
	return err
}

// ReadFrom deserializes a filter previously written with WriteTo.
func ReadFrom(r io.Reader) (Filter, error) {
	tag, err := encoding.ReadUint8(r)
	if err != nil {
		return nil, err
	}
	dataType := riff.Type(tag)
	if !dataType.Orderable() {
		return nil, errors.Newf("Invalid column filter type tag %d", tag)
	}
	filter := &bloom.BloomFilter{}
	_, err = filter.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return &BloomFilter{
		dataType: dataType,
		filter:   filter,
	}, nil
}

// serializeValue produces the canonical byte representation shared by the
// writer and the reader; both sides must agree or membership tests would be
// meaningless.
func serializeValue(dataType riff.Type, value interface{}) []byte {
	var buf bytes.Buffer
	err := encoding.WriteValue(&buf, dataType, value)
	if err != nil {
		panic(errors.Wrapf(err, "Failed to serialize %v value %v", dataType, value))
	}
	return buf.Bytes()
}
