package stats

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dropbox/godropbox/errors"
	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/encoding"
)

// Statistics are evaluated by predicates as a two-field pseudo-row holding
// the column minimum and maximum.
const (
	OrdMin = 0
	OrdMax = 1
)

// Statistics summarizes the non-null values of one indexed column within
// one stripe.  The zero state is "empty": no non-null value observed, no
// nulls observed; every comparison against empty statistics is false.
type Statistics struct {
	dataType riff.Type
	hasNulls bool
	// Invariant: min and max are both nil (empty) or both set with
	// min <= max under the column type's order.
	min interface{}
	max interface{}
}

var _ riff.Row = (*Statistics)(nil)

func New(dataType riff.Type) (*Statistics, error) {
	if !dataType.Orderable() {
		return nil, errors.Newf("Cannot collect statistics for type %v", dataType)
	}
	return &Statistics{dataType: dataType}, nil
}

func (s *Statistics) DataType() riff.Type {
	return s.dataType
}

func (s *Statistics) HasNulls() bool {
	return s.hasNulls
}

// Empty reports whether no non-null value has been observed.
func (s *Statistics) Empty() bool {
	return s.min == nil
}

func (s *Statistics) Min() interface{} {
	return s.min
}

func (s *Statistics) Max() interface{} {
	return s.max
}

// Update widens the summary with the value of row at ordinal.
func (s *Statistics) Update(row riff.Row, ordinal int) {
	if row.IsNullAt(ordinal) {
		s.hasNulls = true
		return
	}
	value := riff.ValueAt(row, ordinal, s.dataType)
	if s.min == nil {
		s.min = value
		s.max = value
		return
	}
	if riff.Less(s.dataType, value, s.min) {
		s.min = value
	}
	if riff.Less(s.dataType, s.max, value) {
		s.max = value
	}
}

// Merge widens s with everything other has observed.
func (s *Statistics) Merge(other *Statistics) error {
	if s.dataType != other.dataType {
		return errors.Newf(
			"Cannot merge statistics of type %v into %v", other.dataType, s.dataType)
	}
	if other.hasNulls {
		s.hasNulls = true
	}
	if other.min == nil {
		return nil
	}
	if s.min == nil {
		s.min = other.min
		s.max = other.max
		return nil
	}
	if riff.Less(s.dataType, other.min, s.min) {
		s.min = other.min
	}
	if riff.Less(s.dataType, s.max, other.max) {
		s.max = other.max
	}
	return nil
}

// Row view over [min, max]; empty statistics read as null at both
// ordinals, which makes every comparison against them false.

func (s *Statistics) IsNullAt(ordinal int) bool {
	return s.min == nil
}

func (s *Statistics) GetBoolean(ordinal int) bool {
	return s.at(ordinal).(bool)
}

func (s *Statistics) GetByte(ordinal int) int8 {
	return s.at(ordinal).(int8)
}

func (s *Statistics) GetShort(ordinal int) int16 {
	return s.at(ordinal).(int16)
}

func (s *Statistics) GetInt(ordinal int) int32 {
	return s.at(ordinal).(int32)
}

func (s *Statistics) GetLong(ordinal int) int64 {
	return s.at(ordinal).(int64)
}

func (s *Statistics) GetUTF8(ordinal int) string {
	return s.at(ordinal).(string)
}

func (s *Statistics) GetDate(ordinal int) int32 {
	return s.at(ordinal).(int32)
}

func (s *Statistics) GetTimestamp(ordinal int) int64 {
	return s.at(ordinal).(int64)
}

func (s *Statistics) at(ordinal int) interface{} {
	switch ordinal {
	case OrdMin:
		return s.min
	case OrdMax:
		return s.max
	default:
		panic(errors.Newf("Invalid statistics ordinal %d", ordinal))
	}
}

const (
	flagHasNulls uint8 = 1 << 0
	flagNonEmpty uint8 = 1 << 1
)

func (s *Statistics) WriteTo(w io.Writer) error {
	err := binary.Write(w, encoding.ByteOrder, uint8(s.dataType))
	if err != nil {
		return err
	}
	flags := uint8(0)
	if s.hasNulls {
		flags |= flagHasNulls
	}
	if s.min != nil {
		flags |= flagNonEmpty
	}
	err = binary.Write(w, encoding.ByteOrder, flags)
	if err != nil {
		return err
	}
	if s.min == nil {
		return nil
	}
	err = encoding.WriteValue(w, s.dataType, s.min)
	if err != nil {
		return err
	}
	return encoding.WriteValue(w, s.dataType, s.max)
}

func ReadFrom(r io.Reader) (*Statistics, error) {
	var tag, flags uint8
	err := binary.Read(r, encoding.ByteOrder, &tag)
	if err != nil {
		return nil, err
	}
	err = binary.Read(r, encoding.ByteOrder, &flags)
	if err != nil {
		return nil, err
	}
	dataType := riff.Type(tag)
	s, err := New(dataType)
	if err != nil {
		return nil, err
	}
	s.hasNulls = flags&flagHasNulls != 0
	if flags&flagNonEmpty == 0 {
		return s, nil
	}
	s.min, err = encoding.ReadValue(r, dataType)
	if err != nil {
		return nil, err
	}
	s.max, err = encoding.ReadValue(r, dataType)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Statistics) Equals(other *Statistics) bool {
	if other == nil {
		return false
	}
	return s.dataType == other.dataType &&
		s.hasNulls == other.hasNulls &&
		s.min == other.min &&
		s.max == other.max
}

func (s *Statistics) String() string {
	if s.min == nil {
		return fmt.Sprintf("Statistics(%v, empty, hasNulls=%t)", s.dataType, s.hasNulls)
	}
	return fmt.Sprintf(
		"Statistics(%v, min=%v, max=%v, hasNulls=%t)", s.dataType, s.min, s.max, s.hasNulls)
}
