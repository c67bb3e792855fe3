package encoding

import (
	"encoding/binary"
	"io"

	"github.com/dropbox/godropbox/errors"
	"github.com/robot-dreams/riff"
)

// All on-disk integers are big-endian.
var ByteOrder = binary.BigEndian

const (
	markerNull    uint8 = 0
	markerPresent uint8 = 1
)

func WriteUint8(w io.Writer, x uint8) error {
	return binary.Write(w, ByteOrder, x)
}

func ReadUint8(r io.Reader) (uint8, error) {
	var x uint8
	err := binary.Read(r, ByteOrder, &x)
	return x, err
}

// ReadFully fills b from r, failing unless exactly len(b) bytes are read.
func ReadFully(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err != nil {
		return errors.Wrapf(err, "Failed to read %d bytes", len(b))
	}
	return nil
}

func WriteValue(w io.Writer, type_ riff.Type, value interface{}) error {
	switch type_ {
	case riff.Null:
		return nil
	case riff.Boolean:
		x := uint8(0)
		if value.(bool) {
			x = 1
		}
		return binary.Write(w, ByteOrder, x)
	case riff.Byte:
		return binary.Write(w, ByteOrder, value.(int8))
	case riff.Short:
		return binary.Write(w, ByteOrder, value.(int16))
	case riff.Int, riff.Date:
		return binary.Write(w, ByteOrder, value.(int32))
	case riff.Long, riff.Timestamp:
		return binary.Write(w, ByteOrder, value.(int64))
	case riff.String:
		return WriteString(w, value.(string))
	default:
		return errors.Newf("Unsupported type %v", type_)
	}
}

func ReadValue(r io.Reader, type_ riff.Type) (interface{}, error) {
	switch type_ {
	case riff.Null:
		return nil, nil
	case riff.Boolean:
		var x uint8
		err := binary.Read(r, ByteOrder, &x)
		if err != nil {
			return nil, err
		}
		return x != 0, nil
	case riff.Byte:
		var x int8
		err := binary.Read(r, ByteOrder, &x)
		if err != nil {
			return nil, err
		}
		return x, nil
	case riff.Short:
		var x int16
		err := binary.Read(r, ByteOrder, &x)
		if err != nil {
			return nil, err
		}
		return x, nil
	case riff.Int, riff.Date:
		var x int32
		err := binary.Read(r, ByteOrder, &x)
		if err != nil {
			return nil, err
		}
		return x, nil
	case riff.Long, riff.Timestamp:
		var x int64
		err := binary.Read(r, ByteOrder, &x)
		if err != nil {
			return nil, err
		}
		return x, nil
	case riff.String:
		return ReadString(r)
	default:
		return nil, errors.Newf("Unsupported type %v", type_)
	}
}

// Strings are length-prefixed; a null byte is a legal character.
func WriteString(w io.Writer, s string) error {
	err := binary.Write(w, ByteOrder, int32(len(s)))
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(s))
	return err
}

func ReadString(r io.Reader) (string, error) {
	var length int32
	err := binary.Read(r, ByteOrder, &length)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", errors.Newf("Negative string length %d", length)
	}
	b := make([]byte, length)
	err = ReadFully(r, b)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteRecord writes one record in read-layout order, a presence marker
// before each value.
//
// Preconditions:
//     len(record) == td.Size()
//     record[i] matches td.At(i).DataType for 0 <= i < len(record)
func WriteRecord(w io.Writer, td *riff.TypeDescription, record riff.Record) error {
	for i, value := range record {
		if value == nil {
			err := binary.Write(w, ByteOrder, markerNull)
			if err != nil {
				return err
			}
			continue
		}
		err := binary.Write(w, ByteOrder, markerPresent)
		if err != nil {
			return err
		}
		err = WriteValue(w, td.At(i).DataType, value)
		if err != nil {
			return err
		}
	}
	return nil
}

func ReadRecord(r io.Reader, td *riff.TypeDescription) (riff.Record, error) {
	record := make(riff.Record, td.Size())
	for i := 0; i < td.Size(); i++ {
		var marker uint8
		err := binary.Read(r, ByteOrder, &marker)
		if err != nil {
			return nil, err
		}
		if marker == markerNull {
			continue
		}
		value, err := ReadValue(r, td.At(i).DataType)
		if err != nil {
			return nil, err
		}
		record[i] = value
	}
	return record, nil
}
