package riff

import (
	"io"
	"strings"

	"github.com/dropbox/godropbox/errors"
)

// Compare returns -1, 0, or 1 as v1 is less than, equal to, or greater than
// v2 under the total order of the given type.  Both values must be non-nil
// and match the type.
func Compare(type_ Type, v1 interface{}, v2 interface{}) int {
	switch type_ {
	case Byte:
		return compareInt64(int64(v1.(int8)), int64(v2.(int8)))
	case Short:
		return compareInt64(int64(v1.(int16)), int64(v2.(int16)))
	case Int, Date:
		return compareInt64(int64(v1.(int32)), int64(v2.(int32)))
	case Long, Timestamp:
		return compareInt64(v1.(int64), v2.(int64))
	case String:
		return strings.Compare(v1.(string), v2.(string))
	default:
		panic(errors.Newf("Type %v is not orderable", type_))
	}
}

func compareInt64(x1, x2 int64) int {
	switch {
	case x1 < x2:
		return -1
	case x1 > x2:
		return 1
	default:
		return 0
	}
}

// Less reports whether v1 sorts before v2 under the total order of the given
// type.
func Less(type_ Type, v1 interface{}, v2 interface{}) bool {
	return Compare(type_, v1, v2) < 0
}

// ValueMatchesType reports whether a non-nil value has the Go representation
// expected for the given column type.
func ValueMatchesType(type_ Type, value interface{}) bool {
	switch type_ {
	case Boolean:
		_, ok := value.(bool)
		return ok
	case Byte:
		_, ok := value.(int8)
		return ok
	case Short:
		_, ok := value.(int16)
		return ok
	case Int, Date:
		_, ok := value.(int32)
		return ok
	case Long, Timestamp:
		_, ok := value.(int64)
		return ok
	case String:
		_, ok := value.(string)
		return ok
	default:
		return false
	}
}

// ValueAt retrieves the value at ordinal from a row through the typed getter
// for the given column type; the row must not be null at ordinal.
func ValueAt(row Row, ordinal int, type_ Type) interface{} {
	switch type_ {
	case Boolean:
		return row.GetBoolean(ordinal)
	case Byte:
		return row.GetByte(ordinal)
	case Short:
		return row.GetShort(ordinal)
	case Int:
		return row.GetInt(ordinal)
	case Long:
		return row.GetLong(ordinal)
	case String:
		return row.GetUTF8(ordinal)
	case Date:
		return row.GetDate(ordinal)
	case Timestamp:
		return row.GetTimestamp(ordinal)
	default:
		panic(errors.Newf("Unsupported type %v", type_))
	}
}

func ReadAll(iter Iterator) ([]Record, error) {
	var records []Record
	for {
		record, err := iter.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		} else {
			records = append(records, record)
		}
	}
	if len(records) == 0 {
		return nil, io.EOF
	} else {
		return records, nil
	}
}
