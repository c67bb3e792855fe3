package riff

// Record is an in-memory row backed by a slice of values.  A nil slot is a
// null value; non-null slots hold bool, int8, int16, int32, int64, or string
// depending on the column type (Date uses int32, Timestamp uses int64).
type Record []interface{}

var _ Row = (Record)(nil)

func (r Record) IsNullAt(ordinal int) bool {
	return r[ordinal] == nil
}

func (r Record) GetBoolean(ordinal int) bool {
	return r[ordinal].(bool)
}

func (r Record) GetByte(ordinal int) int8 {
	return r[ordinal].(int8)
}

func (r Record) GetShort(ordinal int) int16 {
	return r[ordinal].(int16)
}

func (r Record) GetInt(ordinal int) int32 {
	return r[ordinal].(int32)
}

func (r Record) GetLong(ordinal int) int64 {
	return r[ordinal].(int64)
}

func (r Record) GetUTF8(ordinal int) string {
	return r[ordinal].(string)
}

func (r Record) GetDate(ordinal int) int32 {
	return r[ordinal].(int32)
}

func (r Record) GetTimestamp(ordinal int) int64 {
	return r[ordinal].(int64)
}

// Get returns the raw value at ordinal, or nil for a null slot.
func (r Record) Get(ordinal int) interface{} {
	return r[ordinal]
}

func (r1 Record) Equals(r2 Record) bool {
	if len(r1) != len(r2) {
		return false
	}
	for i := range r1 {
		if r1[i] != r2[i] {
			return false
		}
	}
	return true
}

// Copy returns a shallow copy of the record; value slots are immutable so a
// shallow copy is safe to retain.
func (r Record) Copy() Record {
	result := make(Record, len(r))
	copy(result, r)
	return result
}
