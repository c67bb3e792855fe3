package file

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/encoding"
)

// Magic is the format tag at the start of every header file.
const Magic uint32 = 0x52494646

// StateLength is the number of reserved state bytes in the header.
const StateLength = 8

// Position of the compression codec tag within the state bytes.  The header
// codec itself does not interpret any state byte.
const StateCodecPos = 0

// Header is the leading section of the header file: reserved state bytes,
// the type description, and optional custom properties.
type Header struct {
	state      []byte
	td         *riff.TypeDescription
	properties map[string]string
}

// NewHeader builds a header with the given state; properties may be nil.
func NewHeader(td *riff.TypeDescription, state []byte, properties map[string]string) (*Header, error) {
	if len(state) != StateLength {
		return nil, riff.NewCorruptHeaderf(
			"Invalid state length, %d != %d", len(state), StateLength)
	}
	return &Header{
		state:      state,
		td:         td,
		properties: properties,
	}, nil
}

// NewDefaultHeader builds a header with zeroed state bytes.
func NewDefaultHeader(td *riff.TypeDescription, properties map[string]string) *Header {
	h, _ := NewHeader(td, make([]byte, StateLength), properties)
	return h
}

func (h *Header) TypeDescription() *riff.TypeDescription {
	return h.td
}

// State returns the state byte at pos.
func (h *Header) State(pos int) byte {
	return h.state[pos]
}

// SetState sets the state byte at pos.
func (h *Header) SetState(pos int, flag byte) {
	h.state[pos] = flag
}

// Property returns the value for key, if properties are set and key exists.
func (h *Header) Property(key string) (string, bool) {
	if h.properties == nil {
		return "", false
	}
	value, ok := h.properties[key]
	return value, ok
}

// HasProperties reports whether a properties map was set (it may be empty).
func (h *Header) HasProperties() bool {
	return h.properties != nil
}

func (h *Header) Equals(other *Header) bool {
	if other == nil {
		return false
	}
	if riff.AssertBytes(h.state, other.state, "state") != nil {
		return false
	}
	if !h.td.Equals(other.td) {
		return false
	}
	if (h.properties == nil) != (other.properties == nil) {
		return false
	}
	// Property order is not part of the contract; compare set-wise.
	if len(h.properties) != len(other.properties) {
		return false
	}
	for key, value := range h.properties {
		otherValue, ok := other.properties[key]
		if !ok || value != otherValue {
			return false
		}
	}
	return true
}

// WriteTo writes magic, body length, and the 8-byte aligned body.  The
// writer is not closed.
func (h *Header) WriteTo(w io.Writer) error {
	buf := encoding.NewOutputBuffer()
	_, err := buf.Write(h.state)
	if err != nil {
		return err
	}
	err = writeTypeDescription(buf, h.td)
	if err != nil {
		return err
	}
	// Properties count -1 means properties were not set.
	if h.properties == nil {
		err = buf.WriteInt32(-1)
		if err != nil {
			return err
		}
	} else {
		err = buf.WriteInt32(int32(len(h.properties)))
		if err != nil {
			return err
		}
		for key, value := range h.properties {
			err = buf.WriteString(key)
			if err != nil {
				return err
			}
			err = buf.WriteString(value)
			if err != nil {
				return err
			}
		}
	}
	buf.Align()
	// Magic 4 bytes and body length 4 bytes packed as one big-endian u64.
	err = binary.Write(w, encoding.ByteOrder,
		uint64(Magic)<<32+uint64(buf.BytesWritten()))
	if err != nil {
		return err
	}
	return buf.WriteExternal(w)
}

// ReadHeaderFrom reads and validates a header; maxSize caps the body length
// a decoder will accept.  The reader is left positioned at the first byte
// after the header body.
func ReadHeaderFrom(r io.Reader, maxSize int) (*Header, error) {
	var meta uint64
	err := binary.Read(r, encoding.ByteOrder, &meta)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Failed to read magic: %v", err)
	}
	magic := uint32(meta >> 32)
	if magic != Magic {
		return nil, riff.NewCorruptHeaderf("Wrong magic: %d != %d", magic, Magic)
	}
	length := int(meta & 0x7fffffff)
	if length > maxSize {
		return nil, riff.NewCorruptHeaderf(
			"Header body length %d exceeds limit %d", length, maxSize)
	}
	body := make([]byte, length)
	err = encoding.ReadFully(r, body)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated header body: %v", err)
	}
	return parseBody(body)
}

func parseBody(body []byte) (*Header, error) {
	r := bytes.NewReader(body)
	state := make([]byte, StateLength)
	err := encoding.ReadFully(r, state)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated state bytes: %v", err)
	}
	td, err := readTypeDescription(r)
	if err != nil {
		if riff.KindOf(err) != riff.KindUnknown {
			return nil, err
		}
		return nil, riff.NewCorruptHeaderf("Invalid type description: %v", err)
	}
	var count int32
	err = binary.Read(r, encoding.ByteOrder, &count)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated properties count: %v", err)
	}
	var properties map[string]string
	if count >= 0 {
		properties = make(map[string]string, count)
		for i := int32(0); i < count; i++ {
			key, err := encoding.ReadString(r)
			if err != nil {
				return nil, riff.NewCorruptHeaderf("Truncated property key: %v", err)
			}
			value, err := encoding.ReadString(r)
			if err != nil {
				return nil, riff.NewCorruptHeaderf("Truncated property value: %v", err)
			}
			properties[key] = value
		}
	}
	return NewHeader(td, state, properties)
}
