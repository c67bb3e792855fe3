package encoding

import (
	"bytes"
	"encoding/binary"
	"io"
)

// OutputBuffer accumulates a big-endian encoded section in memory so the
// total length is known before anything reaches the file.
type OutputBuffer struct {
	buf bytes.Buffer
}

func NewOutputBuffer() *OutputBuffer {
	return &OutputBuffer{}
}

func (b *OutputBuffer) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

func (b *OutputBuffer) WriteByte(x byte) error {
	return b.buf.WriteByte(x)
}

func (b *OutputBuffer) WriteInt32(x int32) error {
	return binary.Write(&b.buf, ByteOrder, x)
}

func (b *OutputBuffer) WriteInt64(x int64) error {
	return binary.Write(&b.buf, ByteOrder, x)
}

func (b *OutputBuffer) WriteString(s string) error {
	return WriteString(&b.buf, s)
}

// Align pads the buffer with zero bytes up to the next 8-byte boundary.
func (b *OutputBuffer) Align() {
	for b.buf.Len()%8 != 0 {
		b.buf.WriteByte(0)
	}
}

// BytesWritten returns the current length of the buffer.
func (b *OutputBuffer) BytesWritten() int {
	return b.buf.Len()
}

// WriteExternal copies the accumulated bytes into w.
func (b *OutputBuffer) WriteExternal(w io.Writer) error {
	_, err := w.Write(b.buf.Bytes())
	return err
}

// Bytes returns the accumulated bytes; the slice is only valid until the
// next write.
func (b *OutputBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
