package encoding

import (
	"bytes"
	"io"

	"github.com/dropbox/godropbox/errors"
)

// ReadSection reads exactly length bytes at offset from f.
func ReadSection(f io.ReaderAt, offset int64, length int32) ([]byte, error) {
	if offset < 0 {
		return nil, errors.Newf("offset must be non-negative; got %d", offset)
	}
	if length < 0 {
		return nil, errors.Newf("length must be non-negative; got %d", length)
	}
	b := make([]byte, length)
	_, err := f.ReadAt(b, offset)
	if err != nil {
		return nil, errors.Wrapf(
			err, "Failed to read section [%d, %d)", offset, offset+int64(length))
	}
	return b, nil
}

// ReadStripe reads one compressed stripe payload from the data file and
// returns a reader over the decompressed bytes.
func ReadStripe(f io.ReaderAt, offset int64, length int32, codec Codec) (*bytes.Reader, error) {
	compressed, err := ReadSection(f, offset, length)
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(compressed)
	if err != nil {
		return nil, errors.Wrapf(
			err, "Failed to decompress stripe at offset %d", offset)
	}
	return bytes.NewReader(raw), nil
}
