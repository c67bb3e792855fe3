package encoding

import (
	"bytes"
	"io"

	"github.com/dropbox/godropbox/errors"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// Codec compresses and decompresses one stripe payload at a time.
type Codec interface {
	// Tag is the byte recorded in the file state for this codec.
	Tag() uint8
	Compress(raw []byte) ([]byte, error)
	Decompress(compressed []byte) ([]byte, error)
}

const (
	CodecTagNone    uint8 = 0
	CodecTagDeflate uint8 = 1
	CodecTagGzip    uint8 = 2
)

// NewCodec resolves a configured codec name.
func NewCodec(name string) (Codec, error) {
	switch name {
	case "none":
		return noneCodec{}, nil
	case "deflate":
		return deflateCodec{}, nil
	case "gzip":
		return gzipCodec{}, nil
	default:
		return nil, errors.Newf("Unsupported compression codec %q", name)
	}
}

// CodecForTag resolves the codec recorded in a file's state byte.
func CodecForTag(tag uint8) (Codec, error) {
	switch tag {
	case CodecTagNone:
		return noneCodec{}, nil
	case CodecTagDeflate:
		return deflateCodec{}, nil
	case CodecTagGzip:
		return gzipCodec{}, nil
	default:
		return nil, errors.Newf("Unsupported compression codec tag %d", tag)
	}
}

type noneCodec struct{}

func (noneCodec) Tag() uint8 {
	return CodecTagNone
}

func (noneCodec) Compress(raw []byte) ([]byte, error) {
	return raw, nil
}

func (noneCodec) Decompress(compressed []byte) ([]byte, error) {
	return compressed, nil
}

type deflateCodec struct{}

func (deflateCodec) Tag() uint8 {
	return CodecTagDeflate
}

func (deflateCodec) Compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(raw)
	if err != nil {
		return nil, err
	}
	err = w.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (deflateCodec) Decompress(compressed []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	return io.ReadAll(r)
}

type gzipCodec struct{}

func (gzipCodec) Tag() uint8 {
	return CodecTagGzip
}

func (gzipCodec) Compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(raw)
	if err != nil {
		return nil, err
	}
	err = w.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decompress(compressed []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
