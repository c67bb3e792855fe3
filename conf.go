package riff

import "strconv"

// Configuration keys; all values are strings and all keys are optional.
const (
	KeyBufferSize           = "riff.buffer.size"
	KeyCompressionCodec     = "riff.compression.codec"
	KeyStripeRows           = "riff.stripe.rows"
	KeyColumnFilterEnabled  = "riff.column.filter.enabled"
	KeyFilterPushdown       = "riff.filter.pushdown"
	KeyMetadataCountEnabled = "riff.metadata.count.enabled"
	KeyHeaderMaxSize        = "riff.header.max.size"
)

const (
	BufferSizeMin     = 4 * 1024
	BufferSizeDefault = 256 * 1024
	BufferSizeMax     = 8 * 1024 * 1024

	StripeRowsDefault = 10000

	CompressionCodecDefault = "deflate"

	HeaderMaxSizeDefault = 8 * 1024 * 1024
)

// Conf is a string-keyed configuration; a nil Conf yields defaults for
// every key.
type Conf map[string]string

func (c Conf) Get(key string, fallback string) string {
	if value, ok := c[key]; ok {
		return value
	}
	return fallback
}

func (c Conf) GetInt(key string, fallback int) int {
	value, ok := c[key]
	if !ok {
		return fallback
	}
	x, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return x
}

func (c Conf) GetBool(key string, fallback bool) bool {
	value, ok := c[key]
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

// BufferSize returns the configured read buffer size, clamped to
// [BufferSizeMin, BufferSizeMax].
func (c Conf) BufferSize() int {
	size := c.GetInt(KeyBufferSize, BufferSizeDefault)
	if size < BufferSizeMin {
		return BufferSizeMin
	}
	if size > BufferSizeMax {
		return BufferSizeMax
	}
	return size
}

// StripeRows returns the configured rows per stripe; at least 1.
func (c Conf) StripeRows() int {
	rows := c.GetInt(KeyStripeRows, StripeRowsDefault)
	if rows < 1 {
		return 1
	}
	return rows
}

func (c Conf) CompressionCodec() string {
	return c.Get(KeyCompressionCodec, CompressionCodecDefault)
}

func (c Conf) ColumnFilterEnabled() bool {
	return c.GetBool(KeyColumnFilterEnabled, true)
}

func (c Conf) FilterPushdown() bool {
	return c.GetBool(KeyFilterPushdown, true)
}

func (c Conf) MetadataCountEnabled() bool {
	return c.GetBool(KeyMetadataCountEnabled, true)
}

// HeaderMaxSize returns the decoder cap on the header body length.
func (c Conf) HeaderMaxSize() int {
	size := c.GetInt(KeyHeaderMaxSize, HeaderMaxSizeDefault)
	if size < BufferSizeMin {
		return BufferSizeMin
	}
	return size
}
