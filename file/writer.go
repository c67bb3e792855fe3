package file

import (
	"bufio"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/afero"

	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/column_filter"
	"github.com/robot-dreams/riff/encoding"
	"github.com/robot-dreams/riff/stats"
)

// maxStripes is bounded by the u8 stripe id.
const maxStripes = 256

// Writer produces a riff file pair.  Records are accepted in the
// caller-supplied schema order and reordered into the read layout; every
// stripeRows records become one independently compressed stripe with its
// own statistics and, optionally, column filters.
type Writer struct {
	fs         afero.Fs
	logger     log.Logger
	td         *riff.TypeDescription
	headerPath string
	dataPath   string
	properties map[string]string

	codec         encoding.Codec
	stripeRows    int
	filterEnabled bool

	dataFile afero.File
	dataBuf  *bufio.Writer
	offset   int64

	current     *stripeBuilder
	stripes     []*StripeInformation
	globalStats []*stats.Statistics
	numRecords  int64
	closed      bool
}

// NewWriter creates the data file and prepares a writer; properties may be
// nil.  A nil fs uses the operating system filesystem.
func NewWriter(
	fs afero.Fs,
	path string,
	conf riff.Conf,
	td *riff.TypeDescription,
	properties map[string]string,
) (*Writer, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	codec, err := encoding.NewCodec(conf.CompressionCodec())
	if err != nil {
		return nil, riff.NewSchemaErrorf("%v", err)
	}
	dataPath := path + DataFileSuffix
	dataFile, err := fs.Create(dataPath)
	if err != nil {
		return nil, riff.WrapIOError(err, "Failed to create data file %v", dataPath)
	}
	globalStats, err := newStatsArray(td)
	if err != nil {
		dataFile.Close()
		return nil, err
	}
	w := &Writer{
		fs:            fs,
		logger:        log.NewNopLogger(),
		td:            td,
		headerPath:    path,
		dataPath:      dataPath,
		properties:    properties,
		codec:         codec,
		stripeRows:    conf.StripeRows(),
		filterEnabled: conf.ColumnFilterEnabled(),
		dataFile:      dataFile,
		dataBuf:       bufio.NewWriterSize(dataFile, conf.BufferSize()),
		globalStats:   globalStats,
	}
	err = w.resetStripe()
	if err != nil {
		dataFile.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) SetLogger(logger log.Logger) {
	w.logger = logger
}

// Write appends one record, given in the original schema order.
func (w *Writer) Write(record riff.Record) error {
	if w.closed {
		return riff.NewStateViolationf("Write called after writer was closed")
	}
	if len(record) != w.td.Size() {
		return riff.NewSchemaErrorf(
			"Record has %d values, schema has %d columns", len(record), w.td.Size())
	}
	reordered := make(riff.Record, w.td.Size())
	for pos := 0; pos < w.td.Size(); pos++ {
		spec := w.td.At(pos)
		value := record[spec.OrigPosition]
		if value == nil {
			if !spec.Nullable {
				return riff.NewSchemaErrorf(
					"Null value for non-nullable column %q", spec.Name)
			}
		} else if !riff.ValueMatchesType(spec.DataType, value) {
			return riff.NewTypeMismatchf(
				"Value %v (%T) does not match column %q of type %v",
				value, value, spec.Name, spec.DataType)
		}
		reordered[pos] = value
	}
	for ord := 0; ord < w.td.NumIndexed(); ord++ {
		w.current.stats[ord].Update(reordered, ord)
		w.globalStats[ord].Update(reordered, ord)
		if w.current.filters != nil && reordered[ord] != nil {
			w.current.filters[ord].Add(reordered[ord])
		}
	}
	err := encoding.WriteRecord(&w.current.rows, w.td, reordered)
	if err != nil {
		return riff.WrapIOError(err, "Failed to encode record")
	}
	w.current.numRows++
	w.numRecords++
	if w.current.numRows == int32(w.stripeRows) {
		return w.flushStripe()
	}
	return nil
}

// WriteAll drains an iterator into the file.
func (w *Writer) WriteAll(iter riff.Iterator) error {
	for {
		record, err := iter.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		err = w.Write(record)
		if err != nil {
			return err
		}
	}
}

// Close flushes the last stripe, finishes the data file, and writes the
// header file (header, stripe index, footer).
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	defer func() {
		w.closed = true
	}()
	err := w.flushStripe()
	if err != nil {
		w.dataFile.Close()
		return err
	}
	err = w.dataBuf.Flush()
	if err != nil {
		w.dataFile.Close()
		return riff.WrapIOError(err, "Failed to flush data file %v", w.dataPath)
	}
	err = w.dataFile.Close()
	if err != nil {
		return riff.WrapIOError(err, "Failed to close data file %v", w.dataPath)
	}
	return w.writeHeaderFile()
}

func (w *Writer) writeHeaderFile() error {
	header := NewDefaultHeader(w.td, w.properties)
	header.SetState(StateCodecPos, w.codec.Tag())
	f, err := w.fs.Create(w.headerPath)
	if err != nil {
		return riff.WrapIOError(err, "Failed to create header file %v", w.headerPath)
	}
	out := bufio.NewWriter(f)
	err = header.WriteTo(out)
	if err == nil {
		buf := encoding.NewOutputBuffer()
		err = writeStripeIndex(buf, w.stripes)
		if err == nil {
			footer := &Footer{NumRecords: w.numRecords, Stats: w.globalStats}
			err = footer.writeTo(buf)
		}
		if err == nil {
			err = buf.WriteExternal(out)
		}
	}
	if err != nil {
		f.Close()
		return riff.WrapIOError(err, "Failed to write header file %v", w.headerPath)
	}
	err = out.Flush()
	if err != nil {
		f.Close()
		return riff.WrapIOError(err, "Failed to flush header file %v", w.headerPath)
	}
	err = f.Close()
	if err != nil {
		return riff.WrapIOError(err, "Failed to close header file %v", w.headerPath)
	}
	level.Debug(w.logger).Log(
		"msg", "wrote file",
		"path", w.headerPath,
		"records", w.numRecords,
		"stripes", len(w.stripes))
	return nil
}

func (w *Writer) flushStripe() error {
	if w.current.numRows == 0 {
		return nil
	}
	if len(w.stripes) == maxStripes {
		return riff.NewStateViolationf(
			"File cannot hold more than %d stripes", maxStripes)
	}
	payload := encoding.NewOutputBuffer()
	err := payload.WriteInt32(w.current.numRows)
	if err != nil {
		return riff.WrapIOError(err, "Failed to encode stripe")
	}
	err = w.current.rows.WriteExternal(payload)
	if err != nil {
		return riff.WrapIOError(err, "Failed to encode stripe")
	}
	compressed, err := w.codec.Compress(payload.Bytes())
	if err != nil {
		return riff.WrapIOError(err, "Failed to compress stripe")
	}
	_, err = w.dataBuf.Write(compressed)
	if err != nil {
		return riff.WrapIOError(err, "Failed to write stripe to %v", w.dataPath)
	}
	si := &StripeInformation{
		ID:     uint8(len(w.stripes)),
		Offset: w.offset,
		Length: int32(len(compressed)),
		Stats:  w.current.stats,
	}
	if w.current.filters != nil {
		si.Filters = make([]column_filter.Filter, len(w.current.filters))
		for i, f := range w.current.filters {
			si.Filters[i] = f
		}
	}
	w.stripes = append(w.stripes, si)
	w.offset += int64(len(compressed))
	return w.resetStripe()
}

func (w *Writer) resetStripe() error {
	stripeStats, err := newStatsArray(w.td)
	if err != nil {
		return err
	}
	builder := &stripeBuilder{stats: stripeStats}
	if w.filterEnabled {
		builder.filters = make([]*column_filter.BloomFilter, w.td.NumIndexed())
		for ord := 0; ord < w.td.NumIndexed(); ord++ {
			builder.filters[ord] = column_filter.NewBloomFilter(
				w.td.At(ord).DataType, uint(w.stripeRows))
		}
	}
	w.current = builder
	return nil
}

type stripeBuilder struct {
	rows    encoding.OutputBuffer
	numRows int32
	stats   []*stats.Statistics
	filters []*column_filter.BloomFilter
}

func newStatsArray(td *riff.TypeDescription) ([]*stats.Statistics, error) {
	result := make([]*stats.Statistics, td.NumIndexed())
	for ord := 0; ord < td.NumIndexed(); ord++ {
		s, err := stats.New(td.At(ord).DataType)
		if err != nil {
			return nil, riff.NewSchemaErrorf("%v", err)
		}
		result[ord] = s
	}
	return result, nil
}
