package file

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/afero"

	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/encoding"
	"github.com/robot-dreams/riff/tree"
)

// DataFileSuffix is appended to the header file path to locate the data
// file.
const DataFileSuffix = ".data"

type sessionState uint8

const (
	stateOpened sessionState = iota
	stateHeaderRead
	statePlanned
	stateStreaming
	stateClosed
)

// Reader plans and streams one read session over a riff file pair.  A
// Reader is not safe for concurrent use; independent sessions may run in
// parallel.
type Reader struct {
	fs         afero.Fs
	logger     log.Logger
	conf       riff.Conf
	headerPath string
	dataPath   string
	bufferSize int
	session    sessionState
	header     *Header
	stripes    []*StripeInformation
	footer     *Footer
	iter       *rowIterator
	metrics    *Metrics
}

// OpenReader constructs a read session for the file pair at path and
// path+DataFileSuffix.  A nil fs uses the operating system filesystem.
func OpenReader(fs afero.Fs, path string, conf riff.Conf) *Reader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Reader{
		fs:         fs,
		logger:     log.NewNopLogger(),
		conf:       conf,
		headerPath: path,
		dataPath:   path + DataFileSuffix,
		bufferSize: conf.BufferSize(),
	}
}

func (r *Reader) SetLogger(logger log.Logger) {
	r.logger = logger
}

func (r *Reader) SetMetrics(metrics *Metrics) {
	r.metrics = metrics
}

// BufferSize returns the clamped read buffer size for this session.
func (r *Reader) BufferSize() int {
	return r.bufferSize
}

// ReadFileInfo parses the header file: the header and stripe index always,
// the footer when wantFooter is set.
func (r *Reader) ReadFileInfo(wantFooter bool) error {
	if r.session == stateClosed {
		return riff.NewStateViolationf("Session is closed")
	}
	if r.session == stateStreaming {
		return riff.NewStateViolationf("Cannot re-read file info while streaming")
	}
	if r.session >= stateHeaderRead && (!wantFooter || r.footer != nil) {
		return nil
	}
	f, err := r.fs.Open(r.headerPath)
	if err != nil {
		return r.fail(riff.WrapIOError(err, "Failed to open header file %v", r.headerPath))
	}
	defer f.Close()
	in := bufio.NewReaderSize(f, r.bufferSize)
	header, err := ReadHeaderFrom(in, r.conf.HeaderMaxSize())
	if err != nil {
		return r.fail(err)
	}
	stripes, err := readStripeIndex(in, header.TypeDescription().NumIndexed())
	if err != nil {
		return r.fail(err)
	}
	r.header = header
	r.stripes = stripes
	if wantFooter {
		footer, err := readFooter(in, header.TypeDescription().NumIndexed())
		if err != nil {
			return r.fail(err)
		}
		r.footer = footer
	}
	if r.session == stateOpened {
		r.session = stateHeaderRead
	}
	level.Debug(r.logger).Log(
		"msg", "read file info",
		"path", r.headerPath,
		"stripes", len(stripes),
		"footer", wantFooter)
	return nil
}

// Header returns the parsed header; ReadFileInfo must have succeeded.
func (r *Reader) Header() (*Header, error) {
	if r.header == nil {
		return nil, riff.NewStateViolationf("File info has not been read")
	}
	return r.header, nil
}

// TypeDescription returns the file's type description; ReadFileInfo must
// have succeeded.
func (r *Reader) TypeDescription() (*riff.TypeDescription, error) {
	if r.header == nil {
		return nil, riff.NewStateViolationf("File info has not been read")
	}
	return r.header.TypeDescription(), nil
}

// NumRecords returns the footer's record count without touching the data
// file; ReadFileInfo(true) must have succeeded.
func (r *Reader) NumRecords() (int64, error) {
	if r.footer == nil {
		return 0, riff.NewStateViolationf("Footer has not been read")
	}
	return r.footer.NumRecords, nil
}

// Footer returns the parsed footer; ReadFileInfo(true) must have
// succeeded.
func (r *Reader) Footer() (*Footer, error) {
	if r.footer == nil {
		return nil, riff.NewStateViolationf("Footer has not been read")
	}
	return r.footer, nil
}

// PrepareRead plans the session against an optional predicate tree and
// returns the row iterator.  Repeated calls before the first Next replan
// from scratch; calling after streaming started is an error.
func (r *Reader) PrepareRead(t tree.Tree) (riff.Iterator, error) {
	switch r.session {
	case stateClosed:
		return nil, riff.NewStateViolationf("Session is closed")
	case stateStreaming:
		return nil, riff.NewStateViolationf("Session is already streaming")
	case statePlanned:
		// Re-plan: release the previous iterator's data handle.
		r.iter.release()
		r.iter = nil
		r.session = stateHeaderRead
	case stateOpened:
		err := r.ReadFileInfo(false)
		if err != nil {
			return nil, err
		}
	}
	if !r.conf.FilterPushdown() {
		t = nil
	}
	var state *tree.State
	if t != nil {
		var err error
		state, err = tree.NewState(t, r.header.TypeDescription())
		if err != nil {
			return nil, r.fail(err)
		}
	}
	var planned []*StripeInformation
	if state != nil && state.TrivialFalse() {
		// Constant false proves every stripe empty, with or without
		// statistics; the data file is never opened.
		planned = nil
	} else {
		planned = EvaluateStripes(r.stripes, state)
	}
	if r.metrics != nil {
		r.metrics.StripesEvaluated.Add(float64(len(r.stripes)))
		r.metrics.StripesSkipped.Add(float64(len(r.stripes) - len(planned)))
	}
	level.Debug(r.logger).Log(
		"msg", "planned stripes",
		"path", r.headerPath,
		"total", len(r.stripes),
		"surviving", len(planned))
	var dataFile afero.File
	if len(planned) > 0 {
		codec, err := encoding.CodecForTag(r.header.State(StateCodecPos))
		if err != nil {
			return nil, r.fail(riff.NewCorruptHeaderf("%v", err))
		}
		dataFile, err = r.fs.Open(r.dataPath)
		if err != nil {
			return nil, r.fail(riff.WrapIOError(err, "Failed to open data file %v", r.dataPath))
		}
		r.iter = newRowIterator(r, state, planned, dataFile, codec)
	} else {
		r.iter = newRowIterator(r, state, nil, nil, nil)
	}
	r.session = statePlanned
	return r.iter, nil
}

// Close releases the session; ReadFileInfo and PrepareRead then fail with
// StateViolation.
func (r *Reader) Close() error {
	if r.session == stateClosed {
		return nil
	}
	r.session = stateClosed
	if r.iter != nil {
		return r.iter.Close()
	}
	return nil
}

// fail closes the session and passes the error through.
func (r *Reader) fail(err error) error {
	r.session = stateClosed
	if r.iter != nil {
		r.iter.release()
		r.iter = nil
	}
	return err
}

// rowIterator streams records from surviving stripes in offset order,
// re-evaluating the predicate per row.  One stripe payload is held in
// memory at a time; the next stripe is not read until the current one is
// drained.
type rowIterator struct {
	reader   *Reader
	state    *tree.State
	stripes  []*StripeInformation
	dataFile afero.File
	codec    encoding.Codec
	idx      int
	cur      *bytes.Reader
	rowsLeft int32
	closed   bool
}

var _ riff.Iterator = (*rowIterator)(nil)

func newRowIterator(
	reader *Reader,
	state *tree.State,
	stripes []*StripeInformation,
	dataFile afero.File,
	codec encoding.Codec,
) *rowIterator {
	return &rowIterator{
		reader:   reader,
		state:    state,
		stripes:  stripes,
		dataFile: dataFile,
		codec:    codec,
	}
}

func (it *rowIterator) TypeDescription() *riff.TypeDescription {
	return it.reader.header.TypeDescription()
}

func (it *rowIterator) Next() (riff.Record, error) {
	if it.closed {
		return nil, riff.NewStateViolationf("Next called after iterator was closed")
	}
	if it.reader.session == statePlanned {
		it.reader.session = stateStreaming
	}
	td := it.reader.header.TypeDescription()
	for {
		for it.rowsLeft == 0 {
			if it.idx == len(it.stripes) {
				return nil, io.EOF
			}
			si := it.stripes[it.idx]
			it.idx++
			cur, err := encoding.ReadStripe(it.dataFile, si.Offset, si.Length, it.codec)
			if err != nil {
				return nil, it.fail(riff.WrapIOError(err, "Failed to read stripe %d", si.ID))
			}
			if it.reader.metrics != nil {
				it.reader.metrics.BytesRead.Add(float64(si.Length))
			}
			err = binary.Read(cur, encoding.ByteOrder, &it.rowsLeft)
			if err != nil {
				return nil, it.fail(riff.WrapIOError(err, "Truncated stripe %d", si.ID))
			}
			if it.rowsLeft < 0 {
				return nil, it.fail(riff.WrapIOError(
					io.ErrUnexpectedEOF, "Invalid row count %d in stripe %d", it.rowsLeft, si.ID))
			}
			it.cur = cur
		}
		record, err := encoding.ReadRecord(it.cur, td)
		if err != nil {
			return nil, it.fail(riff.WrapIOError(err, "Failed to decode record"))
		}
		it.rowsLeft--
		if it.state != nil && !it.state.EvaluateRow(record) {
			continue
		}
		return record, nil
	}
}

// fail releases resources on all error exits; per-stripe errors are fatal
// to the session.
func (it *rowIterator) fail(err error) error {
	it.release()
	it.reader.session = stateClosed
	return err
}

func (it *rowIterator) Close() error {
	err := it.releaseErr()
	it.reader.session = stateClosed
	return err
}

func (it *rowIterator) release() {
	_ = it.releaseErr()
}

func (it *rowIterator) releaseErr() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.cur = nil
	it.rowsLeft = 0
	if it.dataFile != nil {
		return it.dataFile.Close()
	}
	return nil
}
