package file

import (
	"encoding/binary"
	"io"

	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/encoding"
	"github.com/robot-dreams/riff/stats"
)

// Footer is the trailing section of the header file: the total record
// count and statistics aggregated across all stripes.
type Footer struct {
	NumRecords int64
	// Stats has one entry per indexed column, or nil when the file was
	// written without statistics.
	Stats []*stats.Statistics
}

func (f *Footer) writeTo(buf *encoding.OutputBuffer) error {
	err := buf.WriteInt64(f.NumRecords)
	if err != nil {
		return err
	}
	err = buf.WriteByte(asByte(f.Stats != nil))
	if err != nil {
		return err
	}
	for _, s := range f.Stats {
		err = s.WriteTo(buf)
		if err != nil {
			return err
		}
	}
	return nil
}

func readFooter(r io.Reader, numIndexed int) (*Footer, error) {
	var numRecords int64
	err := binary.Read(r, encoding.ByteOrder, &numRecords)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated footer: %v", err)
	}
	if numRecords < 0 {
		return nil, riff.NewCorruptHeaderf("Invalid record count %d", numRecords)
	}
	footer := &Footer{NumRecords: numRecords}
	statsPresent, err := encoding.ReadUint8(r)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated footer: %v", err)
	}
	if statsPresent != 0 {
		footer.Stats = make([]*stats.Statistics, numIndexed)
		for i := 0; i < numIndexed; i++ {
			s, err := stats.ReadFrom(r)
			if err != nil {
				return nil, riff.NewCorruptHeaderf("Invalid footer statistics: %v", err)
			}
			footer.Stats[i] = s
		}
	}
	return footer, nil
}
