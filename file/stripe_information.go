package file

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/column_filter"
	"github.com/robot-dreams/riff/encoding"
	"github.com/robot-dreams/riff/stats"
	"github.com/robot-dreams/riff/tree"
)

// StripeInformation locates one stripe in the data file and carries its
// optional per-indexed-column summaries.  Stats and Filters, when present,
// have one entry per indexed column, aligned to type description ordinals.
type StripeInformation struct {
	ID      uint8
	Offset  int64
	Length  int32
	Stats   []*stats.Statistics
	Filters []column_filter.Filter
}

func (si *StripeInformation) String() string {
	return fmt.Sprintf(
		"Stripe(id=%d, offset=%d, length=%d, hasStats=%t, hasFilters=%t)",
		si.ID, si.Offset, si.Length, si.Stats != nil, si.Filters != nil)
}

func (si *StripeInformation) writeTo(buf *encoding.OutputBuffer) error {
	err := buf.WriteByte(si.ID)
	if err != nil {
		return err
	}
	err = buf.WriteInt64(si.Offset)
	if err != nil {
		return err
	}
	err = buf.WriteInt32(si.Length)
	if err != nil {
		return err
	}
	err = buf.WriteByte(asByte(si.Stats != nil))
	if err != nil {
		return err
	}
	for _, s := range si.Stats {
		err = s.WriteTo(buf)
		if err != nil {
			return err
		}
	}
	err = buf.WriteByte(asByte(si.Filters != nil))
	if err != nil {
		return err
	}
	for _, f := range si.Filters {
		err = f.WriteTo(buf)
		if err != nil {
			return err
		}
	}
	return nil
}

func readStripeInformation(r io.Reader, numIndexed int) (*StripeInformation, error) {
	id, err := encoding.ReadUint8(r)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated stripe entry: %v", err)
	}
	var offset int64
	err = binary.Read(r, encoding.ByteOrder, &offset)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated stripe entry: %v", err)
	}
	var length int32
	err = binary.Read(r, encoding.ByteOrder, &length)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated stripe entry: %v", err)
	}
	if offset < 0 || length < 0 {
		return nil, riff.NewCorruptHeaderf(
			"Invalid stripe bounds, offset %d, length %d", offset, length)
	}
	si := &StripeInformation{
		ID:     id,
		Offset: offset,
		Length: length,
	}
	statsPresent, err := encoding.ReadUint8(r)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated stripe entry: %v", err)
	}
	if statsPresent != 0 {
		si.Stats = make([]*stats.Statistics, numIndexed)
		for i := 0; i < numIndexed; i++ {
			s, err := stats.ReadFrom(r)
			if err != nil {
				return nil, riff.NewCorruptHeaderf("Invalid stripe statistics: %v", err)
			}
			si.Stats[i] = s
		}
	}
	filtersPresent, err := encoding.ReadUint8(r)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated stripe entry: %v", err)
	}
	if filtersPresent != 0 {
		si.Filters = make([]column_filter.Filter, numIndexed)
		for i := 0; i < numIndexed; i++ {
			f, err := column_filter.ReadFrom(r)
			if err != nil {
				return nil, riff.NewCorruptHeaderf("Invalid stripe column filter: %v", err)
			}
			si.Filters[i] = f
		}
	}
	return si, nil
}

func writeStripeIndex(buf *encoding.OutputBuffer, stripes []*StripeInformation) error {
	err := buf.WriteInt32(int32(len(stripes)))
	if err != nil {
		return err
	}
	for _, si := range stripes {
		err = si.writeTo(buf)
		if err != nil {
			return err
		}
	}
	return nil
}

func readStripeIndex(r io.Reader, numIndexed int) ([]*StripeInformation, error) {
	var count int32
	err := binary.Read(r, encoding.ByteOrder, &count)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated stripe index: %v", err)
	}
	if count < 0 {
		return nil, riff.NewCorruptHeaderf("Invalid stripe count %d", count)
	}
	stripes := make([]*StripeInformation, count)
	for i := int32(0); i < count; i++ {
		si, err := readStripeInformation(r, numIndexed)
		if err != nil {
			return nil, err
		}
		stripes[i] = si
	}
	return stripes, nil
}

// EvaluateStripes sorts stripes by offset, which fixes the file read order,
// and drops every stripe the predicate state proves empty.  A nil state
// keeps everything; a stripe without statistics or filters cannot be proven
// empty and is kept.  The surviving stripes keep the offset order.
func EvaluateStripes(stripes []*StripeInformation, state *tree.State) []*StripeInformation {
	sorted := make([]*StripeInformation, len(stripes))
	copy(sorted, stripes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	if state == nil {
		return sorted
	}
	result := make([]*StripeInformation, 0, len(sorted))
	for _, si := range sorted {
		if si.Stats != nil && !state.EvaluateStats(si.Stats) {
			continue
		}
		if si.Filters != nil && !state.EvaluateFilters(si.Filters) {
			continue
		}
		result = append(result, si)
	}
	return result
}
