package file

import (
	"encoding/binary"
	"io"

	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/encoding"
)

// Type description wire layout: count i32, then per spec
// { indexed u8, position i32, orig_position i32, nullable u8, name,
//   data_type_tag u8, metadata }.  The metadata slot is opaque and
// currently always empty.

func writeTypeDescription(buf *encoding.OutputBuffer, td *riff.TypeDescription) error {
	err := buf.WriteInt32(int32(td.Size()))
	if err != nil {
		return err
	}
	for i := 0; i < td.Size(); i++ {
		spec := td.At(i)
		err = buf.WriteByte(asByte(spec.Indexed))
		if err != nil {
			return err
		}
		err = buf.WriteInt32(int32(spec.Position))
		if err != nil {
			return err
		}
		err = buf.WriteInt32(int32(spec.OrigPosition))
		if err != nil {
			return err
		}
		err = buf.WriteByte(asByte(spec.Nullable))
		if err != nil {
			return err
		}
		err = buf.WriteString(spec.Name)
		if err != nil {
			return err
		}
		err = buf.WriteByte(uint8(spec.DataType))
		if err != nil {
			return err
		}
		err = buf.WriteString("")
		if err != nil {
			return err
		}
	}
	return nil
}

func readTypeDescription(r io.Reader) (*riff.TypeDescription, error) {
	var count int32
	err := binary.Read(r, encoding.ByteOrder, &count)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated type description count: %v", err)
	}
	if count <= 0 {
		return nil, riff.NewCorruptHeaderf("Invalid type description count %d", count)
	}
	specs := make([]*riff.TypeSpec, count)
	for i := int32(0); i < count; i++ {
		spec, err := readTypeSpec(r)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	td, err := riff.NewTypeDescriptionFromSpecs(specs)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Invalid type description: %v", err)
	}
	return td, nil
}

func readTypeSpec(r io.Reader) (*riff.TypeSpec, error) {
	indexed, err := encoding.ReadUint8(r)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated type spec: %v", err)
	}
	var position, origPosition int32
	err = binary.Read(r, encoding.ByteOrder, &position)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated type spec: %v", err)
	}
	err = binary.Read(r, encoding.ByteOrder, &origPosition)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated type spec: %v", err)
	}
	nullable, err := encoding.ReadUint8(r)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated type spec: %v", err)
	}
	name, err := encoding.ReadString(r)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated type spec name: %v", err)
	}
	tag, err := encoding.ReadUint8(r)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated type spec: %v", err)
	}
	dataType := riff.Type(tag)
	if !dataType.Valid() {
		return nil, riff.NewCorruptHeaderf("Unknown scalar type tag %d", tag)
	}
	// Opaque metadata slot.
	_, err = encoding.ReadString(r)
	if err != nil {
		return nil, riff.NewCorruptHeaderf("Truncated type spec metadata: %v", err)
	}
	return &riff.TypeSpec{
		Name:         name,
		DataType:     dataType,
		Nullable:     nullable != 0,
		Indexed:      indexed != 0,
		Position:     int(position),
		OrigPosition: int(origPosition),
	}, nil
}

func asByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
