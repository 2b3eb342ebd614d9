package persistence

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hupe1980/arraygo/array"
	"github.com/hupe1980/arraygo/bivector"
	"github.com/hupe1980/arraygo/codec"
	"github.com/hupe1980/arraygo/dtype"
	"github.com/hupe1980/arraygo/internal/validity"
	"github.com/hupe1980/arraygo/vector"
)

// Options control how a snapshot is written.
type Options struct {
	// Compression for the payload section. Defaults to none.
	Compression Compression
	// Codec for the metadata section. Defaults to codec.Default.
	Codec codec.Codec
}

func (o Options) codec() codec.Codec {
	if o.Codec == nil {
		return codec.Default
	}
	return o.Codec
}

type arrayMeta struct {
	Type    string `json:"type"`
	Count   int    `json:"count"`
	Invalid int    `json:"invalid"`
	DataLen int    `json:"data_len"`
}

type seriesMeta struct {
	Count int `json:"count"`
}

// writeSnapshot frames meta and payload with a checksummed header.
func writeSnapshot(w io.Writer, kind uint8, count uint64, opts Options, meta []byte, rawPayload []byte) error {
	payload, err := Compress(rawPayload, opts.Compression)
	if err != nil {
		return err
	}

	cw := NewChecksumWriter(io.Discard)
	_, _ = cw.Write(meta)
	_, _ = cw.Write(payload)

	header := FileHeader{
		Kind:        kind,
		Compression: uint8(opts.Compression),
		Count:       count,
		MetaLen:     uint32(len(meta)),
		PayloadLen:  uint64(len(payload)),
		Checksum:    cw.Sum(),
	}
	header.setCodecName(opts.codec().Name())

	if err := WriteHeader(w, &header); err != nil {
		return err
	}
	if _, err := w.Write(meta); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// readSnapshot reads and verifies a snapshot, returning the header, the
// decoded metadata codec, the raw metadata bytes, and the decompressed
// payload.
func readSnapshot(r io.Reader, wantKind uint8) (*FileHeader, codec.Codec, []byte, []byte, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if header.Kind != wantKind {
		return nil, nil, nil, nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKind, header.Kind, wantKind)
	}

	c, ok := codec.ByName(header.codecName())
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("unknown metadata codec %q", header.codecName())
	}

	cr := NewChecksumReader(r)
	meta := make([]byte, header.MetaLen)
	if _, err := io.ReadFull(cr, meta); err != nil {
		return nil, nil, nil, nil, err
	}
	payload := make([]byte, header.PayloadLen)
	if _, err := io.ReadFull(cr, payload); err != nil {
		return nil, nil, nil, nil, err
	}
	if err := cr.Verify(header.Checksum); err != nil {
		return nil, nil, nil, nil, err
	}

	raw, err := Decompress(payload, Compression(header.Compression))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return header, c, meta, raw, nil
}

// WriteArray writes an array snapshot to w.
func WriteArray(w io.Writer, a *array.Array, opts Options) error {
	data, err := arrayDataBytes(a)
	if err != nil {
		return err
	}

	var maskBuf bytes.Buffer
	if _, err := a.Column().Mask().WriteTo(&maskBuf); err != nil {
		return err
	}

	meta, err := opts.codec().Marshal(arrayMeta{
		Type:    a.Type().String(),
		Count:   a.Size(),
		Invalid: a.CountInvalid(),
		DataLen: len(data),
	})
	if err != nil {
		return err
	}

	raw := make([]byte, 0, len(data)+maskBuf.Len())
	raw = append(raw, data...)
	raw = append(raw, maskBuf.Bytes()...)

	return writeSnapshot(w, KindArray, uint64(a.Size()), opts, meta, raw)
}

// ReadArray reads an array snapshot from r.
func ReadArray(r io.Reader) (*array.Array, error) {
	_, c, metaBytes, raw, err := readSnapshot(r, KindArray)
	if err != nil {
		return nil, err
	}

	var meta arrayMeta
	if err := c.Unmarshal(metaBytes, &meta); err != nil {
		return nil, err
	}

	typ, ok := dtype.ByName(meta.Type)
	if !ok {
		return nil, fmt.Errorf("unknown array type %q", meta.Type)
	}
	if len(raw) < meta.DataLen {
		return nil, fmt.Errorf("payload truncated: %d bytes, need %d", len(raw), meta.DataLen)
	}

	a, err := arrayFromDataBytes(typ, meta.Count, raw[:meta.DataLen])
	if err != nil {
		return nil, err
	}

	if len(raw) > meta.DataLen {
		mask := validity.New(meta.Count)
		if _, err := mask.ReadFrom(bytes.NewReader(raw[meta.DataLen:])); err != nil {
			return nil, err
		}
		var applyErr error
		mask.ForEachInvalid(func(i int) bool {
			if err := a.SetInvalid(i); err != nil {
				applyErr = err
				return false
			}
			return true
		})
		if applyErr != nil {
			return nil, applyErr
		}
	}
	return a, nil
}

func arrayDataBytes(a *array.Array) ([]byte, error) {
	switch a.Type() {
	case dtype.Int32:
		s, err := a.DataInt32()
		if err != nil {
			return nil, err
		}
		return sliceBytes(s), nil
	case dtype.Int64:
		s, err := a.DataInt64()
		if err != nil {
			return nil, err
		}
		return sliceBytes(s), nil
	case dtype.Float32:
		s, err := a.DataFloat32()
		if err != nil {
			return nil, err
		}
		return sliceBytes(s), nil
	case dtype.Float64:
		s, err := a.DataFloat64()
		if err != nil {
			return nil, err
		}
		return sliceBytes(s), nil
	case dtype.Complex64:
		s, err := a.DataComplex64()
		if err != nil {
			return nil, err
		}
		return sliceBytes(s), nil
	case dtype.Complex128:
		s, err := a.DataComplex128()
		if err != nil {
			return nil, err
		}
		return sliceBytes(s), nil
	default:
		return nil, fmt.Errorf("unknown array type %q", a.Type())
	}
}

func arrayFromDataBytes(typ dtype.Type, count int, data []byte) (*array.Array, error) {
	if want := count * typ.Size(); len(data) != want {
		return nil, fmt.Errorf("data section is %d bytes, want %d", len(data), want)
	}

	switch typ {
	case dtype.Int32:
		s := make([]int32, count)
		copy(sliceBytes(s), data)
		return array.WrapInt32(s), nil
	case dtype.Int64:
		s := make([]int64, count)
		copy(sliceBytes(s), data)
		return array.WrapInt64(s), nil
	case dtype.Float32:
		s := make([]float32, count)
		copy(sliceBytes(s), data)
		return array.WrapFloat32(s), nil
	case dtype.Float64:
		s := make([]float64, count)
		copy(sliceBytes(s), data)
		return array.WrapFloat64(s), nil
	case dtype.Complex64:
		s := make([]complex64, count)
		copy(sliceBytes(s), data)
		return array.WrapComplex64(s), nil
	case dtype.Complex128:
		s := make([]complex128, count)
		copy(sliceBytes(s), data)
		return array.WrapComplex128(s), nil
	default:
		return nil, fmt.Errorf("unknown array type %q", typ)
	}
}

// WriteVector writes a vector snapshot to w.
func WriteVector(w io.Writer, v *vector.Vector, opts Options) error {
	meta, err := opts.codec().Marshal(seriesMeta{Count: v.Size()})
	if err != nil {
		return err
	}
	return writeSnapshot(w, KindVector, uint64(v.Size()), opts, meta, sliceBytes(v.Data()))
}

// ReadVector reads a vector snapshot from r.
func ReadVector(r io.Reader) (*vector.Vector, error) {
	_, c, metaBytes, raw, err := readSnapshot(r, KindVector)
	if err != nil {
		return nil, err
	}

	var meta seriesMeta
	if err := c.Unmarshal(metaBytes, &meta); err != nil {
		return nil, err
	}
	if want := meta.Count * 8; len(raw) != want {
		return nil, fmt.Errorf("payload is %d bytes, want %d", len(raw), want)
	}

	data := make([]float64, meta.Count)
	copy(sliceBytes(data), raw)
	return vector.Wrap(data)
}

// WriteBivector writes a bivector snapshot to w. The X series is stored
// first, then the Y series.
func WriteBivector(w io.Writer, b *bivector.Bivector, opts Options) error {
	meta, err := opts.codec().Marshal(seriesMeta{Count: b.Size()})
	if err != nil {
		return err
	}

	n := b.Size()
	raw := make([]byte, 0, 16*n)
	raw = append(raw, sliceBytes(b.X().Data())...)
	raw = append(raw, sliceBytes(b.Y().Data())...)

	return writeSnapshot(w, KindBivector, uint64(n), opts, meta, raw)
}

// ReadBivector reads a bivector snapshot from r.
func ReadBivector(r io.Reader) (*bivector.Bivector, error) {
	_, c, metaBytes, raw, err := readSnapshot(r, KindBivector)
	if err != nil {
		return nil, err
	}

	var meta seriesMeta
	if err := c.Unmarshal(metaBytes, &meta); err != nil {
		return nil, err
	}
	if want := meta.Count * 16; len(raw) != want {
		return nil, fmt.Errorf("payload is %d bytes, want %d", len(raw), want)
	}

	half := meta.Count * 8
	xs := make([]float64, meta.Count)
	ys := make([]float64, meta.Count)
	copy(sliceBytes(xs), raw[:half])
	copy(sliceBytes(ys), raw[half:])

	x, err := vector.Wrap(xs)
	if err != nil {
		return nil, err
	}
	y, err := vector.Wrap(ys)
	if err != nil {
		return nil, err
	}
	return bivector.Wrap(x, y)
}

// SaveArrayFile writes an array snapshot atomically to filename.
func SaveArrayFile(filename string, a *array.Array, opts Options) error {
	return SaveToFile(filename, func(w io.Writer) error {
		return WriteArray(w, a, opts)
	})
}

// LoadArrayFile reads an array snapshot from filename.
func LoadArrayFile(filename string) (*array.Array, error) {
	var a *array.Array
	err := LoadFromFile(filename, func(r io.Reader) error {
		var err error
		a, err = ReadArray(r)
		return err
	})
	return a, err
}

// SaveVectorFile writes a vector snapshot atomically to filename.
func SaveVectorFile(filename string, v *vector.Vector, opts Options) error {
	return SaveToFile(filename, func(w io.Writer) error {
		return WriteVector(w, v, opts)
	})
}

// LoadVectorFile reads a vector snapshot from filename.
func LoadVectorFile(filename string) (*vector.Vector, error) {
	var v *vector.Vector
	err := LoadFromFile(filename, func(r io.Reader) error {
		var err error
		v, err = ReadVector(r)
		return err
	})
	return v, err
}

// SaveBivectorFile writes a bivector snapshot atomically to filename.
func SaveBivectorFile(filename string, b *bivector.Bivector, opts Options) error {
	return SaveToFile(filename, func(w io.Writer) error {
		return WriteBivector(w, b, opts)
	})
}

// LoadBivectorFile reads a bivector snapshot from filename. The snapshot is
// memory-mapped while parsing to avoid double-buffering large payloads.
func LoadBivectorFile(filename string) (*bivector.Bivector, error) {
	var b *bivector.Bivector
	err := LoadFromFileMapped(filename, func(data []byte) error {
		var err error
		b, err = ReadBivector(bytes.NewReader(data))
		return err
	})
	return b, err
}
