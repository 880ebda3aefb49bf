package codec

import (
	"math"
	"unicode/utf8"

	"github.com/jptrs93/cleanwire/wire"
)

// FieldCodec is the uniform shape shared by every field codec: Append writes
// tag and value, Size returns exactly the number of bytes Append writes, and
// Merge combines a decoded value into *v.
//
// Append does not look at default values. Generated code skips the call for
// implicit-presence fields holding their zero value.
type FieldCodec[T any] interface {
	Append(b []byte, num wire.Number, v T) []byte
	Size(num wire.Number, v T) int
	Merge(typ wire.Type, v *T, b []byte, ctx wire.DecodeContext) ([]byte, error)
}

// Scalar encodes one scalar proto type held in Go type T.
type Scalar[T any] struct {
	wireType     wire.Type
	packable     bool
	appendValue  func([]byte, T) []byte
	sizeValue    func(T) int
	consumeValue func([]byte) ([]byte, T, error)
}

var (
	Int32 = varintScalar(func(v int32) uint64 { return uint64(int64(v)) }, func(x uint64) int32 { return int32(x) })
	Int64 = varintScalar(func(v int64) uint64 { return uint64(v) }, func(x uint64) int64 { return int64(x) })

	Uint32 = varintScalar(func(v uint32) uint64 { return uint64(v) }, func(x uint64) uint32 { return uint32(x) })
	Uint64 = varintScalar(func(v uint64) uint64 { return v }, func(x uint64) uint64 { return x })

	Sint32 = varintScalar(
		func(v int32) uint64 { return wire.EncodeZigZag(int64(v)) },
		func(x uint64) int32 { return int32(wire.DecodeZigZag(x & math.MaxUint32)) },
	)
	Sint64 = varintScalar(wire.EncodeZigZag, wire.DecodeZigZag)

	Bool = varintScalar(wire.EncodeBool, func(x uint64) bool { return x != 0 })

	Fixed32  = fixed32Scalar(func(v uint32) uint32 { return v }, func(x uint32) uint32 { return x })
	Sfixed32 = fixed32Scalar(func(v int32) uint32 { return uint32(v) }, func(x uint32) int32 { return int32(x) })
	Float    = fixed32Scalar(math.Float32bits, math.Float32frombits)

	Fixed64  = fixed64Scalar(func(v uint64) uint64 { return v }, func(x uint64) uint64 { return x })
	Sfixed64 = fixed64Scalar(func(v int64) uint64 { return uint64(v) }, func(x uint64) int64 { return int64(x) })
	Double   = fixed64Scalar(math.Float64bits, math.Float64frombits)

	String = Scalar[string]{
		wireType:    wire.BytesType,
		appendValue: wire.AppendString,
		sizeValue:   func(v string) int { return wire.SizeBytes(len(v)) },
		consumeValue: func(b []byte) ([]byte, string, error) {
			b, v, err := wire.ConsumeBytes(b)
			if err != nil {
				return nil, "", err
			}
			if !utf8.Valid(v) {
				return nil, "", wire.Malformed("invalid string value: data is not UTF-8 encoded")
			}
			return b, string(v), nil
		},
	}

	Bytes = Scalar[[]byte]{
		wireType:    wire.BytesType,
		appendValue: wire.AppendBytes,
		sizeValue:   func(v []byte) int { return wire.SizeBytes(len(v)) },
		consumeValue: func(b []byte) ([]byte, []byte, error) {
			b, v, err := wire.ConsumeBytes(b)
			if err != nil {
				return nil, nil, err
			}
			return b, append([]byte{}, v...), nil
		},
	}
)

func varintScalar[T any](enc func(T) uint64, dec func(uint64) T) Scalar[T] {
	return Scalar[T]{
		wireType:    wire.VarintType,
		packable:    true,
		appendValue: func(b []byte, v T) []byte { return wire.AppendVarint(b, enc(v)) },
		sizeValue:   func(v T) int { return wire.SizeVarint(enc(v)) },
		consumeValue: func(b []byte) ([]byte, T, error) {
			b, x, err := wire.ConsumeVarint(b)
			return b, dec(x), err
		},
	}
}

func fixed32Scalar[T any](enc func(T) uint32, dec func(uint32) T) Scalar[T] {
	return Scalar[T]{
		wireType:    wire.Fixed32Type,
		packable:    true,
		appendValue: func(b []byte, v T) []byte { return wire.AppendFixed32(b, enc(v)) },
		sizeValue:   func(T) int { return 4 },
		consumeValue: func(b []byte) ([]byte, T, error) {
			b, x, err := wire.ConsumeFixed32(b)
			return b, dec(x), err
		},
	}
}

func fixed64Scalar[T any](enc func(T) uint64, dec func(uint64) T) Scalar[T] {
	return Scalar[T]{
		wireType:    wire.Fixed64Type,
		packable:    true,
		appendValue: func(b []byte, v T) []byte { return wire.AppendFixed64(b, enc(v)) },
		sizeValue:   func(T) int { return 8 },
		consumeValue: func(b []byte) ([]byte, T, error) {
			b, x, err := wire.ConsumeFixed64(b)
			return b, dec(x), err
		},
	}
}

// WireType returns the wire type of a single unpacked value.
func (s Scalar[T]) WireType() wire.Type {
	return s.wireType
}

// Packable reports whether repeated values may use the packed encoding.
func (s Scalar[T]) Packable() bool {
	return s.packable
}

func (s Scalar[T]) Append(b []byte, num wire.Number, v T) []byte {
	b = wire.AppendTag(b, num, s.wireType)
	return s.appendValue(b, v)
}

func (s Scalar[T]) Size(num wire.Number, v T) int {
	return wire.SizeTag(num) + s.sizeValue(v)
}

// Merge overwrites *v with the decoded value.
func (s Scalar[T]) Merge(typ wire.Type, v *T, b []byte, _ wire.DecodeContext) ([]byte, error) {
	if err := wire.CheckWireType(s.wireType, typ); err != nil {
		return nil, err
	}
	b, x, err := s.consumeValue(b)
	if err != nil {
		return nil, err
	}
	*v = x
	return b, nil
}

// MergeOptional decodes into an explicit-presence field.
func (s Scalar[T]) MergeOptional(typ wire.Type, v **T, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	var x T
	b, err := s.Merge(typ, &x, b, ctx)
	if err != nil {
		return nil, err
	}
	*v = &x
	return b, nil
}

// AppendRepeated writes one tagged record per element.
func (s Scalar[T]) AppendRepeated(b []byte, num wire.Number, vs []T) []byte {
	for _, v := range vs {
		b = s.Append(b, num, v)
	}
	return b
}

func (s Scalar[T]) SizeRepeated(num wire.Number, vs []T) int {
	n := 0
	for _, v := range vs {
		n += s.Size(num, v)
	}
	return n
}

// AppendPacked writes all elements back to back inside a single
// length-delimited record. Nothing is written for an empty slice.
func (s Scalar[T]) AppendPacked(b []byte, num wire.Number, vs []T) []byte {
	if len(vs) == 0 {
		return b
	}
	b = wire.AppendTag(b, num, wire.BytesType)
	b = wire.AppendVarint(b, uint64(s.packedLen(vs)))
	for _, v := range vs {
		b = s.appendValue(b, v)
	}
	return b
}

func (s Scalar[T]) SizePacked(num wire.Number, vs []T) int {
	if len(vs) == 0 {
		return 0
	}
	return wire.SizeTag(num) + wire.SizeBytes(s.packedLen(vs))
}

func (s Scalar[T]) packedLen(vs []T) int {
	n := 0
	for _, v := range vs {
		n += s.sizeValue(v)
	}
	return n
}

// MergeRepeated appends decoded values to *vs. Both the packed and the
// one-record-per-element encodings are accepted regardless of how the field
// is declared.
func (s Scalar[T]) MergeRepeated(typ wire.Type, vs *[]T, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	if typ == wire.BytesType && s.packable {
		b, payload, err := wire.ConsumeBytes(b)
		if err != nil {
			return nil, err
		}
		for len(payload) > 0 {
			var x T
			payload, x, err = s.consumeValue(payload)
			if err != nil {
				return nil, err
			}
			*vs = append(*vs, x)
		}
		return b, nil
	}
	var x T
	b, err := s.Merge(typ, &x, b, ctx)
	if err != nil {
		return nil, err
	}
	*vs = append(*vs, x)
	return b, nil
}
