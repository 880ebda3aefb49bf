package codec

import "github.com/jptrs93/cleanwire/wire"

// Enum returns the codec for an open enum: any int32 decodes into the field.
func Enum[E ~int32]() Scalar[E] {
	return varintScalar(func(v E) uint64 { return uint64(int64(v)) }, func(x uint64) E { return E(int32(x)) })
}

// ClosedEnumCodec decodes enums whose out-of-range values must not be stored
// in the field. Such values are kept in the unknown fields of the containing
// message so they still round-trip.
type ClosedEnumCodec[E ~int32] struct {
	Scalar[E]
	valid func(E) bool
}

// ClosedEnum returns the codec for a closed enum, with valid reporting which
// values are declared.
func ClosedEnum[E ~int32](valid func(E) bool) ClosedEnumCodec[E] {
	return ClosedEnumCodec[E]{Scalar: Enum[E](), valid: valid}
}

// MergeClosed decodes a value and stores it in *v when it is declared. It
// reports whether *v was written.
func (c ClosedEnumCodec[E]) MergeClosed(num wire.Number, typ wire.Type, v *E, b []byte, ctx wire.DecodeContext, unknown *UnknownFields) ([]byte, bool, error) {
	var x E
	b, err := c.Scalar.Merge(typ, &x, b, ctx)
	if err != nil {
		return nil, false, err
	}
	if !c.valid(x) {
		unknown.AddVarint(num, uint64(int64(x)))
		return b, false, nil
	}
	*v = x
	return b, true, nil
}

// MergeClosedOptional is MergeClosed for an explicit-presence field.
func (c ClosedEnumCodec[E]) MergeClosedOptional(num wire.Number, typ wire.Type, v **E, b []byte, ctx wire.DecodeContext, unknown *UnknownFields) ([]byte, error) {
	var x E
	b, ok, err := c.MergeClosed(num, typ, &x, b, ctx, unknown)
	if err != nil {
		return nil, err
	}
	if ok {
		*v = &x
	}
	return b, nil
}

// MergeClosedRepeated is MergeRepeated for closed enums; undeclared elements
// go to unknown, each as its own varint record.
func (c ClosedEnumCodec[E]) MergeClosedRepeated(num wire.Number, typ wire.Type, vs *[]E, b []byte, ctx wire.DecodeContext, unknown *UnknownFields) ([]byte, error) {
	var decoded []E
	b, err := c.Scalar.MergeRepeated(typ, &decoded, b, ctx)
	if err != nil {
		return nil, err
	}
	for _, x := range decoded {
		if c.valid(x) {
			*vs = append(*vs, x)
		} else {
			unknown.AddVarint(num, uint64(int64(x)))
		}
	}
	return b, nil
}
