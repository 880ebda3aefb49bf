package codec

import "github.com/jptrs93/cleanwire/wire"

// UnknownField is a field that the decoding schema did not recognize. Value
// holds the raw bytes following the tag; for groups it includes the end tag.
type UnknownField struct {
	Number wire.Number
	Type   wire.Type
	Value  []byte
}

// UnknownFields keeps unrecognized fields in the order they were decoded.
type UnknownFields []UnknownField

// Merge validates the framing of a field value, copies its raw bytes and
// returns the remaining buffer.
func (u *UnknownFields) Merge(num wire.Number, typ wire.Type, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	rest, err := wire.SkipField(num, typ, b, ctx)
	if err != nil {
		return nil, err
	}
	raw := append([]byte(nil), b[:len(b)-len(rest)]...)
	*u = append(*u, UnknownField{Number: num, Type: typ, Value: raw})
	return rest, nil
}

// AddVarint records a varint field, used for closed enum values that are not
// declared.
func (u *UnknownFields) AddVarint(num wire.Number, v uint64) {
	*u = append(*u, UnknownField{Number: num, Type: wire.VarintType, Value: wire.AppendVarint(nil, v)})
}

// Append re-emits every unknown field verbatim.
func (u UnknownFields) Append(b []byte) []byte {
	for _, f := range u {
		b = wire.AppendTag(b, f.Number, f.Type)
		b = append(b, f.Value...)
	}
	return b
}

func (u UnknownFields) Size() int {
	n := 0
	for _, f := range u {
		n += wire.SizeTag(f.Number) + len(f.Value)
	}
	return n
}

func (u *UnknownFields) Clear() {
	*u = nil
}
