package codec

import "github.com/jptrs93/cleanwire/wire"

// AppendGroup writes m between start and end group markers.
func AppendGroup(b []byte, num wire.Number, m Message) []byte {
	b = wire.AppendTag(b, num, wire.StartGroupType)
	b = m.EncodeRaw(b)
	return wire.AppendTag(b, num, wire.EndGroupType)
}

// SizeGroup returns the size AppendGroup writes.
func SizeGroup(num wire.Number, m Message) int {
	return 2*wire.SizeTag(num) + m.EncodedLen()
}

// MergeGroup decodes group fields into m until the end marker for num.
func MergeGroup(num wire.Number, typ wire.Type, m Message, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	if err := wire.CheckWireType(wire.StartGroupType, typ); err != nil {
		return nil, err
	}
	ctx, err := ctx.Enter()
	if err != nil {
		return nil, err
	}
	for {
		if len(b) == 0 {
			return nil, wire.Malformed("missing end group tag for field %d", num)
		}
		var n wire.Number
		var t wire.Type
		b, n, t, err = wire.ConsumeTag(b)
		if err != nil {
			return nil, err
		}
		if t == wire.EndGroupType {
			if err := wire.CheckEndGroup(num, n); err != nil {
				return nil, err
			}
			return b, nil
		}
		b, err = m.MergeField(n, t, b, ctx)
		if err != nil {
			return nil, err
		}
	}
}

// GroupField is the codec for group-encoded fields held as *T.
type GroupField[T any, P MessagePtr[T]] struct{}

func (GroupField[T, P]) Append(b []byte, num wire.Number, v P) []byte {
	if v == nil {
		v = P(new(T))
	}
	return AppendGroup(b, num, v)
}

func (GroupField[T, P]) Size(num wire.Number, v P) int {
	if v == nil {
		return 2 * wire.SizeTag(num)
	}
	return SizeGroup(num, v)
}

// Merge allocates *v when nil and merges the group into it.
func (GroupField[T, P]) Merge(num wire.Number, typ wire.Type, v *P, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	m := *v
	if m == nil {
		m = P(new(T))
	}
	b, err := MergeGroup(num, typ, m, b, ctx)
	if err != nil {
		return nil, err
	}
	*v = m
	return b, nil
}

func (c GroupField[T, P]) AppendRepeated(b []byte, num wire.Number, vs []P) []byte {
	for _, v := range vs {
		b = c.Append(b, num, v)
	}
	return b
}

func (c GroupField[T, P]) SizeRepeated(num wire.Number, vs []P) int {
	n := 0
	for _, v := range vs {
		n += c.Size(num, v)
	}
	return n
}

func (c GroupField[T, P]) MergeRepeated(num wire.Number, typ wire.Type, vs *[]P, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	var m P
	b, err := c.Merge(num, typ, &m, b, ctx)
	if err != nil {
		return nil, err
	}
	*vs = append(*vs, m)
	return b, nil
}
