package codec

import "github.com/jptrs93/cleanwire/wire"

// AppendMessage writes m as a length-delimited field.
func AppendMessage(b []byte, num wire.Number, m Message) []byte {
	b = wire.AppendTag(b, num, wire.BytesType)
	b = wire.AppendVarint(b, uint64(m.EncodedLen()))
	return m.EncodeRaw(b)
}

// SizeMessage returns the size AppendMessage writes.
func SizeMessage(num wire.Number, m Message) int {
	return wire.SizeTag(num) + wire.SizeBytes(m.EncodedLen())
}

// MergeMessage merges a length-delimited message payload into m. Fields
// already set in m are kept unless the payload overwrites them.
func MergeMessage(typ wire.Type, m Message, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	if err := wire.CheckWireType(wire.BytesType, typ); err != nil {
		return nil, err
	}
	ctx, err := ctx.Enter()
	if err != nil {
		return nil, err
	}
	b, payload, err := wire.ConsumeBytes(b)
	if err != nil {
		return nil, err
	}
	if err := mergeLoop(m, payload, ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// MessageField is the codec for message-typed fields held as *T.
type MessageField[T any, P MessagePtr[T]] struct{}

// Append writes v; a nil v is written as an empty message.
func (MessageField[T, P]) Append(b []byte, num wire.Number, v P) []byte {
	if v == nil {
		v = P(new(T))
	}
	return AppendMessage(b, num, v)
}

func (MessageField[T, P]) Size(num wire.Number, v P) int {
	if v == nil {
		return wire.SizeTag(num) + wire.SizeBytes(0)
	}
	return SizeMessage(num, v)
}

// Default returns an empty message.
func (MessageField[T, P]) Default() P {
	return P(new(T))
}

// Merge allocates *v when nil and merges the payload into it.
func (MessageField[T, P]) Merge(typ wire.Type, v *P, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	m := *v
	if m == nil {
		m = P(new(T))
	}
	b, err := MergeMessage(typ, m, b, ctx)
	if err != nil {
		return nil, err
	}
	*v = m
	return b, nil
}

func (c MessageField[T, P]) AppendRepeated(b []byte, num wire.Number, vs []P) []byte {
	for _, v := range vs {
		b = c.Append(b, num, v)
	}
	return b
}

func (c MessageField[T, P]) SizeRepeated(num wire.Number, vs []P) int {
	n := 0
	for _, v := range vs {
		n += c.Size(num, v)
	}
	return n
}

// MergeRepeated decodes a new element and appends it.
func (c MessageField[T, P]) MergeRepeated(typ wire.Type, vs *[]P, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	var m P
	b, err := c.Merge(typ, &m, b, ctx)
	if err != nil {
		return nil, err
	}
	*vs = append(*vs, m)
	return b, nil
}
