// Package codec is the runtime used by generated message types. It provides
// the Message contract, one codec value per logical field type, unknown-field
// preservation and an explicit type registry.
package codec

import (
	"github.com/jptrs93/cleanwire/wire"
)

// Message is implemented by every generated message type.
type Message interface {
	// EncodeRaw appends the fields of the message in ascending field number
	// order, followed by any unknown fields.
	EncodeRaw(b []byte) []byte
	// MergeField decodes the value of one field whose tag has already been
	// consumed and returns the remaining buffer.
	MergeField(num wire.Number, typ wire.Type, b []byte, ctx wire.DecodeContext) ([]byte, error)
	// EncodedLen returns len(m.EncodeRaw(nil)).
	EncodedLen() int
	// Clear resets every field, including unknown fields.
	Clear()
}

// Named is implemented by generated messages to report their full proto name.
type Named interface {
	Message
	MessageName() string
}

// MessagePtr constrains P to be a pointer to T implementing Message.
type MessagePtr[T any] interface {
	*T
	Message
}

// Marshal returns the wire encoding of m.
func Marshal(m Message) []byte {
	return m.EncodeRaw(make([]byte, 0, m.EncodedLen()))
}

// Append appends the wire encoding of m to b.
func Append(b []byte, m Message) []byte {
	return m.EncodeRaw(b)
}

// Size returns the encoded size of m.
func Size(m Message) int {
	return m.EncodedLen()
}

// UnmarshalOptions configures decoding.
type UnmarshalOptions struct {
	// RecursionLimit bounds message and group nesting. Zero selects
	// wire.DefaultRecursionLimit.
	RecursionLimit int
	// Merge keeps the existing contents of the target message.
	Merge bool
}

// Unmarshal replaces the contents of m with the message decoded from b.
// On error m is left cleared.
func Unmarshal(b []byte, m Message) error {
	return UnmarshalOptions{}.Unmarshal(b, m)
}

// Merge decodes b into m using protobuf merge semantics: singular fields are
// overwritten, repeated fields appended and nested messages merged.
func Merge(m Message, b []byte) error {
	return UnmarshalOptions{Merge: true}.Unmarshal(b, m)
}

// Unmarshal decodes b into m according to o.
func (o UnmarshalOptions) Unmarshal(b []byte, m Message) error {
	if !o.Merge {
		m.Clear()
	}
	err := mergeLoop(m, b, wire.NewDecodeContext(o.RecursionLimit))
	if err != nil && !o.Merge {
		m.Clear()
	}
	return err
}

// Decode allocates a new message and decodes b into it. No partially decoded
// message is ever returned.
func Decode[T any, P MessagePtr[T]](b []byte) (P, error) {
	return DecodeWithOptions[T, P](b, UnmarshalOptions{})
}

// DecodeWithOptions is Decode with explicit options.
func DecodeWithOptions[T any, P MessagePtr[T]](b []byte, o UnmarshalOptions) (P, error) {
	m := P(new(T))
	if err := mergeLoop(m, b, wire.NewDecodeContext(o.RecursionLimit)); err != nil {
		return nil, err
	}
	return m, nil
}

// mergeLoop reads tags until b is exhausted and dispatches each field to m.
func mergeLoop(m Message, b []byte, ctx wire.DecodeContext) error {
	for len(b) > 0 {
		var num wire.Number
		var typ wire.Type
		var err error
		b, num, typ, err = wire.ConsumeTag(b)
		if err != nil {
			return err
		}
		if typ == wire.EndGroupType {
			return wire.Malformed("unexpected end group tag for field %d", num)
		}
		b, err = m.MergeField(num, typ, b, ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// AppendLengthDelimited appends m prefixed with its varint length, the
// framing used for streams of messages.
func AppendLengthDelimited(b []byte, m Message) []byte {
	b = wire.AppendVarint(b, uint64(m.EncodedLen()))
	return m.EncodeRaw(b)
}

// ConsumeLengthDelimited decodes one length-prefixed message from the front
// of b into m and returns the remaining buffer.
func ConsumeLengthDelimited(b []byte, m Message) ([]byte, error) {
	b, payload, err := wire.ConsumeBytes(b)
	if err != nil {
		return nil, err
	}
	if err := Unmarshal(payload, m); err != nil {
		return nil, err
	}
	return b, nil
}
