package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Number is a field number.
type Number = protowire.Number

// Type is a wire type.
type Type = protowire.Type

const (
	VarintType     = protowire.VarintType
	Fixed64Type    = protowire.Fixed64Type
	BytesType      = protowire.BytesType
	StartGroupType = protowire.StartGroupType
	EndGroupType   = protowire.EndGroupType
	Fixed32Type    = protowire.Fixed32Type
)

const (
	MinValidNumber      = protowire.MinValidNumber
	MaxValidNumber      = protowire.MaxValidNumber
	FirstReservedNumber = protowire.FirstReservedNumber
	LastReservedNumber  = protowire.LastReservedNumber
)

// TypeName returns a readable name for a wire type.
func TypeName(typ Type) string {
	switch typ {
	case VarintType:
		return "varint"
	case Fixed64Type:
		return "fixed64"
	case BytesType:
		return "length-delimited"
	case StartGroupType:
		return "start-group"
	case EndGroupType:
		return "end-group"
	case Fixed32Type:
		return "fixed32"
	default:
		return fmt.Sprintf("invalid(%d)", typ)
	}
}

// AppendTag appends the varint encoding of (num << 3) | typ.
func AppendTag(b []byte, num Number, typ Type) []byte {
	return protowire.AppendTag(b, num, typ)
}

// SizeTag returns the encoded size of a tag for num.
func SizeTag(num Number) int {
	return protowire.SizeTag(num)
}

// ConsumeTag decodes a tag from the front of b. Tags with an undefined wire
// type or a field number outside [1, 2^29-1] are malformed.
func ConsumeTag(b []byte) ([]byte, Number, Type, error) {
	b, v, err := ConsumeVarint(b)
	if err != nil {
		return nil, 0, 0, err
	}
	if v>>3 > uint64(MaxValidNumber) {
		return nil, 0, 0, malformed(fmt.Sprintf("invalid field number %d", v>>3))
	}
	num, typ := Number(v>>3), Type(v&7)
	if num < MinValidNumber {
		return nil, 0, 0, malformed("invalid field number 0")
	}
	if typ > Fixed32Type {
		return nil, 0, 0, malformed(fmt.Sprintf("invalid wire type value: %d", typ))
	}
	return b, num, typ, nil
}

// CheckWireType reports an ErrUnexpectedWireType error when actual differs
// from expected.
func CheckWireType(expected, actual Type) error {
	if expected == actual {
		return nil
	}
	return &DecodeError{
		Kind:        ErrUnexpectedWireType,
		Description: fmt.Sprintf("expected %s, got %s", TypeName(expected), TypeName(actual)),
	}
}
