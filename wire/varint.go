// Package wire implements the low level protobuf binary encoding: varints,
// tags, fixed-width scalars, length-delimited framing and groups.
//
// Decoding functions take the input buffer and return the remaining buffer,
// so a decoder threads a single []byte through a sequence of calls:
//
//	b, num, typ, err = wire.ConsumeTag(b)
//	b, v, err = wire.ConsumeVarint(b)
//
// On error the returned buffer is nil and the whole decode must be abandoned.
package wire

import (
	"errors"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// MaxVarintLen is the maximum encoded length of a 64-bit varint.
const MaxVarintLen = 10

// AppendVarint appends the shortest varint encoding of v to b.
func AppendVarint(b []byte, v uint64) []byte {
	return protowire.AppendVarint(b, v)
}

// ConsumeVarint decodes a varint from the front of b.
//
// Over-long encodings padded with zero groups are accepted. A tenth byte
// carrying more than the single remaining value bit is rejected as an
// integer overflow.
func ConsumeVarint(b []byte) ([]byte, uint64, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return nil, 0, parseError(n, "varint")
	}
	return b[n:], v, nil
}

// SizeVarint returns the number of bytes AppendVarint writes for v.
func SizeVarint(v uint64) int {
	return protowire.SizeVarint(v)
}

// EncodeZigZag maps a signed integer onto an unsigned one so that values of
// small magnitude have short varint encodings.
func EncodeZigZag(v int64) uint64 {
	return protowire.EncodeZigZag(v)
}

// DecodeZigZag reverses EncodeZigZag.
func DecodeZigZag(v uint64) int64 {
	return protowire.DecodeZigZag(v)
}

// EncodeBool returns the varint value of a bool.
func EncodeBool(v bool) uint64 {
	return protowire.EncodeBool(v)
}

// parseError converts a protowire error code into a DecodeError.
func parseError(n int, what string) error {
	err := protowire.ParseError(n)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return truncated(what)
	}
	if what == "varint" {
		return malformed("integer overflow")
	}
	return malformed(what + ": " + err.Error())
}
