package wire

import "google.golang.org/protobuf/encoding/protowire"

// AppendFixed32 appends v in little-endian byte order.
func AppendFixed32(b []byte, v uint32) []byte {
	return protowire.AppendFixed32(b, v)
}

// ConsumeFixed32 decodes a little-endian 32-bit value.
func ConsumeFixed32(b []byte) ([]byte, uint32, error) {
	v, n := protowire.ConsumeFixed32(b)
	if n < 0 {
		return nil, 0, parseError(n, "fixed32")
	}
	return b[n:], v, nil
}

// AppendFixed64 appends v in little-endian byte order.
func AppendFixed64(b []byte, v uint64) []byte {
	return protowire.AppendFixed64(b, v)
}

// ConsumeFixed64 decodes a little-endian 64-bit value.
func ConsumeFixed64(b []byte) ([]byte, uint64, error) {
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return nil, 0, parseError(n, "fixed64")
	}
	return b[n:], v, nil
}
