package wire

import "fmt"

// AppendBytes appends a varint length prefix followed by v.
func AppendBytes(b []byte, v []byte) []byte {
	b = AppendVarint(b, uint64(len(v)))
	return append(b, v...)
}

// AppendString is AppendBytes for a string.
func AppendString(b []byte, v string) []byte {
	b = AppendVarint(b, uint64(len(v)))
	return append(b, v...)
}

// SizeBytes returns the encoded size of a length-delimited payload of n bytes.
func SizeBytes(n int) int {
	return SizeVarint(uint64(n)) + n
}

// ConsumeBytes decodes a length-delimited payload. The returned value aliases b.
func ConsumeBytes(b []byte) ([]byte, []byte, error) {
	b, n, err := ConsumeVarint(b)
	if err != nil {
		return nil, nil, err
	}
	if n > uint64(len(b)) {
		return nil, nil, truncated(fmt.Sprintf("length %d exceeds remaining %d bytes", n, len(b)))
	}
	return b[n:], b[:n:n], nil
}
