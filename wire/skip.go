package wire

import "fmt"

// SkipField consumes the value of a field whose tag has already been read and
// returns the remaining buffer. Group contents are walked tag by tag so that a
// missing or mismatched end marker is detected; each group charges ctx once.
func SkipField(num Number, typ Type, b []byte, ctx DecodeContext) ([]byte, error) {
	var err error
	switch typ {
	case VarintType:
		b, _, err = ConsumeVarint(b)
	case Fixed32Type:
		b, _, err = ConsumeFixed32(b)
	case Fixed64Type:
		b, _, err = ConsumeFixed64(b)
	case BytesType:
		b, _, err = ConsumeBytes(b)
	case StartGroupType:
		b, err = skipGroup(num, b, ctx)
	case EndGroupType:
		return nil, malformed(fmt.Sprintf("unexpected end group tag for field %d", num))
	default:
		return nil, malformed(fmt.Sprintf("invalid wire type value: %d", typ))
	}
	return b, err
}

func skipGroup(num Number, b []byte, ctx DecodeContext) ([]byte, error) {
	ctx, err := ctx.Enter()
	if err != nil {
		return nil, err
	}
	for {
		if len(b) == 0 {
			return nil, malformed(fmt.Sprintf("missing end group tag for field %d", num))
		}
		var n Number
		var t Type
		b, n, t, err = ConsumeTag(b)
		if err != nil {
			return nil, err
		}
		if t == EndGroupType {
			return b, CheckEndGroup(num, n)
		}
		b, err = SkipField(n, t, b, ctx)
		if err != nil {
			return nil, err
		}
	}
}

// CheckEndGroup verifies that an end group tag closes the group it is in.
func CheckEndGroup(start, end Number) error {
	if start != end {
		return malformed(fmt.Sprintf("mismatched end group tag: started %d, ended %d", start, end))
	}
	return nil
}
