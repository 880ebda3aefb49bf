package ir

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/jptrs93/cleanwire/wire"
)

// BoxedOptionNumber is the extension number of (cleanwire.boxed) on
// google.protobuf.FieldOptions.
const BoxedOptionNumber = 50020

var ErrMalformedOption = errors.New("malformed option")

// boxedOption reads (cleanwire.boxed) from the encoded options. The extension
// is usually not linked into this binary, so it arrives as an unknown field.
func boxedOption(opts *descriptorpb.FieldOptions) (value, present bool, err error) {
	if opts == nil {
		return false, false, nil
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(opts)
	if err != nil {
		return false, false, err
	}
	for len(b) > 0 {
		var num wire.Number
		var typ wire.Type
		b, num, typ, err = wire.ConsumeTag(b)
		if err != nil {
			return false, false, err
		}
		if num != BoxedOptionNumber {
			if b, err = wire.SkipField(num, typ, b, wire.DecodeContext{}); err != nil {
				return false, false, err
			}
			continue
		}
		if typ != wire.VarintType {
			return false, false, fmt.Errorf("%w: (cleanwire.boxed) must be a bool", ErrMalformedOption)
		}
		var v uint64
		if b, v, err = wire.ConsumeVarint(b); err != nil {
			return false, false, err
		}
		value, present = v != 0, true
	}
	return value, present, nil
}
