package gogen

import (
	"fmt"

	"github.com/jptrs93/cleanwire/internal/ir"
)

// fieldMode is how a field is held in the generated struct.
type fieldMode int

const (
	// modeImplicit holds a scalar directly; the zero value is not encoded.
	modeImplicit fieldMode = iota
	// modeOptional holds a pointer (or a nil-able slice for bytes).
	modeOptional
	// modeValue embeds a required message by value.
	modeValue
	modeRepeated
	modeMap
	modeOneof
)

func (g *fileGen) mode(f *ir.Field) fieldMode {
	switch {
	case f.Oneof != nil:
		return modeOneof
	case f.MapEntry(g.set) != nil:
		return modeMap
	case f.IsRepeated():
		return modeRepeated
	case isMessage(f):
		if f.IsRequired() && !g.boxed[f] {
			return modeValue
		}
		return modeOptional
	case f.Presence:
		return modeOptional
	default:
		return modeImplicit
	}
}

func isMessage(f *ir.Field) bool {
	return f.Kind == ir.KindMessage || f.Kind == ir.KindGroup
}

var scalarTypes = map[ir.Kind]string{
	ir.KindBool:     "bool",
	ir.KindInt32:    "int32",
	ir.KindInt64:    "int64",
	ir.KindUint32:   "uint32",
	ir.KindUint64:   "uint64",
	ir.KindSint32:   "int32",
	ir.KindSint64:   "int64",
	ir.KindFixed32:  "uint32",
	ir.KindFixed64:  "uint64",
	ir.KindSfixed32: "int32",
	ir.KindSfixed64: "int64",
	ir.KindFloat:    "float32",
	ir.KindDouble:   "float64",
	ir.KindString:   "string",
	ir.KindBytes:    "[]byte",
}

var scalarCodecs = map[ir.Kind]string{
	ir.KindBool:     "codec.Bool",
	ir.KindInt32:    "codec.Int32",
	ir.KindInt64:    "codec.Int64",
	ir.KindUint32:   "codec.Uint32",
	ir.KindUint64:   "codec.Uint64",
	ir.KindSint32:   "codec.Sint32",
	ir.KindSint64:   "codec.Sint64",
	ir.KindFixed32:  "codec.Fixed32",
	ir.KindFixed64:  "codec.Fixed64",
	ir.KindSfixed32: "codec.Sfixed32",
	ir.KindSfixed64: "codec.Sfixed64",
	ir.KindFloat:    "codec.Float",
	ir.KindDouble:   "codec.Double",
	ir.KindString:   "codec.String",
	ir.KindBytes:    "codec.Bytes",
}

// elemType is the Go type of a single value of f: the element of a repeated
// field, the member of a oneof wrapper.
func (g *fileGen) elemType(f *ir.Field) (string, error) {
	switch f.Kind {
	case ir.KindEnum:
		return g.qualify(f.TypeName)
	case ir.KindMessage, ir.KindGroup:
		t, err := g.qualify(f.TypeName)
		return "*" + t, err
	}
	t, ok := scalarTypes[f.Kind]
	if !ok {
		return "", fmt.Errorf("unsupported kind %v", f.Kind)
	}
	return t, nil
}

// fieldType is the Go type of the struct field holding f. Oneof members are
// held by their wrapper and have no struct field of their own.
func (g *fileGen) fieldType(f *ir.Field) (string, error) {
	switch g.mode(f) {
	case modeMap:
		entry := f.MapEntry(g.set)
		key, err := g.elemType(entry.Field(1))
		if err != nil {
			return "", err
		}
		val, err := g.elemType(entry.Field(2))
		if err != nil {
			return "", err
		}
		return "map[" + key + "]" + val, nil
	case modeRepeated:
		t, err := g.elemType(f)
		return "[]" + t, err
	case modeValue:
		return g.qualify(f.TypeName)
	case modeOptional:
		t, err := g.elemType(f)
		if err != nil || isMessage(f) || f.Kind == ir.KindBytes {
			return t, err
		}
		return "*" + t, nil
	default:
		return g.elemType(f)
	}
}

// valueCodec returns the codec expression for single values of f.
func (g *fileGen) valueCodec(f *ir.Field) (string, error) {
	switch f.Kind {
	case ir.KindEnum:
		return g.enumCodec(f.TypeName)
	case ir.KindMessage, ir.KindGroup:
		t, err := g.qualify(f.TypeName)
		if err != nil {
			return "", err
		}
		if f.Kind == ir.KindGroup {
			return fmt.Sprintf("codec.GroupField[%s, *%s]{}", t, t), nil
		}
		return fmt.Sprintf("codec.MessageField[%s, *%s]{}", t, t), nil
	}
	c, ok := scalarCodecs[f.Kind]
	if !ok {
		return "", fmt.Errorf("unsupported kind %v", f.Kind)
	}
	return c, nil
}

// enumCodec declares the package-level codec value of an enum type.
func (g *fileGen) enumCodec(fullName string) (string, error) {
	t, err := g.qualify(fullName)
	if err != nil {
		return "", err
	}
	name := "_" + identPart(t) + "_enum"
	if g.r.EnumClosed(fullName) {
		g.codecs[name] = fmt.Sprintf("codec.ClosedEnum[%s](%s.IsValid)", t, t)
	} else {
		g.codecs[name] = fmt.Sprintf("codec.Enum[%s]()", t)
	}
	return name, nil
}

// mapCodec declares the package-level codec value of a map field. Enum map
// values are always open.
func (g *fileGen) mapCodec(msgType string, f *ir.Field) (string, error) {
	if name, ok := g.maps[f]; ok {
		return name, nil
	}
	entry := f.MapEntry(g.set)
	key, val := entry.Field(1), entry.Field(2)
	keyType, err := g.elemType(key)
	if err != nil {
		return "", err
	}
	valType, err := g.elemType(val)
	if err != nil {
		return "", err
	}
	var valCodec string
	if val.Kind == ir.KindEnum {
		valCodec = fmt.Sprintf("codec.Enum[%s]()", valType)
	} else if valCodec, err = g.valueCodec(val); err != nil {
		return "", err
	}
	name := "_" + msgType + "_" + g.r.FieldName(f) + "_map"
	for g.codecs[name] != "" {
		name += "_"
	}
	g.codecs[name] = fmt.Sprintf("codec.Map[%s, %s]{Key: %s, Value: %s}", keyType, valType, scalarCodecs[key.Kind], valCodec)
	g.maps[f] = name
	return name, nil
}

func identPart(qualified string) string {
	out := []byte(qualified)
	for i, c := range out {
		if c == '.' {
			out[i] = '_'
		}
	}
	return string(out)
}

// zeroCheck is the condition under which an implicit-presence field is
// encoded. Floats compare bits so negative zero is kept.
func (g *fileGen) zeroCheck(f *ir.Field, acc string) string {
	switch f.Kind {
	case ir.KindBool:
		return acc
	case ir.KindString:
		return acc + ` != ""`
	case ir.KindBytes:
		return "len(" + acc + ") != 0"
	case ir.KindFloat:
		g.useMath()
		return "math.Float32bits(" + acc + ") != 0"
	case ir.KindDouble:
		g.useMath()
		return "math.Float64bits(" + acc + ") != 0"
	default:
		return acc + " != 0"
	}
}

func (g *fileGen) closedEnum(f *ir.Field) bool {
	return f.Kind == ir.KindEnum && g.r.EnumClosed(f.TypeName)
}

// encodeField returns the EncodeRaw and EncodedLen statements for f.
func (g *fileGen) encodeField(msgType string, f *ir.Field) (enc, size []string, err error) {
	acc := "m." + g.r.FieldName(f)
	num := f.Number
	mode := g.mode(f)

	if mode == modeMap {
		c, err := g.mapCodec(msgType, f)
		if err != nil {
			return nil, nil, err
		}
		return []string{fmt.Sprintf("b = %s.Append(b, %d, %s)", c, num, acc)},
			[]string{fmt.Sprintf("n += %s.Size(%d, %s)", c, num, acc)}, nil
	}
	if mode == modeValue {
		fn := "Message"
		if f.Kind == ir.KindGroup {
			fn = "Group"
		}
		return []string{fmt.Sprintf("b = codec.Append%s(b, %d, &%s)", fn, num, acc)},
			[]string{fmt.Sprintf("n += codec.Size%s(%d, &%s)", fn, num, acc)}, nil
	}

	c, err := g.valueCodec(f)
	if err != nil {
		return nil, nil, err
	}
	switch mode {
	case modeRepeated:
		suffix := "Repeated"
		if f.Packed {
			suffix = "Packed"
		}
		return []string{fmt.Sprintf("b = %s.Append%s(b, %d, %s)", c, suffix, num, acc)},
			[]string{fmt.Sprintf("n += %s.Size%s(%d, %s)", c, suffix, num, acc)}, nil
	case modeOneof:
		cond := fmt.Sprintf("if x, ok := m.%s.(*%s); ok {", g.r.OneofName(f.Oneof), g.r.OneofWrapper(f))
		val := "x." + g.r.FieldName(f)
		return []string{cond, fmt.Sprintf("b = %s.Append(b, %d, %s)", c, num, val), "}"},
			[]string{cond, fmt.Sprintf("n += %s.Size(%d, %s)", c, num, val), "}"}, nil
	case modeOptional:
		val := acc
		if !isMessage(f) && f.Kind != ir.KindBytes {
			val = "*" + acc
		}
		cond := fmt.Sprintf("if %s != nil {", acc)
		return []string{cond, fmt.Sprintf("b = %s.Append(b, %d, %s)", c, num, val), "}"},
			[]string{cond, fmt.Sprintf("n += %s.Size(%d, %s)", c, num, val), "}"}, nil
	default:
		cond := fmt.Sprintf("if %s {", g.zeroCheck(f, acc))
		return []string{cond, fmt.Sprintf("b = %s.Append(b, %d, %s)", c, num, acc), "}"},
			[]string{cond, fmt.Sprintf("n += %s.Size(%d, %s)", c, num, acc), "}"}, nil
	}
}

// decodeField returns the MergeField case body for f.
func (g *fileGen) decodeField(msgType, fullName string, f *ir.Field) ([]string, error) {
	acc := "m." + g.r.FieldName(f)
	mode := g.mode(f)
	wrap := []string{
		"if err != nil {",
		fmt.Sprintf("return nil, wire.WrapField(err, %q, %q)", fullName, f.Name),
		"}",
	}

	if mode == modeMap {
		c, err := g.mapCodec(msgType, f)
		if err != nil {
			return nil, err
		}
		return append([]string{fmt.Sprintf("b, err = %s.Merge(typ, &%s, b, ctx)", c, acc)}, wrap...), nil
	}
	if mode == modeValue {
		call := fmt.Sprintf("b, err = codec.MergeMessage(typ, &%s, b, ctx)", acc)
		if f.Kind == ir.KindGroup {
			call = fmt.Sprintf("b, err = codec.MergeGroup(num, typ, &%s, b, ctx)", acc)
		}
		return append([]string{call}, wrap...), nil
	}

	c, err := g.valueCodec(f)
	if err != nil {
		return nil, err
	}
	closed := g.closedEnum(f)
	switch mode {
	case modeRepeated:
		var call string
		switch {
		case closed:
			call = fmt.Sprintf("b, err = %s.MergeClosedRepeated(num, typ, &%s, b, ctx, &m.unknownFields)", c, acc)
		case f.Kind == ir.KindGroup:
			call = fmt.Sprintf("b, err = %s.MergeRepeated(num, typ, &%s, b, ctx)", c, acc)
		default:
			call = fmt.Sprintf("b, err = %s.MergeRepeated(typ, &%s, b, ctx)", c, acc)
		}
		return append([]string{call}, wrap...), nil
	case modeOneof:
		return g.decodeOneofMember(f, c, wrap)
	case modeOptional:
		var call string
		switch {
		case closed:
			call = fmt.Sprintf("b, err = %s.MergeClosedOptional(num, typ, &%s, b, ctx, &m.unknownFields)", c, acc)
		case f.Kind == ir.KindGroup:
			call = fmt.Sprintf("b, err = %s.Merge(num, typ, &%s, b, ctx)", c, acc)
		case f.Kind == ir.KindMessage, f.Kind == ir.KindBytes:
			call = fmt.Sprintf("b, err = %s.Merge(typ, &%s, b, ctx)", c, acc)
		default:
			call = fmt.Sprintf("b, err = %s.MergeOptional(typ, &%s, b, ctx)", c, acc)
		}
		return append([]string{call}, wrap...), nil
	default:
		call := fmt.Sprintf("b, err = %s.Merge(typ, &%s, b, ctx)", c, acc)
		if closed {
			call = fmt.Sprintf("b, _, err = %s.MergeClosed(num, typ, &%s, b, ctx, &m.unknownFields)", c, acc)
		}
		return append([]string{call}, wrap...), nil
	}
}

// decodeOneofMember merges into the current value when f is already the
// selected member, so repeated occurrences of a message member merge.
func (g *fileGen) decodeOneofMember(f *ir.Field, c string, wrap []string) ([]string, error) {
	t, err := g.elemType(f)
	if err != nil {
		return nil, err
	}
	oneof := "m." + g.r.OneofName(f.Oneof)
	wrapper := g.r.OneofWrapper(f)
	name := g.r.FieldName(f)
	lines := []string{
		"var v " + t,
		fmt.Sprintf("if x, ok := %s.(*%s); ok {", oneof, wrapper),
		"v = x." + name,
		"}",
	}
	assign := fmt.Sprintf("%s = &%s{%s: v}", oneof, wrapper, name)
	switch {
	case g.closedEnum(f):
		lines = append(lines,
			"var set bool",
			fmt.Sprintf("b, set, err = %s.MergeClosed(num, typ, &v, b, ctx, &m.unknownFields)", c))
		lines = append(lines, wrap...)
		return append(lines, "if set {", assign, "}"), nil
	case f.Kind == ir.KindGroup:
		lines = append(lines, fmt.Sprintf("b, err = %s.Merge(num, typ, &v, b, ctx)", c))
	default:
		lines = append(lines, fmt.Sprintf("b, err = %s.Merge(typ, &v, b, ctx)", c))
	}
	lines = append(lines, wrap...)
	return append(lines, assign), nil
}
