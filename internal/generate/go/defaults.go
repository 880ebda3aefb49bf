package gogen

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/jptrs93/cleanwire/internal/generate"
	"github.com/jptrs93/cleanwire/internal/ir"
)

// defaultValue returns the expression reported by the getter of f when the
// field is unset.
func (g *fileGen) defaultValue(f *ir.Field) (string, error) {
	if f.Kind == ir.KindEnum {
		return g.enumDefault(f)
	}
	if !f.HasDefault {
		return zeroValue(f.Kind), nil
	}
	lit, usesMath, err := defaultLiteral(f.Kind, f.Default)
	if err != nil {
		return "", err
	}
	if usesMath {
		g.useMath()
	}
	return lit, nil
}

// enumDefault returns the declared default of an enum field, or else its
// first value.
func (g *fileGen) enumDefault(f *ir.Field) (string, error) {
	e := g.set.Enum(f.TypeName)
	if e == nil || len(e.Values) == 0 {
		return "0", nil
	}
	v := e.Values[0]
	if f.HasDefault {
		if v = enumValueByName(e, f.Default); v == nil {
			return "", fmt.Errorf("%w: default %q is not a value of %s", generate.ErrMalformedOption, f.Default, e.FullName)
		}
	}
	id, err := g.r.GoIdent(e.FullName)
	if err != nil {
		return "", err
	}
	if g.r.IsExtern(e.FullName) {
		return fmt.Sprintf("%s(%d)", g.qualifyIdent(id), v.Number), nil
	}
	id.Name = g.r.EnumValueName(v)
	return g.qualifyIdent(id), nil
}

func enumValueByName(e *ir.Enum, name string) *ir.EnumValue {
	for _, v := range e.Values {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// defaultLiteral parses the textual default of a scalar field as written to
// FieldDescriptorProto.default_value and returns it as a Go expression.
func defaultLiteral(k ir.Kind, s string) (lit string, usesMath bool, err error) {
	switch k {
	case ir.KindBool:
		if s == "true" || s == "false" {
			return s, false, nil
		}
	case ir.KindInt32, ir.KindSint32, ir.KindSfixed32:
		if v, err := strconv.ParseInt(s, 10, 32); err == nil {
			return strconv.FormatInt(v, 10), false, nil
		}
	case ir.KindInt64, ir.KindSint64, ir.KindSfixed64:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(v, 10), false, nil
		}
	case ir.KindUint32, ir.KindFixed32:
		if v, err := strconv.ParseUint(s, 10, 32); err == nil {
			return strconv.FormatUint(v, 10), false, nil
		}
	case ir.KindUint64, ir.KindFixed64:
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			return strconv.FormatUint(v, 10), false, nil
		}
	case ir.KindFloat, ir.KindDouble:
		bits := 64
		wrap := func(expr string) string { return expr }
		if k == ir.KindFloat {
			bits = 32
			wrap = func(expr string) string { return "float32(" + expr + ")" }
		}
		switch s {
		case "inf":
			return wrap("math.Inf(1)"), true, nil
		case "-inf":
			return wrap("math.Inf(-1)"), true, nil
		case "nan":
			return wrap("math.NaN()"), true, nil
		}
		if v, err := strconv.ParseFloat(s, bits); err == nil {
			if v == 0 && math.Signbit(v) {
				return wrap("math.Copysign(0, -1)"), true, nil
			}
			return strconv.FormatFloat(v, 'g', -1, bits), false, nil
		}
	case ir.KindString:
		if utf8.ValidString(s) {
			return strconv.Quote(s), false, nil
		}
	case ir.KindBytes:
		if b, ok := unescapeBytes(s); ok {
			return "[]byte(" + strconv.Quote(string(b)) + ")", false, nil
		}
	}
	return "", false, fmt.Errorf("%w: invalid default value for %v: %q", generate.ErrMalformedOption, k, s)
}

// unescapeBytes reverses the C escaping protoc applies to bytes defaults.
func unescapeBytes(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		i++
		if i == len(s) {
			return nil, false
		}
		switch c = s[i]; c {
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'v':
			out = append(out, '\v')
		case '\\', '\'', '"', '?':
			out = append(out, c)
		case 'x', 'X':
			v, n := 0, 0
			for ; n < 2 && i+1 < len(s) && isHex(s[i+1]); n++ {
				i++
				v = v<<4 | hexValue(s[i])
			}
			if n == 0 {
				return nil, false
			}
			out = append(out, byte(v))
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := int(c - '0')
			for n := 1; n < 3 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7'; n++ {
				i++
				v = v<<3 | int(s[i]-'0')
			}
			if v > 0xff {
				return nil, false
			}
			out = append(out, byte(v))
		default:
			return nil, false
		}
	}
	return out, true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) int {
	switch {
	case c >= 'a':
		return int(c-'a') + 10
	case c >= 'A':
		return int(c-'A') + 10
	default:
		return int(c - '0')
	}
}
