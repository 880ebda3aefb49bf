package gogen

import (
	"fmt"

	"github.com/jptrs93/cleanwire/internal/ir"
)

// getter returns a nil-safe accessor for f. Optional scalars and oneof
// members fall back to their declared default.
func (g *fileGen) getter(msgType string, f *ir.Field) ([]string, error) {
	name := g.r.FieldName(f)
	head := func(ret string) string {
		return fmt.Sprintf("func (m *%s) %s() %s {", msgType, g.r.GetterName(f), ret)
	}

	switch g.mode(f) {
	case modeValue:
		t, err := g.qualify(f.TypeName)
		if err != nil {
			return nil, err
		}
		return []string{
			head("*" + t),
			"if m != nil {",
			"return &m." + name,
			"}",
			"return nil",
			"}",
		}, nil
	case modeOneof:
		t, err := g.elemType(f)
		if err != nil {
			return nil, err
		}
		def, err := g.defaultValue(f)
		if err != nil {
			return nil, err
		}
		return []string{
			head(t),
			fmt.Sprintf("if x, ok := m.Get%s().(*%s); ok {", g.r.OneofName(f.Oneof), g.r.OneofWrapper(f)),
			"return x." + name,
			"}",
			"return " + def,
			"}",
		}, nil
	case modeOptional:
		if isMessage(f) {
			break
		}
		t, err := g.elemType(f)
		if err != nil {
			return nil, err
		}
		def, err := g.defaultValue(f)
		if err != nil {
			return nil, err
		}
		val := "*m." + name
		if f.Kind == ir.KindBytes {
			val = "m." + name
		}
		return []string{
			head(t),
			fmt.Sprintf("if m != nil && m.%s != nil {", name),
			"return " + val,
			"}",
			"return " + def,
			"}",
		}, nil
	}

	t, err := g.fieldType(f)
	if err != nil {
		return nil, err
	}
	zero := "nil"
	if g.mode(f) == modeImplicit {
		zero = zeroValue(f.Kind)
	}
	return []string{
		head(t),
		"if m != nil {",
		"return m." + name,
		"}",
		"return " + zero,
		"}",
	}, nil
}

func (g *fileGen) oneofGetter(msgType string, o *ir.Oneof) []string {
	name := g.r.OneofName(o)
	return []string{
		fmt.Sprintf("func (m *%s) Get%s() %s {", msgType, name, g.r.OneofInterface(o)),
		"if m != nil {",
		"return m." + name,
		"}",
		"return nil",
		"}",
	}
}

func zeroValue(k ir.Kind) string {
	switch k {
	case ir.KindBool:
		return "false"
	case ir.KindString:
		return `""`
	case ir.KindBytes, ir.KindMessage, ir.KindGroup:
		return "nil"
	default:
		return "0"
	}
}
