package codec

import "github.com/jptrs93/cleanwire/wire"

// The types in this file have the shape the generator emits, written out by
// hand so the runtime can be tested without running generation.

type testKind int32

const (
	testKind_UNKNOWN testKind = 0
	testKind_SMALL   testKind = 1
	testKind_LARGE   testKind = 2
)

func (x testKind) IsValid() bool {
	switch x {
	case testKind_UNKNOWN, testKind_SMALL, testKind_LARGE:
		return true
	}
	return false
}

var (
	_testAll_Attrs_codec = Map[string, int64]{Key: String, Value: Int64}
	_testAll_Kids_codec  = Map[int32, *testAll]{Key: Int32, Value: MessageField[testAll, *testAll]{}}
	_testKind_codec      = ClosedEnum[testKind](testKind.IsValid)
)

type testAll struct {
	I32      int32
	S64      int64
	Name     string
	Data     []byte
	Opt      *int32
	Packed   []int32
	Unpacked []uint64
	Child    *testAll
	Attrs    map[string]int64
	Kind     *testKind
	Grp      *testAll_Grp
	D        float64
	Kinds    []testKind
	Choice   isTestAll_Choice
	Kids     map[int32]*testAll

	unknownFields UnknownFields
}

type isTestAll_Choice interface {
	isTestAll_Choice()
}

type testAll_Text struct {
	Text string
}

type testAll_Leaf struct {
	Leaf *testAll
}

func (*testAll_Text) isTestAll_Choice() {}
func (*testAll_Leaf) isTestAll_Choice() {}

func (m *testAll) MessageName() string { return "test.All" }

func (m *testAll) EncodeRaw(b []byte) []byte {
	if m.I32 != 0 {
		b = Int32.Append(b, 1, m.I32)
	}
	if m.S64 != 0 {
		b = Sint64.Append(b, 2, m.S64)
	}
	if m.Name != "" {
		b = String.Append(b, 3, m.Name)
	}
	if len(m.Data) != 0 {
		b = Bytes.Append(b, 4, m.Data)
	}
	if m.Opt != nil {
		b = Int32.Append(b, 5, *m.Opt)
	}
	b = Int32.AppendPacked(b, 6, m.Packed)
	b = Uint64.AppendRepeated(b, 7, m.Unpacked)
	if m.Child != nil {
		b = MessageField[testAll, *testAll]{}.Append(b, 8, m.Child)
	}
	b = _testAll_Attrs_codec.Append(b, 9, m.Attrs)
	if m.Kind != nil {
		b = _testKind_codec.Append(b, 10, *m.Kind)
	}
	if m.Grp != nil {
		b = GroupField[testAll_Grp, *testAll_Grp]{}.Append(b, 11, m.Grp)
	}
	if m.D != 0 {
		b = Double.Append(b, 12, m.D)
	}
	b = _testKind_codec.AppendRepeated(b, 13, m.Kinds)
	if x, ok := m.Choice.(*testAll_Text); ok {
		b = String.Append(b, 14, x.Text)
	}
	if x, ok := m.Choice.(*testAll_Leaf); ok {
		b = MessageField[testAll, *testAll]{}.Append(b, 15, x.Leaf)
	}
	b = _testAll_Kids_codec.Append(b, 16, m.Kids)
	return m.unknownFields.Append(b)
}

func (m *testAll) EncodedLen() int {
	n := 0
	if m.I32 != 0 {
		n += Int32.Size(1, m.I32)
	}
	if m.S64 != 0 {
		n += Sint64.Size(2, m.S64)
	}
	if m.Name != "" {
		n += String.Size(3, m.Name)
	}
	if len(m.Data) != 0 {
		n += Bytes.Size(4, m.Data)
	}
	if m.Opt != nil {
		n += Int32.Size(5, *m.Opt)
	}
	n += Int32.SizePacked(6, m.Packed)
	n += Uint64.SizeRepeated(7, m.Unpacked)
	if m.Child != nil {
		n += MessageField[testAll, *testAll]{}.Size(8, m.Child)
	}
	n += _testAll_Attrs_codec.Size(9, m.Attrs)
	if m.Kind != nil {
		n += _testKind_codec.Size(10, *m.Kind)
	}
	if m.Grp != nil {
		n += GroupField[testAll_Grp, *testAll_Grp]{}.Size(11, m.Grp)
	}
	if m.D != 0 {
		n += Double.Size(12, m.D)
	}
	n += _testKind_codec.SizeRepeated(13, m.Kinds)
	if x, ok := m.Choice.(*testAll_Text); ok {
		n += String.Size(14, x.Text)
	}
	if x, ok := m.Choice.(*testAll_Leaf); ok {
		n += MessageField[testAll, *testAll]{}.Size(15, x.Leaf)
	}
	n += _testAll_Kids_codec.Size(16, m.Kids)
	return n + m.unknownFields.Size()
}

func (m *testAll) MergeField(num wire.Number, typ wire.Type, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	var err error
	switch num {
	case 1:
		b, err = Int32.Merge(typ, &m.I32, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "i32")
		}
	case 2:
		b, err = Sint64.Merge(typ, &m.S64, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "s64")
		}
	case 3:
		b, err = String.Merge(typ, &m.Name, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "name")
		}
	case 4:
		b, err = Bytes.Merge(typ, &m.Data, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "data")
		}
	case 5:
		b, err = Int32.MergeOptional(typ, &m.Opt, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "opt")
		}
	case 6:
		b, err = Int32.MergeRepeated(typ, &m.Packed, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "packed")
		}
	case 7:
		b, err = Uint64.MergeRepeated(typ, &m.Unpacked, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "unpacked")
		}
	case 8:
		b, err = MessageField[testAll, *testAll]{}.Merge(typ, &m.Child, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "child")
		}
	case 9:
		b, err = _testAll_Attrs_codec.Merge(typ, &m.Attrs, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "attrs")
		}
	case 10:
		b, err = _testKind_codec.MergeClosedOptional(num, typ, &m.Kind, b, ctx, &m.unknownFields)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "kind")
		}
	case 11:
		b, err = GroupField[testAll_Grp, *testAll_Grp]{}.Merge(num, typ, &m.Grp, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "grp")
		}
	case 12:
		b, err = Double.Merge(typ, &m.D, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "d")
		}
	case 13:
		b, err = _testKind_codec.MergeClosedRepeated(num, typ, &m.Kinds, b, ctx, &m.unknownFields)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "kinds")
		}
	case 14:
		var v string
		if x, ok := m.Choice.(*testAll_Text); ok {
			v = x.Text
		}
		b, err = String.Merge(typ, &v, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "text")
		}
		m.Choice = &testAll_Text{Text: v}
	case 15:
		var v *testAll
		if x, ok := m.Choice.(*testAll_Leaf); ok {
			v = x.Leaf
		}
		b, err = MessageField[testAll, *testAll]{}.Merge(typ, &v, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "leaf")
		}
		m.Choice = &testAll_Leaf{Leaf: v}
	case 16:
		b, err = _testAll_Kids_codec.Merge(typ, &m.Kids, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All", "kids")
		}
	default:
		return m.unknownFields.Merge(num, typ, b, ctx)
	}
	return b, nil
}

func (m *testAll) Clear() {
	*m = testAll{}
}

type testAll_Grp struct {
	A int32

	unknownFields UnknownFields
}

func (m *testAll_Grp) MessageName() string { return "test.All.Grp" }

func (m *testAll_Grp) EncodeRaw(b []byte) []byte {
	if m.A != 0 {
		b = Int32.Append(b, 1, m.A)
	}
	return m.unknownFields.Append(b)
}

func (m *testAll_Grp) EncodedLen() int {
	n := 0
	if m.A != 0 {
		n += Int32.Size(1, m.A)
	}
	return n + m.unknownFields.Size()
}

func (m *testAll_Grp) MergeField(num wire.Number, typ wire.Type, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	var err error
	switch num {
	case 1:
		b, err = Int32.Merge(typ, &m.A, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.All.Grp", "a")
		}
	default:
		return m.unknownFields.Merge(num, typ, b, ctx)
	}
	return b, nil
}

func (m *testAll_Grp) Clear() {
	*m = testAll_Grp{}
}

// testNarrow is an older revision of testAll that only knows field 1.
type testNarrow struct {
	I32 int32

	unknownFields UnknownFields
}

func (m *testNarrow) MessageName() string { return "test.Narrow" }

func (m *testNarrow) EncodeRaw(b []byte) []byte {
	if m.I32 != 0 {
		b = Int32.Append(b, 1, m.I32)
	}
	return m.unknownFields.Append(b)
}

func (m *testNarrow) EncodedLen() int {
	n := 0
	if m.I32 != 0 {
		n += Int32.Size(1, m.I32)
	}
	return n + m.unknownFields.Size()
}

func (m *testNarrow) MergeField(num wire.Number, typ wire.Type, b []byte, ctx wire.DecodeContext) ([]byte, error) {
	var err error
	switch num {
	case 1:
		b, err = Int32.Merge(typ, &m.I32, b, ctx)
		if err != nil {
			return nil, wire.WrapField(err, "test.Narrow", "i32")
		}
	default:
		return m.unknownFields.Merge(num, typ, b, ctx)
	}
	return b, nil
}

func (m *testNarrow) Clear() {
	*m = testNarrow{}
}
