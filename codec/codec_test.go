package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jptrs93/cleanwire/wire"
)

var cmpOpts = cmp.AllowUnexported(testAll{}, testAll_Grp{}, testNarrow{})

func ptr[T any](v T) *T { return &v }

func fullMessage() *testAll {
	return &testAll{
		I32:      -42,
		S64:      -1 << 40,
		Name:     "héllo",
		Data:     []byte{0, 1, 2, 0xff},
		Opt:      ptr(int32(0)),
		Packed:   []int32{1, -1, 300},
		Unpacked: []uint64{0, 1 << 63},
		Child:    &testAll{Name: "child", Packed: []int32{7}},
		Attrs:    map[string]int64{"b": 2, "a": 1, "": 0},
		Kind:     ptr(testKind_LARGE),
		Grp:      &testAll_Grp{A: 9},
		D:        3.5,
		Kinds:    []testKind{testKind_SMALL, testKind_UNKNOWN},
		Choice:   &testAll_Leaf{Leaf: &testAll{I32: 1}},
		Kids:     map[int32]*testAll{-3: {Name: "x"}, 5: {}},
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  *testAll
	}{
		{"empty", &testAll{}},
		{"full", fullMessage()},
		{"text choice", &testAll{Choice: &testAll_Text{Text: ""}}},
		{"empty group", &testAll{Grp: &testAll_Grp{}}},
		{"explicit zero", &testAll{Opt: ptr(int32(0)), Kind: ptr(testKind_UNKNOWN)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Marshal(tt.msg)
			if got := Size(tt.msg); got != len(b) {
				t.Fatalf("Size() = %d, encoded %d bytes", got, len(b))
			}
			got, err := Decode[testAll](b)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(tt.msg, got, cmpOpts); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
			if again := Marshal(got); !bytes.Equal(again, b) {
				t.Fatalf("re-encoding differs:\n got %x\nwant %x", again, b)
			}
		})
	}
}

func TestDoubleRoundTrip(t *testing.T) {
	var unordered []byte
	unordered = wire.AppendTag(unordered, 99, wire.Fixed32Type)
	unordered = wire.AppendFixed32(unordered, 5)
	unordered = wire.AppendTag(unordered, 3, wire.BytesType)
	unordered = wire.AppendString(unordered, "z")
	unordered = wire.AppendTag(unordered, 1, wire.VarintType)
	unordered = wire.AppendVarint(unordered, 7)
	unordered = wire.AppendTag(unordered, 1, wire.VarintType)
	unordered = wire.AppendVarint(unordered, 8)

	var packedAsUnpacked []byte
	packedAsUnpacked = wire.AppendTag(packedAsUnpacked, 7, wire.BytesType)
	packedAsUnpacked = wire.AppendBytes(packedAsUnpacked, []byte{1, 2, 3})

	var closed []byte
	closed = wire.AppendTag(closed, 10, wire.VarintType)
	closed = wire.AppendVarint(closed, 77)
	closed = wire.AppendTag(closed, 13, wire.BytesType)
	closed = wire.AppendBytes(closed, []byte{1, 9, 2})

	var overlong []byte
	overlong = wire.AppendTag(overlong, 1, wire.VarintType)
	overlong = append(overlong, 0x81, 0x80, 0x00)

	var mapNoValue []byte
	mapNoValue = wire.AppendTag(mapNoValue, 16, wire.BytesType)
	mapNoValue = wire.AppendBytes(mapNoValue, wire.AppendVarint(wire.AppendTag(nil, 1, wire.VarintType), 4))

	inputs := map[string][]byte{
		"unordered":          unordered,
		"packed as unpacked": packedAsUnpacked,
		"closed enum":        closed,
		"overlong varint":    overlong,
		"map entry no value": mapNoValue,
		"full":               Marshal(fullMessage()),
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			m1, err := Decode[testAll](in)
			if err != nil {
				t.Fatalf("first decode: %v", err)
			}
			b1 := Marshal(m1)
			m2, err := Decode[testAll](b1)
			if err != nil {
				t.Fatalf("second decode: %v", err)
			}
			b2 := Marshal(m2)
			if !bytes.Equal(b1, b2) {
				t.Fatalf("not a fixed point:\nb1 %x\nb2 %x", b1, b2)
			}
		})
	}
}

func TestUnknownFieldPreservation(t *testing.T) {
	want := fullMessage()
	full := Marshal(want)

	var narrow testNarrow
	if err := Unmarshal(full, &narrow); err != nil {
		t.Fatalf("Unmarshal(narrow): %v", err)
	}
	if narrow.I32 != want.I32 {
		t.Fatalf("narrow.I32 = %d, want %d", narrow.I32, want.I32)
	}
	if len(narrow.unknownFields) == 0 {
		t.Fatal("expected unknown fields")
	}
	proxied := Marshal(&narrow)
	if !bytes.Equal(proxied, full) {
		t.Fatalf("proxied bytes differ:\n got %x\nwant %x", proxied, full)
	}
	got, err := Decode[testAll](proxied)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownFieldsKeepOrder(t *testing.T) {
	var b []byte
	b = wire.AppendTag(b, 40, wire.BytesType)
	b = wire.AppendString(b, "first")
	b = wire.AppendTag(b, 1, wire.VarintType)
	b = wire.AppendVarint(b, 1)
	b = wire.AppendTag(b, 30, wire.StartGroupType)
	b = wire.AppendTag(b, 1, wire.Fixed64Type)
	b = wire.AppendFixed64(b, 2)
	b = wire.AppendTag(b, 30, wire.EndGroupType)

	m, err := Decode[testNarrow](b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := UnknownFields{
		{Number: 40, Type: wire.BytesType, Value: wire.AppendString(nil, "first")},
		{Number: 30, Type: wire.StartGroupType, Value: wire.AppendTag(wire.AppendFixed64(wire.AppendTag(nil, 1, wire.Fixed64Type), 2), 30, wire.EndGroupType)},
	}
	if diff := cmp.Diff(want, m.unknownFields); diff != "" {
		t.Fatalf("unknown fields (-want +got):\n%s", diff)
	}
	var out []byte
	out = wire.AppendTag(out, 1, wire.VarintType)
	out = wire.AppendVarint(out, 1)
	out = wire.AppendTag(out, 40, wire.BytesType)
	out = wire.AppendString(out, "first")
	out = append(out, b[len(b)-13:]...)
	if got := Marshal(m); !bytes.Equal(got, out) {
		t.Fatalf("Marshal() = %x, want %x", got, out)
	}
}

func nested(depth int) *testAll {
	root := &testAll{}
	cur := root
	for i := 0; i < depth; i++ {
		cur.Child = &testAll{}
		cur = cur.Child
	}
	return root
}

func TestRecursionLimit(t *testing.T) {
	if _, err := Decode[testAll](Marshal(nested(100))); err != nil {
		t.Fatalf("depth 100: %v", err)
	}
	_, err := Decode[testAll](Marshal(nested(101)))
	if !errors.Is(err, wire.ErrRecursionLimit) {
		t.Fatalf("depth 101: got %v, want ErrRecursionLimit", err)
	}

	opts := UnmarshalOptions{RecursionLimit: 3}
	if _, err := DecodeWithOptions[testAll](Marshal(nested(3)), opts); err != nil {
		t.Fatalf("depth 3 with limit 3: %v", err)
	}
	if _, err := DecodeWithOptions[testAll](Marshal(nested(4)), opts); !errors.Is(err, wire.ErrRecursionLimit) {
		t.Fatalf("depth 4 with limit 3: got %v", err)
	}
}

func TestRecursionLimitCountsGroupsAndOneofs(t *testing.T) {
	// A message inside a oneof costs one level like any other message.
	m := &testAll{Choice: &testAll_Leaf{Leaf: nested(1)}}
	opts := UnmarshalOptions{RecursionLimit: 2}
	if _, err := DecodeWithOptions[testAll](Marshal(m), opts); err != nil {
		t.Fatalf("oneof depth 2: %v", err)
	}
	m = &testAll{Choice: &testAll_Leaf{Leaf: nested(2)}}
	if _, err := DecodeWithOptions[testAll](Marshal(m), opts); !errors.Is(err, wire.ErrRecursionLimit) {
		t.Fatalf("oneof depth 3: got %v", err)
	}

	g := &testAll{Grp: &testAll_Grp{}}
	if _, err := DecodeWithOptions[testAll](Marshal(g), UnmarshalOptions{RecursionLimit: 1}); err != nil {
		t.Fatalf("group depth 1: %v", err)
	}
	g = &testAll{Child: &testAll{Grp: &testAll_Grp{}}}
	if _, err := DecodeWithOptions[testAll](Marshal(g), UnmarshalOptions{RecursionLimit: 1}); !errors.Is(err, wire.ErrRecursionLimit) {
		t.Fatalf("group depth 2: got %v", err)
	}
}

func TestPackedUnpackedEquivalence(t *testing.T) {
	values := []int32{1, -2, 300, 0}

	var unpacked []byte
	for _, v := range values {
		unpacked = Int32.Append(unpacked, 6, v)
	}
	packed := Int32.AppendPacked(nil, 6, values)

	var mixed []byte
	mixed = Int32.AppendPacked(mixed, 6, values[:2])
	for _, v := range values[2:] {
		mixed = Int32.Append(mixed, 6, v)
	}

	for name, b := range map[string][]byte{"unpacked": unpacked, "packed": packed, "mixed": mixed} {
		m, err := Decode[testAll](b)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if diff := cmp.Diff(values, m.Packed); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", name, diff)
		}
	}
	if len(packed) >= len(unpacked) {
		t.Fatalf("packed encoding is %d bytes, unpacked %d", len(packed), len(unpacked))
	}
}

func TestMapLastWins(t *testing.T) {
	c := Map[int32, string]{Key: Int32, Value: String}
	var b []byte
	b = c.Append(b, 1, map[int32]string{1: "a"})
	b = c.Append(b, 1, map[int32]string{1: "b"})

	var got map[int32]string
	ctx := wire.NewDecodeContext(0)
	for len(b) > 0 {
		var typ wire.Type
		var err error
		b, _, typ, err = wire.ConsumeTag(b)
		if err != nil {
			t.Fatal(err)
		}
		if b, err = c.Merge(typ, &got, b, ctx); err != nil {
			t.Fatalf("Merge: %v", err)
		}
	}
	if diff := cmp.Diff(map[int32]string{1: "b"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMapMissingValue(t *testing.T) {
	tests := []struct {
		name  string
		entry []byte
		want  map[string]*testNarrow
	}{
		{"key only", []byte{0x0a, 0x01, 'k'}, map[string]*testNarrow{"k": {}}},
		{"empty entry", nil, map[string]*testNarrow{"": {}}},
		{"value present", []byte{0x0a, 0x01, 'k', 0x12, 0x02, 0x08, 0x04}, map[string]*testNarrow{"k": {I32: 4}}},
	}
	c := Map[string, *testNarrow]{Key: String, Value: MessageField[testNarrow, *testNarrow]{}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := wire.AppendBytes(nil, tt.entry)
			var got map[string]*testNarrow
			rest, err := c.Merge(wire.BytesType, &got, b, wire.NewDecodeContext(0))
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if len(rest) != 0 {
				t.Fatalf("%d bytes left over", len(rest))
			}
			if diff := cmp.Diff(tt.want, got, cmpOpts); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
			for k, v := range got {
				if v == nil {
					t.Fatalf("value for %q is nil", k)
				}
			}
		})
	}

	scalars := Map[string, int64]{Key: String, Value: Int64}
	var got map[string]int64
	if _, err := scalars.Merge(wire.BytesType, &got, wire.AppendBytes(nil, []byte{0x0a, 0x01, 'k'}), wire.NewDecodeContext(0)); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff(map[string]int64{"k": 0}, got); diff != "" {
		t.Fatalf("scalar map (-want +got):\n%s", diff)
	}
}

func TestMapSortedAndUnknownEntryFields(t *testing.T) {
	m := &testAll{Attrs: map[string]int64{"b": 2, "a": 1}}
	var want []byte
	want = _testAll_Attrs_codec.Append(want, 9, map[string]int64{"a": 1})
	want = _testAll_Attrs_codec.Append(want, 9, map[string]int64{"b": 2})
	if got := Marshal(m); !bytes.Equal(got, want) {
		t.Fatalf("Marshal() = %x, want %x", got, want)
	}

	var entry []byte
	entry = wire.AppendTag(entry, 3, wire.VarintType)
	entry = wire.AppendVarint(entry, 1)
	entry = String.Append(entry, 1, "k")
	var b []byte
	b = wire.AppendTag(b, 9, wire.BytesType)
	b = wire.AppendBytes(b, entry)
	got, err := Decode[testAll](b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(map[string]int64{"k": 0}, got.Attrs); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestClosedEnumUnknownValues(t *testing.T) {
	var b []byte
	b = wire.AppendTag(b, 10, wire.VarintType)
	b = wire.AppendVarint(b, 77)
	b = wire.AppendTag(b, 13, wire.BytesType)
	b = wire.AppendBytes(b, []byte{1, 9, 2})

	m, err := Decode[testAll](b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Kind != nil {
		t.Fatalf("Kind = %v, want unset", *m.Kind)
	}
	if diff := cmp.Diff([]testKind{testKind_SMALL, testKind_LARGE}, m.Kinds); diff != "" {
		t.Fatalf("Kinds (-want +got):\n%s", diff)
	}
	want := UnknownFields{
		{Number: 10, Type: wire.VarintType, Value: []byte{77}},
		{Number: 13, Type: wire.VarintType, Value: []byte{9}},
	}
	if diff := cmp.Diff(want, m.unknownFields); diff != "" {
		t.Fatalf("unknown fields (-want +got):\n%s", diff)
	}
}

func TestOpenEnumKeepsValue(t *testing.T) {
	type color int32
	c := Enum[color]()
	b := c.Append(nil, 1, color(-5))
	b, _, typ, err := wire.ConsumeTag(b)
	if err != nil {
		t.Fatal(err)
	}
	var got color
	if _, err := c.Merge(typ, &got, b, wire.DecodeContext{}); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got != -5 {
		t.Fatalf("got %d, want -5", got)
	}
}

func TestGroupErrors(t *testing.T) {
	var mismatch []byte
	mismatch = wire.AppendTag(mismatch, 11, wire.StartGroupType)
	mismatch = Int32.Append(mismatch, 1, 3)
	mismatch = wire.AppendTag(mismatch, 12, wire.EndGroupType)

	var unterminated []byte
	unterminated = wire.AppendTag(unterminated, 11, wire.StartGroupType)
	unterminated = Int32.Append(unterminated, 1, 3)

	stray := wire.AppendTag(nil, 11, wire.EndGroupType)

	for name, b := range map[string][]byte{"mismatch": mismatch, "unterminated": unterminated, "stray end": stray} {
		if _, err := Decode[testAll](b); !errors.Is(err, wire.ErrMalformed) {
			t.Fatalf("%s: got %v, want ErrMalformed", name, err)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  error
		field string
	}{
		{"wrong wire type", String.Append(nil, 1, "x"), wire.ErrUnexpectedWireType, "test.All.i32"},
		{"truncated varint", []byte{0x08, 0x80}, wire.ErrTruncated, "test.All.i32"},
		{"truncated bytes", []byte{0x1a, 0x05, 'a'}, wire.ErrTruncated, "test.All.name"},
		{"invalid utf8", []byte{0x1a, 0x01, 0xff}, wire.ErrMalformed, "test.All.name"},
		{"nested", MessageField[testAll, *testAll]{}.Append(nil, 8, &testAll{Name: "\xff"}), wire.ErrMalformed, "test.All.child"},
		{"bad wire type", []byte{0x0e}, wire.ErrMalformed, ""},
		{"field zero", []byte{0x00, 0x01}, wire.ErrMalformed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode[testAll](tt.input)
			if m != nil {
				t.Fatalf("Decode returned a partial message: %+v", m)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if tt.field != "" && !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestUnmarshalClearsOnError(t *testing.T) {
	m := fullMessage()
	b := append(Int32.Append(nil, 1, 5), 0x1a, 0x05)
	if err := Unmarshal(b, m); err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff(&testAll{}, m, cmpOpts); diff != "" {
		t.Fatalf("message not cleared (-want +got):\n%s", diff)
	}
}

func TestMergeSemantics(t *testing.T) {
	m := &testAll{
		I32:      1,
		Packed:   []int32{1},
		Child:    &testAll{Name: "kept", I32: 1},
		Attrs:    map[string]int64{"a": 1},
		Choice:   &testAll_Text{Text: "old"},
		Unpacked: []uint64{1},
	}
	update := &testAll{
		I32:    2,
		Packed: []int32{2},
		Child:  &testAll{I32: 9},
		Attrs:  map[string]int64{"a": 5, "b": 6},
		Choice: &testAll_Leaf{Leaf: &testAll{}},
	}
	if err := Merge(m, Marshal(update)); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := &testAll{
		I32:      2,
		Packed:   []int32{1, 2},
		Child:    &testAll{Name: "kept", I32: 9},
		Attrs:    map[string]int64{"a": 5, "b": 6},
		Choice:   &testAll_Leaf{Leaf: &testAll{}},
		Unpacked: []uint64{1},
	}
	if diff := cmp.Diff(want, m, cmpOpts); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestOneofMergesSameMember(t *testing.T) {
	var b []byte
	b = MessageField[testAll, *testAll]{}.Append(b, 15, &testAll{Name: "a"})
	b = MessageField[testAll, *testAll]{}.Append(b, 15, &testAll{I32: 3})
	m, err := Decode[testAll](b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := &testAll{Choice: &testAll_Leaf{Leaf: &testAll{Name: "a", I32: 3}}}
	if diff := cmp.Diff(want, m, cmpOpts); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	b = String.Append(b, 14, "last")
	m, err = Decode[testAll](b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if x, ok := m.Choice.(*testAll_Text); !ok || x.Text != "last" {
		t.Fatalf("Choice = %#v, want text \"last\"", m.Choice)
	}
}

func TestBytesAreCopied(t *testing.T) {
	b := Bytes.Append(nil, 4, []byte("abc"))
	m, err := Decode[testAll](b)
	if err != nil {
		t.Fatal(err)
	}
	b[len(b)-1] = 'z'
	if string(m.Data) != "abc" {
		t.Fatalf("Data aliases input: %q", m.Data)
	}
}

func TestLengthDelimitedStream(t *testing.T) {
	msgs := []*testAll{{I32: 1}, {}, fullMessage()}
	var stream []byte
	for _, m := range msgs {
		stream = AppendLengthDelimited(stream, m)
	}
	var got []*testAll
	for len(stream) > 0 {
		m := &testAll{}
		var err error
		if stream, err = ConsumeLengthDelimited(stream, m); err != nil {
			t.Fatalf("ConsumeLengthDelimited: %v", err)
		}
		got = append(got, m)
	}
	if diff := cmp.Diff(msgs, got, cmpOpts); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if _, err := ConsumeLengthDelimited([]byte{0x05, 0x08}, &testAll{}); !errors.Is(err, wire.ErrTruncated) {
		t.Fatalf("short frame: got %v", err)
	}
}

func TestSizeMatchesAppend(t *testing.T) {
	codecs := []struct {
		name string
		size int
		enc  []byte
	}{
		{"int32 negative", Int32.Size(1, -1), Int32.Append(nil, 1, -1)},
		{"sint32", Sint32.Size(2, -64), Sint32.Append(nil, 2, -64)},
		{"uint32 max", Uint32.Size(1<<20, ^uint32(0)), Uint32.Append(nil, 1<<20, ^uint32(0))},
		{"fixed32", Fixed32.Size(3, 1), Fixed32.Append(nil, 3, 1)},
		{"sfixed64", Sfixed64.Size(3, -1), Sfixed64.Append(nil, 3, -1)},
		{"float", Float.Size(4, 1.5), Float.Append(nil, 4, 1.5)},
		{"bool", Bool.Size(5, true), Bool.Append(nil, 5, true)},
		{"packed empty", Sint64.SizePacked(6, nil), Sint64.AppendPacked(nil, 6, nil)},
		{"packed", Fixed64.SizePacked(6, []uint64{1, 2}), Fixed64.AppendPacked(nil, 6, []uint64{1, 2})},
		{"nil message", MessageField[testAll, *testAll]{}.Size(7, nil), MessageField[testAll, *testAll]{}.Append(nil, 7, nil)},
		{"nil group", GroupField[testAll_Grp, *testAll_Grp]{}.Size(8, nil), GroupField[testAll_Grp, *testAll_Grp]{}.Append(nil, 8, nil)},
		{"map", _testAll_Kids_codec.Size(9, map[int32]*testAll{1: nil, 2: {I32: 4}}), _testAll_Kids_codec.Append(nil, 9, map[int32]*testAll{1: nil, 2: {I32: 4}})},
	}
	for _, c := range codecs {
		if c.size != len(c.enc) {
			t.Errorf("%s: Size() = %d, Append wrote %d bytes", c.name, c.size, len(c.enc))
		}
	}
}
