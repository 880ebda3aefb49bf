// Package ir is the in-memory schema model the generator works from. A Set is
// built once from a FileDescriptorProto set and is not modified afterwards.
package ir

type Syntax int

const (
	Proto2 Syntax = iota
	Proto3
	Editions
)

func (s Syntax) String() string {
	switch s {
	case Proto2:
		return "proto2"
	case Proto3:
		return "proto3"
	default:
		return "editions"
	}
}

// Path is a descriptor field-index path as used by SourceCodeInfo.
type Path []int32

// Append returns a copy of p extended by elems.
func (p Path) Append(elems ...int32) Path {
	out := make(Path, 0, len(p)+len(elems))
	out = append(out, p...)
	return append(out, elems...)
}

// Comments are the comments attached to one declaration.
type Comments struct {
	Leading  string
	Trailing string
	Detached []string
}

type File struct {
	Path    string
	Package string
	Syntax  Syntax
	// GoPackage is the go_package option. It is informational only; the
	// output layout is derived from Package.
	GoPackage    string
	Dependencies []string
	Messages     []*Message
	Enums        []*Enum
	Services     []*Service

	comments map[string]Comments
}

// Comments returns the comments recorded for the declaration at path.
func (f *File) Comments(path Path) Comments {
	return f.comments[pathKey(path)]
}

type Message struct {
	Name     string
	FullName string
	File     *File
	Parent   *Message
	Path     Path
	// Fields are in declaration order and include oneof members.
	Fields   []*Field
	Oneofs   []*Oneof
	Messages []*Message
	Enums    []*Enum
	// MapEntry marks the synthetic entry types behind map fields. They are
	// reachable through Set.Lookup but not listed in Messages.
	MapEntry bool
}

// Field returns the field with the given number.
func (m *Message) Field(number int32) *Field {
	for _, f := range m.Fields {
		if f.Number == number {
			return f
		}
	}
	return nil
}

type Label int

const (
	LabelOptional Label = iota
	LabelRequired
	LabelRepeated
)

type Kind int

const (
	KindBool Kind = iota
	KindInt32
	KindInt64
	KindUint32
	KindUint64
	KindSint32
	KindSint64
	KindFixed32
	KindFixed64
	KindSfixed32
	KindSfixed64
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindMessage
	KindEnum
	KindGroup
)

var kindNames = [...]string{
	KindBool:     "bool",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindSint32:   "sint32",
	KindSint64:   "sint64",
	KindFixed32:  "fixed32",
	KindFixed64:  "fixed64",
	KindSfixed32: "sfixed32",
	KindSfixed64: "sfixed64",
	KindFloat:    "float",
	KindDouble:   "double",
	KindString:   "string",
	KindBytes:    "bytes",
	KindMessage:  "message",
	KindEnum:     "enum",
	KindGroup:    "group",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether values of k are numbers or bools, the kinds that
// may use the packed encoding.
func (k Kind) IsScalar() bool {
	return k <= KindDouble || k == KindEnum
}

type Field struct {
	Name     string
	JSONName string
	Number   int32
	Label    Label
	Kind     Kind
	// TypeName is the fully-qualified name of the message or enum type.
	TypeName string
	Message  *Message
	Path     Path

	// Oneof is nil for fields outside a oneof, including proto3 optional
	// fields whose synthetic oneof is dropped.
	Oneof *Oneof
	// Presence reports explicit presence for singular fields.
	Presence bool
	// Packed is the encoding used when writing a repeated scalar.
	Packed bool
	// PackedOption is set when the field carries an explicit packed option.
	PackedOption bool
	HasDefault   bool
	Default      string
	// Boxed is set by the (cleanwire.boxed) option.
	Boxed bool
	// BoxedOption is set when the option is present at all.
	BoxedOption    bool
	Proto3Optional bool

	// delimited records the editions message_encoding feature until the
	// target type is known.
	delimited bool
}

func (f *Field) IsRepeated() bool {
	return f.Label == LabelRepeated
}

func (f *Field) IsRequired() bool {
	return f.Label == LabelRequired
}

// MapEntry returns the entry type when f is a map field.
func (f *Field) MapEntry(s *Set) *Message {
	if f.Label != LabelRepeated || f.Kind != KindMessage {
		return nil
	}
	m := s.Message(f.TypeName)
	if m == nil || !m.MapEntry {
		return nil
	}
	return m
}

type Oneof struct {
	Name    string
	Index   int
	Message *Message
	Fields  []*Field
	Path    Path
}

type Enum struct {
	Name     string
	FullName string
	File     *File
	Parent   *Message
	Values   []*EnumValue
	// Closed enums reject undeclared values on decode.
	Closed bool
	Path   Path
}

// Value returns the first declared value with the given number.
func (e *Enum) Value(number int32) *EnumValue {
	for _, v := range e.Values {
		if v.Number == number {
			return v
		}
	}
	return nil
}

type EnumValue struct {
	Name   string
	Number int32
	Path   Path
}

type Service struct {
	Name     string
	FullName string
	File     *File
	Methods  []*Method
	Path     Path
}

type Method struct {
	Name            string
	InputType       string
	OutputType      string
	ClientStreaming bool
	ServerStreaming bool
	Path            Path
}
