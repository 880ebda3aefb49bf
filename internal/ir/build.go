package ir

import (
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// Descriptor field numbers used to build source paths.
const (
	fileMessagePath   = 4
	fileEnumPath      = 5
	fileServicePath   = 6
	messageFieldPath  = 2
	messageNestedPath = 3
	messageEnumPath   = 4
	messageOneofPath  = 8
	enumValuePath     = 2
	serviceMethodPath = 2
)

// Set is a linked collection of files.
type Set struct {
	Files []*File

	files map[string]*File
	// decls maps fully-qualified names (leading dot) to *Message or *Enum.
	decls    map[string]any
	services map[string]*Service
}

func (s *Set) File(path string) *File {
	return s.files[path]
}

// Lookup returns the *Message or *Enum declared under fullName. When a name
// is declared more than once the first declaration wins.
func (s *Set) Lookup(fullName string) (any, bool) {
	d, ok := s.decls[fullName]
	return d, ok
}

func (s *Set) Message(fullName string) *Message {
	m, _ := s.decls[fullName].(*Message)
	return m
}

func (s *Set) Enum(fullName string) *Enum {
	e, _ := s.decls[fullName].(*Enum)
	return e
}

func (s *Set) Service(fullName string) *Service {
	return s.services[fullName]
}

// WalkMessages calls fn for every message in f, parents before children.
// Map entry types are skipped.
func (f *File) WalkMessages(fn func(*Message)) {
	var walk func([]*Message)
	walk = func(ms []*Message) {
		for _, m := range ms {
			fn(m)
			walk(m.Messages)
		}
	}
	walk(f.Messages)
}

// WalkEnums calls fn for every enum in f, top-level enums first.
func (f *File) WalkEnums(fn func(*Enum)) {
	for _, e := range f.Enums {
		fn(e)
	}
	f.WalkMessages(func(m *Message) {
		for _, e := range m.Enums {
			fn(e)
		}
	})
}

// Build converts descriptors into a Set. Type references are linked where
// the target exists; unresolved references are left for the resolver to
// report.
func Build(files []*descriptorpb.FileDescriptorProto) (*Set, error) {
	s := &Set{
		files:    make(map[string]*File),
		decls:    make(map[string]any),
		services: make(map[string]*Service),
	}
	var fields []*Field
	for _, fd := range files {
		if _, ok := s.files[fd.GetName()]; ok {
			return nil, fmt.Errorf("duplicate file %s", fd.GetName())
		}
		b := &builder{set: s}
		f, err := b.file(fd)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fd.GetName(), err)
		}
		s.Files = append(s.Files, f)
		s.files[f.Path] = f
		fields = append(fields, b.fields...)
	}
	for _, f := range fields {
		s.link(f)
	}
	return s, nil
}

func (s *Set) link(f *Field) {
	if f.TypeName == "" {
		return
	}
	switch t := s.decls[f.TypeName].(type) {
	case *Message:
		if f.Kind != KindGroup {
			f.Kind = KindMessage
		}
		if f.delimited && !t.MapEntry {
			f.Kind = KindGroup
		}
	case *Enum:
		f.Kind = KindEnum
		if f.Label == LabelRepeated && !f.PackedOption && f.Message.File.Syntax == Proto3 {
			f.Packed = true
		}
	}
}

type builder struct {
	set    *Set
	cur    *File
	fields []*Field
}

func (b *builder) declare(fullName string, d any) {
	if _, ok := b.set.decls[fullName]; !ok {
		b.set.decls[fullName] = d
	}
}

func (b *builder) file(fd *descriptorpb.FileDescriptorProto) (*File, error) {
	f := &File{
		Path:         fd.GetName(),
		Package:      fd.GetPackage(),
		GoPackage:    fd.GetOptions().GetGoPackage(),
		Dependencies: fd.GetDependency(),
		comments:     make(map[string]Comments),
	}
	b.cur = f
	var base features
	switch fd.GetSyntax() {
	case "", "proto2":
		f.Syntax = Proto2
	case "proto3":
		f.Syntax = Proto3
	case "editions":
		f.Syntax = Editions
		base = editionDefaults.merge(fd.GetOptions().GetFeatures())
	default:
		return nil, fmt.Errorf("unsupported syntax %q", fd.GetSyntax())
	}
	for _, loc := range fd.GetSourceCodeInfo().GetLocation() {
		c := Comments{
			Leading:  loc.GetLeadingComments(),
			Trailing: loc.GetTrailingComments(),
			Detached: loc.GetLeadingDetachedComments(),
		}
		if c.Leading == "" && c.Trailing == "" && len(c.Detached) == 0 {
			continue
		}
		f.comments[pathKey(loc.GetPath())] = c
	}

	prefix := "."
	if f.Package != "" {
		prefix += f.Package + "."
	}
	for i, md := range fd.GetMessageType() {
		m, err := b.message(md, prefix, nil, Path{fileMessagePath, int32(i)}, base)
		if err != nil {
			return nil, err
		}
		if !m.MapEntry {
			f.Messages = append(f.Messages, m)
		}
	}
	for i, ed := range fd.GetEnumType() {
		f.Enums = append(f.Enums, b.enum(ed, prefix, nil, Path{fileEnumPath, int32(i)}, base))
	}
	for i, sd := range fd.GetService() {
		svc := &Service{
			Name:     sd.GetName(),
			FullName: prefix + sd.GetName(),
			File:     f,
			Path:     Path{fileServicePath, int32(i)},
		}
		for j, md := range sd.GetMethod() {
			svc.Methods = append(svc.Methods, &Method{
				Name:            md.GetName(),
				InputType:       md.GetInputType(),
				OutputType:      md.GetOutputType(),
				ClientStreaming: md.GetClientStreaming(),
				ServerStreaming: md.GetServerStreaming(),
				Path:            svc.Path.Append(serviceMethodPath, int32(j)),
			})
		}
		f.Services = append(f.Services, svc)
		if _, ok := b.set.services[svc.FullName]; !ok {
			b.set.services[svc.FullName] = svc
		}
	}
	return f, nil
}

func (b *builder) message(md *descriptorpb.DescriptorProto, prefix string, parent *Message, path Path, inherited features) (*Message, error) {
	m := &Message{
		Name:     md.GetName(),
		FullName: prefix + md.GetName(),
		File:     b.cur,
		Parent:   parent,
		Path:     path,
		MapEntry: md.GetOptions().GetMapEntry(),
	}
	b.declare(m.FullName, m)
	feats := inherited.merge(md.GetOptions().GetFeatures())

	// Synthetic oneofs of proto3 optional fields have no Oneof value.
	oneofs := make([]*Oneof, len(md.GetOneofDecl()))
	synthetic := make([]bool, len(md.GetOneofDecl()))
	for _, fd := range md.GetField() {
		if idx := int(fd.GetOneofIndex()); fd.GetProto3Optional() && fd.OneofIndex != nil && idx >= 0 && idx < len(synthetic) {
			synthetic[idx] = true
		}
	}
	for i, od := range md.GetOneofDecl() {
		if synthetic[i] {
			continue
		}
		o := &Oneof{
			Name:    od.GetName(),
			Index:   len(m.Oneofs),
			Message: m,
			Path:    path.Append(messageOneofPath, int32(i)),
		}
		oneofs[i] = o
		m.Oneofs = append(m.Oneofs, o)
	}

	for i, fd := range md.GetField() {
		f, err := b.field(fd, m, path.Append(messageFieldPath, int32(i)), feats)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.FullName, err)
		}
		if fd.OneofIndex != nil && !fd.GetProto3Optional() {
			idx := int(fd.GetOneofIndex())
			if idx < 0 || idx >= len(oneofs) || oneofs[idx] == nil {
				return nil, fmt.Errorf("%s: field %s has invalid oneof index %d", m.FullName, f.Name, idx)
			}
			f.Oneof = oneofs[idx]
			f.Oneof.Fields = append(f.Oneof.Fields, f)
			f.Presence = true
		}
		m.Fields = append(m.Fields, f)
	}

	for i, nd := range md.GetNestedType() {
		nested, err := b.message(nd, m.FullName+".", m, path.Append(messageNestedPath, int32(i)), feats)
		if err != nil {
			return nil, err
		}
		if !nested.MapEntry {
			m.Messages = append(m.Messages, nested)
		}
	}
	for i, ed := range md.GetEnumType() {
		m.Enums = append(m.Enums, b.enum(ed, m.FullName+".", m, path.Append(messageEnumPath, int32(i)), feats))
	}
	return m, nil
}

func (b *builder) field(fd *descriptorpb.FieldDescriptorProto, m *Message, path Path, inherited features) (*Field, error) {
	f := &Field{
		Name:           fd.GetName(),
		JSONName:       fd.GetJsonName(),
		Number:         fd.GetNumber(),
		TypeName:       fd.GetTypeName(),
		Message:        m,
		Path:           path,
		HasDefault:     fd.DefaultValue != nil,
		Default:        fd.GetDefaultValue(),
		Proto3Optional: fd.GetProto3Optional(),
		PackedOption:   fd.GetOptions() != nil && fd.GetOptions().Packed != nil,
	}
	kind, err := kindOf(fd.GetType())
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fd.GetName(), err)
	}
	f.Kind = kind
	switch fd.GetLabel() {
	case descriptorpb.FieldDescriptorProto_LABEL_REPEATED:
		f.Label = LabelRepeated
	case descriptorpb.FieldDescriptorProto_LABEL_REQUIRED:
		f.Label = LabelRequired
	default:
		f.Label = LabelOptional
	}
	f.Boxed, f.BoxedOption, err = boxedOption(fd.GetOptions())
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fd.GetName(), err)
	}

	singular := f.Label != LabelRepeated
	switch b.cur.Syntax {
	case Proto2:
		f.Presence = singular
		f.Packed = fd.GetOptions().GetPacked()
	case Proto3:
		f.Presence = singular && (f.Proto3Optional || f.Kind == KindMessage || f.Kind == KindGroup)
		f.Packed = !f.PackedOption || fd.GetOptions().GetPacked()
	case Editions:
		feats := inherited.merge(fd.GetOptions().GetFeatures())
		if feats.presence == descriptorpb.FeatureSet_LEGACY_REQUIRED && singular {
			f.Label = LabelRequired
		}
		f.Presence = singular && (feats.presence != descriptorpb.FeatureSet_IMPLICIT || f.Kind == KindMessage || f.Kind == KindGroup)
		f.Packed = feats.repeated == descriptorpb.FeatureSet_PACKED
		f.delimited = feats.message == descriptorpb.FeatureSet_DELIMITED
	}
	if f.Label != LabelRepeated || !f.Kind.IsScalar() {
		f.Packed = false
	}
	b.fields = append(b.fields, f)
	return f, nil
}

func (b *builder) enum(ed *descriptorpb.EnumDescriptorProto, prefix string, parent *Message, path Path, inherited features) *Enum {
	e := &Enum{
		Name:     ed.GetName(),
		FullName: prefix + ed.GetName(),
		File:     b.cur,
		Parent:   parent,
		Path:     path,
	}
	switch b.cur.Syntax {
	case Proto2:
		e.Closed = true
	case Editions:
		e.Closed = inherited.merge(ed.GetOptions().GetFeatures()).enum == descriptorpb.FeatureSet_CLOSED
	}
	for i, vd := range ed.GetValue() {
		e.Values = append(e.Values, &EnumValue{
			Name:   vd.GetName(),
			Number: vd.GetNumber(),
			Path:   path.Append(enumValuePath, int32(i)),
		})
	}
	b.declare(e.FullName, e)
	return e
}

func kindOf(t descriptorpb.FieldDescriptorProto_Type) (Kind, error) {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return KindBool, nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		return KindInt32, nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64:
		return KindInt64, nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		return KindUint32, nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64:
		return KindUint64, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32:
		return KindSint32, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		return KindSint64, nil
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return KindFixed32, nil
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return KindFixed64, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return KindSfixed32, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return KindSfixed64, nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return KindFloat, nil
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return KindDouble, nil
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return KindString, nil
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return KindBytes, nil
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		return KindMessage, nil
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return KindEnum, nil
	case descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return KindGroup, nil
	case 0:
		// Left for link to fill in from the referenced type.
		return KindMessage, nil
	default:
		return 0, fmt.Errorf("unsupported field type %v", t)
	}
}

func pathKey(path []int32) string {
	var sb strings.Builder
	for i, p := range path {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(p)))
	}
	return sb.String()
}
