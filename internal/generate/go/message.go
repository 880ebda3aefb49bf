package gogen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jptrs93/cleanwire/internal/ir"
)

func (g *fileGen) message(m *ir.Message) (messageData, error) {
	id, err := g.r.GoIdent(m.FullName)
	if err != nil {
		return messageData{}, err
	}
	fullName := strings.TrimPrefix(m.FullName, ".")
	comments := m.File.Comments(m.Path)
	md := messageData{
		Comment:  commentLines(comments.Leading),
		Type:     id.Name,
		FullName: fullName,
	}

	seen := make(map[*ir.Oneof]bool)
	for _, f := range m.Fields {
		if o := f.Oneof; o != nil {
			if seen[o] {
				continue
			}
			seen[o] = true
			od, err := g.oneof(o)
			if err != nil {
				return messageData{}, err
			}
			md.Oneofs = append(md.Oneofs, od)
			oc := m.File.Comments(o.Path)
			md.Fields = append(md.Fields, structField{
				Comment:  commentLines(oc.Leading),
				Trailing: trailingComment(oc.Trailing),
				Name:     g.r.OneofName(o),
				Type:     od.Interface,
			})
			continue
		}
		t, err := g.fieldType(f)
		if err != nil {
			return messageData{}, fmt.Errorf("%s.%s: %w", fullName, f.Name, err)
		}
		fc := m.File.Comments(f.Path)
		md.Fields = append(md.Fields, structField{
			Comment:  commentLines(fc.Leading),
			Trailing: trailingComment(fc.Trailing),
			Name:     g.r.FieldName(f),
			Type:     t,
		})
	}

	// Fields are written in ascending number order regardless of declaration
	// order.
	byNumber := append([]*ir.Field(nil), m.Fields...)
	sort.SliceStable(byNumber, func(i, j int) bool { return byNumber[i].Number < byNumber[j].Number })
	for _, f := range byNumber {
		enc, size, err := g.encodeField(id.Name, f)
		if err != nil {
			return messageData{}, fmt.Errorf("%s.%s: %w", fullName, f.Name, err)
		}
		md.EncodeLines = append(md.EncodeLines, enc...)
		md.SizeLines = append(md.SizeLines, size...)
		lines, err := g.decodeField(id.Name, fullName, f)
		if err != nil {
			return messageData{}, fmt.Errorf("%s.%s: %w", fullName, f.Name, err)
		}
		md.DecodeCases = append(md.DecodeCases, decodeCase{Number: f.Number, Lines: lines})
	}

	seen = make(map[*ir.Oneof]bool)
	for _, f := range m.Fields {
		if o := f.Oneof; o != nil && !seen[o] {
			seen[o] = true
			md.Getters = append(md.Getters, g.oneofGetter(id.Name, o))
		}
		getter, err := g.getter(id.Name, f)
		if err != nil {
			return messageData{}, fmt.Errorf("%s.%s: %w", fullName, f.Name, err)
		}
		md.Getters = append(md.Getters, getter)
	}
	return md, nil
}

func (g *fileGen) oneof(o *ir.Oneof) (oneofData, error) {
	od := oneofData{Interface: g.r.OneofInterface(o)}
	for _, f := range o.Fields {
		t, err := g.elemType(f)
		if err != nil {
			return oneofData{}, err
		}
		od.Wrappers = append(od.Wrappers, wrapperData{
			Name:  g.r.OneofWrapper(f),
			Field: g.r.FieldName(f),
			Type:  t,
		})
	}
	return od, nil
}
