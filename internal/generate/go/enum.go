package gogen

import (
	"github.com/jptrs93/cleanwire/internal/ir"
)

func (g *fileGen) enum(e *ir.Enum) enumData {
	names := g.r.Enum(e)
	ed := enumData{
		Comment:    commentLines(e.File.Comments(e.Path).Leading),
		Type:       names.Type,
		NameMap:    names.NameMap,
		ValueMap:   names.ValueMap,
		FromString: names.FromString,
	}
	seen := make(map[int32]bool)
	for _, v := range e.Values {
		c := e.File.Comments(v.Path)
		vd := enumValueData{
			Comment:   commentLines(c.Leading),
			Trailing:  trailingComment(c.Trailing),
			Name:      g.r.EnumValueName(v),
			ProtoName: v.Name,
			Number:    v.Number,
		}
		ed.Values = append(ed.Values, vd)
		// Aliases share a number; String reports the first name.
		if !seen[v.Number] {
			seen[v.Number] = true
			ed.Names = append(ed.Names, vd)
		}
	}
	return ed
}
