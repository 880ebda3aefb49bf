package gogen

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/jptrs93/cleanwire/internal/ir"
	"github.com/jptrs93/cleanwire/internal/resolve"
)

// fileGen collects the state of one generated file: its imports and the
// package-level codec values its methods refer to.
type fileGen struct {
	set     *ir.Set
	r       *resolve.Resolver
	boxed   map[*ir.Field]bool
	pkg     string
	runtime string
	self    string

	std     map[string]bool
	imports map[string]string
	taken   map[string]bool
	codecs  map[string]string
	maps    map[*ir.Field]string
}

// reservedNames may not be used as import names: the generated file imports
// them itself, declares them as locals, or relies on the predeclared meaning.
var reservedNames = []string{
	"codec", "wire", "math", "strconv",
	"b", "m", "n", "x", "v", "s", "r", "ok", "err", "num", "typ", "ctx", "set",
	"any", "append", "bool", "byte", "cap", "clear", "close", "comparable", "complex",
	"complex64", "complex128", "copy", "delete", "error", "false", "float32", "float64",
	"imag", "int", "int8", "int16", "int32", "int64", "iota", "len", "make", "max", "min",
	"new", "nil", "panic", "print", "println", "real", "recover", "rune", "string", "true",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
}

func newFileGen(set *ir.Set, r *resolve.Resolver, boxed map[*ir.Field]bool, pkg, runtime string) *fileGen {
	g := &fileGen{
		set:     set,
		r:       r,
		boxed:   boxed,
		pkg:     pkg,
		runtime: strings.TrimSuffix(runtime, "/"),
		self:    r.ImportPath(pkg),
		std:     make(map[string]bool),
		imports: make(map[string]string),
		taken:   make(map[string]bool),
		codecs:  make(map[string]string),
		maps:    make(map[*ir.Field]string),
	}
	for _, name := range reservedNames {
		g.taken[name] = true
	}
	g.taken[r.PackageName(pkg)] = true
	g.imports[g.runtime+"/codec"] = "codec"
	return g
}

// qualify returns the Go expression naming a message or enum type.
func (g *fileGen) qualify(fullName string) (string, error) {
	id, err := g.r.GoIdent(fullName)
	if err != nil {
		return "", err
	}
	return g.qualifyIdent(id), nil
}

func (g *fileGen) qualifyIdent(id resolve.Ident) string {
	if id.ImportPath == g.self {
		return id.Name
	}
	return g.importName(id.ImportPath) + "." + id.Name
}

// importName returns the name a foreign package is imported under, adding
// the import on first use.
func (g *fileGen) importName(importPath string) string {
	if name, ok := g.imports[importPath]; ok {
		return name
	}
	base := identifierFrom(path.Base(importPath))
	name := base
	for i := 1; g.taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	g.taken[name] = true
	g.imports[importPath] = name
	return name
}

// identifierFrom turns the last element of an import path into a lower case
// identifier.
func identifierFrom(s string) string {
	var sb strings.Builder
	for i, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || r == '_':
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "pkg"
	}
	return sb.String()
}

func (g *fileGen) useMath() {
	g.std["math"] = true
}

// importLines renders the import block: standard library first, then every
// other package, each group sorted by path.
func (g *fileGen) importLines() []string {
	var std, other []string
	for p := range g.std {
		std = append(std, strconv.Quote(p))
	}
	paths := make([]string, 0, len(g.imports))
	for p := range g.imports {
		paths = append(paths, p)
	}
	sort.Strings(std)
	sort.Strings(paths)
	for _, p := range paths {
		name := g.imports[p]
		if name == path.Base(p) {
			other = append(other, strconv.Quote(p))
		} else {
			other = append(other, fmt.Sprintf("%s %q", name, p))
		}
	}
	if len(std) > 0 && len(other) > 0 {
		std = append(std, "")
	}
	return append(std, other...)
}

// codecVars returns the package-level codec values sorted by name.
func (g *fileGen) codecVars() []codecVar {
	vars := make([]codecVar, 0, len(g.codecs))
	for name, expr := range g.codecs {
		vars = append(vars, codecVar{Name: name, Expr: expr})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
