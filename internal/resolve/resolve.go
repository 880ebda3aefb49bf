// Package resolve assigns Go identifiers and import paths to the declarations
// of an ir.Set. All names are computed up front, so lookups are cheap and the
// result does not depend on the order files are generated in.
package resolve

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/jptrs93/cleanwire/internal/ir"
)

var (
	ErrUnresolvedType = errors.New("unresolved type reference")
	ErrDuplicateName  = errors.New("duplicate name")
)

// DefaultPackage is the Go package used for files without a proto package.
const DefaultPackage = "pb"

// Extern maps a proto package or type to existing Go code. Proto is a
// fully-qualified name with a leading dot. When GoIdent is empty the type
// name is derived with the usual naming rule.
//
// A package entry covers the types declared in that package and nothing
// below it: ".a" does not claim ".a.b.Msg" when the set declares Msg in
// package a.b. Names the set does not declare fall back to a plain prefix
// match.
type Extern struct {
	Proto    string
	GoImport string
	GoIdent  string
}

// ParseExtern parses ".a.b.Msg=example.com/x/ab#Msg" or ".a.b=example.com/x/ab".
func ParseExtern(s string) (Extern, error) {
	protoPath, goPath, ok := strings.Cut(s, "=")
	if !ok || protoPath == "" || goPath == "" {
		return Extern{}, fmt.Errorf("invalid extern path %q, want .proto.path=go/import/path[#Ident]", s)
	}
	if !strings.HasPrefix(protoPath, ".") {
		protoPath = "." + protoPath
	}
	goImport, ident, _ := strings.Cut(goPath, "#")
	return Extern{Proto: protoPath, GoImport: goImport, GoIdent: ident}, nil
}

type Options struct {
	// ModulePath prefixes the import path of every generated package.
	ModulePath     string
	DefaultPackage string
	Extern         []Extern
}

// Ident is a Go identifier qualified by the import path of its package.
type Ident struct {
	ImportPath string
	Name       string
}

// EnumNames are the package-level identifiers generated for one enum.
type EnumNames struct {
	Type       string
	NameMap    string
	ValueMap   string
	FromString string
}

// messageMethods are the methods generated on every message type; fields
// and getters must not shadow them.
var messageMethods = []string{
	"EncodeRaw",
	"MergeField",
	"EncodedLen",
	"Clear",
	"MessageName",
	"String",
	"Reset",
}

// packageReserved are package-level identifiers emitted once per file.
var packageReserved = []string{
	"RegisterTypes",
}

type Resolver struct {
	set  *ir.Set
	opts Options

	types    map[string]Ident
	enums    map[*ir.Enum]EnumNames
	values   map[*ir.EnumValue]string
	fields   map[*ir.Field]string
	oneofs   map[*ir.Oneof]string
	wrappers map[*ir.Field]string
	services map[*ir.Service]string
}

// New validates the cross-file invariants of set and assigns every name.
func New(set *ir.Set, opts Options) (*Resolver, error) {
	if opts.DefaultPackage == "" {
		opts.DefaultPackage = DefaultPackage
	}
	r := &Resolver{
		set:      set,
		opts:     opts,
		types:    make(map[string]Ident),
		enums:    make(map[*ir.Enum]EnumNames),
		values:   make(map[*ir.EnumValue]string),
		fields:   make(map[*ir.Field]string),
		oneofs:   make(map[*ir.Oneof]string),
		wrappers: make(map[*ir.Field]string),
		services: make(map[*ir.Service]string),
	}
	if err := r.checkDuplicates(); err != nil {
		return nil, err
	}
	if err := r.checkReferences(); err != nil {
		return nil, err
	}
	byPackage := make(map[string][]*ir.File)
	for _, f := range set.Files {
		byPackage[f.Package] = append(byPackage[f.Package], f)
	}
	for pkg, files := range byPackage {
		r.assignPackage(pkg, files)
	}
	return r, nil
}

func (r *Resolver) checkDuplicates() error {
	seen := make(map[string]string)
	declare := func(fullName, file string) error {
		if prev, ok := seen[fullName]; ok {
			return fmt.Errorf("%w: %s is declared in %s and %s", ErrDuplicateName, fullName, prev, file)
		}
		seen[fullName] = file
		return nil
	}
	for _, f := range r.set.Files {
		var err error
		f.WalkMessages(func(m *ir.Message) {
			if err == nil {
				err = declare(m.FullName, f.Path)
			}
		})
		f.WalkEnums(func(e *ir.Enum) {
			if err == nil {
				err = declare(e.FullName, f.Path)
			}
		})
		for _, s := range f.Services {
			if err == nil {
				err = declare(s.FullName, f.Path)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) checkReferences() error {
	check := func(ref, from string) error {
		if _, ok := r.set.Lookup(ref); ok {
			return nil
		}
		if _, ok := r.extern(ref); ok {
			return nil
		}
		return fmt.Errorf("%w: %s refers to %s", ErrUnresolvedType, from, ref)
	}
	var err error
	for _, f := range r.set.Files {
		f.WalkMessages(func(m *ir.Message) {
			r.walkFields(m, func(fld *ir.Field) {
				if err == nil && fld.TypeName != "" {
					err = check(fld.TypeName, m.FullName+"."+fld.Name)
				}
			})
		})
		for _, s := range f.Services {
			for _, method := range s.Methods {
				if err == nil {
					err = check(method.InputType, s.FullName+"."+method.Name)
				}
				if err == nil {
					err = check(method.OutputType, s.FullName+"."+method.Name)
				}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// walkFields visits the fields of m and of the map entries it uses.
func (r *Resolver) walkFields(m *ir.Message, fn func(*ir.Field)) {
	for _, f := range m.Fields {
		fn(f)
		if entry := f.MapEntry(r.set); entry != nil {
			for _, ef := range entry.Fields {
				fn(ef)
			}
		}
	}
}

// namespace hands out unique identifiers, escaping clashes with trailing
// underscores.
type namespace map[string]bool

func (ns namespace) claim(name string) string {
	for ns[name] {
		name += "_"
	}
	ns[name] = true
	return name
}

func (r *Resolver) assignPackage(pkg string, files []*ir.File) {
	importPath := r.ImportPath(pkg)
	ns := make(namespace)
	for _, name := range packageReserved {
		ns[name] = true
	}

	var messages []*ir.Message
	var enums []*ir.Enum
	var services []*ir.Service
	for _, f := range files {
		f.WalkMessages(func(m *ir.Message) { messages = append(messages, m) })
		f.WalkEnums(func(e *ir.Enum) { enums = append(enums, e) })
		services = append(services, f.Services...)
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].FullName < messages[j].FullName })
	sort.Slice(enums, func(i, j int) bool { return enums[i].FullName < enums[j].FullName })
	sort.Slice(services, func(i, j int) bool { return services[i].FullName < services[j].FullName })

	// Types are named first, in a single sorted pass, so a message or enum
	// keeps its name no matter which helpers are added around it.
	type decl struct {
		fullName string
		local    string
	}
	var decls []decl
	for _, m := range messages {
		decls = append(decls, decl{m.FullName, localName(pkg, m.FullName)})
	}
	for _, e := range enums {
		decls = append(decls, decl{e.FullName, localName(pkg, e.FullName)})
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].fullName < decls[j].fullName })
	for _, d := range decls {
		r.types[d.fullName] = Ident{ImportPath: importPath, Name: ns.claim(d.local)}
	}

	for _, e := range enums {
		typ := r.types[e.FullName].Name
		r.enums[e] = EnumNames{
			Type:       typ,
			NameMap:    ns.claim(typ + "_name"),
			ValueMap:   ns.claim(typ + "_value"),
			FromString: ns.claim(typ + "FromString"),
		}
		for _, v := range e.Values {
			r.values[v] = ns.claim(typ + "_" + v.Name)
		}
	}
	for _, m := range messages {
		r.assignMessage(m, ns)
	}
	for _, s := range services {
		r.services[s] = ns.claim(CamelCase(s.Name) + "_ServiceDesc")
	}
}

func (r *Resolver) assignMessage(m *ir.Message, pkgNS namespace) {
	typ := r.types[m.FullName].Name
	ns := make(namespace)
	for _, name := range messageMethods {
		ns[name] = true
	}
	claimField := func(name string) string {
		for ns[name] || ns["Get"+name] {
			name += "_"
		}
		ns[name] = true
		ns["Get"+name] = true
		return name
	}
	for _, f := range m.Fields {
		if o := f.Oneof; o != nil {
			if _, ok := r.oneofs[o]; !ok {
				r.oneofs[o] = claimField(CamelCase(o.Name))
			}
		}
		r.fields[f] = claimField(FieldCamelCase(f.Name))
		if f.Oneof != nil {
			r.wrappers[f] = pkgNS.claim(typ + "_" + r.fields[f])
		}
	}
}

// localName derives the package-relative identifier of a type: the nesting
// path below the package, camel-cased and joined with underscores.
func localName(pkg, fullName string) string {
	rel := strings.TrimPrefix(fullName, ".")
	if pkg != "" {
		rel = strings.TrimPrefix(rel, pkg+".")
	}
	parts := strings.Split(rel, ".")
	for i := range parts {
		parts[i] = CamelCase(parts[i])
	}
	return strings.Join(parts, "_")
}

// extern returns the override that applies to fullName: an exact entry, or
// else the entry with the longest prefix inside the declaring package.
func (r *Resolver) extern(fullName string) (Ident, bool) {
	pkg, declared := r.declaringPackage(fullName)
	var best *Extern
	for i := range r.opts.Extern {
		e := &r.opts.Extern[i]
		if e.Proto == fullName {
			name := e.GoIdent
			if name == "" {
				name = CamelCase(fullName[strings.LastIndexByte(fullName, '.')+1:])
			}
			return Ident{ImportPath: e.GoImport, Name: name}, true
		}
		if !strings.HasPrefix(fullName, e.Proto+".") {
			continue
		}
		if declared && !withinPackage(pkg, e.Proto) {
			continue
		}
		if best == nil || len(e.Proto) > len(best.Proto) {
			best = e
		}
	}
	if best == nil {
		return Ident{}, false
	}
	if !declared {
		pkg = strings.TrimPrefix(best.Proto, ".")
	}
	return Ident{ImportPath: best.GoImport, Name: localName(pkg, fullName)}, true
}

// declaringPackage returns the proto package of the file that declares
// fullName.
func (r *Resolver) declaringPackage(fullName string) (string, bool) {
	d, _ := r.set.Lookup(fullName)
	switch d := d.(type) {
	case *ir.Message:
		return d.File.Package, true
	case *ir.Enum:
		return d.File.Package, true
	}
	return "", false
}

// withinPackage reports whether the extern path proto is pkg itself or a
// type declared in it.
func withinPackage(pkg, proto string) bool {
	if pkg == "" {
		return true
	}
	p := strings.TrimPrefix(proto, ".")
	return p == pkg || strings.HasPrefix(p, pkg+".")
}

// GoIdent returns the Go identifier of a message or enum. Extern overrides
// take precedence over generated names.
func (r *Resolver) GoIdent(fullName string) (Ident, error) {
	if id, ok := r.extern(fullName); ok {
		return id, nil
	}
	if id, ok := r.types[fullName]; ok {
		return id, nil
	}
	return Ident{}, fmt.Errorf("%w: %s", ErrUnresolvedType, fullName)
}

// IsExtern reports whether fullName is supplied by existing Go code.
func (r *Resolver) IsExtern(fullName string) bool {
	_, ok := r.extern(fullName)
	return ok
}

// PackageDir returns the slash-separated output directory of a proto
// package: one lower case directory per package component.
func (r *Resolver) PackageDir(pkg string) string {
	if pkg == "" {
		return packageSegment(r.opts.DefaultPackage)
	}
	segs := strings.Split(pkg, ".")
	for i := range segs {
		segs[i] = packageSegment(segs[i])
	}
	return path.Join(segs...)
}

// PackageName returns the Go package name of a proto package.
func (r *Resolver) PackageName(pkg string) string {
	return path.Base(r.PackageDir(pkg))
}

// ImportPath returns the import path of the Go package generated for pkg.
func (r *Resolver) ImportPath(pkg string) string {
	dir := r.PackageDir(pkg)
	if r.opts.ModulePath == "" {
		return dir
	}
	return strings.TrimSuffix(r.opts.ModulePath, "/") + "/" + dir
}

func (r *Resolver) FieldName(f *ir.Field) string {
	if name, ok := r.fields[f]; ok {
		return name
	}
	return FieldCamelCase(f.Name)
}

func (r *Resolver) GetterName(f *ir.Field) string {
	return "Get" + r.FieldName(f)
}

func (r *Resolver) OneofName(o *ir.Oneof) string {
	return r.oneofs[o]
}

// OneofInterface returns the name of the unexported interface implemented by
// the wrappers of o.
func (r *Resolver) OneofInterface(o *ir.Oneof) string {
	return "is" + r.types[o.Message.FullName].Name + "_" + r.oneofs[o]
}

// OneofWrapper returns the name of the struct holding f when it is the
// selected member of its oneof.
func (r *Resolver) OneofWrapper(f *ir.Field) string {
	return r.wrappers[f]
}

func (r *Resolver) Enum(e *ir.Enum) EnumNames {
	return r.enums[e]
}

func (r *Resolver) EnumValueName(v *ir.EnumValue) string {
	return r.values[v]
}

func (r *Resolver) ServiceDescName(s *ir.Service) string {
	return r.services[s]
}

func (r *Resolver) MethodName(m *ir.Method) string {
	return CamelCase(m.Name)
}

// EnumClosed reports whether undeclared values of the enum must be kept out
// of the field. Enums supplied by extern paths without a declaration in the
// set are treated as open.
func (r *Resolver) EnumClosed(fullName string) bool {
	e := r.set.Enum(fullName)
	return e != nil && e.Closed
}
