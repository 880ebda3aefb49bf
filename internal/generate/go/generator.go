package gogen

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/jptrs93/cleanwire/internal/generate"
	"github.com/jptrs93/cleanwire/internal/generate/templates"
	"github.com/jptrs93/cleanwire/internal/ir"
	"github.com/jptrs93/cleanwire/internal/resolve"
)

// DefaultRuntime is the module providing the codec and wire packages that
// generated code imports.
const DefaultRuntime = "github.com/jptrs93/cleanwire"

type Generator struct {
	// Runtime overrides DefaultRuntime.
	Runtime string
}

func (g Generator) Name() string {
	return "go"
}

// Generate emits one Go file per proto package holding a target file. Nothing
// is returned when any package fails validation.
func (g Generator) Generate(set *ir.Set, options generate.Options) ([]generate.OutputFile, error) {
	tmpl, err := template.ParseFS(templates.FS, "go_file.tmpl")
	if err != nil {
		return nil, err
	}
	log := options.Logger.With().Str("generator", g.Name()).Logger()

	r, err := resolve.New(set, resolve.Options{
		ModulePath:     options.ModulePath,
		DefaultPackage: options.DefaultPackage,
		Extern:         options.Extern,
	})
	if err != nil {
		return nil, err
	}
	packages, order, err := targetPackages(set, options.Files)
	if err != nil {
		return nil, err
	}
	for _, pkg := range order {
		if err := validate(set, packages[pkg]); err != nil {
			return nil, err
		}
	}

	runtime := g.Runtime
	if runtime == "" {
		runtime = DefaultRuntime
	}
	boxed := boxedFields(set)
	var outputs []generate.OutputFile
	for _, pkg := range order {
		fg := newFileGen(set, r, boxed, pkg, runtime)
		data, err := fg.build(packages[pkg])
		if err != nil {
			return nil, fmt.Errorf("package %q: %w", pkg, err)
		}
		if len(data.Enums) == 0 && len(data.Messages) == 0 && len(data.Services) == 0 {
			log.Debug().Str("package", pkg).Msg("nothing to generate")
			continue
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, err
		}
		outPath := path.Join(r.PackageDir(pkg), r.PackageName(pkg)+".pb.go")
		content, err := imports.Process(outPath, buf.Bytes(), &imports.Options{
			Comments:   true,
			TabIndent:  true,
			TabWidth:   8,
			FormatOnly: true,
		})
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", outPath, err)
		}
		if options.OutDir != "" {
			outPath = filepath.Join(options.OutDir, filepath.FromSlash(outPath))
		}
		log.Debug().
			Str("package", pkg).
			Str("path", outPath).
			Int("messages", len(data.Messages)).
			Int("enums", len(data.Enums)).
			Msg("generated package")
		outputs = append(outputs, generate.OutputFile{
			Path:    outPath,
			Content: content,
		})
	}
	return outputs, nil
}

// targetPackages groups the files of set by proto package, keeping only the
// packages that hold one of targets.
func targetPackages(set *ir.Set, targets []string) (map[string][]*ir.File, []string, error) {
	wanted := make(map[string]bool)
	if len(targets) == 0 {
		for _, f := range set.Files {
			wanted[f.Package] = true
		}
	}
	for _, name := range targets {
		f := set.File(name)
		if f == nil {
			return nil, nil, fmt.Errorf("file %s is not part of the descriptor set", name)
		}
		wanted[f.Package] = true
	}
	packages := make(map[string][]*ir.File)
	for _, f := range set.Files {
		if wanted[f.Package] {
			packages[f.Package] = append(packages[f.Package], f)
		}
	}
	order := make([]string, 0, len(packages))
	for pkg := range packages {
		order = append(order, pkg)
	}
	sort.Strings(order)
	return packages, order, nil
}

type fileData struct {
	Sources  []string
	Package  string
	Imports  []string
	Codecs   []codecVar
	Enums    []enumData
	Messages []messageData
	Services []serviceData
}

type codecVar struct {
	Name string
	Expr string
}

type enumData struct {
	Comment    []string
	Type       string
	NameMap    string
	ValueMap   string
	FromString string
	Values     []enumValueData
	// Names holds the first declared name of every number.
	Names []enumValueData
}

type enumValueData struct {
	Comment   []string
	Trailing  string
	Name      string
	ProtoName string
	Number    int32
}

type messageData struct {
	Comment     []string
	Type        string
	FullName    string
	Fields      []structField
	Oneofs      []oneofData
	EncodeLines []string
	SizeLines   []string
	DecodeCases []decodeCase
	Getters     [][]string
}

type structField struct {
	Comment  []string
	Trailing string
	Name     string
	Type     string
}

type oneofData struct {
	Interface string
	Wrappers  []wrapperData
}

type wrapperData struct {
	Name  string
	Field string
	Type  string
}

type decodeCase struct {
	Number int32
	Lines  []string
}

type serviceData struct {
	Comment []string
	Var     string
	Name    string
	Methods []methodData
}

type methodData struct {
	Name            string
	Input           string
	Output          string
	ClientStreaming bool
	ServerStreaming bool
}

func (g *fileGen) build(files []*ir.File) (fileData, error) {
	data := fileData{Package: g.r.PackageName(g.pkg)}
	for _, f := range files {
		data.Sources = append(data.Sources, f.Path)
		var err error
		f.WalkEnums(func(e *ir.Enum) {
			if err == nil && !g.r.IsExtern(e.FullName) {
				data.Enums = append(data.Enums, g.enum(e))
			}
		})
		f.WalkMessages(func(m *ir.Message) {
			if err != nil || g.r.IsExtern(m.FullName) {
				return
			}
			var md messageData
			md, err = g.message(m)
			data.Messages = append(data.Messages, md)
		})
		if err != nil {
			return fileData{}, err
		}
		for _, s := range f.Services {
			data.Services = append(data.Services, g.service(s))
		}
	}
	if len(data.Enums) > 0 {
		g.std["strconv"] = true
	}
	if len(data.Messages) > 0 {
		g.imports[g.runtime+"/wire"] = "wire"
	}
	data.Imports = g.importLines()
	data.Codecs = g.codecVars()
	return data, nil
}

func (g *fileGen) service(s *ir.Service) serviceData {
	sd := serviceData{
		Comment: commentLines(s.File.Comments(s.Path).Leading),
		Var:     g.r.ServiceDescName(s),
		Name:    strings.TrimPrefix(s.FullName, "."),
	}
	for _, m := range s.Methods {
		sd.Methods = append(sd.Methods, methodData{
			Name:            m.Name,
			Input:           strings.TrimPrefix(m.InputType, "."),
			Output:          strings.TrimPrefix(m.OutputType, "."),
			ClientStreaming: m.ClientStreaming,
			ServerStreaming: m.ServerStreaming,
		})
	}
	return sd
}

// commentLines renders a proto comment as Go line comments.
func commentLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight("//"+l, " \t")
	}
	return lines
}

// trailingComment renders a trailing comment on a single line.
func trailingComment(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}
	return "// " + text
}
