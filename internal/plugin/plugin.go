package plugin

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/jptrs93/cleanwire/internal/generate"
	gogen "github.com/jptrs93/cleanwire/internal/generate/go"
	"github.com/jptrs93/cleanwire/internal/ir"
	"github.com/jptrs93/cleanwire/internal/resolve"
)

const supportedFeatures = uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL |
	pluginpb.CodeGeneratorResponse_FEATURE_SUPPORTS_EDITIONS)

// Params are the options passed by protoc through --cleanwire_opt.
type Params struct {
	Module         string
	Runtime        string
	DefaultPackage string
	Extern         []resolve.Extern
}

// ParseParams parses a comma separated list of key=value pairs.
func ParseParams(parameter string) (Params, error) {
	var p Params
	for _, param := range strings.Split(parameter, ",") {
		var value string
		if i := strings.Index(param, "="); i >= 0 {
			value = param[i+1:]
			param = param[:i]
		}
		switch param {
		case "":
		case "module":
			p.Module = strings.TrimSuffix(value, "/")
		case "runtime":
			p.Runtime = value
		case "default_package":
			p.DefaultPackage = value
		case "extern_path":
			ext, err := resolve.ParseExtern(value)
			if err != nil {
				return Params{}, err
			}
			p.Extern = append(p.Extern, ext)
		default:
			return Params{}, fmt.Errorf("unknown parameter %q", param)
		}
	}
	return p, nil
}

// Run reads a CodeGeneratorRequest from in and writes the response to out.
// Problems with the request's schema are reported in the response; only
// I/O and encoding failures are returned.
func Run(in io.Reader, out io.Writer, log zerolog.Logger) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(data, req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	resp := Generate(req, log)
	b, err := proto.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}

func Generate(req *pluginpb.CodeGeneratorRequest, log zerolog.Logger) *pluginpb.CodeGeneratorResponse {
	resp := &pluginpb.CodeGeneratorResponse{SupportedFeatures: proto.Uint64(supportedFeatures)}
	fail := func(err error) *pluginpb.CodeGeneratorResponse {
		log.Error().Err(err).Msg("generation failed")
		resp.Error = proto.String(err.Error())
		return resp
	}

	params, err := ParseParams(req.GetParameter())
	if err != nil {
		return fail(err)
	}
	set, err := ir.Build(req.GetProtoFile())
	if err != nil {
		return fail(err)
	}
	outputs, err := gogen.Generator{Runtime: params.Runtime}.Generate(set, generate.Options{
		ModulePath:     params.Module,
		DefaultPackage: params.DefaultPackage,
		Extern:         params.Extern,
		Files:          req.GetFileToGenerate(),
		Logger:         log,
	})
	if err != nil {
		return fail(err)
	}
	for _, o := range outputs {
		resp.File = append(resp.File, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(o.Path),
			Content: proto.String(string(o.Content)),
		})
	}
	log.Info().Int("files", len(resp.File)).Msg("generated")
	return resp
}
