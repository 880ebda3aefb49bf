package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

type Parser struct {
	ImportPaths []string
	Logger      zerolog.Logger
}

// Parse compiles filePaths, which are relative to one of the import paths,
// and returns them together with every file they import. Dependencies come
// before the files importing them.
func (p *Parser) Parse(ctx context.Context, filePaths []string) ([]*descriptorpb.FileDescriptorProto, error) {
	resolver := &protocompile.SourceResolver{
		ImportPaths: p.ImportPaths,
		Accessor: func(path string) (io.ReadCloser, error) {
			if path == OptionsProtoPath || strings.HasSuffix(path, string(os.PathSeparator)+OptionsProtoPath) {
				return io.NopCloser(strings.NewReader(optionsProtoSource)), nil
			}
			return os.Open(path)
		},
	}
	compiler := protocompile.Compiler{
		Resolver:       protocompile.WithStandardImports(resolver),
		SourceInfoMode: protocompile.SourceInfoStandard,
	}
	files, err := compiler.Compile(ctx, filePaths...)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	var result []*descriptorpb.FileDescriptorProto
	seen := make(map[string]bool)
	var add func(fd protoreflect.FileDescriptor)
	add = func(fd protoreflect.FileDescriptor) {
		if seen[fd.Path()] {
			return
		}
		seen[fd.Path()] = true
		imports := fd.Imports()
		for i := 0; i < imports.Len(); i++ {
			add(imports.Get(i).FileDescriptor)
		}
		result = append(result, protodesc.ToFileDescriptorProto(fd))
	}
	for _, file := range files {
		add(file)
	}
	p.Logger.Debug().
		Int("targets", len(filePaths)).
		Int("files", len(result)).
		Msg("parsed proto files")
	return result, nil
}
