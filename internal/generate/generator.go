package generate

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/jptrs93/cleanwire/internal/ir"
	"github.com/jptrs93/cleanwire/internal/resolve"
)

var (
	ErrUnresolvedType    = resolve.ErrUnresolvedType
	ErrDuplicateFieldTag = errors.New("duplicate field number")
	ErrMalformedOption   = ir.ErrMalformedOption
)

type OutputFile struct {
	Path    string
	Content []byte
}

type Options struct {
	// ModulePath is the import path generated packages live under.
	ModulePath string
	// OutDir is prepended to every output path. Plugin output leaves it empty.
	OutDir         string
	DefaultPackage string
	Extern         []resolve.Extern
	// Files names the files to generate code for. Every package holding one of
	// them is generated in full. Empty means every file of the set.
	Files  []string
	Logger zerolog.Logger
}

type Generator interface {
	Name() string
	Generate(set *ir.Set, options Options) ([]OutputFile, error)
}
