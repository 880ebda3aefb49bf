package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jptrs93/cleanwire/internal/config"
	"github.com/jptrs93/cleanwire/internal/generate"
	gogen "github.com/jptrs93/cleanwire/internal/generate/go"
	"github.com/jptrs93/cleanwire/internal/ir"
	"github.com/jptrs93/cleanwire/internal/logging"
	"github.com/jptrs93/cleanwire/internal/parser"
	"github.com/jptrs93/cleanwire/internal/resolve"
)

type stringList []string

func (s *stringList) String() string {
	return fmt.Sprint([]string(*s))
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	var (
		importPaths stringList
		externPaths stringList
		configPath  string
		goOut       string
		module      string
		runtime     string
		defaultPkg  string
		logLevel    string
	)
	flags := flag.NewFlagSet("cleanwire", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&configPath, "config", "", "path to cleanwire.toml")
	flags.Var(&importPaths, "proto_path", "proto import path (repeatable)")
	flags.StringVar(&goOut, "go_out", "", "output directory for Go")
	flags.StringVar(&module, "module", "", "Go import path of the output directory")
	flags.StringVar(&runtime, "runtime", "", "module providing the codec and wire packages")
	flags.StringVar(&defaultPkg, "default_package", "", "Go package for files without a proto package")
	flags.Var(&externPaths, "extern_path", ".proto.path=go/import/path[#Ident] (repeatable)")
	flags.StringVar(&logLevel, "log_level", "", "trace, debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "proto_path":
			cfg.ProtoPaths = importPaths
		case "go_out":
			cfg.GoOut = goOut
		case "module":
			cfg.Module = module
		case "runtime":
			cfg.Runtime = runtime
		case "default_package":
			cfg.DefaultPackage = defaultPkg
		case "log_level":
			cfg.Log.Level = logLevel
		}
	})
	for _, s := range externPaths {
		ext, err := resolve.ParseExtern(s)
		if err != nil {
			return err
		}
		cfg.Extern = append(cfg.Extern, ext)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	files := append(cfg.Files, flags.Args()...)
	if len(files) == 0 {
		return errors.New("no proto files provided")
	}
	if cfg.GoOut == "" {
		return errors.New("an output directory is required: set -go_out or go_out in the config file")
	}

	log := logging.New("cleanwire", logging.Config{
		Level:   cfg.Log.Level,
		NoColor: cfg.Log.NoColor,
		JSON:    cfg.Log.JSON,
		Out:     stderr,
	})

	p := parser.Parser{ImportPaths: cfg.ProtoPaths, Logger: log}
	descriptors, err := p.Parse(ctx, files)
	if err != nil {
		return err
	}
	set, err := ir.Build(descriptors)
	if err != nil {
		return err
	}

	gen := gogen.Generator{Runtime: cfg.Runtime}
	outputs, err := gen.Generate(set, generate.Options{
		ModulePath:     cfg.Module,
		OutDir:         filepath.Clean(cfg.GoOut),
		DefaultPackage: cfg.DefaultPackage,
		Extern:         cfg.Extern,
		Files:          files,
		Logger:         log,
	})
	if err != nil {
		return err
	}
	written, err := generate.WriteFiles(outputs, log)
	if err != nil {
		return err
	}
	log.Info().Int("packages", len(outputs)).Int("written", written).Msg("done")
	return nil
}
