package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jptrs93/cleanwire/internal/resolve"
)

// Config is the content of cleanwire.toml. Command line flags override it.
type Config struct {
	GoOut          string
	Module         string
	ProtoPaths     []string
	Runtime        string
	DefaultPackage string
	Files          []string
	Extern         []resolve.Extern
	Log            Log
}

type Log struct {
	Level   string
	NoColor bool
	JSON    bool
}

func Default() Config {
	return Config{
		ProtoPaths:     []string{"."},
		DefaultPackage: resolve.DefaultPackage,
		Log:            Log{Level: "info"},
	}
}

type fileConfig struct {
	GoOut          string       `toml:"go_out"`
	Module         string       `toml:"module"`
	ProtoPaths     []string     `toml:"proto_paths"`
	Runtime        string       `toml:"runtime"`
	DefaultPackage string       `toml:"default_package"`
	Files          []string     `toml:"files"`
	Extern         []externFile `toml:"extern"`
	Log            logFile      `toml:"log"`
}

type externFile struct {
	Proto string `toml:"proto"`
	Go    string `toml:"go"`
}

type logFile struct {
	Level   string `toml:"level"`
	NoColor bool   `toml:"no_color"`
	JSON    bool   `toml:"json"`
}

// Load reads path over Default. Keys absent from the file keep their
// defaults; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("go_out") {
		cfg.GoOut = strings.TrimSpace(raw.GoOut)
	}
	if meta.IsDefined("module") {
		cfg.Module = strings.TrimSuffix(strings.TrimSpace(raw.Module), "/")
	}
	if meta.IsDefined("proto_paths") {
		cfg.ProtoPaths = raw.ProtoPaths
	}
	if meta.IsDefined("runtime") {
		cfg.Runtime = strings.TrimSpace(raw.Runtime)
	}
	if meta.IsDefined("default_package") {
		cfg.DefaultPackage = strings.TrimSpace(raw.DefaultPackage)
	}
	if meta.IsDefined("files") {
		cfg.Files = raw.Files
	}
	for i, e := range raw.Extern {
		ext, err := resolve.ParseExtern(strings.TrimSpace(e.Proto) + "=" + strings.TrimSpace(e.Go))
		if err != nil {
			return Config{}, fmt.Errorf("extern[%d]: %w", i, err)
		}
		cfg.Extern = append(cfg.Extern, ext)
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	if meta.IsDefined("log", "json") {
		cfg.Log.JSON = raw.Log.JSON
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if len(cfg.ProtoPaths) == 0 {
		return fmt.Errorf("config needs at least one proto path")
	}
	if strings.Contains(cfg.Module, " ") {
		return fmt.Errorf("module %q is not an import path", cfg.Module)
	}
	for _, e := range cfg.Extern {
		if e.GoImport == "" {
			return fmt.Errorf("extern %s has no Go import path", e.Proto)
		}
	}
	return nil
}
