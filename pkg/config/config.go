package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/klothoplatform/displaygen/pkg/closenicely"
)

type Config struct {
	// Trigger is the directive name carrying templates: `//display("...")`.
	Trigger string `json:"trigger,omitempty" yaml:"trigger,omitempty" toml:"trigger,omitempty"`
	// Receiver is the receiver name of generated methods.
	Receiver string `json:"receiver,omitempty" yaml:"receiver,omitempty" toml:"receiver,omitempty"`
	// Suffix replaces the `.go` extension of a source file to name its output.
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty" toml:"suffix,omitempty"`
	// Types restricts generation to the named types. Empty means every annotated type.
	Types   []string `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty"`
	Include []string `json:"include,omitempty" yaml:"include,omitempty" toml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	Workers int      `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty"`

	// Format is what format the file was originally in. Empty when no file was read.
	Format string `json:"-" yaml:"-" toml:"-"`
}

// FileNames are the configuration files looked up in a directory, in order.
var FileNames = []string{"displaygen.yaml", "displaygen.yml", "displaygen.toml", "displaygen.json"}

func Defaults() Config {
	return Config{
		Trigger:  "display",
		Receiver: "e",
		Suffix:   "_display.go",
		Include:  []string{"*.go"},
		Exclude:  []string{"*_test.go", "*_display.go"},
		Workers:  4,
	}
}

func ReadConfig(fpath string) (Config, error) {
	var cfg Config

	f, err := os.Open(fpath)
	if err != nil {
		return cfg, err
	}
	defer closenicely.OrDebug(f)

	switch filepath.Ext(fpath) {
	case ".json":
		err = json.NewDecoder(f).Decode(&cfg)
		cfg.Format = "json"

	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&cfg)
		cfg.Format = "yaml"

	case ".toml":
		err = toml.NewDecoder(f).Decode(&cfg)
		cfg.Format = "toml"

	default:
		err = errors.Errorf("unsupported config format %q", filepath.Ext(fpath))
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "could not read config %s", fpath)
	}
	return cfg, nil
}

// Find returns the first of [FileNames] present in dir, or the empty string.
func Find(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the configuration at fpath, or the one found in dir when fpath is empty, merged over [Defaults].
func Load(fpath, dir string) (Config, error) {
	cfg := Defaults()
	if fpath == "" {
		fpath = Find(dir)
	}
	if fpath == "" {
		return cfg, nil
	}
	file, err := ReadConfig(fpath)
	if err != nil {
		return cfg, err
	}
	zap.S().Named("config").Debugf("read %s config from %s", file.Format, fpath)
	cfg.Merge(file)
	cfg.Format = file.Format
	return cfg, nil
}

// Merge overrides cfg with every value set in other.
func (cfg *Config) Merge(other Config) {
	if other.Trigger != "" {
		cfg.Trigger = other.Trigger
	}
	if other.Receiver != "" {
		cfg.Receiver = other.Receiver
	}
	if other.Suffix != "" {
		cfg.Suffix = other.Suffix
	}
	if len(other.Types) > 0 {
		cfg.Types = other.Types
	}
	if len(other.Include) > 0 {
		cfg.Include = other.Include
	}
	if len(other.Exclude) > 0 {
		cfg.Exclude = other.Exclude
	}
	if other.Workers > 0 {
		cfg.Workers = other.Workers
	}
}
