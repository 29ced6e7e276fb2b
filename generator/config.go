package generator

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = ".mxml.yaml"

// Config controls how mixin files are found and what is generated for them.
type Config struct {
	// Package is the package clause of generated files. Empty means the
	// name of the directory holding the source.
	Package string `yaml:"package,omitempty"`
	// Suffix is appended to the source path to name the generated file.
	Suffix string `yaml:"suffix"`
	// Extensions lists the source file extensions to compile.
	Extensions []string `yaml:"extensions"`
	// StrictWildcard requires '?' elements to be closed with </?>.
	StrictWildcard bool `yaml:"strict_wildcard"`
	// CacheDir enables the output cache when set.
	CacheDir string `yaml:"cache_dir,omitempty"`
	// CacheMaxAge expires cache entries older than it. Zero keeps them
	// until the source or settings change.
	CacheMaxAge time.Duration `yaml:"cache_max_age,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Suffix:     ".go",
		Extensions: []string{".mixin"},
	}
}

// LoadConfig reads the YAML configuration at path. A missing file yields
// the defaults; fields absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("parsing %s: %w", path, err)
	}
	return config, config.validate()
}

func (c Config) validate() error {
	if c.Suffix == "" {
		return errors.New("suffix must not be empty")
	}
	if len(c.Extensions) == 0 {
		return errors.New("at least one extension is required")
	}
	if c.CacheMaxAge < 0 {
		return errors.New("cache_max_age must not be negative")
	}
	return nil
}

// WriteConfig writes c as YAML to path, replacing any existing file.
func WriteConfig(path string, c Config) error {
	d, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

// fingerprint identifies the settings that change generated output.
func (c Config) fingerprint(pkg string) string {
	return fmt.Sprintf("pkg=%s strict=%t", pkg, c.StrictWildcard)
}
