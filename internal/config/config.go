package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/defaults"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
)

// FileNames are the configuration files looked up in a source directory, in order.
var FileNames = []string{"_bollard.yaml", "_bollard.yml", "_bollard_config.json"}

// DefaultOutputDir is the output directory, relative to the source, used when none is configured.
const DefaultOutputDir = "_site"

// Config represents the site configuration
type Config struct {
	SourceDir   string         `yaml:"source_dir,omitempty"`
	OutputDir   string         `yaml:"output_dir,omitempty"`
	BaseURL     string         `yaml:"base_url,omitempty"`
	Title       string         `yaml:"title,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Params      map[string]any `yaml:"params,omitempty"`
	Defaults    []DefaultsRule `yaml:"defaults,omitempty"`
	Collections []Collection   `yaml:"collections,omitempty"`
	Exclude     []string       `yaml:"exclude,omitempty"`
	JPEGQuality int            `yaml:"jpeg_quality,omitempty"`

	// Path is the file the configuration was loaded from; empty for defaults.
	Path string `yaml:"-"`
}

// Scope restricts a defaults rule. Empty fields match anything.
type Scope struct {
	Path       string `yaml:"path,omitempty"`
	Ext        string `yaml:"ext,omitempty"`
	Collection string `yaml:"collection,omitempty"`
}

// DefaultsRule is one entry of the defaults cascade.
type DefaultsRule struct {
	Scope  Scope          `yaml:"scope"`
	Values map[string]any `yaml:"values"`
}

// Collection declares a photo directory rendered as a page collection.
type Collection struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source,omitempty"` // Site path of the photo directory, defaults to /_<name>
	Layout string `yaml:"layout,omitempty"` // Defaults to the collection name
	Sizes  []Size `yaml:"sizes,omitempty"`
}

// Size is a named derivative bounding box.
type Size struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// DefaultSizes are used by collections that declare none.
var DefaultSizes = []Size{
	{Name: "Thumb", Width: 800, Height: 600},
	{Name: "Post", Width: 1600, Height: 1200},
	{Name: "Large", Width: 3200, Height: 3200},
}

// Discover returns the configuration file in dir, if any.
func Discover(dir string) (string, bool) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Find looks for a configuration file in start and then in each parent
// directory, returning the first one found.
func Find(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if p, ok := Discover(dir); ok {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Default returns the configuration used for a source directory without a
// configuration file.
func Default(sourceDir string) (*Config, error) {
	cfg := &Config{}
	if err := cfg.applyDefaults(sourceDir); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load loads configuration from the specified file. A .env file next to it
// is loaded first and ${VAR} references in the file are expanded.
func Load(configPath string) (*Config, error) {
	dir := filepath.Dir(configPath)
	if err := loadEnvFiles(dir); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapError(err, errors.CategoryConfig, "configuration file not found").
				WithContext("path", configPath).Fatal().Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Fatal().Build()
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			WithContext("path", configPath).Fatal().Build()
	}
	cfg.Path = configPath

	if err := cfg.applyDefaults(dir); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults resolves relative directories against base and fills unset fields.
func (c *Config) applyDefaults(base string) error {
	if c.SourceDir == "" {
		c.SourceDir = "."
	}
	if !filepath.IsAbs(c.SourceDir) {
		c.SourceDir = filepath.Join(base, c.SourceDir)
	}
	src, err := filepath.Abs(c.SourceDir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid source_dir").
			WithContext("path", c.SourceDir).Fatal().Build()
	}
	c.SourceDir = src

	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.SourceDir, DefaultOutputDir)
	} else if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(base, c.OutputDir)
	}
	out, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid output_dir").
			WithContext("path", c.OutputDir).Fatal().Build()
	}
	c.OutputDir = out

	if c.Title == "" {
		c.Title = filepath.Base(c.SourceDir)
	}

	for i := range c.Collections {
		col := &c.Collections[i]
		if col.Source == "" {
			col.Source = "/_" + col.Name
		}
		if col.Layout == "" {
			col.Layout = col.Name
		}
		if len(col.Sizes) == 0 {
			col.Sizes = append([]Size(nil), DefaultSizes...)
		}
	}
	return nil
}

// DefaultsRules converts the defaults section for the defaults resolver.
func (c *Config) DefaultsRules() []defaults.Rule {
	rules := make([]defaults.Rule, 0, len(c.Defaults))
	for _, d := range c.Defaults {
		rules = append(rules, defaults.Rule{
			Path:       d.Scope.Path,
			Ext:        d.Scope.Ext,
			Collection: d.Scope.Collection,
			Values:     attrs.MapFromAny(d.Values),
		})
	}
	return rules
}

// loadEnvFiles loads .env and .env.local next to the configuration file.
// Variables already set in the environment are not overwritten.
func loadEnvFiles(dir string) error {
	var found []string
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return nil
	}
	if err := godotenv.Load(found...); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to load environment file").
			WithContext("path", dir).Fatal().Build()
	}
	return nil
}
