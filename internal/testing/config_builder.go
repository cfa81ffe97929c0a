package testing

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/bollard/internal/config"
)

// ConfigBuilder provides a fluent interface for creating a site source tree
// and its configuration.
type ConfigBuilder struct {
	config *config.Config
	dir    string
	t      *testing.T
}

// NewConfigBuilder creates a builder for a site rooted in a fresh temporary directory.
func NewConfigBuilder(t *testing.T) *ConfigBuilder {
	t.Helper()
	return &ConfigBuilder{
		config: &config.Config{
			Title:   "Test Site",
			BaseURL: "https://example.com",
		},
		dir: t.TempDir(),
		t:   t,
	}
}

// Dir returns the site source directory.
func (cb *ConfigBuilder) Dir() string { return cb.dir }

// WithTitle sets the site title
func (cb *ConfigBuilder) WithTitle(title string) *ConfigBuilder {
	cb.config.Title = title
	return cb
}

// WithBaseURL sets the site base URL
func (cb *ConfigBuilder) WithBaseURL(u string) *ConfigBuilder {
	cb.config.BaseURL = u
	return cb
}

// WithDefaults appends a defaults rule
func (cb *ConfigBuilder) WithDefaults(scope config.Scope, values map[string]any) *ConfigBuilder {
	cb.config.Defaults = append(cb.config.Defaults, config.DefaultsRule{Scope: scope, Values: values})
	return cb
}

// WithCollection declares a photo collection with the given derivative sizes
func (cb *ConfigBuilder) WithCollection(name, layout string, sizes ...config.Size) *ConfigBuilder {
	cb.config.Collections = append(cb.config.Collections, config.Collection{
		Name:   name,
		Layout: layout,
		Sizes:  sizes,
	})
	return cb
}

// WithExclude adds exclude patterns
func (cb *ConfigBuilder) WithExclude(patterns ...string) *ConfigBuilder {
	cb.config.Exclude = append(cb.config.Exclude, patterns...)
	return cb
}

// WithFile writes a source file, relative to the site directory
func (cb *ConfigBuilder) WithFile(rel, content string) *ConfigBuilder {
	cb.t.Helper()
	p := filepath.Join(cb.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), testDirPermissions); err != nil {
		cb.t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(p, []byte(content), testFilePermissions); err != nil {
		cb.t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return cb
}

// WithJPEG writes a gradient JPEG of the given pixel size
func (cb *ConfigBuilder) WithJPEG(rel string, width, height int) *ConfigBuilder {
	cb.t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	p := filepath.Join(cb.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), testDirPermissions); err != nil {
		cb.t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	f, err := os.Create(p)
	if err != nil {
		cb.t.Fatalf("Failed to create %s: %v", rel, err)
	}
	defer func() { _ = f.Close() }()
	if err := jpeg.Encode(f, img, nil); err != nil {
		cb.t.Fatalf("Failed to encode %s: %v", rel, err)
	}
	return cb
}

// Build returns the built configuration
func (cb *ConfigBuilder) Build() *config.Config {
	return cb.config
}

// BuildAndSave writes the configuration as _bollard.yaml in the site
// directory and returns the file path.
func (cb *ConfigBuilder) BuildAndSave() string {
	cb.t.Helper()
	data, err := yaml.Marshal(cb.config)
	if err != nil {
		cb.t.Fatalf("Failed to marshal config: %v", err)
	}
	p := filepath.Join(cb.dir, config.FileNames[0])
	if err := os.WriteFile(p, data, testFilePermissions); err != nil {
		cb.t.Fatalf("Failed to save config to %s: %v", p, err)
	}
	return p
}
