package config

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
)

var sizeNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validatePaths,
		c.validateBaseURL,
		c.validateDefaults,
		c.validateCollections,
		c.validateExclude,
		c.validateQuality,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) fail(message string) *errors.ErrorBuilder {
	b := errors.ConfigError(message)
	if c.Path != "" {
		b = b.WithContext("path", c.Path)
	}
	return b
}

func (c *Config) validatePaths() error {
	info, err := os.Stat(c.SourceDir)
	if err != nil {
		return c.fail("source_dir does not exist").WithCause(err).WithContext("source_dir", c.SourceDir).Build()
	}
	if !info.IsDir() {
		return c.fail("source_dir is not a directory").WithContext("source_dir", c.SourceDir).Build()
	}
	if filepath.Clean(c.OutputDir) == filepath.Clean(c.SourceDir) {
		return c.fail("output_dir must differ from source_dir").WithContext("output_dir", c.OutputDir).Build()
	}
	if rel, err := filepath.Rel(c.OutputDir, c.SourceDir); err == nil && !strings.HasPrefix(rel, "..") {
		return c.fail("output_dir must not contain source_dir").WithContext("output_dir", c.OutputDir).Build()
	}
	return nil
}

func (c *Config) validateBaseURL() error {
	if c.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return c.fail("base_url must be an absolute URL").WithContext("base_url", c.BaseURL).Build()
	}
	return nil
}

func (c *Config) validateDefaults() error {
	for i, d := range c.Defaults {
		if d.Scope.Path != "" && !strings.HasPrefix(d.Scope.Path, "/") {
			return c.fail("defaults scope path must start with '/'").
				WithContext("rule", i).WithContext("scope_path", d.Scope.Path).Build()
		}
	}
	return nil
}

func (c *Config) validateCollections() error {
	seen := make(map[string]bool)
	for _, col := range c.Collections {
		if col.Name == "" {
			return c.fail("collection name is required").Build()
		}
		if strings.ContainsAny(col.Name, `/\`) || col.Name == "." || col.Name == ".." || strings.HasPrefix(col.Name, "_") {
			return c.fail("collection name must be a plain directory name").WithContext("collection", col.Name).Build()
		}
		if seen[col.Name] {
			return c.fail("duplicate collection name").WithContext("collection", col.Name).Build()
		}
		seen[col.Name] = true

		if !strings.HasPrefix(col.Source, "/") {
			return c.fail("collection source must be a site path starting with '/'").
				WithContext("collection", col.Name).WithContext("source", col.Source).Build()
		}

		sizeNames := make(map[string]bool)
		for _, s := range col.Sizes {
			if !sizeNamePattern.MatchString(s.Name) {
				return c.fail("size name must be alphanumeric and start with a letter").
					WithContext("collection", col.Name).WithContext("size", s.Name).Build()
			}
			if sizeNames[s.Name] {
				return c.fail("duplicate size name").
					WithContext("collection", col.Name).WithContext("size", s.Name).Build()
			}
			sizeNames[s.Name] = true
			if s.Width <= 0 || s.Height <= 0 {
				return c.fail("size dimensions must be positive").
					WithContext("collection", col.Name).WithContext("size", s.Name).Build()
			}
		}
	}
	return nil
}

func (c *Config) validateExclude() error {
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return c.fail("invalid exclude pattern").WithContext("pattern", pattern).Build()
		}
	}
	return nil
}

func (c *Config) validateQuality() error {
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return c.fail("jpeg_quality must be between 0 (default) and 100").WithContext("jpeg_quality", c.JPEGQuality).Build()
	}
	return nil
}
