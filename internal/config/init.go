package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() Config {
	return Config{
		BaseURL:     "https://example.com",
		Title:       "My Site",
		Description: "Photos and notes",
		Params: map[string]any{
			"author": "${USER}",
		},
		Defaults: []DefaultsRule{
			{Scope: Scope{Ext: ".md"}, Values: map[string]any{"Layout": "post"}},
			{Scope: Scope{Path: "/notes"}, Values: map[string]any{"Section": "Notes"}},
			{Scope: Scope{Collection: "photos"}, Values: map[string]any{"Section": "Photos"}},
		},
		Collections: []Collection{
			{Name: "photos", Source: "/_photos", Layout: "photo", Sizes: DefaultSizes},
		},
		Exclude: []string{"**/*.draft.md", "README.md"},
	}
}

// Init writes an example configuration file into dir and returns its path.
func Init(dir string, force bool) (string, error) {
	configPath := filepath.Join(dir, FileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return "", errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	} else if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to inspect configuration file").
			WithContext("path", configPath).Build()
	}

	example := Example()
	data, err := yaml.Marshal(&example)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
			WithContext("path", dir).Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return configPath, nil
}
