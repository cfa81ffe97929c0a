package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/bollard/internal/config"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/metrics"
	"git.home.luguber.info/inful/bollard/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Path        string `arg:"" optional:"" type:"path" help:"Site directory or single source file (default: current directory)"`
	Config      string `short:"c" type:"path" help:"Configuration file (default: discovered in the site directory)"`
	Output      string `short:"o" type:"path" help:"Override the configured output directory"`
	MetricsFile string `name:"metrics-file" type:"path" help:"Write build metrics in Prometheus textfile format"`
}

func (b *BuildCmd) Run(g *Global, _ *CLI) error {
	cfg, target, err := b.LoadConfig()
	if err != nil {
		return err
	}

	logger := slog.Default()
	if g != nil && g.Logger != nil {
		logger = g.Logger
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if b.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	opts := []site.Option{site.WithLogger(logger), site.WithRecorder(recorder)}
	if target != "" {
		opts = append(opts, site.WithTarget(target))
	}
	s, err := site.New(cfg, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	report, err := s.Build(ctx)
	if report != nil {
		fmt.Println(report.Summary())
	}
	if prom != nil {
		if werr := prom.WriteTextfile(b.MetricsFile); werr != nil {
			logger.Warn("Failed to write metrics file", "path", b.MetricsFile, "error", werr)
		}
	}
	return err
}

// LoadConfig resolves the configuration for the build path. A file path
// selects single-file mode; its configuration is searched upwards from the
// file's directory. A directory without configuration builds with defaults.
func (b *BuildCmd) LoadConfig() (*config.Config, string, error) {
	path := b.Path
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", errors.WrapError(err, errors.CategoryFileSystem, "failed to determine working directory").Build()
		}
		path = wd
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", errors.ValidationError("site path does not exist").
			WithContext("path", path).
			WithCause(err).
			Build()
	}

	dir, target := path, ""
	if !info.IsDir() {
		dir, target = filepath.Dir(path), path
	}

	cfgPath := b.Config
	if cfgPath == "" {
		if target != "" {
			cfgPath, _ = config.Find(dir)
		} else {
			cfgPath, _ = config.Discover(dir)
		}
	}

	var cfg *config.Config
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.Default(dir)
	}
	if err != nil {
		return nil, "", err
	}

	if b.Output != "" {
		out, err := filepath.Abs(b.Output)
		if err != nil {
			return nil, "", errors.WrapError(err, errors.CategoryConfig, "invalid output directory").
				WithContext("path", b.Output).Fatal().Build()
		}
		cfg.OutputDir = out
		if err := cfg.Validate(); err != nil {
			return nil, "", err
		}
	}
	return cfg, target, nil
}
