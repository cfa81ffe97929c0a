package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bollard/internal/config"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	bt "git.home.luguber.info/inful/bollard/internal/testing"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("bollard"), kong.Writers(io.Discard, io.Discard))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func quietGlobal() *Global {
	return &Global{Logger: slog.New(slog.DiscardHandler)}
}

func TestParse_BuildIsDefaultCommand(t *testing.T) {
	dir := t.TempDir()
	cli, ctx := parse(t, dir)
	assert.Equal(t, "build", ctx.Selected().Name)
	assert.Equal(t, dir, cli.Build.Path)

	cli, ctx = parse(t, "build", "-c", filepath.Join(dir, "site.yaml"), "--metrics-file", filepath.Join(dir, "m.prom"), dir)
	assert.Equal(t, "build", ctx.Selected().Name)
	assert.Equal(t, filepath.Join(dir, "site.yaml"), cli.Build.Config)
	assert.Equal(t, filepath.Join(dir, "m.prom"), cli.Build.MetricsFile)
}

func TestParse_Init(t *testing.T) {
	dir := t.TempDir()
	cli, ctx := parse(t, "init", dir, "--force")
	assert.Equal(t, "init", ctx.Selected().Name)
	assert.True(t, cli.Init.Force)
	assert.Equal(t, dir, cli.Init.Dir)
}

func TestLoadConfig_DirectoryWithoutConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, target, err := (&BuildCmd{Path: dir}).LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, target)
	abs, _ := filepath.Abs(dir)
	assert.Equal(t, abs, cfg.SourceDir)
	assert.Equal(t, filepath.Join(abs, config.DefaultOutputDir), cfg.OutputDir)
}

func TestLoadConfig_FileFindsSiteConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "_bollard.yaml"), []byte("title: Root\n"), 0o644))
	page := filepath.Join(root, "blog", "post.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(page), 0o755))
	require.NoError(t, os.WriteFile(page, []byte("# Post"), 0o644))

	cfg, target, err := (&BuildCmd{Path: page}).LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, page, target)
	assert.Equal(t, "Root", cfg.Title)
}

func TestLoadConfig_MissingPath(t *testing.T) {
	_, _, err := (&BuildCmd{Path: filepath.Join(t.TempDir(), "nope")}).LoadConfig()
	require.Error(t, err)
	assert.Equal(t, 2, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestBuildCmd_WritesSiteAndMetrics(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.gohtml"), []byte("<h1>{{.Site.Title}}</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_bollard.yaml"), []byte("title: Demo\n"), 0o644))
	metricsFile := filepath.Join(t.TempDir(), "bollard.prom")

	err := (&BuildCmd{Path: dir, MetricsFile: metricsFile}).Run(quietGlobal(), &CLI{})
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "_site", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Demo</h1>", string(out))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(prom), `bollard_files_total{outcome="rendered"} 1`), string(prom))
}

func TestBuildCmd_FailuresMapToBuildExitCode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.gohtml"), []byte(`{{.SetLayout "missing"}}x`), 0o644))

	err := (&BuildCmd{Path: dir}).Run(quietGlobal(), &CLI{})
	require.Error(t, err)
	assert.Equal(t, 11, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestBuildCmd_SiteFromConfigFile(t *testing.T) {
	site := bt.NewConfigBuilder(t).
		WithTitle("Harbour").
		WithExclude("**/*.psd").
		WithDefaults(config.Scope{Ext: ".md"}, map[string]any{"Layout": "post"}).
		WithCollection("album", "", config.Size{Name: "Thumb", Width: 16, Height: 16}).
		WithFile("_layouts/post.gohtml", "<article>{{.Site.Title}}:{{.RenderBody}}</article>").
		WithFile("_layouts/album.gohtml", "{{.Page.Name}}{{if .Page.Comment}} ({{.Page.Comment}}){{end}}").
		WithFile("posts/hello.md", "# Hello").
		WithFile("art/cover.psd", "binary").
		WithJPEG("_album/untitled.jpg", 32, 16).
		WithJPEG("_album/bridge.jpg", 32, 16).
		WithFile("_album/bridge.jpg.yaml", "title: The Old Bridge\ndate: 2020-01-02T00:00:00Z\n")
	site.BuildAndSave()

	err := (&BuildCmd{Path: site.Dir()}).Run(quietGlobal(), &CLI{})
	require.Error(t, err)
	assert.Equal(t, 11, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))

	out := bt.NewOutputAssertions(t, filepath.Join(site.Dir(), config.DefaultOutputDir))
	out.AssertPageContains("/posts/hello.html", "<article>Harbour:<h1").
		AssertNotPublished("/art/cover.psd").
		AssertNotPublished("/_album/untitled.jpg").
		AssertDerivative("/album/images/2020-01-02_OldBridge_16x8.jpg", 16, 8)
	assert.Equal(t, "2020-01-02_OldBridge", out.Page("/album/2020-01-02_OldBridge.html"))
	assert.Equal(t, []string{"2020-01-02_OldBridge_16x8.jpg"}, out.Derivatives("album"))
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, (&InitCmd{Dir: dir}).Run(nil, nil))
	_, ok := config.Discover(dir)
	assert.True(t, ok)

	err := (&InitCmd{Dir: dir}).Run(nil, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.NoError(t, (&InitCmd{Dir: dir, Force: true}).Run(nil, nil))
}
