package site

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/logfields"
	"git.home.luguber.info/inful/bollard/internal/metrics"
	"git.home.luguber.info/inful/bollard/internal/sitepath"
)

// ReservedPrefix marks files and directories that are never published.
const ReservedPrefix = "_"

func (s *Site) renderTree(ctx context.Context) error {
	return s.walkDir(ctx, sitepath.Root)
}

// renderTarget renders the single file the site was created for.
func (s *Site) renderTarget(ctx context.Context) error {
	sitePath, err := s.resolver.SourceRelative(s.target)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dispatch(sitePath)
}

// walkDir visits the files of a directory in name order, then recurses into
// its subdirectories in name order.
func (s *Site) walkDir(ctx context.Context, dirPath string) error {
	osDir, err := s.resolver.SourcePath(dirPath)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(osDir)
	if err != nil {
		s.Fail(dirPath, errors.WrapError(err, errors.CategoryFileSystem, "failed to read directory").
			WithContext("path", osDir).
			Build())
		return nil
	}

	var dirs []string
	for _, entry := range entries {
		child := sitepath.Combine(dirPath, entry.Name())
		osPath := filepath.Join(osDir, entry.Name())
		if s.pruned(child, entry.Name(), osPath) {
			s.logger.Debug("Pruned", logfields.SitePath(child))
			continue
		}
		if isDir(entry, osPath) {
			dirs = append(dirs, child)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.dispatch(child); err != nil {
			return err
		}
	}

	for _, d := range dirs {
		if err := s.walkDir(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// dispatch renders or copies one file. Only errors that must stop the build
// are returned; everything else is recorded as a failure of that file.
func (s *Site) dispatch(sitePath string) error {
	err := s.renderFile(sitePath)
	if err == nil {
		return nil
	}
	if errors.HasCategory(err, errors.CategoryPathEscape) || errors.HasCategory(err, errors.CategoryConfig) {
		return err
	}
	s.Fail(sitePath, err)
	s.Recorder().IncFileOutcome(metrics.FileFailed)
	return nil
}

func (s *Site) renderFile(sitePath string) error {
	switch strings.ToLower(sitepath.Ext(sitePath)) {
	case ".gohtml", ".tmpl":
		return s.renderTemplatePage(sitePath)
	case ".md", ".markdown":
		return s.renderMarkdownPage(sitePath)
	default:
		return s.copyStatic(sitePath)
	}
}

func (s *Site) pruned(sitePath, name, osPath string) bool {
	if strings.HasPrefix(name, ReservedPrefix) || strings.HasPrefix(name, ".") {
		return true
	}
	if s.resolver.IsDestRoot(osPath) {
		return true
	}
	for _, c := range s.collections {
		if strings.EqualFold(c.Source(), sitePath) {
			return true
		}
	}
	rel := strings.TrimPrefix(sitePath, "/")
	for _, pattern := range s.cfg.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isDir(entry fs.DirEntry, osPath string) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(osPath)
	return err == nil && info.IsDir()
}

// OutputPath maps a source site path to the site path it is published at.
// Template and markup pages become .html; text templates drop .tmpl and fall
// back to .txt when no extension remains.
func OutputPath(sitePath string) string {
	sitePath = sitepath.Clean(sitePath)
	switch strings.ToLower(sitepath.Ext(sitePath)) {
	case ".gohtml", ".md", ".markdown":
		return sitepath.TrimExt(sitePath) + ".html"
	case ".tmpl":
		out := sitepath.TrimExt(sitePath)
		if sitepath.Ext(out) == "" {
			out += ".txt"
		}
		return out
	default:
		return sitePath
	}
}
