package site

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"

	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/frontmatter"
	"git.home.luguber.info/inful/bollard/internal/logfields"
	"git.home.luguber.info/inful/bollard/internal/metrics"
	"git.home.luguber.info/inful/bollard/internal/sitepath"
	"git.home.luguber.info/inful/bollard/internal/templating"
)

// pageAttrs builds the attributes of a walked page: the defaults for its
// source path, then fields, then the computed location fields.
func (s *Site) pageAttrs(sourcePath, outPath string, fields attrs.Map) attrs.Map {
	page := s.defaults.Resolve(sourcePath, "")
	page.Merge(fields.Clone())
	name := outPath[strings.LastIndex(outPath, "/")+1:]
	page.Set("Name", attrs.String(sitepath.TrimExt(name)))
	page.Set("Path", attrs.String(outPath))
	page.Set("Url", attrs.String(strings.TrimRight(s.cfg.BaseURL, "/")+outPath))
	page.Set("Source", attrs.String(sourcePath))
	return page
}

func (s *Site) renderTemplatePage(sitePath string) error {
	unit, err := s.engine.Load(sitePath)
	if err != nil {
		return err
	}
	var fields attrs.Map
	if mu, ok := unit.(templating.MetaUnit); ok {
		fields = mu.Meta()
	}

	outPath := OutputPath(sitePath)
	return s.runPage(unit, sitePath, outPath, s.pageAttrs(sitePath, outPath, fields))
}

func (s *Site) renderMarkdownPage(sitePath string) error {
	osPath, err := s.resolver.SourcePath(sitePath)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(osPath)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read page").
			WithContext("path", osPath).
			Build()
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRender, "invalid page frontmatter").
			WithContext("path", sitePath).
			Build()
	}
	html, err := s.converter.ToHTML(doc.Body)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRender, "markdown conversion failed").
			WithContext("path", sitePath).
			Build()
	}
	fingerprint, err := frontmatter.Fingerprint(doc.Fields, doc.Body)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRender, "failed to fingerprint page").
			WithContext("path", sitePath).
			Build()
	}

	outPath := OutputPath(sitePath)
	page := s.pageAttrs(sitePath, outPath, doc.Attrs())
	page.Set("Fingerprint", attrs.String(fingerprint))

	unit := templating.UnitFunc(sitePath, templating.FlavorHTML, func(sess *templating.Session) error {
		sess.WriteLiteral(html)
		if layout := sess.Page().Str("Layout"); layout != "" {
			sess.SetLayout(layout)
		}
		return nil
	})
	return s.runPage(unit, sitePath, outPath, page)
}

func (s *Site) runPage(unit templating.Unit, sitePath, outPath string, page attrs.Map) error {
	out, err := templating.NewSession(unit).Run(templating.Context{
		Site:   s.siteAttrs,
		Page:   page,
		Lookup: s.Lookup,
	})
	if err != nil {
		return err
	}
	if err := s.WriteOutput(outPath, []byte(out)); err != nil {
		return err
	}
	s.Recorder().IncFileOutcome(metrics.FileRendered)
	s.logger.Debug("Rendered", logfields.SitePath(sitePath), logfields.Path(outPath))
	return nil
}

// copyStatic copies a file unless the destination exists and is not older
// than the source. The copy takes the source modification time.
func (s *Site) copyStatic(sitePath string) error {
	src, err := s.resolver.SourcePath(sitePath)
	if err != nil {
		return err
	}
	dst, err := s.resolver.DestPath(sitePath)
	if err != nil {
		return err
	}
	s.claimOutput(sitePath)

	srcInfo, err := os.Stat(src)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to stat source").
			WithContext("path", src).
			Build()
	}
	dstInfo, err := os.Stat(dst)
	switch {
	case err == nil && !dstInfo.ModTime().Before(srcInfo.ModTime()):
		s.Recorder().IncFileOutcome(metrics.FileUpToDate)
		return nil
	case err != nil && !stderrors.Is(err, fs.ErrNotExist):
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to stat destination").
			WithContext("path", dst).
			Build()
	}

	if err := s.copyFile(src, dst, srcInfo); err != nil {
		return err
	}
	s.Recorder().IncFileOutcome(metrics.FileCopied)
	s.logger.Debug("Copied", logfields.SitePath(sitePath))
	return nil
}
