package site

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/logfields"
)

// EnsureDir creates osPath and its parents once per build.
func (s *Site) EnsureDir(osPath string) error {
	if s.dirs.Has(osPath) {
		return nil
	}
	if err := os.MkdirAll(osPath, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
			WithContext("path", osPath).
			Build()
	}
	s.dirs.Add(osPath)
	return nil
}

// WriteOutput writes content to the destination of a site path.
func (s *Site) WriteOutput(sitePath string, content []byte) error {
	dst, err := s.resolver.DestPath(sitePath)
	if err != nil {
		return err
	}
	s.claimOutput(sitePath)
	if err := s.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", dst).
			Build()
	}
	return nil
}

// claimOutput warns when two sources publish to the same site path. The last
// writer wins.
func (s *Site) claimOutput(sitePath string) {
	if s.outputs.AddIfAbsent(sitePath) {
		return
	}
	s.report.addDuplicate(sitePath)
	s.logger.Warn("Output path produced more than once", logfields.SitePath(sitePath))
}

func (s *Site) copyFile(src, dst string, srcInfo fs.FileInfo) (err error) {
	if err := s.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to open source").
			WithContext("path", src).
			Build()
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm()|0o200)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create destination").
			WithContext("path", dst).
			Build()
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.WrapError(cerr, errors.CategoryFileSystem, "failed to close destination").
				WithContext("path", dst).
				Build()
		}
		if err == nil {
			if terr := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); terr != nil {
				err = errors.WrapError(terr, errors.CategoryFileSystem, "failed to set modification time").
					WithContext("path", dst).
					Build()
			}
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy file").
			WithContext("path", dst).
			Build()
	}
	return nil
}
