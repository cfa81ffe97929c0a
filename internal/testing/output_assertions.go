package testing

import (
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// OutputAssertions checks a generated site tree. Paths are site paths such as
// "/posts/hello.html".
type OutputAssertions struct {
	t    *testing.T
	root string
}

// NewOutputAssertions creates assertions over the output directory root.
func NewOutputAssertions(t *testing.T, root string) *OutputAssertions {
	return &OutputAssertions{t: t, root: root}
}

func (oa *OutputAssertions) osPath(sitePath string) string {
	return filepath.Join(oa.root, filepath.FromSlash(strings.TrimPrefix(sitePath, "/")))
}

// Page returns the content of a published file, failing the test when it is absent.
func (oa *OutputAssertions) Page(sitePath string) string {
	oa.t.Helper()
	content, err := os.ReadFile(oa.osPath(sitePath))
	if err != nil {
		oa.t.Fatalf("Expected %s to be published: %v", sitePath, err)
	}
	return string(content)
}

// AssertPageContains validates that a published page contains every fragment.
func (oa *OutputAssertions) AssertPageContains(sitePath string, fragments ...string) *OutputAssertions {
	oa.t.Helper()
	content := oa.Page(sitePath)
	for _, f := range fragments {
		if !strings.Contains(content, f) {
			oa.t.Errorf("Expected %s to contain %q\nActual content:\n%s", sitePath, f, content)
		}
	}
	return oa
}

// AssertNotPublished validates that nothing was written for a site path.
func (oa *OutputAssertions) AssertNotPublished(sitePath string) *OutputAssertions {
	oa.t.Helper()
	if _, err := os.Stat(oa.osPath(sitePath)); err == nil {
		oa.t.Errorf("Expected %s not to be published", sitePath)
	}
	return oa
}

// AssertDerivative validates that a derivative image exists with the given pixel size.
func (oa *OutputAssertions) AssertDerivative(sitePath string, width, height int) *OutputAssertions {
	oa.t.Helper()
	f, err := os.Open(oa.osPath(sitePath))
	if err != nil {
		oa.t.Errorf("Expected derivative %s: %v", sitePath, err)
		return oa
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		oa.t.Errorf("Failed to decode derivative %s: %v", sitePath, err)
		return oa
	}
	if cfg.Width != width || cfg.Height != height {
		oa.t.Errorf("Expected derivative %s to be %dx%d, got %dx%d", sitePath, width, height, cfg.Width, cfg.Height)
	}
	return oa
}

// Derivatives returns the sorted file names in the images directory of a collection.
func (oa *OutputAssertions) Derivatives(collection string) []string {
	oa.t.Helper()
	entries, err := os.ReadDir(oa.osPath("/" + collection + "/images"))
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
