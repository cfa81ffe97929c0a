package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\nLayout: post\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("Layout: post\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\nkey: value\n# Title\n")

	_, _, had, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock_SplitsAsHadWithEmptyFrontmatter(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestParseYAML_ValidYAML_ReturnsMap(t *testing.T) {
	fields, err := ParseYAML([]byte("Title: abc\ntags:\n  - one\n"))
	require.NoError(t, err)
	require.Equal(t, "abc", fields["Title"])
	require.Equal(t, []any{"one"}, fields["tags"])
}

func TestParseYAML_Empty_ReturnsEmptyMap(t *testing.T) {
	fields, err := ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestParseYAML_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := ParseYAML([]byte(": not yaml"))
	require.Error(t, err)
}

func TestParse_ReturnsAttrs(t *testing.T) {
	doc, err := Parse([]byte("---\nTitle: Hello\nWeight: 2\n---\nbody\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, "body\n", string(doc.Body))

	m := doc.Attrs()
	require.Equal(t, "Hello", m.Str("Title"))
	n, ok := m.Get("Weight").Int()
	require.True(t, ok)
	require.Equal(t, 2, n)
}

func TestFingerprint_StableAndContentSensitive(t *testing.T) {
	a, err := Fingerprint(map[string]any{"Title": "A", "Tags": []any{"x"}}, []byte("body"))
	require.NoError(t, err)
	require.NotEmpty(t, a)

	b, err := Fingerprint(map[string]any{"Tags": []any{"x"}, "Title": "A", "fingerprint": "old"}, []byte("body"))
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := Fingerprint(map[string]any{"Title": "A", "Tags": []any{"x"}}, []byte("changed"))
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestSerializeYAML_SortsKeys(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"b": 1, "a": map[string]any{"d": true, "c": "x"}})
	require.NoError(t, err)
	require.Equal(t, "a:\n  c: x\n  d: true\nb: 1\n", string(out))
}
