package assetmeta

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/imaging"
)

// fakeStore serves metadata from memory.
type fakeStore map[string]attrs.Map

func (s fakeStore) Open(path string) (Handle, error) {
	m, ok := s[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return mapHandle(m), nil
}

var taken = time.Date(2020, 1, 2, 10, 0, 0, 0, time.UTC)

func complete() attrs.Map {
	return attrs.Map{
		string(KeyTitle):     attrs.String("The Old Bridge"),
		string(KeyDateTaken): attrs.Time(taken),
		string(KeyWidth):     attrs.Int(4000),
		string(KeyHeight):    attrs.Int(3000),
	}
}

func TestReadComplete(t *testing.T) {
	m := complete()
	m.Set(string(KeyComment), attrs.String(" evening "))
	m.Set(string(KeyKeywords), attrs.String("bridge; river;;"))
	m.Set(string(KeyOrientation), attrs.Int(6))
	m.Set(string(KeyLatitude), attrs.List(attrs.Float(59), attrs.Float(54), attrs.Float(36)))
	m.Set(string(KeyLatitudeRef), attrs.String("N"))
	m.Set(string(KeyLongitude), attrs.List(attrs.Float(10), attrs.Float(45), attrs.Float(0)))
	m.Set(string(KeyLongitudeRef), attrs.String("W"))

	md, err := Read(fakeStore{"a.jpg": m}, "a.jpg")
	require.NoError(t, err)

	assert.Equal(t, "The Old Bridge", md.Title)
	assert.Equal(t, "evening", md.Comment)
	assert.Equal(t, []string{"bridge", "river"}, md.Tags)
	assert.True(t, md.Taken.Equal(taken))
	assert.Equal(t, imaging.Orientation(6), md.Orientation)
	assert.Equal(t, imaging.Size{Width: 3000, Height: 4000}, md.Size)
	assert.InDelta(t, 59.91, md.Latitude, 1e-9)
	assert.InDelta(t, -10.75, md.Longitude, 1e-9)
	assert.True(t, md.HasLocation())
}

func TestReadMissingLocationIsNaN(t *testing.T) {
	md, err := Read(fakeStore{"a.jpg": complete()}, "a.jpg")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(md.Latitude))
	assert.True(t, math.IsNaN(md.Longitude))
	assert.False(t, md.HasLocation())
	assert.Equal(t, imaging.OrientationNormal, md.Orientation)
}

func TestReadDecimalSouth(t *testing.T) {
	m := complete()
	m.Set(string(KeyLatitude), attrs.Float(33.5))
	m.Set(string(KeyLatitudeRef), attrs.String("S"))
	m.Set(string(KeyLongitude), attrs.Float(151.2))

	md, err := Read(fakeStore{"a.jpg": m}, "a.jpg")
	require.NoError(t, err)
	assert.InDelta(t, -33.5, md.Latitude, 1e-9)
	assert.InDelta(t, 151.2, md.Longitude, 1e-9)
}

func TestReadRejectsMissingMandatoryFields(t *testing.T) {
	noTitle := complete()
	noTitle.Delete(string(KeyTitle))
	noDate := complete()
	noDate.Delete(string(KeyDateTaken))

	store := fakeStore{"no-title.jpg": noTitle, "no-date.jpg": noDate}
	for path, field := range map[string]Key{"no-title.jpg": KeyTitle, "no-date.jpg": KeyDateTaken} {
		_, err := Read(store, path)
		require.Error(t, err, path)
		classified, ok := errors.AsClassified(err)
		require.True(t, ok)
		assert.Equal(t, errors.CategoryAssetMetadata, classified.Category())
		got, _ := classified.Context().GetString("field")
		assert.Equal(t, string(field), got)
	}
}

func TestReadNotFound(t *testing.T) {
	_, err := Read(fakeStore{}, "missing.jpg")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAssetMetadata))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func writePlainJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestExifStoreSidecar(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "bridge.jpg")
	writePlainJPEG(t, photo, 32, 24)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bridge.yaml"), []byte(
		"title: Old Bridge\ncomment: At dusk\ntags: [bridge, river]\ndate: 2020-01-02T10:00:00Z\nlatitude: 59.9\nlongitude: 10.75\n",
	), 0o644))

	md, err := Read(ExifStore{}, photo)
	require.NoError(t, err)
	assert.Equal(t, "Old Bridge", md.Title)
	assert.Equal(t, "At dusk", md.Comment)
	assert.Equal(t, []string{"bridge", "river"}, md.Tags)
	assert.True(t, md.Taken.Equal(taken))
	assert.Equal(t, imaging.Size{Width: 32, Height: 24}, md.Size)
	assert.InDelta(t, 59.9, md.Latitude, 1e-9)
}

func TestExifStoreWithoutMetadataIsRejected(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "plain.jpg")
	writePlainJPEG(t, photo, 8, 8)

	_, err := Read(ExifStore{}, photo)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAssetMetadata))
}

func TestDecodeUTF16(t *testing.T) {
	// "Hi" in UTF-16LE with a terminating NUL.
	assert.Equal(t, "Hi", decodeUTF16([]byte{'H', 0, 'i', 0, 0, 0}))
}
