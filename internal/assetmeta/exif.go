package assetmeta

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"golang.org/x/text/encoding/unicode"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/bollard/internal/attrs"
)

// ExifStore reads EXIF tags and an optional YAML sidecar next to the asset.
// Sidecar values take precedence. For photo.jpg the sidecar is photo.jpg.yaml
// or photo.yaml.
type ExifStore struct{}

// sidecar is the YAML document that can accompany an asset.
type sidecar struct {
	Title     string     `yaml:"title"`
	Comment   string     `yaml:"comment"`
	Tags      []string   `yaml:"tags"`
	Date      *time.Time `yaml:"date"`
	Latitude  *float64   `yaml:"latitude"`
	Longitude *float64   `yaml:"longitude"`
}

type mapHandle attrs.Map

func (h mapHandle) Value(k Key) (attrs.Value, bool) {
	return attrs.Map(h).Lookup(string(k))
}

// Open reads the metadata of the asset at path.
func (ExifStore) Open(path string) (Handle, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}

	values := attrs.Map{
		string(KeyWidth):  attrs.Int(cfg.Width),
		string(KeyHeight): attrs.Int(cfg.Height),
	}

	x, err := exif.Decode(bytes.NewReader(content))
	if err == nil || (x != nil && !exif.IsCriticalError(err)) {
		readExif(x, values)
	}

	sc, err := readSidecar(path)
	if err != nil {
		return nil, err
	}
	if sc != nil {
		applySidecar(sc, values)
	}
	return mapHandle(values), nil
}

func readExif(x *exif.Exif, values attrs.Map) {
	setString := func(k Key, s string) {
		if s = strings.TrimSpace(s); s != "" && !values.Has(string(k)) {
			values.Set(string(k), attrs.String(s))
		}
	}

	setString(KeyTitle, xpString(x, exif.XPTitle))
	setString(KeyTitle, asciiString(x, exif.ImageDescription))
	setString(KeyComment, xpString(x, exif.XPComment))
	setString(KeyComment, userComment(x))
	setString(KeyKeywords, xpString(x, exif.XPKeywords))

	if t, err := x.DateTime(); err == nil {
		values.Set(string(KeyDateTaken), attrs.Time(t))
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil {
			values.Set(string(KeyOrientation), attrs.Int(o))
		}
	}

	if dms, ok := rationals(x, exif.GPSLatitude); ok {
		values.Set(string(KeyLatitude), dms)
		setString(KeyLatitudeRef, asciiString(x, exif.GPSLatitudeRef))
	}
	if dms, ok := rationals(x, exif.GPSLongitude); ok {
		values.Set(string(KeyLongitude), dms)
		setString(KeyLongitudeRef, asciiString(x, exif.GPSLongitudeRef))
	}
}

func asciiString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimRight(s, "\x00")
}

// xpString decodes a Windows XP tag, stored as little-endian UTF-16 bytes.
func xpString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	return decodeUTF16(tag.Val)
}

func decodeUTF16(b []byte) string {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\x00")
}

// userComment decodes the EXIF UserComment, whose first eight bytes name the
// character code.
func userComment(x *exif.Exif) string {
	tag, err := x.Get(exif.UserComment)
	if err != nil || len(tag.Val) < 8 {
		return ""
	}
	code, body := string(bytes.TrimRight(tag.Val[:8], "\x00 ")), tag.Val[8:]
	switch code {
	case "UNICODE":
		return decodeUTF16(body)
	case "ASCII", "":
		return strings.TrimRight(string(body), "\x00 ")
	default:
		return ""
	}
}

func rationals(x *exif.Exif, name exif.FieldName) (attrs.Value, bool) {
	tag, err := x.Get(name)
	if err != nil || tag.Format() != tiff.RatVal {
		return attrs.Value{}, false
	}
	items := make([]attrs.Value, 0, tag.Count)
	for i := range int(tag.Count) {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return attrs.Value{}, false
		}
		items = append(items, attrs.Float(float64(num)/float64(den)))
	}
	return attrs.List(items...), len(items) > 0
}

func readSidecar(path string) (*sidecar, error) {
	candidates := []string{
		path + ".yaml",
		strings.TrimSuffix(path, filepath.Ext(path)) + ".yaml",
	}
	for _, p := range candidates {
		content, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var sc sidecar
		if err := yaml.Unmarshal(content, &sc); err != nil {
			return nil, fmt.Errorf("parse sidecar %s: %w", p, err)
		}
		return &sc, nil
	}
	return nil, nil
}

func applySidecar(sc *sidecar, values attrs.Map) {
	if sc.Title != "" {
		values.Set(string(KeyTitle), attrs.String(sc.Title))
	}
	if sc.Comment != "" {
		values.Set(string(KeyComment), attrs.String(sc.Comment))
	}
	if len(sc.Tags) > 0 {
		values.Set(string(KeyKeywords), attrs.FromAny(sc.Tags))
	}
	if sc.Date != nil {
		values.Set(string(KeyDateTaken), attrs.Time(*sc.Date))
	}
	if sc.Latitude != nil {
		values.Set(string(KeyLatitude), attrs.Float(*sc.Latitude))
		values.Delete(string(KeyLatitudeRef))
	}
	if sc.Longitude != nil {
		values.Set(string(KeyLongitude), attrs.Float(*sc.Longitude))
		values.Delete(string(KeyLongitudeRef))
	}
}
