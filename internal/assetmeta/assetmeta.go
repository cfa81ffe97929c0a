// Package assetmeta reads the identifying metadata of photo assets.
package assetmeta

import (
	stderrors "errors"
	"io/fs"
	"math"
	"strings"
	"time"

	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/imaging"
)

// Key names a metadata value.
type Key string

const (
	KeyTitle        Key = "Title"
	KeyComment      Key = "Comment"
	KeyKeywords     Key = "Keywords"
	KeyWidth        Key = "Width"
	KeyHeight       Key = "Height"
	KeyDateTaken    Key = "DateTaken"
	KeyLatitude     Key = "Latitude"
	KeyLatitudeRef  Key = "LatitudeRef"
	KeyLongitude    Key = "Longitude"
	KeyLongitudeRef Key = "LongitudeRef"
	KeyOrientation  Key = "Orientation"
)

// Handle gives typed access to the metadata of one opened asset.
type Handle interface {
	Value(key Key) (attrs.Value, bool)
}

// Store opens assets. Open fails with an error wrapping fs.ErrNotExist when
// the asset does not exist.
type Store interface {
	Open(path string) (Handle, error)
}

// Metadata is what the derivative pipeline needs to know about one asset.
type Metadata struct {
	Title       string
	Comment     string
	Taken       time.Time
	Latitude    float64
	Longitude   float64
	Tags        []string
	Size        imaging.Size
	Orientation imaging.Orientation
}

// HasLocation reports whether both coordinates are known.
func (m Metadata) HasLocation() bool {
	return !math.IsNaN(m.Latitude) && !math.IsNaN(m.Longitude)
}

// Read opens path in store and extracts its metadata. Assets without a title
// or capture time are rejected.
func Read(store Store, path string) (Metadata, error) {
	h, err := store.Open(path)
	if err != nil {
		msg := "failed to read asset metadata"
		if stderrors.Is(err, fs.ErrNotExist) {
			msg = "asset not found"
		}
		return Metadata{}, errors.WrapError(err, errors.CategoryAssetMetadata, msg).
			WithContext("path", path).
			Build()
	}

	m := Metadata{
		Latitude:    math.NaN(),
		Longitude:   math.NaN(),
		Orientation: imaging.OrientationNormal,
	}

	m.Title = strings.TrimSpace(str(h, KeyTitle))
	if m.Title == "" {
		return Metadata{}, errors.AssetMetadataError("asset has no title").
			WithContext("path", path).
			WithContext("field", string(KeyTitle)).
			Build()
	}
	taken, ok := h.Value(KeyDateTaken)
	if ok {
		m.Taken, ok = taken.Time()
	}
	if !ok || m.Taken.IsZero() {
		return Metadata{}, errors.AssetMetadataError("asset has no capture time").
			WithContext("path", path).
			WithContext("field", string(KeyDateTaken)).
			Build()
	}

	m.Comment = strings.TrimSpace(str(h, KeyComment))
	m.Tags = tags(h)

	if v, ok := h.Value(KeyOrientation); ok {
		if o, ok := v.Int(); ok && o >= 1 && o <= 8 {
			m.Orientation = imaging.Orientation(o)
		}
	}
	raw := imaging.Size{Width: integer(h, KeyWidth), Height: integer(h, KeyHeight)}
	if raw.IsZero() {
		return Metadata{}, errors.AssetMetadataError("asset has no pixel size").
			WithContext("path", path).
			Build()
	}
	m.Size = m.Orientation.DisplaySize(raw)

	m.Latitude = coordinate(h, KeyLatitude, KeyLatitudeRef, "S")
	m.Longitude = coordinate(h, KeyLongitude, KeyLongitudeRef, "W")
	return m, nil
}

func str(h Handle, k Key) string {
	v, _ := h.Value(k)
	s, _ := v.Str()
	return s
}

func integer(h Handle, k Key) int {
	v, _ := h.Value(k)
	n, _ := v.Int()
	return n
}

func tags(h Handle) []string {
	v, ok := h.Value(KeyKeywords)
	if !ok {
		return nil
	}
	var raw []string
	if s, ok := v.Str(); ok {
		raw = strings.Split(s, ";")
	} else {
		for _, item := range v.Items() {
			raw = append(raw, item.String())
		}
	}
	var out []string
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// coordinate converts a degrees/minutes/seconds list, or a plain decimal
// value, into signed decimal degrees. The value is negated when the reference
// equals negRef. Absent or malformed values are NaN.
func coordinate(h Handle, k, refKey Key, negRef string) float64 {
	v, ok := h.Value(k)
	if !ok {
		return math.NaN()
	}

	deg := math.NaN()
	if f, ok := v.Float(); ok {
		deg = f
	} else if items := v.Items(); len(items) > 0 && len(items) <= 3 {
		deg = 0
		for i, item := range items {
			f, ok := item.Float()
			if !ok {
				return math.NaN()
			}
			deg += f / math.Pow(60, float64(i))
		}
	}

	if strings.EqualFold(strings.TrimSpace(str(h, refKey)), negRef) {
		deg = -deg
	}
	return deg
}
