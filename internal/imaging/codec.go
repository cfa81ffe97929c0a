package imaging

import (
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 90

// Codec decodes, transforms and encodes rasters.
type Codec interface {
	Decode(r io.Reader) (image.Image, error)
	Resize(img image.Image, size Size) image.Image
	RotateFlip(img image.Image, t Transform) image.Image
	Encode(w io.Writer, img image.Image) error
}

// StdCodec reads any registered image format and writes JPEG.
type StdCodec struct {
	Quality int
}

// Decode reads a raster. JPEG and PNG decoders are registered.
func (c StdCodec) Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// Resize scales img to size with Catmull-Rom resampling.
func (c StdCodec) Resize(img image.Image, size Size) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// RotateFlip applies t.
func (c StdCodec) RotateFlip(img image.Image, t Transform) image.Image {
	switch t {
	case TransformFlipH:
		return imaging.FlipH(img)
	case TransformRotate180:
		return imaging.Rotate180(img)
	case TransformFlipV:
		return imaging.FlipV(img)
	case TransformTranspose:
		return imaging.Transpose(img)
	case TransformRotate90CW:
		// imaging rotates counter-clockwise.
		return imaging.Rotate270(img)
	case TransformRotate270CW:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// Encode writes img as JPEG.
func (c StdCodec) Encode(w io.Writer, img image.Image) error {
	q := c.Quality
	if q <= 0 || q > 100 {
		q = DefaultQuality
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
}

// Correct resizes raw to the display size target and applies the orientation
// correction. For axis-swapping orientations the interim canvas is allocated
// with target's dimensions swapped.
func Correct(c Codec, raw image.Image, target Size, o Orientation) image.Image {
	interim := target
	if o.SwapsAxes() {
		interim = target.Swap()
	}
	resized := c.Resize(raw, interim)
	return c.RotateFlip(resized, o.Transform())
}
