package imaging

import (
	stderrors "errors"
	"image"
	"io"
	"io/fs"
	"os"

	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
)

// Generator writes derivative files.
type Generator struct {
	Codec Codec
}

// NewGenerator returns a generator using c, or StdCodec when c is nil.
func NewGenerator(c Codec) *Generator {
	if c == nil {
		c = StdCodec{Quality: DefaultQuality}
	}
	return &Generator{Codec: c}
}

// Generate writes the derivative of src to dst at the display size target.
// native is the display size of src. It returns false without touching dst
// when dst already exists; creation is exclusive so concurrent generators
// never write the same file twice.
func (g *Generator) Generate(src, dst string, native, target Size, o Orientation) (created bool, err error) {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if stderrors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to create derivative").
			WithContext("path", dst).
			Build()
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.WrapError(cerr, errors.CategoryFileSystem, "failed to close derivative").
				WithContext("path", dst).
				Build()
		}
		if err != nil {
			_ = os.Remove(dst)
			created = false
		}
	}()

	in, err := os.Open(src)
	if err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to open source image").
			WithContext("path", src).
			Build()
	}
	defer func() { _ = in.Close() }()

	if target == native && o.Transform() == TransformNone {
		if _, err := io.Copy(out, in); err != nil {
			return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to copy source image").
				WithContext("path", dst).
				Build()
		}
		return true, nil
	}

	raw, err := g.Codec.Decode(in)
	if err != nil {
		return false, errors.WrapError(err, errors.CategoryAssetMetadata, "failed to decode source image").
			WithContext("path", src).
			Build()
	}

	var img image.Image
	if target != native {
		img = Correct(g.Codec, raw, target, o)
	} else {
		img = g.Codec.RotateFlip(raw, o.Transform())
	}

	if err := g.Codec.Encode(out, img); err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to encode derivative").
			WithContext("path", dst).
			Build()
	}
	return true, nil
}
