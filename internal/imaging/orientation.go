package imaging

// Orientation is an EXIF orientation code, 1 through 8.
type Orientation int

// OrientationNormal needs no correction.
const OrientationNormal Orientation = 1

// Transform is a rotate/flip operation applied to correct an orientation.
type Transform int

const (
	TransformNone Transform = iota
	TransformFlipH
	TransformRotate180
	TransformFlipV
	TransformTranspose
	TransformRotate90CW
	TransformRotate270CW
)

func (t Transform) String() string {
	switch t {
	case TransformFlipH:
		return "flip-h"
	case TransformRotate180:
		return "rotate-180"
	case TransformFlipV:
		return "flip-v"
	case TransformTranspose:
		return "transpose"
	case TransformRotate90CW:
		return "rotate-90cw"
	case TransformRotate270CW:
		return "rotate-270cw"
	default:
		return "none"
	}
}

// Transform returns the correction for o. Code 7 is not supported and, like
// codes outside 1-8, maps to no transform.
func (o Orientation) Transform() Transform {
	switch o {
	case 2:
		return TransformFlipH
	case 3:
		return TransformRotate180
	case 4:
		return TransformFlipV
	case 5:
		return TransformTranspose
	case 6:
		return TransformRotate90CW
	case 8:
		return TransformRotate270CW
	default:
		return TransformNone
	}
}

// SwapsAxes reports whether correcting o exchanges width and height.
func (o Orientation) SwapsAxes() bool {
	switch o.Transform() {
	case TransformTranspose, TransformRotate90CW, TransformRotate270CW:
		return true
	default:
		return false
	}
}

// DisplaySize returns the size of a raw raster once o has been corrected.
func (o Orientation) DisplaySize(raw Size) Size {
	if o.SwapsAxes() {
		return raw.Swap()
	}
	return raw
}
