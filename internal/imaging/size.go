// Package imaging computes derivative sizes and writes resized,
// orientation-corrected copies of photo assets.
package imaging

import (
	"fmt"
	"math"
)

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

// Scale multiplies both dimensions by f, rounding to the nearest pixel.
func (s Size) Scale(f float64) Size {
	return Size{
		Width:  int(math.Round(float64(s.Width) * f)),
		Height: int(math.Round(float64(s.Height) * f)),
	}
}

// Divide divides both dimensions by d using integer division.
func (s Size) Divide(d int) Size {
	return Size{Width: s.Width / d, Height: s.Height / d}
}

// Swap exchanges width and height.
func (s Size) Swap() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// IsZero reports whether either dimension is not positive.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// LimitSize fits src into the bounding box limit, preserving the aspect ratio.
// Width is fitted first; if the height still exceeds the limit it is fitted
// instead. A source that already fits is returned unchanged.
func LimitSize(src, limit Size) Size {
	if src.IsZero() {
		return src
	}
	out := src
	if src.Width > limit.Width {
		out = Size{Width: limit.Width, Height: limit.Width * src.Height / src.Width}
	}
	if out.Height > limit.Height {
		out = Size{Width: limit.Height * src.Width / src.Height, Height: limit.Height}
	}
	return out
}
