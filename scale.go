package rasterfx

import (
	"fmt"
	"math"

	"golang.org/x/image/draw"
)

// Interpolation selects the resampler used when stretching a pixmap.
type Interpolation uint8

const (
	// InterpNearest selects the closest source pixel. Blocky, exact colors.
	InterpNearest Interpolation = iota

	// InterpBilinear blends the 4 nearest source pixels with a fast
	// approximation of the bilinear kernel.
	InterpBilinear

	// InterpBilinearExact uses the full bilinear kernel, which also filters
	// when shrinking.
	InterpBilinearExact

	// InterpBicubic uses Catmull-Rom splines over a 4x4 neighbourhood.
	InterpBicubic
)

// String returns a string representation of the interpolation mode.
func (m Interpolation) String() string {
	switch m {
	case InterpNearest:
		return "nearest"
	case InterpBilinear:
		return "bilinear"
	case InterpBilinearExact:
		return "bilinear-exact"
	case InterpBicubic:
		return "bicubic"
	default:
		return "unknown"
	}
}

// ParseInterpolation maps a name produced by String back to its mode.
func ParseInterpolation(s string) (Interpolation, error) {
	for _, m := range []Interpolation{InterpNearest, InterpBilinear, InterpBilinearExact, InterpBicubic} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("rasterfx: unknown interpolation %q", s)
}

func (m Interpolation) scaler() draw.Scaler {
	switch m {
	case InterpNearest:
		return draw.NearestNeighbor
	case InterpBilinearExact:
		return draw.BiLinear
	case InterpBicubic:
		return draw.CatmullRom
	default:
		return draw.ApproxBiLinear
	}
}

// Stretch resamples pm into a new width×height pixmap. The source is left
// untouched.
func Stretch(pm *Pixmap, width, height int, mode Interpolation) (*Pixmap, error) {
	if pm == nil {
		return nil, ErrNilPixmap
	}
	dst, err := NewPixmap(width, height)
	if err != nil {
		return nil, err
	}
	if width == pm.width && height == pm.height {
		copy(dst.data, pm.data)
		return dst, nil
	}
	d := dst.nrgba()
	mode.scaler().Scale(d, d.Bounds(), pm.nrgba(), pm.Bounds(), draw.Src, nil)
	return dst, nil
}

// Scale returns a new pixmap of round(w*factor) × round(h*factor) holding a
// resampled copy of pm. The interpolation defaults to InterpBilinear; see
// WithInterpolation.
func Scale(pm *Pixmap, factor float64, opts ...Option) (*Pixmap, error) {
	if pm == nil {
		return nil, rejected("scale", ErrNilPixmap)
	}
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, rejected("scale", fmt.Errorf("%w: %v", ErrInvalidFactor, factor))
	}

	fw := math.Round(float64(pm.width) * factor)
	fh := math.Round(float64(pm.height) * factor)
	if fw < 1 || fh < 1 || fw > MaxDimension || fh > MaxDimension {
		return nil, rejected("scale", fmt.Errorf("%w: %vx scale of %dx%d gives %.0fx%.0f",
			ErrInvalidDimensions, factor, pm.width, pm.height, fw, fh))
	}
	w, h := int(fw), int(fh)

	o := buildOptions(opts)
	Logger().Debug("scale",
		"factor", factor,
		"from", fmt.Sprintf("%dx%d", pm.width, pm.height),
		"to", fmt.Sprintf("%dx%d", w, h),
		"interp", o.interp)
	return Stretch(pm, w, h, o.interp)
}
