package rasterfx

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/rasterfx/internal/parallel"
)

// DitherAlgorithm selects how Dither reduces color precision.
type DitherAlgorithm uint8

const (
	// DitherBasic requantizes each RGB channel to Factor levels and forces
	// alpha to opaque.
	DitherBasic DitherAlgorithm = iota

	// DitherFloydSteinberg requantizes like DitherBasic and diffuses the
	// quantization error to the unvisited neighbours.
	DitherFloydSteinberg

	// DitherBayer thresholds each channel to 0 or 255 against an ordered
	// matrix. Alpha is left untouched.
	DitherBayer
)

// String returns the flag-style name of the algorithm.
func (a DitherAlgorithm) String() string {
	switch a {
	case DitherBasic:
		return "basic"
	case DitherFloydSteinberg:
		return "floyd"
	case DitherBayer:
		return "bayer"
	default:
		return fmt.Sprintf("DitherAlgorithm(%d)", uint8(a))
	}
}

// ParseDitherAlgorithm maps a name ("basic", "floyd", "floyd-steinberg",
// "bayer") to its algorithm. Matching is case-insensitive.
func ParseDitherAlgorithm(s string) (DitherAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return DitherBasic, nil
	case "floyd", "floyd-steinberg", "floydsteinberg":
		return DitherFloydSteinberg, nil
	case "bayer", "ordered":
		return DitherBayer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}

// Default factors per algorithm.
const (
	DefaultQuantizeFactor = 8
	DefaultBayerFactor    = 4
)

// DitherOptions selects the algorithm and its factor. For DitherBasic and
// DitherFloydSteinberg the factor is the number of levels per channel; for
// DitherBayer it is the threshold map size (4 or 8).
type DitherOptions struct {
	Algorithm DitherAlgorithm
	Factor    int
}

// NewDitherOptions returns options for alg with its default factor.
func NewDitherOptions(alg DitherAlgorithm) DitherOptions {
	if alg == DitherBayer {
		return DitherOptions{Algorithm: alg, Factor: DefaultBayerFactor}
	}
	return DitherOptions{Algorithm: alg, Factor: DefaultQuantizeFactor}
}

// Validate reports whether the options can be applied.
func (o DitherOptions) Validate() error {
	switch o.Algorithm {
	case DitherBasic, DitherFloydSteinberg:
		if o.Factor <= 0 {
			return fmt.Errorf("%w: %d", ErrUnsupportedFactor, o.Factor)
		}
	case DitherBayer:
		if _, ok := bayerThresholdMaps[o.Factor]; !ok {
			return fmt.Errorf("%w: no %dx%d threshold map", ErrUnsupportedFactor, o.Factor, o.Factor)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, uint8(o.Algorithm))
	}
	return nil
}

// floydSteinbergKernel lists the forward neighbours and their weights in
// sixteenths.
var floydSteinbergKernel = [4]struct {
	dx, dy, weight int
}{
	{1, 0, 7},
	{-1, 1, 3},
	{0, 1, 5},
	{1, 1, 1},
}

// Dither reduces the color precision of pm in place.
//
// Pixels are visited row-major from the top-left. DitherBasic and DitherBayer
// are per-pixel and honour WithWorkers; DitherFloydSteinberg always runs on
// the caller's goroutine because each pixel depends on its upstream
// neighbours.
func Dither(pm *Pixmap, do DitherOptions, opts ...Option) error {
	if pm == nil {
		return rejected("dither", ErrNilPixmap)
	}
	if err := do.Validate(); err != nil {
		return rejected("dither", err, "algorithm", do.Algorithm, "factor", do.Factor)
	}

	o := buildOptions(opts)
	Logger().Debug("dither",
		"algorithm", do.Algorithm,
		"factor", do.Factor,
		"width", pm.width,
		"height", pm.height,
		"workers", o.workers)

	switch do.Algorithm {
	case DitherFloydSteinberg:
		ditherFloydSteinberg(pm, do.Factor)
	case DitherBayer:
		m := bayerThresholdMaps[do.Factor]
		forEachBand(pm, o, 1, func(b parallel.Band) { ditherBayerRows(pm, m, b) })
	default:
		step := quantizeStep(do.Factor)
		forEachBand(pm, o, 1, func(b parallel.Band) { ditherBasicRows(pm, step, b) })
	}
	return nil
}

// forEachBand runs fn over row bands of pm, in parallel when o asks for it.
func forEachBand(pm *Pixmap, o options, align int, fn func(parallel.Band)) {
	pool := o.pool()
	if pool != nil {
		defer pool.Close()
	}
	parallel.ForEachBand(pool, pm.height, align, fn)
}

func quantizeStep(factor int) float64 {
	return 256 / float64(factor)
}

// quantize rounds v to the nearest multiple of step, halves away from zero
// towards +Inf.
func quantize(v, step float64) float64 {
	return math.Floor(v/step+0.5) * step
}

// storeByte saturates v to [0, 255] and rounds half to even.
func storeByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.RoundToEven(v))
}

func ditherBasicRows(pm *Pixmap, step float64, b parallel.Band) {
	for y := b.Y0; y < b.Y1; y++ {
		row := pm.Row(y)
		for i := 0; i < len(row); i += 4 {
			row[i+0] = storeByte(quantize(float64(row[i+0]), step))
			row[i+1] = storeByte(quantize(float64(row[i+1]), step))
			row[i+2] = storeByte(quantize(float64(row[i+2]), step))
			row[i+3] = 255
		}
	}
}

func ditherBayerRows(pm *Pixmap, m thresholdMap, b parallel.Band) {
	const cut = 127
	for y := b.Y0; y < b.Y1; y++ {
		row := pm.Row(y)
		for x := 0; x < pm.width; x++ {
			t := float64(m.at(x, y))
			i := x * 4
			for c := 0; c < 3; c++ {
				mapped := math.Floor((float64(row[i+c]) + t) / m.divisor)
				if mapped < cut {
					row[i+c] = 0
				} else {
					row[i+c] = 255
				}
			}
		}
	}
}

// ditherFloydSteinberg carries channel values in a float plane so diffused
// error can push them outside [0, 255] until the pixel is quantized. Only the
// stored byte saturates; the error is measured against that stored byte.
func ditherFloydSteinberg(pm *Pixmap, factor int) {
	step := quantizeStep(factor)
	w, h := pm.width, pm.height

	plane := make([]float64, w*h*3)
	for p := 0; p < w*h; p++ {
		plane[p*3+0] = float64(pm.data[p*4+0])
		plane[p*3+1] = float64(pm.data[p*4+1])
		plane[p*3+2] = float64(pm.data[p*4+2])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := x + y*w
			var errs [3]float64
			for c := 0; c < 3; c++ {
				v := plane[p*3+c]
				q := storeByte(quantize(v, step))
				pm.data[p*4+c] = q
				errs[c] = v - float64(q)
			}
			pm.data[p*4+3] = 255
			diffuseError(plane, w, h, x, y, errs)
		}
	}
}

// diffuseError adds the weighted error of pixel (x, y) to its forward
// neighbours in an RGB float plane. Neighbours outside the plane are skipped,
// never wrapped onto the adjacent row.
func diffuseError(plane []float64, w, h, x, y int, errs [3]float64) {
	for _, k := range floydSteinbergKernel {
		nx, ny := x+k.dx, y+k.dy
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			continue
		}
		f := float64(k.weight) / 16
		n := (nx + ny*w) * 3
		plane[n+0] += errs[0] * f
		plane[n+1] += errs[1] * f
		plane[n+2] += errs[2] * f
	}
}
