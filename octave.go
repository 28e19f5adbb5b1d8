package rasterfx

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/gogpu/rasterfx/internal/blend"
)

// Octave describes one noise layer: its square side in pixels and the
// opacity it is composited with.
type Octave struct {
	Index  int
	Scale  int
	Weight float64 // 2/Scale, capped at 1
	Alpha  uint8   // round(Weight*255)
}

// MaxOctaveLayers returns the largest layer count GenerateOctaves accepts for
// a width×height target: floor(log2(min(width, height))).
func MaxOctaveLayers(width, height int) int {
	m := min(width, height)
	if m <= 0 {
		return 0
	}
	return bits.Len(uint(m)) - 1
}

// Octaves returns the layer plan for a target width and layer count, coarse
// to fine. Layer i has side width >> (layers - i).
func Octaves(width, layers int) []Octave {
	out := make([]Octave, 0, layers)
	for i := 0; i < layers; i++ {
		scale := width >> (layers - i)
		weight := math.Min(2/float64(scale), 1)
		out = append(out, Octave{
			Index:  i,
			Scale:  scale,
			Weight: weight,
			Alpha:  uint8(math.Round(weight * 255)),
		})
	}
	return out
}

// GenerateOctaves builds a width×height value-noise field from layers random
// square layers.
//
// Layers go from coarse to fine, each with twice the side of the previous
// one. Every layer is filled with independent random pixels (one shared value
// for R, G and B when grayscale is set), stretched to the target size and
// composited source-over onto the result at opacity 2/scale. The output
// starts transparent.
//
// Random values are drawn row-major per layer, R, G, B per pixel (one draw
// per pixel when grayscale), so a deterministic rnd gives byte-identical
// results. layers must be in [1, MaxOctaveLayers(width, height)].
func GenerateOctaves(width, height, layers int, grayscale bool, rnd RandomSource, opts ...Option) (*Pixmap, error) {
	if width <= 0 || height <= 0 {
		return nil, rejected("octaves", fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height))
	}
	if rnd == nil {
		return nil, rejected("octaves", ErrNilRandomSource)
	}
	if maxLayers := MaxOctaveLayers(width, height); layers <= 0 || layers > maxLayers {
		return nil, rejected("octaves", fmt.Errorf("%w: %d not in [1, %d] for %dx%d",
			ErrInvalidLayerCount, layers, maxLayers, width, height))
	}

	o := buildOptions(opts)
	out, err := NewPixmap(width, height)
	if err != nil {
		return nil, err
	}

	for _, oct := range Octaves(width, layers) {
		Logger().Debug("octave layer",
			"layer", oct.Index,
			"scale", oct.Scale,
			"alpha", oct.Alpha)

		layer, err := randomLayer(oct, grayscale, rnd)
		if err != nil {
			return nil, err
		}
		stretched, err := Stretch(layer, width, height, o.interp)
		if err != nil {
			return nil, err
		}
		for y := 0; y < height; y++ {
			blend.CompositeRow(out.Row(y), stretched.Row(y), blend.BlendSourceOver)
		}

		if o.observer != nil {
			o.observer(oct.Index, oct.Scale, out)
		}
	}
	return out, nil
}

// randomLayer fills a scale×scale pixmap with random colors at the octave's
// alpha.
func randomLayer(oct Octave, grayscale bool, rnd RandomSource) (*Pixmap, error) {
	layer, err := NewPixmap(oct.Scale, oct.Scale)
	if err != nil {
		return nil, fmt.Errorf("rasterfx: octave %d: %w", oct.Index, err)
	}
	d := layer.data
	for i := 0; i < len(d); i += 4 {
		if grayscale {
			v := randomByte(rnd)
			d[i+0], d[i+1], d[i+2] = v, v, v
		} else {
			d[i+0] = randomByte(rnd)
			d[i+1] = randomByte(rnd)
			d[i+2] = randomByte(rnd)
		}
		d[i+3] = oct.Alpha
	}
	return layer, nil
}
