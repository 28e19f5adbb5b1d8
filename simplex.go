package rasterfx

import (
	"fmt"

	"github.com/ojrac/opensimplex-go"

	"github.com/gogpu/rasterfx/internal/parallel"
)

// GenerateSimplex builds a coherent width×height noise field with the same
// layer plan as GenerateOctaves, but each layer samples OpenSimplex noise
// instead of stretched random pixels. Layer i runs at frequency
// Octaves(width, layers)[i].Scale / width and contributes with weight
// proportional to 1/scale. The result is opaque.
//
// Output depends only on the arguments; rows are independent and honour
// WithWorkers.
func GenerateSimplex(width, height, layers int, grayscale bool, seed int64, opts ...Option) (*Pixmap, error) {
	if width <= 0 || height <= 0 {
		return nil, rejected("simplex", fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height))
	}
	if maxLayers := MaxOctaveLayers(width, height); layers <= 0 || layers > maxLayers {
		return nil, rejected("simplex", fmt.Errorf("%w: %d not in [1, %d] for %dx%d",
			ErrInvalidLayerCount, layers, maxLayers, width, height))
	}

	channels := 3
	if grayscale {
		channels = 1
	}
	noise := make([]opensimplex.Noise, channels)
	for c := range noise {
		noise[c] = opensimplex.New(seed + int64(c))
	}

	plan := Octaves(width, layers)
	freq := make([]float64, len(plan))
	amp := make([]float64, len(plan))
	total := 0.0
	for i, oct := range plan {
		freq[i] = float64(oct.Scale) / float64(width)
		amp[i] = 1 / float64(oct.Scale)
		total += amp[i]
	}

	o := buildOptions(opts)
	out, err := NewPixmap(width, height)
	if err != nil {
		return nil, err
	}
	Logger().Debug("simplex", "width", width, "height", height, "layers", layers, "seed", seed)

	forEachBand(out, o, 1, func(b parallel.Band) {
		var v [3]uint8
		for y := b.Y0; y < b.Y1; y++ {
			row := out.Row(y)
			for x := 0; x < width; x++ {
				for c, n := range noise {
					sum := 0.0
					for i := range plan {
						sum += amp[i] * n.Eval2(float64(x)*freq[i], float64(y)*freq[i])
					}
					// Eval2 is in [-1, 1].
					v[c] = storeByte((sum/total + 1) * 127.5)
				}
				if grayscale {
					v[1], v[2] = v[0], v[0]
				}
				i := x * 4
				row[i+0], row[i+1], row[i+2], row[i+3] = v[0], v[1], v[2], 255
			}
		}
	})
	return out, nil
}
