package rasterfx

import (
	"fmt"
	"math"

	"github.com/gogpu/rasterfx/internal/blend"
	"github.com/gogpu/rasterfx/internal/parallel"
)

// Average is the per-channel mean of a block of pixels.
type Average struct {
	R, G, B, A float64
}

// RGBA rounds the mean to bytes.
func (a Average) RGBA() (r, g, b, alpha uint8) {
	return storeByte(math.Round(a.R)), storeByte(math.Round(a.G)),
		storeByte(math.Round(a.B)), storeByte(math.Round(a.A))
}

// BlockAverage returns the mean color of the w×h block at (x0, y0), clipped
// to the pixmap. An empty intersection returns the zero Average.
func BlockAverage(pm *Pixmap, x0, y0, w, h int) Average {
	x1, y1 := min(x0+w, pm.width), min(y0+h, pm.height)
	x0, y0 = max(x0, 0), max(y0, 0)
	if x0 >= x1 || y0 >= y1 {
		return Average{}
	}

	var sr, sg, sb, sa uint64
	for y := y0; y < y1; y++ {
		row := pm.Row(y)[x0*4 : x1*4]
		for i := 0; i < len(row); i += 4 {
			sr += uint64(row[i+0])
			sg += uint64(row[i+1])
			sb += uint64(row[i+2])
			sa += uint64(row[i+3])
		}
	}
	n := float64((x1 - x0) * (y1 - y0))
	return Average{
		R: float64(sr) / n,
		G: float64(sg) / n,
		B: float64(sb) / n,
		A: float64(sa) / n,
	}
}

// fillBlock copies span over each row of the clipped w×h block at (x0, y0).
// span holds at least w pixels of one color; the block is replaced, not
// blended.
func fillBlock(pm *Pixmap, x0, y0, w, h int, span []byte) {
	x1, y1 := min(x0+w, pm.width), min(y0+h, pm.height)
	for y := y0; y < y1; y++ {
		blend.CompositeRow(pm.Row(y)[x0*4:x1*4], span, blend.BlendSource)
	}
}

// Pixelate replaces every detail×detail block of pm with its average color.
// Blocks on the right and bottom edges are clipped to the pixmap. Applying
// Pixelate twice with the same detail leaves the second result unchanged.
//
// Block rows are independent and honour WithWorkers.
func Pixelate(pm *Pixmap, detail int, opts ...Option) error {
	if pm == nil {
		return rejected("pixelate", ErrNilPixmap)
	}
	if detail <= 0 {
		return rejected("pixelate", fmt.Errorf("%w: %d", ErrInvalidDetail, detail))
	}

	o := buildOptions(opts)
	blocksX := (pm.width + detail - 1) / detail
	blocksY := (pm.height + detail - 1) / detail
	Logger().Debug("pixelate",
		"detail", detail,
		"blocks", blocksX*blocksY,
		"workers", o.workers)

	forEachBand(pm, o, detail, func(band parallel.Band) {
		span := make([]byte, min(detail, pm.width)*4)
		for y := band.Y0; y < band.Y1; y += detail {
			for bx := 0; bx < blocksX; bx++ {
				x := bx * detail
				r, g, b, a := BlockAverage(pm, x, y, detail, detail).RGBA()
				for i := 0; i < len(span); i += 4 {
					span[i+0], span[i+1], span[i+2], span[i+3] = r, g, b, a
				}
				fillBlock(pm, x, y, detail, detail, span)
			}
		}
	})
	return nil
}
