// Package rasterfx provides in-place effects for RGBA pixel buffers.
//
// # Overview
//
// rasterfx works on a Pixmap: a width×height buffer of straight-alpha RGBA
// bytes laid out row by row. On top of it the package offers:
//
//   - Dither: basic requantization, Floyd-Steinberg error diffusion and
//     ordered (Bayer) dithering
//   - GenerateOctaves: a layered value-noise field built from random
//     low-resolution layers stretched and composited source-over
//   - Pixelate: box-filter pixelation by block averaging
//   - Scale and Stretch: resampling through golang.org/x/image/draw
//
// # Quick Start
//
//	import "github.com/gogpu/rasterfx"
//
//	rnd := rasterfx.NewLCG(42)
//	pm, err := rasterfx.GenerateOctaves(256, 256, 6, true, rnd)
//	if err != nil {
//		return err
//	}
//	_ = rasterfx.Dither(pm, rasterfx.NewDitherOptions(rasterfx.DitherFloydSteinberg))
//	_ = rasterfx.Pixelate(pm, 8)
//	_ = pm.SavePNG("noise.png")
//
// # Ownership
//
// Operations take a *Pixmap and own it until they return. Floyd-Steinberg
// diffusion and octave compositing are strictly sequential; the per-pixel
// passes (basic quantization, Bayer thresholding, block averaging) can fan
// out across row bands with WithWorkers.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
package rasterfx
