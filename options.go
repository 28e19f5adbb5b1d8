package rasterfx

import (
	"runtime"

	"github.com/gogpu/rasterfx/internal/parallel"
)

// Option configures a single operation call.
//
// Example:
//
//	// Quantize on every core, stretch octave layers with Catmull-Rom
//	_ = rasterfx.Dither(pm, opts, rasterfx.WithWorkers(0))
//	pm, _ := rasterfx.GenerateOctaves(512, 512, 7, false, rnd,
//		rasterfx.WithInterpolation(rasterfx.InterpBicubic))
type Option func(*options)

// LayerObserver is called after each octave layer is composited. The pixmap
// is the accumulating output; observers that keep it must Clone it.
type LayerObserver func(layer, scale int, pm *Pixmap)

type options struct {
	workers  int
	interp   Interpolation
	observer LayerObserver
}

// defaultOptions returns the default operation options.
func defaultOptions() options {
	return options{
		workers: 1,
		interp:  InterpBilinear,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithWorkers spreads row-independent passes over n goroutines.
// n <= 0 uses GOMAXPROCS. The default is 1 (run on the caller's goroutine).
//
// Floyd-Steinberg diffusion and octave compositing ignore this option.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithInterpolation selects the resampler used by Scale and by octave layer
// stretching. The default is InterpBilinear.
func WithInterpolation(mode Interpolation) Option {
	return func(o *options) {
		o.interp = mode
	}
}

// WithLayerObserver registers a callback invoked after each octave layer.
func WithLayerObserver(fn LayerObserver) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// pool returns a worker pool for the configured worker count, or nil when the
// work should stay on the caller's goroutine. Callers must Close a non-nil
// pool.
func (o options) pool() *parallel.WorkerPool {
	if o.workers <= 1 {
		return nil
	}
	return parallel.NewWorkerPool(o.workers)
}
