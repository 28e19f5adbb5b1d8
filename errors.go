package rasterfx

import "errors"

// Validation errors. Every operation checks its arguments before it touches
// the buffer, so a returned error means the pixmap is unchanged.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive
	// or above MaxDimension, or when a data slice does not hold exactly
	// width*height*4 bytes.
	ErrInvalidDimensions = errors.New("rasterfx: invalid dimensions")

	// ErrUnsupportedFactor is returned for a non-positive dither factor, or a
	// Bayer factor without a threshold map.
	ErrUnsupportedFactor = errors.New("rasterfx: unsupported dither factor")

	// ErrUnsupportedAlgorithm is returned for an unknown DitherAlgorithm.
	ErrUnsupportedAlgorithm = errors.New("rasterfx: unsupported dither algorithm")

	// ErrInvalidLayerCount is returned when an octave layer would have a zero
	// scale.
	ErrInvalidLayerCount = errors.New("rasterfx: invalid layer count")

	// ErrInvalidDetail is returned for a non-positive pixelation block size.
	ErrInvalidDetail = errors.New("rasterfx: invalid detail")

	// ErrInvalidFactor is returned for a non-positive or non-finite scale
	// factor.
	ErrInvalidFactor = errors.New("rasterfx: invalid scale factor")

	// ErrNilPixmap is returned when an operation receives a nil *Pixmap.
	ErrNilPixmap = errors.New("rasterfx: nil pixmap")

	// ErrNilRandomSource is returned when octave generation has no
	// RandomSource.
	ErrNilRandomSource = errors.New("rasterfx: nil random source")
)
