package rasterfx

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rasterfx/internal/rawio"
)

// MaxDimension is the largest accepted width or height. It matches the .rfx
// header limit and keeps width*height*4 well inside int.
const MaxDimension = rawio.MaxDimension

func validSize(width, height int) bool {
	return width > 0 && height > 0 && width <= MaxDimension && height <= MaxDimension
}

// Pixmap is a rectangular RGBA pixel buffer with straight (non-premultiplied)
// alpha. Pixel (x, y) occupies the four bytes at (x + y*width)*4.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a transparent pixmap with the given dimensions. Both must
// be in [1, MaxDimension].
func NewPixmap(width, height int) (*Pixmap, error) {
	if !validSize(width, height) {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}, nil
}

// PixmapFromData wraps data without copying. data must hold exactly
// width*height*4 bytes.
func PixmapFromData(width, height int, data []uint8) (*Pixmap, error) {
	if !validSize(width, height) || len(data) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrInvalidDimensions, width, height, len(data))
	}
	return &Pixmap{width: width, height: height, data: data}, nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// InBounds reports whether (x, y) addresses a pixel.
func (p *Pixmap) InBounds(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// PixelOffset returns the byte offset of pixel (x, y), or -1 when the
// coordinates are out of bounds.
func (p *Pixmap) PixelOffset(x, y int) int {
	if !p.InBounds(x, y) {
		return -1
	}
	return (x + y*p.width) * 4
}

// RGBA returns the channels of pixel (x, y).
// Returns (0,0,0,0) if coordinates are out of bounds.
func (p *Pixmap) RGBA(x, y int) (r, g, b, a uint8) {
	i := p.PixelOffset(x, y)
	if i < 0 {
		return 0, 0, 0, 0
	}
	return p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]
}

// SetRGBA sets the channels of pixel (x, y). Writes outside the pixmap are
// dropped.
func (p *Pixmap) SetRGBA(x, y int, r, g, b, a uint8) {
	i := p.PixelOffset(x, y)
	if i < 0 {
		return
	}
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// Row returns the bytes of row y, or nil if y is out of bounds.
func (p *Pixmap) Row(y int) []uint8 {
	if y < 0 || y >= p.height {
		return nil
	}
	stride := p.width * 4
	return p.data[y*stride : (y+1)*stride]
}

// Pixels calls fn for every pixel in row-major order with the pixel
// coordinates and its byte offset into Data.
func (p *Pixmap) Pixels(fn func(x, y, off int)) {
	off := 0
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			fn(x, y, off)
			off += 4
		}
	}
}

// Fill sets every pixel to the given color.
func (p *Pixmap) Fill(r, g, b, a uint8) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// Clear makes every pixel transparent black.
func (p *Pixmap) Clear() {
	clear(p.data)
}

// Clone returns a deep copy.
func (p *Pixmap) Clone() *Pixmap {
	data := make([]uint8, len(p.data))
	copy(data, p.data)
	return &Pixmap{width: p.width, height: p.height, data: data}
}

// Equal reports whether both pixmaps have the same size and bytes.
func (p *Pixmap) Equal(o *Pixmap) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.width != o.width || p.height != o.height {
		return false
	}
	for i := range p.data {
		if p.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// TextureFormat returns the GPU texture format matching the pixel layout,
// for hosts that upload the buffer as a texture.
func (p *Pixmap) TextureFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Extent returns the texture size of the pixmap.
func (p *Pixmap) Extent() gputypes.Extent3D {
	return gputypes.Extent3D{
		Width:              uint32(p.width),  //nolint:gosec // positive by construction
		Height:             uint32(p.height), //nolint:gosec // positive by construction
		DepthOrArrayLayers: 1,
	}
}

// nrgba returns an image.NRGBA view sharing the pixmap's memory.
func (p *Pixmap) nrgba() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.data,
		Stride: p.width * 4,
		Rect:   image.Rect(0, 0, p.width, p.height),
	}
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	r, g, b, a := p.RGBA(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
