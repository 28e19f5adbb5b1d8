package rasterfx

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/gogpu/rasterfx/internal/rawio"
)

// ToImage copies the pixmap into a new image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from any image, converting to straight alpha.
func FromImage(img image.Image) (*Pixmap, error) {
	b := img.Bounds()
	pm, err := NewPixmap(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < pm.height; y++ {
			start := (b.Min.Y-nrgba.Rect.Min.Y+y)*nrgba.Stride + (b.Min.X-nrgba.Rect.Min.X)*4
			copy(pm.Row(y), nrgba.Pix[start:start+pm.width*4])
		}
		return pm, nil
	}

	draw.Draw(pm.nrgba(), pm.Bounds(), img, b.Min, draw.Src)
	return pm, nil
}

// EncodePNG writes the pixmap as PNG.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, p.nrgba()); err != nil {
		return fmt.Errorf("rasterfx: encode PNG: %w", err)
	}
	return nil
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("rasterfx: create file: %w", err)
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// DecodePNG reads a PNG image into a new pixmap.
func DecodePNG(r io.Reader) (*Pixmap, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("rasterfx: decode PNG: %w", err)
	}
	return FromImage(img)
}

// LoadPNG loads a PNG file into a new pixmap.
func LoadPNG(path string) (*Pixmap, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("rasterfx: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodePNG(f)
}

// EncodeRaw writes the exact pixel bytes as a zstd-compressed .rfx stream.
func (p *Pixmap) EncodeRaw(w io.Writer) error {
	return rawio.Encode(w, p.width, p.height, p.data)
}

// DecodeRaw reads a stream written by EncodeRaw.
func DecodeRaw(r io.Reader) (*Pixmap, error) {
	w, h, data, err := rawio.Decode(r)
	if err != nil {
		return nil, err
	}
	return PixmapFromData(w, h, data)
}
