// Package rawio reads and writes the .rfx container: an uncompressed-size
// header followed by a zstd frame holding straight-alpha RGBA bytes.
//
// Layout (big endian):
//
//	magic  [4]byte "RFX1"
//	width  uint32
//	height uint32
//	pixels zstd frame, width*height*4 bytes once decoded
package rawio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const magic = "RFX1"

// MaxDimension bounds width and height read from a header.
const MaxDimension = 1 << 15

var (
	// ErrInvalidMagic is returned when the stream does not start with "RFX1".
	ErrInvalidMagic = errors.New("rawio: invalid magic")

	// ErrInvalidHeader is returned for zero or oversized dimensions.
	ErrInvalidHeader = errors.New("rawio: invalid header")

	// ErrSizeMismatch is returned when the pixel payload length does not
	// match width*height*4.
	ErrSizeMismatch = errors.New("rawio: pixel data size mismatch")
)

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(uint64(MaxDimension)*MaxDimension*4),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var zstdEncPool = sync.Pool{
	New: func() any {
		return mustNewZstdEncoder()
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		return mustNewZstdDecoder()
	},
}

// Encode writes pix as an .rfx stream.
func Encode(w io.Writer, width, height int, pix []byte) error {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidHeader, width, height)
	}
	if len(pix) != width*height*4 {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(pix), width*height*4)
	}

	var hdr [12]byte
	copy(hdr[:4], magic)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(width))   //nolint:gosec // bounded by MaxDimension
	binary.BigEndian.PutUint32(hdr[8:12], uint32(height)) //nolint:gosec // bounded by MaxDimension

	enc := zstdEncPool.Get().(*zstd.Encoder)
	body := enc.EncodeAll(pix, nil)
	zstdEncPool.Put(enc)

	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("rawio: write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("rawio: write pixels: %w", err)
	}
	return nil
}

// Decode reads an .rfx stream produced by Encode.
func Decode(r io.Reader) (width, height int, pix []byte, err error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, 0, nil, fmt.Errorf("rawio: read header: %w", err)
	}
	if !bytes.Equal(hdr[:4], []byte(magic)) {
		return 0, 0, nil, ErrInvalidMagic
	}
	w := binary.BigEndian.Uint32(hdr[4:8])
	h := binary.BigEndian.Uint32(hdr[8:12])
	if w == 0 || h == 0 || w > MaxDimension || h > MaxDimension {
		return 0, 0, nil, fmt.Errorf("%w: %dx%d", ErrInvalidHeader, w, h)
	}
	width, height = int(w), int(h)
	size := width * height * 4

	dec := zstdDecPool.Get().(*zstd.Decoder)
	defer zstdDecPool.Put(dec)
	if err := dec.Reset(r); err != nil {
		return 0, 0, nil, fmt.Errorf("rawio: decompress: %w", err)
	}
	defer func() { _ = dec.Reset(nil) }()

	// Decoding stops one byte past the declared size, so a frame that
	// expands further never gets buffered.
	pix = make([]byte, size)
	n, err := io.ReadFull(dec, pix)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return 0, 0, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, n, size)
	case err != nil:
		return 0, 0, nil, fmt.Errorf("rawio: decompress: %w", err)
	}
	var extra [1]byte
	if k, _ := io.ReadFull(dec, extra[:]); k != 0 {
		return 0, 0, nil, fmt.Errorf("%w: more than %d bytes", ErrSizeMismatch, size)
	}
	return width, height, pix, nil
}
