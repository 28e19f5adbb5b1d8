// Package blend implements the Porter-Duff operators used when compositing
// noise layers and filling pixel blocks.
//
// Pixels are 8-bit RGBA. Callers hold straight (non-premultiplied) alpha, the
// same layout as image.NRGBA; the operators premultiply internally.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// div255 divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
//
// Alvy Ray Smith's formula. Exact for every product of two bytes, which keeps
// layer compositing reproducible across platforms.
func div255(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint16(a) * uint16(b)))
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// Premultiply converts a straight-alpha color to premultiplied form.
func Premultiply(r, g, b, a byte) (byte, byte, byte, byte) {
	if a == 255 {
		return r, g, b, a
	}
	return mulDiv255(r, a), mulDiv255(g, a), mulDiv255(b, a), a
}

// Unpremultiply converts a premultiplied color back to straight alpha.
// Fully transparent pixels come back as zero.
func Unpremultiply(r, g, b, a byte) (byte, byte, byte, byte) {
	switch a {
	case 0:
		return 0, 0, 0, 0
	case 255:
		return r, g, b, a
	}
	half := uint32(a) / 2
	unp := func(c byte) byte {
		v := (uint32(c)*255 + half) / uint32(a)
		if v > 255 {
			return 255
		}
		return byte(v)
	}
	return unp(r), unp(g), unp(b), a
}
