package blend

// BlendMode represents a Porter-Duff compositing operation.
type BlendMode uint8

const (
	BlendSource     BlendMode = iota // Result: S (replace with source)
	BlendSourceOver                  // Result: S + D*(1-Sa) [default]
)

// String returns the operator name.
func (m BlendMode) String() string {
	switch m {
	case BlendSource:
		return "Source"
	case BlendSourceOver:
		return "SourceOver"
	default:
		return "Unknown"
	}
}

// blendSourceOver composites source over destination.
// All values are premultiplied alpha, 0-255.
// Formula: S + D * (1 - Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

// CompositeRow blends src onto dst pixel by pixel. Both slices hold
// straight-alpha RGBA and must have equal length; the shorter length wins
// otherwise. BlendSource copies the bytes unchanged, so transparent source
// pixels keep their color channels. Unknown modes behave as BlendSourceOver.
func CompositeRow(dst, src []byte, mode BlendMode) {
	n := min(len(dst), len(src)) &^ 3
	if mode == BlendSource {
		copy(dst[:n], src[:n])
		return
	}
	for i := 0; i < n; i += 4 {
		sa := src[i+3]
		if sa == 0 {
			continue
		}
		if sa == 255 {
			copy(dst[i:i+4], src[i:i+4])
			continue
		}
		sr, sg, sb, _ := Premultiply(src[i], src[i+1], src[i+2], sa)
		dr, dg, db, da := Premultiply(dst[i], dst[i+1], dst[i+2], dst[i+3])
		r, g, b, a := blendSourceOver(sr, sg, sb, sa, dr, dg, db, da)
		dst[i], dst[i+1], dst[i+2], dst[i+3] = Unpremultiply(r, g, b, a)
	}
}
