package rasterfx

import "math"

// RandomSource supplies uniform pseudo-random numbers in [0, 1).
//
// *math/rand/v2.Rand satisfies it, as does LCG. Octave generation draws
// values in a fixed order, so a deterministic source yields reproducible
// output.
type RandomSource interface {
	Float64() float64
}

// LCG constants: seed' = (seed*lcgMul + lcgInc) mod lcgMod.
const (
	lcgMul = 9301
	lcgInc = 49297
	lcgMod = 233280
)

// LCG is a small linear congruential generator. Its period is short
// (233280), which is plenty for noise layers and keeps sequences easy to
// reproduce by hand.
//
// LCG is not safe for concurrent use.
type LCG struct {
	seed int64
}

// NewLCG returns a generator starting from seed. Any int64 is accepted; it
// is reduced modulo the generator's modulus.
func NewLCG(seed int64) *LCG {
	s := seed % lcgMod
	if s < 0 {
		s += lcgMod
	}
	return &LCG{seed: s}
}

func (l *LCG) next() int64 {
	l.seed = (l.seed*lcgMul + lcgInc) % lcgMod
	return l.seed
}

// Float64 advances the generator and returns a value in [0, 1).
func (l *LCG) Float64() float64 {
	return float64(l.next()) / lcgMod
}

// Range advances the generator and returns an integer in [lo, hi].
// If hi < lo the bounds are swapped.
func (l *LCG) Range(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return int(l.next()%int64(hi-lo+1)) + lo
}

// randomByte draws one channel value in [0, 255].
func randomByte(rnd RandomSource) uint8 {
	return storeByte(math.Round(rnd.Float64() * 255))
}
