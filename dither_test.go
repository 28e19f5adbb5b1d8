package rasterfx

import (
	"errors"
	"math"
	"testing"
)

// gradient returns a w×h pixmap whose channels vary with position, with a
// non-opaque alpha so alpha handling is visible.
func gradient(t testing.TB, w, h int) *Pixmap {
	t.Helper()
	pm := newFilled(t, w, h, 0, 0, 0, 0)
	pm.Pixels(func(x, y, off int) {
		d := pm.Data()
		d[off+0] = uint8((x * 255) / max(w-1, 1))
		d[off+1] = uint8((y * 255) / max(h-1, 1))
		d[off+2] = uint8(((x + y) * 37) % 256)
		d[off+3] = uint8(100 + (x+y)%50)
	})
	return pm
}

func TestDitherOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    DitherOptions
		wantErr error
	}{
		{"basic default", NewDitherOptions(DitherBasic), nil},
		{"floyd default", NewDitherOptions(DitherFloydSteinberg), nil},
		{"bayer default", NewDitherOptions(DitherBayer), nil},
		{"bayer 8", DitherOptions{Algorithm: DitherBayer, Factor: 8}, nil},
		{"basic odd factor", DitherOptions{Algorithm: DitherBasic, Factor: 3}, nil},
		{"basic zero factor", DitherOptions{Algorithm: DitherBasic, Factor: 0}, ErrUnsupportedFactor},
		{"floyd negative factor", DitherOptions{Algorithm: DitherFloydSteinberg, Factor: -2}, ErrUnsupportedFactor},
		{"bayer 2", DitherOptions{Algorithm: DitherBayer, Factor: 2}, ErrUnsupportedFactor},
		{"bayer 16", DitherOptions{Algorithm: DitherBayer, Factor: 16}, ErrUnsupportedFactor},
		{"bayer zero", DitherOptions{Algorithm: DitherBayer}, ErrUnsupportedFactor},
		{"unknown algorithm", DitherOptions{Algorithm: 42, Factor: 4}, ErrUnsupportedAlgorithm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDitherOptionsDefaults(t *testing.T) {
	if f := NewDitherOptions(DitherBasic).Factor; f != 8 {
		t.Errorf("basic default factor = %d, want 8", f)
	}
	if f := NewDitherOptions(DitherFloydSteinberg).Factor; f != 8 {
		t.Errorf("floyd default factor = %d, want 8", f)
	}
	if f := NewDitherOptions(DitherBayer).Factor; f != 4 {
		t.Errorf("bayer default factor = %d, want 4", f)
	}
}

func TestParseDitherAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    DitherAlgorithm
		wantErr bool
	}{
		{"basic", DitherBasic, false},
		{"Floyd", DitherFloydSteinberg, false},
		{"floyd-steinberg", DitherFloydSteinberg, false},
		{" bayer ", DitherBayer, false},
		{"atkinson", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDitherAlgorithm(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDitherAlgorithm(%q) error = %v", tt.in, err)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseDitherAlgorithm(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if err == nil && got.String() == "" {
				t.Error("String() should not be empty")
			}
		})
	}
}

func TestDitherRejectsBeforeMutation(t *testing.T) {
	pm := gradient(t, 5, 5)
	before := pm.Clone()

	if err := Dither(pm, DitherOptions{Algorithm: DitherBayer, Factor: 5}); !errors.Is(err, ErrUnsupportedFactor) {
		t.Fatalf("Dither() error = %v, want %v", err, ErrUnsupportedFactor)
	}
	if !pm.Equal(before) {
		t.Error("rejected Dither() mutated the pixmap")
	}
	if err := Dither(nil, NewDitherOptions(DitherBasic)); !errors.Is(err, ErrNilPixmap) {
		t.Errorf("Dither(nil) error = %v, want %v", err, ErrNilPixmap)
	}
}

func TestDitherBasicBlack(t *testing.T) {
	pm := newFilled(t, 2, 2, 0, 0, 0, 255)
	if err := Dither(pm, DitherOptions{Algorithm: DitherBasic, Factor: 4}); err != nil {
		t.Fatal(err)
	}
	pm.Pixels(func(x, y, _ int) {
		r, g, b, a := pm.RGBA(x, y)
		if r != 0 || g != 0 || b != 0 || a != 255 {
			t.Errorf("pixel (%d, %d) = (%d, %d, %d, %d), want (0, 0, 0, 255)", x, y, r, g, b, a)
		}
	})
}

func TestDitherBasicLevels(t *testing.T) {
	for _, factor := range []int{2, 4, 8, 16} {
		pm := gradient(t, 17, 9)
		if err := Dither(pm, DitherOptions{Algorithm: DitherBasic, Factor: factor}); err != nil {
			t.Fatal(err)
		}
		step := 256 / factor
		d := pm.Data()
		for i := 0; i < len(d); i += 4 {
			for c := 0; c < 3; c++ {
				v := int(d[i+c])
				// The top level saturates from 256 to 255.
				if v%step != 0 && v != 255 {
					t.Fatalf("factor %d: channel value %d is not a multiple of %d", factor, v, step)
				}
			}
			if d[i+3] != 255 {
				t.Fatalf("factor %d: alpha = %d, want 255", factor, d[i+3])
			}
		}
	}
}

func TestDitherBasicRounding(t *testing.T) {
	tests := []struct {
		in, want uint8
	}{
		{0, 0},
		{31, 0},
		{32, 64}, // half rounds up
		{95, 64},
		{96, 128},
		{223, 192},
		{224, 255}, // 256 saturates
		{255, 255},
	}
	for _, tt := range tests {
		pm := newFilled(t, 1, 1, tt.in, tt.in, tt.in, 0)
		if err := Dither(pm, DitherOptions{Algorithm: DitherBasic, Factor: 4}); err != nil {
			t.Fatal(err)
		}
		if r, _, _, _ := pm.RGBA(0, 0); r != tt.want {
			t.Errorf("quantize(%d) = %d, want %d", tt.in, r, tt.want)
		}
	}
}

func TestDitherBasicParallelMatchesSequential(t *testing.T) {
	seq := gradient(t, 64, 37)
	par := seq.Clone()
	opts := DitherOptions{Algorithm: DitherBasic, Factor: 6}

	if err := Dither(seq, opts); err != nil {
		t.Fatal(err)
	}
	if err := Dither(par, opts, WithWorkers(4)); err != nil {
		t.Fatal(err)
	}
	if !seq.Equal(par) {
		t.Error("parallel basic dither differs from sequential")
	}
}

func TestFloydSteinbergKernelSumsToOne(t *testing.T) {
	sum := 0
	for _, k := range floydSteinbergKernel {
		sum += k.weight
	}
	if sum != 16 {
		t.Errorf("kernel weights sum to %d/16, want 16/16", sum)
	}
}

func TestDiffuseErrorInterior(t *testing.T) {
	const w, h = 3, 3
	plane := make([]float64, w*h*3)
	diffuseError(plane, w, h, 1, 1, [3]float64{16, 32, -16})

	want := map[[2]int]float64{
		{2, 1}: 7,
		{0, 2}: 3,
		{1, 2}: 5,
		{2, 2}: 1,
	}
	total := [3]float64{}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := (x + y*w) * 3
			for c := 0; c < 3; c++ {
				total[c] += plane[p+c]
			}
			if plane[p] != want[[2]int{x, y}] {
				t.Errorf("red at (%d, %d) = %v, want %v", x, y, plane[p], want[[2]int{x, y}])
			}
		}
	}
	if total != [3]float64{16, 32, -16} {
		t.Errorf("diffused total = %v, want the full error", total)
	}
}

func TestDiffuseErrorNoWraparound(t *testing.T) {
	const w, h = 3, 3
	plane := make([]float64, w*h*3)

	// Left edge: below-left would land on the last pixel of the same row if
	// offsets wrapped.
	diffuseError(plane, w, h, 0, 1, [3]float64{16, 16, 16})
	if plane[(2+1*w)*3] != 0 {
		t.Error("below-left error wrapped onto the end of the row")
	}

	// Right edge: right and below-right would wrap onto the next row start.
	clear(plane)
	diffuseError(plane, w, h, 2, 0, [3]float64{16, 16, 16})
	if plane[(0+1*w)*3] != 0 {
		t.Errorf("next row start = %v, want 0 with no wrapped right error", plane[(0+1*w)*3])
	}
	if plane[(1+1*w)*3] != 3 {
		t.Errorf("below-left of right edge = %v, want 3", plane[(1+1*w)*3])
	}

	// Bottom-right corner: everything is dropped.
	clear(plane)
	diffuseError(plane, w, h, 2, 2, [3]float64{16, 16, 16})
	for i, v := range plane {
		if v != 0 {
			t.Fatalf("plane[%d] = %v, want untouched", i, v)
		}
	}
}

func TestDitherFloydSteinbergPreservesTone(t *testing.T) {
	const size = 16
	pm := newFilled(t, size, size, 100, 100, 100, 50)
	if err := Dither(pm, DitherOptions{Algorithm: DitherFloydSteinberg, Factor: 2}); err != nil {
		t.Fatal(err)
	}

	sum := 0.0
	d := pm.Data()
	for i := 0; i < len(d); i += 4 {
		v := d[i]
		if v != 0 && v != 128 && v != 255 {
			t.Fatalf("channel value %d is not a factor-2 level", v)
		}
		if d[i+3] != 255 {
			t.Fatalf("alpha = %d, want 255", d[i+3])
		}
		sum += float64(v)
	}
	mean := sum / (size * size)
	if math.Abs(mean-100) > 8 {
		t.Errorf("mean after diffusion = %.2f, want about 100", mean)
	}
}

func TestDitherFloydSteinbergSinglePixel(t *testing.T) {
	pm := newFilled(t, 3, 2, 0, 0, 0, 0)
	pm.SetRGBA(1, 0, 20, 20, 20, 0)

	if err := Dither(pm, DitherOptions{Algorithm: DitherFloydSteinberg, Factor: 8}); err != nil {
		t.Fatal(err)
	}
	// 20 rounds up to 32; the -12 error spreads into zeros that stay 0.
	pm.Pixels(func(x, y, _ int) {
		r, _, _, a := pm.RGBA(x, y)
		want := uint8(0)
		if x == 1 && y == 0 {
			want = 32
		}
		if r != want || a != 255 {
			t.Errorf("pixel (%d, %d) = (%d, a=%d), want (%d, a=255)", x, y, r, a, want)
		}
	})
}

// Diffused error can push an intermediate value past 255. The working plane
// keeps it, and only the stored byte saturates.
func TestDitherFloydSteinbergSaturatesStore(t *testing.T) {
	pm := newFilled(t, 2, 1, 0, 0, 0, 255)
	pm.SetRGBA(0, 0, 200, 200, 200, 255)
	pm.SetRGBA(1, 0, 255, 255, 255, 255)

	if err := Dither(pm, DitherOptions{Algorithm: DitherFloydSteinberg, Factor: 4}); err != nil {
		t.Fatal(err)
	}
	// (0,0): 200 -> 192, error +8, right neighbour becomes 258.5.
	// (1,0): 258.5 -> 256, stored as 255.
	if r, _, _, _ := pm.RGBA(0, 0); r != 192 {
		t.Errorf("pixel 0 red = %d, want 192", r)
	}
	if r, _, _, _ := pm.RGBA(1, 0); r != 255 {
		t.Errorf("pixel 1 red = %d, want 255", r)
	}
}

func TestDitherBayerBinary(t *testing.T) {
	for _, level := range BayerLevels() {
		pm := gradient(t, 19, 11)
		alphaBefore := make([]uint8, 0, 19*11)
		pm.Pixels(func(_, _ int, off int) { alphaBefore = append(alphaBefore, pm.Data()[off+3]) })

		if err := Dither(pm, DitherOptions{Algorithm: DitherBayer, Factor: level}); err != nil {
			t.Fatal(err)
		}
		d := pm.Data()
		for i := 0; i < len(d); i += 4 {
			for c := 0; c < 3; c++ {
				if d[i+c] != 0 && d[i+c] != 255 {
					t.Fatalf("level %d: channel value %d, want 0 or 255", level, d[i+c])
				}
			}
			if d[i+3] != alphaBefore[i/4] {
				t.Fatalf("level %d: alpha changed from %d to %d", level, alphaBefore[i/4], d[i+3])
			}
		}
	}
}

func TestDitherBayerMidGrayCheckerboard(t *testing.T) {
	pm := newFilled(t, 4, 4, 128, 128, 128, 255)
	if err := Dither(pm, DitherOptions{Algorithm: DitherBayer, Factor: 4}); err != nil {
		t.Fatal(err)
	}

	// floor((128 + T)/2) >= 127 holds exactly for T >= 126, which in the 4x4
	// map are the cells where x+y is odd.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := uint8(0)
			if (x+y)%2 == 1 {
				want = 255
			}
			r, g, b, _ := pm.RGBA(x, y)
			if r != want || g != want || b != want {
				t.Errorf("pixel (%d, %d) = (%d, %d, %d), want %d", x, y, r, g, b, want)
			}
		}
	}
}

func TestDitherBayerLevel8(t *testing.T) {
	// 8^(1/4) ≈ 1.6818, so a value v turns white when v + T >= 213.6.
	pm := newFilled(t, 8, 8, 200, 0, 255, 255)
	if err := Dither(pm, DitherOptions{Algorithm: DitherBayer, Factor: 8}); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			tv, _ := BayerThreshold(8, x, y)
			want := uint8(0)
			if 200+tv >= 214 {
				want = 255
			}
			r, g, b, _ := pm.RGBA(x, y)
			if r != want {
				t.Errorf("red at (%d, %d) with T=%d = %d, want %d", x, y, tv, r, want)
			}
			if g != 0 || b != 255 {
				t.Errorf("pixel (%d, %d) green/blue = %d/%d, want 0/255", x, y, g, b)
			}
		}
	}
}

func TestDitherBayerParallelMatchesSequential(t *testing.T) {
	seq := gradient(t, 40, 33)
	par := seq.Clone()
	opts := DitherOptions{Algorithm: DitherBayer, Factor: 8}

	if err := Dither(seq, opts); err != nil {
		t.Fatal(err)
	}
	if err := Dither(par, opts, WithWorkers(3)); err != nil {
		t.Fatal(err)
	}
	if !seq.Equal(par) {
		t.Error("parallel Bayer dither differs from sequential")
	}
}

func BenchmarkDitherFloydSteinberg(b *testing.B) {
	src := gradient(b, 256, 256)
	pm := src.Clone()
	opts := NewDitherOptions(DitherFloydSteinberg)
	b.ReportAllocs()
	for b.Loop() {
		copy(pm.Data(), src.Data())
		_ = Dither(pm, opts)
	}
}

func BenchmarkDitherBasicParallel(b *testing.B) {
	src := gradient(b, 512, 512)
	pm := src.Clone()
	opts := NewDitherOptions(DitherBasic)
	for b.Loop() {
		copy(pm.Data(), src.Data())
		_ = Dither(pm, opts, WithWorkers(0))
	}
}
