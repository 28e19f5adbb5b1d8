package rasterfx

import "math"

// thresholdMap is an ordered-dither matrix. Cells are indexed [x][y], the
// orientation the matrices were tuned for.
type thresholdMap struct {
	level   int
	divisor float64 // level^(2/level)
	cells   []int   // level*level values, x-major
}

func newThresholdMap(level int, cells ...int) thresholdMap {
	if len(cells) != level*level {
		panic("rasterfx: threshold map size mismatch")
	}
	return thresholdMap{
		level:   level,
		divisor: math.Pow(float64(level), 2/float64(level)),
		cells:   cells,
	}
}

func (m thresholdMap) at(x, y int) int {
	return m.cells[(x%m.level)*m.level+y%m.level]
}

// bayerThresholdMaps holds the supported ordered-dither levels. Read-only.
var bayerThresholdMaps = map[int]thresholdMap{
	4: newThresholdMap(4,
		15, 135, 45, 165,
		195, 75, 225, 105,
		60, 180, 30, 150,
		240, 120, 210, 90,
	),
	8: newThresholdMap(8,
		0, 32, 8, 40, 2, 34, 10, 42,
		48, 16, 56, 24, 50, 18, 58, 26,
		12, 44, 4, 36, 14, 46, 6, 38,
		60, 28, 52, 20, 62, 30, 54, 22,
		3, 35, 11, 43, 1, 33, 9, 41,
		51, 19, 59, 27, 49, 17, 57, 25,
		15, 47, 7, 39, 13, 45, 5, 37,
		63, 31, 55, 23, 61, 29, 53, 21,
	),
}

// BayerLevels lists the factors accepted by DitherBayer.
func BayerLevels() []int {
	return []int{4, 8}
}

// BayerThreshold returns the threshold applied at pixel (x, y) for the given
// level. ok is false when no map exists for level.
func BayerThreshold(level, x, y int) (threshold int, ok bool) {
	m, ok := bayerThresholdMaps[level]
	if !ok || x < 0 || y < 0 {
		return 0, false
	}
	return m.at(x, y), true
}
