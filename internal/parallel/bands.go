package parallel

// Band is a half-open row range [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// SplitRows divides rows [0, height) into at most n contiguous bands whose
// boundaries fall on multiples of align. align < 1 is treated as 1.
func SplitRows(height, n, align int) []Band {
	if height <= 0 {
		return nil
	}
	if align < 1 {
		align = 1
	}
	units := (height + align - 1) / align
	n = max(1, min(n, units))

	bands := make([]Band, 0, n)
	per := units / n
	extra := units % n
	y := 0
	for i := range n {
		count := per
		if i < extra {
			count++
		}
		y1 := min(y+count*align, height)
		bands = append(bands, Band{Y0: y, Y1: y1})
		y = y1
	}
	return bands
}

// ForEachBand runs fn once per band. A nil pool, or a single band, runs
// inline on the caller's goroutine.
func ForEachBand(pool *WorkerPool, height, align int, fn func(b Band)) {
	workers := 1
	if pool != nil {
		workers = pool.Workers()
	}
	bands := SplitRows(height, workers, align)
	if pool == nil || len(bands) <= 1 {
		for _, b := range bands {
			fn(b)
		}
		return
	}

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	pool.ExecuteAll(work)
}
