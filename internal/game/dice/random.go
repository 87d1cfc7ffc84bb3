package dice

// Range draws an integer uniformly from the closed range [lo, hi].
//
// Precondition: hi >= lo.
func Range(src Source, lo, hi int) int {
	if hi < lo {
		panic("dice: Range called with hi < lo")
	}
	return lo + src.Intn(hi-lo+1)
}

// Choose returns one element of items chosen uniformly at random.
// It reports false, without drawing, when items is empty.
func Choose[T any](src Source, items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[src.Intn(len(items))], true
}

// Shuffle permutes items in place with an unbiased Fisher-Yates pass.
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
