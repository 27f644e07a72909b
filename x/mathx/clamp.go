package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TruncDiv divides toward zero, matching how sensor channels report the
// integer part of a fixed-point value (-15 deci-units => -1).
func TruncDiv[T constraints.Signed](v, d T) T {
	if d == 0 {
		return 0
	}
	return v / d
}
