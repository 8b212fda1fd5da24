package util

import "golang.org/x/exp/constraints"

func Abs[T constraints.Integer | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// MaxAbs returns max |v| over the slice, 0 for an empty slice.
func MaxAbs[T constraints.Float](vs []T) T {
	var max T
	for _, v := range vs {
		if a := Abs(v); a > max {
			max = a
		}
	}
	return max
}
