package utils

// SliceContains checks if slice contains v.
func SliceContains[T comparable](slice []T, v T) bool {
	for _, vv := range slice {
		if vv == v {
			return true
		}
	}
	return false
}

// MustSliceConvert converts srcS to [D] through convert. convert must be
// total.
func MustSliceConvert[S, D any](srcS []S, convert func(src S) D) []D {
	res := make([]D, 0, len(srcS))
	for _, src := range srcS {
		res = append(res, convert(src))
	}
	return res
}
