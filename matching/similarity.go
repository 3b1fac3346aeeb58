package matching

// Jaccard computes intersection-over-union of two string sets. Inputs are
// slices; duplicates are collapsed. Either side empty yields 0 by definition,
// not a division error.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	sa := make(map[string]struct{}, len(a))
	for _, v := range a {
		sa[v] = struct{}{}
	}
	sb := make(map[string]struct{}, len(b))
	for _, v := range b {
		sb[v] = struct{}{}
	}

	intersection := 0
	for v := range sa {
		if _, ok := sb[v]; ok {
			intersection++
		}
	}
	union := len(sa) + len(sb) - intersection

	return float64(intersection) / float64(union)
}
