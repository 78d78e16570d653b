package join

// difference returns the elements of a that do not occur in b, in a's order.
// Duplicates in a are kept.
func difference[K comparable](a, b []K) []K {
	exclude := setOf(b)
	out := make([]K, 0, len(a))
	for _, k := range a {
		if _, ok := exclude[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// intersection returns the elements of a that also occur in b, in a's order.
func intersection[K comparable](a, b []K) []K {
	include := setOf(b)
	out := make([]K, 0, len(a))
	for _, k := range a {
		if _, ok := include[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func setOf[K comparable](seqs ...[]K) map[K]struct{} {
	n := 0
	for _, s := range seqs {
		n += len(s)
	}
	set := make(map[K]struct{}, n)
	for _, s := range seqs {
		for _, k := range s {
			set[k] = struct{}{}
		}
	}
	return set
}
