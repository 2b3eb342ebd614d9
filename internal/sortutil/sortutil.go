// Package sortutil provides index-permutation sorting primitives: a stable
// argsort over float64 keys and routines to apply a permutation to one or
// more parallel slices, either by gather-copy or in place.
package sortutil

import "sort"

// StableIndices returns a permutation p of 0..len(keys)-1 such that
// keys[p[0]], keys[p[1]], ... is ordered. Equal keys keep their original
// relative order.
func StableIndices(keys []float64, descending bool) []int {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return keys[idx[a]] > keys[idx[b]]
		}
		return keys[idx[a]] < keys[idx[b]]
	})
	return idx
}

// Gather copies src through perm into dst: dst[i] = src[perm[i]].
// dst and src must not alias.
func Gather(dst, src []float64, perm []int) {
	for i, p := range perm {
		dst[i] = src[p]
	}
}

// ApplyInPlace reorders every slice in vecs so that v[i] takes the value
// previously at v[perm[i]], without allocating per-slice copies. Each cycle
// of the permutation is rotated through a single temporary.
//
// All slices must have the same length as perm. perm is left untouched.
func ApplyInPlace(perm []int, vecs ...[]float64) {
	visited := make([]bool, len(perm))
	for s := range perm {
		if visited[s] || perm[s] == s {
			visited[s] = true
			continue
		}
		for _, v := range vecs {
			tmp := v[s]
			i := s
			for perm[i] != s {
				v[i] = v[perm[i]]
				i = perm[i]
			}
			v[i] = tmp
		}
		i := s
		for {
			visited[i] = true
			i = perm[i]
			if i == s {
				break
			}
		}
	}
}
