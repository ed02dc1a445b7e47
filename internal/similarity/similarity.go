// Package similarity scores how alike two strings are lexically.
package similarity

import "strings"

// Ratio returns 2*M/T where M is the number of runes in the matching blocks of a
// and b and T is their combined rune length. Comparison is case-insensitive.
// Two empty strings are identical and score 1. Frequent runes in long inputs
// are not treated as junk.
func Ratio(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	// Longest-block search breaks ties by position, so the pair is ordered
	// before matching to keep the score symmetric.
	if string(ra) > string(rb) {
		ra, rb = rb, ra
	}

	return float64(2*matchingRunes(ra, rb)) / float64(total)
}

// matchingRunes sums the sizes of the matching blocks: the longest common block
// is taken first, then the same search recurses on both sides of it.
func matchingRunes(a, b []rune) int {
	index := make(map[rune][]int, len(b))
	for j, r := range b {
		index[r] = append(index[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }

	matched := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, index, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}

		matched += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}

	return matched
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] inside the given
// bounds, preferring the earliest i and then the earliest j.
func longestMatch(a []rune, bIndex map[rune][]int, alo, ahi, blo, bhi int) (int, int, int) {
	bestI, bestJ, bestK := alo, blo, 0

	// lengths[j] is the length of the match ending at a[i-1], b[j].
	lengths := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range bIndex[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestK {
				bestI, bestJ, bestK = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}

	return bestI, bestJ, bestK
}
