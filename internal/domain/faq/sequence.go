package faq

// Ratcliff/Obershelp "gestalt" matching: find the longest common block,
// then recurse on the pieces to its left and right. The ratio is
// 2*M/(len(a)+len(b)) where M is the total size of all matched blocks.

// autojunkMinLen is the target length from which very frequent characters
// stop seeding matches.
const autojunkMinLen = 200

type matchBlock struct {
	a, b, size int
}

type sequenceMatcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newSequenceMatcher(a, b string) *sequenceMatcher {
	m := &sequenceMatcher{a: []rune(a), b: []rune(b)}
	m.indexB()
	return m
}

func (m *sequenceMatcher) indexB() {
	m.b2j = make(map[rune][]int)
	for j, r := range m.b {
		m.b2j[r] = append(m.b2j[r], j)
	}
	n := len(m.b)
	if n < autojunkMinLen {
		return
	}
	limit := n/100 + 1
	for r, idxs := range m.b2j {
		if len(idxs) > limit {
			delete(m.b2j, r)
		}
	}
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] inside the given
// bounds, preferring the earliest i and then the earliest j.
func (m *sequenceMatcher) longestMatch(alo, ahi, blo, bhi int) matchBlock {
	besti, bestj, bestSize := alo, blo, 0
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	// Extend over characters dropped from the index as too frequent.
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestSize = besti-1, bestj-1, bestSize+1
	}
	for besti+bestSize < ahi && bestj+bestSize < bhi && m.a[besti+bestSize] == m.b[bestj+bestSize] {
		bestSize++
	}
	return matchBlock{a: besti, b: bestj, size: bestSize}
}

func (m *sequenceMatcher) matchingBlocks() []matchBlock {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	var blocks []matchBlock
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		block := m.longestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if block.size == 0 {
			continue
		}
		blocks = append(blocks, block)
		if s.alo < block.a && s.blo < block.b {
			queue = append(queue, span{s.alo, block.a, s.blo, block.b})
		}
		if block.a+block.size < s.ahi && block.b+block.size < s.bhi {
			queue = append(queue, span{block.a + block.size, s.ahi, block.b + block.size, s.bhi})
		}
	}
	return blocks
}

func (m *sequenceMatcher) ratio() float64 {
	total := len(m.a) + len(m.b)
	if total == 0 {
		return 1.0
	}
	matched := 0
	for _, block := range m.matchingBlocks() {
		matched += block.size
	}
	return 2.0 * float64(matched) / float64(total)
}

// fuzzyRatio is the character-level similarity of a and b in [0, 1].
func fuzzyRatio(a, b string) float64 {
	return newSequenceMatcher(a, b).ratio()
}
