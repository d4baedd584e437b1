package partition

import (
	"fmt"

	"channelsorter/internal/guild"
)

// enumerationCeiling bounds the number of cut combinations the search is
// willing to walk. Realistic guilds have at most 26 candidate cuts and a
// handful of categories, far below this; anything above it is a
// configuration problem, not a workload.
const enumerationCeiling = 1 << 20

// Plan maps each configured category, in configured order, to the ordered
// slice of channels assigned to it. Concatenating the segments reproduces
// the sorted input list exactly.
type Plan struct {
	Segments []Segment
}

// Segment is one category's assignment.
type Segment struct {
	Category guild.Category
	Channels []guild.Channel
}

// LetterSpan returns the uppercase first letters of the segment's first and
// last channels. Only meaningful for non-empty segments.
func (s Segment) LetterSpan() (start, end rune) {
	if len(s.Channels) == 0 {
		return 0, 0
	}
	return guild.FirstLetter(s.Channels[0].Name), guild.FirstLetter(s.Channels[len(s.Channels)-1].Name)
}

// SpanName returns the display name a category should carry for this
// segment, e.g. "Projects A-D".
func (s Segment) SpanName(prefix string) string {
	start, end := s.LetterSpan()
	return fmt.Sprintf("%s %c-%c", prefix, start, end)
}

// Balance assigns the name-sorted channel list to the configured categories
// so that every starting letter lands entirely inside one category and the
// segment sizes are as even as possible.
//
// Candidate cut points are index 0 plus every index where the uppercase
// first letter changes. The search enumerates all ways to choose
// len(categories)-1 cuts from the candidates, in lexicographic index order,
// and keeps the combination with the smallest sum of squared segment
// lengths. Ties keep the first combination enumerated, which makes the
// result deterministic: among equally balanced partitions the one whose
// cuts sit earliest in the list wins.
func Balance(categories []guild.Category, channels []guild.Channel) (*Plan, error) {
	if len(categories) == 0 {
		return nil, &guild.ConfigError{Reason: "no managed categories configured"}
	}
	if len(channels) == 0 {
		return nil, &guild.ConfigError{Reason: "no channels to partition"}
	}

	candidates := cutCandidates(channels)
	cuts := len(categories) - 1
	if cuts > len(candidates) {
		return nil, &guild.ConfigError{Reason: fmt.Sprintf(
			"%d categories need %d cut points but only %d starting-letter boundaries exist",
			len(categories), cuts, len(candidates))}
	}
	if combinationCount(len(candidates), cuts) > enumerationCeiling {
		return nil, &guild.ConfigError{Reason: fmt.Sprintf(
			"partition search space too large: C(%d, %d) combinations", len(candidates), cuts)}
	}

	best := bestCuts(candidates, cuts, len(channels))

	plan := &Plan{Segments: make([]Segment, len(categories))}
	boundaries := append(append([]int{0}, best...), len(channels))
	for i, cat := range categories {
		plan.Segments[i] = Segment{
			Category: cat,
			Channels: channels[boundaries[i]:boundaries[i+1]],
		}
	}
	return plan, nil
}

// cutCandidates returns every legal cut index: 0 plus each index where the
// uppercase first letter differs from the previous channel's.
func cutCandidates(channels []guild.Channel) []int {
	candidates := []int{0}
	prev := guild.FirstLetter(channels[0].Name)
	for i, ch := range channels {
		letter := guild.FirstLetter(ch.Name)
		if letter != prev {
			prev = letter
			candidates = append(candidates, i)
		}
	}
	return candidates
}

// bestCuts walks k-subsets of the candidate list in lexicographic index
// order and returns the first subset with minimal imbalance.
func bestCuts(candidates []int, k, total int) []int {
	best := make([]int, k)
	bestScore := -1

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	current := make([]int, k)

	for {
		for i, ci := range idx {
			current[i] = candidates[ci]
		}
		score := imbalance(current, total)
		if bestScore < 0 || score < bestScore {
			bestScore = score
			copy(best, current)
		}

		// Advance to the next combination, rightmost index first.
		i := k - 1
		for i >= 0 && idx[i] == len(candidates)-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return best
}

// imbalance scores a cut combination by the sum of squared segment lengths
// over the boundaries [0, cuts..., total]. Squaring penalizes outlier
// segment sizes harder than a linear difference would.
func imbalance(cuts []int, total int) int {
	score := 0
	prev := 0
	for _, c := range cuts {
		size := c - prev
		score += size * size
		prev = c
	}
	size := total - prev
	score += size * size
	return score
}

// combinationCount returns C(n, k) capped at enumerationCeiling+1 to avoid
// overflow while still letting the caller reject oversized searches.
func combinationCount(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	count := 1
	for i := 0; i < k; i++ {
		count = count * (n - i) / (i + 1)
		if count > enumerationCeiling {
			return enumerationCeiling + 1
		}
	}
	return count
}
