package wordcloud

import "sort"

// Sample picks target words from ranked (descending frequency).
//
// When ranked already holds target words, or repetition is disabled, the
// long tail is truncated. Otherwise every unique word is kept once and the
// remainder is drawn with probability proportional to its count, so short
// texts still produce a dense cloud that leans towards frequent words.
func Sample(ranked []WordFrequency, target int, rnd Source, repeatWeighted bool) []WordFrequency {
	if len(ranked) == 0 || target <= 0 {
		return nil
	}
	if !repeatWeighted || len(ranked) >= target {
		n := min(target, len(ranked))
		return append([]WordFrequency(nil), ranked[:n]...)
	}

	out := make([]WordFrequency, 0, target)
	out = append(out, ranked...)

	total := 0
	for _, wf := range ranked {
		total += wf.Count
	}
	cum := make([]float64, len(ranked))
	acc := 0.0
	for i, wf := range ranked {
		acc += float64(wf.Count) / float64(max(1, total))
		cum[i] = acc
	}

	for len(out) < target {
		r := rnd.Float64()
		// First bucket whose cumulative mass reaches r; rounding can leave the
		// last bucket slightly below 1.
		i := sort.SearchFloat64s(cum, r)
		if i >= len(cum) {
			i = len(cum) - 1
		}
		out = append(out, ranked[i])
	}
	return out
}
