package wordcloud

import "slices"

// WordFrequency is a unique word with the number of times it occurred.
type WordFrequency struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Rank counts tokens and returns the unique words ordered by descending
// count. Words with equal counts keep the order in which they were first seen.
func Rank(tokens []string) []WordFrequency {
	if len(tokens) == 0 {
		return nil
	}

	index := make(map[string]int, len(tokens))
	var ranked []WordFrequency
	for _, t := range tokens {
		if i, ok := index[t]; ok {
			ranked[i].Count++
			continue
		}
		index[t] = len(ranked)
		ranked = append(ranked, WordFrequency{Word: t, Count: 1})
	}

	slices.SortStableFunc(ranked, func(a, b WordFrequency) int {
		return b.Count - a.Count
	})
	return ranked
}
