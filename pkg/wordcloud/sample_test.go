package wordcloud

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleScenarioA(t *testing.T) {
	t.Parallel()

	text := "love love love joy joy peace"
	ranked := Rank(Tokenize(text))
	got := Sample(ranked, 3, NewMulberry32(HashString(text, 4096)), false)

	want := []WordFrequency{{"love", 3}, {"joy", 2}, {"peace", 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Sample mismatch (-want +got):\n%s", diff)
	}
}

func TestSampleTruncatesLongTail(t *testing.T) {
	t.Parallel()

	ranked := []WordFrequency{{"sun", 5}, {"moon", 4}, {"star", 2}, {"sky", 1}}
	for _, repeat := range []bool{true, false} {
		got := Sample(ranked, 2, NewMulberry32(1), repeat)
		assert.Equal(t, ranked[:2], got)
	}
}

func TestSampleWithoutRepetitionStopsAtUniques(t *testing.T) {
	t.Parallel()
	ranked := []WordFrequency{{"sun", 2}, {"moon", 1}}
	assert.Equal(t, ranked, Sample(ranked, 10, NewMulberry32(1), false))
}

func TestSampleWeightedFill(t *testing.T) {
	t.Parallel()

	ranked := []WordFrequency{{"tide", 9}, {"shell", 1}}
	got := Sample(ranked, 2000, NewMulberry32(7), true)

	require.Len(t, got, 2000)
	assert.Equal(t, ranked, got[:len(ranked)], "uniques come first, unchanged")

	counts := map[string]int{}
	for _, wf := range got[len(ranked):] {
		counts[wf.Word]++
		// Drawn entries carry the word's own frequency.
		for _, r := range ranked {
			if r.Word == wf.Word {
				require.Equal(t, r.Count, wf.Count)
			}
		}
	}
	// 90% of the mass sits on "tide".
	assert.Greater(t, counts["tide"], 5*counts["shell"])
	assert.Positive(t, counts["shell"])
}

func TestSampleDeterministic(t *testing.T) {
	t.Parallel()

	ranked := Rank(Tokenize("ocean wave ocean salt wind wave ocean"))
	a := Sample(ranked, 40, NewMulberry32(99), true)
	b := Sample(ranked, 40, NewMulberry32(99), true)
	assert.Equal(t, a, b)

	c := Sample(ranked, 40, NewMulberry32(100), true)
	assert.NotEqual(t, a, c)
}

func TestSampleDegenerate(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Sample(nil, 10, NewMulberry32(1), true))
	assert.Nil(t, Sample([]WordFrequency{{"sun", 1}}, 0, NewMulberry32(1), true))
}

func TestSampleDoesNotAliasInput(t *testing.T) {
	t.Parallel()
	ranked := []WordFrequency{{"sun", 2}, {"moon", 1}}
	got := Sample(ranked, 1, NewMulberry32(1), true)
	got[0].Word = "changed"
	assert.Equal(t, "sun", ranked[0].Word)
}
