package wordcloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJapaneseSegmenter(t *testing.T) {
	seg, err := NewJapaneseSegmenter()
	require.NoError(t, err)

	words := seg.Segment("猫が月を見る。猫は月が好きだ。")
	assert.Contains(t, words, "猫")
	assert.Contains(t, words, "月")
	for _, particle := range []string{"が", "を", "は", "。", "だ"} {
		assert.NotContains(t, words, particle)
	}

	ranked := Rank(words)
	require.NotEmpty(t, ranked)
	assert.Equal(t, 2, ranked[0].Count)
}

func TestJapaneseSegmenterEmpty(t *testing.T) {
	seg, err := NewJapaneseSegmenter()
	require.NoError(t, err)
	assert.Nil(t, seg.Segment("   "))
}
