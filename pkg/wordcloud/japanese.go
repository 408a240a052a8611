package wordcloud

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// JapaneseSegmenter segments Japanese text with kagome and the IPA
// dictionary. Only content words survive, reduced to their base form.
type JapaneseSegmenter struct {
	t *tokenizer.Tokenizer
}

// NewJapaneseSegmenter loads the IPA dictionary and builds a segmenter.
func NewJapaneseSegmenter() (*JapaneseSegmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &JapaneseSegmenter{t: t}, nil
}

// Segment implements Segmenter.
func (s *JapaneseSegmenter) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string
	for _, tok := range s.t.Tokenize(text) {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}

		// IPA features: 0 POS, 1 sub-POS, ... 6 base form, 7 reading.
		features := tok.Features()
		if len(features) == 0 || !contentPOS(features[0]) {
			continue
		}
		if len(features) > 1 && skipSubPOS(features[1]) {
			continue
		}

		word := tok.Surface
		if len(features) > 6 && features[6] != "*" {
			word = features[6]
		}
		word = strings.ToLower(word)
		if word == "" || allDigits(word) || IsStopword(word) {
			continue
		}
		if _, ok := japaneseStopwords[word]; ok {
			continue
		}
		out = append(out, word)
	}
	return out
}

// japaneseStopwords are light verbs and formal nouns that kagome tags as
// content words but carry no imagery.
var japaneseStopwords = map[string]struct{}{
	"する": {}, "いる": {}, "ある": {}, "なる": {}, "れる": {}, "られる": {},
	"こと": {}, "もの": {}, "よう": {}, "ところ": {},
}

func skipSubPOS(sub string) bool {
	switch sub {
	case "数", "非自立", "代名詞", "接尾":
		return true
	}
	return false
}

func contentPOS(pos string) bool {
	switch pos {
	case "名詞", "動詞", "形容詞":
		return true
	}
	return false
}

// NewSegmenter returns the Segmenter for a configured language.
func NewSegmenter(language string) (Segmenter, error) {
	switch language {
	case "", "en":
		return EnglishSegmenter{}, nil
	case "ja":
		return NewJapaneseSegmenter()
	}
	return nil, ErrInvalidOptions
}
