package wordcloud

// stopwords holds the English function words that never make it into a cloud:
// articles, pronouns, conjunctions, prepositions and auxiliary verbs.
var stopwords = map[string]struct{}{
	// Articles and conjunctions
	"the": {}, "and": {}, "a": {}, "an": {}, "but": {}, "or": {}, "so": {}, "if": {}, "then": {}, "than": {},
	// Prepositions
	"to": {}, "of": {}, "in": {}, "for": {}, "on": {}, "with": {}, "as": {}, "at": {}, "by": {}, "from": {},
	"into": {}, "out": {}, "up": {}, "down": {}, "over": {}, "under": {},
	// Pronouns and determiners
	"i": {}, "you": {}, "it": {}, "that": {}, "this": {}, "me": {}, "my": {}, "mine": {}, "we": {}, "our": {}, "ours": {},
	"your": {}, "yours": {}, "their": {}, "theirs": {}, "he": {}, "she": {}, "they": {}, "them": {},
	"his": {}, "her": {}, "hers": {}, "its": {},
	"what": {}, "which": {}, "who": {}, "whom": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"all": {}, "any": {}, "each": {}, "every": {}, "few": {}, "more": {}, "most": {}, "other": {}, "some": {}, "such": {},
	// Adverbs and particles
	"not": {}, "no": {}, "yes": {}, "too": {}, "very": {}, "just": {}, "only": {}, "also": {}, "again": {}, "ever": {}, "never": {},
	// Auxiliaries and modals
	"is": {}, "are": {}, "be": {}, "was": {}, "were": {}, "been": {}, "being": {},
	"do": {}, "does": {}, "did": {}, "done": {}, "have": {}, "has": {}, "had": {}, "having": {},
	"can": {}, "will": {}, "shall": {}, "may": {}, "might": {}, "must": {}, "could": {}, "would": {}, "should": {},
}

// IsStopword reports whether w (already lower-cased) is filtered by Tokenize.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}
