package corpus

import "strings"

// MinVisibleFraction is the share of a card's height that must be on screen
// for the card to feed the cloud.
const MinVisibleFraction = 0.12

// Card is a laid-out poem card, positioned relative to the viewport top.
type Card struct {
	Title  string
	Body   string
	Top    float64
	Height float64
}

// Visible returns the text of the cards meaningfully inside [0, vh].
func Visible(cards []Card, vh float64) string {
	var chunks []string
	for _, c := range cards {
		if c.Height <= 0 {
			continue
		}
		overlap := min(c.Top+c.Height, vh) - max(c.Top, 0)
		if overlap <= c.Height*MinVisibleFraction {
			continue
		}
		chunk := strings.TrimSpace(c.Title + "\n" + c.Body)
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return strings.Join(chunks, "\n\n")
}
