package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleOverlapRule(t *testing.T) {
	t.Parallel()

	cards := []Card{
		{Title: "Above", Body: "gone", Top: -500, Height: 400},
		{Title: "Sliver", Body: "barely", Top: -190, Height: 200}, // 10px of 200 visible
		{Title: "Half", Body: "in", Top: -100, Height: 200},
		{Title: "Inside", Body: "fully", Top: 300, Height: 100},
		{Title: "Edge", Body: "at bottom", Top: 790, Height: 100}, // 10px of 100
		{Title: "Below", Body: "later", Top: 900, Height: 100},
		{Title: "Flat", Body: "zero", Top: 10, Height: 0},
	}

	assert.Equal(t, "Half\nin\n\nInside\nfully", Visible(cards, 800))
	assert.Empty(t, Visible(nil, 800))
}
