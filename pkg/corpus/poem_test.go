package corpus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoemUnmarshalCaseInsensitive(t *testing.T) {
	t.Parallel()

	var p Poem
	err := json.Unmarshal([]byte(`{"TITLE":"Dusk","Body":"low light","category":"Evening","Number":7,"id":"3","PAGE":"12","date":"1963"}`), &p)
	require.NoError(t, err)

	assert.Equal(t, Poem{ID: 3, Number: "7", Title: "Dusk", Body: "low light", Category: "Evening", Page: 12, Date: "1963"}, p)
}

func TestPoemUnmarshalIgnoresUnknownAndNull(t *testing.T) {
	t.Parallel()

	var p Poem
	require.NoError(t, json.Unmarshal([]byte(`{"title":"A","date":null,"tags":["x"]}`), &p))
	assert.Equal(t, "A", p.Title)
	assert.Empty(t, p.Date)
}

func TestDisplayNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "7", Poem{Number: "007"}.DisplayNumber())
	assert.Equal(t, "12", Poem{ID: 12}.DisplayNumber())
	assert.Equal(t, "", Poem{}.DisplayNumber())
}

func TestText(t *testing.T) {
	t.Parallel()

	got := Text([]Poem{
		{Title: "Rain", Body: "soft rain falls", Category: "Weather"},
		{Body: "only body"},
	})
	assert.Equal(t, "Rain Rain soft rain falls Weather only body", got)
	assert.Empty(t, Text(nil))
}
