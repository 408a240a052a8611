package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffCategory,Number,Title,Body,Page,Date\n" +
	"Love,1,First Light,\"morning comes\nslowly\",3,1963\n" +
	"Love,2,,missing title,4,\n" +
	"  ,3,No Category,body,5,\n" +
	"Loss,004,Ashes,grey ashes,9,\n"

func TestLoadCSVDropsIncompleteRows(t *testing.T) {
	t.Parallel()

	poems, err := LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, poems, 2)

	assert.Equal(t, Poem{ID: 1, Number: "1", Title: "First Light", Body: "morning comes\nslowly", Category: "Love", Page: 3, Date: "1963"}, poems[0])
	assert.Equal(t, "Ashes", poems[1].Title)
	assert.Equal(t, 4, poems[1].ID)
	assert.Equal(t, "4", poems[1].DisplayNumber())
}

func TestLoadCSVHeaderCaseAndOrder(t *testing.T) {
	t.Parallel()

	poems, err := LoadCSV(strings.NewReader("body,TITLE,category\nwords here,T,C\n"))
	require.NoError(t, err)
	require.Len(t, poems, 1)
	assert.Equal(t, "T", poems[0].Title)
	assert.Equal(t, "words here", poems[0].Body)
}

func TestLoadCSVEmpty(t *testing.T) {
	t.Parallel()

	poems, err := LoadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, poems)
}

func TestLoadJSONObjectOrArray(t *testing.T) {
	t.Parallel()

	obj := `{"meta":{},"poems":[{"id":1,"title":"A","body":"b","category":"Uncategorized"}]}`
	poems, err := LoadJSON(strings.NewReader(obj))
	require.NoError(t, err)
	require.Len(t, poems, 1)
	assert.Equal(t, "1", poems[0].Number)

	arr := `[{"Title":"A","Body":"b"},{"Title":"B","Body":"c","Number":"9"}]`
	poems, err = LoadJSON(strings.NewReader(arr))
	require.NoError(t, err)
	require.Len(t, poems, 2)
	assert.Equal(t, "9", poems[1].Number)

	_, err = LoadJSON(strings.NewReader(`{"items":[]}`))
	assert.Error(t, err)

	poems, err = LoadJSON(strings.NewReader("  "))
	require.NoError(t, err)
	assert.Empty(t, poems)
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Format{
		"poems.csv":        FormatCSV,
		"book.JSON":        FormatJSON,
		"/index.htm":       FormatHTML,
		"dir/page.html":    FormatHTML,
		"Busaab Poems.txt": FormatBook,
	} {
		got, err := FormatOf(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := FormatOf("poems.xlsx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadDispatchesByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "poems.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	poems, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, poems, 2)

	_, err = Load(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
