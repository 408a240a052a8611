package catalog

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/poemcloud/pkg/corpus"
	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var testPoems = []corpus.Poem{
	{ID: 1, Number: "1", Title: "Morning Rain", Body: "rain on the roof", Category: "Weather"},
	{ID: 2, Number: "2", Title: "Her Letters", Body: "Ink and LOVE", Category: "Love"},
	{ID: 3, Number: "3", Title: "Storm", Body: "thunder and rain", Category: "Weather"},
	{ID: 4, Number: "4", Title: "Untitled", Body: "no category here"},
}

func seed(t *testing.T, db *sql.DB) []int64 {
	t.Helper()
	var ids []int64
	for _, p := range testPoems {
		id, err := InsertPoem(db, p)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func titles(poems []corpus.Poem) []string {
	var out []string
	for _, p := range poems {
		out = append(out, p.Title)
	}
	return out
}

func TestOpenIsolated(t *testing.T) {
	a := setupTestDB(t)
	b := setupTestDB(t)
	seed(t, a)

	got, err := Search(b, "", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	all, err := Search(db, "", AllCategories)
	require.NoError(t, err)
	assert.Equal(t, testPoems, all)

	got, err := Search(db, "RAIN", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Morning Rain", "Storm"}, titles(got))

	got, err = Search(db, "love", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Her Letters"}, titles(got), "body and category match once")

	got, err = Search(db, "rain", "Love")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Search(db, "  ", "Weather")
	require.NoError(t, err)
	assert.Equal(t, []string{"Morning Rain", "Storm"}, titles(got))
}

func TestCategories(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	cats, err := Categories(db, "")
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{{Name: "Love", Count: 1}, {Name: "Weather", Count: 2}}, cats)

	cats, err = Categories(db, "thunder")
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{{Name: "Weather", Count: 1}}, cats)
}

func TestInsertPoemWordsAndTopWords(t *testing.T) {
	db := setupTestDB(t)
	ids := seed(t, db)

	require.NoError(t, InsertPoemWords(db, ids[0], []wordcloud.WordFrequency{{Word: "rain", Count: 2}, {Word: "roof", Count: 1}}))
	require.NoError(t, InsertPoemWords(db, ids[1], []wordcloud.WordFrequency{{Word: "ink", Count: 1}, {Word: "love", Count: 3}}))
	require.NoError(t, InsertPoemWords(db, ids[2], []wordcloud.WordFrequency{{Word: "thunder", Count: 1}, {Word: "rain", Count: 1}}))
	// Counts accumulate on repeat.
	require.NoError(t, InsertPoemWords(db, ids[2], []wordcloud.WordFrequency{{Word: "thunder", Count: 1}}))

	top, err := TopWords(db, "", 3)
	require.NoError(t, err)
	assert.Equal(t, []wordcloud.WordFrequency{{Word: "rain", Count: 3}, {Word: "love", Count: 3}, {Word: "thunder", Count: 2}}, top)

	top, err = TopWords(db, "Weather", 10)
	require.NoError(t, err)
	assert.Equal(t, []wordcloud.WordFrequency{{Word: "rain", Count: 3}, {Word: "thunder", Count: 2}, {Word: "roof", Count: 1}}, top)

	top, err = TopWords(db, AllCategories, 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestInsertPoemWordsRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	ids := seed(t, db)

	assert.Error(t, InsertPoemWords(db, 0, []wordcloud.WordFrequency{{Word: "a", Count: 1}}))
	assert.Error(t, InsertPoemWords(db, ids[0], []wordcloud.WordFrequency{{Word: "a", Count: 0}}))
	assert.Error(t, InsertPoemWords(db, ids[0], []wordcloud.WordFrequency{{Word: " ", Count: 1}}))
}

func TestCreateOrGetWord(t *testing.T) {
	db := setupTestDB(t)

	id1, err := CreateOrGetWord(db, "猫")
	require.NoError(t, err)
	id2, err := CreateOrGetWord(db, " 猫 ")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestInsertPoemInTx(t *testing.T) {
	db := setupTestDB(t)

	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = InsertPoem(tx, testPoems[0])
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	got, err := Search(db, "", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
