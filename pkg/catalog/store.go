package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/japaniel/poemcloud/pkg/corpus"
	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// InsertPoem stores a poem and returns its catalog id. Catalog ids follow
// insertion order, which is the order Search returns.
func InsertPoem(db DBExecutor, p corpus.Poem) (int64, error) {
	res, err := db.Exec(`INSERT INTO poems
		(poem_id, number, title, body, category, page, date, title_lc, body_lc, category_lc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Number, p.Title, p.Body, p.Category, p.Page, p.Date,
		strings.ToLower(p.Title), strings.ToLower(p.Body), strings.ToLower(p.Category),
	)
	if err != nil {
		return 0, fmt.Errorf("insert poem %q: %w", p.Title, err)
	}
	return res.LastInsertId()
}

// CreateOrGetWord returns the id of word, inserting it when missing.
func CreateOrGetWord(db DBExecutor, word string) (int64, error) {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return 0, fmt.Errorf("word must be non-empty")
	}
	var id int64
	err := db.QueryRow(`INSERT INTO words (word) VALUES (?)
		ON CONFLICT(word) DO UPDATE SET word = excluded.word
		RETURNING id`, trimmed).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert word: %w", err)
	}
	return id, nil
}

// InsertPoemWords records how often each word occurs in a poem. Repeated
// calls for the same poem add to the stored counts.
func InsertPoemWords(db DBExecutor, poemID int64, counts []wordcloud.WordFrequency) error {
	if poemID <= 0 {
		return fmt.Errorf("poemID must be positive")
	}
	for _, wf := range counts {
		if wf.Count < 1 {
			return fmt.Errorf("count for %q must be positive, got %d", wf.Word, wf.Count)
		}
		wordID, err := CreateOrGetWord(db, wf.Word)
		if err != nil {
			return err
		}
		_, err = db.Exec(`INSERT INTO poem_words (poem_id, word_id, occurrence_count)
			VALUES (?, ?, ?)
			ON CONFLICT(poem_id, word_id) DO UPDATE SET
			  occurrence_count = poem_words.occurrence_count + excluded.occurrence_count`,
			poemID, wordID, wf.Count)
		if err != nil {
			return fmt.Errorf("link word %q: %w", wf.Word, err)
		}
	}
	return nil
}

// filter builds the WHERE clause shared by Search and Categories. An empty
// query matches everything; "All" or an empty category disables the
// category filter.
func filter(query, category string) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		conds = append(conds, `(instr(title_lc, ?) > 0 OR instr(body_lc, ?) > 0 OR instr(category_lc, ?) > 0)`)
		args = append(args, q, q, q)
	}
	if category != "" && category != AllCategories {
		conds = append(conds, `category = ?`)
		args = append(args, category)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Search returns the poems whose title, body or category contains query
// (case-insensitive), optionally restricted to one category, in insertion
// order.
func Search(db DBExecutor, query, category string) ([]corpus.Poem, error) {
	where, args := filter(query, category)
	rows, err := db.Query(`SELECT poem_id, number, title, body, category, page, date FROM poems`+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("search poems: %w", err)
	}
	defer rows.Close()

	var out []corpus.Poem
	for rows.Next() {
		var p corpus.Poem
		if err := rows.Scan(&p.ID, &p.Number, &p.Title, &p.Body, &p.Category, &p.Page, &p.Date); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories lists the non-empty categories of the poems matching query,
// sorted by name.
func Categories(db DBExecutor, query string) ([]CategoryCount, error) {
	where, args := filter(query, "")
	if where == "" {
		where = " WHERE category <> ''"
	} else {
		where += " AND category <> ''"
	}
	rows, err := db.Query(`SELECT category, COUNT(*) FROM poems`+where+` GROUP BY category ORDER BY category`, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TopWords returns the n most frequent words of a category ("All" or empty
// for the whole collection). Ties keep first-seen order.
func TopWords(db DBExecutor, category string, n int) ([]wordcloud.WordFrequency, error) {
	if n <= 0 {
		return nil, nil
	}
	q := `SELECT w.word, SUM(pw.occurrence_count) AS total
		FROM poem_words pw
		JOIN words w ON w.id = pw.word_id
		JOIN poems p ON p.id = pw.poem_id`
	var args []interface{}
	if category != "" && category != AllCategories {
		q += ` WHERE p.category = ?`
		args = append(args, category)
	}
	q += ` GROUP BY w.id ORDER BY total DESC, w.id ASC LIMIT ?`
	args = append(args, n)

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("top words: %w", err)
	}
	defer rows.Close()

	var out []wordcloud.WordFrequency
	for rows.Next() {
		var wf wordcloud.WordFrequency
		if err := rows.Scan(&wf.Word, &wf.Count); err != nil {
			return nil, err
		}
		out = append(out, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
