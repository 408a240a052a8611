// Package corpus loads a poetry collection and turns it into the text that
// drives the word cloud.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownFormat is returned when a collection's format cannot be
	// inferred from its name or content type.
	ErrUnknownFormat = errors.New("corpus: unknown collection format")
	// ErrTooLarge is returned when a fetched collection exceeds the size cap.
	ErrTooLarge = errors.New("corpus: collection too large")
)

// Poem is one entry of the collection. Field names are matched
// case-insensitively when decoding ("Title", "title", "TITLE").
type Poem struct {
	ID       int    `json:"id"`
	Number   string `json:"number,omitempty"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Page     int    `json:"page,omitempty"`
	Date     string `json:"date,omitempty"`
}

// UnmarshalJSON accepts any casing of the field names and tolerates numbers
// encoded as strings (and vice versa), which hand-edited exports mix freely.
func (p *Poem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Poem
	for k, v := range raw {
		s, err := scalarString(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		switch strings.ToLower(k) {
		case "id":
			out.ID = atoiLenient(s)
		case "number":
			out.Number = s
		case "title":
			out.Title = s
		case "body":
			out.Body = s
		case "category":
			out.Category = s
		case "page":
			out.Page = atoiLenient(s)
		case "date":
			out.Date = s
		}
	}
	*p = out
	return nil
}

func scalarString(v json.RawMessage) (string, error) {
	var x any
	if err := json.Unmarshal(v, &x); err != nil {
		return "", err
	}
	switch t := x.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	// Nested values are not part of the schema.
	return "", nil
}

func atoiLenient(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// DisplayNumber is the poem number without zero padding ("007" → "7").
func (p Poem) DisplayNumber() string {
	n := strings.TrimLeft(p.Number, "0")
	if n == "" && p.ID > 0 {
		return strconv.Itoa(p.ID)
	}
	return n
}

// Text joins the corpus of a set of poems. Titles are counted twice so they
// weigh more in the cloud than a single line of body text.
func Text(poems []Poem) string {
	var chunks []string
	for _, p := range poems {
		if p.Title != "" {
			chunks = append(chunks, p.Title, p.Title)
		}
		if p.Body != "" {
			chunks = append(chunks, p.Body)
		}
		if p.Category != "" {
			chunks = append(chunks, p.Category)
		}
	}
	return strings.Join(chunks, " ")
}
