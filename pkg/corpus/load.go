package corpus

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Format is an on-disk collection format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatBook Format = "txt"
)

// FormatOf infers the format from a file name or URL path.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".txt":
		return FormatBook, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Load reads a collection from disk, picking the decoder by extension.
func Load(path string) ([]Poem, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	poems, err := Decode(data, format, nil)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return poems, nil
}

// Decode parses a collection held in memory. pageURL is only used by the
// HTML decoder to resolve relative links and may be nil.
func Decode(data []byte, format Format, pageURL *url.URL) ([]Poem, error) {
	switch format {
	case FormatCSV:
		return LoadCSV(bytes.NewReader(data))
	case FormatJSON:
		return LoadJSON(bytes.NewReader(data))
	case FormatHTML:
		return LoadHTML(bytes.NewReader(data), pageURL)
	case FormatBook:
		book, err := ParseBook(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return book.Poems, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// LoadCSV reads a header-first CSV export (Category, Number, Title, Body,
// Page, Date in any order and casing). Rows without a title, body and
// category are skipped, like the viewer does.
func LoadCSV(r io.Reader) ([]Poem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var poems []Poem
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		p := Poem{
			Number:   field(rec, "number"),
			Title:    field(rec, "title"),
			Body:     field(rec, "body"),
			Category: field(rec, "category"),
			Page:     atoiLenient(field(rec, "page")),
			Date:     field(rec, "date"),
		}
		p.ID = atoiLenient(field(rec, "id"))
		if p.ID == 0 {
			p.ID = atoiLenient(p.Number)
		}
		if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Body) == "" || strings.TrimSpace(p.Category) == "" {
			continue
		}
		poems = append(poems, p)
	}
	return poems, nil
}

// LoadJSON accepts either a book export ({"poems": [...]}) or a bare array of
// poems.
func LoadJSON(r io.Reader) ([]Poem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var poems []Poem
		if err := json.Unmarshal(data, &poems); err != nil {
			return nil, fmt.Errorf("parse poem array: %w", err)
		}
		return numbered(poems), nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse collection: %w", err)
	}
	for k, v := range wrapper {
		if strings.EqualFold(k, "poems") {
			var poems []Poem
			if err := json.Unmarshal(v, &poems); err != nil {
				return nil, fmt.Errorf("parse poems: %w", err)
			}
			return numbered(poems), nil
		}
	}
	return nil, fmt.Errorf("parse collection: no poems array")
}

// numbered fills in Number from ID for JSON sources that only carry ids.
func numbered(poems []Poem) []Poem {
	for i := range poems {
		if poems[i].Number == "" && poems[i].ID > 0 {
			poems[i].Number = strconv.Itoa(poems[i].ID)
		}
	}
	return poems
}
