package corpus

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoTOC is returned by ParseBook when the text has no "Poems" heading
// followed by table-of-contents entries.
var ErrNoTOC = errors.New("corpus: no table of contents (expected a line 'Poems' followed by entries)")

// DefaultCategory is assigned to poems parsed from a book.
const DefaultCategory = "Uncategorized"

const (
	tocHeading   = "Poems"
	metaWindow   = 300
	titleWindow  = 60
	dateLookback = 6
)

var (
	separatorRE = regexp.MustCompile(`^\s*_{5,}\s*$`)
	tocRE       = regexp.MustCompile(`^(?P<title>.+?)\s+(?P<page>\d{1,4})\s*$`)

	yearOnlyRE     = regexp.MustCompile(`^(1[89]\d{2}|20\d{2})$`)
	dayMonthYearRE = regexp.MustCompile(`^\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]{3,9},?\s+(1[89]\d{2}|20\d{2})$`)
	monthDayYearRE = regexp.MustCompile(`^[A-Za-z]{3,9}\s+\d{1,2}(?:st|nd|rd|th)?,\s*(1[89]\d{2}|20\d{2})$`)
	monthYearRE    = regexp.MustCompile(`^[A-Za-z]{3,9}\s+(1[89]\d{2}|20\d{2})$`)

	writtenByRE = regexp.MustCompile(`(?i)written by\s*\n(.+)`)
	publisherRE = regexp.MustCompile(`\n([^\n]*Publications)\s*\n(\d{3,4}/\d{4})`)
	copyrightRE = regexp.MustCompile(`(?i)copyright\s*\n(.+)`)

	quoteReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"’", "'", "‘", "'",
		"—", "-", "–", "-",
	)
)

// BookMeta is the front-matter information found at the top of a book.
type BookMeta struct {
	BookTitle          string `json:"bookTitle,omitempty"`
	Subtitle           string `json:"subtitle,omitempty"`
	Author             string `json:"author,omitempty"`
	Publisher          string `json:"publisher,omitempty"`
	YearHijriGregorian string `json:"yearHijriGregorian,omitempty"`
	Copyright          string `json:"copyright,omitempty"`
}

// TOCEntry is one line of the table of contents.
type TOCEntry struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// Section holds raw text that is not part of any poem.
type Section struct {
	Type string `json:"type"`
	Body string `json:"body"`
}

// Book is a parsed book export.
type Book struct {
	Meta      BookMeta       `json:"meta"`
	TOC       []TOCEntry     `json:"toc"`
	Sections  []Section      `json:"sections"`
	Poems     []Poem         `json:"poems"`
	IDToTitle map[int]string `json:"idToTitle"`
	TitleToID map[string]int `json:"titleToId"`
}

// Complete reports whether every TOC entry was matched to a poem.
func (b Book) Complete() bool { return len(b.Poems) == len(b.TOC) }

// ParseBook splits the plain text of a poetry book into poems using its
// table of contents. Each poem runs from its title line to the next title.
func ParseBook(r io.Reader) (Book, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Book{}, err
	}
	lines := splitLines(string(raw))

	book := Book{Meta: parseMeta(lines)}
	toc, headingIdx, tocEnd := findTOC(lines)
	if len(toc) == 0 {
		return Book{}, ErrNoTOC
	}
	book.TOC = toc

	firstPoem := tocEnd
	for i := tocEnd; i < len(lines); i++ {
		if norm(lines[i]) == toc[0].Title {
			firstPoem = i
			break
		}
	}

	book.Poems = extractPoems(lines, toc, firstPoem)
	book.IDToTitle = make(map[int]string, len(book.Poems))
	book.TitleToID = make(map[string]int, len(book.Poems))
	for i := range book.Poems {
		p := &book.Poems[i]
		p.ID = i + 1
		p.Number = strconv.Itoa(p.ID)
		p.Category = DefaultCategory
		book.IDToTitle[p.ID] = p.Title
		book.TitleToID[p.Title] = p.ID
	}

	if headingIdx > 0 {
		if front := strings.TrimSpace(strings.Join(lines[:headingIdx], "\n")); front != "" {
			book.Sections = append(book.Sections, Section{Type: "front_matter_raw", Body: front})
		}
	}
	if tocEnd > headingIdx {
		if tocRaw := strings.TrimSpace(strings.Join(lines[headingIdx:tocEnd], "\n")); tocRaw != "" {
			book.Sections = append(book.Sections, Section{Type: "toc_raw", Body: tocRaw})
		}
	}
	return book, nil
}

// WriteJSON writes the book.json export.
func (b Book) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// WriteCSV writes the poems.csv export read by the viewer.
func (b Book) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Category", "Number", "Title", "Body", "Page", "Date"}); err != nil {
		return err
	}
	for _, p := range b.Poems {
		page := ""
		if p.Page > 0 {
			page = strconv.Itoa(p.Page)
		}
		if err := cw.Write([]string{p.Category, p.Number, p.Title, p.Body, page, p.Date}); err != nil {
			return fmt.Errorf("write poem %d: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// norm makes titles comparable across typographic variants.
func norm(s string) string {
	return strings.Join(strings.Fields(quoteReplacer.Replace(s)), " ")
}

func isSeparator(line string) bool { return separatorRE.MatchString(line) }

func isBlank(line string) bool { return strings.TrimSpace(line) == "" }

func parseMeta(lines []string) BookMeta {
	var meta BookMeta

	var nonEmpty []string
	for _, l := range lines[:min(titleWindow, len(lines))] {
		if t := strings.TrimSpace(l); t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if len(nonEmpty) > 0 {
		meta.BookTitle = nonEmpty[0]
	}
	if len(nonEmpty) > 1 {
		meta.Subtitle = nonEmpty[1]
	}

	text := strings.Join(lines[:min(metaWindow, len(lines))], "\n")
	if m := writtenByRE.FindStringSubmatch(text); m != nil {
		meta.Author = strings.TrimSpace(m[1])
	}
	if m := publisherRE.FindStringSubmatch(text); m != nil {
		meta.Publisher = strings.TrimSpace(m[1])
		meta.YearHijriGregorian = strings.TrimSpace(m[2])
	}
	if m := copyrightRE.FindStringSubmatch(text); m != nil {
		meta.Copyright = strings.TrimSpace(m[1])
	}
	return meta
}

// findTOC returns the entries after the "Poems" heading, the heading index
// and the exclusive end of the TOC block.
func findTOC(lines []string) ([]TOCEntry, int, int) {
	heading := -1
	for i, l := range lines {
		if strings.TrimSpace(l) == tocHeading {
			heading = i
			break
		}
	}
	if heading == -1 {
		return nil, -1, -1
	}

	var toc []TOCEntry
	end := heading + 1
	for j := heading + 1; j < len(lines); j++ {
		s := strings.TrimSpace(lines[j])
		if s == "" {
			end = j + 1
			continue
		}
		if m := tocRE.FindStringSubmatch(s); m != nil {
			page, _ := strconv.Atoi(m[tocRE.SubexpIndex("page")])
			toc = append(toc, TOCEntry{Title: norm(m[tocRE.SubexpIndex("title")]), Page: page})
			end = j + 1
			continue
		}
		if len(toc) > 0 {
			end = j
			break
		}
		end = j + 1
	}
	return toc, heading, end
}

// titleIndices finds each TOC title in order, searching forward only. It
// stops at the first title that cannot be found.
func titleIndices(lines []string, start int, toc []TOCEntry) []int {
	var idx []int
	cursor := start
	for _, entry := range toc {
		found := -1
		for i := cursor; i < len(lines); i++ {
			if isBlank(lines[i]) || isSeparator(lines[i]) {
				continue
			}
			if norm(lines[i]) == entry.Title {
				found = i
				break
			}
		}
		if found == -1 {
			break
		}
		idx = append(idx, found)
		cursor = found + 1
	}
	return idx
}

func extractPoems(lines []string, toc []TOCEntry, start int) []Poem {
	idx := titleIndices(lines, start, toc)
	poems := make([]Poem, 0, len(idx))
	for i, at := range idx {
		next := len(lines)
		if i+1 < len(idx) {
			next = idx[i+1]
		}

		var cleaned []string
		for _, l := range lines[at+1 : next] {
			if !isSeparator(l) {
				cleaned = append(cleaned, strings.TrimRight(l, " \t"))
			}
		}
		cleaned = trimBlank(cleaned)
		for len(cleaned) > 0 && norm(cleaned[0]) == toc[i].Title {
			cleaned = trimBlank(cleaned[1:])
		}

		cleaned, date := popTrailingDate(cleaned)
		poems = append(poems, Poem{
			Title: toc[i].Title,
			Page:  toc[i].Page,
			Date:  date,
			Body:  strings.TrimSpace(strings.Join(cleaned, "\n")),
		})
	}
	return poems
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func stripWrapping(line string) string {
	t := strings.TrimSpace(line)
	if len(t) >= 2 && strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
		t = strings.TrimSpace(t[1 : len(t)-1])
	}
	return strings.TrimRight(t, " .;:,")
}

// LooksLikeDate reports whether a line is a bare date such as "1963",
// "14th July, 1963", "July 14, 1963" or "(Aug 1963)."
func LooksLikeDate(line string) bool {
	t := norm(stripWrapping(line))
	return yearOnlyRE.MatchString(t) ||
		dayMonthYearRE.MatchString(t) ||
		monthDayYearRE.MatchString(t) ||
		monthYearRE.MatchString(t)
}

// popTrailingDate removes a date line found among the last few non-empty
// lines of a poem and returns it.
func popTrailingDate(lines []string) ([]string, string) {
	var nonEmpty []int
	for i, l := range lines {
		if !isBlank(l) {
			nonEmpty = append(nonEmpty, i)
		}
	}
	for k := 1; k <= min(dateLookback, len(nonEmpty)); k++ {
		i := nonEmpty[len(nonEmpty)-k]
		if !LooksLikeDate(lines[i]) {
			continue
		}
		date := norm(stripWrapping(lines[i]))
		out := make([]string, 0, len(lines)-1)
		out = append(out, lines[:i]...)
		out = append(out, lines[i+1:]...)
		for len(out) > 0 && isBlank(out[len(out)-1]) {
			out = out[:len(out)-1]
		}
		return out, date
	}
	return lines, ""
}
