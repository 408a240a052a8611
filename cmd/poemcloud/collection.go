package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/japaniel/poemcloud/pkg/catalog"
	"github.com/japaniel/poemcloud/pkg/config"
	"github.com/japaniel/poemcloud/pkg/corpus"
	"github.com/japaniel/poemcloud/pkg/ingest"
	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// loadCollection reads a local file or fetches a URL once.
func loadCollection(ctx context.Context, in string) ([]corpus.Poem, error) {
	if in == "" {
		return nil, fmt.Errorf("--in is required")
	}
	if isURL(in) {
		logger.Info("fetching collection", zap.String("url", in))
		return corpus.Fetch(ctx, in)
	}
	return corpus.Load(in)
}

// library is a loaded collection indexed in the catalog, with the generator
// configured for its language.
type library struct {
	db    *sql.DB
	gen   *wordcloud.Generator
	poems []corpus.Poem
	// tokens is the token stream of the whole collection.
	tokens []string
}

func openLibrary(ctx context.Context, c *config.Config, poems []corpus.Poem) (*library, error) {
	seg, err := wordcloud.NewSegmenter(c.Language)
	if err != nil {
		return nil, err
	}
	gen, err := wordcloud.NewGenerator(c.Options, seg)
	if err != nil {
		return nil, err
	}
	db, err := catalog.Open()
	if err != nil {
		return nil, err
	}

	ig := ingest.NewIngester(db, seg, logger)
	res, err := ig.Ingest(ctx, poems)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("index collection: %w", err)
	}
	logger.Info("collection indexed",
		zap.Int("poems", res.Poems),
		zap.Int("tokens", len(res.Tokens)),
		zap.Int("links", res.Links))

	return &library{db: db, gen: gen, poems: poems, tokens: res.Tokens}, nil
}

func (l *library) Close() error { return l.db.Close() }

// selection is the subset of the collection a search and category pick.
type selection struct {
	poems []corpus.Poem
	// tokens is set when the whole collection is selected.
	tokens []string
}

func unfiltered(search, category string) bool {
	return strings.TrimSpace(search) == "" && (category == "" || category == catalog.AllCategories)
}

// selectPoems runs the catalog search for search and category.
func (l *library) selectPoems(search, category string) (selection, error) {
	if unfiltered(search, category) {
		return selection{poems: l.poems, tokens: l.tokens}, nil
	}
	matches, err := catalog.Search(l.db, search, category)
	if err != nil {
		return selection{}, err
	}
	return selection{poems: matches}, nil
}

// cloud generates placements for sel. The whole collection reuses the
// tokens computed while indexing.
func (l *library) cloud(sel selection, vp wordcloud.Viewport) []wordcloud.Placement {
	text := corpus.Text(sel.poems)
	if sel.tokens != nil {
		return l.gen.GenerateTokens(text, sel.tokens, vp)
	}
	return l.gen.Generate(text, vp)
}
