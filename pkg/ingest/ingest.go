// Package ingest segments a poem collection in parallel and indexes it in
// the catalog, yielding the document-ordered token stream for the cloud.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/japaniel/poemcloud/pkg/catalog"
	"github.com/japaniel/poemcloud/pkg/corpus"
	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Ingester tokenizes poems and writes them to a catalog.
type Ingester struct {
	// DB is the catalog. nil skips indexing and only tokenizes.
	DB        *sql.DB
	Segmenter wordcloud.Segmenter
	Logger    *zap.Logger
	BatchSize int
	Workers   int
	// OnProgress is called with the number of poems handed to the writer.
	OnProgress func(current, total int)

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// Result summarises one Ingest run.
type Result struct {
	// Tokens is the token stream of corpus.Text(poems), in document order.
	Tokens []string
	Poems  int
	// Links is the number of (poem, word) pairs written to the catalog.
	Links int
}

// NewIngester creates an Ingester. A nil segmenter means English, a nil
// logger discards output.
func NewIngester(conn *sql.DB, seg wordcloud.Segmenter, logger *zap.Logger) *Ingester {
	if seg == nil {
		seg = wordcloud.EnglishSegmenter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{
		DB:        conn,
		Segmenter: seg,
		Logger:    logger,
		BatchSize: 50,
		Workers:   4,
	}
}

type processedPoem struct {
	Index  int
	Poem   corpus.Poem
	Tokens []string
	Counts []wordcloud.WordFrequency
}

// Ingest segments every poem on the worker pool, reassembles the results in
// input order and submits one catalog write per poem to a BatchWriter.
func (ig *Ingester) Ingest(ctx context.Context, poems []corpus.Poem) (Result, error) {
	start := time.Now()
	total := len(poems)
	if total == 0 {
		return Result{}, nil
	}
	logger := ig.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := max(ig.Workers, 1)

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}
	resultCh := make(chan processedPoem, workers*2)
	resultClosed := false

	bw := NewBatchWriter(ig.DB, ig.BatchSize, 100*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		wp.Close()
		if !resultClosed {
			close(resultCh)
		}
		_ = bw.Close()
	}()

	type outcome struct {
		tokens []string
		links  int
		err    error
	}
	doneCh := make(chan outcome, 1)

	wp.Start(ctx)

	// Consumer: reorder results and hand them to the writer.
	go func() {
		var out outcome
		pending := make(map[int]processedPoem)
		next := 0
		for {
			var (
				res processedPoem
				ok  bool
			)
			select {
			case <-ctx.Done():
				out.err = ctx.Err()
				doneCh <- out
				return
			case res, ok = <-resultCh:
			}
			if !ok {
				if next < total {
					out.err = fmt.Errorf("ingest: %d of %d poems processed", next, total)
				}
				doneCh <- out
				return
			}
			pending[res.Index] = res

			for {
				item, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				out.tokens = append(out.tokens, item.Tokens...)
				out.links += len(item.Counts)

				if ig.DB != nil {
					if err := bw.Submit(writePoem(item)); err != nil {
						cancel()
						out.err = err
						doneCh <- out
						return
					}
				}
				next++
				if ig.OnProgress != nil && (next%ig.batchSize() == 0 || next == total) {
					ig.OnProgress(next, total)
				}
			}
		}
	}()

Loop:
	for i := range poems {
		idx, p := i, poems[i]
		job := func(ctx context.Context) error {
			res := ig.processPoem(idx, p)
			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		}
		if err := wp.SubmitCtx(ctx, job); err != nil {
			if err == ctx.Err() || err == ErrPoolClosed {
				break Loop
			}
			return Result{}, fmt.Errorf("submit poem %d: %w", idx, err)
		}
	}

	wp.Close()
	close(resultCh)
	resultClosed = true

	out := <-doneCh
	if err := bw.Close(); err != nil && out.err == nil {
		out.err = err
	}
	if out.err != nil {
		return Result{}, out.err
	}

	batches, writes := bw.Stats()
	logger.Debug("ingest complete",
		zap.Int("poems", total),
		zap.Int("tokens", len(out.tokens)),
		zap.Int("links", out.links),
		zap.Int("batches", batches),
		zap.Int("writes", writes),
		zap.Duration("took", time.Since(start)))

	return Result{Tokens: out.tokens, Poems: total, Links: out.links}, nil
}

func (ig *Ingester) batchSize() int {
	if ig.BatchSize <= 0 {
		return 50
	}
	return ig.BatchSize
}

// processPoem is the CPU-bound part: segmenting one poem's share of the
// corpus text and counting its words.
func (ig *Ingester) processPoem(index int, p corpus.Poem) processedPoem {
	seg := ig.Segmenter
	if seg == nil {
		seg = wordcloud.EnglishSegmenter{}
	}
	tokens := seg.Segment(corpus.Text([]corpus.Poem{p}))
	return processedPoem{
		Index:  index,
		Poem:   p,
		Tokens: tokens,
		Counts: wordcloud.Rank(tokens),
	}
}

func writePoem(item processedPoem) WriteFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		id, err := catalog.InsertPoem(tx, item.Poem)
		if err != nil {
			return err
		}
		if err := catalog.InsertPoemWords(tx, id, item.Counts); err != nil {
			return fmt.Errorf("index words of %q: %w", item.Poem.Title, err)
		}
		return nil
	}
}
