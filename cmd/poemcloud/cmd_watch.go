package main

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/japaniel/poemcloud/pkg/config"
	"github.com/japaniel/poemcloud/pkg/corpus"
	"github.com/japaniel/poemcloud/pkg/render"
	"github.com/japaniel/poemcloud/pkg/watch"
	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the cloud whenever the collection file changes",
	Long: `Watches a local collection file and rewrites the output on every save.
The new cloud fades in over the old one; after fade_ms the old layer is
committed away and the file is written again with only the new cloud.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&inPath, "in", "", "Collection file to watch")
	watchCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file")
	watchCmd.Flags().StringVar(&search, "search", "", "Only poems whose title, body or category contain this")
	watchCmd.Flags().StringVar(&category, "category", "", "Only poems of this category")
	watchCmd.Flags().StringVar(&format, "format", "", "Output format: svg, png or json")
	watchCmd.Flags().Float64Var(&docHeight, "doc-height", 0, "Document height, px (default estimated from the poem count)")
}

// cloudFile keeps a cross-fade buffer mirrored into an output file.
type cloudFile struct {
	mu     sync.Mutex
	cfg    *config.Config
	path   string
	format string
	logger *zap.Logger

	cf   *wordcloud.CrossFade
	vp   wordcloud.Viewport
	fade *time.Timer
	// writes counts completed file writes.
	writes int
}

func newCloudFile(c *config.Config, path, format string, logger *zap.Logger) *cloudFile {
	return &cloudFile{
		cfg:    c,
		path:   path,
		format: format,
		logger: logger,
		cf:     wordcloud.NewCrossFade(),
	}
}

// reload rebuilds the cloud from the collection at in. A changed cloud is
// written as a transition and committed after the fade duration.
func (c *cloudFile) reload(ctx context.Context, in string) error {
	poems, err := corpus.Load(in)
	if err != nil {
		return err
	}
	lib, err := openLibrary(ctx, c.cfg, poems)
	if err != nil {
		return err
	}
	defer lib.Close()

	sel, err := lib.selectPoems(search, category)
	if err != nil {
		return err
	}
	vp := viewportFor(c.cfg, len(sel.poems))
	placements := lib.cloud(sel, vp)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cf.Update(placements) {
		c.logger.Debug("cloud unchanged", zap.String("in", in))
		return nil
	}
	c.vp = vp
	c.logger.Info("cloud updated", zap.Int("poems", len(sel.poems)), zap.Int("words", len(placements)))
	if err := c.writeLocked(); err != nil {
		return err
	}
	c.scheduleCommitLocked()
	return nil
}

func (c *cloudFile) scheduleCommitLocked() {
	if c.fade != nil {
		c.fade.Stop()
	}
	layer := c.cf.Outgoing()
	c.fade = time.AfterFunc(c.cfg.Fade(), func() {
		if err := c.commit(layer); err != nil {
			c.logger.Error("write committed cloud", zap.Error(err))
		}
	})
}

// commit finishes the transition of layer and rewrites the file.
func (c *cloudFile) commit(layer string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cf.Commit(layer) {
		return nil
	}
	c.logger.Debug("transition committed", zap.String("layer", layer))
	return c.writeLocked()
}

func (c *cloudFile) writeLocked() error {
	var buf bytes.Buffer
	frame := render.NewFrame(c.cf, c.vp, c.cfg.Options)
	if err := writeFrame(&buf, c.format, frame, themeOf(c.cfg)); err != nil {
		return err
	}
	if err := writeFileAtomic(c.path, buf.Bytes()); err != nil {
		return err
	}
	c.writes++
	return nil
}

func (c *cloudFile) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fade != nil {
		c.fade.Stop()
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	if inPath == "" || isURL(inPath) {
		return fmt.Errorf("--in must be a local file")
	}
	if outPath == "" {
		return fmt.Errorf("--out is required")
	}
	ctx := cmd.Context()
	f := outputFormat(format, outPath, cfg.Output.Format)
	if err := cfg.CheckFormat(f); err != nil {
		return err
	}
	out := newCloudFile(cfg, outPath, f, logger)
	defer out.stop()

	if err := out.reload(ctx, inPath); err != nil {
		return err
	}

	// Reloads run on their own goroutine; a burst collapses into one pending.
	changed := make(chan string, 1)
	fw, err := watch.NewFileWatcher(inPath, watch.DefaultFileDebounce, func(path string) {
		select {
		case changed <- path:
		default:
		}
	}, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if err := fw.Start(gctx); err != nil {
		return err
	}
	g.Go(func() error {
		<-gctx.Done()
		fw.Stop()
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case path := <-changed:
				if err := out.reload(gctx, path); err != nil {
					// A half-saved file is common; keep the last good cloud.
					logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
				}
			}
		}
	})
	return g.Wait()
}
