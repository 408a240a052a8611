package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/japaniel/poemcloud/pkg/config"
	"github.com/japaniel/poemcloud/pkg/render"
	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

// cardHeight approximates one poem card in the viewer, px. Used to size
// the document when no host reports its height.
const cardHeight = 320

var (
	inPath    string
	outPath   string
	search    string
	category  string
	format    string
	scrollY   float64
	docHeight float64
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the cloud of a collection to SVG, PNG or JSON",
	Example: `  poemcloud render --in poems.csv --out bg.svg
  poemcloud render --in https://example.org/poems.json --category Nature --out bg.png`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&inPath, "in", "", "Collection file or URL (.csv, .json, .html)")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	renderCmd.Flags().StringVar(&search, "search", "", "Only poems whose title, body or category contain this")
	renderCmd.Flags().StringVar(&category, "category", "", "Only poems of this category")
	renderCmd.Flags().StringVar(&format, "format", "", "Output format: svg, png or json (default from config or --out)")
	renderCmd.Flags().Float64Var(&scrollY, "scroll", 0, "Scroll offset of the viewport, px")
	renderCmd.Flags().Float64Var(&docHeight, "doc-height", 0, "Document height, px (default estimated from the poem count)")
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	poems, err := loadCollection(ctx, inPath)
	if err != nil {
		return err
	}
	lib, err := openLibrary(ctx, cfg, poems)
	if err != nil {
		return err
	}
	defer lib.Close()

	sel, err := lib.selectPoems(search, category)
	if err != nil {
		return err
	}
	vp := viewportFor(cfg, len(sel.poems))
	placements := lib.cloud(sel, vp)
	vp.ScrollY = scrollY

	cf := wordcloud.NewCrossFade()
	cf.Update(placements)
	cf.Commit(cf.Outgoing())
	frame := render.NewFrame(cf, vp, cfg.Options)

	f := outputFormat(format, outPath, cfg.Output.Format)
	if err := cfg.CheckFormat(f); err != nil {
		return err
	}
	logger.Info("rendering cloud",
		zap.Int("poems", len(sel.poems)),
		zap.Int("words", len(placements)),
		zap.String("format", f),
		zap.Float64("documentHeight", vp.DocumentHeight))

	var buf bytes.Buffer
	if err := writeFrame(&buf, f, frame, themeOf(cfg)); err != nil {
		return err
	}
	if outPath == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	return writeFileAtomic(outPath, buf.Bytes())
}

// viewportFor is the configured viewport over a document holding n poems
// (or --doc-height when given).
func viewportFor(c *config.Config, n int) wordcloud.Viewport {
	h := docHeight
	if h <= 0 {
		h = float64(n) * cardHeight
	}
	return c.InitialViewport(h)
}

func themeOf(c *config.Config) render.Theme {
	return render.Theme{Background: c.Output.Background, Color: c.Output.Color}
}

// outputFormat picks the explicit flag, then the output extension, then the
// configured default.
func outputFormat(flag, out, fallback string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".svg", ".png", ".json":
		return ext[1:]
	}
	return fallback
}

func writeFrame(w io.Writer, format string, f render.Frame, theme render.Theme) error {
	switch format {
	case "svg":
		return render.SVG(w, f, theme)
	case "png":
		return render.PNG(w, f, theme)
	case "json":
		return render.JSON(w, f)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeFileAtomic replaces path so watchers of the output never read a
// partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
