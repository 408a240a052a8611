package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/japaniel/poemcloud/pkg/corpus"
)

var outDir string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert a plain-text poetry book into book.json and poems.csv",
	Long: `Parses a book exported as plain text: front matter, a table of contents
under a line reading exactly "Poems", then the poems in TOC order. Writes
book.json (meta, toc, raw sections, poems, id maps) and poems.csv, both
loadable by the other commands.`,
	Example: `  poemcloud import --in "Collected Poems.txt" --outdir public`,
	RunE:    runImport,
}

func init() {
	importCmd.Flags().StringVar(&inPath, "in", "", "Book text file")
	importCmd.Flags().StringVar(&outDir, "outdir", ".", "Directory for book.json and poems.csv")
}

func runImport(cmd *cobra.Command, args []string) error {
	if inPath == "" {
		return errors.New("--in is required")
	}
	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("failed to open book: %w", err)
	}
	defer f.Close()

	book, err := corpus.ParseBook(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", inPath, err)
	}

	var js, csv bytes.Buffer
	if err := book.WriteJSON(&js); err != nil {
		return err
	}
	if err := book.WriteCSV(&csv); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(outDir, "book.json"), js.Bytes()); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(outDir, "poems.csv"), csv.Bytes()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Input: %s\n", inPath)
	fmt.Fprintf(out, "TOC entries: %d\n", len(book.TOC))
	fmt.Fprintf(out, "Poems parsed: %d\n", len(book.Poems))
	if !book.Complete() {
		logger.Warn("not every TOC title was found as a standalone heading",
			zap.Int("toc", len(book.TOC)),
			zap.Int("poems", len(book.Poems)))
		fmt.Fprintln(out, "WARNING: Poems parsed != TOC entries.")
	}
	return nil
}
