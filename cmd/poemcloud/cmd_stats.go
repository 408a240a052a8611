package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/japaniel/poemcloud/pkg/catalog"
)

var topN int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show categories and the most frequent words of a collection",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&inPath, "in", "", "Collection file or URL")
	statsCmd.Flags().StringVar(&search, "search", "", "Count only poems containing this")
	statsCmd.Flags().StringVar(&category, "category", "", "Top words of this category only")
	statsCmd.Flags().IntVarP(&topN, "top", "n", 20, "Number of top words to list")
}

func runStats(cmd *cobra.Command, args []string) error {
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

	cats, err := catalog.Categories(lib.db, search)
	if err != nil {
		return err
	}
	words, err := catalog.TopWords(lib.db, category, topN)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	total := 0
	fmt.Fprintln(w, "CATEGORY\tPOEMS")
	for _, c := range cats {
		fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Count)
		total += c.Count
	}
	fmt.Fprintf(w, "%s\t%d\n", catalog.AllCategories, total)
	fmt.Fprintln(w)

	scope := category
	if scope == "" {
		scope = catalog.AllCategories
	}
	fmt.Fprintf(w, "WORD (%s)\tCOUNT\n", scope)
	for _, wf := range words {
		fmt.Fprintf(w, "%s\t%d\n", wf.Word, wf.Count)
	}
	return w.Flush()
}
