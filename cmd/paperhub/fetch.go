// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperhub/internal/arxiv"
	"github.com/pdiddy/paperhub/internal/dataset"
	"github.com/pdiddy/paperhub/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a page of papers from arXiv",
	Long: `Fetch retrieves one page of arXiv results, newest first. Without --query the
default generative-recommendation terms are searched in titles and abstracts.
The request is raced across the configured relays and falls back to a direct
request when every relay fails.

With --translate, titles and abstracts are translated one paper at a time.
With --output, the page is saved as a dated snapshot with industry papers
first.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("query", "", "free-text phrase searched in all fields")
	fetchCmd.Flags().String("category", "", "restrict to an arXiv category (e.g. cs.IR)")
	fetchCmd.Flags().Int("start", 0, "offset of the first result")
	fetchCmd.Flags().Int("max-results", 0, "page size (default fetch.max_results)")
	fetchCmd.Flags().Bool("translate", false, "translate titles and abstracts")
	fetchCmd.Flags().Bool("json", false, "output the page as JSON")
	fetchCmd.Flags().String("output", "", "save a snapshot to this file (e.g. "+dataset.DefaultPath+")")
	fetchCmd.Flags().String("format", "", "snapshot format: json or yaml (default from --output extension)")

	mustBind("fetch.max_results", fetchCmd.Flags().Lookup("max-results"))

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	category, _ := cmd.Flags().GetString("category")
	start, _ := cmd.Flags().GetInt("start")
	doTranslate, _ := cmd.Flags().GetBool("translate")
	asJSON, _ := cmd.Flags().GetBool("json")
	output, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")

	var format dataset.Format
	if output != "" {
		f, err := dataset.ParseFormat(formatName, output)
		if err != nil {
			return err
		}
		format = f
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg, loadedSecrets, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	page, err := p.arxiv.FetchPapers(ctx, query, category, start, cfg.Fetch.MaxResults)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Fetched %d of %d papers\n", len(page.Papers), page.Total)

	if doTranslate {
		page = translatePage(ctx, p, page, os.Stderr)
	}

	if output != "" {
		ds := dataset.Build(page, time.Now())
		if err := dataset.Write(output, ds, format); err != nil {
			return err
		}
		industry, academic := dataset.Counts(ds)
		fmt.Printf("Saved to %s (%d papers: %d industry, %d academic; updated %s)\n",
			output, len(ds.Papers), industry, academic, ds.LastUpdated)
		return nil
	}

	switch {
	case asJSON:
		return arxiv.FormatJSON(page, os.Stdout)
	case doTranslate:
		arxiv.FormatTranslated(page, os.Stdout)
	default:
		arxiv.FormatTable(page, os.Stdout)
	}
	return nil
}

func translatePage(ctx context.Context, p *pipeline, page types.PaperPage, w io.Writer) types.PaperPage {
	fmt.Fprintf(w, "Translating %d papers...\n", len(page.Papers))
	out, stats := p.translator.TranslatePage(ctx, page)
	fmt.Fprintf(w, "Translated %d fields", stats.Translated)
	if stats.Unavailable > 0 {
		fmt.Fprintf(w, " (%d unavailable)", stats.Unavailable)
	}
	fmt.Fprintln(w)
	return out
}
