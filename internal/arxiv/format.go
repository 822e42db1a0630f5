// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paperhub/pkg/types"
)

// TranslationUnavailable is shown in place of a translation that failed.
const TranslationUnavailable = "translation unavailable"

// FormatTable writes a page as a human-readable table to w.
func FormatTable(page types.PaperPage, w io.Writer) {
	if len(page.Papers) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-10s  %-12s  %-60s  %s\n",
		"#", "arXiv ID", "Date", "Industry", "Title", "Authors")
	fmt.Fprintln(w, strings.Repeat("-", 130))

	for i, p := range page.Papers {
		date := ""
		if p.Published != nil {
			date = p.Published.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%-4d  %-12s  %-10s  %-12s  %-60s  %s\n",
			page.Start+i+1, p.ID, date, truncate(p.IndustrySource, 12),
			truncate(p.Title, 60), formatAuthors(p.Authors))
	}

	fmt.Fprintf(w, "\n%d-%d of %d papers", page.Start+1, page.Start+len(page.Papers), page.Total)
	if page.HasMore() {
		fmt.Fprintf(w, " (next page: --start %d)", page.Start+len(page.Papers))
	}
	fmt.Fprintln(w)
}

// FormatTranslated writes each paper with its translated title and abstract,
// marking fields whose translation failed.
func FormatTranslated(page types.PaperPage, w io.Writer) {
	if len(page.Papers) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}
	for i, p := range page.Papers {
		fmt.Fprintf(w, "[%d] %s  %s\n", page.Start+i+1, p.ID, p.Title)
		fmt.Fprintf(w, "    %s\n", orUnavailable(p.TitleTranslated))
		if p.IndustrySource != "" {
			fmt.Fprintf(w, "    industry: %s\n", p.IndustrySource)
		}
		fmt.Fprintf(w, "    %s\n\n", orUnavailable(p.AbstractTranslated))
	}
}

// FormatJSON writes the page as indented JSON to w.
func FormatJSON(page types.PaperPage, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(page)
}

func orUnavailable(s string) string {
	if s == "" {
		return "(" + TranslationUnavailable + ")"
	}
	return s
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 24)
	default:
		return truncate(authors[0], 18) + " et al."
	}
}

// truncate shortens s to max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
