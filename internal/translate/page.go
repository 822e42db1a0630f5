// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"

	"github.com/pdiddy/paperhub/pkg/types"
)

// PageStats counts translated fields of a page.
type PageStats struct {
	Translated  int
	Unavailable int
}

// TranslatePage returns a copy of page with title and abstract translations
// filled in, one paper at a time. Fields whose translation failed stay empty.
func (t *Translator) TranslatePage(ctx context.Context, page types.PaperPage) (types.PaperPage, PageStats) {
	var stats PageStats
	papers := make([]types.Paper, len(page.Papers))
	copy(papers, page.Papers)

	for i := range papers {
		if ctx.Err() != nil {
			break
		}
		for _, field := range []struct {
			src string
			dst *string
		}{
			{papers[i].Title, &papers[i].TitleTranslated},
			{papers[i].Abstract, &papers[i].AbstractTranslated},
		} {
			if field.src == "" {
				continue
			}
			if out, ok := t.Translate(ctx, field.src); ok {
				*field.dst = out
				stats.Translated++
			} else {
				stats.Unavailable++
			}
		}
	}

	page.Papers = papers
	return page, stats
}
