// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv builds arXiv API queries, retrieves result pages through the
// relay racer, and parses the Atom feed into papers.
package arxiv

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperhub/internal/httputil"
	"github.com/pdiddy/paperhub/pkg/types"
)

// Client fetches pages of papers from the arXiv API.
type Client struct {
	Racer   *httputil.Racer
	BaseURL string

	// MaxResults is used when a call passes no page size.
	MaxResults int

	Log zerolog.Logger
}

// NewClient returns a Client for the configured endpoint.
func NewClient(racer *httputil.Racer, cfg types.FetchConfig, log zerolog.Logger) *Client {
	return &Client{
		Racer:      racer,
		BaseURL:    cfg.APIBase,
		MaxResults: cfg.MaxResults,
		Log:        log,
	}
}

// FetchPapers retrieves one page of results. Papers keep feed order
// (newest submission first). The error is non-nil only when every relay and
// the direct request failed or the feed could not be parsed.
func (c *Client) FetchPapers(ctx context.Context, searchText, category string, start, maxResults int) (types.PaperPage, error) {
	if start < 0 {
		start = 0
	}
	if maxResults <= 0 {
		maxResults = c.MaxResults
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	target := BuildURL(c.BaseURL, searchText, category, start, maxResults)
	c.Log.Debug().Str("url", target).Msg("fetching arXiv page")

	raw, err := c.Racer.FetchWith(ctx, target, validateFeed)
	if err != nil {
		return types.PaperPage{}, fmt.Errorf("fetching arXiv feed: %w", err)
	}
	feed, err := ParseFeed(raw)
	if err != nil {
		return types.PaperPage{}, err
	}

	total := feed.TotalResults
	if total < start+len(feed.Papers) {
		total = start + len(feed.Papers)
	}
	c.Log.Info().
		Int("papers", len(feed.Papers)).
		Int("total", total).
		Int("start", start).
		Msg("fetched arXiv page")

	return types.PaperPage{
		Papers:     feed.Papers,
		Total:      total,
		Start:      start,
		MaxResults: maxResults,
	}, nil
}

// validateFeed keeps a relay's HTML error page from winning the race.
func validateFeed(body string) (string, error) {
	if _, err := ParseFeed(body); err != nil {
		return "", err
	}
	return body, nil
}

// SortIndustryFirst returns papers with industry papers ahead of academic
// ones, each group keeping its original order.
func SortIndustryFirst(papers []types.Paper) []types.Paper {
	out := make([]types.Paper, 0, len(papers))
	for _, p := range papers {
		if p.IsIndustry() {
			out = append(out, p)
		}
	}
	for _, p := range papers {
		if !p.IsIndustry() {
			out = append(out, p)
		}
	}
	return out
}
