// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperhub pipeline:
// papers parsed from the arXiv feed, the page object returned by each
// retrieval call, dataset snapshots, relay endpoints, and stage configuration.
package types

import "time"

// Paper holds the metadata of one arXiv entry plus optional translations.
type Paper struct {
	// ID is the arXiv identifier without version suffix (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// EntryURL is the raw <id> of the Atom entry (e.g. "http://arxiv.org/abs/2301.07041v2").
	EntryURL string `json:"entryUrl" yaml:"entry_url"`

	// Title is the whitespace-collapsed paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the author names in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Affiliations lists every author affiliation reported by arXiv.
	Affiliations []string `json:"affiliations" yaml:"affiliations"`

	// Abstract is the whitespace-collapsed summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Comment is the free-form arXiv comment (page counts, venue, etc.).
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// Published is the first submission time; nil when the feed omits it.
	Published *time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	// Updated is the time of the latest revision; nil when the feed omits it.
	Updated *time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`

	// Categories lists the arXiv category terms (e.g. "cs.IR").
	Categories []string `json:"categories" yaml:"categories"`

	// PDFURL links to the PDF rendition.
	PDFURL string `json:"pdfUrl" yaml:"pdf_url"`

	// AbsURL links to the abstract page.
	AbsURL string `json:"absUrl" yaml:"abs_url"`

	// IndustrySource names the company a paper appears to come from, or "".
	IndustrySource string `json:"industrySource" yaml:"industry_source"`

	// TitleTranslated is the machine-translated title; empty when unavailable.
	TitleTranslated string `json:"titleTranslated,omitempty" yaml:"title_translated,omitempty"`

	// AbstractTranslated is the machine-translated abstract; empty when unavailable.
	AbstractTranslated string `json:"abstractTranslated,omitempty" yaml:"abstract_translated,omitempty"`
}

// IsIndustry reports whether the paper was attributed to a company.
func (p Paper) IsIndustry() bool {
	return p.IndustrySource != ""
}

// PaperPage is the result of one retrieval call. Callers pass it to
// rendering and translation explicitly instead of sharing global state.
type PaperPage struct {
	Papers     []Paper `json:"papers" yaml:"papers"`
	Total      int     `json:"total" yaml:"total"`
	Start      int     `json:"start" yaml:"start"`
	MaxResults int     `json:"maxResults" yaml:"max_results"`
}

// HasMore reports whether the feed holds entries beyond this page.
func (p PaperPage) HasMore() bool {
	return p.Start+len(p.Papers) < p.Total
}

// Dataset is an exported snapshot of a fetch run.
type Dataset struct {
	LastUpdated  string  `json:"lastUpdated" yaml:"last_updated"`
	TotalResults int     `json:"totalResults" yaml:"total_results"`
	Papers       []Paper `json:"papers" yaml:"papers"`
}
