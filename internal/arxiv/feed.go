// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paperhub/pkg/types"
)

// Feed is one parsed page of the arXiv Atom feed.
type Feed struct {
	TotalResults int
	StartIndex   int
	ItemsPerPage int
	Papers       []types.Paper
}

// ErrNotFeed is returned when the body is not an Atom feed, e.g. an HTML
// page served by a relay.
var ErrNotFeed = errors.New("response is not an Atom feed")

// APIError is an error entry returned by arXiv for a rejected query.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "arXiv API error: " + e.Message
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	XMLName      xml.Name    `xml:"feed"`
	TotalResults string      `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	StartIndex   string      `xml:"http://a9.com/-/spec/opensearch/1.1/ startIndex"`
	ItemsPerPage string      `xml:"http://a9.com/-/spec/opensearch/1.1/ itemsPerPage"`
	Entries      []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
	Authors    []atomAuthor   `xml:"author"`
	Links      []atomLink     `xml:"link"`
	Categories []atomCategory `xml:"category"`
	Comment    string         `xml:"http://arxiv.org/schemas/atom comment"`
}

type atomAuthor struct {
	Name         string   `xml:"name"`
	Affiliations []string `xml:"http://arxiv.org/schemas/atom affiliation"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// ParseFeed decodes raw Atom text into papers. Entries keep feed order.
func ParseFeed(raw string) (Feed, error) {
	var f atomFeed
	if err := xml.Unmarshal([]byte(raw), &f); err != nil {
		return Feed{}, fmt.Errorf("%w: %v", ErrNotFeed, err)
	}

	feed := Feed{
		TotalResults: atoi(f.TotalResults),
		StartIndex:   atoi(f.StartIndex),
		ItemsPerPage: atoi(f.ItemsPerPage),
		Papers:       make([]types.Paper, 0, len(f.Entries)),
	}

	for _, e := range f.Entries {
		if strings.Contains(e.ID, "/api/errors") {
			return Feed{}, &APIError{Message: collapse(e.Summary)}
		}
		feed.Papers = append(feed.Papers, e.paper())
	}
	return feed, nil
}

func (e atomEntry) paper() types.Paper {
	p := types.Paper{
		ID:       extractArxivID(e.ID),
		EntryURL: strings.TrimSpace(e.ID),
		Title:    collapse(e.Title),
		Abstract: collapse(e.Summary),
		Comment:  strings.TrimSpace(e.Comment),
	}
	if p.ID == "" {
		p.ID = p.EntryURL
	}

	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
		for _, aff := range a.Affiliations {
			if aff = strings.TrimSpace(aff); aff != "" {
				p.Affiliations = append(p.Affiliations, aff)
			}
		}
	}

	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}

	for _, l := range e.Links {
		if l.Title == "pdf" {
			p.PDFURL = l.Href
		}
		if l.Type == "text/html" {
			p.AbsURL = l.Href
		}
	}
	if p.AbsURL == "" && len(e.Links) > 0 {
		p.AbsURL = e.Links[0].Href
	}

	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		p.Published = &t
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Updated)); err == nil {
		p.Updated = &t
	}

	p.IndustrySource = DetectIndustry(p.Affiliations, p.Abstract, p.Comment)
	return p
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := strings.TrimSpace(idURL[idx+len(prefix):])

	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

// collapse trims s and folds internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
