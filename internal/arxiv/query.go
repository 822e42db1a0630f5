// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultAPIBase is the arXiv query endpoint.
const DefaultAPIBase = "https://export.arxiv.org/api/query"

// DefaultMaxResults is the page size when the caller gives none.
const DefaultMaxResults = 50

// DefaultSearchTerms are searched in titles and abstracts when the caller
// gives no free text.
var DefaultSearchTerms = []string{
	"generative recommendation",
	"generative recommender",
	"LLM recommendation",
	"large language model recommendation",
	"diffusion recommendation",
	"generative retrieval recommendation",
}

// BuildQuery returns the search_query expression. Free text becomes a
// phrase match over all fields; otherwise every default term is matched
// against title or abstract. A category narrows either form.
func BuildQuery(searchText, category string) string {
	var expr string
	if phrase := strings.Join(strings.Fields(searchText), " "); phrase != "" {
		expr = `all:"` + stripQuotes(phrase) + `"`
	} else {
		parts := make([]string, 0, 2*len(DefaultSearchTerms))
		for _, term := range DefaultSearchTerms {
			parts = append(parts, `ti:"`+term+`"`, `abs:"`+term+`"`)
		}
		expr = strings.Join(parts, " OR ")
	}

	if category = strings.TrimSpace(category); category != "" {
		expr = "(" + expr + ") AND cat:" + category
	}
	return expr
}

// BuildURL returns the feed URL for one page of results, newest first.
func BuildURL(base, searchText, category string, start, maxResults int) string {
	if base == "" {
		base = DefaultAPIBase
	}
	v := url.Values{}
	v.Set("search_query", BuildQuery(searchText, category))
	v.Set("sortBy", "submittedDate")
	v.Set("sortOrder", "descending")
	v.Set("start", strconv.Itoa(start))
	v.Set("max_results", strconv.Itoa(maxResults))
	return base + "?" + v.Encode()
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}
