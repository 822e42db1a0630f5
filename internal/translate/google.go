// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/paperhub/internal/httputil"
	"github.com/pdiddy/paperhub/pkg/types"
)

// DefaultGoogleEndpoint is the keyless Google translate endpoint.
const DefaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleProvider is the primary provider. Every call races the request
// through the relays and directly against the endpoint at the same time.
type GoogleProvider struct {
	Endpoint   string
	SourceLang string
	TargetLang string
	Relays     []types.RelayEndpoint
	Racer      *httputil.Racer
}

// NewGoogleProvider builds the primary provider. racer supplies the HTTP
// client and the short per-attempt timeout.
func NewGoogleProvider(racer *httputil.Racer, cfg types.TranslationConfig) *GoogleProvider {
	endpoint := cfg.PrimaryEndpoint
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}
	return &GoogleProvider{
		Endpoint:   endpoint,
		SourceLang: cfg.SourceLang,
		TargetLang: cfg.TargetLang,
		Relays:     cfg.PrimaryRelays,
		Racer:      racer,
	}
}

func (p *GoogleProvider) Name() string { return "google" }

// Translate races the relays and the direct endpoint; the first response that
// parses into text wins.
func (p *GoogleProvider) Translate(ctx context.Context, text string) (string, error) {
	target := p.requestURL(text)

	attempts := httputil.RelayAttempts(p.Relays, target)
	attempts = append(attempts, httputil.Attempt{
		Label:    "google-direct",
		URL:      target,
		Encoding: types.EncodingRaw,
	})

	out, err := p.Racer.RaceWith(ctx, attempts, parseGoogleResponse)
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), Err: err}
	}
	return out, nil
}

func (p *GoogleProvider) requestURL(text string) string {
	v := url.Values{}
	v.Set("client", "gtx")
	v.Set("sl", p.SourceLang)
	v.Set("tl", p.TargetLang)
	v.Set("dt", "t")
	v.Set("q", text)
	return p.Endpoint + "?" + v.Encode()
}

// parseGoogleResponse concatenates the translated fragments of a response
// shaped like [[["frag","src",...],["frag","src",...]],null,"en",...].
func parseGoogleResponse(body string) (string, error) {
	var top []json.RawMessage
	if err := json.Unmarshal([]byte(body), &top); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(top) == 0 {
		return "", errors.New("empty response")
	}

	var segments [][]any
	if err := json.Unmarshal(top[0], &segments); err != nil {
		return "", fmt.Errorf("decoding segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if frag, ok := seg[0].(string); ok {
			b.WriteString(frag)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("response has no translated text")
	}
	return b.String(), nil
}
