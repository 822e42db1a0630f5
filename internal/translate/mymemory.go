// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pdiddy/paperhub/pkg/types"
)

const (
	// DefaultMyMemoryEndpoint is the public MyMemory API.
	DefaultMyMemoryEndpoint = "https://api.mymemory.translated.net/get"

	defaultMyMemoryTimeout = 10 * time.Second
)

// MyMemoryProvider is the secondary provider, called directly.
type MyMemoryProvider struct {
	client   *resty.Client
	endpoint string
	langpair string
	email    string
}

// NewMyMemoryProvider builds the secondary provider.
func NewMyMemoryProvider(cfg types.TranslationConfig) *MyMemoryProvider {
	endpoint := cfg.SecondaryEndpoint
	if endpoint == "" {
		endpoint = DefaultMyMemoryEndpoint
	}
	timeout := cfg.SecondaryTimeout
	if timeout <= 0 {
		timeout = defaultMyMemoryTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &MyMemoryProvider{
		client:   client,
		endpoint: endpoint,
		langpair: cfg.SourceLang + "|" + cfg.TargetLang,
		email:    cfg.ContactEmail,
	}
}

func (p *MyMemoryProvider) Name() string { return "mymemory" }

type myMemoryResponse struct {
	ResponseStatus  json.RawMessage `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
	ResponseData    struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate issues a single GET. Any responseStatus other than 200 fails.
func (p *MyMemoryProvider) Translate(ctx context.Context, text string) (string, error) {
	params := map[string]string{
		"q":        text,
		"langpair": p.langpair,
	}
	if p.email != "" {
		params["de"] = p.email
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(p.endpoint)
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), Err: err}
	}
	if resp.IsError() {
		return "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("HTTP %d", resp.StatusCode())}
	}

	var parsed myMemoryResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("decoding response: %w", err)}
	}

	status, err := parseStatus(parsed.ResponseStatus)
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), Err: err}
	}
	if status != 200 {
		return "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("responseStatus %d: %s", status, parsed.ResponseDetails)}
	}

	out := parsed.ResponseData.TranslatedText
	if strings.TrimSpace(out) == "" {
		return "", &ProviderError{Provider: p.Name(), Err: errors.New("empty translation")}
	}
	return out, nil
}

// parseStatus accepts responseStatus as a JSON number or a quoted number;
// MyMemory uses both.
func parseStatus(raw json.RawMessage) (int, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return 0, errors.New("missing responseStatus")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid responseStatus %q", s)
	}
	return n, nil
}
