// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate turns text of any length into its translation. Text is
// cut into provider-sized chunks, each chunk goes through an ordered list of
// providers until one succeeds, and finished translations are cached by a
// fingerprint of the source text.
package translate

import (
	"context"
	"fmt"
)

// Provider translates one chunk of text. Providers are tried in a fixed
// priority order; an error moves on to the next provider.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// ProviderError reports a failed provider call.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
