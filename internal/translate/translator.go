// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperhub/internal/cache"
	"github.com/pdiddy/paperhub/internal/chunk"
)

// DefaultChunkDelay spaces out consecutive chunk requests.
const DefaultChunkDelay = 300 * time.Millisecond

// LanguageDetector reports the ISO 639-1 code of text, or "" when unsure.
type LanguageDetector interface {
	Detect(text string) string
}

// Translator orchestrates chunking, provider fallback, and caching.
// It is safe for concurrent use.
type Translator struct {
	cache      *cache.Cache
	providers  []Provider
	maxChunk   int
	chunkDelay time.Duration
	detector   LanguageDetector
	targetBase string
	log        zerolog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithMaxChunkLength sets the chunk size in characters.
func WithMaxChunkLength(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.maxChunk = n
		}
	}
}

// WithChunkDelay sets the pause between chunks; zero disables it.
func WithChunkDelay(d time.Duration) Option {
	return func(t *Translator) { t.chunkDelay = d }
}

// WithSameLanguageSkip returns text unchanged, without caching, when d says
// it is already in targetLang (e.g. "zh-CN").
func WithSameLanguageSkip(d LanguageDetector, targetLang string) Option {
	return func(t *Translator) {
		t.detector = d
		t.targetBase = baseLanguage(targetLang)
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Translator) { t.log = log }
}

// New returns a Translator trying providers in the given order.
func New(c *cache.Cache, providers []Provider, opts ...Option) *Translator {
	t := &Translator{
		cache:      c,
		providers:  providers,
		maxChunk:   chunk.DefaultMaxLength,
		chunkDelay: DefaultChunkDelay,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate returns the translation of text and true, or "" and false when
// any chunk fails on every provider. It never panics and never returns
// partial text. Successful results are cached; a cached text costs no
// network calls.
func (t *Translator) Translate(ctx context.Context, text string) (string, bool) {
	return t.translate(ctx, text, false)
}

// Retranslate drops any cached entry for text and translates it again. It
// always reaches a provider: the same-language shortcut is skipped and open
// circuit breakers are bypassed.
func (t *Translator) Retranslate(ctx context.Context, text string) (string, bool) {
	t.cache.Delete(text)
	return t.translate(ctx, text, true)
}

func (t *Translator) translate(ctx context.Context, text string, force bool) (result string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error().Interface("panic", r).Msg("translation aborted")
			result, ok = "", false
		}
	}()

	if strings.TrimSpace(text) == "" {
		return "", true
	}

	if !force {
		if cached, hit := t.cache.Get(text); hit {
			return cached, true
		}
	}

	if !force && t.detector != nil && t.targetBase != "" && t.detector.Detect(text) == t.targetBase {
		t.log.Debug().Str("lang", t.targetBase).Msg("text already in target language")
		return text, true
	}

	chunks := chunk.Split(text, t.maxChunk)
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 && t.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				t.log.Warn().Err(ctx.Err()).Int("chunk", i).Msg("translation cancelled")
				return "", false
			case <-time.After(t.chunkDelay):
			}
		}

		out, err := t.translateChunk(ctx, c, force)
		if err != nil {
			t.log.Warn().
				Err(err).
				Int("chunk", i+1).
				Int("chunks", len(chunks)).
				Str("fingerprint", cache.Fingerprint(text)).
				Msg("translation unavailable")
			return "", false
		}
		b.WriteString(out)
	}

	result = b.String()
	t.cache.Put(text, result)
	return result, true
}

func (t *Translator) translateChunk(ctx context.Context, text string, force bool) (string, error) {
	if len(t.providers) == 0 {
		return "", errors.New("no translation providers configured")
	}

	var errs []error
	for _, p := range t.providers {
		if force {
			p = unwrapBreaker(p)
		}
		out, err := p.Translate(ctx, text)
		if err == nil {
			return out, nil
		}
		t.log.Debug().Err(err).Str("provider", p.Name()).Msg("provider failed")
		errs = append(errs, err)
	}
	return "", fmt.Errorf("all providers failed: %w", errors.Join(errs...))
}

func baseLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	return code
}
