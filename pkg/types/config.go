package types

import (
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-attempt request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperhub/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// RelayEncoding tells how a relay returns the relayed body.
type RelayEncoding string

const (
	// EncodingRaw relays return the target body unchanged.
	EncodingRaw RelayEncoding = "raw"
	// EncodingJSON relays wrap the target body in a JSON envelope
	// {"contents": "..."} (allorigins /get style).
	EncodingJSON RelayEncoding = "json"
)

// URLPlaceholder marks where the encoded target goes in a relay template.
const URLPlaceholder = "{url}"

// RelayEndpoint is a third-party intermediary that re-issues a request on
// the caller's behalf.
type RelayEndpoint struct {
	// Name labels the relay in logs and errors.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Base is the address template. The percent-encoded target replaces
	// URLPlaceholder when present, otherwise it is appended.
	Base string `json:"base" yaml:"base" mapstructure:"base"`

	// Encoding is the response-encoding hint (default raw).
	Encoding RelayEncoding `json:"encoding" yaml:"encoding" mapstructure:"encoding"`
}

// Wrap returns the relay URL for target with target already percent-encoded.
func (r RelayEndpoint) Wrap(encodedTarget string) string {
	if strings.Contains(r.Base, URLPlaceholder) {
		return strings.Replace(r.Base, URLPlaceholder, encodedTarget, 1)
	}
	return r.Base + encodedTarget
}

// FetchConfig holds settings for retrieving the arXiv feed.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIBase is the arXiv query endpoint.
	APIBase string `json:"api_base" yaml:"api_base" mapstructure:"api_base"`

	// Relays are raced before falling back to a direct request.
	Relays []RelayEndpoint `json:"relays" yaml:"relays" mapstructure:"relays"`

	// DirectRetries is how many times the direct attempt retries HTTP 429
	// inside its deadline (0 disables retrying).
	DirectRetries int `json:"direct_retries" yaml:"direct_retries" mapstructure:"direct_retries"`

	// MaxResults is the default page size (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// TranslationConfig holds settings for the translation pipeline.
type TranslationConfig struct {
	// SourceLang and TargetLang are provider language codes (e.g. "en", "zh-CN").
	SourceLang string `json:"source_lang" yaml:"source_lang" mapstructure:"source_lang"`
	TargetLang string `json:"target_lang" yaml:"target_lang" mapstructure:"target_lang"`

	// MaxChunkLength bounds each provider request in characters (default 1800).
	MaxChunkLength int `json:"max_chunk_length" yaml:"max_chunk_length" mapstructure:"max_chunk_length"`

	// ChunkDelay is the pause between consecutive chunk requests (default 300ms).
	ChunkDelay time.Duration `json:"chunk_delay" yaml:"chunk_delay" mapstructure:"chunk_delay"`

	// PrimaryEndpoint is the Google translate endpoint.
	PrimaryEndpoint string `json:"primary_endpoint" yaml:"primary_endpoint" mapstructure:"primary_endpoint"`

	// PrimaryTimeout is the per-attempt timeout of the primary race (default 8s).
	PrimaryTimeout time.Duration `json:"primary_timeout" yaml:"primary_timeout" mapstructure:"primary_timeout"`

	// PrimaryRelays are raced together with the direct primary endpoint.
	PrimaryRelays []RelayEndpoint `json:"primary_relays" yaml:"primary_relays" mapstructure:"primary_relays"`

	// SecondaryEndpoint is the MyMemory endpoint.
	SecondaryEndpoint string `json:"secondary_endpoint" yaml:"secondary_endpoint" mapstructure:"secondary_endpoint"`

	// SecondaryTimeout bounds the MyMemory request (default 10s).
	SecondaryTimeout time.Duration `json:"secondary_timeout" yaml:"secondary_timeout" mapstructure:"secondary_timeout"`

	// ContactEmail is sent to MyMemory for a larger daily quota.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty" mapstructure:"contact_email"`

	// BreakerFailures is the number of consecutive failures that opens the
	// primary provider's circuit; 0 (the default) disables the breaker.
	BreakerFailures int `json:"breaker_failures" yaml:"breaker_failures" mapstructure:"breaker_failures"`

	// BreakerTimeout is how long an open circuit skips its provider.
	BreakerTimeout time.Duration `json:"breaker_timeout" yaml:"breaker_timeout" mapstructure:"breaker_timeout"`

	// SkipSameLanguage returns text unchanged when it is already written in
	// the target language.
	SkipSameLanguage bool `json:"skip_same_language" yaml:"skip_same_language" mapstructure:"skip_same_language"`

	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CacheConfig holds settings for the translation cache store.
type CacheConfig struct {
	// Path is the SQLite file; empty keeps the cache in memory.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// KeyPrefix namespaces cache keys in the shared store (default "tr_").
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix" mapstructure:"key_prefix"`

	// MaxEntries caps the number of stored keys; 0 means unlimited.
	MaxEntries int `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`

	// MaxBytes caps the summed size of stored keys and values; 0 means unlimited.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`
}

// LogConfig selects the diagnostic log format and level.
type LogConfig struct {
	// Format is "console" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch       FetchConfig       `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Translation TranslationConfig `json:"translation" yaml:"translation" mapstructure:"translation"`
	Cache       CacheConfig       `json:"cache" yaml:"cache" mapstructure:"cache"`
	Log         LogConfig         `json:"log" yaml:"log" mapstructure:"log"`
}
