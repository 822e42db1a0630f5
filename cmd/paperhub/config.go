// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperhub/internal/arxiv"
	"github.com/pdiddy/paperhub/internal/cache"
	"github.com/pdiddy/paperhub/internal/chunk"
	"github.com/pdiddy/paperhub/internal/secrets"
	"github.com/pdiddy/paperhub/internal/translate"
	"github.com/pdiddy/paperhub/pkg/types"
)

const defaultUserAgent = "paperhub/0.1"

// setDefaults registers every configuration key with its default so env
// overrides and config files resolve against a complete key set.
func setDefaults(v *viper.Viper) {
	v.SetDefault("secrets_dir", secrets.DefaultDir)

	v.SetDefault("fetch.api_base", arxiv.DefaultAPIBase)
	v.SetDefault("fetch.timeout", 12*time.Second)
	v.SetDefault("fetch.user_agent", defaultUserAgent)
	v.SetDefault("fetch.direct_retries", 2)
	v.SetDefault("fetch.max_results", arxiv.DefaultMaxResults)
	v.SetDefault("fetch.relays", []map[string]any{
		{"name": "allorigins", "base": "https://api.allorigins.win/raw?url=", "encoding": "raw"},
		{"name": "corsproxy", "base": "https://corsproxy.io/?url={url}", "encoding": "raw"},
		{"name": "allorigins-get", "base": "https://api.allorigins.win/get?url=", "encoding": "json"},
	})

	v.SetDefault("translation.source_lang", "en")
	v.SetDefault("translation.target_lang", "zh-CN")
	v.SetDefault("translation.max_chunk_length", chunk.DefaultMaxLength)
	v.SetDefault("translation.chunk_delay", translate.DefaultChunkDelay)
	v.SetDefault("translation.primary_endpoint", translate.DefaultGoogleEndpoint)
	v.SetDefault("translation.primary_timeout", 8*time.Second)
	v.SetDefault("translation.primary_relays", []map[string]any{
		{"name": "allorigins", "base": "https://api.allorigins.win/raw?url=", "encoding": "raw"},
		{"name": "corsproxy", "base": "https://corsproxy.io/?url={url}", "encoding": "raw"},
	})
	v.SetDefault("translation.secondary_endpoint", translate.DefaultMyMemoryEndpoint)
	v.SetDefault("translation.secondary_timeout", 10*time.Second)
	v.SetDefault("translation.contact_email", "")
	v.SetDefault("translation.breaker_failures", 0)
	v.SetDefault("translation.breaker_timeout", time.Minute)
	v.SetDefault("translation.skip_same_language", true)
	v.SetDefault("translation.user_agent", defaultUserAgent)

	v.SetDefault("cache.path", defaultCachePath())
	v.SetDefault("cache.key_prefix", cache.DefaultPrefix)
	v.SetDefault("cache.max_entries", 5000)
	v.SetDefault("cache.max_bytes", 5<<20)

	v.SetDefault("log.format", "console")
	v.SetDefault("log.level", "warn")
}

// loadConfig decodes the merged defaults, config file, env, and flags.
func loadConfig(v *viper.Viper) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	for _, relays := range [][]types.RelayEndpoint{cfg.Fetch.Relays, cfg.Translation.PrimaryRelays} {
		for i := range relays {
			if relays[i].Encoding == "" {
				relays[i].Encoding = types.EncodingRaw
			}
			if relays[i].Encoding != types.EncodingRaw && relays[i].Encoding != types.EncodingJSON {
				return cfg, fmt.Errorf("relay %q: unknown encoding %q", relays[i].Name, relays[i].Encoding)
			}
		}
	}
	return cfg, nil
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "paperhub", "translations.db")
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag.Name, err))
	}
}
