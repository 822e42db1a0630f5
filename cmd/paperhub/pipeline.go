// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperhub/internal/arxiv"
	"github.com/pdiddy/paperhub/internal/cache"
	"github.com/pdiddy/paperhub/internal/httputil"
	"github.com/pdiddy/paperhub/internal/langdetect"
	"github.com/pdiddy/paperhub/internal/secrets"
	"github.com/pdiddy/paperhub/internal/translate"
	"github.com/pdiddy/paperhub/pkg/types"
)

// pipeline wires the fetch and translation stages from one config.
type pipeline struct {
	cfg        types.PipelineConfig
	arxiv      *arxiv.Client
	cache      *cache.Cache
	translator *translate.Translator
	closeStore func() error
}

func newPipeline(cfg types.PipelineConfig, s secrets.Secrets, log zerolog.Logger) (*pipeline, error) {
	// Attempt deadlines come from contexts, so the client has no timeout.
	client := &http.Client{}

	store, closeStore, err := openStore(cfg.Cache)
	if err != nil {
		return nil, err
	}
	c := cache.New(store,
		cache.WithPrefix(cfg.Cache.KeyPrefix),
		cache.WithLogger(log.With().Str("component", "cache").Logger()),
	)

	fetchRacer := httputil.NewRacer(client, cfg.Fetch, log.With().Str("component", "fetch").Logger())

	tcfg := cfg.Translation
	tcfg.ContactEmail = s.Value(secrets.MyMemoryEmail, tcfg.ContactEmail)

	primaryRacer := &httputil.Racer{
		Client:    client,
		Timeout:   tcfg.PrimaryTimeout,
		UserAgent: tcfg.UserAgent,
		Log:       log.With().Str("component", "google").Logger(),
	}

	tlog := log.With().Str("component", "translate").Logger()
	failures := uint32(max(tcfg.BreakerFailures, 0))
	// The secondary is the last resort and is never skipped.
	providers := []translate.Provider{
		translate.WithBreaker(translate.NewGoogleProvider(primaryRacer, tcfg), failures, tcfg.BreakerTimeout, tlog),
		translate.NewMyMemoryProvider(tcfg),
	}

	opts := []translate.Option{
		translate.WithMaxChunkLength(tcfg.MaxChunkLength),
		translate.WithChunkDelay(tcfg.ChunkDelay),
		translate.WithLogger(tlog),
	}
	if tcfg.SkipSameLanguage {
		opts = append(opts, translate.WithSameLanguageSkip(langdetect.New(), tcfg.TargetLang))
	}

	return &pipeline{
		cfg:        cfg,
		arxiv:      arxiv.NewClient(fetchRacer, cfg.Fetch, log.With().Str("component", "arxiv").Logger()),
		cache:      c,
		translator: translate.New(c, providers, opts...),
		closeStore: closeStore,
	}, nil
}

func (p *pipeline) Close() error {
	return p.closeStore()
}

// openStore opens the SQLite cache at cfg.Path, or an in-memory store when
// no path is configured.
func openStore(cfg types.CacheConfig) (cache.Store, func() error, error) {
	quota := cache.Quota{MaxEntries: cfg.MaxEntries, MaxBytes: cfg.MaxBytes}
	if cfg.Path == "" {
		return cache.NewMemoryStore(quota), func() error { return nil }, nil
	}
	s, err := cache.OpenSQLite(cfg.Path, quota)
	if err != nil {
		return nil, nil, fmt.Errorf("opening translation cache: %w", err)
	}
	return s, s.Close, nil
}
