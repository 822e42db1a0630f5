// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the translation cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the number of cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(func(p *pipeline) error {
			n, err := p.cache.Len()
			if err != nil {
				return err
			}
			location := p.cfg.Cache.Path
			if location == "" {
				location = "(memory)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache:        %s\n", location)
			fmt.Fprintf(cmd.OutOrStdout(), "Key prefix:   %s\n", p.cfg.Cache.KeyPrefix)
			fmt.Fprintf(cmd.OutOrStdout(), "Entries:      %d\n", n)
			if p.cfg.Cache.MaxEntries > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Max entries:  %d\n", p.cfg.Cache.MaxEntries)
			}
			if p.cfg.Cache.MaxBytes > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Max bytes:    %d\n", p.cfg.Cache.MaxBytes)
			}
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached translation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(func(p *pipeline) error {
			n, err := p.cache.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached translations\n", n)
			return nil
		})
	},
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Evict the oldest half of the cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(func(p *pipeline) error {
			n := p.cache.EvictHalf()
			fmt.Fprintf(cmd.OutOrStdout(), "Evicted %d cached translations\n", n)
			return nil
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cacheEvictCmd)
	rootCmd.AddCommand(cacheCmd)
}

func withPipeline(fn func(p *pipeline) error) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg, loadedSecrets, logger)
	if err != nil {
		return err
	}
	defer p.Close()
	return fn(p)
}
