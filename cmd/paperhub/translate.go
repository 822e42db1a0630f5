// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text through the provider chain",
	Long: `Translate joins its arguments (or reads stdin when none are given) and
translates the text. Cached translations are returned without network calls;
--force drops the cached entry and translates again.`,
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().Bool("force", false, "ignore the cached translation")

	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("provide text as arguments or on stdin")
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg, loadedSecrets, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	translate := p.translator.Translate
	if force {
		translate = p.translator.Retranslate
	}
	out, ok := translate(ctx, text)
	if !ok {
		return errors.New("translation unavailable: every provider failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
