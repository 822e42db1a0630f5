// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset assembles fetched papers into a dated snapshot and writes
// it to disk as JSON or YAML.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperhub/internal/arxiv"
	"github.com/pdiddy/paperhub/pkg/types"
)

// TimestampLayout formats Dataset.LastUpdated in UTC.
const TimestampLayout = "2006-01-02T15:04:05Z"

// DefaultPath is where fetch writes the snapshot when asked to save one.
const DefaultPath = "data/papers.json"

// Format selects the snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates name; an empty name infers the format from path.
func ParseFormat(name, path string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return FormatYAML, nil
		default:
			return FormatJSON, nil
		}
	default:
		return "", fmt.Errorf("unsupported format %q: use json or yaml", name)
	}
}

// Build returns a snapshot of page taken at now, industry papers first.
func Build(page types.PaperPage, now time.Time) types.Dataset {
	return types.Dataset{
		LastUpdated:  now.UTC().Format(TimestampLayout),
		TotalResults: page.Total,
		Papers:       arxiv.SortIndustryFirst(page.Papers),
	}
}

// Counts returns how many papers of ds are industry and academic.
func Counts(ds types.Dataset) (industry, academic int) {
	for _, p := range ds.Papers {
		if p.IsIndustry() {
			industry++
		} else {
			academic++
		}
	}
	return industry, academic
}

// Write encodes ds to path. The file is replaced atomically so a reader
// never sees a half-written snapshot.
func Write(path string, ds types.Dataset, format Format) error {
	data, err := encode(ds, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// Read loads a snapshot written by Write.
func Read(path string, format Format) (types.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var ds types.Dataset
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &ds)
	default:
		err = json.Unmarshal(data, &ds)
	}
	if err != nil {
		return types.Dataset{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return ds, nil
}

func encode(ds types.Dataset, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(ds); err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.Marshal(ds)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
