// Package snapshot writes settled session snapshots out: to a stream as JSON
// or YAML, or into a SQLite file keyed by session and version.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pumped-fn/etp-sizing/pkg/model"
)

// Exporter persists or emits a snapshot.
type Exporter interface {
	Export(ctx context.Context, snap model.Snapshot) error
}

// JSONExporter writes indented JSON, one document per snapshot.
type JSONExporter struct {
	w io.Writer
}

func NewJSONExporter(w io.Writer) *JSONExporter {
	return &JSONExporter{w: w}
}

func (e *JSONExporter) Export(ctx context.Context, snap model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc := json.NewEncoder(e.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAMLExporter writes YAML documents separated by "---".
type YAMLExporter struct {
	w io.Writer
}

func NewYAMLExporter(w io.Writer) *YAMLExporter {
	return &YAMLExporter{w: w}
}

func (e *YAMLExporter) Export(ctx context.Context, snap model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Multi fans a snapshot out to several exporters, stopping at the first error.
type Multi []Exporter

func (m Multi) Export(ctx context.Context, snap model.Snapshot) error {
	for _, e := range m {
		if err := e.Export(ctx, snap); err != nil {
			return err
		}
	}
	return nil
}
