package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FormatVersion is written to every export.
const FormatVersion = "1.0"

// ExportFormat is the on-disk layout of a cache snapshot.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry is one cached result: a CacheKey and the JSON-encoded Result.
type ExportEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Exporter snapshots an Enumerable cache.
type Exporter struct {
	cache Cache
}

// NewExporter creates an Exporter for c.
func NewExporter(c Cache) *Exporter {
	return &Exporter{cache: c}
}

// Export writes a snapshot of the cache to w as indented JSON, sorted by key.
func (e *Exporter) Export(ctx context.Context, w io.Writer, metadata map[string]string) error {
	src, ok := e.cache.(Enumerable)
	if !ok {
		return fmt.Errorf("cache type %T does not support export", e.cache)
	}

	live, err := src.Entries(ctx)
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}

	snap := ExportFormat{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    make([]ExportEntry, 0, len(live)),
		Metadata:   metadata,
	}
	for k, v := range live {
		snap.Entries = append(snap.Entries, ExportEntry{Key: k, Value: v})
	}
	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].Key < snap.Entries[j].Key })

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ExportToFile writes the snapshot next to path and renames it into place,
// so a reader never observes a partial file.
func (e *Exporter) ExportToFile(ctx context.Context, path string, metadata map[string]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := e.Export(ctx, tmp, metadata); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// ImportResult summarizes an import.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int // Entries with an empty key or rejected by the cache
}

// Importer loads snapshots into a cache.
type Importer struct {
	cache Cache
}

// NewImporter creates an Importer that fills c.
func NewImporter(c Cache) *Importer {
	return &Importer{cache: c}
}

// Import reads a snapshot from r and stores every entry. Per-entry failures
// are counted in the result; only a malformed snapshot or a canceled
// context is returned as an error.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var snap ExportFormat
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported export version %q", snap.Version)
	}

	res := &ImportResult{Version: snap.Version, Metadata: snap.Metadata}
	for _, entry := range snap.Entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if entry.Key == "" || i.cache.Set(ctx, entry.Key, entry.Value) != nil {
			res.Failed++
			continue
		}
		res.Imported++
	}
	return res, nil
}

// ImportFromFile imports the snapshot stored at path.
func (i *Importer) ImportFromFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}
