// Package savefile reads and writes the compressed record database.
package savefile

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"doomsplit/internal/records"
)

// document is the on-disk layout: the UI configuration blob is passed
// through unchanged, runs hold the record grid.
type document struct {
	UIConfig json.RawMessage `json:"ui_config,omitempty"`
	Runs     records.Runs    `json:"runs"`
}

// Codec loads and saves the record grid plus an opaque UI-configuration
// blob at a fixed path. Save skips the write entirely when nothing changed.
type Codec struct {
	path string

	loadedUI json.RawMessage
}

// New builds a codec for the given save file path.
func New(path string) *Codec {
	return &Codec{path: path}
}

// Path returns the save file location.
func (c *Codec) Path() string {
	return c.path
}

// Load reads the save file. A missing file is a first run, not an error:
// it yields empty runs and an empty UI config.
func (c *Codec) Load() (records.Runs, json.RawMessage, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.loadedUI = nil
			return records.Runs{}, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to open save file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read save file: %w", err)
	}
	defer func() {
		_ = zr.Close()
	}()

	var doc document
	if err := json.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode save file: %w", err)
	}
	if doc.Runs == nil {
		doc.Runs = records.Runs{}
	}
	c.loadedUI = doc.UIConfig
	return doc.Runs, doc.UIConfig, nil
}

// Save persists the grid and the UI blob. The write is skipped when the UI
// blob matches the one loaded and no chapter reports a modification. The
// document is serialized fully in memory and written through a temp file
// rename, so a failed write never damages the previous save.
func (c *Codec) Save(grid *records.Grid, ui json.RawMessage) error {
	if !grid.IsModified() && bytes.Equal(ui, c.loadedUI) {
		return nil
	}

	doc := document{UIConfig: ui, Runs: grid.Record()}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode save file: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to compress save file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), "doomsplit-*.json.gz")
	if err != nil {
		return fmt.Errorf("failed to create temp save file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close save file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("failed to replace save file: %w", err)
	}
	c.loadedUI = append(json.RawMessage(nil), ui...)
	return nil
}
