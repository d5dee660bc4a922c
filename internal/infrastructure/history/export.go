package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ExportJSON writes the current ledger snapshot as indented JSON. All record
// fields are serialized; timestamps come out as RFC 3339 strings.
func (l *Ledger) ExportJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(l.Snapshot()); err != nil {
		return fmt.Errorf("encode price history: %w", err)
	}
	return nil
}

// ExportFile writes the ledger to path, creating parent directories as
// needed.
func (l *Ledger) ExportFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	return l.ExportJSON(f)
}
