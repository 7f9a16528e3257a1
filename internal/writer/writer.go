package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-scripts/slotwatch/internal/types"
)

// WriteResult stores a snapshot of one scan result as indented JSON.
// Parent directories are created as needed and an existing file is replaced.
func WriteResult(path string, result types.ScanResult) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if result.Findings == nil {
		result.Findings = []types.Finding{}
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
