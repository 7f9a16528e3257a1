package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/slotwatch/internal/types"
)

func TestWriteResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.json")

	err := WriteResult(path, types.ScanResult{
		Findings:  []types.Finding{{District: "Lisboa", Location: "Sintra", AttendancePlace: "Loja", ScanTimestamp: "01/03/2025 10:05"}},
		Timestamp: "01/03/2025 10:06",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"findings": [{"district":"Lisboa","location":"Sintra","attendance_place":"Loja","scan_timestamp":"01/03/2025 10:05"}],
		"timestamp": "01/03/2025 10:06"
	}`, string(data))
}

func TestWriteEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")

	require.NoError(t, WriteResult(path, types.ScanResult{Timestamp: "T2"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"findings": [], "timestamp": "T2"}`, string(data))
}
