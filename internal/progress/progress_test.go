package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisitCountsPerLevel(t *testing.T) {
	tr := New(&bytes.Buffer{})

	tr.Visit("district", "Lisboa")
	tr.Visit("location", "Sintra")
	tr.Visit("location", "Cascais")

	assert.Equal(t, 1, tr.Count("district"))
	assert.Equal(t, 2, tr.Count("location"))
	assert.Equal(t, 0, tr.Count("attendance place"))
	assert.Equal(t, " [location #2] Cascais", tr.spinner.Suffix)
}

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, "Lisboa", formatLabel("Lisboa"))

	long := strings.Repeat("a", 60)
	got := formatLabel(long)
	assert.Len(t, got, 40)
	assert.True(t, strings.HasSuffix(got, "..."))
}
