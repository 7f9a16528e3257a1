package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Tracker shows a spinner with the option the scan is currently visiting
type Tracker struct {
	spinner *spinner.Spinner
	counts  map[string]int
	mu      sync.Mutex
}

// New creates a Tracker writing to w
func New(w io.Writer) *Tracker {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " starting scan"
	return &Tracker{
		spinner: s,
		counts:  make(map[string]int),
	}
}

// Start begins animating
func (t *Tracker) Start() {
	t.spinner.Start()
}

// Stop halts the spinner and clears its line
func (t *Tracker) Stop() {
	t.spinner.Stop()
}

// Visit updates the spinner with the option being scanned
func (t *Tracker) Visit(level, label string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts[level]++
	t.spinner.Lock()
	t.spinner.Suffix = fmt.Sprintf(" [%s #%d] %s", level, t.counts[level], formatLabel(label))
	t.spinner.Unlock()
}

// Count returns how many options of level were visited
func (t *Tracker) Count(level string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[level]
}

// formatLabel truncates long labels so the spinner stays on one line
func formatLabel(label string) string {
	const maxLen = 40
	r := []rune(label)
	if len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return label
}
