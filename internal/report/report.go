// Package report renders scan results into the message sent to the
// notification channel and into console tables.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"time"
	_ "time/tzdata"

	"github.com/go-scripts/slotwatch/internal/types"
)

const (
	DefaultHeader        = "Appointments available:"
	DefaultEmptyTemplate = "Unfortunately, there are no appointments available for this time: {{.Timestamp}}"
	DefaultTimeZone      = "Europe/Lisbon"

	// TimestampLayout renders day/month/year and minutes, as the site's locale does.
	TimestampLayout = "02/01/2006 15:04"
)

// ErrInvalidTimestamp is returned by FormatTimestamp for input without an ISO date-time.
var ErrInvalidTimestamp = errors.New("provided date should have a valid ISO format")

var isoShape = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// Options configures the message shape
type Options struct {
	Header        string
	EmptyTemplate string
	TimeZone      string
}

// Formatter turns a ScanResult into a single human-readable message
type Formatter struct {
	header string
	empty  *template.Template
	loc    *time.Location
}

// NewFormatter builds a Formatter, falling back to defaults for empty options
func NewFormatter(opts Options) (*Formatter, error) {
	if opts.Header == "" {
		opts.Header = DefaultHeader
	}
	if opts.EmptyTemplate == "" {
		opts.EmptyTemplate = DefaultEmptyTemplate
	}
	if opts.TimeZone == "" {
		opts.TimeZone = DefaultTimeZone
	}

	loc, err := time.LoadLocation(opts.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", opts.TimeZone, err)
	}

	tmpl, err := template.New("empty").Option("missingkey=error").Parse(opts.EmptyTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse empty-result template: %w", err)
	}

	return &Formatter{
		header: opts.Header,
		empty:  tmpl,
		loc:    loc,
	}, nil
}

// Stamp renders t in the formatter's time zone
func (f *Formatter) Stamp(t time.Time) string {
	return t.In(f.loc).Format(TimestampLayout)
}

// FormatTimestamp renders an ISO-8601 date-time string the way Stamp does.
// Input without a YYYY-MM-DDTHH:MM:SS part fails with ErrInvalidTimestamp;
// date-times without an offset are taken as UTC.
func (f *Formatter) FormatTimestamp(iso string) (string, error) {
	if !isoShape.MatchString(iso) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimestamp, iso)
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return f.Stamp(t), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimestamp, iso)
}

// Line renders one finding
func Line(fd types.Finding) string {
	return fmt.Sprintf("%s, %s, %s - Scan time (PT): %s",
		fd.District, fd.Location, fd.AttendancePlace, fd.ScanTimestamp)
}

// Format renders the header plus one line per finding, in order, or the
// no-slots sentence when the result is empty.
func (f *Formatter) Format(result types.ScanResult) (string, error) {
	if result.Empty() {
		var buf bytes.Buffer
		if err := f.empty.Execute(&buf, result); err != nil {
			return "", fmt.Errorf("failed to render empty-result template: %w", err)
		}
		return buf.String(), nil
	}

	lines := make([]string, 0, len(result.Findings)+1)
	lines = append(lines, f.header)
	for _, fd := range result.Findings {
		lines = append(lines, Line(fd))
	}
	return strings.Join(lines, "\n"), nil
}
