package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/go-scripts/slotwatch/internal/types"
)

// IsValid reports whether value identifies a real entry rather than the
// leading placeholder: it must be non-blank and a non-negative number.
func IsValid(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return false
	}
	return n >= 0
}

// HasValue is the weaker placeholder guard used where values are opaque.
func HasValue(value string) bool {
	return value != ""
}

// Parse reads the <option> children of a rendered <select> element.
// Labels are trimmed, values are returned as found in the markup.
func Parse(selectHTML string) ([]types.Option, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(selectHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse select markup: %w", err)
	}

	sel := doc.Find("select")
	if sel.Length() == 0 {
		return nil, fmt.Errorf("no select element in markup")
	}

	var out []types.Option
	sel.First().Find("option").Each(func(_ int, s *goquery.Selection) {
		value, _ := s.Attr("value")
		out = append(out, types.Option{
			Text:  strings.TrimSpace(s.Text()),
			Value: value,
		})
	})
	return out, nil
}
