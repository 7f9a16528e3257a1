package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-scripts/slotwatch/internal/config"
	"github.com/go-scripts/slotwatch/internal/types"
)

// fakeSite is an in-memory version of the booking flow
type fakeSite struct {
	districts []types.Option
	// keyed by district value
	locations map[string][]types.Option
	// keyed by district/location values
	places map[string][]types.Option
	// keyed by district/location/place values; true means slots are offered
	available map[string]bool
}

func key(parts ...string) string {
	return strings.Join(parts, "/")
}

type fakePage struct {
	site *fakeSite
	sel  config.Selectors

	step                      string
	district, location, place string

	calls   []string
	awaited []string

	// FollowLink names that fail with errBoom
	failLinks map[string]bool
}

var errBoom = errors.New("element not found")

func newFakePage(site *fakeSite) *fakePage {
	return &fakePage{
		site:      site,
		sel:       config.Default().Site.Selectors,
		step:      "blank",
		failLinks: map[string]bool{},
	}
}

func (p *fakePage) record(format string, args ...any) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *fakePage) Goto(_ context.Context, url string) error {
	p.record("goto %s", url)
	p.step = "entities"
	return nil
}

func (p *fakePage) ClickTitle(_ context.Context, title string) error {
	p.record("click %s", title)
	if p.step != "entities" {
		return errBoom
	}
	p.step = "category"
	return nil
}

func (p *fakePage) FollowLink(_ context.Context, name string) error {
	p.record("follow %s", name)
	if p.failLinks[name] {
		return errBoom
	}

	switch {
	case name == "Next" && p.step == "category":
		p.step = "places"
	case name == "Next" && p.step == "places" && p.place != "":
		p.step = "slots"
	case name == "Previous" && p.step == "slots":
		p.step = "places"
	default:
		return fmt.Errorf("unexpected link %q on step %q: %w", name, p.step, errBoom)
	}
	return nil
}

func (p *fakePage) SelectLabel(_ context.Context, selector, label string) error {
	p.record("label %s=%s", selector, label)
	if p.step != "category" {
		return errBoom
	}
	return nil
}

func (p *fakePage) SelectValue(_ context.Context, selector, value string) error {
	p.record("select %s=%s", selector, value)
	if p.step != "places" {
		return fmt.Errorf("select on step %q: %w", p.step, errBoom)
	}

	switch selector {
	case p.sel.District:
		p.district, p.location, p.place = value, "", ""
	case p.sel.Location:
		p.location, p.place = value, ""
	case p.sel.AttendancePlace:
		p.place = value
	default:
		return errBoom
	}
	return nil
}

func (p *fakePage) AwaitResponse(ctx context.Context, fragment string, trigger func(context.Context) error) error {
	p.awaited = append(p.awaited, fragment)
	return trigger(ctx)
}

func (p *fakePage) WaitEnabled(_ context.Context, selector string) error {
	p.record("enabled %s", selector)
	return nil
}

func (p *fakePage) Options(_ context.Context, selector string) ([]types.Option, error) {
	switch selector {
	case p.sel.District:
		return p.site.districts, nil
	case p.sel.Location:
		return p.site.locations[p.district], nil
	case p.sel.AttendancePlace:
		return p.site.places[key(p.district, p.location)], nil
	}
	return nil, errBoom
}

func (p *fakePage) HeadingVisible(_ context.Context, text string) (bool, error) {
	if p.step != "slots" {
		return false, fmt.Errorf("heading %q looked up on step %q: %w", text, p.step, errBoom)
	}
	return !p.site.available[key(p.district, p.location, p.place)], nil
}

// selected returns the values chosen for selector, in call order
func (p *fakePage) selected(selector string) []string {
	var out []string
	prefix := "select " + selector + "="
	for _, c := range p.calls {
		if v, ok := strings.CutPrefix(c, prefix); ok {
			out = append(out, v)
		}
	}
	return out
}

func (p *fakePage) count(call string) int {
	n := 0
	for _, c := range p.calls {
		if c == call {
			n++
		}
	}
	return n
}
