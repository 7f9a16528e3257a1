// Package scan walks the district → location → attendance place hierarchy
// of the booking site and records every attendance place offering a slot.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/slotwatch/internal/config"
	"github.com/go-scripts/slotwatch/internal/options"
	"github.com/go-scripts/slotwatch/internal/types"
)

// Progress receives a note for every option the scan enters
type Progress interface {
	Visit(level, label string)
}

type noProgress struct{}

func (noProgress) Visit(string, string) {}

// Scanner runs one availability scan against a single page session.
// A Scanner must not be used by two goroutines at once.
type Scanner struct {
	page     Page
	site     config.Site
	stamp    func(time.Time) string
	now      func() time.Time
	logger   *log.Logger
	progress Progress
}

// Option customizes a Scanner
type Option func(*Scanner)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithProgress reports every visited option to p
func WithProgress(p Progress) Option {
	return func(s *Scanner) {
		if p != nil {
			s.progress = p
		}
	}
}

// WithLogger sets the logger used for scan events
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Scanner. stamp renders the scan time for findings and the
// empty-result marker.
func New(page Page, site config.Site, stamp func(time.Time) string, opts ...Option) *Scanner {
	s := &Scanner{
		page:     page,
		site:     site,
		stamp:    stamp,
		now:      time.Now,
		logger:   log.Default(),
		progress: noProgress{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// scanState is the accumulator of a single Run
type scanState struct {
	findings []types.Finding
}

// Run walks every district, location and attendance place and returns the
// findings in traversal order. Any page failure aborts the scan.
func (s *Scanner) Run(ctx context.Context) (types.ScanResult, error) {
	if err := s.enter(ctx); err != nil {
		return types.ScanResult{}, err
	}

	districts, err := s.page.Options(ctx, s.site.Selectors.District)
	if err != nil {
		return types.ScanResult{}, fmt.Errorf("failed to read districts: %w", err)
	}

	state := &scanState{}
	for _, district := range districts {
		if !options.HasValue(district.Value) {
			continue
		}
		if err := s.scanDistrict(ctx, state, district); err != nil {
			return types.ScanResult{}, err
		}
	}

	return types.ScanResult{
		Findings:  state.findings,
		Timestamp: s.stamp(s.now()),
	}, nil
}

// enter drives the site from the entry point to the district step
func (s *Scanner) enter(ctx context.Context) error {
	site := s.site
	s.logger.Debug("opening entry point", "url", site.EntryURL)

	if err := s.page.Goto(ctx, site.EntryURL); err != nil {
		return fmt.Errorf("failed to open %s: %w", site.EntryURL, err)
	}
	if err := s.page.ClickTitle(ctx, site.EntityTitle); err != nil {
		return fmt.Errorf("failed to choose entity %q: %w", site.EntityTitle, err)
	}
	if err := s.page.SelectLabel(ctx, site.Selectors.Category, site.Category); err != nil {
		return fmt.Errorf("failed to choose category %q: %w", site.Category, err)
	}
	if err := s.page.SelectLabel(ctx, site.Selectors.Subcategory, site.Subcategory); err != nil {
		return fmt.Errorf("failed to choose subcategory %q: %w", site.Subcategory, err)
	}
	if err := s.page.FollowLink(ctx, site.NextLink); err != nil {
		return fmt.Errorf("failed to reach district step: %w", err)
	}
	return nil
}

func (s *Scanner) scanDistrict(ctx context.Context, state *scanState, district types.Option) error {
	sel := s.site.Selectors
	s.progress.Visit("district", district.Text)
	s.logger.Debug("scanning district", "district", district.Text)

	err := s.page.AwaitResponse(ctx, s.site.LocationsEndpoint, func(ctx context.Context) error {
		return s.page.SelectValue(ctx, sel.District, district.Value)
	})
	if err != nil {
		return fmt.Errorf("failed to select district %q: %w", district.Text, err)
	}

	locations, err := s.page.Options(ctx, sel.Location)
	if err != nil {
		return fmt.Errorf("failed to read locations of %q: %w", district.Text, err)
	}

	for _, location := range locations {
		if !options.IsValid(location.Value) {
			continue
		}
		if err := s.scanLocation(ctx, state, district, location); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) scanLocation(ctx context.Context, state *scanState, district, location types.Option) error {
	sel := s.site.Selectors
	s.progress.Visit("location", location.Text)
	s.logger.Debug("scanning location", "district", district.Text, "location", location.Text)

	err := s.page.AwaitResponse(ctx, s.site.AttendancePlacesEndpoint, func(ctx context.Context) error {
		return s.page.SelectValue(ctx, sel.Location, location.Value)
	})
	if err != nil {
		return fmt.Errorf("failed to select location %q: %w", location.Text, err)
	}
	if err := s.page.WaitEnabled(ctx, sel.AttendancePlace); err != nil {
		return fmt.Errorf("attendance places of %q never loaded: %w", location.Text, err)
	}

	places, err := s.page.Options(ctx, sel.AttendancePlace)
	if err != nil {
		return fmt.Errorf("failed to read attendance places of %q: %w", location.Text, err)
	}

	for _, place := range places {
		if !options.HasValue(place.Value) {
			continue
		}
		if err := s.probe(ctx, state, district, location, place); err != nil {
			return err
		}
	}
	return nil
}
