package scan

import (
	"context"
	"fmt"

	"github.com/go-scripts/slotwatch/internal/types"
)

// probe checks one attendance place. It always leaves the page back on the
// attendance place step unless a page call fails.
func (s *Scanner) probe(ctx context.Context, state *scanState, district, location, place types.Option) error {
	s.progress.Visit("attendance place", place.Text)

	if err := s.page.SelectValue(ctx, s.site.Selectors.AttendancePlace, place.Value); err != nil {
		return fmt.Errorf("failed to select attendance place %q: %w", place.Text, err)
	}
	if err := s.page.FollowLink(ctx, s.site.NextLink); err != nil {
		return fmt.Errorf("failed to open slots of %q: %w", place.Text, err)
	}

	none, err := s.page.HeadingVisible(ctx, s.site.NoAppointmentsHeading)
	if err != nil {
		return fmt.Errorf("failed to check slots of %q: %w", place.Text, err)
	}
	if !none {
		fd := types.Finding{
			District:        district.Text,
			Location:        location.Text,
			AttendancePlace: place.Text,
			ScanTimestamp:   s.stamp(s.now()),
		}
		state.findings = append(state.findings, fd)
		s.logger.Info("slots available",
			"district", fd.District,
			"location", fd.Location,
			"attendance_place", fd.AttendancePlace)
	}

	if err := s.page.FollowLink(ctx, s.site.PreviousLink); err != nil {
		return fmt.Errorf("failed to return from %q: %w", place.Text, err)
	}
	return nil
}
