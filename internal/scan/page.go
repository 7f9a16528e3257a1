package scan

import (
	"context"

	"github.com/go-scripts/slotwatch/internal/types"
)

// Page is the browser capability a scan drives. Implementations apply
// their own wait budget to every call and fail when an element never
// shows up.
type Page interface {
	// Goto loads url in the current tab.
	Goto(ctx context.Context, url string) error
	// ClickTitle clicks the element carrying the given title attribute and
	// waits for the resulting navigation.
	ClickTitle(ctx context.Context, title string) error
	// FollowLink clicks the link whose accessible text contains name and
	// waits for the resulting navigation.
	FollowLink(ctx context.Context, name string) error
	// SelectLabel picks the option whose label equals label.
	SelectLabel(ctx context.Context, selector, label string) error
	// SelectValue picks the option with the given value.
	SelectValue(ctx context.Context, selector, value string) error
	// AwaitResponse runs trigger and blocks until a response whose URL
	// contains fragment has finished loading.
	AwaitResponse(ctx context.Context, fragment string, trigger func(context.Context) error) error
	// WaitEnabled blocks until the control is enabled.
	WaitEnabled(ctx context.Context, selector string) error
	// Options returns the current entries of a select control.
	Options(ctx context.Context, selector string) ([]types.Option, error)
	// HeadingVisible reports whether a heading containing text is visible now.
	HeadingVisible(ctx context.Context, text string) (bool, error)
}
