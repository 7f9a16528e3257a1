// Package notify delivers scan reports to a configured channel.
package notify

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/slotwatch/internal/config"
)

// Notifier sends one text message to a pre-configured destination
type Notifier interface {
	Name() string
	Send(ctx context.Context, message string) error
}

// Outcome is the result of a delivery attempt
type Outcome struct {
	Delivered bool
	Err       error
}

// Deliver sends message through n once. Failures, including panics, are
// logged and reported in the Outcome; they never reach the caller.
func Deliver(ctx context.Context, logger *log.Logger, n Notifier, message string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("notifier %s panicked: %v", n.Name(), r)}
			logger.Error("failed to deliver notification", "notifier", n.Name(), "err", out.Err)
		}
	}()

	if err := n.Send(ctx, message); err != nil {
		logger.Error("failed to deliver notification", "notifier", n.Name(), "err", err)
		return Outcome{Err: err}
	}

	logger.Info("notification delivered", "notifier", n.Name())
	return Outcome{Delivered: true}
}

// FromConfig builds the notifier selected by cfg.Kind
func FromConfig(cfg config.Notifier, logger *log.Logger) (Notifier, error) {
	switch cfg.Kind {
	case config.NotifierDiscord:
		return NewDiscord(DiscordOptions{
			BaseURL:   cfg.Discord.BaseURL,
			Token:     cfg.Discord.Token,
			ChannelID: cfg.Discord.ChannelID,
			Timeout:   cfg.Timeout.Duration,
		}), nil
	case config.NotifierEmail:
		e := cfg.Email
		return NewEmail(EmailOptions{
			Server:   e.Server,
			Port:     e.Port,
			Username: e.Username,
			Password: e.Password,
			From:     e.From,
			To:       e.To,
			Subject:  e.Subject,
		}), nil
	case config.NotifierLog:
		return NewLogOnly(logger), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownNotifier, cfg.Kind)
}

// LogOnly writes the message to the log instead of sending it anywhere
type LogOnly struct {
	logger *log.Logger
}

func NewLogOnly(logger *log.Logger) *LogOnly {
	return &LogOnly{logger: logger}
}

func (l *LogOnly) Name() string { return config.NotifierLog }

func (l *LogOnly) Send(_ context.Context, message string) error {
	l.logger.Info("notification", "message", message)
	return nil
}
