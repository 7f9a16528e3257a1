package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoEntryURL is returned when site.entry_url is empty.
	ErrNoEntryURL = errors.New("no entry url: site.entry_url must be set")

	// ErrInvalidTimeout is returned when the per-action browser timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: browser.action_timeout must be positive")

	// ErrUnknownTimeZone is returned when report.time_zone cannot be loaded.
	ErrUnknownTimeZone = errors.New("unknown time zone in report.time_zone")

	// ErrUnknownNotifier is returned for a notifier.kind other than discord, email or log.
	ErrUnknownNotifier = errors.New("unknown notifier kind: use discord, email or log")

	// ErrMissingDiscordToken is returned when the discord notifier has no bot token.
	ErrMissingDiscordToken = errors.New("missing discord bot token: set DISCORD_TOKEN")

	// ErrMissingDiscordChannel is returned when the discord notifier has no channel id.
	ErrMissingDiscordChannel = errors.New("missing discord channel: set DISCORD_CHANNEL_ID")

	// ErrMissingEmailRecipients is returned when the email notifier has no server, sender or recipients.
	ErrMissingEmailRecipients = errors.New("incomplete email notifier: server, from and to are required")

	// ErrInvalidSchedule is returned when watch.schedule is empty.
	ErrInvalidSchedule = errors.New("invalid schedule: watch.schedule must be a cron spec")
)
