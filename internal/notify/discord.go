package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

// MaxMessageLength is Discord's limit on message content, in characters
const MaxMessageLength = 2000

// ErrRejected is returned when Discord answers with an error status
var ErrRejected = errors.New("discord rejected request")

// DiscordOptions configures a Discord bot notifier
type DiscordOptions struct {
	BaseURL   string
	Token     string
	ChannelID string
	Timeout   time.Duration
}

// Discord posts messages to one channel as a bot
type Discord struct {
	opts DiscordOptions
}

func NewDiscord(opts DiscordOptions) *Discord {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://discord.com/api/v10"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Discord{opts: opts}
}

func (d *Discord) Name() string { return "discord" }

// Send opens a session, posts message (split at the length limit) and
// closes the session whatever happened.
func (d *Discord) Send(ctx context.Context, message string) error {
	sess, err := d.open(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	for _, chunk := range SplitMessage(message, MaxMessageLength) {
		if err := sess.post(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

type discordSession struct {
	http      *resty.Client
	channelID string
}

type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// open authenticates the bot token
func (d *Discord) open(ctx context.Context) (*discordSession, error) {
	client := resty.New()
	client.SetBaseURL(d.opts.BaseURL)
	client.SetTimeout(d.opts.Timeout)
	client.SetHeader("Authorization", "Bot "+d.opts.Token)
	client.SetHeader("User-Agent", "DiscordBot (https://github.com/go-scripts/slotwatch, 1.0)")

	var me discordUser
	res, err := client.R().
		SetContext(ctx).
		SetResult(&me).
		Get("/users/@me")
	if err != nil {
		client.GetClient().CloseIdleConnections()
		return nil, fmt.Errorf("discord login: %w", err)
	}
	if res.IsError() {
		client.GetClient().CloseIdleConnections()
		return nil, fmt.Errorf("discord login: %w: %s", ErrRejected, res.Status())
	}

	return &discordSession{http: client, channelID: d.opts.ChannelID}, nil
}

func (s *discordSession) post(ctx context.Context, content string) error {
	res, err := s.http.R().
		SetContext(ctx).
		SetPathParam("channelID", s.channelID).
		SetBody(map[string]string{"content": content}).
		Post("/channels/{channelID}/messages")
	if err != nil {
		return fmt.Errorf("discord post: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("discord post to channel %s: %w: %s", s.channelID, ErrRejected, res.Status())
	}
	return nil
}

func (s *discordSession) close() {
	s.http.GetClient().CloseIdleConnections()
}

// SplitMessage cuts message into parts of at most limit characters,
// breaking between lines where possible.
func SplitMessage(message string, limit int) []string {
	if utf8.RuneCountInString(message) <= limit {
		return []string{message}
	}

	var (
		parts []string
		cur   strings.Builder
		n     int
	)
	flush := func() {
		if n > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
			n = 0
		}
	}

	for _, line := range strings.Split(message, "\n") {
		for utf8.RuneCountInString(line) > limit {
			flush()
			r := []rune(line)
			parts = append(parts, string(r[:limit]))
			line = string(r[limit:])
		}

		size := utf8.RuneCountInString(line)
		if n > 0 && n+1+size > limit {
			flush()
		}
		if n > 0 {
			cur.WriteByte('\n')
			n++
		}
		cur.WriteString(line)
		n += size
	}
	flush()
	return parts
}
