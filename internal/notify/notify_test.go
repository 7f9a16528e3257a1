package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/slotwatch/internal/config"
)

type stubNotifier struct {
	err   error
	panic bool
	sent  []string
}

func (s *stubNotifier) Name() string { return "stub" }

func (s *stubNotifier) Send(_ context.Context, message string) error {
	if s.panic {
		panic("connection reset")
	}
	s.sent = append(s.sent, message)
	return s.err
}

func TestDeliverSuccess(t *testing.T) {
	var buf bytes.Buffer
	n := &stubNotifier{}

	out := Deliver(context.Background(), log.New(&buf), n, "hello")

	assert.True(t, out.Delivered)
	assert.NoError(t, out.Err)
	assert.Equal(t, []string{"hello"}, n.sent)
	assert.Contains(t, buf.String(), "notification delivered")
}

func TestDeliverFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("gateway down")

	out := Deliver(context.Background(), log.New(&buf), &stubNotifier{err: boom}, "hello")

	assert.False(t, out.Delivered)
	assert.ErrorIs(t, out.Err, boom)
	assert.Contains(t, buf.String(), "failed to deliver notification")
	assert.Contains(t, buf.String(), "gateway down")
}

func TestDeliverRecoversPanics(t *testing.T) {
	var buf bytes.Buffer

	out := Deliver(context.Background(), log.New(&buf), &stubNotifier{panic: true}, "hello")

	assert.False(t, out.Delivered)
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "connection reset")
	assert.Contains(t, buf.String(), "failed to deliver notification")
}

func TestFromConfig(t *testing.T) {
	logger := log.New(&bytes.Buffer{})
	cfg := config.Default().Notifier

	for _, kind := range []string{config.NotifierDiscord, config.NotifierEmail, config.NotifierLog} {
		cfg.Kind = kind
		n, err := FromConfig(cfg, logger)
		require.NoError(t, err)
		assert.Equal(t, kind, n.Name())
	}

	cfg.Kind = "pigeon"
	_, err := FromConfig(cfg, logger)
	assert.ErrorIs(t, err, config.ErrUnknownNotifier)
}

func TestLogOnly(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogOnly(log.New(&buf))

	require.NoError(t, n.Send(context.Background(), "Appointments available:"))
	assert.Contains(t, buf.String(), "Appointments available:")
}

func TestEmailHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEmail(EmailOptions{Server: "127.0.0.1", Port: 1, From: "bot@example.com", To: []string{"me@example.com"}})
	assert.ErrorIs(t, e.Send(ctx, "hello"), context.Canceled)
}

func TestEmailUnreachableServer(t *testing.T) {
	e := NewEmail(EmailOptions{Server: "127.0.0.1", Port: 1, From: "bot@example.com", To: []string{"me@example.com"}})
	assert.Error(t, e.Send(context.Background(), "hello"))
}
