package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"hoofix/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "projects/p/messages/1", nil
}

func TestCenterExpiresAndDismisses(t *testing.T) {
	c := NewCenter(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	a := c.Add(models.LevelInfo, "first")
	now = now.Add(time.Second)
	c.Add(models.LevelSuccess, "second")

	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Message)

	assert.True(t, c.Dismiss(a.ID))
	assert.False(t, c.Dismiss(a.ID))

	now = now.Add(2 * time.Minute)
	assert.Empty(t, c.Active())
}

func TestSendPushRequiresPermission(t *testing.T) {
	svc, err := NewDefaultNotificationService(NewCenter(0), nil, "", "provider", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.SendPush(context.Background(), models.PushMessage{Title: "t"}), ErrPushNotPermitted)

	sender := &fakeSender{}
	svc, err = NewDefaultNotificationService(NewCenter(0), sender, "", "provider", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.SendPush(context.Background(), models.PushMessage{Title: "t"}), ErrPushNotPermitted)
	assert.Empty(t, sender.sent)
}

func TestSendPushBuildsMessage(t *testing.T) {
	sender := &fakeSender{}
	svc, err := NewDefaultNotificationService(NewCenter(0), sender, "device-1", "provider", nil)
	require.NoError(t, err)

	require.NoError(t, svc.SendPush(context.Background(), models.PushMessage{
		Title: "New service request",
		Body:  "Plumbing near you",
		Data:  map[string]string{"type": "new_service_request"},
	}))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "device-1", msg.Token)
	assert.Equal(t, "provider", msg.Data["role"])
	assert.Equal(t, "new_service_request", msg.Data["type"])
	assert.Equal(t, "high", msg.Android.Priority)
}

func TestSendPushWrapsSenderError(t *testing.T) {
	boom := errors.New("quota")
	svc, err := NewDefaultNotificationService(NewCenter(0), &fakeSender{err: boom}, "d", "user", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.SendPush(context.Background(), models.PushMessage{}), boom)
}
