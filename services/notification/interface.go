package notification

import (
	"context"
	"errors"
	"fmt"

	"hoofix/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// ErrPushNotPermitted means system push is disabled or has no target device.
var ErrPushNotPermitted = errors.New("system push not permitted")

// PushSender is the part of the FCM messaging client we use.
type PushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// NotificationService surfaces events to the user, in page and, when
// permitted, as a system push.
type NotificationService interface {
	Notify(level models.NotificationLevel, message string) models.Notification
	SendPush(ctx context.Context, msg models.PushMessage) error
	Active() []models.Notification
	Dismiss(id string) bool
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	center      *Center
	sender      PushSender
	deviceToken string
	role        string
	logger      *zap.Logger
}

// NewDefaultNotificationService builds the service. sender may be nil, in
// which case system push is never permitted.
func NewDefaultNotificationService(center *Center, sender PushSender, deviceToken, role string, logger *zap.Logger) (*DefaultNotificationService, error) {
	if center == nil {
		return nil, fmt.Errorf("notification service initialization error: center is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{
		center:      center,
		sender:      sender,
		deviceToken: deviceToken,
		role:        role,
		logger:      logger,
	}, nil
}

func (s *DefaultNotificationService) Notify(level models.NotificationLevel, message string) models.Notification {
	s.logger.Debug("notification", zap.String("level", string(level)), zap.String("message", message))
	return s.center.Add(level, message)
}

func (s *DefaultNotificationService) Active() []models.Notification {
	return s.center.Active()
}

func (s *DefaultNotificationService) Dismiss(id string) bool {
	return s.center.Dismiss(id)
}

// PushPermitted reports whether SendPush would attempt delivery.
func (s *DefaultNotificationService) PushPermitted() bool {
	return s.sender != nil && s.deviceToken != ""
}

// SendPush delivers msg to the registered device via FCM.
func (s *DefaultNotificationService) SendPush(ctx context.Context, msg models.PushMessage) error {
	if !s.PushPermitted() {
		return ErrPushNotPermitted
	}

	data := make(map[string]string, len(msg.Data)+1)
	for k, v := range msg.Data {
		data[k] = v
	}
	if _, ok := data["role"]; !ok && s.role != "" {
		data["role"] = s.role
	}

	message := &messaging.Message{
		Token: s.deviceToken,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	id, err := s.sender.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("SendPush: failed to send FCM message: %w", err)
	}
	s.logger.Info("push delivered", zap.String("messageID", id), zap.String("title", msg.Title))
	return nil
}
