// Package notification provides transports for desktop notification delivery.
package notification

import (
	"context"
	"log/slog"
	"time"

	"portal/internal/domain/entity"
	"portal/internal/domain/service"
	"portal/internal/errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// TopicPrefix is prepended to the owner ID to form the FCM topic clients subscribe to.
const TopicPrefix = "user-"

// messageSender is the part of *messaging.Client the notifier uses.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type firebaseNotifier struct {
	client messageSender
	logger *slog.Logger
}

// NewFirebaseNotifier creates a DesktopNotifier that sends through Firebase Cloud Messaging.
func NewFirebaseNotifier(ctx context.Context, projectID, credentialsPath string, logger *slog.Logger) (service.DesktopNotifier, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	return newFirebaseNotifier(client, logger), nil
}

func newFirebaseNotifier(client messageSender, logger *slog.Logger) *firebaseNotifier {
	return &firebaseNotifier{client: client, logger: logger}
}

// Deliver sends the notification to the owner's topic.
func (n *firebaseNotifier) Deliver(ctx context.Context, owner string, notification *entity.Notification) error {
	message := buildMessage(owner, notification)

	messageID, err := n.client.Send(ctx, message)
	if err != nil {
		if messaging.IsInvalidArgument(err) {
			return errors.Wrapf(err, "invalid desktop notification for topic %s", message.Topic)
		}

		return errors.Wrap(err, "failed to send desktop notification")
	}

	n.logger.DebugContext(ctx, "Desktop notification sent",
		slog.String("topic", message.Topic),
		slog.String("notificationId", notification.ID),
		slog.String("messageId", messageID),
	)

	return nil
}

func buildMessage(owner string, notification *entity.Notification) *messaging.Message {
	return &messaging.Message{
		Topic: TopicPrefix + owner,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Message,
		},
		Data: map[string]string{
			"id":        notification.ID,
			"type":      string(notification.Type),
			"timestamp": notification.Timestamp.UTC().Format(time.RFC3339Nano),
		},
	}
}
