package push

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// FCMSender sends multicast notifications through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender initializes the Firebase app from a service account file and
// returns a sender backed by its messaging client.
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create messaging client")
	}

	return &FCMSender{client: client}, nil
}

// SendMulticast submits one multicast message for up to BatchSize tokens and
// returns the provider-reported success count.
func (s *FCMSender) SendMulticast(ctx context.Context, title, body string, tokens []string) (int, error) {
	resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Tokens: tokens,
	})
	if err != nil {
		return 0, errors.Wrap(err, "fcm multicast send failed")
	}

	return resp.SuccessCount, nil
}
