package notification

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Channel delivers a push message to device tokens. It returns the tokens
// the provider reported as no longer registered.
type Channel interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (stale []string, err error)
}

// FCM allows max 500 tokens per multicast
const fcmBatchSize = 500

// FCMChannel implements Channel for Firebase Cloud Messaging
type FCMChannel struct {
	client *messaging.Client
	logger *zap.Logger
}

// NewFCMChannel initializes FCM with service account credentials. It returns
// nil when FCM is not configured or cannot start.
func NewFCMChannel(ctx context.Context, credentialsPath string, logger *zap.Logger) *FCMChannel {
	if credentialsPath == "" {
		logger.Info("⚠️ FCM not configured (FCM_CREDENTIALS_PATH missing), push disabled")
		return nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		logger.Error("❌ Error initializing Firebase app", zap.Error(err))
		return nil
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Error("❌ Error getting FCM client", zap.Error(err))
		return nil
	}

	logger.Info("✅ FCM initialized successfully")
	return &FCMChannel{client: client, logger: logger}
}

func (f *FCMChannel) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	if f == nil || f.client == nil {
		return nil, errors.New("FCM client not initialized")
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	var stale []string
	failed := 0
	for i := 0; i < len(tokens); i += fcmBatchSize {
		end := i + fcmBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[i:end]

		resp, err := f.client.SendEachForMulticast(ctx, buildMulticast(batch, title, body, data))
		if err != nil {
			f.logger.Warn("❌ FCM multicast batch failed", zap.Int("tokens", len(batch)), zap.Error(err))
			failed += len(batch)
			continue
		}

		for idx, r := range resp.Responses {
			if r.Success {
				continue
			}
			failed++
			if messaging.IsUnregistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
				stale = append(stale, batch[idx])
			}
		}
		f.logger.Debug("FCM multicast sent", zap.Int("success", resp.SuccessCount), zap.Int("batch", len(batch)))
	}

	if failed > 0 {
		return stale, fmt.Errorf("failed to send to %d/%d tokens", failed, len(tokens))
	}
	return stale, nil
}

func buildMulticast(tokens []string, title, body string, data map[string]string) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   data,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:    "farmer_updates",
				Priority:     messaging.PriorityHigh,
				DefaultSound: true,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: title,
				Body:  body,
				Icon:  "/icon-192x192.png",
			},
		},
	}
}
