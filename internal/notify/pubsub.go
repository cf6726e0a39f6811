package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"

	"github.com/venturehunt/channelscout/internal/crawl"
)

// PubSub publishes crawl alerts and discovery events to Cloud Pub/Sub.
// Authenticates via Application Default Credentials. Either topic may be
// empty to disable that stream.
type PubSub struct {
	client     *pubsub.Client
	alertTopic *pubsub.Topic
	eventTopic *pubsub.Topic
	logger     *zap.Logger
}

// NewPubSub creates the client and verifies the configured topics exist.
func NewPubSub(ctx context.Context, projectID, alertTopicID, eventTopicID string, logger *zap.Logger) (*PubSub, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	p := &PubSub{client: client, logger: logger}
	if p.alertTopic, err = resolveTopic(ctx, client, alertTopicID); err != nil {
		client.Close() //nolint:errcheck
		return nil, err
	}
	if p.eventTopic, err = resolveTopic(ctx, client, eventTopicID); err != nil {
		client.Close() //nolint:errcheck
		return nil, err
	}
	return p, nil
}

func resolveTopic(ctx context.Context, client *pubsub.Client, topicID string) (*pubsub.Topic, error) {
	if topicID == "" {
		return nil, nil
	}
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check pubsub topic %q: %w", topicID, err)
	}
	if !exists {
		return nil, fmt.Errorf("pubsub topic %q does not exist", topicID)
	}
	return topic, nil
}

// Alert implements crawl.Alerter. Blocks until the server acknowledges so
// the message lands before the process exits; a delivery failure is
// logged and otherwise ignored.
func (p *PubSub) Alert(ctx context.Context, msg string) {
	p.logger.Error("crawl alert", zap.String("message", msg))
	if p.alertTopic == nil {
		return
	}
	result := p.alertTopic.Publish(ctx, &pubsub.Message{
		Data:       []byte(msg),
		Attributes: map[string]string{"severity": "fatal"},
	})
	if _, err := result.Get(ctx); err != nil {
		p.logger.Warn("alert publish failed", zap.Error(err))
	}
}

// ChannelDiscovered implements crawl.Publisher. Fire and forget: the
// client batches and retries in the background.
func (p *PubSub) ChannelDiscovered(ctx context.Context, rec crawl.ChannelRecord) {
	if p.eventTopic == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"channel_id":       rec.ChannelID,
		"title":            rec.Title,
		"subscriber_count": rec.SubscriberCount,
		"keywords":         rec.Keywords,
	})
	if err != nil {
		p.logger.Warn("marshal discovery event failed", zap.Error(err))
		return
	}
	_ = p.eventTopic.Publish(ctx, &pubsub.Message{Data: payload})
}

// Close flushes pending publishes and releases the client.
func (p *PubSub) Close() error {
	if p.alertTopic != nil {
		p.alertTopic.Stop()
	}
	if p.eventTopic != nil {
		p.eventTopic.Stop()
	}
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}
