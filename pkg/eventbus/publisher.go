package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/harshj20/taskflow/pkg/observer"
)

const channelPrefix = "taskflow.workflow."

// Publisher implements observer.Observer by re-publishing every event it
// receives to a per-workflow Redis pub/sub channel.
type Publisher struct {
	client *redis.Client
}

// NewPublisher wraps an existing Redis client. The caller owns the client's
// lifecycle (including Close).
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Channel returns the pub/sub channel name a given workflow's events are
// published to.
func Channel(workflowID string) string {
	return channelPrefix + workflowID
}

// OnEvent implements observer.Observer. It discards any error from Publish;
// callers that need to react to publish failures call Publish directly.
func (p *Publisher) OnEvent(ctx context.Context, event observer.Event) {
	_ = p.Publish(ctx, event)
}

// Publish sends event on its workflow's channel, returning any Redis or
// marshaling error.
func (p *Publisher) Publish(ctx context.Context, event observer.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshalFailed, err)
	}
	if err := p.client.Publish(ctx, Channel(event.WorkflowID), payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	return nil
}

// Subscriber reads events back off a workflow's Redis channel.
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber wraps an existing Redis client for reading events back.
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe opens a subscription to workflowID's channel. The caller must
// call Close on the returned *redis.PubSub when done.
func (s *Subscriber) Subscribe(ctx context.Context, workflowID string) *redis.PubSub {
	return s.client.Subscribe(ctx, Channel(workflowID))
}

// DecodeEvent parses one pub/sub message payload back into an observer.Event.
func DecodeEvent(payload string) (observer.Event, error) {
	var event observer.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return observer.Event{}, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}
