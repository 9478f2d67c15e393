package pipeline

import (
	"context"
	"fmt"

	"github.com/parleyhq/parley/internal/controller"
	"github.com/parleyhq/parley/internal/model"
)

// FeedEvent is one inbound message of a live conversation stream.
// Streams may interleave messages from many conversations; the
// conversation ID keys the session.
type FeedEvent struct {
	ConversationID string `json:"conversation_id"`
	Topic          string `json:"topic,omitempty"`
	Domain         string `json:"domain,omitempty"`
	Speaker        string `json:"speaker"`
	Text           string `json:"text"`
}

// Feed processes live conversation streams. Sessions are held in a
// TTL registry, so a conversation that goes silent is evicted and
// starts fresh if it ever resumes.
type Feed struct {
	cfg      *model.Config
	registry *controller.Registry
}

// NewFeed creates a stream processor with the given configuration
func NewFeed(cfg *model.Config) *Feed {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Feed{
		cfg:      cfg,
		registry: controller.NewRegistry(cfg, refinerFrom(cfg)),
	}
}

// Handle analyzes one stream event against its conversation session,
// creating the session on first sight of the conversation ID.
func (f *Feed) Handle(ctx context.Context, event FeedEvent) (model.Verdict, error) {
	if event.ConversationID == "" {
		return model.Verdict{}, fmt.Errorf("event missing conversation_id")
	}
	if event.Text == "" {
		return model.Verdict{}, fmt.Errorf("event for %s missing text", event.ConversationID)
	}

	topic := event.Topic
	if topic == "" {
		topic = event.ConversationID
	}
	domain := event.Domain
	if domain == "" {
		domain = "general"
	}

	ctrl := f.registry.Get(event.ConversationID, topic, domain)
	return ctrl.Process(ctx, event.Text, event.Speaker), nil
}

// End closes a conversation session and returns its final report. The
// next event for the same ID starts a fresh session.
func (f *Feed) End(conversationID, topic, domain string) model.Report {
	ctrl := f.registry.Get(conversationID, topic, domain)
	rep := ctrl.Report(topic, domain)
	f.registry.Drop(conversationID)
	return rep
}

// Sessions reports the number of live conversation sessions
func (f *Feed) Sessions() int {
	return f.registry.Len()
}
