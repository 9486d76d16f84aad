package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) CategoryDeleted(ctx context.Context, id uuid.UUID) error { return nil }

func (n *NoopEventSink) TopicDeleted(ctx context.Context, id uuid.UUID) error { return nil }

func (n *NoopEventSink) ContentSaved(ctx context.Context, content *Content) error { return nil }

func (n *NoopEventSink) ContentDeleted(ctx context.Context, id uuid.UUID) error { return nil }

func (n *NoopEventSink) AudioAttached(ctx context.Context, contentID uuid.UUID, url string) error {
	return nil
}

func (n *NoopEventSink) AudioDetached(ctx context.Context, contentID uuid.UUID) error { return nil }

// LoggingEventSink is an event sink that logs events but takes no other action
// Useful for development and debugging
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) CategoryDeleted(ctx context.Context, id uuid.UUID) error {
	l.logger.Info("category deleted", "category_id", id)
	return nil
}

func (l *LoggingEventSink) TopicDeleted(ctx context.Context, id uuid.UUID) error {
	l.logger.Info("topic deleted", "topic_id", id)
	return nil
}

func (l *LoggingEventSink) ContentSaved(ctx context.Context, content *Content) error {
	l.logger.Info("content saved", "content_id", content.ID, "topic_id", content.TopicID, "level", content.Level)
	return nil
}

func (l *LoggingEventSink) ContentDeleted(ctx context.Context, id uuid.UUID) error {
	l.logger.Info("content deleted", "content_id", id)
	return nil
}

func (l *LoggingEventSink) AudioAttached(ctx context.Context, contentID uuid.UUID, url string) error {
	l.logger.Info("audio attached", "content_id", contentID, "audio_url", url)
	return nil
}

func (l *LoggingEventSink) AudioDetached(ctx context.Context, contentID uuid.UUID) error {
	l.logger.Info("audio detached", "content_id", contentID)
	return nil
}
