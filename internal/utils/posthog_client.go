package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// PosthogClientWrapper wraps the posthog client so callers never have to care
// whether analytics is configured. A zero-value wrapper drops all events.
type PosthogClientWrapper struct {
	client posthog.Client
	logger *slog.Logger
}

// InitializePosthogClient builds the analytics wrapper. An empty API key
// yields an uninitialized wrapper and analytics is silently disabled.
func InitializePosthogClient(apiKey string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, analytics disabled")
		return &PosthogClientWrapper{}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &PosthogClientWrapper{}
	}
	logger.Info("Posthog client initialized")
	return &PosthogClientWrapper{client: client, logger: logger}
}

// IsInitialized reports whether events will actually be delivered.
func (w *PosthogClientWrapper) IsInitialized() bool {
	return w.client != nil
}

// Enqueue submits an event for asynchronous delivery. No-op when uninitialized.
func (w *PosthogClientWrapper) Enqueue(distinctID string, event string, properties map[string]any) {
	if w.client == nil {
		return
	}
	if err := w.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil && w.logger != nil {
		w.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes pending events and shuts the client down.
func (w *PosthogClientWrapper) Close() {
	if w.client != nil {
		w.client.Close()
	}
}
