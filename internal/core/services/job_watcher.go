package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	"github.com/JobSiteOps/job_tracking_app/internal/middleware"
	"github.com/JobSiteOps/job_tracking_app/internal/platform/metrics"
)

// jobLoader produces the current visible job set for one subscriber.
type jobLoader func(ctx context.Context, requestingUserID string) ([]domain.Job, error)

// jobWatcher fans committed job mutations out to stream subscribers. Each
// subscriber gets the full visible set recomputed through its own scope, never
// raw change events, so visibility filtering cannot be bypassed on the push
// path.
type jobWatcher struct {
	mu   sync.Mutex
	subs map[uint64]*jobSubscription
	next uint64
	load jobLoader
}

type jobSubscription struct {
	userID string
	out    chan []domain.Job
	wake   chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newJobWatcher(load jobLoader) *jobWatcher {
	return &jobWatcher{
		subs: make(map[uint64]*jobSubscription),
		load: load,
	}
}

// Subscribe registers a new subscriber and schedules its initial snapshot.
// The returned cancel function is idempotent.
func (w *jobWatcher) Subscribe(ctx context.Context, userID string) (<-chan []domain.Job, func(), error) {
	sub := &jobSubscription{
		userID: userID,
		out:    make(chan []domain.Job, 1),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	sub.wake <- struct{}{} // initial snapshot

	w.mu.Lock()
	id := w.next
	w.next++
	w.subs[id] = sub
	w.mu.Unlock()

	metrics.ActiveSubscribers.Inc()
	go w.run(ctx, sub)

	cancel := func() {
		sub.once.Do(func() {
			w.mu.Lock()
			delete(w.subs, id)
			w.mu.Unlock()
			close(sub.done)
			metrics.ActiveSubscribers.Dec()
		})
	}
	return sub.out, cancel, nil
}

// Broadcast wakes every subscriber to recompute its snapshot. Safe to call
// from any goroutine; a subscriber already pending a refresh is not woken twice.
func (w *jobWatcher) Broadcast() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sub := range w.subs {
		select {
		case sub.wake <- struct{}{}:
		default:
		}
	}
}

func (w *jobWatcher) run(ctx context.Context, sub *jobSubscription) {
	defer close(sub.out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.done:
			return
		case <-sub.wake:
		}

		jobs, err := w.load(ctx, sub.userID)
		if err != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to refresh job stream snapshot",
				slog.String("user_id", sub.userID),
				slog.String("error", err.Error()),
			)
			continue
		}

		// Replace any stale undelivered snapshot rather than blocking.
		select {
		case <-sub.out:
		default:
		}
		select {
		case sub.out <- jobs:
		case <-ctx.Done():
			return
		case <-sub.done:
			return
		}
	}
}
