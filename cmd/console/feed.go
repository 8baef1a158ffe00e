package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jwebster45206/npc-dialog/internal/logger"
	"github.com/jwebster45206/npc-dialog/pkg/dialog"
)

const (
	feedBuffer     = 256
	publishTimeout = 2 * time.Second
)

// feed publishes drained transition batches from a single goroutine so
// subscribers see them in drain order. A nil feed drops everything.
type feed struct {
	publisher Publisher
	session   uuid.UUID
	logger    *slog.Logger

	batches chan []dialog.Transition
	errs    chan error
	done    chan struct{}
	once    sync.Once
}

func newFeed(publisher Publisher, session uuid.UUID, log *slog.Logger) *feed {
	f := &feed{
		publisher: publisher,
		session:   session,
		logger:    log,
		batches:   make(chan []dialog.Transition, feedBuffer),
		errs:      make(chan error, 1),
		done:      make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *feed) run() {
	defer close(f.done)
	defer close(f.errs)

	for ts := range f.batches {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := f.publisher.PublishAll(ctx, f.session, ts)
		cancel()
		if err == nil {
			continue
		}
		logger.WithError(f.logger, err).Warn("Failed to publish transitions", "count", len(ts))
		// the UI only needs to know that something failed
		select {
		case f.errs <- err:
		default:
		}
	}
}

// Send queues a batch. It never blocks the frame loop; a full queue drops
// the batch.
func (f *feed) Send(ts []dialog.Transition) {
	if f == nil || len(ts) == 0 {
		return
	}
	select {
	case f.batches <- ts:
	default:
		f.logger.Warn("Event feed full, dropping transitions", "count", len(ts))
	}
}

// Close stops accepting batches and waits until the queued ones are
// published.
func (f *feed) Close() {
	if f == nil {
		return
	}
	f.once.Do(func() { close(f.batches) })
	<-f.done
}

// wait reports the next publish failure to the UI.
func (f *feed) wait() tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-f.errs
		if !ok {
			return nil
		}
		return publishedMsg{err: err}
	}
}
