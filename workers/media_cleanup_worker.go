package workers

import (
	"context"
	"log"
	"time"
)

// MediaRemover deletes stored objects by their public URL.
type MediaRemover interface {
	RemoveObjects(ctx context.Context, urls []string) (int, error)
}

// MediaCleanupWorker removes media of deleted memes in the background.
// Failures are logged and dropped; the database is already consistent.
type MediaCleanupWorker struct {
	remover MediaRemover
	queue   chan []string
	timeout time.Duration
}

func NewMediaCleanupWorker(remover MediaRemover, buffer int) *MediaCleanupWorker {
	if buffer <= 0 {
		buffer = 64
	}
	return &MediaCleanupWorker{
		remover: remover,
		queue:   make(chan []string, buffer),
		timeout: 30 * time.Second,
	}
}

// Enqueue hands urls to the worker without blocking. It returns false when
// the queue is full.
func (w *MediaCleanupWorker) Enqueue(urls []string) bool {
	if len(urls) == 0 {
		return true
	}
	batch := append([]string(nil), urls...)
	select {
	case w.queue <- batch:
		return true
	default:
		return false
	}
}

// Start drains the queue until ctx is cancelled.
func (w *MediaCleanupWorker) Start(ctx context.Context) {
	log.Println("🧹 Media cleanup worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("🧹 Media cleanup worker stopped")
			return
		case batch := <-w.queue:
			w.process(ctx, batch)
		}
	}
}

func (w *MediaCleanupWorker) process(ctx context.Context, urls []string) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	n, err := w.remover.RemoveObjects(ctx, urls)
	if err != nil {
		log.Printf("⚠️ [MediaCleanup] removed %d of %d objects: %v", n, len(urls), err)
		return
	}
	log.Printf("🧹 [MediaCleanup] removed %d objects", n)
}
