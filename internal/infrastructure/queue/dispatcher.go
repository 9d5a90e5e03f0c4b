package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillhub/blog/internal/api/metrics"
	"github.com/quillhub/blog/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes publications to a fixed set of workers using consistent
// hashing on the author ID, so one author's announcements are processed in order.
type Dispatcher struct {
	workers []chan ports.PublishedPostInput
	service ports.NotificationService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.PublishedPostInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.PublishedPostInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or, after draining their queue, when Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the queues and waits until every queued publication has been
// processed. Enqueue must not be called afterwards.
func (d *Dispatcher) Stop() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// Enqueue hands a publication to the worker responsible for its author.
// The call blocks only when that worker's buffer is full.
func (d *Dispatcher) Enqueue(event ports.PublishedPostInput) {
	idx := d.shardIndex(event.AuthorID)
	d.workers[idx] <- event
	metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps an author ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(authorID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(authorID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.PublishedPostInput) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			result := "ok"
			if err := d.service.Process(ctx, event); err != nil {
				result = "error"
				d.log.Error().Err(err).
					Str("post_id", event.PostID).
					Int("worker_id", id).
					Msg("publication processing failed")
			}
			metrics.NotificationProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
		}
	}
}
