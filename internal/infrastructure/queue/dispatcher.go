package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/api/metrics"
	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256

	// drainTimeout bounds how long a stopping worker spends storing the
	// events still queued.
	drainTimeout = 5 * time.Second
)

// Dispatcher routes submission events to a fixed set of workers using
// consistent hashing on the visitor id, so one visitor's events are stored in
// the order they happened.
type Dispatcher struct {
	workers []chan domain.SubmissionEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.SubmissionEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SubmissionEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// stores what is already queued, within drainTimeout, and stops.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record queues an event for the worker responsible for its visitor. It never
// blocks: when that worker's queue is full the event is dropped.
func (d *Dispatcher) Record(event domain.SubmissionEvent) {
	idx := d.shardIndex(event.VisitorID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().Str("visitor", event.VisitorID).Str("state", event.State).Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a visitor id deterministically to a worker index.
func (d *Dispatcher) shardIndex(visitorID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(visitorID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SubmissionEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				d.drain(ctx, id, ch, event)
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.store(ctx, id, event)
		}
	}
}

// drain stores pending and then the events left in ch once the worker has
// been told to stop.
func (d *Dispatcher) drain(parent context.Context, id int, ch <-chan domain.SubmissionEvent, pending ...domain.SubmissionEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), drainTimeout)
	defer cancel()

	for _, event := range pending {
		d.store(ctx, id, event)
	}
	n := len(pending)
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				metrics.AuditDroppedTotal.Inc()
				continue
			}
			d.store(ctx, id, event)
			n++
		default:
			if n > 0 {
				d.log.Info().Int("worker_id", id).Int("events", n).Msg("audit queue drained")
			}
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			return
		}
	}
}

func (d *Dispatcher) store(ctx context.Context, id int, event domain.SubmissionEvent) {
	if err := d.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("visitor", event.VisitorID).
			Int("worker_id", id).
			Msg("audit event not stored")
	}
}
