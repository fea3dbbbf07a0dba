package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes audit events to a fixed set of workers by hashing the
// user ID, so the events of one user are stored in the order they happened.
type Dispatcher struct {
	workers []chan domain.AttendanceEvent
	service ports.EventService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, service, log)
}

func newDispatcher(numWorkers, buffer int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AttendanceEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AttendanceEvent, buffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled the workers
// drain what is already queued and exit; Wait blocks until they have.
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

// Publish hands an event to the worker that owns its user. It never blocks:
// when the worker queue is full the event is dropped and counted.
func (d *Dispatcher) Publish(event domain.AttendanceEvent) {
	idx := d.shardIndex(event.UserID)
	select {
	case d.workers[idx] <- event:
		d.observeDepth(idx)
	default:
		metrics.EventsDroppedTotal.Inc()
		d.log.Warn().
			Str("event_id", event.ID).
			Int64("user_id", event.UserID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a user ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(userID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) observeDepth(idx int) {
	metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AttendanceEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			d.observeDepth(id)
			d.process(ctx, id, event)
		}
	}
}

// drain stores whatever is still buffered using a short detached deadline.
func (d *Dispatcher) drain(id int, ch <-chan domain.AttendanceEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case event := <-ch:
			d.process(ctx, id, event)
		default:
			d.observeDepth(id)
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event domain.AttendanceEvent) {
	if err := d.service.Process(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("event_id", event.ID).
			Int64("user_id", event.UserID).
			Int("worker_id", id).
			Msg("audit event processing failed")
	}
}
