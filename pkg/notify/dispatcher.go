package notify

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultWorkers = 2
	channelBuffer  = 128
	drainTimeout   = 5 * time.Second
)

// Dispatcher hands messages to a fixed set of workers. Messages for the same
// recipient always go to the same worker, so they are delivered in order.
type Dispatcher struct {
	workers  []chan Message
	notifier Notifier
	log      *zap.Logger
	wg       sync.WaitGroup
	// OnDrop is called when a worker queue is full. Optional.
	OnDrop func(Message)
}

// NewDispatcher creates a Dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier Notifier, log *zap.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan Message, numWorkers),
		notifier: notifier,
		log:      log.With(zap.String("component", "dispatcher")),
	}
	for i := range d.workers {
		d.workers[i] = make(chan Message, channelBuffer)
	}
	return d
}

// Start launches the workers. When ctx is cancelled each worker delivers
// what is already queued and stops.
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

// Enqueue never blocks. It reports false and drops the message when the
// worker queue is full.
func (d *Dispatcher) Enqueue(msg Message) bool {
	select {
	case d.workers[d.shardIndex(msg.To)] <- msg:
		return true
	default:
		d.log.Warn("Notification queue full, message dropped", zap.String("to", msg.To))
		if d.OnDrop != nil {
			d.OnDrop(msg)
		}
		return false
	}
}

func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(to)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Message) {
	defer d.wg.Done()
	log := d.log.With(zap.String("worker_id", strconv.Itoa(id)))
	for {
		select {
		case <-ctx.Done():
			d.drain(log, ch)
			return
		case msg := <-ch:
			d.send(ctx, log, msg)
		}
	}
}

func (d *Dispatcher) drain(log *zap.Logger, ch <-chan Message) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case msg := <-ch:
			d.send(ctx, log, msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, log *zap.Logger, msg Message) {
	if err := d.notifier.Send(ctx, msg); err != nil {
		log.Error("Notification delivery failed",
			zap.Error(err),
			zap.String("to", msg.To),
		)
	}
}
