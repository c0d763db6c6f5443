package operator

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-insights/internal/operator/actions"
)

const defaultQueueSize = 1000

var (
	ErrQueueFull = errors.New("operator: queue full")
	ErrStopped   = errors.New("operator: stopped")
)

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
type OperatorDelegator struct {
	storage    transactor
	queue      chan ActionItem
	numWorkers int
	log        logrus.FieldLogger
	wg         sync.WaitGroup

	// mutex guards stopped and the close of queue against concurrent sends.
	mutex   sync.RWMutex
	stopped bool
}

func NewOperatorDelegator(s transactor, numWorkers int, log logrus.FieldLogger) *OperatorDelegator {
	return newOperatorDelegator(s, numWorkers, defaultQueueSize, log)
}

func newOperatorDelegator(s transactor, numWorkers, queueSize int, log logrus.FieldLogger) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &OperatorDelegator{
		storage:    s,
		queue:      make(chan ActionItem, queueSize),
		numWorkers: numWorkers,
		log:        log,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.storage, d.queue, d.log)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

// Stop closes the queue and waits for the workers to drain it.
func (d *OperatorDelegator) Stop() {
	d.mutex.Lock()
	if d.stopped {
		d.mutex.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mutex.Unlock()

	d.wg.Wait()
}

// Process queues the action and waits for its result.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	d.mutex.RLock()
	if d.stopped {
		d.mutex.RUnlock()
		return ErrStopped
	}
	select {
	case d.queue <- item:
		d.mutex.RUnlock()
	case <-ctx.Done():
		d.mutex.RUnlock()
		return ctx.Err()
	}

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue queues the action without waiting. Failures are logged by the worker.
func (d *OperatorDelegator) Enqueue(ctx context.Context, action actions.IAction) error {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- ActionItem{ctx: ctx, action: action}:
		return nil
	default:
		return ErrQueueFull
	}
}
