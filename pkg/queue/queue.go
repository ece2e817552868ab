// Package queue runs pipeline invocations on a fixed pool of workers.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"quill/pkg/pipeline"
	"quill/pkg/schema"
	"quill/pkg/utils"
)

var (
	ErrFull    = errors.New("queue is full")
	ErrStopped = errors.New("queue is stopped")
)

type Pool struct {
	runner  Runner
	workers int
	items   chan *Item
	stop    chan struct{}

	mu       sync.Mutex
	stopped  bool
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type Item struct {
	Ctx      context.Context
	Spec     schema.BookSpec
	Observer pipeline.Observer
	Response chan *schema.FinalPayload
	Error    chan error
}

func New(runner Runner, workers, size int) *Pool {
	return &Pool{
		runner:  runner,
		workers: max(workers, 1),
		items:   make(chan *Item, max(size, 1)),
		stop:    make(chan struct{}),
	}
}

func (q *Pool) Start() {
	for i := range q.workers {
		q.wg.Add(1)
		go q.processLoop(i)
	}
}

// Stop waits for running items to finish. Items still waiting are failed
// with ErrStopped.
func (q *Pool) Stop() {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.stopped = true
		close(q.stop)
		q.mu.Unlock()

		q.wg.Wait()
		for {
			select {
			case item := <-q.items:
				item.Error <- ErrStopped
				close(item.Response)
			default:
				return
			}
		}
	})
}

// Add enqueues a run without blocking. Exactly one of the returned channels
// receives a value; the other is closed.
func (q *Pool) Add(ctx context.Context, spec schema.BookSpec, obs pipeline.Observer) (chan *schema.FinalPayload, chan error, error) {
	respCh := make(chan *schema.FinalPayload, 1)
	errCh := make(chan error, 1)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return nil, nil, ErrStopped
	}

	select {
	case q.items <- &Item{
		Ctx:      ctx,
		Spec:     spec,
		Observer: obs,
		Response: respCh,
		Error:    errCh,
	}:
		return respCh, errCh, nil
	default:
		return nil, nil, ErrFull
	}
}

// Len is the number of items waiting for a worker.
func (q *Pool) Len() int {
	return len(q.items)
}

func (q *Pool) processLoop(worker int) {
	defer q.wg.Done()
	log.Debug("queue worker started", "worker", worker)
	for {
		select {
		case <-q.stop:
			log.Debug("queue worker stopped", "worker", worker)
			return
		case item := <-q.items:
			q.processItem(worker, item)
		}
	}
}

func (q *Pool) processItem(worker int, item *Item) {
	if err := item.Ctx.Err(); err != nil {
		item.Error <- err
		close(item.Response)
		return
	}

	log.Info("processing book", "worker", worker, "topic", utils.LimitStr(item.Spec.BookTopic, 50))

	payload, err := q.runner.Run(item.Ctx, item.Spec, item.Observer)
	if err != nil {
		item.Error <- err
		close(item.Response)
		return
	}

	item.Response <- payload
	close(item.Error)
}
