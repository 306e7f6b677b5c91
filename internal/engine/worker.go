package engine

import (
	"context"

	"fincalc/internal/log"
)

// Worker runs an Engine behind a pair of channels, mirroring the main-thread
// / compute-thread split of the calling application: a single consumer
// goroutine drains the request channel in FIFO order and emits one response
// per request on the response channel. The worker applies no timeout or
// cancellation of its own; callers that need a deadline ignore late
// responses or cancel the context and spawn a fresh worker.
type Worker struct {
	engine    *Engine
	requests  chan Request
	responses chan Response
	logger    *log.Logger
}

// NewWorker creates a worker with the given channel buffer size.
func NewWorker(engine *Engine, buffer int, logger *log.Logger) *Worker {
	return &Worker{
		engine:    engine,
		requests:  make(chan Request, buffer),
		responses: make(chan Response, buffer),
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// Start launches the consumer goroutine. The first message on Responses is
// always the WORKER_READY signal; the response channel closes once ctx is
// done and every request already accepted into the queue has been answered,
// so callers must keep receiving from Responses until it closes.
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.responses)

	w.responses <- Response{Type: TypeWorkerReady}
	w.logger.InfoContext(ctx, "Worker ready")

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Worker stopping", "reason", ctx.Err())
			w.drainQueued()
			return
		case req := <-w.requests:
			w.responses <- w.engine.Handle(req)
		}
	}
}

// drainQueued answers requests still sitting in the queue at shutdown.
func (w *Worker) drainQueued() {
	for {
		select {
		case req := <-w.requests:
			w.responses <- w.engine.Handle(req)
		default:
			return
		}
	}
}

// Submit enqueues a request, failing only if ctx ends before the queue
// accepts it.
func (w *Worker) Submit(ctx context.Context, req Request) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case w.requests <- req:
		return nil
	}
}

// Responses is the ordered stream of response envelopes.
func (w *Worker) Responses() <-chan Response {
	return w.responses
}
