package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// Logger is an explicit handle threaded through the engine at construction
// (spec.md §9) — never a package-level singleton. Log and LogLazy are safe
// to call from any goroutine; the worker goroutine owns the buffer and the
// sink exclusively.
type Logger struct {
	cfg  Config
	sink sink

	ch       chan asyncMessage
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New validates cfg and builds the configured sink, but does not start the
// worker goroutine; call Start for that.
func New(cfg Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := newSink(cfg.Destination)
	if err != nil {
		return nil, err
	}
	return &Logger{
		cfg:  cfg,
		sink: s,
		ch:   make(chan asyncMessage, cfg.ChannelBufferSize),
		done: make(chan struct{}),
	}, nil
}

// Start launches the single worker goroutine. Start must be called once,
// before the first Log/LogLazy call that expects delivery.
func (l *Logger) Start() {
	l.wg.Add(1)
	go l.run()
}

// Stop signals the worker to drain and flush any remaining batch, then
// blocks until it exits. Safe to call more than once.
func (l *Logger) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
	l.wg.Wait()
}

// Log enqueues a precomputed body. Never blocks the caller on I/O; if the
// channel is full it waits up to enqueueTimeout, then drops the message with
// a stderr diagnostic.
func (l *Logger) Log(logType string, body interface{}) {
	l.enqueue(computedMessage(newMessage(logType, body)))
}

// LogLazy enqueues a generator that is invoked exactly once, on the worker
// goroutine, when the worker takes the message off the channel; a message
// dropped at enqueue never runs its generator. Use this for bodies that are
// expensive to construct (e.g. book snapshots) so the hot path never pays
// for them.
func (l *Logger) LogLazy(logType string, gen generator) {
	l.enqueue(lazyMessage(logType, gen))
}

// enqueueTimeout bounds how long a caller blocks trying to hand a message to
// the worker when the channel is full, per spec.md §5's "logger channel
// send/recv (bounded wait)" suspension point — a real wait, not an
// immediate drop, but still short enough to never stall an order-lifecycle
// caller for long.
const enqueueTimeout = 50 * time.Millisecond

func (l *Logger) enqueue(m asyncMessage) {
	select {
	case l.ch <- m:
	case <-time.After(enqueueTimeout):
		fmt.Fprintf(os.Stderr, "logger: channel full after %s, dropping %s message\n", enqueueTimeout, m.logTypeOrComputed())
	}
}

func (a asyncMessage) logTypeOrComputed() string {
	if a.computed != nil {
		return a.computed.LogType
	}
	return a.logType
}

func (l *Logger) run() {
	defer l.wg.Done()

	interval := time.Duration(l.cfg.FlushIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	batch := make([]Message, 0, l.cfg.BatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := l.sink.flush(ctx, batch); err != nil {
			fmt.Fprintf(os.Stderr, "logger: flush failed, dropping %d messages: %v\n", len(batch), err)
		}
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case m := <-l.ch:
			batch = append(batch, m.resolve())
			if len(batch) >= l.cfg.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-l.done:
			l.drainAndFlush(&batch, flush)
			return
		}
	}
}

// drainAndFlush collects whatever is already queued in the channel (without
// blocking for more) before the final flush on shutdown.
func (l *Logger) drainAndFlush(batch *[]Message, flush func()) {
	for {
		select {
		case m := <-l.ch:
			*batch = append(*batch, m.resolve())
			if len(*batch) >= l.cfg.BatchSize {
				flush()
			}
		default:
			flush()
			return
		}
	}
}
