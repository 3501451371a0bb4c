// ABOUTME: InteractionLogger records chat exchanges to an evaluation sink in the background
// ABOUTME: Never blocks the caller: bounded in-flight sends, drops when full, failures only counted
package evaluation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harper/plant-texts/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultMaxInFlight = 64
	DefaultTimeout     = 5 * time.Second
)

// Logger dispatches evaluation records without blocking the chat path
type Logger struct {
	sink    Sink
	sem     *semaphore.Weighted
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Options configures a Logger
type Options struct {
	MaxInFlight int
	Timeout     time.Duration
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

// NewLogger creates a Logger writing to sink
func NewLogger(sink Sink, opts Options) *Logger {
	if sink == nil {
		sink = NopSink{}
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = DefaultMaxInFlight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Logger{
		sink:    sink,
		sem:     semaphore.NewWeighted(int64(opts.MaxInFlight)),
		timeout: opts.Timeout,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
}

// Record sends one evaluation record in the background. It returns
// immediately; if too many sends are in flight the record is dropped.
func (l *Logger) Record(tc TurnContext, response string, md Metadata) {
	if l == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed || !l.sem.TryAcquire(1) {
		l.metrics.ObserveEvaluation(metrics.ResultDropped)
		l.logger.Warn("evaluation record dropped",
			zap.String("plant_id", tc.PlantID), zap.Bool("closed", l.closed))
		return
	}

	l.wg.Add(1)
	go l.send(tc, response, md)
}

func (l *Logger) send(tc TurnContext, response string, md Metadata) {
	defer l.wg.Done()
	defer l.sem.Release(1)
	defer func() {
		if r := recover(); r != nil {
			l.fail(tc, &LoggingError{Sink: l.sink.Name(), Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	if err := l.sink.Send(ctx, NewRecord(tc, response, md)); err != nil {
		l.fail(tc, &LoggingError{Sink: l.sink.Name(), Err: err})
		return
	}
	l.metrics.ObserveEvaluation(metrics.ResultSent)
}

func (l *Logger) fail(tc TurnContext, err error) {
	l.metrics.ObserveEvaluation(metrics.ResultFailed)
	l.logger.Warn("evaluation record failed",
		zap.String("plant_id", tc.PlantID), zap.String("turn_id", tc.TurnID), zap.Error(err))
}

// Close stops accepting records, waits for in-flight sends (or ctx), then
// closes the sink.
func (l *Logger) Close(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return l.sink.Close()
}
