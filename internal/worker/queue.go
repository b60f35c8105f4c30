package worker

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrQueueFull возвращается, когда буфер очереди заполнен
	ErrQueueFull = errors.New("worker: queue is full")

	// ErrPermanent помечает ошибку, которую нет смысла повторять
	ErrPermanent = errors.New("worker: permanent failure")
)

// Job единица работы очереди
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// FailureRecorder фиксирует окончательно неудачные задачи
type FailureRecorder interface {
	IncSyncFailure(target string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Queue in-memory очередь задач с повторами по RetryPolicy.
// Задачи выполняются последовательно одной горутиной.
type Queue struct {
	target  string
	jobs    chan Job
	retry   RetryPolicy
	metrics FailureRecorder
	logger  Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewQueue создает очередь. metrics может быть nil.
func NewQueue(target string, size int, retry RetryPolicy, metrics FailureRecorder, logger Logger) *Queue {
	if size <= 0 {
		size = 128
	}
	return &Queue{
		target:  target,
		jobs:    make(chan Job, size),
		retry:   retry.withDefaults(),
		metrics: metrics,
		logger:  logger,
		sleep:   sleepContext,
	}
}

// Enqueue ставит задачу в очередь, не блокируясь
func (q *Queue) Enqueue(job Job) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		q.recordFailure()
		return fmt.Errorf("%w: %s %s", ErrQueueFull, q.target, job.Name)
	}
}

// Len количество ожидающих задач
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Start обрабатывает задачи, пока не отменён ctx
func (q *Queue) Start(ctx context.Context) {
	q.logger.Info("%s worker: started", q.target)
	defer q.logger.Info("%s worker: stopped", q.target)

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.process(ctx, job)
		}
	}
}

func (q *Queue) process(ctx context.Context, job Job) {
	for attempt := 1; ; attempt++ {
		err := job.Run(ctx)
		if err == nil {
			return
		}

		if errors.Is(err, ErrPermanent) || attempt >= q.retry.MaxRetries {
			q.logger.Error("%s worker: %s failed after %d attempt(s): %v", q.target, job.Name, attempt, err)
			q.recordFailure()
			return
		}

		delay := q.retry.NextDelay(attempt)
		q.logger.Warn("%s worker: %s attempt %d failed, retry in %s: %v", q.target, job.Name, attempt, delay, err)

		if err := q.sleep(ctx, delay); err != nil {
			q.logger.Warn("%s worker: %s abandoned: %v", q.target, job.Name, err)
			q.recordFailure()
			return
		}
	}
}

func (q *Queue) recordFailure() {
	if q.metrics != nil {
		q.metrics.IncSyncFailure(q.target)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
