// Package worker provides a bounded in-process task queue for work that
// request handlers hand off instead of running inline, like budget checks
// after an expense mutation.
package worker

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Runner accepts named tasks for asynchronous execution.
type Runner interface {
	Submit(name string, task func() error)
}

type job struct {
	name string
	task func() error
}

// Queue executes submitted tasks on a single background goroutine, in
// submission order. The queue is bounded: when it is full, Submit drops the
// task rather than blocking the caller.
type Queue struct {
	jobs chan job
}

func NewQueue(size int) *Queue {
	return &Queue{jobs: make(chan job, size)}
}

// Submit enqueues a task. It never blocks: if the queue is full, the task is
// dropped and the drop is logged.
func (q *Queue) Submit(name string, task func() error) {
	select {
	case q.jobs <- job{name: name, task: task}:
	default:
		log.Warn().Str("task", name).Msg("task queue full, dropping task")
	}
}

// Start runs tasks until ctx is canceled. Task errors are logged, never
// propagated, so that one failing task cannot stop the queue.
func (q *Queue) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-q.jobs:
			err := j.task()
			if err != nil {
				log.Error().Err(err).Str("task", j.name).Msg("task failed")
			}
		}
	}
}

// Synchronous runs every submitted task inline. It backs tests, where the
// effects of a task have to be visible as soon as the request returns.
type Synchronous struct{}

func (Synchronous) Submit(name string, task func() error) {
	err := task()
	if err != nil {
		log.Error().Err(err).Str("task", name).Msg("task failed")
	}
}
