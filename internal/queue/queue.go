// Package queue provides the scoring task queue. Tasks carry job IDs rather
// than full records to bound message size, and delivery is at-least-once:
// the scoring consumer is idempotent with respect to redelivery.
package queue

import (
	"context"

	"github.com/google/uuid"
)

// ScoreTask asks a worker to score a batch of newly created jobs for one
// user profile.
type ScoreTask struct {
	UserID    uuid.UUID   `json:"user_id"`
	JobIDs    []uuid.UUID `json:"job_ids"`
	SessionID uuid.UUID   `json:"session_id"`
}

// Queue dispatches scoring work to the worker pool.
type Queue interface {
	Enqueue(ctx context.Context, task ScoreTask) error

	// Dequeue blocks until a task is available or the context ends.
	Dequeue(ctx context.Context) (ScoreTask, error)
}

// Memory is an in-process Queue for tests and single-binary runs.
type Memory struct {
	ch chan ScoreTask
}

// NewMemory returns an in-process queue with the given buffer size.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 64
	}
	return &Memory{ch: make(chan ScoreTask, size)}
}

func (m *Memory) Enqueue(ctx context.Context, task ScoreTask) error {
	select {
	case m.ch <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Memory) Dequeue(ctx context.Context) (ScoreTask, error) {
	select {
	case task := <-m.ch:
		return task, nil
	case <-ctx.Done():
		return ScoreTask{}, ctx.Err()
	}
}

// Len reports the number of buffered tasks, for test inspection.
func (m *Memory) Len() int { return len(m.ch) }
