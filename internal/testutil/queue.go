package testutil

import (
	"context"
	"sync"

	"github.com/hibiken/asynq"
)

// Queue records enqueued tasks instead of sending them to Redis.
type Queue struct {
	mu    sync.Mutex
	tasks []*asynq.Task

	// Err, when set, is returned by EnqueueContext.
	Err error
}

func (q *Queue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.Err != nil {
		return nil, q.Err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{Type: task.Type(), Payload: task.Payload()}, nil
}

// Types lists the types of the recorded tasks in order.
func (q *Queue) Types() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	types := make([]string, 0, len(q.tasks))
	for _, task := range q.tasks {
		types = append(types, task.Type())
	}
	return types
}
