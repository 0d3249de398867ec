// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue: tasks are enqueued with asynq.Client
// and executed by the worker pool of asynq.Server.
package job

import (
	"context"

	"github.com/deppfellow/storefront/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Enqueuer is the producer side of the queue. *asynq.Client satisfies it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Mailer sends the emails that jobs deliver.
type Mailer interface {
	SendWelcomeEmail(to, username string) error
	SendRoleChangedEmail(to, username string, role string) error
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	mailer Mailer
	logger *zerolog.Logger
}

// NewJobService creates the client and the worker server against the
// configured Redis. Queue weights give "critical" tasks the largest share
// of the ten workers.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	mux.HandleFunc(TaskRoleChanged, j.handleRoleChangedEmailTask)
	return mux
}

// Start registers the task handlers and starts the workers. It does not
// block.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")

	return j.server.Start(j.mux())
}

// Stop waits for running tasks and closes the Redis connections.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
