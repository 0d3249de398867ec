// Package service contains the business logic.
//
// It sits between the handler and repository layers: handlers pass in
// validated input and the authenticated actor, services enforce the
// role and ownership rules and call the stores. Expected failures are
// returned as *errs.HTTPError; anything else is wrapped and left to the
// global error handler.
package service

import (
	"context"
	"errors"

	"github.com/deppfellow/storefront/internal/lib/job"
	"github.com/deppfellow/storefront/internal/lib/token"
	"github.com/deppfellow/storefront/internal/repository"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type Services struct {
	Auth     *AuthService
	User     *UserService
	Category *CategoryService
	Product  *ProductService
	Job      *job.JobService
	Tokens   *token.Manager
}

// NewServices wires the services to the Postgres repositories and the
// asynq client of s.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	stores := Stores{
		Users:      repos.User,
		Categories: repos.Category,
		Products:   repos.Product,
	}

	var queue job.Enqueuer
	if s.Job != nil && s.Job.Client != nil {
		queue = s.Job.Client
	}

	return NewServicesWithStores(s, stores, token.NewManager(s.Config.Auth), queue), nil
}

// NewServicesWithStores wires the services to arbitrary stores. queue may
// be nil, in which case no emails are enqueued.
func NewServicesWithStores(s *server.Server, stores Stores, tokens *token.Manager, queue job.Enqueuer) *Services {
	b := base{server: s, queue: queue}

	return &Services{
		Auth:     &AuthService{base: b, users: stores.Users, tokens: tokens},
		User:     &UserService{base: b, users: stores.Users},
		Category: &CategoryService{base: b, categories: stores.Categories},
		Product: &ProductService{
			base:       b,
			users:      stores.Users,
			categories: stores.Categories,
			products:   stores.Products,
		},
		Job:    s.Job,
		Tokens: tokens,
	}
}

// base carries what every service shares.
type base struct {
	server *server.Server
	queue  job.Enqueuer
}

// logger prefers the request-scoped logger stored in ctx.
func (b base) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return b.server.Logger
}

// enqueue schedules a background task. Queue failures are logged and do
// not fail the request.
func (b base) enqueue(ctx context.Context, task *asynq.Task, err error) {
	if err != nil {
		b.logger(ctx).Error().Err(err).Msg("failed to build background task")
		return
	}
	if b.queue == nil {
		return
	}

	if _, err := b.queue.EnqueueContext(ctx, task); err != nil {
		b.logger(ctx).Error().
			Err(err).
			Str("task_type", task.Type()).
			Msg("failed to enqueue background task")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
