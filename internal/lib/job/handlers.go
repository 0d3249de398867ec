package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deppfellow/storefront/internal/config"
	"github.com/deppfellow/storefront/internal/lib/email"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

var errNoMailer = errors.New("job handlers not initialized")

// emailMailer adapts *email.Client to Mailer.
type emailMailer struct {
	*email.Client
}

func (m emailMailer) SendRoleChangedEmail(to, username string, role string) error {
	return m.Client.SendRoleChangedEmail(to, username, model.Role(role))
}

// InitHandlers builds the dependencies the task handlers need.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.mailer = emailMailer{email.NewClient(cfg, logger)}
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w: %w", err, asynq.SkipRetry)
	}
	if j.mailer == nil {
		return errNoMailer
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("to", p.To).
		Msg("processing welcome email task")

	if err := j.mailer.SendWelcomeEmail(p.To, p.Username); err != nil {
		j.logger.Error().
			Str("type", "welcome").
			Str("to", p.To).
			Err(err).
			Msg("failed to send welcome email")
		return err
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("to", p.To).
		Msg("successfully sent welcome email")

	return nil
}

func (j *JobService) handleRoleChangedEmailTask(ctx context.Context, t *asynq.Task) error {
	var p RoleChangedEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal role changed email payload: %w: %w", err, asynq.SkipRetry)
	}
	if j.mailer == nil {
		return errNoMailer
	}

	j.logger.Info().
		Str("type", "role_changed").
		Str("to", p.To).
		Str("role", p.Role).
		Msg("processing role changed email task")

	if err := j.mailer.SendRoleChangedEmail(p.To, p.Username, p.Role); err != nil {
		j.logger.Error().
			Str("type", "role_changed").
			Str("to", p.To).
			Err(err).
			Msg("failed to send role changed email")
		return err
	}

	return nil
}
