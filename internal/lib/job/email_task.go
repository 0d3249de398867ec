package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskWelcome     = "email:welcome"
	TaskRoleChanged = "email:role_changed"
)

type WelcomeEmailPayload struct {
	To       string `json:"to"`
	Username string `json:"username"`
}

type RoleChangedEmailPayload struct {
	To       string `json:"to"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func newEmailTask(taskType string, payload any) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		taskType,
		body,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

func NewWelcomeEmailTask(to, username string) (*asynq.Task, error) {
	return newEmailTask(TaskWelcome, WelcomeEmailPayload{
		To:       to,
		Username: username,
	})
}

func NewRoleChangedEmailTask(to, username, role string) (*asynq.Task, error) {
	return newEmailTask(TaskRoleChanged, RoleChangedEmailPayload{
		To:       to,
		Username: username,
		Role:     role,
	})
}
