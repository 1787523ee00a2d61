package tasks

import "github.com/hibiken/asynq"

// Task type names
const (
	TypeWeeklyReset = "kudos:weekly_reset"
)

// NewWeeklyResetTask builds the reset sweep task. It carries no payload; the
// handler derives eligibility from each user's last_kudos_reset.
func NewWeeklyResetTask() *asynq.Task {
	return asynq.NewTask(TypeWeeklyReset, nil)
}
