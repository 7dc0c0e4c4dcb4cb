package job

import (
	"context"

	"github.com/notegenius/notegenius/internal/service"
)

type ReminderJob struct {
	reminders *service.ReminderService
}

func NewReminderJob(reminders *service.ReminderService) *ReminderJob {
	return &ReminderJob{reminders: reminders}
}

func (j *ReminderJob) Name() string {
	return "reminder_scan"
}

func (j *ReminderJob) Run(ctx context.Context) error {
	if j.reminders == nil {
		return nil
	}
	return j.reminders.Scan(ctx)
}
