package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadReminder = "leads.reminder"

// LeadReminderPayload identifies the lead to nudge over WhatsApp.
type LeadReminderPayload struct {
	LeadID  string `json:"leadId"`
	Message string `json:"message,omitempty"`
}

func NewLeadReminderTask(payload LeadReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadReminder, data), nil
}

func ParseLeadReminderPayload(task *asynq.Task) (LeadReminderPayload, error) {
	var payload LeadReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadReminderPayload{}, err
	}
	return payload, nil
}
