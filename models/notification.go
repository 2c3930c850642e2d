package models

import "time"

type NotificationType string

const (
	NotificationScoreRecorded       NotificationType = "score_recorded"
	NotificationTournamentAdvanced  NotificationType = "tournament_advanced"
	NotificationTournamentCompleted NotificationType = "tournament_completed"
	NotificationGoalCompleted       NotificationType = "goal_completed"
)

// Notification is handed to the external notification collaborator;
// delivery mechanics live outside this service.
type Notification struct {
	ID          int              `json:"id"`
	RecipientID int              `json:"recipient_id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	LinkURL     *string          `json:"link_url,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
