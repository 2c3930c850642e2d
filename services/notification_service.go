package services

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Gintoki006/Sportify-sub001/models"
	"github.com/Gintoki006/Sportify-sub001/repositories"
)

// Notifier hands notifications to the delivery layer. Calls are fire and
// forget: a failed notification never fails the operation that raised it.
type Notifier interface {
	Notify(ctx context.Context, recipientID int, typ models.NotificationType, title, message string)
}

type notificationService struct {
	db     *sql.DB
	repo   repositories.NotificationRepository
	logger *slog.Logger
}

func NewNotificationService(db *sql.DB, repo repositories.NotificationRepository, logger *slog.Logger) Notifier {
	return &notificationService{db: db, repo: repo, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, recipientID int, typ models.NotificationType, title, message string) {
	n := &models.Notification{
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Message:     message,
	}
	if err := s.repo.Create(ctx, s.db, n); err != nil {
		s.logger.Warn("failed to store notification",
			slog.Int("recipient_id", recipientID),
			slog.String("type", string(typ)),
			slog.Any("error", err))
	}
}
