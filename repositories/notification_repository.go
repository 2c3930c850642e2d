package repositories

import (
	"context"
	"fmt"

	"github.com/Gintoki006/Sportify-sub001/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, n *models.Notification) error
}

type postgresNotificationRepository struct{}

func NewPostgresNotificationRepository() NotificationRepository {
	return &postgresNotificationRepository{}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, exec SQLExecutor, n *models.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, type, title, message, link_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		n.RecipientID, n.Type, n.Title, n.Message, n.LinkURL,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}
