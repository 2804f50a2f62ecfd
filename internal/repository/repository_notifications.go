package repository

import (
	"context"
	"fmt"

	"berbook/internal/models"
)

func (repo *Repository) AddNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	err := repo.db.GetContext(ctx, &n, `
	INSERT INTO notifications (recipient_kind, recipient_id, sender_kind, sender_id, type, message)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING *
	`, n.RecipientKind, n.RecipientId, n.SenderKind, n.SenderId, n.Type, n.Message)
	if err != nil {
		return n, fmt.Errorf("repository.Repository.AddNotification: %w", err)
	}
	return n, nil
}

func (repo *Repository) NotificationsFor(ctx context.Context, recipient models.PartyRef) ([]models.Notification, error) {
	var notifications []models.Notification
	err := repo.db.SelectContext(ctx, &notifications, `
	SELECT * FROM notifications
	WHERE recipient_kind = $1 AND recipient_id = $2
	ORDER BY created_at DESC
	`, recipient.Kind, recipient.Id)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.NotificationsFor: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead flips a notification to read, but only when the caller
// is its recipient. A miss on either the id or the recipient reports
// models.ErrNoNotification.
func (repo *Repository) MarkNotificationRead(ctx context.Context, id string, recipient models.PartyRef) error {
	res, err := repo.db.ExecContext(ctx, `
	UPDATE notifications SET status = 'read'
	WHERE id = $1 AND recipient_kind = $2 AND recipient_id = $3
	`, id, recipient.Kind, recipient.Id)
	if err != nil {
		return fmt.Errorf("repository.Repository.MarkNotificationRead: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository.Repository.MarkNotificationRead: %w", err)
	}
	if affected == 0 {
		return models.ErrNoNotification
	}

	return nil
}
