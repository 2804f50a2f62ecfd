// Package notify delivers workflow notifications by persisting them for the
// recipient to poll. The delivery channel sits behind an interface so the
// workflow engine never depends on how messages reach their recipients.
package notify

import (
	"context"
	"fmt"

	"berbook/internal/models"
	"berbook/internal/repository"
)

type Notifier struct {
	repo *repository.Repository
}

func NewNotifier(repo *repository.Repository) *Notifier {
	return &Notifier{repo: repo}
}

func (n *Notifier) Send(ctx context.Context, notification models.Notification) error {
	if !models.ValidUserKind(notification.RecipientKind) {
		return fmt.Errorf("notify.Notifier.Send: %w", models.ErrValidation)
	}

	_, err := n.repo.AddNotification(ctx, notification)
	if err != nil {
		return fmt.Errorf("notify.Notifier.Send: %w", err)
	}
	return nil
}
