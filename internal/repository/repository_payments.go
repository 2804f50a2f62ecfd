package repository

import (
	"context"
	"fmt"

	"berbook/internal/models"
)

func (repo *Repository) AddPayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	err := repo.db.GetContext(ctx, &payment, `
	INSERT INTO payments (bid_id, job_id, accessor_id, amount, currency, session_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (session_id) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
	RETURNING *
	`, payment.BidId, payment.JobId, payment.AccessorId, payment.Amount, payment.Currency, payment.SessionId)
	if err != nil {
		return payment, fmt.Errorf("repository.Repository.AddPayment: %w", err)
	}
	return payment, nil
}

func (repo *Repository) PaymentsByJob(ctx context.Context, jobId string) ([]models.Payment, error) {
	var payments []models.Payment
	err := repo.db.SelectContext(ctx, &payments, "SELECT * FROM payments WHERE job_id = $1 ORDER BY created_at DESC", jobId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.PaymentsByJob: %w", err)
	}
	return payments, nil
}
