package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"berbook/internal/models"

	"github.com/lib/pq"
)

func (repo *Repository) AddBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	err := repo.db.GetContext(ctx, &bid, `
	INSERT INTO bids (amount, availability, vat_registered, seai_registered, insured, accessor_id, job_id, quote_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING *
	`, bid.Amount, bid.Availability, bid.VATRegistered, bid.SEAIRegistered, bid.Insured,
		bid.AccessorId, bid.JobId, bid.QuoteId)
	if err != nil {
		// Check and foreign key violations mean the caller sent bad data.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && (pqErr.Code == "23514" || pqErr.Code == "23503") {
			return bid, fmt.Errorf("repository.Repository.AddBid: %w: %v", models.ErrValidation, err)
		}
		return bid, fmt.Errorf("repository.Repository.AddBid: %w", err)
	}
	return bid, nil
}

func (repo *Repository) BidByID(ctx context.Context, id string) (models.Bid, error) {
	var bid models.Bid
	err := repo.db.GetContext(ctx, &bid, "SELECT * FROM bids WHERE id = $1", id)
	if err != nil {
		return bid, fmt.Errorf("repository.Repository.BidByID: %w", err)
	}
	return bid, nil
}

func (repo *Repository) BidsByJob(ctx context.Context, jobId string) ([]models.Bid, error) {
	var bids []models.Bid
	err := repo.db.SelectContext(ctx, &bids, "SELECT * FROM bids WHERE job_id = $1 ORDER BY created_at", jobId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.BidsByJob: %w", err)
	}
	return bids, nil
}

func (repo *Repository) BidsByAccessor(ctx context.Context, accessorId string) ([]models.Bid, error) {
	var bids []models.Bid
	err := repo.db.SelectContext(ctx, &bids, "SELECT * FROM bids WHERE accessor_id = $1 ORDER BY created_at", accessorId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.BidsByAccessor: %w", err)
	}
	return bids, nil
}

// LowestBid returns the cheapest bid against a job or a quote; ties go to
// the earliest bid. The boolean is false when no bids exist.
func (repo *Repository) LowestBid(ctx context.Context, jobId, quoteId string) (models.Bid, bool, error) {
	var bid models.Bid
	var err error

	query := `
	SELECT * FROM bids
	WHERE %s = $1
	ORDER BY amount ASC, created_at ASC
	LIMIT 1
	`

	if len(jobId) > 0 {
		err = repo.db.GetContext(ctx, &bid, fmt.Sprintf(query, "job_id"), jobId)
	} else {
		err = repo.db.GetContext(ctx, &bid, fmt.Sprintf(query, "quote_id"), quoteId)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return bid, false, nil
	} else if err != nil {
		return bid, false, fmt.Errorf("repository.Repository.LowestBid: %w", err)
	}

	return bid, true, nil
}
