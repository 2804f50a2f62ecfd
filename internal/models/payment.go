package models

import (
	"math"
	"time"
)

// Payment records an external payment session created for an accepted bid.
// Amounts are kept in cents; the gateway session id is unique.
type Payment struct {
	Id         string    `db:"id" json:"id"`
	BidId      string    `db:"bid_id" json:"bidId"`
	JobId      string    `db:"job_id" json:"jobId"`
	AccessorId string    `db:"accessor_id" json:"accessorId"`
	Amount     int64     `db:"amount" json:"amount"`
	Currency   string    `db:"currency" json:"currency"`
	SessionId  string    `db:"session_id" json:"sessionId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"-"`
}

func AmountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
