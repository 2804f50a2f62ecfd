package models

import "time"

// Bid is an accessor's priced offer against exactly one of a job or a quote.
type Bid struct {
	Id             string    `db:"id" json:"id"`
	Amount         float64   `db:"amount" json:"amount"`
	Availability   string    `db:"availability" json:"availability"`
	VATRegistered  bool      `db:"vat_registered" json:"vatRegistered"`
	SEAIRegistered bool      `db:"seai_registered" json:"seaiRegistered"`
	Insured        bool      `db:"insured" json:"insured"`
	AccessorId     string    `db:"accessor_id" json:"accessorId"`
	JobId          *string   `db:"job_id" json:"jobId,omitempty"`
	QuoteId        *string   `db:"quote_id" json:"quoteId,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

func (b Bid) Validate() error {
	if b.Amount <= 0 {
		return ErrValidation
	}
	if len(b.Availability) == 0 {
		return ErrValidation
	}
	hasJob := b.JobId != nil && len(*b.JobId) > 0
	hasQuote := b.QuoteId != nil && len(*b.QuoteId) > 0
	if hasJob == hasQuote {
		return ErrValidation
	}
	return nil
}
