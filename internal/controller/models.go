package controller

import (
	"encoding/json"
	"fmt"

	"berbook/internal/models"
)

type ErrorResponse struct {
	Reason string `json:"reason"`
}

// New bid request

type NewBidReq struct {
	Amount         float64 `json:"amount"`
	Availability   string  `json:"availability"`
	VATRegistered  bool    `json:"vatRegistered"`
	SEAIRegistered bool    `json:"seaiRegistered"`
	Insured        bool    `json:"insured"`
	AccessorId     string  `json:"accessorId"`
}

func ParseNewBidReq(data []byte) (*NewBidReq, error) {
	b := &NewBidReq{}

	err := json.Unmarshal(data, b)
	if err != nil {
		return nil, err
	}

	if b.Amount <= 0 {
		return nil, fmt.Errorf("bid amount should be a positive number, got: %v", b.Amount)
	}
	if len(b.Availability) == 0 {
		return nil, fmt.Errorf("bid availability should not be empty")
	}
	if len(b.AccessorId) == 0 {
		return nil, fmt.Errorf("accessorId should not be empty")
	}

	return b, nil
}

// Partial update request, shared by quotes, jobs and assessments

type ChangeReq map[string]interface{}

func ParseChangeReq(data []byte) (ChangeReq, error) {
	changes := ChangeReq{}

	err := json.Unmarshal(data, &changes)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("request contains no fields to change")
	}

	return changes, nil
}

// Project status request

type ProjectStatusReq struct {
	Status models.ProjectStatus `json:"status"`
}

func ParseProjectStatusReq(data []byte) (*ProjectStatusReq, error) {
	p := &ProjectStatusReq{}

	err := json.Unmarshal(data, p)
	if err != nil {
		return nil, err
	}

	if !models.ValidProjectStatus(p.Status) {
		return nil, fmt.Errorf("invalid project status supplied: %s, should be one of: %s, %s, %s",
			string(p.Status), models.ProjectNotStarted, models.ProjectInProgress, models.ProjectCompleted)
	}

	return p, nil
}

// Payment session request

type PaymentSessionReq struct {
	BidId string `json:"bidId"`
}

func ParsePaymentSessionReq(data []byte) (*PaymentSessionReq, error) {
	p := &PaymentSessionReq{}

	err := json.Unmarshal(data, p)
	if err != nil {
		return nil, err
	}

	if len(p.BidId) == 0 {
		return nil, fmt.Errorf("bidId should not be empty")
	}

	return p, nil
}
