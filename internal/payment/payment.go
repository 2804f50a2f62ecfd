// Package payment opens checkout sessions with an external payment provider
// over HTTP. With no provider URL configured the gateway runs in local mode
// and mints session ids in-process, which keeps development and tests off the
// network.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"berbook/internal/config"

	"github.com/google/uuid"
)

type Gateway struct {
	cfg    *config.PaymentConfig
	client *http.Client
}

func NewGateway(cfg *config.PaymentConfig) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type sessionRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

type sessionResponse struct {
	Id string `json:"id"`
}

// CreateSession returns the provider's session id for a checkout of the
// given amount in cents.
func (g *Gateway) CreateSession(ctx context.Context, amountCents int64, currency, description string) (string, error) {
	if len(g.cfg.PaymentURL) == 0 {
		return "sess_" + uuid.NewString(), nil
	}

	body, err := json.Marshal(sessionRequest{
		Amount:      amountCents,
		Currency:    currency,
		Description: description,
	})
	if err != nil {
		return "", fmt.Errorf("payment.Gateway.CreateSession: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.PaymentURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("payment.Gateway.CreateSession: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.PaymentAPIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment.Gateway.CreateSession: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payment.Gateway.CreateSession: provider returned status %d", resp.StatusCode)
	}

	var session sessionResponse
	err = json.NewDecoder(resp.Body).Decode(&session)
	if err != nil {
		return "", fmt.Errorf("payment.Gateway.CreateSession: %w", err)
	}
	if len(session.Id) == 0 {
		return "", fmt.Errorf("payment.Gateway.CreateSession: provider returned empty session id")
	}

	return session.Id, nil
}
