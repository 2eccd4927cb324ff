package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"propex/server/internal/config"
)

// IPaymentGateway defines the interface for creating payment intents with
// the card processor.
type IPaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountMinorUnits int64) (*PaymentIntent, error)
}

// PaymentIntent is the subset of the Stripe payment intent object the
// client needs to confirm a card payment.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type stripeGateway struct {
	cfg        *config.Config
	httpClient *http.Client
}

// NewStripeGateway creates a gateway backed by the Stripe payment intents API.
func NewStripeGateway(cfg *config.Config) IPaymentGateway {
	return &stripeGateway{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreatePaymentIntent creates a usd payment intent for the given amount in
// minor units (cents) and returns its client secret. Amounts are validated
// by the handler before reaching here.
func (g *stripeGateway) CreatePaymentIntent(ctx context.Context, amountMinorUnits int64) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinorUnits, 10))
	form.Set("currency", "usd")
	form.Set("payment_method_types[]", "card")

	endpoint := strings.TrimRight(g.cfg.StripeAPIURL, "/") + "/payment_intents"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.cfg.StripeSecretKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("Error calling Stripe payment_intents: %v", err)
		return nil, fmt.Errorf("failed to contact payment processor: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment processor response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr stripeError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("payment processor rejected intent (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("payment processor returned status %d", resp.StatusCode)
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse payment intent response: %w", err)
	}
	if intent.ClientSecret == "" {
		return nil, fmt.Errorf("payment intent response missing client secret")
	}
	return &intent, nil
}
