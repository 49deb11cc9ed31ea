package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrProcessor wraps every failure reported by the payment processor.
var ErrProcessor = errors.New("payment processor error")

// PaymentProcessor creates card payment intents and returns their client secret.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error)
}

// StripeProcessor talks to the Stripe API through a circuit breaker.
type StripeProcessor struct {
	api *client.API
	cb  *CircuitBreaker
}

func NewStripeProcessor(secretKey string, cb *CircuitBreaker) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, nil), cb: cb}
}

// CreateIntent requests a card-only PaymentIntent for amountMinor units of currency.
func (p *StripeProcessor) CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	var secret string
	err := p.cb.Execute(func() error {
		pi, err := p.api.PaymentIntents.New(params)
		if err != nil {
			return err
		}
		secret = pi.ClientSecret
		return nil
	}, isClientSideStripeError)

	if errors.Is(err, ErrCircuitOpen) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessor, err)
	}
	return secret, nil
}

// BreakerState exposes the breaker for the health endpoint.
func (p *StripeProcessor) BreakerState() BreakerState { return p.cb.State() }

// Card declines and invalid parameters say nothing about Stripe's availability.
func isClientSideStripeError(err error) bool {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Type == stripe.ErrorTypeCard || se.Type == stripe.ErrorTypeInvalidRequest
}
