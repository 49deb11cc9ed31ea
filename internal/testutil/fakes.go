package testutil

import (
	"context"
	"sync"
)

// StubProcessor records intent requests and returns a fixed secret or error.
type StubProcessor struct {
	mu       sync.Mutex
	Secret   string
	Err      error
	Amounts  []int64
	Currency string
}

func (p *StubProcessor) CreateIntent(_ context.Context, amountMinor int64, currency string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Amounts = append(p.Amounts, amountMinor)
	p.Currency = currency
	if p.Err != nil {
		return "", p.Err
	}
	return p.Secret, nil
}

// ReceiptSpy collects payment ids passed to EnqueueReceipt.
type ReceiptSpy struct {
	mu  sync.Mutex
	IDs []string
	Err error
}

func (r *ReceiptSpy) EnqueueReceipt(_ context.Context, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IDs = append(r.IDs, paymentID)
	return r.Err
}
