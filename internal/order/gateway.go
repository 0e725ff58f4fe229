package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ErrPaymentDeclined is the distinguishable failure a real gateway
// integration must surface.
var ErrPaymentDeclined = errors.New("payment declined")

type PaymentResult struct {
	TransactionID string
}

// PaymentGateway resolves a payment for a checkout hand-off. Resolution
// is asynchronous and may fail; callers must stay idempotent per payload.
type PaymentGateway interface {
	Charge(ctx context.Context, payloadID uuid.UUID, amount float64, method string) (*PaymentResult, error)
}

// MockImmediate approves every charge without delay. Used in tests.
type MockImmediate struct{}

func (MockImmediate) Charge(ctx context.Context, payloadID uuid.UUID, amount float64, method string) (*PaymentResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrPaymentDeclined)
	}
	return &PaymentResult{TransactionID: newTransactionID()}, nil
}

// MockDelayed simulates gateway latency with a fixed artificial delay.
// Navigating away cancels the context and aborts the charge cleanly.
type MockDelayed struct {
	Delay time.Duration
}

func (g MockDelayed) Charge(ctx context.Context, payloadID uuid.UUID, amount float64, method string) (*PaymentResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrPaymentDeclined)
	}

	delay := g.Delay
	if delay <= 0 {
		delay = 3500 * time.Millisecond
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}
	return &PaymentResult{TransactionID: newTransactionID()}, nil
}

func newTransactionID() string {
	ms := time.Now().UnixMilli()
	return fmt.Sprintf("TXN%06d%03d", ms%1000000, rand.Intn(1000))
}

func newOrderNumber() string {
	return fmt.Sprintf("HB%06d", 100000+rand.Intn(900000))
}
