package order

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var transactionRe = regexp.MustCompile(`^TXN\d{9}$`)

func TestMockImmediateCharge(t *testing.T) {
	t.Parallel()

	res, err := MockImmediate{}.Charge(context.Background(), uuid.New(), 727, "razorpay")
	require.NoError(t, err)
	require.Regexp(t, transactionRe, res.TransactionID)
}

func TestMockImmediateDeclinesNonPositiveAmount(t *testing.T) {
	t.Parallel()

	_, err := MockImmediate{}.Charge(context.Background(), uuid.New(), 0, "cod")
	require.ErrorIs(t, err, ErrPaymentDeclined)

	_, err = MockImmediate{}.Charge(context.Background(), uuid.New(), -5, "cod")
	require.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestMockDelayedWaitsThenApproves(t *testing.T) {
	t.Parallel()

	start := time.Now()
	res, err := MockDelayed{Delay: 50 * time.Millisecond}.Charge(context.Background(), uuid.New(), 727, "razorpay")
	require.NoError(t, err)
	require.Regexp(t, transactionRe, res.TransactionID)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestMockDelayedAbortsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := MockDelayed{Delay: 5 * time.Second}.Charge(ctx, uuid.New(), 727, "razorpay")
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Second)
}

func TestOrderNumberFormat(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`^HB\d{6}$`)
	for i := 0; i < 100; i++ {
		require.Regexp(t, re, newOrderNumber())
	}
}
