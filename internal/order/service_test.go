package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/harvestbites/storefront/internal/checkout"
	"github.com/harvestbites/storefront/internal/models"
	"github.com/harvestbites/storefront/internal/statestore"
	"github.com/harvestbites/storefront/pkg/orderclient"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return db
}

func newTestService(t *testing.T) (*Service, *statestore.MemoryStore) {
	t.Helper()
	store := statestore.NewMemoryStore()
	svc := &Service{
		Repo:    &GormRepo{DB: newTestDB(t)},
		Store:   store,
		Gateway: MockImmediate{},
		Tracker: SynthesizedTracking{},
	}
	return svc, store
}

func testPayload(method string) *checkout.SummaryPayload {
	return &checkout.SummaryPayload{
		ID: uuid.New(),
		Form: checkout.Form{
			FirstName: "Asha",
			LastName:  "Rao",
			Email:     "asha@example.com",
			Phone:     "+919876543210",
			FlatNo:    "12B",
			Address:   "12B Green Meadows, Hosur Main Road",
			City:      "Hosur",
			State:     "Tamil Nadu",
			Pincode:   "635109",
		},
		PaymentMethod: method,
		Subtotal:      727,
		Total:         727,
		Items: []checkout.LineItem{
			{ProductID: 1, Name: "Sprouted Ragi Flour", Price: 249, Quantity: 2},
			{ProductID: 2, Name: "Urad Dal", Price: 229, Quantity: 1},
		},
		CreatedAt: time.Now().UTC(),
	}
}

var orderNumberRe = regexp.MustCompile(`^HB\d{6}$`)

func TestPlaceOrder(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, "s1", testPayload(checkout.PaymentRazorpay))
	require.NoError(t, err)

	require.Regexp(t, orderNumberRe, o.OrderNumber)
	require.True(t, len(o.TransactionID) > 3 && o.TransactionID[:3] == "TXN")
	require.Equal(t, "paid", o.Status)
	require.Equal(t, 727.0, o.Total)
	require.Equal(t, 3, o.ItemsCount)
	require.Len(t, o.Items, 2)
	require.Equal(t, "Asha", o.CustomerFirstName)

	// The hand-off and checkout state are consumed; the recent order
	// and the mirror gate are planted.
	var sess map[string]any
	found, err := store.Get(ctx, statestore.SummaryKey("s1"), &sess)
	require.NoError(t, err)
	require.False(t, found)
	found, err = store.Get(ctx, statestore.CheckoutKey("s1"), &sess)
	require.NoError(t, err)
	require.False(t, found)

	recent, err := svc.RecentOrder(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, o.OrderNumber, recent.OrderNumber)

	var mirror MirrorState
	found, err = store.Get(ctx, statestore.MirrorKey("s1"), &mirror)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, MirrorIdle, mirror.Status)
}

func TestPlaceOrderCODIsPending(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	o, err := svc.PlaceOrder(context.Background(), "s1", testPayload(checkout.PaymentCOD))
	require.NoError(t, err)
	require.Equal(t, "pending", o.Status)
}

func TestPlaceOrderIdempotentPerPayload(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()
	payload := testPayload(checkout.PaymentRazorpay)

	first, err := svc.PlaceOrder(ctx, "s1", payload)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, "s1", payload)
	require.NoError(t, err)

	require.Equal(t, first.OrderNumber, second.OrderNumber)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, svc.Repo.DB.Model(&models.Order{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestPlaceOrderConcurrentSubmissions(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()
	payload := testPayload(checkout.PaymentRazorpay)

	const workers = 8
	numbers := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := svc.PlaceOrder(ctx, "s1", payload)
			require.NoError(t, err)
			numbers[i] = o.OrderNumber
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		require.Equal(t, numbers[0], numbers[i])
	}

	var count int64
	require.NoError(t, svc.Repo.DB.Model(&models.Order{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestPlaceOrderCancelledContextPlacesNothing(t *testing.T) {
	t.Parallel()
	store := statestore.NewMemoryStore()
	svc := &Service{
		Repo:    &GormRepo{DB: newTestDB(t)},
		Store:   store,
		Gateway: MockDelayed{Delay: 200 * time.Millisecond},
		Tracker: SynthesizedTracking{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := svc.PlaceOrder(ctx, "s1", testPayload(checkout.PaymentRazorpay))
	require.ErrorIs(t, err, context.Canceled)

	var count int64
	require.NoError(t, svc.Repo.DB.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestResolveSummaryMissing(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.ResolveSummary(context.Background(), "s1", nil)
	require.ErrorIs(t, err, ErrNoSummary)
}

func TestResolveSummaryRejectsUnusableTotal(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := testPayload(checkout.PaymentRazorpay)
	p.Total = 0
	_, err := svc.ResolveSummary(ctx, "s1", p)
	require.ErrorIs(t, err, ErrNoSummary)

	p.Total = -1
	_, err = svc.ResolveSummary(ctx, "s1", p)
	require.ErrorIs(t, err, ErrNoSummary)
}

func TestResolveSummaryFallbackSurvivesReload(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()
	payload := testPayload(checkout.PaymentRazorpay)

	// First visit carries the payload; the reload carries nothing.
	_, err := svc.ResolveSummary(ctx, "s1", payload)
	require.NoError(t, err)

	got, err := svc.ResolveSummary(ctx, "s1", nil)
	require.NoError(t, err)
	require.Equal(t, payload.ID, got.ID)
	require.Equal(t, payload.Total, got.Total)
}

func TestRecentOrderAbsent(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.RecentOrder(context.Background(), "s1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMirrorRecentExactlyOnce(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/api/orders/create_order/", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"order_number":"HB123456"}`)
	}))
	t.Cleanup(srv.Close)

	svc, _ := newTestService(t)
	svc.Mirror = orderclient.NewClient(srv.URL)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, "s1", testPayload(checkout.PaymentRazorpay))
	require.NoError(t, err)

	state, err := svc.MirrorRecent(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, MirrorSuccess, state.Status)

	// Replaying the confirmation page never saves twice.
	state, err = svc.MirrorRecent(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, MirrorSuccess, state.Status)
	require.Equal(t, int32(1), calls.Load())
}

func TestMirrorRecentRecordsFailure(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success":false,"error":"backend down"}`)
	}))
	t.Cleanup(srv.Close)

	svc, _ := newTestService(t)
	svc.Mirror = orderclient.NewClient(srv.URL)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, "s1", testPayload(checkout.PaymentRazorpay))
	require.NoError(t, err)

	state, err := svc.MirrorRecent(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, MirrorError, state.Status)
	require.Contains(t, state.Error, "backend down")

	// The failure is terminal for this order; no automatic retry.
	state, err = svc.MirrorRecent(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, MirrorError, state.Status)
	require.Equal(t, int32(1), calls.Load())
}

func TestMirrorRecentWithoutBackend(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, "s1", testPayload(checkout.PaymentRazorpay))
	require.NoError(t, err)

	state, err := svc.MirrorRecent(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, MirrorError, state.Status)
	require.Contains(t, state.Error, "not configured")
}

func TestMirrorRecentStripsCountryCode(t *testing.T) {
	t.Parallel()
	var gotPhone string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req orderclient.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPhone = req.CustomerPhone
		require.Equal(t, "confirmed", req.Status)
		require.Equal(t, "Asha Rao", req.CustomerName)
		fmt.Fprint(w, `{"success":true}`)
	}))
	t.Cleanup(srv.Close)

	svc, _ := newTestService(t)
	svc.Mirror = orderclient.NewClient(srv.URL)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, "s1", testPayload(checkout.PaymentRazorpay))
	require.NoError(t, err)
	_, err = svc.MirrorRecent(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "9876543210", gotPhone)
}

func TestOrderByNumberAndTrack(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	placed, err := svc.PlaceOrder(ctx, "s1", testPayload(checkout.PaymentRazorpay))
	require.NoError(t, err)

	got, err := svc.OrderByNumber(ctx, placed.OrderNumber)
	require.NoError(t, err)
	require.Equal(t, placed.ID, got.ID)
	require.Len(t, got.Items, 2)

	_, err = svc.OrderByNumber(ctx, "HB000000")
	require.ErrorIs(t, err, ErrNotFound)

	info, err := svc.Track(ctx, placed.OrderNumber)
	require.NoError(t, err)
	require.Equal(t, placed.OrderNumber, info.OrderNumber)
	require.Len(t, info.Timeline, 5)

	_, err = svc.Track(ctx, "HB000000")
	require.ErrorIs(t, err, ErrNotFound)
}
