package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/harvestbites/storefront/internal/checkout"
	"github.com/harvestbites/storefront/internal/models"
	"github.com/harvestbites/storefront/internal/order"
	"github.com/harvestbites/storefront/internal/statestore"
)

type orderEnv struct {
	*cartEnv
	Handler  *OrderHandler
	Checkout *checkout.Service
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()
	cenv := newCartEnv(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}))

	svc := &order.Service{
		Repo:    &order.GormRepo{DB: db},
		Store:   cenv.Store,
		Gateway: order.MockImmediate{},
		Tracker: order.SynthesizedTracking{},
	}
	return &orderEnv{
		cartEnv:  cenv,
		Handler:  &OrderHandler{Svc: svc, Cart: cenv.Handler.Cart},
		Checkout: &checkout.Service{Store: cenv.Store},
	}
}

func (env *orderEnv) completedCheckout(t *testing.T, buyNow bool) *checkout.SummaryPayload {
	t.Helper()
	ctx := context.Background()

	if buyNow {
		_, err := env.Checkout.StartBuyNow(ctx, "s1", checkout.LineItem{ProductID: 1, Name: "Gut", Price: 249, Quantity: 1})
		require.NoError(t, err)
	} else {
		state, err := env.Handler.Cart.Get(ctx, "s1")
		require.NoError(t, err)
		_, err = env.Checkout.Start(ctx, "s1", state)
		require.NoError(t, err)
	}

	_, err := env.Checkout.UpdateContact(ctx, "s1", "Asha", "Rao", "asha@example.com", "9876543210")
	require.NoError(t, err)
	_, _, err = env.Checkout.Advance(ctx, "s1")
	require.NoError(t, err)

	form := checkout.Form{
		FlatNo:        "12B",
		ApartmentName: "Green Meadows",
		FloorNumber:   "3",
		StreetArea:    "Hosur Main Road",
		Landmark:      "Near Water Tank",
		Address:       "12B Green Meadows, Hosur Main Road",
		City:          "Hosur",
		State:         "Tamil Nadu",
		Pincode:       "635109",
	}
	_, err = env.Checkout.UpdateAddress(ctx, "s1", form)
	require.NoError(t, err)
	_, _, err = env.Checkout.Advance(ctx, "s1")
	require.NoError(t, err)

	_, payload, err := env.Checkout.Advance(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, payload)
	return payload
}

func TestPayClearsCart(t *testing.T) {
	t.Parallel()
	env := newOrderEnv(t)
	ctx := context.Background()

	_, c := env.doJSON(t, http.MethodPost, "/cart/items", map[string]any{"product_id": 1, "quantity": 2})
	require.NoError(t, env.cartEnv.Handler.AddItem(c))

	payload := env.completedCheckout(t, false)

	rec, c := env.doJSON(t, http.MethodPost, "/orders/pay", map[string]any{"summary": payload})
	require.NoError(t, env.Handler.Pay(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.Regexp(t, `^HB\d{6}$`, placed.OrderNumber)
	require.Equal(t, "paid", placed.Status)

	state, err := env.Handler.Cart.Get(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, state.Items)
}

func TestPayBuyNowLeavesCart(t *testing.T) {
	t.Parallel()
	env := newOrderEnv(t)
	ctx := context.Background()

	_, c := env.doJSON(t, http.MethodPost, "/cart/items", map[string]any{"product_id": 2, "quantity": 1})
	require.NoError(t, env.cartEnv.Handler.AddItem(c))

	payload := env.completedCheckout(t, true)
	require.True(t, payload.BuyNow)

	rec, c := env.doJSON(t, http.MethodPost, "/orders/pay", map[string]any{"summary": payload})
	require.NoError(t, env.Handler.Pay(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	state, err := env.Handler.Cart.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, state.Items, 1)
}

func TestPayWithoutSummary(t *testing.T) {
	t.Parallel()
	env := newOrderEnv(t)

	_, c := env.doJSON(t, http.MethodPost, "/orders/pay", map[string]any{})
	err := env.Handler.Pay(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestPayIdempotentAcrossReload(t *testing.T) {
	t.Parallel()
	env := newOrderEnv(t)

	_, c := env.doJSON(t, http.MethodPost, "/cart/items", map[string]any{"product_id": 1, "quantity": 1})
	require.NoError(t, env.cartEnv.Handler.AddItem(c))

	payload := env.completedCheckout(t, false)

	rec, c := env.doJSON(t, http.MethodPost, "/orders/pay", map[string]any{"summary": payload})
	require.NoError(t, env.Handler.Pay(c))
	var first models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec, c = env.doJSON(t, http.MethodPost, "/orders/pay", map[string]any{"summary": payload})
	require.NoError(t, env.Handler.Pay(c))
	var second models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	require.Equal(t, first.OrderNumber, second.OrderNumber)
}

func TestRecentAndTracking(t *testing.T) {
	t.Parallel()
	env := newOrderEnv(t)

	_, c := env.doJSON(t, http.MethodPost, "/cart/items", map[string]any{"product_id": 1, "quantity": 1})
	require.NoError(t, env.cartEnv.Handler.AddItem(c))
	payload := env.completedCheckout(t, false)

	rec, c := env.doJSON(t, http.MethodPost, "/orders/pay", map[string]any{"summary": payload})
	require.NoError(t, env.Handler.Pay(c))
	var placed models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	rec, c = env.doJSON(t, http.MethodGet, "/orders/recent", nil)
	require.NoError(t, env.Handler.GetRecent(c))
	var recent models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recent))
	require.Equal(t, placed.OrderNumber, recent.OrderNumber)

	rec, c = env.doJSON(t, http.MethodGet, "/orders/"+placed.OrderNumber+"/tracking", nil)
	c.SetParamNames("number")
	c.SetParamValues(placed.OrderNumber)
	require.NoError(t, env.Handler.Track(c))
	var info order.TrackingInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.Len(t, info.Timeline, 5)
	require.Equal(t, "Blue Dart Express", info.Carrier)
}

func TestGetSummaryFallsBackToStoredPayload(t *testing.T) {
	t.Parallel()
	env := newOrderEnv(t)

	_, c := env.doJSON(t, http.MethodPost, "/cart/items", map[string]any{"product_id": 1, "quantity": 1})
	require.NoError(t, env.cartEnv.Handler.AddItem(c))
	payload := env.completedCheckout(t, false)

	// A reload carries no navigation payload; the stored copy answers.
	rec, c := env.doJSON(t, http.MethodGet, "/orders/summary", nil)
	require.NoError(t, env.Handler.GetSummary(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got checkout.SummaryPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, payload.ID, got.ID)

	var stored checkout.SummaryPayload
	found, err := env.Store.Get(context.Background(), statestore.SummaryKey("s1"), &stored)
	require.NoError(t, err)
	require.True(t, found)
}
