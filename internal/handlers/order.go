package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harvestbites/storefront/internal/cart"
	"github.com/harvestbites/storefront/internal/checkout"
	"github.com/harvestbites/storefront/internal/middleware"
	"github.com/harvestbites/storefront/internal/order"
	"github.com/harvestbites/storefront/pkg/logging"
)

type OrderHandler struct {
	Svc  *order.Service
	Cart *cart.Manager
}

// GetSummary resolves the payload for the summary page. The client may
// carry the payload over from the checkout response; a reload falls back
// to the persisted copy.
func (h *OrderHandler) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.summary")
	sid := middleware.SessionID(c)

	payload, err := h.Svc.ResolveSummary(ctx, sid, nil)
	if err != nil {
		if errors.Is(err, order.ErrNoSummary) {
			return echo.NewHTTPError(http.StatusNotFound, "order summary not available")
		}
		l.Error("summary_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, payload)
}

func (h *OrderHandler) Pay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.pay")
	sid := middleware.SessionID(c)

	var req struct {
		Summary *checkout.SummaryPayload `json:"summary"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	payload, err := h.Svc.ResolveSummary(ctx, sid, req.Summary)
	if err != nil {
		if errors.Is(err, order.ErrNoSummary) {
			return echo.NewHTTPError(http.StatusNotFound, "order summary not available")
		}
		l.Error("pay_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	placed, err := h.Svc.PlaceOrder(ctx, sid, payload)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNoSummary):
			return echo.NewHTTPError(http.StatusNotFound, "order summary not available")
		case errors.Is(err, order.ErrPaymentDeclined):
			l.Warn("pay_error", "status", 402)
			return echo.NewHTTPError(http.StatusPaymentRequired, "payment declined")
		default:
			l.Error("pay_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	// A buy-now purchase bypasses the cart; a regular one empties it.
	if !payload.BuyNow {
		if _, err := h.Cart.Clear(ctx, sid); err != nil {
			l.Warn("pay_cart_clear_failed", "error", err)
		}
	}

	l.Info("pay_success", "order_number", placed.OrderNumber)
	return c.JSON(http.StatusCreated, placed)
}

func (h *OrderHandler) GetRecent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.recent")
	sid := middleware.SessionID(c)

	o, err := h.Svc.RecentOrder(ctx, sid)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no recent order")
		}
		l.Error("recent_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) MirrorRecent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.mirror")
	sid := middleware.SessionID(c)

	state, err := h.Svc.MirrorRecent(ctx, sid)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no recent order")
		}
		l.Error("mirror_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, state)
}

// ListOrders is the order history for the signed-in customer.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	email, _ := c.Get("user_email").(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 0)

	orders, err := h.Svc.OrdersForCustomer(ctx, email, page, size)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": orders})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	o, err := h.Svc.OrderByNumber(ctx, c.Param("number"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("get_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Track(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.track")

	info, err := h.Svc.Track(ctx, c.Param("number"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("track_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, info)
}
