package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harvestbites/storefront/internal/cart"
	"github.com/harvestbites/storefront/internal/checkout"
	"github.com/harvestbites/storefront/internal/middleware"
	"github.com/harvestbites/storefront/pkg/logging"
	"github.com/harvestbites/storefront/pkg/postalpin"
)

type CheckoutHandler struct {
	Svc  *checkout.Service
	Cart *cart.Manager
}

func checkoutError(l *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, checkout.ErrNoSession):
		return echo.NewHTTPError(http.StatusNotFound, "no checkout in progress")
	case errors.Is(err, checkout.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrStepIncomplete):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		l.Warn(op, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *CheckoutHandler) Start(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.start")
	sid := middleware.SessionID(c)

	var req struct {
		BuyNow *checkout.LineItem `json:"buy_now"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var (
		sess *checkout.Session
		err  error
	)
	if req.BuyNow != nil {
		sess, err = h.Svc.StartBuyNow(ctx, sid, *req.BuyNow)
	} else {
		var state cart.State
		state, err = h.Cart.Get(ctx, sid)
		if err != nil {
			l.Error("start_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		sess, err = h.Svc.Start(ctx, sid, state)
	}
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCheckout) {
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		return checkoutError(l, "start_error", err)
	}

	l.Info("start_success", "buy_now", sess.BuyNow, "items", len(sess.Items))
	return c.JSON(http.StatusCreated, sess)
}

func (h *CheckoutHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.get")
	sid := middleware.SessionID(c)

	sess, err := h.Svc.Get(ctx, sid)
	if err != nil {
		return checkoutError(l, "get_error", err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *CheckoutHandler) UpdateContact(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.contact")
	sid := middleware.SessionID(c)

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess, err := h.Svc.UpdateContact(ctx, sid, req.FirstName, req.LastName, req.Email, req.Phone)
	if err != nil {
		return checkoutError(l, "contact_error", err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *CheckoutHandler) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.address")
	sid := middleware.SessionID(c)

	var form checkout.Form
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess, err := h.Svc.UpdateAddress(ctx, sid, form)
	if err != nil {
		return checkoutError(l, "address_error", err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *CheckoutHandler) SelectPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.payment")
	sid := middleware.SessionID(c)

	var req struct {
		Method string `json:"method"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess, err := h.Svc.SelectPayment(ctx, sid, req.Method)
	if err != nil {
		return checkoutError(l, "payment_error", err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *CheckoutHandler) ApplyCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.coupon")
	sid := middleware.SessionID(c)

	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess, err := h.Svc.ApplyCoupon(ctx, sid, req.Code)
	if err != nil {
		return checkoutError(l, "coupon_error", err)
	}
	return c.JSON(http.StatusOK, sess)
}

// Next advances the workflow. Completing the payment step returns the
// summary payload the client carries to the order endpoints.
func (h *CheckoutHandler) Next(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.next")
	sid := middleware.SessionID(c)

	sess, payload, err := h.Svc.Advance(ctx, sid)
	if err != nil {
		return checkoutError(l, "next_error", err)
	}
	if payload != nil {
		return c.JSON(http.StatusOK, echo.Map{"session": sess, "summary": payload})
	}
	return c.JSON(http.StatusOK, echo.Map{"session": sess})
}

func (h *CheckoutHandler) Back(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.back")
	sid := middleware.SessionID(c)

	sess, err := h.Svc.Back(ctx, sid)
	if err != nil {
		return checkoutError(l, "back_error", err)
	}
	return c.JSON(http.StatusOK, sess)
}

// LookupPincode resolves city and state for the supplied pincode. A
// failed or stale lookup is not an error for the caller: the address is
// still typed by hand, so the handler answers 200 with a status field.
func (h *CheckoutHandler) LookupPincode(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.pincode")
	sid := middleware.SessionID(c)

	var req struct {
		Pincode string `json:"pincode"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	loc, err := h.Svc.LookupPincode(ctx, sid, req.Pincode)
	switch {
	case errors.Is(err, checkout.ErrNoSession):
		return echo.NewHTTPError(http.StatusNotFound, "no checkout in progress")
	case errors.Is(err, checkout.ErrStaleLookup):
		return c.JSON(http.StatusOK, echo.Map{"status": "stale"})
	case errors.Is(err, postalpin.ErrNotFound):
		return c.JSON(http.StatusOK, echo.Map{"status": "not_found"})
	case err != nil:
		l.Warn("pincode_error", "error", err)
		return c.JSON(http.StatusOK, echo.Map{"status": "unavailable"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"city":   loc.District,
		"state":  loc.State,
	})
}

func (h *CheckoutHandler) UseLocation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.location")
	sid := middleware.SessionID(c)

	var req struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess, err := h.Svc.PrefillFromLocation(ctx, sid, req.Lat, req.Lng)
	if err != nil {
		return checkoutError(l, "location_error", err)
	}
	return c.JSON(http.StatusOK, sess)
}
