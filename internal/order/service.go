package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestbites/storefront/internal/checkout"
	"github.com/harvestbites/storefront/internal/events"
	"github.com/harvestbites/storefront/internal/models"
	"github.com/harvestbites/storefront/internal/statestore"
	"github.com/harvestbites/storefront/internal/util"
	"github.com/harvestbites/storefront/pkg/logging"
	"github.com/harvestbites/storefront/pkg/orderclient"
)

var (
	ErrNoSummary = errors.New("order summary not available")
	ErrNotFound  = errors.New("order not found")
)

const recentOrderTTL = 30 * 24 * time.Hour

// MirrorState tracks the once-per-order remote save:
// idle -> saving -> success|error.
type MirrorState struct {
	Status      string `json:"status"`
	OrderNumber string `json:"order_number,omitempty"`
	Error       string `json:"error,omitempty"`
}

const (
	MirrorIdle    = "idle"
	MirrorSaving  = "saving"
	MirrorSuccess = "success"
	MirrorError   = "error"
)

type Service struct {
	Repo     *GormRepo
	Store    statestore.Store
	Gateway  PaymentGateway
	Tracker  CarrierTracking
	Mirror   *orderclient.Client
	Producer events.Publisher

	mu       sync.Mutex
	inflight map[uuid.UUID]chan struct{}
}

// ResolveSummary resolves the hand-off payload: the navigation payload
// wins, the persisted fallback covers reloads and direct navigation. A
// missing payload or unusable total never proceeds.
func (s *Service) ResolveSummary(ctx context.Context, sessionID string, fromNav *checkout.SummaryPayload) (*checkout.SummaryPayload, error) {
	payload := fromNav
	if payload == nil {
		var stored checkout.SummaryPayload
		found, err := s.Store.Get(ctx, statestore.SummaryKey(sessionID), &stored)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrNoSummary
		}
		payload = &stored
	}

	if payload.Total <= 0 || math.IsNaN(payload.Total) {
		return nil, fmt.Errorf("%w: total unusable", ErrNoSummary)
	}

	if fromNav != nil {
		if err := s.Store.Set(ctx, statestore.SummaryKey(sessionID), payload, recentOrderTTL); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// PlaceOrder charges the gateway and creates the order exactly once per
// payload. Re-submitting the same payload, concurrently or after a
// reload, returns the already-created order.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, fromNav *checkout.SummaryPayload) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	payload, err := s.ResolveSummary(ctx, sessionID, fromNav)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, payload.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	if existing, err := s.Repo.OrderByPayloadID(ctx, payload.ID); err == nil {
		l.Info("order_already_placed", "order_number", existing.OrderNumber)
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	result, err := s.Gateway.Charge(ctx, payload.ID, payload.Total, payload.PaymentMethod)
	if err != nil {
		l.Warn("payment_failed", "payload_id", payload.ID, "error", err)
		return nil, err
	}

	status := "pending"
	if payload.PaymentMethod == checkout.PaymentRazorpay {
		status = "paid"
	}

	items := make([]models.OrderItem, len(payload.Items))
	var count int
	for i, it := range payload.Items {
		items[i] = models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
		count += int(it.Quantity)
	}

	o := &models.Order{
		PayloadID:     payload.ID,
		OrderNumber:   newOrderNumber(),
		TransactionID: result.TransactionID,
		Status:        status,
		Total:         payload.Total,
		ItemsCount:    count,
		PaymentMethod: payload.PaymentMethod,
		Items:         items,

		CustomerFirstName: payload.Form.FirstName,
		CustomerLastName:  payload.Form.LastName,
		CustomerEmail:     payload.Form.Email,
		CustomerPhone:     payload.Form.Phone,
		FlatNo:            payload.Form.FlatNo,
		ApartmentName:     payload.Form.ApartmentName,
		FloorNumber:       payload.Form.FloorNumber,
		StreetArea:        payload.Form.StreetArea,
		Landmark:          payload.Form.Landmark,
		Address:           payload.Form.Address,
		City:              payload.Form.City,
		State:             payload.Form.State,
		Pincode:           payload.Form.Pincode,
	}

	// Retry on the rare order-number collision; payload_id stays fixed
	// so a duplicate payload can never slip through.
	for attempt := 0; ; attempt++ {
		err = s.Repo.CreateOrder(ctx, o)
		if err == nil {
			break
		}
		if attempt < 3 && strings.Contains(err.Error(), "order_number") {
			o.OrderNumber = newOrderNumber()
			continue
		}
		return nil, err
	}

	if err := s.Store.Set(ctx, statestore.RecentOrderKey(sessionID), o, recentOrderTTL); err != nil {
		return nil, err
	}
	s.Store.Delete(ctx, statestore.SummaryKey(sessionID))
	s.Store.Delete(ctx, statestore.CheckoutKey(sessionID))
	s.Store.Set(ctx, statestore.MirrorKey(sessionID), MirrorState{Status: MirrorIdle, OrderNumber: o.OrderNumber}, recentOrderTTL)

	s.publish(ctx, o)

	l.Info("order_placed", "order_number", o.OrderNumber, "transaction_id", o.TransactionID, "total", o.Total)
	return o, nil
}

// RecentOrder re-reads the most recent order for the session. Reading
// never creates anything.
func (s *Service) RecentOrder(ctx context.Context, sessionID string) (*models.Order, error) {
	var o models.Order
	found, err := s.Store.Get(ctx, statestore.RecentOrderKey(sessionID), &o)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &o, nil
}

// MirrorRecent pushes the session's most recent order to the remote
// order backend at most once. Failure is recorded and surfaced, never
// escalated; the confirmation stays readable.
func (s *Service) MirrorRecent(ctx context.Context, sessionID string) (*MirrorState, error) {
	l := logging.FromContext(ctx).With("svc", "order.mirror")

	o, err := s.RecentOrder(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var state MirrorState
	found, err := s.Store.Get(ctx, statestore.MirrorKey(sessionID), &state)
	if err != nil {
		return nil, err
	}
	if found && state.OrderNumber == o.OrderNumber && state.Status != MirrorIdle {
		return &state, nil
	}

	state = MirrorState{Status: MirrorSaving, OrderNumber: o.OrderNumber}
	if err := s.Store.Set(ctx, statestore.MirrorKey(sessionID), state, recentOrderTTL); err != nil {
		return nil, err
	}

	if s.Mirror == nil {
		state.Status = MirrorError
		state.Error = "order backend not configured"
		s.Store.Set(ctx, statestore.MirrorKey(sessionID), state, recentOrderTTL)
		return &state, nil
	}

	_, mirrorErr := s.Mirror.CreateOrder(ctx, orderclient.CreateOrderRequest{
		OrderNumber:     o.OrderNumber,
		TransactionID:   o.TransactionID,
		OrderDate:       o.CreatedAt.Format(time.RFC3339),
		TotalAmount:     o.Total,
		ItemsCount:      o.ItemsCount,
		PaymentMethod:   o.PaymentMethod,
		CustomerName:    strings.TrimSpace(o.CustomerFirstName + " " + o.CustomerLastName),
		CustomerPhone:   strings.TrimPrefix(o.CustomerPhone, "+91"),
		CustomerEmail:   o.CustomerEmail,
		CustomerAddress: o.Address,
		CustomerPincode: o.Pincode,
		Status:          "confirmed",
	})
	if mirrorErr != nil {
		l.Warn("mirror_failed", "order_number", o.OrderNumber, "error", mirrorErr)
		state.Status = MirrorError
		state.Error = mirrorErr.Error()
	} else {
		l.Info("mirror_success", "order_number", o.OrderNumber)
		state.Status = MirrorSuccess
		state.Error = ""
	}
	if err := s.Store.Set(ctx, statestore.MirrorKey(sessionID), state, recentOrderTTL); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Service) OrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	o, err := s.Repo.OrderByNumber(ctx, number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return o, err
}

// OrdersForCustomer lists past orders for the customer email, newest
// first.
func (s *Service) OrdersForCustomer(ctx context.Context, email string, page, size int) ([]models.Order, error) {
	offset, limit := util.Calculate(page, size)
	return s.Repo.ListOrders(ctx, email, limit, offset)
}

func (s *Service) Track(ctx context.Context, number string) (*TrackingInfo, error) {
	o, err := s.OrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.Tracker.Track(ctx, o)
}

// acquire is the in-flight guard: only one placement per payload id may
// run at a time; a second submission waits for the first to finish.
func (s *Service) acquire(ctx context.Context, payloadID uuid.UUID) (func(), error) {
	for {
		s.mu.Lock()
		if s.inflight == nil {
			s.inflight = make(map[uuid.UUID]chan struct{})
		}
		done, busy := s.inflight[payloadID]
		if !busy {
			done = make(chan struct{})
			s.inflight[payloadID] = done
			s.mu.Unlock()
			return func() {
				s.mu.Lock()
				delete(s.inflight, payloadID)
				s.mu.Unlock()
				close(done)
			}, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}
	}
}

func (s *Service) publish(ctx context.Context, o *models.Order) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	event := map[string]any{
		"type":           "order_placed",
		"order_number":   o.OrderNumber,
		"transaction_id": o.TransactionID,
		"total":          o.Total,
		"items_count":    o.ItemsCount,
		"payment_method": o.PaymentMethod,
	}
	if err := s.Producer.PublishEvent(pubCtx, events.TopicOrderEvents, o.OrderNumber, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", events.TopicOrderEvents, "error", err)
	}
}
