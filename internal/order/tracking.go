package order

import (
	"context"
	"fmt"
	"time"

	"github.com/harvestbites/storefront/internal/models"
)

type TrackingStage struct {
	ID          int    `json:"id"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Completed   bool   `json:"completed"`
}

type TrackingInfo struct {
	OrderNumber       string          `json:"order_number"`
	OrderDate         time.Time       `json:"order_date"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	CurrentStatus     string          `json:"current_status"`
	TrackingNumber    string          `json:"tracking_number"`
	Carrier           string          `json:"carrier"`
	TotalAmount       float64         `json:"total_amount"`
	ShippingAddress   string          `json:"shipping_address"`
	Timeline          []TrackingStage `json:"timeline"`
}

// CarrierTracking resolves a delivery timeline for an order. The
// workflow depends only on this interface; swapping in a live carrier
// integration must not touch the order flow.
type CarrierTracking interface {
	Track(ctx context.Context, o *models.Order) (*TrackingInfo, error)
}

// SynthesizedTracking fabricates a fixed five-stage timeline: the first
// four stages complete, delivery always pending. It is presentation-side
// simulation, not carrier data.
type SynthesizedTracking struct {
	Now func() time.Time
}

func (t SynthesizedTracking) Track(ctx context.Context, o *models.Order) (*TrackingInfo, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	return &TrackingInfo{
		OrderNumber:       o.OrderNumber,
		OrderDate:         o.CreatedAt,
		EstimatedDelivery: now().Add(3 * 24 * time.Hour),
		CurrentStatus:     "Out for Delivery",
		TrackingNumber:    o.TransactionID,
		Carrier:           "Blue Dart Express",
		TotalAmount:       o.Total,
		ShippingAddress:   fmt.Sprintf("%s, %s", o.Address, o.Pincode),
		Timeline: []TrackingStage{
			{ID: 1, Status: "Order Placed", Description: "Your order has been received", Location: "Hosur, Tamil Nadu", Completed: true},
			{ID: 2, Status: "Order Confirmed", Description: "Seller has confirmed your order", Location: "Hosur, Tamil Nadu", Completed: true},
			{ID: 3, Status: "Shipped", Description: "Your package is on the way", Location: "Chennai Hub", Completed: true},
			{ID: 4, Status: "Out for Delivery", Description: "Package is out for delivery", Location: "Bangalore Delivery Center", Completed: true},
			{ID: 5, Status: "Delivered", Description: "Package will be delivered soon", Completed: false},
		},
	}, nil
}
