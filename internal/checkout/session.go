// Package checkout drives the three-step checkout workflow:
// Contact -> Address -> Payment, ending in a hand-off payload for the
// order summary stage. Progress lives in the state store per session.
package checkout

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Step int

const (
	StepContact Step = iota + 1
	StepAddress
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "Contact"
	case StepAddress:
		return "Address"
	case StepPayment:
		return "Payment"
	}
	return "Unknown"
}

const (
	PaymentCOD      = "cod"
	PaymentRazorpay = "razorpay"
)

// Form collects the checkout fields across all steps. Fields are filled
// incrementally; each step validates only its own partition.
type Form struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	FlatNo        string `json:"flat_no"`
	ApartmentName string `json:"apartment_name"`
	FloorNumber   string `json:"floor_number"`
	StreetArea    string `json:"street_area"`
	Landmark      string `json:"landmark"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`

	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

type LineItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  uint    `json:"quantity"`
}

type Session struct {
	Step           Step       `json:"step"`
	Form           Form       `json:"form"`
	PaymentMethod  string     `json:"payment_method"`
	CouponCode     string     `json:"coupon_code,omitempty"`
	CouponDiscount float64    `json:"coupon_discount"`
	Items          []LineItem `json:"items"`
	BuyNow         bool       `json:"buy_now"`

	// PinSeq orders pincode lookups so a stale response cannot
	// overwrite fields filled by a newer one.
	PinSeq uint64 `json:"pin_seq"`
}

func (s *Session) Subtotal() float64 {
	var sum float64
	for i := range s.Items {
		sum += s.Items[i].Price * float64(s.Items[i].Quantity)
	}
	return sum
}

func (s *Session) Total() float64 {
	total := s.Subtotal() - s.CouponDiscount
	if total < 0 {
		total = 0
	}
	return total
}

// StepValid reports whether the fields for the given step pass its gate.
func (s *Session) StepValid(step Step) bool {
	f := &s.Form
	switch step {
	case StepContact:
		return len(strings.TrimSpace(f.FirstName)) > 1 &&
			strings.TrimSpace(f.LastName) != "" &&
			strings.Contains(f.Email, "@") &&
			len(strings.TrimSpace(f.Phone)) >= minPhoneLen
	case StepAddress:
		return strings.TrimSpace(f.FlatNo) != "" &&
			strings.TrimSpace(f.ApartmentName) != "" &&
			strings.TrimSpace(f.FloorNumber) != "" &&
			len(strings.TrimSpace(f.StreetArea)) > 5 &&
			len(strings.TrimSpace(f.Address)) > 5 &&
			len(strings.TrimSpace(f.City)) > 1 &&
			strings.TrimSpace(f.Landmark) != "" &&
			len(strings.TrimSpace(f.Pincode)) == pincodeLen
	case StepPayment:
		return s.PaymentMethod == PaymentCOD || s.PaymentMethod == PaymentRazorpay
	}
	return false
}

const (
	minPhoneLen = 10
	pincodeLen  = 6
)

// SummaryPayload is the hand-off from checkout to the order summary
// stage. ID makes order placement idempotent per checkout session.
type SummaryPayload struct {
	ID             uuid.UUID  `json:"id"`
	Form           Form       `json:"form"`
	PaymentMethod  string     `json:"payment_method"`
	Subtotal       float64    `json:"subtotal"`
	CouponDiscount float64    `json:"coupon_discount"`
	Total          float64    `json:"total"`
	Items          []LineItem `json:"items"`
	BuyNow         bool       `json:"buy_now"`
	CreatedAt      time.Time  `json:"created_at"`
}
