package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harvestbites/storefront/internal/cart"
	"github.com/harvestbites/storefront/internal/statestore"
	"github.com/harvestbites/storefront/pkg/logging"
	"github.com/harvestbites/storefront/pkg/postalpin"
)

var (
	ErrValidation     = errors.New("validation")
	ErrNoSession      = errors.New("no checkout in progress")
	ErrEmptyCheckout  = errors.New("nothing to check out")
	ErrStepIncomplete = errors.New("step incomplete")
	ErrStaleLookup    = errors.New("stale pincode lookup")
)

// Checkout sessions outlive a page reload but not a shopping trip.
const sessionTTL = 24 * time.Hour

var couponTable = map[string]float64{
	"HARVEST50": 50,
	"MILLET25":  25,
}

type Service struct {
	Store   statestore.Store
	Pincode *postalpin.Client
}

// Start opens a checkout over the current cart contents. The cart itself
// is left untouched until an order is placed.
func (svc *Service) Start(ctx context.Context, sessionID string, cartState cart.State) (*Session, error) {
	if len(cartState.Items) == 0 {
		return nil, ErrEmptyCheckout
	}

	items := make([]LineItem, len(cartState.Items))
	for i, it := range cartState.Items {
		items[i] = LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
	}

	sess := &Session{
		Step:          StepContact,
		PaymentMethod: PaymentRazorpay,
		Items:         items,
	}
	return sess, svc.save(ctx, sessionID, sess)
}

// StartBuyNow opens a checkout over a single synthetic line item. It
// never reads from or writes to the shared cart.
func (svc *Service) StartBuyNow(ctx context.Context, sessionID string, item LineItem) (*Session, error) {
	if item.ProductID == 0 || item.Price < 0 {
		return nil, fmt.Errorf("%w: buy-now item required", ErrValidation)
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	sess := &Session{
		Step:          StepContact,
		PaymentMethod: PaymentRazorpay,
		Items:         []LineItem{item},
		BuyNow:        true,
	}
	return sess, svc.save(ctx, sessionID, sess)
}

func (svc *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	var sess Session
	found, err := svc.Store.Get(ctx, statestore.CheckoutKey(sessionID), &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (svc *Service) UpdateContact(ctx context.Context, sessionID, firstName, lastName, email, phone string) (*Session, error) {
	sess, err := svc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Form.FirstName = firstName
	sess.Form.LastName = lastName
	sess.Form.Email = email
	sess.Form.Phone = phone
	return sess, svc.save(ctx, sessionID, sess)
}

func (svc *Service) UpdateAddress(ctx context.Context, sessionID string, form Form) (*Session, error) {
	sess, err := svc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Form.FlatNo = form.FlatNo
	sess.Form.ApartmentName = form.ApartmentName
	sess.Form.FloorNumber = form.FloorNumber
	sess.Form.StreetArea = form.StreetArea
	sess.Form.Landmark = form.Landmark
	sess.Form.Address = form.Address
	if form.City != "" {
		sess.Form.City = form.City
	}
	if form.State != "" {
		sess.Form.State = form.State
	}
	sess.Form.Pincode = form.Pincode
	return sess, svc.save(ctx, sessionID, sess)
}

func (svc *Service) SelectPayment(ctx context.Context, sessionID, method string) (*Session, error) {
	if method != PaymentCOD && method != PaymentRazorpay {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}
	sess, err := svc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.PaymentMethod = method
	return sess, svc.save(ctx, sessionID, sess)
}

// ApplyCoupon sets the discount for a known code. An unknown code clears
// any previous discount and reports a validation error.
func (svc *Service) ApplyCoupon(ctx context.Context, sessionID, code string) (*Session, error) {
	sess, err := svc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	discount, ok := couponTable[code]
	if !ok {
		sess.CouponCode = ""
		sess.CouponDiscount = 0
		if saveErr := svc.save(ctx, sessionID, sess); saveErr != nil {
			return nil, saveErr
		}
		return nil, fmt.Errorf("%w: unknown coupon %q", ErrValidation, code)
	}

	sess.CouponCode = code
	sess.CouponDiscount = discount
	return sess, svc.save(ctx, sessionID, sess)
}

// Advance moves the workflow forward one step. An invalid step leaves
// the state untouched and reports which step is incomplete. Advancing
// from Payment is terminal: it builds the SummaryPayload, persists the
// fallback copy and returns it.
func (svc *Service) Advance(ctx context.Context, sessionID string) (*Session, *SummaryPayload, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.advance")

	sess, err := svc.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if !sess.StepValid(sess.Step) {
		l.Warn("advance_blocked", "step", sess.Step.String())
		return sess, nil, fmt.Errorf("%w: please fill all required fields in %s step", ErrStepIncomplete, sess.Step)
	}

	switch sess.Step {
	case StepContact:
		sess.Step = StepAddress
	case StepAddress:
		sess.Step = StepPayment
	case StepPayment:
		payload := &SummaryPayload{
			ID:             uuid.New(),
			Form:           sess.Form,
			PaymentMethod:  sess.PaymentMethod,
			Subtotal:       sess.Subtotal(),
			CouponDiscount: sess.CouponDiscount,
			Total:          sess.Total(),
			Items:          sess.Items,
			BuyNow:         sess.BuyNow,
			CreatedAt:      time.Now().UTC(),
		}
		if err := svc.Store.Set(ctx, statestore.SummaryKey(sessionID), payload, sessionTTL); err != nil {
			return nil, nil, err
		}
		l.Info("checkout_complete", "payload_id", payload.ID, "total", payload.Total)
		return sess, payload, nil
	}

	return sess, nil, svc.save(ctx, sessionID, sess)
}

func (svc *Service) Back(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := svc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step > StepContact {
		sess.Step--
	}
	return sess, svc.save(ctx, sessionID, sess)
}

// LookupPincode resolves city/state for a 6-character pincode. Each call
// claims the next sequence number before the remote lookup; if a newer
// lookup claimed the session while this one was in flight, the result is
// discarded.
func (svc *Service) LookupPincode(ctx context.Context, sessionID, pincode string) (*postalpin.Locality, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.pincode")

	sess, err := svc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.PinSeq++
	seq := sess.PinSeq
	sess.Form.Pincode = pincode
	if err := svc.save(ctx, sessionID, sess); err != nil {
		return nil, err
	}

	loc, err := svc.Pincode.Lookup(ctx, pincode)
	if err != nil {
		l.Warn("pincode_lookup_failed", "pincode", pincode, "error", err)
		return nil, err
	}

	sess, err = svc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.PinSeq != seq {
		return nil, ErrStaleLookup
	}

	city := loc.District
	if city == "" {
		city = loc.Block
	}
	sess.Form.City = city
	sess.Form.State = loc.State
	if err := svc.save(ctx, sessionID, sess); err != nil {
		return nil, err
	}

	l.Info("pincode_autofill", "city", city, "state", loc.State)
	return loc, nil
}

// PrefillFromLocation fills placeholder address fields from device
// coordinates. The caller treats denial or absence of coordinates as a
// non-event.
func (svc *Service) PrefillFromLocation(ctx context.Context, sessionID string, lat, lng float64) (*Session, error) {
	sess, err := svc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.Form.Lat = &lat
	sess.Form.Lng = &lng
	sess.Form.FlatNo = "Detected"
	sess.Form.ApartmentName = "Current Location"
	sess.Form.StreetArea = fmt.Sprintf("Hosur Road Area (%.4f, %.4f)", lat, lng)
	sess.Form.Address = "Near current location"
	sess.Form.Landmark = "GPS Location"
	return sess, svc.save(ctx, sessionID, sess)
}

func (svc *Service) save(ctx context.Context, sessionID string, sess *Session) error {
	return svc.Store.Set(ctx, statestore.CheckoutKey(sessionID), sess, sessionTTL)
}
