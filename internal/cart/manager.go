// Package cart holds the per-session shopping cart: line items with
// denormalized product fields, a derived total and item count, persisted
// to the state store after every mutation.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harvestbites/storefront/internal/models"
	"github.com/harvestbites/storefront/internal/statestore"
)

var ErrValidation = errors.New("validation")

type Item struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Subtitle  string  `json:"subtitle"`
	Price     float64 `json:"price"`
	Benefit   string  `json:"benefit"`
	Quantity  uint    `json:"quantity"`
}

type State struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
	Count uint    `json:"count"`
	Open  bool    `json:"open"`
}

// Subscriber is invoked synchronously with the new snapshot after every
// mutation.
type Subscriber func(sessionID string, state State)

type Manager struct {
	store statestore.Store

	mu   sync.Mutex
	subs []Subscriber
}

func NewManager(store statestore.Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) Subscribe(fn Subscriber) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

// Get rehydrates the cart snapshot; a missing or corrupt snapshot reads
// as an empty cart.
func (m *Manager) Get(ctx context.Context, sessionID string) (State, error) {
	var state State
	found, err := m.store.Get(ctx, statestore.CartKey(sessionID), &state)
	if err != nil {
		return State{}, err
	}
	if !found {
		return State{}, nil
	}
	recompute(&state)
	return state, nil
}

func (m *Manager) AddItem(ctx context.Context, sessionID string, product *models.Product, qty uint) (State, error) {
	if product == nil {
		return State{}, fmt.Errorf("product required: %w", ErrValidation)
	}
	if qty == 0 {
		qty = 1
	}

	state, err := m.Get(ctx, sessionID)
	if err != nil {
		return State{}, err
	}

	if idx := indexOf(state.Items, product.ID); idx >= 0 {
		state.Items[idx].Quantity += qty
	} else {
		state.Items = append(state.Items, Item{
			ProductID: product.ID,
			Name:      product.Name,
			Subtitle:  product.Subtitle,
			Price:     product.Price,
			Benefit:   product.Benefit,
			Quantity:  qty,
		})
	}

	return m.commit(ctx, sessionID, state)
}

// UpdateQuantity sets the quantity for a line item. A quantity below 1
// removes the item; the removal policy is uniform across all callers.
func (m *Manager) UpdateQuantity(ctx context.Context, sessionID string, productID uint, qty int) (State, error) {
	state, err := m.Get(ctx, sessionID)
	if err != nil {
		return State{}, err
	}

	idx := indexOf(state.Items, productID)
	if idx < 0 {
		return state, nil
	}
	if qty < 1 {
		state.Items = append(state.Items[:idx], state.Items[idx+1:]...)
	} else {
		state.Items[idx].Quantity = uint(qty)
	}

	return m.commit(ctx, sessionID, state)
}

func (m *Manager) RemoveItem(ctx context.Context, sessionID string, productID uint) (State, error) {
	return m.UpdateQuantity(ctx, sessionID, productID, 0)
}

func (m *Manager) Clear(ctx context.Context, sessionID string) (State, error) {
	state, err := m.Get(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	state.Items = nil
	return m.commit(ctx, sessionID, state)
}

func (m *Manager) SetOpen(ctx context.Context, sessionID string, open bool) (State, error) {
	state, err := m.Get(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	state.Open = open
	return m.commit(ctx, sessionID, state)
}

func (m *Manager) commit(ctx context.Context, sessionID string, state State) (State, error) {
	recompute(&state)
	if err := m.store.Set(ctx, statestore.CartKey(sessionID), state, 0); err != nil {
		return State{}, err
	}

	m.mu.Lock()
	subs := make([]Subscriber, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(sessionID, state)
	}

	return state, nil
}

// recompute is a plain fold over the items; total and count are never
// cached across mutations.
func recompute(state *State) {
	var total float64
	var count uint
	for i := range state.Items {
		total += state.Items[i].Price * float64(state.Items[i].Quantity)
		count += state.Items[i].Quantity
	}
	state.Total = total
	state.Count = count
}

func indexOf(items []Item, productID uint) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
