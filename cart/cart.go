// Package cart is the client-side cart state: an observable store
// mutated through typed actions, holding the selected items, shipping
// address and payment method, and producing the checkout snapshot the
// order endpoint accepts.
package cart

import (
	"errors"
	"math"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/enthr/ishop-mern/models"
)

var ErrEmptyCart = errors.New("cart is empty")

const (
	freeShippingOver = 100
	shippingFlatRate = 50
	taxRate          = 0.18
)

type Item struct {
	Product primitive.ObjectID `json:"product"`
	Name    string             `json:"name"`
	Image   string             `json:"image"`
	Price   float64            `json:"price"`
	Qty     int                `json:"qty"`
}

type State struct {
	Items           []Item
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
}

type Totals struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// Snapshot is the denormalized cart submitted at checkout, trusted
// as-is by order creation.
type Snapshot struct {
	OrderItems      []models.OrderItem     `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ItemsPrice      float64                `json:"itemsPrice"`
	TaxPrice        float64                `json:"taxPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

type Action interface {
	apply(*State)
}

// AddItem puts an item in the cart. Adding a product already present
// replaces its quantity rather than accumulating.
type AddItem struct {
	Item Item
}

func (a AddItem) apply(s *State) {
	for i, item := range s.Items {
		if item.Product == a.Item.Product {
			s.Items[i] = a.Item
			return
		}
	}
	s.Items = append(s.Items, a.Item)
}

// SetQty changes the quantity of an item already in the cart. Products
// not in the cart are left alone.
type SetQty struct {
	Product primitive.ObjectID
	Qty     int
}

func (a SetQty) apply(s *State) {
	for i, item := range s.Items {
		if item.Product == a.Product {
			s.Items[i].Qty = a.Qty
			return
		}
	}
}

type RemoveItem struct {
	Product primitive.ObjectID
}

func (a RemoveItem) apply(s *State) {
	for i, item := range s.Items {
		if item.Product == a.Product {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return
		}
	}
}

type SaveShippingAddress struct {
	Address models.ShippingAddress
}

func (a SaveShippingAddress) apply(s *State) {
	s.ShippingAddress = a.Address
}

type SavePaymentMethod struct {
	Method string
}

func (a SavePaymentMethod) apply(s *State) {
	s.PaymentMethod = a.Method
}

type Clear struct{}

func (Clear) apply(s *State) {
	s.Items = nil
}

// Store holds the cart state and notifies subscribers after every
// dispatched action.
type Store struct {
	mu    sync.Mutex
	state State
	subs  []func(State)
}

func New() *Store {
	return &Store{}
}

func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	a.apply(&s.state)
	snapshot := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	snapshot := s.state
	snapshot.Items = make([]Item, len(s.state.Items))
	copy(snapshot.Items, s.state.Items)
	return snapshot
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotals applies the storefront price rules: shipping is free
// above 100, flat 50 otherwise; tax is 18% of the item total, rounded
// to cents.
func ComputeTotals(items []Item) Totals {
	var itemsPrice float64
	for _, item := range items {
		itemsPrice += item.Price * float64(item.Qty)
	}

	shippingPrice := float64(shippingFlatRate)
	if itemsPrice > freeShippingOver {
		shippingPrice = 0
	}

	taxPrice := round2(taxRate * itemsPrice)

	return Totals{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TaxPrice:      taxPrice,
		TotalPrice:    round2(itemsPrice + shippingPrice + taxPrice),
	}
}

func (s *Store) Totals() Totals {
	return ComputeTotals(s.State().Items)
}

// Checkout builds the order-creation payload from the current state.
func (s *Store) Checkout() (Snapshot, error) {
	state := s.State()
	if len(state.Items) == 0 {
		return Snapshot{}, ErrEmptyCart
	}

	orderItems := make([]models.OrderItem, 0, len(state.Items))
	for _, item := range state.Items {
		orderItems = append(orderItems, models.OrderItem{
			Product: item.Product,
			Name:    item.Name,
			Qty:     item.Qty,
			Price:   item.Price,
			Image:   item.Image,
		})
	}

	totals := ComputeTotals(state.Items)

	return Snapshot{
		OrderItems:      orderItems,
		ShippingAddress: state.ShippingAddress,
		PaymentMethod:   state.PaymentMethod,
		ItemsPrice:      totals.ItemsPrice,
		TaxPrice:        totals.TaxPrice,
		ShippingPrice:   totals.ShippingPrice,
		TotalPrice:      totals.TotalPrice,
	}, nil
}
