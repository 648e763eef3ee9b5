package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/enthr/ishop-mern/models"
)

func TestAddItemReplacesQuantity(t *testing.T) {
	s := New()
	productId := primitive.NewObjectID()

	s.Dispatch(AddItem{Item: Item{Product: productId, Name: "Camera", Price: 99.99, Qty: 1}})
	s.Dispatch(AddItem{Item: Item{Product: productId, Name: "Camera", Price: 99.99, Qty: 3}})

	state := s.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Qty)
}

func TestSetQty(t *testing.T) {
	s := New()
	productId := primitive.NewObjectID()

	s.Dispatch(AddItem{Item: Item{Product: productId, Name: "Camera", Price: 99.99, Qty: 1}})
	s.Dispatch(SetQty{Product: productId, Qty: 4})

	state := s.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 4, state.Items[0].Qty)
	// The rest of the item is untouched.
	assert.Equal(t, "Camera", state.Items[0].Name)
	assert.Equal(t, 99.99, state.Items[0].Price)
}

func TestSetQtyUnknownProduct(t *testing.T) {
	s := New()
	s.Dispatch(AddItem{Item: Item{Product: primitive.NewObjectID(), Qty: 1}})

	s.Dispatch(SetQty{Product: primitive.NewObjectID(), Qty: 5})

	state := s.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.Items[0].Qty)
}

func TestRemoveItem(t *testing.T) {
	s := New()
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	s.Dispatch(AddItem{Item: Item{Product: first, Qty: 1}})
	s.Dispatch(AddItem{Item: Item{Product: second, Qty: 2}})
	s.Dispatch(RemoveItem{Product: first})

	state := s.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, second, state.Items[0].Product)
}

func TestTotalsShippingBoundary(t *testing.T) {
	// Shipping is free strictly above 100.
	atBoundary := ComputeTotals([]Item{{Price: 100, Qty: 1}})
	assert.Equal(t, float64(50), atBoundary.ShippingPrice)

	overBoundary := ComputeTotals([]Item{{Price: 100.01, Qty: 1}})
	assert.Equal(t, float64(0), overBoundary.ShippingPrice)
}

func TestTotalsMath(t *testing.T) {
	totals := ComputeTotals([]Item{
		{Price: 89.99, Qty: 2},
		{Price: 10, Qty: 1},
	})

	assert.InDelta(t, 189.98, totals.ItemsPrice, 1e-9)
	assert.Equal(t, float64(0), totals.ShippingPrice)
	assert.InDelta(t, 34.2, totals.TaxPrice, 1e-9)
	assert.InDelta(t, 224.18, totals.TotalPrice, 1e-9)
}

func TestTaxRoundedToCents(t *testing.T) {
	// 0.18 * 33.33 = 5.9994, which must round to 6.00.
	totals := ComputeTotals([]Item{{Price: 33.33, Qty: 1}})
	assert.Equal(t, 6.0, totals.TaxPrice)
}

func TestSubscribeSeesDispatches(t *testing.T) {
	s := New()

	var seen []State
	s.Subscribe(func(state State) {
		seen = append(seen, state)
	})

	s.Dispatch(AddItem{Item: Item{Product: primitive.NewObjectID(), Qty: 1}})
	s.Dispatch(SavePaymentMethod{Method: "PayPal"})

	require.Len(t, seen, 2)
	assert.Equal(t, "PayPal", seen[1].PaymentMethod)
}

func TestCheckoutEmptyCart(t *testing.T) {
	s := New()

	_, err := s.Checkout()
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutSnapshot(t *testing.T) {
	s := New()
	productId := primitive.NewObjectID()

	s.Dispatch(AddItem{Item: Item{Product: productId, Name: "Camera", Image: "/images/camera.jpg", Price: 50, Qty: 2}})
	s.Dispatch(SaveShippingAddress{Address: models.ShippingAddress{
		Address:    "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "USA",
	}})
	s.Dispatch(SavePaymentMethod{Method: "PayPal"})

	snapshot, err := s.Checkout()
	require.NoError(t, err)

	require.Len(t, snapshot.OrderItems, 1)
	assert.Equal(t, productId, snapshot.OrderItems[0].Product)
	assert.Equal(t, 2, snapshot.OrderItems[0].Qty)
	assert.Equal(t, "Springfield", snapshot.ShippingAddress.City)
	assert.Equal(t, "PayPal", snapshot.PaymentMethod)
	assert.Equal(t, 100.0, snapshot.ItemsPrice)
	assert.Equal(t, 50.0, snapshot.ShippingPrice)
	assert.Equal(t, 18.0, snapshot.TaxPrice)
	assert.Equal(t, 168.0, snapshot.TotalPrice)
	assert.InDelta(t, snapshot.ItemsPrice+snapshot.ShippingPrice+snapshot.TaxPrice, snapshot.TotalPrice, 1e-9)
}

func TestClearEmptiesItemsOnly(t *testing.T) {
	s := New()
	s.Dispatch(AddItem{Item: Item{Product: primitive.NewObjectID(), Qty: 1}})
	s.Dispatch(SavePaymentMethod{Method: "PayPal"})
	s.Dispatch(Clear{})

	state := s.State()
	assert.Empty(t, state.Items)
	assert.Equal(t, "PayPal", state.PaymentMethod)
}
