package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/enthr/ishop-mern/middlewares"
	"github.com/enthr/ishop-mern/models"
	"github.com/enthr/ishop-mern/responses"
	"github.com/enthr/ishop-mern/store"
)

var validate = validator.New()

type OrderController struct {
	orders store.OrderStore
}

func NewOrderController(orders store.OrderStore) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrderRequest is the cart snapshot submitted at checkout. The
// prices are client-computed and trusted as-is.
type CreateOrderRequest struct {
	OrderItems      []models.OrderItem     `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
	ItemsPrice      float64                `json:"itemsPrice"`
	TaxPrice        float64                `json:"taxPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

type payOrderRequest struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// CreateOrder persists a new order owned by the caller from the
// submitted cart snapshot.
func (oc *OrderController) CreateOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody CreateOrderRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order data")
	}

	if len(reqBody.OrderItems) == 0 {
		return responses.Error(c, fiber.StatusBadRequest, "No order items")
	}

	user := middlewares.CurrentUser(c)

	order := models.Order{
		ID:              primitive.NewObjectID(),
		User:            user.Id,
		OrderItems:      reqBody.OrderItems,
		ShippingAddress: reqBody.ShippingAddress,
		PaymentMethod:   reqBody.PaymentMethod,
		ItemsPrice:      reqBody.ItemsPrice,
		TaxPrice:        reqBody.TaxPrice,
		ShippingPrice:   reqBody.ShippingPrice,
		TotalPrice:      reqBody.TotalPrice,
		CreatedAt:       time.Now(),
	}

	order, err := oc.orders.Insert(ctx, order)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Failed to create order")
	}

	return responses.OK(c, fiber.StatusCreated, "Order created successfully", fiber.Map{
		"order": order,
	})
}

// GetOrderById returns an order to any authenticated user; there is no
// ownership check on reads.
func (oc *OrderController) GetOrderById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	orderId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order ID format")
	}

	order, err := oc.orders.FindByID(ctx, orderId)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Order not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching order")
	}

	return responses.OK(c, fiber.StatusOK, "Fetched order", fiber.Map{
		"order": order,
	})
}

// GetMyOrders lists the caller's own orders.
func (oc *OrderController) GetMyOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user := middlewares.CurrentUser(c)

	orders, err := oc.orders.FindByUser(ctx, user.Id)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching orders")
	}

	return responses.OK(c, fiber.StatusOK, "Fetched orders", fiber.Map{
		"orders": orders,
	})
}

// GetAllOrders lists every order with the owning user joined in. Admin
// only.
func (oc *OrderController) GetAllOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.orders.ListWithUsers(ctx)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching orders")
	}

	return responses.OK(c, fiber.StatusOK, "Fetched orders", fiber.Map{
		"orders": orders,
	})
}

// UpdateOrderToPaid marks the order paid and stores the external
// payment confirmation payload verbatim.
func (oc *OrderController) UpdateOrderToPaid(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	orderId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order ID format")
	}

	var reqBody payOrderRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}

	order, err := oc.orders.FindByID(ctx, orderId)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Order not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching order")
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &models.PaymentResult{
		ID:           reqBody.ID,
		Status:       reqBody.Status,
		UpdateTime:   reqBody.UpdateTime,
		EmailAddress: reqBody.Payer.EmailAddress,
	}

	order, err = oc.orders.Update(ctx, order)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error updating order")
	}

	return responses.OK(c, fiber.StatusOK, "Order paid", fiber.Map{
		"order": order,
	})
}

// UpdateOrderToDelivered marks the order delivered. Admin only. No
// precondition on the paid flag.
func (oc *OrderController) UpdateOrderToDelivered(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	orderId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order ID format")
	}

	order, err := oc.orders.FindByID(ctx, orderId)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Order not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching order")
	}

	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now

	order, err = oc.orders.Update(ctx, order)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error updating order")
	}

	return responses.OK(c, fiber.StatusOK, "Order delivered", fiber.Map{
		"order": order,
	})
}
