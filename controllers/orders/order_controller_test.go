package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	controllers "github.com/enthr/ishop-mern/controllers/orders"
	"github.com/enthr/ishop-mern/middlewares"
	"github.com/enthr/ishop-mern/models"
	"github.com/enthr/ishop-mern/routes"
	"github.com/enthr/ishop-mern/store"
	"github.com/enthr/ishop-mern/token"
)

type envelope struct {
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Result  map[string]any `json:"result"`
}

func setup(t *testing.T) (*fiber.App, *store.Memory, *token.Issuer) {
	t.Helper()

	mem := store.NewMemory()
	issuer := token.NewIssuer("test-secret")
	auth := middlewares.NewAuth(mem.Users(), issuer)

	app := fiber.New()
	routes.OrderRoutes(app, controllers.NewOrderController(mem.Orders()), auth)

	return app, mem, issuer
}

func request(t *testing.T, app *fiber.App, method, path string, body any, bearer string) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func seedUser(t *testing.T, mem *store.Memory, name, email string, isAdmin bool) models.User {
	t.Helper()

	user, err := mem.Users().Insert(context.Background(), models.User{
		Name:    name,
		Email:   email,
		IsAdmin: isAdmin,
	})
	require.NoError(t, err)
	return user
}

func bearerFor(t *testing.T, issuer *token.Issuer, user models.User) string {
	t.Helper()

	tok, err := issuer.Issue(user.Id.Hex())
	require.NoError(t, err)
	return tok
}

func sampleOrderBody() fiber.Map {
	return fiber.Map{
		"orderItems": []fiber.Map{
			{
				"product": primitive.NewObjectID().Hex(),
				"name":    "Camera",
				"qty":     2,
				"price":   50.0,
				"image":   "/images/camera.jpg",
			},
		},
		"shippingAddress": fiber.Map{
			"address":    "1 Main St",
			"city":       "Springfield",
			"postalCode": "12345",
			"country":    "USA",
		},
		"paymentMethod": "PayPal",
		"itemsPrice":    100.0,
		"shippingPrice": 50.0,
		"taxPrice":      18.0,
		"totalPrice":    168.0,
	}
}

func TestCreateOrderEmptyItems(t *testing.T) {
	app, mem, issuer := setup(t)
	user := seedUser(t, mem, "John", "john@example.com", false)

	body := sampleOrderBody()
	body["orderItems"] = []fiber.Map{}

	resp, _ := request(t, app, http.MethodPost, "/api/orders", body, bearerFor(t, issuer, user))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateOrderTrustsClientPrices(t *testing.T) {
	app, mem, issuer := setup(t)
	user := seedUser(t, mem, "John", "john@example.com", false)

	resp, env := request(t, app, http.MethodPost, "/api/orders", sampleOrderBody(), bearerFor(t, issuer, user))

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	order := env.Result["order"].(map[string]any)
	assert.Equal(t, user.Id.Hex(), order["user"])
	assert.Equal(t, 100.0, order["itemsPrice"])
	assert.Equal(t, 50.0, order["shippingPrice"])
	assert.Equal(t, 18.0, order["taxPrice"])
	// Total is stored as supplied, with no server-side recomputation.
	assert.Equal(t, 168.0, order["totalPrice"])
	assert.Equal(t, false, order["isPaid"])
	assert.Equal(t, false, order["isDelivered"])
}

func TestGetOrderByIdOpenToAnyAuthenticatedUser(t *testing.T) {
	app, mem, issuer := setup(t)
	owner := seedUser(t, mem, "Owner", "owner@example.com", false)
	stranger := seedUser(t, mem, "Stranger", "stranger@example.com", false)

	order, err := mem.Orders().Insert(context.Background(), models.Order{User: owner.Id})
	require.NoError(t, err)

	resp, _ := request(t, app, http.MethodGet, "/api/orders/"+order.ID.Hex(), nil, bearerFor(t, issuer, stranger))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetOrderByIdNotFound(t *testing.T) {
	app, mem, issuer := setup(t)
	user := seedUser(t, mem, "John", "john@example.com", false)

	resp, _ := request(t, app, http.MethodGet, "/api/orders/64f1c0ffee0000000000beef", nil, bearerFor(t, issuer, user))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetMyOrdersFiltersByOwner(t *testing.T) {
	app, mem, issuer := setup(t)
	first := seedUser(t, mem, "First", "first@example.com", false)
	second := seedUser(t, mem, "Second", "second@example.com", false)

	_, err := mem.Orders().Insert(context.Background(), models.Order{User: first.Id})
	require.NoError(t, err)
	_, err = mem.Orders().Insert(context.Background(), models.Order{User: first.Id})
	require.NoError(t, err)
	_, err = mem.Orders().Insert(context.Background(), models.Order{User: second.Id})
	require.NoError(t, err)

	_, env := request(t, app, http.MethodGet, "/api/orders/myorders", nil, bearerFor(t, issuer, first))
	assert.Len(t, env.Result["orders"].([]any), 2)
}

func TestGetMyOrdersEmptyIsArray(t *testing.T) {
	app, mem, issuer := setup(t)
	user := seedUser(t, mem, "John", "john@example.com", false)

	resp, env := request(t, app, http.MethodGet, "/api/orders/myorders", nil, bearerFor(t, issuer, user))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// An empty list serializes as [], not null.
	orders, ok := env.Result["orders"].([]any)
	require.True(t, ok)
	assert.Empty(t, orders)
}

func TestGetAllOrdersJoinsOwner(t *testing.T) {
	app, mem, issuer := setup(t)
	owner := seedUser(t, mem, "Jane Doe", "jane@example.com", false)
	admin := seedUser(t, mem, "Admin", "admin@example.com", true)

	_, err := mem.Orders().Insert(context.Background(), models.Order{User: owner.Id})
	require.NoError(t, err)

	resp, env := request(t, app, http.MethodGet, "/api/orders", nil, bearerFor(t, issuer, admin))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	orders := env.Result["orders"].([]any)
	require.Len(t, orders, 1)
	joined := orders[0].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "Jane Doe", joined["name"])
	assert.Equal(t, "jane@example.com", joined["email"])
}

func TestGetAllOrdersRequiresAdmin(t *testing.T) {
	app, mem, issuer := setup(t)
	user := seedUser(t, mem, "John", "john@example.com", false)

	resp, _ := request(t, app, http.MethodGet, "/api/orders", nil, bearerFor(t, issuer, user))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMarkPaidStoresPaymentResult(t *testing.T) {
	app, mem, issuer := setup(t)
	user := seedUser(t, mem, "John", "john@example.com", false)
	order, err := mem.Orders().Insert(context.Background(), models.Order{User: user.Id})
	require.NoError(t, err)

	resp, env := request(t, app, http.MethodPut, "/api/orders/"+order.ID.Hex()+"/pay", fiber.Map{
		"id":          "PAYID-123",
		"status":      "COMPLETED",
		"update_time": "2024-05-01T10:00:00Z",
		"payer":       fiber.Map{"email_address": "john@example.com"},
	}, bearerFor(t, issuer, user))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	paid := env.Result["order"].(map[string]any)
	assert.Equal(t, true, paid["isPaid"])
	assert.NotEmpty(t, paid["paidAt"])
	result := paid["paymentResult"].(map[string]any)
	assert.Equal(t, "PAYID-123", result["id"])
	assert.Equal(t, "COMPLETED", result["status"])
	assert.Equal(t, "john@example.com", result["email_address"])
}

func TestMarkPaidNotFound(t *testing.T) {
	app, mem, issuer := setup(t)
	user := seedUser(t, mem, "John", "john@example.com", false)

	resp, _ := request(t, app, http.MethodPut, "/api/orders/64f1c0ffee0000000000beef/pay", fiber.Map{}, bearerFor(t, issuer, user))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMarkDeliveredRequiresAdmin(t *testing.T) {
	app, mem, issuer := setup(t)
	user := seedUser(t, mem, "John", "john@example.com", false)
	order, err := mem.Orders().Insert(context.Background(), models.Order{User: user.Id})
	require.NoError(t, err)

	resp, _ := request(t, app, http.MethodPut, "/api/orders/"+order.ID.Hex()+"/deliver", nil, bearerFor(t, issuer, user))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDeliverThenPayLeavesBothFlagsSet(t *testing.T) {
	app, mem, issuer := setup(t)
	user := seedUser(t, mem, "John", "john@example.com", false)
	admin := seedUser(t, mem, "Admin", "admin@example.com", true)
	order, err := mem.Orders().Insert(context.Background(), models.Order{User: user.Id})
	require.NoError(t, err)

	// The two transitions are independent: delivering an unpaid order
	// is accepted.
	resp, _ := request(t, app, http.MethodPut, "/api/orders/"+order.ID.Hex()+"/deliver", nil, bearerFor(t, issuer, admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = request(t, app, http.MethodPut, "/api/orders/"+order.ID.Hex()+"/pay", fiber.Map{
		"id": "PAYID-456",
	}, bearerFor(t, issuer, user))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := mem.Orders().FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)
	assert.True(t, stored.IsDelivered)
	assert.NotNil(t, stored.PaidAt)
	assert.NotNil(t, stored.DeliveredAt)
}
