package services

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderFixture(t *testing.T, cipherKey string) (*OrderService, *stubOrders, *stubMailer, *structs.Config) {
	t.Helper()
	cfg := testConfig()
	cipher, err := lib.NewFieldCipher(cipherKey)
	require.NoError(t, err)

	orders := newStubOrders()
	mailer := newStubMailer()
	return NewOrderService(testLogger(), cfg, orders, mailer, cipher), orders, mailer, cfg
}

func twoLineOrder() *structs.OrderRequest {
	return &structs.OrderRequest{
		TotalPrice: 250,
		Items: []structs.OrderItemRequest{
			{ProductID: 1, Quantity: 2, Price: 100},
			{ProductID: 2, Quantity: 1, Price: 50, Size: strPtr("M")},
		},
	}
}

func TestOrderService_PlaceOrderTotals(t *testing.T) {
	svc, orders, _, _ := newOrderFixture(t, "")

	order, err := svc.PlaceOrder(context.Background(), intPtr(5), twoLineOrder())
	require.NoError(t, err)
	assert.Equal(t, int64(250), order.TotalPrice)
	assert.Equal(t, tables.OrderStatusPending, order.Status)
	assert.Equal(t, 5, *order.UserID)

	items := orders.storedItems(order.ID)
	require.Len(t, items, 2)
	assert.Equal(t, int64(200), items[0].TotalPrice)
	assert.Equal(t, int64(50), items[1].TotalPrice)
	for _, it := range items {
		assert.Equal(t, order.ID, it.OrderID)
		assert.Equal(t, int64(it.Quantity)*it.Price, it.TotalPrice)
	}
}

func TestOrderService_PlaceOrderGuest(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t, "")

	order, err := svc.PlaceOrder(context.Background(), nil, twoLineOrder())
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
}

func TestOrderService_PlaceOrderRecomputesTotal(t *testing.T) {
	svc, _, _, cfg := newOrderFixture(t, "")

	req := twoLineOrder()
	req.TotalPrice = 1
	order, err := svc.PlaceOrder(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Equal(t, int64(250), order.TotalPrice)

	cfg.Orders.TrustClientTotal = true
	order, err = svc.PlaceOrder(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.TotalPrice)
}

func TestOrderService_PlaceOrderIsAtomic(t *testing.T) {
	svc, orders, _, _ := newOrderFixture(t, "")

	req := &structs.OrderRequest{}
	for i := 1; i <= 6; i++ {
		req.Items = append(req.Items, structs.OrderItemRequest{ProductID: i, Quantity: 1, Price: 10})
	}
	req.TotalPrice = 60
	orders.failItemAt = len(req.Items) / 2

	_, err := svc.PlaceOrder(context.Background(), nil, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrDatabase)

	nOrders, nItems, nShipping := orders.counts()
	assert.Zero(t, nOrders)
	assert.Zero(t, nItems)
	assert.Zero(t, nShipping)
}

func TestOrderService_PlaceOrderUnknownProduct(t *testing.T) {
	svc, orders, _, _ := newOrderFixture(t, "")
	orders.failItemAt = 1
	orders.failItemErr = &pgconn.PgError{Code: "23503", ConstraintName: "order_items_product_id_fkey"}

	_, err := svc.PlaceOrder(context.Background(), nil, twoLineOrder())
	assert.ErrorIs(t, err, lib.ErrDatabase)
	assert.NotErrorIs(t, err, lib.ErrBadRequest)

	code, _ := lib.HTTPStatus(err)
	assert.Equal(t, http.StatusInternalServerError, code)

	nOrders, nItems, _ := orders.counts()
	assert.Zero(t, nOrders)
	assert.Zero(t, nItems)
}

func TestOrderService_PlaceOrderValidation(t *testing.T) {
	svc, orders, _, _ := newOrderFixture(t, "")
	ctx := context.Background()

	tests := []struct {
		name string
		req  *structs.OrderRequest
	}{
		{"no items", &structs.OrderRequest{}},
		{"zero quantity", &structs.OrderRequest{Items: []structs.OrderItemRequest{{ProductID: 1, Quantity: 0, Price: 10}}}},
		{"negative price", &structs.OrderRequest{Items: []structs.OrderItemRequest{{ProductID: 1, Quantity: 1, Price: -1}}}},
		{"huge quantity", &structs.OrderRequest{Items: []structs.OrderItemRequest{{ProductID: 1, Quantity: 10_001, Price: 10}}}},
		{"huge price", &structs.OrderRequest{Items: []structs.OrderItemRequest{{ProductID: 1, Quantity: 2, Price: math.MaxInt64 / 2}}}},
		{"bad product", &structs.OrderRequest{Items: []structs.OrderItemRequest{{ProductID: 0, Quantity: 1, Price: 10}}}},
		{"unknown status", &structs.OrderRequest{Status: "lost", Items: []structs.OrderItemRequest{{ProductID: 1, Quantity: 1, Price: 10}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, nil, tt.req)
			assert.ErrorIs(t, err, lib.ErrBadRequest)
		})
	}

	nOrders, _, _ := orders.counts()
	assert.Zero(t, nOrders)
}

func TestOrderService_ShippingAndDetails(t *testing.T) {
	svc, orders, mailer, _ := newOrderFixture(t, "0123456789abcdef0123456789abcdef")
	orders.productNames[1] = "Tulip bouquet"
	ctx := context.Background()

	req := twoLineOrder()
	req.Shipping = &structs.ShippingRequest{
		Address:     "Keizersgracht 1",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		PhoneNumber: "+31612345678",
		Email:       "ada@example.com",
	}
	order, err := svc.PlaceOrder(ctx, nil, req)
	require.NoError(t, err)

	// contact fields are encrypted at rest
	stored := orders.storedShipping(order.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, "+31612345678", stored.PhoneNumber)
	assert.NotEqual(t, "ada@example.com", stored.Email)

	details, err := svc.GetOrderDetails(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, details.OrderID)
	assert.Equal(t, "+31612345678", details.Shipping.PhoneNumber)
	assert.Equal(t, "ada@example.com", details.Shipping.Email)
	require.Len(t, details.Items, 2)
	require.NotNil(t, details.Items[0].ProductName)
	assert.Equal(t, "Tulip bouquet", *details.Items[0].ProductName)
	assert.Nil(t, details.Items[1].ProductName)

	select {
	case id := <-mailer.sent:
		assert.Equal(t, order.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("order notification was not sent")
	}
}

func TestOrderService_GetOrderDetailsNotFound(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t, "")
	ctx := context.Background()

	_, err := svc.GetOrderDetails(ctx, 404)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	// an order without a shipping address has no details
	order, err := svc.PlaceOrder(ctx, nil, twoLineOrder())
	require.NoError(t, err)
	_, err = svc.GetOrderDetails(ctx, order.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestOrderService_AddShipping(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t, "")
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, nil, twoLineOrder())
	require.NoError(t, err)

	req := &structs.AddShippingRequest{
		OrderID: order.ID,
		ShippingRequest: structs.ShippingRequest{
			Address:     "Dam 1",
			FirstName:   "Alan",
			LastName:    "Turing",
			PhoneNumber: "+31687654321",
			Email:       "alan@example.com",
		},
	}
	shipping, err := svc.AddShipping(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, order.ID, shipping.OrderID)

	_, err = svc.AddShipping(ctx, req)
	assert.ErrorIs(t, err, lib.ErrConflict)

	req.OrderID = 404
	_, err = svc.AddShipping(ctx, req)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	svc, orders, _, _ := newOrderFixture(t, "")
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, nil, twoLineOrder())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, order.ID, "shipped"))
	stored, err := orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusShipped, stored.Status)

	// any known status may follow any other
	require.NoError(t, svc.UpdateStatus(ctx, order.ID, "pending"))

	assert.ErrorIs(t, svc.UpdateStatus(ctx, order.ID, "teleported"), lib.ErrBadRequest)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, order.ID, ""), lib.ErrBadRequest)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, 404, "paid"), lib.ErrNotFound)
}

func TestOrderService_ListAndDelete(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t, "")
	ctx := context.Background()

	first, err := svc.PlaceOrder(ctx, intPtr(1), twoLineOrder())
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, intPtr(2), twoLineOrder())
	require.NoError(t, err)

	mine, err := svc.ListOrders(ctx, structs.OrderFilter{UserID: intPtr(1)})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	_, err = svc.ListOrders(ctx, structs.OrderFilter{Status: strPtr("lost")})
	assert.ErrorIs(t, err, lib.ErrBadRequest)

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.ErrorIs(t, svc.Delete(ctx, first.ID), lib.ErrNotFound)

	all, err := svc.ListOrders(ctx, structs.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
