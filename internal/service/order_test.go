package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/transport"
)

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 10)

	tests := []struct {
		name string
		req  transport.CreateOrderRequest
	}{
		{
			name: "empty items",
			req: transport.CreateOrderRequest{
				ShippingAddress: testAddress(),
				PaymentMethod:   models.PaymentMethodCard,
			},
		},
		{
			name: "missing address",
			req: transport.CreateOrderRequest{
				Items:         []transport.OrderItemRequest{{ProductID: prod.ID, Quantity: 1}},
				PaymentMethod: models.PaymentMethodCard,
			},
		},
		{
			name: "unknown payment method",
			req: transport.CreateOrderRequest{
				Items:           []transport.OrderItemRequest{{ProductID: prod.ID, Quantity: 1}},
				ShippingAddress: testAddress(),
				PaymentMethod:   "bitcoin",
			},
		},
		{
			name: "zero quantity",
			req: transport.CreateOrderRequest{
				Items:           []transport.OrderItemRequest{{ProductID: prod.ID, Quantity: 0}},
				ShippingAddress: testAddress(),
				PaymentMethod:   models.PaymentMethodCard,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			order, err := svc.CreateOrder(ctx, 1, tt.req)
			require.Error(t, err)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, ErrValidation)
			// validation failures must not touch stock
			assert.Equal(t, uint(10), productCount(t, r, prod.ID))
		})
	}
}

func TestOrderService_CreateOrder_ReservesAndSnapshots(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)

	order, err := svc.CreateOrder(ctx, 7, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 3, Size: "42"},
	))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.IsPaid)
	assert.NotEmpty(t, order.Reference)
	assert.Equal(t, uint(7), order.UserID)
	assert.Equal(t, uint(2), productCount(t, r, prod.ID))

	require.Len(t, order.Items, 1)
	assert.Equal(t, "sneakers", order.Items[0].Name)
	assert.Equal(t, 59.90, order.Items[0].Price)
	assert.Equal(t, "42", order.Items[0].Size)

	// 179.70 > 100: free shipping, tax 17.97
	assert.Equal(t, 179.70, order.ItemsTotal)
	assert.Equal(t, 17.97, order.Tax)
	assert.Equal(t, 0.0, order.Shipping)
	assert.Equal(t, 197.67, order.GrandTotal)

	// snapshot survives later catalog edits
	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", prod.ID).Update("price", 999.0).Error)
	stored, err := svc.GetOrder(ctx, order.ID, 7, "user")
	require.NoError(t, err)
	assert.Equal(t, 59.90, stored.Items[0].Price)
}

func TestOrderService_CreateOrder_InsufficientStock(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 2)

	order, err := svc.CreateOrder(ctx, 1, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 5},
	))
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, uint(2), productCount(t, r, prod.ID))
}

func TestOrderService_CreateOrder_PartialFailureRollsBackReservations(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	first := createTestProduct(t, r, "shirt", 25.00, 10)
	second := createTestProduct(t, r, "scarce hat", 14.00, 1)

	order, err := svc.CreateOrder(ctx, 1, orderRequest(
		transport.OrderItemRequest{ProductID: first.ID, Quantity: 4},
		transport.OrderItemRequest{ProductID: second.ID, Quantity: 3},
	))
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// the reservation taken for the first item must be rolled back
	assert.Equal(t, uint(10), productCount(t, r, first.ID))
	assert.Equal(t, uint(1), productCount(t, r, second.ID))
}

func TestOrderService_CreateOrder_MissingProductRollsBack(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	first := createTestProduct(t, r, "shirt", 25.00, 10)

	order, err := svc.CreateOrder(ctx, 1, orderRequest(
		transport.OrderItemRequest{ProductID: first.ID, Quantity: 2},
		transport.OrderItemRequest{ProductID: first.ID + 100, Quantity: 1},
	))
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, uint(10), productCount(t, r, first.ID))
}

func TestOrderService_MarkPaid(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	order, err := svc.CreateOrder(ctx, 7, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 1},
	))
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, order.ID, 7, "txn-001")
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, "txn-001", paid.Attestation)
	// first payment auto-advances pending orders
	assert.Equal(t, models.OrderStatusProcessing, paid.Status)

	// re-marking is allowed, last attestation wins, no inventory change
	again, err := svc.MarkPaid(ctx, order.ID, 7, "txn-002")
	require.NoError(t, err)
	assert.Equal(t, "txn-002", again.Attestation)
	assert.Equal(t, models.OrderStatusProcessing, again.Status)
	assert.Equal(t, uint(4), productCount(t, r, prod.ID))
}

func TestOrderService_MarkPaid_Authorization(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	order, err := svc.CreateOrder(ctx, 7, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, order.ID, 8, "txn-001")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.MarkPaid(ctx, order.ID+100, 7, "txn-001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_AdvanceFulfillment(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	order, err := svc.CreateOrder(ctx, 7, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.AdvanceFulfillment(ctx, order.ID, models.OrderStatusShipped, "user")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AdvanceFulfillment(ctx, order.ID, "lost", "admin")
	assert.ErrorIs(t, err, ErrValidation)

	shipped, err := svc.AdvanceFulfillment(ctx, order.ID, models.OrderStatusShipped, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)

	// backward moves are rejected by default
	_, err = svc.AdvanceFulfillment(ctx, order.ID, models.OrderStatusProcessing, "admin")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	delivered, err := svc.AdvanceFulfillment(ctx, order.ID, models.OrderStatusDelivered, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
}

func TestOrderService_AdvanceFulfillment_AllowBackward(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	svc.AllowBackward = true
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	order, err := svc.CreateOrder(ctx, 7, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.AdvanceFulfillment(ctx, order.ID, models.OrderStatusShipped, "admin")
	require.NoError(t, err)

	back, err := svc.AdvanceFulfillment(ctx, order.ID, models.OrderStatusPending, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, back.Status)
}

func TestOrderService_AdvanceFulfillment_CancelReleasesStock(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	order, err := svc.CreateOrder(ctx, 7, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 2},
	))
	require.NoError(t, err)
	require.Equal(t, uint(3), productCount(t, r, prod.ID))

	cancelled, err := svc.AdvanceFulfillment(ctx, order.ID, models.OrderStatusCancelled, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, uint(5), productCount(t, r, prod.ID))

	// cancelling twice must not release stock twice
	_, err = svc.AdvanceFulfillment(ctx, order.ID, models.OrderStatusCancelled, "admin")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, uint(5), productCount(t, r, prod.ID))
}

func TestOrderService_Cancel_FromProcessing(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	order, err := svc.CreateOrder(ctx, 7, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 3},
	))
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, order.ID, 7, "txn-001")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, order.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, uint(5), productCount(t, r, prod.ID))
}

func TestOrderService_Cancel_ShippedRejected(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	order, err := svc.CreateOrder(ctx, 7, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 3},
	))
	require.NoError(t, err)

	_, err = svc.AdvanceFulfillment(ctx, order.ID, models.OrderStatusShipped, "admin")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, order.ID, 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, uint(2), productCount(t, r, prod.ID))
}

func TestOrderService_Cancel_Authorization(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	order, err := svc.CreateOrder(ctx, 7, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, order.ID, 8)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOrderService_GetOrder_Authorization(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newOrderService(r)
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	order, err := svc.CreateOrder(ctx, 7, orderRequest(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, order.ID, 8, "user")
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetOrder(ctx, order.ID, 8, "admin")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, _, err = svc.ListAllOrders(ctx, "user", 0, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	total, orders, err := svc.ListAllOrders(ctx, "admin", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)
}
