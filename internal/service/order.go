package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/storefront/internal/logging"
	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/repo"
	"github.com/avolkov/storefront/internal/transport"
)

const maxNotesLen = 500

var paymentMethods = map[string]bool{
	models.PaymentMethodCard:   true,
	models.PaymentMethodPayPal: true,
	models.PaymentMethodCOD:    true,
}

var fulfillmentRank = map[string]int{
	models.OrderStatusPending:    0,
	models.OrderStatusProcessing: 1,
	models.OrderStatusShipped:    2,
	models.OrderStatusDelivered:  3,
}

// OrderService owns the order state machine and the inventory compensation
// it implies. AllowBackward re-enables unchecked admin transitions for
// deployments that relied on the old direct-set behaviour.
type OrderService struct {
	Repo          *repo.GormRepo
	Inventory     *InventoryService
	AllowBackward bool
}

type reservation struct {
	productID uint
	quantity  uint
}

func (s *OrderService) CreateOrder(ctx context.Context, userID uint, req transport.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	if req.ShippingAddress.Line1 == "" || req.ShippingAddress.City == "" {
		return nil, fmt.Errorf("%w: shipping address required", ErrValidation)
	}
	if !paymentMethods[req.PaymentMethod] {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}
	if len(req.Notes) > maxNotesLen {
		return nil, fmt.Errorf("%w: notes longer than %d characters", ErrValidation, maxNotesLen)
	}
	for i := range req.Items {
		if req.Items[i].ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if req.Items[i].Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}

	var (
		items    []models.OrderItem
		reserved []reservation
	)

	for i := range req.Items {
		product, err := s.Repo.GetProduct(ctx, req.Items[i].ProductID)
		if err != nil {
			s.releaseAll(ctx, reserved)
			if repo.IsNotFound(err) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, req.Items[i].ProductID)
			}
			return nil, err
		}

		if err := s.Inventory.Reserve(ctx, product.ID, req.Items[i].Quantity); err != nil {
			// Earlier line items already hold stock; a failed order must
			// not keep a partial reservation.
			s.releaseAll(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, reservation{productID: product.ID, quantity: req.Items[i].Quantity})

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			Quantity:  req.Items[i].Quantity,
			Size:      req.Items[i].Size,
		})
	}

	totals := ComputeTotals(items)

	order := &models.Order{
		Reference: uuid.NewString(),
		UserID:    userID,
		Items:     items,
		ShippingAddress: models.Address{
			Line1:      req.ShippingAddress.Line1,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		ItemsTotal:    totals.ItemsTotal,
		Tax:           totals.Tax,
		Shipping:      totals.Shipping,
		GrandTotal:    totals.GrandTotal,
		Status:        models.OrderStatusPending,
	}

	created, err := s.Repo.CreateOrder(ctx, order)
	if err != nil {
		// The decrements already committed; give the stock back before
		// surfacing the storage failure.
		s.releaseAll(ctx, reserved)
		return nil, err
	}

	return created, nil
}

func (s *OrderService) MarkPaid(ctx context.Context, orderID, userID uint, attestation string) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}

	now := time.Now().UTC()
	order.IsPaid = true
	order.PaidAt = &now
	order.Attestation = attestation
	if order.Status == models.OrderStatusPending {
		order.Status = models.OrderStatusProcessing
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) AdvanceFulfillment(ctx context.Context, orderID uint, newStatus, role string) (*models.Order, error) {
	if role != "admin" {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if newStatus == models.OrderStatusCancelled {
		if err := s.cancelOrder(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}

	rank, ok := fulfillmentRank[newStatus]
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: order is cancelled", ErrInvalidTransition)
	}
	if !s.AllowBackward && rank < fulfillmentRank[order.Status] {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	order.Status = newStatus
	if newStatus == models.OrderStatusDelivered && order.DeliveredAt == nil {
		now := time.Now().UTC()
		order.DeliveredAt = &now
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Cancel(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}

	if err := s.cancelOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uint, role string) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && role != "admin" {
		return nil, fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, offset, limit)
}

func (s *OrderService) ListAllOrders(ctx context.Context, role string, offset, limit int) (int64, []models.Order, error) {
	if role != "admin" {
		return 0, nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return s.Repo.ListAllOrders(ctx, offset, limit)
}

func (s *OrderService) getOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	return order, nil
}

// cancelOrder releases every line item's stock and marks the order
// cancelled. Only pending and processing orders can be cancelled.
func (s *OrderService) cancelOrder(ctx context.Context, order *models.Order) error {
	switch order.Status {
	case models.OrderStatusPending, models.OrderStatusProcessing:
	default:
		return fmt.Errorf("%w: cannot cancel %s order", ErrInvalidTransition, order.Status)
	}

	for _, item := range order.Items {
		if err := s.Inventory.Release(ctx, item.ProductID, item.Quantity); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	order.Status = models.OrderStatusCancelled
	return s.persist(ctx, order)
}

// persist recomputes totals from the stored line items before every save,
// which keeps defensive re-saves consistent with what was actually ordered.
func (s *OrderService) persist(ctx context.Context, order *models.Order) error {
	totals := ComputeTotals(order.Items)
	order.ItemsTotal = totals.ItemsTotal
	order.Tax = totals.Tax
	order.Shipping = totals.Shipping
	order.GrandTotal = totals.GrandTotal
	return s.Repo.SaveOrder(ctx, order)
}

func (s *OrderService) releaseAll(ctx context.Context, reserved []reservation) {
	for _, res := range reserved {
		if err := s.Inventory.Release(ctx, res.productID, res.quantity); err != nil {
			logging.FromContext(ctx).Error("order_reservation_rollback_failed",
				"product_id", res.productID, "quantity", res.quantity, "error", err)
		}
	}
}
