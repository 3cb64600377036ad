package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iyanu752/e-commerce-api/internal/cache"
	"github.com/iyanu752/e-commerce-api/internal/domain"
	"github.com/iyanu752/e-commerce-api/internal/events"
	"github.com/iyanu752/e-commerce-api/internal/inventory"
	"github.com/iyanu752/e-commerce-api/internal/repository"
)

// OrderService converts carts into immutable order snapshots. The conversion
// is the system's one transaction boundary: per-item atomic reservations plus
// compensating release stand in for a multi-document transaction.
type OrderService struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	products  repository.ProductRepository
	ledger    inventory.Ledger
	cache     cache.CatalogCache
	publisher events.Publisher
}

func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	ledger inventory.Ledger,
	catalogCache cache.CatalogCache,
	publisher events.Publisher,
) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		products:  products,
		ledger:    ledger,
		cache:     catalogCache,
		publisher: publisher,
	}
}

func (s *OrderService) CreateFromCart(ctx context.Context, userID string, address domain.ShippingAddress, notes string) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Fixed processing order bounds the risk of cross-order lock ordering in
	// the store and makes the compensation sequence deterministic.
	items := append([]domain.CartItem(nil), cart.Items...)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	names := make(map[string]string, len(items))
	for _, item := range items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, item.ProductID)
		}
		if err != nil {
			return nil, err
		}
		names[item.ProductID] = product.Name
	}

	reserved, err := s.reserveAll(ctx, items, names)
	if err != nil {
		return nil, err
	}

	orderItems := make([]domain.OrderItem, len(items))
	var total float64
	for i, item := range items {
		subtotal := item.Price * float64(item.Quantity)
		orderItems[i] = domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: names[item.ProductID],
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    subtotal,
		}
		total += subtotal
	}

	order := &domain.Order{
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		Items:           orderItems,
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		ShippingAddress: address,
		Notes:           notes,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		// No order may exist with stock still held: give it all back.
		s.releaseAll(ctx, reserved)
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}
	invalidateCatalog(s.cache, productIDs...)

	// The order is authoritative from here on. Cart cleanup is best-effort
	// and can be retried idempotently.
	cart.Items = []domain.CartItem{}
	cart.TotalAmount = 0
	if err := s.carts.Upsert(ctx, cart); err != nil {
		log.Printf("order %s created but cart cleanup failed for user %s: %v", order.ID, userID, err)
	}

	s.publish(ctx, events.TypeOrderCreated, order)
	return order, nil
}

// reserveAll reserves every line or nothing: the first failure releases all
// reservations already taken in this call, in reverse order, before the error
// surfaces.
func (s *OrderService) reserveAll(ctx context.Context, items []domain.CartItem, names map[string]string) ([]domain.CartItem, error) {
	var reserved []domain.CartItem
	for _, item := range items {
		if err := s.ledger.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			s.releaseAll(ctx, reserved)
			if errors.Is(err, inventory.ErrInsufficientStock) {
				return nil, insufficientStock(names[item.ProductID])
			}
			return nil, fmt.Errorf("failed to reserve stock for product %s: %w", item.ProductID, err)
		}
		reserved = append(reserved, item)
	}
	return reserved, nil
}

func (s *OrderService) releaseAll(ctx context.Context, reserved []domain.CartItem) {
	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		if err := s.ledger.Release(ctx, item.ProductID, item.Quantity); err != nil {
			// A failed release means stock is lost; on a missing product this
			// is a data-integrity bug, not a user error.
			log.Printf("INTEGRITY: failed to release %d units of product %s: %v", item.Quantity, item.ProductID, err)
		}
	}
}

func (s *OrderService) ListForUser(ctx context.Context, userID, cursor string, limit int) (*domain.Page[domain.Order], error) {
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	orders, err := s.orders.ListByUser(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	page := domain.NewPage(orders, limit, func(o domain.Order) string { return o.ID })
	return &page, nil
}

func (s *OrderService) ListAll(ctx context.Context, cursor string, limit int) (*domain.Page[domain.Order], error) {
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	orders, err := s.orders.ListAll(ctx, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	page := domain.NewPage(orders, limit, func(o domain.Order) string { return o.ID })
	return &page, nil
}

func (s *OrderService) Get(ctx context.Context, id, userID string) (*domain.Order, error) {
	return s.orders.GetForUser(ctx, id, userID)
}

// UpdateStatus drives the fulfillment state machine. It is administrative and
// independent of the payment fields, except that cancelling an order whose
// payment is still pending hands its reservation back to the ledger.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionStatus(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, status)
	}

	if status == domain.OrderStatusCancelled && order.PaymentStatus == domain.PaymentStatusPending {
		s.releaseOrderItems(ctx, order)
	}

	order.Status = status
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	if status == domain.OrderStatusCancelled {
		s.publish(ctx, events.TypeOrderCancelled, order)
	}
	return order, nil
}

func (s *OrderService) releaseOrderItems(ctx context.Context, order *domain.Order) {
	productIDs := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		if err := s.ledger.Release(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("INTEGRITY: failed to release %d units of product %s for order %s: %v",
				item.Quantity, item.ProductID, order.ID, err)
			continue
		}
		productIDs = append(productIDs, item.ProductID)
	}
	if len(productIDs) > 0 {
		invalidateCatalog(s.cache, productIDs...)
	}
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	event := events.OrderEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %s for order %s: %v", eventType, order.ID, err)
	}
}

// newOrderNumber returns numbers like ORD-1714329600123-4F9A1C2B7. Uniqueness
// is additionally enforced by the order_number index.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
