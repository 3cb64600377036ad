package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iyanu752/e-commerce-api/internal/cache"
	"github.com/iyanu752/e-commerce-api/internal/domain"
	"github.com/iyanu752/e-commerce-api/internal/events"
	"github.com/iyanu752/e-commerce-api/internal/inventory"
	"github.com/iyanu752/e-commerce-api/internal/payment"
	"github.com/iyanu752/e-commerce-api/internal/repository"
)

// CheckoutService drives an order's payment from pending to paid or failed.
// Both outcomes are terminal for the checkout flow: a paid order keeps its
// reservation, a failed one hands it back to the ledger.
type CheckoutService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	ledger    inventory.Ledger
	gateway   payment.Gateway
	cache     cache.CatalogCache
	publisher events.Publisher
}

func NewCheckoutService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	ledger inventory.Ledger,
	gateway payment.Gateway,
	catalogCache cache.CatalogCache,
	publisher events.Publisher,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		products:  products,
		ledger:    ledger,
		gateway:   gateway,
		cache:     catalogCache,
		publisher: publisher,
	}
}

type PaymentResult struct {
	Success       bool                 `json:"success"`
	TransactionID string               `json:"transactionId"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	Message       string               `json:"message"`
	Order         *domain.Order        `json:"order"`
}

func (s *CheckoutService) ProcessPayment(ctx context.Context, userID, orderID, method string, details map[string]string) (*PaymentResult, error) {
	order, err := s.orders.GetForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	// Idempotency guard: a retried request for a paid order must not charge
	// twice, and a failed order's reservation is already gone.
	switch order.PaymentStatus {
	case domain.PaymentStatusPending:
	case domain.PaymentStatusPaid:
		return nil, ErrAlreadyPaid
	default:
		return nil, ErrPaymentClosed
	}

	// The reservation already holds the stock; this pass only guards against
	// corruption, not races — every line's product must still exist.
	for _, item := range order.Items {
		if _, err := s.products.GetByID(ctx, item.ProductID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				log.Printf("INTEGRITY: order %s references missing product %s", order.ID, item.ProductID)
				return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, item.ProductName)
			}
			return nil, err
		}
	}

	result, err := s.gateway.Charge(ctx, order.TotalAmount, method, details)
	if err != nil {
		return nil, fmt.Errorf("payment gateway error: %w", err)
	}

	if result.Success {
		order.PaymentStatus = domain.PaymentStatusPaid
		order.Status = domain.OrderStatusConfirmed
		order.PaymentMethod = method
		order.TransactionID = result.TransactionID
		if err := s.orders.ResolvePayment(ctx, order); err != nil {
			return nil, s.resolveConflict(ctx, order.ID, err)
		}

		s.publish(ctx, events.TypePaymentSucceeded, order)
		return &PaymentResult{
			Success:       true,
			TransactionID: result.TransactionID,
			PaymentStatus: domain.PaymentStatusPaid,
			Message:       "Payment processed successfully",
			Order:         order,
		}, nil
	}

	// Mark the order failed before releasing: failed is terminal, so a crash
	// between the two steps can never lead to a double release on retry. The
	// conditional write also means only the one attempt that lands the failed
	// status runs the release, even under concurrent requests.
	order.PaymentStatus = domain.PaymentStatusFailed
	if err := s.orders.ResolvePayment(ctx, order); err != nil {
		return nil, s.resolveConflict(ctx, order.ID, err)
	}
	s.releaseOrderItems(ctx, order)

	s.publish(ctx, events.TypePaymentFailed, order)
	return &PaymentResult{
		Success:       false,
		TransactionID: result.TransactionID,
		PaymentStatus: domain.PaymentStatusFailed,
		Message:       "Payment failed: " + result.Message,
		Order:         order,
	}, nil
}

// resolveConflict translates a lost payment-resolution race into the same
// error the loser would have seen had it read the order a moment later.
func (s *CheckoutService) resolveConflict(ctx context.Context, orderID string, err error) error {
	if !errors.Is(err, repository.ErrPaymentConflict) {
		return err
	}
	latest, lerr := s.orders.GetByID(ctx, orderID)
	if lerr == nil && latest.PaymentStatus == domain.PaymentStatusPaid {
		return ErrAlreadyPaid
	}
	return ErrPaymentClosed
}

// releaseOrderItems gives a failed payment's reservation back to the ledger
// so stock is not permanently lost.
func (s *CheckoutService) releaseOrderItems(ctx context.Context, order *domain.Order) {
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

// GetOrderStatus is a pure read scoped to the owning user.
func (s *CheckoutService) GetOrderStatus(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	return s.orders.GetForUser(ctx, orderID, userID)
}

func (s *CheckoutService) publish(ctx context.Context, eventType string, order *domain.Order) {
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
