package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iyanu752/e-commerce-api/internal/domain"
	"github.com/iyanu752/e-commerce-api/internal/inventory"
	"github.com/iyanu752/e-commerce-api/internal/repository"
)

// CartService mutates the user's single cart. Stock checks here are advisory:
// they read the live product document for early feedback but reserve nothing.
// Order creation re-validates through the ledger.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the user's cart, creating an empty one on first access.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		cart = &domain.Cart{UserID: userID, Items: []domain.CartItem{}}
		if err := s.carts.Upsert(ctx, cart); err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return cart, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	product, err := s.getActiveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Adding the same product again sums quantities; the advisory check runs
	// against the combined amount, never silently capping the request.
	wanted := quantity
	if item := cart.FindItem(productID); item != nil {
		wanted += item.Quantity
	}
	if product.Stock < wanted {
		return nil, insufficientStock(product.Name)
	}

	if item := cart.FindItem(productID); item != nil {
		item.Quantity = wanted
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price, // price snapshot at add time
		})
	}

	cart.RecalculateTotal()
	if err := s.carts.Upsert(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := cart.FindItem(productID)
	if item == nil {
		return nil, ErrItemNotFound
	}

	product, err := s.getActiveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		return nil, insufficientStock(product.Name)
	}

	item.Quantity = quantity
	cart.RecalculateTotal()
	if err := s.carts.Upsert(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	cart.RecalculateTotal()
	if err := s.carts.Upsert(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

// Clear empties the cart but keeps the document, so the one-cart-per-user
// mapping survives conversion to an order.
func (s *CartService) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = []domain.CartItem{}
	cart.TotalAmount = 0
	if err := s.carts.Upsert(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) getActiveProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, ErrProductUnavailable
	}
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductUnavailable
	}
	return product, nil
}

func insufficientStock(productName string) error {
	return fmt.Errorf("%w for product: %s", inventory.ErrInsufficientStock, productName)
}
