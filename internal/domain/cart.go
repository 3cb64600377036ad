package domain

import "time"

type Cart struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	UserID      string     `bson:"user_id" json:"userId"`
	Items       []CartItem `bson:"items" json:"items"`
	TotalAmount float64    `bson:"total_amount" json:"totalAmount"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
}

// CartItem holds the quantity a user intends to buy plus the catalog price at
// the moment the item was added. The quantity is advisory only; nothing is
// reserved until the cart is converted to an order.
type CartItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

// FindItem returns a pointer into Items for the given product, or nil.
func (c *Cart) FindItem(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// RecalculateTotal recomputes TotalAmount from scratch. Called after every
// mutation instead of adjusting incrementally, so the total can never drift
// from the items.
func (c *Cart) RecalculateTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.TotalAmount = total
}
