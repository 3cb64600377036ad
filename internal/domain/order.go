package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Fulfillment transitions are administrative and independent of the payment
// fields. Cancellation is allowed from any state that has not shipped.
var validNextStatus = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusConfirmed: true, OrderStatusCancelled: true},
	OrderStatusConfirmed:  {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

func CanTransitionStatus(from, to OrderStatus) bool {
	return validNextStatus[from][to]
}

func (s OrderStatus) Valid() bool {
	_, ok := validNextStatus[s]
	return ok
}

// OrderItem is an immutable snapshot of a cart line taken at conversion time.
// Name and price are copied so later catalog edits cannot alter a placed order.
type OrderItem struct {
	ProductID   string  `bson:"product_id" json:"productId"`
	ProductName string  `bson:"product_name" json:"productName"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Price       float64 `bson:"price" json:"price"`
	Subtotal    float64 `bson:"subtotal" json:"subtotal"`
}

type ShippingAddress struct {
	FullName string `bson:"full_name" json:"fullName"`
	Address  string `bson:"address" json:"address"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state" json:"state"`
	ZipCode  string `bson:"zip_code" json:"zipCode"`
	Country  string `bson:"country" json:"country"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type Order struct {
	ID              string          `bson:"_id,omitempty" json:"id"`
	OrderNumber     string          `bson:"order_number" json:"orderNumber"`
	UserID          string          `bson:"user_id" json:"userId"`
	Items           []OrderItem     `bson:"items" json:"items"`
	TotalAmount     float64         `bson:"total_amount" json:"totalAmount"`
	Status          OrderStatus     `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus   `bson:"payment_status" json:"paymentStatus"`
	PaymentMethod   string          `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	TransactionID   string          `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shippingAddress"`
	Notes           string          `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updatedAt"`
}
