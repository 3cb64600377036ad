package domain

import "time"

type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	Stock       int       `bson:"stock" json:"stock"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	Images      []string  `bson:"images,omitempty" json:"images,omitempty"`
	IsActive    bool      `bson:"is_active" json:"isActive"`
	CreatedBy   string    `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// ProductFilter describes a catalog listing query. Limit is the page size
// requested by the caller; repositories receive limit+1 so the extra item can
// signal a further page.
type ProductFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Cursor   string
	Limit    int
}
