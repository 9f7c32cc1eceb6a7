package models

import (
	"time"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentMethodCard   = "card"
	PaymentMethodPayPal = "paypal"
	PaymentMethodCOD    = "cod"
)

// RatingAggregate is derived from the set of active reviews and is only
// written back whole by the rating recompute, never incrementally.
type RatingAggregate struct {
	Average float64 `json:"average"`
	Count   uint    `json:"count"`
	Ones    uint    `json:"1"`
	Twos    uint    `json:"2"`
	Threes  uint    `json:"3"`
	Fours   uint    `json:"4"`
	Fives   uint    `json:"5"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"        json:"id"`
	Name        string          `gorm:"not null"                        json:"name"`
	Slug        string          `gorm:"uniqueIndex;not null"            json:"slug"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       float64         `gorm:"not null;check:price >= 0"       json:"price"`
	Count       uint            `gorm:"not null;default:0"              json:"count"`
	Rating      RatingAggregate `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Address struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderItem carries a snapshot of the product taken at order creation.
// Later catalog edits must not change historical orders.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                  json:"id"`
	OrderID   uint    `gorm:"index;not null"              json:"order_id"`
	ProductID uint    `gorm:"not null"                    json:"product_id"`
	Name      string  `gorm:"not null"                    json:"name"`
	Image     string  `json:"image"`
	Price     float64 `gorm:"not null"                    json:"price"`
	Quantity  uint    `gorm:"default:1;check:quantity>0"  json:"quantity"`
	Size      string  `json:"size"`
}

type Order struct {
	ID              uint        `gorm:"primaryKey"                    json:"id"`
	Reference       string      `gorm:"uniqueIndex;not null"          json:"reference"`
	UserID          uint        `gorm:"index;not null"                json:"user_id"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"            json:"items"`
	ShippingAddress Address     `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	PaymentMethod   string      `gorm:"not null"                      json:"payment_method"`
	Notes           string      `gorm:"size:500"                      json:"notes"`
	ItemsTotal      float64     `gorm:"not null"                      json:"items_total"`
	Tax             float64     `gorm:"not null"                      json:"tax"`
	Shipping        float64     `gorm:"not null"                      json:"shipping"`
	GrandTotal      float64     `gorm:"not null"                      json:"grand_total"`
	IsPaid          bool        `gorm:"default:false"                 json:"is_paid"`
	PaidAt          *time.Time  `json:"paid_at,omitempty"`
	Attestation     string      `json:"attestation,omitempty"`
	Status          string      `gorm:"not null"                      json:"status"`
	DeliveredAt     *time.Time  `json:"delivered_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Review is soft-deleted via the Active flag so the rating history and the
// one-active-review-per-user rule can tell "withdrawn" from "never existed".
type Review struct {
	ID        uint      `gorm:"primaryKey"                                 json:"id"`
	UserID    uint      `gorm:"index:idx_review_user_product;not null"     json:"user_id"`
	ProductID uint      `gorm:"index:idx_review_user_product;not null"     json:"product_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title     string    `gorm:"not null"                                   json:"title"`
	Comment   string    `json:"comment"`
	Active    bool      `gorm:"default:true"                               json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewHelpful struct {
	ID       uint `gorm:"primaryKey"                          json:"id"`
	ReviewID uint `gorm:"uniqueIndex:idx_helpful_review_user" json:"review_id"`
	UserID   uint `gorm:"uniqueIndex:idx_helpful_review_user" json:"user_id"`
}

type Favorite struct {
	ID        uint `gorm:"primaryKey"                       json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_fav_user_product" json:"user_id"`
	ProductID uint `gorm:"uniqueIndex:idx_fav_user_product" json:"product_id"`
}
