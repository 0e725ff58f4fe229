package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NutritionFact struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is static reference data: seeded once at startup, never mutated.
type Product struct {
	ID           uint            `gorm:"primaryKey"                json:"id"`
	Name         string          `gorm:"not null"                  json:"name"`
	Subtitle     string          `gorm:"not null"                  json:"subtitle"`
	Description  string          `gorm:"not null"                  json:"description"`
	Price        float64         `gorm:"not null"                  json:"price"`
	Rating       float64         `json:"rating"`
	Reviews      uint            `json:"reviews"`
	Benefit      string          `json:"benefit"`
	Tags         []string        `gorm:"serializer:json"           json:"tags"`
	Ingredients  []string        `gorm:"serializer:json"           json:"ingredients"`
	Nutrition    []NutritionFact `gorm:"serializer:json"           json:"nutrition"`
	MRP          float64         `json:"mrp,omitempty"`
	Discount     uint            `json:"discount,omitempty"`
	PremiumPrice float64         `json:"premium_price,omitempty"`
	Image        string          `json:"image,omitempty"`
	Images       []string        `gorm:"serializer:json"           json:"images,omitempty"`
}

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"       json:"id"`
	Email        string    `gorm:"unique;not null"  json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uuid.UUID `gorm:"index;not null"  json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"        json:"expires_at"`
	Revoked   bool      `gorm:"default:false"   json:"revoked"`
}

type OrderItem struct {
	ID        uint      `gorm:"primaryKey"                 json:"id"`
	OrderID   uuid.UUID `gorm:"index;not null"             json:"order_id"`
	ProductID uint      `gorm:"not null"                   json:"product_id"`
	Name      string    `gorm:"not null"                   json:"name"`
	Price     float64   `gorm:"not null"                   json:"price"`
	Quantity  uint      `gorm:"default:1;check:quantity>0" json:"quantity"`
}

// Order is immutable once created. PayloadID ties the order back to the
// checkout hand-off that produced it; its unique index is what makes
// placing an order idempotent per checkout session.
type Order struct {
	ID            uuid.UUID   `gorm:"primaryKey"       json:"id"`
	PayloadID     uuid.UUID   `gorm:"uniqueIndex;not null" json:"payload_id"`
	OrderNumber   string      `gorm:"uniqueIndex;not null" json:"order_number"`
	TransactionID string      `gorm:"not null"         json:"transaction_id"`
	CreatedAt     time.Time   `json:"created_at"`
	Status        string      `gorm:"not null"         json:"status"`
	Total         float64     `gorm:"not null"         json:"total"`
	ItemsCount    int         `gorm:"not null"         json:"items_count"`
	PaymentMethod string      `gorm:"not null"         json:"payment_method"`
	Items         []OrderItem `json:"items"`

	// Denormalized customer/address snapshot.
	CustomerFirstName string `json:"customer_first_name"`
	CustomerLastName  string `json:"customer_last_name"`
	CustomerEmail     string `json:"customer_email"`
	CustomerPhone     string `json:"customer_phone"`
	FlatNo            string `json:"flat_no"`
	ApartmentName     string `json:"apartment_name"`
	FloorNumber       string `json:"floor_number"`
	StreetArea        string `json:"street_area"`
	Landmark          string `json:"landmark"`
	Address           string `json:"address"`
	City              string `json:"city"`
	State             string `json:"state"`
	Pincode           string `json:"pincode"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (Order) TableName() string {
	return "orders"
}
