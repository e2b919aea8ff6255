package entity

import "time"

// ProductionOrder status values
const (
	OrderStatusPending   = "pending"
	OrderStatusActive    = "active"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every valid production order status.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusActive,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ProductionOrder is a unit of work for a product, quantity and due date.
type ProductionOrder struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderNumber string    `json:"order_number" gorm:"size:64;not null;uniqueIndex"`
	ProductCode string    `json:"product_code" gorm:"size:64;not null;index"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:20;not null;default:pending"`
	DueDate     time.Time `json:"due_date" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProductionOrder) TableName() string {
	return "production_orders"
}

// Terminal reports whether the order can no longer be worked on.
func (o *ProductionOrder) Terminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}
