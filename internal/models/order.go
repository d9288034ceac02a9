package models

import (
	"time"
)

// Order status codes. The vocabulary is seeded into status_references and
// is static afterwards; COMPLETED and CANCELED are terminal.
const (
	StatusReceived   = "RECEIVED"
	StatusInProgress = "IN_PROGRESS"
	StatusReady      = "READY"
	StatusCompleted  = "COMPLETED"
	StatusCanceled   = "CANCELED"
)

// Service types. DELIVERY orders must carry a delivery address.
const (
	ServiceDineIn   = "DINE_IN"
	ServiceTakeaway = "TAKEAWAY"
	ServiceDelivery = "DELIVERY"
)

// StatusReference is the fixed status vocabulary with a display order.
type StatusReference struct {
	Code      string `gorm:"primaryKey;size:20" json:"code"`
	Label     string `gorm:"not null;size:50" json:"label"`
	SortOrder int    `gorm:"not null" json:"sortOrder"`
}

func (StatusReference) TableName() string {
	return "status_references"
}

type Order struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CustomerName    string    `gorm:"size:100" json:"customerName"`
	CustomerContact string    `gorm:"size:100" json:"customerContact"`
	Notes           string    `gorm:"size:255" json:"notes"`
	ServiceType     string    `gorm:"not null;default:'DINE_IN';size:20" json:"serviceType"`
	DeliveryAddress string    `gorm:"size:255" json:"deliveryAddress,omitempty"`
	StatusCode      string    `gorm:"not null;size:20;index" json:"status"`
	AccountID       uint      `gorm:"not null;index" json:"accountId"`
	CreatedAt       time.Time `json:"createdAt"`

	Lines []OrderLineItem `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderLineItem freezes the item's price at write time. PriceAtOrderCents
// is never recomputed from the live catalog.
type OrderLineItem struct {
	OrderID           uint  `gorm:"primaryKey" json:"orderId"`
	MenuItemID        uint  `gorm:"primaryKey" json:"menuItemId"`
	Quantity          int   `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceAtOrderCents int64 `gorm:"not null" json:"priceAtOrderCents"`
}

func (OrderLineItem) TableName() string {
	return "order_line_items"
}
