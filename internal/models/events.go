package models

import "github.com/google/uuid"

// OrderCancellation records a customer cancelling inside the allowed window.
// Created once per order, never mutated.
type OrderCancellation struct {
	BaseModel
	OrderID    uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"orderId"`
	CustomerID uuid.UUID `gorm:"type:uuid" json:"customerId"`
	Reason     string    `json:"reason"`
}

// OrderDelay records a courier flagging a late delivery.
type OrderDelay struct {
	BaseModel
	OrderID      uuid.UUID `gorm:"type:uuid;index" json:"orderId"`
	DeliveryID   uuid.UUID `gorm:"type:uuid" json:"deliveryId"`
	DelayMinutes int       `json:"delayMinutes"`
	Reason       string    `json:"reason"`
}

// DeliveryRating records the customer's rating of a completed delivery.
type DeliveryRating struct {
	BaseModel
	OrderID    uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"orderId"`
	DeliveryID uuid.UUID `gorm:"type:uuid;index" json:"deliveryId"`
	CustomerID uuid.UUID `gorm:"type:uuid" json:"customerId"`
	Rating     int       `json:"rating"`
	Reason     string    `json:"reason"`
}
