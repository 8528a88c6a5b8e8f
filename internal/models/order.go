package models

import (
	"github.com/google/uuid"
)

// Order statuses. An order is terminal once delivered or rejected.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusPreparing  = "preparing"
	OrderStatusReady      = "ready"
	OrderStatusDispatched = "dispatched"
	OrderStatusDelivered  = "delivered"
	OrderStatusRejected   = "rejected"
)

// Delivery types.
const (
	DeliveryTypePickup   = "pickup"
	DeliveryTypeDelivery = "delivery"
)

// Payment methods. Cash and transfer are settled manually outside this core.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
)

type Order struct {
	BaseModel
	OrderNumber string    `gorm:"uniqueIndex" json:"orderNumber"`
	BranchID    uuid.UUID `gorm:"type:uuid;index" json:"branchId"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index" json:"customerId"`

	DeliveryType  string `json:"deliveryType"`
	PaymentMethod string `json:"paymentMethod"`
	Status        string `gorm:"index" json:"status"`

	// Assignment. DeliveryID is the courier currently holding the order.
	// DeliveryRequestedBy is a courier awaiting branch approval; it is never
	// set at the same time as DeliveryID.
	DeliveryID          *uuid.UUID `gorm:"type:uuid;index" json:"deliveryId,omitempty"`
	AssignedByBranch    bool       `json:"assignedByBranch"`
	DeliveryRequestedBy *uuid.UUID `gorm:"type:uuid" json:"deliveryRequestedBy,omitempty"`
	RequestApproved     bool       `json:"requestApproved"`

	// DeliveryReceived records the courier's "confirm received" handshake,
	// required before completing a branch-assigned order.
	DeliveryReceived bool `json:"deliveryReceived"`

	// PointsAwarded guards the delivered transition against minting loyalty
	// points more than once.
	PointsAwarded bool `json:"pointsAwarded"`

	Subtotal            float64 `json:"subtotal"`
	DeliveryFee         float64 `json:"deliveryFee"`
	Discount            float64 `json:"discount"`
	Total               float64 `json:"total"`
	TotalPointsRedeemed int     `json:"totalPointsRedeemed"`

	// Manual payment review flags, set by external collaborators.
	TransferAuthorized *bool `json:"transferAuthorized,omitempty"`
	AdminApproved      *bool `json:"adminApproved,omitempty"`

	Items []OrderItem `json:"items,omitempty"`
}

// Terminal reports whether the order can no longer change status.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusRejected
}

type OrderItem struct {
	BaseModel
	OrderID           uuid.UUID `gorm:"type:uuid;index" json:"orderId"`
	ProductID         string    `json:"productId"`
	ProductName       string    `json:"productName"`
	Quantity          int       `json:"quantity"`
	Price             float64   `json:"price"`
	PointsUsed        int       `json:"pointsUsed"`
	IsPrizeRedemption bool      `json:"isPrizeRedemption"`
}

// OrderCounter backs the sequential order number. A single row is bumped
// with an atomic UPDATE ... RETURNING so concurrent creations never collide.
type OrderCounter struct {
	Name  string `gorm:"primaryKey"`
	Value int64
}

// OrderCounterName is the row key for the order number sequence.
const OrderCounterName = "order_number"
