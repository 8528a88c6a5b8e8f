package models

import "github.com/google/uuid"

// Branch notification types.
const (
	NotificationClaimRequest   = "order_claim_request"
	NotificationOrderRejected  = "order_rejected"
	NotificationOrderCancelled = "order_cancelled"
	NotificationOrderDelayed   = "order_delayed"
)

// BranchNotification is an append-only notice consumed by the branch console.
// Records are created, eventually marked read, and never deleted.
type BranchNotification struct {
	BaseModel
	BranchID   uuid.UUID  `gorm:"type:uuid;index" json:"branchId"`
	Type       string     `json:"type"`
	OrderID    uuid.UUID  `gorm:"type:uuid;index" json:"orderId"`
	DeliveryID *uuid.UUID `gorm:"type:uuid" json:"deliveryId,omitempty"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
}
