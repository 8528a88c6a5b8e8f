package models

import "github.com/google/uuid"

// Courier account states, set by admins during onboarding.
const (
	CourierStatusPending  = "pending"
	CourierStatusApproved = "approved"
	CourierStatusRejected = "rejected"
)

// DeliveryUser is a courier attached to a branch. IsActive is the courier's
// own on/off duty toggle; Status is the admin approval state.
type DeliveryUser struct {
	BaseModel
	Name             string    `json:"name"`
	Phone            string    `gorm:"uniqueIndex" json:"phone"`
	BranchID         uuid.UUID `gorm:"type:uuid;index" json:"branchId"`
	Status           string    `json:"status"`
	IsActive         bool      `json:"isActive"`
	DeliveryCodeHash string    `json:"-"`
}
