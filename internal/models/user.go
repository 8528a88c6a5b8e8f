package models

import "github.com/google/uuid"

// User roles. Branch users carry the branch they operate.
const (
	RoleCustomer = "customer"
	RoleBranch   = "branch"
	RoleAdmin    = "admin"
	RoleDelivery = "delivery"
)

// User represents an authenticated customer, branch operator or admin.
// Couriers authenticate separately, see DeliveryUser.
type User struct {
	BaseModel
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Phone        string     `gorm:"uniqueIndex" json:"phone"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	BranchID     *uuid.UUID `gorm:"type:uuid" json:"branchId,omitempty"`
}
