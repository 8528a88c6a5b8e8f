package models

import (
	"time"

	"github.com/google/uuid"
)

// UserPoints is the per-customer loyalty balance. TotalPoints is lifetime
// earned and never decreases; AvailablePoints fluctuates with redemption.
type UserPoints struct {
	BaseModel
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"userId"`
	AvailablePoints int       `json:"availablePoints"`
	TotalPoints     int       `json:"totalPoints"`
	LastUpdated     time.Time `json:"lastUpdated"`
}
