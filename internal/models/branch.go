package models

// Branch is a store location fulfilling orders.
type Branch struct {
	BaseModel
	Name         string `json:"name"`
	AddressLine  string `json:"addressLine"`
	District     string `json:"district"`
	ContactPhone string `json:"contactPhone"`
	IsActive     bool   `json:"isActive"`
}
