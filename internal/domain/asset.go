package domain

import "time"

// AssetStatus enumerates lifecycle states for tracked hardware.
type AssetStatus string

const (
	AssetStatusInStock  AssetStatus = "IN_STOCK"
	AssetStatusAssigned AssetStatus = "ASSIGNED"
	AssetStatusInRepair AssetStatus = "IN_REPAIR"
	AssetStatusRetired  AssetStatus = "RETIRED"
)

// Asset models a piece of managed equipment.
type Asset struct {
	ID             string
	AssetTag       string
	Name           string
	Kind           string
	Status         AssetStatus
	AssignedUserID *string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
