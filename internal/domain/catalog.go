package domain

import "time"

// CatalogItem is an orderable entry in the service catalog. Requesting an
// item opens an incident pre-filled from the item's defaults.
type CatalogItem struct {
	ID              string
	Name            string
	Description     string
	Category        string
	DefaultPriority IncidentPriority
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
