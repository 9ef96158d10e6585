package model

import "github.com/google/uuid"

type CatalogAction string

const (
	ActionProductCreated CatalogAction = "product_created"
	ActionProductUpdated CatalogAction = "product_updated"
	ActionProductDeleted CatalogAction = "product_deleted"
)

// CatalogEvent is broadcast to every live dashboard after a store mutation
type CatalogEvent struct {
	Type        string        `json:"type"` // always "catalog_update"
	Action      CatalogAction `json:"action"`
	ProductID   uuid.UUID     `json:"product_id"`
	ProductName string        `json:"product_name"`
	Message     string        `json:"message"`
}

func NewCatalogEvent(action CatalogAction, p Product, message string) CatalogEvent {
	return CatalogEvent{
		Type:        "catalog_update",
		Action:      action,
		ProductID:   p.ID,
		ProductName: p.Name,
		Message:     message,
	}
}
