package marketplace

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/marketplace"
	"github.com/shopspring/decimal"
)

// CreateListingRequest publishes a product. Title and price default to the product's.
type CreateListingRequest struct {
	Platform    string          `json:"platform" binding:"required,oneof=mercadolivre shopee amazon other"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	VariationID *uuid.UUID      `json:"variation_id"`
	ExternalID  string          `json:"external_id" binding:"max=100"`
	Title       string          `json:"title" binding:"max=200"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	Quantity    int             `json:"quantity" binding:"min=0"`
}

type UpdateListingRequest struct {
	ExternalID string          `json:"external_id" binding:"max=100"`
	Title      string          `json:"title" binding:"required,max=200"`
	Price      decimal.Decimal `json:"price" swaggertype:"string"`
	Quantity   int             `json:"quantity" binding:"min=0"`
}

type ChangeListingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active paused closed"`
}

type ListingResponse struct {
	ID           uuid.UUID       `json:"id"`
	Platform     string          `json:"platform"`
	ProductID    uuid.UUID       `json:"product_id"`
	VariationID  *uuid.UUID      `json:"variation_id,omitempty"`
	ExternalID   string          `json:"external_id,omitempty"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Status       string          `json:"status"`
	LastSyncedAt *time.Time      `json:"last_synced_at,omitempty"`
	SyncError    string          `json:"sync_error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

func toListingResponse(l *marketplace.Listing) ListingResponse {
	return ListingResponse{
		ID:           l.ID,
		Platform:     string(l.Platform),
		ProductID:    l.ProductID,
		VariationID:  l.VariationID,
		ExternalID:   l.ExternalID,
		Title:        l.Title,
		Price:        l.Price,
		Quantity:     l.Quantity,
		Status:       string(l.Status),
		LastSyncedAt: l.LastSyncedAt,
		SyncError:    l.SyncError,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
		Version:      l.Version,
	}
}
