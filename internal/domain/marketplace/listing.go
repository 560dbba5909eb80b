package marketplace

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Platform is an external marketplace
type Platform string

const (
	PlatformMercadoLivre Platform = "mercadolivre"
	PlatformShopee       Platform = "shopee"
	PlatformAmazon       Platform = "amazon"
	PlatformOther        Platform = "other"
)

func (p Platform) IsValid() bool {
	switch p {
	case PlatformMercadoLivre, PlatformShopee, PlatformAmazon, PlatformOther:
		return true
	}
	return false
}

// ListingStatus is the publication state of a listing
type ListingStatus string

const (
	ListingStatusDraft  ListingStatus = "draft"
	ListingStatusActive ListingStatus = "active"
	ListingStatusPaused ListingStatus = "paused"
	ListingStatusClosed ListingStatus = "closed"
)

var listingTransitions = map[ListingStatus][]ListingStatus{
	ListingStatusDraft:  {ListingStatusActive, ListingStatusClosed},
	ListingStatusActive: {ListingStatusPaused, ListingStatusClosed},
	ListingStatusPaused: {ListingStatusActive, ListingStatusClosed},
}

// Listing is a product published on a marketplace
type Listing struct {
	shared.TenantAggregateRoot
	Platform     Platform        `gorm:"type:varchar(20);not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariationID  *uuid.UUID      `gorm:"type:uuid"`
	ExternalID   string          `gorm:"type:varchar(100)"`
	Title        string          `gorm:"type:varchar(200);not null"`
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity     int             `gorm:"not null"`
	Status       ListingStatus   `gorm:"type:varchar(20);not null;index"`
	LastSyncedAt *time.Time
	SyncError    string `gorm:"type:text"`
}

func (Listing) TableName() string {
	return "marketplace_listings"
}

// NewListing creates a draft listing
func NewListing(tenantID uuid.UUID, platform Platform, productID uuid.UUID, variationID *uuid.UUID, title string, price decimal.Decimal, quantity int) (*Listing, error) {
	if !platform.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Unknown marketplace: "+string(platform))
	}
	l := &Listing{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Platform:            platform,
		ProductID:           productID,
		VariationID:         variationID,
		Status:              ListingStatusDraft,
	}
	if err := l.apply(title, price, quantity); err != nil {
		return nil, err
	}
	return l, nil
}

// Update changes title, price and quantity of an open listing
func (l *Listing) Update(title, externalID string, price decimal.Decimal, quantity int) error {
	if l.Status == ListingStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Closed listings cannot be edited")
	}
	if err := l.apply(title, price, quantity); err != nil {
		return err
	}
	l.ExternalID = strings.TrimSpace(externalID)
	l.IncrementVersion()
	return nil
}

func (l *Listing) apply(title string, price decimal.Decimal, quantity int) error {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Listing title must have 1 to 200 characters")
	}
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Listing price must be positive")
	}
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	l.Title = title
	l.Price = price
	l.Quantity = quantity
	return nil
}

// ChangeStatus moves the listing along draft -> active <-> paused -> closed
func (l *Listing) ChangeStatus(to ListingStatus) error {
	for _, allowed := range listingTransitions[l.Status] {
		if allowed == to {
			l.Status = to
			l.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("INVALID_TRANSITION", "Cannot change listing from "+string(l.Status)+" to "+string(to))
}

// CanSync reports whether the listing is published
func (l *Listing) CanSync() bool {
	return l.Status == ListingStatusActive || l.Status == ListingStatusPaused
}

// RecordSync stores the outcome of a push to the marketplace
func (l *Listing) RecordSync(externalID string, err error, at time.Time) {
	if err != nil {
		l.SyncError = err.Error()
	} else {
		l.SyncError = ""
		l.LastSyncedAt = &at
		if externalID != "" {
			l.ExternalID = externalID
		}
	}
	l.IncrementVersion()
}
