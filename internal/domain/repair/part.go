package repair

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StatusHistory is one status change of a service order
type StatusHistory struct {
	shared.TenantEntity
	ServiceOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus     Status    `gorm:"type:varchar(30);not null"`
	ToStatus       Status    `gorm:"type:varchar(30);not null"`
	ChangedBy      uuid.UUID `gorm:"type:uuid"`
	Note           string    `gorm:"type:varchar(500)"`
	ChangedAt      time.Time `gorm:"not null"`
}

func (StatusHistory) TableName() string {
	return "service_order_status_history"
}

// ServiceOrderPart is a product consumed by the repair
type ServiceOrderPart struct {
	shared.TenantEntity
	ServiceOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null"`
	VariationID    *uuid.UUID      `gorm:"type:uuid"`
	Description    string          `gorm:"type:varchar(255)"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AddedBy        uuid.UUID       `gorm:"type:uuid"`
}

func (ServiceOrderPart) TableName() string {
	return "service_order_parts"
}

// AddPart records a consumed part; stock is moved by the caller
func (o *ServiceOrder) AddPart(productID uuid.UUID, variationID *uuid.UUID, description string, qty, unitPrice decimal.Decimal, by uuid.UUID) (*ServiceOrderPart, error) {
	if o.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Parts cannot be added to a closed service order")
	}
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	part := ServiceOrderPart{
		TenantEntity:   shared.NewTenantEntity(o.TenantID),
		ServiceOrderID: o.ID,
		ProductID:      productID,
		VariationID:    variationID,
		Description:    description,
		Quantity:       qty,
		UnitPrice:      unitPrice,
		AddedBy:        by,
	}
	o.Parts = append(o.Parts, part)
	o.IncrementVersion()
	return &o.Parts[len(o.Parts)-1], nil
}

// Photo is an image of the device stored in object storage
type Photo struct {
	shared.TenantEntity
	ServiceOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	ObjectKey      string    `gorm:"type:varchar(500);not null"`
	ContentType    string    `gorm:"type:varchar(100);not null"`
	Size           int64     `gorm:"not null"`
	Caption        string    `gorm:"type:varchar(255)"`
	UploadedBy     uuid.UUID `gorm:"type:uuid"`
}

func (Photo) TableName() string {
	return "service_order_photos"
}

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// NewPhoto validates the upload and derives the object key
func (o *ServiceOrder) NewPhoto(contentType string, size, maxSize int64, caption string, by uuid.UUID) (*Photo, error) {
	ext, ok := allowedPhotoTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Photos must be JPEG, PNG or WebP")
	}
	if size <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE", "Photo is empty")
	}
	if maxSize > 0 && size > maxSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "Photo exceeds the maximum upload size")
	}
	p := &Photo{
		TenantEntity:   shared.NewTenantEntity(o.TenantID),
		ServiceOrderID: o.ID,
		ContentType:    contentType,
		Size:           size,
		Caption:        caption,
		UploadedBy:     by,
	}
	p.ObjectKey = o.TenantID.String() + "/service-orders/" + o.ID.String() + "/" + p.ID.String() + ext
	return p, nil
}
