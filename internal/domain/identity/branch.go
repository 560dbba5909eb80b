package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// Branch is a physical store of the tenant
type Branch struct {
	shared.TenantAggregateRoot
	Code     string `gorm:"size:20;not null"`
	Name     string `gorm:"size:120;not null"`
	Address  string `gorm:"size:255"`
	Phone    string `gorm:"size:30"`
	IsActive bool   `gorm:"not null;default:true"`
}

func (Branch) TableName() string { return "branches" }

// NewBranch creates an active branch
func NewBranch(tenantID uuid.UUID, code, name string) (*Branch, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Branch code must have 1 to 20 characters")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Branch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                strings.TrimSpace(name),
		IsActive:            true,
	}, nil
}

// Update changes the descriptive fields
func (b *Branch) Update(name, address, phone string) error {
	if err := validateName(name); err != nil {
		return err
	}
	b.Name = strings.TrimSpace(name)
	b.Address = address
	b.Phone = phone
	b.IncrementVersion()
	return nil
}

func (b *Branch) Activate() error {
	if b.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Branch is already active")
	}
	b.IsActive = true
	b.IncrementVersion()
	return nil
}

func (b *Branch) Deactivate() error {
	if !b.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Branch is already inactive")
	}
	b.IsActive = false
	b.IncrementVersion()
	return nil
}

// CanDelete reports whether the branch may be removed; only inactive branches can
func (b *Branch) CanDelete() bool {
	return !b.IsActive
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 120 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 120 characters")
	}
	return nil
}
