package finance

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// versioned mimics the optimistic lock of the gorm repositories
func versioned(stored, next int) error {
	if next != stored+1 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

type memoryReceivables struct {
	finance.ReceivableRepository
	rows map[uuid.UUID]finance.AccountReceivable
}

func newMemoryReceivables() *memoryReceivables {
	return &memoryReceivables{rows: map[uuid.UUID]finance.AccountReceivable{}}
}

func (m *memoryReceivables) Create(_ context.Context, r *finance.AccountReceivable) error {
	m.rows[r.ID] = *r
	return nil
}

func (m *memoryReceivables) Save(_ context.Context, r *finance.AccountReceivable) error {
	if err := versioned(m.rows[r.ID].Version, r.Version); err != nil {
		return err
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memoryReceivables) FindByID(_ context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	r, ok := m.rows[id]
	if !ok || r.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &r, nil
}

type memoryPayables struct {
	finance.PayableRepository
	rows map[uuid.UUID]finance.AccountPayable
}

func newMemoryPayables() *memoryPayables {
	return &memoryPayables{rows: map[uuid.UUID]finance.AccountPayable{}}
}

func (m *memoryPayables) Create(_ context.Context, p *finance.AccountPayable) error {
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryPayables) Save(_ context.Context, p *finance.AccountPayable) error {
	if err := versioned(m.rows[p.ID].Version, p.Version); err != nil {
		return err
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryPayables) FindByID(_ context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	p, ok := m.rows[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

type memoryCommissionRules struct {
	finance.CommissionRuleRepository
	rows []finance.CommissionRule
}

func (m *memoryCommissionRules) FindActive(_ context.Context, tenantID uuid.UUID) ([]finance.CommissionRule, error) {
	var out []finance.CommissionRule
	for _, r := range m.rows {
		if r.TenantID == tenantID && r.IsActive {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out, nil
}

type memoryCommissions struct {
	finance.CommissionRepository
	rows map[uuid.UUID]finance.Commission
}

func newMemoryCommissions() *memoryCommissions {
	return &memoryCommissions{rows: map[uuid.UUID]finance.Commission{}}
}

func (m *memoryCommissions) Create(_ context.Context, c *finance.Commission) error {
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryCommissions) Save(_ context.Context, c *finance.Commission) error {
	if err := versioned(m.rows[c.ID].Version, c.Version); err != nil {
		return err
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryCommissions) FindByID(_ context.Context, tenantID, id uuid.UUID) (*finance.Commission, error) {
	c, ok := m.rows[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (m *memoryCommissions) FindBySource(_ context.Context, tenantID uuid.UUID, source finance.CommissionSource, sourceID uuid.UUID) ([]finance.Commission, error) {
	var out []finance.Commission
	for _, c := range m.rows {
		if c.TenantID == tenantID && c.SourceType == source && c.SourceID == sourceID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryCommissions) Summarize(_ context.Context, tenantID uuid.UUID, userID *uuid.UUID, from, to time.Time) ([]finance.CommissionSummary, error) {
	byUser := map[uuid.UUID]*finance.CommissionSummary{}
	for _, c := range m.rows {
		if c.TenantID != tenantID || (userID != nil && c.UserID != *userID) {
			continue
		}
		if c.CreatedAt.Before(from) || !c.CreatedAt.Before(to) {
			continue
		}
		s, ok := byUser[c.UserID]
		if !ok {
			s = &finance.CommissionSummary{UserID: c.UserID, Pending: decimal.Zero, Paid: decimal.Zero, Cancelled: decimal.Zero}
			byUser[c.UserID] = s
		}
		s.Count++
		switch c.Status {
		case finance.CommissionStatusPending:
			s.Pending = s.Pending.Add(c.Amount)
		case finance.CommissionStatusPaid:
			s.Paid = s.Paid.Add(c.Amount)
		case finance.CommissionStatusCancelled:
			s.Cancelled = s.Cancelled.Add(c.Amount)
		}
	}
	var out []finance.CommissionSummary
	for _, s := range byUser {
		out = append(out, *s)
	}
	return out, nil
}

type memoryPricingRules struct {
	finance.PricingRuleRepository
	rows []finance.PricingRule
}

func (m *memoryPricingRules) FindActive(_ context.Context, tenantID uuid.UUID) ([]finance.PricingRule, error) {
	var out []finance.PricingRule
	for _, r := range m.rows {
		if r.TenantID == tenantID && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

type memoryPriceHistory struct {
	finance.PriceHistoryRepository
	rows []finance.PriceHistory
}

func (m *memoryPriceHistory) Create(_ context.Context, h *finance.PriceHistory) error {
	m.rows = append(m.rows, *h)
	return nil
}

func (m *memoryPriceHistory) FindByProduct(_ context.Context, tenantID, productID uuid.UUID, _ shared.Filter) ([]finance.PriceHistory, int64, error) {
	var out []finance.PriceHistory
	for _, h := range m.rows {
		if h.TenantID == tenantID && h.ProductID == productID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

type memoryReimbursements struct {
	finance.ReimbursementRepository
	rows map[uuid.UUID]finance.ExpenseReimbursement
}

func newMemoryReimbursements() *memoryReimbursements {
	return &memoryReimbursements{rows: map[uuid.UUID]finance.ExpenseReimbursement{}}
}

func (m *memoryReimbursements) Create(_ context.Context, r *finance.ExpenseReimbursement) error {
	m.rows[r.ID] = *r
	return nil
}

func (m *memoryReimbursements) Save(_ context.Context, r *finance.ExpenseReimbursement) error {
	if err := versioned(m.rows[r.ID].Version, r.Version); err != nil {
		return err
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memoryReimbursements) FindByID(_ context.Context, tenantID, id uuid.UUID) (*finance.ExpenseReimbursement, error) {
	r, ok := m.rows[id]
	if !ok || r.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &r, nil
}

type memoryCustomers struct {
	crm.CustomerRepository
	rows map[uuid.UUID]*crm.Customer
}

func (m *memoryCustomers) FindByID(_ context.Context, tenantID, id uuid.UUID) (*crm.Customer, error) {
	c, ok := m.rows[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

type memoryProducts struct {
	catalog.ProductRepository
	rows map[uuid.UUID]*catalog.Product
}

func (m *memoryProducts) FindByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := m.rows[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

type memoryUsers struct {
	identity.UserRepository
	rows map[uuid.UUID]*identity.User
}

func (m *memoryUsers) FindByID(_ context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	u, ok := m.rows[id]
	if !ok || u.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

type memoryRoles struct {
	identity.RoleRepository
	rows map[uuid.UUID]*identity.Role
}

func (m *memoryRoles) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]identity.Role, error) {
	var out []identity.Role
	for _, id := range ids {
		if r, ok := m.rows[id]; ok && r.TenantID == tenantID {
			out = append(out, *r)
		}
	}
	return out, nil
}
