package crm

import (
	"context"

	"github.com/google/uuid"
	appinv "github.com/repairpos/backend/internal/application/inventory"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LeadService handles the sales funnel
type LeadService struct {
	leadRepo crm.LeadRepository
	txScope  appinv.TransactionScope
	logger   *zap.Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(leadRepo crm.LeadRepository, txScope appinv.TransactionScope, logger *zap.Logger) *LeadService {
	return &LeadService{leadRepo: leadRepo, txScope: txScope, logger: logger}
}

func (s *LeadService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateLeadRequest) (*LeadResponse, error) {
	lead, err := crm.NewLead(tenantID, req.Name, req.Phone, req.Email, crm.LeadSource(req.Source), req.Interest)
	if err != nil {
		return nil, err
	}
	lead.Notes = req.Notes
	lead.AssignedTo = req.AssignedTo
	if userID != uuid.Nil {
		lead.SetCreatedBy(userID)
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

func (s *LeadService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

// List returns leads. Filters: status, source, assigned_to.
func (s *LeadService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[LeadResponse], error) {
	filter.Normalize()
	leads, total, err := s.leadRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]LeadResponse, len(leads))
	for i := range leads {
		items[i] = toLeadResponse(&leads[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *LeadService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateLeadRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := lead.Update(req.Name, req.Phone, req.Email, req.Interest, req.Notes, req.AssignedTo); err != nil {
		return nil, err
	}
	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

// ChangeStatus moves a lead to new, contacted, qualified or lost
func (s *LeadService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeLeadStatusRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	before := lead.Version
	if err := lead.ChangeStatus(crm.LeadStatus(req.Status)); err != nil {
		return nil, err
	}
	if lead.Version != before {
		if err := s.leadRepo.Save(ctx, lead); err != nil {
			return nil, err
		}
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

// Convert creates a customer from the lead and closes the lead, in one transaction
func (s *LeadService) Convert(ctx context.Context, tenantID, userID, id uuid.UUID) (*ConvertLeadResponse, error) {
	var out ConvertLeadResponse
	err := s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		lead, err := repos.LeadRepo().FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		customer, err := lead.ToCustomer()
		if err != nil {
			return err
		}
		if userID != uuid.Nil {
			customer.SetCreatedBy(userID)
		}
		if err := repos.CustomerRepo().Create(ctx, customer); err != nil {
			return err
		}
		if err := lead.MarkConverted(customer.ID); err != nil {
			return err
		}
		if err := repos.LeadRepo().Save(ctx, lead); err != nil {
			return err
		}
		out = ConvertLeadResponse{Lead: toLeadResponse(lead), Customer: ToCustomerResponse(customer)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lead converted",
		zap.String("lead_id", id.String()),
		zap.String("customer_id", out.Customer.ID.String()))
	return &out, nil
}
