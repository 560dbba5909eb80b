package repair

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appinv "github.com/repairpos/backend/internal/application/inventory"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// ServiceOrderTemplate is the document template used for printed service orders
	ServiceOrderTemplate = "service_order"

	defaultPhotoURLTTL = 15 * time.Minute
)

// PhotoStorage keeps device photos in object storage
type PhotoStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, key string) error
}

// DocumentRenderer renders a named template to PDF
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, template string, data interface{}) ([]byte, error)
}

// ServiceOrderServiceConfig holds the dependencies of ServiceOrderService
type ServiceOrderServiceConfig struct {
	OrderRepo    repair.ServiceOrderRepository
	CustomerRepo crm.CustomerRepository
	ProductRepo  catalog.ProductRepository
	UserRepo     identity.UserRepository
	BranchRepo   identity.BranchRepository
	TxScope      appinv.TransactionScope
	Events       shared.EventPublisher
	Storage      PhotoStorage
	Renderer     DocumentRenderer
	// MaxPhotoSize limits uploads in bytes; 0 disables the check
	MaxPhotoSize int64
	PhotoURLTTL  time.Duration
	Logger       *zap.Logger
}

// ServiceOrderService manages the repair workbench
type ServiceOrderService struct {
	orderRepo    repair.ServiceOrderRepository
	customerRepo crm.CustomerRepository
	productRepo  catalog.ProductRepository
	userRepo     identity.UserRepository
	branchRepo   identity.BranchRepository
	txScope      appinv.TransactionScope
	events       shared.EventPublisher
	storage      PhotoStorage
	renderer     DocumentRenderer
	maxPhotoSize int64
	photoURLTTL  time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewServiceOrderService creates a new ServiceOrderService
func NewServiceOrderService(cfg ServiceOrderServiceConfig) *ServiceOrderService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.PhotoURLTTL
	if ttl <= 0 {
		ttl = defaultPhotoURLTTL
	}
	return &ServiceOrderService{
		orderRepo:    cfg.OrderRepo,
		customerRepo: cfg.CustomerRepo,
		productRepo:  cfg.ProductRepo,
		userRepo:     cfg.UserRepo,
		branchRepo:   cfg.BranchRepo,
		txScope:      cfg.TxScope,
		events:       cfg.Events,
		storage:      cfg.Storage,
		renderer:     cfg.Renderer,
		maxPhotoSize: cfg.MaxPhotoSize,
		photoURLTTL:  ttl,
		logger:       logger,
		now:          time.Now,
	}
}

// Create receives a device, numbers the order and writes the first history line
func (s *ServiceOrderService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateServiceOrderRequest) (*ServiceOrderResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, tenantID, req.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer does not exist")
		}
		return nil, err
	}

	order, err := repair.NewServiceOrder(tenantID, repair.Intake{
		BranchID:        req.BranchID,
		CustomerID:      req.CustomerID,
		DeviceType:      req.DeviceType,
		Brand:           req.Brand,
		Model:           req.Model,
		SerialNumber:    req.SerialNumber,
		ReportedProblem: req.ReportedProblem,
		Checklist:       req.Checklist,
		Accessories:     req.Accessories,
		PasswordNote:    req.PasswordNote,
		EstimatedCost:   req.EstimatedCost,
		Priority:        repair.Priority(req.Priority),
		DueDate:         req.DueDate,
	}, userID)
	if err != nil {
		return nil, err
	}
	if req.TechnicianID != nil {
		if err := s.checkTechnician(ctx, tenantID, *req.TechnicianID); err != nil {
			return nil, err
		}
		if err := order.AssignTechnician(*req.TechnicianID); err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		orders := repos.ServiceOrderRepo()
		number, err := orders.NextNumber(ctx, tenantID, repair.NumberPrefix)
		if err != nil {
			return err
		}
		order.AssignNumber(number)
		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		return orders.AddHistory(ctx, &repair.StatusHistory{
			TenantEntity:   shared.NewTenantEntity(tenantID),
			ServiceOrderID: order.ID,
			ToStatus:       order.Status,
			ChangedBy:      userID,
			Note:           "Device received",
			ChangedAt:      s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Service order opened",
		zap.String("service_order_id", order.ID.String()),
		zap.String("number", order.Number))
	s.publish(ctx, order)
	resp := ToServiceOrderResponse(order)
	return &resp, nil
}

// GetByID loads one order with its parts
func (s *ServiceOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ServiceOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToServiceOrderResponse(order)
	return &resp, nil
}

// List returns one page of orders. Filters: status, branch_id, technician_id, customer_id,
// priority, date_from, date_to, open (bool).
func (s *ServiceOrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ServiceOrderResponse], error) {
	filter.Normalize()
	orders, total, err := s.orderRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ServiceOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToServiceOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update edits diagnosis, costs, priority and warranty of an open order
func (s *ServiceOrderService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateServiceOrderRequest) (*ServiceOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	warranty := order.WarrantyDays
	if req.WarrantyDays != nil {
		warranty = *req.WarrantyDays
	}
	err = order.UpdateDetails(repair.Details{
		Diagnosis:     req.Diagnosis,
		EstimatedCost: req.EstimatedCost,
		FinalCost:     req.FinalCost,
		Priority:      repair.Priority(req.Priority),
		DueDate:       req.DueDate,
		Accessories:   req.Accessories,
		WarrantyDays:  warranty,
		Checklist:     req.Checklist,
	})
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToServiceOrderResponse(order)
	return &resp, nil
}

// ChangeStatus validates the transition, stores the order with its history line and
// publishes ServiceOrderStatusChanged after commit
func (s *ServiceOrderService) ChangeStatus(ctx context.Context, tenantID, userID, id uuid.UUID, req ChangeStatusRequest) (*ServiceOrderResponse, error) {
	var order *repair.ServiceOrder
	err := s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		orders := repos.ServiceOrderRepo()
		var err error
		order, err = orders.FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		history, err := order.ChangeStatus(repair.Status(req.Status), userID, req.Note, s.now())
		if err != nil {
			return err
		}
		if err := orders.Save(ctx, order); err != nil {
			return err
		}
		return orders.AddHistory(ctx, history)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Service order status changed",
		zap.String("service_order_id", order.ID.String()),
		zap.String("status", string(order.Status)))
	s.publish(ctx, order)
	resp := ToServiceOrderResponse(order)
	return &resp, nil
}

// AssignTechnician makes a user responsible for the order
func (s *ServiceOrderService) AssignTechnician(ctx context.Context, tenantID, id uuid.UUID, req AssignTechnicianRequest) (*ServiceOrderResponse, error) {
	if err := s.checkTechnician(ctx, tenantID, req.TechnicianID); err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := order.AssignTechnician(req.TechnicianID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToServiceOrderResponse(order)
	return &resp, nil
}

// AddPart records a consumed product and takes it out of the branch stock
func (s *ServiceOrderService) AddPart(ctx context.Context, tenantID, userID, id uuid.UUID, req AddPartRequest) (*ServiceOrderResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist")
		}
		return nil, err
	}
	price, err := product.PriceFor(req.VariationID)
	if err != nil {
		return nil, err
	}
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	description := product.Name
	if req.VariationID != nil {
		v, _ := product.Variation(*req.VariationID)
		description = product.Name + " - " + v.Name
	}

	var order *repair.ServiceOrder
	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		orders := repos.ServiceOrderRepo()
		var err error
		order, err = orders.FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		part, err := order.AddPart(product.ID, req.VariationID, description, req.Quantity, price, userID)
		if err != nil {
			return err
		}
		if product.TracksStock() {
			key := inventory.StockKey{BranchID: order.BranchID, ProductID: product.ID, VariationID: req.VariationID}
			ref := inventory.Reference{Type: "service_order", ID: &order.ID}
			_, err := appinv.MoveStock(ctx, repos.StockRepo(), tenantID, key, func(bs *inventory.BranchStock) (*inventory.StockMovement, error) {
				return bs.Decrease(inventory.MovementTypeRepair, part.Quantity, ref, &userID)
			})
			if err != nil {
				return err
			}
		}
		if err := orders.Save(ctx, order); err != nil {
			return err
		}
		return orders.AddPart(ctx, part)
	})
	if err != nil {
		return nil, err
	}
	resp := ToServiceOrderResponse(order)
	return &resp, nil
}

// UploadPhoto stores an image of the device and returns it with a download link
func (s *ServiceOrderService) UploadPhoto(ctx context.Context, tenantID, userID, id uuid.UUID, req UploadPhotoRequest) (*PhotoResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Photo storage is not configured")
	}
	order, err := s.orderRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	photo, err := order.NewPhoto(req.ContentType, int64(len(req.Data)), s.maxPhotoSize, req.Caption, userID)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Upload(ctx, photo.ObjectKey, req.Data, photo.ContentType); err != nil {
		s.logger.Error("Failed to upload service order photo",
			zap.String("service_order_id", id.String()),
			zap.Error(err))
		return nil, err
	}
	if err := s.orderRepo.AddPhoto(ctx, photo); err != nil {
		if delErr := s.storage.DeleteObject(ctx, photo.ObjectKey); delErr != nil {
			s.logger.Warn("Failed to remove orphan photo", zap.String("key", photo.ObjectKey), zap.Error(delErr))
		}
		return nil, err
	}
	return s.toPhotoResponse(ctx, photo)
}

// ListPhotos returns the photos of an order with fresh download links
func (s *ServiceOrderService) ListPhotos(ctx context.Context, tenantID, id uuid.UUID) ([]PhotoResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Photo storage is not configured")
	}
	photos, err := s.orderRepo.FindPhotos(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	out := make([]PhotoResponse, 0, len(photos))
	for i := range photos {
		resp, err := s.toPhotoResponse(ctx, &photos[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *ServiceOrderService) toPhotoResponse(ctx context.Context, p *repair.Photo) (*PhotoResponse, error) {
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, p.ObjectKey, s.photoURLTTL)
	if err != nil {
		return nil, err
	}
	return &PhotoResponse{
		ID:          p.ID,
		ContentType: p.ContentType,
		Size:        p.Size,
		Caption:     p.Caption,
		URL:         url,
		ExpiresAt:   expiresAt,
		UploadedBy:  p.UploadedBy,
		CreatedAt:   p.CreatedAt,
	}, nil
}

// History returns the status trail of an order, oldest first
func (s *ServiceOrderService) History(ctx context.Context, tenantID, id uuid.UUID) ([]HistoryResponse, error) {
	if _, err := s.orderRepo.FindByID(ctx, tenantID, id); err != nil {
		return nil, err
	}
	rows, err := s.orderRepo.FindHistory(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryResponse, len(rows))
	for i := range rows {
		out[i] = toHistoryResponse(&rows[i])
	}
	return out, nil
}

// Print renders the service order sheet handed to the customer
func (s *ServiceOrderService) Print(ctx context.Context, tenantID, id uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", shared.NewDomainError("PRINTING_DISABLED", "Document printing is not configured")
	}
	order, err := s.orderRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}
	history, err := s.History(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}
	view := ServiceOrderView{Order: ToServiceOrderResponse(order), History: history, PrintedAt: s.now()}
	if branch, err := s.branchRepo.FindByID(ctx, tenantID, order.BranchID); err == nil {
		view.BranchName, view.BranchAddress, view.BranchPhone = branch.Name, branch.Address, branch.Phone
	}
	if customer, err := s.customerRepo.FindByID(ctx, tenantID, order.CustomerID); err == nil {
		view.CustomerName, view.CustomerPhone, view.CustomerDoc = customer.Name, customer.Phone, customer.Document
	}
	if order.HasTechnician() {
		if user, err := s.userRepo.FindByID(ctx, tenantID, *order.TechnicianID); err == nil {
			view.TechnicianName = user.DisplayName
		}
	}

	pdf, err := s.renderer.RenderPDF(ctx, ServiceOrderTemplate, view)
	if err != nil {
		s.logger.Error("Failed to render service order", zap.String("service_order_id", id.String()), zap.Error(err))
		return nil, "", err
	}
	return pdf, order.Number + ".pdf", nil
}

// CountByStatus counts orders per status, optionally for one branch
func (s *ServiceOrderService) CountByStatus(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) (map[string]int64, error) {
	counts, err := s.orderRepo.CountByStatus(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(counts))
	for status, n := range counts {
		out[string(status)] = n
	}
	return out, nil
}

func (s *ServiceOrderService) checkTechnician(ctx context.Context, tenantID, technicianID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, tenantID, technicianID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("TECHNICIAN_NOT_FOUND", "Technician does not exist")
		}
		return err
	}
	if user.Status != identity.UserStatusActive {
		return shared.NewDomainError("TECHNICIAN_INACTIVE", "Technician is not active")
	}
	return nil
}

func (s *ServiceOrderService) publish(ctx context.Context, order *repair.ServiceOrder) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish service order events",
			zap.String("service_order_id", order.ID.String()),
			zap.Error(err))
	}
}
