package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appinv "github.com/repairpos/backend/internal/application/inventory"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	SaleNumberPrefix   = "VD"
	ReturnNumberPrefix = "DV"

	// ReceiptTemplate is the document template used for sale receipts
	ReceiptTemplate = "sale_receipt"

	defaultReceivableDays = 30
)

// DocumentRenderer renders a named template to PDF
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, template string, data interface{}) ([]byte, error)
}

// SaleServiceConfig holds the dependencies of SaleService
type SaleServiceConfig struct {
	SaleRepo        sales.SaleRepository
	ReturnRepo      sales.SaleReturnRepository
	ProductRepo     catalog.ProductRepository
	CustomerRepo    crm.CustomerRepository
	BranchRepo      identity.BranchRepository
	PricingRuleRepo finance.PricingRuleRepository
	TxScope         appinv.TransactionScope
	Events          shared.EventPublisher
	Renderer        DocumentRenderer
	Logger          *zap.Logger
}

// SaleService runs the point of sale: checkout, cancel, returns and receipts
type SaleService struct {
	saleRepo        sales.SaleRepository
	returnRepo      sales.SaleReturnRepository
	productRepo     catalog.ProductRepository
	customerRepo    crm.CustomerRepository
	branchRepo      identity.BranchRepository
	pricingRuleRepo finance.PricingRuleRepository
	txScope         appinv.TransactionScope
	events          shared.EventPublisher
	renderer        DocumentRenderer
	logger          *zap.Logger
	now             func() time.Time
}

// NewSaleService creates a new SaleService
func NewSaleService(cfg SaleServiceConfig) *SaleService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		saleRepo:        cfg.SaleRepo,
		returnRepo:      cfg.ReturnRepo,
		productRepo:     cfg.ProductRepo,
		customerRepo:    cfg.CustomerRepo,
		branchRepo:      cfg.BranchRepo,
		pricingRuleRepo: cfg.PricingRuleRepo,
		txScope:         cfg.TxScope,
		events:          cfg.Events,
		renderer:        cfg.Renderer,
		logger:          logger,
		now:             time.Now,
	}
}

// Create prices the lines, moves stock, stores the sale and opens a receivable for
// any unpaid balance, all in one transaction. SaleCompleted is published after commit.
func (s *SaleService) Create(ctx context.Context, tenantID, sellerID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	now := s.now()

	customerType := ""
	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, tenantID, *req.CustomerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer does not exist")
			}
			return nil, err
		}
		customerType = string(customer.Type)
	}

	items, err := s.priceLines(ctx, tenantID, customerType, req.Items, now)
	if err != nil {
		return nil, err
	}
	payments := make([]sales.PaymentInput, len(req.Payments))
	for i, p := range req.Payments {
		payments[i] = sales.PaymentInput{
			Method:       sales.PaymentMethod(p.Method),
			Amount:       p.Amount,
			Installments: p.Installments,
			Reference:    p.Reference,
		}
	}
	discount := decimal.Zero
	if req.Discount != nil {
		discount = *req.Discount
	}

	sale, err := sales.NewSale(tenantID, req.BranchID, sellerID, req.CustomerID, items, discount, payments, req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		number, err := repos.SaleRepo().NextNumber(ctx, tenantID, SaleNumberPrefix)
		if err != nil {
			return err
		}
		sale.AssignNumber(number)

		ref := inventory.Reference{Type: "sale", ID: &sale.ID}
		for _, it := range sale.Items {
			if it.IsService {
				continue
			}
			qty := it.Quantity
			key := inventory.StockKey{BranchID: sale.BranchID, ProductID: it.ProductID, VariationID: it.VariationID}
			_, err := appinv.MoveStock(ctx, repos.StockRepo(), tenantID, key, func(bs *inventory.BranchStock) (*inventory.StockMovement, error) {
				return bs.Decrease(inventory.MovementTypeSale, qty, ref, &sellerID)
			})
			if err != nil {
				return err
			}
		}

		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}

		if balance := sale.Balance(); balance.IsPositive() {
			due := now.AddDate(0, 0, defaultReceivableDays)
			if req.DueDate != nil {
				due = *req.DueDate
			}
			receivable, err := finance.NewAccountReceivable(tenantID, *sale.CustomerID, finance.ReceivableSourceSale,
				&sale.ID, balance, due, "Sale "+sale.Number)
			if err != nil {
				return err
			}
			receivable.BranchID = &sale.BranchID
			receivable.SetCreatedBy(sellerID)
			if err := repos.ReceivableRepo().Create(ctx, receivable); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sale completed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("number", sale.Number),
		zap.String("total", sale.Total.StringFixed(2)))
	s.publish(ctx, sale.GetDomainEvents()...)
	sale.ClearDomainEvents()

	resp := ToSaleResponse(sale)
	return &resp, nil
}

// priceLines loads the products once and resolves each unit price through the pricing rules
func (s *SaleService) priceLines(ctx context.Context, tenantID uuid.UUID, customerType string, lines []SaleItemRequest, now time.Time) ([]sales.ItemInput, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	products, err := s.productRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	rules, err := s.pricingRuleRepo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	items := make([]sales.ItemInput, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product "+l.ProductID.String()+" does not exist")
		}
		if !p.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product "+p.SKU+" is inactive")
		}
		base, err := p.PriceFor(l.VariationID)
		if err != nil {
			return nil, err
		}
		description := p.Name
		if l.VariationID != nil {
			v, _ := p.Variation(*l.VariationID)
			description = p.Name + " - " + v.Name
		}
		quote := finance.EvaluatePrice(rules, finance.PriceContext{
			ProductID:    p.ID,
			Category:     p.Category,
			CustomerType: customerType,
			Quantity:     l.Quantity,
			BasePrice:    base,
		}, now)

		discount := decimal.Zero
		if l.Discount != nil {
			discount = *l.Discount
		}
		items = append(items, sales.ItemInput{
			ProductID:     p.ID,
			VariationID:   l.VariationID,
			Description:   description,
			Category:      p.Category,
			IsService:     !p.TracksStock(),
			Quantity:      l.Quantity,
			ListPrice:     base,
			UnitPrice:     quote.UnitPrice,
			Discount:      discount,
			PricingRuleID: quote.RuleID,
		})
	}
	return items, nil
}

func (s *SaleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// List returns sales. Filters: branch_id, seller_id, customer_id, status, from, to.
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SaleResponse], error) {
	filter.Normalize()
	rows, total, err := s.saleRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SaleResponse, len(rows))
	for i := range rows {
		items[i] = ToSaleResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Cancel voids a sale: stock goes back to the branch and the open receivable is cancelled
func (s *SaleService) Cancel(ctx context.Context, tenantID, userID, id uuid.UUID, req CancelSaleRequest) (*SaleResponse, error) {
	var sale *sales.Sale
	err := s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := sale.Cancel(req.Reason, s.now()); err != nil {
			return err
		}

		ref := inventory.Reference{Type: "sale_cancel", ID: &sale.ID}
		for _, it := range sale.Items {
			if it.IsService {
				continue
			}
			qty := it.Quantity
			key := inventory.StockKey{BranchID: sale.BranchID, ProductID: it.ProductID, VariationID: it.VariationID}
			_, err := appinv.MoveStock(ctx, repos.StockRepo(), tenantID, key, func(bs *inventory.BranchStock) (*inventory.StockMovement, error) {
				return bs.Increase(inventory.MovementTypeReturn, qty, ref, &userID)
			})
			if err != nil {
				return err
			}
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		receivable, err := s.openReceivable(ctx, repos, tenantID, sale.ID)
		if err != nil || receivable == nil {
			return err
		}
		if err := receivable.Cancel(); err != nil {
			return err
		}
		return repos.ReceivableRepo().Save(ctx, receivable)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sale cancelled", zap.String("sale_id", id.String()), zap.String("reason", req.Reason))
	s.publish(ctx, sale.GetDomainEvents()...)
	sale.ClearDomainEvents()

	resp := ToSaleResponse(sale)
	return &resp, nil
}

// CreateReturn registers returned items, restocks them and publishes SaleReturned
func (s *SaleService) CreateReturn(ctx context.Context, tenantID, userID, saleID uuid.UUID, req CreateReturnRequest) (*SaleReturnResponse, error) {
	lines := make([]sales.ReturnLine, len(req.Items))
	for i, it := range req.Items {
		lines[i] = sales.ReturnLine{SaleItemID: it.SaleItemID, Quantity: it.Quantity}
	}

	var ret *sales.SaleReturn
	err := s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByIDForUpdate(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		receivable, err := s.openReceivable(ctx, repos, tenantID, sale.ID)
		if err != nil {
			return err
		}
		open := sales.OpenBalance{Outstanding: decimal.Zero, Collected: decimal.Zero}
		if receivable != nil {
			open.Outstanding = receivable.Outstanding()
			open.Collected = receivable.PaidAmount
		}
		ret, err = sale.RegisterReturn(lines, req.Reason, sales.PaymentMethod(req.RefundMethod), userID, open)
		if err != nil {
			return err
		}
		if ret.BalanceReduction.IsPositive() {
			if err := receivable.WriteDown(ret.BalanceReduction, s.now()); err != nil {
				return err
			}
			if err := repos.ReceivableRepo().Save(ctx, receivable); err != nil {
				return err
			}
		}
		number, err := repos.SaleReturnRepo().NextNumber(ctx, tenantID, ReturnNumberPrefix)
		if err != nil {
			return err
		}
		ret.AssignNumber(number, sale)

		ref := inventory.Reference{Type: "sale_return", ID: &ret.ID}
		for _, it := range ret.Items {
			if it.IsService {
				continue
			}
			qty := it.Quantity
			key := inventory.StockKey{BranchID: sale.BranchID, ProductID: it.ProductID, VariationID: it.VariationID}
			_, err := appinv.MoveStock(ctx, repos.StockRepo(), tenantID, key, func(bs *inventory.BranchStock) (*inventory.StockMovement, error) {
				return bs.Increase(inventory.MovementTypeReturn, qty, ref, &userID)
			})
			if err != nil {
				return err
			}
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		return repos.SaleReturnRepo().Create(ctx, ret)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sale return registered",
		zap.String("sale_id", saleID.String()),
		zap.String("return_id", ret.ID.String()),
		zap.String("credit", ret.CreditAmount.StringFixed(2)),
		zap.String("balance_reduction", ret.BalanceReduction.StringFixed(2)),
		zap.String("refund", ret.RefundAmount.StringFixed(2)))
	s.publish(ctx, ret.GetDomainEvents()...)
	ret.ClearDomainEvents()

	resp := toReturnResponse(ret)
	return &resp, nil
}

// openReceivable returns the pending or partial receivable of a sale, nil when there is none
func (s *SaleService) openReceivable(ctx context.Context, repos appinv.TransactionalRepositories, tenantID, saleID uuid.UUID) (*finance.AccountReceivable, error) {
	receivable, err := repos.ReceivableRepo().FindBySource(ctx, tenantID, finance.ReceivableSourceSale, saleID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !receivable.Status.IsOpen() {
		return nil, nil
	}
	return receivable, nil
}

func (s *SaleService) GetReturn(ctx context.Context, tenantID, id uuid.UUID) (*SaleReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toReturnResponse(ret)
	return &resp, nil
}

// ListReturns returns sale returns. Filters: sale_id, branch_id.
func (s *SaleService) ListReturns(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SaleReturnResponse], error) {
	filter.Normalize()
	rows, total, err := s.returnRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SaleReturnResponse, len(rows))
	for i := range rows {
		items[i] = toReturnResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Receipt renders the printable receipt of a sale
func (s *SaleService) Receipt(ctx context.Context, tenantID, id uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", shared.NewDomainError("PRINTING_DISABLED", "Document printing is not configured")
	}
	sale, err := s.saleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}
	view := ReceiptView{Sale: ToSaleResponse(sale), PrintedAt: s.now()}
	if branch, err := s.branchRepo.FindByID(ctx, tenantID, sale.BranchID); err == nil {
		view.BranchName, view.BranchAddress, view.BranchPhone = branch.Name, branch.Address, branch.Phone
	}
	if sale.CustomerID != nil {
		if customer, err := s.customerRepo.FindByID(ctx, tenantID, *sale.CustomerID); err == nil {
			view.CustomerName, view.CustomerDocument = customer.Name, customer.Document
		}
	}

	pdf, err := s.renderer.RenderPDF(ctx, ReceiptTemplate, view)
	if err != nil {
		s.logger.Error("Failed to render receipt", zap.String("sale_id", id.String()), zap.Error(err))
		return nil, "", err
	}
	return pdf, sale.Number + ".pdf", nil
}

func (s *SaleService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish sale events", zap.Error(err))
	}
}
