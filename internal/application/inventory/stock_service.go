package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockService handles stock queries, adjustments and transfers
type StockService struct {
	stockRepo   inventory.StockRepository
	productRepo catalog.ProductRepository
	txScope     TransactionScope
	logger      *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	stockRepo inventory.StockRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		stockRepo:   stockRepo,
		productRepo: productRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// MoveStock locks the stock row of key, lets fn change it and persists the row with its ledger line.
// It must run inside a TransactionScope so the lock holds until commit.
func MoveStock(
	ctx context.Context,
	repo inventory.StockRepository,
	tenantID uuid.UUID,
	key inventory.StockKey,
	fn func(*inventory.BranchStock) (*inventory.StockMovement, error),
) (*inventory.BranchStock, error) {
	stock, err := repo.FindForUpdate(ctx, tenantID, key)
	if err != nil {
		return nil, err
	}
	movement, err := fn(stock)
	if err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, stock); err != nil {
		return nil, err
	}
	if err := repo.AddMovement(ctx, movement); err != nil {
		return nil, err
	}
	return stock, nil
}

// List returns stock rows. Filters: branch_id, product_id, variation_id, low_stock (bool).
func (s *StockService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockResponse], error) {
	filter.Normalize()
	rows, total, err := s.stockRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]StockResponse, len(rows))
	for i := range rows {
		items[i] = toStockResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns the stock of a product in a branch; a product never stocked there reports zero
func (s *StockService) Get(ctx context.Context, tenantID uuid.UUID, key inventory.StockKey) (*StockResponse, error) {
	stock, err := s.stockRepo.Find(ctx, tenantID, key)
	if errors.Is(err, shared.ErrNotFound) {
		resp := toStockResponse(inventory.NewBranchStock(tenantID, key.BranchID, key.ProductID, key.VariationID))
		resp.ID = uuid.Nil
		return &resp, nil
	}
	if err != nil {
		return nil, err
	}
	resp := toStockResponse(stock)
	return &resp, nil
}

// Adjust corrects the stock after a count (Quantity) or by a signed amount (Delta)
func (s *StockService) Adjust(ctx context.Context, tenantID, userID uuid.UUID, req AdjustStockRequest) (*StockResponse, error) {
	if (req.Quantity == nil) == (req.Delta == nil) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Provide either quantity or delta")
	}
	key := inventory.StockKey{BranchID: req.BranchID, ProductID: req.ProductID, VariationID: req.VariationID}
	if err := s.checkStockable(ctx, tenantID, key); err != nil {
		return nil, err
	}
	by := optionalUser(userID)

	var stock *inventory.BranchStock
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		stock, err = MoveStock(ctx, repos.StockRepo(), tenantID, key, func(bs *inventory.BranchStock) (*inventory.StockMovement, error) {
			if req.Quantity != nil {
				return bs.AdjustTo(*req.Quantity, req.Reason, by)
			}
			return bs.Apply(inventory.MovementTypeAdjustment, *req.Delta, inventory.Reference{Type: "adjustment"}, req.Reason, by)
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		zap.String("branch_id", key.BranchID.String()),
		zap.String("product_id", key.ProductID.String()),
		zap.String("quantity", stock.Quantity.String()))
	resp := toStockResponse(stock)
	return &resp, nil
}

// SetMinQuantity sets the low stock threshold
func (s *StockService) SetMinQuantity(ctx context.Context, tenantID uuid.UUID, req SetMinQuantityRequest) (*StockResponse, error) {
	key := inventory.StockKey{BranchID: req.BranchID, ProductID: req.ProductID, VariationID: req.VariationID}
	if err := s.checkStockable(ctx, tenantID, key); err != nil {
		return nil, err
	}
	var stock *inventory.BranchStock
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		stock, err = repos.StockRepo().FindForUpdate(ctx, tenantID, key)
		if err != nil {
			return err
		}
		if err := stock.SetMinQuantity(req.MinQuantity); err != nil {
			return err
		}
		return repos.StockRepo().Save(ctx, stock)
	})
	if err != nil {
		return nil, err
	}
	resp := toStockResponse(stock)
	return &resp, nil
}

// Transfer moves stock from one branch to another in one transaction.
// Rows are locked in branch ID order so opposite transfers cannot deadlock.
func (s *StockService) Transfer(ctx context.Context, tenantID, userID uuid.UUID, req TransferRequest) (*TransferResponse, error) {
	fromKey := inventory.StockKey{BranchID: req.FromBranchID, ProductID: req.ProductID, VariationID: req.VariationID}
	toKey := inventory.StockKey{BranchID: req.ToBranchID, ProductID: req.ProductID, VariationID: req.VariationID}
	if req.FromBranchID == req.ToBranchID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and target branch must differ")
	}
	if err := s.checkStockable(ctx, tenantID, fromKey); err != nil {
		return nil, err
	}
	by := optionalUser(userID)

	var from, to *inventory.BranchStock
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.StockRepo()
		first, second := fromKey, toKey
		if req.ToBranchID.String() < req.FromBranchID.String() {
			first, second = toKey, fromKey
		}
		a, err := repo.FindForUpdate(ctx, tenantID, first)
		if err != nil {
			return err
		}
		b, err := repo.FindForUpdate(ctx, tenantID, second)
		if err != nil {
			return err
		}
		from, to = a, b
		if first != fromKey {
			from, to = b, a
		}

		out, in, err := inventory.Transfer(from, to, req.Quantity, by)
		if err != nil {
			return err
		}
		out.Reason, in.Reason = req.Reason, req.Reason
		for _, st := range []*inventory.BranchStock{from, to} {
			if err := repo.Save(ctx, st); err != nil {
				return err
			}
		}
		for _, m := range []*inventory.StockMovement{out, in} {
			if err := repo.AddMovement(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock transferred",
		zap.String("from_branch_id", req.FromBranchID.String()),
		zap.String("to_branch_id", req.ToBranchID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("quantity", req.Quantity.String()))
	return &TransferResponse{From: toStockResponse(from), To: toStockResponse(to)}, nil
}

// ListMovements returns the stock ledger. Filters: branch_id, product_id, type, reference_id.
func (s *StockService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[MovementResponse], error) {
	filter.Normalize()
	rows, total, err := s.stockRepo.FindMovements(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]MovementResponse, len(rows))
	for i := range rows {
		items[i] = toMovementResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// checkStockable verifies the product exists, holds stock and owns the variation
func (s *StockService) checkStockable(ctx context.Context, tenantID uuid.UUID, key inventory.StockKey) error {
	product, err := s.productRepo.FindByID(ctx, tenantID, key.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist")
		}
		return err
	}
	if !product.TracksStock() {
		return shared.NewDomainError("SERVICE_PRODUCT", "Service products have no stock")
	}
	if key.VariationID != nil {
		if _, ok := product.Variation(*key.VariationID); !ok {
			return shared.NewDomainError("VARIATION_NOT_FOUND", "Variation does not belong to the product")
		}
	}
	return nil
}

func optionalUser(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
