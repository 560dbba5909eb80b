package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(productRepo catalog.ProductRepository, events shared.EventPublisher, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		events:      events,
		logger:      logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, product.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	if req.CreatedBy != nil {
		product.SetCreatedBy(*req.CreatedBy)
	}
	minStock := decimal.Zero
	if req.MinStock != nil {
		minStock = *req.MinStock
	}
	if err := product.Update(req.Name, req.Description, req.Category, req.Brand, minStock); err != nil {
		return nil, err
	}
	if err := product.SetInitialPrices(valueOrZero(req.CostPrice), valueOrZero(req.SalePrice)); err != nil {
		return nil, err
	}
	product.MarkAsService(req.IsService)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product with its variations
func (s *ProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns one page of products. Filters: category, brand, status, is_service.
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	filter.Normalize()
	products, total, err := s.productRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update changes the descriptive fields of a product
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *catalog.Product) error {
		minStock := p.MinStock
		if req.MinStock != nil {
			minStock = *req.MinStock
		}
		return p.Update(req.Name, req.Description, req.Category, req.Brand, minStock)
	})
}

// ChangePrice updates cost and sale price; a sale price change is recorded in the price history
func (s *ProductService) ChangePrice(ctx context.Context, tenantID, id, userID uuid.UUID, req ChangePriceRequest) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *catalog.Product) error {
		return p.ChangePrice(req.CostPrice, req.SalePrice, userID, req.Reason)
	})
}

func (s *ProductService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, (*catalog.Product).Activate)
}

func (s *ProductService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, (*catalog.Product).Deactivate)
}

// Delete removes a product and its variations
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// AddVariation attaches a variation to a product
func (s *ProductService) AddVariation(ctx context.Context, tenantID, id uuid.UUID, req VariationRequest) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *catalog.Product) error {
		_, err := p.AddVariation(req.SKU, req.Name, req.Attributes, req.Price)
		return err
	})
}

// UpdateVariation changes a variation of a product
func (s *ProductService) UpdateVariation(ctx context.Context, tenantID, id, variationID, userID uuid.UUID, req VariationRequest) (*ProductResponse, error) {
	status := catalog.ProductStatus(req.Status)
	if status == "" {
		status = catalog.ProductStatusActive
	}
	return s.mutate(ctx, tenantID, id, func(p *catalog.Product) error {
		_, err := p.UpdateVariation(variationID, req.Name, req.Attributes, req.Price, status, userID)
		return err
	})
}

// RemoveVariation detaches a variation from a product
func (s *ProductService) RemoveVariation(ctx context.Context, tenantID, id, variationID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *catalog.Product) error {
		return p.RemoveVariation(variationID)
	})
}

func (s *ProductService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
	}
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
