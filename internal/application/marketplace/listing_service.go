// Package marketplace manages product listings on external marketplaces
package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/integration"
	"github.com/repairpos/backend/internal/domain/marketplace"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// platformProviders maps the platforms that have an API client
var platformProviders = map[marketplace.Platform]integration.Provider{
	marketplace.PlatformMercadoLivre: integration.ProviderMercadoLivre,
	marketplace.PlatformShopee:       integration.ProviderShopee,
}

// ListingService manages marketplace listings
type ListingService struct {
	repo        marketplace.ListingRepository
	productRepo catalog.ProductRepository
	configs     integration.ConfigRepository
	gateway     integration.Gateway
	logger      *zap.Logger
	now         func() time.Time
}

// ListingServiceConfig holds the dependencies of a ListingService
type ListingServiceConfig struct {
	Repo        marketplace.ListingRepository
	ProductRepo catalog.ProductRepository
	Configs     integration.ConfigRepository
	Gateway     integration.Gateway
	Logger      *zap.Logger
}

func NewListingService(cfg ListingServiceConfig) *ListingService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		repo:        cfg.Repo,
		productRepo: cfg.ProductRepo,
		configs:     cfg.Configs,
		gateway:     cfg.Gateway,
		logger:      logger,
		now:         time.Now,
	}
}

// Create adds a draft listing for a catalog product
func (s *ListingService) Create(ctx context.Context, tenantID uuid.UUID, req CreateListingRequest) (*ListingResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	price := req.Price
	if price.IsZero() {
		if price, err = product.PriceFor(req.VariationID); err != nil {
			return nil, err
		}
	} else if req.VariationID != nil {
		if _, ok := product.Variation(*req.VariationID); !ok {
			return nil, shared.NewDomainError("VARIATION_NOT_FOUND", "Variation does not belong to the product")
		}
	}
	title := req.Title
	if title == "" {
		title = product.Name
	}
	l, err := marketplace.NewListing(tenantID, marketplace.Platform(req.Platform), product.ID, req.VariationID, title, price, req.Quantity)
	if err != nil {
		return nil, err
	}
	l.ExternalID = req.ExternalID
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	resp := toListingResponse(l)
	return &resp, nil
}

func (s *ListingService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toListingResponse(l)
	return &resp, nil
}

func (s *ListingService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ListingResponse], error) {
	filter.Normalize()
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ListingResponse, len(rows))
	for i := range rows {
		items[i] = toListingResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *ListingService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateListingRequest) (*ListingResponse, error) {
	l, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := l.Update(req.Title, req.ExternalID, req.Price, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	resp := toListingResponse(l)
	return &resp, nil
}

func (s *ListingService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*ListingResponse, error) {
	l, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := l.ChangeStatus(marketplace.ListingStatus(status)); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	resp := toListingResponse(l)
	return &resp, nil
}

// Delete removes a listing that is not live on the marketplace
func (s *ListingService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	l, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if l.Status == marketplace.ListingStatusActive {
		return shared.NewDomainError("LISTING_ACTIVE", "Pause or close the listing before deleting it")
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// Sync pushes title, price, quantity and status to the marketplace. A provider
// failure is recorded on the listing as sync_error and is not returned.
func (s *ListingService) Sync(ctx context.Context, tenantID, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !l.CanSync() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only active or paused listings can be synced")
	}
	provider, ok := platformProviders[l.Platform]
	if !ok {
		return nil, shared.NewDomainError("NO_PROVIDER", "No integration is available for "+string(l.Platform))
	}
	cfg, err := s.configs.FindByProvider(ctx, tenantID, provider)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, integration.ErrNotEnabled
		}
		return nil, err
	}
	if !cfg.Enabled {
		return nil, integration.ErrNotEnabled
	}

	externalID, pushErr := s.gateway.PushListing(ctx, cfg, integration.ListingPush{
		ExternalID: l.ExternalID,
		Title:      l.Title,
		Price:      l.Price,
		Quantity:   l.Quantity,
		Active:     l.Status == marketplace.ListingStatusActive,
	})
	l.RecordSync(externalID, pushErr, s.now())
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	if pushErr != nil {
		s.logger.Warn("Listing sync failed",
			zap.String("listing_id", l.ID.String()),
			zap.String("platform", string(l.Platform)),
			zap.Error(pushErr))
	} else {
		s.logger.Info("Listing synced",
			zap.String("listing_id", l.ID.String()),
			zap.String("external_id", l.ExternalID))
	}
	resp := toListingResponse(l)
	return &resp, nil
}

// SyncSummary counts the outcome of a batch sync
type SyncSummary struct {
	Checked int `json:"checked"`
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
	// Skipped listings have no enabled integration for their platform
	Skipped int `json:"skipped"`
}

// SyncStale pushes up to limit active listings whose last sync is older than staleAfter.
// It stops early when ctx ends and returns the context error with the partial summary.
func (s *ListingService) SyncStale(ctx context.Context, staleAfter time.Duration, limit int) (SyncSummary, error) {
	var summary SyncSummary
	listings, err := s.repo.FindStale(ctx, s.now().Add(-staleAfter), limit)
	if err != nil {
		return summary, err
	}
	for _, l := range listings {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Checked++
		resp, err := s.Sync(ctx, l.TenantID, l.ID)
		switch {
		case errors.Is(err, integration.ErrNotEnabled), shared.ErrorCode(err) == "NO_PROVIDER":
			summary.Skipped++
		case err != nil:
			summary.Failed++
			s.logger.Warn("Stale listing sync failed", zap.String("listing_id", l.ID.String()), zap.Error(err))
		case resp.SyncError != "":
			summary.Failed++
		default:
			summary.Synced++
		}
	}
	return summary, nil
}
