package integration

import (
	"context"
	"net/http"

	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	ErrProviderUnavailable   = shared.NewDomainError("PROVIDER_UNAVAILABLE", "Integration provider is unreachable")
	ErrProviderRequestFailed = shared.NewDomainError("PROVIDER_ERROR", "Integration provider rejected the request")
	ErrNotEnabled            = shared.NewDomainError("INTEGRATION_DISABLED", "Integration is not enabled")
)

// Track is what a Spotify player is playing
type Track struct {
	Playing    bool   `json:"playing"`
	Name       string `json:"name,omitempty"`
	Artists    string `json:"artists,omitempty"`
	Album      string `json:"album,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	ProgressMS int    `json:"progress_ms,omitempty"`
	DurationMS int    `json:"duration_ms,omitempty"`
}

// ListingPush is the state of a listing pushed to a marketplace.
// An empty ExternalID publishes a new item.
type ListingPush struct {
	ExternalID string
	Title      string
	Price      decimal.Decimal
	Quantity   int
	Active     bool
}

// ProxyRequest is a raw call forwarded to the provider API
type ProxyRequest struct {
	Method string
	Path   string
	Body   []byte
}

// ProxyResponse is the provider answer to a ProxyRequest
type ProxyResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Gateway talks to the external provider APIs with the credentials of a Config
type Gateway interface {
	// Test performs a cheap authenticated read
	Test(ctx context.Context, cfg *Config) error
	Proxy(ctx context.Context, cfg *Config, req ProxyRequest) (*ProxyResponse, error)
	SendWhatsApp(ctx context.Context, cfg *Config, to, body string) (messageID string, err error)
	NowPlaying(ctx context.Context, cfg *Config) (*Track, error)
	PushListing(ctx context.Context, cfg *Config, listing ListingPush) (externalID string, err error)
}
