package integrations

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/repairpos/backend/internal/domain/integration"
)

type mercadoLivreItem struct {
	Title             string  `json:"title,omitempty"`
	Price             float64 `json:"price"`
	AvailableQuantity int     `json:"available_quantity"`
	Status            string  `json:"status,omitempty"`
}

type shopeeItem struct {
	ItemID        int64   `json:"item_id,omitempty"`
	ItemName      string  `json:"item_name"`
	OriginalPrice float64 `json:"original_price"`
	NormalStock   int     `json:"normal_stock"`
	ItemStatus    string  `json:"item_status"`
}

type shopeeResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Response struct {
		ItemID int64 `json:"item_id"`
	} `json:"response"`
}

// PushListing creates or updates the marketplace item and returns its external ID
func (c *Client) PushListing(ctx context.Context, cfg *integration.Config, l integration.ListingPush) (string, error) {
	switch cfg.Provider {
	case integration.ProviderMercadoLivre:
		return c.pushMercadoLivre(ctx, cfg, l)
	case integration.ProviderShopee:
		return c.pushShopee(ctx, cfg, l)
	}
	return "", invalidRequest(fmt.Sprintf("%s does not publish listings", cfg.Provider))
}

func (c *Client) pushMercadoLivre(ctx context.Context, cfg *integration.Config, l integration.ListingPush) (string, error) {
	price, _ := l.Price.Float64()
	item := mercadoLivreItem{Price: price, AvailableQuantity: l.Quantity, Status: "paused"}
	if l.Active {
		item.Status = "active"
	}
	if l.ExternalID == "" {
		item.Title = l.Title
		var created struct {
			ID string `json:"id"`
		}
		if _, err := c.doJSON(ctx, cfg, http.MethodPost, "items", item, &created); err != nil {
			return "", err
		}
		if created.ID == "" {
			return "", fmt.Errorf("%w: response has no item id", integration.ErrProviderRequestFailed)
		}
		return created.ID, nil
	}
	// Mercado Livre rejects title edits on items that have sales
	if _, err := c.doJSON(ctx, cfg, http.MethodPut, "items/"+l.ExternalID, item, nil); err != nil {
		return "", err
	}
	return l.ExternalID, nil
}

func (c *Client) pushShopee(ctx context.Context, cfg *integration.Config, l integration.ListingPush) (string, error) {
	price, _ := l.Price.Float64()
	item := shopeeItem{ItemName: l.Title, OriginalPrice: price, NormalStock: l.Quantity, ItemStatus: "UNLIST"}
	if l.Active {
		item.ItemStatus = "NORMAL"
	}
	path := "product/add_item"
	if l.ExternalID != "" {
		id, err := strconv.ParseInt(l.ExternalID, 10, 64)
		if err != nil {
			return "", invalidRequest("Shopee item id must be numeric: " + l.ExternalID)
		}
		item.ItemID = id
		path = "product/update_item"
	}
	var out shopeeResponse
	if _, err := c.doJSON(ctx, cfg, http.MethodPost, path, item, &out); err != nil {
		return "", err
	}
	// Shopee reports business errors with HTTP 200
	if out.Error != "" {
		return "", fmt.Errorf("%w: %s: %s", integration.ErrProviderRequestFailed, out.Error, out.Message)
	}
	if l.ExternalID != "" {
		return l.ExternalID, nil
	}
	return strconv.FormatInt(out.Response.ItemID, 10), nil
}
