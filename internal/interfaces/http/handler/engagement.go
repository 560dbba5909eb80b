package handler

import (
	"github.com/gin-gonic/gin"
	gamificationapp "github.com/repairpos/backend/internal/application/gamification"
	marketplaceapp "github.com/repairpos/backend/internal/application/marketplace"
	messagingapp "github.com/repairpos/backend/internal/application/messaging"
)

// MessageHandler serves outgoing customer messages
type MessageHandler struct {
	BaseHandler
	messages *messagingapp.MessageService
}

// NewMessageHandler creates a MessageHandler
func NewMessageHandler(messages *messagingapp.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send godoc
// @ID           sendMessage
// @Summary      Send a message
// @Description  The message is logged even when delivery fails; its status tells the outcome
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        request body messagingapp.SendMessageRequest true "Message"
// @Success      201 {object} APIResponse[messagingapp.MessageResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	createFrom(&h.BaseHandler, c, h.messages.Send)
}

// Get godoc
// @ID           getMessage
// @Summary      Get a message
// @Tags         messages
// @Produce      json
// @Param        id path string true "Message ID" format(uuid)
// @Success      200 {object} APIResponse[messagingapp.MessageResponse]
// @Security     BearerAuth
// @Router       /messages/{id} [get]
func (h *MessageHandler) Get(c *gin.Context) {
	byID(&h.BaseHandler, c, h.messages.Get)
}

// List godoc
// @ID           listMessages
// @Summary      List messages
// @Tags         messages
// @Produce      json
// @Param        channel query string false "whatsapp, sms or email"
// @Param        status query string false "Delivery status"
// @Param        direction query string false "outbound or inbound"
// @Param        related_id query string false "Service order or sale" format(uuid)
// @Success      200 {object} APIResponse[[]messagingapp.MessageResponse]
// @Security     BearerAuth
// @Router       /messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	listWith(&h.BaseHandler, c, h.messages.List, "channel", "status", "direction", "related_id")
}

// ListingHandler serves marketplace listings
type ListingHandler struct {
	BaseHandler
	listings *marketplaceapp.ListingService
}

// NewListingHandler creates a ListingHandler
func NewListingHandler(listings *marketplaceapp.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// Create godoc
// @ID           createListing
// @Summary      Publish a product on a marketplace
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Param        request body marketplaceapp.CreateListingRequest true "Listing"
// @Success      201 {object} APIResponse[marketplaceapp.ListingResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketplace/listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	createFrom(&h.BaseHandler, c, h.listings.Create)
}

// Get godoc
// @ID           getListing
// @Summary      Get a listing
// @Tags         marketplace
// @Produce      json
// @Param        id path string true "Listing ID" format(uuid)
// @Success      200 {object} APIResponse[marketplaceapp.ListingResponse]
// @Security     BearerAuth
// @Router       /marketplace/listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	byID(&h.BaseHandler, c, h.listings.Get)
}

// List godoc
// @ID           listListings
// @Summary      List listings
// @Tags         marketplace
// @Produce      json
// @Param        platform query string false "Marketplace"
// @Param        status query string false "Status"
// @Param        product_id query string false "Product" format(uuid)
// @Success      200 {object} APIResponse[[]marketplaceapp.ListingResponse]
// @Security     BearerAuth
// @Router       /marketplace/listings [get]
func (h *ListingHandler) List(c *gin.Context) {
	listWith(&h.BaseHandler, c, h.listings.List, "platform", "status", "product_id")
}

// Update godoc
// @ID           updateListing
// @Summary      Update a listing
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Param        id path string true "Listing ID" format(uuid)
// @Param        request body marketplaceapp.UpdateListingRequest true "Listing"
// @Success      200 {object} APIResponse[marketplaceapp.ListingResponse]
// @Security     BearerAuth
// @Router       /marketplace/listings/{id} [put]
func (h *ListingHandler) Update(c *gin.Context) {
	updateByID(&h.BaseHandler, c, h.listings.Update)
}

// ChangeStatus godoc
// @ID           changeListingStatus
// @Summary      Pause, resume or close a listing
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Param        id path string true "Listing ID" format(uuid)
// @Param        request body marketplaceapp.ChangeListingStatusRequest true "Status"
// @Success      200 {object} APIResponse[marketplaceapp.ListingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketplace/listings/{id}/status [put]
func (h *ListingHandler) ChangeStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req marketplaceapp.ChangeListingStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	listing, err := h.listings.ChangeStatus(c.Request.Context(), tenantID, id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, listing)
}

// Delete godoc
// @ID           deleteListing
// @Summary      Delete a listing
// @Tags         marketplace
// @Param        id path string true "Listing ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /marketplace/listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.listings.Delete)
}

// Sync godoc
// @ID           syncListing
// @Summary      Push price and stock to the marketplace
// @Tags         marketplace
// @Produce      json
// @Param        id path string true "Listing ID" format(uuid)
// @Success      200 {object} APIResponse[marketplaceapp.ListingResponse]
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketplace/listings/{id}/sync [post]
func (h *ListingHandler) Sync(c *gin.Context) {
	byID(&h.BaseHandler, c, h.listings.Sync)
}

// GamificationHandler serves points, badges and the leaderboard
type GamificationHandler struct {
	BaseHandler
	gamification *gamificationapp.GamificationService
}

// NewGamificationHandler creates a GamificationHandler
func NewGamificationHandler(gamification *gamificationapp.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamification: gamification}
}

// Award godoc
// @ID           awardPoints
// @Summary      Grant or remove points by hand
// @Tags         gamification
// @Accept       json
// @Produce      json
// @Param        request body gamificationapp.AwardPointsRequest true "Award"
// @Success      201 {object} APIResponse[gamificationapp.PointEntryResponse]
// @Security     BearerAuth
// @Router       /gamification/points [post]
func (h *GamificationHandler) Award(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	var req gamificationapp.AwardPointsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.gamification.AwardManual(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// ListEntries godoc
// @ID           listPointEntries
// @Summary      Point entries of a user
// @Tags         gamification
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        reason query string false "Reason"
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Day after the last (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]gamificationapp.PointEntryResponse]
// @Security     BearerAuth
// @Router       /gamification/users/{id}/points [get]
func (h *GamificationHandler) ListEntries(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	userID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "reason", "from", "to")
	if !ok {
		return
	}
	page, err := h.gamification.ListEntries(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Progress godoc
// @ID           userProgress
// @Summary      Points and badges of a user
// @Tags         gamification
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[gamificationapp.UserProgressResponse]
// @Security     BearerAuth
// @Router       /gamification/users/{id}/progress [get]
func (h *GamificationHandler) Progress(c *gin.Context) {
	byID(&h.BaseHandler, c, h.gamification.UserProgress)
}

// MyProgress godoc
// @ID           myProgress
// @Summary      Points and badges of the current user
// @Tags         gamification
// @Produce      json
// @Success      200 {object} APIResponse[gamificationapp.UserProgressResponse]
// @Security     BearerAuth
// @Router       /gamification/me [get]
func (h *GamificationHandler) MyProgress(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	progress, err := h.gamification.UserProgress(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}

// Leaderboard godoc
// @ID           leaderboard
// @Summary      Ranking by points
// @Description  Defaults to the current month
// @Tags         gamification
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Last day (YYYY-MM-DD)"
// @Param        limit query int false "Ranking size" maximum(100)
// @Success      200 {object} APIResponse[[]gamificationapp.LeaderboardRow]
// @Security     BearerAuth
// @Router       /gamification/leaderboard [get]
func (h *GamificationHandler) Leaderboard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f gamificationapp.LeaderboardFilter
	if !h.bindQuery(c, &f) {
		return
	}
	rows, err := h.gamification.Leaderboard(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// CreateBadge godoc
// @ID           createBadge
// @Summary      Create a badge
// @Tags         gamification
// @Accept       json
// @Produce      json
// @Param        request body gamificationapp.CreateBadgeRequest true "Badge"
// @Success      201 {object} APIResponse[gamificationapp.BadgeResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /gamification/badges [post]
func (h *GamificationHandler) CreateBadge(c *gin.Context) {
	createFrom(&h.BaseHandler, c, h.gamification.CreateBadge)
}

// GetBadge godoc
// @ID           getBadge
// @Summary      Get a badge
// @Tags         gamification
// @Produce      json
// @Param        id path string true "Badge ID" format(uuid)
// @Success      200 {object} APIResponse[gamificationapp.BadgeResponse]
// @Security     BearerAuth
// @Router       /gamification/badges/{id} [get]
func (h *GamificationHandler) GetBadge(c *gin.Context) {
	byID(&h.BaseHandler, c, h.gamification.GetBadge)
}

// ListBadges godoc
// @ID           listBadges
// @Summary      List badges
// @Tags         gamification
// @Produce      json
// @Success      200 {object} APIResponse[[]gamificationapp.BadgeResponse]
// @Security     BearerAuth
// @Router       /gamification/badges [get]
func (h *GamificationHandler) ListBadges(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	badges, err := h.gamification.ListBadges(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, badges)
}

// UpdateBadge godoc
// @ID           updateBadge
// @Summary      Update a badge
// @Tags         gamification
// @Accept       json
// @Produce      json
// @Param        id path string true "Badge ID" format(uuid)
// @Param        request body gamificationapp.UpdateBadgeRequest true "Badge"
// @Success      200 {object} APIResponse[gamificationapp.BadgeResponse]
// @Security     BearerAuth
// @Router       /gamification/badges/{id} [put]
func (h *GamificationHandler) UpdateBadge(c *gin.Context) {
	updateByID(&h.BaseHandler, c, h.gamification.UpdateBadge)
}

// DeleteBadge godoc
// @ID           deleteBadge
// @Summary      Delete a badge
// @Tags         gamification
// @Param        id path string true "Badge ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /gamification/badges/{id} [delete]
func (h *GamificationHandler) DeleteBadge(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.gamification.DeleteBadge)
}
