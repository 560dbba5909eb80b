package handler

import (
	"github.com/gin-gonic/gin"
	kanbanapp "github.com/repairpos/backend/internal/application/kanban"
)

// KanbanHandler serves the workshop boards
type KanbanHandler struct {
	BaseHandler
	boards *kanbanapp.BoardService
}

// NewKanbanHandler creates a KanbanHandler
func NewKanbanHandler(boards *kanbanapp.BoardService) *KanbanHandler {
	return &KanbanHandler{boards: boards}
}

// Board godoc
// @ID           getKanbanBoard
// @Summary      Get a board
// @Description  Columns in order with their cards grouped by swimlane. The repairs board is the default.
// @Tags         kanban
// @Produce      json
// @Param        board query string false "Board name"
// @Success      200 {object} APIResponse[kanbanapp.BoardResponse]
// @Security     BearerAuth
// @Router       /kanban/board [get]
func (h *KanbanHandler) Board(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	board, err := h.boards.Board(c.Request.Context(), tenantID, c.Query("board"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, board)
}

// CreateColumn godoc
// @ID           createKanbanColumn
// @Summary      Add a column
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        request body kanbanapp.CreateColumnRequest true "Column"
// @Success      201 {object} APIResponse[kanbanapp.ColumnResponse]
// @Security     BearerAuth
// @Router       /kanban/columns [post]
func (h *KanbanHandler) CreateColumn(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req kanbanapp.CreateColumnRequest
	if !h.bindJSON(c, &req) {
		return
	}
	col, err := h.boards.CreateColumn(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, col)
}

// ListColumns godoc
// @ID           listKanbanColumns
// @Summary      List the columns of a board
// @Tags         kanban
// @Produce      json
// @Param        board query string false "Board name"
// @Success      200 {object} APIResponse[[]kanbanapp.ColumnResponse]
// @Security     BearerAuth
// @Router       /kanban/columns [get]
func (h *KanbanHandler) ListColumns(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	cols, err := h.boards.ListColumns(c.Request.Context(), tenantID, c.Query("board"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cols)
}

// UpdateColumn godoc
// @ID           updateKanbanColumn
// @Summary      Update a column
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        id path string true "Column ID" format(uuid)
// @Param        request body kanbanapp.UpdateColumnRequest true "Column"
// @Success      200 {object} APIResponse[kanbanapp.ColumnResponse]
// @Security     BearerAuth
// @Router       /kanban/columns/{id} [put]
func (h *KanbanHandler) UpdateColumn(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req kanbanapp.UpdateColumnRequest
	if !h.bindJSON(c, &req) {
		return
	}
	col, err := h.boards.UpdateColumn(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, col)
}

// DeleteColumn godoc
// @ID           deleteKanbanColumn
// @Summary      Delete an empty column
// @Tags         kanban
// @Param        id path string true "Column ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /kanban/columns/{id} [delete]
func (h *KanbanHandler) DeleteColumn(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.boards.DeleteColumn)
}

// ReorderColumns godoc
// @ID           reorderKanbanColumns
// @Summary      Reorder the columns of a board
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        request body kanbanapp.ReorderColumnsRequest true "Column order"
// @Success      200 {object} APIResponse[[]kanbanapp.ColumnResponse]
// @Security     BearerAuth
// @Router       /kanban/columns/order [put]
func (h *KanbanHandler) ReorderColumns(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req kanbanapp.ReorderColumnsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cols, err := h.boards.ReorderColumns(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cols)
}

// CreateCard godoc
// @ID           createKanbanCard
// @Summary      Add a card
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        request body kanbanapp.CreateCardRequest true "Card"
// @Success      201 {object} APIResponse[kanbanapp.CardResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /kanban/cards [post]
func (h *KanbanHandler) CreateCard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req kanbanapp.CreateCardRequest
	if !h.bindJSON(c, &req) {
		return
	}
	card, err := h.boards.CreateCard(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, card)
}

// GetCard godoc
// @ID           getKanbanCard
// @Summary      Get a card
// @Tags         kanban
// @Produce      json
// @Param        id path string true "Card ID" format(uuid)
// @Success      200 {object} APIResponse[kanbanapp.CardResponse]
// @Security     BearerAuth
// @Router       /kanban/cards/{id} [get]
func (h *KanbanHandler) GetCard(c *gin.Context) {
	byID(&h.BaseHandler, c, h.boards.GetCard)
}

// UpdateCard godoc
// @ID           updateKanbanCard
// @Summary      Update a card
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        id path string true "Card ID" format(uuid)
// @Param        request body kanbanapp.UpdateCardRequest true "Card"
// @Success      200 {object} APIResponse[kanbanapp.CardResponse]
// @Security     BearerAuth
// @Router       /kanban/cards/{id} [put]
func (h *KanbanHandler) UpdateCard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req kanbanapp.UpdateCardRequest
	if !h.bindJSON(c, &req) {
		return
	}
	card, err := h.boards.UpdateCard(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// DeleteCard godoc
// @ID           deleteKanbanCard
// @Summary      Delete a card
// @Tags         kanban
// @Param        id path string true "Card ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /kanban/cards/{id} [delete]
func (h *KanbanHandler) DeleteCard(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.boards.DeleteCard)
}

// MoveCard godoc
// @ID           moveKanbanCard
// @Summary      Move a card
// @Description  Moving a linked card into a column mapped to a status moves the service order too. A rejected workflow transition leaves the board unchanged.
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        id path string true "Card ID" format(uuid)
// @Param        request body kanbanapp.MoveCardRequest true "Target"
// @Success      200 {object} APIResponse[kanbanapp.MoveCardResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /kanban/cards/{id}/move [post]
func (h *KanbanHandler) MoveCard(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req kanbanapp.MoveCardRequest
	if !h.bindJSON(c, &req) {
		return
	}
	moved, err := h.boards.MoveCard(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, moved)
}
