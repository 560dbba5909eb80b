package handler

import (
	"github.com/gin-gonic/gin"
	diagnosticapp "github.com/repairpos/backend/internal/application/diagnostic"
)

// DiagnosticHandler serves the diagnostic wizard and its decision trees
type DiagnosticHandler struct {
	BaseHandler
	wizard *diagnosticapp.WizardService
}

// NewDiagnosticHandler creates a DiagnosticHandler
func NewDiagnosticHandler(wizard *diagnosticapp.WizardService) *DiagnosticHandler {
	return &DiagnosticHandler{wizard: wizard}
}

// CreateNode godoc
// @ID           createDiagnosticNode
// @Summary      Create a wizard node
// @Tags         diagnostic
// @Accept       json
// @Produce      json
// @Param        request body diagnosticapp.NodeRequest true "Node"
// @Success      201 {object} APIResponse[diagnosticapp.NodeResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /diagnostic/nodes [post]
func (h *DiagnosticHandler) CreateNode(c *gin.Context) {
	createFrom(&h.BaseHandler, c, h.wizard.CreateNode)
}

// GetNode godoc
// @ID           getDiagnosticNode
// @Summary      Get a wizard node
// @Tags         diagnostic
// @Produce      json
// @Param        id path string true "Node ID" format(uuid)
// @Success      200 {object} APIResponse[diagnosticapp.NodeResponse]
// @Security     BearerAuth
// @Router       /diagnostic/nodes/{id} [get]
func (h *DiagnosticHandler) GetNode(c *gin.Context) {
	byID(&h.BaseHandler, c, h.wizard.GetNode)
}

// ListNodes godoc
// @ID           listDiagnosticNodes
// @Summary      List wizard nodes
// @Tags         diagnostic
// @Produce      json
// @Param        category query string false "Device category"
// @Param        kind query string false "question or solution"
// @Success      200 {object} APIResponse[[]diagnosticapp.NodeResponse]
// @Security     BearerAuth
// @Router       /diagnostic/nodes [get]
func (h *DiagnosticHandler) ListNodes(c *gin.Context) {
	listWith(&h.BaseHandler, c, h.wizard.ListNodes, "category", "kind")
}

// UpdateNode godoc
// @ID           updateDiagnosticNode
// @Summary      Update a wizard node
// @Tags         diagnostic
// @Accept       json
// @Produce      json
// @Param        id path string true "Node ID" format(uuid)
// @Param        request body diagnosticapp.NodeRequest true "Node"
// @Success      200 {object} APIResponse[diagnosticapp.NodeResponse]
// @Security     BearerAuth
// @Router       /diagnostic/nodes/{id} [put]
func (h *DiagnosticHandler) UpdateNode(c *gin.Context) {
	updateByID(&h.BaseHandler, c, h.wizard.UpdateNode)
}

// DeleteNode godoc
// @ID           deleteDiagnosticNode
// @Summary      Delete a wizard node
// @Description  Nodes still targeted by an option cannot be deleted
// @Tags         diagnostic
// @Param        id path string true "Node ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /diagnostic/nodes/{id} [delete]
func (h *DiagnosticHandler) DeleteNode(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.wizard.DeleteNode)
}

// AddOption godoc
// @ID           addDiagnosticOption
// @Summary      Add an answer to a question
// @Tags         diagnostic
// @Accept       json
// @Produce      json
// @Param        id path string true "Node ID" format(uuid)
// @Param        request body diagnosticapp.OptionRequest true "Option"
// @Success      201 {object} APIResponse[diagnosticapp.NodeResponse]
// @Security     BearerAuth
// @Router       /diagnostic/nodes/{id}/options [post]
func (h *DiagnosticHandler) AddOption(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	nodeID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req diagnosticapp.OptionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	node, err := h.wizard.AddOption(c.Request.Context(), tenantID, nodeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, node)
}

// UpdateOption godoc
// @ID           updateDiagnosticOption
// @Summary      Update an answer
// @Tags         diagnostic
// @Accept       json
// @Produce      json
// @Param        id path string true "Node ID" format(uuid)
// @Param        option_id path string true "Option ID" format(uuid)
// @Param        request body diagnosticapp.OptionRequest true "Option"
// @Success      200 {object} APIResponse[diagnosticapp.NodeResponse]
// @Security     BearerAuth
// @Router       /diagnostic/nodes/{id}/options/{option_id} [put]
func (h *DiagnosticHandler) UpdateOption(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	nodeID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	optionID, ok := h.pathID(c, "option_id")
	if !ok {
		return
	}
	var req diagnosticapp.OptionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	node, err := h.wizard.UpdateOption(c.Request.Context(), tenantID, nodeID, optionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, node)
}

// RemoveOption godoc
// @ID           removeDiagnosticOption
// @Summary      Remove an answer
// @Tags         diagnostic
// @Produce      json
// @Param        id path string true "Node ID" format(uuid)
// @Param        option_id path string true "Option ID" format(uuid)
// @Success      200 {object} APIResponse[diagnosticapp.NodeResponse]
// @Security     BearerAuth
// @Router       /diagnostic/nodes/{id}/options/{option_id} [delete]
func (h *DiagnosticHandler) RemoveOption(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	nodeID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	optionID, ok := h.pathID(c, "option_id")
	if !ok {
		return
	}
	node, err := h.wizard.RemoveOption(c.Request.Context(), tenantID, nodeID, optionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, node)
}

// Tree godoc
// @ID           diagnosticTree
// @Summary      The whole tree of a category
// @Tags         diagnostic
// @Produce      json
// @Param        category path string true "Device category"
// @Success      200 {object} APIResponse[diagnosticapp.TreeResponse]
// @Security     BearerAuth
// @Router       /diagnostic/trees/{category} [get]
func (h *DiagnosticHandler) Tree(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	tree, err := h.wizard.Tree(c.Request.Context(), tenantID, c.Param("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// Start godoc
// @ID           startDiagnostic
// @Summary      Start a wizard session
// @Description  Returns the root question of the category
// @Tags         diagnostic
// @Produce      json
// @Param        category path string true "Device category"
// @Success      200 {object} APIResponse[diagnosticapp.NodeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /diagnostic/trees/{category}/start [get]
func (h *DiagnosticHandler) Start(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	node, err := h.wizard.Start(c.Request.Context(), tenantID, c.Param("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, node)
}

// Answer godoc
// @ID           answerDiagnostic
// @Summary      Answer the current question
// @Tags         diagnostic
// @Accept       json
// @Produce      json
// @Param        request body diagnosticapp.AnswerRequest true "Answer"
// @Success      200 {object} APIResponse[diagnosticapp.AnswerResponse]
// @Security     BearerAuth
// @Router       /diagnostic/answer [post]
func (h *DiagnosticHandler) Answer(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req diagnosticapp.AnswerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.wizard.Answer(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// Walk godoc
// @ID           walkDiagnostic
// @Summary      Replay a session
// @Description  Follows the given answers from the root and returns the path taken and where it ended
// @Tags         diagnostic
// @Accept       json
// @Produce      json
// @Param        request body diagnosticapp.WalkRequest true "Answers"
// @Success      200 {object} APIResponse[diagnosticapp.WalkResponse]
// @Security     BearerAuth
// @Router       /diagnostic/walk [post]
func (h *DiagnosticHandler) Walk(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req diagnosticapp.WalkRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.wizard.Walk(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}
