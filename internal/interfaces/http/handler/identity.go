package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/repairpos/backend/internal/application/identity"
)

// IdentityHandler serves branches, roles and users
type IdentityHandler struct {
	BaseHandler
	branches *identityapp.BranchService
	roles    *identityapp.RoleService
	users    *identityapp.UserService
}

// NewIdentityHandler creates an IdentityHandler
func NewIdentityHandler(branches *identityapp.BranchService, roles *identityapp.RoleService, users *identityapp.UserService) *IdentityHandler {
	return &IdentityHandler{branches: branches, roles: roles, users: users}
}

// BranchRequest creates or updates a branch; code is ignored on update
type BranchRequest struct {
	Code    string `json:"code" binding:"max=20" example:"CENTRO"`
	Name    string `json:"name" binding:"required,max=100" example:"Loja Centro"`
	Address string `json:"address" binding:"max=255"`
	Phone   string `json:"phone" binding:"max=30"`
}

// RoleRequest creates or updates a role; code and permissions are used on create only
type RoleRequest struct {
	Code        string   `json:"code" binding:"max=50" example:"technician"`
	Name        string   `json:"name" binding:"required,max=100" example:"Technician"`
	Description string   `json:"description" binding:"max=255"`
	Permissions []string `json:"permissions" example:"repair:read,repair:update"`
}

// PermissionsRequest replaces the permission codes of a role
type PermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// CreateUserRequest creates a user
type CreateUserRequest struct {
	Username    string      `json:"username" binding:"required,min=3,max=100"`
	Password    string      `json:"password" binding:"required,min=8,max=128"`
	DisplayName string      `json:"display_name" binding:"max=100"`
	Email       string      `json:"email" binding:"omitempty,email,max=200"`
	Phone       string      `json:"phone" binding:"max=30"`
	BranchID    *uuid.UUID  `json:"branch_id"`
	RoleIDs     []uuid.UUID `json:"role_ids"`
}

// UpdateUserRequest updates a user profile
type UpdateUserRequest struct {
	DisplayName string     `json:"display_name" binding:"max=100"`
	Email       string     `json:"email" binding:"omitempty,email,max=200"`
	Phone       string     `json:"phone" binding:"max=30"`
	BranchID    *uuid.UUID `json:"branch_id"`
}

// AssignRolesRequest replaces the roles of a user
type AssignRolesRequest struct {
	RoleIDs []uuid.UUID `json:"role_ids" binding:"required"`
}

// ChangePasswordRequest changes a password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// CreateBranch godoc
// @ID           createBranch
// @Summary      Create a branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        request body BranchRequest true "Branch"
// @Success      201 {object} APIResponse[identityapp.BranchDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /branches [post]
func (h *IdentityHandler) CreateBranch(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req BranchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.Code == "" {
		h.BadRequest(c, "code is required")
		return
	}
	branch, err := h.branches.Create(c.Request.Context(), tenantID, identityapp.CreateBranchInput{
		Code: req.Code, Name: req.Name, Address: req.Address, Phone: req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, branch)
}

// GetBranch godoc
// @ID           getBranch
// @Summary      Get a branch
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.BranchDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /branches/{id} [get]
func (h *IdentityHandler) GetBranch(c *gin.Context) {
	byID(&h.BaseHandler, c, h.branches.GetByID)
}

// ListBranches godoc
// @ID           listBranches
// @Summary      List branches
// @Tags         branches
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]identityapp.BranchDTO]
// @Security     BearerAuth
// @Router       /branches [get]
func (h *IdentityHandler) ListBranches(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "is_active")
	if !ok {
		return
	}
	page, err := h.branches.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// UpdateBranch godoc
// @ID           updateBranch
// @Summary      Update a branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Param        request body BranchRequest true "Branch"
// @Success      200 {object} APIResponse[identityapp.BranchDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /branches/{id} [put]
func (h *IdentityHandler) UpdateBranch(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req BranchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	branch, err := h.branches.Update(c.Request.Context(), tenantID, id, identityapp.UpdateBranchInput{
		Name: req.Name, Address: req.Address, Phone: req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branch)
}

// ActivateBranch godoc
// @ID           activateBranch
// @Summary      Activate a branch
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.BranchDTO]
// @Security     BearerAuth
// @Router       /branches/{id}/activate [post]
func (h *IdentityHandler) ActivateBranch(c *gin.Context) {
	byID(&h.BaseHandler, c, h.branches.Activate)
}

// DeactivateBranch godoc
// @ID           deactivateBranch
// @Summary      Deactivate a branch
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.BranchDTO]
// @Security     BearerAuth
// @Router       /branches/{id}/deactivate [post]
func (h *IdentityHandler) DeactivateBranch(c *gin.Context) {
	byID(&h.BaseHandler, c, h.branches.Deactivate)
}

// DeleteBranch godoc
// @ID           deleteBranch
// @Summary      Delete an inactive branch
// @Tags         branches
// @Param        id path string true "Branch ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /branches/{id} [delete]
func (h *IdentityHandler) DeleteBranch(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.branches.Delete)
}

// CreateRole godoc
// @ID           createRole
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        request body RoleRequest true "Role"
// @Success      201 {object} APIResponse[identityapp.RoleDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /roles [post]
func (h *IdentityHandler) CreateRole(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req RoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.Code == "" {
		h.BadRequest(c, "code is required")
		return
	}
	role, err := h.roles.Create(c.Request.Context(), tenantID, identityapp.CreateRoleInput{
		Code: req.Code, Name: req.Name, Description: req.Description, Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, role)
}

// GetRole godoc
// @ID           getRole
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.RoleDTO]
// @Security     BearerAuth
// @Router       /roles/{id} [get]
func (h *IdentityHandler) GetRole(c *gin.Context) {
	byID(&h.BaseHandler, c, h.roles.GetByID)
}

// ListRoles godoc
// @ID           listRoles
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        is_system query bool false "System roles only"
// @Success      200 {object} APIResponse[[]identityapp.RoleDTO]
// @Security     BearerAuth
// @Router       /roles [get]
func (h *IdentityHandler) ListRoles(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "is_system")
	if !ok {
		return
	}
	page, err := h.roles.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// UpdateRole godoc
// @ID           updateRole
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Param        request body RoleRequest true "Role"
// @Success      200 {object} APIResponse[identityapp.RoleDTO]
// @Security     BearerAuth
// @Router       /roles/{id} [put]
func (h *IdentityHandler) UpdateRole(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req RoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	role, err := h.roles.Update(c.Request.Context(), tenantID, id, identityapp.UpdateRoleInput{
		Name: req.Name, Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// SetRolePermissions godoc
// @ID           setRolePermissions
// @Summary      Replace the permissions of a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Param        request body PermissionsRequest true "Permission codes"
// @Success      200 {object} APIResponse[identityapp.RoleDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /roles/{id}/permissions [put]
func (h *IdentityHandler) SetRolePermissions(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req PermissionsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	role, err := h.roles.SetPermissions(c.Request.Context(), tenantID, id, req.Permissions)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// DeleteRole godoc
// @ID           deleteRole
// @Summary      Delete a role
// @Description  System roles cannot be deleted
// @Tags         roles
// @Param        id path string true "Role ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /roles/{id} [delete]
func (h *IdentityHandler) DeleteRole(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.roles.Delete)
}

// CreateUser godoc
// @ID           createUser
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User"
// @Success      201 {object} APIResponse[identityapp.UserDTO]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *IdentityHandler) CreateUser(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.users.Create(c.Request.Context(), tenantID, identityapp.CreateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		BranchID:    req.BranchID,
		RoleIDs:     req.RoleIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// GetUser godoc
// @ID           getUser
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *IdentityHandler) GetUser(c *gin.Context) {
	byID(&h.BaseHandler, c, h.users.GetByID)
}

// ListUsers godoc
// @ID           listUsers
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        search query string false "Username or name"
// @Param        status query string false "active, inactive or locked"
// @Param        branch_id query string false "Branch" format(uuid)
// @Success      200 {object} APIResponse[[]identityapp.UserDTO]
// @Security     BearerAuth
// @Router       /users [get]
func (h *IdentityHandler) ListUsers(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "status", "branch_id")
	if !ok {
		return
	}
	page, err := h.users.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// UpdateUser godoc
// @ID           updateUser
// @Summary      Update a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body UpdateUserRequest true "Profile"
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *IdentityHandler) UpdateUser(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.users.Update(c.Request.Context(), tenantID, id, identityapp.UpdateUserInput{
		DisplayName: req.DisplayName, Email: req.Email, Phone: req.Phone, BranchID: req.BranchID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// AssignRoles godoc
// @ID           assignUserRoles
// @Summary      Replace the roles of a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body AssignRolesRequest true "Role IDs"
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Security     BearerAuth
// @Router       /users/{id}/roles [put]
func (h *IdentityHandler) AssignRoles(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req AssignRolesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.users.AssignRoles(c.Request.Context(), tenantID, id, req.RoleIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword godoc
// @ID           changeUserPassword
// @Summary      Change a password
// @Tags         users
// @Accept       json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body ChangePasswordRequest true "Passwords"
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/password [put]
func (h *IdentityHandler) ChangePassword(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	err := h.users.ChangePassword(c.Request.Context(), tenantID, id, identityapp.ChangePasswordInput{
		OldPassword: req.OldPassword, NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ActivateUser godoc
// @ID           activateUser
// @Summary      Activate a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Security     BearerAuth
// @Router       /users/{id}/activate [post]
func (h *IdentityHandler) ActivateUser(c *gin.Context) {
	byID(&h.BaseHandler, c, h.users.Activate)
}

// DeactivateUser godoc
// @ID           deactivateUser
// @Summary      Deactivate a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [post]
func (h *IdentityHandler) DeactivateUser(c *gin.Context) {
	byID(&h.BaseHandler, c, h.users.Deactivate)
}
