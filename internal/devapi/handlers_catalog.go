package devapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/api"
	packmodel "bookstore-admin/internal/domains/pack/model"
	sectionmodel "bookstore-admin/internal/domains/section/model"
	usermodel "bookstore-admin/internal/domains/user/model"
	"bookstore-admin/internal/shared/response"
)

// ---- users ----

// ListUsers - GET /users
func (h *Handler) ListUsers(c *gin.Context) {
	p := parseListParams(c, "role", "active")
	items, total := h.store.ListUsers(p)
	c.JSON(http.StatusOK, api.Page[usermodel.User]{
		Items:      items,
		TotalCount: total,
		Page:       p.Page,
		Size:       p.Size,
	})
}

// GetUser - GET /users/:id
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.store.GetUser(c.Param("id"))
	if err != nil {
		response.NotFound(c, "The specified user does not exist")
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser - POST /users
func (h *Handler) CreateUser(c *gin.Context) {
	var req usermodel.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	user, err := h.store.CreateUser(req)
	if err != nil {
		response.InternalServerError(c, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser - PUT /users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	var req usermodel.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	user, err := h.store.UpdateUser(c.Param("id"), req)
	if err != nil {
		response.NotFound(c, "The specified user does not exist")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser - DELETE /users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.store.DeleteUser(c.Param("id")); err != nil {
		response.NotFound(c, "The specified user does not exist")
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- sections ----

// ListSections - GET /sections
func (h *Handler) ListSections(c *gin.Context) {
	p := parseListParams(c, "active")
	items, total := h.store.ListSections(p)
	c.JSON(http.StatusOK, api.Page[sectionmodel.Section]{
		Items:      items,
		TotalCount: total,
		Page:       p.Page,
		Size:       p.Size,
	})
}

// GetSection - GET /sections/:id
func (h *Handler) GetSection(c *gin.Context) {
	sec, err := h.store.GetSection(c.Param("id"))
	if err != nil {
		response.NotFound(c, "The specified section does not exist")
		return
	}
	c.JSON(http.StatusOK, sec)
}

// CreateSection - POST /sections
func (h *Handler) CreateSection(c *gin.Context) {
	var req sectionmodel.SaveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	c.JSON(http.StatusCreated, h.store.CreateSection(req))
}

// UpdateSection - PUT /sections/:id
func (h *Handler) UpdateSection(c *gin.Context) {
	var req sectionmodel.SaveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	sec, err := h.store.UpdateSection(c.Param("id"), req)
	if err != nil {
		response.NotFound(c, "The specified section does not exist")
		return
	}
	c.JSON(http.StatusOK, sec)
}

// DeleteSection - DELETE /sections/:id
func (h *Handler) DeleteSection(c *gin.Context) {
	if err := h.store.DeleteSection(c.Param("id")); err != nil {
		response.NotFound(c, "The specified section does not exist")
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- packs ----

// ListPacks - GET /packs
func (h *Handler) ListPacks(c *gin.Context) {
	p := parseListParams(c, "active")
	items, total := h.store.ListPacks(p)
	c.JSON(http.StatusOK, api.Page[packmodel.Pack]{
		Items:      items,
		TotalCount: total,
		Page:       p.Page,
		Size:       p.Size,
	})
}

// GetPack - GET /packs/:id
func (h *Handler) GetPack(c *gin.Context) {
	pk, err := h.store.GetPack(c.Param("id"))
	if err != nil {
		response.NotFound(c, "The specified pack does not exist")
		return
	}
	c.JSON(http.StatusOK, pk)
}

// CreatePack - POST /packs
func (h *Handler) CreatePack(c *gin.Context) {
	var req packmodel.SavePackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	c.JSON(http.StatusCreated, h.store.CreatePack(req))
}

// UpdatePack - PUT /packs/:id
func (h *Handler) UpdatePack(c *gin.Context) {
	var req packmodel.SavePackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	pk, err := h.store.UpdatePack(c.Param("id"), req)
	if err != nil {
		response.NotFound(c, "The specified pack does not exist")
		return
	}
	c.JSON(http.StatusOK, pk)
}

// DeletePack - DELETE /packs/:id
func (h *Handler) DeletePack(c *gin.Context) {
	if err := h.store.DeletePack(c.Param("id")); err != nil {
		response.NotFound(c, "The specified pack does not exist")
		return
	}
	c.Status(http.StatusNoContent)
}
