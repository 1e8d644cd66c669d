package devapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/api"
	bookmodel "bookstore-admin/internal/domains/book/model"
	ordermodel "bookstore-admin/internal/domains/order/model"
	"bookstore-admin/internal/shared/response"
	"bookstore-admin/pkg/jwt"
)

// Handler serves the upstream contract from the in-memory store.
type Handler struct {
	store *Store
	jwt   *jwt.Manager
}

func NewHandler(store *Store, jwtManager *jwt.Manager) *Handler {
	return &Handler{store: store, jwt: jwtManager}
}

// parseListParams reads the list query contract: zero-based page, size,
// search, sort, dir plus any resource filters named in extraFilters.
func parseListParams(c *gin.Context, extraFilters ...string) ListParams {
	p := ListParams{
		Page:    0,
		Size:    10,
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Dir:     c.DefaultQuery("dir", "asc"),
		Filters: map[string]string{},
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if v, err := strconv.Atoi(pageStr); err == nil && v >= 0 {
			p.Page = v
		}
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if v, err := strconv.Atoi(sizeStr); err == nil && v > 0 && v <= 100 {
			p.Size = v
		}
	}
	for _, key := range extraFilters {
		if v := c.Query(key); v != "" {
			p.Filters[key] = v
		}
	}
	return p
}

// ---- books ----

// ListBooks - GET /books
func (h *Handler) ListBooks(c *gin.Context) {
	p := parseListParams(c, "category", "active")
	items, total := h.store.ListBooks(p)
	c.JSON(http.StatusOK, api.Page[bookmodel.Book]{
		Items:      items,
		TotalCount: total,
		Page:       p.Page,
		Size:       p.Size,
	})
}

// GetBook - GET /books/:id
func (h *Handler) GetBook(c *gin.Context) {
	book, err := h.store.GetBook(c.Param("id"))
	if err != nil {
		response.NotFound(c, "The specified book does not exist")
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook - POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	var req bookmodel.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	book, err := h.store.CreateBook(req)
	if err != nil {
		if errors.Is(err, bookmodel.ErrISBNAlreadyExists) {
			response.Conflict(c, "This ISBN is already registered")
			return
		}
		response.InternalServerError(c, "Failed to create book")
		return
	}
	c.JSON(http.StatusCreated, book)
}

// UpdateBook - PUT /books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	var req bookmodel.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	book, err := h.store.UpdateBook(c.Param("id"), req)
	if err != nil {
		response.NotFound(c, "The specified book does not exist")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook - DELETE /books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	if err := h.store.DeleteBook(c.Param("id")); err != nil {
		response.NotFound(c, "The specified book does not exist")
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- orders ----

// ListOrders - GET /orders
func (h *Handler) ListOrders(c *gin.Context) {
	p := parseListParams(c, "status")
	if v := p.Filters["status"]; v != "" && !ordermodel.ValidStatus(v) {
		response.BadRequest(c, "Unknown order status filter")
		return
	}

	items, total := h.store.ListOrders(p)
	c.JSON(http.StatusOK, api.Page[ordermodel.Order]{
		Items:      items,
		TotalCount: total,
		Page:       p.Page,
		Size:       p.Size,
	})
}

// GetOrder - GET /orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.store.GetOrder(c.Param("id"))
	if err != nil {
		response.NotFound(c, "The specified order does not exist")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrder - PUT /orders/:id
func (h *Handler) UpdateOrder(c *gin.Context) {
	var req ordermodel.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	order, err := h.store.UpdateOrder(c.Param("id"), req)
	if err != nil {
		if errors.Is(err, ordermodel.ErrInvalidTransition) {
			response.Conflict(c, "Cancelled orders cannot change status")
			return
		}
		response.NotFound(c, "The specified order does not exist")
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder - DELETE /orders/:id
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.store.DeleteOrder(c.Param("id")); err != nil {
		response.NotFound(c, "The specified order does not exist")
		return
	}
	c.Status(http.StatusNoContent)
}
