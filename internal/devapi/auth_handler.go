package devapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"bookstore-admin/internal/shared/response"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req loginRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login - POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	userID, role, ok := h.store.Authenticate(req.Email, req.Password)
	if !ok {
		response.Unauthorized(c, "Invalid email or password")
		return
	}

	access, err := h.jwt.GenerateAccessToken(userID, req.Email, role)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token")
		return
	}
	refresh, err := h.jwt.GenerateRefreshToken(userID)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{AccessToken: access, RefreshToken: refresh})
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh - POST /auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.BadRequest(c, "Missing refresh token")
		return
	}

	claims, err := h.jwt.VerifyToken(req.RefreshToken)
	if err != nil || claims.Type != "refresh" {
		response.Unauthorized(c, "Invalid refresh token")
		return
	}

	user, err := h.store.GetUser(claims.UserID)
	if err != nil {
		response.Unauthorized(c, "Unknown user")
		return
	}

	access, err := h.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token")
		return
	}
	refresh, err := h.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{AccessToken: access, RefreshToken: refresh})
}
