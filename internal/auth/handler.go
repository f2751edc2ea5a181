package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roomtrack/backend/config"
	"github.com/roomtrack/backend/pkg/response"
	"github.com/roomtrack/backend/pkg/utils"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Handler handles auth HTTP endpoints. There is a single operator account
// configured through the environment rather than a user table.
type Handler struct {
	operator config.OperatorConfig
	jwt      *JWTService
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(operator config.OperatorConfig, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{operator: operator, jwt: jwt, logger: logger}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if req.Email != h.operator.Email || !utils.CheckPassword(req.Password, h.operator.PasswordHash) {
		h.logger.Warn("failed login attempt", zap.String("email", req.Email))
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.jwt.Generate(h.operator.Email)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		response.Internal(c, "could not create token")
		return
	}

	response.OK(c, TokenResponse{Token: token, Email: h.operator.Email})
}
