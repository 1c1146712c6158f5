package auth

import (
	"errors"
	"net/http"

	"boletamaster/internal/shared/middleware"
	"boletamaster/internal/shared/utils/response"
	"boletamaster/internal/shared/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// failure maps a sentinel error to the status and message shown to callers
type failure struct {
	err     error
	status  int
	message string
}

var (
	registerFailures = []failure{
		{ErrUserAlreadyExists, http.StatusConflict, "User with this email already exists"},
		{ErrRoleNotAllowed, http.StatusBadRequest, "Role must be CLIENT or ORGANIZER"},
	}
	loginFailures = []failure{
		{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	}
	refreshFailures = []failure{
		{ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired refresh token"},
		{ErrTokenExpired, http.StatusUnauthorized, "Invalid or expired refresh token"},
		{ErrUserNotFound, http.StatusUnauthorized, "User not found"},
	}
	passwordFailures = []failure{
		{ErrInvalidCredentials, http.StatusUnauthorized, "Current password is incorrect"},
		{ErrUserNotFound, http.StatusNotFound, "User not found"},
	}
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	v := validator.New()
	validation.RegisterOn(v)
	return &Controller{service: service, validator: v}
}

// bind decodes and validates the JSON body, answering 400 on failure
func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return false
	}
	return true
}

// fail answers with the first matching failure, or falls back to the error kind
func fail(ctx *gin.Context, fallback string, err error, known []failure) {
	for _, f := range known {
		if errors.Is(err, f.err) {
			response.RespondJSON(ctx, "error", f.status, f.message, nil, nil)
			return
		}
	}
	response.RespondError(ctx, fallback, err)
}

// Register handles POST /api/v1/auth/register
func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		fail(ctx, "Failed to register user", err, registerFailures)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "User registered successfully", resp, nil)
}

// Login handles POST /api/v1/auth/login
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		fail(ctx, "Failed to login", err, loginFailures)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Login successful", resp, nil)
}

// RefreshToken handles POST /api/v1/auth/refresh
func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if !c.bind(ctx, &req) {
		return
	}

	pair, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(ctx, "Failed to refresh token", err, refreshFailures)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Token refreshed successfully", pair, nil)
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless, the client discards them.
func (c *Controller) Logout(ctx *gin.Context) {
	response.RespondJSON(ctx, "success", http.StatusOK, "Logged out successfully", nil, nil)
}

// ChangePassword handles PUT /api/v1/auth/change-password
func (c *Controller) ChangePassword(ctx *gin.Context) {
	userID, err := middleware.CurrentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req ChangePasswordRequest
	if !c.bind(ctx, &req) {
		return
	}

	if err := c.service.ChangePassword(ctx.Request.Context(), userID.String(), &req); err != nil {
		fail(ctx, "Failed to change password", err, passwordFailures)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Password changed successfully", nil, nil)
}

// GetMe handles GET /api/v1/auth/me
func (c *Controller) GetMe(ctx *gin.Context) {
	userID, err := middleware.CurrentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "User data retrieved successfully", gin.H{
		"id":    userID,
		"email": ctx.GetString(middleware.ContextUserEmail),
		"role":  ctx.GetString(middleware.ContextUserRole),
	}, nil)
}
