package http

import (
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quickslot-api/internal/domain"
	"quickslot-api/internal/service"
	"quickslot-api/internal/storage"
)

const (
	avatarUploadExpiry = 15 * time.Minute
	avatarViewExpiry   = time.Hour
)

// Handler wires HTTP routes to the authentication service.
type Handler struct {
	auth      service.AuthService
	storage   storage.Service
	keyPrefix string
	logger    *logrus.Logger
}

func NewHandler(auth service.AuthService, store storage.Service, keyPrefix string, logger *logrus.Logger) *Handler {
	return &Handler{
		auth:      auth,
		storage:   store,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "QuickSlot API",
			"version": "1.0.0",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api/v1/auth")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/refresh", h.refresh)
		api.GET("/me", h.me)
		api.POST("/me/avatar", h.avatarUpload)
		api.POST("/logout", h.logout)
		api.POST("/password-reset/request", h.requestPasswordReset)
		api.POST("/password-reset/confirm", h.confirmPasswordReset)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

type passwordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type avatarUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// UserResponse is the public view of a user; the password digest never
// leaves the service layer.
type UserResponse struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	Name            string  `json:"name,omitempty"`
	PhoneNumber     string  `json:"phone_number,omitempty"`
	ProfileImageURL string  `json:"profile_image_url,omitempty"`
	CreatedAt       string  `json:"created_at"`
	LastLoginAt     *string `json:"last_login_at,omitempty"`
}

type TokenResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, pair, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.tokenResponse(c, user, pair))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.tokenResponse(c, user, pair))
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "bearer",
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.auth.ResolveIdentity(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.userToResponse(c, user))
}

func (h *Handler) avatarUpload(c *gin.Context) {
	user, err := h.auth.ResolveIdentity(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage not configured"})
		return
	}

	var req avatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := path.Join(h.keyPrefix, "avatars", user.ID)
	uploadURL, err := h.storage.PresignUpload(c.Request.Context(), key, req.ContentType, avatarUploadExpiry)
	if err != nil {
		h.logger.Warnf("presign avatar upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not prepare upload"})
		return
	}

	if err := h.auth.SetProfileImage(c.Request.Context(), user.ID, key); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": uploadURL,
		"key":        key,
		"expires_in": int(avatarUploadExpiry.Seconds()),
	})
}

func (h *Handler) logout(c *gin.Context) {
	// tokens are stateless; clients discard them locally
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) requestPasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.writeError(c, err)
		return
	}

	// constant acknowledgment whether or not the account exists
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a password reset link has been sent"})
}

func (h *Handler) confirmPasswordReset(c *gin.Context) {
	var req passwordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrMalformedHeader),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Warnf("auth request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) tokenResponse(c *gin.Context, user *domain.User, pair service.TokenPair) TokenResponse {
	return TokenResponse{
		User:         h.userToResponse(c, user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
}

func (h *Handler) userToResponse(c *gin.Context, user *domain.User) UserResponse {
	resp := UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		PhoneNumber:     user.PhoneNumber,
		ProfileImageURL: h.resolveImageURL(c, user.ProfileImageURL),
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		v := user.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &v
	}
	return resp
}

// resolveImageURL turns a stored object key into a short-lived download URL.
// Values that are already absolute URLs pass through unchanged.
func (h *Handler) resolveImageURL(c *gin.Context, value string) string {
	if value == "" || h.storage == nil {
		return value
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	url, err := h.storage.PresignGet(c.Request.Context(), value, avatarViewExpiry)
	if err != nil {
		h.logger.Warnf("presign avatar get: %v", err)
		return ""
	}
	return url
}
