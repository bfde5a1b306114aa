package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hearth/internal/auth"
	"hearth/internal/core"
	"hearth/internal/storage"
)

type AuthHandler struct {
	store  *storage.Store
	tokens *auth.TokenService
}

func NewAuthHandler(store *storage.Store, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"required,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetUserByUsername(ctx, req.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.ErrorContext(ctx, "Failed to check username", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	user := core.User{
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	}
	if err := h.store.CreateUser(ctx, &user, hash); err != nil {
		slog.ErrorContext(ctx, "Failed to create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to generate token", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, tokenResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	rec, err := h.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		slog.ErrorContext(ctx, "Failed to load user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if !auth.CheckPassword(rec.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.GenerateToken(rec.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to generate token", "error", err, "user_id", rec.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	slog.InfoContext(ctx, "User logged in", "user_id", rec.ID)
	c.JSON(http.StatusOK, tokenResponse{Token: token, User: rec.User})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := authedUserAny(c, h.store)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

type CreateHouseholdRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Currency        string `json:"currency" validate:"required,len=3"`
	UseJointAccount bool   `json:"useJointAccount"`
}

// CreateHousehold creates a household and makes the caller a member.
func (h *AuthHandler) CreateHousehold(c *gin.Context) {
	var req CreateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := authedUserAny(c, h.store)
	if !ok {
		return
	}
	if user.HouseholdID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user already belongs to a household"})
		return
	}

	ctx := c.Request.Context()
	household := core.Household{
		Name:            req.Name,
		Currency:        req.Currency,
		UseJointAccount: req.UseJointAccount,
	}
	if err := h.store.CreateHousehold(ctx, &household); err != nil {
		slog.ErrorContext(ctx, "Failed to create household", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if err := h.store.SetUserHousehold(ctx, user.ID, household.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to assign household", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	slog.InfoContext(ctx, "Household created", "household_id", household.ID, "user_id", user.ID)
	c.JSON(http.StatusCreated, household)
}

type JoinHouseholdRequest struct {
	HouseholdID int64 `json:"householdId" validate:"required,gt=0"`
}

func (h *AuthHandler) JoinHousehold(c *gin.Context) {
	var req JoinHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := authedUserAny(c, h.store)
	if !ok {
		return
	}
	if user.HouseholdID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user already belongs to a household"})
		return
	}

	ctx := c.Request.Context()
	household, err := h.store.GetHousehold(ctx, req.HouseholdID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "household not found"})
			return
		}
		slog.ErrorContext(ctx, "Failed to load household", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if err := h.store.SetUserHousehold(ctx, user.ID, household.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to assign household", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	slog.InfoContext(ctx, "User joined household", "household_id", household.ID, "user_id", user.ID)
	c.JSON(http.StatusOK, household)
}
