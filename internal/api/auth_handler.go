package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resumehub/internal/api/middleware"
	"resumehub/internal/auth"
	"resumehub/internal/database"
	"resumehub/internal/store"
)

// AuthHandler 处理注册与登录。
type AuthHandler struct {
	store                 store.Store
	redis                 redis.UniversalClient
	logger                *slog.Logger
	loginRateLimitPerHour int
}

// NewAuthHandler 构造认证处理器。redisClient 为 nil 时跳过登录限流。
func NewAuthHandler(st store.Store, redisClient redis.UniversalClient, logger *slog.Logger, loginRateLimitPerHour int) *AuthHandler {
	return &AuthHandler{
		store:                 st,
		redis:                 redisClient,
		logger:                logger,
		loginRateLimitPerHour: loginRateLimitPerHour,
	}
}

type registerRequest struct {
	Username  string  `json:"username" binding:"omitempty,max=64"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6,max=72"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	PlanType  string  `json:"planType" binding:"omitempty,max=32"`
}

// Register 创建新用户账号，邮箱重复时返回 400。
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("email", req.Email))

	if _, err := h.store.GetUserByEmail(ctx, req.Email); err == nil {
		logger.Info("register rejected: email already registered")
		BadRequest(c, "user with this email already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		logger.Error("register lookup failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("hash password failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	var username *string
	if req.Username != "" {
		username = &req.Username
	}

	user := database.User{
		Username:  username,
		Password:  hashed,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PlanType:  req.PlanType,
	}

	if err := h.store.CreateUser(ctx, &user); err != nil {
		logger.Error("create user failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	logger.Info("user registered", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 校验凭证并返回不含密码的用户信息。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("email", req.Email))

	// 速率限制：每 IP+邮箱 每小时 N 次，未启用 Redis 时跳过
	if h.redis != nil && h.loginRateLimitPerHour > 0 {
		rateKey := "rate:login:" + c.ClientIP() + ":" + strings.ToLower(req.Email) + ":" + time.Now().UTC().Format("2006010215")
		count, err := incrWithTTL(ctx, h.redis, rateKey, time.Hour)
		if err != nil {
			count = 0
		}
		if count > int64(h.loginRateLimitPerHour) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
	}

	user, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("login failed: user not found")
			Unauthorized(c, "invalid email or password")
			return
		}
		logger.Error("login lookup failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		logger.Info("login failed: password mismatch", slog.Uint64("user_id", uint64(user.ID)))
		Unauthorized(c, "invalid email or password")
		return
	}

	c.JSON(http.StatusOK, user)
}
