package handler

import (
	"errors"
	"net/http"

	"stayhost/internal/middleware"
	"stayhost/internal/model"
	"stayhost/internal/service"
	"stayhost/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const registerFailedDetail = "user record could not be stored"

// CookieConfig controls the attributes of the session cookie
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	jwtUtil *utils.JWTUtil
	cookies CookieConfig
	log     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, jwtUtil *utils.JWTUtil, cookies CookieConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, jwtUtil: jwtUtil, cookies: cookies, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request", "detail": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var conflict *service.ConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": service.ErrEmailTaken.Error(), "detail": conflict.Detail})
			return
		}
		middleware.Logger(c, h.log).Error("registration failed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to register user", "detail": storeErrorDetail(err)})
		return
	}

	c.JSON(http.StatusOK, user)
}

// storeErrorDetail exposes the database's message for a rejected write and
// nothing for any other failure.
func storeErrorDetail(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return registerFailedDetail
	}
	if pgErr.Detail != "" {
		return pgErr.Detail
	}
	return pgErr.Message
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request", "detail": err.Error()})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			c.JSON(http.StatusUnprocessableEntity, "wrong password")
		case errors.Is(err, service.ErrEmailNotFound):
			c.JSON(http.StatusUnprocessableEntity, "email not found")
		default:
			middleware.Logger(c, h.log).Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, "server error")
		}
		return
	}

	h.setTokenCookie(c, token, 0)
	c.JSON(http.StatusOK, user)
}

// Profile answers null for anonymous callers and 401 for a bad token
func (h *AuthHandler) Profile(c *gin.Context) {
	token, err := c.Cookie(middleware.TokenCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, nil)
		return
	}

	claims, err := h.jwtUtil.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	user, err := h.service.Profile(c.Request.Context(), claims.ID)
	if err != nil {
		middleware.Logger(c, h.log).Error("profile lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, model.Profile{Name: user.Name, Email: user.Email, ID: user.ID})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	c.JSON(http.StatusOK, true)
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
	})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(r gin.IRoutes) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/profile", h.Profile)
	r.POST("/Logout", h.Logout)
}
