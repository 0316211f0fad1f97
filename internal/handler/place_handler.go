package handler

import (
	"errors"
	"net/http"

	"stayhost/internal/middleware"
	"stayhost/internal/model"
	"stayhost/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlaceHandler serves listing requests
type PlaceHandler struct {
	service service.ListingService
	log     *zap.Logger
}

// NewPlaceHandler creates a new PlaceHandler
func NewPlaceHandler(s service.ListingService, log *zap.Logger) *PlaceHandler {
	return &PlaceHandler{service: s, log: log}
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.AuthUserKey)
	if userID == "" {
		return "", errors.New("user ID not found in context")
	}
	return userID, nil
}

func (h *PlaceHandler) CreatePlace(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.ListingFields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	listing, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		middleware.Logger(c, h.log).Error("error creating listing", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *PlaceHandler) GetUserPlaces(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listings, err := h.service.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		middleware.Logger(c, h.log).Error("error listing user places", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listings"})
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetPlaceByID answers null when the listing does not exist
func (h *PlaceHandler) GetPlaceByID(c *gin.Context) {
	listing, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Logger(c, h.log).Error("error getting listing", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		return
	}
	if listing == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *PlaceHandler) UpdatePlace(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	_, err = h.service.Update(c.Request.Context(), req.ID, userID, req.ListingFields)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			middleware.Logger(c, h.log).Error("error updating listing", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		}
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (h *PlaceHandler) GetAllPlaces(c *gin.Context) {
	listings, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		middleware.Logger(c, h.log).Error("error listing places", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listings"})
		return
	}
	c.JSON(http.StatusOK, listings)
}

// RegisterPlaceRoutes registers listing routes; authMW guards the owner-scoped ones
func (h *PlaceHandler) RegisterPlaceRoutes(r gin.IRoutes, authMW gin.HandlerFunc) {
	r.POST("/places", authMW, h.CreatePlace)
	r.GET("/user-places", authMW, h.GetUserPlaces)
	r.PUT("/places", authMW, h.UpdatePlace)
	r.GET("/places/:id", h.GetPlaceByID)
	r.GET("/places", h.GetAllPlaces)
}
