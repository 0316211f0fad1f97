package handler

import (
	"errors"
	"net/http"

	"stayhost/internal/middleware"
	"stayhost/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PhotosField is the multipart field carrying uploaded photos
const PhotosField = "photos"

// UploadHandler accepts photos and returns their hosted URLs
type UploadHandler struct {
	service service.MediaService
	log     *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(s service.MediaService, log *zap.Logger) *UploadHandler {
	return &UploadHandler{service: s, log: log}
}

func (h *UploadHandler) UploadByLink(c *gin.Context) {
	var req struct {
		Link string `json:"link"`
	}
	// A malformed body leaves Link empty, which is rejected below.
	_ = c.ShouldBindJSON(&req)

	log := middleware.Logger(c, h.log)
	log.Info("received upload link", zap.String("link", req.Link))

	url, err := h.service.UploadByURL(c.Request.Context(), req.Link)
	if err != nil {
		if errors.Is(err, service.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL"})
			return
		}
		log.Error("failed to upload photo by link", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filename": url})
}

func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrNoFiles.Error()})
		return
	}

	urls, err := h.service.UploadFiles(c.Request.Context(), form.File[PhotosField])
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFiles), errors.Is(err, service.ErrTooManyFiles):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			middleware.Logger(c, h.log).Error("failed to upload photos", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		}
		return
	}
	c.JSON(http.StatusOK, urls)
}

// RegisterUploadRoutes registers upload routes
func (h *UploadHandler) RegisterUploadRoutes(r gin.IRoutes) {
	r.POST("/upload-by-link", h.UploadByLink)
	r.POST("/upload", h.Upload)
}
