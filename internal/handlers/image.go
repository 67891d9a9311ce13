package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ideahub/internal/middleware"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

type imageUploader interface {
	Configured() bool
	Upload(ctx context.Context, file io.Reader, filename string) (*services.ImageUploadResult, error)
}

// ImageHandler 图片上传
type ImageHandler struct {
	uploader imageUploader
}

func NewImageHandler(uploader imageUploader) *ImageHandler {
	return &ImageHandler{uploader: uploader}
}

// Upload 处理图片上传请求 (POST /api/upload)
// 需要用户已登录
func (h *ImageHandler) Upload(c *gin.Context) {
	if !h.uploader.Configured() {
		RespondError(c, utils.NewAppError(utils.ErrInternal, "Image upload is not configured", nil))
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		RespondError(c, utils.NewValidationError("Please choose an image to upload"))
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		RespondError(c, utils.NewValidationError("Only image files can be uploaded"))
		return
	}
	if header.Size > services.MaxImageSize {
		RespondError(c, utils.NewValidationError("Images must be 10MB or smaller"))
		return
	}

	result, err := h.uploader.Upload(c.Request.Context(), file, header.Filename)
	if err != nil {
		if id := middleware.CurrentIdentity(c); id != nil {
			log.WithError(err).WithField("user_id", id.UserID).Warn("image upload failed")
		}
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     result.URL,
		"id":      result.ID,
		"data":    result,
	})
}
