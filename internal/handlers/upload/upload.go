// internal/handlers/upload/upload.go
package upload

import (
	"context"
	"net/http"

	"leaddesk-service/internal/pkg/response"
	"leaddesk-service/internal/pkg/storage"

	"github.com/gin-gonic/gin"
)

type Uploader interface {
	Upload(ctx context.Context, obj storage.Object) (string, error)
}

type UploadHandler struct {
	uploader Uploader
}

func NewUploadHandler(uploader Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

type uploadResponse struct {
	FileURL string `json:"fileUrl"`
}

// Upload stores the multipart "file" part and returns its URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.ValidationError(c, "file is required", err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request.Context(), storage.Object{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "file uploaded", uploadResponse{FileURL: url})
}
