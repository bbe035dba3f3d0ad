package http

import (
	"fmt"
	"io"
	"net/http"

	"coursetrack-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// FileHandler serves course thumbnails and user avatars from GridFS.
type FileHandler struct {
	files repository.FileRepository
}

func NewFileHandler(files repository.FileRepository) *FileHandler {
	return &FileHandler{files: files}
}

// UploadFile accepts a multipart image and returns its GridFS ID; the
// client then attaches the ID to a course or profile.
func (h *FileHandler) UploadFile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	fileInfo, err := h.files.Upload(c.Request.Context(), file, header, userID.(uint))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file": gin.H{
			"id":           fileInfo.ID,
			"filename":     fileInfo.Filename,
			"content_type": fileInfo.ContentType,
			"size":         fileInfo.Size,
		},
	})
}

// StreamFile streams a stored image. Public: thumbnails render on the
// unauthenticated browse page.
func (h *FileHandler) StreamFile(c *gin.Context) {
	fileID := c.Param("id")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File ID is required"})
		return
	}

	stream, fileInfo, err := h.files.Download(c.Request.Context(), fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", fileInfo.ContentType)
	c.Header("Content-Length", fmt.Sprintf("%d", fileInfo.Size))
	c.Header("Cache-Control", "public, max-age=86400")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Headers already sent; nothing more to report to the client.
		return
	}
}
