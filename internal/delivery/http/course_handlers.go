package http

import (
	"net/http"
	"strconv"

	"coursetrack-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

func parseCourseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return 0, false
	}
	return uint(id), true
}

// ========== CATALOG ==========

func (h *Handler) GetAllCourses(c *gin.Context) {
	search := c.Query("search")
	category := c.Query("category")

	courses, err := h.CourseUsecase.GetAllCourses(c.Request.Context(), search, category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *Handler) GetCourseByID(c *gin.Context) {
	courseID, ok := parseCourseID(c, "id")
	if !ok {
		return
	}

	course, err := h.CourseUsecase.GetCourseByID(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

type courseRequest struct {
	Title       string `json:"title" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
	CreatorName string `json:"creator_name"`
	CreatorLink string `json:"creator_link"`
	VideoLink   string `json:"video_link" binding:"required,url"`
	ThumbnailID string `json:"thumbnail_id"`
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	course := domain.Course{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		CreatorName: req.CreatorName,
		CreatorLink: req.CreatorLink,
		VideoLink:   req.VideoLink,
		ThumbnailID: req.ThumbnailID,
	}
	if err := h.CourseUsecase.CreateCourse(c.Request.Context(), &course); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	courseID, ok := parseCourseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title"`
		Category    string `json:"category"`
		Description string `json:"description"`
		CreatorName string `json:"creator_name"`
		CreatorLink string `json:"creator_link"`
		VideoLink   string `json:"video_link" binding:"omitempty,url"`
		ThumbnailID string `json:"thumbnail_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	course := domain.Course{
		ID:          courseID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		CreatorName: req.CreatorName,
		CreatorLink: req.CreatorLink,
		VideoLink:   req.VideoLink,
		ThumbnailID: req.ThumbnailID,
	}
	if err := h.CourseUsecase.UpdateCourse(c.Request.Context(), &course); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course updated successfully"})
}

func (h *Handler) DeleteCourse(c *gin.Context) {
	courseID, ok := parseCourseID(c, "id")
	if !ok {
		return
	}

	if err := h.CourseUsecase.DeleteCourse(c.Request.Context(), courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}

// ========== WATCHLIST ==========

func (h *Handler) GetWatchlist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.CourseUsecase.GetWatchlist(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) AddToWatchlist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c, "courseId")
	if !ok {
		return
	}

	if err := h.CourseUsecase.AddToWatchlist(c.Request.Context(), userID, courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Course added to watchlist"})
}

func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c, "courseId")
	if !ok {
		return
	}

	if err := h.CourseUsecase.RemoveFromWatchlist(c.Request.Context(), userID, courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course removed from watchlist"})
}
