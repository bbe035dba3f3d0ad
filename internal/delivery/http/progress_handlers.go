package http

import (
	"net/http"
	"strconv"

	"coursetrack-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// ========== PROGRESS HANDLERS ==========

func (h *Handler) ListProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	records, err := h.ProgressUsecase.ListProgress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c, "courseId")
	if !ok {
		return
	}

	record, err := h.ProgressUsecase.GetProgress(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) UpsertProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c, "courseId")
	if !ok {
		return
	}

	var update domain.ProgressUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	record, err := h.ProgressUsecase.UpsertCourseProgress(c.Request.Context(), userID, courseID, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) UpdateModuleProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c, "courseId")
	if !ok {
		return
	}

	var update domain.ModuleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	record, err := h.ProgressUsecase.UpdateModuleProgress(c.Request.Context(), userID, courseID, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) GetUserActivity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	activities, err := h.ProgressUsecase.GetUserActivity(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}
