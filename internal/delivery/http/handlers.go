package http

import (
	"errors"
	"fmt"
	"net/http"

	"coursetrack-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	AuthUsecase        domain.AuthUsecase
	CourseUsecase      domain.CourseUsecase
	ProgressUsecase    domain.ProgressUsecase
	LeaderboardUsecase domain.LeaderboardUsecase
	AdminUsecase       domain.AdminUsecase
}

func NewHandler(
	au domain.AuthUsecase,
	cu domain.CourseUsecase,
	pu domain.ProgressUsecase,
	lu domain.LeaderboardUsecase,
	adu domain.AdminUsecase,
) *Handler {
	return &Handler{
		AuthUsecase:        au,
		CourseUsecase:      cu,
		ProgressUsecase:    pu,
		LeaderboardUsecase: lu,
		AdminUsecase:       adu,
	}
}

// ========== UTILITY FUNCTIONS ==========

func formatValidationErrors(err error) gin.H {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]string)
		for _, f := range ve {
			details[f.Field()] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", f.Field(), f.Tag())
		}
		return gin.H{"error": "Validation failed", "details": details}
	}
	return gin.H{"error": "Invalid request: " + err.Error()}
}

func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, errors.New("user ID not found in token")
	}
	return userID.(uint), nil
}

// respondError maps domain errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrProgressNotFound),
		errors.Is(err, domain.ErrFileNotFound),
		errors.Is(err, domain.ErrNotInWatchlist):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrAlreadyInWatchlist):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidOTP):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrLeaderboardUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ========== AUTH HANDLERS ==========

func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	user := domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := h.AuthUsecase.Register(c.Request.Context(), &user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

func (h *Handler) Login(c *gin.Context) {
	var creds struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	token, user, err := h.AuthUsecase.Login(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.AuthUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Name     string `json:"name"`
		Password string `json:"password" binding:"omitempty,min=8"`
		AvatarID string `json:"avatar_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	user := domain.User{
		ID:       userID,
		Name:     req.Name,
		Password: req.Password,
		AvatarID: req.AvatarID,
	}
	if err := h.AuthUsecase.UpdateUser(c.Request.Context(), &user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	if err := h.AuthUsecase.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset code has been sent."})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		OTP         string `json:"otp" binding:"required,len=6"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	if err := h.AuthUsecase.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// ========== LEADERBOARD ==========

func (h *Handler) GetLeaderboard(c *gin.Context) {
	contributors, err := h.LeaderboardUsecase.GetContributors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contributors)
}

// ========== FEEDBACK ==========

func (h *Handler) SubmitFeedback(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Subject string `json:"subject" binding:"required"`
		Message string `json:"message" binding:"required"`
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	fb := domain.Feedback{
		UserID:  userID,
		Subject: req.Subject,
		Message: req.Message,
		Rating:  req.Rating,
	}
	if err := h.AdminUsecase.SubmitFeedback(c.Request.Context(), &fb); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}
