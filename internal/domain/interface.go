package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, email, hashedPassword string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	GetAll(ctx context.Context, search, category string) ([]Course, error)
	GetByID(ctx context.Context, id uint) (*Course, error)
	GetByIDs(ctx context.Context, ids []uint) ([]Course, error)
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type WatchlistRepository interface {
	Create(ctx context.Context, entry *WatchlistEntry) error
	GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*WatchlistEntry, error)
	GetByUserID(ctx context.Context, userID uint) ([]WatchlistEntry, error)
	Delete(ctx context.Context, userID, courseID uint) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, fb *Feedback) error
	GetAll(ctx context.Context) ([]Feedback, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type ProgressRepository interface { // MongoDB
	Create(ctx context.Context, progress *CourseProgress) error
	GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*CourseProgress, error)
	GetByUserID(ctx context.Context, userID uint) ([]CourseProgress, error)
	Update(ctx context.Context, progress *CourseProgress) error
	CountCompleted(ctx context.Context) (int64, error)
}

type ActivityRepository interface { // MongoDB, insert-only
	Create(ctx context.Context, activity *UserActivity) error
	GetRecentByUserID(ctx context.Context, userID uint, limit int) ([]UserActivity, error)
}

// OTPStore holds one-shot password-reset codes with a TTL.
type OTPStore interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// Cache is a small byte-blob cache with TTL, backed by Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, user *User) error
	Login(ctx context.Context, email, password string) (string, *User, error)
	GetUserByID(ctx context.Context, id uint) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

type CourseUsecase interface {
	CreateCourse(ctx context.Context, course *Course) error
	UpdateCourse(ctx context.Context, course *Course) error
	DeleteCourse(ctx context.Context, id uint) error
	GetAllCourses(ctx context.Context, search, category string) ([]Course, error)
	GetCourseByID(ctx context.Context, id uint) (*Course, error)
	AddToWatchlist(ctx context.Context, userID, courseID uint) error
	RemoveFromWatchlist(ctx context.Context, userID, courseID uint) error
	GetWatchlist(ctx context.Context, userID uint) ([]WatchlistEntry, error)
}

type ProgressUsecase interface {
	ListProgress(ctx context.Context, userID uint) ([]CourseProgress, error)
	GetProgress(ctx context.Context, userID, courseID uint) (*CourseProgress, error)
	UpsertCourseProgress(ctx context.Context, userID, courseID uint, update ProgressUpdate) (*CourseProgress, error)
	UpdateModuleProgress(ctx context.Context, userID, courseID uint, update ModuleUpdate) (*CourseProgress, error)
	GetUserActivity(ctx context.Context, userID uint, limit int) ([]ActivityWithCourse, error)
}

type LeaderboardUsecase interface {
	GetContributors(ctx context.Context) ([]Contributor, error)
}

type AdminUsecase interface {
	GetStats(ctx context.Context) (*AdminStats, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id uint) error
	SubmitFeedback(ctx context.Context, fb *Feedback) error
	GetAllFeedback(ctx context.Context) ([]Feedback, error)
	DeleteFeedback(ctx context.Context, id uint) error
}
