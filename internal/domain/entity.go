package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	IsAdmin   bool      `json:"is_admin" gorm:"default:false"`
	AvatarID  string    `json:"avatar_id"` // GridFS file ID
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Course struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Category    string    `json:"category" gorm:"index"`
	Description string    `json:"description" gorm:"type:text"`
	CreatorName string    `json:"creator_name"`
	CreatorLink string    `json:"creator_link"`
	VideoLink   string    `json:"video_link"` // YouTube video or playlist URL
	ThumbnailID string    `json:"thumbnail_id"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// WatchlistEntry - saved-for-later courses, one row per user/course pair
type WatchlistEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_watchlist_user_course"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_watchlist_user_course"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relations
	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Subject   string    `json:"subject" gorm:"not null"`
	Message   string    `json:"message" gorm:"type:text"`
	Rating    int       `json:"rating"` // 1-5
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ========== MONGODB MODELS ==========

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not-started"
	StatusInProgress ProgressStatus = "in-progress"
	StatusCompleted  ProgressStatus = "completed"
)

// VideoProgress - last known playback state for one video in a playlist
type VideoProgress struct {
	CurrentTime float64 `json:"current_time" bson:"current_time"`
	Duration    float64 `json:"duration" bson:"duration"`
	Percent     float64 `json:"percent" bson:"percent"`
}

// ModuleEntry - one sub-unit of a course, unique by ModuleID within a record
type ModuleEntry struct {
	ModuleID    string     `json:"module_id" bson:"module_id"`
	ModuleName  string     `json:"module_name" bson:"module_name"`
	Completed   bool       `json:"completed" bson:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// CourseProgress - one document per (user, course) pair. Stored in MongoDB
// because of the dynamic video-progress map and embedded module list.
type CourseProgress struct {
	ID               primitive.ObjectID       `json:"id" bson:"_id,omitempty"`
	UserID           uint                     `json:"user_id" bson:"user_id"`
	CourseID         uint                     `json:"course_id" bson:"course_id"`
	Status           ProgressStatus           `json:"status" bson:"status"`
	Progress         int                      `json:"progress" bson:"progress"` // 0-100
	CurrentVideoID   string                   `json:"current_video_id" bson:"current_video_id"`
	CurrentVideoTime float64                  `json:"current_video_time" bson:"current_video_time"`
	TotalHoursSpent  float64                  `json:"total_hours_spent" bson:"total_hours_spent"`
	VideoProgress    map[string]VideoProgress `json:"video_progress,omitempty" bson:"video_progress,omitempty"`
	Modules          []ModuleEntry            `json:"modules" bson:"modules"`
	StartedAt        time.Time                `json:"started_at" bson:"started_at"`
	LastAccessedAt   time.Time                `json:"last_accessed_at" bson:"last_accessed_at"`
	CompletedAt      *time.Time               `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

type ActivityType string

const (
	ActivityStartedCourse        ActivityType = "started_course"
	ActivityCompletedModule      ActivityType = "completed_module"
	ActivityCompletedCourse      ActivityType = "completed_course"
	ActivityAddedToWatchlist     ActivityType = "added_to_watchlist"
	ActivityRemovedFromWatchlist ActivityType = "removed_from_watchlist"
	ActivityVideoChange          ActivityType = "video_change"
)

// UserActivity - append-only event for the recent-activity feed.
// Display only, never a source of truth for progress recomputation.
type UserActivity struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       uint               `json:"user_id" bson:"user_id"`
	CourseID     uint               `json:"course_id" bson:"course_id"`
	ActivityType ActivityType       `json:"activity_type" bson:"activity_type"`
	Details      string             `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// ========== REQUEST/RESPONSE DTOs ==========

// ProgressUpdate - partial update payload for a progress record.
// Nil pointers mean "leave unchanged".
type ProgressUpdate struct {
	Progress         *int                     `json:"progress" binding:"omitempty,min=0,max=100"`
	CurrentVideoID   *string                  `json:"current_video_id"`
	CurrentVideoTime *float64                 `json:"current_video_time" binding:"omitempty,min=0"`
	TotalHoursSpent  *float64                 `json:"total_hours_spent" binding:"omitempty,min=0"`
	Status           *ProgressStatus          `json:"status" binding:"omitempty,oneof=in-progress completed"`
	VideoProgress    map[string]VideoProgress `json:"video_progress"`
}

// ModuleUpdate - payload for marking a module complete/incomplete
type ModuleUpdate struct {
	ModuleID   string `json:"module_id" binding:"required"`
	ModuleName string `json:"module_name"`
	Completed  bool   `json:"completed"`
}

// ActivityWithCourse - activity entry joined with course info for display
type ActivityWithCourse struct {
	UserActivity
	CourseTitle string `json:"course_title"`
}

// Contributor - one entry of the GitHub contributor leaderboard
type Contributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	ProfileURL    string `json:"html_url"`
	Contributions int    `json:"contributions"`
}

// AdminStats - counters for the admin overview page
type AdminStats struct {
	TotalUsers       int `json:"total_users"`
	TotalCourses     int `json:"total_courses"`
	TotalFeedback    int `json:"total_feedback"`
	CompletedCourses int `json:"completed_courses"`
}
