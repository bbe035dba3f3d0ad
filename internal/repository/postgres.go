package repository

import (
	"context"
	"errors"

	"coursetrack-backend/internal/domain"

	"gorm.io/gorm"
)

// ========== USER REPOSITORY ==========

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepo{db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	return &user, err
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	return &user, err
}

func (r *userRepo) GetAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Update("password", hashedPassword).Error
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, id).Error
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error
	return count, err
}

// ========== COURSE REPOSITORY ==========

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) domain.CourseRepository {
	return &courseRepo{db}
}

func (r *courseRepo) Create(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetAll(ctx context.Context, search, category string) ([]domain.Course, error) {
	var courses []domain.Course
	query := r.db.WithContext(ctx)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) GetByID(ctx context.Context, id uint) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCourseNotFound
	}
	return &course, err
}

func (r *courseRepo) GetByIDs(ctx context.Context, ids []uint) ([]domain.Course, error) {
	var courses []domain.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Course{}, id).Error
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Course{}).Count(&count).Error
	return count, err
}

// ========== WATCHLIST REPOSITORY ==========

type watchlistRepo struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) domain.WatchlistRepository {
	return &watchlistRepo{db}
}

func (r *watchlistRepo) Create(ctx context.Context, entry *domain.WatchlistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *watchlistRepo) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*domain.WatchlistEntry, error) {
	var entry domain.WatchlistEntry
	err := r.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *watchlistRepo) GetByUserID(ctx context.Context, userID uint) ([]domain.WatchlistEntry, error) {
	var entries []domain.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Course").
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *watchlistRepo) Delete(ctx context.Context, userID, courseID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&domain.WatchlistEntry{}).Error
}

// ========== FEEDBACK REPOSITORY ==========

type feedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) domain.FeedbackRepository {
	return &feedbackRepo{db}
}

func (r *feedbackRepo) Create(ctx context.Context, fb *domain.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

func (r *feedbackRepo) GetAll(ctx context.Context) ([]domain.Feedback, error) {
	var feedback []domain.Feedback
	err := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&feedback).Error
	return feedback, err
}

func (r *feedbackRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Feedback{}, id).Error
}

func (r *feedbackRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Feedback{}).Count(&count).Error
	return count, err
}
