package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coursetrack-backend/internal/domain"
	"coursetrack-backend/pkg/logger"
)

const (
	courseCachePrefix = "courses:list:"
	courseCacheTTL    = 10 * time.Minute
)

type courseUsecase struct {
	courseRepo    domain.CourseRepository
	watchlistRepo domain.WatchlistRepository
	activityRepo  domain.ActivityRepository
	cache         domain.Cache
	log           *logger.Logger
}

func NewCourseUsecase(
	cr domain.CourseRepository,
	wr domain.WatchlistRepository,
	ar domain.ActivityRepository,
	cache domain.Cache,
	log *logger.Logger,
) domain.CourseUsecase {
	return &courseUsecase{
		courseRepo:    cr,
		watchlistRepo: wr,
		activityRepo:  ar,
		cache:         cache,
		log:           log,
	}
}

// ========== CATALOG ==========

func (uc *courseUsecase) CreateCourse(ctx context.Context, course *domain.Course) error {
	if err := uc.courseRepo.Create(ctx, course); err != nil {
		return err
	}
	uc.invalidateListCache(ctx)
	return nil
}

func (uc *courseUsecase) UpdateCourse(ctx context.Context, course *domain.Course) error {
	existing, err := uc.courseRepo.GetByID(ctx, course.ID)
	if err != nil {
		return err
	}

	// Update only allowed fields
	if course.Title != "" {
		existing.Title = course.Title
	}
	if course.Category != "" {
		existing.Category = course.Category
	}
	if course.Description != "" {
		existing.Description = course.Description
	}
	if course.CreatorName != "" {
		existing.CreatorName = course.CreatorName
	}
	if course.CreatorLink != "" {
		existing.CreatorLink = course.CreatorLink
	}
	if course.VideoLink != "" {
		existing.VideoLink = course.VideoLink
	}
	if course.ThumbnailID != "" {
		existing.ThumbnailID = course.ThumbnailID
	}

	if err := uc.courseRepo.Update(ctx, existing); err != nil {
		return err
	}
	uc.invalidateListCache(ctx)
	return nil
}

func (uc *courseUsecase) DeleteCourse(ctx context.Context, id uint) error {
	if _, err := uc.courseRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := uc.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidateListCache(ctx)
	return nil
}

// GetAllCourses serves the browse page; the list changes rarely, so it
// is cached per filter combination.
func (uc *courseUsecase) GetAllCourses(ctx context.Context, search, category string) ([]domain.Course, error) {
	key := fmt.Sprintf("%s%s:%s", courseCachePrefix, search, category)

	if data, err := uc.cache.Get(ctx, key); err == nil {
		var courses []domain.Course
		if json.Unmarshal(data, &courses) == nil {
			return courses, nil
		}
	}

	courses, err := uc.courseRepo.GetAll(ctx, search, category)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(courses); err == nil {
		if err := uc.cache.Set(ctx, key, data, courseCacheTTL); err != nil {
			uc.log.Warn("failed to cache course list", "error", err)
		}
	}
	return courses, nil
}

func (uc *courseUsecase) GetCourseByID(ctx context.Context, id uint) (*domain.Course, error) {
	return uc.courseRepo.GetByID(ctx, id)
}

func (uc *courseUsecase) invalidateListCache(ctx context.Context) {
	if err := uc.cache.DeletePrefix(ctx, courseCachePrefix); err != nil {
		uc.log.Warn("failed to invalidate course list cache", "error", err)
	}
}

// ========== WATCHLIST ==========

func (uc *courseUsecase) AddToWatchlist(ctx context.Context, userID, courseID uint) error {
	existing, err := uc.watchlistRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrAlreadyInWatchlist
	}

	if _, err := uc.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}

	entry := &domain.WatchlistEntry{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := uc.watchlistRepo.Create(ctx, entry); err != nil {
		return err
	}

	uc.recordActivity(ctx, userID, courseID, domain.ActivityAddedToWatchlist)
	return nil
}

func (uc *courseUsecase) RemoveFromWatchlist(ctx context.Context, userID, courseID uint) error {
	existing, err := uc.watchlistRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotInWatchlist
	}

	if err := uc.watchlistRepo.Delete(ctx, userID, courseID); err != nil {
		return err
	}

	uc.recordActivity(ctx, userID, courseID, domain.ActivityRemovedFromWatchlist)
	return nil
}

func (uc *courseUsecase) GetWatchlist(ctx context.Context, userID uint) ([]domain.WatchlistEntry, error) {
	return uc.watchlistRepo.GetByUserID(ctx, userID)
}

func (uc *courseUsecase) recordActivity(ctx context.Context, userID, courseID uint, activityType domain.ActivityType) {
	activity := &domain.UserActivity{
		UserID:       userID,
		CourseID:     courseID,
		ActivityType: activityType,
		CreatedAt:    time.Now(),
	}
	if err := uc.activityRepo.Create(ctx, activity); err != nil {
		uc.log.Warn("failed to record watchlist activity",
			"user_id", userID,
			"course_id", courseID,
			"activity_type", activityType,
			"error", err,
		)
	}
}
