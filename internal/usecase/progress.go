package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"coursetrack-backend/internal/domain"
	"coursetrack-backend/pkg/logger"
)

type progressUsecase struct {
	progressRepo domain.ProgressRepository
	activityRepo domain.ActivityRepository
	courseRepo   domain.CourseRepository
	log          *logger.Logger
}

func NewProgressUsecase(
	pr domain.ProgressRepository,
	ar domain.ActivityRepository,
	cr domain.CourseRepository,
	log *logger.Logger,
) domain.ProgressUsecase {
	return &progressUsecase{
		progressRepo: pr,
		activityRepo: ar,
		courseRepo:   cr,
		log:          log,
	}
}

func (uc *progressUsecase) ListProgress(ctx context.Context, userID uint) ([]domain.CourseProgress, error) {
	return uc.progressRepo.GetByUserID(ctx, userID)
}

func (uc *progressUsecase) GetProgress(ctx context.Context, userID, courseID uint) (*domain.CourseProgress, error) {
	return uc.progressRepo.GetByUserAndCourse(ctx, userID, courseID)
}

func (uc *progressUsecase) UpsertCourseProgress(ctx context.Context, userID, courseID uint, update domain.ProgressUpdate) (*domain.CourseProgress, error) {
	record, err := uc.progressRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil && !errors.Is(err, domain.ErrProgressNotFound) {
		return nil, err
	}

	now := time.Now()

	if record == nil {
		// First touch: the course reference must exist before a record
		// is created for it.
		if _, err := uc.courseRepo.GetByID(ctx, courseID); err != nil {
			return nil, err
		}

		record = &domain.CourseProgress{
			UserID:         userID,
			CourseID:       courseID,
			Status:         domain.StatusInProgress,
			StartedAt:      now,
			LastAccessedAt: now,
			Modules:        []domain.ModuleEntry{},
		}
		uc.applyUpdate(record, update, now)

		if err := uc.progressRepo.Create(ctx, record); err != nil {
			return nil, err
		}
		uc.recordActivity(ctx, userID, courseID, domain.ActivityStartedCourse, "")
		// The first upsert may already carry status=completed; that is a
		// qualifying transition like any other.
		if record.Status == domain.StatusCompleted {
			uc.recordActivity(ctx, userID, courseID, domain.ActivityCompletedCourse, "")
		}
		return record, nil
	}

	wasCompleted := record.Status == domain.StatusCompleted
	uc.applyUpdate(record, update, now)

	if err := uc.progressRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	if !wasCompleted && record.Status == domain.StatusCompleted {
		uc.recordActivity(ctx, userID, courseID, domain.ActivityCompletedCourse, "")
	}
	return record, nil
}

// applyUpdate applies only the fields present in the request; absent
// fields are left unchanged. Completion is one-way: an update that
// omits status never touches status or completedAt.
func (uc *progressUsecase) applyUpdate(record *domain.CourseProgress, update domain.ProgressUpdate, now time.Time) {
	if update.Progress != nil {
		record.Progress = clampPercent(*update.Progress)
	}
	if update.CurrentVideoID != nil {
		record.CurrentVideoID = *update.CurrentVideoID
	}
	if update.CurrentVideoTime != nil {
		record.CurrentVideoTime = *update.CurrentVideoTime
	}
	if update.TotalHoursSpent != nil {
		// Client-supplied accumulator; never allowed to go backwards.
		if *update.TotalHoursSpent > record.TotalHoursSpent {
			record.TotalHoursSpent = *update.TotalHoursSpent
		}
	}
	if update.VideoProgress != nil {
		if record.VideoProgress == nil {
			record.VideoProgress = make(map[string]domain.VideoProgress)
		}
		for videoID, vp := range update.VideoProgress {
			record.VideoProgress[videoID] = vp
		}
	}
	if update.Status != nil && record.Status != domain.StatusCompleted {
		record.Status = *update.Status
		if record.Status == domain.StatusCompleted && record.CompletedAt == nil {
			completed := now
			record.CompletedAt = &completed
			record.Progress = 100
		}
	}
	record.LastAccessedAt = now
}

func (uc *progressUsecase) UpdateModuleProgress(ctx context.Context, userID, courseID uint, update domain.ModuleUpdate) (*domain.CourseProgress, error) {
	// Module updates never implicitly create the parent record; the
	// course-level upsert is the only entry point that starts a course.
	record, err := uc.progressRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	changed := false
	found := false

	for i := range record.Modules {
		if record.Modules[i].ModuleID != update.ModuleID {
			continue
		}
		found = true
		if update.ModuleName != "" {
			record.Modules[i].ModuleName = update.ModuleName
		}
		// Only act on a real toggle; repeating the same value must not
		// re-timestamp or re-emit anything.
		if record.Modules[i].Completed != update.Completed {
			record.Modules[i].Completed = update.Completed
			if update.Completed {
				record.Modules[i].CompletedAt = &now
			} else {
				record.Modules[i].CompletedAt = nil
			}
			changed = true
		}
		break
	}

	if !found {
		entry := domain.ModuleEntry{
			ModuleID:   update.ModuleID,
			ModuleName: update.ModuleName,
			Completed:  update.Completed,
		}
		if update.Completed {
			entry.CompletedAt = &now
		}
		record.Modules = append(record.Modules, entry)
		changed = true
	}

	completedCount := 0
	for _, m := range record.Modules {
		if m.Completed {
			completedCount++
		}
	}
	total := len(record.Modules)
	if total > 0 {
		record.Progress = clampPercent(int(math.Round(100 * float64(completedCount) / float64(total))))
	}

	allDone := total > 0 && completedCount == total
	justCompleted := false
	if allDone && record.Status != domain.StatusCompleted {
		record.Status = domain.StatusCompleted
		if record.CompletedAt == nil {
			record.CompletedAt = &now
		}
		justCompleted = true
	}
	record.LastAccessedAt = now

	if err := uc.progressRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	if changed && update.Completed {
		uc.recordActivity(ctx, userID, courseID, domain.ActivityCompletedModule, update.ModuleName)
	}
	if justCompleted {
		uc.recordActivity(ctx, userID, courseID, domain.ActivityCompletedCourse, "")
	}
	return record, nil
}

func (uc *progressUsecase) GetUserActivity(ctx context.Context, userID uint, limit int) ([]domain.ActivityWithCourse, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	activities, err := uc.activityRepo.GetRecentByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	// Resolve course titles for display
	idSet := make(map[uint]struct{})
	var ids []uint
	for _, a := range activities {
		if _, seen := idSet[a.CourseID]; !seen {
			idSet[a.CourseID] = struct{}{}
			ids = append(ids, a.CourseID)
		}
	}
	courses, err := uc.courseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	titles := make(map[uint]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}

	result := make([]domain.ActivityWithCourse, 0, len(activities))
	for _, a := range activities {
		result = append(result, domain.ActivityWithCourse{
			UserActivity: a,
			CourseTitle:  titles[a.CourseID],
		})
	}
	return result, nil
}

// recordActivity appends to the activity log best-effort. The log is a
// display feature; a failed insert must never fail the progress write.
func (uc *progressUsecase) recordActivity(ctx context.Context, userID, courseID uint, activityType domain.ActivityType, details string) {
	activity := &domain.UserActivity{
		UserID:       userID,
		CourseID:     courseID,
		ActivityType: activityType,
		Details:      details,
		CreatedAt:    time.Now(),
	}
	if err := uc.activityRepo.Create(ctx, activity); err != nil {
		uc.log.Warn("failed to record activity",
			"user_id", userID,
			"course_id", courseID,
			"activity_type", activityType,
			"error", err,
		)
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
