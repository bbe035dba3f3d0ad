package usecase

import (
	"context"
	"testing"

	"coursetrack-backend/internal/domain"
	"coursetrack-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// memProgressRepo keeps progress records in memory so tests can drive
// multi-step scenarios without re-stubbing every call.
type memProgressRepo struct {
	records map[[2]uint]*domain.CourseProgress
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{records: make(map[[2]uint]*domain.CourseProgress)}
}

func (r *memProgressRepo) key(userID, courseID uint) [2]uint {
	return [2]uint{userID, courseID}
}

func (r *memProgressRepo) Create(ctx context.Context, p *domain.CourseProgress) error {
	cp := *p
	r.records[r.key(p.UserID, p.CourseID)] = &cp
	return nil
}

func (r *memProgressRepo) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*domain.CourseProgress, error) {
	p, ok := r.records[r.key(userID, courseID)]
	if !ok {
		return nil, domain.ErrProgressNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProgressRepo) GetByUserID(ctx context.Context, userID uint) ([]domain.CourseProgress, error) {
	var out []domain.CourseProgress
	for _, p := range r.records {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProgressRepo) Update(ctx context.Context, p *domain.CourseProgress) error {
	k := r.key(p.UserID, p.CourseID)
	if _, ok := r.records[k]; !ok {
		return domain.ErrProgressNotFound
	}
	cp := *p
	r.records[k] = &cp
	return nil
}

func (r *memProgressRepo) CountCompleted(ctx context.Context) (int64, error) {
	var n int64
	for _, p := range r.records {
		if p.Status == domain.StatusCompleted {
			n++
		}
	}
	return n, nil
}

type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Create(ctx context.Context, activity *domain.UserActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepo) GetRecentByUserID(ctx context.Context, userID uint, limit int) ([]domain.UserActivity, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.UserActivity), args.Error(1)
}

type MockCourseRepo struct {
	mock.Mock
}

func (m *MockCourseRepo) Create(ctx context.Context, course *domain.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepo) GetAll(ctx context.Context, search, category string) ([]domain.Course, error) {
	args := m.Called(ctx, search, category)
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *MockCourseRepo) GetByID(ctx context.Context, id uint) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockCourseRepo) GetByIDs(ctx context.Context, ids []uint) ([]domain.Course, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *MockCourseRepo) Update(ctx context.Context, course *domain.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourseRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func activityCalls(m *MockActivityRepo, activityType domain.ActivityType) int {
	count := 0
	for _, call := range m.Calls {
		if call.Method != "Create" {
			continue
		}
		if a, ok := call.Arguments.Get(1).(*domain.UserActivity); ok && a.ActivityType == activityType {
			count++
		}
	}
	return count
}

func newProgressTestUsecase(t *testing.T) (domain.ProgressUsecase, *memProgressRepo, *MockActivityRepo, *MockCourseRepo) {
	t.Helper()
	progressRepo := newMemProgressRepo()
	activityRepo := new(MockActivityRepo)
	courseRepo := new(MockCourseRepo)
	uc := NewProgressUsecase(progressRepo, activityRepo, courseRepo, logger.NewNop())
	return uc, progressRepo, activityRepo, courseRepo
}

func TestUpsertCourseProgress_FirstCallCreatesRecord(t *testing.T) {
	uc, repo, activityRepo, courseRepo := newProgressTestUsecase(t)
	ctx := context.Background()

	courseRepo.On("GetByID", mock.Anything, uint(42)).Return(&domain.Course{ID: 42, Title: "Go Basics"}, nil)
	activityRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	record, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, record.Status)
	assert.Equal(t, 0, record.Progress)
	assert.False(t, record.StartedAt.IsZero())
	assert.Nil(t, record.CompletedAt)
	assert.Len(t, repo.records, 1)
	assert.Equal(t, 1, activityCalls(activityRepo, domain.ActivityStartedCourse))

	// A second call must not create another record or re-emit started_course.
	_, err = uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{})
	assert.NoError(t, err)
	assert.Len(t, repo.records, 1)
	assert.Equal(t, 1, activityCalls(activityRepo, domain.ActivityStartedCourse))
}

func TestUpsertCourseProgress_UnknownCourse(t *testing.T) {
	uc, repo, _, courseRepo := newProgressTestUsecase(t)

	courseRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, domain.ErrCourseNotFound)

	_, err := uc.UpsertCourseProgress(context.Background(), 1, 99, domain.ProgressUpdate{})

	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	assert.Empty(t, repo.records)
}

func TestUpsertCourseProgress_PartialUpdate(t *testing.T) {
	uc, _, activityRepo, courseRepo := newProgressTestUsecase(t)
	ctx := context.Background()

	courseRepo.On("GetByID", mock.Anything, uint(42)).Return(&domain.Course{ID: 42}, nil)
	activityRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	progress := 30
	hours := 2.5
	before, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{Progress: &progress, TotalHoursSpent: &hours})
	assert.NoError(t, err)

	// Only currentVideoTime supplied: progress, status and hours stay put.
	videoTime := 120.0
	after, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{CurrentVideoTime: &videoTime})
	assert.NoError(t, err)

	assert.Equal(t, 120.0, after.CurrentVideoTime)
	assert.Equal(t, before.Progress, after.Progress)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.TotalHoursSpent, after.TotalHoursSpent)
	assert.True(t, after.LastAccessedAt.After(before.LastAccessedAt) || after.LastAccessedAt.Equal(before.LastAccessedAt))
}

func TestUpsertCourseProgress_CompletedOnFirstCall(t *testing.T) {
	uc, repo, activityRepo, courseRepo := newProgressTestUsecase(t)
	ctx := context.Background()

	courseRepo.On("GetByID", mock.Anything, uint(42)).Return(&domain.Course{ID: 42}, nil)
	activityRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	completed := domain.StatusCompleted
	record, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{Status: &completed})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, record.Status)
	assert.NotNil(t, record.CompletedAt)
	assert.Equal(t, 100, record.Progress)
	assert.Len(t, repo.records, 1)
	assert.Equal(t, 1, activityCalls(activityRepo, domain.ActivityStartedCourse))
	assert.Equal(t, 1, activityCalls(activityRepo, domain.ActivityCompletedCourse))

	// Repeating the call must not emit either event again.
	_, err = uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{Status: &completed})
	assert.NoError(t, err)
	assert.Equal(t, 1, activityCalls(activityRepo, domain.ActivityStartedCourse))
	assert.Equal(t, 1, activityCalls(activityRepo, domain.ActivityCompletedCourse))
}

func TestUpsertCourseProgress_CompletionIsOneWay(t *testing.T) {
	uc, _, activityRepo, courseRepo := newProgressTestUsecase(t)
	ctx := context.Background()

	courseRepo.On("GetByID", mock.Anything, uint(42)).Return(&domain.Course{ID: 42}, nil)
	activityRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{})
	assert.NoError(t, err)

	completed := domain.StatusCompleted
	record, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{Status: &completed})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, record.Status)
	assert.NotNil(t, record.CompletedAt)
	assert.Equal(t, 100, record.Progress)
	assert.Equal(t, 1, activityCalls(activityRepo, domain.ActivityCompletedCourse))
	completedAt := *record.CompletedAt

	// An update that omits status must not revert completion.
	videoTime := 300.0
	record, err = uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{CurrentVideoTime: &videoTime})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, record.Status)
	assert.Equal(t, completedAt, *record.CompletedAt)

	// Repeating status=completed must not re-emit or re-timestamp.
	record, err = uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{Status: &completed})
	assert.NoError(t, err)
	assert.Equal(t, completedAt, *record.CompletedAt)
	assert.Equal(t, 1, activityCalls(activityRepo, domain.ActivityCompletedCourse))

	// And in-progress cannot be forced back onto a completed record.
	inProgress := domain.StatusInProgress
	record, err = uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{Status: &inProgress})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, record.Status)
}

func TestUpsertCourseProgress_HoursNeverDecrease(t *testing.T) {
	uc, _, activityRepo, courseRepo := newProgressTestUsecase(t)
	ctx := context.Background()

	courseRepo.On("GetByID", mock.Anything, uint(42)).Return(&domain.Course{ID: 42}, nil)
	activityRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	high := 5.0
	_, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{TotalHoursSpent: &high})
	assert.NoError(t, err)

	low := 2.0
	record, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{TotalHoursSpent: &low})
	assert.NoError(t, err)
	assert.Equal(t, 5.0, record.TotalHoursSpent)
}

func TestUpdateModuleProgress_RequiresExistingRecord(t *testing.T) {
	uc, _, _, _ := newProgressTestUsecase(t)

	_, err := uc.UpdateModuleProgress(context.Background(), 1, 42, domain.ModuleUpdate{
		ModuleID:  "m1",
		Completed: true,
	})

	assert.ErrorIs(t, err, domain.ErrProgressNotFound)
}

func TestUpdateModuleProgress_FourModuleScenario(t *testing.T) {
	uc, _, activityRepo, courseRepo := newProgressTestUsecase(t)
	ctx := context.Background()

	courseRepo.On("GetByID", mock.Anything, uint(42)).Return(&domain.Course{ID: 42}, nil)
	activityRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{})
	assert.NoError(t, err)

	// Register all four modules, none complete yet.
	for _, id := range []string{"m1", "m2", "m3", "m4"} {
		_, err := uc.UpdateModuleProgress(ctx, 1, 42, domain.ModuleUpdate{ModuleID: id, ModuleName: id, Completed: false})
		assert.NoError(t, err)
	}

	// Complete modules 1 and 2: progress 50, still in progress.
	for _, id := range []string{"m1", "m2"} {
		_, err := uc.UpdateModuleProgress(ctx, 1, 42, domain.ModuleUpdate{ModuleID: id, Completed: true})
		assert.NoError(t, err)
	}
	record, err := uc.GetProgress(ctx, 1, 42)
	assert.NoError(t, err)
	assert.Equal(t, 50, record.Progress)
	assert.Equal(t, domain.StatusInProgress, record.Status)
	assert.Nil(t, record.CompletedAt)

	// Complete modules 3 and 4: progress 100, course completed once.
	for _, id := range []string{"m3", "m4"} {
		_, err := uc.UpdateModuleProgress(ctx, 1, 42, domain.ModuleUpdate{ModuleID: id, Completed: true})
		assert.NoError(t, err)
	}
	record, err = uc.GetProgress(ctx, 1, 42)
	assert.NoError(t, err)
	assert.Equal(t, 100, record.Progress)
	assert.Equal(t, domain.StatusCompleted, record.Status)
	assert.NotNil(t, record.CompletedAt)
	assert.Equal(t, 1, activityCalls(activityRepo, domain.ActivityCompletedCourse))
}

func TestUpdateModuleProgress_Idempotent(t *testing.T) {
	uc, _, activityRepo, courseRepo := newProgressTestUsecase(t)
	ctx := context.Background()

	courseRepo.On("GetByID", mock.Anything, uint(42)).Return(&domain.Course{ID: 42}, nil)
	activityRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{})
	assert.NoError(t, err)

	_, err = uc.UpdateModuleProgress(ctx, 1, 42, domain.ModuleUpdate{ModuleID: "m2", ModuleName: "Pointers", Completed: false})
	assert.NoError(t, err)

	first, err := uc.UpdateModuleProgress(ctx, 1, 42, domain.ModuleUpdate{ModuleID: "m1", ModuleName: "Intro", Completed: true})
	assert.NoError(t, err)
	assert.Len(t, first.Modules, 2)
	moduleEvents := activityCalls(activityRepo, domain.ActivityCompletedModule)

	// Same call again: no duplicate entry, no changed timestamps, no new event.
	second, err := uc.UpdateModuleProgress(ctx, 1, 42, domain.ModuleUpdate{ModuleID: "m1", ModuleName: "Intro", Completed: true})
	assert.NoError(t, err)
	assert.Len(t, second.Modules, 2)
	assert.Equal(t, first.Progress, second.Progress)

	var firstEntry, secondEntry *domain.ModuleEntry
	for i := range first.Modules {
		if first.Modules[i].ModuleID == "m1" {
			firstEntry = &first.Modules[i]
		}
	}
	for i := range second.Modules {
		if second.Modules[i].ModuleID == "m1" {
			secondEntry = &second.Modules[i]
		}
	}
	assert.NotNil(t, firstEntry)
	assert.NotNil(t, secondEntry)
	assert.Equal(t, *firstEntry.CompletedAt, *secondEntry.CompletedAt)
	assert.Equal(t, moduleEvents, activityCalls(activityRepo, domain.ActivityCompletedModule))
}

func TestUpdateModuleProgress_ZeroModulesLeavesProgress(t *testing.T) {
	uc, _, activityRepo, courseRepo := newProgressTestUsecase(t)
	ctx := context.Background()

	courseRepo.On("GetByID", mock.Anything, uint(42)).Return(&domain.Course{ID: 42}, nil)
	activityRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	progress := 40
	record, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{Progress: &progress})
	assert.NoError(t, err)
	assert.Equal(t, 40, record.Progress)
	assert.Empty(t, record.Modules)
}

func TestUpsertCourseProgress_ActivityFailureIsNonFatal(t *testing.T) {
	uc, repo, activityRepo, courseRepo := newProgressTestUsecase(t)
	ctx := context.Background()

	courseRepo.On("GetByID", mock.Anything, uint(42)).Return(&domain.Course{ID: 42}, nil)
	activityRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	record, err := uc.UpsertCourseProgress(ctx, 1, 42, domain.ProgressUpdate{})

	assert.NoError(t, err)
	assert.NotNil(t, record)
	assert.Len(t, repo.records, 1)
}

func TestGetProgress_NotFound(t *testing.T) {
	uc, _, _, _ := newProgressTestUsecase(t)

	_, err := uc.GetProgress(context.Background(), 1, 777)

	assert.ErrorIs(t, err, domain.ErrProgressNotFound)
}

func TestGetUserActivity_ResolvesCourseTitles(t *testing.T) {
	uc, _, activityRepo, courseRepo := newProgressTestUsecase(t)
	ctx := context.Background()

	activities := []domain.UserActivity{
		{UserID: 1, CourseID: 42, ActivityType: domain.ActivityStartedCourse},
		{UserID: 1, CourseID: 7, ActivityType: domain.ActivityCompletedCourse},
	}
	activityRepo.On("GetRecentByUserID", mock.Anything, uint(1), 10).Return(activities, nil)
	courseRepo.On("GetByIDs", mock.Anything, []uint{42, 7}).Return([]domain.Course{
		{ID: 42, Title: "Go Basics"},
		{ID: 7, Title: "Docker Deep Dive"},
	}, nil)

	result, err := uc.GetUserActivity(ctx, 1, 0) // 0 falls back to default limit

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "Go Basics", result[0].CourseTitle)
	assert.Equal(t, "Docker Deep Dive", result[1].CourseTitle)
}

func TestGetUserActivity_LimitCapped(t *testing.T) {
	uc, _, activityRepo, courseRepo := newProgressTestUsecase(t)

	activityRepo.On("GetRecentByUserID", mock.Anything, uint(1), 50).Return([]domain.UserActivity{}, nil)
	courseRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Course{}, nil)

	_, err := uc.GetUserActivity(context.Background(), 1, 500)

	assert.NoError(t, err)
	activityRepo.AssertCalled(t, "GetRecentByUserID", mock.Anything, uint(1), 50)
}
