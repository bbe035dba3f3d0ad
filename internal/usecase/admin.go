package usecase

import (
	"context"

	"coursetrack-backend/internal/domain"
)

type adminUsecase struct {
	userRepo     domain.UserRepository
	courseRepo   domain.CourseRepository
	feedbackRepo domain.FeedbackRepository
	progressRepo domain.ProgressRepository
}

func NewAdminUsecase(
	ur domain.UserRepository,
	cr domain.CourseRepository,
	fr domain.FeedbackRepository,
	pr domain.ProgressRepository,
) domain.AdminUsecase {
	return &adminUsecase{
		userRepo:     ur,
		courseRepo:   cr,
		feedbackRepo: fr,
		progressRepo: pr,
	}
}

func (uc *adminUsecase) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	users, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := uc.courseRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	feedback, err := uc.feedbackRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := uc.progressRepo.CountCompleted(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.AdminStats{
		TotalUsers:       int(users),
		TotalCourses:     int(courses),
		TotalFeedback:    int(feedback),
		CompletedCourses: int(completed),
	}, nil
}

func (uc *adminUsecase) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	return uc.userRepo.GetAll(ctx)
}

func (uc *adminUsecase) DeleteUser(ctx context.Context, id uint) error {
	if _, err := uc.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.userRepo.Delete(ctx, id)
}

func (uc *adminUsecase) SubmitFeedback(ctx context.Context, fb *domain.Feedback) error {
	return uc.feedbackRepo.Create(ctx, fb)
}

func (uc *adminUsecase) GetAllFeedback(ctx context.Context) ([]domain.Feedback, error) {
	return uc.feedbackRepo.GetAll(ctx)
}

func (uc *adminUsecase) DeleteFeedback(ctx context.Context, id uint) error {
	return uc.feedbackRepo.Delete(ctx, id)
}
