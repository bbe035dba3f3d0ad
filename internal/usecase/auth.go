package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursetrack-backend/internal/domain"
	"coursetrack-backend/pkg/logger"
	"coursetrack-backend/pkg/utils"
)

const otpTTL = 10 * time.Minute

type authUsecase struct {
	userRepo domain.UserRepository
	otpStore domain.OTPStore
	log      *logger.Logger
}

func NewAuthUsecase(ur domain.UserRepository, os domain.OTPStore, log *logger.Logger) domain.AuthUsecase {
	return &authUsecase{userRepo: ur, otpStore: os, log: log}
}

func (uc *authUsecase) Register(ctx context.Context, user *domain.User) error {
	existing, err := uc.userRepo.GetByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	if existing != nil {
		return domain.ErrEmailTaken
	}

	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	return uc.userRepo.Create(ctx, user)
}

func (uc *authUsecase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and wrong password; store
		// failures are not a credentials problem and propagate as-is.
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.IsAdmin)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (uc *authUsecase) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *authUsecase) UpdateUser(ctx context.Context, user *domain.User) error {
	existing, err := uc.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}

	if user.Name != "" {
		existing.Name = user.Name
	}
	if user.AvatarID != "" {
		existing.AvatarID = user.AvatarID
	}
	if user.Password != "" {
		hashed, err := utils.HashPassword(user.Password)
		if err != nil {
			return err
		}
		existing.Password = hashed
	}

	return uc.userRepo.Update(ctx, existing)
}

// ForgotPassword stores a short-lived OTP and emails it. Always reports
// success so callers cannot probe which emails are registered.
func (uc *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	if err := uc.otpStore.Set(ctx, user.Email, code, otpTTL); err != nil {
		return err
	}

	go func() {
		body := fmt.Sprintf("Your password reset code is %s. It expires in 10 minutes.", code)
		if err := utils.SendEmail(user.Email, "CourseTrack Password Reset", body); err != nil {
			uc.log.Warn("failed to send otp email", "email", user.Email, "error", err)
		}
	}()
	return nil
}

// ResetPassword verifies and consumes the OTP, then rehashes the
// password. The code is one-shot: a successful reset deletes it.
func (uc *authUsecase) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	stored, err := uc.otpStore.Get(ctx, email)
	if err != nil {
		return err
	}
	if stored != otp {
		return domain.ErrInvalidOTP
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := uc.userRepo.UpdatePassword(ctx, email, hashed); err != nil {
		return err
	}

	if err := uc.otpStore.Delete(ctx, email); err != nil {
		uc.log.Warn("failed to delete consumed otp", "email", email, "error", err)
	}
	return nil
}
