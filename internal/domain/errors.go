package domain

import "errors"

// Sentinel errors. Handlers map these to HTTP statuses with errors.Is;
// anything unmatched is treated as a server error.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrCourseNotFound         = errors.New("course not found")
	ErrProgressNotFound       = errors.New("progress record not found")
	ErrFileNotFound           = errors.New("file not found")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidOTP             = errors.New("invalid or expired otp")
	ErrAlreadyInWatchlist     = errors.New("course already in watchlist")
	ErrNotInWatchlist         = errors.New("course not in watchlist")
	ErrLeaderboardUnavailable = errors.New("leaderboard upstream unavailable")
)
