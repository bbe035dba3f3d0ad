package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"coursetrack-backend/internal/domain"
	"coursetrack-backend/pkg/logger"
)

const (
	leaderboardCacheKey = "leaderboard:contributors"
	leaderboardCacheTTL = 15 * time.Minute
)

type leaderboardUsecase struct {
	cache  domain.Cache
	client *http.Client
	log    *logger.Logger
}

func NewLeaderboardUsecase(cache domain.Cache, log *logger.Logger) domain.LeaderboardUsecase {
	return &leaderboardUsecase{
		cache:  cache,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// GetContributors serves the GitHub contributor leaderboard. The
// upstream is polled lazily behind a Redis cache; when GitHub is down
// and the cache is cold, the error surfaces to the caller.
func (uc *leaderboardUsecase) GetContributors(ctx context.Context) ([]domain.Contributor, error) {
	if data, err := uc.cache.Get(ctx, leaderboardCacheKey); err == nil {
		var contributors []domain.Contributor
		if json.Unmarshal(data, &contributors) == nil {
			return contributors, nil
		}
	}

	contributors, err := uc.fetchContributors(ctx)
	if err != nil {
		uc.log.Warn("failed to fetch contributors from GitHub", "error", err)
		return nil, domain.ErrLeaderboardUnavailable
	}

	if data, err := json.Marshal(contributors); err == nil {
		if err := uc.cache.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL); err != nil {
			uc.log.Warn("failed to cache leaderboard", "error", err)
		}
	}
	return contributors, nil
}

func (uc *leaderboardUsecase) fetchContributors(ctx context.Context) ([]domain.Contributor, error) {
	repo := os.Getenv("GITHUB_REPO")
	if repo == "" {
		repo = "coursetrack/coursetrack"
	}
	url := fmt.Sprintf("https://api.github.com/repos/%s/contributors?per_page=50", repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := uc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("github responded %d: %s", resp.StatusCode, body)
	}

	var contributors []domain.Contributor
	if err := json.NewDecoder(resp.Body).Decode(&contributors); err != nil {
		return nil, err
	}
	return contributors, nil
}
