package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/repository"
	"github.com/sahajranjan/vidpilot/internal/service"
)

type TokenRefreshJob struct {
	cr repository.ChannelRepository
	yt service.YoutubeService
}

func NewTokenRefreshJob(cr repository.ChannelRepository, yt service.YoutubeService) *TokenRefreshJob {
	return &TokenRefreshJob{cr: cr, yt: yt}
}

// RefreshTokens renews access tokens expiring within the next half
// hour so no publish attempt runs into an expired credential.
func (c *TokenRefreshJob) RefreshTokens(ctx context.Context) error {
	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.cr.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	var wg sync.WaitGroup

	concurrencyLimit := 4
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.ChannelAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.yt.RefreshToken(ctx, acc); err != nil {
				slog.Info("unable to refresh channel token", "channel_id", acc.ChannelID)
			}
		}(acc)
	}

	wg.Wait()
	return nil
}
