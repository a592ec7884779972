package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sahajranjan/vidpilot/internal/repository"
)

// AnalyticsService pulls platform stats for recently published videos.
type AnalyticsService interface {
	Collect(ctx context.Context, now time.Time) (int, error)
}

type analyticsService struct {
	pub repository.PublishRepository
	yt  YoutubeService
}

func NewAnalyticsService(pub repository.PublishRepository, yt YoutubeService) AnalyticsService {
	return &analyticsService{pub: pub, yt: yt}
}

// Collect fetches stats for everything published in the last 30 days
// and logs per-video performance scores. Returns the number of videos
// covered.
func (s *analyticsService) Collect(ctx context.Context, now time.Time) (int, error) {
	published, err := s.pub.ListPublishedSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return 0, err
	}
	if len(published) == 0 {
		return 0, nil
	}

	videoIDs := make([]string, 0, len(published))
	titles := make(map[string]string, len(published))
	for _, entry := range published {
		videoIDs = append(videoIDs, entry.VideoID)
		titles[entry.VideoID] = entry.Title
	}

	stats, err := s.yt.VideoStats(ctx, videoIDs)
	if err != nil {
		return 0, err
	}

	for _, stat := range stats {
		slog.Info("video performance",
			"video_id", stat.VideoID,
			"title", titles[stat.VideoID],
			"views", stat.Views,
			"score", PerformanceScore(stat))
	}

	return len(stats), nil
}
