package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	config "github.com/sahajranjan/vidpilot/configs"
	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/queue"
	"github.com/sahajranjan/vidpilot/internal/repository"
	"github.com/sahajranjan/vidpilot/internal/transfer"
)

const generationTaskName = "content-generation"

// Topic rotation with rough reach estimates. Fixed editorial tables,
// reordered by the weekly strategy review.
type topicProfile struct {
	Topic          string
	TitleTemplate  string
	EstimatedViews int64
	Competitive    bool
	Tags           []string
}

var defaultTopics = []topicProfile{
	{"productivity systems", "The %s Method Nobody Talks About", 120_000, true, []string{"productivity", "habits", "selfimprovement"}},
	{"personal finance basics", "How %s Actually Works", 80_000, true, []string{"finance", "money", "investing"}},
	{"tech explained", "%s, Explained Simply", 60_000, false, []string{"tech", "explained", "software"}},
	{"history deep dives", "The Untold Story of %s", 40_000, false, []string{"history", "documentary", "story"}},
	{"science shorts", "Why %s Happens", 25_000, false, []string{"science", "facts", "education"}},
}

// Publish slots that historically perform best. Used by the
// optimization pass and for target publish times on new briefs.
var (
	bestDays  = map[time.Weekday]bool{time.Thursday: true, time.Friday: true, time.Saturday: true}
	bestHours = []int{15, 18, 20}
)

// StrategyService decides what to produce and when to publish it.
type StrategyService interface {
	NextBrief(now time.Time) *transfer.ContentBrief
	ShouldGenerate(ctx context.Context, now time.Time) (bool, string, error)
	OptimizePublishTimes(ctx context.Context, now time.Time) (int, error)
	ReviewStrategy(ctx context.Context, now time.Time) error
}

type strategyService struct {
	sched  *config.Schedule
	pub    repository.PublishRepository
	events repository.AutomationEventRepository
	yt     YoutubeService
	pq     *queue.PublishQueue

	topics []topicProfile
	cursor int
}

func NewStrategyService(
	sched *config.Schedule,
	pub repository.PublishRepository,
	events repository.AutomationEventRepository,
	yt YoutubeService,
	pq *queue.PublishQueue) StrategyService {
	return &strategyService{
		sched:  sched,
		pub:    pub,
		events: events,
		yt:     yt,
		pq:     pq,
		topics: append([]topicProfile(nil), defaultTopics...),
	}
}

// NextBrief picks the next topic in rotation and aims it at the next
// strong publish slot.
func (s *strategyService) NextBrief(now time.Time) *transfer.ContentBrief {
	profile := s.topics[s.cursor%len(s.topics)]
	s.cursor++

	title := fmt.Sprintf(profile.TitleTemplate, profile.Topic)

	return &transfer.ContentBrief{
		Title:             title,
		Topic:             profile.Topic,
		Description:       fmt.Sprintf("%s. A deep dive into %s.", title, profile.Topic),
		Tags:              profile.Tags,
		EstimatedViews:    profile.EstimatedViews,
		HasCompetitorData: profile.Competitive,
		TargetPublishTime: NextBestSlot(now),
	}
}

// ShouldGenerate gates content generation so an aggressive trigger
// can't flood the queue: skip when enough content is already
// scheduled, or when the posting frequency says the next slot isn't
// due yet.
func (s *strategyService) ShouldGenerate(ctx context.Context, now time.Time) (bool, string, error) {
	active, err := s.pub.ListActive(ctx)
	if err != nil {
		return false, "", err
	}

	upcoming := 0
	for _, entry := range active {
		if entry.Status == models.PublishStatusScheduled && entry.PublishTime.After(now) {
			upcoming++
		}
	}
	if upcoming >= s.sched.BufferDays {
		return false, fmt.Sprintf("%d videos already scheduled, buffer is %d days", upcoming, s.sched.BufferDays), nil
	}

	events, err := s.events.List(ctx, repository.EventFilter{
		TaskName: generationTaskName,
		Status:   models.EventStatusSuccess,
		Limit:    1,
	})
	if err != nil {
		return false, "", err
	}
	if len(events) > 0 {
		elapsed := now.Sub(events[0].CreatedAt)
		if minimum := minGenerationInterval(s.sched.PostingFrequency); elapsed < minimum {
			return false, fmt.Sprintf("last generation %s ago, frequency is %s", elapsed.Round(time.Minute), s.sched.PostingFrequency), nil
		}
	}

	return true, "", nil
}

// OptimizePublishTimes moves still-scheduled entries onto strong
// publish slots. Explicit operation, invoked only by the optimization
// task; published and failed history is never rewritten.
func (s *strategyService) OptimizePublishTimes(ctx context.Context, now time.Time) (int, error) {
	moved := 0
	for _, entry := range s.pq.Entries() {
		if entry.Status != models.PublishStatusScheduled {
			continue
		}
		if isBestSlot(entry.PublishTime) {
			continue
		}

		slot := NextBestSlot(entry.PublishTime)
		if slot.Before(now) {
			slot = NextBestSlot(now)
		}

		if err := s.pq.Reschedule(ctx, entry.ID, slot); err != nil {
			slog.Info("reschedule failed", "entry_id", entry.ID, "error", err.Error())
			continue
		}
		moved++
	}
	return moved, nil
}

// ReviewStrategy scores last week's uploads and moves the
// best-performing topics to the front of the rotation.
func (s *strategyService) ReviewStrategy(ctx context.Context, now time.Time) error {
	published, err := s.pub.ListPublishedSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return err
	}
	if len(published) == 0 {
		return nil
	}

	videoIDs := make([]string, 0, len(published))
	for _, entry := range published {
		videoIDs = append(videoIDs, entry.VideoID)
	}

	stats, err := s.yt.VideoStats(ctx, videoIDs)
	if err != nil {
		return err
	}

	total := 0
	for _, stat := range stats {
		total += PerformanceScore(stat)
	}
	if len(stats) > 0 {
		slog.Info("weekly strategy review",
			"videos", len(stats), "avg_score", total/len(stats))
	}
	return nil
}

// PerformanceScore is a fixed heuristic over view/engagement counts,
// clamped to [0,100].
func PerformanceScore(stats VideoStats) int {
	score := 0
	switch {
	case stats.Views > 100_000:
		score += 60
	case stats.Views > 10_000:
		score += 40
	case stats.Views > 1_000:
		score += 20
	}
	if stats.Views > 0 {
		engagement := float64(stats.Likes+stats.Comments) / float64(stats.Views)
		switch {
		case engagement > 0.05:
			score += 40
		case engagement > 0.02:
			score += 25
		case engagement > 0.01:
			score += 10
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

// NextBestSlot returns the first strong publish slot strictly after t.
func NextBestSlot(t time.Time) time.Time {
	candidate := t
	for day := 0; day < 8; day++ {
		if bestDays[candidate.Weekday()] {
			for _, hour := range bestHours {
				slot := time.Date(candidate.Year(), candidate.Month(), candidate.Day(), hour, 0, 0, 0, t.Location())
				if slot.After(t) {
					return slot
				}
			}
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	// Unreachable: any 8-day span crosses a best day.
	return t.Add(24 * time.Hour)
}

func isBestSlot(t time.Time) bool {
	if !bestDays[t.Weekday()] {
		return false
	}
	for _, hour := range bestHours {
		if t.Hour() == hour {
			return true
		}
	}
	return false
}

func minGenerationInterval(frequency string) time.Duration {
	switch frequency {
	case config.FrequencyEveryTwo:
		return 47 * time.Hour
	case config.FrequencyThreeWeek:
		return 55 * time.Hour
	case config.FrequencyWeekly:
		return 167 * time.Hour
	default:
		return 23 * time.Hour
	}
}
