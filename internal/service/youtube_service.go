package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	config "github.com/sahajranjan/vidpilot/configs"
	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/repository"
	"github.com/sahajranjan/vidpilot/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// VideoStats is what the analytics pass reads back per published video.
type VideoStats struct {
	VideoID  string
	Views    uint64
	Likes    uint64
	Comments uint64
}

type YoutubeService interface {
	Upload(ctx context.Context, production *models.Production, entry *models.PublishEntry) (string, string, error)
	RefreshToken(ctx context.Context, account *models.ChannelAccount) error
	VideoStats(ctx context.Context, videoIDs []string) ([]VideoStats, error)
}

type youtubeService struct {
	cfg config.Config
	cr  repository.ChannelRepository
}

func NewYoutubeService(cfg config.Config, cr repository.ChannelRepository) YoutubeService {
	return &youtubeService{cfg: cfg, cr: cr}
}

// Upload pushes the production's assembled bundle to YouTube and
// returns the video id and watch URL.
func (s *youtubeService) Upload(ctx context.Context, production *models.Production, entry *models.PublishEntry) (string, string, error) {
	bundle := production.Artifacts.Bundle
	if bundle == nil {
		return "", "", errors.New("production has no assembled bundle")
	}
	if bundle.Simulated {
		return "", "", fmt.Errorf("bundle is a placeholder, nothing to upload: %s", bundle.Descriptor)
	}

	service, err := s.client(ctx)
	if err != nil {
		return "", "", err
	}

	file, err := os.Open(bundle.Path)
	if err != nil {
		return "", "", fmt.Errorf("open bundle: %w", err)
	}
	defer file.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       entry.Title,
			Description: fmt.Sprintf("%s\n\nTopic: %s", entry.Title, production.Topic),
			CategoryId:  "22",
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: "public",
		},
	}

	call := service.Videos.Insert([]string{"snippet", "status"}, video)
	response, err := call.Media(file).Do()
	if err != nil {
		log.Printf("Error uploading video: %v", err)
		return "", "", err
	}

	if thumb := production.Artifacts.Thumbnail; thumb != nil && !thumb.Simulated {
		if err := s.setThumbnail(service, response.Id, thumb.Path); err != nil {
			slog.Info("thumbnail upload failed", "video_id", response.Id, "error", err.Error())
		}
	}

	url := "https://youtu.be/" + response.Id
	log.Printf("Video uploaded successfully: %s", url)
	return response.Id, url, nil
}

func (s *youtubeService) setThumbnail(service *youtube.Service, videoID, thumbnailPath string) error {
	file, err := os.Open(thumbnailPath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = service.Thumbnails.Set(videoID).Media(file).Do()
	return err
}

func (s *youtubeService) RefreshToken(ctx context.Context, account *models.ChannelAccount) error {
	conf := &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/youtube.upload", "https://www.googleapis.com/auth/youtube.readonly"},
		Endpoint:     google.Endpoint,
	}

	decryptedRefreshToken, err := utils.Decrypt(account.RefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	tokenSource := conf.TokenSource(context.Background(), &oauth2.Token{RefreshToken: decryptedRefreshToken})

	token, err := tokenSource.Token()
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	return s.cr.SetToken(ctx, account.ID, encryptedAccessToken, token.Expiry)
}

// VideoStats pulls view counts for the given video ids.
func (s *youtubeService) VideoStats(ctx context.Context, videoIDs []string) ([]VideoStats, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	service, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	call := service.Videos.List([]string{"statistics"}).Id(strings.Join(videoIDs, ","))
	response, err := call.Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	stats := make([]VideoStats, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Statistics == nil {
			continue
		}
		stats = append(stats, VideoStats{
			VideoID:  item.Id,
			Views:    item.Statistics.ViewCount,
			Likes:    item.Statistics.LikeCount,
			Comments: item.Statistics.CommentCount,
		})
	}
	return stats, nil
}

func (s *youtubeService) client(ctx context.Context) (*youtube.Service, error) {
	account, err := s.cr.Get(ctx)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("no channel account configured")
	}

	decryptedAccessToken, err := utils.Decrypt(account.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{AccessToken: decryptedAccessToken}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		log.Printf("Error creating YouTube service: %v", err)
		return nil, err
	}
	return service, nil
}
