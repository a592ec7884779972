package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type OpenAI struct {
	Endpoint string
	Model    string
	APIKey   string
}

type Replicate struct {
	APIToken string
	Version  string
}

type ElevenLabs struct {
	APIKey  string
	VoiceID string
}

type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	PostgresURI        string
	RedisURI           string
	R2                 R2
	OpenAI             OpenAI
	Replicate          Replicate
	ElevenLabs         ElevenLabs
	ThumbnailEndpoint  string
	FFmpegPath         string
	WorkDir            string
	ScheduleFile       string
	SecretKey          string
	CookieName         string
	AdminPassword      string
	OperatorAPIKey     string
}

func LoadConfig() *Config {
	return &Config{
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", ""),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		OpenAI: OpenAI{
			Endpoint: getEnv("OPENAI_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
			Model:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:   getEnv("OPENAI_API_KEY", ""),
		},
		Replicate: Replicate{
			APIToken: getEnv("REPLICATE_API_TOKEN", ""),
			Version:  getEnv("REPLICATE_MODEL_VERSION", ""),
		},
		ElevenLabs: ElevenLabs{
			APIKey:  getEnv("ELEVENLABS_API_KEY", ""),
			VoiceID: getEnv("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		},
		ThumbnailEndpoint: getEnv("THUMBNAIL_ENDPOINT", "https://image.pollinations.ai/prompt"),
		FFmpegPath:        getEnv("FFMPEG_PATH", "ffmpeg"),
		WorkDir:           getEnv("WORK_DIR", "/tmp/vidpilot"),
		ScheduleFile:      getEnv("SCHEDULE_FILE", "configs/schedule.yaml"),
		SecretKey:         getEnv("SECRET_KEY", ""),
		CookieName:        getEnv("COOKIE_NAME", "vidpilot_session"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		OperatorAPIKey:    getEnv("OPERATOR_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
