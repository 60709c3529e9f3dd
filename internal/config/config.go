package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	RedisURL    string

	OpenAIAPIKey  string
	OpenAIBaseURL string // empty = SDK default (api.openai.com)
	TextModel     string
	ImageModel    string
	ImageSize     string

	ImageDir          string // local image root, images live at {ImageDir}/{id}.png
	ImageFetchTimeout time.Duration

	MinioEndpoint  string // when set, images go to object storage instead of ImageDir
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	NatsURL string

	CORSAllowOrigins []string
	IdleTimeout      time.Duration
	HealthAdminKey   string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_URL", "database.db")
	v.SetDefault("TEXT_MODEL", "gpt-4o-mini")
	v.SetDefault("IMAGE_MODEL", "dall-e-2")
	v.SetDefault("IMAGE_SIZE", "256x256")
	v.SetDefault("IMAGE_DIR", "img")
	v.SetDefault("IMAGE_FETCH_TIMEOUT", "30s")
	v.SetDefault("MINIO_BUCKET", "listing-images")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("IDLE_TIMEOUT", "30s")

	return &Config{
		Env:               v.GetString("APP_ENV"),
		Port:              v.GetString("PORT"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		RedisURL:          v.GetString("REDIS_URL"),
		OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:     strings.TrimRight(v.GetString("OPENAI_BASE_URL"), "/"),
		TextModel:         v.GetString("TEXT_MODEL"),
		ImageModel:        v.GetString("IMAGE_MODEL"),
		ImageSize:         v.GetString("IMAGE_SIZE"),
		ImageDir:          v.GetString("IMAGE_DIR"),
		ImageFetchTimeout: v.GetDuration("IMAGE_FETCH_TIMEOUT"),
		MinioEndpoint:     v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:    v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:    v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:       v.GetString("MINIO_BUCKET"),
		MinioUseSSL:       strings.EqualFold(v.GetString("MINIO_USE_SSL"), "true"),
		NatsURL:           v.GetString("NATS_URL"),
		CORSAllowOrigins:  splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		IdleTimeout:       v.GetDuration("IDLE_TIMEOUT"),
		HealthAdminKey:    v.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
