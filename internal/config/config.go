package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string
	JWTSecret      string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string
	SearchIndex     string

	StorageDriver       string
	CloudinaryURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	S3Bucket            string
	S3Region            string
	S3Endpoint          string
	S3AccessKey         string
	S3SecretKey         string
	S3PublicBaseURL     string
	S3UsePathStyle      bool
	UploadFolder        string
	UploadMaxBytes      int64
	UploadAllowedTypes  []string

	TagCacheTTL      time.Duration
	ReindexSchedule  string
	TagCacheSchedule string
	ShutdownTimeout  time.Duration

	LogLevel  string
	LogFormat string
	LogOutput string
	LogFile   string
}

var defaults = map[string]any{
	"APP_ENV":              "development",
	"PORT":                 "8080",
	"ALLOWED_ORIGINS":      "http://localhost:3000",
	"JWT_SECRET":           "",
	"DB_HOST":              "localhost",
	"DB_USER":              "postgres",
	"DB_PASS":              "",
	"DB_NAME":              "blog",
	"DB_PORT":              "5432",
	"MEILISEARCH_HOST":     "http://localhost:7700",
	"SEARCH_INDEX":         "blog_documents",
	"STORAGE_DRIVER":       "cloudinary",
	"S3_REGION":            "us-east-1",
	"S3_USE_PATH_STYLE":    false,
	"UPLOAD_FOLDER":        "blog",
	"UPLOAD_MAX_BYTES":     int64(10 << 20),
	"UPLOAD_ALLOWED_TYPES": "image/jpeg,image/png,image/gif,image/webp,application/pdf,text/plain",
	"TAG_CACHE_TTL":        "10m",
	"REINDEX_SCHEDULE":     "0 3 * * *",
	"TAG_CACHE_SCHEDULE":   "*/30 * * * *",
	"SHUTDOWN_TIMEOUT":     "10s",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "json",
	"LOG_OUTPUT":           "stdout",
	"LOG_FILE":             "logs/blogapi.log",
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// FromViper builds the config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:         v.GetString("APP_ENV"),
		Port:           v.GetString("PORT"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		JWTSecret:      v.GetString("JWT_SECRET"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		RedisURL:    v.GetString("REDIS_URL"),

		MeiliSearchHost: v.GetString("MEILISEARCH_HOST"),
		MeiliMasterKey:  v.GetString("MEILI_MASTER_KEY"),
		SearchIndex:     v.GetString("SEARCH_INDEX"),

		StorageDriver:       strings.ToLower(v.GetString("STORAGE_DRIVER")),
		CloudinaryURL:       v.GetString("CLOUDINARY_URL"),
		CloudinaryCloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    v.GetString("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: v.GetString("CLOUDINARY_API_SECRET"),
		S3Bucket:            v.GetString("S3_BUCKET"),
		S3Region:            v.GetString("S3_REGION"),
		S3Endpoint:          v.GetString("S3_ENDPOINT"),
		S3AccessKey:         v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:         v.GetString("S3_SECRET_KEY"),
		S3PublicBaseURL:     v.GetString("S3_PUBLIC_BASE_URL"),
		S3UsePathStyle:      v.GetBool("S3_USE_PATH_STYLE"),
		UploadFolder:        v.GetString("UPLOAD_FOLDER"),
		UploadAllowedTypes:  splitList(v.GetString("UPLOAD_ALLOWED_TYPES")),

		ReindexSchedule:  v.GetString("REINDEX_SCHEDULE"),
		TagCacheSchedule: v.GetString("TAG_CACHE_SCHEDULE"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		LogOutput: v.GetString("LOG_OUTPUT"),
		LogFile:   v.GetString("LOG_FILE"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			v.GetString("DB_HOST"),
			v.GetString("DB_USER"),
			v.GetString("DB_PASS"),
			v.GetString("DB_NAME"),
			v.GetString("DB_PORT"),
		)
	}
	if !strings.HasPrefix(cfg.MeiliSearchHost, "http") {
		cfg.MeiliSearchHost = "http://" + cfg.MeiliSearchHost + ":7700"
	}

	var err error
	cfg.UploadMaxBytes, err = parsePositiveInt(v, "UPLOAD_MAX_BYTES")
	if err != nil {
		return nil, err
	}
	cfg.TagCacheTTL, err = parseDuration(v, "TAG_CACHE_TTL")
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout, err = parseDuration(v, "SHUTDOWN_TIMEOUT")
	if err != nil {
		return nil, err
	}

	switch cfg.StorageDriver {
	case "cloudinary", "s3":
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER: %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePositiveInt(v *viper.Viper, key string) (int64, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
