package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Covers
		Enrichment
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	Covers struct {
		BaseDir   string // Directory cover paths are resolved against
		CacheDir  string // Directory for pre-scaled covers; derived from DB path when empty
		MaxWidth  int
		MaxHeight int

		PrewarmEnabled  bool
		PrewarmSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Enrichment struct {
		Enabled bool // Enable OpenLibrary metadata enrichment tasks
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies
	v.SetDefault("auth_max_login_attempts", 5)   // Max failed attempts
	v.SetDefault("auth_lockout_duration", "30m") // Lockout duration

	// Cover defaults
	v.SetDefault("covers_base_dir", ".")
	v.SetDefault("covers_cache_dir", "")
	v.SetDefault("covers_max_width", DefaultCoverMaxWidth)
	v.SetDefault("covers_max_height", DefaultCoverMaxHeight)
	v.SetDefault("covers_prewarm_enabled", true)
	v.SetDefault("covers_prewarm_schedule", "0 3 * * *") // Daily at 03:00

	// Enrichment defaults
	v.SetDefault("enrichment_enabled", false)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Covers: Covers{
			BaseDir:         v.GetString("COVERS_BASE_DIR"),
			CacheDir:        v.GetString("COVERS_CACHE_DIR"),
			MaxWidth:        v.GetInt("COVERS_MAX_WIDTH"),
			MaxHeight:       v.GetInt("COVERS_MAX_HEIGHT"),
			PrewarmEnabled:  v.GetBool("COVERS_PREWARM_ENABLED"),
			PrewarmSchedule: v.GetString("COVERS_PREWARM_SCHEDULE"),
		},
		Enrichment: Enrichment{
			Enabled: v.GetBool("ENRICHMENT_ENABLED"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
