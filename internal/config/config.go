package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Admin
		Session
		Storage
		Tasks
		Sweeper
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	// Admin holds the single administrative credential. Injected at process
	// start rather than read from globals so tests can construct their own.
	Admin struct {
		Username string
		Password string
	}

	Session struct {
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}

	// Storage configures the S3-compatible object store holding book PDFs.
	Storage struct {
		Endpoint        string
		AccessKeyID     string
		SecretAccessKey string
		Bucket          string
		UseSSL          bool
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	Sweeper struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}

	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Admin credential defaults are intentionally empty; the server refuses
	// to enable login without them.
	v.SetDefault("admin_username", "")
	v.SetDefault("admin_password", "")

	// Session defaults. The 120h lifetime matches the 5-day cookie expiry
	// the frontend expects.
	v.SetDefault("session_lifetime", "120h")
	v.SetDefault("session_secure_cookies", true)

	// Object storage defaults
	v.SetDefault("storage_endpoint", "")
	v.SetDefault("storage_access_key_id", "")
	v.SetDefault("storage_secret_access_key", "")
	v.SetDefault("storage_bucket", DefaultPDFBucket)
	v.SetDefault("storage_use_ssl", true)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Orphan sweep defaults
	v.SetDefault("sweep_enabled", false)
	v.SetDefault("sweep_schedule", "0 3 * * *") // Daily at 03:00

	v.SetDefault("audit_retention_days", 30)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Admin: Admin{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
		},
		Storage: Storage{
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("STORAGE_BUCKET"),
			UseSSL:          v.GetBool("STORAGE_USE_SSL"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Sweeper: Sweeper{
			Enabled:  v.GetBool("SWEEP_ENABLED"),
			Schedule: v.GetString("SWEEP_SCHEDULE"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
