package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int              `json:"port"`
	JWTSecret   string           `json:"jwt_secret"`
	JWTTTLHours int              `json:"jwt_ttl_hours"`
	DB          DatabaseConfig   `json:"db"`
	LogConfig   logger.LogConfig `json:"log_config"`
	AI          AIConfig         `json:"ai"`
	Mail        MailConfig       `json:"mail"`
	Reminder    ReminderConfig   `json:"reminder"`
	FileStore   FileStoreConfig  `json:"file_store"`
	CORSOrigins []string         `json:"cors_origins"`
	RateLimitMS int              `json:"rate_limit_ms"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// AIConfig selects and configures the completion provider. Provider-specific
// settings can live flat (api_key, base_url) or inside data; when data is
// absent the whole block is handed to the provider factory.
type AIConfig struct {
	Provider      string      `json:"provider"`
	Model         string      `json:"model"`
	APIKey        string      `json:"api_key"`
	BaseURL       string      `json:"base_url"`
	MaxInputChars int         `json:"max_input_chars"`
	Timeout       int         `json:"timeout"`
	Data          interface{} `json:"data"`
}

type MailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type ReminderConfig struct {
	CronSpec       string `json:"cron_spec"`
	LookaheadHours int    `json:"lookahead_hours"`
	BatchSize      int    `json:"batch_size"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.Mail.Password == "" {
		cfg.Mail.Password = os.Getenv("SMTP_PASSWORD")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.DB.DSN == "" && cfg.DB.Host == "" {
		return nil, fmt.Errorf("db.dsn or db.host is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 168
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "openai"
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 30
	}
	if cfg.Reminder.CronSpec == "" {
		cfg.Reminder.CronSpec = "*/30 * * * *"
	}
	if cfg.Reminder.LookaheadHours == 0 {
		cfg.Reminder.LookaheadHours = 5
	}
	if cfg.Reminder.BatchSize == 0 {
		cfg.Reminder.BatchSize = 100
	}
	return &cfg, nil
}
