package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" or "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Webhook struct {
		VerifyToken        string `json:"verify_token"`
		AppSecret          string `json:"app_secret"`
		RateLimitPerMinute int    `json:"rate_limit_per_minute"`
	} `json:"webhook"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// defaults
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Webhook.RateLimitPerMinute <= 0 {
		c.Webhook.RateLimitPerMinute = 100
	}

	// Secrets come from the environment when set; the file values are a
	// convenience for local development only.
	if v := strings.TrimSpace(os.Getenv("WEBHOOK_VERIFY_TOKEN")); v != "" {
		c.Webhook.VerifyToken = v
	}
	if v := strings.TrimSpace(os.Getenv("INSTAGRAM_APP_SECRET")); v != "" {
		c.Webhook.AppSecret = v
	}

	return c
}
