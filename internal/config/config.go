package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port       string `yaml:"port"`
		SessionKey string `yaml:"session_key"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Game struct {
		TimeLimit     string `yaml:"time_limit"`
		Tick          string `yaml:"tick"`
		WarnThreshold string `yaml:"warn_threshold"`
		FactHold      string `yaml:"fact_hold"`
	} `yaml:"game"`
	Leaderboard struct {
		Limit   int    `yaml:"limit"`
		Refresh string `yaml:"refresh"`
	} `yaml:"leaderboard"`
	Facts struct {
		BaseURL string `yaml:"base_url"`
		TTL     string `yaml:"ttl"`
	} `yaml:"facts"`
	Client struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"client"`
	OAuth struct {
		GithubClientID     string `yaml:"github_client_id"`
		GithubClientSecret string `yaml:"github_client_secret"`
		RedirectURL        string `yaml:"redirect_url"`
	} `yaml:"oauth"`
}

// Load reads YAML config from path. A missing file yields the zero config so
// every knob falls back to its default; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Defaults for the game loop and leaderboard view. The round length and the
// warning threshold mirror the values the game has always used.
const (
	DefaultTimeLimit          = 20 * time.Second
	DefaultTick               = 100 * time.Millisecond
	DefaultWarnThreshold      = 3 * time.Second
	DefaultFactHold           = 5 * time.Second
	DefaultLeaderboardRefresh = 30 * time.Second
	DefaultLeaderboardLimit   = 10
	DefaultFactsBaseURL       = "http://numbersapi.com"
)
