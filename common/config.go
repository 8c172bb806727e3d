package common

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type H = map[string]interface{}

var (
	WebAddr       string
	Port          string
	SessionSecret string

	ScraperURL   string
	ScraperKey   string
	PollInterval time.Duration
	MaxPolls     int
	MaxFailures  int
)

// EnvOr prefers the environment (possibly loaded from .env) over the
// config.json value, so deployments can override secrets without
// touching the file.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadConfig reads config.json and layers .env on top of it.
func LoadConfig(path string) (H, error) {
	godotenv.Load()
	content, err := GetContent(path)
	if err != nil {
		return nil, err
	}
	cfg := make(H)
	if err := json.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Init(cfg H) error {
	WebAddr, _ = cfg["address"].(string)
	Port, _ = cfg["port"].(string)
	if Port == "" {
		Port = "9999"
	}
	SessionSecret = EnvOr("SESSION_SECRET", strOf(cfg["session_secret"]))
	if SessionSecret == "" {
		return errors.New("missing session secret")
	}

	scraper, ok := cfg["scraper"].(H)
	if !ok {
		return errors.New("missing scraper configuration")
	}
	ScraperURL = EnvOr("SCRAPER_URL", strOf(scraper["url"]))
	ScraperKey = EnvOr("SCRAPER_API_KEY", strOf(scraper["api_key"]))
	if ScraperURL == "" || ScraperKey == "" {
		return errors.New("missing scraper url or api key")
	}
	PollInterval = time.Duration(intOf(scraper["poll_interval_ms"], 3000)) * time.Millisecond
	MaxPolls = intOf(scraper["max_polls"], 200)
	MaxFailures = intOf(scraper["max_failures"], 5)
	return nil
}

func strOf(v interface{}) string {
	s, _ := v.(string)
	return s
}

//json numbers decode as float64
func intOf(v interface{}, fallback int) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case string:
		if n := StrToInt(x); n != 0 {
			return n
		}
	}
	return fallback
}
