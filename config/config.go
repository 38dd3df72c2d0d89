package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"rightscrape/extract"
)

type Config struct {
	Site        SiteConfig
	Scheduler   SchedulerConfig
	S3          S3Config
	DBPath      string
	DatabaseURL string // optional Postgres mirror
	FetchMode   string // http or browser
	ProxyURL    string
	LogPath     string
	RoomsPath   string
}

// SiteConfig fixes the scanning constants for the target site. Defaults are
// the production Rightmove values; a yaml file can override them to point
// the engine at a mirror or a fixture host.
type SiteConfig struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Host      string `yaml:"host"`
	Marker    string `yaml:"marker"`
	MediaHost string `yaml:"media_host"`
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Site: SiteConfig{
			ID:        "rightmove",
			Name:      "Rightmove",
			Host:      "rightmove.co.uk",
			Marker:    "window.PAGE_MODEL = ",
			MediaHost: "https://media.rightmove.co.uk",
		},
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("WATCH_CRON"),
		},
		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
		DBPath:      getEnv("DB_PATH", "rightscrape.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		FetchMode:   getEnv("FETCH_MODE", "http"),
		ProxyURL:    os.Getenv("PROXY_URL"),
		LogPath:     getEnv("LOG_PATH", "rightscrape.log"),
		RoomsPath:   getEnv("ROOMS_CONFIG", "config/rooms.yaml"),
	}

	if interval := os.Getenv("WATCH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := loadYAML(getEnv("SITE_CONFIG", "config/site.yaml"), &cfg.Site); err != nil {
		return nil, fmt.Errorf("site config: %w", err)
	}

	return cfg, nil
}

// ExtractorConfig assembles the engine configuration, applying the room
// table overrides from rooms.yaml when the file exists.
func (c *Config) ExtractorConfig() (extract.Config, error) {
	ecfg := extract.Config{
		Marker:     c.Site.Marker,
		MediaHost:  c.Site.MediaHost,
		Classifier: extract.DefaultClassifierConfig(),
	}

	var tables extract.ClassifierConfig
	if err := loadYAML(c.RoomsPath, &tables); err != nil {
		return ecfg, fmt.Errorf("rooms config: %w", err)
	}

	for _, rule := range tables.Keywords {
		if !rule.Room.Valid() {
			return ecfg, fmt.Errorf("rooms config: unknown room type %q", rule.Room)
		}
	}
	for _, room := range tables.Positional {
		if !room.Valid() {
			return ecfg, fmt.Errorf("rooms config: unknown room type %q", room)
		}
	}

	if len(tables.Keywords) > 0 {
		ecfg.Classifier.Keywords = tables.Keywords
	}
	if len(tables.Positional) > 0 {
		ecfg.Classifier.Positional = tables.Positional
	}

	return ecfg, nil
}

// loadYAML unmarshals path into out; a missing file is not an error.
func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, out)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
