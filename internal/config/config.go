package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig is the process configuration, read from the environment with
// sensible defaults. A .env file is honoured when present.
type AppConfig struct {
	OpenWeatherAPIKey string
	DefaultCity       string
	Port              string

	// DataDir holds the append-only CSV logs and the analysis artifact.
	DataDir string
	// DatasetPath is the daily observation dataset the model trains on.
	DatasetPath string
	// ReportDir receives per-attribute evaluation artifacts after training.
	ReportDir string

	// HTTPTimeout bounds outbound calls to the weather provider.
	HTTPTimeout time.Duration
	// CaptureInterval controls how often the scheduler records current
	// conditions for the default city.
	CaptureInterval time.Duration
}

// Load reads configuration from the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		DefaultCity:       getenvDefault("DEFAULT_CITY", "London"),
		Port:              getenvDefault("PORT", "8080"),
		DataDir:           getenvDefault("DATA_DIR", "data"),
	}

	cfg.DatasetPath = getenvDefault("DATASET_PATH", filepath.Join(cfg.DataDir, "weather_data.csv"))
	cfg.ReportDir = getenvDefault("REPORT_DIR", filepath.Join(cfg.DataDir, "eval"))

	var err error
	cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.CaptureInterval, err = getenvDuration("CAPTURE_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
