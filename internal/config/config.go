package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/satriahrh/stationcast/adapters/cloudinary"
	"github.com/satriahrh/stationcast/adapters/mongo"
)

// Store drivers
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

const (
	defaultPort              = "5000"
	defaultMongoURL          = "mongodb://localhost:27017"
	defaultDatabase          = "railway"
	defaultAudioFolder       = "train-audio"
	defaultAudioMaxBytes     = 5 * 1024 * 1024
	defaultAudioRelayTimeout = 2 * time.Minute
)

// Config is the process configuration
type Config struct {
	Env         string
	Port        string
	StoreDriver string
	Mongo       mongo.Config
	Cloudinary  cloudinary.Config

	AudioFolder       string
	AudioMaxBytes     int64
	AudioRelayTimeout time.Duration

	// RateLimitRPS is the per-client request rate; 0 disables limiting
	RateLimitRPS float64
}

// IsDevelopment reports whether APP_ENV selects development mode
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the environment
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
			}
		}
	}

	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (Config, error) {
	cfg := Config{
		Env:         os.Getenv("APP_ENV"),
		Port:        getEnv("PORT", defaultPort),
		StoreDriver: getEnv("STORE_DRIVER", StoreMongo),
		Mongo: mongo.Config{
			URI:      getEnv("MONGODB_URL", defaultMongoURL),
			Database: getEnv("DB_NAME", defaultDatabase),
		},
		Cloudinary: cloudinary.Config{
			URL:       os.Getenv("CLOUDINARY_URL"),
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		AudioFolder:       getEnv("AUDIO_FOLDER", defaultAudioFolder),
		AudioMaxBytes:     defaultAudioMaxBytes,
		AudioRelayTimeout: defaultAudioRelayTimeout,
	}

	if cfg.StoreDriver != StoreMongo && cfg.StoreDriver != StoreMemory {
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, cfg.StoreDriver)
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("PORT must be a valid port number, got %q", cfg.Port)
	}

	if v := os.Getenv("AUDIO_MAX_BYTES"); v != "" {
		maxBytes, err := strconv.ParseInt(v, 10, 64)
		if err != nil || maxBytes <= 0 {
			return Config{}, fmt.Errorf("AUDIO_MAX_BYTES must be a positive integer, got %q", v)
		}
		cfg.AudioMaxBytes = maxBytes
	}

	if v := os.Getenv("AUDIO_RELAY_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("AUDIO_RELAY_TIMEOUT must be a positive duration, got %q", v)
		}
		cfg.AudioRelayTimeout = timeout
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be a non-negative number, got %q", v)
		}
		cfg.RateLimitRPS = rps
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
