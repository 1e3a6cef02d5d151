package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type SourceConfig struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Transformer string `json:"transformer"`
}

type Config struct {
	MongoURI        string
	MongoDBName     string
	MongoColl       string
	PollInterval    time.Duration
	PageSize        int
	WindowMaxPages  int
	ServerPort      string
	Sources         []SourceConfig
	WorkerPoolSize  int
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaDLQTopic   string
	SourcesFilePath string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Parse comma-separated list of brokers
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "kafka:29092"
	}

	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "cat_gallery"),
		MongoColl:       getEnv("MONGO_COLLECTION", "cats"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://mongodb:27017"),
		PollInterval:    getDurationEnv("POLL_INTERVAL", 5*time.Minute),
		PageSize:        getIntEnv("PAGE_SIZE", 20),
		WindowMaxPages:  getIntEnv("WINDOW_MAX_PAGES", 6),
		WorkerPoolSize:  getIntEnv("WORKER_POOL_SIZE", 3),
		KafkaBrokers:    strings.Split(brokers, ","),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "cat_images"),
		KafkaDLQTopic:   getEnv("KAFKA_DLQ_TOPIC", "cat_images_dlq"),
		SourcesFilePath: getEnv("SOURCES_FILE_PATH", "config/sources.json"),
	}
	cfg.Sources = loadSources(cfg.SourcesFilePath)
	return cfg
}

func loadSources(path string) []SourceConfig {
	// If path doesn't exist, try fallback for convenience during dev/test if default was used
	if _, err := os.Stat(path); os.IsNotExist(err) && path == "config/sources.json" {
		fallback := "../config/sources.json"
		if _, err := os.Stat(fallback); err == nil {
			path = fallback
		}
	}

	file, err := os.Open(path)
	if err != nil {
		slog.Warn("Could not open sources.json, using default cataas source", "path", path, "error", err)
		return []SourceConfig{
			{
				Name:        "default-cataas",
				URL:         getEnv("CATAAS_API_URL", "https://cataas.com"),
				Transformer: "cataas",
			},
		}
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("Failed to close config file", "error", err)
		}
	}()

	var sources []SourceConfig
	if err := json.NewDecoder(file).Decode(&sources); err != nil {
		slog.Error("Error decoding sources.json", "error", err)
		return nil
	}
	return sources
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		// Try parsing as duration string (e.g. "1m", "60s")
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Try parsing as integer seconds
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
