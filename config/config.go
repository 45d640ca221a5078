package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort   string
	AppMode   string
	AppSecret string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	ReviewAPIBase string
	GraphAPIBase  string
	PlanAPIBase   string

	ImageModelURL string
	ImageModelKey string

	PromptMode     string
	PromptModelURL string
	PromptModelKey string
	PromptModel    string

	StorageBackend string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3Endpoint     string
	S3PublicBase   string
	ImgHostURL     string
	ImgHostKey     string

	SweepIntervalMin int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:   getEnv("APP_PORT", "8080"),
		AppMode:   getEnv("APP_MODE", "debug"),
		AppSecret: getEnv("SHOPIFY_APP_SECRET", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "starpost"),
		DBPort:     getEnv("DB_PORT", "5432"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		ReviewAPIBase: getEnv("REVIEW_API_BASE", "https://api.judge.me/api/v1"),
		GraphAPIBase:  getEnv("GRAPH_API_BASE", "https://graph.facebook.com/v19.0"),
		PlanAPIBase:   getEnv("PLAN_API_BASE", ""),

		ImageModelURL: getEnv("IMAGE_MODEL_URL", ""),
		ImageModelKey: getEnv("IMAGE_MODEL_KEY", ""),

		PromptMode:     getEnv("PROMPT_MODE", "static"),
		PromptModelURL: getEnv("PROMPT_MODEL_URL", ""),
		PromptModelKey: getEnv("PROMPT_MODEL_KEY", ""),
		PromptModel:    getEnv("PROMPT_MODEL", "gpt-4o-mini"),

		StorageBackend: getEnv("STORAGE_BACKEND", "s3"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3PublicBase:   getEnv("S3_PUBLIC_BASE", ""),
		ImgHostURL:     getEnv("IMGHOST_URL", "https://api.imgbb.com/1/upload"),
		ImgHostKey:     getEnv("IMGHOST_KEY", ""),

		SweepIntervalMin: getEnvAsInt("SWEEP_INTERVAL_MIN", 0),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
