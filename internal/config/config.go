package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	LogLevel        string
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ESURL           string
	ESUser          string
	ESPassword      string
	KafkaAddress    string
	JWTSecret       []byte
	RefreshSecret   []byte
	OrderBackendURL string
	PincodeAPIURL   string
}

func must(v, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func getenvDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	return &Config{
		ServerPort:      getenvDefault("SERVER_PORT", "8080"),
		LogLevel:        getenvDefault("LOG_LEVEL", "info"),
		DatabaseURL:     must(os.Getenv("DATABASE_URL"), "DATABASE_URL"),
		RedisAddr:       getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         0,
		ESURL:           os.Getenv("ES_URL"),
		ESUser:          os.Getenv("ES_USER"),
		ESPassword:      os.Getenv("ES_PASSWORD"),
		KafkaAddress:    must(os.Getenv("KAFKA_ADDRESS"), "KAFKA_ADDRESS"),
		JWTSecret:       []byte(must(os.Getenv("JWT_SECRET"), "JWT_SECRET")),
		RefreshSecret:   []byte(must(os.Getenv("REFRESH_SECRET"), "REFRESH_SECRET")),
		OrderBackendURL: os.Getenv("ORDER_BACKEND_URL"),
		PincodeAPIURL:   getenvDefault("PINCODE_API_URL", "https://api.postalpincode.in"),
	}
}
