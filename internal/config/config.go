package config

import (
	"fmt"
	"os"
)

// Config 应用配置
type Config struct {
	Env          string
	Port         string
	DatabaseURL  string
	SiteName     string
	MultiSession bool // 是否允许同一用户持有多个有效会话
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "cinehub")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	return &Config{
		Env:          getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "5005"),
		DatabaseURL:  dbURL,
		SiteName:     getEnv("SITE_NAME", "CineHub"),
		MultiSession: getEnv("AUTH_MULTI_SESSION", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
