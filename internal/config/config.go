package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения
type Config struct {
	// Server
	Host string
	Port string

	// Database
	DBPath string

	// Telegram
	BotToken string

	// File Storage
	UploadPath string
	MediaPath  string

	// Admin panel
	AdminPassword string
	JWTSecret     string

	// Static files
	StaticCacheMaxAge int
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		Host:          getEnv("HOST", "127.0.0.1"),
		Port:          getEnv("PORT", "8000"),
		DBPath:        getEnv("DB_PATH", "data/shop.db"),
		BotToken:      getEnv("BOT_TOKEN", ""),
		UploadPath:    getEnv("UPLOAD_PATH", "web/static/img"),
		MediaPath:     getEnv("MEDIA_PATH", "web/media"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", "coursebot_secret_key"),
	}

	if maxAge, err := strconv.Atoi(getEnv("STATIC_CACHE_MAX_AGE", "3600")); err == nil {
		config.StaticCacheMaxAge = maxAge
	} else {
		config.StaticCacheMaxAge = 3600
	}

	return config
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
