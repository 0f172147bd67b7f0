package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Удалённый аналитический бэкенд
	APIBaseURL string
	APITimeout string

	// Локальное хранилище токена (аналог localStorage браузера)
	TokenFile string

	Log      string
	LogLevel string
	Env      string // dev|prod

	HealthRefresh string // период фонового обновления system health
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port: def(os.Getenv("PORT"), "3000"),

		APIBaseURL: def(os.Getenv("API_BASE_URL"), "http://localhost:8000"),
		APITimeout: def(os.Getenv("API_TIMEOUT"), "30s"),

		TokenFile: def(os.Getenv("TOKEN_FILE"), ".nexboard/storage.json"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		HealthRefresh: def(os.Getenv("HEALTH_REFRESH"), "5m"),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критично: без адреса бэкенда консоль бесполезна
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return nil, fmt.Errorf("API_BASE_URL is empty")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return nil, fmt.Errorf("API_BASE_URL must start with http:// or https://")
	}

	if c.TokenFile == "" {
		warnings = append(warnings, "TOKEN_FILE is empty, session will not survive restart")
	}

	if c.Port == "" {
		warnings = append(warnings, "PORT is empty, using default 3000")
	}

	return warnings, nil
}

// AdminAPIURL — адрес версионированного admin-неймспейса (для логов, без токена)
func (c *Config) AdminAPIURL() string {
	return strings.TrimRight(c.APIBaseURL, "/") + "/api/v1/admin"
}
