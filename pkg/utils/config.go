package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Code      CodeConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name          string
	Port          string
	Debug         bool
	LogPath       string
	MigrationsRun bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// ConnString is the keyword/value form used by pgxpool.
func (c DatabaseConfig) ConnString() string {
	return fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
		c.User, c.Password, c.Name, c.Host, c.Port)
}

// MigrateURL is the URL form expected by the migrate pgx/v5 driver.
func (c DatabaseConfig) MigrateURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type RedisConfig struct {
	Enabled bool
	Addr    string
	DB      int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// CodeConfig controls confirmation codes sent at signup.
type CodeConfig struct {
	ExpiryMinutes       int
	ResendWindowSeconds int
}

type EmailConfig struct {
	From    string
	Workers int
}

// RateLimitConfig applies per client address on the auth endpoints.
type RateLimitConfig struct {
	RPS     float64
	Burst   int
	Clients int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "yamdb")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("MIGRATIONS_RUN", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("CODE_EXPIRY_MINUTES", 60)
	viper.SetDefault("CODE_RESEND_WINDOW_SECONDS", 60)
	viper.SetDefault("EMAIL_FROM", "noreply@yamdb.local")
	viper.SetDefault("EMAIL_WORKERS", 2)
	viper.SetDefault("RATE_LIMIT_RPS", 1.0)
	viper.SetDefault("RATE_LIMIT_BURST", 5)
	viper.SetDefault("RATE_LIMIT_CLIENTS", 10000)

	// .env is optional, the environment alone is enough
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:          viper.GetString("APP_NAME"),
			Port:          viper.GetString("PORT"),
			Debug:         viper.GetBool("DEBUG"),
			LogPath:       viper.GetString("LOG_PATH"),
			MigrationsRun: viper.GetBool("MIGRATIONS_RUN"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Enabled: viper.GetBool("REDIS_ENABLED"),
			Addr:    viper.GetString("REDIS_ADDR"),
			DB:      viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Code: CodeConfig{
			ExpiryMinutes:       viper.GetInt("CODE_EXPIRY_MINUTES"),
			ResendWindowSeconds: viper.GetInt("CODE_RESEND_WINDOW_SECONDS"),
		},
		Email: EmailConfig{
			From:    viper.GetString("EMAIL_FROM"),
			Workers: viper.GetInt("EMAIL_WORKERS"),
		},
		RateLimit: RateLimitConfig{
			RPS:     viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:   viper.GetInt("RATE_LIMIT_BURST"),
			Clients: viper.GetInt("RATE_LIMIT_CLIENTS"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
