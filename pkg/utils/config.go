package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Store    StoreConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	LockTTLSeconds int
}

// StoreConfig points at the remote review collection service.
type StoreConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SUBMIT_LOCK_TTL_SECONDS", 5)
	viper.SetDefault("REVIEW_STORE_URL", "http://localhost:5000")
	viper.SetDefault("REVIEW_STORE_TIMEOUT_SECONDS", 10)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
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
			Addr:           viper.GetString("REDIS_ADDR"),
			Password:       viper.GetString("REDIS_PASS"),
			DB:             viper.GetInt("REDIS_DB"),
			LockTTLSeconds: viper.GetInt("SUBMIT_LOCK_TTL_SECONDS"),
		},
		Store: StoreConfig{
			BaseURL:        viper.GetString("REVIEW_STORE_URL"),
			TimeoutSeconds: viper.GetInt("REVIEW_STORE_TIMEOUT_SECONDS"),
		},
	}

	return config, nil
}
