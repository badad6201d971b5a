package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for both services. It is constructed once at
// process start and passed by reference; nothing reads the environment after
// LoadConfig returns.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	UserService UserServiceConfig `mapstructure:"user_service"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	WorkoutAddress string `mapstructure:"workout_address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration. Both services share the
// secret so token verification stays symmetric.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// UserServiceConfig points the workout service at the user service. The
// timeout bounds the cross-service authorization check; a timed-out check
// counts as "not linked".
type UserServiceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// Nested keys map to env vars, e.g. jwt.expiration -> JWT_EXPIRATION
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("server.workout_address", ":8001")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "fitness_coach")
	viper.SetDefault("jwt.expiration", "30m")
	viper.SetDefault("user_service.base_url", "http://127.0.0.1:8000")
	viper.SetDefault("user_service.timeout", "5s")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file not found; rely on defaults and env vars.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
