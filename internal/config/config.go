package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port            string   `mapstructure:"port"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
	StaticDir       string   `mapstructure:"static_dir"`
	ReadTimeout     int      `mapstructure:"read_timeout"`  // seconds
	WriteTimeout    int      `mapstructure:"write_timeout"` // seconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver               string `mapstructure:"driver"` // sqlite | postgres | firestore
	Path                 string `mapstructure:"path"`   // sqlite file
	URL                  string `mapstructure:"url"`    // postgres dsn
	FirestoreProject     string `mapstructure:"firestore_project"`
	FirestoreCredentials string `mapstructure:"firestore_credentials"`
}

type RateLimitConfig struct {
	WindowMs     int `mapstructure:"window_ms"`
	MaxRequests  int `mapstructure:"max_requests"`
	SweepMinutes int `mapstructure:"sweep_minutes"`
}

type GameConfig struct {
	MaxDelta          int     `mapstructure:"max_delta"`
	LevelBase         float64 `mapstructure:"level_base"`
	LevelGrowth       float64 `mapstructure:"level_growth"`
	StreakTarget      int     `mapstructure:"streak_target"`
	StreakResetMs     int     `mapstructure:"streak_reset_ms"`
	FlushMs           int     `mapstructure:"flush_ms"`
	CommunityPollMs   int     `mapstructure:"community_poll_ms"`
	LeaderboardPollMs int     `mapstructure:"leaderboard_poll_ms"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Game      GameConfig      `mapstructure:"game"`
}

// Load reads config.yaml from the working directory (optional) and applies
// DEBIRUN_* environment overrides on top of the defaults.
func Load() (Config, error) {
	var cfg Config

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DEBIRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, the defaults stand on their own.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.static_dir", "public")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.shutdown_timeout", 30)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "scores.db")
	v.SetDefault("storage.url", "")
	v.SetDefault("storage.firestore_project", "")
	v.SetDefault("storage.firestore_credentials", "")

	v.SetDefault("ratelimit.window_ms", 1000)
	v.SetDefault("ratelimit.max_requests", 40)
	v.SetDefault("ratelimit.sweep_minutes", 10)

	v.SetDefault("game.max_delta", 500)
	v.SetDefault("game.level_base", 1000)
	v.SetDefault("game.level_growth", 1.25)
	v.SetDefault("game.streak_target", 30)
	v.SetDefault("game.streak_reset_ms", 1500)
	v.SetDefault("game.flush_ms", 1500)
	v.SetDefault("game.community_poll_ms", 3000)
	v.SetDefault("game.leaderboard_poll_ms", 5000)
}
