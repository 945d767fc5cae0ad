package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	APIBaseURL     string
	TokenPath      string
	QueueDriver    string
	QueueDir       string
	RedisAddr      string
	SyncInterval   time.Duration
	HealthInterval time.Duration
	Timeout        time.Duration
	LogPath        string
}

// Load reads the agent section of the YAML config at path. A missing file
// is not an error; defaults and JKWI_* environment variables still apply.
func Load(path string) (AppConfig, error) {
	base := filepath.Join(os.TempDir(), "jkwi-ims")

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("JKWI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("agent.api_base_url", "http://127.0.0.1:3000/api")
	v.SetDefault("agent.token_path", filepath.Join(base, "agent.token"))
	v.SetDefault("agent.queue_driver", "file")
	v.SetDefault("agent.queue_dir", filepath.Join(base, "queue"))
	v.SetDefault("agent.redis_addr", "127.0.0.1:6379")
	v.SetDefault("agent.sync_interval", "30s")
	v.SetDefault("agent.health_interval", "10s")
	v.SetDefault("agent.timeout", "15s")
	v.SetDefault("agent.log_path", "")

	if path != "" {
		v.SetConfigFile(path)
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	return AppConfig{
		APIBaseURL:     v.GetString("agent.api_base_url"),
		TokenPath:      v.GetString("agent.token_path"),
		QueueDriver:    v.GetString("agent.queue_driver"),
		QueueDir:       v.GetString("agent.queue_dir"),
		RedisAddr:      v.GetString("agent.redis_addr"),
		SyncInterval:   v.GetDuration("agent.sync_interval"),
		HealthInterval: v.GetDuration("agent.health_interval"),
		Timeout:        v.GetDuration("agent.timeout"),
		LogPath:        v.GetString("agent.log_path"),
	}, nil
}
