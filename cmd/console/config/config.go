package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"jkwi-ims/store/blob"

	"github.com/spf13/viper"
)

type Config struct {
	Storage   blob.Config
	ExportDir string
	LogPath   string
}

// Load reads the console section of the YAML config at path. A missing file
// keeps the defaults; JKWI_CONSOLE_* variables override either.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("JKWI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("console.storage.driver", "file")
	v.SetDefault("console.storage.path", "data")
	v.SetDefault("console.storage.dsn", "")
	v.SetDefault("console.storage.redis_addr", "127.0.0.1:6379")
	v.SetDefault("console.storage.redis_password", "")
	v.SetDefault("console.storage.redis_db", 0)
	v.SetDefault("console.storage.redis_prefix", "jkwi:")
	v.SetDefault("console.export_dir", "exports")
	v.SetDefault("console.log_path", "console.log")

	if path != "" {
		v.SetConfigFile(path)
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return Config{
		Storage: blob.Config{
			Driver:        v.GetString("console.storage.driver"),
			Path:          v.GetString("console.storage.path"),
			DSN:           v.GetString("console.storage.dsn"),
			RedisAddr:     v.GetString("console.storage.redis_addr"),
			RedisPassword: v.GetString("console.storage.redis_password"),
			RedisDB:       v.GetInt("console.storage.redis_db"),
			RedisPrefix:   v.GetString("console.storage.redis_prefix"),
		},
		ExportDir: v.GetString("console.export_dir"),
		LogPath:   v.GetString("console.log_path"),
	}, nil
}
