package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host string
	Port int
}

func (h HTTP) Addr() string { return fmt.Sprintf("%s:%d", h.Host, h.Port) }

type Storage struct {
	MembersDir      string
	ApplicationsDir string
}

type Config struct {
	HTTP    HTTP
	Storage Storage
	JWT     struct {
		Secret string
		Issuer string
		ExpMin int
	}
	API struct {
		RequireToken bool
	}
	Listing struct {
		SkipCorrupt bool
	}
	LogPath string
}

// Load reads the backend section of a YAML config. An empty path uses
// defaults plus JKWI_* environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("JKWI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("backend.host", "127.0.0.1")
	v.SetDefault("backend.port", 3000)
	v.SetDefault("backend.members_dir", "MEMBERS")
	v.SetDefault("backend.applications_dir", "APPLICATIONS")
	v.SetDefault("backend.jwt.secret", "dev-secret")
	v.SetDefault("backend.jwt.issuer", "jkwi-ims")
	v.SetDefault("backend.jwt.exp_min", 60*24)
	v.SetDefault("backend.api.require_token", false)
	v.SetDefault("backend.listing.skip_corrupt", false)
	v.SetDefault("backend.log_path", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		HTTP: HTTP{Host: v.GetString("backend.host"), Port: v.GetInt("backend.port")},
		Storage: Storage{
			MembersDir:      v.GetString("backend.members_dir"),
			ApplicationsDir: v.GetString("backend.applications_dir"),
		},
		LogPath: v.GetString("backend.log_path"),
	}
	cfg.JWT.Secret = v.GetString("backend.jwt.secret")
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret"
	}
	cfg.JWT.Issuer = v.GetString("backend.jwt.issuer")
	cfg.JWT.ExpMin = v.GetInt("backend.jwt.exp_min")
	if cfg.JWT.ExpMin <= 0 {
		cfg.JWT.ExpMin = 60
	}
	cfg.API.RequireToken = v.GetBool("backend.api.require_token")
	cfg.Listing.SkipCorrupt = v.GetBool("backend.listing.skip_corrupt")
	return cfg, nil
}
