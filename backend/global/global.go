package global

import (
	"jkwi-ims/backend/config"

	"github.com/rs/zerolog"
)

var (
	Config *config.Config
	Logger = zerolog.Nop()
)
