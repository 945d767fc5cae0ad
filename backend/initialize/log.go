package initialize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"jkwi-ims/backend/global"

	"github.com/rs/zerolog"
)

// InitLogger points global.Logger at stdout, or at path when one is set.
// The returned closer releases the log file.
func InitLogger(path string) (io.Closer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}
	cw := zerolog.ConsoleWriter{Out: out, NoColor: path != ""}
	global.Logger = zerolog.New(cw).With().Timestamp().Logger()
	return closer, nil
}
