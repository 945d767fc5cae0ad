package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

var L = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// Init sends log output to path, or keeps stderr when path is empty. The
// returned closer releases the file.
func Init(path string) (io.Closer, error) {
	if path == "" {
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	L = zerolog.New(zerolog.ConsoleWriter{Out: file, NoColor: true}).With().Timestamp().Logger()
	return file, nil
}

func Info(v ...interface{})             { L.Info().Msg(sprint(v...)) }
func Warn(v ...interface{})             { L.Warn().Msg(sprint(v...)) }
func Error(v ...interface{})            { L.Error().Msg(sprint(v...)) }
func Infof(f string, v ...interface{})  { L.Info().Msgf(f, v...) }
func Warnf(f string, v ...interface{})  { L.Warn().Msgf(f, v...) }
func Errorf(f string, v ...interface{}) { L.Error().Msgf(f, v...) }

// sprint spaces operands the way Println does.
func sprint(v ...interface{}) string { return strings.TrimSuffix(fmt.Sprintln(v...), "\n") }
