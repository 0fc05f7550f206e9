package logutil

import (
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// level が解釈できないときは info にする
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	zerolog.CallerMarshalFunc = func(file string, line int) string {
		filename := filepath.Base(file)
		return filename + ":" + strconv.Itoa(line)
	}

	logger := log.With().Caller().Logger()

	return logger
}

// gocron のジョブ毎に付けるロガー
func JobLogger(base zerolog.Logger, name string, runCount int) zerolog.Logger {
	return base.With().
		Str("job", name).
		Int("job_count", runCount).
		Logger()
}
