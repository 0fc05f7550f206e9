package app

import (
	"time"

	"github.com/caarlos0/env/v6"
	zlog "github.com/rs/zerolog/log"
)

type Config struct {
	SqlitePath string `env:"SQLITE_PATH" envDefault:"tvrd.sqlite3"`
	ArchiveDir string `env:"ARCHIVE_DIR" envDefault:"./archive"`

	// 番組表キャッシュとロックファイル
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	FfmpegPath string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	TunerHost  string `env:"TUNER_HOST" envDefault:"hdhomerun.local"`
	TunerCount int    `env:"TUNER_COUNT" envDefault:"1"`
	Timezone   string `env:"TIMEZONE" envDefault:"America/Chicago"`

	GuideURL             string        `env:"GUIDE_URL"`
	GuidePostalCode      string        `env:"GUIDE_POSTAL_CODE" envDefault:"78748"`
	GuideLineupID        string        `env:"GUIDE_LINEUP_ID"`
	GuideChannels        []string      `env:"GUIDE_CHANNELS" envSeparator:","`
	GuideTTL             time.Duration `env:"GUIDE_TTL" envDefault:"84h"`
	GuideDays            int           `env:"GUIDE_DAYS" envDefault:"7"`
	GuideWindowHours     int           `env:"GUIDE_WINDOW_HOURS" envDefault:"6"`
	GuideRefreshInterval time.Duration `env:"GUIDE_REFRESH_INTERVAL" envDefault:"12h"`
	GuideRate            float64       `env:"GUIDE_RATE" envDefault:"1"`

	TriggerInterval time.Duration `env:"TRIGGER_INTERVAL" envDefault:"30s"`

	DefaultPreset string `env:"DEFAULT_PRESET" envDefault:"fast"`
	DefaultCRF    int    `env:"DEFAULT_CRF" envDefault:"23"`
	DefaultFormat string `env:"DEFAULT_FORMAT" envDefault:"mp4"`

	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	MetricsAddr string        `env:"METRICS_ADDR"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"30m"`
}

func LoadConfig() (Config, error) {
	var config Config
	err := env.Parse(&config, env.Options{
		Prefix: "TVRD_",
		OnSet: func(tag string, value interface{}, isDefault bool) {
			zlog.Debug().Msgf("Set %s to %v (default? %v)", tag, value, isDefault)
		},
	})
	if err != nil {
		return Config{}, err
	}
	return config, nil
}
