package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/model/recorder"
	"github.com/sobadon/tvrd/domain/service/match"
	"github.com/sobadon/tvrd/infrastructures/ffmpeg"
	"github.com/sobadon/tvrd/infrastructures/gracenote"
	"github.com/sobadon/tvrd/infrastructures/guidefile"
	"github.com/sobadon/tvrd/infrastructures/hdhomerun"
	"github.com/sobadon/tvrd/infrastructures/metadata"
	"github.com/sobadon/tvrd/infrastructures/sqlite"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/fileutil"
	"github.com/sobadon/tvrd/internal/logutil"
	"github.com/sobadon/tvrd/internal/timeutil"
	"github.com/sobadon/tvrd/usecase"
)

const (
	lockFilename  = "tvrd.lock"
	guideFilename = "guide_cache.json"
)

// 組み立て済みのもの一式
type App struct {
	Config   Config
	Location *time.Location
	Logger   zerolog.Logger
	Service  *usecase.Service

	db   *sqlx.DB
	lock *flock.Flock
}

// DATA_DIR のロックを取ってから組み立てる
// 別のプロセスが動いていれば errutil.ErrLocked
func New(ctx context.Context) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := logutil.NewLogger(config.LogLevel)
	ctx = logger.WithContext(ctx)

	if err := fileutil.MkdirAllIfNotExist(config.DataDir); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(config.DataDir, lockFilename))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrap(errutil.ErrInternal, err.Error())
	}
	if !locked {
		return nil, errors.Wrapf(errutil.ErrLocked, "%s is held by another tvrd", lock.Path())
	}

	a, err := build(ctx, config, logger)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	a.lock = lock
	return a, nil
}

func build(ctx context.Context, config Config, logger zerolog.Logger) (*App, error) {
	loc := timeutil.LoadLocation(config.Timezone)

	db, err := sqlite.NewDB(config.SqlitePath)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Setup(db); err != nil {
		db.Close()
		return nil, err
	}

	provider, err := gracenote.New(gracenote.Config{
		BaseURL:           config.GuideURL,
		PostalCode:        config.GuidePostalCode,
		LineupID:          config.GuideLineupID,
		Channels:          config.GuideChannels,
		Location:          loc,
		RequestsPerSecond: config.GuideRate,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	ucGuide := usecase.NewGuide(provider, guidefile.New(filepath.Join(config.DataDir, guideFilename)), usecase.GuideConfig{
		Location:    loc,
		TTL:         config.GuideTTL,
		Days:        config.GuideDays,
		WindowHours: config.GuideWindowHours,
	})

	ucJobStore := usecase.NewJobStore(sqlite.New(db), metadata.New(config.ArchiveDir), loc, job.Encoding{
		Preset: config.DefaultPreset,
		CRF:    config.DefaultCRF,
		Format: job.ParseFormat(config.DefaultFormat),
	})
	ucJobStore.Load(ctx)

	ucCapture := usecase.NewCapture(ffmpeg.New(config.FfmpegPath), hdhomerun.New(config.TunerHost), ucJobStore, recorder.Config{
		ArchiveDir: config.ArchiveDir,
		Tuners:     config.TunerCount,
	}, loc)

	engine := match.New(match.DefaultRuleset(), loc)
	dispatcher := usecase.NewDispatcher(ucGuide, ucJobStore, engine, config.SessionTTL, loc, nil)

	return &App{
		Config:   config,
		Location: loc,
		Logger:   logger,
		Service:  usecase.NewService(ucGuide, ucJobStore, ucCapture, dispatcher, engine, loc),
		db:       db,
	}, nil
}

func (a *App) Close() error {
	a.Service.Wait()
	err := a.db.Close()
	if a.lock != nil {
		if uerr := a.lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}
	if err != nil {
		return errors.Wrap(errutil.ErrInternal, err.Error())
	}
	return nil
}
