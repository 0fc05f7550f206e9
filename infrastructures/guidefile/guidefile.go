package guidefile

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/domain/repository"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/fileutil"
)

// {"timestamp": 1759791600.5, "data": [...]}
type snapshotFile struct {
	// unix 秒（小数あり）
	Timestamp float64       `json:"timestamp"`
	Data      []guide.Entry `json:"data"`
}

type store struct {
	path string
}

func New(path string) repository.GuideStore {
	return &store{path: path}
}

// ファイルがなければ空の Snapshot
func (s *store) Load(ctx context.Context) (guide.Snapshot, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Ctx(ctx).Debug().Msgf("guide cache file not found: %s", s.path)
		return guide.Snapshot{}, nil
	}
	if err != nil {
		return guide.Snapshot{}, errors.Wrap(errutil.ErrFileRead, err.Error())
	}

	var f snapshotFile
	if err := json.Unmarshal(b, &f); err != nil {
		return guide.Snapshot{}, errors.Wrap(errutil.ErrJSONDecode, err.Error())
	}

	snap := guide.Snapshot{Entries: f.Data}
	if f.Timestamp > 0 {
		sec, frac := math.Modf(f.Timestamp)
		snap.FetchedAt = time.Unix(int64(sec), int64(frac*1e9))
	}
	return snap, nil
}

func (s *store) Save(ctx context.Context, snapshot guide.Snapshot) error {
	f := snapshotFile{
		Timestamp: float64(snapshot.FetchedAt.UnixNano()) / 1e9,
		Data:      snapshot.Entries,
	}
	if f.Data == nil {
		f.Data = []guide.Entry{}
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Wrap(errutil.ErrJSONEncode, err.Error())
	}

	if err := fileutil.MkdirAllIfNotExist(filepath.Dir(s.path)); err != nil {
		return errors.Wrap(errutil.ErrFileWrite, err.Error())
	}
	if err := fileutil.WriteFileAtomic(s.path, b); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Msgf("saved guide cache (%d entries) to %s", len(snapshot.Entries), s.path)
	return nil
}
