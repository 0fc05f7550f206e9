package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/model/date"
	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/domain/repository"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/metrics"
	"golang.org/x/sync/singleflight"
)

type GuideConfig struct {
	Location *time.Location

	// これより古いキャッシュは取り直す
	TTL time.Duration

	// 何日先まで取得するか
	Days int

	// 1 リクエストあたりの時間幅
	WindowHours int
}

func DefaultGuideConfig(loc *time.Location) GuideConfig {
	return GuideConfig{
		Location:    loc,
		TTL:         84 * time.Hour,
		Days:        7,
		WindowHours: 6,
	}
}

type ucGuide struct {
	provider repository.GuideProvider
	store    repository.GuideStore
	cfg      GuideConfig
	now      func() time.Time

	mu       sync.RWMutex
	snapshot guide.Snapshot
	loaded   bool

	group singleflight.Group

	// 裏での取り直し
	refreshing atomic.Bool
	bg         sync.WaitGroup
}

func NewGuide(provider repository.GuideProvider, store repository.GuideStore, cfg GuideConfig) *ucGuide {
	return &ucGuide{
		provider: provider,
		store:    store,
		cfg:      cfg,
		now:      time.Now,
	}
}

// 空なら取得して返す
// 古いだけならそのまま返し、取り直しは裏で行う
func (g *ucGuide) GetGuide(ctx context.Context) []guide.Entry {
	g.ensureLoaded(ctx)
	snap := g.current()
	if snap.Empty() {
		entries, err := g.RefreshGuide(ctx, false)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("guide is empty and refresh failed")
		}
		return entries
	}
	if snap.Expired(g.now(), g.cfg.TTL) {
		g.refreshInBackground(ctx)
	}
	return snap.Entries
}

// 走っていなければ 1 つだけ起動する
func (g *ucGuide) refreshInBackground(ctx context.Context) {
	if !g.refreshing.CompareAndSwap(false, true) {
		return
	}
	ctx = context.WithoutCancel(ctx)
	g.bg.Add(1)
	go func() {
		defer g.bg.Done()
		defer g.refreshing.Store(false)
		if _, err := g.RefreshGuide(ctx, false); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("background guide refresh failed, keep stale guide")
		}
	}()
}

// 裏での取り直しが終わるまで待つ
func (g *ucGuide) Wait() {
	g.bg.Wait()
}

// forceClear なら TTL に関わらず取り直す
// 同時に呼ばれたものは 1 回の取得にまとめる
func (g *ucGuide) RefreshGuide(ctx context.Context, forceClear bool) ([]guide.Entry, error) {
	key := "refresh"
	if forceClear {
		key = "refresh-force"
	}
	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		return g.refresh(ctx, forceClear)
	})
	entries, _ := v.([]guide.Entry)
	return entries, err
}

func (g *ucGuide) refresh(ctx context.Context, forceClear bool) ([]guide.Entry, error) {
	g.ensureLoaded(ctx)
	now := g.now()
	stale := g.current()
	if !forceClear && !stale.Empty() && !stale.Expired(now, g.cfg.TTL) {
		return stale.Entries, nil
	}

	windows := planWindows(now.In(g.cfg.Location), g.cfg.Days, g.cfg.WindowHours)
	var (
		merged   []guide.Entry
		failures int
	)
	for _, start := range windows {
		entries, err := g.provider.FetchWindow(ctx, start, g.cfg.WindowHours)
		if err != nil {
			failures++
			log.Ctx(ctx).Warn().Err(err).Msgf("skip guide window %s", start.Format("2006-01-02 15:04"))
			continue
		}
		merged = append(merged, entries...)
	}
	if len(windows) == 0 || failures == len(windows) {
		metrics.ObserveGuideRefresh(false, 0)
		return stale.Entries, errors.Wrapf(errutil.ErrGuideUnavailable, "all %d guide windows failed", len(windows))
	}

	snap := guide.Snapshot{Entries: guide.Dedupe(merged), FetchedAt: now}
	g.mu.Lock()
	g.snapshot = snap
	g.mu.Unlock()

	if err := g.store.Save(ctx, snap); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to save guide cache")
	}
	metrics.ObserveGuideRefresh(true, len(snap.Entries))
	log.Ctx(ctx).Info().Msgf("guide refreshed: %d entries (%d/%d windows failed)", len(snap.Entries), failures, len(windows))
	return snap.Entries, nil
}

func (g *ucGuide) current() guide.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot
}

// 初回だけディスクから読む
func (g *ucGuide) ensureLoaded(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loaded {
		return
	}
	g.loaded = true

	snap, err := g.store.Load(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to load guide cache")
		return
	}
	g.snapshot = snap
	log.Ctx(ctx).Debug().Msgf("loaded guide cache: %d entries", len(snap.Entries))
}

// 今日の 0 時から hours 時間ごとの区切り
// 終わりが now 以前の枠は含めない
func planWindows(now time.Time, days, hours int) []time.Time {
	if days <= 0 || hours <= 0 {
		return nil
	}
	today := date.NewFromToday(now)
	var windows []time.Time
	for d := 0; d < days; d++ {
		day := today.AddDays(d)
		for h := 0; h < 24; h += hours {
			start := day.At(h)
			if !start.Add(time.Duration(hours) * time.Hour).After(now) {
				continue
			}
			windows = append(windows, start)
		}
	}
	return windows
}
