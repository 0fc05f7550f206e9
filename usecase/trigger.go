package usecase

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/model/recorder"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/metrics"
	"github.com/sobadon/tvrd/internal/timeutil"
)

const (
	// この距離（分）を超える繰り返しルールはログにも出さない
	nearWindowMinutes = 5

	// 同じ分に 2 回発火させない
	recurringCooldown = 55 * time.Second

	// 単発予約の開始時刻の許容
	singleTolerance = 59 * time.Second

	heartbeatEvery = 10
)

type captureStarter interface {
	Start(ctx context.Context, req recorder.Request) (recorder.Status, error)
}

type ucTrigger struct {
	store   *ucJobStore
	capture captureStarter
	loc     *time.Location

	ticks int
}

func NewTrigger(store *ucJobStore, capture captureStarter, loc *time.Location) *ucTrigger {
	return &ucTrigger{
		store:   store,
		capture: capture,
		loc:     loc,
	}
}

// gocron から毎周期呼ばれる
// 1 件の失敗で他の予約の評価を止めない
func (t *ucTrigger) Tick(ctx context.Context, now time.Time) {
	t.ticks++
	local := now.In(t.loc)

	active := 0
	for _, j := range t.store.List() {
		j := j
		switch {
		case j.IsRecurring() && j.Status == job.StatusActive:
			active++
			t.guard(ctx, j, func() error { return t.evaluateRecurring(ctx, j, local) })
		case j.Kind == job.KindSingle && j.Status == job.StatusScheduled:
			t.guard(ctx, j, func() error { return t.evaluateSingle(ctx, j, local) })
		}
	}

	if t.ticks%heartbeatEvery == 0 {
		log.Ctx(ctx).Info().Msgf("trigger heartbeat: %d active recurring jobs", active)
	}
}

func (t *ucTrigger) guard(ctx context.Context, j job.Job, evaluate func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Ctx(ctx).Error().Msgf("panic while evaluating job %d: %v", j.ID, r)
		}
	}()
	if err := evaluate(); err != nil {
		log.Ctx(ctx).Error().Err(err).Msgf("failed to evaluate job %d", j.ID)
	}
}

func (t *ucTrigger) evaluateRecurring(ctx context.Context, j job.Job, now time.Time) error {
	if !j.Recurrence.Includes(now.Weekday()) {
		return nil
	}
	if j.Retention.Expired(j.CreatedAt, now) {
		log.Ctx(ctx).Debug().Msgf("job %d is past its retention", j.ID)
		return nil
	}

	raw := j.Recurrence.Time
	if raw == "" {
		raw = j.Time
	}
	c, ambiguous, err := timeutil.ParseStoredClock(raw, now)
	if err != nil {
		return err
	}
	if ambiguous {
		log.Ctx(ctx).Warn().Msgf("job %d: ambiguous time %q read as %s", j.ID, raw, c)
	}

	distance := timeutil.CircularDistance(c, timeutil.ClockOf(now))
	if distance > nearWindowMinutes {
		return nil
	}
	log.Ctx(ctx).Debug().Msgf("job %d (%s) is %d min away", j.ID, j.Title, distance)
	if distance != 0 {
		return nil
	}
	if j.LastTriggeredAt != nil && now.Sub(*j.LastTriggeredAt) < recurringCooldown {
		return nil
	}
	return t.fire(ctx, j, now)
}

func (t *ucTrigger) evaluateSingle(ctx context.Context, j job.Job, now time.Time) error {
	if j.LastTriggeredAt != nil || j.Date == "" || j.Time == "" {
		return nil
	}
	start, _, err := timeutil.ParseStoredDateClock(j.Date, j.Time, t.loc, now)
	if err != nil {
		return err
	}
	if d := now.Sub(start); d > singleTolerance || d < -singleTolerance {
		return nil
	}
	return t.fire(ctx, j, now)
}

// 印を付けてから録画を始める
// チューナーが埋まっていれば印を戻して次の周期に任せる
func (t *ucTrigger) fire(ctx context.Context, j job.Job, now time.Time) error {
	kind := j.Kind.String()
	if _, err := t.store.MarkTriggered(ctx, j.ID, now); err != nil {
		metrics.IncTrigger(kind, "error")
		return err
	}

	req := recorder.Request{
		JobID:         j.ID,
		ChannelNumber: j.ChannelNumber,
		Duration:      j.Duration(),
		Encoding:      j.Encoding,
		StartedAt:     now,
	}
	if j.Kind == job.KindSingle {
		req.Filename = j.Filename
	}

	_, err := t.capture.Start(ctx, req)
	if errors.Is(err, errutil.ErrTunerBusy) {
		metrics.IncTrigger(kind, "busy")
		if rerr := t.store.Restore(ctx, j); rerr != nil {
			return rerr
		}
		log.Ctx(ctx).Warn().Msgf("skip job %d (%s): tuner busy", j.ID, j.Title)
		return nil
	}
	if err != nil {
		metrics.IncTrigger(kind, "error")
		return errors.Wrapf(err, "start capture for job %d", j.ID)
	}

	metrics.IncTrigger(kind, "started")
	log.Ctx(ctx).Info().Msgf("triggered job %d: %s on %s", j.ID, j.Title, j.ChannelNumber)
	return nil
}
