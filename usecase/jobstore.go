package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/repository"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/fileutil"
	"github.com/sobadon/tvrd/internal/metrics"
	"github.com/sobadon/tvrd/internal/timeutil"
)

// 録画開始とジョブの発火時刻のずれの許容
const reconcileWindow = 2 * time.Minute

type RecurringRequest struct {
	// 代表となる放送回
	Template   guide.Entry
	Recurrence job.Recurrence
	SeriesKey  string
	Retention  job.Retention
	Encoding   job.Encoding
}

type ucJobStore struct {
	persistence     repository.JobPersistence
	metadata        repository.MetadataWriter
	loc             *time.Location
	defaultEncoding job.Encoding
	now             func() time.Time

	mu   sync.Mutex
	jobs []job.Job
}

func NewJobStore(
	persistence repository.JobPersistence,
	metadata repository.MetadataWriter,
	loc *time.Location,
	defaultEncoding job.Encoding,
) *ucJobStore {
	return &ucJobStore{
		persistence:     persistence,
		metadata:        metadata,
		loc:             loc,
		defaultEncoding: defaultEncoding.WithDefaults(job.DefaultEncoding()),
		now:             time.Now,
	}
}

// 読み込めなければ空のまま始める
func (s *ucJobStore) Load(ctx context.Context) {
	jobs, err := s.persistence.LoadAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to load jobs, starting empty")
		s.jobs = nil
		return
	}
	s.jobs = jobs
	log.Ctx(ctx).Info().Msgf("loaded %d jobs", len(jobs))
}

func (s *ucJobStore) List() []job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]job.Job(nil), s.jobs...)
}

func (s *ucJobStore) Get(id int64) (job.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.jobs[i], true
	}
	return job.Job{}, false
}

func (s *ucJobStore) indexOf(id int64) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

// 番組表の 1 回分を予約する
//
// 返されるエラー
// - errutil.ErrDuplicateJob
func (s *ucJobStore) AddSingle(ctx context.Context, e guide.Entry, enc job.Encoding) (job.Job, error) {
	now := s.now()
	enc = enc.WithDefaults(s.defaultEncoding)
	clock := canonicalClock(e.Time, now.In(s.loc))

	j := job.Job{
		Kind:            job.KindSingle,
		Title:           e.Title,
		ChannelNumber:   e.ChannelNumber,
		ChannelName:     e.ChannelName,
		CallSign:        e.CallSign,
		Date:            e.Date,
		Time:            clock,
		DurationMinutes: e.DurationMinutes,
		Encoding:        enc,
		Filename: fileutil.BuildRecordingFilename(fileutil.RecordingName{
			Title:           e.Title,
			EpisodeID:       e.EpisodeID,
			EpisodeTitle:    e.EpisodeTitle,
			OriginalAirDate: e.OriginalAirDate,
			Date:            e.Date,
			Time:            clock,
			ChannelNumber:   e.ChannelNumber,
		}, enc.Format.String()),
		EpisodeTitle:    e.EpisodeTitle,
		EpisodeID:       e.EpisodeID,
		SeasonNumber:    e.SeasonNumber,
		EpisodeNumber:   e.EpisodeNumber,
		OriginalAirDate: e.OriginalAirDate,
		Description:     e.Description,
		Genre:           e.Genre,
		Rating:          e.Rating,
		Year:            e.Year,
		Status:          job.StatusScheduled,
		CreatedAt:       now,
	}

	s.mu.Lock()
	if dup, ok := s.findDuplicateSingle(j); ok {
		s.mu.Unlock()
		metrics.IncDuplicate(job.KindSingle.String())
		return dup, errors.Wrapf(errutil.ErrDuplicateJob, "%q on %s %s already scheduled as job %d", j.Title, j.Date, j.Time, dup.ID)
	}
	id, err := s.persistence.Insert(ctx, j)
	if err != nil {
		s.mu.Unlock()
		return job.Job{}, err
	}
	j.ID = id
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()

	log.Ctx(ctx).Info().Msgf("scheduled job %d: %s (%s %s ch %s)", j.ID, j.Title, j.Date, j.Time, j.ChannelNumber)
	if err := s.metadata.Write(ctx, j); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msgf("failed to write metadata for job %d", j.ID)
	}
	return j, nil
}

// 同じ放送枠、同じエピソード、同じ初回放送日のいずれか
func (s *ucJobStore) findDuplicateSingle(j job.Job) (job.Job, bool) {
	for _, existing := range s.jobs {
		if existing.Kind != job.KindSingle {
			continue
		}
		sameTitle := strings.EqualFold(existing.Title, j.Title)
		switch {
		case sameTitle && existing.Date == j.Date && existing.Time == j.Time && existing.ChannelNumber == j.ChannelNumber:
			return existing, true
		case sameTitle && j.EpisodeID != "" && existing.EpisodeID == j.EpisodeID:
			return existing, true
		case sameTitle && j.OriginalAirDate != "" && existing.OriginalAirDate == j.OriginalAirDate:
			return existing, true
		}
	}
	return job.Job{}, false
}

// 繰り返しルールを登録する
// Recurrence.Time が空なら代表回の時刻を使う
//
// 返されるエラー
// - errutil.ErrDuplicateJob
func (s *ucJobStore) AddRecurring(ctx context.Context, req RecurringRequest) (job.Job, error) {
	now := s.now()
	e := req.Template
	rec := req.Recurrence
	if rec.Time == "" {
		rec.Time = canonicalClock(e.Time, now.In(s.loc))
	} else {
		rec.Time = canonicalClock(rec.Time, now.In(s.loc))
	}
	rec.Days = job.SortDays(rec.Days)

	j := job.Job{
		Kind:            job.KindRecurring,
		Title:           e.Title,
		ChannelNumber:   e.ChannelNumber,
		ChannelName:     e.ChannelName,
		CallSign:        e.CallSign,
		Time:            rec.Time,
		DurationMinutes: e.DurationMinutes,
		Encoding:        req.Encoding.WithDefaults(s.defaultEncoding),
		Description:     e.Description,
		Genre:           e.Genre,
		Rating:          e.Rating,
		Year:            e.Year,
		Recurrence:      rec,
		SeriesKey:       req.SeriesKey,
		Retention:       req.Retention,
		Status:          job.StatusActive,
		CreatedAt:       now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.jobs {
		if existing.IsRecurring() &&
			strings.EqualFold(existing.Title, j.Title) &&
			existing.SeriesKey == j.SeriesKey &&
			existing.ChannelNumber == j.ChannelNumber &&
			existing.Recurrence.Time == j.Recurrence.Time {
			metrics.IncDuplicate(job.KindRecurring.String())
			return existing, errors.Wrapf(errutil.ErrDuplicateJob, "recurring %q (%s) already exists as job %d", j.Title, j.SeriesKey, existing.ID)
		}
	}

	id, err := s.persistence.Insert(ctx, j)
	if err != nil {
		return job.Job{}, err
	}
	j.ID = id
	s.jobs = append(s.jobs, j)
	log.Ctx(ctx).Info().Msgf("added recurring job %d: %s (%s)", j.ID, j.Title, rec.Description)
	return j, nil
}

// 返されるエラー
// - errutil.ErrJobNotFound
func (s *ucJobStore) Cancel(ctx context.Context, id int64) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return job.Job{}, errors.Wrapf(errutil.ErrJobNotFound, "job %d", id)
	}
	if err := s.persistence.Delete(ctx, id); err != nil && !errors.Is(err, errutil.ErrDatabaseNotFound) {
		return job.Job{}, err
	}
	cancelled := s.jobs[i]
	s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
	log.Ctx(ctx).Info().Msgf("cancelled job %d: %s", cancelled.ID, cancelled.Title)
	return cancelled, nil
}

// title の繰り返しルールと、同じ番組の録画前の予約をまとめて消す
// 録画中のものは残す
//
// 返されるエラー
// - errutil.ErrJobNotFound
func (s *ucJobStore) CancelSeries(ctx context.Context, title string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make(map[string]bool)
	for _, j := range s.jobs {
		if j.IsRecurring() && strings.EqualFold(j.Title, title) && j.SeriesKey != "" {
			keys[j.SeriesKey] = true
		}
	}

	var (
		kept    []job.Job
		removed int
	)
	for _, j := range s.jobs {
		match := strings.EqualFold(j.Title, title) || (j.SeriesKey != "" && keys[j.SeriesKey])
		if !match || j.Status == job.StatusRecording {
			kept = append(kept, j)
			continue
		}
		if err := s.persistence.Delete(ctx, j.ID); err != nil && !errors.Is(err, errutil.ErrDatabaseNotFound) {
			// 途中まで消したものはメモリからも消しておく
			s.jobs = append(kept, s.jobs[len(kept)+removed:]...)
			return removed, err
		}
		removed++
	}
	if removed == 0 {
		return 0, errors.Wrapf(errutil.ErrJobNotFound, "no jobs for %q", title)
	}
	s.jobs = kept
	log.Ctx(ctx).Info().Msgf("cancelled %d jobs of %q", removed, title)
	return removed, nil
}

// 発火の印を付けて保存する
func (s *ucJobStore) MarkTriggered(ctx context.Context, id int64, now time.Time) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return job.Job{}, errors.Wrapf(errutil.ErrJobNotFound, "job %d", id)
	}
	j := s.jobs[i]
	if err := j.MarkTriggered(now); err != nil {
		return job.Job{}, err
	}
	if err := s.persistence.Update(ctx, j); err != nil {
		return job.Job{}, err
	}
	s.jobs[i] = j
	return j, nil
}

// 発火前の状態に戻す
func (s *ucJobStore) Restore(ctx context.Context, j job.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(j.ID)
	if i < 0 {
		return errors.Wrapf(errutil.ErrJobNotFound, "job %d", j.ID)
	}
	if err := s.persistence.Update(ctx, j); err != nil {
		return err
	}
	s.jobs[i] = j
	return nil
}

// 録画が正常に終わったキャプチャを予約と突き合わせる
// 同じチャンネルで startedAt の前後 2 分以内に発火した録画中の予約のうち、最も新しく発火したもの
func (s *ucJobStore) CompleteRecording(ctx context.Context, channel string, startedAt time.Time, outputFile string, now time.Time) (job.Job, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []int
	for i, j := range s.jobs {
		if j.Kind != job.KindSingle || j.Status != job.StatusRecording || j.ChannelNumber != channel || j.LastTriggeredAt == nil {
			continue
		}
		if d := j.LastTriggeredAt.Sub(startedAt); d > reconcileWindow || d < -reconcileWindow {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) == 0 {
		return job.Job{}, false, nil
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return s.jobs[candidates[a]].LastTriggeredAt.After(*s.jobs[candidates[b]].LastTriggeredAt)
	})

	i := candidates[0]
	j := s.jobs[i]
	if err := j.Complete(outputFile, now); err != nil {
		return job.Job{}, false, err
	}
	if err := s.persistence.Update(ctx, j); err != nil {
		return job.Job{}, false, err
	}
	s.jobs[i] = j
	return j, true, nil
}

// 正規化できれば "HH:MM"、できなければそのまま
// 既に "HH:MM" のものは変えない
func canonicalClock(raw string, now time.Time) string {
	c, _, err := timeutil.ParseStoredClock(raw, now)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return c.String()
}
