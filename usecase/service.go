package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/model/recorder"
	"github.com/sobadon/tvrd/domain/service/intent"
	"github.com/sobadon/tvrd/domain/service/match"
	"github.com/sobadon/tvrd/internal/errutil"
)

// コマンドの解釈結果と実行結果
type Response struct {
	Intent intent.Intent `json:"intent"`
	Result Result        `json:"result"`
}

// 外から使う操作をまとめたもの
type Service struct {
	guide      *ucGuide
	store      *ucJobStore
	capture    *ucCapture
	trigger    *ucTrigger
	dispatcher *Dispatcher
	engine     *match.Engine
	now        func() time.Time
}

func NewService(guide *ucGuide, store *ucJobStore, capture *ucCapture, dispatcher *Dispatcher, engine *match.Engine, loc *time.Location) *Service {
	return &Service{
		guide:      guide,
		store:      store,
		capture:    capture,
		trigger:    NewTrigger(store, capture, loc),
		dispatcher: dispatcher,
		engine:     engine,
		now:        time.Now,
	}
}

// channel が空でなければ文中のチャンネル指定より優先する
func (s *Service) Command(ctx context.Context, requester, text, channel string) Response {
	in := intent.Parse(text)
	if channel != "" {
		in.Channel = channel
	}
	log.Ctx(ctx).Info().Msgf("command from %s: %q (%s)", requester, in.Text, in.Kind)
	return Response{Intent: in, Result: s.dispatcher.Dispatch(ctx, requester, in)}
}

func (s *Service) ListJobs() []job.Job {
	jobs := s.store.List()
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs
}

// 返されるエラー
// - errutil.ErrJobNotFound
func (s *Service) CancelJob(ctx context.Context, id int64) (job.Job, error) {
	return s.store.Cancel(ctx, id)
}

// 返されるエラー
// - errutil.ErrJobNotFound
func (s *Service) CancelSeries(ctx context.Context, title string) (int, error) {
	return s.store.CancelSeries(ctx, strings.TrimSpace(title))
}

func (s *Service) CaptureStatus() []recorder.Status {
	return s.capture.Status()
}

// 返されるエラー
// - errutil.ErrCaptureNotFound
func (s *Service) StopCapture(ctx context.Context, id string) error {
	return s.capture.Stop(ctx, id)
}

// 予約を作らずにすぐ録画する
// 返されるエラー
// - errutil.ErrInvalidRequest
// - errutil.ErrTunerBusy
func (s *Service) RecordNow(ctx context.Context, channel string, minutes int) (recorder.Status, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" || minutes <= 0 {
		return recorder.Status{}, errors.Wrapf(errutil.ErrInvalidRequest, "Need a channel and a positive duration (got %q, %d min)", channel, minutes)
	}
	return s.capture.Start(ctx, recorder.Request{
		ChannelNumber: channel,
		Duration:      time.Duration(minutes) * time.Minute,
		Encoding:      s.store.defaultEncoding,
		StartedAt:     s.now(),
	})
}

func (s *Service) RefreshGuide(ctx context.Context, force bool) (int, error) {
	entries, err := s.guide.RefreshGuide(ctx, force)
	return len(entries), err
}

func (s *Service) SearchGuide(ctx context.Context, q string, days int) []match.Candidate {
	return s.engine.Search(s.guide.GetGuide(ctx), q, days, s.now())
}

func (s *Service) Guide(ctx context.Context) []guide.Entry {
	return s.guide.GetGuide(ctx)
}

func (s *Service) Tick(ctx context.Context, now time.Time) {
	s.trigger.Tick(ctx, now)
}

// 録画中のものに停止を頼み、後処理が終わるまで待つ
func (s *Service) Shutdown(ctx context.Context) {
	s.capture.StopAll(ctx)
	s.capture.Wait()
	s.guide.Wait()
}

// 裏で走っている番組表の取り直しを待つ
func (s *Service) Wait() {
	s.guide.Wait()
}
