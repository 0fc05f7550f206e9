package usecase

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/model/recorder"
	"github.com/sobadon/tvrd/domain/repository"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/fileutil"
	"github.com/sobadon/tvrd/internal/metrics"
	"golang.org/x/sync/semaphore"
)

type captureProcess struct {
	id         string
	jobID      int64
	channel    string
	outputPath string
	format     job.Format
	startedAt  time.Time
	handle     repository.CaptureHandle

	stopOnce sync.Once
	stopping bool
}

func (p *captureProcess) status() recorder.Status {
	return recorder.Status{
		ID:            p.id,
		JobID:         p.jobID,
		ChannelNumber: p.channel,
		OutputPath:    p.outputPath,
		StartedAt:     p.startedAt,
		Pid:           p.handle.Pid(),
		Stopping:      p.stopping,
	}
}

type ucCapture struct {
	tool  repository.CaptureTool
	tuner repository.Tuner
	store *ucJobStore
	cfg   recorder.Config
	loc   *time.Location
	now   func() time.Time

	sem *semaphore.Weighted

	mu    sync.Mutex
	procs map[string]*captureProcess
	wg    sync.WaitGroup
}

func NewCapture(
	tool repository.CaptureTool,
	tuner repository.Tuner,
	store *ucJobStore,
	cfg recorder.Config,
	loc *time.Location,
) *ucCapture {
	if cfg.Tuners <= 0 {
		cfg.Tuners = 1
	}
	return &ucCapture{
		tool:  tool,
		tuner: tuner,
		store: store,
		cfg:   cfg,
		loc:   loc,
		now:   time.Now,
		sem:   semaphore.NewWeighted(int64(cfg.Tuners)),
		procs: make(map[string]*captureProcess),
	}
}

// チューナーに空きがなければ errutil.ErrTunerBusy
// 録画の終了は待たない
func (c *ucCapture) Start(ctx context.Context, req recorder.Request) (recorder.Status, error) {
	if !c.sem.TryAcquire(1) {
		metrics.IncCapture("busy")
		return recorder.Status{}, errors.Wrapf(errutil.ErrTunerBusy, "all %d tuners in use", c.cfg.Tuners)
	}

	enc := req.Encoding.WithDefaults(job.DefaultEncoding())
	startedAt := req.StartedAt
	if startedAt.IsZero() {
		startedAt = c.now()
	}
	path := filepath.Join(c.cfg.ArchiveDir, c.outputName(ctx, req, enc.Format, startedAt))

	h, err := c.tool.Start(ctx, recorder.Invocation{
		InputURL:   c.tuner.StreamURL(req.ChannelNumber),
		Duration:   req.Duration,
		Encoding:   enc,
		OutputPath: path,
	})
	if err != nil {
		c.sem.Release(1)
		metrics.IncCapture("start_failed")
		return recorder.Status{}, err
	}

	p := &captureProcess{
		id:         uuid.NewString(),
		jobID:      req.JobID,
		channel:    req.ChannelNumber,
		outputPath: path,
		format:     enc.Format,
		startedAt:  startedAt,
		handle:     h,
	}
	c.mu.Lock()
	c.procs[p.id] = p
	metrics.SetCapturesActive(len(c.procs))
	st := p.status()
	c.mu.Unlock()

	logger := log.Ctx(ctx).With().Str("capture", p.id).Str("channel", p.channel).Logger()
	// 呼び出し元の ctx が終わっても録画は続ける
	bg := logger.WithContext(context.WithoutCancel(ctx))

	drained := make(chan struct{})
	c.wg.Add(2)
	go c.drain(bg, p, drained)
	go c.supervise(bg, p, drained)

	logger.Info().Msgf("capture started: %s (pid %d, %s)", path, st.Pid, req.Duration)
	return st, nil
}

// 出力名は予約のファイル名、無ければ "<チャンネル名>_<開始日時>.<ext>"
func (c *ucCapture) outputName(ctx context.Context, req recorder.Request, format job.Format, startedAt time.Time) string {
	if req.Filename != "" {
		return fileutil.ReplaceExt(req.Filename, format.String())
	}
	name := fileutil.SanitizeName(c.tuner.ChannelName(ctx, req.ChannelNumber))
	if name == "" {
		name = req.ChannelNumber
	}
	return fmt.Sprintf("%s_%s.%s", name, startedAt.In(c.loc).Format("2006-01-02_15-04"), format)
}

func (c *ucCapture) drain(ctx context.Context, p *captureProcess, drained chan<- struct{}) {
	defer c.wg.Done()
	defer close(drained)

	r := p.handle.Output()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(scanProgressLines)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			log.Ctx(ctx).Debug().Msg(line)
		}
	}
	if err := sc.Err(); err != nil {
		// 読むのをやめると ffmpeg が書き込みで止まる
		log.Ctx(ctx).Warn().Err(err).Msg("discard remaining ffmpeg output")
		_, _ = io.Copy(io.Discard, r)
	}
}

// ffmpeg の進捗行は \r だけで区切られる
func scanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func (c *ucCapture) supervise(ctx context.Context, p *captureProcess, drained <-chan struct{}) {
	defer c.wg.Done()

	err := p.handle.Wait()
	<-drained

	c.mu.Lock()
	delete(c.procs, p.id)
	metrics.SetCapturesActive(len(c.procs))
	c.mu.Unlock()
	c.sem.Release(1)

	if err != nil {
		// 予約は recording のまま残す
		metrics.IncCapture("failed")
		log.Ctx(ctx).Error().Err(err).Msgf("capture failed: %s", p.outputPath)
		return
	}

	if p.format == job.FormatMP4 {
		if err := c.tool.Remux(ctx, p.outputPath); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("remux failed, keep original file")
		}
	}

	j, ok, err := c.store.CompleteRecording(ctx, p.channel, p.startedAt, p.outputPath, c.now())
	switch {
	case err != nil:
		log.Ctx(ctx).Error().Err(err).Msg("failed to complete job")
	case ok:
		log.Ctx(ctx).Info().Msgf("job %d completed: %s", j.ID, p.outputPath)
	default:
		log.Ctx(ctx).Debug().Msg("no job to reconcile")
	}
	metrics.IncCapture("completed")
	log.Ctx(ctx).Info().Msgf("capture finished: %s", p.outputPath)
}

// 返されるエラー
// - errutil.ErrCaptureNotFound
func (c *ucCapture) Stop(ctx context.Context, id string) error {
	c.mu.Lock()
	p, ok := c.procs[id]
	c.mu.Unlock()
	if !ok {
		return errors.Wrapf(errutil.ErrCaptureNotFound, "No active capture %s", id)
	}

	var err error
	p.stopOnce.Do(func() {
		c.mu.Lock()
		p.stopping = true
		c.mu.Unlock()
		err = p.handle.RequestStop()
		log.Ctx(ctx).Info().Msgf("stop requested: capture %s", id)
	})
	return err
}

func (c *ucCapture) StopAll(ctx context.Context) {
	for _, st := range c.Status() {
		if err := c.Stop(ctx, st.ID); err != nil && !errors.Is(err, errutil.ErrCaptureNotFound) {
			log.Ctx(ctx).Error().Err(err).Msgf("failed to stop capture %s", st.ID)
		}
	}
}

// 開始順
func (c *ucCapture) Status() []recorder.Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]recorder.Status, 0, len(c.procs))
	for _, p := range c.procs {
		out = append(out, p.status())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// 全てのキャプチャの後処理が終わるまで待つ
func (c *ucCapture) Wait() {
	c.wg.Wait()
}
