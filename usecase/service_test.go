package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/model/recorder"
	"github.com/sobadon/tvrd/domain/service/match"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/testutil"
	mock_repository "github.com/sobadon/tvrd/testdata/mock/domain/repository"
	"go.uber.org/goleak"
)

type serviceFields struct {
	*storeFields
	tool  *mock_repository.MockCaptureTool
	tuner *mock_repository.MockTuner
}

func newTestService(ctrl *gomock.Controller, entries []guide.Entry, now time.Time, jobs ...job.Job) (*Service, *serviceFields) {
	loc := testutil.Location()
	store, sf := newTestStore(ctrl, now, jobs...)
	f := &serviceFields{
		storeFields: sf,
		tool:        mock_repository.NewMockCaptureTool(ctrl),
		tuner:       mock_repository.NewMockTuner(ctrl),
	}

	g := NewGuide(mock_repository.NewMockGuideProvider(ctrl), mock_repository.NewMockGuideStore(ctrl), DefaultGuideConfig(loc))
	g.now = func() time.Time { return now }
	g.loaded = true
	g.snapshot = guide.Snapshot{Entries: entries, FetchedAt: now}

	engine := match.New(match.DefaultRuleset(), loc)
	d := NewDispatcher(g, store, engine, 0, loc, nil)
	d.now = func() time.Time { return now }

	capture := NewCapture(f.tool, f.tuner, store, recorder.Config{ArchiveDir: "/archive"}, loc)
	s := NewService(g, store, capture, d, engine, loc)
	s.now = func() time.Time { return now }
	return s, f
}

func TestService_Command(t *testing.T) {
	now := testutil.Time(2025, 10, 6, 12, 0, 0)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s, f := newTestService(ctrl, []guide.Entry{roadshow, roadshowWednesday, cowboysAtGiants}, now)
	ctx := context.Background()

	// チャンネル指定は引数が優先
	got := s.Command(ctx, "alice", "record antiques roadshow on channel 7.1", "18.1")
	if got.Intent.Channel != "18.1" {
		t.Errorf("Service.Command() channel = %v, want 18.1", got.Intent.Channel)
	}
	if got.Result.Status != StatusCandidates || len(got.Result.Candidates) != 2 {
		t.Fatalf("Service.Command() = %+v, want 2 candidates", got.Result)
	}

	// 別の依頼者の候補一覧は使えない
	other := s.Command(ctx, "bob", "record option 1", "")
	if !testutil.ErrorsIs(other.Result.Err, errutil.ErrNoCandidates) {
		t.Errorf("Service.Command() err = %v, want %v", other.Result.Err, errutil.ErrNoCandidates)
	}

	f.persistence.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(1), nil)
	f.metadata.EXPECT().Write(gomock.Any(), gomock.Any()).Return(nil)
	scheduled := s.Command(ctx, "alice", "record option 2", "")
	if scheduled.Result.Status != StatusScheduled {
		t.Fatalf("Service.Command() status = %v, want %v (%s)", scheduled.Result.Status, StatusScheduled, scheduled.Result.Error)
	}

	var ids []int64
	for _, j := range s.ListJobs() {
		ids = append(ids, j.ID)
	}
	if diff := cmp.Diff([]int64{1}, ids); diff != "" {
		t.Errorf("Service.ListJobs() mismatch (-want +got):\n%s", diff)
	}
	if got := s.ListJobs()[0].Date; got != "2025-10-08" {
		t.Errorf("Service.ListJobs()[0].Date = %v, want 2025-10-08", got)
	}
}

func TestService_ListJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s, f := newTestService(ctrl, nil, testutil.Time(2025, 10, 6, 12, 0, 0),
		job.Job{ID: 9, Kind: job.KindSingle, Title: "NOVA"},
		job.Job{ID: 2, Kind: job.KindRecurring, Title: "Jeopardy!"},
		job.Job{ID: 5, Kind: job.KindSingle, Title: "Frontline"},
	)

	var ids []int64
	for _, j := range s.ListJobs() {
		ids = append(ids, j.ID)
	}
	if diff := cmp.Diff([]int64{2, 5, 9}, ids); diff != "" {
		t.Errorf("Service.ListJobs() mismatch (-want +got):\n%s", diff)
	}

	f.persistence.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)
	if _, err := s.CancelJob(context.Background(), 5); err != nil {
		t.Errorf("Service.CancelJob() error = %v", err)
	}
	if _, err := s.CancelJob(context.Background(), 5); !testutil.ErrorsIs(err, errutil.ErrJobNotFound) {
		t.Errorf("Service.CancelJob() error = %v, want %v", err, errutil.ErrJobNotFound)
	}
	if err := s.StopCapture(context.Background(), "missing"); !testutil.ErrorsIs(err, errutil.ErrCaptureNotFound) {
		t.Errorf("Service.StopCapture() error = %v, want %v", err, errutil.ErrCaptureNotFound)
	}
	if got := s.CaptureStatus(); len(got) != 0 {
		t.Errorf("Service.CaptureStatus() = %v, want empty", got)
	}
}

// 予約なしの録画を始めて、状態を見て、止める
func TestService_Control(t *testing.T) {
	defer goleak.VerifyNone(t)

	now := testutil.Time(2025, 10, 6, 12, 0, 0)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s, f := newTestService(ctrl, nil, now)
	ctx := context.Background()

	h := stoppableHandle(ctrl, nil)
	f.tuner.EXPECT().ChannelName(gomock.Any(), "7.1").Return("KXAN")
	f.tuner.EXPECT().StreamURL("7.1").Return("http://tuner:5004/auto/v7.1")
	f.tool.EXPECT().Start(gomock.Any(), recorder.Invocation{
		InputURL:   "http://tuner:5004/auto/v7.1",
		Duration:   45 * time.Minute,
		Encoding:   job.DefaultEncoding(),
		OutputPath: "/archive/KXAN_2025-10-06_12-00.mp4",
	}).Return(h, nil)
	f.tool.EXPECT().Remux(gomock.Any(), "/archive/KXAN_2025-10-06_12-00.mp4").Return(nil)

	started, ok := s.Control(ctx, "record now 7.1 45")
	if !ok || started.Status != StatusCaptureStarted {
		t.Fatalf("Service.Control(record now) = %+v, %v, want %s", started, ok, StatusCaptureStarted)
	}
	st, _ := started.Payload.(recorder.Status)
	if st.ChannelNumber != "7.1" || st.OutputPath != "/archive/KXAN_2025-10-06_12-00.mp4" {
		t.Errorf("Service.Control(record now) payload = %+v", st)
	}

	status, ok := s.Control(ctx, "Status")
	if !ok || status.Status != StatusCaptures {
		t.Fatalf("Service.Control(status) = %+v, %v", status, ok)
	}
	if got, _ := status.Payload.([]recorder.Status); len(got) != 1 || got[0].ID != st.ID {
		t.Errorf("Service.Control(status) payload = %+v, want [%s]", status.Payload, st.ID)
	}

	// チューナーは 1 つなので 2 本目は断る
	busy, _ := s.Control(ctx, "record now 18.1 30")
	if !testutil.ErrorsIs(busy.Err, errutil.ErrTunerBusy) {
		t.Errorf("Service.Control(record now) err = %v, want %v", busy.Err, errutil.ErrTunerBusy)
	}

	stopped, ok := s.Control(ctx, "stop "+st.ID)
	if !ok || stopped.Status != StatusCaptureStopped {
		t.Fatalf("Service.Control(stop) = %+v, %v", stopped, ok)
	}
	s.Shutdown(ctx)
	if got := s.CaptureStatus(); len(got) != 0 {
		t.Errorf("Service.CaptureStatus() after stop = %v, want empty", got)
	}
}

func TestService_Control_rejects(t *testing.T) {
	now := testutil.Time(2025, 10, 6, 12, 0, 0)

	tests := []struct {
		name    string
		text    string
		wantOK  bool
		wantErr error
	}{
		{name: "分が数字でない", text: "record now 7.1 soon", wantOK: true, wantErr: errutil.ErrInvalidRequest},
		{name: "分が 0", text: "record now 7.1 0", wantOK: true, wantErr: errutil.ErrInvalidRequest},
		{name: "引数が足りない", text: "record now 7.1", wantOK: true, wantErr: errutil.ErrInvalidRequest},
		{name: "存在しない録画は止められない", text: "stop 0b7c", wantOK: true, wantErr: errutil.ErrCaptureNotFound},
		{name: "id がない", text: "stop", wantOK: true, wantErr: errutil.ErrInvalidRequest},
		{name: "通常の録画コマンドは対象外", text: "record nova", wantOK: false},
		{name: "状態の後に語が続けば対象外", text: "status of my recordings", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			s, _ := newTestService(ctrl, nil, now)

			got, ok := s.Control(context.Background(), tt.text)
			if ok != tt.wantOK {
				t.Fatalf("Service.Control() ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if got.Status != StatusError || !testutil.ErrorsIs(got.Err, tt.wantErr) {
				t.Errorf("Service.Control() = %+v, want error %v", got, tt.wantErr)
			}
		})
	}
}
