package job

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/testutil"
)

func TestJob_MarkTriggered(t *testing.T) {
	now := time.Date(2025, 10, 6, 20, 0, 5, 0, time.UTC)
	tests := []struct {
		name       string
		job        Job
		wantStatus Status
		wantErr    error
	}{
		{
			name:       "single は scheduled から recording になる",
			job:        Job{ID: 1, Kind: KindSingle, Status: StatusScheduled},
			wantStatus: StatusRecording,
		},
		{
			name:       "recurring は active のまま",
			job:        Job{ID: 2, Kind: KindRecurring, Status: StatusActive},
			wantStatus: StatusActive,
		},
		{
			name:       "recording 中の single は再度発火できない",
			job:        Job{ID: 3, Kind: KindSingle, Status: StatusRecording},
			wantStatus: StatusRecording,
			wantErr:    errutil.ErrInvalidTransition,
		},
		{
			name:       "cancelled の recurring は発火できない",
			job:        Job{ID: 4, Kind: KindRecurring, Status: StatusCancelled},
			wantStatus: StatusCancelled,
			wantErr:    errutil.ErrInvalidTransition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := tt.job
			err := j.MarkTriggered(now)
			if !testutil.ErrorsIs(err, tt.wantErr) {
				t.Fatalf("Job.MarkTriggered() error = %v, wantErr %v", err, tt.wantErr)
			}
			if j.Status != tt.wantStatus {
				t.Errorf("Job.MarkTriggered() status = %v, want %v", j.Status, tt.wantStatus)
			}
			if err == nil && (j.LastTriggeredAt == nil || !j.LastTriggeredAt.Equal(now)) {
				t.Errorf("Job.MarkTriggered() LastTriggeredAt = %v, want %v", j.LastTriggeredAt, now)
			}
		})
	}
}

func TestJob_Complete(t *testing.T) {
	now := time.Date(2025, 10, 6, 21, 0, 0, 0, time.UTC)

	single := Job{ID: 1, Kind: KindSingle, Status: StatusRecording}
	if err := single.Complete("NOVA.mp4", now); err != nil {
		t.Fatal(err)
	}
	if single.Status != StatusCompleted || single.OutputFile != "NOVA.mp4" {
		t.Errorf("Job.Complete() = %+v", single)
	}

	// 完了は 1 回だけ
	if err := single.Complete("NOVA.mp4", now); !testutil.ErrorsIs(err, errutil.ErrInvalidTransition) {
		t.Errorf("Job.Complete() second call error = %v", err)
	}

	rule := Job{ID: 2, Kind: KindRecurring, Status: StatusActive}
	if err := rule.Complete("x.mp4", now); !testutil.ErrorsIs(err, errutil.ErrInvalidTransition) {
		t.Errorf("Job.Complete() on recurring error = %v", err)
	}
	if rule.Status != StatusActive {
		t.Errorf("recurring status = %v, want active", rule.Status)
	}
}

func TestRecurrence_Includes(t *testing.T) {
	everyDay := Recurrence{}
	if !everyDay.Includes(time.Saturday) {
		t.Error("empty day set should include every day")
	}
	mondays := Recurrence{Days: []time.Weekday{time.Monday}}
	if !mondays.Includes(time.Monday) || mondays.Includes(time.Tuesday) {
		t.Errorf("Recurrence.Includes() wrong for %+v", mondays)
	}
}

func TestParseDays(t *testing.T) {
	got := ParseDays("Mon,thursday, Sat ,funday")
	want := []time.Weekday{time.Monday, time.Thursday, time.Saturday}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDays() mismatch (-want +got):\n%s", diff)
	}
	if s := FormatDays(want); s != "Monday,Thursday,Saturday" {
		t.Errorf("FormatDays() = %q", s)
	}
}

func TestSortDays(t *testing.T) {
	got := SortDays([]time.Weekday{time.Sunday, time.Monday, time.Sunday, time.Wednesday})
	want := []time.Weekday{time.Monday, time.Wednesday, time.Sunday}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortDays() mismatch (-want +got):\n%s", diff)
	}
}

func TestRetention_Expired(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	created := time.Date(2025, 10, 1, 12, 0, 0, 0, loc)
	tests := []struct {
		name      string
		retention Retention
		now       time.Time
		want      bool
	}{
		{name: "指定なしは期限なし", retention: Retention{}, now: created.AddDate(1, 0, 0), want: false},
		{name: "週指定の期間内", retention: Retention{Weeks: 2}, now: created.AddDate(0, 0, 13), want: false},
		{name: "週指定の期間を過ぎた", retention: Retention{Weeks: 2}, now: created.AddDate(0, 0, 14), want: true},
		{name: "until 当日は有効", retention: Retention{Until: "2025-10-31"}, now: time.Date(2025, 10, 31, 23, 0, 0, 0, loc), want: false},
		{name: "until の翌日は期限切れ", retention: Retention{Until: "2025-10-31"}, now: time.Date(2025, 11, 1, 1, 0, 0, 0, loc), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.retention.Expired(created, tt.now); got != tt.want {
				t.Errorf("Retention.Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncoding_WithDefaults(t *testing.T) {
	got := Encoding{CRF: 20}.WithDefaults(DefaultEncoding())
	want := Encoding{Preset: "fast", CRF: 20, Format: FormatMP4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Encoding.WithDefaults() mismatch (-want +got):\n%s", diff)
	}
}
