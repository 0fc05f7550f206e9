package job

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sobadon/tvrd/internal/errutil"
)

// 永続化される予約
// Kind が single なら 1 回きりの録画、recurring なら曜日・時刻の繰り返しルール
type Job struct {
	// ストア内で単調増加、再利用されない
	ID   int64
	Kind Kind

	Title         string
	ChannelNumber string
	ChannelName   string
	CallSign      string

	// single のときのみ "2006-01-02"
	Date string

	// 正規化済みなら "HH:MM"、できなかったときは番組表の表記のまま
	Time string

	DurationMinutes int
	Encoding        Encoding

	// 録画ファイル名（single のみ、拡張子は Encoding.Format で差し替える）
	Filename string

	EpisodeTitle    string
	EpisodeID       string
	SeasonNumber    string
	EpisodeNumber   string
	OriginalAirDate string
	Description     string
	Genre           string
	Rating          string
	Year            string

	// recurring のみ
	Recurrence Recurrence
	SeriesKey  string
	Retention  Retention

	Status          Status
	CreatedAt       time.Time
	LastTriggeredAt *time.Time
	CompletedAt     *time.Time
	OutputFile      string
}

func (j Job) IsRecurring() bool {
	return j.Kind == KindRecurring
}

func (j Job) Duration() time.Duration {
	if j.DurationMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(j.DurationMinutes) * time.Minute
}

// 発火した印を付ける
// single は scheduled -> recording、recurring は active のまま
func (j *Job) MarkTriggered(now time.Time) error {
	switch j.Kind {
	case KindRecurring:
		if j.Status != StatusActive {
			return errors.Wrapf(errutil.ErrInvalidTransition, "recurring job %d is %s", j.ID, j.Status)
		}
	default:
		if j.Status != StatusScheduled {
			return errors.Wrapf(errutil.ErrInvalidTransition, "job %d is %s, not scheduled", j.ID, j.Status)
		}
		j.Status = StatusRecording
	}
	t := now
	j.LastTriggeredAt = &t
	return nil
}

// 録画完了
// 繰り返しルールは完了しない
func (j *Job) Complete(outputFile string, now time.Time) error {
	if j.IsRecurring() {
		return errors.Wrapf(errutil.ErrInvalidTransition, "recurring job %d never completes", j.ID)
	}
	if j.Status != StatusRecording {
		return errors.Wrapf(errutil.ErrInvalidTransition, "job %d is %s, not recording", j.ID, j.Status)
	}
	t := now
	j.Status = StatusCompleted
	j.CompletedAt = &t
	j.OutputFile = outputFile
	return nil
}
