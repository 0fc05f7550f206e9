package recorder

import (
	"time"

	"github.com/sobadon/tvrd/domain/model/job"
)

type Config struct {
	// 保存先ディレクトリ
	ArchiveDir string

	// 同時に使えるチューナー数
	Tuners int
}

// キャプチャツールに渡すもの
type Invocation struct {
	InputURL   string
	Duration   time.Duration
	Encoding   job.Encoding
	OutputPath string
}

// キャプチャ開始要求
type Request struct {
	// 手動録画なら 0
	JobID int64

	ChannelNumber string
	Duration      time.Duration
	Encoding      job.Encoding

	// 空なら "<チャンネル名>_<開始日時>.<ext>"
	Filename string

	StartedAt time.Time
}

type Status struct {
	ID            string    `json:"id"`
	JobID         int64     `json:"job_id,omitempty"`
	ChannelNumber string    `json:"channel_number"`
	OutputPath    string    `json:"output_path"`
	StartedAt     time.Time `json:"started_at"`
	Pid           int       `json:"pid"`
	Stopping      bool      `json:"stopping"`
}
