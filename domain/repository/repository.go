//go:generate mockgen -source=$GOFILE -destination ../../testdata/mock/domain/$GOPACKAGE/$GOFILE
package repository

import (
	"context"
	"io"
	"time"

	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/model/recorder"
)

// 番組表の提供元
type GuideProvider interface {
	// start から hours 時間分の番組表を取得
	FetchWindow(ctx context.Context, start time.Time, hours int) ([]guide.Entry, error)
}

// 番組表キャッシュの保存先
type GuideStore interface {
	// 存在しなければ空の Snapshot を返す
	Load(ctx context.Context) (guide.Snapshot, error)
	Save(ctx context.Context, snapshot guide.Snapshot) error
}

type JobPersistence interface {
	LoadAll(ctx context.Context) ([]job.Job, error)

	// 採番された ID を返す
	Insert(ctx context.Context, j job.Job) (int64, error)

	// 返されるエラー
	// - errutil.ErrDatabaseNotFound
	Update(ctx context.Context, j job.Job) error

	Delete(ctx context.Context, id int64) error
}

// 録画ファイルに添えるメタデータ
type MetadataWriter interface {
	Write(ctx context.Context, j job.Job) error
}

type Tuner interface {
	StreamURL(channelNumber string) string

	// 不明なら channelNumber をそのまま返す
	ChannelName(ctx context.Context, channelNumber string) string
}

type CaptureTool interface {
	Start(ctx context.Context, inv recorder.Invocation) (CaptureHandle, error)

	// faststart 付きでコンテナを書き直す
	Remux(ctx context.Context, path string) error
}

type CaptureHandle interface {
	// stdout と stderr をまとめたもの
	Output() io.Reader

	// 標準入力に停止コマンドを書き込む
	RequestStop() error

	Wait() error
	Pid() int
}
