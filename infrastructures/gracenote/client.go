package gracenote

import (
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sobadon/tvrd/domain/repository"
	"github.com/sobadon/tvrd/internal/errutil"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://tvlistings.gracenote.com/api/grid"
	DefaultLineupID = "USA-lineupId-DEFAULT"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	referer   = "https://tvlistings.gracenote.com/"
)

type Config struct {
	BaseURL    string
	PostalCode string
	LineupID   string

	// 空なら全チャンネル
	Channels []string

	// 番組表の日付・時刻をこのタイムゾーンで表す
	Location *time.Location

	// 1 秒あたりのリクエスト数、0 以下なら制限しない
	RequestsPerSecond float64
}

type client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cfg        Config
	channels   map[string]bool
	limiter    *rate.Limiter
}

func New(cfg Config) (repository.GuideProvider, error) {
	return newClient(cfg, &http.Client{Timeout: 15 * time.Second})
}

func newClient(cfg Config, httpClient *http.Client) (*client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.LineupID == "" {
		cfg.LineupID = DefaultLineupID
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrInternal, err.Error())
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	channels := make(map[string]bool, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		channels[ch] = true
	}

	return &client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cfg:        cfg,
		channels:   channels,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}
