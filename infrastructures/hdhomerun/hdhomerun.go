package hdhomerun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/repository"
	"github.com/sobadon/tvrd/internal/errutil"
)

type lineupChannel struct {
	// "7.1"
	GuideNumber string `json:"GuideNumber"`

	// "KTBC-HD"
	GuideName string `json:"GuideName"`
}

type client struct {
	httpClient *http.Client
	host       string
	lineupURL  string

	mu sync.Mutex
	// 取得に成功するまで nil
	names map[string]string
}

func New(host string) repository.Tuner {
	return &client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		host:       host,
		lineupURL:  fmt.Sprintf("http://%s/lineup.json", host),
	}
}

// "http://192.168.1.50:5004/auto/v7.1"
func (c *client) StreamURL(channelNumber string) string {
	return fmt.Sprintf("http://%s:5004/auto/v%s", c.host, channelNumber)
}

// 不明なら channelNumber をそのまま返す
func (c *client) ChannelName(ctx context.Context, channelNumber string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.names == nil {
		names, err := c.fetchLineup(ctx)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to fetch tuner lineup")
			return channelNumber
		}
		c.names = names
	}

	if name, ok := c.names[channelNumber]; ok && name != "" {
		return name
	}
	return channelNumber
}

func (c *client) fetchLineup(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.lineupURL, nil)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrInternal, err.Error())
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrHTTPRequest, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errutil.ErrGetLineupNotOK, "http status code is %d", res.StatusCode)
	}

	var lineup []lineupChannel
	if err := json.NewDecoder(res.Body).Decode(&lineup); err != nil {
		return nil, errors.Wrap(errutil.ErrJSONDecode, err.Error())
	}

	names := make(map[string]string, len(lineup))
	for _, ch := range lineup {
		names[ch.GuideNumber] = ch.GuideName
	}
	log.Ctx(ctx).Debug().Msgf("fetched tuner lineup: %d channels", len(names))
	return names, nil
}
