package gracenote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/timeutil"
)

// 文字列でも数値でも来るフィールド
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

type gracenoteGrid struct {
	Channels []gracenoteChannel `json:"channels"`
}

type gracenoteChannel struct {
	// "KTBC"
	CallSign string `json:"callSign"`

	// "FOX", 無いときは "NULL" のこともある
	AffiliateName string `json:"affiliateName"`

	// "7.1"
	ChannelNo flexString `json:"channelNo"`

	Events []gracenoteEvent `json:"events"`
}

type gracenoteEvent struct {
	// "2025-10-07T00:15:00Z"
	StartTime string `json:"startTime"`

	// 分 "150"
	Duration flexString `json:"duration"`

	Program gracenoteProgram `json:"program"`
}

type gracenoteProgram struct {
	Title            string     `json:"title"`
	EpisodeTitle     string     `json:"episodeTitle"`
	SeasonNumber     flexString `json:"seasonNumber"`
	EpisodeNumber    flexString `json:"episodeNumber"`
	OriginalAirDate  string     `json:"originalAirDate"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"shortDescription"`
	Genre            flexString `json:"genre"`
	Rating           string     `json:"rating"`
	Year             flexString `json:"year"`
}

// 番組名が決まっていない枠
var placeholderTitles = map[string]bool{
	"":                true,
	"Unknown":         true,
	"TBA":             true,
	"To Be Announced": true,
}

func (c *client) FetchWindow(ctx context.Context, start time.Time, hours int) ([]guide.Entry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errutil.ErrHTTPRequest, err.Error())
	}

	gridURL := buildURL(c.baseURL, c.cfg, start, hours)
	log.Ctx(ctx).Debug().Msgf("http get target url: %s", gridURL.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gridURL.String(), nil)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrInternal, err.Error())
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", referer)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrHTTPRequest, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errutil.ErrGetGuideNotOK, "http status code is %d", res.StatusCode)
	}

	grid, err := decodeToGrid(res.Body)
	if err != nil {
		return nil, err
	}

	entries := c.gridToEntries(ctx, grid)
	log.Ctx(ctx).Debug().Msgf("fetched guide window %s (+%dh): %d entries", start.Format("2006-01-02 15:04"), hours, len(entries))
	return entries, nil
}

func buildURL(baseURL *url.URL, cfg Config, start time.Time, hours int) *url.URL {
	u := *baseURL
	queries := u.Query()
	queries.Set("lineupId", cfg.LineupID)
	queries.Set("timespan", strconv.Itoa(hours))
	queries.Set("headendId", "lineupId")
	queries.Set("country", "USA")
	queries.Set("timezone", "")
	queries.Set("device", "-")
	queries.Set("postalCode", cfg.PostalCode)
	queries.Set("isOverride", "true")
	queries.Set("time", strconv.FormatInt(start.Unix(), 10))
	queries.Set("pref", "32,256")
	queries.Set("userId", "-")
	queries.Set("aid", "orbebb")
	queries.Set("languagecode", "en-us")
	u.RawQuery = queries.Encode()
	return &u
}

func decodeToGrid(input io.Reader) (gracenoteGrid, error) {
	var grid gracenoteGrid
	if err := json.NewDecoder(input).Decode(&grid); err != nil {
		return gracenoteGrid{}, errors.Wrap(errutil.ErrJSONDecode, err.Error())
	}
	return grid, nil
}

func (c *client) gridToEntries(ctx context.Context, grid gracenoteGrid) []guide.Entry {
	var entries []guide.Entry
	for _, ch := range grid.Channels {
		number := string(ch.ChannelNo)
		if len(c.channels) > 0 && !c.channels[number] {
			continue
		}
		name := channelDisplayName(ch)
		for _, ev := range ch.Events {
			entry, err := eventToEntry(ev, ch, name, c.cfg.Location)
			if err != nil {
				// 1 件壊れていても他は使う
				log.Ctx(ctx).Warn().Err(err).Msgf("skip event on %s", number)
				continue
			}
			if placeholderTitles[entry.Title] {
				continue
			}
			entries = append(entries, entry)
		}
	}
	return entries
}

// "KTBC FOX (7.1)"
func channelDisplayName(ch gracenoteChannel) string {
	number := string(ch.ChannelNo)
	affiliate := strings.TrimSpace(ch.AffiliateName)
	switch {
	case ch.CallSign != "" && affiliate != "" && !strings.EqualFold(affiliate, "null"):
		return fmt.Sprintf("%s %s (%s)", ch.CallSign, affiliate, number)
	case ch.CallSign != "":
		return fmt.Sprintf("%s (%s)", ch.CallSign, number)
	}
	return fmt.Sprintf("Channel %s", number)
}

func eventToEntry(ev gracenoteEvent, ch gracenoteChannel, channelName string, loc *time.Location) (guide.Entry, error) {
	start, err := parseStartTime(ev.StartTime, loc)
	if err != nil {
		return guide.Entry{}, err
	}

	p := ev.Program
	duration, _ := strconv.Atoi(strings.TrimSpace(string(ev.Duration)))
	description := p.Description
	if description == "" {
		description = p.ShortDescription
	}

	return guide.Entry{
		Title:           strings.TrimSpace(p.Title),
		EpisodeTitle:    p.EpisodeTitle,
		ChannelNumber:   string(ch.ChannelNo),
		CallSign:        ch.CallSign,
		ChannelName:     channelName,
		Date:            start.Format(timeutil.DateLayout),
		Time:            start.Format(timeutil.DisplayLayout),
		DurationMinutes: duration,
		Description:     description,
		Genre:           string(p.Genre),
		Rating:          p.Rating,
		Year:            string(p.Year),
		SeasonNumber:    string(p.SeasonNumber),
		EpisodeNumber:   string(p.EpisodeNumber),
		EpisodeID:       episodeID(string(p.SeasonNumber), string(p.EpisodeNumber)),
		OriginalAirDate: airDate(p.OriginalAirDate),
	}, nil
}

// ISO 8601 (UTC) もしくは unix 秒
func parseStartTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.Wrap(errutil.ErrTimeParse, "empty start time")
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).In(loc), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, errors.Wrapf(errutil.ErrTimeParse, "unrecognized start time %q", s)
}

// "S01E02", "E02"
func episodeID(season, episode string) string {
	switch {
	case season != "" && episode != "":
		return fmt.Sprintf("S%sE%s", zeroPad(season), zeroPad(episode))
	case episode != "":
		return fmt.Sprintf("E%s", zeroPad(episode))
	}
	return ""
}

func zeroPad(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

// 日付部分だけ取り出す
func airDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len(timeutil.DateLayout) {
		if _, err := time.Parse(timeutil.DateLayout, s[:len(timeutil.DateLayout)]); err == nil {
			return s[:len(timeutil.DateLayout)]
		}
	}
	return s
}
