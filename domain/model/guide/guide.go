package guide

import (
	"strings"
	"time"

	"github.com/sobadon/tvrd/internal/timeutil"
)

// 番組表の 1 放送枠
type Entry struct {
	Title        string `json:"title"`
	EpisodeTitle string `json:"episode_title,omitempty"`

	// "7.1"
	ChannelNumber string `json:"channel_number"`
	CallSign      string `json:"call_sign,omitempty"`

	// "KTBC FOX (7.1)"
	ChannelName string `json:"channel"`

	// "2006-01-02"
	Date string `json:"date"`

	// 表示用の現地時刻 "07:00 PM"
	Time string `json:"time"`

	DurationMinutes int    `json:"duration"`
	Description     string `json:"description,omitempty"`
	Genre           string `json:"genre,omitempty"`
	Rating          string `json:"rating,omitempty"`
	Year            string `json:"year,omitempty"`
	SeasonNumber    string `json:"season_number,omitempty"`
	EpisodeNumber   string `json:"episode_number,omitempty"`

	// "S01E02" もしくは "E02"
	EpisodeID       string `json:"episode_id,omitempty"`
	OriginalAirDate string `json:"original_air_date,omitempty"`
}

// 同一取得サイクル内で一意になるキー
func (e Entry) Key() string {
	return e.ChannelNumber + "|" + e.Date + "|" + e.Time
}

// 日付と時刻がなければ予約には使えない
func (e Entry) Schedulable() bool {
	return strings.TrimSpace(e.Date) != "" && strings.TrimSpace(e.Time) != ""
}

func (e Entry) Start(loc *time.Location, now time.Time) (time.Time, error) {
	start, _, err := timeutil.ParseDateClock(e.Date, e.Time, loc, now)
	return start, err
}

func (e Entry) DisplayTitle() string {
	if strings.TrimSpace(e.EpisodeTitle) == "" {
		return e.Title
	}
	return e.Title + ": " + e.EpisodeTitle
}

// 先に出てきたものを残す
func Dedupe(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Key()]; ok {
			continue
		}
		seen[e.Key()] = struct{}{}
		out = append(out, e)
	}
	return out
}

type Snapshot struct {
	Entries   []Entry
	FetchedAt time.Time
}

func (s Snapshot) Empty() bool {
	return len(s.Entries) == 0
}

func (s Snapshot) Expired(now time.Time, ttl time.Duration) bool {
	return s.FetchedAt.IsZero() || now.Sub(s.FetchedAt) >= ttl
}
