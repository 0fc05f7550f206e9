package job

import (
	"strings"
	"time"

	"github.com/sobadon/tvrd/internal/timeutil"
)

type Pattern string

const (
	PatternOneTime       = Pattern("one-time")
	PatternDailyWeekdays = Pattern("daily-weekdays")
	PatternWeeklyWeekend = Pattern("weekly-weekend")
	PatternWeekly        = Pattern("weekly")
	PatternLimitedSeries = Pattern("limited-series")
)

func (p Pattern) String() string {
	return string(p)
}

// 繰り返すものかどうか
func (p Pattern) Recurring() bool {
	switch p {
	case PatternDailyWeekdays, PatternWeeklyWeekend, PatternWeekly:
		return true
	}
	return false
}

type Recurrence struct {
	Pattern     Pattern
	Description string

	// 空なら毎日
	Days []time.Weekday

	// "20:00"
	Time string
}

func (r Recurrence) Includes(wd time.Weekday) bool {
	if len(r.Days) == 0 {
		return true
	}
	for _, d := range r.Days {
		if d == wd {
			return true
		}
	}
	return false
}

// "Monday,Thursday"
func FormatDays(days []time.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	return strings.Join(names, ",")
}

// 解釈できない曜日は捨てる
func ParseDays(s string) []time.Weekday {
	var days []time.Weekday
	for _, name := range strings.Split(s, ",") {
		if wd, ok := timeutil.ParseWeekday(name); ok {
			days = append(days, wd)
		}
	}
	return days
}

// 月曜始まりに並べ替え、重複を除く
func SortDays(days []time.Weekday) []time.Weekday {
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	out := make([]time.Weekday, 0, len(set))
	for _, d := range timeutil.Week {
		if set[d] {
			out = append(out, d)
		}
	}
	return out
}

// 保持期間
type Retention struct {
	Weeks int

	// "2006-01-02"（この日を含む）
	Until string
}

func (r Retention) Empty() bool {
	return r.Weeks == 0 && r.Until == ""
}

// 作成時刻 created から見て now が保持期間を過ぎているか
func (r Retention) Expired(created, now time.Time) bool {
	if r.Weeks > 0 && !created.IsZero() && !now.Before(created.AddDate(0, 0, 7*r.Weeks)) {
		return true
	}
	if r.Until != "" {
		until, err := time.ParseInLocation(timeutil.DateLayout, r.Until, now.Location())
		if err == nil && now.After(until.AddDate(0, 0, 1)) {
			return true
		}
	}
	return false
}
