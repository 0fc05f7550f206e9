package recurrence

import (
	"sort"
	"strings"
	"time"

	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/internal/timeutil"
)

// 日付を解釈できなかった番組の系列キー
const GeneralSeries = "general"

// 平日の繰り返し枠にこれだけ集まれば毎日放送とみなす
const minDailyEntries = 4

// 番組表の時刻はすべて am/pm 付きなので基準時刻の影響は受けない
func start(e guide.Entry, loc *time.Location) (time.Time, bool) {
	ref := time.Date(2000, 1, 1, 12, 0, 0, 0, loc)
	t, err := e.Start(loc, ref)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type dated struct {
	entry guide.Entry
	start time.Time
}

// 放送日時が読めるものだけを放送順に
func sortedByStart(entries []guide.Entry, loc *time.Location) []dated {
	out := make([]dated, 0, len(entries))
	for _, e := range entries {
		if t, ok := start(e, loc); ok {
			out = append(out, dated{entry: e, start: t})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less(a, b dated) bool {
	if !a.start.Equal(b.start) {
		return a.start.Before(b.start)
	}
	if a.entry.ChannelNumber != b.entry.ChannelNumber {
		return a.entry.ChannelNumber < b.entry.ChannelNumber
	}
	return a.entry.Title < b.entry.Title
}

func unwrap(ds []dated) []guide.Entry {
	out := make([]guide.Entry, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.entry)
	}
	return out
}

// 一致した番組群がどのように繰り返されているかを判定する
// 返す番組は判定の根拠になったもの
func AnalyzePattern(entries []guide.Entry, loc *time.Location) (job.Pattern, []guide.Entry) {
	ds := sortedByStart(entries, loc)
	if len(entries) < 2 || len(ds) == 0 {
		return job.PatternOneTime, unwrap(ds)
	}

	// 曜日と時刻の組ごとに分け、2 回以上ある枠だけを平日・週末に振り分ける
	type slot struct {
		day   time.Weekday
		clock timeutil.Clock
	}
	slots := make(map[slot][]dated)
	for _, d := range ds {
		k := slot{day: d.start.Weekday(), clock: timeutil.ClockOf(d.start)}
		slots[k] = append(slots[k], d)
	}
	var weekday, weekend []dated
	for k, members := range slots {
		if len(members) < 2 {
			continue
		}
		if timeutil.IsWeekend(k.day) {
			weekend = append(weekend, members...)
		} else {
			weekday = append(weekday, members...)
		}
	}
	sort.SliceStable(weekday, func(i, j int) bool { return less(weekday[i], weekday[j]) })
	sort.SliceStable(weekend, func(i, j int) bool { return less(weekend[i], weekend[j]) })

	if len(weekday) >= minDailyEntries {
		return job.PatternDailyWeekdays, unwrap(weekday)
	}
	if len(weekend) >= 2 {
		return job.PatternWeeklyWeekend, unwrap(weekend)
	}

	if len(entries) >= 3 {
		return job.PatternWeekly, unwrap(ds)
	}
	return job.PatternLimitedSeries, unwrap(ds)
}

// "7.1_weekdays_20:00"
func SeriesKey(e guide.Entry, loc *time.Location) string {
	t, ok := start(e, loc)
	if !ok {
		return GeneralSeries
	}
	group := "weekdays"
	if timeutil.IsWeekend(t.Weekday()) {
		group = "weekend"
	}
	return e.ChannelNumber + "_" + group + "_" + timeutil.ClockOf(t).String()
}

// 放送枠ごとにまとめる
// 入力の順序に関わらず同じ結果になる
func GroupIntoSeries(entries []guide.Entry, loc *time.Location) map[string][]guide.Entry {
	groups := make(map[string][]dated)
	var general []guide.Entry
	for _, e := range entries {
		key := SeriesKey(e, loc)
		if key == GeneralSeries {
			general = append(general, e)
			continue
		}
		t, _ := start(e, loc)
		groups[key] = append(groups[key], dated{entry: e, start: t})
	}

	out := make(map[string][]guide.Entry, len(groups)+1)
	for key, ds := range groups {
		sort.SliceStable(ds, func(i, j int) bool { return less(ds[i], ds[j]) })
		out[key] = unwrap(ds)
	}
	if len(general) > 0 {
		sort.SliceStable(general, func(i, j int) bool {
			if general[i].Title != general[j].Title {
				return general[i].Title < general[j].Title
			}
			return general[i].Key() < general[j].Key()
		})
		out[GeneralSeries] = general
	}
	return out
}

// 系列キーを安定した順で返す
func SortedKeys(groups map[string][]guide.Entry) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// 繰り返しルールに保存する曜日・時刻・説明文を組み立てる
func Describe(entries []guide.Entry, pattern job.Pattern, loc *time.Location) job.Recurrence {
	ds := sortedByStart(entries, loc)
	r := job.Recurrence{Pattern: pattern}
	if len(ds) == 0 {
		return r
	}

	clock := commonClock(ds)
	r.Time = clock.String()
	at := " at " + clock.Display()

	var seen []time.Weekday
	for _, d := range ds {
		seen = append(seen, d.start.Weekday())
	}
	days := job.SortDays(seen)

	switch pattern {
	case job.PatternDailyWeekdays:
		r.Days = append([]time.Weekday(nil), timeutil.Weekdays...)
		r.Description = "Weekdays" + at
	case job.PatternWeeklyWeekend:
		r.Days = []time.Weekday{time.Saturday, time.Sunday}
		r.Description = "Weekends" + at
	case job.PatternWeekly:
		r.Days = days
		if len(days) == 1 {
			r.Description = days[0].String() + "s" + at
		} else {
			r.Description = "Weekly" + at
		}
	default:
		r.Days = days
		if len(days) > 0 {
			r.Description = dayList(days) + at
		} else {
			r.Description = "At " + clock.Display()
		}
	}
	return r
}

// 最も多く使われている時刻、同数なら早い方
func commonClock(ds []dated) timeutil.Clock {
	counts := make(map[timeutil.Clock]int)
	best := timeutil.ClockOf(ds[0].start)
	for _, d := range ds {
		c := timeutil.ClockOf(d.start)
		counts[c]++
		if counts[c] > counts[best] || (counts[c] == counts[best] && c.Minutes() < best.Minutes()) {
			best = c
		}
	}
	return best
}

func dayList(days []time.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}
