package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sobadon/tvrd/internal/errutil"
)

const (
	DateLayout    = "2006-01-02"
	ClockLayout   = "15:04"
	DisplayLayout = "03:04 PM"

	minutesPerDay = 24 * 60
)

// 読み込めなければ固定オフセット（CST）にフォールバックする
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("CST", -6*60*60)
	}
	return loc
}

// 時刻（分解能は分）
type Clock struct {
	Hour   int
	Minute int
}

func NewClock(hour, minute int) Clock {
	return Clock{Hour: hour, Minute: minute}
}

func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// 24 時間表記 "HH:MM"
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// 番組表の表示形式 "07:00 PM"
func (c Clock) Display() string {
	return c.On(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)).Format(DisplayLayout)
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// day と同じ日付・ロケーションでの時刻
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// 日付を跨ぐ差も考慮した分単位の距離
// 23:58 と 00:01 は 3
func CircularDistance(a, b Clock) int {
	d := a.Minutes() - b.Minutes()
	if d < 0 {
		d = -d
	}
	if minutesPerDay-d < d {
		return minutesPerDay - d
	}
	return d
}

var (
	canonicalPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
	clockPattern     = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(am|pm)?$`)
	compactPattern   = regexp.MustCompile(`^(\d{3,4})(am|pm)?$`)
)

// 表示用の時刻文字列を 24 時間表記に正規化する
//
// 受け付けるもの
//   - "19:00", "7:00"（24 時間表記として扱う）
//   - "7:00 PM", "7:00PM", "7 pm", "7p.m."
//   - "2030", "930"
//
// 午前・午後の指定がない "12:xx" は判別できないので
// now が 0-5 時台なら 00:xx、それ以外は 12:xx とみなし ambiguous = true を返す
func NormalizeClock(raw string, now time.Time) (Clock, bool, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "", ".", "").Replace(s)
	if s == "" {
		return Clock{}, false, errors.Wrap(errutil.ErrTimeParse, "empty time")
	}

	var hourStr, minuteStr, meridian string
	if m := clockPattern.FindStringSubmatch(s); m != nil {
		hourStr, minuteStr, meridian = m[1], m[2], m[3]
	} else if m := compactPattern.FindStringSubmatch(s); m != nil {
		digits := m[1]
		hourStr, minuteStr, meridian = digits[:len(digits)-2], digits[len(digits)-2:], m[2]
	} else {
		return Clock{}, false, errors.Wrapf(errutil.ErrTimeParse, "unrecognized time %q", raw)
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return Clock{}, false, errors.Wrap(errutil.ErrTimeParse, err.Error())
	}
	minute := 0
	if minuteStr != "" {
		minute, err = strconv.Atoi(minuteStr)
		if err != nil {
			return Clock{}, false, errors.Wrap(errutil.ErrTimeParse, err.Error())
		}
	}
	if minute > 59 {
		return Clock{}, false, errors.Wrapf(errutil.ErrTimeParse, "minute out of range %q", raw)
	}

	switch meridian {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return Clock{}, false, errors.Wrapf(errutil.ErrTimeParse, "hour out of range %q", raw)
		}
		if hour == 12 {
			hour = 0
		}
		if meridian == "pm" {
			hour += 12
		}
		return Clock{Hour: hour, Minute: minute}, false, nil
	}

	if hour > 23 {
		return Clock{}, false, errors.Wrapf(errutil.ErrTimeParse, "hour out of range %q", raw)
	}
	if hour == 12 {
		if now.Hour() < 6 {
			return Clock{Hour: 0, Minute: minute}, true, nil
		}
		return Clock{Hour: 12, Minute: minute}, true, nil
	}
	return Clock{Hour: hour, Minute: minute}, false, nil
}

// 保存済みの時刻を読む
// "HH:MM" は正規化済みとして 12:xx もそのまま使い、それ以外は NormalizeClock に任せる
func ParseStoredClock(raw string, now time.Time) (Clock, bool, error) {
	if m := canonicalPattern.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return Clock{Hour: hour, Minute: minute}, false, nil
	}
	return NormalizeClock(raw, now)
}

// 予約の日付と保存済みの時刻から loc での時刻を組み立てる
func ParseStoredDateClock(date, clock string, loc *time.Location, now time.Time) (time.Time, bool, error) {
	return onDate(date, clock, loc, now, ParseStoredClock)
}

// "2006-01-02" と表示用時刻から loc での時刻を組み立てる
func ParseDateClock(date, clock string, loc *time.Location, now time.Time) (time.Time, bool, error) {
	return onDate(date, clock, loc, now, NormalizeClock)
}

func onDate(date, clock string, loc *time.Location, now time.Time, parse func(string, time.Time) (Clock, bool, error)) (time.Time, bool, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, false, errors.Wrap(errutil.ErrTimeParse, err.Error())
	}
	c, ambiguous, err := parse(clock, now.In(loc))
	if err != nil {
		return time.Time{}, false, err
	}
	return c.On(day), ambiguous, nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// 省略形・完全形・複数形のどれでも受け付ける
func ParseWeekday(s string) (time.Weekday, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayNames[key]; ok {
		return wd, true
	}
	if strings.HasSuffix(key, "s") {
		wd, ok := weekdayNames[strings.TrimSuffix(key, "s")]
		return wd, ok
	}
	return time.Sunday, false
}

func IsWeekend(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}

// 月曜始まりで並べた曜日
var Week = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}

var Weekdays = Week[:5]
