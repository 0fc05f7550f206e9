package date

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/timeutil"
)

// 年月日
type Date time.Time

func New(year int, month time.Month, day int, loc *time.Location) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, loc))
}

func NewFromToday(today time.Time) Date {
	return Date(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location()))
}

func Parse(s string, loc *time.Location) (Date, error) {
	t, err := time.ParseInLocation(timeutil.DateLayout, s, loc)
	if err != nil {
		return Date{}, errors.Wrap(errutil.ErrTimeParse, err.Error())
	}
	return Date(t), nil
}

func (d Date) String() string {
	return time.Time(d).Format(timeutil.DateLayout)
}

// その日の hour 時ちょうど
func (d Date) At(hour int) time.Time {
	t := time.Time(d)
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}

func (d Date) AddDays(n int) Date {
	t := time.Time(d)
	return Date(time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location()))
}

func (d Date) Weekday() time.Weekday {
	return time.Time(d).Weekday()
}
