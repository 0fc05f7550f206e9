package match

import (
	"sort"
	"strings"
	"time"

	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/internal/timeutil"
)

type SportsOptions struct {
	// 指定された時刻の前後 2 時間に絞る
	Time *timeutil.Clock

	// 元の文に am/pm があったか
	HasMeridian bool

	Limit int
}

const (
	sportsTimeWindowMinutes = 120
	longGameMinutes         = 150
)

// 「カウボーイズの試合を録画」のようなクエリから試合中継だけを拾う
// チーム名と game / vs / at のいずれも含まないクエリには nil を返す
func (e *Engine) SportsCandidates(entries []guide.Entry, q string, opts SportsOptions, now time.Time) []Candidate {
	qt := newText(q)
	if !qt.hasPhrase("game") && !qt.hasPhrase("vs") && !strings.Contains(qt.raw, " at ") {
		return nil
	}
	teams := e.TeamsIn(q)
	if len(teams) == 0 {
		return nil
	}

	var weekdays []time.Weekday
	for _, tok := range qt.tokens {
		if wd, ok := timeutil.ParseWeekday(tok); ok && len(tok) > 3 {
			weekdays = append(weekdays, wd)
		}
	}

	var target *timeutil.Clock
	if opts.Time != nil {
		c := *opts.Time
		// 夜の試合が多いので、am/pm なしの早い時刻は夜とみなす
		if c.Hour < 8 && !opts.HasMeridian {
			c.Hour += 12
		}
		target = &c
	}

	var out []Candidate
	for _, entry := range entries {
		title := newText(entry.Title)
		meta := newText(entry.Title, entry.Description, entry.EpisodeTitle)
		nflFootball := title.hasPhrase("nfl football")

		if !e.mentionsAny(title, teams) {
			if !nflFootball || !e.mentionsAny(meta, teams) {
				continue
			}
		}
		matchup := meta.hasAnyRaw(e.rules.MatchupIndicators)
		if !matchup && !nflFootball {
			continue
		}
		if title.hasAnyPhrase(e.rules.SportsExclusions) {
			continue
		}
		if entry.DurationMinutes < e.rules.Weights.GameMinutes {
			continue
		}
		start, err := entry.Start(e.loc, now)
		if err != nil || start.Before(now) {
			continue
		}
		if len(weekdays) > 0 && !containsWeekday(weekdays, start.Weekday()) {
			continue
		}
		if target != nil {
			d := timeutil.ClockOf(start).Minutes() - target.Minutes()
			if d < 0 {
				d = -d
			}
			if d > sportsTimeWindowMinutes {
				continue
			}
		}

		var score float64
		if entry.DurationMinutes >= longGameMinutes {
			score += 30
		}
		if title.hasAnyRaw(e.rules.MatchupIndicators) {
			score += 20
		}
		if e.mentionsAny(newText(homeSide(entry.Title, e.rules.MatchupIndicators)), teams) {
			score += 5
		}
		if h := start.Hour(); h >= 18 && h <= 21 {
			score += 10
		}
		if strings.HasSuffix(entry.ChannelNumber, ".1") {
			score += 2
		}
		out = append(out, Candidate{Entry: entry, Score: score, TeamMatch: true, Start: start})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Start.Before(out[j].Start)
	})
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (e *Engine) mentionsAny(t text, teams []string) bool {
	for _, team := range teams {
		if t.hasAnyPhrase(e.rules.Teams[team]) {
			return true
		}
	}
	return false
}

// "Cowboys at Giants" の "Cowboys" 側（副題の前まで）
func homeSide(title string, indicators []string) string {
	s := " " + Normalize(strings.SplitN(title, ":", 2)[0]) + " "
	cut := len(s)
	for _, ind := range indicators {
		if i := strings.Index(s, strings.ToLower(ind)); i >= 0 && i < cut {
			cut = i
		}
	}
	return s[:cut]
}

func containsWeekday(days []time.Weekday, wd time.Weekday) bool {
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}
