package match

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sobadon/tvrd/domain/model/guide"
)

type Candidate struct {
	Entry guide.Entry
	Score float64

	// クエリのチームがこの番組にも出てくる
	TeamMatch bool

	// 解釈できなければゼロ値
	Start time.Time
}

type Engine struct {
	rules Ruleset
	loc   *time.Location
}

func New(rules Ruleset, loc *time.Location) *Engine {
	return &Engine{rules: rules, loc: loc}
}

type query struct {
	normalized string
	text       text
	teams      []string
	sports     bool
	gameTerm   bool
}

func (e *Engine) parseQuery(q string) query {
	t := newText(q)
	teams := e.TeamsIn(q)
	return query{
		normalized: Normalize(q),
		text:       t,
		teams:      teams,
		sports:     len(teams) > 0 || t.hasAnyPhrase(e.rules.SportsTerms),
		gameTerm:   t.hasAnyPhrase(e.rules.GameTerms),
	}
}

// 文中に出てくるチームの正式名
func (e *Engine) TeamsIn(s string) []string {
	t := newText(s)
	var teams []string
	for _, name := range e.rules.teamNames() {
		if t.hasAnyPhrase(e.rules.Teams[name]) {
			teams = append(teams, name)
		}
	}
	return teams
}

// 番組ひとつ分のスコア
func (e *Engine) Score(q string, entry guide.Entry) (float64, bool) {
	return e.score(e.parseQuery(q), entry)
}

func (e *Engine) score(q query, entry guide.Entry) (float64, bool) {
	w := e.rules.Weights
	title := Normalize(entry.Title)
	titleText := newText(entry.Title)
	descText := newText(entry.Description)
	genreText := newText(entry.Genre)

	var score float64
	switch {
	case title != "" && q.normalized == title:
		score = w.ExactTitle
	case title != "" && q.normalized != "" && (strings.Contains(title, q.normalized) || strings.Contains(q.normalized, title)):
		score = w.TitleSubstring
	default:
		score = overlapRatio(q.text.tokens, titleText.tokens) * w.TitleOverlap
	}

	score += overlapRatio(q.text.tokens, descText.tokens) * w.DescriptionOverlap

	for _, tok := range q.text.tokens {
		if genreText.hasPhrase(tok) {
			score += w.Genre
			break
		}
	}

	if !q.sports {
		return score, false
	}

	if strings.Contains(genreText.words, "sport") {
		score += w.SportsGenre
	}

	headline := newText(entry.Title, entry.EpisodeTitle)
	everything := newText(entry.Title, entry.EpisodeTitle, entry.Description)

	matchup := headline.hasAnyRaw(e.rules.MatchupIndicators)
	live := matchup && entry.DurationMinutes >= w.GameMinutes
	// 試合中継はプレビュー語を含んでいてもプレビュー扱いにしない
	preview := !live && everything.hasAnyPhrase(e.rules.PreviewKeywords)

	teamMatch := false
	for _, team := range q.teams {
		if !everything.hasAnyPhrase(e.rules.Teams[team]) {
			continue
		}
		teamMatch = true
		switch {
		case live:
			score += w.LiveGame
		case preview:
			score += w.TeamPreview
		default:
			score += w.TeamOther
		}
		break
	}

	if q.gameTerm && (matchup || titleText.hasPhrase("game")) {
		score += w.GameTerm
	}

	// 最後に適用する
	if preview {
		score = math.Min(score, w.PreviewCap)
	}

	return score, teamMatch
}

// 番組表から query に合う番組をスコア順に返す
// horizonDays が 0 以下なら放送日時での絞り込みをしない
func (e *Engine) Search(entries []guide.Entry, q string, horizonDays int, now time.Time) []Candidate {
	parsed := e.parseQuery(q)
	if len(parsed.text.tokens) == 0 {
		return []Candidate{}
	}
	cutoff := now.AddDate(0, 0, horizonDays)

	best := make(map[string]int)
	out := []Candidate{}
	for _, entry := range entries {
		start, err := entry.Start(e.loc, now)
		if horizonDays > 0 {
			if err != nil || start.Before(now) || start.After(cutoff) {
				continue
			}
		} else if err != nil {
			start = time.Time{}
		}

		score, teamMatch := e.score(parsed, entry)
		if score <= e.rules.Weights.Threshold {
			continue
		}

		c := Candidate{Entry: entry, Score: score, TeamMatch: teamMatch, Start: start}
		if i, ok := best[entry.Key()]; ok {
			if out[i].Score < score {
				out[i] = c
			}
			continue
		}
		best[entry.Key()] = len(out)
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return startsBefore(out[i], out[j])
	})
	return out
}

// タイトル・説明・ジャンルの部分一致を放送順に並べる
func (e *Engine) Browse(entries []guide.Entry, q string, days int, now time.Time, limit int) []Candidate {
	needle := Normalize(q)
	if needle == "" {
		return []Candidate{}
	}
	cutoff := now.AddDate(0, 0, days)

	out := []Candidate{}
	for _, entry := range entries {
		genre := newText(entry.Genre)
		if !strings.Contains(Normalize(entry.Title), needle) &&
			!strings.Contains(Normalize(entry.Description), needle) &&
			!genre.hasPhrase(needle) {
			continue
		}
		start, err := entry.Start(e.loc, now)
		if err == nil && (start.Before(now) || start.After(cutoff)) {
			continue
		}
		if err != nil {
			start = time.Time{}
		}
		out = append(out, Candidate{Entry: entry, Start: start})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return startsBefore(out[i], out[j])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// タイトルに q を含む番組のうち、これから最初に放送されるもの
func (e *Engine) Next(entries []guide.Entry, q string, now time.Time) (Candidate, bool) {
	needle := Normalize(q)
	var (
		next  Candidate
		found bool
	)
	if needle == "" {
		return next, false
	}
	for _, entry := range entries {
		if !strings.Contains(Normalize(entry.Title), needle) {
			continue
		}
		start, err := entry.Start(e.loc, now)
		if err != nil || start.Before(now) {
			continue
		}
		if !found || start.Before(next.Start) {
			next = Candidate{Entry: entry, Start: start}
			found = true
		}
	}
	return next, found
}

// 日時不明なものは後ろ
func startsBefore(a, b Candidate) bool {
	switch {
	case a.Start.IsZero() && b.Start.IsZero():
		return false
	case a.Start.IsZero():
		return false
	case b.Start.IsZero():
		return true
	}
	return a.Start.Before(b.Start)
}
