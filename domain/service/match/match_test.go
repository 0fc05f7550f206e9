package match

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/internal/testutil"
	"github.com/sobadon/tvrd/internal/timeutil"
)

func newEngine() *Engine {
	return New(DefaultRuleset(), testutil.Location())
}

func titles(cs []Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Entry.Title)
	}
	return out
}

var (
	cowboysAtGiants = guide.Entry{
		Title:           "Cowboys at Giants",
		ChannelNumber:   "7.1",
		ChannelName:     "KTBC FOX (7.1)",
		Date:            "2025-10-12",
		Time:            "07:15 PM",
		DurationMinutes: 150,
		Genre:           "Sports event",
	}
	nflGameDay = guide.Entry{
		Title:           "NFL GameDay",
		ChannelNumber:   "42.1",
		Date:            "2025-10-12",
		Time:            "06:00 PM",
		DurationMinutes: 30,
		Description:     "Previewing the Cowboys and the rest of the week 6 slate.",
		Genre:           "Sports non-event",
	}
)

func TestEngine_Search_cowboysGame(t *testing.T) {
	now := testutil.Time(2025, 10, 10, 12, 0, 0)
	got := newEngine().Search([]guide.Entry{nflGameDay, cowboysAtGiants}, "cowboys game", 7, now)

	if len(got) == 0 {
		t.Fatal("Engine.Search() returned no candidates")
	}
	if got[0].Entry.Title != "Cowboys at Giants" {
		t.Errorf("Engine.Search() first = %q, want %q (all = %v)", got[0].Entry.Title, "Cowboys at Giants", titles(got))
	}
	if !got[0].TeamMatch {
		t.Error("Engine.Search() first candidate should be a team match")
	}
	for _, c := range got[1:] {
		if c.Score >= got[0].Score {
			t.Errorf("Engine.Search() %q score %v >= live game score %v", c.Entry.Title, c.Score, got[0].Score)
		}
	}
}

// 試合中継は同じチームのプレビュー番組より必ず高い
func TestEngine_Score_liveGameBeatsPreview(t *testing.T) {
	e := newEngine()
	previews := []guide.Entry{
		nflGameDay,
		{Title: "Cowboys Postgame Show", DurationMinutes: 60, Genre: "Sports talk"},
		{Title: "Cowboys Highlights", Description: "Cowboys recap", DurationMinutes: 30},
		{Title: "The Cowboys Weekly", Description: "Cowboys analysis and talk", DurationMinutes: 30, Genre: "Sports"},
	}
	games := []guide.Entry{
		cowboysAtGiants,
		{Title: "NFL Football", EpisodeTitle: "Dallas Cowboys vs. Philadelphia Eagles", DurationMinutes: 180},
		{Title: "Cowboys @ Eagles", Description: "Postgame coverage follows.", DurationMinutes: 200},
	}
	queries := []string{"cowboys", "cowboys game", "record the dallas cowboys", "cowboys football tonight", "Cowboys vs Eagles"}

	for _, q := range queries {
		for _, g := range games {
			for _, p := range previews {
				gs, _ := e.Score(q, g)
				ps, _ := e.Score(q, p)
				if gs <= ps {
					t.Errorf("query %q: game %q (%v) <= preview %q (%v)", q, g.Title, gs, p.Title, ps)
				}
				if ps > DefaultWeights().PreviewCap {
					t.Errorf("query %q: preview %q scored %v over cap", q, p.Title, ps)
				}
			}
		}
	}
}

func TestEngine_Score(t *testing.T) {
	e := newEngine()
	tests := []struct {
		name     string
		query    string
		entry    guide.Entry
		want     float64
		wantTeam bool
	}{
		{
			name:  "タイトル完全一致",
			query: "Antiques Roadshow",
			entry: guide.Entry{Title: "Antiques Roadshow"},
			want:  100,
		},
		{
			name:  "タイトル部分一致",
			query: "jeopardy",
			entry: guide.Entry{Title: "Celebrity Jeopardy!"},
			want:  80,
		},
		{
			name:  "単語の重なり",
			query: "roadshow vintage",
			entry: guide.Entry{Title: "Antiques Roadshow"},
			want:  30,
		},
		{
			name:  "説明文とジャンル",
			query: "cooking",
			entry: guide.Entry{Title: "Pati's Mexican Table", Description: "Cooking in Oaxaca.", Genre: "Cooking"},
			want:  60,
		},
		{
			name:     "チームのみ一致（試合でもプレビューでもない）",
			query:    "longhorns",
			entry:    guide.Entry{Title: "Texas Longhorns Legends", DurationMinutes: 60},
			want:     80 + 50,
			wantTeam: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, team := e.Score(tt.query, tt.entry)
			if got != tt.want {
				t.Errorf("Engine.Score() = %v, want %v", got, tt.want)
			}
			if team != tt.wantTeam {
				t.Errorf("Engine.Score() teamMatch = %v, want %v", team, tt.wantTeam)
			}
		})
	}
}

func TestEngine_Search(t *testing.T) {
	now := testutil.Time(2025, 10, 6, 12, 0, 0)
	roadshow := func(date, clock, ch string) guide.Entry {
		return guide.Entry{Title: "Antiques Roadshow", ChannelNumber: ch, Date: date, Time: clock, DurationMinutes: 60}
	}

	tests := []struct {
		name        string
		entries     []guide.Entry
		query       string
		horizonDays int
		want        []string
	}{
		{
			name:        "一致なしは空",
			entries:     []guide.Entry{roadshow("2025-10-06", "08:00 PM", "18.1")},
			query:       "jeopardy",
			horizonDays: 7,
			want:        []string{},
		},
		{
			name: "期間外と過去の番組は除く",
			entries: []guide.Entry{
				roadshow("2025-10-06", "08:00 PM", "18.1"),
				roadshow("2025-10-06", "08:00 AM", "18.1"),
				roadshow("2025-10-20", "08:00 PM", "18.1"),
			},
			query:       "antiques roadshow",
			horizonDays: 7,
			want:        []string{"2025-10-06"},
		},
		{
			name: "日時を解釈できないものは期間指定があると除く",
			entries: []guide.Entry{
				roadshow("2025-10-07", "TBD", "18.1"),
				roadshow("2025-10-07", "08:00 PM", "18.1"),
			},
			query:       "antiques roadshow",
			horizonDays: 7,
			want:        []string{"2025-10-07"},
		},
		{
			name: "期間指定がなければ日時不明も残し、後ろに並べる",
			entries: []guide.Entry{
				roadshow("", "", "18.1"),
				roadshow("2025-10-13", "08:00 PM", "18.1"),
				roadshow("2025-10-06", "08:00 PM", "18.1"),
			},
			query:       "antiques roadshow",
			horizonDays: 0,
			want:        []string{"2025-10-06", "2025-10-13", ""},
		},
		{
			name: "同じ枠は 1 つにまとめる",
			entries: []guide.Entry{
				roadshow("2025-10-06", "08:00 PM", "18.1"),
				roadshow("2025-10-06", "08:00 PM", "18.1"),
				roadshow("2025-10-06", "08:00 PM", "36.1"),
			},
			query:       "antiques roadshow",
			horizonDays: 7,
			want:        []string{"2025-10-06", "2025-10-06"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newEngine().Search(tt.entries, tt.query, tt.horizonDays, now)
			dates := make([]string, 0, len(got))
			for _, c := range got {
				dates = append(dates, c.Entry.Date)
			}
			if diff := cmp.Diff(tt.want, dates); diff != "" {
				t.Errorf("Engine.Search() dates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_Search_sortedByScoreThenTime(t *testing.T) {
	now := testutil.Time(2025, 10, 6, 12, 0, 0)
	entries := []guide.Entry{
		{Title: "Jeopardy! Masters", ChannelNumber: "24.1", Date: "2025-10-07", Time: "04:00 PM"},
		{Title: "Jeopardy!", ChannelNumber: "24.1", Date: "2025-10-08", Time: "04:30 PM"},
		{Title: "Jeopardy!", ChannelNumber: "24.1", Date: "2025-10-07", Time: "04:30 PM"},
	}
	got := newEngine().Search(entries, "jeopardy!", 7, now)

	want := []string{"Jeopardy!", "Jeopardy!", "Jeopardy! Masters"}
	if diff := cmp.Diff(want, titles(got)); diff != "" {
		t.Fatalf("Engine.Search() mismatch (-want +got):\n%s", diff)
	}
	if got[0].Entry.Date != "2025-10-07" {
		t.Errorf("Engine.Search() tie should be broken by air time, got %s first", got[0].Entry.Date)
	}
}

func TestEngine_Search_doesNotMutateEntries(t *testing.T) {
	now := testutil.Time(2025, 10, 6, 12, 0, 0)
	entries := []guide.Entry{{Title: "NOVA", ChannelNumber: "18.1", Date: "2025-10-08", Time: "08:00 PM"}}
	before := append([]guide.Entry(nil), entries...)

	newEngine().Search(entries, "nova", 7, now)

	if diff := cmp.Diff(before, entries); diff != "" {
		t.Errorf("Engine.Search() mutated input (-before +after):\n%s", diff)
	}
}

func TestEngine_SportsCandidates(t *testing.T) {
	now := testutil.Time(2025, 10, 10, 12, 0, 0)
	entries := []guide.Entry{
		cowboysAtGiants,
		nflGameDay,
		{Title: "Cowboys Postgame", ChannelNumber: "7.1", Date: "2025-10-12", Time: "10:00 PM", DurationMinutes: 120},
		{Title: "NFL Football", EpisodeTitle: "Eagles at Cowboys", ChannelNumber: "36.1", Date: "2025-10-19", Time: "12:00 PM", DurationMinutes: 180},
		{Title: "Cowboys at Commanders", ChannelNumber: "7.1", Date: "2025-10-05", Time: "12:00 PM", DurationMinutes: 180},
	}
	seven := timeutil.NewClock(7, 15)

	tests := []struct {
		name  string
		query string
		opts  SportsOptions
		want  []string
	}{
		{
			name:  "game もチームも含まないクエリは対象外",
			query: "antiques roadshow",
			want:  nil,
		},
		{
			name:  "チームがなければ対象外",
			query: "the big game",
			want:  nil,
		},
		{
			name:  "試合中継だけを残す",
			query: "cowboys game",
			want:  []string{"Cowboys at Giants", "NFL Football"},
		},
		{
			name:  "曜日で絞る",
			query: "cowboys game on sunday",
			want:  []string{"Cowboys at Giants", "NFL Football"},
		},
		{
			name:  "am/pm なしの早い時刻は夜とみなして前後 2 時間に絞る",
			query: "cowboys game",
			opts:  SportsOptions{Time: &seven},
			want:  []string{"Cowboys at Giants"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newEngine().SportsCandidates(entries, tt.query, tt.opts, now)
			if tt.want == nil {
				if got != nil {
					t.Errorf("Engine.SportsCandidates() = %v, want nil", titles(got))
				}
				return
			}
			if diff := cmp.Diff(tt.want, titles(got)); diff != "" {
				t.Errorf("Engine.SportsCandidates() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_Browse(t *testing.T) {
	now := testutil.Time(2025, 10, 6, 12, 0, 0)
	entries := []guide.Entry{
		{Title: "Nature", Genre: "Documentary", Date: "2025-10-08", Time: "07:00 PM"},
		{Title: "NOVA", Genre: "Documentary", Date: "2025-10-07", Time: "08:00 PM"},
		{Title: "Jeopardy!", Genre: "Game show", Date: "2025-10-07", Time: "04:30 PM"},
		{Title: "Frontline", Genre: "Documentary", Date: "2025-10-01", Time: "09:00 PM"},
	}
	got := newEngine().Browse(entries, "documentary", 7, now, 15)
	want := []string{"NOVA", "Nature"}
	if diff := cmp.Diff(want, titles(got)); diff != "" {
		t.Errorf("Engine.Browse() mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Next(t *testing.T) {
	now := testutil.Time(2025, 10, 6, 12, 0, 0)
	entries := []guide.Entry{
		{Title: "Jeopardy!", Date: "2025-10-08", Time: "04:30 PM"},
		{Title: "Jeopardy!", Date: "2025-10-06", Time: "04:30 PM"},
		{Title: "Jeopardy!", Date: "2025-10-06", Time: "04:30 AM"},
	}
	got, ok := newEngine().Next(entries, "jeopardy", now)
	if !ok {
		t.Fatal("Engine.Next() found nothing")
	}
	if want := testutil.Time(2025, 10, 6, 16, 30, 0); !got.Start.Equal(want) {
		t.Errorf("Engine.Next() start = %v, want %v", got.Start, want)
	}

	if _, ok := newEngine().Next(entries, "wheel of fortune", now); ok {
		t.Error("Engine.Next() should not find unknown show")
	}
}

func TestEngine_TeamsIn(t *testing.T) {
	e := newEngine()
	tests := []struct {
		in   string
		want []string
	}{
		{in: "record the cowboys game", want: []string{"dallas cowboys"}},
		// 単語境界で照合するので "texans" は "texas" にならない
		{in: "texans at titans", want: []string{"houston texans", "tennessee titans"}},
		{in: "antiques roadshow", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, e.TeamsIn(tt.in)); diff != "" {
				t.Errorf("Engine.TeamsIn() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
