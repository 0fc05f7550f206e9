package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sobadon/tvrd/internal/timeutil"
)

type Kind string

const (
	KindRecord   = Kind("record")
	KindBrowse   = Kind("browse")
	KindDownload = Kind("download")
	KindOrganize = Kind("organize")
	KindVPN      = Kind("vpn")
	KindUnknown  = Kind("unknown")
)

type DownloadType string

const (
	DownloadMagnet  = DownloadType("direct_magnet")
	DownloadTorrent = DownloadType("direct_torrent")
	DownloadSearch  = DownloadType("search")
	DownloadSeason  = DownloadType("series_season")
)

// 自由文から読み取ったコマンド
type Intent struct {
	Kind Kind   `json:"action"`
	Text string `json:"text"`

	// record
	Show     string `json:"show,omitempty"`
	Series   bool   `json:"series_recording"`
	NextOnly bool   `json:"next_only"`

	// 直前の候補一覧に対する選択（1 始まり）、0 なら指定なし
	Option          int `json:"record_option,omitempty"`
	RecurringOption int `json:"record_recurring_option,omitempty"`

	// 月曜始まりに並べたもの
	Weekdays []time.Weekday `json:"explicit_weekdays,omitempty"`

	// "8pm", "7:30 pm", "2100" のように書かれたまま
	ExplicitTime string `json:"explicit_time,omitempty"`

	RetentionWeeks int    `json:"retention_weeks,omitempty"`
	RetentionUntil string `json:"retention_until,omitempty"`

	// "on channel 7.1"
	Channel string `json:"channel,omitempty"`

	// browse / download / unknown
	Query string `json:"query,omitempty"`

	VPNAction string `json:"vpn_action,omitempty"`

	DownloadType DownloadType `json:"download_type,omitempty"`
	Season       int          `json:"season,omitempty"`
	SeriesName   string       `json:"series,omitempty"`

	OrganizeTitle string `json:"title,omitempty"`
	Destination   string `json:"destination,omitempty"`
}

// 時刻指定に am/pm が含まれているか
func (i Intent) HasMeridian() bool {
	t := strings.ToLower(i.ExplicitTime)
	return strings.Contains(t, "am") || strings.Contains(t, "pm")
}

// 時刻指定を 24 時間表記にしたもの
// ok が false なら指定なし
func (i Intent) Clock(now time.Time) (c timeutil.Clock, ambiguous bool, ok bool) {
	if i.ExplicitTime == "" {
		return timeutil.Clock{}, false, false
	}
	c, ambiguous, err := timeutil.NormalizeClock(i.ExplicitTime, now)
	if err != nil {
		return timeutil.Clock{}, false, false
	}
	return c, ambiguous, true
}

const dayNames = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`

var (
	recurringOptionPattern = regexp.MustCompile(`record\s+recurring\s+option\s+(\d+)`)
	optionPattern          = regexp.MustCompile(`record\s+option\s+(\d+)`)

	vpnPatterns = []struct {
		re     *regexp.Regexp
		action string
	}{
		{regexp.MustCompile(`(?:disconnect|stop|turn off|disable)\s+(?:the\s+)?vpn`), "disconnect"},
		{regexp.MustCompile(`(?:connect|start|turn on|enable)\s+(?:the\s+)?vpn`), "connect"},
		{regexp.MustCompile(`(?:check|status|show)(?:\s+me)?\s+(?:the\s+)?vpn(?:\s+status)?`), "status"},
		{regexp.MustCompile(`vpn\s+(?:disconnect|stop|off)`), "disconnect"},
		{regexp.MustCompile(`vpn\s+(?:connect|start|on)`), "connect"},
		{regexp.MustCompile(`vpn\s+(?:status|check)`), "status"},
	}

	browsePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^show me (?:all )?(?:shows? )?(?:this week )?(?:with )?(.+)`),
		regexp.MustCompile(`^find (?:all )?(?:shows? )?(?:this week )?(?:with )?(.+)`),
		regexp.MustCompile(`^search for (?:all )?(?:shows? )?(?:this week )?(?:with )?(.+)`),
		regexp.MustCompile(`^list (?:all )?(?:shows? )?(?:this week )?(?:with )?(.+)`),
		regexp.MustCompile(`^what (?:shows? )?(?:are )?(?:on )?(?:this week )?(?:with )?(.+)`),
	}

	nextOnlyPattern = regexp.MustCompile(`\b(?:next episode|upcoming episode|the next one)\b`)
	seriesPattern   = regexp.MustCompile(`\b(?:all episodes|every episode|all shows|every show|all of|series|daily|weekdays|every)\b`)

	// "every monday and thursday", "on mondays", "each tuesday, wednesday"
	weekdayClausePattern = regexp.MustCompile(`\b(?:each|every|on)\s+((?:` + dayNames + `)s?(?:(?:\s*,\s*(?:and\s+)?|\s+and\s+)(?:` + dayNames + `)s?)*)\b`)
	dayPattern           = regexp.MustCompile(dayNames)
	weekdaysPattern      = regexp.MustCompile(`\bweekdays\b`)
	exceptPattern        = regexp.MustCompile(`\bevery day except ([a-z,\s]+)`)

	retentionWeeksPattern = regexp.MustCompile(`\bfor\s+(\d+)\s+weeks?\b`)
	retentionUntilPattern = regexp.MustCompile(`\buntil\s+(\d{4}-\d{2}-\d{2})\b`)

	// 3-4 桁を先に試さないと "2100" が "21" で止まる
	timePattern    = regexp.MustCompile(`(?:\bat\b|@)\s*(\d{3,4}\s*(?:am|pm)?|\d{1,2}(?::\d{2})?\s*(?:am|pm)?)\b`)
	channelPattern = regexp.MustCompile(`\bon\s+channel\s+(\d+(?:\.\d+)?)`)

	recordWordPattern = regexp.MustCompile(`\brecord\b`)
	articlePattern    = regexp.MustCompile(`\b(?:the|a|an)\b`)
	spacePattern      = regexp.MustCompile(`\s+`)

	magnetPattern   = regexp.MustCompile(`(?i)magnet:\S+`)
	torrentPattern  = regexp.MustCompile(`(?i)https?://\S+\.torrent`)
	downloadPattern = regexp.MustCompile(`download\s+(.+)`)
	seasonOfPattern = regexp.MustCompile(`season\s+(\d+)\s+of\s+(.+)`)
	seasonPattern   = regexp.MustCompile(`(.+)\s+season\s+(\d+)`)

	organizeWordPattern = regexp.MustCompile(`\b(?:organize|move)\b`)
	organizePattern     = regexp.MustCompile(`(?:organize|move)\s+(.+?)(?:\s+to\s+(.+))?$`)
)

// 自由文のコマンドを解釈する
// 判別できないものは KindUnknown を返す
func Parse(text string) Intent {
	raw := strings.TrimSpace(text)
	cmd := strings.ToLower(raw)
	in := Intent{Text: raw}

	if m := recurringOptionPattern.FindStringSubmatch(cmd); m != nil {
		in.Kind = KindRecord
		in.RecurringOption, _ = strconv.Atoi(m[1])
		return in
	}
	if m := optionPattern.FindStringSubmatch(cmd); m != nil {
		in.Kind = KindRecord
		in.Option, _ = strconv.Atoi(m[1])
		return in
	}

	for _, p := range vpnPatterns {
		if p.re.MatchString(cmd) {
			in.Kind = KindVPN
			in.VPNAction = p.action
			return in
		}
	}

	for _, p := range browsePatterns {
		if m := p.FindStringSubmatch(cmd); m != nil {
			in.Kind = KindBrowse
			in.Query = strings.TrimSpace(m[1])
			return in
		}
	}

	switch {
	case recordWordPattern.MatchString(cmd):
		parseRecord(cmd, &in)
	case strings.Contains(cmd, "download"):
		parseDownload(raw, cmd, &in)
	case organizeWordPattern.MatchString(cmd):
		in.Kind = KindOrganize
		if m := organizePattern.FindStringSubmatch(cmd); m != nil {
			in.OrganizeTitle = strings.TrimSpace(m[1])
			in.Destination = strings.TrimSpace(m[2])
		}
	default:
		in.Kind = KindUnknown
		in.Query = raw
	}
	return in
}

func parseRecord(cmd string, in *Intent) {
	in.Kind = KindRecord
	// 番組名を取り出すため、読み取った句は消していく
	rest := cmd

	if nextOnlyPattern.MatchString(rest) {
		in.NextOnly = true
		rest = nextOnlyPattern.ReplaceAllString(rest, " ")
	} else {
		in.Series = seriesPattern.MatchString(rest)
	}

	if m := retentionWeeksPattern.FindStringSubmatch(rest); m != nil {
		in.RetentionWeeks, _ = strconv.Atoi(m[1])
		rest = retentionWeeksPattern.ReplaceAllString(rest, " ")
	}
	if m := retentionUntilPattern.FindStringSubmatch(rest); m != nil {
		in.RetentionUntil = m[1]
		rest = retentionUntilPattern.ReplaceAllString(rest, " ")
	}

	if m := channelPattern.FindStringSubmatch(rest); m != nil {
		in.Channel = m[1]
		rest = channelPattern.ReplaceAllString(rest, " ")
	}

	if m := timePattern.FindStringSubmatch(rest); m != nil {
		in.ExplicitTime = strings.TrimSpace(m[1])
		rest = timePattern.ReplaceAllString(rest, " ")
	}

	days := make(map[time.Weekday]bool)

	if m := exceptPattern.FindStringSubmatch(rest); m != nil {
		excluded := make(map[time.Weekday]bool)
		for _, name := range dayPattern.FindAllString(m[1], -1) {
			wd, _ := timeutil.ParseWeekday(name)
			excluded[wd] = true
		}
		if len(excluded) > 0 {
			for _, wd := range timeutil.Week {
				if !excluded[wd] {
					days[wd] = true
				}
			}
			in.Series = true
		}
		rest = exceptPattern.ReplaceAllString(rest, " ")
	}

	for _, m := range weekdayClausePattern.FindAllStringSubmatch(rest, -1) {
		for _, name := range dayPattern.FindAllString(m[1], -1) {
			wd, _ := timeutil.ParseWeekday(name)
			days[wd] = true
		}
		in.Series = true
	}
	rest = weekdayClausePattern.ReplaceAllString(rest, " ")

	if weekdaysPattern.MatchString(rest) {
		for _, wd := range timeutil.Weekdays {
			days[wd] = true
		}
		in.Series = true
	}

	for _, wd := range timeutil.Week {
		if days[wd] {
			in.Weekdays = append(in.Weekdays, wd)
		}
	}

	rest = recordWordPattern.ReplaceAllString(rest, " ")
	if in.Series {
		rest = seriesPattern.ReplaceAllString(rest, " ")
	}
	rest = articlePattern.ReplaceAllString(rest, " ")
	rest = strings.TrimSpace(spacePattern.ReplaceAllString(rest, " "))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "of "))
	in.Show = rest
}

func parseDownload(raw, cmd string, in *Intent) {
	in.Kind = KindDownload
	if m := magnetPattern.FindString(raw); m != "" {
		in.Query = m
		in.DownloadType = DownloadMagnet
		return
	}
	if m := torrentPattern.FindString(raw); m != "" {
		in.Query = m
		in.DownloadType = DownloadTorrent
		return
	}
	m := downloadPattern.FindStringSubmatch(cmd)
	if m == nil {
		return
	}
	q := strings.TrimSpace(m[1])
	in.Query = q
	in.DownloadType = DownloadSearch
	if s := seasonOfPattern.FindStringSubmatch(q); s != nil {
		in.Season, _ = strconv.Atoi(s[1])
		in.SeriesName = strings.TrimSpace(s[2])
		in.DownloadType = DownloadSeason
		return
	}
	if s := seasonPattern.FindStringSubmatch(q); s != nil {
		in.SeriesName = strings.TrimSpace(s[1])
		in.Season, _ = strconv.Atoi(s[2])
		in.DownloadType = DownloadSeason
	}
}
