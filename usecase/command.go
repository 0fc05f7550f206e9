package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/model/guide"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/service/intent"
	"github.com/sobadon/tvrd/domain/service/match"
	"github.com/sobadon/tvrd/domain/service/recurrence"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/timeutil"
)

const (
	StatusCandidates      = "record_candidates"
	StatusScheduled       = "record_scheduled"
	StatusRuleCreated     = "recurring_rule_created"
	StatusSeriesScheduled = "series_scheduled"
	StatusDuplicate       = "duplicate"
	StatusUnknown         = "unknown_command"
	StatusError           = "error"

	searchHorizonDays  = 7
	slotHorizonDays    = 14
	maxCandidates      = 10
	browseLimit        = 15
	highConfidenceTeam = 100
)

// 番組表検索
type CandidateView struct {
	Option        int     `json:"option"`
	Title         string  `json:"title"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Channel       string  `json:"channel"`
	ChannelNumber string  `json:"channel_number"`
	Duration      int     `json:"duration"`
	Description   string  `json:"description,omitempty"`
	Genre         string  `json:"genre,omitempty"`
	Score         float64 `json:"score,omitempty"`
	TeamMatch     bool    `json:"team_match,omitempty"`
}

// コマンドの結果
// 失敗も Status = "error" の Result として返す
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`

	Show              string          `json:"show,omitempty"`
	CandidateType     string          `json:"candidate_type,omitempty"`
	Pattern           job.Pattern     `json:"pattern_detected,omitempty"`
	Candidates        []CandidateView `json:"candidates,omitempty"`
	SeriesRecommended bool            `json:"series_recommended,omitempty"`
	TeamMatchOneOff   bool            `json:"team_match_one_off,omitempty"`
	Jobs              []job.Job       `json:"jobs,omitempty"`

	// Delegate が返すもの
	Payload interface{} `json:"payload,omitempty"`

	// errors.Is で判定するためのもの
	Err error `json:"-"`
}

// 利用者の操作で起きたものは info、それ以外は障害として error で残す
func failed(ctx context.Context, err error) Result {
	if errutil.IsUserFacing(err) {
		log.Ctx(ctx).Info().Err(err).Msg("command rejected")
	} else {
		log.Ctx(ctx).Error().Err(err).Msg("command failed")
	}
	msg := err.Error()
	if cause := errors.Cause(err); cause != nil && cause != err {
		msg = strings.TrimSuffix(msg, ": "+cause.Error())
	}
	return Result{Status: StatusError, Error: msg, Err: err}
}

// 録画以外の外部連携
type Delegate interface {
	Download(ctx context.Context, in intent.Intent) (Result, error)
	Organize(ctx context.Context, in intent.Intent) (Result, error)
	VPN(ctx context.Context, in intent.Intent) (Result, error)
}

type guideReader interface {
	GetGuide(ctx context.Context) []guide.Entry
}

type Dispatcher struct {
	guide    guideReader
	store    *ucJobStore
	engine   *match.Engine
	sessions *sessions
	delegate Delegate
	loc      *time.Location
	now      func() time.Time
}

// delegate は nil でよい
func NewDispatcher(guide guideReader, store *ucJobStore, engine *match.Engine, sessionTTL time.Duration, loc *time.Location, delegate Delegate) *Dispatcher {
	return &Dispatcher{
		guide:    guide,
		store:    store,
		engine:   engine,
		sessions: newSessions(sessionTTL),
		delegate: delegate,
		loc:      loc,
		now:      time.Now,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, requester string, in intent.Intent) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(ctx, errors.Wrapf(errutil.ErrInternal, "panic: %v", r))
		}
	}()

	switch in.Kind {
	case intent.KindRecord:
		return d.record(ctx, requester, in)
	case intent.KindBrowse:
		return d.browse(ctx, requester, in)
	case intent.KindDownload, intent.KindOrganize, intent.KindVPN:
		return d.delegateTo(ctx, in)
	}
	return Result{
		Status:  StatusUnknown,
		Message: fmt.Sprintf("Could not understand %q. Try 'record <show>' or 'show me <query>'.", in.Text),
	}
}

func (d *Dispatcher) delegateTo(ctx context.Context, in intent.Intent) Result {
	if d.delegate == nil {
		return failed(ctx, errors.Wrapf(errutil.ErrUnsupportedCommand, "%s is not supported", in.Kind))
	}
	var (
		res Result
		err error
	)
	switch in.Kind {
	case intent.KindDownload:
		res, err = d.delegate.Download(ctx, in)
	case intent.KindOrganize:
		res, err = d.delegate.Organize(ctx, in)
	default:
		res, err = d.delegate.VPN(ctx, in)
	}
	if err != nil {
		return failed(ctx, err)
	}
	return res
}

func (d *Dispatcher) browse(ctx context.Context, requester string, in intent.Intent) Result {
	q := strings.TrimSpace(in.Query)
	if q == "" {
		return failed(ctx, errors.Wrap(errutil.ErrNoCandidates, "No search query provided"))
	}
	entries := d.guide.GetGuide(ctx)
	if len(entries) == 0 {
		return failed(ctx, errors.Wrap(errutil.ErrGuideUnavailable, "No guide data available. Try refreshing the guide"))
	}

	now := d.now()
	found := d.engine.Browse(entries, q, searchHorizonDays, now, browseLimit)
	if len(found) == 0 {
		return failed(ctx, errors.Wrapf(errutil.ErrNoCandidates, "No upcoming shows found matching '%s' in the next %d days", q, searchHorizonDays))
	}

	d.sessions.put(requester, q, candidateEntries(found), now)
	return Result{
		Status:        StatusCandidates,
		CandidateType: "browse_results",
		Message:       fmt.Sprintf("Found %d shows matching '%s'. Use 'record option N' to schedule.", len(found), q),
		Show:          q,
		Candidates:    views(found),
	}
}

func (d *Dispatcher) record(ctx context.Context, requester string, in intent.Intent) Result {
	if in.Option > 0 || in.RecurringOption > 0 {
		return d.recordOption(ctx, requester, in)
	}

	show := strings.TrimSpace(in.Show)
	if show == "" {
		return failed(ctx, errors.Wrap(errutil.ErrNoCandidates, "No show name provided"))
	}
	entries := d.guide.GetGuide(ctx)
	if len(entries) == 0 {
		return failed(ctx, errors.Wrap(errutil.ErrGuideUnavailable, "No guide data available. Try refreshing the guide"))
	}
	if in.Channel != "" {
		entries = onChannel(entries, in.Channel)
	}
	now := d.now()

	if res, ok := d.sportsCandidates(ctx, requester, entries, show, in, now); ok {
		return res
	}

	if in.NextOnly {
		next, ok := d.engine.Next(entries, show, now)
		if !ok {
			return failed(ctx, errors.Wrapf(errutil.ErrNoCandidates, "No upcoming episode of '%s' found", show))
		}
		return d.scheduleSingle(ctx, next.Entry, "")
	}

	matches := d.engine.Search(entries, show, searchHorizonDays, now)
	if len(matches) == 0 {
		return failed(ctx, errors.Wrapf(errutil.ErrNoCandidates, "No episodes found for '%s' in the next %d days", show, searchHorizonDays))
	}
	pattern, relevant := recurrence.AnalyzePattern(candidateEntries(matches), d.loc)

	// 1 試合だけはっきり当たっているなら単発
	suppress := false
	high := 0
	for _, m := range matches {
		if m.TeamMatch && m.Score >= highConfidenceTeam {
			high++
		}
	}
	if high == 1 && (strings.Contains(strings.ToLower(show), "game") || len(d.engine.TeamsIn(show)) > 0) {
		suppress = true
		pattern = job.PatternOneTime
	}
	log.Ctx(ctx).Debug().Msgf("pattern for %q: %s", show, pattern)

	if len(in.Weekdays) > 0 {
		return d.scheduleWeekly(ctx, show, matches, in, now)
	}

	pool := relevant
	if len(pool) == 0 {
		pool = candidateEntries(matches)
	}
	list := d.distinctUpcoming(pool, now)
	d.sessions.put(requester, show, list, now)

	cands := make([]match.Candidate, 0, len(list))
	for _, e := range list {
		c := match.Candidate{Entry: e}
		for _, m := range matches {
			if m.Entry.Key() == e.Key() {
				c = m
				break
			}
		}
		cands = append(cands, c)
	}
	return Result{
		Status:            StatusCandidates,
		Message:           fmt.Sprintf("Select an airing of '%s' to record (option 1-%d). Use 'record option N' or 'record recurring option N'.", show, len(list)),
		Show:              show,
		Pattern:           pattern,
		Candidates:        views(cands),
		SeriesRecommended: !suppress && (in.Series || (pattern.Recurring() && len(relevant) > 1)),
		TeamMatchOneOff:   suppress,
	}
}

func (d *Dispatcher) sportsCandidates(ctx context.Context, requester string, entries []guide.Entry, show string, in intent.Intent, now time.Time) (Result, bool) {
	q := show
	for _, wd := range in.Weekdays {
		q += " " + strings.ToLower(wd.String())
	}
	opts := match.SportsOptions{HasMeridian: in.HasMeridian(), Limit: maxCandidates}
	if c, ambiguous, ok := in.Clock(now.In(d.loc)); ok {
		if ambiguous {
			log.Ctx(ctx).Warn().Msgf("ambiguous time %q read as %s", in.ExplicitTime, c)
		}
		opts.Time = &c
	}
	found := d.engine.SportsCandidates(entries, q, opts, now)
	if len(found) == 0 {
		return Result{}, false
	}

	d.sessions.put(requester, show, candidateEntries(found), now)
	return Result{
		Status:        StatusCandidates,
		CandidateType: "sports",
		Message:       fmt.Sprintf("Select the live game broadcast (option 1-%d). Use 'record option N' or 'record recurring option N'.", len(found)),
		Show:          show,
		Candidates:    views(found),
	}, true
}

// 曜日の指定があれば、その曜日の放送枠ごとに繰り返しルールを作る
func (d *Dispatcher) scheduleWeekly(ctx context.Context, show string, matches []match.Candidate, in intent.Intent, now time.Time) Result {
	wanted := make(map[time.Weekday]bool, len(in.Weekdays))
	for _, wd := range in.Weekdays {
		wanted[wd] = true
	}
	var chosen []guide.Entry
	for _, m := range matches {
		if !m.Start.IsZero() && wanted[m.Start.In(d.loc).Weekday()] {
			chosen = append(chosen, m.Entry)
		}
	}
	if len(chosen) == 0 {
		// まだ番組表に出ていない曜日なら最初の回をひな形にする
		chosen = []guide.Entry{matches[0].Entry}
	}

	explicit, ambiguous, hasTime := in.Clock(now.In(d.loc))
	if ambiguous {
		log.Ctx(ctx).Warn().Msgf("ambiguous time %q read as %s", in.ExplicitTime, explicit)
	}
	groups := recurrence.GroupIntoSeries(chosen, d.loc)

	var (
		created    []job.Job
		duplicates int
	)
	for _, key := range recurrence.SortedKeys(groups) {
		group := groups[key]
		rec := recurrence.Describe(group, job.PatternWeekly, d.loc)
		clock, _, err := timeutil.ParseStoredClock(rec.Time, now)
		if hasTime || err != nil {
			clock = explicit
		}
		rec = weeklyRecurrence(in.Weekdays, clock)

		j, err := d.store.AddRecurring(ctx, RecurringRequest{
			Template:   group[0],
			Recurrence: rec,
			SeriesKey:  key,
			Retention:  job.Retention{Weeks: in.RetentionWeeks, Until: in.RetentionUntil},
		})
		if errors.Is(err, errutil.ErrDuplicateJob) {
			duplicates++
			continue
		}
		if err != nil {
			return failed(ctx, err)
		}
		created = append(created, j)
	}

	if len(created) == 0 && duplicates > 0 {
		return Result{
			Status:  StatusDuplicate,
			Message: fmt.Sprintf("'%s' is already scheduled", show),
			Show:    show,
			Err:     errutil.ErrDuplicateJob,
		}
	}
	return Result{
		Status:  StatusSeriesScheduled,
		Message: fmt.Sprintf("Series recording scheduled for '%s' (%d rules)", show, len(created)),
		Show:    show,
		Pattern: job.PatternWeekly,
		Jobs:    created,
	}
}

// 指定された曜日の集合からルールの種類と説明を決める
func weeklyRecurrence(days []time.Weekday, clock timeutil.Clock) job.Recurrence {
	days = job.SortDays(days)
	at := " at " + clock.Display()
	r := job.Recurrence{Days: days, Time: clock.String()}

	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	switch {
	case job.FormatDays(days) == job.FormatDays(timeutil.Weekdays):
		r.Pattern = job.PatternDailyWeekdays
		r.Description = "Weekdays" + at
	case job.FormatDays(days) == job.FormatDays([]time.Weekday{time.Saturday, time.Sunday}):
		r.Pattern = job.PatternWeeklyWeekend
		r.Description = "Weekends" + at
	case len(days) == 1:
		r.Pattern = job.PatternWeekly
		r.Description = names[0] + "s" + at
	default:
		r.Pattern = job.PatternWeekly
		r.Description = strings.Join(names, ", ") + at
	}
	return r
}

func (d *Dispatcher) recordOption(ctx context.Context, requester string, in intent.Intent) Result {
	now := d.now()
	sess, ok := d.sessions.get(requester, now)
	if !ok || len(sess.candidates) == 0 {
		return failed(ctx, errors.Wrap(errutil.ErrNoCandidates, "No prior record candidate list available. Issue a 'record <show>' command first"))
	}
	option := in.Option
	if option == 0 {
		option = in.RecurringOption
	}
	if option < 1 || option > len(sess.candidates) {
		return failed(ctx, errors.Wrapf(errutil.ErrOptionOutOfRange, "Record option out of range. Choose 1-%d", len(sess.candidates)))
	}
	chosen := sess.candidates[option-1]

	if in.Option > 0 {
		return d.scheduleSingle(ctx, chosen, fmt.Sprintf(" (option %d)", option))
	}

	// 同じチャンネル・同じ時刻の回を 2 週間分集める
	var slot []guide.Entry
	for _, m := range d.engine.Search(d.guide.GetGuide(ctx), sess.show, slotHorizonDays, now) {
		if m.Entry.ChannelNumber == chosen.ChannelNumber && m.Entry.Time == chosen.Time {
			slot = append(slot, m.Entry)
		}
	}
	if len(slot) == 0 {
		slot = []guide.Entry{chosen}
	}

	rec := recurrence.Describe(slot, job.PatternWeekly, d.loc)
	station := chosen.CallSign
	if station == "" {
		station = chosen.ChannelNumber
	}
	j, err := d.store.AddRecurring(ctx, RecurringRequest{
		Template:   chosen,
		Recurrence: rec,
		SeriesKey:  station + "_" + rec.Time,
		Retention:  job.Retention{Weeks: in.RetentionWeeks, Until: in.RetentionUntil},
	})
	if errors.Is(err, errutil.ErrDuplicateJob) {
		return Result{Status: StatusDuplicate, Message: fmt.Sprintf("'%s' already has a recurring rule", chosen.Title), Jobs: []job.Job{j}, Err: err}
	}
	if err != nil {
		return failed(ctx, err)
	}
	return Result{
		Status:  StatusRuleCreated,
		Message: fmt.Sprintf("Created recurring rule from option %d (%s @ %s)", option, chosen.ChannelName, chosen.Time),
		Pattern: rec.Pattern,
		Jobs:    []job.Job{j},
	}
}

func (d *Dispatcher) scheduleSingle(ctx context.Context, e guide.Entry, suffix string) Result {
	j, err := d.store.AddSingle(ctx, e, job.Encoding{})
	if errors.Is(err, errutil.ErrDuplicateJob) {
		return Result{
			Status:  StatusDuplicate,
			Message: fmt.Sprintf("'%s' on %s %s is already scheduled", e.Title, e.Date, e.Time),
			Jobs:    []job.Job{j},
			Err:     err,
		}
	}
	if err != nil {
		return failed(ctx, err)
	}
	return Result{
		Status:  StatusScheduled,
		Message: fmt.Sprintf("Scheduled '%s' %s %s%s", e.Title, e.Date, e.Time, suffix),
		Jobs:    []job.Job{j},
	}
}

// 放送順に並べ、同じ放送枠を除いて最大 10 件
func (d *Dispatcher) distinctUpcoming(entries []guide.Entry, now time.Time) []guide.Entry {
	type dated struct {
		entry guide.Entry
		start time.Time
	}
	ds := make([]dated, 0, len(entries))
	for _, e := range guide.Dedupe(entries) {
		start, _ := e.Start(d.loc, now)
		ds = append(ds, dated{entry: e, start: start})
	}
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].start.Before(ds[j].start)
	})

	out := make([]guide.Entry, 0, maxCandidates)
	for _, x := range ds {
		if len(out) == maxCandidates {
			break
		}
		out = append(out, x.entry)
	}
	return out
}

func onChannel(entries []guide.Entry, channel string) []guide.Entry {
	var out []guide.Entry
	for _, e := range entries {
		if e.ChannelNumber == channel {
			out = append(out, e)
		}
	}
	return out
}

func candidateEntries(cs []match.Candidate) []guide.Entry {
	out := make([]guide.Entry, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Entry)
	}
	return out
}

func views(cs []match.Candidate) []CandidateView {
	out := make([]CandidateView, 0, len(cs))
	for i, c := range cs {
		out = append(out, CandidateView{
			Option:        i + 1,
			Title:         c.Entry.DisplayTitle(),
			Date:          c.Entry.Date,
			Time:          c.Entry.Time,
			Channel:       c.Entry.ChannelName,
			ChannelNumber: c.Entry.ChannelNumber,
			Duration:      c.Entry.DurationMinutes,
			Description:   c.Entry.Description,
			Genre:         c.Entry.Genre,
			Score:         c.Score,
			TeamMatch:     c.TeamMatch,
		})
	}
	return out
}
