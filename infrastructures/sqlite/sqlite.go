package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/repository"
	"github.com/sobadon/tvrd/internal/errutil"
)

type jobSqlite struct {
	ID              int64          `db:"id"`
	Kind            string         `db:"kind"`
	Title           string         `db:"title"`
	ChannelNumber   string         `db:"channel_number"`
	ChannelName     string         `db:"channel_name"`
	CallSign        string         `db:"call_sign"`
	Date            string         `db:"date"`
	Time            string         `db:"time"`
	DurationMinutes int            `db:"duration_minutes"`
	Preset          string         `db:"preset"`
	CRF             int            `db:"crf"`
	Format          string         `db:"format"`
	Filename        sql.NullString `db:"filename"`
	EpisodeTitle    string         `db:"episode_title"`
	EpisodeID       string         `db:"episode_id"`
	SeasonNumber    string         `db:"season_number"`
	EpisodeNumber   string         `db:"episode_number"`
	OriginalAirDate string         `db:"original_air_date"`
	Description     string         `db:"description"`
	Genre           string         `db:"genre"`
	Rating          string         `db:"rating"`
	Year            string         `db:"year"`
	Pattern         string         `db:"pattern"`
	RecurrenceDesc  string         `db:"recurrence_description"`
	Days            string         `db:"days"`
	RecurrenceTime  string         `db:"recurrence_time"`
	SeriesKey       string         `db:"series_key"`
	RetentionWeeks  int            `db:"retention_weeks"`
	RetentionUntil  string         `db:"retention_until"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	LastTriggeredAt sql.NullTime   `db:"last_triggered_at"`
	CompletedAt     sql.NullTime   `db:"completed_at"`
	OutputFile      sql.NullString `db:"output_file"`
}

const jobColumns = `id, kind, title, channel_number, channel_name, call_sign, date, time, duration_minutes,
	preset, crf, format, filename,
	episode_title, episode_id, season_number, episode_number, original_air_date, description, genre, rating, year,
	pattern, recurrence_description, days, recurrence_time, series_key, retention_weeks, retention_until,
	status, created_at, last_triggered_at, completed_at, output_file`

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func jobSqliteToModelJob(js jobSqlite) job.Job {
	return job.Job{
		ID:              js.ID,
		Kind:            job.Kind(js.Kind),
		Title:           js.Title,
		ChannelNumber:   js.ChannelNumber,
		ChannelName:     js.ChannelName,
		CallSign:        js.CallSign,
		Date:            js.Date,
		Time:            js.Time,
		DurationMinutes: js.DurationMinutes,
		Encoding: job.Encoding{
			Preset: js.Preset,
			CRF:    js.CRF,
			Format: job.ParseFormat(js.Format),
		},
		Filename:        js.Filename.String, // 空文字になってくれればよい
		EpisodeTitle:    js.EpisodeTitle,
		EpisodeID:       js.EpisodeID,
		SeasonNumber:    js.SeasonNumber,
		EpisodeNumber:   js.EpisodeNumber,
		OriginalAirDate: js.OriginalAirDate,
		Description:     js.Description,
		Genre:           js.Genre,
		Rating:          js.Rating,
		Year:            js.Year,
		Recurrence: job.Recurrence{
			Pattern:     job.Pattern(js.Pattern),
			Description: js.RecurrenceDesc,
			Days:        job.ParseDays(js.Days),
			Time:        js.RecurrenceTime,
		},
		SeriesKey: js.SeriesKey,
		Retention: job.Retention{
			Weeks: js.RetentionWeeks,
			Until: js.RetentionUntil,
		},
		Status:          job.Status(js.Status),
		CreatedAt:       js.CreatedAt,
		LastTriggeredAt: timePtr(js.LastTriggeredAt),
		CompletedAt:     timePtr(js.CompletedAt),
		OutputFile:      js.OutputFile.String,
	}
}

func modelJobToJobSqlite(j job.Job) jobSqlite {
	return jobSqlite{
		ID:              j.ID,
		Kind:            j.Kind.String(),
		Title:           j.Title,
		ChannelNumber:   j.ChannelNumber,
		ChannelName:     j.ChannelName,
		CallSign:        j.CallSign,
		Date:            j.Date,
		Time:            j.Time,
		DurationMinutes: j.DurationMinutes,
		Preset:          j.Encoding.Preset,
		CRF:             j.Encoding.CRF,
		Format:          j.Encoding.Format.String(),
		Filename:        nullString(j.Filename),
		EpisodeTitle:    j.EpisodeTitle,
		EpisodeID:       j.EpisodeID,
		SeasonNumber:    j.SeasonNumber,
		EpisodeNumber:   j.EpisodeNumber,
		OriginalAirDate: j.OriginalAirDate,
		Description:     j.Description,
		Genre:           j.Genre,
		Rating:          j.Rating,
		Year:            j.Year,
		Pattern:         j.Recurrence.Pattern.String(),
		RecurrenceDesc:  j.Recurrence.Description,
		Days:            job.FormatDays(j.Recurrence.Days),
		RecurrenceTime:  j.Recurrence.Time,
		SeriesKey:       j.SeriesKey,
		RetentionWeeks:  j.Retention.Weeks,
		RetentionUntil:  j.Retention.Until,
		Status:          j.Status.String(),
		CreatedAt:       j.CreatedAt,
		LastTriggeredAt: nullTime(j.LastTriggeredAt),
		CompletedAt:     nullTime(j.CompletedAt),
		OutputFile:      nullString(j.OutputFile),
	}
}

func NewDB(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrDatabaseOpen, err.Error())
	}
	return db, nil
}

// テーブル作成
func Setup(db *sqlx.DB) error {
	_, err := db.Exec(`create table if not exists jobs (
		id integer primary key autoincrement,
		kind text not null,
		title text not null,
		channel_number text not null,
		channel_name text not null default '',
		call_sign text not null default '',
		date text not null default '',
		time text not null,
		duration_minutes integer not null,
		preset text not null,
		crf integer not null,
		format text not null,
		filename text,
		episode_title text not null default '',
		episode_id text not null default '',
		season_number text not null default '',
		episode_number text not null default '',
		original_air_date text not null default '',
		description text not null default '',
		genre text not null default '',
		rating text not null default '',
		year text not null default '',
		pattern text not null default '',
		recurrence_description text not null default '',
		days text not null default '',
		recurrence_time text not null default '',
		series_key text not null default '',
		retention_weeks integer not null default 0,
		retention_until text not null default '',
		status text not null,
		created_at timestamp not null,
		last_triggered_at timestamp,
		completed_at timestamp,
		output_file text,
		updated_at timestamp not null default (datetime('now', 'localtime'))
	);`)
	if err != nil {
		return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}

	_, err = db.Exec(`CREATE TRIGGER if not exists trigger_jobs_updated_at AFTER UPDATE ON jobs
		BEGIN
			UPDATE jobs SET updated_at = DATETIME('now', 'localtime') WHERE rowid == NEW.rowid;
		END;
		`)
	if err != nil {
		return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}

	return nil
}

type client struct {
	DB *sqlx.DB
}

func New(db *sqlx.DB) repository.JobPersistence {
	return &client{
		DB: db,
	}
}

func (c *client) LoadAll(ctx context.Context) ([]job.Job, error) {
	var jobsSqlite []jobSqlite
	err := c.DB.SelectContext(ctx, &jobsSqlite, `select `+jobColumns+` from jobs order by id`)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}

	jobs := make([]job.Job, 0, len(jobsSqlite))
	for _, js := range jobsSqlite {
		jobs = append(jobs, jobSqliteToModelJob(js))
	}
	return jobs, nil
}

// ID は autoincrement で採番するので j.ID は無視する
func (c *client) Insert(ctx context.Context, j job.Job) (int64, error) {
	res, err := c.DB.NamedExecContext(ctx,
		`insert into jobs (kind, title, channel_number, channel_name, call_sign, date, time, duration_minutes,
			preset, crf, format, filename,
			episode_title, episode_id, season_number, episode_number, original_air_date, description, genre, rating, year,
			pattern, recurrence_description, days, recurrence_time, series_key, retention_weeks, retention_until,
			status, created_at, last_triggered_at, completed_at, output_file)
		values
		(:kind, :title, :channel_number, :channel_name, :call_sign, :date, :time, :duration_minutes,
			:preset, :crf, :format, :filename,
			:episode_title, :episode_id, :season_number, :episode_number, :original_air_date, :description, :genre, :rating, :year,
			:pattern, :recurrence_description, :days, :recurrence_time, :series_key, :retention_weeks, :retention_until,
			:status, :created_at, :last_triggered_at, :completed_at, :output_file)`,
		modelJobToJobSqlite(j))
	if err != nil {
		return 0, errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}
	return id, nil
}

// 録画の進行で変わるものだけを書き換える
//
// 返されるエラー
// - errutil.ErrDatabaseNotFound
func (c *client) Update(ctx context.Context, j job.Job) error {
	res, err := c.DB.NamedExecContext(ctx,
		`update jobs set status = :status, last_triggered_at = :last_triggered_at, completed_at = :completed_at,
			output_file = :output_file, filename = :filename
		where id = :id`,
		modelJobToJobSqlite(j))
	if err != nil {
		return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}
	return affectedOne(res, j.ID)
}

// 返されるエラー
// - errutil.ErrDatabaseNotFound
func (c *client) Delete(ctx context.Context, id int64) error {
	res, err := c.DB.ExecContext(ctx, `delete from jobs where id = ?`, id)
	if err != nil {
		return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}
	return affectedOne(res, id)
}

func affectedOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}
	if n == 0 {
		return errors.Wrapf(errutil.ErrDatabaseNotFound, "job %d", id)
	}
	return nil
}
