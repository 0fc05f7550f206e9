package metadata

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/repository"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/fileutil"
)

const source = "HDHomeRun"

type metadataFile struct {
	RecordingInfo recordingInfo `json:"recording_info"`
	TechnicalInfo technicalInfo `json:"technical_info"`
}

type recordingInfo struct {
	Title           string `json:"title"`
	EpisodeTitle    string `json:"episode_title"`
	SeasonNumber    string `json:"season_number"`
	EpisodeNumber   string `json:"episode_number"`
	OriginalAirDate string `json:"original_air_date"`
	RecordingDate   string `json:"recording_date"`
	RecordingTime   string `json:"recording_time"`
	Channel         string `json:"channel"`
	ChannelNumber   string `json:"channel_number"`
	CallSign        string `json:"call_sign"`
	Description     string `json:"description"`
	Genre           string `json:"genre"`
	Rating          string `json:"rating"`
	Year            string `json:"year"`

	// 分
	Duration int `json:"duration"`
}

type technicalInfo struct {
	Filename        string `json:"filename"`
	ScheduledAt     string `json:"scheduled_at"`
	RecordingFormat string `json:"recording_format"`
	Source          string `json:"source"`
}

type writer struct {
	archiveDir string
}

func New(archiveDir string) repository.MetadataWriter {
	return &writer{archiveDir: archiveDir}
}

// 録画ファイルと同じ場所に "<base>.metadata.json" を書く
func (w *writer) Write(ctx context.Context, j job.Job) error {
	recording := j.OutputFile
	if recording == "" {
		if j.Filename == "" {
			return errors.Wrapf(errutil.ErrFileWrite, "job %d has no filename", j.ID)
		}
		recording = filepath.Join(w.archiveDir, j.Filename)
	}
	path := fileutil.MetadataName(recording)

	b, err := json.MarshalIndent(jobToMetadataFile(j, filepath.Base(recording)), "", "  ")
	if err != nil {
		return errors.Wrap(errutil.ErrJSONEncode, err.Error())
	}
	if err := fileutil.MkdirAllIfNotExist(filepath.Dir(path)); err != nil {
		return errors.Wrap(errutil.ErrFileWrite, err.Error())
	}
	if err := fileutil.WriteFileAtomic(path, b); err != nil {
		return err
	}

	log.Ctx(ctx).Debug().Msgf("metadata saved to %s", path)
	return nil
}

func jobToMetadataFile(j job.Job, filename string) metadataFile {
	return metadataFile{
		RecordingInfo: recordingInfo{
			Title:           j.Title,
			EpisodeTitle:    j.EpisodeTitle,
			SeasonNumber:    j.SeasonNumber,
			EpisodeNumber:   j.EpisodeNumber,
			OriginalAirDate: j.OriginalAirDate,
			RecordingDate:   j.Date,
			RecordingTime:   j.Time,
			Channel:         j.ChannelName,
			ChannelNumber:   j.ChannelNumber,
			CallSign:        j.CallSign,
			Description:     j.Description,
			Genre:           j.Genre,
			Rating:          j.Rating,
			Year:            j.Year,
			Duration:        j.DurationMinutes,
		},
		TechnicalInfo: technicalInfo{
			Filename:        filename,
			ScheduledAt:     j.CreatedAt.Format(time.RFC3339),
			RecordingFormat: j.Encoding.WithDefaults(job.DefaultEncoding()).Format.String(),
			Source:          source,
		},
	}
}
