package errutil

var (
	ErrHTTPRequest        = NewInternalError("http request error")
	ErrJSONDecode         = NewInternalError("json decode error")
	ErrJSONEncode         = NewInternalError("json encode error")
	ErrTimeParse          = NewInternalError("time parse error")
	ErrGetGuideNotOK      = NewInternalError("http get guide status code not ok")
	ErrGetLineupNotOK     = NewInternalError("http get lineup status code not ok")
	ErrGuideUnavailable   = NewInternalError("guide unavailable")
	ErrDatabaseOpen       = NewInternalError("database open error")
	ErrDatabaseQuery      = NewInternalError("database query error")
	ErrDatabaseScan       = NewInternalError("database scan error")
	ErrDatabaseNotFound   = NewInternalError("database not found job")
	ErrFileWrite          = NewInternalError("file write error")
	ErrFileRead           = NewInternalError("file read error")
	ErrFfmpeg             = NewInternalError("ffmpeg error")
	ErrRemux              = NewInternalError("remux error")
	ErrScheduler          = NewInternalError("scheduler error")
	ErrLocked             = NewInternalError("another instance holds the lock")
	ErrDuplicateJob       = NewInternalError("duplicate job")
	ErrJobNotFound        = NewInternalError("job not found")
	ErrInvalidTransition  = NewInternalError("invalid job status transition")
	ErrTunerBusy          = NewInternalError("no tuner available")
	ErrCaptureNotFound    = NewInternalError("capture not found")
	ErrNoCandidates       = NewInternalError("no candidate list for requester")
	ErrOptionOutOfRange   = NewInternalError("option out of range")
	ErrUnsupportedCommand = NewInternalError("unsupported command")
	ErrInvalidRequest     = NewInternalError("invalid request")
	// 分類できない系
	ErrInternal = NewInternalError("internal something error")
)
