package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sobadon/tvrd/internal/errutil"
)

const (
	StatusCaptures       = "capture_status"
	StatusCaptureStarted = "capture_started"
	StatusCaptureStopped = "capture_stopped"
)

// 録画そのものを操作する短いコマンド
//   - "status"
//   - "stop <capture id>"
//   - "record now <channel> <minutes>"
//
// 該当しなければ ok = false で、通常のコマンドとして扱う
func (s *Service) Control(ctx context.Context, text string) (res Result, ok bool) {
	fields := strings.Fields(strings.ToLower(text))
	switch {
	case len(fields) == 1 && fields[0] == "status":
		return Result{Status: StatusCaptures, Payload: s.CaptureStatus()}, true

	case len(fields) >= 1 && fields[0] == "stop":
		if len(fields) != 2 {
			return failed(ctx, errors.Wrap(errutil.ErrInvalidRequest, "Usage: stop <capture id>")), true
		}
		// id は元の表記のまま
		id := strings.Fields(text)[1]
		if err := s.StopCapture(ctx, id); err != nil {
			return failed(ctx, err), true
		}
		return Result{Status: StatusCaptureStopped, Message: "Stop requested for capture " + id}, true

	case len(fields) >= 2 && fields[0] == "record" && fields[1] == "now":
		if len(fields) != 4 {
			return failed(ctx, errors.Wrap(errutil.ErrInvalidRequest, "Usage: record now <channel> <minutes>")), true
		}
		minutes, err := strconv.Atoi(fields[3])
		if err != nil {
			return failed(ctx, errors.Wrapf(errutil.ErrInvalidRequest, "Invalid duration %q", fields[3])), true
		}
		st, err := s.RecordNow(ctx, fields[2], minutes)
		if err != nil {
			return failed(ctx, err), true
		}
		return Result{Status: StatusCaptureStarted, Message: "Recording channel " + st.ChannelNumber + " to " + st.OutputPath, Payload: st}, true
	}
	return Result{}, false
}
