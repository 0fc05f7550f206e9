package errutil

import (
	"errors"
)

type InternalError struct {
	err error
}

func NewInternalError(msg string) InternalError {
	return InternalError{err: errors.New(msg)}
}

func (e InternalError) Error() string {
	return e.err.Error()
}

// 利用者に伝えれば済むもの（システム障害ではないもの）
func IsUserFacing(err error) bool {
	for _, target := range []error{ErrDuplicateJob, ErrJobNotFound, ErrNoCandidates, ErrOptionOutOfRange, ErrTunerBusy, ErrCaptureNotFound, ErrGuideUnavailable, ErrUnsupportedCommand, ErrInvalidRequest} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
