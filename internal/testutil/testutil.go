package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sobadon/tvrd/internal/timeutil"
)

// errors.Is に nil も扱えるようにしたもの
// 第一引数に gotErr
// 第二引数に wantErr が期待されている
func ErrorsIs(err error, target error) bool {
	// nil と nil の比較のため
	if err == nil || target == nil {
		return err == target
	}
	return errors.Is(err, target)
}

func TempFilename(t testing.TB) string {
	t.Helper()
	f, err := os.CreateTemp("", "tvrd-")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

// テストで使うタイムゾーン
func Location() *time.Location {
	return timeutil.LoadLocation("America/Chicago")
}

func Time(year int, month time.Month, day, hour, minute, sec int) time.Time {
	return time.Date(year, month, day, hour, minute, sec, 0, Location())
}
