package fileutil

import (
	"os"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	"github.com/sobadon/tvrd/internal/errutil"
)

var spaces = regexp.MustCompile(`\s+`)

// ファイル名に使えない・面倒なようなものを取り除く
func SanitizeName(name string) string {
	rep := strings.NewReplacer(
		"<", "",
		">", "",
		":", "",
		`"`, "",
		"/", "",
		`\`, "",
		"|", "",
		"?", "",
		"*", "",
		"\n", " ",
		"\t", " ",
	)
	return strings.TrimSpace(spaces.ReplaceAllString(rep.Replace(name), " "))
}

func MkdirAllIfNotExist(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// 一時ファイルに書いてから rename する
// 途中で落ちても path には古い内容か新しい内容のどちらかが残る
func WriteFileAtomic(path string, data []byte) (err error) {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return errors.Wrap(errutil.ErrFileWrite, err.Error())
	}
	defer func() {
		if cerr := pending.Cleanup(); cerr != nil && err == nil {
			err = errors.Wrap(errutil.ErrFileWrite, cerr.Error())
		}
	}()

	if _, err := pending.Write(data); err != nil {
		return errors.Wrap(errutil.ErrFileWrite, err.Error())
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errors.Wrap(errutil.ErrFileWrite, err.Error())
	}
	return nil
}
