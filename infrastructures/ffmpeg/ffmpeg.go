package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/domain/model/job"
	"github.com/sobadon/tvrd/domain/model/recorder"
	"github.com/sobadon/tvrd/domain/repository"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/fileutil"
)

type tool struct {
	command string

	// テスト時に command の前に差し込む引数
	prefixArgs []string
}

// command が空なら PATH 上の ffmpeg
func New(command string) repository.CaptureTool {
	if command == "" {
		command = "ffmpeg"
	}
	return &tool{command: command}
}

// ffmpeg -i <url> -t <sec> -c:v libx264 -preset <p> -crf <n> <audio> -y <path>
func BuildArgs(inv recorder.Invocation) []string {
	enc := inv.Encoding.WithDefaults(job.DefaultEncoding())
	args := []string{
		"-i", inv.InputURL,
		"-t", strconv.Itoa(int(inv.Duration.Seconds())),
		"-c:v", "libx264",
		"-preset", enc.Preset,
		"-crf", strconv.Itoa(enc.CRF),
	}
	switch enc.Format {
	case job.FormatTS:
		args = append(args, "-c:a", "ac3", "-b:a", "192k")
	default:
		args = append(args, "-c:a", "aac", "-b:a", "160k", "-movflags", "+faststart")
	}
	return append(args, "-y", inv.OutputPath)
}

func (t *tool) args(args []string) []string {
	return append(append([]string{}, t.prefixArgs...), args...)
}

// ctx はキャプチャの寿命に使わない
// 止めるときは RequestStop で ffmpeg 自身に終了させる
func (t *tool) Start(ctx context.Context, inv recorder.Invocation) (repository.CaptureHandle, error) {
	if err := fileutil.MkdirAllIfNotExist(filepath.Dir(inv.OutputPath)); err != nil {
		return nil, errors.Wrap(errutil.ErrInternal, err.Error())
	}

	cmd := exec.Command(t.command, t.args(BuildArgs(inv))...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(errutil.ErrFfmpeg, err.Error())
	}
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	log.Ctx(ctx).Debug().Msg(cmd.String())
	if err := cmd.Start(); err != nil {
		pw.Close()
		return nil, errors.Wrap(errutil.ErrFfmpeg, err.Error())
	}

	h := &handle{
		cmd:    cmd,
		stdin:  stdin,
		output: pr,
		done:   make(chan struct{}),
	}
	go func() {
		h.err = cmd.Wait()
		pw.Close()
		close(h.done)
	}()
	return h, nil
}

// 一時ファイルに書き出してから差し替える
// 失敗したら元のファイルはそのまま
func (t *tool) Remux(ctx context.Context, path string) error {
	tmp := strings.TrimSuffix(path, filepath.Ext(path)) + ".remux.mp4"
	cmd := exec.CommandContext(ctx, t.command, t.args([]string{"-i", path, "-c", "copy", "-movflags", "+faststart", "-y", tmp})...)
	log.Ctx(ctx).Debug().Msg(cmd.String())

	out, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tmp)
		return errors.Wrapf(errutil.ErrRemux, "%s: %s", err.Error(), lastLine(out))
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errutil.ErrRemux, err.Error())
	}
	return nil
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return lines[len(lines)-1]
}

type handle struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	output io.Reader

	mu      sync.Mutex
	stopped bool

	done chan struct{}
	err  error
}

// 読み切らないと ffmpeg が止まる
func (h *handle) Output() io.Reader {
	return h.output
}

func (h *handle) RequestStop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return nil
	}
	h.stopped = true

	select {
	case <-h.done:
		return nil
	default:
	}
	if _, err := io.WriteString(h.stdin, "q\n"); err != nil {
		return errors.Wrap(errutil.ErrFfmpeg, err.Error())
	}
	return nil
}

func (h *handle) Wait() error {
	<-h.done
	if h.err != nil {
		return errors.Wrap(errutil.ErrFfmpeg, fmt.Sprintf("pid %d: %s", h.Pid(), h.err.Error()))
	}
	return nil
}

func (h *handle) Pid() int {
	return h.cmd.Process.Pid
}
