package run

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/sobadon/tvrd/cmd/tvrd/app"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/sobadon/tvrd/internal/logutil"
	"github.com/sobadon/tvrd/internal/metrics"
	"github.com/sobadon/tvrd/usecase"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var shell bool
	rootCmd := &cobra.Command{
		Use:   "run",
		Short: "run the recorder daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, shell)
		},
	}
	rootCmd.Flags().BoolVar(&shell, "shell", false, "read commands from stdin")
	return rootCmd
}

func run(cmd *cobra.Command, shell bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.Logger
	ctx = log.WithContext(ctx)
	log.Info().Msg("start")

	metrics.Serve(ctx, a.Config.MetricsAddr)

	scheduler := gocron.NewScheduler(a.Location)

	jobTrigger := func(ctx context.Context, job gocron.Job) {
		ctx = logutil.JobLogger(log, "trigger", job.RunCount()).WithContext(ctx)
		a.Service.Tick(ctx, time.Now())
	}
	_, err = scheduler.Every(a.Config.TriggerInterval).SingletonMode().DoWithJobDetails(jobTrigger, ctx)
	if err != nil {
		return errors.Wrap(errutil.ErrScheduler, err.Error())
	}

	jobGuide := func(ctx context.Context, job gocron.Job) {
		ctx = logutil.JobLogger(log, "guide", job.RunCount()).WithContext(ctx)
		zlog.Ctx(ctx).Info().Msg("job start")
		n, err := a.Service.RefreshGuide(ctx, false)
		if err != nil {
			zlog.Ctx(ctx).Error().Msgf("%+v", err)
			return
		}
		zlog.Ctx(ctx).Info().Msgf("guide has %d entries", n)
	}
	_, err = scheduler.Every(a.Config.GuideRefreshInterval).SingletonMode().DoWithJobDetails(jobGuide, ctx)
	if err != nil {
		return errors.Wrap(errutil.ErrScheduler, err.Error())
	}

	scheduler.StartAsync()

	if shell {
		go func() {
			requester := uuid.NewString()
			readCommands(ctx, a.Service, requester, cmd.InOrStdin(), cmd.OutOrStdout())
			// 入力が終わったら止める
			stop()
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")
	scheduler.Stop()

	shutdownCtx := log.WithContext(context.Background())
	a.Service.Shutdown(shutdownCtx)
	log.Info().Msg("bye")
	return nil
}

type commander interface {
	Control(ctx context.Context, text string) (usecase.Result, bool)
	Command(ctx context.Context, requester, text, channel string) usecase.Response
}

// 1 行 1 コマンド
// 結果は JSON で 1 行ずつ書き出す
// 録画の操作 (status, stop, record now) はその場で実行し、それ以外は解釈してから実行する
func readCommands(ctx context.Context, svc commander, requester string, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	enc := json.NewEncoder(out)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text != "" {
			var v interface{}
			if res, ok := svc.Control(ctx, text); ok {
				v = res
			} else {
				v = svc.Command(ctx, requester, text, "")
			}
			if err := enc.Encode(v); err != nil {
				zlog.Ctx(ctx).Error().Err(err).Msg("failed to write response")
			}
		}
		fmt.Fprint(out, "> ")
	}
}
