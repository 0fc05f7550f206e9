package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sobadon/tvrd/cmd/tvrd/app"
	"github.com/sobadon/tvrd/internal/errutil"
	"github.com/spf13/cobra"
)

// デーモンが動いている間はロックが取れないので使えない
func Command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jobs",
		Short: "manage scheduled recordings",
	}
	rootCmd.AddCommand(listCommand(), cancelCommand(), cancelSeriesCommand())
	return rootCmd
}

func withApp(cmd *cobra.Command, f func(ctx context.Context, a *app.App) error) error {
	a, err := app.New(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	return f(a.Logger.WithContext(cmd.Context()), a)
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(a.Service.ListJobs()); err != nil {
					return errors.Wrap(errutil.ErrJSONEncode, err.Error())
				}
				return nil
			})
		},
	}
}

func cancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "cancel a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(errutil.ErrJobNotFound, "invalid job id %q", args[0])
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				j, err := a.Service.CancelJob(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cancelled job %d: %s\n", j.ID, j.Title)
				return nil
			})
		},
	}
}

func cancelSeriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-series <title>",
		Short: "cancel a recurring rule and its pending recordings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.Service.CancelSeries(ctx, title)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cancelled %d jobs of %q\n", n, title)
				return nil
			})
		},
	}
}
