package guide

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sobadon/tvrd/cmd/tvrd/app"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "guide",
		Short: "inspect the program guide",
	}
	rootCmd.AddCommand(refreshCommand(), searchCommand())
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

func refreshCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "fetch the guide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.Service.RefreshGuide(ctx, force)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d entries\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "ignore the cache age")
	return cmd
}

func searchCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "search the guide",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "SCORE\tDATE\tTIME\tCHANNEL\tTITLE")
				for _, c := range a.Service.SearchGuide(ctx, q, days) {
					fmt.Fprintf(w, "%.0f\t%s\t%s\t%s\t%s\n", c.Score, c.Entry.Date, c.Entry.Time, c.Entry.ChannelNumber, c.Entry.DisplayTitle())
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "how many days ahead to search")
	return cmd
}
