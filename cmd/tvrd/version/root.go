package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ビルド時に -ldflags "-X github.com/sobadon/tvrd/cmd/tvrd/version.version=..." で埋め込む
var version = "dev"

func Command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "version",
		Short: "show version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tvrd %s\n", version)
			return nil
		},
	}
	return rootCmd
}
