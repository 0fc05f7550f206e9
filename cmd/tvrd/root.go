package main

import (
	"log"

	"github.com/sobadon/tvrd/cmd/tvrd/guide"
	"github.com/sobadon/tvrd/cmd/tvrd/jobs"
	"github.com/sobadon/tvrd/cmd/tvrd/run"
	"github.com/sobadon/tvrd/cmd/tvrd/version"
	"github.com/spf13/cobra"
)

func main() {
	execute()
}

func execute() {
	var rootCmd = &cobra.Command{
		Use:           "tvrd",
		Short:         "record broadcast tv from the guide",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(run.Command())
	rootCmd.AddCommand(jobs.Command())
	rootCmd.AddCommand(guide.Command())
	rootCmd.AddCommand(version.Command())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
