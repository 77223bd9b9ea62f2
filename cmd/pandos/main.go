package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	log     = logrus.New()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pandos",
		Short: "Pandos kernel simulator",
		Long: `pandos drives the process/sync store, nucleus, and VM support layer
as a running machine: each scenario spawns one or more user processes and
blocks until they all terminate.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newBootCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newPsCmd())
	root.AddCommand(newSemaCmd())
	root.AddCommand(newConsoleCmd())
	return root
}

func main() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Fatal("pandos exited with an error")
		os.Exit(1)
	}
}
