package main

import (
	"os"

	"pandos/internal/boot"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "run [scenario]",
		Short:     "Run a single scenario (ack, hanoi, swap)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: scenarioNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := lookupScenario(args[0])
			if err != nil {
				return err
			}
			entry := log.WithField("scenario", args[0])
			m := boot.Run(entry, os.Stdout, []func(*boot.ProcessHandle, int){fn})
			entry.WithField("remaining_procs", len(m.K.Procs.Active())).Info("scenario finished")
			return nil
		},
	}
}
