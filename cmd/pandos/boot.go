package main

import (
	"os"

	"pandos/internal/boot"

	"github.com/spf13/cobra"
)

func newBootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boot",
		Short: "Boot the machine with the canonical Ackermann/Hanoi/SwapStress scenario set",
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := log.WithField("cmd", "boot")
			m := boot.Run(entry, os.Stdout, defaultPrograms())
			entry.WithField("remaining_procs", len(m.K.Procs.Active())).Info("machine halted")
			return nil
		},
	}
}
