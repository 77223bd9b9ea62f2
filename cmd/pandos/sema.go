package main

import (
	"fmt"
	"io"
	"os"

	"pandos/internal/boot"
	"pandos/internal/kernel"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newSemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sema",
		Short: "Run the default scenario set and dump the Active Semaphore List once the machine halts",
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := log.WithField("cmd", "sema")
			m := boot.Run(entry, io.Discard, defaultPrograms())
			printASL(os.Stdout, m.K)
			return nil
		},
	}
}

// printASL renders every semaphore the ASL still tracks and who's blocked
// on it — at halt this should always be empty, the sync-side counterpart
// to ps's process-leak check.
func printASL(w io.Writer, k *kernel.Kernel) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Semaphore", "Waiting PIDs"})
	for _, s := range k.Sems.Active(k.Procs) {
		table.Append([]string{
			fmt.Sprintf("%p", s.Addr),
			fmt.Sprintf("%v", s.Waiting),
		})
	}
	table.Render()
}
