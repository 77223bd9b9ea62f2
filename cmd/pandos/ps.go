package main

import (
	"fmt"
	"io"
	"os"

	"pandos/internal/boot"
	"pandos/internal/kernel"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newPsCmd() *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "ps",
		Short: "Run the default scenario set and dump the process table once the machine halts",
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := log.WithField("cmd", "ps")
			m := boot.Run(entry, io.Discard, defaultPrograms())
			printProcessTable(os.Stdout, m.K)
			if dump {
				spew.Fdump(os.Stdout, m.K.Procs.Active())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "also spew.Dump the raw PID list")
	return cmd
}

// printProcessTable renders every still-allocated PID — at halt this
// should always be empty, since every user process terminates via SYS9 and
// the instantiator waits on MasterSemHandle for all of them — which makes
// the table a quick leak check as much as a status report.
func printProcessTable(w io.Writer, k *kernel.Kernel) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "CPU time (us)", "Blocked"})
	for _, pid := range k.Procs.Active() {
		pcb := k.Procs.Get(pid)
		table.Append([]string{
			fmt.Sprintf("%d", pid),
			fmt.Sprintf("%d", pcb.Time),
			fmt.Sprintf("%t", pcb.SemAdd != nil),
		})
	}
	table.Render()
}
