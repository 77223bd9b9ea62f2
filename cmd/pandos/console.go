package main

import (
	"os"

	"pandos/internal/boot"
	"pandos/internal/testprogs"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Drive a single interactive terminal scenario from this process's own stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole()
		},
	}
}

// runConsole puts the controlling terminal into raw mode — the same
// keypress-by-keypress capture mode the teacher's MIPS VM uses for
// interactive stepping — and relays each byte typed into the simulated
// terminal device's read queue, restoring the terminal on exit regardless
// of how the scenario finishes.
func runConsole() error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	entry := log.WithField("cmd", "console")
	m := boot.NewMachine(entry)
	m.Stdout = os.Stdout
	in := m.TermInput(0)

	go func() {
		buf := make([]byte, 1)
		for {
			if _, err := os.Stdin.Read(buf); err != nil {
				return
			}
			b := buf[0]
			if b == '\r' {
				b = '\n'
			}
			os.Stdout.Write([]byte{b})
			in <- b
		}
	}()

	m.Boot(boot.Instantiator([]func(*boot.ProcessHandle, int){testprogs.Console}))
	<-m.Done
	return nil
}
