package boot

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Run builds a fresh Machine, boots PID 0 running an instantiator over
// programs, and blocks until the machine halts (every process, including
// the instantiator, has terminated). It is the single entry point
// cmd/pandos uses for every scenario. stdout receives every character a
// WRITETERMINAL/WRITEPRINTER syscall transmits; pass nil to discard it.
func Run(log *logrus.Entry, stdout io.Writer, programs []func(*ProcessHandle, int)) *Machine {
	m := NewMachine(log)
	if stdout != nil {
		m.Stdout = stdout
	}
	m.Boot(Instantiator(programs))
	<-m.Done
	return m
}
