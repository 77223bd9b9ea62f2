// Package testprogs holds the U-proc bodies instantiated for end-to-end
// scenarios: each is a func(*boot.ProcessHandle, int), the shape
// boot.Instantiator spawns, corresponding to one of the original nucleus's
// hand-written test programs.
package testprogs

import (
	"pandos/internal/boot"
	"pandos/internal/support"
)

// writeTerminal is every tester's print(WRITETERMINAL, msg) call: register
// the string as a buffer and hand it to SYS12.
func writeTerminal(h *boot.ProcessHandle, s string) {
	buf := []byte(s)
	h.Syscall(support.SYS12, h.RegisterBuffer(buf), uint32(len(buf)), 0)
}

// terminate is every tester's closing SYSCALL(TERMINATE, 0, 0, 0) (SYS9).
func terminate(h *boot.ProcessHandle) {
	h.Syscall(support.SYS9, 0, 0, 0)
}
