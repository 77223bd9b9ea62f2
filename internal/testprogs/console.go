package testprogs

import (
	"pandos/internal/boot"
	"pandos/internal/support"
)

// Console is an interactive echo loop: it reads a line from its terminal
// and writes it straight back, until it reads "quit\n". There is no
// original tester this is grounded on — it exists to exercise SYS13
// (READTERMINAL) and the interactive console path end to end, the two
// things none of the original three testers ever touch.
func Console(h *boot.ProcessHandle, asid int) {
	writeTerminal(h, "pandos console ready (type 'quit' to exit)\n")

	for {
		buf := make([]byte, support.MaxStrLen)
		n := h.Syscall(support.SYS13, h.RegisterBuffer(buf), 0, 0)
		line := buf[:n]

		if string(line) == "quit\n" {
			break
		}
		writeTerminal(h, "echo: ")
		h.Syscall(support.SYS12, h.RegisterBuffer(line), n, 0)
	}

	terminate(h)
}
