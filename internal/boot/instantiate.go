package boot

import (
	"pandos/internal/hardware"
	"pandos/internal/kernel"
	"pandos/internal/support"
)

// Instantiator is test()'s Go equivalent: the body of the process Boot
// launches as PID 0. It builds one support structure per user process,
// spawns up to kernel.UprocMax processes to run the given program bodies,
// and blocks on MasterSemHandle once per child so the whole machine halts
// only once every user process has terminated via SYS9 — exactly the
// original's reason for P'ing masterSemaphore UprocMax times instead of
// just falling off the end of test().
func Instantiator(programs []func(*ProcessHandle, int)) func(*ProcessHandle) {
	return func(h *ProcessHandle) {
		// The swap and per-device mutex handles start at 0 like any fresh
		// semaphore, so each is V'd once here to make it a mutex.
		h.Syscall(kernel.SYS4, support.SwapSemHandle, 0, 0)

		spawned := 0
		for i := 0; i < len(programs) && spawned < kernel.UprocMax; i++ {
			asid := spawned + 1
			for _, line := range []int{hardware.LinePrinter, hardware.LineTerminal} {
				h.Syscall(kernel.SYS4, support.PrinterSemBase+uint32(line)<<8+uint32(asid), 0, 0)
			}
			supp := &kernel.SupportStruct{ASID: asid}
			for pg := range supp.PageTable {
				supp.PageTable[pg].EntryHi = uint32(pg)<<12 | uint32(asid)<<6
			}

			state := hardware.ProcessorState{Status: hardware.StatusIEc}
			program := programs[i]
			body := func(uh *ProcessHandle) { program(uh, asid) }

			if _, ok := h.Spawn(state, supp, body); !ok {
				break
			}
			spawned++
		}

		for k := 0; k < spawned; k++ {
			h.Syscall(kernel.SYS3, support.MasterSemHandle, 0, 0)
		}
	}
}
