package kernel

import "pandos/internal/hardware"

// NeverTimeout is the PLT load value used while WAITing for a device
// interrupt — large enough that it never legitimately expires.
const NeverTimeout = 0xFFFFFFFF

// Scheduler implements preemptive round-robin scheduling with a 5ms
// quantum, plus the three-way idle/deadlock check the original module
// performs when the Ready Queue is empty. It never returns under normal
// operation: each branch ends either by transferring control to a process
// (LDST) or by invoking a BIOS control instruction (HALT/WAIT/PANIC).
func (k *Kernel) Scheduler() {
	pid := k.Procs.RemoveQueue(&k.Ready)
	if pid != NoPID {
		k.Current = pid
		k.BIOS.LoadPLT(InitialPLT)
		k.resumeCurrent()
		return
	}

	switch {
	case k.ProcCount == 0:
		k.Log.Info("no processes remain; halting")
		k.BIOS.HALT()

	case k.ProcCount > 0 && k.SoftBlockCount > 0:
		k.Log.Debug("ready queue empty, waiting on I/O")
		k.BIOS.SetStatus(k.BIOS.GetStatus() | hardware.StatusIEc | hardware.StatusIntMaskAll)
		k.BIOS.LoadPLT(NeverTimeout)
		k.BIOS.WAIT()

	default:
		k.Log.Error("deadlock: processes exist, none ready, none soft-blocked")
		k.BIOS.PANIC("deadlock: no ready or soft-blocked process")
	}
}
