package kernel

import "pandos/internal/hardware"

// HandleException is the general exception handler entry point: it reads
// Cause.ExcCode out of the saved state the BIOS left at trap time and
// demultiplexes to the interrupt, TLB, or SYSCALL/program-trap path. It is
// the single function the pass-up vector's exception_handler field points
// to.
func (k *Kernel) HandleException(saved *hardware.ProcessorState) {
	code := hardware.ExcCode(saved.Cause)

	switch {
	case code == hardware.ExcInterrupt:
		k.handleInterrupt(saved)
	case hardware.IsTLBException(code):
		k.passUpOrDie(PageFaultException, saved)
	case code == hardware.ExcSyscall:
		k.handleSyscall(saved)
	default:
		// every other program-trap exception class (address error, bus
		// error, reserved instruction, overflow, ...) is passed up the
		// same way a TLB exception would be, just tagged GeneralException.
		k.passUpOrDie(GeneralException, saved)
	}
}

// passUpOrDie implements "pass up or die": if Current has a support
// structure, the saved exception state is copied into the matching
// sup_exceptState slot and control resumes at the matching
// sup_exceptContext via LDCXT. Otherwise Current (and all its progeny) are
// terminated and the scheduler is invoked, exactly as a SYS2 would.
func (k *Kernel) passUpOrDie(kind int, saved *hardware.ProcessorState) {
	cur := k.Procs.Get(k.Current)
	if cur.Support != nil {
		cur.Support.ExceptState[kind].CopyFrom(saved)
		k.chargeCurrent()
		k.BIOS.LDCXT(cur.Support.ExceptContext[kind])
		return
	}
	pid := k.Current
	k.terminateProcess(pid)
	k.Current = NoPID
	k.Scheduler()
}
