package kernel

import "pandos/internal/hardware"

// lineCauseShift positions device-line bits 3-7 within Cause (bits 11-15);
// lines 1 (PLT) and 2 (interval timer) are hardware.CausePLTInterrupt and
// hardware.CauseClockInterrupt.
const lineCauseShift = hardware.StatusIntMaskShift

// handleInterrupt is intTrapH: it resolves which pending interrupt has
// highest priority (PLT, then the system-wide interval timer, then device
// lines 3-7 in ascending order) and dispatches to the matching handler.
// CPU time spent here is charged to whichever process the interrupt
// actually concerns, per the original's timing policy — to Current for a
// PLT interrupt, to nobody for the interval timer, and to the unblocked
// I/O-requesting process for a device interrupt.
func (k *Kernel) handleInterrupt(saved *hardware.ProcessorState) {
	interruptTOD := k.BIOS.ReadTOD()
	remaining := k.BIOS.ReadPLT()

	switch {
	case saved.Cause&hardware.CausePLTInterrupt != 0:
		k.handlePLTInterrupt(saved)
	case saved.Cause&hardware.CauseClockInterrupt != 0:
		k.handleIntervalTimer(remaining)
	default:
		k.handleIOInterrupt(saved, interruptTOD, remaining)
	}
}

// handlePLTInterrupt handles a Processor Local Timer expiry: Current's
// quantum is up, so it goes back on the Ready Queue and the scheduler
// picks the next process.
func (k *Kernel) handlePLTInterrupt(saved *hardware.ProcessorState) {
	if k.Current == NoPID {
		k.BIOS.PANIC("PLT interrupt with no current process")
		return
	}
	k.BIOS.LoadPLT(NeverTimeout)
	cur := k.Procs.Get(k.Current)
	cur.State.CopyFrom(saved)
	k.chargeCurrent()
	k.Procs.InsertQueue(&k.Ready, k.Current)
	k.Current = NoPID
	k.Scheduler()
}

// handleIntervalTimer handles the 100ms system-wide interval timer: every
// process blocked on the pseudo-clock semaphore is unblocked and the
// semaphore is reset to zero. No CPU time is charged to anyone for this
// work, since none of it is done on any process's behalf.
func (k *Kernel) handleIntervalTimer(remaining uint32) {
	k.BIOS.Bus().IntervalTimer = InitialIntervalTimer
	sem := k.DeviceSemAddr(PseudoClockIndex)
	for k.Sems.HeadBlocked(k.Procs, sem) != NoPID {
		pid := k.Sems.RemoveBlocked(k.Procs, sem)
		k.Procs.InsertQueue(&k.Ready, pid)
		k.SoftBlockCount--
	}
	*sem = InitialDeviceSemaphore

	if k.Current != NoPID {
		k.BIOS.LoadPLT(remaining)
		k.resumeCurrent()
		return
	}
	k.Scheduler()
}

// handleIOInterrupt handles an interrupt on device lines 3-7: it
// identifies the (line, device) pair, acknowledges the device, performs
// the implicit V on that device's semaphore, and either resumes Current or
// invokes the scheduler.
func (k *Kernel) handleIOInterrupt(saved *hardware.ProcessorState, interruptTOD uint64, remaining uint32) {
	bus := k.BIOS.Bus()
	line := highestPriorityLine(saved.Cause)
	devNum := highestPriorityDevice(bus.InterruptPending[line-hardware.LineDisk])
	index := (line-hardware.LineDisk)*hardware.DevPerLine + devNum
	dev := bus.Device(line, devNum)

	// A terminal multiplexes two independent sub-devices (receiver,
	// transmitter) onto one interrupt-pending bit; real hardware tells them
	// apart by which status register actually changed. Here, where the
	// device registers are just memory this package itself writes, the
	// simulator that drives completion knows which one it finished — it
	// reports that by which semaphore (read or write) actually has a
	// blocked waiter, checked write-first since a write is what a terminal
	// driver normally issues before ever reading a reply.
	writeIndex := index + hardware.DevPerLine
	var statusCode uint32
	var semIndex int
	if line == hardware.LineTerminal && k.Sems.HeadBlocked(k.Procs, k.DeviceSemAddr(writeIndex)) != NoPID {
		statusCode = dev.Data1
		dev.Data0 = hardware.DevCmdAck
		semIndex = writeIndex
	} else {
		statusCode = dev.Status
		dev.Command = hardware.DevCmdAck
		semIndex = index
	}

	sem := k.DeviceSemAddr(semIndex)
	unblocked := k.Sems.RemoveBlocked(k.Procs, sem)
	*sem++

	if unblocked == NoPID {
		k.resumeOrSchedule(remaining)
		return
	}

	unblockedPCB := k.Procs.Get(unblocked)
	unblockedPCB.State.SetV0(statusCode)
	k.Procs.InsertQueue(&k.Ready, unblocked)
	k.SoftBlockCount--

	if k.Current != NoPID {
		cur := k.Procs.Get(k.Current)
		cur.State.CopyFrom(saved)
		k.BIOS.LoadPLT(remaining)
		now := k.BIOS.ReadTOD()
		cur.Time += int64(interruptTOD - k.StartTOD)
		unblockedPCB.Time += int64(now - interruptTOD)
		k.StartTOD = now
		k.resumeCurrent()
		return
	}
	k.Scheduler()
}

func (k *Kernel) resumeOrSchedule(remaining uint32) {
	if k.Current != NoPID {
		k.BIOS.LoadPLT(remaining)
		k.resumeCurrent()
		return
	}
	k.Scheduler()
}

// highestPriorityLine picks the lowest-numbered pending device line out of
// the saved Cause register's per-line interrupt bits.
func highestPriorityLine(cause uint32) int {
	for line := hardware.LineDisk; line <= hardware.LineTerminal; line++ {
		if cause&(1<<(lineCauseShift+uint(line))) != 0 {
			return line
		}
	}
	return hardware.LineTerminal
}

// highestPriorityDevice returns the lowest-numbered set bit in a line's
// interrupt-pending bitmap.
func highestPriorityDevice(bitmap uint32) int {
	for dev := 0; dev < hardware.DevPerLine; dev++ {
		if bitmap&(1<<uint(dev)) != 0 {
			return dev
		}
	}
	return hardware.DevPerLine - 1
}
